package ir

import "testing"

func TestTypeRegistrySetGet(t *testing.T) {
	r := NewTypeRegistry()
	scalar := ScalarType{Id: 1, Kind: ScalarFloat, Bits: 32}
	if err := r.Set(1, scalar); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := r.Get(1)
	if !ok {
		t.Fatal("expected type to be registered")
	}
	if got.(ScalarType).Bits != 32 {
		t.Fatalf("got bits %d, want 32", got.(ScalarType).Bits)
	}
	if r.Count() != 1 {
		t.Fatalf("got count %d, want 1", r.Count())
	}
}

func TestTypeRegistryDuplicateFails(t *testing.T) {
	r := NewTypeRegistry()
	scalar := ScalarType{Id: 1, Kind: ScalarInt, Bits: 32, IsSigned: true}
	if err := r.Set(1, scalar); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Set(1, scalar); err == nil {
		t.Fatal("expected duplicate error, got nil")
	}
}

func TestTypeRegistryForwardPointerPatched(t *testing.T) {
	r := NewTypeRegistry()
	if err := r.Set(5, ForwardPointerType{Id: 5, StoreClass: StorageClassUniform}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	real := PointerType{Id: 5, StoreClass: StorageClassUniform, Pointee: ScalarType{Id: 1, Kind: ScalarFloat, Bits: 32}}
	if err := r.Set(5, real); err != nil {
		t.Fatalf("expected forward pointer patch to succeed, got: %v", err)
	}
	got, _ := r.Get(5)
	if _, ok := got.(PointerType); !ok {
		t.Fatalf("expected patched type to be PointerType, got %T", got)
	}
}

func TestVariableRegistryDuplicateFails(t *testing.T) {
	r := NewVariableRegistry()
	v := VariableAlloc{Id: 10, StoreClass: StorageClassInput}
	if err := r.Set(10, v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Set(10, v); err == nil {
		t.Fatal("expected duplicate error, got nil")
	}
}

func TestFunctionRegistryCollectAccessedVarsTransitive(t *testing.T) {
	r := NewFunctionRegistry()

	leaf := NewFunction(2)
	leaf.AccessedVars[100] = struct{}{}
	r.Set(2, leaf)

	root := NewFunction(1)
	root.AccessedVars[200] = struct{}{}
	root.Callees[2] = struct{}{}
	r.Set(1, root)

	accessed := r.CollectAccessedVars(1)
	if _, ok := accessed[100]; !ok {
		t.Fatal("expected transitively accessed var 100 to be present")
	}
	if _, ok := accessed[200]; !ok {
		t.Fatal("expected directly accessed var 200 to be present")
	}
	if len(accessed) != 2 {
		t.Fatalf("got %d accessed vars, want 2", len(accessed))
	}
}

func TestFunctionRegistryCollectAccessedVarsBreaksCycles(t *testing.T) {
	r := NewFunctionRegistry()

	a := NewFunction(1)
	a.Callees[2] = struct{}{}
	a.AccessedVars[1] = struct{}{}
	r.Set(1, a)

	b := NewFunction(2)
	b.Callees[1] = struct{}{} // cycle back to a
	b.AccessedVars[2] = struct{}{}
	r.Set(2, b)

	accessed := r.CollectAccessedVars(1)
	if len(accessed) != 2 {
		t.Fatalf("got %d accessed vars, want 2 (cycle should not infinite-loop)", len(accessed))
	}
}

func TestDecorationRegistryDuplicateFails(t *testing.T) {
	r := NewDecorationRegistry()
	if err := r.Set(1, DecorationLocation, []uint32{3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Set(1, DecorationLocation, []uint32{4}); err == nil {
		t.Fatal("expected duplicate decoration error, got nil")
	}
}

func TestDecorationRegistryAccessType(t *testing.T) {
	r := NewDecorationRegistry()
	r.Set(1, DecorationNonWritable, nil)
	if got := r.AccessType(1); got != AccessReadOnly {
		t.Fatalf("got %v, want AccessReadOnly", got)
	}

	r2 := NewDecorationRegistry()
	r2.Set(2, DecorationNonReadable, nil)
	if got := r2.AccessType(2); got != AccessWriteOnly {
		t.Fatalf("got %v, want AccessWriteOnly", got)
	}

	r3 := NewDecorationRegistry()
	if got := r3.AccessType(3); got != AccessReadWrite {
		t.Fatalf("got %v, want AccessReadWrite", got)
	}
}

func TestNameRegistryKeepsFirst(t *testing.T) {
	r := NewNameRegistry()
	r.Set(1, "first")
	r.Set(1, "second")
	name, ok := r.Get(1)
	if !ok || name != "first" {
		t.Fatalf("got (%q, %v), want (\"first\", true)", name, ok)
	}
}
