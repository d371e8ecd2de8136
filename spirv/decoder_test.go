package spirv

import "testing"

// header builds a valid 5-word module header followed by instrs.
func header(instrs ...uint32) []uint32 {
	return append([]uint32{MagicNumber, 0x00010300, 0, 1, 0}, instrs...)
}

func TestDecoderRejectsBadMagic(t *testing.T) {
	_, err := NewDecoder([]uint32{0xDEADBEEF, 0, 0, 1, 0})
	if err == nil {
		t.Fatal("expected error for bad magic")
	}
	se, ok := err.(*Error)
	if !ok || se.Kind != InvalidByteOrder {
		t.Fatalf("got %v, want InvalidByteOrder", err)
	}
}

func TestDecoderRejectsTruncatedHeader(t *testing.T) {
	_, err := NewDecoder([]uint32{MagicNumber, 0, 0})
	if err == nil {
		t.Fatal("expected error for truncated header")
	}
	se, ok := err.(*Error)
	if !ok || se.Kind != TruncatedHeader {
		t.Fatalf("got %v, want TruncatedHeader", err)
	}
}

func TestDecoderParsesHeaderFields(t *testing.T) {
	d, err := NewDecoder(header())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Header.Version.Major != 1 || d.Header.Version.Minor != 3 {
		t.Fatalf("got version %+v, want 1.3", d.Header.Version)
	}
	if d.Header.IDBound != 1 {
		t.Fatalf("got id bound %d, want 1", d.Header.IDBound)
	}
}

func TestDecoderWalksInstructions(t *testing.T) {
	// OpCapability Shader: word_count=2, Shader=1
	capInstr := uint32(2)<<16 | uint32(OpCapability)
	words := header(capInstr, 1)
	d, err := NewDecoder(words)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	in, ok, err := d.Next()
	if err != nil || !ok {
		t.Fatalf("expected one instruction, got ok=%v err=%v", ok, err)
	}
	if in.Op != OpCapability {
		t.Fatalf("got op %v, want OpCapability", in.Op)
	}
	if len(in.Operands) != 1 || in.Operands[0] != 1 {
		t.Fatalf("got operands %v, want [1]", in.Operands)
	}
	if in.Offset != 5 {
		t.Fatalf("got offset %d, want 5", in.Offset)
	}

	_, ok, err = d.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected stream to be exhausted")
	}
}

func TestDecoderDetectsTruncatedInstruction(t *testing.T) {
	// Declares word_count=5 but only 2 words remain.
	badInstr := uint32(5)<<16 | uint32(OpCapability)
	words := header(badInstr, 1)
	d, err := NewDecoder(words)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, _, err = d.Next()
	se, ok := err.(*Error)
	if !ok || se.Kind != TruncatedInstruction {
		t.Fatalf("got %v, want TruncatedInstruction", err)
	}
}

func TestDecodeBytesRecoversByteOrder(t *testing.T) {
	words := header()
	data := make([]byte, len(words)*4)
	for i, w := range words {
		data[i*4+0] = byte(w)
		data[i*4+1] = byte(w >> 8)
		data[i*4+2] = byte(w >> 16)
		data[i*4+3] = byte(w >> 24)
	}
	d, err := DecodeBytes(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Header.IDBound != 1 {
		t.Fatalf("got id bound %d, want 1", d.Header.IDBound)
	}
}

func TestDecodeBytesRejectsShortInput(t *testing.T) {
	_, err := DecodeBytes([]byte{1, 2, 3})
	se, ok := err.(*Error)
	if !ok || se.Kind != TruncatedHeader {
		t.Fatalf("got %v, want TruncatedHeader for short input", err)
	}
}

func TestOperandReaderString(t *testing.T) {
	// "GLSL.std.450" padded to word boundary with trailing NUL(s).
	name := "GLSL.std.450"
	padded := name + "\x00"
	for len(padded)%4 != 0 {
		padded += "\x00"
	}
	words := make([]uint32, len(padded)/4)
	for i := range words {
		b := padded[i*4 : i*4+4]
		words[i] = uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	}
	r := &OperandReader{words: words}
	got, err := r.String()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != name {
		t.Fatalf("got %q, want %q", got, name)
	}
}

func TestOperandReaderTruncatedOperand(t *testing.T) {
	r := &OperandReader{words: []uint32{1}}
	if _, err := r.U32(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := r.U32()
	se, ok := err.(*Error)
	if !ok || se.Kind != TruncatedOperand {
		t.Fatalf("got %v, want TruncatedOperand", err)
	}
}

func TestOpCodeClassifiers(t *testing.T) {
	if !OpTypeStruct.IsTypeOp() {
		t.Fatal("OpTypeStruct should be a type op")
	}
	if OpFunction.IsTypeOp() {
		t.Fatal("OpFunction should not be a type op")
	}
	if !OpSpecConstantOp.IsConstOp() {
		t.Fatal("OpSpecConstantOp should be a const op")
	}
	if !OpAtomicIAdd.IsAtomicLoadOp() {
		t.Fatal("OpAtomicIAdd should be an atomic load op")
	}
	if !OpAtomicStore.IsAtomicStoreOp() {
		t.Fatal("OpAtomicStore should be an atomic store op")
	}
}
