package reflect

import (
	"testing"

	"github.com/gogpu/spirvreflect/ir"
	"github.com/gogpu/spirvreflect/spirv"
)

// --- minimal binary assembler, test-only ---

type asm struct {
	words []uint32
	next  uint32
}

func newAsm() *asm {
	a := &asm{next: 1}
	a.words = append(a.words, spirv.MagicNumber, 0x00010300, 0, 0 /*bound placeholder*/, 0)
	return a
}

func (a *asm) id() uint32 {
	id := a.next
	a.next++
	return id
}

func (a *asm) emit(op spirv.OpCode, operands ...uint32) {
	word := uint32(len(operands)+1)<<16 | uint32(op)
	a.words = append(a.words, word)
	a.words = append(a.words, operands...)
}

func stringWords(s string) []uint32 {
	b := []byte(s)
	b = append(b, 0)
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) | uint32(b[i*4+1])<<8 | uint32(b[i*4+2])<<16 | uint32(b[i*4+3])<<24
	}
	return words
}

func (a *asm) bytes() []byte {
	a.words[3] = a.next // id bound
	out := make([]byte, len(a.words)*4)
	for i, w := range a.words {
		out[i*4+0] = byte(w)
		out[i*4+1] = byte(w >> 8)
		out[i*4+2] = byte(w >> 16)
		out[i*4+3] = byte(w >> 24)
	}
	return out
}

// buildFragmentUniformBlock assembles a fragment shader with one uniform
// block at set=0 binding=1: { vec4 color; float gamma; } at offsets 0 and
// 16, matching the fixed-layout scenario reflection must reproduce
// exactly.
func buildFragmentUniformBlock(t *testing.T) []byte {
	t.Helper()
	a := newAsm()

	voidTy := a.id()
	fnTy := a.id()
	floatTy := a.id()
	vec4Ty := a.id()
	structTy := a.id()
	ptrTy := a.id()
	varId := a.id()
	mainFn := a.id()
	labelId := a.id()
	loaded := a.id()

	a.emit(spirv.OpCapability, 1) // Shader
	a.emit(spirv.OpMemoryModel, 0, 1)
	ifaceWords := []uint32{4, mainFn}
	ifaceWords = append(ifaceWords, stringWords("main")...)
	a.emit(spirv.OpEntryPoint, ifaceWords...)
	a.emit(spirv.OpExecutionMode, mainFn, uint32(ir.ExecutionModeOriginUpperLeft))

	a.emit(spirv.OpMemberDecorate, append([]uint32{structTy, 0, uint32(ir.DecorationOffset)}, 0)...)
	a.emit(spirv.OpMemberDecorate, append([]uint32{structTy, 1, uint32(ir.DecorationOffset)}, 16)...)
	a.emit(spirv.OpDecorate, structTy, uint32(ir.DecorationBlock))
	a.emit(spirv.OpDecorate, varId, uint32(ir.DecorationDescriptorSet), 0)
	a.emit(spirv.OpDecorate, varId, uint32(ir.DecorationBinding), 1)

	a.emit(spirv.OpTypeVoid, voidTy)
	a.emit(spirv.OpTypeFunction, fnTy, voidTy)
	a.emit(spirv.OpTypeFloat, floatTy, 32)
	a.emit(spirv.OpTypeVector, vec4Ty, floatTy, 4)
	a.emit(spirv.OpTypeStruct, structTy, vec4Ty, floatTy)
	a.emit(spirv.OpTypePointer, ptrTy, uint32(ir.StorageClassUniform), structTy)
	a.emit(spirv.OpVariable, ptrTy, varId, uint32(ir.StorageClassUniform))

	a.emit(spirv.OpFunction, voidTy, mainFn, 0, fnTy)
	a.emit(spirv.OpLabel, labelId)
	a.emit(spirv.OpLoad, structTy, loaded, varId)
	a.emit(spirv.OpReturn)
	a.emit(spirv.OpFunctionEnd)

	return a.bytes()
}

func TestReflectFragmentUniformBlock(t *testing.T) {
	data := buildFragmentUniformBlock(t)
	eps, err := Reflect(data, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(eps) != 1 {
		t.Fatalf("got %d entry points, want 1", len(eps))
	}
	ep := eps[0]
	if ep.Name != "main" || ep.ExecModel != ir.ExecutionModelFragment {
		t.Fatalf("got %+v", ep)
	}

	d, ok := ep.Descriptor(0, 1)
	if !ok {
		t.Fatal("expected descriptor at set=0 binding=1")
	}
	if _, ok := d.DescType.(ir.UniformBufferDescriptor); !ok {
		t.Fatalf("got descriptor type %T, want UniformBufferDescriptor", d.DescType)
	}
	st, ok := d.Type.(ir.StructType)
	if !ok || len(st.Members) != 2 {
		t.Fatalf("got type %+v, want 2-member struct", d.Type)
	}
	if st.Members[0].Offset == nil || *st.Members[0].Offset != 0 {
		t.Fatalf("member 0 offset = %v, want 0", st.Members[0].Offset)
	}
	if st.Members[1].Offset == nil || *st.Members[1].Offset != 16 {
		t.Fatalf("member 1 offset = %v, want 16", st.Members[1].Offset)
	}
}

// buildVertexIO builds a vertex shader with one input and one output
// location, exercising the interface variable classification path.
func buildVertexIO(t *testing.T) []byte {
	t.Helper()
	a := newAsm()

	voidTy := a.id()
	fnTy := a.id()
	floatTy := a.id()
	vec4Ty := a.id()
	inPtrTy := a.id()
	inVar := a.id()
	outPtrTy := a.id()
	outVar := a.id()
	mainFn := a.id()
	labelId := a.id()
	loaded := a.id()

	a.emit(spirv.OpCapability, 1)
	a.emit(spirv.OpMemoryModel, 0, 1)
	ifaceWords := []uint32{0, mainFn}
	ifaceWords = append(ifaceWords, stringWords("main")...)
	ifaceWords = append(ifaceWords, inVar, outVar)
	a.emit(spirv.OpEntryPoint, ifaceWords...)

	a.emit(spirv.OpDecorate, inVar, uint32(ir.DecorationLocation), 0)
	a.emit(spirv.OpDecorate, outVar, uint32(ir.DecorationLocation), 0)

	a.emit(spirv.OpTypeVoid, voidTy)
	a.emit(spirv.OpTypeFunction, fnTy, voidTy)
	a.emit(spirv.OpTypeFloat, floatTy, 32)
	a.emit(spirv.OpTypeVector, vec4Ty, floatTy, 4)
	a.emit(spirv.OpTypePointer, inPtrTy, uint32(ir.StorageClassInput), vec4Ty)
	a.emit(spirv.OpVariable, inPtrTy, inVar, uint32(ir.StorageClassInput))
	a.emit(spirv.OpTypePointer, outPtrTy, uint32(ir.StorageClassOutput), vec4Ty)
	a.emit(spirv.OpVariable, outPtrTy, outVar, uint32(ir.StorageClassOutput))

	a.emit(spirv.OpFunction, voidTy, mainFn, 0, fnTy)
	a.emit(spirv.OpLabel, labelId)
	a.emit(spirv.OpLoad, vec4Ty, loaded, inVar)
	a.emit(spirv.OpStore, outVar, loaded)
	a.emit(spirv.OpReturn)
	a.emit(spirv.OpFunctionEnd)

	return a.bytes()
}

func TestReflectVertexInterfaceVariables(t *testing.T) {
	data := buildVertexIO(t)
	eps, err := Reflect(data, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ep := eps[0]
	in, ok := ep.ByLocation(0, ir.DirectionInput)
	if !ok {
		t.Fatal("expected input at location 0")
	}
	if _, ok := in.(ir.InputVariable); !ok {
		t.Fatalf("got %T, want InputVariable", in)
	}
	out, ok := ep.ByLocation(0, ir.DirectionOutput)
	if !ok {
		t.Fatal("expected output at location 0")
	}
	if _, ok := out.(ir.OutputVariable); !ok {
		t.Fatalf("got %T, want OutputVariable", out)
	}
}

func TestReflectRejectsBadMagic(t *testing.T) {
	_, err := Reflect([]byte{0, 0, 0, 0}, DefaultOptions())
	if err == nil {
		t.Fatal("expected error for malformed module")
	}
}

func TestReflectDuplicateEntryPointFails(t *testing.T) {
	a := newAsm()
	voidTy := a.id()
	fnTy := a.id()
	mainFn := a.id()
	labelId := a.id()

	a.emit(spirv.OpCapability, 1)
	a.emit(spirv.OpMemoryModel, 0, 1)
	mk := func() []uint32 {
		w := []uint32{uint32(ir.ExecutionModelFragment), mainFn}
		return append(w, stringWords("main")...)
	}
	a.emit(spirv.OpEntryPoint, mk()...)
	a.emit(spirv.OpEntryPoint, mk()...)

	a.emit(spirv.OpTypeVoid, voidTy)
	a.emit(spirv.OpTypeFunction, fnTy, voidTy)
	a.emit(spirv.OpFunction, voidTy, mainFn, 0, fnTy)
	a.emit(spirv.OpLabel, labelId)
	a.emit(spirv.OpReturn)
	a.emit(spirv.OpFunctionEnd)

	_, err := Reflect(a.bytes(), DefaultOptions())
	if err == nil {
		t.Fatal("expected duplicate entry point error")
	}
	re, ok := err.(*Error)
	if !ok || re.Kind != ErrDuplicateEntryPoint {
		t.Fatalf("got %v, want ErrDuplicateEntryPoint", err)
	}
}

// buildEmptyModule assembles the smallest legal module: a memory model
// and nothing else, exercising Reflect's zero-entry-point path.
func buildEmptyModule(t *testing.T) []byte {
	t.Helper()
	a := newAsm()
	a.emit(spirv.OpCapability, 1)
	a.emit(spirv.OpMemoryModel, 0, 1)
	return a.bytes()
}

func TestReflectEmptyModule(t *testing.T) {
	data := buildEmptyModule(t)
	eps, err := Reflect(data, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(eps) != 0 {
		t.Fatalf("got %d entry points, want 0", len(eps))
	}
}

// buildComputeLocalSize builds a GLCompute entry point declaring
// OpExecutionMode LocalSize 64 1 1.
func buildComputeLocalSize(t *testing.T) []byte {
	t.Helper()
	a := newAsm()

	voidTy := a.id()
	fnTy := a.id()
	mainFn := a.id()
	labelId := a.id()

	a.emit(spirv.OpCapability, 1)
	a.emit(spirv.OpMemoryModel, 0, 1)
	ifaceWords := []uint32{uint32(ir.ExecutionModelGLCompute), mainFn}
	ifaceWords = append(ifaceWords, stringWords("main")...)
	a.emit(spirv.OpEntryPoint, ifaceWords...)
	a.emit(spirv.OpExecutionMode, mainFn, uint32(ir.ExecutionModeLocalSize), 64, 1, 1)

	a.emit(spirv.OpTypeVoid, voidTy)
	a.emit(spirv.OpTypeFunction, fnTy, voidTy)
	a.emit(spirv.OpFunction, voidTy, mainFn, 0, fnTy)
	a.emit(spirv.OpLabel, labelId)
	a.emit(spirv.OpReturn)
	a.emit(spirv.OpFunctionEnd)

	return a.bytes()
}

func TestReflectComputeLocalSize(t *testing.T) {
	data := buildComputeLocalSize(t)
	eps, err := Reflect(data, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ep := eps[0]
	if ep.ExecModel != ir.ExecutionModelGLCompute {
		t.Fatalf("got execution model %v, want GLCompute", ep.ExecModel)
	}
	if len(ep.ExecModes) != 1 || ep.ExecModes[0].Mode != ir.ExecutionModeLocalSize {
		t.Fatalf("got exec modes %+v, want one LocalSize record", ep.ExecModes)
	}
	operands := ep.ExecModes[0].Operands
	if len(operands) != 3 {
		t.Fatalf("got %d LocalSize operands, want 3", len(operands))
	}
	if v, ok := operands[0].Value.(ir.U32Value); !ok || uint32(v) != 64 {
		t.Fatalf("got LocalSize x = %v, want 64", operands[0].Value)
	}
}

// buildDescriptorArray declares a 4-element array of combined samplers at
// set=0 binding=2, exercising the bind_count path.
func buildDescriptorArray(t *testing.T) []byte {
	t.Helper()
	a := newAsm()

	voidTy := a.id()
	fnTy := a.id()
	floatTy := a.id()
	uintTy := a.id()
	imgTy := a.id()
	sampledImgTy := a.id()
	lenConst := a.id()
	arrTy := a.id()
	ptrTy := a.id()
	varId := a.id()
	mainFn := a.id()
	labelId := a.id()
	loaded := a.id()

	a.emit(spirv.OpCapability, 1)
	a.emit(spirv.OpMemoryModel, 0, 1)
	ifaceWords := []uint32{4, mainFn}
	ifaceWords = append(ifaceWords, stringWords("main")...)
	a.emit(spirv.OpEntryPoint, ifaceWords...)
	a.emit(spirv.OpExecutionMode, mainFn, uint32(ir.ExecutionModeOriginUpperLeft))

	a.emit(spirv.OpDecorate, varId, uint32(ir.DecorationDescriptorSet), 0)
	a.emit(spirv.OpDecorate, varId, uint32(ir.DecorationBinding), 2)

	a.emit(spirv.OpTypeVoid, voidTy)
	a.emit(spirv.OpTypeFunction, fnTy, voidTy)
	a.emit(spirv.OpTypeFloat, floatTy, 32)
	a.emit(spirv.OpTypeInt, uintTy, 32, 0)
	a.emit(spirv.OpTypeImage, imgTy, floatTy, uint32(ir.Dim2D), 0, 0, 0, 1, 0)
	a.emit(spirv.OpTypeSampledImage, sampledImgTy, imgTy)
	a.emit(spirv.OpConstant, uintTy, lenConst, 4)
	a.emit(spirv.OpTypeArray, arrTy, sampledImgTy, lenConst)
	a.emit(spirv.OpTypePointer, ptrTy, uint32(ir.StorageClassUniformConstant), arrTy)
	a.emit(spirv.OpVariable, ptrTy, varId, uint32(ir.StorageClassUniformConstant))

	a.emit(spirv.OpFunction, voidTy, mainFn, 0, fnTy)
	a.emit(spirv.OpLabel, labelId)
	a.emit(spirv.OpLoad, arrTy, loaded, varId)
	a.emit(spirv.OpReturn)
	a.emit(spirv.OpFunctionEnd)

	return a.bytes()
}

func TestReflectDescriptorArrayBindCount(t *testing.T) {
	data := buildDescriptorArray(t)
	eps, err := Reflect(data, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d, ok := eps[0].Descriptor(0, 2)
	if !ok {
		t.Fatal("expected descriptor at set=0 binding=2")
	}
	if d.BindCount != 4 {
		t.Fatalf("got bind count %d, want 4", d.BindCount)
	}
	if _, ok := d.DescType.(ir.CombinedImageSamplerDescriptor); !ok {
		t.Fatalf("got descriptor type %T, want CombinedImageSamplerDescriptor", d.DescType)
	}
}

// buildSamplerAndImage declares a separate sampler and sampled image at
// the same (set, binding) coordinate, exercising combineImageSamplers.
func buildSamplerAndImage(t *testing.T) []byte {
	t.Helper()
	a := newAsm()

	voidTy := a.id()
	fnTy := a.id()
	floatTy := a.id()
	imgTy := a.id()
	samplerTy := a.id()
	samplerPtrTy := a.id()
	samplerVar := a.id()
	imgPtrTy := a.id()
	imgVar := a.id()
	mainFn := a.id()
	labelId := a.id()
	loadedSampler := a.id()
	loadedImg := a.id()

	a.emit(spirv.OpCapability, 1)
	a.emit(spirv.OpMemoryModel, 0, 1)
	ifaceWords := []uint32{4, mainFn}
	ifaceWords = append(ifaceWords, stringWords("main")...)
	a.emit(spirv.OpEntryPoint, ifaceWords...)
	a.emit(spirv.OpExecutionMode, mainFn, uint32(ir.ExecutionModeOriginUpperLeft))

	a.emit(spirv.OpDecorate, samplerVar, uint32(ir.DecorationDescriptorSet), 0)
	a.emit(spirv.OpDecorate, samplerVar, uint32(ir.DecorationBinding), 0)
	a.emit(spirv.OpDecorate, imgVar, uint32(ir.DecorationDescriptorSet), 0)
	a.emit(spirv.OpDecorate, imgVar, uint32(ir.DecorationBinding), 0)

	a.emit(spirv.OpTypeVoid, voidTy)
	a.emit(spirv.OpTypeFunction, fnTy, voidTy)
	a.emit(spirv.OpTypeFloat, floatTy, 32)
	a.emit(spirv.OpTypeImage, imgTy, floatTy, uint32(ir.Dim2D), 0, 0, 0, 1, 0)
	a.emit(spirv.OpTypeSampler, samplerTy)
	a.emit(spirv.OpTypePointer, samplerPtrTy, uint32(ir.StorageClassUniformConstant), samplerTy)
	a.emit(spirv.OpVariable, samplerPtrTy, samplerVar, uint32(ir.StorageClassUniformConstant))
	a.emit(spirv.OpTypePointer, imgPtrTy, uint32(ir.StorageClassUniformConstant), imgTy)
	a.emit(spirv.OpVariable, imgPtrTy, imgVar, uint32(ir.StorageClassUniformConstant))

	a.emit(spirv.OpFunction, voidTy, mainFn, 0, fnTy)
	a.emit(spirv.OpLabel, labelId)
	a.emit(spirv.OpLoad, samplerTy, loadedSampler, samplerVar)
	a.emit(spirv.OpLoad, imgTy, loadedImg, imgVar)
	a.emit(spirv.OpReturn)
	a.emit(spirv.OpFunctionEnd)

	return a.bytes()
}

func TestReflectCombinesSamplerAndImage(t *testing.T) {
	data := buildSamplerAndImage(t)
	opts := DefaultOptions()
	opts.CombineImgSamplers = true
	eps, err := Reflect(data, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d, ok := eps[0].Descriptor(0, 0)
	if !ok {
		t.Fatal("expected one combined descriptor at set=0 binding=0")
	}
	if _, ok := d.DescType.(ir.CombinedImageSamplerDescriptor); !ok {
		t.Fatalf("got descriptor type %T, want CombinedImageSamplerDescriptor", d.DescType)
	}
}

// buildSpecConstantArrayLength builds a storage buffer whose sole member
// is an array sized by a specialization constant, exercising
// Options.SpecValues overriding an array length before the array type
// (and the struct wrapping it) is reconstructed.
func buildSpecConstantArrayLength(t *testing.T) []byte {
	t.Helper()
	a := newAsm()

	voidTy := a.id()
	fnTy := a.id()
	uintTy := a.id()
	specLen := a.id()
	arrTy := a.id()
	structTy := a.id()
	ptrTy := a.id()
	varId := a.id()
	mainFn := a.id()
	labelId := a.id()
	loaded := a.id()

	a.emit(spirv.OpCapability, 1)
	a.emit(spirv.OpMemoryModel, 0, 1)
	ifaceWords := []uint32{4, mainFn}
	ifaceWords = append(ifaceWords, stringWords("main")...)
	a.emit(spirv.OpEntryPoint, ifaceWords...)
	a.emit(spirv.OpExecutionMode, mainFn, uint32(ir.ExecutionModeOriginUpperLeft))

	a.emit(spirv.OpDecorate, specLen, uint32(ir.DecorationSpecId), 0)
	a.emit(spirv.OpMemberDecorate, structTy, 0, uint32(ir.DecorationOffset), 0)
	a.emit(spirv.OpDecorate, structTy, uint32(ir.DecorationBufferBlock))
	a.emit(spirv.OpDecorate, varId, uint32(ir.DecorationDescriptorSet), 0)
	a.emit(spirv.OpDecorate, varId, uint32(ir.DecorationBinding), 3)

	a.emit(spirv.OpTypeVoid, voidTy)
	a.emit(spirv.OpTypeFunction, fnTy, voidTy)
	a.emit(spirv.OpTypeInt, uintTy, 32, 0)
	a.emit(spirv.OpSpecConstant, uintTy, specLen, 4)
	a.emit(spirv.OpTypeArray, arrTy, uintTy, specLen)
	a.emit(spirv.OpTypeStruct, structTy, arrTy)
	a.emit(spirv.OpTypePointer, ptrTy, uint32(ir.StorageClassUniform), structTy)
	a.emit(spirv.OpVariable, ptrTy, varId, uint32(ir.StorageClassUniform))

	a.emit(spirv.OpFunction, voidTy, mainFn, 0, fnTy)
	a.emit(spirv.OpLabel, labelId)
	a.emit(spirv.OpLoad, structTy, loaded, varId)
	a.emit(spirv.OpReturn)
	a.emit(spirv.OpFunctionEnd)

	return a.bytes()
}

func TestReflectSpecConstantOverridesArrayLength(t *testing.T) {
	data := buildSpecConstantArrayLength(t)
	opts := DefaultOptions()
	opts.SpecValues = map[uint32]ir.ConstantValue{0: ir.U32Value(8)}

	eps, err := Reflect(data, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d, ok := eps[0].Descriptor(0, 3)
	if !ok {
		t.Fatal("expected descriptor at set=0 binding=3")
	}
	st, ok := d.Type.(ir.StructType)
	if !ok || len(st.Members) != 1 {
		t.Fatalf("got type %+v, want 1-member struct", d.Type)
	}
	arr, ok := st.Members[0].Type.(ir.ArrayType)
	if !ok || arr.Count == nil {
		t.Fatalf("got member type %+v, want a sized array", st.Members[0].Type)
	}
	if *arr.Count != 8 {
		t.Fatalf("got array length %d, want 8 (the overridden spec constant value)", *arr.Count)
	}
}
