package disasm

import "github.com/gogpu/spirvreflect/spirv"

// argKind describes how one fixed leading operand of an instruction
// should be rendered.
type argKind uint8

const (
	argIdRef argKind = iota
	argLiteral
	argString
	argEnumStorageClass
	argEnumDim
	argEnumExecutionModel
	argEnumExecutionMode
	argEnumDecoration
)

// shape describes how one opcode's fixed and trailing operands should
// be rendered; hasVariadic, when set, says every operand past the
// fixed leading ones repeats with the variadic kind.
type shape struct {
	hasResultType bool
	hasResult     bool
	leading       []argKind
	variadic      argKind
	hasVariadic   bool
}

func withVariadic(s shape, v argKind) shape {
	s.hasVariadic = true
	s.variadic = v
	return s
}

// operandShapes is the Go-native stand-in for the grammar-JSON-derived
// table a C++ disassembler generates at build time: hand-curated here
// the same way cmd/spvdis/main.go's printInstruction switch was,
// widened to cover every opcode reflection itself consumes plus the
// debug/annotation/control-flow opcodes a disassembly needs to be
// readable.
var operandShapes = map[spirv.OpCode]shape{
	spirv.OpName:        {leading: []argKind{argIdRef, argString}},
	spirv.OpMemberName:  {leading: []argKind{argIdRef, argLiteral, argString}},
	spirv.OpString:      {hasResult: true, leading: []argKind{argString}},
	spirv.OpSource:      withVariadic(shape{leading: []argKind{argLiteral, argLiteral}}, argLiteral),
	spirv.OpExtInstImport: {hasResult: true, leading: []argKind{argString}},
	spirv.OpExtInst: withVariadic(shape{hasResultType: true, hasResult: true,
		leading: []argKind{argIdRef, argLiteral}}, argIdRef),

	spirv.OpMemoryModel: {leading: []argKind{argLiteral, argLiteral}},
	spirv.OpEntryPoint: withVariadic(shape{
		leading: []argKind{argEnumExecutionModel, argIdRef, argString}}, argIdRef),
	spirv.OpExecutionMode: withVariadic(shape{
		leading: []argKind{argIdRef, argEnumExecutionMode}}, argLiteral),
	spirv.OpCapability: {leading: []argKind{argLiteral}},

	spirv.OpDecorate: withVariadic(shape{
		leading: []argKind{argIdRef, argEnumDecoration}}, argLiteral),
	spirv.OpMemberDecorate: withVariadic(shape{
		leading: []argKind{argIdRef, argLiteral, argEnumDecoration}}, argLiteral),

	spirv.OpTypeVoid:    {hasResult: true},
	spirv.OpTypeBool:    {hasResult: true},
	spirv.OpTypeInt:     {hasResult: true, leading: []argKind{argLiteral, argLiteral}},
	spirv.OpTypeFloat:   {hasResult: true, leading: []argKind{argLiteral}},
	spirv.OpTypeVector:  {hasResult: true, leading: []argKind{argIdRef, argLiteral}},
	spirv.OpTypeMatrix:  {hasResult: true, leading: []argKind{argIdRef, argLiteral}},
	spirv.OpTypeImage: {hasResult: true, leading: []argKind{
		argIdRef, argEnumDim, argLiteral, argLiteral, argLiteral, argLiteral, argLiteral}},
	spirv.OpTypeSampler:      {hasResult: true},
	spirv.OpTypeSampledImage: {hasResult: true, leading: []argKind{argIdRef}},
	spirv.OpTypeArray:        {hasResult: true, leading: []argKind{argIdRef, argIdRef}},
	spirv.OpTypeRuntimeArray: {hasResult: true, leading: []argKind{argIdRef}},
	spirv.OpTypeStruct:       withVariadic(shape{hasResult: true}, argIdRef),
	spirv.OpTypePointer:      {hasResult: true, leading: []argKind{argEnumStorageClass, argIdRef}},
	spirv.OpTypeForwardPointer: {leading: []argKind{argIdRef, argEnumStorageClass}},
	spirv.OpTypeFunction:      withVariadic(shape{hasResult: true, leading: []argKind{argIdRef}}, argIdRef),

	spirv.OpConstantTrue:  {hasResultType: true, hasResult: true},
	spirv.OpConstantFalse: {hasResultType: true, hasResult: true},
	spirv.OpConstant:      {hasResultType: true, hasResult: true, leading: []argKind{argLiteral}},
	spirv.OpConstantComposite: withVariadic(shape{hasResultType: true, hasResult: true}, argIdRef),
	spirv.OpSpecConstantTrue:  {hasResultType: true, hasResult: true},
	spirv.OpSpecConstantFalse: {hasResultType: true, hasResult: true},
	spirv.OpSpecConstant:      {hasResultType: true, hasResult: true, leading: []argKind{argLiteral}},
	spirv.OpSpecConstantComposite: withVariadic(shape{hasResultType: true, hasResult: true}, argIdRef),
	spirv.OpSpecConstantOp: withVariadic(shape{hasResultType: true, hasResult: true,
		leading: []argKind{argLiteral}}, argIdRef),

	spirv.OpFunction:          {hasResultType: true, hasResult: true, leading: []argKind{argLiteral, argIdRef}},
	spirv.OpFunctionParameter: {hasResultType: true, hasResult: true},
	spirv.OpFunctionEnd:       {},
	spirv.OpFunctionCall: withVariadic(shape{hasResultType: true, hasResult: true,
		leading: []argKind{argIdRef}}, argIdRef),

	spirv.OpVariable: {hasResultType: true, hasResult: true, leading: []argKind{argEnumStorageClass}},
	spirv.OpLoad:     {hasResultType: true, hasResult: true, leading: []argKind{argIdRef}},
	spirv.OpStore:    {leading: []argKind{argIdRef, argIdRef}},
	spirv.OpAccessChain: withVariadic(shape{hasResultType: true, hasResult: true,
		leading: []argKind{argIdRef}}, argIdRef),
	spirv.OpInBoundsAccessChain: withVariadic(shape{hasResultType: true, hasResult: true,
		leading: []argKind{argIdRef}}, argIdRef),

	spirv.OpBitcast:   {hasResultType: true, hasResult: true, leading: []argKind{argIdRef}},
	spirv.OpSConvert:  {hasResultType: true, hasResult: true, leading: []argKind{argIdRef}},
	spirv.OpUConvert:  {hasResultType: true, hasResult: true, leading: []argKind{argIdRef}},
	spirv.OpFConvert:  {hasResultType: true, hasResult: true, leading: []argKind{argIdRef}},

	spirv.OpCompositeConstruct: withVariadic(shape{hasResultType: true, hasResult: true}, argIdRef),
	spirv.OpCompositeExtract: withVariadic(shape{hasResultType: true, hasResult: true,
		leading: []argKind{argIdRef}}, argLiteral),
	spirv.OpCompositeInsert: withVariadic(shape{hasResultType: true, hasResult: true,
		leading: []argKind{argIdRef, argIdRef}}, argLiteral),

	spirv.OpSelect: {hasResultType: true, hasResult: true, leading: []argKind{argIdRef, argIdRef, argIdRef}},

	spirv.OpLabel:       {hasResult: true},
	spirv.OpBranch:      {leading: []argKind{argIdRef}},
	spirv.OpBranchConditional: withVariadic(shape{leading: []argKind{argIdRef, argIdRef, argIdRef}}, argLiteral),
	spirv.OpReturn:      {},
	spirv.OpReturnValue: {leading: []argKind{argIdRef}},
	spirv.OpLine:        {leading: []argKind{argIdRef, argLiteral, argLiteral}},
	spirv.OpNoLine:      {},
}

// arithmeticRange reports whether opcode falls in the numeric-opcode
// span SPIR-V reserves for arithmetic, bitwise, logical, comparison
// and relational instructions, widened slightly to also cover the
// atomic family reflection dispatches on.
func arithmeticRange(op spirv.OpCode) bool {
	n := uint16(op)
	return (n >= 126 && n <= 233) || (n >= 227 && n <= 246)
}
