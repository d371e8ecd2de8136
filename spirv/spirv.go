// Package spirv provides the wire-level building blocks for reading a
// compiled SPIR-V module: the opcode enumeration, the module header
// layout, and the lazy instruction decoder that both the reflection
// engine and the disassembler are built on.
package spirv

import "fmt"

// MagicNumber is the fixed first word of every SPIR-V binary module.
const MagicNumber uint32 = 0x07230203

// Version is a SPIR-V version number, as packed into word 1 of the
// module header (major in bits 16-23, minor in bits 8-15).
type Version struct {
	Major uint8
	Minor uint8
}

// VersionFromWord unpacks a SPIR-V version word.
func VersionFromWord(w uint32) Version {
	return Version{Major: uint8(w >> 16), Minor: uint8(w >> 8)}
}

// OpCode is a SPIR-V instruction opcode (the low 16 bits of an
// instruction's first word).
type OpCode uint16

// Opcodes reflection and disassembly need to recognize by name. This is
// not the full SPIR-V grammar (over 350 opcodes as of 1.6); it is the
// hand-curated subset the core engine dispatches on plus the families
// the disassembler prints generically.
const (
	OpNop                   OpCode = 0
	OpSourceContinued       OpCode = 2
	OpSource                OpCode = 3
	OpSourceExtension       OpCode = 4
	OpName                  OpCode = 5
	OpMemberName            OpCode = 6
	OpString                OpCode = 7
	OpExtension             OpCode = 10
	OpExtInstImport         OpCode = 11
	OpExtInst               OpCode = 12
	OpMemoryModel           OpCode = 14
	OpEntryPoint            OpCode = 15
	OpExecutionMode         OpCode = 16
	OpCapability            OpCode = 17
	OpTypeVoid              OpCode = 19
	OpTypeBool              OpCode = 20
	OpTypeInt               OpCode = 21
	OpTypeFloat             OpCode = 22
	OpTypeVector            OpCode = 23
	OpTypeMatrix            OpCode = 24
	OpTypeImage             OpCode = 25
	OpTypeSampler           OpCode = 26
	OpTypeSampledImage      OpCode = 27
	OpTypeArray             OpCode = 28
	OpTypeRuntimeArray      OpCode = 29
	OpTypeStruct            OpCode = 30
	OpTypeOpaque            OpCode = 31
	OpTypePointer           OpCode = 32
	OpTypeFunction          OpCode = 33
	OpConstantTrue          OpCode = 41
	OpConstantFalse         OpCode = 42
	OpConstant              OpCode = 43
	OpConstantComposite     OpCode = 44
	OpConstantSampler       OpCode = 45
	OpConstantNull          OpCode = 46
	OpSpecConstantTrue      OpCode = 48
	OpSpecConstantFalse     OpCode = 49
	OpSpecConstant          OpCode = 50
	OpSpecConstantComposite OpCode = 51
	OpSpecConstantOp        OpCode = 52
	OpFunction              OpCode = 54
	OpFunctionParameter     OpCode = 55
	OpFunctionEnd           OpCode = 56
	OpFunctionCall          OpCode = 57
	OpVariable              OpCode = 59
	OpLoad                  OpCode = 61
	OpStore                 OpCode = 62
	OpAccessChain           OpCode = 65
	OpInBoundsAccessChain   OpCode = 66
	OpDecorate              OpCode = 71
	OpMemberDecorate        OpCode = 72
	OpDecorationGroup       OpCode = 73
	OpGroupDecorate         OpCode = 74
	OpGroupMemberDecorate   OpCode = 75
	OpPtrAccessChain        OpCode = 67
	OpBitcast               OpCode = 124
	OpSConvert              OpCode = 114
	OpUConvert              OpCode = 113
	OpFConvert              OpCode = 115
	OpIAdd                  OpCode = 128
	OpISub                  OpCode = 130
	OpIMul                  OpCode = 132
	OpUDiv                  OpCode = 134
	OpSDiv                  OpCode = 135
	OpUMod                  OpCode = 137
	OpSMod                  OpCode = 139
	OpShiftRightLogical     OpCode = 194
	OpShiftRightArithmetic  OpCode = 195
	OpShiftLeftLogical      OpCode = 196
	OpBitwiseOr             OpCode = 197
	OpBitwiseXor            OpCode = 198
	OpBitwiseAnd            OpCode = 199
	OpNot                   OpCode = 200
	OpIEqual                OpCode = 170
	OpINotEqual             OpCode = 171
	OpUGreaterThan          OpCode = 172
	OpSGreaterThan          OpCode = 173
	OpUGreaterThanEqual     OpCode = 174
	OpSGreaterThanEqual     OpCode = 175
	OpULessThan             OpCode = 176
	OpSLessThan             OpCode = 177
	OpULessThanEqual        OpCode = 178
	OpSLessThanEqual        OpCode = 179
	OpSelect                OpCode = 169
	OpCompositeConstruct    OpCode = 80
	OpCompositeExtract      OpCode = 81
	OpCompositeInsert       OpCode = 82
	OpAtomicLoad            OpCode = 227
	OpAtomicStore           OpCode = 228
	OpAtomicExchange        OpCode = 229
	OpAtomicCompareExchange OpCode = 230
	OpAtomicCompareExchangeWeak OpCode = 231
	OpAtomicIIncrement      OpCode = 232
	OpAtomicIDecrement      OpCode = 233
	OpAtomicIAdd            OpCode = 234
	OpAtomicISub            OpCode = 235
	OpAtomicSMin            OpCode = 236
	OpAtomicUMin            OpCode = 237
	OpAtomicSMax            OpCode = 238
	OpAtomicUMax            OpCode = 239
	OpAtomicAnd             OpCode = 240
	OpAtomicOr              OpCode = 241
	OpAtomicXor             OpCode = 242
	OpTypeForwardPointer    OpCode = 39
	OpTypeAccelerationStructureKHR OpCode = 5341
	OpTypeRayQueryKHR              OpCode = 4472
	OpExecutionModeId       OpCode = 331
	OpLine                  OpCode = 8
	OpNoLine                OpCode = 317
	OpModuleProcessed       OpCode = 330
	OpLabel                 OpCode = 248
	OpBranch                OpCode = 249
	OpBranchConditional     OpCode = 250
	OpReturn                OpCode = 253
	OpReturnValue           OpCode = 254
)

// opNames names every opcode this module recognizes. Anything absent from
// this table is rendered as "Op<N>" by the disassembler and dispatched
// through the arithmetic/logical opcode-range fallback rather than a
// named case, the same layering cmd/spvdis/main.go used.
var opNames = map[OpCode]string{
	OpNop: "OpNop", OpSourceContinued: "OpSourceContinued", OpSource: "OpSource",
	OpSourceExtension: "OpSourceExtension", OpName: "OpName", OpMemberName: "OpMemberName",
	OpString: "OpString", OpLine: "OpLine", OpExtension: "OpExtension",
	OpExtInstImport: "OpExtInstImport", OpExtInst: "OpExtInst",
	OpMemoryModel: "OpMemoryModel", OpEntryPoint: "OpEntryPoint",
	OpExecutionMode: "OpExecutionMode", OpCapability: "OpCapability",
	OpTypeVoid: "OpTypeVoid", OpTypeBool: "OpTypeBool", OpTypeInt: "OpTypeInt",
	OpTypeFloat: "OpTypeFloat", OpTypeVector: "OpTypeVector", OpTypeMatrix: "OpTypeMatrix",
	OpTypeImage: "OpTypeImage", OpTypeSampler: "OpTypeSampler",
	OpTypeSampledImage: "OpTypeSampledImage", OpTypeArray: "OpTypeArray",
	OpTypeRuntimeArray: "OpTypeRuntimeArray", OpTypeStruct: "OpTypeStruct",
	OpTypeOpaque: "OpTypeOpaque", OpTypePointer: "OpTypePointer",
	OpTypeFunction: "OpTypeFunction", OpTypeForwardPointer: "OpTypeForwardPointer",
	OpTypeAccelerationStructureKHR: "OpTypeAccelerationStructureKHR",
	OpTypeRayQueryKHR: "OpTypeRayQueryKHR",
	OpConstantTrue: "OpConstantTrue", OpConstantFalse: "OpConstantFalse",
	OpConstant: "OpConstant", OpConstantComposite: "OpConstantComposite",
	OpConstantSampler: "OpConstantSampler", OpConstantNull: "OpConstantNull",
	OpSpecConstantTrue: "OpSpecConstantTrue", OpSpecConstantFalse: "OpSpecConstantFalse",
	OpSpecConstant: "OpSpecConstant", OpSpecConstantComposite: "OpSpecConstantComposite",
	OpSpecConstantOp: "OpSpecConstantOp",
	OpFunction: "OpFunction", OpFunctionParameter: "OpFunctionParameter",
	OpFunctionEnd: "OpFunctionEnd", OpFunctionCall: "OpFunctionCall",
	OpVariable: "OpVariable", OpLoad: "OpLoad", OpStore: "OpStore",
	OpAccessChain: "OpAccessChain", OpInBoundsAccessChain: "OpInBoundsAccessChain",
	OpPtrAccessChain: "OpPtrAccessChain",
	OpDecorate: "OpDecorate", OpMemberDecorate: "OpMemberDecorate",
	OpDecorationGroup: "OpDecorationGroup", OpGroupDecorate: "OpGroupDecorate",
	OpGroupMemberDecorate: "OpGroupMemberDecorate",
	OpBitcast: "OpBitcast", OpSConvert: "OpSConvert", OpUConvert: "OpUConvert",
	OpFConvert: "OpFConvert",
	OpIAdd: "OpIAdd", OpISub: "OpISub", OpIMul: "OpIMul", OpUDiv: "OpUDiv",
	OpSDiv: "OpSDiv", OpUMod: "OpUMod", OpSMod: "OpSMod",
	OpShiftRightLogical: "OpShiftRightLogical", OpShiftRightArithmetic: "OpShiftRightArithmetic",
	OpShiftLeftLogical: "OpShiftLeftLogical", OpBitwiseOr: "OpBitwiseOr",
	OpBitwiseXor: "OpBitwiseXor", OpBitwiseAnd: "OpBitwiseAnd", OpNot: "OpNot",
	OpIEqual: "OpIEqual", OpINotEqual: "OpINotEqual", OpUGreaterThan: "OpUGreaterThan",
	OpSGreaterThan: "OpSGreaterThan", OpUGreaterThanEqual: "OpUGreaterThanEqual",
	OpSGreaterThanEqual: "OpSGreaterThanEqual", OpULessThan: "OpULessThan",
	OpSLessThan: "OpSLessThan", OpULessThanEqual: "OpULessThanEqual",
	OpSLessThanEqual: "OpSLessThanEqual", OpSelect: "OpSelect",
	OpCompositeConstruct: "OpCompositeConstruct",
	OpCompositeExtract: "OpCompositeExtract", OpCompositeInsert: "OpCompositeInsert",
	OpAtomicLoad: "OpAtomicLoad", OpAtomicStore: "OpAtomicStore",
	OpAtomicExchange: "OpAtomicExchange", OpAtomicCompareExchange: "OpAtomicCompareExchange",
	OpAtomicCompareExchangeWeak: "OpAtomicCompareExchangeWeak",
	OpAtomicIIncrement: "OpAtomicIIncrement", OpAtomicIDecrement: "OpAtomicIDecrement",
	OpAtomicIAdd: "OpAtomicIAdd", OpAtomicISub: "OpAtomicISub",
	OpAtomicSMin: "OpAtomicSMin", OpAtomicUMin: "OpAtomicUMin",
	OpAtomicSMax: "OpAtomicSMax", OpAtomicUMax: "OpAtomicUMax",
	OpAtomicAnd: "OpAtomicAnd", OpAtomicOr: "OpAtomicOr", OpAtomicXor: "OpAtomicXor",
	OpExecutionModeId: "OpExecutionModeId", OpNoLine: "OpNoLine",
	OpModuleProcessed: "OpModuleProcessed",
	OpLabel: "OpLabel", OpBranch: "OpBranch", OpBranchConditional: "OpBranchConditional",
	OpReturn: "OpReturn", OpReturnValue: "OpReturnValue",
}

// Name returns the opcode's symbolic name, or "Op<N>" if this module does
// not have a name for it.
func (op OpCode) Name() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Op%d", uint16(op))
}

// IsTypeOp reports whether op declares a type (used to dispatch type
// reconstruction during the types-constants-variables pass).
func (op OpCode) IsTypeOp() bool {
	switch op {
	case OpTypeVoid, OpTypeBool, OpTypeInt, OpTypeFloat, OpTypeVector, OpTypeMatrix,
		OpTypeImage, OpTypeSampler, OpTypeSampledImage, OpTypeArray, OpTypeRuntimeArray,
		OpTypeStruct, OpTypeOpaque, OpTypePointer, OpTypeFunction, OpTypeForwardPointer,
		OpTypeAccelerationStructureKHR, OpTypeRayQueryKHR:
		return true
	default:
		return false
	}
}

// IsConstOp reports whether op declares a constant.
func (op OpCode) IsConstOp() bool {
	switch op {
	case OpConstantTrue, OpConstantFalse, OpConstant, OpConstantComposite,
		OpConstantSampler, OpConstantNull, OpSpecConstantTrue, OpSpecConstantFalse,
		OpSpecConstant, OpSpecConstantComposite, OpSpecConstantOp:
		return true
	default:
		return false
	}
}

// IsAtomicLoadOp reports whether op is one of the atomic read-modify-write
// ops the function inspector treats as a load of its pointer operand.
func (op OpCode) IsAtomicLoadOp() bool {
	switch op {
	case OpAtomicLoad, OpAtomicExchange, OpAtomicCompareExchange, OpAtomicCompareExchangeWeak,
		OpAtomicIIncrement, OpAtomicIDecrement, OpAtomicIAdd, OpAtomicISub,
		OpAtomicSMin, OpAtomicUMin, OpAtomicSMax, OpAtomicUMax,
		OpAtomicAnd, OpAtomicOr, OpAtomicXor:
		return true
	default:
		return false
	}
}

// IsAtomicStoreOp reports whether op is the atomic store op.
func (op OpCode) IsAtomicStoreOp() bool { return op == OpAtomicStore }
