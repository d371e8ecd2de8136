package reflect

import (
	"fmt"
	"math"

	"github.com/gogpu/spirvreflect/ir"
	"github.com/gogpu/spirvreflect/spirv"
)

// constPopulator reconstructs ir.Constant values, including the full
// OpSpecConstantOp evaluator (arithmetic, bitwise, comparison, selection,
// conversion, and composite extract/insert operators).
type constPopulator struct {
	types  *ir.TypeRegistry
	consts *ir.ConstantRegistry
	decos  *ir.DecorationRegistry
	names  *ir.NameRegistry
	specs  map[uint32]ir.ConstantValue
}

func newConstPopulator(types *ir.TypeRegistry, consts *ir.ConstantRegistry, decos *ir.DecorationRegistry, names *ir.NameRegistry, specs map[uint32]ir.ConstantValue) *constPopulator {
	return &constPopulator{types: types, consts: consts, decos: decos, names: names, specs: specs}
}

func (p *constPopulator) scalarOf(typeId uint32) (ir.ScalarType, error) {
	ty, ok := p.types.Get(ir.TypeId(typeId))
	if !ok {
		return ir.ScalarType{}, NewError(ErrBrokenNestedType, fmt.Sprintf("constant references unknown type %d", typeId))
	}
	scalar, ok := ty.(ir.ScalarType)
	if !ok {
		return ir.ScalarType{}, nil // composite constants are validated by their own path
	}
	return scalar, nil
}

func (p *constPopulator) nameOf(id uint32) *string {
	if n, ok := p.names.Get(id); ok {
		return &n
	}
	return nil
}

func (p *constPopulator) specIdOf(id uint32) *uint32 {
	if s, ok := p.decos.GetU32(id, ir.DecorationSpecId); ok {
		return &s
	}
	return nil
}

// populateOne reconstructs the constant declared by in. Callers must only
// invoke this for instructions where in.Op.IsConstOp().
func (p *constPopulator) populateOne(in spirv.Instruction) error {
	r := in.Reader()
	switch in.Op {
	case spirv.OpConstantTrue, spirv.OpSpecConstantTrue:
		typeId, id, err := readTypeResult(r)
		if err != nil {
			return err
		}
		return p.registerScalarBool(typeId, id, true, in.Op == spirv.OpSpecConstantTrue)

	case spirv.OpConstantFalse, spirv.OpSpecConstantFalse:
		typeId, id, err := readTypeResult(r)
		if err != nil {
			return err
		}
		return p.registerScalarBool(typeId, id, false, in.Op == spirv.OpSpecConstantFalse)

	case spirv.OpConstant, spirv.OpSpecConstant:
		typeId, id, err := readTypeResult(r)
		if err != nil {
			return err
		}
		scalar, err := p.scalarOf(typeId)
		if err != nil {
			return err
		}
		var bits uint64
		if scalar.Bits > 32 {
			bits, err = r.U64()
		} else {
			var w uint32
			w, err = r.U32()
			bits = uint64(w)
		}
		if err != nil {
			return err
		}
		value := valueFromBits(scalar, bits)
		isSpec := in.Op == spirv.OpSpecConstant
		specId := p.specIdOf(id)
		if isSpec && specId != nil {
			if override, ok := p.specs[*specId]; ok {
				value = override
			}
		}
		p.consts.Set(ir.ConstantId(id), ir.Constant{
			Id: ir.ConstantId(id), Name: p.nameOf(id), Type: scalar, Value: value,
			SpecId: specIdPtrIf(isSpec, specId),
		})
		return nil

	case spirv.OpConstantComposite, spirv.OpSpecConstantComposite:
		typeId, id, err := readTypeResult(r)
		if err != nil {
			return err
		}
		ty, ok := p.types.Get(ir.TypeId(typeId))
		if !ok {
			return NewError(ErrBrokenNestedType, fmt.Sprintf("composite constant %d references unknown type %d", id, typeId))
		}
		var constituents []ir.ConstantId
		for r.Remaining() > 0 {
			cid, err := r.U32()
			if err != nil {
				return err
			}
			constituents = append(constituents, ir.ConstantId(cid))
		}
		isSpec := in.Op == spirv.OpSpecConstantComposite
		p.consts.Set(ir.ConstantId(id), ir.Constant{
			Id: ir.ConstantId(id), Name: p.nameOf(id), Type: ty,
			Value:  ir.CompositeValue{Constituents: constituents},
			SpecId: specIdPtrIf(isSpec, p.specIdOf(id)),
		})
		return nil

	case spirv.OpConstantNull:
		typeId, id, err := readTypeResult(r)
		if err != nil {
			return err
		}
		scalar, err := p.scalarOf(typeId)
		if err != nil {
			return err
		}
		p.consts.Set(ir.ConstantId(id), ir.Constant{Id: ir.ConstantId(id), Name: p.nameOf(id), Type: scalar, Value: valueFromBits(scalar, 0)})
		return nil

	case spirv.OpConstantSampler:
		// Sampler literals carry no value reflection models; recorded
		// constants never need to represent them.
		return nil

	case spirv.OpSpecConstantOp:
		return p.evalSpecConstantOp(r, in)

	default:
		return nil
	}
}

func readTypeResult(r *spirv.OperandReader) (typeId, id uint32, err error) {
	typeId, err = r.U32()
	if err != nil {
		return 0, 0, err
	}
	id, err = r.U32()
	if err != nil {
		return 0, 0, err
	}
	return typeId, id, nil
}

func specIdPtrIf(isSpec bool, p *uint32) *uint32 {
	if !isSpec {
		return nil
	}
	return p
}

func (p *constPopulator) registerScalarBool(typeId, id uint32, v bool, isSpec bool) error {
	scalar, err := p.scalarOf(typeId)
	if err != nil {
		return err
	}
	value := ir.ConstantValue(ir.BoolValue(v))
	specId := p.specIdOf(id)
	if isSpec && specId != nil {
		if override, ok := p.specs[*specId]; ok {
			value = override
		}
	}
	p.consts.Set(ir.ConstantId(id), ir.Constant{
		Id: ir.ConstantId(id), Name: p.nameOf(id), Type: scalar, Value: value,
		SpecId: specIdPtrIf(isSpec, specId),
	})
	return nil
}

func valueFromBits(scalar ir.ScalarType, bits uint64) ir.ConstantValue {
	switch scalar.Kind {
	case ir.ScalarBool:
		return ir.BoolValue(bits != 0)
	case ir.ScalarFloat:
		if scalar.Bits > 32 {
			return ir.F64Value(math.Float64frombits(bits))
		}
		return ir.F32Value(math.Float32frombits(uint32(bits)))
	case ir.ScalarInt:
		if scalar.Bits > 32 {
			if scalar.IsSigned {
				return ir.S64Value(int64(bits))
			}
			return ir.U64Value(bits)
		}
		if scalar.IsSigned {
			return ir.S32Value(int32(uint32(bits)))
		}
		return ir.U32Value(uint32(bits))
	default:
		return ir.U32Value(uint32(bits))
	}
}

// bitsOf widens any scalar constant value to a raw 64-bit pattern for
// arithmetic, and reports whether it is a float value (so the caller
// chooses integer or floating-point semantics).
func bitsOf(v ir.ConstantValue) (bits uint64, isFloat bool, isSigned bool) {
	switch x := v.(type) {
	case ir.BoolValue:
		if x {
			return 1, false, false
		}
		return 0, false, false
	case ir.S32Value:
		return uint64(uint32(x)), false, true
	case ir.U32Value:
		return uint64(x), false, false
	case ir.S64Value:
		return uint64(x), false, true
	case ir.U64Value:
		return uint64(x), false, false
	case ir.F32Value:
		return uint64(math.Float32bits(float32(x))), true, false
	case ir.F64Value:
		return math.Float64bits(float64(x)), true, false
	default:
		return 0, false, false
	}
}

func asFloat64(v ir.ConstantValue) float64 {
	switch x := v.(type) {
	case ir.F32Value:
		return float64(x)
	case ir.F64Value:
		return float64(x)
	default:
		bits, _, _ := bitsOf(v)
		return float64(int64(bits))
	}
}

func asInt64(v ir.ConstantValue) int64 {
	switch x := v.(type) {
	case ir.S32Value:
		return int64(x)
	case ir.U32Value:
		return int64(x)
	case ir.S64Value:
		return int64(x)
	case ir.U64Value:
		return int64(x)
	case ir.BoolValue:
		if x {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func asUint64(v ir.ConstantValue) uint64 {
	bits, _, _ := bitsOf(v)
	return bits
}

// evalSpecConstantOp evaluates the folded operator embedded in an
// OpSpecConstantOp instruction. Supported operators cover the integer
// arithmetic, bitwise, comparison, selection, conversion, and composite
// extract/insert subset; everything else reports ErrUnsupportedOperator,
// which the caller treats as a non-fatal, drop-this-constant failure
// rather than aborting reflection outright.
func (p *constPopulator) evalSpecConstantOp(r *spirv.OperandReader, in spirv.Instruction) error {
	typeId, id, err := readTypeResult(r)
	if err != nil {
		return err
	}
	rawOp, err := r.U32()
	if err != nil {
		return err
	}
	op := spirv.OpCode(rawOp)

	resultTy, ok := p.types.Get(ir.TypeId(typeId))
	if !ok {
		return NewError(ErrBrokenNestedType, fmt.Sprintf("OpSpecConstantOp %d references unknown result type %d", id, typeId))
	}

	operand := func() (ir.Constant, error) {
		cid, err := r.U32()
		if err != nil {
			return ir.Constant{}, err
		}
		c, ok := p.consts.Get(ir.ConstantId(cid))
		if !ok {
			return ir.Constant{}, NewError(ErrBrokenNestedType, fmt.Sprintf("OpSpecConstantOp %d references unresolved operand constant %d", id, cid))
		}
		return c, nil
	}

	var result ir.ConstantValue
	scalar, _ := resultTy.(ir.ScalarType)

	switch op {
	case spirv.OpIAdd, spirv.OpISub, spirv.OpIMul, spirv.OpSDiv, spirv.OpUDiv, spirv.OpSMod, spirv.OpUMod,
		spirv.OpBitwiseAnd, spirv.OpBitwiseOr, spirv.OpBitwiseXor,
		spirv.OpShiftLeftLogical, spirv.OpShiftRightLogical, spirv.OpShiftRightArithmetic:
		a, err := operand()
		if err != nil {
			return err
		}
		b, err := operand()
		if err != nil {
			return err
		}
		result = evalBinaryInt(op, a, b, scalar)

	case spirv.OpNot:
		a, err := operand()
		if err != nil {
			return err
		}
		result = valueFromBits(scalar, ^asUint64(a.Value))

	case spirv.OpIEqual, spirv.OpINotEqual, spirv.OpUGreaterThan, spirv.OpSGreaterThan,
		spirv.OpUGreaterThanEqual, spirv.OpSGreaterThanEqual, spirv.OpULessThan, spirv.OpSLessThan,
		spirv.OpULessThanEqual, spirv.OpSLessThanEqual:
		a, err := operand()
		if err != nil {
			return err
		}
		b, err := operand()
		if err != nil {
			return err
		}
		result = ir.BoolValue(evalComparison(op, a, b))

	case spirv.OpSelect:
		cond, err := operand()
		if err != nil {
			return err
		}
		onTrue, err := operand()
		if err != nil {
			return err
		}
		onFalse, err := operand()
		if err != nil {
			return err
		}
		if bool(cond.Value.(ir.BoolValue)) {
			result = onTrue.Value
		} else {
			result = onFalse.Value
		}

	case spirv.OpSConvert, spirv.OpUConvert, spirv.OpFConvert, spirv.OpBitcast:
		a, err := operand()
		if err != nil {
			return err
		}
		result = convertValue(op, a.Value, scalar)

	case spirv.OpCompositeExtract:
		a, err := operand()
		if err != nil {
			return err
		}
		indices := r.Rest()
		result = extractComposite(p.consts, a.Value, indices)

	case spirv.OpCompositeInsert:
		obj, err := operand()
		if err != nil {
			return err
		}
		composite, err := operand()
		if err != nil {
			return err
		}
		indices := r.Rest()
		result = insertComposite(composite.Value, obj.Id, indices)

	default:
		return NewError(ErrUnsupportedOperator, fmt.Sprintf("OpSpecConstantOp %d uses unsupported folded operator %s", id, op.Name()))
	}

	p.consts.Set(ir.ConstantId(id), ir.Constant{Id: ir.ConstantId(id), Name: p.nameOf(id), Type: resultTy, Value: result})
	return nil
}

func evalBinaryInt(op spirv.OpCode, a, b ir.Constant, scalar ir.ScalarType) ir.ConstantValue {
	av, bv := asInt64(a.Value), asInt64(b.Value)
	auv, buv := asUint64(a.Value), asUint64(b.Value)
	var r uint64
	switch op {
	case spirv.OpIAdd:
		r = uint64(av + bv)
	case spirv.OpISub:
		r = uint64(av - bv)
	case spirv.OpIMul:
		r = uint64(av * bv)
	case spirv.OpSDiv:
		if bv != 0 {
			r = uint64(av / bv)
		}
	case spirv.OpUDiv:
		if buv != 0 {
			r = auv / buv
		}
	case spirv.OpSMod:
		if bv != 0 {
			r = uint64(((av % bv) + bv) % bv)
		}
	case spirv.OpUMod:
		if buv != 0 {
			r = auv % buv
		}
	case spirv.OpBitwiseAnd:
		r = auv & buv
	case spirv.OpBitwiseOr:
		r = auv | buv
	case spirv.OpBitwiseXor:
		r = auv ^ buv
	case spirv.OpShiftLeftLogical:
		r = auv << (buv & 63)
	case spirv.OpShiftRightLogical:
		r = auv >> (buv & 63)
	case spirv.OpShiftRightArithmetic:
		r = uint64(av >> (buv & 63))
	}
	return valueFromBits(scalar, r)
}

func evalComparison(op spirv.OpCode, a, b ir.Constant) bool {
	av, bv := asInt64(a.Value), asInt64(b.Value)
	auv, buv := asUint64(a.Value), asUint64(b.Value)
	switch op {
	case spirv.OpIEqual:
		return auv == buv
	case spirv.OpINotEqual:
		return auv != buv
	case spirv.OpUGreaterThan:
		return auv > buv
	case spirv.OpSGreaterThan:
		return av > bv
	case spirv.OpUGreaterThanEqual:
		return auv >= buv
	case spirv.OpSGreaterThanEqual:
		return av >= bv
	case spirv.OpULessThan:
		return auv < buv
	case spirv.OpSLessThan:
		return av < bv
	case spirv.OpULessThanEqual:
		return auv <= buv
	case spirv.OpSLessThanEqual:
		return av <= bv
	default:
		return false
	}
}

func convertValue(op spirv.OpCode, v ir.ConstantValue, target ir.ScalarType) ir.ConstantValue {
	switch op {
	case spirv.OpBitcast:
		bits, _, _ := bitsOf(v)
		return valueFromBits(target, bits)
	case spirv.OpFConvert:
		f := asFloat64(v)
		if target.Bits > 32 {
			return ir.F64Value(f)
		}
		return ir.F32Value(float32(f))
	case spirv.OpSConvert:
		return valueFromBits(target, uint64(asInt64(v)))
	case spirv.OpUConvert:
		return valueFromBits(target, asUint64(v))
	default:
		return v
	}
}

func extractComposite(consts *ir.ConstantRegistry, v ir.ConstantValue, indices []uint32) ir.ConstantValue {
	cur := v
	for _, idx := range indices {
		comp, ok := cur.(ir.CompositeValue)
		if !ok || int(idx) >= len(comp.Constituents) {
			return cur
		}
		next, ok := consts.Get(comp.Constituents[idx])
		if !ok {
			return cur
		}
		cur = next.Value
	}
	return cur
}

func insertComposite(composite ir.ConstantValue, obj ir.ConstantId, indices []uint32) ir.ConstantValue {
	// Reflection only needs composite-insert for array-length folding
	// chains, which never nest past one level; a shallow copy-on-write at
	// the top level is sufficient here.
	comp, ok := composite.(ir.CompositeValue)
	if !ok || len(indices) == 0 || int(indices[0]) >= len(comp.Constituents) {
		return composite
	}
	out := make([]ir.ConstantId, len(comp.Constituents))
	copy(out, comp.Constituents)
	out[indices[0]] = obj
	return ir.CompositeValue{Constituents: out}
}
