package reflect

import (
	"fmt"

	"github.com/gogpu/spirvreflect/ir"
	"github.com/gogpu/spirvreflect/spirv"
)

// typePopulator reconstructs ir.Type values from type-declaring
// instructions, consulting decorations already collected by the
// annotation pass (the module's logical layout guarantees every
// OpDecorate/OpMemberDecorate precedes the types-constants-variables
// section) and constants already registered earlier in the same section
// (array lengths must be declared before their array type, per the
// SPIR-V grammar's forward-reference rule).
type typePopulator struct {
	types          *ir.TypeRegistry
	consts         *ir.ConstantRegistry
	decos          *ir.DecorationRegistry
	names          *ir.NameRegistry
	genUniqueNames bool
}

func newTypePopulator(types *ir.TypeRegistry, consts *ir.ConstantRegistry, decos *ir.DecorationRegistry, names *ir.NameRegistry, genUniqueNames bool) *typePopulator {
	return &typePopulator{types: types, consts: consts, decos: decos, names: names, genUniqueNames: genUniqueNames}
}

// nameOf looks up id's debug name, synthesizing a type_N placeholder when
// genUniqueNames is set and no OpName targets it.
func (p *typePopulator) nameOf(id uint32) *string {
	if n, ok := p.names.Get(id); ok {
		return &n
	}
	if p.genUniqueNames {
		n := fmt.Sprintf("type_%d", id)
		return &n
	}
	return nil
}

func (p *typePopulator) resolve(id ir.TypeId) (ir.Type, error) {
	ty, ok := p.types.Get(id)
	if !ok {
		return nil, NewError(ErrBrokenNestedType, fmt.Sprintf("type id %d referenced before declaration", id))
	}
	return ty, nil
}

// populateOne reconstructs the type declared by in and registers it.
// Callers must only invoke this for instructions where in.Op.IsTypeOp().
func (p *typePopulator) populateOne(in spirv.Instruction) error {
	r := in.Reader()
	switch in.Op {
	case spirv.OpTypeVoid:
		id, err := r.U32()
		if err != nil {
			return err
		}
		return p.register(ir.TypeId(id), ir.ScalarType{Id: ir.TypeId(id), Kind: ir.ScalarVoid})

	case spirv.OpTypeBool:
		id, err := r.U32()
		if err != nil {
			return err
		}
		return p.register(ir.TypeId(id), ir.ScalarType{Id: ir.TypeId(id), Kind: ir.ScalarBool})

	case spirv.OpTypeInt:
		id, err := r.U32()
		if err != nil {
			return err
		}
		width, err := r.U32()
		if err != nil {
			return err
		}
		signed, err := r.U32()
		if err != nil {
			return err
		}
		return p.register(ir.TypeId(id), ir.ScalarType{Id: ir.TypeId(id), Kind: ir.ScalarInt, Bits: width, IsSigned: signed != 0})

	case spirv.OpTypeFloat:
		id, err := r.U32()
		if err != nil {
			return err
		}
		width, err := r.U32()
		if err != nil {
			return err
		}
		return p.register(ir.TypeId(id), ir.ScalarType{Id: ir.TypeId(id), Kind: ir.ScalarFloat, Bits: width})

	case spirv.OpTypeVector:
		id, err := r.U32()
		if err != nil {
			return err
		}
		compId, err := r.U32()
		if err != nil {
			return err
		}
		count, err := r.U32()
		if err != nil {
			return err
		}
		compTy, err := p.resolve(ir.TypeId(compId))
		if err != nil {
			return err
		}
		scalar, ok := compTy.(ir.ScalarType)
		if !ok {
			return NewError(ErrBrokenNestedType, fmt.Sprintf("vector type %d has non-scalar component", id))
		}
		return p.register(ir.TypeId(id), ir.VectorType{Id: ir.TypeId(id), Scalar: scalar, Count: count})

	case spirv.OpTypeMatrix:
		id, err := r.U32()
		if err != nil {
			return err
		}
		colId, err := r.U32()
		if err != nil {
			return err
		}
		cols, err := r.U32()
		if err != nil {
			return err
		}
		colTy, err := p.resolve(ir.TypeId(colId))
		if err != nil {
			return err
		}
		vec, ok := colTy.(ir.VectorType)
		if !ok {
			return NewError(ErrBrokenNestedType, fmt.Sprintf("matrix type %d has non-vector column", id))
		}
		return p.register(ir.TypeId(id), ir.MatrixType{Id: ir.TypeId(id), Vector: vec, Columns: cols})

	case spirv.OpTypeImage:
		return p.populateImage(ir.TypeId(0), r, in)

	case spirv.OpTypeSampler:
		id, err := r.U32()
		if err != nil {
			return err
		}
		return p.register(ir.TypeId(id), ir.SamplerType{Id: ir.TypeId(id)})

	case spirv.OpTypeSampledImage:
		id, err := r.U32()
		if err != nil {
			return err
		}
		imgId, err := r.U32()
		if err != nil {
			return err
		}
		imgTy, err := p.resolve(ir.TypeId(imgId))
		if err != nil {
			return err
		}
		img, ok := imgTy.(ir.ImageType)
		if !ok {
			return NewError(ErrBrokenNestedType, fmt.Sprintf("sampled image %d does not wrap an image type", id))
		}
		return p.register(ir.TypeId(id), ir.SampledImageType{
			Id: ir.TypeId(id), Scalar: img.Scalar, Dim: img.Dim,
			IsArrayed: img.IsArrayed, IsMultisampled: img.IsMultisampled,
		})

	case spirv.OpTypeArray:
		id, err := r.U32()
		if err != nil {
			return err
		}
		elemId, err := r.U32()
		if err != nil {
			return err
		}
		lenId, err := r.U32()
		if err != nil {
			return err
		}
		elemTy, err := p.resolve(ir.TypeId(elemId))
		if err != nil {
			return err
		}
		lenConst, ok := p.consts.Get(ir.ConstantId(lenId))
		if !ok {
			return NewError(ErrInvalidArraySize, fmt.Sprintf("array type %d length references unknown constant %d", id, lenId))
		}
		n, ok := lenConst.AsInt64()
		if !ok || n <= 0 {
			return NewError(ErrInvalidArraySize, fmt.Sprintf("array type %d length constant is not a positive integer", id))
		}
		count := uint32(n)
		var stride *uint32
		if s, ok := p.decos.GetU32(id, ir.DecorationArrayStride); ok {
			stride = &s
		}
		return p.register(ir.TypeId(id), ir.ArrayType{Id: ir.TypeId(id), Element: elemTy, Count: &count, Stride: stride})

	case spirv.OpTypeRuntimeArray:
		id, err := r.U32()
		if err != nil {
			return err
		}
		elemId, err := r.U32()
		if err != nil {
			return err
		}
		elemTy, err := p.resolve(ir.TypeId(elemId))
		if err != nil {
			return err
		}
		var stride *uint32
		if s, ok := p.decos.GetU32(id, ir.DecorationArrayStride); ok {
			stride = &s
		}
		return p.register(ir.TypeId(id), ir.ArrayType{Id: ir.TypeId(id), Element: elemTy, Count: nil, Stride: stride})

	case spirv.OpTypeStruct:
		id, err := r.U32()
		if err != nil {
			return err
		}
		var members []ir.StructMember
		idx := uint32(0)
		for r.Remaining() > 0 {
			memberTypeId, err := r.U32()
			if err != nil {
				return err
			}
			memberTy, err := p.resolve(ir.TypeId(memberTypeId))
			if err != nil {
				return err
			}
			members = append(members, p.buildMember(id, idx, memberTy))
			idx++
		}
		return p.register(ir.TypeId(id), ir.StructType{Id: ir.TypeId(id), Name: p.nameOf(id), Members: members})

	case spirv.OpTypePointer:
		id, err := r.U32()
		if err != nil {
			return err
		}
		rawStoreClass, err := r.U32()
		if err != nil {
			return err
		}
		pointeeId, err := r.U32()
		if err != nil {
			return err
		}
		pointee, err := p.resolve(ir.TypeId(pointeeId))
		if err != nil {
			return err
		}
		storeClass := ir.StorageClass(rawStoreClass)
		// Pre-1.3 storage-buffer compatibility: a Uniform pointer to a
		// BufferBlock-decorated struct is really a storage buffer. Applied
		// here, at pointer-registration time, so nothing downstream needs
		// to special-case BufferBlock again.
		if storeClass == ir.StorageClassUniform && p.decos.Contains(pointeeId, ir.DecorationBufferBlock) {
			storeClass = ir.StorageClassStorageBuffer
		}
		return p.register(ir.TypeId(id), ir.PointerType{Id: ir.TypeId(id), Pointee: pointee, StoreClass: storeClass})

	case spirv.OpTypeForwardPointer:
		id, err := r.U32()
		if err != nil {
			return err
		}
		rawStoreClass, err := r.U32()
		if err != nil {
			return err
		}
		return p.register(ir.TypeId(id), ir.ForwardPointerType{Id: ir.TypeId(id), StoreClass: ir.StorageClass(rawStoreClass)})

	case spirv.OpTypeAccelerationStructureKHR:
		id, err := r.U32()
		if err != nil {
			return err
		}
		return p.register(ir.TypeId(id), ir.AccelerationStructureType{Id: ir.TypeId(id)})

	case spirv.OpTypeRayQueryKHR:
		id, err := r.U32()
		if err != nil {
			return err
		}
		return p.register(ir.TypeId(id), ir.RayQueryType{Id: ir.TypeId(id)})

	case spirv.OpTypeOpaque, spirv.OpTypeFunction:
		// Neither is part of the reconstructed data model: opaque types
		// never appear in a descriptor's reachable type graph, and the
		// function inspector reads only function result ids, never
		// function types.
		return nil

	default:
		return nil
	}
}

func (p *typePopulator) populateImage(_ ir.TypeId, r *spirv.OperandReader, in spirv.Instruction) error {
	id, err := r.U32()
	if err != nil {
		return err
	}
	sampledTypeId, err := r.U32()
	if err != nil {
		return err
	}
	dim, err := r.U32()
	if err != nil {
		return err
	}
	depth, err := r.U32()
	if err != nil {
		return err
	}
	arrayed, err := r.Bool()
	if err != nil {
		return err
	}
	ms, err := r.Bool()
	if err != nil {
		return err
	}
	sampled, err := r.U32()
	if err != nil {
		return err
	}
	format, err := r.U32()
	if err != nil {
		return err
	}

	sampledTy, err := p.resolve(ir.TypeId(sampledTypeId))
	if err != nil {
		return err
	}
	scalar, ok := sampledTy.(ir.ScalarType)
	if !ok {
		return NewError(ErrBrokenNestedType, fmt.Sprintf("image type %d has non-scalar sampled type", id))
	}

	if ir.Dim(dim) == ir.DimSubpassData {
		return p.register(ir.TypeId(id), ir.SubpassDataType{Id: ir.TypeId(id), Scalar: scalar, IsMultisampled: ms})
	}

	// Sampled: 1 = used with a sampler, 2 = read/write (storage), 0 = known
	// only at run time.
	isSampled := ir.TristateUnknown
	switch sampled {
	case 1:
		isSampled = ir.TristateTrue
	case 2:
		isSampled = ir.TristateFalse
	}

	return p.register(ir.TypeId(id), ir.ImageType{
		Id:             ir.TypeId(id),
		Scalar:         scalar,
		Dim:            ir.Dim(dim),
		IsDepth:        tristate(depth),
		IsArrayed:      arrayed,
		IsMultisampled: ms,
		IsSampled:      isSampled,
		Format:         ir.ImageFormat(format),
	})
}

func tristate(v uint32) ir.Tristate {
	switch v {
	case 0:
		return ir.TristateFalse
	case 1:
		return ir.TristateTrue
	default:
		return ir.TristateUnknown
	}
}

// buildMember constructs one struct member, folding in the member's own
// decorations (Offset, access, and — for matrix members — MatrixStride
// and row/column axis order, which only have meaning in a struct's
// context).
func (p *typePopulator) buildMember(structId uint32, idx uint32, ty ir.Type) ir.StructMember {
	var name *string
	if n, ok := p.names.GetMember(structId, idx); ok {
		name = &n
	}
	var offset *uint32
	if o, ok := p.decos.GetMemberU32(structId, idx, ir.DecorationOffset); ok {
		offset = &o
	}
	access := p.decos.MemberAccessType(structId, idx)
	ty = backfillMatrixLayout(ty, structId, idx, p.decos)

	return ir.StructMember{Name: name, Offset: offset, Type: ty, Access: access}
}

// backfillMatrixLayout applies a struct member's MatrixStride/RowMajor
// decorations to its matrix type, walking through any enclosing array
// layers first (e.g. mat4 bones[4] reaches the matrix one level down).
func backfillMatrixLayout(ty ir.Type, structId uint32, idx uint32, decos *ir.DecorationRegistry) ir.Type {
	switch t := ty.(type) {
	case ir.MatrixType:
		axis := ir.AxisOrderColumnMajor
		if decos.ContainsMember(structId, idx, ir.DecorationRowMajor) {
			axis = ir.AxisOrderRowMajor
		}
		if stride, ok := decos.GetMemberU32(structId, idx, ir.DecorationMatrixStride); ok {
			t.Stride = &stride
		}
		t.AxisOrder = axis
		return t
	case ir.ArrayType:
		t.Element = backfillMatrixLayout(t.Element, structId, idx, decos)
		return t
	default:
		return ty
	}
}

func (p *typePopulator) register(id ir.TypeId, ty ir.Type) error {
	if err := p.types.Set(id, ty); err != nil {
		return NewError(ErrDuplicateType, fmt.Sprintf("type id %d declared twice", id))
	}
	return nil
}
