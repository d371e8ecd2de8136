package reflect

import (
	"fmt"

	"github.com/gogpu/spirvreflect/ir"
	"github.com/gogpu/spirvreflect/spirv"
)

// varPopulator reconstructs raw module-scope variable allocations from
// OpVariable. Function-local variables (StorageClass Function) are
// skipped: they hold no reflectable interface and never outlive their
// defining function.
type varPopulator struct {
	types          *ir.TypeRegistry
	vars           *ir.VariableRegistry
	names          *ir.NameRegistry
	genUniqueNames bool
}

func newVarPopulator(types *ir.TypeRegistry, vars *ir.VariableRegistry, names *ir.NameRegistry, genUniqueNames bool) *varPopulator {
	return &varPopulator{types: types, vars: vars, names: names, genUniqueNames: genUniqueNames}
}

func (p *varPopulator) populateOne(in spirv.Instruction) error {
	if in.Op != spirv.OpVariable {
		return nil
	}
	r := in.Reader()
	ptrTypeId, err := r.U32()
	if err != nil {
		return err
	}
	id, err := r.U32()
	if err != nil {
		return err
	}
	rawStoreClass, err := r.U32()
	if err != nil {
		return err
	}
	storeClass := ir.StorageClass(rawStoreClass)
	if storeClass == ir.StorageClassFunction {
		return nil
	}
	ptrTy, ok := p.types.Get(ir.TypeId(ptrTypeId))
	if !ok {
		return NewError(ErrBrokenNestedType, fmt.Sprintf("variable %d references unknown pointer type %d", id, ptrTypeId))
	}
	if _, fwd := ptrTy.(ir.ForwardPointerType); fwd {
		// The forward-declared pointer was never defined; drop the variable.
		return nil
	}
	ptr, ok := ptrTy.(ir.PointerType)
	if !ok {
		return NewError(ErrBrokenNestedType, fmt.Sprintf("variable %d's type %d is not a pointer", id, ptrTypeId))
	}
	var name *string
	if n, ok := p.names.Get(id); ok {
		name = &n
	} else if p.genUniqueNames {
		n := fmt.Sprintf("var_%d", id)
		name = &n
	}
	if err := p.vars.Set(ir.VariableId(id), ir.VariableAlloc{
		Id: ir.VariableId(id), Name: name, PointerTy: ptr, StoreClass: ptr.StoreClass,
	}); err != nil {
		return NewError(ErrDuplicateType, fmt.Sprintf("variable %d declared twice", id))
	}
	return nil
}

// classifier projects raw VariableAlloc values into the ir.Variable sum
// type, following the same dispatch the original tool used: storage
// class first, then pointee shape.
type classifier struct {
	decos *ir.DecorationRegistry
}

func newClassifier(decos *ir.DecorationRegistry) *classifier {
	return &classifier{decos: decos}
}

// classify turns one raw allocation into a Variable. Returns ok=false
// when the variable cannot be classified (e.g. an Input/Output variable
// with no Location decoration): such variables are silently dropped from
// the reflected output rather than treated as an error, matching the
// tolerance policy for malformed-but-plausible interface declarations.
func (c *classifier) classify(alloc ir.VariableAlloc) (ir.Variable, bool) {
	switch alloc.StoreClass {
	case ir.StorageClassInput:
		loc, ok := c.decos.GetU32(uint32(alloc.Id), ir.DecorationLocation)
		if !ok {
			return nil, false
		}
		comp, _ := c.decos.GetU32(uint32(alloc.Id), ir.DecorationComponent)
		return ir.InputVariable{Name: alloc.Name, Location: loc, Component: comp, Type: alloc.PointerTy.Pointee}, true

	case ir.StorageClassOutput:
		loc, ok := c.decos.GetU32(uint32(alloc.Id), ir.DecorationLocation)
		if !ok {
			return nil, false
		}
		comp, _ := c.decos.GetU32(uint32(alloc.Id), ir.DecorationComponent)
		return ir.OutputVariable{Name: alloc.Name, Location: loc, Component: comp, Type: alloc.PointerTy.Pointee}, true

	case ir.StorageClassPushConstant:
		if _, ok := alloc.PointerTy.Pointee.(ir.StructType); !ok {
			return nil, false
		}
		return ir.PushConstantVariable{Name: alloc.Name, Type: alloc.PointerTy.Pointee}, true

	case ir.StorageClassUniformConstant, ir.StorageClassUniform, ir.StorageClassStorageBuffer:
		return c.classifyDescriptor(alloc)

	default:
		return nil, false
	}
}

// classifyDescriptor handles every descriptor-producing storage class,
// unwrapping one level of array for multi-binding descriptors (arrays of
// samplers/images/buffers bound to a single (set, binding) slot).
func (c *classifier) classifyDescriptor(alloc ir.VariableAlloc) (ir.Variable, bool) {
	set, hasSet := c.decos.GetU32(uint32(alloc.Id), ir.DecorationDescriptorSet)
	binding, hasBinding := c.decos.GetU32(uint32(alloc.Id), ir.DecorationBinding)
	if !hasSet || !hasBinding {
		return nil, false
	}

	pointee := alloc.PointerTy.Pointee
	bindCount := uint32(1)
	elemTy := pointee
	if arr, ok := pointee.(ir.ArrayType); ok {
		elemTy = arr.Element
		if arr.Count != nil {
			bindCount = *arr.Count
		} else {
			bindCount = 0
		}
	}

	descTy, ok := c.descriptorTypeOf(uint32(alloc.Id), alloc.StoreClass, elemTy)
	if !ok {
		return nil, false
	}

	return ir.DescriptorVariable{
		Name: alloc.Name, Set: set, Binding: binding,
		DescType: descTy, Type: elemTy, BindCount: bindCount,
	}, true
}

func (c *classifier) descriptorTypeOf(varId uint32, storeClass ir.StorageClass, ty ir.Type) (ir.DescriptorType, bool) {
	switch t := ty.(type) {
	case ir.StructType:
		switch storeClass {
		case ir.StorageClassUniform:
			return ir.UniformBufferDescriptor{}, true
		case ir.StorageClassStorageBuffer:
			return ir.StorageBufferDescriptor{Access: structAccess(t)}, true
		default:
			return nil, false
		}

	case ir.SamplerType:
		return ir.SamplerDescriptor{}, true

	case ir.CombinedImageSamplerType:
		return ir.CombinedImageSamplerDescriptor{}, true

	case ir.SampledImageType:
		if t.Dim == ir.DimBuffer {
			return ir.UniformTexelBufferDescriptor{}, true
		}
		return ir.CombinedImageSamplerDescriptor{}, true

	case ir.StorageImageType:
		if t.Dim == ir.DimBuffer {
			return ir.StorageTexelBufferDescriptor{Access: ir.AccessReadWrite}, true
		}
		return ir.StorageImageDescriptor{Access: ir.AccessReadWrite}, true

	case ir.SubpassDataType:
		index, _ := c.decos.GetU32(varId, ir.DecorationInputAttachmentIndex)
		return ir.InputAttachmentDescriptor{Index: index}, true

	case ir.AccelerationStructureType:
		return ir.AccelStructDescriptor{}, true

	case ir.ImageType:
		return classifyImageDescriptor(t)

	default:
		return nil, false
	}
}

// classifyImageDescriptor elevates a raw OpTypeImage to either a storage
// or sampled image descriptor based on its Sampled operand, mirroring the
// image-elevation rule for bare image types with no separate sampler. A
// Buffer-dimensioned image has no combined-sampler or storage-image
// binding model of its own on the API side; it demotes to the matching
// texel-buffer descriptor instead.
func classifyImageDescriptor(img ir.ImageType) (ir.DescriptorType, bool) {
	switch img.IsSampled {
	case ir.TristateTrue:
		if img.Dim == ir.DimBuffer {
			return ir.UniformTexelBufferDescriptor{}, true
		}
		return ir.SampledImageDescriptor{}, true
	case ir.TristateFalse:
		if img.Dim == ir.DimBuffer {
			return ir.StorageTexelBufferDescriptor{Access: ir.AccessReadWrite}, true
		}
		return ir.StorageImageDescriptor{Access: ir.AccessReadWrite}, true
	default:
		// Unknown-at-compile-time sampled-ness (kernel-only usage) has no
		// descriptor-type analog in the graphics-facing model; drop it.
		return nil, false
	}
}

func structAccess(t ir.StructType) ir.AccessType {
	if len(t.Members) == 0 {
		return ir.AccessReadWrite
	}
	access := t.Members[0].Access
	for _, m := range t.Members[1:] {
		if m.Access != access {
			return ir.AccessReadWrite
		}
	}
	return access
}
