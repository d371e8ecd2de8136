package disasm

import "github.com/gogpu/spirvreflect/ir"

var storageClassNames = map[ir.StorageClass]string{
	ir.StorageClassUniformConstant:       "UniformConstant",
	ir.StorageClassInput:                 "Input",
	ir.StorageClassUniform:               "Uniform",
	ir.StorageClassOutput:                "Output",
	ir.StorageClassWorkgroup:             "Workgroup",
	ir.StorageClassCrossWorkgroup:        "CrossWorkgroup",
	ir.StorageClassPrivate:               "Private",
	ir.StorageClassFunction:              "Function",
	ir.StorageClassGeneric:               "Generic",
	ir.StorageClassPushConstant:          "PushConstant",
	ir.StorageClassAtomicCounter:         "AtomicCounter",
	ir.StorageClassImage:                 "Image",
	ir.StorageClassStorageBuffer:         "StorageBuffer",
	ir.StorageClassPhysicalStorageBuffer: "PhysicalStorageBuffer",
}

func storageClassName(v uint32) string {
	if s, ok := storageClassNames[ir.StorageClass(v)]; ok {
		return s
	}
	return numeric(v)
}

var dimNames = map[ir.Dim]string{
	ir.Dim1D: "1D", ir.Dim2D: "2D", ir.Dim3D: "3D", ir.DimCube: "Cube",
	ir.DimRect: "Rect", ir.DimBuffer: "Buffer", ir.DimSubpassData: "SubpassData",
}

func dimName(v uint32) string {
	if s, ok := dimNames[ir.Dim(v)]; ok {
		return s
	}
	return numeric(v)
}
