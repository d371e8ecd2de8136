package ir

// ExecutionModel is the SPIR-V shader-stage enum named by OpEntryPoint.
type ExecutionModel uint32

const (
	ExecutionModelVertex                 ExecutionModel = 0
	ExecutionModelTessellationControl    ExecutionModel = 1
	ExecutionModelTessellationEvaluation ExecutionModel = 2
	ExecutionModelGeometry               ExecutionModel = 3
	ExecutionModelFragment               ExecutionModel = 4
	ExecutionModelGLCompute              ExecutionModel = 5
	ExecutionModelKernel                 ExecutionModel = 6
	ExecutionModelRayGenerationKHR       ExecutionModel = 5313
	ExecutionModelIntersectionKHR        ExecutionModel = 5314
	ExecutionModelAnyHitKHR              ExecutionModel = 5315
	ExecutionModelClosestHitKHR          ExecutionModel = 5316
	ExecutionModelMissKHR                ExecutionModel = 5317
	ExecutionModelCallableKHR            ExecutionModel = 5318
	ExecutionModelTaskEXT                ExecutionModel = 5364
	ExecutionModelMeshEXT                ExecutionModel = 5365
)

// String returns the symbolic execution model name, used by both
// reflection summaries and the disassembler.
func (m ExecutionModel) String() string {
	switch m {
	case ExecutionModelVertex:
		return "Vertex"
	case ExecutionModelTessellationControl:
		return "TessellationControl"
	case ExecutionModelTessellationEvaluation:
		return "TessellationEvaluation"
	case ExecutionModelGeometry:
		return "Geometry"
	case ExecutionModelFragment:
		return "Fragment"
	case ExecutionModelGLCompute:
		return "GLCompute"
	case ExecutionModelKernel:
		return "Kernel"
	case ExecutionModelRayGenerationKHR:
		return "RayGenerationKHR"
	case ExecutionModelIntersectionKHR:
		return "IntersectionKHR"
	case ExecutionModelAnyHitKHR:
		return "AnyHitKHR"
	case ExecutionModelClosestHitKHR:
		return "ClosestHitKHR"
	case ExecutionModelMissKHR:
		return "MissKHR"
	case ExecutionModelCallableKHR:
		return "CallableKHR"
	case ExecutionModelTaskEXT:
		return "TaskEXT"
	case ExecutionModelMeshEXT:
		return "MeshEXT"
	default:
		return "Unknown"
	}
}

// ExecutionMode is the SPIR-V execution-mode enum named by
// OpExecutionMode / OpExecutionModeId.
type ExecutionMode uint32

const (
	ExecutionModeInvocations            ExecutionMode = 0
	ExecutionModeSpacingEqual           ExecutionMode = 1
	ExecutionModeSpacingFractionalEven  ExecutionMode = 2
	ExecutionModeSpacingFractionalOdd   ExecutionMode = 3
	ExecutionModeVertexOrderCw          ExecutionMode = 4
	ExecutionModeVertexOrderCcw         ExecutionMode = 5
	ExecutionModePixelCenterInteger     ExecutionMode = 6
	ExecutionModeOriginUpperLeft        ExecutionMode = 7
	ExecutionModeOriginLowerLeft        ExecutionMode = 8
	ExecutionModeEarlyFragmentTests     ExecutionMode = 9
	ExecutionModePointMode              ExecutionMode = 10
	ExecutionModeXfb                    ExecutionMode = 11
	ExecutionModeDepthReplacing         ExecutionMode = 12
	ExecutionModeDepthGreater           ExecutionMode = 14
	ExecutionModeDepthLess              ExecutionMode = 15
	ExecutionModeDepthUnchanged         ExecutionMode = 16
	ExecutionModeLocalSize              ExecutionMode = 17
	ExecutionModeLocalSizeHint          ExecutionMode = 18
	ExecutionModeInputPoints            ExecutionMode = 19
	ExecutionModeInputLines             ExecutionMode = 20
	ExecutionModeInputLinesAdjacency    ExecutionMode = 21
	ExecutionModeTriangles              ExecutionMode = 22
	ExecutionModeInputTrianglesAdjacency ExecutionMode = 23
	ExecutionModeQuads                  ExecutionMode = 24
	ExecutionModeIsolines               ExecutionMode = 25
	ExecutionModeOutputVertices         ExecutionMode = 26
	ExecutionModeOutputPoints           ExecutionMode = 27
	ExecutionModeOutputLineStrip        ExecutionMode = 28
	ExecutionModeOutputTriangleStrip    ExecutionMode = 29
	ExecutionModeVecTypeHint            ExecutionMode = 30
	ExecutionModeContractionOff         ExecutionMode = 31
	ExecutionModeInitializer            ExecutionMode = 33
	ExecutionModeFinalizer              ExecutionMode = 34
	ExecutionModeSubgroupSize           ExecutionMode = 35
	ExecutionModeSubgroupsPerWorkgroup  ExecutionMode = 36
	ExecutionModeLocalSizeId            ExecutionMode = 38
	ExecutionModeLocalSizeHintId        ExecutionMode = 39
)

// ExecutionModeRecord is one resolved OpExecutionMode/OpExecutionModeId
// declaration, its literal/id operands already resolved to constants.
type ExecutionModeRecord struct {
	Mode     ExecutionMode
	Operands []Constant
}

// EntryPoint is the final, fully independent projection of one
// OpEntryPoint declaration.
type EntryPoint struct {
	Name      string
	ExecModel ExecutionModel
	Vars      []Variable
	ExecModes []ExecutionModeRecord

	// AllResourcesReferenced records whether this projection was built
	// with ref_all_rscs=true, for reflect.Validate's reachability check.
	AllResourcesReferenced bool
}

// Descriptor looks up a DescriptorVariable by its (set, binding)
// coordinate. Supplements the distilled spec's plain slice output with a
// direct accessor.
func (e EntryPoint) Descriptor(set, binding uint32) (DescriptorVariable, bool) {
	for _, v := range e.Vars {
		if d, ok := v.(DescriptorVariable); ok && d.Set == set && d.Binding == binding {
			return d, true
		}
	}
	return DescriptorVariable{}, false
}

// Direction distinguishes Input from Output for ByLocation lookups.
type Direction uint8

const (
	DirectionInput Direction = iota
	DirectionOutput
)

// ByLocation looks up an Input or Output variable by its interface
// location.
func (e EntryPoint) ByLocation(loc uint32, dir Direction) (Variable, bool) {
	for _, v := range e.Vars {
		switch dir {
		case DirectionInput:
			if in, ok := v.(InputVariable); ok && in.Location == loc {
				return in, true
			}
		case DirectionOutput:
			if out, ok := v.(OutputVariable); ok && out.Location == loc {
				return out, true
			}
		}
	}
	return nil, false
}
