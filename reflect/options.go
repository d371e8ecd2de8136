package reflect

import "github.com/gogpu/spirvreflect/ir"

// Options configures how a module is reflected.
type Options struct {
	// RefAllRscs disables liveness pruning: every module-level resource
	// variable is reported against every entry point regardless of
	// whether the entry point's call graph actually touches it.
	RefAllRscs bool

	// CombineImgSamplers folds a separately-declared sampler and sampled
	// image bound to the same (set, binding) and with the same bind count
	// into one combined image-sampler descriptor, matched by coordinate
	// alone (name-blind).
	CombineImgSamplers bool

	// GenUniqueNames synthesizes a name for any declaration that has no
	// OpName, instead of leaving it unnamed.
	GenUniqueNames bool

	// SpecValues overrides specialization constant defaults by SpecId.
	// An override is applied before dependent reconstruction (array
	// lengths, execution mode operands) runs.
	SpecValues map[uint32]ir.ConstantValue
}

// DefaultOptions returns the options reflect.Reflect uses when none are
// given explicitly: no liveness pruning bypass, sampler/image combination
// off, no synthesized names, no specialization overrides.
func DefaultOptions() Options {
	return Options{
		RefAllRscs:         false,
		CombineImgSamplers: false,
		GenUniqueNames:     false,
		SpecValues:         nil,
	}
}
