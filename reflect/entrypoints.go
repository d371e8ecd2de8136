package reflect

import (
	"fmt"

	"github.com/gogpu/spirvreflect/ir"
	"github.com/gogpu/spirvreflect/spirv"
)

// entryPointDecl is the raw form of one OpEntryPoint instruction, kept
// around until projection runs after the whole module has been scanned
// (OpExecutionMode instructions that refer to it, and the function
// definitions its interface functions call into, both come later in the
// module).
type entryPointDecl struct {
	Model      ir.ExecutionModel
	EntryFunc  ir.FunctionId
	Name       string
	Interfaces []ir.VariableId
}

type execModeDecl struct {
	Target   ir.FunctionId
	Mode     ir.ExecutionMode
	Operands []uint32
	// IsId records whether this declaration came from OpExecutionModeId,
	// whose trailing operands are ids of already-declared constants
	// rather than raw literals.
	IsId bool
}

func parseEntryPoint(in spirv.Instruction) (entryPointDecl, error) {
	r := in.Reader()
	rawModel, err := r.U32()
	if err != nil {
		return entryPointDecl{}, err
	}
	fn, err := r.U32()
	if err != nil {
		return entryPointDecl{}, err
	}
	name, err := r.String()
	if err != nil {
		return entryPointDecl{}, err
	}
	var ifaces []ir.VariableId
	for r.Remaining() > 0 {
		id, err := r.U32()
		if err != nil {
			return entryPointDecl{}, err
		}
		ifaces = append(ifaces, ir.VariableId(id))
	}
	return entryPointDecl{Model: ir.ExecutionModel(rawModel), EntryFunc: ir.FunctionId(fn), Name: name, Interfaces: ifaces}, nil
}

func parseExecutionMode(in spirv.Instruction) (execModeDecl, error) {
	r := in.Reader()
	fn, err := r.U32()
	if err != nil {
		return execModeDecl{}, err
	}
	rawMode, err := r.U32()
	if err != nil {
		return execModeDecl{}, err
	}
	return execModeDecl{
		Target: ir.FunctionId(fn), Mode: ir.ExecutionMode(rawMode), Operands: r.Rest(),
		IsId: in.Op == spirv.OpExecutionModeId,
	}, nil
}

// projector assembles the final ir.EntryPoint values once every section
// of the module has been scanned.
type projector struct {
	types  *ir.TypeRegistry
	consts *ir.ConstantRegistry
	vars   *ir.VariableRegistry
	funcs  *ir.FunctionRegistry
	class  *classifier
	opts   Options
}

func newProjector(types *ir.TypeRegistry, consts *ir.ConstantRegistry, vars *ir.VariableRegistry, funcs *ir.FunctionRegistry, class *classifier, opts Options) *projector {
	return &projector{types: types, consts: consts, vars: vars, funcs: funcs, class: class, opts: opts}
}

// project builds the final entry points. decls is processed in
// declaration order; duplicate (model, name) pairs are rejected, matching
// the SPIR-V validation layer's own uniqueness rule.
func (p *projector) project(decls []entryPointDecl, modes []execModeDecl) ([]ir.EntryPoint, error) {
	seen := make(map[string]struct{}, len(decls))
	out := make([]ir.EntryPoint, 0, len(decls))

	for _, decl := range decls {
		key := fmt.Sprintf("%d:%s", decl.Model, decl.Name)
		if _, dup := seen[key]; dup {
			return nil, NewError(ErrDuplicateEntryPoint, fmt.Sprintf("entry point %q declared twice for execution model %d", decl.Name, decl.Model))
		}
		seen[key] = struct{}{}

		ep, err := p.projectOne(decl, modes)
		if err != nil {
			return nil, err
		}
		out = append(out, ep)
	}
	return out, nil
}

func (p *projector) projectOne(decl entryPointDecl, allModes []execModeDecl) (ir.EntryPoint, error) {
	var reachable map[ir.VariableId]struct{}
	if p.opts.RefAllRscs {
		reachable = nil
	} else {
		reachable = p.funcs.CollectAccessedVars(decl.EntryFunc)
	}

	vars := make([]ir.Variable, 0, len(decl.Interfaces))
	seenVar := make(map[ir.VariableId]struct{})
	appendVar := func(id ir.VariableId) {
		if _, dup := seenVar[id]; dup {
			return
		}
		if !p.opts.RefAllRscs {
			if _, ok := reachable[id]; !ok {
				return
			}
		}
		alloc, ok := p.vars.Get(id)
		if !ok {
			return
		}
		v, ok := p.class.classify(alloc)
		if !ok {
			return
		}
		seenVar[id] = struct{}{}
		vars = append(vars, v)
	}

	// Pre-1.4 shaders only list Input/Output variables in the interface
	// list; descriptor/push-constant variables must be pulled in from the
	// whole module when ref_all_rscs requests full liveness, or from the
	// function's own access-chain closure otherwise.
	for _, id := range decl.Interfaces {
		appendVar(id)
	}
	for _, alloc := range p.vars.All() {
		if p.opts.RefAllRscs {
			appendVar(alloc.Id)
			continue
		}
		if _, ok := reachable[alloc.Id]; ok {
			appendVar(alloc.Id)
		}
	}

	if p.opts.CombineImgSamplers {
		vars = combineImageSamplers(vars)
	}

	vars = append(vars, p.specConstantVars()...)

	var modes []ir.ExecutionModeRecord
	for _, m := range allModes {
		if m.Target != decl.EntryFunc {
			continue
		}
		operands := make([]ir.Constant, 0, len(m.Operands))
		for _, lit := range m.Operands {
			if m.IsId {
				c, ok := p.consts.Get(ir.ConstantId(lit))
				if !ok {
					return ir.EntryPoint{}, NewError(ErrBrokenNestedType,
						fmt.Sprintf("entry point %q: execution mode %d references unresolved constant %d", decl.Name, m.Mode, lit))
				}
				operands = append(operands, c)
				continue
			}
			operands = append(operands, ir.Constant{Value: ir.U32Value(lit)})
		}
		modes = append(modes, ir.ExecutionModeRecord{Mode: m.Mode, Operands: operands})
	}

	return ir.EntryPoint{
		Name: decl.Name, ExecModel: decl.Model, Vars: vars, ExecModes: modes,
		AllResourcesReferenced: p.opts.RefAllRscs,
	}, nil
}

// specConstantVars reports every specialization constant as a resource
// of every entry point, deliberately over-reporting relative to a given
// entry point's actual fold-graph reachability (unlike
// ordinary resources, the cost of omitting a live spec constant — wrong
// array sizes downstream — outweighs the cost of listing an unused one).
func (p *projector) specConstantVars() []ir.Variable {
	var out []ir.Variable
	for _, c := range p.consts.All() {
		if c.SpecId == nil {
			continue
		}
		out = append(out, ir.SpecConstantVariable{Name: c.Name, SpecId: *c.SpecId, Type: c.Type})
	}
	return out
}

// combineImageSamplers folds a separately-declared sampler and sampled
// image bound to the same (set, binding, bind_count) coordinate into one
// CombinedImageSamplerDescriptor, matched purely by coordinate (never by
// name).
func combineImageSamplers(vars []ir.Variable) []ir.Variable {
	type coord struct {
		set, binding, count uint32
	}
	samplers := make(map[coord]int)
	images := make(map[coord]int)
	for i, v := range vars {
		d, ok := v.(ir.DescriptorVariable)
		if !ok {
			continue
		}
		c := coord{d.Set, d.Binding, d.BindCount}
		switch d.DescType.(type) {
		case ir.SamplerDescriptor:
			samplers[c] = i
		case ir.SampledImageDescriptor:
			images[c] = i
		}
	}

	drop := make(map[int]struct{})
	out := make([]ir.Variable, 0, len(vars))
	for c, imgIdx := range images {
		samplerIdx, ok := samplers[c]
		if !ok {
			continue
		}
		img := vars[imgIdx].(ir.DescriptorVariable)
		var combinedTy ir.Type = img.Type
		switch t := img.Type.(type) {
		case ir.SampledImageType:
			combinedTy = ir.CombinedImageSamplerType{Id: t.Id, Image: t}
		case ir.ImageType:
			combinedTy = ir.CombinedImageSamplerType{Id: t.Id, Image: ir.SampledImageType{
				Id: t.Id, Scalar: t.Scalar, Dim: t.Dim, IsArrayed: t.IsArrayed, IsMultisampled: t.IsMultisampled,
			}}
		}
		vars[imgIdx] = ir.DescriptorVariable{
			Name: img.Name, Set: img.Set, Binding: img.Binding,
			DescType: ir.CombinedImageSamplerDescriptor{}, Type: combinedTy, BindCount: img.BindCount,
		}
		drop[samplerIdx] = struct{}{}
	}
	for i, v := range vars {
		if _, dropped := drop[i]; dropped {
			continue
		}
		out = append(out, v)
	}
	return out
}
