package reflect

import (
	"fmt"

	"github.com/gogpu/spirvreflect/ir"
	"github.com/gogpu/spirvreflect/spirv"
)

// Reflect decodes a SPIR-V module and projects one ir.EntryPoint per
// OpEntryPoint declaration. It walks the module's instructions exactly
// once, in the fixed logical order SPIR-V guarantees: debug names and
// annotations are fully populated before type/constant/variable
// reconstruction begins, and every global declaration is complete before
// the first function body is inspected.
func Reflect(data []byte, opts Options) ([]ir.EntryPoint, error) {
	dec, err := spirv.DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode module: %w", err)
	}

	names := ir.NewNameRegistry()
	decos := ir.NewDecorationRegistry()
	types := ir.NewTypeRegistry()
	consts := ir.NewConstantRegistry()
	vars := ir.NewVariableRegistry()
	funcs := ir.NewFunctionRegistry()

	typePop := newTypePopulator(types, consts, decos, names, opts.GenUniqueNames)
	constPop := newConstPopulator(types, consts, decos, names, opts.SpecValues)
	varPop := newVarPopulator(types, vars, names, opts.GenUniqueNames)
	inspector := newFunctionInspector(vars, funcs)

	var entryDecls []entryPointDecl
	var modeDecls []execModeDecl

	for {
		in, ok, err := dec.Next()
		if err != nil {
			return nil, fmt.Errorf("decode instruction: %w", err)
		}
		if !ok {
			break
		}

		switch {
		case in.Op == spirv.OpMemoryModel:
			r := in.Reader()
			rawAddressing, err := r.U32()
			if err != nil {
				return nil, err
			}
			rawMemory, err := r.U32()
			if err != nil {
				return nil, err
			}
			if err := validateMemoryModel(rawAddressing, rawMemory); err != nil {
				return nil, err
			}

		case in.Op == spirv.OpName:
			r := in.Reader()
			id, err := r.U32()
			if err != nil {
				return nil, err
			}
			name, err := r.String()
			if err != nil {
				return nil, err
			}
			names.Set(id, name)

		case in.Op == spirv.OpMemberName:
			r := in.Reader()
			id, err := r.U32()
			if err != nil {
				return nil, err
			}
			member, err := r.U32()
			if err != nil {
				return nil, err
			}
			name, err := r.String()
			if err != nil {
				return nil, err
			}
			names.SetMember(id, member, name)

		case in.Op == spirv.OpDecorate:
			r := in.Reader()
			id, err := r.U32()
			if err != nil {
				return nil, err
			}
			rawDeco, err := r.U32()
			if err != nil {
				return nil, err
			}
			if err := decos.Set(id, ir.Decoration(rawDeco), r.Rest()); err != nil {
				return nil, NewError(ErrDuplicateDecoration, fmt.Sprintf("id %d decorated twice with %s", id, ir.Decoration(rawDeco)))
			}

		case in.Op == spirv.OpMemberDecorate:
			r := in.Reader()
			id, err := r.U32()
			if err != nil {
				return nil, err
			}
			member, err := r.U32()
			if err != nil {
				return nil, err
			}
			rawDeco, err := r.U32()
			if err != nil {
				return nil, err
			}
			if err := decos.SetMember(id, member, ir.Decoration(rawDeco), r.Rest()); err != nil {
				return nil, NewError(ErrDuplicateDecoration, fmt.Sprintf("id %d member %d decorated twice with %s", id, member, ir.Decoration(rawDeco)))
			}

		case in.Op == spirv.OpEntryPoint:
			decl, err := parseEntryPoint(in)
			if err != nil {
				return nil, err
			}
			entryDecls = append(entryDecls, decl)

		case in.Op == spirv.OpExecutionMode || in.Op == spirv.OpExecutionModeId:
			decl, err := parseExecutionMode(in)
			if err != nil {
				return nil, err
			}
			modeDecls = append(modeDecls, decl)

		case in.Op.IsTypeOp():
			if err := typePop.populateOne(in); err != nil {
				return nil, err
			}

		case in.Op.IsConstOp():
			if err := constPop.populateOne(in); err != nil {
				// An OpSpecConstantOp folding an operator the evaluator
				// doesn't implement drops that one constant rather than
				// failing the whole module; anything that actually
				// depends on it (an array length, say) reports its own
				// unresolved-reference error downstream.
				if rerr, ok := err.(*Error); ok && rerr.Kind == ErrUnsupportedOperator {
					continue
				}
				return nil, err
			}

		case in.Op == spirv.OpVariable && !inspector.inFunction():
			if err := varPop.populateOne(in); err != nil {
				return nil, err
			}

		case in.Op == spirv.OpFunction, in.Op == spirv.OpFunctionEnd,
			in.Op == spirv.OpFunctionCall, in.Op == spirv.OpAccessChain,
			in.Op == spirv.OpInBoundsAccessChain, in.Op == spirv.OpPtrAccessChain,
			in.Op == spirv.OpLoad, in.Op == spirv.OpStore,
			in.Op.IsAtomicLoadOp(), in.Op.IsAtomicStoreOp():
			if err := inspector.feed(in); err != nil {
				return nil, err
			}

		default:
			// Instructions with no role in the reconstructed object graph
			// (OpSource, OpCapability, OpExtension, control-flow bodies
			// beyond load/store/call, ...) are intentionally skipped.
		}
	}

	if err := inspector.finish(); err != nil {
		return nil, err
	}

	class := newClassifier(decos)
	proj := newProjector(types, consts, vars, funcs, class, opts)
	return proj.project(entryDecls, modeDecls)
}

// SPIR-V AddressingModel and MemoryModel operands of OpMemoryModel. Every
// module declares exactly one OpMemoryModel; reflection only supports the
// subset a Vulkan/GLSL graphics pipeline can actually produce.
const (
	addressingModelLogical                 = 0
	addressingModelPhysicalStorageBuffer64 = 5348

	memoryModelGLSL450 = 1
	memoryModelVulkan  = 3
)

func validateMemoryModel(addressing, memory uint32) error {
	if addressing != addressingModelLogical && addressing != addressingModelPhysicalStorageBuffer64 {
		return NewError(ErrUnsupportedModel, fmt.Sprintf("unsupported addressing model %d", addressing))
	}
	if memory != memoryModelGLSL450 && memory != memoryModelVulkan {
		return NewError(ErrUnsupportedModel, fmt.Sprintf("unsupported memory model %d", memory))
	}
	return nil
}
