package reflect

import (
	"fmt"

	"github.com/gogpu/spirvreflect/ir"
	"github.com/gogpu/spirvreflect/spirv"
)

// functionInspector walks the function-definition section of a module,
// tracking which module-scope variables each function touches (directly
// or via an access chain) and which functions it calls. Its per-function
// access-chain map is cleared at every OpFunctionEnd, since access chain
// result ids never escape the function that created them.
type functionInspector struct {
	vars  *ir.VariableRegistry
	funcs *ir.FunctionRegistry

	current     *ir.Function
	accessChain map[uint32]ir.VariableId
}

func newFunctionInspector(vars *ir.VariableRegistry, funcs *ir.FunctionRegistry) *functionInspector {
	return &functionInspector{vars: vars, funcs: funcs, accessChain: make(map[uint32]ir.VariableId)}
}

func (f *functionInspector) inFunction() bool { return f.current != nil }

// feed processes one instruction from the function-definitions section.
func (f *functionInspector) feed(in spirv.Instruction) error {
	switch in.Op {
	case spirv.OpFunction:
		if f.current != nil {
			return NewError(ErrUnterminatedFunction, "nested OpFunction before matching OpFunctionEnd")
		}
		r := in.Reader()
		if _, err := r.U32(); err != nil { // result type
			return err
		}
		id, err := r.U32()
		if err != nil {
			return err
		}
		f.current = ir.NewFunction(ir.FunctionId(id))
		return nil

	case spirv.OpFunctionEnd:
		if f.current == nil {
			return NewError(ErrStrayFunctionEnd, "OpFunctionEnd with no enclosing OpFunction")
		}
		f.funcs.Set(f.current.Id, f.current)
		f.current = nil
		f.accessChain = make(map[uint32]ir.VariableId)
		return nil

	case spirv.OpFunctionCall:
		if f.current == nil {
			return nil
		}
		r := in.Reader()
		if _, err := r.U32(); err != nil { // result type
			return err
		}
		if _, err := r.U32(); err != nil { // result id
			return err
		}
		calleeId, err := r.U32()
		if err != nil {
			return err
		}
		f.current.Callees[ir.FunctionId(calleeId)] = struct{}{}
		return nil

	case spirv.OpAccessChain, spirv.OpInBoundsAccessChain, spirv.OpPtrAccessChain:
		if f.current == nil {
			return nil
		}
		r := in.Reader()
		if _, err := r.U32(); err != nil { // result type
			return err
		}
		resultId, err := r.U32()
		if err != nil {
			return err
		}
		baseId, err := r.U32()
		if err != nil {
			return err
		}
		if baseVar, ok := f.resolveBase(baseId); ok {
			if _, exists := f.accessChain[resultId]; exists {
				return NewError(ErrDuplicateAccessChain, fmt.Sprintf("access chain result %d redefined", resultId))
			}
			f.accessChain[resultId] = baseVar
		}
		return nil

	case spirv.OpLoad:
		if f.current == nil {
			return nil
		}
		r := in.Reader()
		if _, err := r.U32(); err != nil {
			return err
		}
		if _, err := r.U32(); err != nil {
			return err
		}
		ptrId, err := r.U32()
		if err != nil {
			return err
		}
		f.markAccessed(ptrId)
		return nil

	case spirv.OpStore:
		if f.current == nil {
			return nil
		}
		r := in.Reader()
		ptrId, err := r.U32()
		if err != nil {
			return err
		}
		f.markAccessed(ptrId)
		return nil

	default:
		if f.current == nil {
			return nil
		}
		if in.Op.IsAtomicLoadOp() {
			r := in.Reader()
			if _, err := r.U32(); err != nil {
				return err
			}
			if _, err := r.U32(); err != nil {
				return err
			}
			ptrId, err := r.U32()
			if err != nil {
				return err
			}
			f.markAccessed(ptrId)
		} else if in.Op.IsAtomicStoreOp() {
			r := in.Reader()
			ptrId, err := r.U32()
			if err != nil {
				return err
			}
			f.markAccessed(ptrId)
		}
		return nil
	}
}

// resolveBase resolves id to a module-scope variable, either because id
// is itself a known variable, or because it is an access-chain result
// already mapped to one.
func (f *functionInspector) resolveBase(id uint32) (ir.VariableId, bool) {
	if base, ok := f.accessChain[id]; ok {
		return base, true
	}
	if _, ok := f.vars.Get(ir.VariableId(id)); ok {
		return ir.VariableId(id), true
	}
	return 0, false
}

func (f *functionInspector) markAccessed(ptrId uint32) {
	if base, ok := f.resolveBase(ptrId); ok {
		f.current.AccessedVars[base] = struct{}{}
	}
}

// finish reports whether the inspector ended mid-function (a module that
// ran out of instructions before closing its last OpFunction).
func (f *functionInspector) finish() error {
	if f.current != nil {
		return NewError(ErrUnterminatedFunction, fmt.Sprintf("function %d never reached OpFunctionEnd", f.current.Id))
	}
	return nil
}
