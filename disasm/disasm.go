package disasm

import (
	"fmt"
	"strings"

	"github.com/gogpu/spirvreflect/ir"
	"github.com/gogpu/spirvreflect/spirv"
)

// Disassemble decodes data as a SPIR-V module and renders it as
// human-readable assembly text, one instruction per line. It shares
// the decoder with the reflect package but runs no semantic
// reconstruction of its own — every id is printed either numerically
// or, with Options.Names, by whatever OpName happens to target it.
func Disassemble(data []byte, opts Options) (string, error) {
	dec, err := spirv.DecodeBytes(data)
	if err != nil {
		return "", err
	}

	names := make(map[uint32]string)
	if opts.Names {
		instrs, err := dec.All()
		if err != nil {
			return "", err
		}
		for _, in := range instrs {
			if in.Op == spirv.OpName && len(in.Operands) >= 2 {
				r := in.Reader()
				target, _ := r.U32()
				s, err := r.String()
				if err == nil && s != "" {
					names[target] = s
				}
			}
		}
		// All consumed the decoder; start a fresh one for the printing pass.
		dec, err = spirv.DecodeBytes(data)
		if err != nil {
			return "", err
		}
	}

	p := &printer{names: names}

	var b strings.Builder
	fmt.Fprintf(&b, "; SPIR-V\n; Version: %d.%d\n; Generator: %#x\n; Bound: %d\n; Schema: %d\n",
		dec.Header.Version.Major, dec.Header.Version.Minor, dec.Header.Generator, dec.Header.IDBound, dec.Header.Schema)

	for {
		in, ok, err := dec.Next()
		if err != nil {
			return "", err
		}
		if !ok {
			break
		}
		if opts.ByteOffsets {
			fmt.Fprintf(&b, "%6d  ", in.Offset*4)
		}
		b.WriteString(p.line(in))
		b.WriteByte('\n')
	}

	return b.String(), nil
}

type printer struct {
	names map[uint32]string
}

func (p *printer) id(n uint32) string {
	if name, ok := p.names[n]; ok {
		return "%" + name
	}
	return fmt.Sprintf("%%%d", n)
}

// line renders a single decoded instruction. Shaped instructions are
// rendered from operandShapes; anything outside that table falls back
// to either the arithmetic/logical/comparison layout (ResultType,
// Result, then a variadic IdRef tail) or a bare opcode-plus-id-operands
// rendering (see genericLine).
func (p *printer) line(in spirv.Instruction) string {
	name := in.Op.Name()
	s, ok := operandShapes[in.Op]
	if !ok {
		return p.genericLine(in, name)
	}

	r := in.Reader()
	var lhs string
	if s.hasResultType {
		ty, _ := r.U32()
		if s.hasResult {
			res, _ := r.U32()
			lhs = p.id(res) + " = " + name + " " + p.id(ty)
		} else {
			lhs = name + " " + p.id(ty)
		}
	} else if s.hasResult {
		res, _ := r.U32()
		lhs = p.id(res) + " = " + name
	} else {
		lhs = name
	}

	var parts []string
	parts = append(parts, lhs)
	for _, k := range s.leading {
		if r.Remaining() == 0 {
			break
		}
		parts = append(parts, p.renderArg(r, k))
	}
	if s.hasVariadic {
		for r.Remaining() > 0 {
			parts = append(parts, p.renderArg(r, s.variadic))
		}
	} else {
		// The table's leading shape doesn't always describe every word an
		// encoding can carry (e.g. the optional Access Qualifier word on
		// some OpTypeImage encodings); render what's left rather than
		// silently dropping it.
		for r.Remaining() > 0 {
			v, _ := r.U32()
			parts = append(parts, fmt.Sprintf("!%d", v))
		}
	}
	return strings.Join(parts, " ")
}

func (p *printer) renderArg(r *spirv.OperandReader, k argKind) string {
	switch k {
	case argIdRef:
		v, _ := r.U32()
		return p.id(v)
	case argLiteral:
		v, _ := r.U32()
		return fmt.Sprintf("%d", v)
	case argString:
		s, err := r.String()
		if err != nil {
			return `""`
		}
		return fmt.Sprintf("%q", s)
	case argEnumStorageClass:
		v, _ := r.U32()
		return storageClassName(v)
	case argEnumDim:
		v, _ := r.U32()
		return dimName(v)
	case argEnumExecutionModel:
		v, _ := r.U32()
		return ir.ExecutionModel(v).String()
	case argEnumExecutionMode:
		v, _ := r.U32()
		return executionModeName(v)
	case argEnumDecoration:
		v, _ := r.U32()
		return ir.Decoration(v).String()
	default:
		v, _ := r.U32()
		return fmt.Sprintf("%d", v)
	}
}

func (p *printer) genericLine(in spirv.Instruction, name string) string {
	r := in.Reader()

	if arithmeticRange(in.Op) && r.Remaining() >= 2 {
		ty, _ := r.U32()
		res, _ := r.U32()
		parts := []string{p.id(res), "=", name, p.id(ty)}
		for r.Remaining() > 0 {
			v, _ := r.U32()
			parts = append(parts, p.id(v))
		}
		return strings.Join(parts, " ")
	}

	parts := []string{name}
	for r.Remaining() > 0 {
		v, _ := r.U32()
		parts = append(parts, p.id(v))
	}
	return strings.Join(parts, " ")
}

var executionModeNames = map[ir.ExecutionMode]string{
	ir.ExecutionModeOriginUpperLeft: "OriginUpperLeft",
	ir.ExecutionModeOriginLowerLeft: "OriginLowerLeft",
	ir.ExecutionModeLocalSize:       "LocalSize",
	ir.ExecutionModeDepthReplacing:  "DepthReplacing",
	ir.ExecutionModeEarlyFragmentTests: "EarlyFragmentTests",
}

func executionModeName(v uint32) string {
	if s, ok := executionModeNames[ir.ExecutionMode(v)]; ok {
		return s
	}
	return numeric(v)
}

func numeric(v uint32) string {
	return fmt.Sprintf("%d", v)
}
