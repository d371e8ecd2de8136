// Package spirvreflect provides reflection and disassembly for
// compiled SPIR-V shader binaries.
//
// Reflect walks a SPIR-V module's instruction stream and reconstructs
// the resources an entry point references — its interface variables,
// descriptor bindings, push constants and specialization constants —
// without executing or transforming the shader itself. Disassemble
// renders the same binary as human-readable assembly text.
//
// Example usage:
//
//	data, _ := os.ReadFile("shader.spv")
//	entryPoints, err := spirvreflect.Reflect(data, spirvreflect.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, ep := range entryPoints {
//	    fmt.Println(ep.Name, ep.ExecModel)
//	}
//
// For assembly text, use Disassemble:
//
//	text, err := spirvreflect.Disassemble(data, disasm.DefaultOptions())
package spirvreflect

import (
	"fmt"

	"github.com/gogpu/spirvreflect/disasm"
	"github.com/gogpu/spirvreflect/ir"
	"github.com/gogpu/spirvreflect/reflect"
)

// Options configures reflection. It is a thin, package-stable alias
// over reflect.Options so callers depend on the root package alone
// for the common case.
type Options = reflect.Options

// DefaultOptions returns sensible reflection defaults: liveness-pruned
// resources, combined-image-sampler folding disabled, no generated
// unique names, no specialization overrides.
func DefaultOptions() Options {
	return reflect.DefaultOptions()
}

// Reflect decodes data as a SPIR-V module and reconstructs every entry
// point's resource interface.
//
// The pipeline is:
//  1. Decode the binary word stream and recover byte order
//  2. Walk instructions once, populating name/decoration/type/constant/
//     variable/function registries
//  3. Project each OpEntryPoint into an ir.EntryPoint, pruning
//     unreferenced resources unless opts.RefAllRscs is set
func Reflect(data []byte, opts Options) ([]ir.EntryPoint, error) {
	entryPoints, err := reflect.Reflect(data, opts)
	if err != nil {
		return nil, fmt.Errorf("spirv reflection error: %w", err)
	}
	return entryPoints, nil
}

// Validate runs the post-hoc consistency checks in reflect.Validate
// over an already-reflected result.
func Validate(entryPoints []ir.EntryPoint) []*reflect.Error {
	return reflect.Validate(entryPoints)
}

// Disassemble decodes data as a SPIR-V module and renders it as
// assembly text, using the shared spirv.Decoder rather than the
// reflection engine.
func Disassemble(data []byte, opts disasm.Options) (string, error) {
	text, err := disasm.Disassemble(data, opts)
	if err != nil {
		return "", fmt.Errorf("spirv disassembly error: %w", err)
	}
	return text, nil
}
