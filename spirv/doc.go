// Package spirv decodes the SPIR-V binary word stream: the module
// header, the instruction opcode table, and a lazy instruction-by-
// instruction reader with typed operand accessors.
//
// # Decoding
//
//	dec, err := spirv.DecodeBytes(data)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for {
//		in, ok, err := dec.Next()
//		if err != nil {
//			log.Fatal(err)
//		}
//		if !ok {
//			break
//		}
//		r := in.Reader()
//		// read operands per in.Op's grammar
//	}
//
// This package performs no semantic interpretation of what it decodes:
// it does not resolve types, evaluate constants, or classify variables.
// That reconstruction happens one layer up, in the reflect package.
//
// # SPIR-V module layout
//
// A SPIR-V module is a fixed five-word header followed by instructions
// in a fixed logical order:
//   - Capabilities
//   - Extensions
//   - Extended instruction imports
//   - Memory model
//   - Entry points
//   - Execution modes
//   - Debug information (names, source info)
//   - Annotations (decorations)
//   - Types, constants, and global variables (interleaved)
//   - Functions
//
// # References
//
// SPIR-V Specification: https://registry.khronos.org/SPIR-V/specs/unified1/SPIRV.html
package spirv
