// Package disasm renders a decoded SPIR-V module as human-readable
// assembly text, one instruction per line, in the same column layout
// the reference disassembler in the Khronos SPIR-V tools uses: a
// %result = OpName operand list, with a leading byte-offset column when
// requested.
//
// # Usage
//
//	text, err := disasm.Disassemble(data, disasm.DefaultOptions())
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Print(text)
//
// # References
//
//   - SPIR-V Specification: https://registry.khronos.org/SPIR-V/specs/unified1/SPIRV.html
//   - SPIRV-Tools spirv-dis (the reference disassembler this package's
//     output layout follows): https://github.com/KhronosGroup/SPIRV-Tools
package disasm
