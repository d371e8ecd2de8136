// spvdis disassembles a SPIR-V binary module to readable assembly text.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gogpu/spirvreflect/disasm"
)

func main() {
	names := flag.Bool("names", false, "render result ids as %name when an OpName targets them")
	offsets := flag.Bool("offsets", false, "prefix each line with its byte offset")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: spvdis [-names] [-offsets] <module.spv>")
		os.Exit(2)
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "spvdis: %v\n", err)
		os.Exit(1)
	}

	out, err := disasm.Disassemble(data, disasm.Options{Names: *names, ByteOffsets: *offsets})
	if err != nil {
		fmt.Fprintf(os.Stderr, "spvdis: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(out)
}
