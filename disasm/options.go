package disasm

// Options controls how Disassemble renders a decoded module.
type Options struct {
	// Names, when true, renders a result id as %<name> whenever an
	// OpName targets it, falling back to %<number> otherwise
	// (OpMemberName is not used for naming). Computed
	// independently of the reflect package's own gen_unique_names
	// handling, since disassembly never runs the reflection engine.
	Names bool

	// ByteOffsets, when true, prefixes each line with the instruction's
	// byte offset into the input, in a fixed-width column.
	ByteOffsets bool
}

// DefaultOptions returns the disassembler's default rendering options.
func DefaultOptions() Options {
	return Options{Names: false, ByteOffsets: false}
}
