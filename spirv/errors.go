package spirv

import "fmt"

// ErrorKind enumerates the ways the word-stream decoder can reject input,
// mirroring the Format category of the reflection error taxonomy.
type ErrorKind uint8

const (
	// InvalidByteOrder means the first word did not match MagicNumber in
	// either byte order.
	InvalidByteOrder ErrorKind = iota
	// TruncatedHeader means fewer than five words were available for the
	// module header.
	TruncatedHeader
	// TruncatedInstruction means an instruction's declared word count
	// exceeds the words remaining in the stream.
	TruncatedInstruction
	// TruncatedOperand means an operand reader ran past the end of its
	// instruction's operand words.
	TruncatedOperand
	// MisalignedStream means a byte input's length is not a multiple of 4.
	MisalignedStream
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidByteOrder:
		return "InvalidByteOrder"
	case TruncatedHeader:
		return "TruncatedHeader"
	case TruncatedInstruction:
		return "TruncatedInstruction"
	case TruncatedOperand:
		return "TruncatedOperand"
	case MisalignedStream:
		return "MisalignedStream"
	default:
		return fmt.Sprintf("ErrorKind(%d)", uint8(k))
	}
}

// Error is a decode-time failure, optionally naming the word offset it
// occurred at.
type Error struct {
	Kind   ErrorKind
	Offset int // word offset into the module, -1 when not applicable
}

func (e *Error) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("spirv: %s at word %d", e.Kind, e.Offset)
	}
	return fmt.Sprintf("spirv: %s", e.Kind)
}

// Is allows errors.Is(err, spirv.InvalidByteOrder) style matching against
// a bare ErrorKind sentinel.
func (e *Error) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && e.Kind == k
}

func (k ErrorKind) Error() string { return k.String() }
