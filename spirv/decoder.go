package spirv

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"
)

// Header is the fixed five-word SPIR-V module header.
type Header struct {
	Version    Version
	Generator  uint32
	IDBound    uint32
	Schema     uint32
}

// Instruction is a single decoded instruction view: an opcode, the raw
// word count it was declared with, and the operand words that follow the
// first word. Instruction borrows its Operands slice directly from the
// Decoder's underlying word buffer, which the Decoder never modifies, so
// it stays valid after later calls to Decoder.Next.
type Instruction struct {
	Op       OpCode
	WordCount uint16
	Operands []uint32
	// Offset is the word offset of this instruction's first word within
	// the module, counting from word 0 (the magic number). Used for
	// diagnostics and for the disassembler's byte-offset column.
	Offset int
}

// Reader returns an OperandReader over this instruction's operand words.
func (in Instruction) Reader() *OperandReader {
	return &OperandReader{words: in.Operands, instrOffset: in.Offset}
}

// Decoder walks a SPIR-V module's word stream one instruction at a time.
// It does no semantic interpretation: callers (the reflection engine, the
// disassembler) are responsible for dispatching on Instruction.Op.
type Decoder struct {
	words  []uint32
	Header Header
	pos    int // index into words of the next instruction's first word
}

// NewDecoder parses the five-word header from words (already native
// uint32s, e.g. because the caller decoded byte order itself) and returns
// a Decoder positioned at the first instruction.
func NewDecoder(words []uint32) (*Decoder, error) {
	if len(words) < 5 {
		return nil, &Error{Kind: TruncatedHeader, Offset: 0}
	}
	if words[0] != MagicNumber {
		return nil, &Error{Kind: InvalidByteOrder, Offset: 0}
	}
	d := &Decoder{
		words: words,
		Header: Header{
			Version:   VersionFromWord(words[1]),
			Generator: words[2],
			IDBound:   words[3],
			Schema:    words[4],
		},
		pos: 5,
	}
	return d, nil
}

// DecodeBytes parses a raw byte-oriented SPIR-V module. Byte order is
// recovered by inspecting the first four bytes against MagicNumber in
// both little- and big-endian interpretations; a buffer
// whose length isn't a multiple of 4 is rejected outright.
func DecodeBytes(data []byte) (*Decoder, error) {
	if len(data) < 20 {
		return nil, &Error{Kind: TruncatedHeader, Offset: 0}
	}
	if len(data)%4 != 0 {
		return nil, &Error{Kind: MisalignedStream, Offset: -1}
	}

	var order binary.ByteOrder
	switch {
	case binary.LittleEndian.Uint32(data[0:4]) == MagicNumber:
		order = binary.LittleEndian
	case binary.BigEndian.Uint32(data[0:4]) == MagicNumber:
		order = binary.BigEndian
	default:
		return nil, &Error{Kind: InvalidByteOrder, Offset: 0}
	}

	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = order.Uint32(data[i*4 : i*4+4])
	}
	return NewDecoder(words)
}

// Next decodes the next instruction in the stream. It returns (Instruction{},
// false, nil) once the stream is exhausted, and a *Error wrapping
// TruncatedInstruction if a declared word count runs past the end of the
// buffer.
func (d *Decoder) Next() (Instruction, bool, error) {
	if d.pos >= len(d.words) {
		return Instruction{}, false, nil
	}
	offset := d.pos
	first := d.words[offset]
	wordCount := uint16(first >> 16)
	op := OpCode(first & 0xFFFF)
	if wordCount == 0 {
		return Instruction{}, false, &Error{Kind: TruncatedInstruction, Offset: offset}
	}
	end := offset + int(wordCount)
	if end > len(d.words) {
		return Instruction{}, false, &Error{Kind: TruncatedInstruction, Offset: offset}
	}
	in := Instruction{
		Op:        op,
		WordCount: wordCount,
		Operands:  d.words[offset+1 : end],
		Offset:    offset,
	}
	d.pos = end
	return in, true, nil
}

// All decodes every remaining instruction into a slice. Convenience for
// callers that don't need the lazy, incremental form of Next.
func (d *Decoder) All() ([]Instruction, error) {
	var out []Instruction
	for {
		in, ok, err := d.Next()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, in)
	}
}

// OperandReader reads typed operands off an instruction's operand-word
// slice in order, failing with TruncatedOperand when the read runs past
// the end.
type OperandReader struct {
	words       []uint32
	pos         int
	instrOffset int
}

func (r *OperandReader) fail() error {
	return &Error{Kind: TruncatedOperand, Offset: r.instrOffset}
}

// Remaining reports how many operand words are left unread.
func (r *OperandReader) Remaining() int { return len(r.words) - r.pos }

// U32 reads one raw 32-bit operand word.
func (r *OperandReader) U32() (uint32, error) {
	if r.pos >= len(r.words) {
		return 0, r.fail()
	}
	w := r.words[r.pos]
	r.pos++
	return w, nil
}

// Bool reads a SPIR-V literal bool: a single word, nonzero is true.
func (r *OperandReader) Bool() (bool, error) {
	w, err := r.U32()
	if err != nil {
		return false, err
	}
	return w != 0, nil
}

// F32 reads a single word as an IEEE-754 binary32 float.
func (r *OperandReader) F32() (float32, error) {
	w, err := r.U32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(w), nil
}

// U64 reads two words, low word first, as a 64-bit value. Used for
// OpConstant of a 64-bit scalar type.
func (r *OperandReader) U64() (uint64, error) {
	lo, err := r.U32()
	if err != nil {
		return 0, err
	}
	hi, err := r.U32()
	if err != nil {
		return 0, err
	}
	return uint64(lo) | uint64(hi)<<32, nil
}

// String reads a nul-terminated, word-padded UTF-8 literal string: the
// remaining operand words are reinterpreted as a little-endian byte
// stream, truncated at the first NUL, and validated as UTF-8 (SPIR-V's own
// open question: decoding is defined purely in terms of the operand-word
// slice, never by reinterpreting raw memory).
func (r *OperandReader) String() (string, error) {
	if r.pos >= len(r.words) {
		return "", r.fail()
	}
	var buf []byte
	for r.pos < len(r.words) {
		w := r.words[r.pos]
		r.pos++
		b := [4]byte{byte(w), byte(w >> 8), byte(w >> 16), byte(w >> 24)}
		terminated := false
		for _, c := range b {
			if c == 0 {
				terminated = true
				break
			}
			buf = append(buf, c)
		}
		if terminated {
			if !utf8.Valid(buf) {
				return "", fmt.Errorf("spirv: string literal at word %d is not valid UTF-8", r.instrOffset)
			}
			return string(buf), nil
		}
	}
	return "", r.fail()
}

// Rest returns every remaining operand word as a list, without consuming
// them individually. Used for variable-length trailing operand lists
// (e.g. OpEntryPoint's interface ids, OpExecutionMode's literals).
func (r *OperandReader) Rest() []uint32 {
	rest := r.words[r.pos:]
	r.pos = len(r.words)
	return rest
}
