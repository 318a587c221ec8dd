package compiler

import "fmt"

// PlaceholderWidth is the fixed number of decimal digits in a jump field.
const PlaceholderWidth = 5

// maxJumpOffset is the first offset that no longer fits in a jump field.
const maxJumpOffset = 100000

// Stream is the output buffer. It only grows during pass 1; pass 2 may
// overwrite fixed-width ranges but never changes its length.
type Stream struct {
	buf []byte
}

// NewStream creates an empty stream.
func NewStream() *Stream {
	return &Stream{buf: make([]byte, 0, 256)}
}

// WriteString appends s and returns the offset it was written at.
func (s *Stream) WriteString(str string) int {
	offset := len(s.buf)
	s.buf = append(s.buf, str...)
	return offset
}

func (s *Stream) writeSep(b byte) {
	s.buf = append(s.buf, b)
}

// EmitPlaceholder appends a zeroed jump field and returns its offset.
func (s *Stream) EmitPlaceholder() int {
	return s.WriteString("00000")
}

// PatchJump overwrites the jump field at offset with target.
func (s *Stream) PatchJump(offset, target int) error {
	if target < 0 || target >= maxJumpOffset {
		return fmt.Errorf("jump target %d out of range", target)
	}
	if offset < 0 || offset+PlaceholderWidth > len(s.buf) {
		return fmt.Errorf("jump field at %d outside stream of length %d", offset, len(s.buf))
	}
	copy(s.buf[offset:offset+PlaceholderWidth], fmt.Sprintf("%05d", target))
	return nil
}

// Len is the cursor: the number of bytes written so far.
func (s *Stream) Len() int {
	return len(s.buf)
}

func (s *Stream) String() string {
	return string(s.buf)
}
