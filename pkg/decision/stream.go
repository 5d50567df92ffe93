/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: stream.go
Description: Decision stream for the RESP fuzzing harness. Wraps the raw bytes
supplied by the fuzzing engine and turns them into discrete generation
decisions. Every operation is total: an exhausted stream zero-fills, so any
input byte sequence, including the empty one, maps to a complete command
sequence. All "randomness" in the harness flows through this cursor, which is
what makes generation a pure function of the input bytes.
*/

package decision

import (
	"math/bits"
)

// Stream is a monotonic cursor over fuzzer-supplied bytes.
// The cursor never resets within one generation call.
type Stream struct {
	data []byte
	pos  int
}

// NewStream creates a stream over the given input bytes.
// The slice is not copied; callers must not mutate it during generation.
func NewStream(data []byte) *Stream {
	return &Stream{data: data}
}

// next consumes one byte, zero-filling past the end of the input.
func (s *Stream) next() byte {
	var b byte
	if s.pos < len(s.data) {
		b = s.data[s.pos]
	}
	s.pos++
	return b
}

// IntN returns an integer in [lo, hi], consuming a number of bytes
// proportional to the range's bit width. A degenerate range consumes
// nothing. Reduction is modulo; the slight bias is acceptable for
// fuzzing purposes and keeps the byte cost fixed per range.
func (s *Stream) IntN(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	span := uint64(hi - lo + 1)
	nbytes := (bits.Len64(span-1) + 7) / 8
	var acc uint64
	for i := 0; i < nbytes; i++ {
		acc = acc<<8 | uint64(s.next())
	}
	return lo + int(acc%span)
}

// Bool consumes one byte and returns true with probability num/den.
func (s *Stream) Bool(num, den int) bool {
	b := int(s.next())
	return b*den < num*256
}

// BoolRatio consumes one byte and returns true with the given probability.
// A ratio of 0 is always false and a ratio of 1 is always true, which is
// what gives the dictionary mix ratio its exact edge semantics.
func (s *Stream) BoolRatio(ratio float64) bool {
	threshold := int(ratio * 256)
	return int(s.next()) < threshold
}

// Bytes consumes and returns n raw bytes, zero-padded on exhaustion.
// The returned slice is freshly allocated.
func (s *Stream) Bytes(n int) []byte {
	out := make([]byte, n)
	if s.pos < len(s.data) {
		copy(out, s.data[s.pos:])
	}
	s.pos += n
	return out
}

// Consumed reports how many decision bytes have been consumed, including
// zero-filled ones past the end of the input.
func (s *Stream) Consumed() int {
	return s.pos
}

// Remaining reports how many real input bytes are left.
func (s *Stream) Remaining() int {
	if s.pos >= len(s.data) {
		return 0
	}
	return len(s.data) - s.pos
}
