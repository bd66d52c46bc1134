package chip8

import (
	"math/rand"
	"time"
)

// Source draws a uniform 8-bit random value for SetRandom. It is injected
// rather than called directly off the math/rand package global so tests can
// swap in a deterministic sequence, the same way the pack's CPU
// implementations keep a settable randByteFunc field for their own tests.
type Source interface {
	Byte() byte
}

// DefaultSource is a Source backed by math/rand, seeded from the current
// time. It is the Source a driver uses unless a test overrides it.
type DefaultSource struct {
	rnd *rand.Rand
}

// NewDefaultSource returns a time-seeded DefaultSource.
func NewDefaultSource() *DefaultSource {
	return &DefaultSource{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Byte returns a uniformly distributed byte in 0-255.
func (s *DefaultSource) Byte() byte {
	return byte(s.rnd.Intn(256))
}

// FixedSource is a Source that always returns the same byte. Useful in
// tests that need SetRandom's output deterministic.
type FixedSource byte

// Byte returns the fixed byte.
func (s FixedSource) Byte() byte { return byte(s) }

// SequenceSource cycles through a fixed sequence of bytes, one per call,
// wrapping around. Useful for tests that exercise SetRandom more than once
// and want each draw to differ.
type SequenceSource struct {
	Values []byte
	next   int
}

// Byte returns the next value in the sequence, wrapping at the end.
func (s *SequenceSource) Byte() byte {
	if len(s.Values) == 0 {
		return 0
	}
	v := s.Values[s.next%len(s.Values)]
	s.next++
	return v
}
