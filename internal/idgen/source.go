package idgen

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
)

// RandSource draws uniformly with a PCG generator.
//
// Thread-safety: RandSource is safe for concurrent use via internal mutex.
type RandSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandSource seeds a RandSource from crypto/rand.
func NewRandSource() *RandSource {
	var seed [16]byte
	_, _ = crand.Read(seed[:])
	return NewSeededSource(binary.LittleEndian.Uint64(seed[:8]), binary.LittleEndian.Uint64(seed[8:]))
}

// NewSeededSource returns a reproducible RandSource.
func NewSeededSource(seed1, seed2 uint64) *RandSource {
	return &RandSource{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// Draw returns a uniform value in [r.Low, r.High].
func (s *RandSource) Draw(r Range) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return r.Low + s.rng.Int64N(r.Size())
}

// FixedSource returns predetermined identifiers for testing.
//
// Example:
//
//	src := NewFixedSource(123456, 123456, 234567)
//	src.Draw(OrderIDs) // 123456
//	src.Draw(OrderIDs) // 123456 (collision)
//	src.Draw(OrderIDs) // 234567
//	src.Draw(OrderIDs) // panic: all ids exhausted
//
// Thread-safety: FixedSource is safe for concurrent use via internal mutex.
type FixedSource struct {
	mu  sync.Mutex
	ids []int64
	idx int
}

// NewFixedSource creates a source that returns ids in order.
func NewFixedSource(ids ...int64) *FixedSource {
	return &FixedSource{ids: ids}
}

// Draw returns the next predetermined id, ignoring r.
//
// Panics if all ids have been consumed, to catch tests that allocate more
// identifiers than they planned for.
func (s *FixedSource) Draw(Range) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.idx >= len(s.ids) {
		panic("FixedSource: all ids exhausted")
	}
	id := s.ids[s.idx]
	s.idx++
	return id
}

// Remaining returns how many ids have not been drawn.
func (s *FixedSource) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids) - s.idx
}
