package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"math"
	"math/rand/v2"
)

// Source is the uniform random generator every generator and solver draws from.
// A *rand.Rand from math/rand/v2 satisfies it directly.
type Source interface {
	IntN(n int) int
	Uint64() uint64
	Uint64N(n uint64) uint64
	Shuffle(n int, swap func(i, j int))
}

// New returns a deterministic Source for the given seed.
func New(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewUnseeded returns a Source seeded from the operating system entropy pool.
// Each toss gets its own Source, so concurrent tosses never share PRNG state.
func NewUnseeded() Source {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:])))
}

// Factory creates a fresh Source per toss.
type Factory func() Source

// Int64Range returns a uniform integer in [min, max]. Callers guarantee min <= max.
func Int64Range(src Source, min, max int64) int64 {
	span := uint64(max) - uint64(min)
	if span == math.MaxUint64 {
		return int64(src.Uint64())
	}
	return int64(uint64(min) + src.Uint64N(span+1))
}

// Choice returns a uniformly chosen element of items. items must not be empty.
func Choice[T any](src Source, items []T) T {
	return items[src.IntN(len(items))]
}

// Shuffle permutes items in place.
func Shuffle[T any](src Source, items []T) {
	src.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}

// Shuffled returns a shuffled copy of items, leaving the input untouched.
func Shuffled[T any](src Source, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	Shuffle(src, out)
	return out
}
