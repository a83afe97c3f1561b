package fern

import "math/rand/v2"

// RandomSource produces uniform floats in [0,1).
// *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	Float64() float64
}

// SourceFunc adapts a plain function to [RandomSource].
type SourceFunc func() float64

// Float64 calls f.
func (f SourceFunc) Float64() float64 { return f() }

// NewSource returns a deterministic source: equal seeds yield equal streams.
func NewSource(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// NewRandomSource returns a source seeded from the runtime's entropy.
func NewRandomSource() RandomSource {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
