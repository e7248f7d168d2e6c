package table

import "math/rand/v2"

// RNG is the session's single seeded random stream.
//
// Everything random inside rule logic must come from here. Decision sources
// keep their own streams: they are not consulted during replay, so drawing
// from this one would shift every later draw.
type RNG struct {
	seed  uint64
	r     *rand.Rand
	draws uint64
}

// NewRNG creates a PCG-backed stream for seed.
func NewRNG(seed uint64) *RNG {
	return &RNG{
		seed: seed,
		r:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Seed returns the seed the stream was created with.
func (r *RNG) Seed() uint64 {
	return r.seed
}

// Draws returns how many values have been drawn so far.
func (r *RNG) Draws() uint64 {
	return r.draws
}

// IntN returns a uniform int in [0, n). Panics if n <= 0.
func (r *RNG) IntN(n int) int {
	r.draws++
	return r.r.IntN(n)
}

// Float64 returns a uniform float in [0.0, 1.0).
func (r *RNG) Float64() float64 {
	r.draws++
	return r.r.Float64()
}

// Shuffle pseudo-randomizes the order of n elements using swap.
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	r.draws++
	r.r.Shuffle(n, swap)
}
