package physics

import "math/rand/v2"

// Rand is the random source injected into every probabilistic decision.
type Rand interface {
	Float64() float64
}

// NewRand returns a seeded PCG source.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Chance draws once and reports whether the draw fell under p.
func Chance(r Rand, p float64) bool {
	return r.Float64() < p
}

// Spread returns a uniform value in [-amount, amount).
func Spread(r Rand, amount float64) float64 {
	return (r.Float64()*2 - 1) * amount
}

// Between returns a uniform value in [lo, hi).
func Between(r Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}
