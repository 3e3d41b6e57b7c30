package journey

import "math/rand/v2"

// Rand is the randomness source for turn selection. *rand.Rand from
// math/rand/v2 satisfies it; tests substitute scripted draws so the
// selection policy stays deterministic under test.
type Rand interface {
	// Float64 returns a uniform draw from [0, 1).
	Float64() float64
	// IntN returns a uniform draw from [0, n). Panics if n <= 0.
	IntN(n int) int
}

// NewRand returns a deterministic seeded source.
func NewRand(seed1, seed2 uint64) Rand {
	return rand.New(rand.NewPCG(seed1, seed2))
}

type systemRand struct{}

func (systemRand) Float64() float64 { return rand.Float64() }
func (systemRand) IntN(n int) int   { return rand.IntN(n) }

// SystemRand returns a source backed by the shared auto-seeded generator.
func SystemRand() Rand {
	return systemRand{}
}
