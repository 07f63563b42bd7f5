package transformer

import "math/rand/v2"

// RandomSource yields integers in [0, n). *rand.Rand from math/rand/v2
// satisfies it.
type RandomSource interface {
	IntN(n int) int
}

// globalSource draws from the process-wide generator. It is safe for
// concurrent use and differs between runs.
type globalSource struct{}

func (globalSource) IntN(n int) int {
	return rand.IntN(n)
}

// NewSeededSource returns a reproducible source for the given seed.
func NewSeededSource(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
