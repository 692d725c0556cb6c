package services

import "math/rand"

// RNG is the single explicit pseudo-random source threaded through every
// solver for a given run. No solver may reach for the package-level
// math/rand functions directly: doing so would make two runs with the same
// seed diverge whenever solvers are invoked in a different order, breaking
// the determinism property.
type RNG struct {
	r *rand.Rand
}

// NewRNG seeds a fresh generator. The same seed always yields the same
// sequence of draws for the lifetime of a solver run.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewSource(seed))}
}

// Intn returns a pseudo-random int in [0, n).
func (g *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return g.r.Intn(n)
}

// Float64 returns a pseudo-random float64 in [0, 1).
func (g *RNG) Float64() float64 {
	return g.r.Float64()
}

// Shuffle permutes n elements in place via swap.
func (g *RNG) Shuffle(n int, swap func(i, j int)) {
	g.r.Shuffle(n, swap)
}
