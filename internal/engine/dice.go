package engine

import (
	"math/rand"
	"time"
)

// Source is the randomness provider for every combat roll.
// A Source is not required to be safe for concurrent use; callers serialize.
type Source interface {
	// Intn returns a random int in [0, n). n > 0.
	Intn(n int) int
	// Float64 returns a random float in [0.0, 1.0).
	Float64() float64
}

// RollRange returns a uniform int in [lo, hi], both inclusive.
func RollRange(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.Intn(hi-lo+1)
}

// Chance reports whether a Bernoulli draw with probability p succeeds.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// Pick returns one of the options uniformly at random.
func Pick[T any](src Source, options []T) T {
	return options[src.Intn(len(options))]
}

// NewRNG returns a math/rand backed Source. seed 0 means time-seeded.
func NewRNG(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
