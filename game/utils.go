package game

import (
	"math/rand"
	"time"
)

// NewRand returns a source seeded from the clock. Tests pass their own seeded
// *rand.Rand instead.
func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// RandomFloat generates a random float in [min, max)
func RandomFloat(r *rand.Rand, min, max float64) float64 {
	return min + r.Float64()*(max-min)
}

// Clamp restricts a value between min and max
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// ClampInset clamps value to [inset, extent-inset]. When the inset is at
// least half the extent the range is empty and the value collapses to
// extent/2.
func ClampInset(value, inset, extent float64) float64 {
	lo, hi := inset, extent-inset
	if lo > hi {
		return extent / 2
	}
	return Clamp(value, lo, hi)
}
