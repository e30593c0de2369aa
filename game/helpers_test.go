package game

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

const eps = 1e-9

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func testRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

// expectInvariantPanic runs fn and fails unless it panics with ErrInvariant
func expectInvariantPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic, got none")
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrInvariant) {
			t.Fatalf("expected ErrInvariant panic, got %v", r)
		}
	}()
	fn()
}

// farFood builds n pellets along the top edge, away from the world centre
func farFood(n int) []Food {
	foods := make([]Food, n)
	for i := range foods {
		foods[i] = Food{
			ID:       uint64(i + 1),
			Position: Vec2{X: 10 + float64(i)*25, Y: 20},
			Size:     FoodSize,
		}
	}
	return foods
}
