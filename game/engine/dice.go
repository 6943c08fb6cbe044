package engine

import "math/rand/v2"

// Roller produces dice totals for the engine. Implementations must return
// the sum of independent uniform draws so that the triangular distribution
// of two-dice totals is preserved; a single uniform draw over the sum range
// is not equivalent.
type Roller interface {
	Roll() int
}

// RollerFunc adapts a plain function to the Roller interface.
type RollerFunc func() int

// Roll calls f.
func (f RollerFunc) Roll() int { return f() }

// randomRoller draws each die uniformly from [1, faces] and sums them.
type randomRoller struct {
	count int
	faces int
}

func (r randomRoller) Roll() int {
	sum := 0
	for i := 0; i < r.count; i++ {
		sum += rand.IntN(r.faces) + 1
	}
	return sum
}

// NewRandomRoller returns a Roller for the given dice pool backed by the
// process-wide random source.
func NewRandomRoller(dice DiceConfig) Roller {
	return randomRoller{count: dice.Count, faces: dice.Faces}
}
