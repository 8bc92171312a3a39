package engine

import "math/rand/v2"

// Dice is the engine's source of randomness: inspection pass/fail rolls
// and defaulted train attributes. *rand.Rand satisfies it directly.
//
// Injecting this as a constructor dependency is what lets tests force
// deterministic outcomes (see testutil.ScriptedDice).
type Dice interface {
	Float64() float64
	IntN(n int) int
}

// seededDice returns a PCG-backed source for the given seed.
// The same seed always yields the same roll sequence.
func seededDice(seed uint64) Dice {
	return rand.New(rand.NewPCG(seed, seed))
}
