// Package testutil provides deterministic helpers for engine tests.
package testutil

import "sync"

// ScriptedDice returns predetermined values for every roll.
//
// This is how tests force a specific inspection outcome instead of
// relying on a seeded generator whose draw order they would have to
// reverse engineer: Float64 values below the pass probability force a
// pass, values above force a fail.
//
// Thread-safety: safe for concurrent use via internal mutex.
type ScriptedDice struct {
	mu     sync.Mutex
	floats []float64
	fIdx   int
	ints   []int
	iIdx   int
}

// NewScriptedDice creates dice that return the given Float64 values in
// order. IntN values default to 0 unless set with WithInts.
func NewScriptedDice(floats ...float64) *ScriptedDice {
	return &ScriptedDice{floats: floats}
}

// WithInts sets the scripted IntN return values (each is taken modulo
// the caller's n to stay in range).
func (d *ScriptedDice) WithInts(ints ...int) *ScriptedDice {
	d.ints = ints
	return d
}

// Float64 returns the next scripted value.
// Panics when the script is exhausted: a test rolling more often than
// it scripted is misconfigured, and failing fast beats a silent 0.
func (d *ScriptedDice) Float64() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fIdx >= len(d.floats) {
		panic("ScriptedDice: float rolls exhausted")
	}
	v := d.floats[d.fIdx]
	d.fIdx++
	return v
}

// IntN returns the next scripted int modulo n, or 0 when no ints were
// scripted (attribute defaulting paths that tests don't care about).
func (d *ScriptedDice) IntN(n int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.iIdx >= len(d.ints) {
		return 0
	}
	v := d.ints[d.iIdx] % n
	d.iIdx++
	return v
}
