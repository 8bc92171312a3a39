package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptedDice_Float64InOrder(t *testing.T) {
	d := NewScriptedDice(0.1, 0.9, 0.5)

	assert.Equal(t, 0.1, d.Float64())
	assert.Equal(t, 0.9, d.Float64())
	assert.Equal(t, 0.5, d.Float64())
}

func TestScriptedDice_PanicsWhenExhausted(t *testing.T) {
	d := NewScriptedDice(0.1)
	d.Float64()

	require.Panics(t, func() { d.Float64() })
}

func TestScriptedDice_IntNModulo(t *testing.T) {
	d := NewScriptedDice().WithInts(20, 105, 7)

	assert.Equal(t, 20, d.IntN(100))
	assert.Equal(t, 5, d.IntN(10))
	assert.Equal(t, 7, d.IntN(100))
}

func TestScriptedDice_IntNDefaultsToZero(t *testing.T) {
	d := NewScriptedDice(0.5)

	assert.Equal(t, 0, d.IntN(100))
	assert.Equal(t, 0, d.IntN(100))
}

func TestScriptedDice_IntsExhaustedFallBackToZero(t *testing.T) {
	d := NewScriptedDice().WithInts(3)

	assert.Equal(t, 3, d.IntN(10))
	assert.Equal(t, 0, d.IntN(10))
}
