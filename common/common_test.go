package common

import (
	"testing"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
)

func TestLerpVectorRounds(t *testing.T) {
	a := cp.Vector{X: 0, Y: 10}
	b := cp.Vector{X: 10, Y: 0}
	assert.Equal(t, a, LerpVector(a, b, 0))
	assert.Equal(t, b, LerpVector(a, b, 1))
	assert.Equal(t, cp.Vector{X: 3, Y: 7}, LerpVector(a, b, 0.33))
}

func TestFixedTickerCarriesRemainder(t *testing.T) {
	tk := NewFixedTicker(25)
	frame := time.Second / 50
	var ticks int
	for i := 0; i < 50; i++ {
		if tk.Advance(frame) {
			ticks++
		}
	}
	assert.Equal(t, 25, ticks)

	// A long frame is caught up one tick per call.
	tk.Reset()
	assert.True(t, tk.Advance(3*tk.Step()))
	assert.True(t, tk.Advance(0))
	assert.True(t, tk.Advance(0))
	assert.False(t, tk.Advance(0))
}

func TestFixedTickerDefaultRate(t *testing.T) {
	assert.Equal(t, time.Second/30, NewFixedTicker(0).Step())
}
