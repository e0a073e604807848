package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoopingAnimationWraps(t *testing.T) {
	// 3 frames at 15fps on a 30Hz tick: two ticks per frame.
	a := NewAnimation(3, 15, 30, true)
	var frames []int
	for i := 0; i < 7; i++ {
		a.Update()
		frames = append(frames, a.Frame())
	}
	assert.Equal(t, []int{0, 1, 1, 2, 2, 0, 0}, frames)
	assert.False(t, a.IsOver())
}

func TestOneShotHoldsLastFrame(t *testing.T) {
	a := NewAnimation(2, 30, 30, false)
	a.Update()
	assert.Equal(t, 1, a.Frame())
	assert.False(t, a.IsOver())

	a.Update()
	assert.Equal(t, 1, a.Frame())
	assert.True(t, a.IsOver())

	a.Reset()
	assert.Equal(t, 0, a.Frame())
	assert.False(t, a.IsOver())
}

func TestNilAnimationIsInert(t *testing.T) {
	var nilAnim *Animation
	nilAnim.Update()
	assert.Equal(t, 0, nilAnim.Frame())
}

func TestIntent(t *testing.T) {
	in := Intent{Left: true, Right: true, Jump: true, Slide: true}
	assert.Equal(t, 0.0, in.Horizontal())

	in.ClearOneShots()
	assert.Equal(t, Intent{Left: true, Right: true}, in)

	in = Intent{Right: true}
	assert.Equal(t, 1.0, in.Horizontal())
	in.Merge(Intent{Attack: true, Down: true})
	assert.Equal(t, Intent{Right: true, Down: true, Attack: true}, in)
}
