package component

import "math"

// Animation is a frame cursor advanced once per fixed tick. It knows nothing
// about images; renderers map (state, frame) to whatever they draw.
type Animation struct {
	FrameCount int
	FPS        int
	Loop       bool

	current     int
	tick        int
	ticksPerFrm int
	done        bool
}

// NewAnimation creates an Animation of frameCount frames played at fps on a
// fixed update running tickRate times per second. fps defaults to 12 and
// tickRate to 30 when <= 0.
func NewAnimation(frameCount, fps, tickRate int, loop bool) *Animation {
	if fps <= 0 {
		fps = 12
	}
	if tickRate <= 0 {
		tickRate = 30
	}
	if frameCount < 1 {
		frameCount = 1
	}
	return &Animation{
		FrameCount:  frameCount,
		FPS:         fps,
		Loop:        loop,
		ticksPerFrm: int(math.Max(1, math.Round(float64(tickRate)/float64(fps)))),
	}
}

// Update advances the cursor by one tick. A looping animation wraps to frame
// 0; a one-shot animation holds its last frame and reports IsOver.
func (a *Animation) Update() {
	if a == nil || a.done {
		return
	}
	a.tick++
	if a.tick < a.ticksPerFrm {
		return
	}
	a.tick = 0
	if a.current+1 < a.FrameCount {
		a.current++
		return
	}
	if a.Loop {
		a.current = 0
		return
	}
	a.done = true
}

// Frame returns the current frame index.
func (a *Animation) Frame() int {
	if a == nil {
		return 0
	}
	return a.current
}

// IsOver reports whether a one-shot animation has shown its last frame for a
// full frame duration. Looping animations are never over.
func (a *Animation) IsOver() bool {
	return a != nil && a.done
}

// Reset sets the animation back to the first frame.
func (a *Animation) Reset() {
	if a == nil {
		return
	}
	a.current = 0
	a.tick = 0
	a.done = false
}

