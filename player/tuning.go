package player

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ledgerunner/physics"
)

var ErrInvalidTuning = errors.New("player: invalid tuning")

// AnimationSpec sizes the frame cursor of one state.
type AnimationSpec struct {
	Frames int
	FPS    int
}

// Tuning holds every movement constant. Speeds are pixels per second with y
// pointing up, so Gravity and MaxFallingSpeed are negative. Frame budgets are
// counted in fixed-update ticks.
type Tuning struct {
	Gravity         float64
	MaxFallingSpeed float64
	JumpSpeed       float64
	WalkSpeed       float64
	WalkAccel       float64
	SlideSpeed      float64

	LateJumpFrames     int
	LedgeReleaseFrames int
	// AttackCancelFrame is the last frame of an attack that cannot be
	// cancelled.
	AttackCancelFrame int

	Size  cp.Vector
	Scale cp.Vector

	Ledge      physics.LedgeConfig
	TickRate   int
	Animations map[StateID]AnimationSpec
}

func DefaultTuning() Tuning {
	return Tuning{
		Gravity:            -1800,
		MaxFallingSpeed:    -900,
		JumpSpeed:          620,
		WalkSpeed:          260,
		WalkAccel:          1800,
		SlideSpeed:         420,
		LateJumpFrames:     4,
		LedgeReleaseFrames: 3,
		AttackCancelFrame:  5,
		Size:               cp.Vector{X: 48, Y: 96},
		Scale:              cp.Vector{X: 0.5, Y: 0.5},
		Ledge:              physics.DefaultLedgeConfig,
		TickRate:           30,
		Animations: map[StateID]AnimationSpec{
			Idle:      {Frames: 4, FPS: 6},
			Running:   {Frames: 8, FPS: 12},
			Jumping:   {Frames: 2, FPS: 6},
			Sliding:   {Frames: 6, FPS: 12},
			Attacking: {Frames: 8, FPS: 15},
			LedgeGrab: {Frames: 1, FPS: 1},
		},
	}
}

// Validate checks the constraints the states rely on.
func (t Tuning) Validate() error {
	switch {
	case t.Gravity >= 0:
		return fmt.Errorf("%w: gravity %g must be negative", ErrInvalidTuning, t.Gravity)
	case t.MaxFallingSpeed >= 0:
		return fmt.Errorf("%w: max falling speed %g must be negative", ErrInvalidTuning, t.MaxFallingSpeed)
	case t.JumpSpeed <= 0:
		return fmt.Errorf("%w: jump speed %g must be positive", ErrInvalidTuning, t.JumpSpeed)
	case t.WalkSpeed <= 0 || t.WalkAccel <= 0:
		return fmt.Errorf("%w: walk speed %g / accel %g must be positive", ErrInvalidTuning, t.WalkSpeed, t.WalkAccel)
	case t.Size.X <= 2 || t.Size.Y <= 2:
		return fmt.Errorf("%w: size %v too small", ErrInvalidTuning, t.Size)
	case t.Scale.X <= 0 || t.Scale.Y <= 0 || t.Scale.X > 1 || t.Scale.Y > 1:
		return fmt.Errorf("%w: scale %v must be in (0, 1]", ErrInvalidTuning, t.Scale)
	case t.LateJumpFrames < 0 || t.LedgeReleaseFrames < 0:
		return fmt.Errorf("%w: frame budgets must not be negative", ErrInvalidTuning)
	}
	for id, a := range t.Animations {
		if a.Frames < 1 {
			return fmt.Errorf("%w: %s animation needs at least one frame", ErrInvalidTuning, id)
		}
	}
	return nil
}

func (t Tuning) animation(id StateID) AnimationSpec {
	if a, ok := t.Animations[id]; ok {
		return a
	}
	return AnimationSpec{Frames: 1, FPS: 1}
}
