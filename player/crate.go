package player

import (
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ledgerunner/physics"
)

// Crate is a passive prop that falls under gravity and rests on terrain,
// stepped with the same physics as the player.
type Crate struct {
	Mover           *physics.MovingObject
	Gravity         float64
	MaxFallingSpeed float64
}

func NewCrate(pos, size cp.Vector, t Tuning) *Crate {
	box := physics.NewAABB(pos, size, cp.Vector{X: 1, Y: 1})
	return &Crate{
		Mover:           physics.NewMovingObject(pos, box),
		Gravity:         t.Gravity,
		MaxFallingSpeed: t.MaxFallingSpeed,
	}
}

func (c *Crate) Update(dt time.Duration, t physics.Terrain) {
	m := c.Mover
	m.Accel = cp.Vector{X: 0, Y: c.Gravity}
	m.Step(dt, t)
	if m.Velocity.Y < c.MaxFallingSpeed {
		m.Velocity.Y = c.MaxFallingSpeed
	}
}

// Bounds returns the world rectangle of the crate.
func (c *Crate) Bounds() cp.BB {
	return c.Mover.Box.Bounds()
}
