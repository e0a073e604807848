package physics

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ledgerunner/component"
)

// LedgeConfig bounds where a ledge lip may sit relative to the grab corner
// (the top of the box on the wall side, one pixel into the wall).
type LedgeConfig struct {
	// EndY is how far below the corner the lip may be.
	EndY float64
	// TileOffset is where the corner hangs relative to the lip once grabbed.
	TileOffset float64
	// CoyoteY is how far above the corner the lip may be on the first frame
	// of wall contact.
	CoyoteY float64
}

var DefaultLedgeConfig = LedgeConfig{
	EndY:       2,
	TileOffset: -4,
	CoyoteY:    12,
}

// Side is the wall side a ledge was grabbed on.
type Side int

const (
	SideLeft  Side = -1
	SideRight Side = 1
)

func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// LedgeGrabber remembers the tile and side of the last successful grab.
type LedgeGrabber struct {
	Config LedgeConfig

	TileX int
	TileY int
	Side  Side
}

func NewLedgeGrabber(cfg LedgeConfig) LedgeGrabber {
	return LedgeGrabber{Config: cfg}
}

// TryGrab snaps a falling object to a ledge beside it when the player holds
// toward the wall it is pushing. On the first frame of wall contact the lip
// may sit up to CoyoteY above the corner; while contact continues only lips
// the corner swept past since the last step are accepted.
func (l *LedgeGrabber) TryGrab(m *MovingObject, in component.Intent, t Terrain) bool {
	if m.Velocity.Y > 0 || m.AtCeiling {
		return false
	}

	var side Side
	var continuing bool
	switch {
	case in.Right && m.PushesRightWall:
		side, continuing = SideRight, m.PushedRightWall
	case in.Left && m.PushesLeftWall:
		side, continuing = SideLeft, m.PushedLeftWall
	default:
		return false
	}

	half := m.Box.HalfSize()
	corner := cp.Vector{
		X: m.Box.Center.X + float64(side)*(half.X+1),
		Y: m.Box.Center.Y + half.Y,
	}
	lo := corner.Y - l.Config.EndY
	hi := corner.Y + l.Config.CoyoteY
	if continuing {
		oldCorner := m.OldPosition.Y + m.Box.Offset.Y + half.Y
		hi = math.Max(oldCorner, corner.Y) - l.Config.TileOffset
	}

	tx := t.TileX(corner.X)
	ts := t.TileSize()
	for ty := t.TileY(lo); ty <= t.TileY(hi); ty++ {
		if t.IsObstacle(tx, ty) || !t.IsObstacle(tx, ty-1) {
			continue
		}
		lip := t.TilePosition(tx, ty).Y - ts/2
		if lip < lo || lip > hi {
			continue
		}

		l.TileX, l.TileY, l.Side = tx, ty-1, side
		m.Position.Y = lip + l.Config.TileOffset - half.Y - m.Box.Offset.Y
		m.Velocity = cp.Vector{}
		m.Box.Center = m.Position.Add(m.Box.Offset)
		return true
	}
	return false
}
