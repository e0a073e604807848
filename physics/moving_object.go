package physics

import (
	"log"
	"math"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ledgerunner/common"
)

// PlatformThreshold is how far, in pixels, the feet may sit below a one-way
// surface (plus the distance fallen this step) and still land on it.
const PlatformThreshold = 2.0

// wallSnapSlack absorbs float drift when comparing last frame's edge with a
// wall it was snapped against.
const wallSnapSlack = 0.01

// Debug enables the teleport detector in Step.
var Debug = false

// TeleportDistance is the per-step travel above which Step logs a warning
// when Debug is on.
var TeleportDistance = 30.0

// MovingObject is a box integrated with semi-implicit Euler and resolved
// against a tile grid. Every Old* / *ed / Was* field holds the previous step.
type MovingObject struct {
	OldPosition cp.Vector
	Position    cp.Vector
	OldVelocity cp.Vector
	Velocity    cp.Vector
	OldAccel    cp.Vector
	Accel       cp.Vector

	Box AABB

	PushedRightWall bool
	PushesRightWall bool
	PushedLeftWall  bool
	PushesLeftWall  bool
	WasOnGround     bool
	OnGround        bool
	OnPlatform      bool
	WasAtCeiling    bool
	AtCeiling       bool

	CannotGoLeftFrames  int
	CannotGoRightFrames int
	FramesFromJumpStart int
}

// NewMovingObject places an object with the given box so that its position
// (the feet-anchored logical centre) is pos.
func NewMovingObject(pos cp.Vector, box AABB) *MovingObject {
	box.Center = pos.Add(box.Offset)
	return &MovingObject{
		OldPosition: pos,
		Position:    pos,
		Box:         box,
	}
}

// Step advances the object by dt and resolves collisions in order: ground,
// walls, ceiling. All contact flags are recomputed.
func (m *MovingObject) Step(dt time.Duration, t Terrain) {
	m.OldPosition = m.Position
	m.OldVelocity = m.Velocity
	m.OldAccel = m.Accel
	m.PushedLeftWall = m.PushesLeftWall
	m.PushedRightWall = m.PushesRightWall
	m.WasOnGround = m.OnGround
	m.WasAtCeiling = m.AtCeiling

	secs := dt.Seconds()
	m.Velocity = m.Velocity.Add(m.Accel.Mult(secs))
	m.Position = m.Position.Add(m.Velocity.Mult(secs))

	m.OnPlatform = false
	m.OnGround = false
	if m.Velocity.Y <= 0 {
		if groundY, platform, ok := m.groundContact(t); ok {
			m.Position.Y = groundY + m.Box.HalfSize().Y - m.Box.Offset.Y
			m.Velocity.Y = 0
			m.OnGround = true
			m.OnPlatform = platform
		}
	}

	m.PushesLeftWall = false
	if m.Velocity.X <= 0 {
		if wallX, ok := m.leftWallContact(t); ok {
			half := m.Box.HalfSize()
			if m.OldPosition.X-half.X+m.Box.Offset.X >= wallX-wallSnapSlack {
				m.Position.X = wallX + half.X - m.Box.Offset.X
				m.PushesLeftWall = true
			}
			m.Velocity.X = math.Max(m.Velocity.X, 0)
			m.Accel.X = math.Max(m.Accel.X, 0)
		}
	}

	m.PushesRightWall = false
	if m.Velocity.X >= 0 {
		if wallX, ok := m.rightWallContact(t); ok {
			half := m.Box.HalfSize()
			if m.OldPosition.X+half.X+m.Box.Offset.X <= wallX+wallSnapSlack {
				m.Position.X = wallX - half.X - m.Box.Offset.X
				m.PushesRightWall = true
			}
			m.Velocity.X = math.Min(m.Velocity.X, 0)
			m.Accel.X = math.Min(m.Accel.X, 0)
		}
	}

	m.AtCeiling = false
	if m.Velocity.Y >= 0 {
		if ceilingY, ok := m.ceilingContact(t); ok {
			m.Position.Y = ceilingY - m.Box.HalfSize().Y - m.Box.Offset.Y - 1
			m.Velocity.Y = 0
			m.AtCeiling = true
		}
	}

	m.Box.Center = m.Position.Add(m.Box.Offset)

	if Debug {
		if d := m.Position.Distance(m.OldPosition); d > TeleportDistance {
			log.Printf("physics: teleport distance=%.1f from=%v to=%v vel=%v", d, m.OldPosition, m.Position, m.Velocity)
		}
	}
}

// DropThrough nudges an object standing on a one-way platform below its
// surface so the next Step lets it fall. It reports whether it did anything.
func (m *MovingObject) DropThrough() bool {
	if !m.OnPlatform {
		return false
	}
	m.Position.Y -= PlatformThreshold
	m.Box.Center = m.Position.Add(m.Box.Offset)
	m.OnGround = false
	m.OnPlatform = false
	return true
}

// sweep walks from the row or column nearest the old position to the one of
// the new position, passing the fraction to interpolate back toward old.
func sweep(beg, end int, visit func(i int, t float64) bool) bool {
	dist := absInt(end - beg)
	if dist < 1 {
		dist = 1
	}
	step := 1
	if end < beg {
		step = -1
	}
	for i := beg; ; i += step {
		if visit(i, float64(absInt(end-i))/float64(dist)) {
			return true
		}
		if i == end {
			return false
		}
	}
}

func (m *MovingObject) corners() (oldCenter, center, half cp.Vector) {
	return m.OldPosition.Add(m.Box.Offset), m.Position.Add(m.Box.Offset), m.Box.HalfSize()
}

func (m *MovingObject) groundContact(t Terrain) (groundY float64, platform, ok bool) {
	oldCenter, center, half := m.corners()
	probe := cp.Vector{X: 1, Y: -1}
	oldBottomLeft := common.RoundVector(oldCenter.Sub(half).Add(probe))
	newBottomLeft := common.RoundVector(center.Sub(half).Add(probe))

	oldY := t.TileY(oldBottomLeft.Y)
	endY := t.TileY(newBottomLeft.Y)
	begY := max(oldY-1, endY)
	fallen := m.OldPosition.Y - m.Position.Y
	reach := PlatformThreshold + math.Max(fallen, 0)
	ts := t.TileSize()

	ok = sweep(begY, endY, func(ty int, f float64) bool {
		bottomLeft := common.LerpVector(newBottomLeft, oldBottomLeft, f)
		right := bottomLeft.X + half.X*2 - 2
		surface := t.TilePosition(0, ty).Y + ts/2
		platform = false
		// A block in the row the feet already occupied is only ground if the
		// feet were resting on it; otherwise it is a wall being walked into.
		blockReachable := ty != oldY || surface-bottomLeft.Y <= reach
		for x := bottomLeft.X; ; x += ts {
			x = math.Min(x, right)
			tx := t.TileX(x)
			if blockReachable && t.IsObstacle(tx, ty) {
				groundY, platform = surface, false
				return true
			}
			if t.IsOneWay(tx, ty) && math.Abs(bottomLeft.Y-surface) <= reach {
				platform = true
			}
			if x >= right {
				break
			}
		}
		if platform {
			groundY = surface
			return true
		}
		return false
	})
	return groundY, platform, ok
}

func (m *MovingObject) ceilingContact(t Terrain) (ceilingY float64, ok bool) {
	oldCenter, center, half := m.corners()
	probe := cp.Vector{X: -1, Y: 1}
	oldTopRight := common.RoundVector(oldCenter.Add(half).Add(probe))
	newTopRight := common.RoundVector(center.Add(half).Add(probe))

	oldY := t.TileY(oldTopRight.Y)
	endY := t.TileY(newTopRight.Y)
	begY := min(oldY+1, endY)
	reach := PlatformThreshold + math.Max(m.Position.Y-m.OldPosition.Y, 0)
	ts := t.TileSize()

	ok = sweep(begY, endY, func(ty int, f float64) bool {
		topRight := common.LerpVector(newTopRight, oldTopRight, f)
		left := topRight.X - half.X*2 + 2
		ceiling := t.TilePosition(0, ty).Y - ts/2
		if ty == oldY && topRight.Y-ceiling > reach {
			return false
		}
		for x := left; ; x += ts {
			x = math.Min(x, topRight.X)
			if t.IsObstacle(t.TileX(x), ty) {
				ceilingY = ceiling
				return true
			}
			if x >= topRight.X {
				return false
			}
		}
	})
	return ceilingY, ok
}

func (m *MovingObject) leftWallContact(t Terrain) (wallX float64, ok bool) {
	oldCenter, center, half := m.corners()
	probe := cp.Vector{X: -1, Y: 0}
	oldBottomLeft := common.RoundVector(oldCenter.Sub(half).Add(probe))
	newBottomLeft := common.RoundVector(center.Sub(half).Add(probe))

	endX := t.TileX(newBottomLeft.X)
	begX := max(t.TileX(oldBottomLeft.X)-1, endX)

	ok = sweep(begX, endX, func(tx int, f float64) bool {
		bottomLeft := common.LerpVector(newBottomLeft, oldBottomLeft, f)
		if m.columnBlocked(t, tx, bottomLeft.Y, bottomLeft.Y+half.Y*2) {
			wallX = t.TilePosition(tx, 0).X + t.TileSize()/2
			return true
		}
		return false
	})
	return wallX, ok
}

func (m *MovingObject) rightWallContact(t Terrain) (wallX float64, ok bool) {
	oldCenter, center, half := m.corners()
	probe := cp.Vector{X: 1, Y: 0}
	oldBottomRight := common.RoundVector(cp.Vector{X: oldCenter.X + half.X, Y: oldCenter.Y - half.Y}.Add(probe))
	newBottomRight := common.RoundVector(cp.Vector{X: center.X + half.X, Y: center.Y - half.Y}.Add(probe))

	endX := t.TileX(newBottomRight.X)
	begX := min(t.TileX(oldBottomRight.X)+1, endX)

	ok = sweep(begX, endX, func(tx int, f float64) bool {
		bottomRight := common.LerpVector(newBottomRight, oldBottomRight, f)
		if m.columnBlocked(t, tx, bottomRight.Y, bottomRight.Y+half.Y*2) {
			wallX = t.TilePosition(tx, 0).X - t.TileSize()/2
			return true
		}
		return false
	})
	return wallX, ok
}

// columnBlocked samples column tx from bottom to top in tile-size steps,
// always including the top sample.
func (m *MovingObject) columnBlocked(t Terrain, tx int, bottom, top float64) bool {
	ts := t.TileSize()
	for y := bottom; ; y += ts {
		y = math.Min(y, top)
		if t.IsObstacle(tx, t.TileY(y)) {
			return true
		}
		if y >= top {
			return false
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
