package physics

import "github.com/jakecoffman/cp"

// AABB is an axis-aligned box whose collision size is the logical size
// stretched by Scale. Offset shifts the box down so its bottom stays on the
// feet of a sprite drawn at the logical size.
type AABB struct {
	Center cp.Vector
	Offset cp.Vector

	halfSize cp.Vector
	scale    cp.Vector
}

// NewAABB builds a box from its full logical size and per-axis scale.
func NewAABB(center, fullSize, scale cp.Vector) AABB {
	half := fullSize.Mult(0.5)
	return AABB{
		Center:   center,
		Offset:   cp.Vector{X: 0, Y: -half.Y * (1 - scale.Y)},
		halfSize: half,
		scale:    scale,
	}
}

// HalfSize is the collision half extent, logical half size times scale.
func (b AABB) HalfSize() cp.Vector {
	return cp.Vector{X: b.halfSize.X * b.scale.X, Y: b.halfSize.Y * b.scale.Y}
}

// LogicalHalfSize is the unscaled half extent.
func (b AABB) LogicalHalfSize() cp.Vector {
	return b.halfSize
}

// Bounds returns the collision rectangle in world space.
func (b AABB) Bounds() cp.BB {
	half := b.HalfSize()
	return cp.NewBBForExtents(b.Center, half.X, half.Y)
}

func (b AABB) Overlaps(other AABB) bool {
	return b.Bounds().Intersects(other.Bounds())
}
