package render

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Camera maps y-up world coordinates onto a y-down screen, centred on Pos.
type Camera struct {
	Pos cp.Vector

	screenW int
	screenH int
	zoom    float64

	// smoothing factor (0..1). higher -> faster follow.
	smooth float64
	// zero means unbounded
	world cp.BB
}

func NewCamera(screenW, screenH int, zoom float64) *Camera {
	if zoom <= 0 {
		zoom = 1
	}
	return &Camera{
		Pos:     cp.Vector{X: float64(screenW) / 2, Y: float64(screenH) / 2},
		screenW: screenW,
		screenH: screenH,
		zoom:    zoom,
		smooth:  0.15,
	}
}

// SetWorldBounds keeps the view inside bb.
func (c *Camera) SetWorldBounds(bb cp.BB) {
	c.world = bb
}

func (c *Camera) SetSmooth(f float64) {
	c.smooth = max(0, min(1, f))
}

// Update eases toward target. Call once per fixed tick so the easing does not
// depend on the render rate.
func (c *Camera) Update(target cp.Vector) {
	if c.smooth <= 0 || c.smooth >= 1 {
		c.SnapTo(target)
		return
	}
	c.place(c.Pos.Add(target.Sub(c.Pos).Mult(c.smooth)))
}

// SnapTo centres the view on target immediately, e.g. after a respawn.
func (c *Camera) SnapTo(target cp.Vector) {
	c.place(target)
}

func (c *Camera) place(p cp.Vector) {
	// align to the 1/zoom grid so world texels land on whole screen pixels
	p.X = math.Round(p.X*c.zoom) / c.zoom
	p.Y = math.Round(p.Y*c.zoom) / c.zoom

	if c.world != (cp.BB{}) {
		halfW := float64(c.screenW) / c.zoom / 2
		halfH := float64(c.screenH) / c.zoom / 2
		p.X = clampAxis(p.X, c.world.L+halfW, c.world.R-halfW)
		p.Y = clampAxis(p.Y, c.world.B+halfH, c.world.T-halfH)
	}
	c.Pos = p
}

// clampAxis centres on the world when it is smaller than the view.
func clampAxis(v, lo, hi float64) float64 {
	if hi < lo {
		return (lo + hi) / 2
	}
	return max(lo, min(hi, v))
}

// ToScreen converts a world point to screen pixels.
func (c *Camera) ToScreen(p cp.Vector) (float64, float64) {
	x := (p.X-c.Pos.X)*c.zoom + float64(c.screenW)/2
	y := float64(c.screenH)/2 - (p.Y-c.Pos.Y)*c.zoom
	return x, y
}

// RectToScreen returns the top-left corner and size of bb on screen.
func (c *Camera) RectToScreen(bb cp.BB) (x, y, w, h float64) {
	x, y = c.ToScreen(cp.Vector{X: bb.L, Y: bb.T})
	return x, y, (bb.R - bb.L) * c.zoom, (bb.T - bb.B) * c.zoom
}

// Visible reports whether any part of bb is on screen.
func (c *Camera) Visible(bb cp.BB) bool {
	halfW := float64(c.screenW) / c.zoom / 2
	halfH := float64(c.screenH) / c.zoom / 2
	view := cp.NewBBForExtents(c.Pos, halfW, halfH)
	return view.Intersects(bb)
}
