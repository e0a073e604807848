// Package render draws the level and its actors with ebiten.
package render

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/ledgerunner/player"
	"github.com/milk9111/ledgerunner/prefabs"
	"github.com/milk9111/ledgerunner/terrain"
)

// Screen draws onto Target through Camera. It implements player.Renderer.
type Screen struct {
	Target *ebiten.Image
	Camera *Camera
	Theme  prefabs.ThemeSpec
	Debug  bool

	solids  []cp.BB
	oneWays []cp.BB
}

var _ player.Renderer = (*Screen)(nil)

func NewScreen(cam *Camera, theme prefabs.ThemeSpec) *Screen {
	return &Screen{Camera: cam, Theme: theme}
}

// SetTerrain caches the rectangles to draw for g. Blocks are merged into as
// few rectangles as possible; one-way tiles are drawn as thin ledges.
func (s *Screen) SetTerrain(g *terrain.Grid) {
	s.solids = g.SolidRects()
	s.oneWays = s.oneWays[:0]
	for x := 0; x < g.Width(); x++ {
		for y := 0; y < g.Height(); y++ {
			if !g.IsOneWay(x, y) {
				continue
			}
			bb := g.TileBounds(x, y)
			bb.B = bb.T - g.TileSize()/4
			s.oneWays = append(s.oneWays, bb)
		}
	}
}

// Begin starts a frame on target.
func (s *Screen) Begin(target *ebiten.Image) {
	s.Target = target
	target.Fill(s.Theme.Background)
}

func (s *Screen) DrawTerrain() {
	for _, bb := range s.solids {
		s.fill(bb, s.Theme.Block)
	}
	for _, bb := range s.oneWays {
		s.fill(bb, s.Theme.OneWay)
	}
}

func (s *Screen) DrawPlayer(snap player.Snapshot) {
	c := s.Theme.Player.Color
	if snap.Hanging {
		c = s.Theme.Hanging.Color
	}
	s.fill(snap.Bounds, c)

	// a notch on the facing side
	b := snap.Bounds
	eyeY := b.T - (b.T-b.B)/4
	eyeX := b.R - 4
	if snap.Facing == player.FacingLeft {
		eyeX = b.L + 4
	}
	s.fill(cp.NewBBForExtents(cp.Vector{X: eyeX, Y: eyeY}, 2, 2), s.Theme.Text)

	if s.Debug {
		x, y := s.Camera.ToScreen(cp.Vector{X: b.L, Y: b.T})
		ebitenutil.DebugPrintAt(s.Target, fmt.Sprintf("%s %d", snap.State, snap.Frame), int(x), int(y)-16)
	}
}

func (s *Screen) DrawCrate(bb cp.BB) {
	s.fill(bb, s.Theme.Crate)
	x, y, w, h := s.Camera.RectToScreen(bb)
	vector.StrokeRect(s.Target, float32(x), float32(y), float32(w), float32(h), 1, s.Theme.Block, false)
}

// DrawHUD prints lines in the top-left corner.
func (s *Screen) DrawHUD(lines ...string) {
	for i, l := range lines {
		ebitenutil.DebugPrintAt(s.Target, l, 10, 10+i*16)
	}
}

func (s *Screen) fill(bb cp.BB, c color.Color) {
	if s.Target == nil || !s.Camera.Visible(bb) {
		return
	}
	x, y, w, h := s.Camera.RectToScreen(bb)
	vector.DrawFilledRect(s.Target, float32(x), float32(y), float32(w), float32(h), c, false)
}
