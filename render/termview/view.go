// Package termview draws a level and its actors to a terminal, one cell per
// tile.
package termview

import (
	"image/color"

	"github.com/gdamore/tcell/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/ledgerunner/player"
	"github.com/milk9111/ledgerunner/prefabs"
	"github.com/milk9111/ledgerunner/terrain"
)

const (
	blockRune  = '█'
	oneWayRune = '▔'
	crateRune  = 'x'
	ledgeRune  = 'H'
)

// View implements player.Renderer on a tcell screen. The bottom line is
// reserved for a status message.
type View struct {
	screen tcell.Screen
	grid   *terrain.Grid

	offsetX int

	block  tcell.Style
	oneWay tcell.Style
	actor  tcell.Style
	hang   tcell.Style
	crate  tcell.Style
	text   tcell.Style
}

var _ player.Renderer = (*View)(nil)

func NewView(screen tcell.Screen, theme prefabs.ThemeSpec) *View {
	bg := tcell.FromImageColor(theme.Background)
	style := func(c color.Color) tcell.Style {
		return tcell.StyleDefault.Background(bg).Foreground(tcell.FromImageColor(c))
	}
	return &View{
		screen: screen,
		block:  style(theme.Block),
		oneWay: style(theme.OneWay),
		actor:  style(theme.Player),
		hang:   style(theme.Hanging),
		crate:  style(theme.Crate),
		text:   style(theme.Text),
	}
}

func (v *View) SetTerrain(g *terrain.Grid) {
	v.grid = g
	v.offsetX = 0
}

// Follow scrolls horizontally so p stays in the middle third of the screen.
func (v *View) Follow(p cp.Vector) {
	if v.grid == nil {
		return
	}
	w, _ := v.screen.Size()
	col := v.grid.TileX(p.X) - v.offsetX
	switch {
	case col < w/3:
		v.offsetX -= w/3 - col
	case col > 2*w/3:
		v.offsetX += col - 2*w/3
	}
	v.offsetX = max(0, min(v.offsetX, v.grid.Width()-w))
}

func (v *View) Begin() {
	v.screen.Clear()
}

func (v *View) DrawTerrain() {
	if v.grid == nil {
		return
	}
	for x := 0; x < v.grid.Width(); x++ {
		for y := 0; y < v.grid.Height(); y++ {
			switch v.grid.Tile(x, y) {
			case terrain.Block:
				v.set(x, y, blockRune, v.block)
			case terrain.OneWay:
				v.set(x, y, oneWayRune, v.oneWay)
			}
		}
	}
}

func (v *View) DrawPlayer(snap player.Snapshot) {
	r, style := '>', v.actor
	if snap.Facing == player.FacingLeft {
		r = '<'
	}
	if snap.Hanging {
		r, style = ledgeRune, v.hang
	}
	v.fill(snap.Bounds, r, style)
}

func (v *View) DrawCrate(bb cp.BB) {
	v.fill(bb, crateRune, v.crate)
}

// DrawStatus writes msg on the bottom line.
func (v *View) DrawStatus(msg string) {
	_, h := v.screen.Size()
	x := 0
	for _, r := range msg {
		v.screen.SetContent(x, h-1, r, nil, v.text)
		x++
	}
}

func (v *View) Show() {
	v.screen.Show()
}

// fill marks every tile bb overlaps. Edges that only touch a tile do not
// count.
func (v *View) fill(bb cp.BB, r rune, style tcell.Style) {
	if v.grid == nil {
		return
	}
	const eps = 1e-6
	x0, x1 := v.grid.TileX(bb.L+eps), v.grid.TileX(bb.R-eps)
	y0, y1 := v.grid.TileY(bb.B+eps), v.grid.TileY(bb.T-eps)
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			v.set(x, y, r, style)
		}
	}
}

// set draws tile (x, y); row 0 is the bottom of the level and sits just
// above the status line.
func (v *View) set(x, y int, r rune, style tcell.Style) {
	w, h := v.screen.Size()
	sx := x - v.offsetX
	sy := h - 2 - y
	if sx < 0 || sx >= w || sy < 0 || sy >= h-1 {
		return
	}
	v.screen.SetContent(sx, sy, r, nil, style)
}

// CellOf returns the screen cell showing world point p.
func (v *View) CellOf(p cp.Vector) (int, int) {
	_, h := v.screen.Size()
	x := v.grid.TileX(p.X) - v.offsetX
	y := h - 2 - v.grid.TileY(p.Y)
	return x, y
}

// Rows returns the number of level rows that fit above the status line.
func (v *View) Rows() int {
	_, h := v.screen.Size()
	return max(0, h-1)
}
