// Package world runs one level: the player, its props and an optional
// autopilot, advanced one frame at a time by a host loop.
package world

import (
	"fmt"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ledgerunner/autopilot"
	"github.com/milk9111/ledgerunner/common"
	"github.com/milk9111/ledgerunner/component"
	"github.com/milk9111/ledgerunner/levels"
	"github.com/milk9111/ledgerunner/player"
	"github.com/milk9111/ledgerunner/terrain"
)

var crateSize = cp.Vector{X: 28, Y: 28}

// Renderer is what a host needs to draw a frame.
type Renderer interface {
	player.Renderer
	DrawCrate(cp.BB)
}

type World struct {
	Grid   *terrain.Grid
	Player *player.Player
	Crates []*player.Crate
	Pilot  *autopilot.Script

	// Spawn is where the player's feet go on respawn.
	Spawn    cp.Vector
	Frame    int
	Respawns int

	ticker *common.FixedTicker
}

func New(lvl *levels.Level, tuning player.Tuning) (*World, error) {
	g, err := lvl.Grid()
	if err != nil {
		return nil, err
	}
	spawn, err := lvl.Spawn(g)
	if err != nil {
		return nil, fmt.Errorf("world: %w", err)
	}

	w := &World{
		Grid:   g,
		Player: player.New(player.StandingAt(spawn, tuning), tuning),
		Spawn:  spawn,
		ticker: common.NewFixedTicker(tuning.TickRate),
	}
	for _, feet := range lvl.Positions(g, "crate") {
		center := feet.Add(cp.Vector{Y: crateSize.Y / 2})
		w.Crates = append(w.Crates, player.NewCrate(center, crateSize, tuning))
	}
	return w, nil
}

// Step advances one frame of dt on host input, with the pilot's intent
// merged over it, and returns the player events it produced. Input is
// rebuilt every frame. A pilot error is returned after the frame has run
// on host input alone.
func (w *World) Step(host component.Intent, dt time.Duration) ([]player.Event, error) {
	p := w.Player
	p.Input = host
	var pilotErr error
	if w.Pilot != nil {
		pilotErr = w.Pilot.Drive(p, w.Frame)
	}

	p.HandleEvents()
	p.Update(dt, w.Grid)
	for _, c := range w.Crates {
		c.Update(dt, w.Grid)
	}
	if w.ticker.Advance(dt) {
		p.FixedUpdate()
	}
	w.Frame++

	events := p.Events()
	if w.fellOut(p.Mover.Position) {
		w.Respawn()
	}
	return events, pilotErr
}

// Respawn puts the player back at the level spawn in Idle.
func (w *World) Respawn() {
	w.Player.Respawn(player.StandingAt(w.Spawn, w.Player.Tuning()))
	if w.Pilot != nil {
		w.Pilot.Reset()
	}
	w.ticker.Reset()
	w.Respawns++
}

// SetTuning applies new movement constants without resetting the player.
func (w *World) SetTuning(t player.Tuning) {
	w.Player.SetTuning(t)
	w.ticker = common.NewFixedTicker(t.TickRate)
	for _, c := range w.Crates {
		c.Gravity, c.MaxFallingSpeed = t.Gravity, t.MaxFallingSpeed
	}
}

// Bounds is the world rectangle covered by the grid.
func (w *World) Bounds() cp.BB {
	lo := w.Grid.TileBounds(0, 0)
	hi := w.Grid.TileBounds(w.Grid.Width()-1, w.Grid.Height()-1)
	return cp.BB{L: lo.L, B: lo.B, R: hi.R, T: hi.T}
}

func (w *World) Draw(r Renderer) {
	for _, c := range w.Crates {
		r.DrawCrate(c.Bounds())
	}
	w.Player.Draw(r)
}

func (w *World) fellOut(p cp.Vector) bool {
	return p.Y < w.Bounds().B-2*w.Grid.TileSize()
}
