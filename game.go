package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/ledgerunner/autopilot"
	"github.com/milk9111/ledgerunner/levels"
	"github.com/milk9111/ledgerunner/physics"
	"github.com/milk9111/ledgerunner/player"
	"github.com/milk9111/ledgerunner/prefabs"
	"github.com/milk9111/ledgerunner/render"
	"github.com/milk9111/ledgerunner/world"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	recentEvents = 6
)

type Game struct {
	world  *world.World
	screen *render.Screen
	camera *render.Camera
	ui     *ebitenui.UI

	watcher    *prefabs.Watcher
	scriptName string
	lastErr    string

	paused bool
	debug  bool
	recent []string
}

func NewGame(levelName, scriptName string, debug bool) (*Game, error) {
	physics.Debug = debug

	tuning, err := prefabs.LoadPlayerTuning()
	if err != nil {
		log.Printf("prefabs: %v; using defaults", err)
		tuning = player.DefaultTuning()
	}
	theme, err := prefabs.LoadThemeSpec()
	if err != nil {
		log.Printf("prefabs: %v; using default theme", err)
		theme = prefabs.DefaultThemeSpec()
	}

	lvl, err := loadLevel(levelName)
	if err != nil {
		return nil, err
	}
	w, err := world.New(lvl, tuning)
	if err != nil {
		return nil, err
	}

	g := &Game{
		world:      w,
		camera:     render.NewCamera(baseWidth, baseHeight, 1.5),
		scriptName: scriptName,
		debug:      debug,
	}
	if scriptName != "" {
		pilot, err := autopilot.Load(scriptName)
		if err != nil {
			return nil, err
		}
		w.Pilot = pilot
	}

	if debug {
		w.Player.Trace(func(s string) { log.Printf("player: %s", s) })
	}

	g.camera.SetWorldBounds(w.Bounds())
	g.camera.SnapTo(w.Player.Mover.Position)
	g.screen = render.NewScreen(g.camera, theme)
	g.screen.Debug = debug
	g.screen.SetTerrain(w.Grid)
	g.ui = NewPauseUI(g)

	if watcher, err := watchPrefabs(); err != nil {
		log.Printf("prefabs: hot reload disabled: %v", err)
	} else {
		g.watcher = watcher
	}
	return g, nil
}

// loadLevel treats names that exist on disk as paths and everything else as
// an embedded level.
func loadLevel(name string) (*levels.Level, error) {
	if name == "" {
		name = "ledges"
	}
	if _, err := os.Stat(name); err == nil {
		return levels.LoadLevelFile(name)
	}
	return levels.LoadLevelFromFS(name)
}

func watchPrefabs() (*prefabs.Watcher, error) {
	dirs := []string{prefabs.Dir}
	scripts := filepath.Join(prefabs.Dir, "scripts")
	if info, err := os.Stat(scripts); err == nil && info.IsDir() {
		dirs = append(dirs, scripts)
	}
	return prefabs.NewWatcher(dirs...)
}

func (g *Game) Update() error {
	if pausePressed() {
		g.paused = !g.paused
	}
	if g.paused {
		g.ui.Update()
		return nil
	}
	g.pollReloads()

	dt := time.Second / time.Duration(ebiten.TPS())
	events, err := g.world.Step(pollIntent(), dt)
	if err != nil && err.Error() != g.lastErr {
		log.Printf("%v", err)
		g.lastErr = err.Error()
	}
	for _, e := range events {
		if g.debug {
			log.Printf("player: %s", e)
		}
		g.recent = append(g.recent, e.String())
	}
	if len(g.recent) > recentEvents {
		g.recent = g.recent[len(g.recent)-recentEvents:]
	}

	g.camera.Update(g.world.Player.Mover.Position)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.screen.Begin(screen)
	g.screen.DrawTerrain()
	g.world.Draw(g.screen)

	p := g.world.Player
	hud := []string{
		fmt.Sprintf("FPS: %.0f  state: %s  stack: %v", ebiten.ActualFPS(), p.State(), p.StateStack()),
	}
	if g.debug {
		m := p.Mover
		hud = append(hud, fmt.Sprintf("pos (%.1f, %.1f)  vel (%.1f, %.1f)  ground=%t wall L/R=%t/%t",
			m.Position.X, m.Position.Y, m.Velocity.X, m.Velocity.Y, m.OnGround, m.PushesLeftWall, m.PushesRightWall))
		hud = append(hud, g.recent...)
	}
	g.screen.DrawHUD(hud...)

	if g.paused {
		g.ui.Draw(screen)
	}
}

func (g *Game) respawn() {
	g.world.Respawn()
	g.camera.SnapTo(g.world.Player.Mover.Position)
}

// pollReloads applies every changed prefab the watcher has reported.
func (g *Game) pollReloads() {
	if g.watcher == nil {
		return
	}
	changed, errs, open := g.watcher.Poll()
	for _, err := range errs {
		log.Printf("prefabs: watch: %v", err)
	}
	for _, path := range changed {
		g.reload(path)
	}
	if !open {
		g.watcher = nil
	}
}

func (g *Game) reload(path string) {
	name := filepath.Base(path)
	switch {
	case name == "player.yaml":
		tuning, err := prefabs.LoadPlayerTuning()
		if err != nil {
			log.Printf("prefabs: reload %s: %v", name, err)
			return
		}
		g.world.SetTuning(tuning)
	case name == "theme.yaml":
		theme, err := prefabs.LoadThemeSpec()
		if err != nil {
			log.Printf("prefabs: reload %s: %v", name, err)
			return
		}
		g.screen.Theme = theme
	case g.scriptName != "" && strings.TrimSuffix(name, filepath.Ext(name)) == strings.TrimSuffix(filepath.Base(g.scriptName), ".tengo"):
		pilot, err := autopilot.Load(g.scriptName)
		if err != nil {
			log.Printf("prefabs: reload %s: %v", name, err)
			return
		}
		g.world.Pilot = pilot
	default:
		return
	}
	log.Printf("prefabs: reloaded %s", name)
}

func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
