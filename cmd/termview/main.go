// Command termview runs a level in the terminal. Terminals report key
// presses but not releases, so a direction stays held for a few frames
// after its last press.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/milk9111/ledgerunner/autopilot"
	"github.com/milk9111/ledgerunner/component"
	"github.com/milk9111/ledgerunner/levels"
	"github.com/milk9111/ledgerunner/player"
	"github.com/milk9111/ledgerunner/prefabs"
	"github.com/milk9111/ledgerunner/render/termview"
	"github.com/milk9111/ledgerunner/world"
)

const (
	frameRate = 60
	holdFor   = 8
)

// heldKeys turns key presses into intents that decay after holdFor frames.
type heldKeys struct {
	left, right, up, down int
	in                    component.Intent
}

func (h *heldKeys) press(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyLeft:
		h.left, h.right = holdFor, 0
	case tcell.KeyRight:
		h.right, h.left = holdFor, 0
	case tcell.KeyUp:
		h.up = holdFor
	case tcell.KeyDown:
		h.down = holdFor
	case tcell.KeyRune:
		switch ev.Rune() {
		case ' ', 'z':
			h.in.Jump = true
		case 'x':
			h.in.Attack = true
		case 'c':
			h.in.Slide = true
		case 'a':
			h.left, h.right = holdFor, 0
		case 'd':
			h.right, h.left = holdFor, 0
		case 's':
			h.down = holdFor
		}
	}
}

func (h *heldKeys) next() component.Intent {
	in := h.in
	in.Left, in.Right, in.Up, in.Down = h.left > 0, h.right > 0, h.up > 0, h.down > 0
	h.in = component.Intent{}
	h.left, h.right, h.up, h.down = max(0, h.left-1), max(0, h.right-1), max(0, h.up-1), max(0, h.down-1)
	return in
}

func main() {
	levelName := flag.String("level", "ledges", "embedded level name or path to a level file")
	scriptName := flag.String("script", "", "autopilot script in prefabs/scripts ("+strings.Join(prefabs.Scripts(), ", ")+")")
	flag.Parse()

	if err := run(*levelName, *scriptName); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(levelName, scriptName string) error {
	lvl, err := levels.LoadLevelFromFS(levelName)
	if err != nil {
		if lvl, err = levels.LoadLevelFile(levelName); err != nil {
			return err
		}
	}
	tuning, err := prefabs.LoadPlayerTuning()
	if err != nil {
		log.Printf("prefabs: %v; using defaults", err)
		tuning = player.DefaultTuning()
	}
	theme, err := prefabs.LoadThemeSpec()
	if err != nil {
		theme = prefabs.DefaultThemeSpec()
	}

	w, err := world.New(lvl, tuning)
	if err != nil {
		return err
	}
	if scriptName != "" {
		if w.Pilot, err = autopilot.Load(scriptName); err != nil {
			return err
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	view := termview.NewView(screen, theme)
	view.SetTerrain(w.Grid)

	keys := make(chan *tcell.EventKey, 16)
	quit := make(chan struct{})
	go func() {
		defer close(quit)
		for {
			switch ev := screen.PollEvent().(type) {
			case nil:
				return
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					return
				}
				keys <- ev
			case *tcell.EventResize:
				screen.Sync()
			}
		}
	}()

	dt := time.Second / frameRate
	ticker := time.NewTicker(dt)
	defer ticker.Stop()

	var held heldKeys
	status := ""
	for {
		select {
		case <-quit:
			return nil
		case ev := <-keys:
			held.press(ev)
			continue
		case <-ticker.C:
		}

		events, err := w.Step(held.next(), dt)
		if err != nil {
			status = err.Error()
		}
		for _, e := range events {
			status = e.String()
		}

		p := w.Player
		view.Follow(p.Mover.Position)
		view.Begin()
		view.DrawTerrain()
		w.Draw(view)
		view.DrawStatus(fmt.Sprintf("%-10s %s", p.State(), status))
		view.Show()
	}
}
