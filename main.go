package main

import (
	"flag"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/ledgerunner/prefabs"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug overlay and physics logging")
	levelName := flag.String("level", "", "level name in levels/ (basename, .json optional) or a path to a level file")
	scriptName := flag.String("script", "", "autopilot script in prefabs/scripts, basename or .tengo: "+strings.Join(prefabs.Scripts(), ", "))
	flag.Parse()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("ledgerunner")

	game, err := NewGame(*levelName, *scriptName, *debug)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
