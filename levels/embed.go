// Package levels loads JSON tile maps into terrain grids.
package levels

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ledgerunner/terrain"
)

//go:embed *.json
var LevelsFS embed.FS

const DefaultTileSize = 32

var ErrNoSpawn = errors.New("levels: no player spawn")

// Level is the on-disk format. Layers are flat row-major arrays with the top
// row first; any non-zero cell on a physics layer is solid.
type Level struct {
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	TileSize  float64     `json:"tile_size,omitempty"`
	Layers    [][]int     `json:"layers"`
	LayerMeta []LayerMeta `json:"layer_meta,omitempty"`
	Entities  []Entity    `json:"entities,omitempty"`
}

type LayerMeta struct {
	Physics bool `json:"physics"`
	OneWay  bool `json:"one_way,omitempty"`
}

// Entity is placed at tile coordinates, top row first like the layers.
type Entity struct {
	Type  string         `json:"type"`
	X     int            `json:"x"`
	Y     int            `json:"y"`
	Props map[string]any `json:"props,omitempty"`
}

// LoadLevelFromFS reads an embedded level by file name.
func LoadLevelFromFS(name string) (*Level, error) {
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("levels: read %s: %w", name, err)
	}
	return Decode(name, data)
}

// LoadLevelFile reads a level from disk.
func LoadLevelFile(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("levels: read %s: %w", path, err)
	}
	return Decode(path, data)
}

func Decode(name string, data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("levels: unmarshal %s: %w", name, err)
	}
	if lvl.Width <= 0 || lvl.Height <= 0 {
		return nil, fmt.Errorf("levels: %s: %w: %dx%d", name, terrain.ErrInvalidSize, lvl.Width, lvl.Height)
	}
	if lvl.TileSize <= 0 {
		lvl.TileSize = DefaultTileSize
	}
	return &lvl, nil
}

// Grid builds the terrain. Tile (0,0) is the bottom-left cell and covers
// [0, TileSize) on both axes. Block wins over OneWay when layers overlap.
func (l *Level) Grid() (*terrain.Grid, error) {
	tiles := make([]terrain.TileType, l.Width*l.Height)
	for i, layer := range l.Layers {
		if len(layer) != l.Width*l.Height || !l.meta(i).Physics {
			continue
		}
		kind := terrain.Block
		if l.meta(i).OneWay {
			kind = terrain.OneWay
		}
		for idx, v := range layer {
			if v == 0 {
				continue
			}
			x, y := idx%l.Width, l.row(idx/l.Width)
			cell := &tiles[x*l.Height+y]
			if *cell != terrain.Block {
				*cell = kind
			}
		}
	}
	origin := cp.Vector{X: l.TileSize / 2, Y: l.TileSize / 2}
	return terrain.New(l.Width, l.Height, l.TileSize, origin, tiles)
}

// Spawn is where the first player entity stands: the bottom centre of its
// tile.
func (l *Level) Spawn(g *terrain.Grid) (cp.Vector, error) {
	for _, e := range l.Entities {
		if e.Type == "player" {
			return l.feet(g, e), nil
		}
	}
	return cp.Vector{}, ErrNoSpawn
}

// Positions returns the standing points of every entity of the given type.
func (l *Level) Positions(g *terrain.Grid, kind string) []cp.Vector {
	var out []cp.Vector
	for _, e := range l.Entities {
		if e.Type == kind {
			out = append(out, l.feet(g, e))
		}
	}
	return out
}

func (l *Level) feet(g *terrain.Grid, e Entity) cp.Vector {
	c := g.TilePosition(e.X, l.row(e.Y))
	return cp.Vector{X: c.X, Y: c.Y - g.TileSize()/2}
}

func (l *Level) row(top int) int {
	return l.Height - 1 - top
}

func (l *Level) meta(i int) LayerMeta {
	if i < len(l.LayerMeta) {
		return l.LayerMeta[i]
	}
	return LayerMeta{}
}
