package terrain

import (
	"errors"
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
)

// TileType classifies a single cell of the grid.
type TileType uint8

const (
	Empty TileType = iota
	Block
	OneWay
)

func (t TileType) String() string {
	switch t {
	case Empty:
		return "empty"
	case Block:
		return "block"
	case OneWay:
		return "one_way"
	}
	return fmt.Sprintf("tile(%d)", uint8(t))
}

var ErrInvalidSize = errors.New("terrain: invalid size")

// Grid is an immutable tile map. Tile (0,0) is centred on Origin and rows grow
// upwards. Any lookup outside the grid reports Block.
type Grid struct {
	width    int
	height   int
	tileSize float64
	origin   cp.Vector
	tiles    []TileType
}

// New builds a grid of width x height tiles. tiles is column-major from the
// bottom row up: tiles[x*height+y]. A nil slice yields an all-empty grid.
func New(width, height int, tileSize float64, origin cp.Vector, tiles []TileType) (*Grid, error) {
	if width <= 0 || height <= 0 || tileSize <= 0 {
		return nil, fmt.Errorf("%w: %dx%d tiles of %g", ErrInvalidSize, width, height, tileSize)
	}
	if tiles == nil {
		tiles = make([]TileType, width*height)
	}
	if len(tiles) != width*height {
		return nil, fmt.Errorf("%w: have %d tiles, want %d", ErrInvalidSize, len(tiles), width*height)
	}
	cells := make([]TileType, len(tiles))
	copy(cells, tiles)
	return &Grid{
		width:    width,
		height:   height,
		tileSize: tileSize,
		origin:   origin,
		tiles:    cells,
	}, nil
}

func (g *Grid) Width() int        { return g.width }
func (g *Grid) Height() int       { return g.height }
func (g *Grid) TileSize() float64 { return g.tileSize }
func (g *Grid) Origin() cp.Vector { return g.origin }

func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// Tile returns the classification of the cell, Block when out of range.
func (g *Grid) Tile(x, y int) TileType {
	if !g.InBounds(x, y) {
		return Block
	}
	return g.tiles[x*g.height+y]
}

func (g *Grid) IsObstacle(x, y int) bool {
	return g.Tile(x, y) == Block
}

func (g *Grid) IsOneWay(x, y int) bool {
	return g.Tile(x, y) == OneWay
}

func (g *Grid) IsEmpty(x, y int) bool {
	return g.Tile(x, y) == Empty
}

// TileX returns the column containing world x.
func (g *Grid) TileX(x float64) int {
	return int(math.Floor((x - g.origin.X + g.tileSize/2) / g.tileSize))
}

// TileY returns the row containing world y.
func (g *Grid) TileY(y float64) int {
	return int(math.Floor((y - g.origin.Y + g.tileSize/2) / g.tileSize))
}

// TileAt converts a world point into tile indices.
func (g *Grid) TileAt(p cp.Vector) (int, int) {
	return g.TileX(p.X), g.TileY(p.Y)
}

// TilePosition returns the world centre of tile (x, y). Indices may be out of range.
func (g *Grid) TilePosition(x, y int) cp.Vector {
	return cp.Vector{
		X: float64(x)*g.tileSize + g.origin.X,
		Y: float64(y)*g.tileSize + g.origin.Y,
	}
}

// TileBounds returns the world rectangle covered by tile (x, y).
func (g *Grid) TileBounds(x, y int) cp.BB {
	return cp.NewBBForExtents(g.TilePosition(x, y), g.tileSize/2, g.tileSize/2)
}
