package terrain

import (
	"fmt"
	"strings"

	"github.com/jakecoffman/cp"
)

// Parse builds a grid from ASCII rows: '#' Block, '=' OneWay, anything else
// Empty. The first line is the top row. Short lines are padded with Empty.
func Parse(rows string, tileSize float64, origin cp.Vector) (*Grid, error) {
	lines := strings.Split(strings.Trim(rows, "\n"), "\n")
	height := len(lines)
	width := 0
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\r")
		if len(lines[i]) > width {
			width = len(lines[i])
		}
	}
	if width == 0 {
		return nil, fmt.Errorf("%w: empty layout", ErrInvalidSize)
	}

	tiles := make([]TileType, width*height)
	for r, l := range lines {
		y := height - 1 - r
		for x, c := range []byte(l) {
			tiles[x*height+y] = tileFromRune(c)
		}
	}
	return New(width, height, tileSize, origin, tiles)
}

// MustParse is Parse for fixtures known to be valid.
func MustParse(rows string, tileSize float64, origin cp.Vector) *Grid {
	g, err := Parse(rows, tileSize, origin)
	if err != nil {
		panic(err)
	}
	return g
}

func tileFromRune(c byte) TileType {
	switch c {
	case '#':
		return Block
	case '=':
		return OneWay
	}
	return Empty
}
