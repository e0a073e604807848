package terrain

import "github.com/jakecoffman/cp"

// SolidRects merges contiguous Block tiles into larger rectangles so debug
// drawing issues one rectangle per run instead of one per tile. Rectangles are
// grown greedily, width first then height.
func (g *Grid) SolidRects() []cp.BB {
	processed := make([]bool, g.width*g.height)
	var rects []cp.BB
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			idx := x*g.height + y
			if processed[idx] {
				continue
			}
			processed[idx] = true
			if g.tiles[idx] != Block {
				continue
			}

			w := 1
			for x+w < g.width {
				idx2 := (x+w)*g.height + y
				if processed[idx2] || g.tiles[idx2] != Block {
					break
				}
				w++
			}

			h := 1
		heightLoop:
			for y+h < g.height {
				for xi := x; xi < x+w; xi++ {
					idx2 := xi*g.height + y + h
					if processed[idx2] || g.tiles[idx2] != Block {
						break heightLoop
					}
				}
				h++
			}

			for xx := x; xx < x+w; xx++ {
				for yy := y; yy < y+h; yy++ {
					processed[xx*g.height+yy] = true
				}
			}

			lo := g.TileBounds(x, y)
			hi := g.TileBounds(x+w-1, y+h-1)
			rects = append(rects, cp.BB{L: lo.L, B: lo.B, R: hi.R, T: hi.T})
		}
	}
	return rects
}
