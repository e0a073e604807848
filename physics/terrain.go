package physics

import "github.com/jakecoffman/cp"

// Terrain is the read-only tile query surface the physics step sweeps
// against. *terrain.Grid implements it.
type Terrain interface {
	TileX(x float64) int
	TileY(y float64) int
	TilePosition(x, y int) cp.Vector
	TileSize() float64
	IsObstacle(x, y int) bool
	IsOneWay(x, y int) bool
	IsEmpty(x, y int) bool
}
