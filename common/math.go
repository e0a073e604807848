package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

// LerpVector returns the point at fraction t between a (t=0) and b (t=1),
// rounded to whole pixels so tile lookups never land on a seam.
func LerpVector(a, b cp.Vector, t float64) cp.Vector {
	return RoundVector(a.Lerp(b, t))
}

func RoundVector(v cp.Vector) cp.Vector {
	return cp.Vector{X: math.Round(v.X), Y: math.Round(v.Y)}
}
