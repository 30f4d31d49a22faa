package particle

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"
)

// Bounds is an axis-aligned world rectangle, y up
type Bounds struct {
	Left, Right, Bottom, Top float64
}

// Contains reports whether p lies inside b, edges included
func (b Bounds) Contains(p r2.Vec) bool {
	return b.Left <= p.X && p.X <= b.Right && b.Bottom <= p.Y && p.Y <= b.Top
}

// RandomPoint samples a point uniformly inside b
func (b Bounds) RandomPoint(rng *rand.Rand) r2.Vec {
	return r2.Vec{
		X: b.Left + rng.Float64()*(b.Right-b.Left),
		Y: b.Bottom + rng.Float64()*(b.Top-b.Bottom),
	}
}

// Width returns Right-Left
func (b Bounds) Width() float64 { return b.Right - b.Left }

// Height returns Top-Bottom
func (b Bounds) Height() float64 { return b.Top - b.Bottom }
