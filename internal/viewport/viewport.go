// Package viewport maps between screen space (origin top-left, y down) and
// world space (origin at the screen centre, y up).
package viewport

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/traum3rei/go-particles/internal/particle"
)

// Viewport describes a screen of Width x Height units where one screen unit
// spans ScaleX x ScaleY world units
type Viewport struct {
	Width, Height  int
	ScaleX, ScaleY float64
}

// New returns a viewport with one world unit per screen unit
func New(width, height int) Viewport {
	return Viewport{Width: width, Height: height, ScaleX: 1, ScaleY: 1}
}

// Resize returns v with a new screen size and the same scale
func (v Viewport) Resize(width, height int) Viewport {
	v.Width, v.Height = width, height
	return v
}

// Bounds returns the world rectangle covered by the screen
func (v Viewport) Bounds() particle.Bounds {
	hw := float64(v.Width) * v.ScaleX / 2
	hh := float64(v.Height) * v.ScaleY / 2
	return particle.Bounds{Left: -hw, Right: hw, Bottom: -hh, Top: hh}
}

// ToWorld converts a screen position to world coordinates
func (v Viewport) ToWorld(x, y float64) r2.Vec {
	return r2.Vec{
		X: (x - float64(v.Width)/2) * v.ScaleX,
		Y: (float64(v.Height)/2 - y) * v.ScaleY,
	}
}

// ToScreen converts a world position to screen coordinates
func (v Viewport) ToScreen(p r2.Vec) (x, y float64) {
	x = p.X/v.ScaleX + float64(v.Width)/2
	y = float64(v.Height)/2 - p.Y/v.ScaleY
	return
}
