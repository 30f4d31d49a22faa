package particle

import (
	"image/color"
	"math"
)

// Color stores straight (non-premultiplied) channels in [0,1]
type Color struct {
	R, G, B, A float32
}

// Predefined colors
var (
	DefaultColor = Color{0, 0, 0, 1}
	Yellow       = Color{1, 1, 0, 1}
	Red          = Color{1, 0, 0, 1}
)

// DefaultMaxDistance is the distance at which the heat gradient reaches red
const DefaultMaxDistance = 200.0

// Heat parameterises the proximity colour gradient
type Heat struct {
	MaxDistance float64
}

// HeatColor maps a distance onto the yellow (near) to red (far) gradient.
// Green falls linearly from 1 at distance 0 to 0 at maxDistance and beyond.
func HeatColor(distance, maxDistance float64) Color {
	if maxDistance <= 0 {
		return Red
	}
	t := distance / maxDistance
	switch {
	case t < 0:
		t = 0
	case t > 1 || math.IsNaN(t):
		t = 1
	}
	return Color{R: 1, G: float32(1 - t), B: 0, A: 1}
}

// RGBA implements color.Color with alpha-premultiplied 16-bit channels
func (c Color) RGBA() (r, g, b, a uint32) {
	a = to16(c.A)
	r = to16(c.R) * a / 0xffff
	g = to16(c.G) * a / 0xffff
	b = to16(c.B) * a / 0xffff
	return
}

// NRGBA converts to the 8-bit straight-alpha form
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}
}

func to16(v float32) uint32 {
	return uint32(clamp01(v)*0xffff + 0.5)
}

func to8(v float32) uint8 {
	return uint8(clamp01(v)*0xff + 0.5)
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
