// Package pointer smooths the raw pointer position before it is used as the
// colour reference point.
package pointer

import (
	"github.com/charmbracelet/harmonica"
	"gonum.org/v1/gonum/spatial/r2"
)

// Tracker follows a target with a damped spring per axis
type Tracker struct {
	spring  harmonica.Spring
	enabled bool
	started bool
	pos     r2.Vec
	vel     r2.Vec
}

// NewTracker returns a tracker stepping at fps. A frequency <= 0 disables
// smoothing and Update returns the raw position.
func NewTracker(fps int, frequency, damping float64) *Tracker {
	t := &Tracker{enabled: frequency > 0 && fps > 0}
	if t.enabled {
		t.spring = harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)
	}
	return t
}

// Update advances one frame towards raw and returns the smoothed position.
// The first call snaps to raw.
func (t *Tracker) Update(raw r2.Vec) r2.Vec {
	if !t.enabled {
		return raw
	}
	if !t.started {
		t.started = true
		t.pos = raw
		return raw
	}
	t.pos.X, t.vel.X = t.spring.Update(t.pos.X, t.vel.X, raw.X)
	t.pos.Y, t.vel.Y = t.spring.Update(t.pos.Y, t.vel.Y, raw.Y)
	return t.pos
}

// Position returns the last smoothed position
func (t *Tracker) Position() r2.Vec {
	return t.pos
}
