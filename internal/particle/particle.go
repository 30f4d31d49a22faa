// Package particle holds the per-particle physical model: a point mass with a
// per-frame force accumulator, integrated once per frame with dt = 1.
package particle

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"
)

// Particle represents a single point mass in the simulation
type Particle struct {
	ID           uint64
	Position     r2.Vec // world units, y up
	Velocity     r2.Vec // units/frame
	Acceleration r2.Vec // units/frame², force accumulator for the current frame
	Color        Color
}

// New creates a particle at position with a velocity drawn uniformly from
// [-speed, speed) on each axis independently.
func New(position r2.Vec, speed float64, rng *rand.Rand) Particle {
	return Particle{
		Position: position,
		Velocity: r2.Vec{
			X: (rng.Float64()*2 - 1) * speed,
			Y: (rng.Float64()*2 - 1) * speed,
		},
		Color: DefaultColor,
	}
}

// ApplyForce accumulates f into the acceleration for this frame
func (p *Particle) ApplyForce(f r2.Vec) {
	p.Acceleration = r2.Add(p.Acceleration, f)
}

// Update integrates one frame: v += a; p += v; a = 0
func (p *Particle) Update() {
	p.Velocity = r2.Add(p.Velocity, p.Acceleration)
	p.Position = r2.Add(p.Position, p.Velocity)
	p.Acceleration = r2.Vec{}
}

// UpdateColor derives the colour from the distance to ref
func (p *Particle) UpdateColor(ref r2.Vec, heat Heat) {
	p.Color = HeatColor(r2.Norm(r2.Sub(p.Position, ref)), heat.MaxDistance)
}
