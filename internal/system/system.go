// Package system owns the particle collection and the per-frame pipeline:
// spawn, a data-parallel step, then cull.
package system

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/traum3rei/go-particles/internal/particle"
)

// Tunables
const (
	// DefaultSpeed is the per-axis bound on a new particle's velocity
	DefaultSpeed = 5.0
	// DefaultMinChunk is the smallest slice handed to one worker goroutine
	DefaultMinChunk = 256
)

// DefaultGravity pulls every particle down by 0.1 units/frame²
var DefaultGravity = r2.Vec{X: 0, Y: -0.1}

// Options configures a System
type Options struct {
	Speed         float64        // velocity bound V for new particles
	Gravity       r2.Vec         // force applied by Frame every step
	Spawn         SpawnPolicy    // particles per trigger frame
	Color         particle.Color // colour of new particles, zero uses particle.DefaultColor
	Heat          particle.Heat  // colour gradient parameters
	ColorReactive bool           // Frame derives colour from Input.Reference
	Cull          bool           // Frame removes particles outside Input.Bounds
	Workers       int            // <= 0 uses runtime.NumCPU()
	MinChunk      int            // <= 0 uses DefaultMinChunk
	Seed          uint64         // 0 picks a random seed
}

// DefaultOptions returns V=5, gravity (0,-0.1), one particle per trigger
// frame, fixed colour, culling on.
func DefaultOptions() Options {
	return Options{
		Speed:   DefaultSpeed,
		Gravity: DefaultGravity,
		Spawn:   SpawnPolicy{Count: 1},
		Color:   particle.DefaultColor,
		Heat:    particle.Heat{MaxDistance: particle.DefaultMaxDistance},
		Cull:    true,
	}
}

// Input is one frame of collaborator input
type Input struct {
	Bounds    particle.Bounds
	Trigger   bool
	TriggerAt r2.Vec
	Reference *r2.Vec // nil when no reference point is available
}

// Sprite is the renderer's view of one particle
type Sprite struct {
	Position r2.Vec
	Color    particle.Color
}

// Stats are running counters for HUDs and logs
type Stats struct {
	Frame   uint64
	Live    int
	Spawned uint64
	Culled  uint64
}

// System owns the particles exclusively. It is not safe for concurrent use;
// only Step fans out internally.
type System struct {
	particles []particle.Particle
	opts      Options
	rng       *rand.Rand
	nextID    uint64
	stats     Stats
}

// New creates a system holding count particles at random positions inside bounds
func New(bounds particle.Bounds, count int, opts Options) *System {
	if opts.MinChunk <= 0 {
		opts.MinChunk = DefaultMinChunk
	}
	if opts.Color == (particle.Color{}) {
		opts.Color = particle.DefaultColor
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	s := &System{
		particles: make([]particle.Particle, 0, max(count, 0)),
		opts:      opts,
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
	for i := 0; i < count; i++ {
		s.add(bounds.RandomPoint(s.rng))
	}
	return s
}

func (s *System) add(pos r2.Vec) {
	p := particle.New(pos, s.opts.Speed, s.rng)
	p.Color = s.opts.Color
	s.nextID++
	p.ID = s.nextID
	s.particles = append(s.particles, p)
	s.stats.Spawned++
}

// Spawn appends count particles at position, each with its own velocity
func (s *System) Spawn(position r2.Vec, count int) {
	for i := 0; i < count; i++ {
		s.add(position)
	}
}

// Step applies force to every particle, integrates it, and derives its colour
// when ref is non-nil. It returns once every particle has been updated.
func (s *System) Step(force r2.Vec, ref *r2.Vec) {
	if ref != nil {
		point, heat := *ref, s.opts.Heat
		s.parallel(func(p *particle.Particle) {
			p.ApplyForce(force)
			p.Update()
			p.UpdateColor(point, heat)
		})
		return
	}
	s.parallel(func(p *particle.Particle) {
		p.ApplyForce(force)
		p.Update()
	})
}

// Cull removes every particle outside bounds and returns how many were removed.
// Survivors keep their relative order.
func (s *System) Cull(bounds particle.Bounds) int {
	kept := s.particles[:0]
	for _, p := range s.particles {
		if bounds.Contains(p.Position) {
			kept = append(kept, p)
		}
	}
	removed := len(s.particles) - len(kept)
	clear(s.particles[len(kept):])
	s.particles = kept
	s.stats.Culled += uint64(removed)
	return removed
}

// Frame runs one frame of the pipeline: spawn on trigger, step, cull
func (s *System) Frame(in Input) {
	if in.Trigger {
		s.Spawn(in.TriggerAt, s.opts.Spawn.count(s.rng))
	}

	var ref *r2.Vec
	if s.opts.ColorReactive {
		ref = in.Reference
	}
	s.Step(s.opts.Gravity, ref)

	if s.opts.Cull {
		s.Cull(in.Bounds)
	}
	s.stats.Frame++
}

// Snapshot appends one sprite per live particle to dst[:0]
func (s *System) Snapshot(dst []Sprite) []Sprite {
	dst = dst[:0]
	for i := range s.particles {
		dst = append(dst, Sprite{Position: s.particles[i].Position, Color: s.particles[i].Color})
	}
	return dst
}

// Len returns the number of live particles
func (s *System) Len() int {
	return len(s.particles)
}

// Stats returns the running counters
func (s *System) Stats() Stats {
	st := s.stats
	st.Live = len(s.particles)
	return st
}

// Options returns the options the system was built with
func (s *System) Options() Options {
	return s.opts
}
