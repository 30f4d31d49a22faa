package system

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/traum3rei/go-particles/internal/particle"
)

var square = particle.Bounds{Left: -100, Right: 100, Bottom: -100, Top: 100}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Seed = 42
	opts.Workers = 4
	opts.MinChunk = 8
	return opts
}

func TestNewPopulatesBounds(t *testing.T) {
	s := New(square, 500, testOptions())
	if s.Len() != 500 {
		t.Fatalf("Len() = %d, want 500", s.Len())
	}

	ids := make(map[uint64]bool, s.Len())
	for _, p := range s.particles {
		if !square.Contains(p.Position) {
			t.Errorf("particle %d at %v outside %+v", p.ID, p.Position, square)
		}
		if ids[p.ID] {
			t.Errorf("duplicate id %d", p.ID)
		}
		ids[p.ID] = true
	}

	if st := s.Stats(); st.Spawned != 500 || st.Live != 500 {
		t.Errorf("Stats() = %+v", st)
	}
}

func TestNewEmpty(t *testing.T) {
	s := New(square, 0, testOptions())
	if s.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", s.Len())
	}
	// Stepping and culling an empty system is a no-op
	s.Step(DefaultGravity, nil)
	if n := s.Cull(square); n != 0 {
		t.Errorf("Cull removed %d from empty system", n)
	}
}

func TestSpawnGrowth(t *testing.T) {
	tests := []struct {
		name  string
		speed float64
		count int
	}{
		{"single", 5, 1},
		{"burst", 10, 39},
		{"none", 5, 0},
		{"negative", 5, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			opts.Speed = tt.speed
			s := New(square, 10, opts)
			pos := r2.Vec{X: 25, Y: -40}

			s.Spawn(pos, tt.count)

			want := 10 + max(tt.count, 0)
			if s.Len() != want {
				t.Fatalf("Len() = %d, want %d", s.Len(), want)
			}
			for _, p := range s.particles[10:] {
				if p.Position != pos {
					t.Errorf("spawned at %v, want %v", p.Position, pos)
				}
				if math.Abs(p.Velocity.X) > tt.speed || math.Abs(p.Velocity.Y) > tt.speed {
					t.Errorf("velocity %v outside ±%v", p.Velocity, tt.speed)
				}
			}
		})
	}
}

func TestSpawnIndependentVelocities(t *testing.T) {
	s := New(square, 0, testOptions())
	s.Spawn(r2.Vec{}, 50)

	seen := make(map[r2.Vec]bool)
	for _, p := range s.particles {
		if seen[p.Velocity] {
			t.Fatalf("velocity %v repeated", p.Velocity)
		}
		seen[p.Velocity] = true
	}
}

func TestCullBoundary(t *testing.T) {
	bounds := particle.Bounds{Left: 0, Right: 10, Bottom: 0, Top: 10}
	tests := []struct {
		name string
		pos  r2.Vec
		keep bool
	}{
		{"right edge", r2.Vec{X: 10, Y: 5}, true},
		{"just past right edge", r2.Vec{X: 10.0001, Y: 5}, false},
		{"left of bounds", r2.Vec{X: -1, Y: 5}, false},
		{"corner", r2.Vec{X: 0, Y: 10}, true},
		{"below", r2.Vec{X: 5, Y: -0.5}, false},
		{"above", r2.Vec{X: 5, Y: 11}, false},
		{"inside", r2.Vec{X: 5, Y: 5}, true},
		{"NaN", r2.Vec{X: math.NaN(), Y: 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(bounds, 0, testOptions())
			s.Spawn(tt.pos, 1)

			removed := s.Cull(bounds)

			if got := s.Len() == 1; got != tt.keep {
				t.Errorf("kept = %v, want %v", got, tt.keep)
			}
			wantRemoved := 1
			if tt.keep {
				wantRemoved = 0
			}
			if removed != wantRemoved {
				t.Errorf("Cull returned %d, want %d", removed, wantRemoved)
			}
		})
	}
}

func TestCullIdempotent(t *testing.T) {
	s := New(square, 300, testOptions())
	for i := 0; i < 40; i++ {
		s.Step(r2.Vec{X: 0.3, Y: -0.2}, nil)
	}

	small := particle.Bounds{Left: -50, Right: 50, Bottom: -50, Top: 50}
	s.Cull(small)
	once := s.Snapshot(nil)

	if n := s.Cull(small); n != 0 {
		t.Errorf("second Cull removed %d", n)
	}
	twice := s.Snapshot(nil)

	if len(once) != len(twice) {
		t.Fatalf("len changed from %d to %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("sprite %d changed: %+v -> %+v", i, once[i], twice[i])
		}
	}
}

func TestCullKeepsOrder(t *testing.T) {
	bounds := particle.Bounds{Left: 0, Right: 10, Bottom: 0, Top: 10}
	s := New(bounds, 0, testOptions())
	for _, x := range []float64{1, 20, 2, -5, 3} {
		s.Spawn(r2.Vec{X: x, Y: 1}, 1)
	}

	s.Cull(bounds)

	var xs []float64
	for _, p := range s.particles {
		xs = append(xs, p.Position.X)
	}
	want := []float64{1, 2, 3}
	if len(xs) != len(want) {
		t.Fatalf("survivors = %v, want %v", xs, want)
	}
	for i := range want {
		if xs[i] != want[i] {
			t.Fatalf("survivors = %v, want %v", xs, want)
		}
	}
}

func TestStepParallelMatchesSerial(t *testing.T) {
	parOpts := testOptions()
	parOpts.Workers = 7
	parOpts.MinChunk = 1
	par := New(square, 1001, parOpts)

	serial := make([]particle.Particle, par.Len())
	copy(serial, par.particles)

	force := r2.Vec{X: 0.01, Y: -0.1}
	ref := r2.Vec{X: 5, Y: 5}
	for frame := 0; frame < 20; frame++ {
		par.Step(force, &ref)
		for i := range serial {
			serial[i].ApplyForce(force)
			serial[i].Update()
			serial[i].UpdateColor(ref, parOpts.Heat)
		}
	}

	for i := range serial {
		if par.particles[i] != serial[i] {
			t.Fatalf("particle %d: parallel %+v != serial %+v", i, par.particles[i], serial[i])
		}
	}
}

func TestStepClearsAcceleration(t *testing.T) {
	s := New(square, 64, testOptions())
	s.Step(r2.Vec{X: 1, Y: 1}, nil)
	for _, p := range s.particles {
		if p.Acceleration != (r2.Vec{}) {
			t.Fatalf("particle %d acceleration %v after Step", p.ID, p.Acceleration)
		}
	}
}

func TestStepColor(t *testing.T) {
	s := New(square, 100, testOptions())

	s.Step(r2.Vec{}, nil)
	for _, p := range s.particles {
		if p.Color != particle.DefaultColor {
			t.Fatalf("colour changed without reference: %+v", p.Color)
		}
	}

	ref := r2.Vec{}
	s.Step(r2.Vec{}, &ref)
	for _, p := range s.particles {
		want := particle.HeatColor(r2.Norm(p.Position), particle.DefaultMaxDistance)
		if p.Color != want {
			t.Fatalf("colour = %+v, want %+v", p.Color, want)
		}
	}
}

func TestFrameTrigger(t *testing.T) {
	tests := []struct {
		name     string
		policy   SpawnPolicy
		trigger  bool
		min, max int
	}{
		{"no trigger", SpawnPolicy{Count: 1}, false, 0, 0},
		{"one per frame", SpawnPolicy{Count: 1}, true, 1, 1},
		{"fixed five", SpawnPolicy{Count: 5}, true, 5, 5},
		{"burst", SpawnPolicy{Burst: 40}, true, 1, 39},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			opts.Spawn = tt.policy
			opts.Gravity = r2.Vec{}
			s := New(square, 0, opts)

			for i := 0; i < 50; i++ {
				before := s.Len()
				s.Frame(Input{Bounds: particle.Bounds{Left: -1e9, Right: 1e9, Bottom: -1e9, Top: 1e9}, Trigger: tt.trigger})
				grew := s.Len() - before
				if grew < tt.min || grew > tt.max {
					t.Fatalf("frame %d spawned %d, want [%d, %d]", i, grew, tt.min, tt.max)
				}
			}
			if st := s.Stats(); st.Frame != 50 {
				t.Errorf("Stats().Frame = %d, want 50", st.Frame)
			}
		})
	}
}

func TestFrameSpawnOutOfBoundsCulledSameFrame(t *testing.T) {
	s := New(square, 0, testOptions())
	s.Frame(Input{Bounds: square, Trigger: true, TriggerAt: r2.Vec{X: 500, Y: 500}})
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want out-of-bounds spawn culled", s.Len())
	}
	if st := s.Stats(); st.Spawned != 1 || st.Culled != 1 {
		t.Errorf("Stats() = %+v", st)
	}
}

func TestFrameCullDisabled(t *testing.T) {
	opts := testOptions()
	opts.Cull = false
	s := New(square, 100, opts)
	for i := 0; i < 500; i++ {
		s.Frame(Input{Bounds: square})
	}
	if s.Len() != 100 {
		t.Errorf("Len() = %d, want 100 with culling disabled", s.Len())
	}
}

func TestFrameColorReactive(t *testing.T) {
	ref := r2.Vec{X: 0, Y: 0}
	in := Input{Bounds: square, Reference: &ref}

	fixed := New(square, 50, testOptions())
	fixed.Frame(in)
	for _, sp := range fixed.Snapshot(nil) {
		if sp.Color != particle.DefaultColor {
			t.Fatalf("fixed colour system changed colour to %+v", sp.Color)
		}
	}

	opts := testOptions()
	opts.ColorReactive = true
	reactive := New(square, 50, opts)
	reactive.Frame(in)
	for _, sp := range reactive.Snapshot(nil) {
		if sp.Color.R != 1 || sp.Color.B != 0 {
			t.Fatalf("reactive colour = %+v, want heat gradient", sp.Color)
		}
	}
}

func TestGravityScenario(t *testing.T) {
	s := New(square, 500, testOptions())

	type state struct{ y, vy float64 }
	prev := make(map[uint64]state, s.Len())
	for _, p := range s.particles {
		prev[p.ID] = state{p.Position.Y, p.Velocity.Y}
	}

	for frame := 0; frame < 1000; frame++ {
		s.Frame(Input{Bounds: square})

		if s.Len() > 500 {
			t.Fatalf("frame %d: Len() = %d grew without trigger", frame, s.Len())
		}

		next := make(map[uint64]state, s.Len())
		for _, p := range s.particles {
			old, ok := prev[p.ID]
			if !ok {
				t.Fatalf("frame %d: unknown particle %d", frame, p.ID)
			}
			if math.Abs(p.Velocity.Y-(old.vy-0.1)) > 1e-9 {
				t.Fatalf("frame %d: particle %d vy %v, want %v", frame, p.ID, p.Velocity.Y, old.vy-0.1)
			}
			if p.Velocity.Y < 0 && p.Position.Y >= old.y {
				t.Fatalf("frame %d: particle %d falling but y %v >= %v", frame, p.ID, p.Position.Y, old.y)
			}
			next[p.ID] = state{p.Position.Y, p.Velocity.Y}
		}
		prev = next
	}

	if s.Len() != 0 {
		t.Errorf("Len() = %d after 1000 frames of gravity, want 0", s.Len())
	}
	if st := s.Stats(); st.Culled != 500 {
		t.Errorf("Stats().Culled = %d, want 500", st.Culled)
	}
}

func TestSnapshotReusesBuffer(t *testing.T) {
	s := New(square, 10, testOptions())
	buf := make([]Sprite, 0, 64)
	buf = s.Snapshot(buf)
	if len(buf) != 10 || cap(buf) != 64 {
		t.Fatalf("len %d cap %d, want 10/64", len(buf), cap(buf))
	}
	for i, sp := range buf {
		if sp.Position != s.particles[i].Position {
			t.Errorf("sprite %d position %v != particle %v", i, sp.Position, s.particles[i].Position)
		}
	}

	// Mutating the snapshot does not touch the system
	buf[0].Position = r2.Vec{X: 1e6}
	if s.particles[0].Position.X == 1e6 {
		t.Error("snapshot aliases particle state")
	}
}

func TestWorkers(t *testing.T) {
	tests := []struct {
		name     string
		workers  int
		minChunk int
		n        int
		want     int
	}{
		{"tiny collection", 8, 256, 10, 1},
		{"limited by chunk", 8, 100, 350, 3},
		{"limited by workers", 4, 10, 10000, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &System{opts: Options{Workers: tt.workers, MinChunk: tt.minChunk}}
			if got := s.workers(tt.n); got != tt.want {
				t.Errorf("workers(%d) = %d, want %d", tt.n, got, tt.want)
			}
		})
	}
}

func BenchmarkStep(b *testing.B) {
	opts := DefaultOptions()
	opts.Seed = 7
	s := New(square, 100000, opts)
	ref := r2.Vec{}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Step(DefaultGravity, &ref)
	}
}
