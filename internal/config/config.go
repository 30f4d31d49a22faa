// Package config holds the tunables of the simulation and its frontends.
// Named presets reproduce the observed program variants; a TOML file may
// override any field of the chosen preset.
package config

import (
	"math"
	"os"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/traum3rei/go-particles/internal/particle"
	"github.com/traum3rei/go-particles/internal/system"
)

// Color modes
const (
	ColorFixed = "fixed"
	ColorHeat  = "heat"
)

// Spawn buttons
const (
	ButtonLeft   = "left"
	ButtonRight  = "right"
	ButtonMiddle = "middle"
)

// DefaultPreset is used when neither the flag nor the file names one
const DefaultPreset = "classic"

// Sim configures the particle system
type Sim struct {
	Count       int     `toml:"count"`        // initial particles
	Speed       float64 `toml:"speed"`        // velocity bound V
	GravityX    float64 `toml:"gravity_x"`    // units/frame²
	GravityY    float64 `toml:"gravity_y"`    // units/frame²
	SpawnCount  int     `toml:"spawn_count"`  // particles per trigger frame
	SpawnBurst  int     `toml:"spawn_burst"`  // > 1 spawns a random count in [1, burst)
	ColorMode   string  `toml:"color_mode"`   // fixed | heat
	MaxDistance float64 `toml:"max_distance"` // heat gradient reaches red here
	Cull        bool    `toml:"cull"`
	Workers     int     `toml:"workers"` // 0 = NumCPU
	Seed        uint64  `toml:"seed"`    // 0 = random
}

// View configures the frontends
type View struct {
	Width       int     `toml:"width"`
	Height      int     `toml:"height"`
	Radius      float64 `toml:"radius"`
	Background  string  `toml:"background"`   // hex
	Foreground  string  `toml:"foreground"`   // hex, fixed particle colour
	SpawnButton string  `toml:"spawn_button"` // left | right | middle
	Sound       bool    `toml:"sound"`
	Smoothing   float64 `toml:"smoothing"`   // pointer spring frequency, 0 = off
	CellWidth   float64 `toml:"cell_width"`  // world units per terminal column
	CellHeight  float64 `toml:"cell_height"` // world units per terminal row
	FPS         int     `toml:"fps"`
}

// Config is the complete configuration
type Config struct {
	Preset string
	Sim    Sim
	View   View
}

var presets = map[string]Config{
	"classic": {
		Sim: Sim{
			Count: 500, Speed: 5, GravityY: -0.1,
			SpawnCount: 1, ColorMode: ColorFixed, MaxDistance: particle.DefaultMaxDistance,
			Cull: true,
		},
		View: View{
			Width: 1024, Height: 768, Radius: 1.0,
			Background: "#ffffff", Foreground: "#000000", SpawnButton: ButtonLeft,
			CellWidth: 4, CellHeight: 8, FPS: 60,
		},
	},
	"burst": {
		Sim: Sim{
			Count: 2000, Speed: 10, GravityY: -0.1,
			SpawnCount: 1, SpawnBurst: 40, ColorMode: ColorFixed, MaxDistance: particle.DefaultMaxDistance,
			Cull: true,
		},
		View: View{
			Width: 1024, Height: 768, Radius: 0.5,
			Background: "#000000", Foreground: "#ffffff", SpawnButton: ButtonLeft,
			CellWidth: 8, CellHeight: 16, FPS: 60,
		},
	},
	"heat": {
		Sim: Sim{
			Count: 250, Speed: 5, GravityY: -0.1,
			SpawnCount: 1, SpawnBurst: 40, ColorMode: ColorHeat, MaxDistance: particle.DefaultMaxDistance,
			Cull: true,
		},
		View: View{
			Width: 1024, Height: 768, Radius: 2.0,
			Background: "#101010", Foreground: "#ff0000", SpawnButton: ButtonRight,
			Smoothing: 8, CellWidth: 4, CellHeight: 8, FPS: 60,
		},
	},
}

// Presets returns the preset names in order
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset returns a copy of the named preset
func Preset(name string) (Config, error) {
	cfg, ok := presets[name]
	if !ok {
		return Config{}, errors.Errorf("unknown preset %q (have %s)", name, strings.Join(Presets(), ", "))
	}
	cfg.Preset = name
	return cfg, nil
}

// Default returns the default preset
func Default() Config {
	cfg, _ := Preset(DefaultPreset)
	return cfg
}

// Load builds a configuration from a preset and an optional TOML file. A
// non-empty preset argument wins over the file's preset key.
func Load(path, preset string) (Config, error) {
	var f file
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrap(err, "read config")
		}
		if err := toml.Unmarshal(data, &f); err != nil {
			return Config{}, errors.Wrapf(err, "parse %s", path)
		}
	}

	name := preset
	if name == "" && f.Preset != nil {
		name = *f.Preset
	}
	if name == "" {
		name = DefaultPreset
	}

	cfg, err := Preset(name)
	if err != nil {
		return Config{}, err
	}
	f.apply(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

// Validate rejects configurations the core cannot run with
func (c Config) Validate() error {
	s, v := c.Sim, c.View
	switch {
	case s.Count < 0:
		return errors.Errorf("sim.count %d is negative", s.Count)
	case s.Speed < 0 || !finite(s.Speed):
		return errors.Errorf("sim.speed %v must be a non-negative number", s.Speed)
	case !finite(s.GravityX) || !finite(s.GravityY):
		return errors.Errorf("sim.gravity (%v, %v) is not finite", s.GravityX, s.GravityY)
	case s.SpawnCount < 0 || s.SpawnBurst < 0:
		return errors.Errorf("sim.spawn_count %d / spawn_burst %d is negative", s.SpawnCount, s.SpawnBurst)
	case s.ColorMode != ColorFixed && s.ColorMode != ColorHeat:
		return errors.Errorf("sim.color_mode %q is not %q or %q", s.ColorMode, ColorFixed, ColorHeat)
	case s.MaxDistance <= 0 || !finite(s.MaxDistance):
		return errors.Errorf("sim.max_distance %v must be positive", s.MaxDistance)
	case s.Workers < 0:
		return errors.Errorf("sim.workers %d is negative", s.Workers)
	case v.Width <= 0 || v.Height <= 0:
		return errors.Errorf("view size %dx%d must be positive", v.Width, v.Height)
	case v.Radius <= 0:
		return errors.Errorf("view.radius %v must be positive", v.Radius)
	case v.CellWidth <= 0 || v.CellHeight <= 0:
		return errors.Errorf("view cell size %vx%v must be positive", v.CellWidth, v.CellHeight)
	case v.FPS <= 0:
		return errors.Errorf("view.fps %d must be positive", v.FPS)
	case v.Smoothing < 0:
		return errors.Errorf("view.smoothing %v is negative", v.Smoothing)
	}

	switch v.SpawnButton {
	case ButtonLeft, ButtonRight, ButtonMiddle:
	default:
		return errors.Errorf("view.spawn_button %q is not left, right or middle", v.SpawnButton)
	}

	if _, err := colorful.Hex(v.Background); err != nil {
		return errors.Wrap(err, "view.background")
	}
	if _, err := colorful.Hex(v.Foreground); err != nil {
		return errors.Wrap(err, "view.foreground")
	}
	return nil
}

// Options converts the simulation section into system options
func (c Config) Options() system.Options {
	opts := system.DefaultOptions()
	opts.Speed = c.Sim.Speed
	opts.Gravity = r2.Vec{X: c.Sim.GravityX, Y: c.Sim.GravityY}
	opts.Spawn = system.SpawnPolicy{Count: c.Sim.SpawnCount, Burst: c.Sim.SpawnBurst}
	opts.Heat = particle.Heat{MaxDistance: c.Sim.MaxDistance}
	opts.ColorReactive = c.Sim.ColorMode == ColorHeat
	opts.Cull = c.Sim.Cull
	opts.Workers = c.Sim.Workers
	opts.Seed = c.Sim.Seed
	if fg, err := ParseColor(c.View.Foreground); err == nil {
		opts.Color = fg
	}
	return opts
}

// ParseColor parses a hex colour into an opaque particle colour
func ParseColor(hex string) (particle.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return particle.Color{}, errors.Wrapf(err, "colour %q", hex)
	}
	return particle.Color{R: float32(c.R), G: float32(c.G), B: float32(c.B), A: 1}, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
