package config

// file mirrors Config with pointer fields so only keys present in the TOML
// document override the preset
type file struct {
	Preset *string  `toml:"preset"`
	Sim    simFile  `toml:"sim"`
	View   viewFile `toml:"view"`
}

type simFile struct {
	Count       *int     `toml:"count"`
	Speed       *float64 `toml:"speed"`
	GravityX    *float64 `toml:"gravity_x"`
	GravityY    *float64 `toml:"gravity_y"`
	SpawnCount  *int     `toml:"spawn_count"`
	SpawnBurst  *int     `toml:"spawn_burst"`
	ColorMode   *string  `toml:"color_mode"`
	MaxDistance *float64 `toml:"max_distance"`
	Cull        *bool    `toml:"cull"`
	Workers     *int     `toml:"workers"`
	Seed        *uint64  `toml:"seed"`
}

type viewFile struct {
	Width       *int     `toml:"width"`
	Height      *int     `toml:"height"`
	Radius      *float64 `toml:"radius"`
	Background  *string  `toml:"background"`
	Foreground  *string  `toml:"foreground"`
	SpawnButton *string  `toml:"spawn_button"`
	Sound       *bool    `toml:"sound"`
	Smoothing   *float64 `toml:"smoothing"`
	CellWidth   *float64 `toml:"cell_width"`
	CellHeight  *float64 `toml:"cell_height"`
	FPS         *int     `toml:"fps"`
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func (f file) apply(c *Config) {
	s, v := f.Sim, f.View
	set(&c.Sim.Count, s.Count)
	set(&c.Sim.Speed, s.Speed)
	set(&c.Sim.GravityX, s.GravityX)
	set(&c.Sim.GravityY, s.GravityY)
	set(&c.Sim.SpawnCount, s.SpawnCount)
	set(&c.Sim.SpawnBurst, s.SpawnBurst)
	set(&c.Sim.ColorMode, s.ColorMode)
	set(&c.Sim.MaxDistance, s.MaxDistance)
	set(&c.Sim.Cull, s.Cull)
	set(&c.Sim.Workers, s.Workers)
	set(&c.Sim.Seed, s.Seed)

	set(&c.View.Width, v.Width)
	set(&c.View.Height, v.Height)
	set(&c.View.Radius, v.Radius)
	set(&c.View.Background, v.Background)
	set(&c.View.Foreground, v.Foreground)
	set(&c.View.SpawnButton, v.SpawnButton)
	set(&c.View.Sound, v.Sound)
	set(&c.View.Smoothing, v.Smoothing)
	set(&c.View.CellWidth, v.CellWidth)
	set(&c.View.CellHeight, v.CellHeight)
	set(&c.View.FPS, v.FPS)
}
