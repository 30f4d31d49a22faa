package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/traum3rei/go-particles/internal/config"
	"github.com/traum3rei/go-particles/internal/logging"
	"github.com/traum3rei/go-particles/internal/pointer"
	"github.com/traum3rei/go-particles/internal/sound"
	"github.com/traum3rei/go-particles/internal/system"
	"github.com/traum3rei/go-particles/internal/viewport"
)

var (
	configPath = flag.String("config", "", "TOML file overriding the preset")
	presetName = flag.String("preset", "", "Preset: classic, burst, heat")
	debugFlag  = flag.Bool("debug", false, "Write logs/particles.log and show the HUD")
	soundFlag  = flag.Bool("sound", false, "Play a tone when spawning starts")
)

// pointerDamping is critically damped so the colour reference never overshoots
const pointerDamping = 1.0

// Game represents the Ebiten game
type Game struct {
	sim        *system.System
	view       viewport.Viewport
	pointer    *pointer.Tracker
	cue        *sound.Cue
	button     ebiten.MouseButton
	background color.Color
	radius     float32
	hud        bool

	sprites []system.Sprite
	frames  int
	lastFPS time.Time
}

// Update runs one simulation frame
func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) || ebiten.IsKeyPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	cx, cy := ebiten.CursorPosition()
	at := g.view.ToWorld(float64(cx), float64(cy))
	ref := g.pointer.Update(at)

	trigger := ebiten.IsMouseButtonPressed(g.button)
	if g.cue.Trigger(trigger) {
		log.Printf("spawn started at (%.1f, %.1f)", at.X, at.Y)
	}

	g.sim.Frame(system.Input{
		Bounds:    g.view.Bounds(),
		Trigger:   trigger,
		TriggerAt: at,
		Reference: &ref,
	})

	// Update FPS counter
	now := time.Now()
	g.frames++
	if now.Sub(g.lastFPS).Seconds() >= 1.0 {
		st := g.sim.Stats()
		ebiten.SetWindowTitle(fmt.Sprintf("Particles - %d live - FPS: %d", st.Live, g.frames))
		log.Printf("frame=%d live=%d spawned=%d culled=%d fps=%d", st.Frame, st.Live, st.Spawned, st.Culled, g.frames)
		g.frames = 0
		g.lastFPS = now
	}

	return nil
}

// Draw draws the live particles
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.background)

	g.sprites = g.sim.Snapshot(g.sprites)
	for _, sp := range g.sprites {
		x, y := g.view.ToScreen(sp.Position)
		vector.DrawFilledCircle(screen, float32(x), float32(y), g.radius, sp.Color, true)
	}

	if g.hud {
		st := g.sim.Stats()
		ebitenutil.DebugPrint(screen, fmt.Sprintf("particles %d\nspawned %d\nculled %d\nTPS %.0f",
			st.Live, st.Spawned, st.Culled, ebiten.ActualTPS()))
	}
}

// Layout follows the window so the world always fills it
func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	g.view = g.view.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func mouseButton(name string) ebiten.MouseButton {
	switch name {
	case config.ButtonRight:
		return ebiten.MouseButtonRight
	case config.ButtonMiddle:
		return ebiten.MouseButtonMiddle
	default:
		return ebiten.MouseButtonLeft
	}
}

func newGame(cfg config.Config, withSound bool) (*Game, error) {
	bg, err := colorful.Hex(cfg.View.Background)
	if err != nil {
		return nil, err
	}

	cue, err := sound.New(withSound)
	if err != nil {
		// Non-fatal, run silent
		log.Printf("sound disabled: %v", err)
	}

	view := viewport.New(cfg.View.Width, cfg.View.Height)
	return &Game{
		sim:        system.New(view.Bounds(), cfg.Sim.Count, cfg.Options()),
		view:       view,
		pointer:    pointer.NewTracker(cfg.View.FPS, cfg.View.Smoothing, pointerDamping),
		cue:        cue,
		button:     mouseButton(cfg.View.SpawnButton),
		background: bg,
		radius:     float32(cfg.View.Radius),
		hud:        *debugFlag,
		lastFPS:    time.Now(),
	}, nil
}

func main() {
	flag.Parse()

	if f := logging.Setup(*debugFlag); f != nil {
		defer f.Close()
	}

	cfg, err := config.Load(*configPath, *presetName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log.Printf("preset=%s count=%d spawn=%d/%d color=%s", cfg.Preset, cfg.Sim.Count, cfg.Sim.SpawnCount, cfg.Sim.SpawnBurst, cfg.Sim.ColorMode)

	game, err := newGame(cfg, cfg.View.Sound || *soundFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init: %v\n", err)
		os.Exit(1)
	}
	defer game.cue.Close()

	ebiten.SetWindowTitle("Particles - " + cfg.Preset)
	ebiten.SetWindowSize(cfg.View.Width, cfg.View.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.View.FPS)

	if err := ebiten.RunGame(game); err != nil {
		log.Printf("run: %v", err)
		fmt.Fprintf(os.Stderr, "run: %v\n", err)
		os.Exit(1)
	}
}
