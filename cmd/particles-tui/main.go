// Command particles-tui runs the particle system in a terminal. Hold the
// mouse button to spawn; Esc, q or Ctrl-C quits.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/traum3rei/go-particles/internal/config"
	"github.com/traum3rei/go-particles/internal/logging"
	"github.com/traum3rei/go-particles/internal/pointer"
	"github.com/traum3rei/go-particles/internal/sound"
	"github.com/traum3rei/go-particles/internal/system"
	"github.com/traum3rei/go-particles/internal/termdraw"
)

var (
	configPath = flag.String("config", "", "TOML file overriding the preset")
	presetName = flag.String("preset", "", "Preset: classic, burst, heat")
	debugFlag  = flag.Bool("debug", false, "Write logs/particles.log")
	soundFlag  = flag.Bool("sound", false, "Play a tone when spawning starts")
)

type app struct {
	screen   tcell.Screen
	renderer *termdraw.Renderer
	sim      *system.System
	pointer  *pointer.Tracker
	cue      *sound.Cue
	button   tcell.ButtonMask

	mouse   r2.Vec
	held    bool
	sprites []system.Sprite

	frames  int
	fps     float64
	lastFPS time.Time
}

func buttonMask(name string) tcell.ButtonMask {
	switch name {
	case config.ButtonRight:
		return tcell.Button2
	case config.ButtonMiddle:
		return tcell.Button3
	default:
		return tcell.Button1
	}
}

// handleEvent returns false when the program should exit
func (a *app) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}

	case *tcell.EventMouse:
		x, y := ev.Position()
		// Cell centre
		a.mouse = a.renderer.Viewport().ToWorld(float64(x)+0.5, float64(y)+0.5)
		a.held = ev.Buttons()&a.button != 0

	case *tcell.EventResize:
		w, h := ev.Size()
		a.renderer.Resize(w, h)
		a.screen.Sync()
		log.Printf("resize %dx%d", w, h)
	}
	return true
}

func (a *app) tick() {
	ref := a.pointer.Update(a.mouse)
	if a.cue.Trigger(a.held) {
		log.Printf("spawn started at (%.1f, %.1f)", a.mouse.X, a.mouse.Y)
	}

	a.sim.Frame(system.Input{
		Bounds:    a.renderer.Viewport().Bounds(),
		Trigger:   a.held,
		TriggerAt: a.mouse,
		Reference: &ref,
	})

	a.frames++
	if elapsed := time.Since(a.lastFPS); elapsed >= time.Second {
		a.fps = float64(a.frames) / elapsed.Seconds()
		st := a.sim.Stats()
		log.Printf("frame=%d live=%d spawned=%d culled=%d fps=%.1f", st.Frame, st.Live, st.Spawned, st.Culled, a.fps)
		a.frames = 0
		a.lastFPS = time.Now()
	}

	a.sprites = a.sim.Snapshot(a.sprites)
	a.renderer.Draw(a.sprites, a.sim.Stats(), a.fps)
}

func (a *app) run(fps int) {
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				close(eventChan)
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev, ok := <-eventChan:
			if !ok || !a.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			a.tick()
		}
	}
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

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}

	// Restore the terminal even if the loop panics
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			log.Printf("panic: %v\n%s", r, debug.Stack())
			fmt.Fprintf(os.Stderr, "\ncrashed: %v\n%s\n", r, debug.Stack())
			os.Exit(1)
		}
	}()
	defer screen.Fini()

	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()

	renderer, err := termdraw.New(screen, cfg.View.Background, cfg.View.CellWidth, cfg.View.CellHeight)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "init: %v\n", err)
		os.Exit(1)
	}

	cue, err := sound.New(cfg.View.Sound || *soundFlag)
	if err != nil {
		log.Printf("sound disabled: %v", err)
	}
	defer cue.Close()

	a := &app{
		screen:   screen,
		renderer: renderer,
		sim:      system.New(renderer.Viewport().Bounds(), cfg.Sim.Count, cfg.Options()),
		pointer:  pointer.NewTracker(cfg.View.FPS, cfg.View.Smoothing, 1.0),
		cue:      cue,
		button:   buttonMask(cfg.View.SpawnButton),
		lastFPS:  time.Now(),
	}
	log.Printf("preset=%s terminal %dx%d", cfg.Preset, renderer.Viewport().Width, renderer.Viewport().Height)

	a.run(cfg.View.FPS)
}
