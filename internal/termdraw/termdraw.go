// Package termdraw renders particle snapshots onto a tcell screen, one cell
// per particle, with a status bar on the last row.
package termdraw

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"

	"github.com/traum3rei/go-particles/internal/particle"
	"github.com/traum3rei/go-particles/internal/system"
	"github.com/traum3rei/go-particles/internal/viewport"
)

// Glyph marks a particle cell
const Glyph = '•'

// Renderer draws into a tcell screen. The simulation area is every row but
// the last, which holds the status bar.
type Renderer struct {
	screen     tcell.Screen
	view       viewport.Viewport
	bg         colorful.Color
	bgStyle    tcell.Style
	barStyle   tcell.Style
	cols, rows int
}

// New creates a renderer. cellWidth and cellHeight are the world units covered
// by one terminal column and row.
func New(screen tcell.Screen, background string, cellWidth, cellHeight float64) (*Renderer, error) {
	bg, err := colorful.Hex(background)
	if err != nil {
		return nil, errors.Wrap(err, "background colour")
	}

	r := &Renderer{
		screen:   screen,
		view:     viewport.Viewport{ScaleX: cellWidth, ScaleY: cellHeight},
		bg:       bg,
		bgStyle:  tcell.StyleDefault.Background(toTcell(bg)),
		barStyle: tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver),
	}
	r.Resize(screen.Size())
	return r, nil
}

// Resize adapts to a new screen size
func (r *Renderer) Resize(cols, rows int) {
	r.cols, r.rows = cols, rows
	r.view = r.view.Resize(cols, max(rows-1, 0))
}

// Viewport returns the mapping for the simulation area
func (r *Renderer) Viewport() viewport.Viewport {
	return r.view
}

// Draw renders the sprites and status bar and shows the screen
func (r *Renderer) Draw(sprites []system.Sprite, st system.Stats, fps float64) {
	r.screen.Fill(' ', r.bgStyle)

	for _, sp := range sprites {
		x, y := r.view.ToScreen(sp.Position)
		cx, cy := int(math.Floor(x)), int(math.Floor(y))
		if cx < 0 || cx >= r.view.Width || cy < 0 || cy >= r.view.Height {
			continue
		}
		style := r.bgStyle.Foreground(CellColor(sp.Color, r.bg))
		r.screen.SetContent(cx, cy, Glyph, nil, style)
	}

	if r.rows > 0 {
		status := fmt.Sprintf(" particles %d  spawned %d  culled %d  frame %d  %.0f fps ",
			st.Live, st.Spawned, st.Culled, st.Frame, fps)
		r.drawBar(r.rows-1, status)
	}

	r.screen.Show()
}

func (r *Renderer) drawBar(row int, text string) {
	col := 0
	for _, ch := range text {
		if col >= r.cols {
			break
		}
		r.screen.SetContent(col, row, ch, nil, r.barStyle)
		col++
	}
	for ; col < r.cols; col++ {
		r.screen.SetContent(col, row, ' ', nil, r.barStyle)
	}
}

// CellColor blends a particle colour onto the background by its alpha
func CellColor(c particle.Color, bg colorful.Color) tcell.Color {
	fg, ok := colorful.MakeColor(c)
	if !ok {
		return toTcell(bg)
	}
	return toTcell(bg.BlendRgb(fg, float64(c.A)).Clamped())
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
