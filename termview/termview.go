// Package termview renders a glyphswarm.Swarm into a terminal with tcell.
//
// Each terminal cell holds a 2×4 braille block, so a particle maps to one
// braille dot. The swarm runs on a pixel surface PixelsPerDot times larger
// than the dot grid, which keeps the sampler's stride range meaningful.
package termview

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/phanxgames/glyphswarm"
)

// Config tunes a View.
type Config struct {
	// PixelsPerDot is the number of surface pixels per braille dot.
	PixelsPerDot int
	// Status draws a one-line help and stats bar on the last row.
	Status bool
}

// DefaultConfig returns 4 pixels per dot with the status bar on.
func DefaultConfig() Config {
	return Config{PixelsPerDot: 4, Status: true}
}

// braille bit for dot (x, y) within a 2×4 cell.
var brailleBits = [2][4]rune{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

const brailleBase = 0x2800

type cell struct {
	bits    rune
	r, g, b float64
	n       int
}

// View draws a Swarm and feeds it terminal input. A View is driven by Run or,
// in tests, by calling HandleEvent and Draw directly.
type View struct {
	screen tcell.Screen
	swarm  *glyphswarm.Swarm
	config Config

	cols, rows int
	cells      []cell
	down       bool
}

// New creates a View over an initialized screen and sizes the swarm to it.
// A terminal too small to draw in is not an error; sampling starts on the
// first resize that yields a usable surface.
func New(screen tcell.Screen, swarm *glyphswarm.Swarm, cfg Config) (*View, error) {
	if cfg.PixelsPerDot < 1 {
		cfg.PixelsPerDot = 1
	}
	v := &View{screen: screen, swarm: swarm, config: cfg}
	screen.EnableMouse()
	if err := v.Resize(); err != nil && !errors.Is(err, glyphswarm.ErrEmptySurface) {
		return nil, err
	}
	return v, nil
}

// Surface returns the pixel surface for the current terminal size.
func (v *View) Surface() glyphswarm.Surface {
	k := v.config.PixelsPerDot
	return glyphswarm.Surface{Width: v.cols * 2 * k, Height: v.drawRows() * 4 * k, Scale: 1}
}

func (v *View) drawRows() int {
	if v.config.Status {
		return max(v.rows-1, 0)
	}
	return v.rows
}

// Resize reads the terminal size and recomputes the swarm's targets. On
// error the swarm keeps its previous targets.
func (v *View) Resize() error {
	v.cols, v.rows = v.screen.Size()
	v.cells = make([]cell, v.cols*v.drawRows())
	return v.swarm.Resize(v.Surface())
}

// toSurface maps a cell to the surface pixel at its center.
func (v *View) toSurface(col, row int) (float64, float64) {
	k := float64(v.config.PixelsPerDot)
	return (float64(col*2) + 1) * k, (float64(row*4) + 2) * k
}

// HandleEvent applies one terminal event. It returns false when the user
// asked to quit.
func (v *View) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return v.handleKey(ev)
	case *tcell.EventMouse:
		x, y := v.toSurface(ev.Position())
		pressed := ev.Buttons()&tcell.Button1 != 0
		v.swarm.PointerMove(x, y)
		switch {
		case pressed && !v.down:
			v.down = true
			v.swarm.PointerDown(x, y)
		case !pressed && v.down:
			v.down = false
			v.swarm.PointerUp(x, y)
		}
	case *tcell.EventResize:
		v.screen.Sync()
		_ = v.Resize()
	}
	return true
}

func (v *View) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
	default:
		return true
	}
	switch ev.Rune() {
	case 'q':
		return false
	case 's':
		v.swarm.Scatter()
	case 'a':
		v.swarm.Assemble()
	case '+', '=':
		_, _ = v.swarm.SetStride(v.swarm.Stride() + 1)
	case '-':
		_, _ = v.swarm.SetStride(v.swarm.Stride() - 1)
	}
	return true
}

// Draw renders the particles and the status bar. It does not call Show.
func (v *View) Draw() {
	v.screen.Clear()
	clear(v.cells)

	k := float64(v.config.PixelsPerDot)
	rows := v.drawRows()
	for _, p := range v.swarm.Pool().Particles() {
		dx, dy := int(p.X/k), int(p.Y/k)
		if p.X < 0 || p.Y < 0 || dx >= v.cols*2 || dy >= rows*4 {
			continue
		}
		c := &v.cells[(dy/4)*v.cols+dx/2]
		c.bits |= brailleBits[dx%2][dy%4]
		lr, lg, lb := colorful.Color{R: p.Color.R, G: p.Color.G, B: p.Color.B}.LinearRgb()
		c.r += lr
		c.g += lg
		c.b += lb
		c.n++
	}

	for i := range v.cells {
		c := &v.cells[i]
		if c.n == 0 {
			continue
		}
		n := float64(c.n)
		avg := colorful.LinearRgb(c.r/n, c.g/n, c.b/n).Clamped()
		r, g, b := avg.RGB255()
		style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
		v.screen.SetContent(i%v.cols, i/v.cols, brailleBase+c.bits, nil, style)
	}

	if v.config.Status && v.rows > 0 {
		state := "assembled"
		if v.swarm.Scattered() {
			state = "scattered"
		}
		line := fmt.Sprintf(" %d particles  stride %d  %s  [s]catter [a]ssemble [+/-] stride [q]uit",
			v.swarm.Pool().Len(), v.swarm.Stride(), state)
		dim := tcell.StyleDefault.Foreground(tcell.ColorGray)
		for i, r := range []rune(line) {
			if i >= v.cols {
				break
			}
			v.screen.SetContent(i, v.rows-1, r, nil, dim)
		}
	}
}

// Run steps and draws the swarm fps times per second until the user quits
// or ctx is done. Events are read on a separate goroutine and applied on the
// loop goroutine, which is the only one touching the swarm. Run returns nil
// on quit and ctx.Err() on cancellation.
func (v *View) Run(ctx context.Context, fps int) error {
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	done := make(chan struct{})
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case <-done:
				return
			default:
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()
	// Close done, then wake PollEvent so the reader sees it.
	defer func() { _ = v.screen.PostEvent(tcell.NewEventInterrupt(nil)) }()
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !v.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			v.swarm.Step()
			v.Draw()
			v.screen.Show()
		}
	}
}
