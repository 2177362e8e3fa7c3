package glyphswarm

import (
	"fmt"
	"image/color"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/shirou/gopsutil/v3/process"
)

// HUD refresh intervals in seconds.
const (
	hudTextInterval = 0.5
	hudProcInterval = 2.0
)

// HUDStats is the per-frame input of the HUD.
type HUDStats struct {
	FPS, TPS  float64
	Particles int
	Targets   int
	Stride    int
	Scattered bool
}

// procStats samples the current process.
type procStats interface {
	Percent() (float64, error)
	RSS() (uint64, error)
}

// gopsutilProc reads process stats through gopsutil.
type gopsutilProc struct {
	p *process.Process
}

func (g gopsutilProc) Percent() (float64, error) {
	// Zero interval compares against the previous call.
	return g.p.Percent(0)
}

func (g gopsutilProc) RSS() (uint64, error) {
	mi, err := g.p.MemoryInfo()
	if err != nil {
		return 0, err
	}
	return mi.RSS, nil
}

// HUD is an overlay with frame rate, swarm counts and process usage. Text is
// rebuilt every half second and process stats every two seconds.
type HUD struct {
	Visible bool

	proc     procStats
	cpu      float64
	rss      uint64
	textAge  float64
	procAge  float64
	text     string
	rendered bool
}

// NewHUD creates a hidden HUD. Process stats are disabled if the current
// process cannot be opened.
func NewHUD() *HUD {
	h := &HUD{}
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		logf("hud: process stats disabled: %v", err)
		return h
	}
	h.proc = gopsutilProc{p: p}
	return h
}

// Update advances the refresh timers by dt seconds.
func (h *HUD) Update(dt float64, stats HUDStats) {
	if !h.Visible {
		return
	}
	h.procAge += dt
	if h.proc != nil && (h.procAge >= hudProcInterval || !h.rendered) {
		h.procAge = 0
		h.sampleProc()
	}
	h.textAge += dt
	if h.textAge >= hudTextInterval || !h.rendered {
		h.textAge = 0
		h.text = h.format(stats)
		h.rendered = true
	}
}

func (h *HUD) sampleProc() {
	cpu, err := h.proc.Percent()
	if err == nil {
		h.cpu = cpu
	}
	rss, rerr := h.proc.RSS()
	if rerr == nil {
		h.rss = rss
	}
	if err != nil && rerr != nil {
		logf("hud: process stats disabled: %v", err)
		h.proc = nil
	}
}

func (h *HUD) format(s HUDStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "FPS: %.1f  TPS: %.1f\n", s.FPS, s.TPS)
	fmt.Fprintf(&b, "particles: %d  targets: %d\n", s.Particles, s.Targets)
	state := "assembled"
	if s.Scattered {
		state = "scattered"
	}
	fmt.Fprintf(&b, "stride: %d  %s", s.Stride, state)
	if h.proc != nil {
		fmt.Fprintf(&b, "\ncpu: %.1f%%  rss: %.1f MiB", h.cpu, float64(h.rss)/(1<<20))
	}
	return b.String()
}

// Text returns the last rendered HUD text.
func (h *HUD) Text() string {
	return h.text
}

// Draw renders the HUD in the top-right corner.
func (h *HUD) Draw(dst *ebiten.Image) {
	if !h.Visible || h.text == "" {
		return
	}
	lines := strings.Count(h.text, "\n") + 1
	w := 0
	for _, l := range strings.Split(h.text, "\n") {
		w = max(w, len(l))
	}
	// The debug font is 6x16 per glyph.
	bw, bh := w*6+8, lines*16+8
	x := dst.Bounds().Dx() - bw - 8
	y := 8
	fillRect(dst, Rect{X: float64(x), Y: float64(y), Width: float64(bw), Height: float64(bh)}, ColorFromNRGBA(color.NRGBA{A: 128}))
	ebitenutil.DebugPrintAt(dst, h.text, x+4, y+4)
}
