package glyphswarm

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween/ease"
)

// BackdropConfig describes the static dot pattern behind the particles.
type BackdropConfig struct {
	Dots   int
	Radius float64
	Color  Color
	// StepX and StepY spread dot i to ((i*StepX) % W, (i*StepY) % H).
	StepX, StepY int
}

// DefaultBackdropConfig returns 120 faint slate dots.
func DefaultBackdropConfig() BackdropConfig {
	return BackdropConfig{
		Dots:   120,
		Radius: 1.2,
		Color:  Color{R: 0x94 / 255.0, G: 0xa3 / 255.0, B: 0xb8 / 255.0, A: 0.08},
		StepX:  9973,
		StepY:  4337,
	}
}

// BackdropPoint returns the position of dot i on a w×h surface. The pattern
// is fixed for a given size.
func (c BackdropConfig) BackdropPoint(i, w, h int) (float64, float64) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	return float64((i * c.StepX) % w), float64((i * c.StepY) % h)
}

// backdrop is a persistent offscreen canvas holding the dot pattern. It is
// redrawn only when the surface size changes.
type backdrop struct {
	config BackdropConfig
	image  *ebiten.Image
	w, h   int
}

// ensure returns the cached pattern for surf, rebuilding it on a size change.
func (b *backdrop) ensure(surf Surface) *ebiten.Image {
	if b.image != nil && b.w == surf.Width && b.h == surf.Height {
		return b.image
	}
	b.resize(surf.Width, surf.Height)
	c := b.config.Color.toRGBA()
	r := float32(b.config.Radius)
	for i := 0; i < b.config.Dots; i++ {
		x, y := b.config.BackdropPoint(i, b.w, b.h)
		vector.DrawFilledCircle(b.image, float32(x), float32(y), r, c, true)
	}
	return b.image
}

// resize deallocates the old image and creates a new one at the given size.
func (b *backdrop) resize(w, h int) {
	b.dispose()
	b.image = ebiten.NewImage(w, h)
	b.w, b.h = w, h
}

// dispose deallocates the cached image.
func (b *backdrop) dispose() {
	if b.image != nil {
		b.image.Deallocate()
		b.image = nil
	}
}

// FlashConfig describes the shimmer highlights drawn over targets.
type FlashConfig struct {
	Count int
	// Rate is the number of passes over the Target list per second.
	Rate float64
	// Alpha is the peak opacity.
	Alpha float64
	// RadiusScale multiplies the particle draw radius.
	RadiusScale float64
	Color       Color
	// Ease shapes the opacity over one pass. Nil keeps it constant.
	Ease ease.TweenFunc
}

// DefaultFlashConfig returns 20 soft white flashes.
func DefaultFlashConfig() FlashConfig {
	return FlashConfig{
		Count:       20,
		Rate:        1,
		Alpha:       0.07,
		RadiusScale: 2.3,
		Color:       ColorWhite,
		Ease:        ease.InOutSine,
	}
}

// FlashPhase returns the position of flash i in its pass at time t seconds,
// in [0, 1). Flashes are evenly offset so they never coincide.
func (c FlashConfig) FlashPhase(t float64, i int) float64 {
	p := t * c.Rate
	if c.Count > 0 {
		p += float64(i) / float64(c.Count)
	}
	p -= math.Floor(p)
	return p
}

// FlashIndex maps a phase to an index into a Target list of length n. It
// returns -1 when n is zero.
func FlashIndex(phase float64, n int) int {
	if n <= 0 {
		return -1
	}
	return min(int(math.Floor(phase*float64(n-1))), n-1)
}

// FlashAlpha returns the opacity of a flash at phase: zero at both ends of a
// pass and Alpha in the middle, shaped by Ease.
func (c FlashConfig) FlashAlpha(phase float64) float64 {
	if c.Ease == nil {
		return c.Alpha
	}
	tri := 1 - math.Abs(2*phase-1)
	return c.Alpha * float64(c.Ease(float32(tri), 0, 1, 1))
}

// drawParticles draws every particle as a filled circle of radius r.
func drawParticles(dst *ebiten.Image, ps []Particle, r float64) {
	rr := float32(r)
	for i := range ps {
		p := &ps[i]
		vector.DrawFilledCircle(dst, float32(p.X), float32(p.Y), rr, p.Color.toRGBA(), true)
	}
}

// drawFlashes draws the shimmer highlights cycling over targets at time t.
func drawFlashes(dst *ebiten.Image, targets []Target, t, dotRadius float64, cfg FlashConfig) {
	if len(targets) == 0 {
		return
	}
	r := float32(dotRadius * cfg.RadiusScale)
	for i := 0; i < cfg.Count; i++ {
		phase := cfg.FlashPhase(t, i)
		idx := FlashIndex(phase, len(targets))
		a := cfg.FlashAlpha(phase)
		if a <= 0 {
			continue
		}
		tg := targets[idx]
		vector.DrawFilledCircle(dst, float32(tg.X), float32(tg.Y), r, cfg.Color.WithAlpha(a).toRGBA(), true)
	}
}
