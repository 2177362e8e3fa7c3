package glyphswarm

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween/ease"
)

// Panel geometry in logical pixels. Multiplied by the surface scale.
const (
	panelMargin  = 16.0
	panelWidth   = 220.0
	panelPad     = 12.0
	rowHeight    = 34.0
	trackHeight  = 4.0
	knobRadius   = 7.0
	buttonHeight = 28.0
	buttonGap    = 8.0
	labelSize    = 13.0
)

// pressFlashDuration is how long a pressed button glows, in seconds.
const pressFlashDuration = 0.35

var (
	panelColor  = Color{R: 0.06, G: 0.07, B: 0.1, A: 0.72}
	borderColor = Color{R: 0.36, G: 0.4, B: 0.48, A: 0.6}
	trackColor  = Color{R: 0.36, G: 0.4, B: 0.48, A: 1}
	accentColor = Color{R: 0.96, G: 0.45, B: 0.6, A: 1}
	labelColor  = Color{R: 0.89, G: 0.91, B: 0.94, A: 1}
)

// Slider is a horizontal value picker snapped to Step.
type Slider struct {
	Label    string
	Min, Max float64
	Step     float64
	Value    float64
	Format   string
	track    Rect
	hit      Rect
	dragging bool
	onChange func(float64)
}

// set snaps and clamps v, stores it and reports whether it changed.
func (s *Slider) set(v float64) bool {
	if s.Step > 0 {
		v = s.Min + math.Round((v-s.Min)/s.Step)*s.Step
	}
	v = math.Min(math.Max(v, s.Min), s.Max)
	if v == s.Value {
		return false
	}
	s.Value = v
	return true
}

// valueAt returns the value for a pointer at x over the track.
func (s *Slider) valueAt(x float64) float64 {
	if s.track.Width <= 0 {
		return s.Min
	}
	t := clamp01((x - s.track.X) / s.track.Width)
	return lerp(s.Min, s.Max, t)
}

// fraction returns the knob position along the track in [0, 1].
func (s *Slider) fraction() float64 {
	if s.Max <= s.Min {
		return 0
	}
	return clamp01((s.Value - s.Min) / (s.Max - s.Min))
}

func (s *Slider) drag(x float64) {
	if s.set(s.valueAt(x)) && s.onChange != nil {
		s.onChange(s.Value)
	}
}

// Button fires its action on release over the same button it was pressed on.
type Button struct {
	Label   string
	rect    Rect
	pressed bool
	glow    float64
	tween   *TweenGroup
	onClick func()
}

// flash starts the press glow.
func (b *Button) flash() {
	b.glow = 1
	b.tween = TweenValue(&b.glow, 0, pressFlashDuration, ease.OutQuad)
}

// Controls is the on-screen panel with the stride and size sliders and the
// scatter and assemble buttons.
type Controls struct {
	Visible bool

	Stride  Slider
	Size    Slider
	Scatter Button
	Gather  Button

	panel   Rect
	scale   float64
	font    *Font
	capture bool
}

// ControlCallbacks receive user changes made through the panel.
type ControlCallbacks struct {
	Stride   func(int)
	Size     func(float64)
	Scatter  func()
	Assemble func()
}

// NewControls creates a visible panel for cfg's ranges. The font may be nil,
// in which case labels are not drawn.
func NewControls(cfg Config, font *Font, cb ControlCallbacks) *Controls {
	c := &Controls{
		Visible: true,
		font:    font,
		scale:   1,
		Stride: Slider{
			Label: "Resolution", Min: float64(cfg.MinStride), Max: float64(cfg.MaxStride),
			Step: 1, Value: float64(cfg.Stride), Format: "%.0f",
		},
		Size: Slider{
			Label: "Size", Min: cfg.MinDotSize, Max: cfg.MaxDotSize,
			Step: cfg.DotSizeStep, Value: cfg.DotSize, Format: "%.1f",
		},
		Scatter: Button{Label: "Scatter"},
		Gather:  Button{Label: "Assemble"},
	}
	if cb.Stride != nil {
		c.Stride.onChange = func(v float64) { cb.Stride(int(v)) }
	}
	c.Size.onChange = cb.Size
	c.Scatter.onClick = cb.Scatter
	c.Gather.onClick = cb.Assemble
	c.Layout(1)
	return c
}

// Layout positions the panel for a surface scale.
func (c *Controls) Layout(scale float64) {
	if scale <= 0 {
		scale = 1
	}
	c.scale = scale
	x := panelMargin * scale
	y := panelMargin * scale
	w := panelWidth * scale
	pad := panelPad * scale
	row := rowHeight * scale

	inner := w - 2*pad
	for i, s := range []*Slider{&c.Stride, &c.Size} {
		top := y + pad + float64(i)*row
		s.track = Rect{X: x + pad, Y: top + row*0.62, Width: inner, Height: trackHeight * scale}
		s.hit = Rect{X: x + pad - knobRadius*scale, Y: top + row*0.35, Width: inner + 2*knobRadius*scale, Height: row * 0.6}
	}
	by := y + pad + 2*row + 4*scale
	bw := (inner - buttonGap*scale) / 2
	c.Scatter.rect = Rect{X: x + pad, Y: by, Width: bw, Height: buttonHeight * scale}
	c.Gather.rect = Rect{X: x + pad + bw + buttonGap*scale, Y: by, Width: bw, Height: buttonHeight * scale}
	c.panel = Rect{X: x, Y: y, Width: w, Height: by + buttonHeight*scale + pad - y}
}

// Bounds returns the panel rectangle in surface pixels.
func (c *Controls) Bounds() Rect {
	return c.panel
}

// Sync updates the slider positions without firing callbacks.
func (c *Controls) Sync(stride int, size float64) {
	c.Stride.set(float64(stride))
	c.Size.set(size)
}

// PointerDown handles a press and reports whether the panel consumed it.
func (c *Controls) PointerDown(x, y float64) bool {
	if !c.Visible || !c.panel.Contains(x, y) {
		return false
	}
	c.capture = true
	for _, s := range []*Slider{&c.Stride, &c.Size} {
		if s.hit.Contains(x, y) {
			s.dragging = true
			s.drag(x)
			return true
		}
	}
	for _, b := range []*Button{&c.Scatter, &c.Gather} {
		if b.rect.Contains(x, y) {
			b.pressed = true
			b.flash()
			return true
		}
	}
	return true
}

// PointerMove drags an active slider and reports whether the panel holds the
// pointer.
func (c *Controls) PointerMove(x, _ float64) bool {
	if !c.capture {
		return false
	}
	for _, s := range []*Slider{&c.Stride, &c.Size} {
		if s.dragging {
			s.drag(x)
		}
	}
	return true
}

// PointerUp ends a panel interaction and reports whether the press had been
// consumed by the panel.
func (c *Controls) PointerUp(x, y float64) bool {
	if !c.capture {
		return false
	}
	c.capture = false
	c.Stride.dragging = false
	c.Size.dragging = false
	for _, b := range []*Button{&c.Scatter, &c.Gather} {
		if b.pressed && b.rect.Contains(x, y) && b.onClick != nil {
			b.onClick()
		}
		b.pressed = false
	}
	return true
}

// Capturing reports whether a press that started on the panel is held.
func (c *Controls) Capturing() bool {
	return c.capture
}

// Flash starts the press glow of the button for a command issued from the
// keyboard or a script.
func (c *Controls) Flash(scatter bool) {
	if scatter {
		c.Scatter.flash()
	} else {
		c.Gather.flash()
	}
}

// Update advances button animations by dt seconds.
func (c *Controls) Update(dt float32) {
	c.Scatter.tween.Update(dt)
	c.Gather.tween.Update(dt)
}

// Draw renders the panel.
func (c *Controls) Draw(dst *ebiten.Image) {
	if !c.Visible {
		return
	}
	sc := c.scale
	fillRect(dst, c.panel, panelColor)
	strokeRect(dst, c.panel, sc, borderColor)

	for _, s := range []*Slider{&c.Stride, &c.Size} {
		if c.font != nil {
			label := s.Label + "  " + fmt.Sprintf(s.Format, s.Value)
			c.font.Draw(dst, label, s.track.X, s.track.Y-20*sc, sc, labelColor)
		}
		fillRect(dst, s.track, trackColor)
		filled := s.track
		filled.Width *= s.fraction()
		fillRect(dst, filled, accentColor)
		kx := s.track.X + s.track.Width*s.fraction()
		ky := s.track.Y + s.track.Height/2
		vector.DrawFilledCircle(dst, float32(kx), float32(ky), float32(knobRadius*sc), labelColor.toRGBA(), true)
	}

	for _, b := range []*Button{&c.Scatter, &c.Gather} {
		bg := borderColor.WithAlpha(0.35 + 0.5*b.glow)
		if b.glow > 0 {
			bg = blend(bg, accentColor, b.glow)
		}
		fillRect(dst, b.rect, bg)
		strokeRect(dst, b.rect, sc, borderColor)
		if c.font != nil {
			w, h := c.font.MeasureString(b.Label)
			tx := b.rect.X + (b.rect.Width-w*sc)/2
			ty := b.rect.Y + (b.rect.Height-h*sc)/2
			c.font.Draw(dst, b.Label, tx, ty, sc, labelColor)
		}
	}
}

// blend mixes a toward b by t.
func blend(a, b Color, t float64) Color {
	return Color{
		R: lerp(a.R, b.R, t),
		G: lerp(a.G, b.G, t),
		B: lerp(a.B, b.B, t),
		A: lerp(a.A, b.A, t),
	}
}

func fillRect(dst *ebiten.Image, r Rect, c Color) {
	vector.DrawFilledRect(dst, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), c.toRGBA(), true)
}

func strokeRect(dst *ebiten.Image, r Rect, width float64, c Color) {
	vector.StrokeRect(dst, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), float32(width), c.toRGBA(), true)
}
