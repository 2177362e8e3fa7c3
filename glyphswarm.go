package glyphswarm

import (
	"image/color"
	"math"
	"math/rand/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when the color is handed to Ebitengine.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the placeholder color of a particle that has no target yet.
var ColorWhite = Color{1, 1, 1, 1}

// ColorFromNRGBA converts an 8-bit straight-alpha color to a Color.
func ColorFromNRGBA(c color.NRGBA) Color {
	return Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(c.A) / 255,
	}
}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// NRGBA converts c to an 8-bit straight-alpha color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R)*255 + 0.5),
		G: uint8(clamp01(c.G)*255 + 0.5),
		B: uint8(clamp01(c.B)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

// toRGBA converts c to a premultiplied color.Color for image fills and
// vector drawing.
func (c Color) toRGBA() colorRGBA {
	return colorRGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// colorRGBA implements the color.Color interface for premultiplied values.
type colorRGBA struct {
	R, G, B, A uint8
}

func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = uint32(c.A) * 0x101
	return
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Range is a general-purpose min/max range.
// Used by the particle pool for speeds, radii and jitter.
type Range struct {
	Min, Max float64
}

// Random returns a random float64 in [Min, Max). A nil rng uses the
// package-level generator.
func (r Range) Random(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	var f float64
	if rng != nil {
		f = rng.Float64()
	} else {
		f = rand.Float64()
	}
	return r.Min + f*(r.Max-r.Min)
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// MaxDeviceScale caps the device-pixel ratio used to size the surface.
const MaxDeviceScale = 2.0

// Surface describes the drawing surface in device pixels. Scale is the
// device-pixel ratio the surface was derived with; it scales the pointer
// repulsion radius.
type Surface struct {
	Width, Height int
	Scale         float64
}

// NewSurface derives a surface from a viewport size in logical pixels and a
// device-pixel ratio. The ratio is capped at MaxDeviceScale; non-positive
// ratios are treated as 1.
func NewSurface(viewW, viewH int, dpr float64) Surface {
	if dpr <= 0 || math.IsNaN(dpr) {
		dpr = 1
	}
	dpr = math.Min(dpr, MaxDeviceScale)
	return Surface{
		Width:  int(math.Floor(float64(viewW) * dpr)),
		Height: int(math.Floor(float64(viewH) * dpr)),
		Scale:  dpr,
	}
}

// Valid reports whether the surface has a positive area.
func (s Surface) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

// Center returns the surface center in pixels.
func (s Surface) Center() (float64, float64) {
	return float64(s.Width) / 2, float64(s.Height) / 2
}

// MaxDim returns the larger of the two surface dimensions.
func (s Surface) MaxDim() float64 {
	return float64(max(s.Width, s.Height))
}

// scale returns the device-pixel ratio, defaulting to 1.
func (s Surface) scale() float64 {
	if s.Scale <= 0 {
		return 1
	}
	return s.Scale
}

// EventType identifies a kind of input event dispatched by Input.
type EventType uint8

const (
	EventPointerDown EventType = iota // fires when the primary button is pressed
	EventPointerUp                    // fires when the primary button is released
	EventPointerMove                  // fires when the pointer position changes
	EventResize                       // fires when the surface size changes
)
