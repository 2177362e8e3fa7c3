package glyphswarm

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

var (
	// ErrEmptySurface is returned when sampling against a zero-sized surface.
	ErrEmptySurface = errors.New("glyphswarm: surface has no area")
	// ErrEmptyGlyph is returned when the glyph string is empty.
	ErrEmptyGlyph = errors.New("glyphswarm: empty glyph")
	// ErrGlyphMissing is returned when the font has no outline for a rune.
	ErrGlyphMissing = errors.New("glyphswarm: glyph not in font")
)

// Target is one sampled point of the rendered glyph, in surface pixels.
type Target struct {
	X, Y  float64
	Color Color
}

// SamplerConfig controls how glyphs are rasterised and sampled.
type SamplerConfig struct {
	// FontData is TTF/OTF data used to rasterise glyphs. Nil selects Go Bold.
	FontData []byte
	// Margin is the fraction of min(width, height) left empty around the glyph.
	Margin float64
	// FontScale is the font size relative to the offscreen square.
	FontScale float64
	// AlphaThreshold is the exclusive alpha cutoff: a cell becomes a Target
	// only when its alpha is strictly greater.
	AlphaThreshold uint8
	// Fill paints the glyph. Nil selects a Gradient spanning the glyph's ink
	// from GradientTop to GradientBottom.
	Fill image.Image
	// GradientTop and GradientBottom are the default fill's end colors.
	GradientTop    Color
	GradientBottom Color
}

// DefaultSamplerConfig returns the sampler settings used by DefaultConfig.
func DefaultSamplerConfig() SamplerConfig {
	return SamplerConfig{
		Margin:         0.08,
		FontScale:      0.88,
		AlphaThreshold: 30,
		GradientTop:    Color{R: 1, G: 0.58, B: 0.72, A: 1},
		GradientBottom: Color{R: 0.86, G: 0.08, B: 0.24, A: 1},
	}
}

// Sampler renders glyphs offscreen and converts their pixels into Targets.
// The font is parsed once; faces are created per call since the size
// follows the surface.
type Sampler struct {
	cfg  SamplerConfig
	font *opentype.Font
	buf  sfnt.Buffer
}

// NewSampler parses the configured font and returns a Sampler.
func NewSampler(cfg SamplerConfig) (*Sampler, error) {
	data := cfg.FontData
	if data == nil {
		data = gobold.TTF
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("glyphswarm: parse font: %w", err)
	}
	if cfg.FontScale <= 0 {
		cfg.FontScale = 0.88
	}
	return &Sampler{cfg: cfg, font: f}, nil
}

// Compute rasterises glyph into a square sized from surf, scans it every
// stride pixels along both axes, and returns the cells whose alpha exceeds
// the threshold in row-major order. Positions are translated so the square is
// centered on the surface. The result depends only on the inputs.
func (s *Sampler) Compute(surf Surface, stride int, glyph string) ([]Target, error) {
	if !surf.Valid() {
		return nil, ErrEmptySurface
	}
	if stride < 1 {
		stride = 1
	}
	img, err := s.Rasterize(offscreenSize(surf, s.cfg.Margin), glyph)
	if err != nil {
		return nil, err
	}
	return scanTargets(img, surf, stride, s.cfg.AlphaThreshold), nil
}

// offscreenSize returns the side of the margin-reduced square bounded by
// the smaller surface dimension.
func offscreenSize(surf Surface, margin float64) int {
	size := int(math.Floor(float64(min(surf.Width, surf.Height)) * (1 - margin)))
	return max(size, 1)
}

// Rasterize draws glyph, bold and centered, into a transparent size×size
// image.
func (s *Sampler) Rasterize(size int, glyph string) (*image.NRGBA, error) {
	if glyph == "" {
		return nil, ErrEmptyGlyph
	}
	for _, r := range glyph {
		idx, err := s.font.GlyphIndex(&s.buf, r)
		if err != nil || idx == 0 {
			return nil, fmt.Errorf("%w: %q", ErrGlyphMissing, r)
		}
	}

	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	px := math.Floor(float64(size) * s.cfg.FontScale)
	if px < 1 {
		return img, nil
	}
	face, err := opentype.NewFace(s.font, &opentype.FaceOptions{
		Size:    px,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("glyphswarm: create face: %w", err)
	}
	defer face.Close()

	// Center the ink box rather than the advance box so that glyphs with
	// large side bearings still land in the middle.
	ink, _ := font.BoundString(face, glyph)
	half := fixed.I(size) / 2
	dot := fixed.Point26_6{
		X: half - (ink.Min.X+ink.Max.X)/2,
		Y: half - (ink.Min.Y+ink.Max.Y)/2,
	}

	fill := s.cfg.Fill
	if fill == nil {
		fill = Gradient{
			Top:    s.cfg.GradientTop,
			Bottom: s.cfg.GradientBottom,
			Y0:     (dot.Y + ink.Min.Y).Floor(),
			Y1:     (dot.Y + ink.Max.Y).Ceil(),
		}
	}

	d := font.Drawer{Dst: img, Src: fill, Face: face, Dot: dot}
	d.DrawString(glyph)
	return img, nil
}

// scanTargets samples img every stride pixels and converts opaque enough
// cells to Targets centered on surf.
func scanTargets(img *image.NRGBA, surf Surface, stride int, threshold uint8) []Target {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	offX := float64(surf.Width-w) / 2
	offY := float64(surf.Height-h) / 2

	cols := (w + stride - 1) / stride
	rows := (h + stride - 1) / stride
	targets := make([]Target, 0, cols*rows/3)
	for y := 0; y < h; y += stride {
		for x := 0; x < w; x += stride {
			i := img.PixOffset(x, y)
			if img.Pix[i+3] <= threshold {
				continue
			}
			targets = append(targets, Target{
				X: offX + float64(x),
				Y: offY + float64(y),
				Color: Color{
					R: float64(img.Pix[i]) / 255,
					G: float64(img.Pix[i+1]) / 255,
					B: float64(img.Pix[i+2]) / 255,
					A: 1,
				},
			})
		}
	}
	return targets
}

// Gradient is a vertical two-stop color ramp usable as a draw source. Rows
// above Y0 take Top, rows below Y1 take Bottom.
type Gradient struct {
	Top, Bottom Color
	Y0, Y1      int
}

// ColorModel implements image.Image.
func (g Gradient) ColorModel() color.Model { return color.NRGBAModel }

// Bounds implements image.Image. The gradient is unbounded.
func (g Gradient) Bounds() image.Rectangle {
	return image.Rect(-1<<20, -1<<20, 1<<20, 1<<20)
}

// At implements image.Image.
func (g Gradient) At(_, y int) color.Color {
	t := 0.0
	if g.Y1 > g.Y0 {
		t = clamp01(float64(y-g.Y0) / float64(g.Y1-g.Y0))
	}
	return Color{
		R: lerp(g.Top.R, g.Bottom.R, t),
		G: lerp(g.Top.G, g.Bottom.G, t),
		B: lerp(g.Top.B, g.Bottom.B, t),
		A: lerp(g.Top.A, g.Bottom.A, t),
	}.NRGBA()
}

// lerp linearly interpolates between a and b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
