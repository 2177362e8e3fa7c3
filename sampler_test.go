package glyphswarm

import (
	"errors"
	"image"
	"image/color"
	"math"
	"reflect"
	"testing"
)

func newTestSampler(t testing.TB, cfg SamplerConfig) *Sampler {
	t.Helper()
	s, err := NewSampler(cfg)
	if err != nil {
		t.Fatalf("NewSampler: %v", err)
	}
	return s
}

func TestSamplerDeterministicAcrossStrides(t *testing.T) {
	s := newTestSampler(t, DefaultSamplerConfig())
	surf := Surface{Width: 800, Height: 600, Scale: 1}
	for stride := 3; stride <= 10; stride++ {
		a, err := s.Compute(surf, stride, "♥")
		if err != nil {
			t.Fatalf("stride %d: %v", stride, err)
		}
		b, err := s.Compute(surf, stride, "♥")
		if err != nil {
			t.Fatalf("stride %d: %v", stride, err)
		}
		if len(a) == 0 {
			t.Fatalf("stride %d: no targets", stride)
		}
		if !reflect.DeepEqual(a, b) {
			t.Errorf("stride %d: recompute produced a different list", stride)
		}
	}
}

func TestSamplerRowMajorOrder(t *testing.T) {
	s := newTestSampler(t, DefaultSamplerConfig())
	targets, err := s.Compute(Surface{Width: 400, Height: 400}, 4, "♥")
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(targets); i++ {
		prev, cur := targets[i-1], targets[i]
		if cur.Y < prev.Y || (cur.Y == prev.Y && cur.X <= prev.X) {
			t.Fatalf("target %d (%v,%v) not after (%v,%v)", i, cur.X, cur.Y, prev.X, prev.Y)
		}
	}
}

func TestSamplerStrideControlsDensity(t *testing.T) {
	s := newTestSampler(t, DefaultSamplerConfig())
	surf := Surface{Width: 800, Height: 600}
	dense, _ := s.Compute(surf, 3, "♥")
	sparse, _ := s.Compute(surf, 10, "♥")
	if len(dense) <= len(sparse) {
		t.Errorf("stride 3 gave %d targets, stride 10 gave %d; want more at 3", len(dense), len(sparse))
	}
}

func TestSamplerTargetsCenteredInSurface(t *testing.T) {
	s := newTestSampler(t, DefaultSamplerConfig())
	surf := Surface{Width: 800, Height: 600}
	targets, err := s.Compute(surf, 5, "♥")
	if err != nil {
		t.Fatal(err)
	}
	size := float64(offscreenSize(surf, 0.08))
	minX := (800 - size) / 2
	minY := (600 - size) / 2
	var sumX float64
	for _, tg := range targets {
		if tg.X < minX || tg.X >= minX+size || tg.Y < minY || tg.Y >= minY+size {
			t.Fatalf("target (%v,%v) outside offscreen square", tg.X, tg.Y)
		}
		sumX += tg.X
	}
	meanX := sumX / float64(len(targets))
	if math.Abs(meanX-400) > size*0.1 {
		t.Errorf("mean X = %v, want near 400", meanX)
	}
}

func TestSamplerStrideGrid(t *testing.T) {
	s := newTestSampler(t, DefaultSamplerConfig())
	surf := Surface{Width: 500, Height: 500}
	targets, _ := s.Compute(surf, 7, "♥")
	off := (500 - float64(offscreenSize(surf, 0.08))) / 2
	for _, tg := range targets {
		if math.Mod(tg.X-off, 7) != 0 || math.Mod(tg.Y-off, 7) != 0 {
			t.Fatalf("target (%v,%v) not on the stride grid", tg.X, tg.Y)
		}
	}
}

func TestSamplerAlphaThreshold(t *testing.T) {
	tests := []struct {
		name  string
		alpha uint8
		want  bool
	}{
		{"below threshold", 20, false},
		{"at threshold", 30, false},
		{"opaque", 255, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSamplerConfig()
			cfg.Fill = image.NewUniform(color.NRGBA{R: 255, A: tt.alpha})
			s := newTestSampler(t, cfg)
			targets, err := s.Compute(Surface{Width: 200, Height: 200}, 3, "♥")
			if err != nil {
				t.Fatal(err)
			}
			if got := len(targets) > 0; got != tt.want {
				t.Errorf("got %d targets, want any=%v", len(targets), tt.want)
			}
		})
	}
}

func TestSamplerTargetColorFromPixel(t *testing.T) {
	cfg := DefaultSamplerConfig()
	cfg.Fill = image.NewUniform(color.NRGBA{R: 255, A: 255})
	s := newTestSampler(t, cfg)
	targets, _ := s.Compute(Surface{Width: 300, Height: 300}, 5, "♥")
	if len(targets) == 0 {
		t.Fatal("no targets")
	}
	for _, tg := range targets {
		if tg.Color.R < 0.9 || tg.Color.G > 0.1 || tg.Color.B > 0.1 {
			t.Fatalf("color = %+v, want red", tg.Color)
		}
		assertNear(t, "alpha", tg.Color.A, 1)
	}
}

func TestSamplerDefaultGradient(t *testing.T) {
	cfg := DefaultSamplerConfig()
	s := newTestSampler(t, cfg)
	targets, _ := s.Compute(Surface{Width: 400, Height: 400}, 4, "♥")
	if len(targets) < 2 {
		t.Fatal("too few targets")
	}
	top, bottom := targets[0], targets[len(targets)-1]
	if top.Color.G <= bottom.Color.G {
		t.Errorf("top G = %v, bottom G = %v; want lighter top", top.Color.G, bottom.Color.G)
	}
}

func TestSamplerErrors(t *testing.T) {
	s := newTestSampler(t, DefaultSamplerConfig())
	tests := []struct {
		name  string
		surf  Surface
		glyph string
		want  error
	}{
		{"zero width", Surface{Width: 0, Height: 600}, "♥", ErrEmptySurface},
		{"zero height", Surface{Width: 800, Height: 0}, "♥", ErrEmptySurface},
		{"empty glyph", Surface{Width: 800, Height: 600}, "", ErrEmptyGlyph},
		{"missing glyph", Surface{Width: 800, Height: 600}, "\U0001F600", ErrGlyphMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			targets, err := s.Compute(tt.surf, 5, tt.glyph)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if targets != nil {
				t.Errorf("targets = %d, want nil", len(targets))
			}
		})
	}
}

func TestSamplerStrideBelowOne(t *testing.T) {
	s := newTestSampler(t, DefaultSamplerConfig())
	surf := Surface{Width: 60, Height: 60}
	a, _ := s.Compute(surf, 0, "♥")
	b, _ := s.Compute(surf, 1, "♥")
	if !reflect.DeepEqual(a, b) {
		t.Error("stride 0 should behave as stride 1")
	}
}

func TestNewSamplerBadFont(t *testing.T) {
	_, err := NewSampler(SamplerConfig{FontData: []byte("not a font")})
	if err == nil {
		t.Fatal("expected parse error")
	}
}

func TestOffscreenSize(t *testing.T) {
	tests := []struct {
		surf Surface
		want int
	}{
		{Surface{Width: 800, Height: 600}, 552},
		{Surface{Width: 600, Height: 800}, 552},
		{Surface{Width: 1, Height: 1}, 1},
	}
	for _, tt := range tests {
		if got := offscreenSize(tt.surf, 0.08); got != tt.want {
			t.Errorf("offscreenSize(%v) = %d, want %d", tt.surf, got, tt.want)
		}
	}
}

func TestGradientAt(t *testing.T) {
	g := Gradient{Top: Color{1, 0, 0, 1}, Bottom: Color{0, 0, 1, 1}, Y0: 0, Y1: 10}
	if c := g.At(0, -5).(color.NRGBA); c.R != 255 || c.B != 0 {
		t.Errorf("above = %v, want top color", c)
	}
	if c := g.At(0, 20).(color.NRGBA); c.R != 0 || c.B != 255 {
		t.Errorf("below = %v, want bottom color", c)
	}
	if c := g.At(0, 5).(color.NRGBA); c.R != 128 || c.B != 128 {
		t.Errorf("middle = %v, want half blend", c)
	}
}

func BenchmarkSamplerCompute(b *testing.B) {
	s := newTestSampler(b, DefaultSamplerConfig())
	surf := Surface{Width: 800, Height: 600}
	for b.Loop() {
		_, _ = s.Compute(surf, 5, "♥")
	}
}
