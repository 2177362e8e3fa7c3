package glyphswarm

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Config holds the simulation settings of a Swarm.
type Config struct {
	// Glyph is the text sampled into targets.
	Glyph string
	// Stride is the sampling step in pixels. Clamped to [MinStride, MaxStride].
	Stride               int
	MinStride, MaxStride int
	// DotSize is the particle draw radius. Clamped to [MinDotSize, MaxDotSize]
	// and snapped to DotSizeStep.
	DotSize                float64
	MinDotSize, MaxDotSize float64
	DotSizeStep            float64

	Sampler SamplerConfig
	Pool    PoolConfig
	Motion  MotionConfig

	// Seed seeds the pool's random source. Zero uses the package-level
	// generator.
	Seed uint64
}

// DefaultConfig returns a Config that draws a heart.
func DefaultConfig() Config {
	return Config{
		Glyph:       "♥",
		Stride:      5,
		MinStride:   3,
		MaxStride:   10,
		DotSize:     2,
		MinDotSize:  1,
		MaxDotSize:  4,
		DotSizeStep: 0.5,
		Sampler:     DefaultSamplerConfig(),
		Pool:        DefaultPoolConfig(),
		Motion:      DefaultMotionConfig(),
	}
}

// Swarm is the simulation context: the current Target list, the particle
// pool, the pointer and the tunables. It is owned by one frontend and is not
// safe for concurrent use.
type Swarm struct {
	config  Config
	sampler *Sampler
	pool    *Pool
	surface Surface
	targets []Target
	pointer Pointer

	scattered bool
}

// NewSwarm creates a Swarm. Targets are computed on the first Resize.
func NewSwarm(cfg Config) (*Swarm, error) {
	sampler, err := NewSampler(cfg.Sampler)
	if err != nil {
		return nil, err
	}
	var rng *rand.Rand
	if cfg.Seed != 0 {
		rng = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	}
	s := &Swarm{
		config:  cfg,
		sampler: sampler,
		pool:    NewPool(cfg.Pool, rng),
	}
	s.config.Stride = s.clampStride(cfg.Stride)
	s.config.DotSize = s.clampDotSize(cfg.DotSize)
	return s, nil
}

// Resize sets the surface and recomputes targets, placing every particle
// near its new target.
func (s *Swarm) Resize(surf Surface) error {
	s.surface = surf
	return s.Recompute(true)
}

// SetStride changes the sampling step and reassembles on the new targets.
// It reports whether the stride changed.
func (s *Swarm) SetStride(stride int) (bool, error) {
	stride = s.clampStride(stride)
	if stride == s.config.Stride {
		return false, nil
	}
	s.config.Stride = stride
	return true, s.Recompute(false)
}

// SetGlyph changes the sampled text and reassembles on the new targets. On
// error the previous glyph and targets are kept.
func (s *Swarm) SetGlyph(glyph string) error {
	prev := s.config.Glyph
	s.config.Glyph = glyph
	if err := s.Recompute(false); err != nil {
		s.config.Glyph = prev
		return err
	}
	return nil
}

// SetDotSize sets the draw radius. It does not affect the simulation.
func (s *Swarm) SetDotSize(r float64) {
	s.config.DotSize = s.clampDotSize(r)
}

// Recompute samples the glyph against the current surface, resizes the pool
// to the target count and assigns targets by index. On error the previous
// targets and pool are left as they were.
func (s *Swarm) Recompute(jump bool) error {
	targets, err := s.sampler.Compute(s.surface, s.config.Stride, s.config.Glyph)
	if err != nil {
		return fmt.Errorf("recompute targets: %w", err)
	}
	s.targets = targets
	s.pool.Resize(len(targets), s.surface)
	s.pool.AssignTargets(targets, jump)
	s.scattered = false
	return nil
}

// Scatter sends every particle to a random far point. The Target list is not
// modified.
func (s *Swarm) Scatter() {
	if !s.surface.Valid() {
		return
	}
	s.pool.Scatter(s.surface)
	s.scattered = true
}

// Assemble reassigns the last computed targets without jumping.
func (s *Swarm) Assemble() {
	s.pool.AssignTargets(s.targets, false)
	s.scattered = false
}

// PointerMove records the pointer position and marks it active.
func (s *Swarm) PointerMove(x, y float64) {
	s.pointer.X, s.pointer.Y = x, y
	s.pointer.Active = true
}

// PointerDown records a press and scatters.
func (s *Swarm) PointerDown(x, y float64) {
	s.PointerMove(x, y)
	s.pointer.Down = true
	s.Scatter()
}

// PointerUp records a release and assembles.
func (s *Swarm) PointerUp(x, y float64) {
	s.PointerMove(x, y)
	s.pointer.Down = false
	s.Assemble()
}

// Step advances every particle one frame. It does nothing on an invalid
// surface.
func (s *Swarm) Step() {
	if !s.surface.Valid() {
		return
	}
	scale := s.surface.scale()
	ps := s.pool.Particles()
	for i := range ps {
		Advance(&ps[i], s.pointer, scale, s.config.Motion)
	}
}

// Targets returns the last computed Target list. It must not be modified.
func (s *Swarm) Targets() []Target { return s.targets }

// Pool returns the particle pool.
func (s *Swarm) Pool() *Pool { return s.pool }

// Pointer returns the current pointer state.
func (s *Swarm) Pointer() Pointer { return s.pointer }

// Surface returns the current surface.
func (s *Swarm) Surface() Surface { return s.surface }

// Stride returns the sampling step.
func (s *Swarm) Stride() int { return s.config.Stride }

// DotSize returns the draw radius.
func (s *Swarm) DotSize() float64 { return s.config.DotSize }

// Glyph returns the sampled text.
func (s *Swarm) Glyph() string { return s.config.Glyph }

// Scattered reports whether the particles are seeking scatter targets.
func (s *Swarm) Scattered() bool { return s.scattered }

// Config returns a copy of the current settings.
func (s *Swarm) Config() Config { return s.config }

func (s *Swarm) clampStride(stride int) int {
	lo, hi := s.config.MinStride, s.config.MaxStride
	if lo < 1 {
		lo = 1
	}
	if hi <= 0 {
		hi = max(stride, lo)
	}
	return min(max(stride, lo), max(hi, lo))
}

func (s *Swarm) clampDotSize(r float64) float64 {
	lo, hi := s.config.MinDotSize, s.config.MaxDotSize
	if lo <= 0 {
		lo = 1
	}
	if hi <= 0 {
		hi = math.Max(r, lo)
	}
	if step := s.config.DotSizeStep; step > 0 {
		r = math.Round(r/step) * step
	}
	return math.Min(math.Max(r, lo), math.Max(hi, lo))
}
