package glyphswarm

import (
	"math"
	"math/rand/v2"
)

// Particle holds per-particle simulation state. Positions and targets are in
// surface pixels; velocity is a per-frame displacement.
type Particle struct {
	X, Y   float64
	VX, VY float64
	TX, TY float64
	Color  Color
	// Speed is the seek-rate coefficient of the spring toward (TX, TY).
	Speed float64
}

// PoolConfig controls how particles are spawned, assigned and scattered.
type PoolConfig struct {
	// SpawnRadius is the ring radius new particles appear on, relative to the
	// larger surface dimension.
	SpawnRadius float64
	// SpawnJitter is the maximum offset in pixels added to each spawn axis.
	SpawnJitter float64
	// JumpJitter bounds the per-axis offset from the target after a jump
	// assignment.
	JumpJitter float64
	// SpawnSpeed is the seek-rate range given to newly spawned particles.
	SpawnSpeed Range
	// AssignSpeed is the seek-rate range drawn on every target assignment.
	AssignSpeed Range
	// ScatterSpeed is the seek-rate range drawn on scatter.
	ScatterSpeed Range
	// ScatterRadius is the scatter distance range relative to the larger
	// surface dimension.
	ScatterRadius Range
	// DefaultColor is the color of a particle that has no target yet.
	DefaultColor Color
}

// DefaultPoolConfig returns the pool settings used by DefaultConfig.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		SpawnRadius:   0.7,
		SpawnJitter:   40,
		JumpJitter:    40,
		SpawnSpeed:    Range{0.02, 0.06},
		AssignSpeed:   Range{0.018, 0.055},
		ScatterSpeed:  Range{0.02, 0.07},
		ScatterRadius: Range{0.5, 1.1},
		DefaultColor:  ColorWhite,
	}
}

// Pool is a resizable, index-addressed collection of particles. Particle i
// is always paired with Target i on assignment.
type Pool struct {
	config    PoolConfig
	particles []Particle
	rng       *rand.Rand
}

// NewPool creates an empty pool. A nil rng uses the package-level generator.
func NewPool(cfg PoolConfig, rng *rand.Rand) *Pool {
	return &Pool{config: cfg, rng: rng}
}

// Config returns a pointer to the pool's config for live tuning.
func (p *Pool) Config() *PoolConfig {
	return &p.config
}

// Len returns the number of particles.
func (p *Pool) Len() int {
	return len(p.particles)
}

// Particles returns the backing slice. Callers may mutate elements but must
// not append to it.
func (p *Pool) Particles() []Particle {
	return p.particles
}

// At returns a pointer to particle i.
func (p *Pool) At(i int) *Particle {
	return &p.particles[i]
}

// Resize grows or truncates the pool to exactly n particles. New particles
// start on a ring around the surface center, at rest, seeking their own
// position. Truncation discards particles from the end.
func (p *Pool) Resize(n int, surf Surface) {
	n = max(n, 0)
	if n <= len(p.particles) {
		clear(p.particles[n:])
		p.particles = p.particles[:n]
		return
	}

	cx, cy := surf.Center()
	radius := p.config.SpawnRadius * surf.MaxDim()
	jitter := Range{-p.config.SpawnJitter, p.config.SpawnJitter}
	p.particles = growParticles(p.particles, n)
	for i := len(p.particles); i < n; i++ {
		angle := p.float() * 2 * math.Pi
		x := cx + math.Cos(angle)*radius + jitter.Random(p.rng)
		y := cy + math.Sin(angle)*radius + jitter.Random(p.rng)
		p.particles = append(p.particles, Particle{
			X: x, Y: y,
			TX: x, TY: y,
			Color: p.config.DefaultColor,
			Speed: p.config.SpawnSpeed.Random(p.rng),
		})
	}
}

// growParticles returns s with capacity for at least n elements.
func growParticles(s []Particle, n int) []Particle {
	if cap(s) >= n {
		return s
	}
	grown := make([]Particle, len(s), n)
	copy(grown, s)
	return grown
}

// AssignTargets pairs particle i with targets[i] for every index both slices
// share, copying the target color and drawing a fresh speed. With jump set,
// each particle is also placed within JumpJitter of its target on both axes;
// velocity is left as is.
func (p *Pool) AssignTargets(targets []Target, jump bool) {
	n := min(len(p.particles), len(targets))
	jitter := Range{-p.config.JumpJitter, p.config.JumpJitter}
	for i := range n {
		pt := &p.particles[i]
		t := targets[i]
		pt.TX, pt.TY = t.X, t.Y
		pt.Color = t.Color
		pt.Speed = p.config.AssignSpeed.Random(p.rng)
		if jump {
			pt.X = t.X + jitter.Random(p.rng)
			pt.Y = t.Y + jitter.Random(p.rng)
		}
	}
}

// Scatter sends every particle toward a random point around the surface
// center. Colors and any Target list held by the caller are untouched.
func (p *Pool) Scatter(surf Surface) {
	cx, cy := surf.Center()
	dim := surf.MaxDim()
	for i := range p.particles {
		pt := &p.particles[i]
		angle := p.float() * 2 * math.Pi
		r := p.config.ScatterRadius.Random(p.rng) * dim
		pt.TX = cx + math.Cos(angle)*r
		pt.TY = cy + math.Sin(angle)*r
		pt.Speed = p.config.ScatterSpeed.Random(p.rng)
	}
}

func (p *Pool) float() float64 {
	if p.rng != nil {
		return p.rng.Float64()
	}
	return rand.Float64()
}
