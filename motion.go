package glyphswarm

// MotionConfig holds the integrator constants.
type MotionConfig struct {
	// RepelRadius is the pointer repulsion radius in logical pixels. It is
	// multiplied by the surface scale before use.
	RepelRadius float64
	// RepelStrength scales the displacement from the pointer at zero distance.
	RepelStrength float64
	// Damping multiplies velocity once per step after both forces.
	Damping float64
}

// DefaultMotionConfig returns the integrator settings used by DefaultConfig.
func DefaultMotionConfig() MotionConfig {
	return MotionConfig{
		RepelRadius:   80,
		RepelStrength: 0.08,
		Damping:       0.86,
	}
}

// Pointer is the most recent pointer state in surface pixels. Active is false
// until the pointer has moved over the surface at least once.
type Pointer struct {
	X, Y   float64
	Down   bool
	Active bool
}

// Advance moves p one frame: a spring toward its target, repulsion away from
// an active pointer within the scaled radius, damping, then integration.
func Advance(p *Particle, ptr Pointer, scale float64, cfg MotionConfig) {
	p.VX += (p.TX - p.X) * p.Speed
	p.VY += (p.TY - p.Y) * p.Speed

	if ptr.Active {
		dx := p.X - ptr.X
		dy := p.Y - ptr.Y
		r := cfg.RepelRadius * scale
		if f := RepelFactor(dx*dx+dy*dy, r); f > 0 {
			k := cfg.RepelStrength * f
			p.VX += dx * k
			p.VY += dy * k
		}
	}

	p.VX *= cfg.Damping
	p.VY *= cfg.Damping
	p.X += p.VX
	p.Y += p.VY
}

// RepelFactor returns the repulsion falloff (R²-d²)/R² for a squared distance
// dist2 and radius. It is 1 at the pointer, decreases continuously and is 0
// at and beyond the radius.
func RepelFactor(dist2, radius float64) float64 {
	r2 := radius * radius
	if r2 <= 0 || dist2 >= r2 {
		return 0
	}
	return (r2 - dist2) / r2
}
