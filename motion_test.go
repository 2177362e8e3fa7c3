package glyphswarm

import (
	"math"
	"testing"
)

func TestAdvanceFixedPoint(t *testing.T) {
	p := Particle{X: 120, Y: 80, TX: 120, TY: 80, Speed: 0.04}
	ptr := Pointer{X: 900, Y: 900, Active: true}
	Advance(&p, ptr, 1, DefaultMotionConfig())
	assertNear(t, "X", p.X, 120)
	assertNear(t, "Y", p.Y, 80)
	assertNear(t, "VX", p.VX, 0)
	assertNear(t, "VY", p.VY, 0)
}

func TestAdvanceSpringThenDamping(t *testing.T) {
	p := Particle{X: 0, Y: 0, TX: 100, TY: -50, Speed: 0.05}
	Advance(&p, Pointer{}, 1, DefaultMotionConfig())
	assertNear(t, "VX", p.VX, 100*0.05*0.86)
	assertNear(t, "VY", p.VY, -50*0.05*0.86)
	assertNear(t, "X", p.X, 4.3)
	assertNear(t, "Y", p.Y, -2.15)
}

func TestAdvanceDampsVelocity(t *testing.T) {
	p := Particle{X: 10, Y: 10, VX: 10, VY: -5, TX: 10, TY: 10}
	Advance(&p, Pointer{}, 1, DefaultMotionConfig())
	assertNear(t, "VX", p.VX, 8.6)
	assertNear(t, "VY", p.VY, -4.3)
	assertNear(t, "X", p.X, 18.6)
}

func TestAdvanceSettles(t *testing.T) {
	p := Particle{X: 500, Y: -200, TX: 10, TY: 20, Speed: 0.03}
	cfg := DefaultMotionConfig()
	for i := 0; i < 2000; i++ {
		Advance(&p, Pointer{}, 1, cfg)
	}
	if math.Hypot(p.X-10, p.Y-20) > 1e-3 {
		t.Errorf("particle at (%v,%v), want settled at (10,20)", p.X, p.Y)
	}
}

func TestAdvanceRepelsFromPointer(t *testing.T) {
	p := Particle{X: 100, Y: 100, TX: 100, TY: 100, Speed: 0.04}
	ptr := Pointer{X: 90, Y: 100, Active: true}
	Advance(&p, ptr, 1, DefaultMotionConfig())
	if p.VX <= 0 {
		t.Errorf("VX = %v, want push away from pointer", p.VX)
	}
	assertNear(t, "VY", p.VY, 0)
	want := 10 * 0.08 * RepelFactor(100, 80) * 0.86
	assertNear(t, "VX", p.VX, want)
}

func TestAdvanceInactivePointer(t *testing.T) {
	p := Particle{X: 1, Y: 1, TX: 1, TY: 1}
	Advance(&p, Pointer{X: 0, Y: 0, Down: true}, 1, DefaultMotionConfig())
	assertNear(t, "VX", p.VX, 0)
	assertNear(t, "VY", p.VY, 0)
}

func TestAdvanceRadiusScales(t *testing.T) {
	tests := []struct {
		name  string
		scale float64
		repel bool
	}{
		{"1x outside", 1, false},
		{"2x inside", 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Particle{X: 100, Y: 0, TX: 100, TY: 0}
			Advance(&p, Pointer{Active: true}, tt.scale, DefaultMotionConfig())
			if got := p.VX > 0; got != tt.repel {
				t.Errorf("repelled = %v, want %v", got, tt.repel)
			}
		})
	}
}

func TestRepelFactor(t *testing.T) {
	const r = 80.0
	assertNear(t, "at pointer", RepelFactor(0, r), 1)
	assertNear(t, "at boundary", RepelFactor(r*r, r), 0)
	assertNear(t, "beyond", RepelFactor(r*r*4, r), 0)
	assertNear(t, "zero radius", RepelFactor(0, 0), 0)

	prev := math.Inf(1)
	for d := 0.0; d < r; d += 0.5 {
		f := RepelFactor(d*d, r)
		if f >= prev {
			t.Fatalf("factor at %v = %v, not below %v", d, f, prev)
		}
		if f <= 0 {
			t.Fatalf("factor at %v = %v inside radius", d, f)
		}
		prev = f
	}

	near := RepelFactor((r-1e-6)*(r-1e-6), r)
	if near > 1e-6 {
		t.Errorf("factor just inside boundary = %v, want continuous to 0", near)
	}
}

func TestRepelForceDecreasesTowardBoundary(t *testing.T) {
	cfg := DefaultMotionConfig()
	prev := math.Inf(1)
	for d := 1.0; d <= 80; d++ {
		p := Particle{X: d, TX: d}
		Advance(&p, Pointer{Active: true}, 1, cfg)
		force := p.VX / cfg.Damping / d
		if force >= prev && d < 80 {
			t.Fatalf("force per unit at %v = %v, not below %v", d, force, prev)
		}
		prev = force
	}
	assertNear(t, "force at boundary", prev, 0)
}
