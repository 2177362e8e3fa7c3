package glyphswarm

import "github.com/charmbracelet/harmonica"

// springValue eases one value toward a moving target with a damped spring.
type springValue struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
}

func newSpringValue(fps int, frequency, damping, start float64) springValue {
	return springValue{
		spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping),
		pos:    start,
	}
}

// step advances one frame toward target and returns the new value.
func (s *springValue) step(target float64) float64 {
	s.pos, s.vel = s.spring.Update(s.pos, s.vel, target)
	return s.pos
}

// value returns the current value.
func (s *springValue) value() float64 {
	return s.pos
}
