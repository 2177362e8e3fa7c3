package glyphswarm

import (
	"errors"
	"io"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

var testSurface = Surface{Width: 800, Height: 600, Scale: 1}

type fakeKeys map[ebiten.Key]bool

func (k fakeKeys) JustPressed(key ebiten.Key) bool { return k[key] }

func newTestStage(t *testing.T) *Stage {
	t.Helper()
	SetLogOutput(io.Discard)
	t.Cleanup(func() { SetLogOutput(nil) })

	cfg := DefaultStageConfig()
	cfg.Sound = false
	cfg.Swarm.Seed = 11
	s, err := NewStage(cfg)
	if err != nil {
		t.Fatalf("NewStage: %v", err)
	}
	s.keys = fakeKeys{}
	return s
}

// mountAt mounts the stage and applies a layout, as the first frame does.
func mountAt(t *testing.T, s *Stage, surf Surface) {
	t.Helper()
	if err := s.Mount(); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	s.pendingSurf = surf
	s.beginFrame()
}

// pump consumes every queued synthetic event, one per frame.
func pump(s *Stage) {
	for s.in.processInjectedInput() {
	}
}

func TestStageStopIdempotent(t *testing.T) {
	s := newTestStage(t)
	mountAt(t, s, testSurface)
	if !s.Running() {
		t.Fatal("stage not running after Mount")
	}
	s.Stop()
	s.Stop()
	if !s.Stopped() {
		t.Fatal("stage not stopped")
	}
	if err := s.Update(); !errors.Is(err, ebiten.Termination) {
		t.Errorf("Update after Stop = %v, want Termination", err)
	}
}

func TestStageStopBeforeMount(t *testing.T) {
	s := newTestStage(t)
	s.Stop()
	if err := s.Mount(); !errors.Is(err, ErrStopped) {
		t.Errorf("Mount after Stop = %v, want ErrStopped", err)
	}
	if got := s.in.HandlerCount(); got != 0 {
		t.Errorf("HandlerCount = %d, want 0", got)
	}
}

func TestStageIdleUpdateDoesNothing(t *testing.T) {
	s := newTestStage(t)
	if err := s.Update(); err != nil {
		t.Fatalf("Update = %v", err)
	}
	if s.swarm.Pool().Len() != 0 {
		t.Error("idle stage should not sample")
	}
}

func TestStageMountTwice(t *testing.T) {
	s := newTestStage(t)
	mountAt(t, s, testSurface)
	if err := s.Mount(); err != nil {
		t.Fatalf("second Mount = %v", err)
	}
	if got := s.in.HandlerCount(); got != 4 {
		t.Errorf("HandlerCount = %d, want 4", got)
	}
}

func TestStageStopRemovesHandlers(t *testing.T) {
	s := newTestStage(t)
	mountAt(t, s, testSurface)
	if got := s.in.HandlerCount(); got != 4 {
		t.Fatalf("HandlerCount = %d, want 4", got)
	}
	n := s.swarm.Pool().Len()

	s.Stop()
	if got := s.in.HandlerCount(); got != 0 {
		t.Fatalf("HandlerCount after Stop = %d, want 0", got)
	}

	s.in.SetSurface(Surface{Width: 300, Height: 300, Scale: 1})
	s.in.InjectPress(600, 300)
	pump(s)
	if s.swarm.Surface() != testSurface {
		t.Error("resize handler fired after Stop")
	}
	if s.swarm.Scattered() {
		t.Error("pointer handler fired after Stop")
	}
	if s.swarm.Pool().Len() != n {
		t.Error("pool changed after Stop")
	}
}

func TestStageResizeRecomputes(t *testing.T) {
	s := newTestStage(t)
	mountAt(t, s, testSurface)
	n := len(s.swarm.Targets())
	if n == 0 || s.swarm.Pool().Len() != n {
		t.Fatalf("targets = %d, pool = %d", n, s.swarm.Pool().Len())
	}

	s.pendingSurf = Surface{Width: 400, Height: 400, Scale: 1}
	s.beginFrame()
	if s.swarm.Surface().Width != 400 {
		t.Fatal("swarm surface not updated")
	}
	if s.swarm.Pool().Len() != len(s.swarm.Targets()) {
		t.Error("pool does not match targets after resize")
	}
	if len(s.swarm.Targets()) >= n {
		t.Error("smaller surface should yield fewer targets")
	}
}

func TestStagePressScattersReleaseAssembles(t *testing.T) {
	s := newTestStage(t)
	mountAt(t, s, testSurface)

	var downs, ups int
	s.in.OnPointerDown(func(PointerContext) { downs++ })
	s.in.OnPointerUp(func(PointerContext) { ups++ })

	s.in.InjectPress(600, 300)
	pump(s)
	if !s.swarm.Scattered() {
		t.Fatal("press did not scatter")
	}
	s.in.InjectRelease(600, 300)
	pump(s)
	if s.swarm.Scattered() {
		t.Fatal("release did not assemble")
	}
	if downs != 1 || ups != 1 {
		t.Errorf("downs = %d, ups = %d, want 1 and 1", downs, ups)
	}
	for i, p := range s.swarm.Pool().Particles() {
		tg := s.swarm.Targets()[i]
		if p.TX != tg.X || p.TY != tg.Y {
			t.Fatalf("particle %d not reassigned to its target", i)
		}
	}
}

func TestStageControlsConsumePress(t *testing.T) {
	s := newTestStage(t)
	mountAt(t, s, testSurface)

	b := s.controls.Scatter.rect
	cx, cy := b.X+b.Width/2, b.Y+b.Height/2
	s.in.InjectPress(cx, cy)
	pump(s)
	if s.swarm.Scattered() {
		t.Fatal("press on the panel reached the swarm")
	}
	s.in.InjectRelease(cx, cy)
	pump(s)
	if !s.swarm.Scattered() {
		t.Fatal("Scatter button did not scatter on release")
	}
}

func TestStageStrideSliderRecomputes(t *testing.T) {
	s := newTestStage(t)
	mountAt(t, s, testSurface)

	tr := s.controls.Stride.track
	y := tr.Y + tr.Height/2
	s.in.InjectDrag(tr.X+tr.Width/2, y, tr.X+tr.Width, y, 4)
	pump(s)
	if got := s.swarm.Stride(); got != s.swarm.Config().MaxStride {
		t.Fatalf("stride = %d, want %d", got, s.swarm.Config().MaxStride)
	}
	if s.swarm.Pool().Len() != len(s.swarm.Targets()) {
		t.Error("pool does not match targets after stride change")
	}
	if s.swarm.Scattered() {
		t.Error("slider drag scattered the swarm")
	}
}

func TestStageKeys(t *testing.T) {
	tests := []struct {
		name  string
		key   ebiten.Key
		check func(t *testing.T, s *Stage)
	}{
		{"scatter", ebiten.KeyS, func(t *testing.T, s *Stage) {
			if !s.swarm.Scattered() {
				t.Error("not scattered")
			}
		}},
		{"stride up", ebiten.KeyEqual, func(t *testing.T, s *Stage) {
			if s.swarm.Stride() != 6 {
				t.Errorf("stride = %d, want 6", s.swarm.Stride())
			}
			if s.controls.Stride.Value != 6 {
				t.Errorf("slider = %v, want 6", s.controls.Stride.Value)
			}
		}},
		{"stride down", ebiten.KeyMinus, func(t *testing.T, s *Stage) {
			if s.swarm.Stride() != 4 {
				t.Errorf("stride = %d, want 4", s.swarm.Stride())
			}
		}},
		{"size up", ebiten.KeyBracketRight, func(t *testing.T, s *Stage) {
			assertNear(t, "dot size", s.swarm.DotSize(), 2.5)
		}},
		{"size down", ebiten.KeyBracketLeft, func(t *testing.T, s *Stage) {
			assertNear(t, "dot size", s.swarm.DotSize(), 1.5)
		}},
		{"hud", ebiten.KeyF3, func(t *testing.T, s *Stage) {
			if !s.hud.Visible {
				t.Error("HUD not shown")
			}
		}},
		{"controls", ebiten.KeyH, func(t *testing.T, s *Stage) {
			if s.controls.Visible {
				t.Error("controls not hidden")
			}
		}},
		{"screenshot", ebiten.KeyF12, func(t *testing.T, s *Stage) {
			if len(s.screenshots.labels) != 1 {
				t.Errorf("queued = %d, want 1", len(s.screenshots.labels))
			}
		}},
		{"escape", ebiten.KeyEscape, func(t *testing.T, s *Stage) {
			if !s.Stopped() {
				t.Error("Esc did not stop the stage")
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStage(t)
			mountAt(t, s, testSurface)
			s.keys = fakeKeys{tt.key: true}
			s.handleKeys()
			tt.check(t, s)
		})
	}
}

func TestStageScriptDrivesStage(t *testing.T) {
	s := newTestStage(t)
	runner, err := LoadTestScript([]byte(`{"steps":[
		{"action":"scatter"},
		{"action":"stride","value":8},
		{"action":"size","value":3},
		{"action":"screenshot","label":"after"},
		{"action":"assemble"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	mountAt(t, s, testSurface)
	s.SetTestRunner(runner)

	s.beginFrame()
	if !s.swarm.Scattered() {
		t.Fatal("first frame did not scatter")
	}
	for i := 0; i < 4; i++ {
		s.beginFrame()
	}
	if !runner.Done() {
		t.Fatal("runner not done")
	}
	if s.swarm.Stride() != 8 {
		t.Errorf("stride = %d, want 8", s.swarm.Stride())
	}
	assertNear(t, "dot size", s.swarm.DotSize(), 3)
	if s.swarm.Scattered() {
		t.Error("script did not assemble")
	}
	if len(s.screenshots.labels) != 1 || s.screenshots.labels[0] != "after" {
		t.Errorf("screenshots = %v", s.screenshots.labels)
	}
}

func TestStageAdvanceEasesRadius(t *testing.T) {
	s := newTestStage(t)
	mountAt(t, s, testSurface)
	s.SetDotSize(4)

	prev := s.radius.value()
	s.advance(1.0 / 60)
	if s.radius.value() <= prev {
		t.Fatalf("radius did not move toward 4: %v", s.radius.value())
	}
	for i := 0; i < 240; i++ {
		s.advance(1.0 / 60)
	}
	if d := s.radius.value() - 4; d > 0.01 || d < -0.01 {
		t.Errorf("radius = %v, want ~4", s.radius.value())
	}
	if s.elapsed <= 4 {
		t.Errorf("elapsed = %v, want > 4", s.elapsed)
	}
}
