package glyphswarm

import "testing"

func TestInjectClick(t *testing.T) {
	in := NewInput()
	var downs, ups int
	in.OnPointerDown(func(PointerContext) { downs++ })
	in.OnPointerUp(func(PointerContext) { ups++ })

	in.InjectClick(50, 50)
	if in.Pending() != 2 {
		t.Fatalf("expected 2 queued events, got %d", in.Pending())
	}

	// Frame 1: press
	in.processInjectedInput()
	if downs != 1 || ups != 0 {
		t.Fatalf("after frame 1: downs = %d, ups = %d", downs, ups)
	}

	// Frame 2: release
	in.processInjectedInput()
	if downs != 1 || ups != 1 {
		t.Fatalf("after frame 2: downs = %d, ups = %d", downs, ups)
	}
	if in.Pending() != 0 {
		t.Errorf("expected empty queue, got %d", in.Pending())
	}
}

func TestInjectDrag(t *testing.T) {
	in := NewInput()
	var xs []float64
	in.OnPointerMove(func(ctx PointerContext) {
		if ctx.Down {
			xs = append(xs, ctx.X)
		}
	})

	// frame 0: press at 10, frames 1-3: moves, frame 4: release at 210
	in.InjectDrag(10, 10, 210, 10, 5)
	if in.Pending() != 5 {
		t.Fatalf("expected 5 queued events, got %d", in.Pending())
	}
	for in.processInjectedInput() {
	}

	want := []float64{60, 110, 160, 210}
	if len(xs) != len(want) {
		t.Fatalf("held moves = %v, want %v", xs, want)
	}
	for i := range want {
		assertNear(t, "x", xs[i], want[i])
	}
	if in.Down() {
		t.Error("drag should end released")
	}
}

func TestInjectDrag_MinFrames(t *testing.T) {
	in := NewInput()
	in.InjectDrag(0, 0, 100, 100, 0)
	if in.Pending() != 2 {
		t.Errorf("expected 2 events for minimum drag, got %d", in.Pending())
	}
}

func TestInjectHoverKeepsButtonUp(t *testing.T) {
	in := NewInput()
	downs := 0
	in.OnPointerDown(func(PointerContext) { downs++ })
	in.InjectHover(5, 5)
	in.processInjectedInput()
	if downs != 0 || in.Down() {
		t.Error("hover should not press")
	}
	x, y, ok := in.Position()
	if !ok || x != 5 || y != 5 {
		t.Errorf("Position() = %v, %v, %v", x, y, ok)
	}
}

func TestProcessInjectedInput_EmptyQueue(t *testing.T) {
	in := NewInput()
	if in.processInjectedInput() {
		t.Error("empty queue should report no event")
	}
}
