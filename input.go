package glyphswarm

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// PointerContext carries the data of a pointer event. Coordinates are in
// surface pixels.
type PointerContext struct {
	X, Y float64
	// Down is the button state after the event.
	Down bool
	// Touch is true when the event came from a touch screen.
	Touch bool
}

// --- Handler registry ---

type pointerHandler struct {
	id uint32
	fn func(PointerContext)
}

type resizeHandler struct {
	id uint32
	fn func(Surface)
}

type handlerRegistry struct {
	pointerDown []pointerHandler
	pointerUp   []pointerHandler
	pointerMove []pointerHandler
	resize      []resizeHandler
	nextID      uint32
}

// count returns the number of registered handlers of every kind.
func (r *handlerRegistry) count() int {
	return len(r.pointerDown) + len(r.pointerUp) + len(r.pointerMove) + len(r.resize)
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires. Removing twice, or
// removing a zero handle, is a no-op.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventPointerDown:
		h.reg.pointerDown = removePointerHandler(h.reg.pointerDown, h.id)
	case EventPointerUp:
		h.reg.pointerUp = removePointerHandler(h.reg.pointerUp, h.id)
	case EventPointerMove:
		h.reg.pointerMove = removePointerHandler(h.reg.pointerMove, h.id)
	case EventResize:
		h.reg.resize = removeResizeHandler(h.reg.resize, h.id)
	}
}

func removePointerHandler(s []pointerHandler, id uint32) []pointerHandler {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = pointerHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}

func removeResizeHandler(s []resizeHandler, id uint32) []resizeHandler {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = resizeHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}

// Input turns raw pointer samples into down/up/move edge events and surface
// changes into resize events. Samples come from Ebitengine polling or from
// the injection queue; both feed the same state machine.
type Input struct {
	handlers    handlerRegistry
	injectQueue []syntheticPointerEvent

	down         bool
	seen         bool
	lastX, lastY float64
	surface      Surface

	touchIDs []ebiten.TouchID
	touch    ebiten.TouchID
	touching bool
}

// NewInput creates an Input with no handlers.
func NewInput() *Input {
	return &Input{}
}

// OnPointerDown registers a callback for primary button presses.
func (in *Input) OnPointerDown(fn func(PointerContext)) CallbackHandle {
	in.handlers.nextID++
	id := in.handlers.nextID
	in.handlers.pointerDown = append(in.handlers.pointerDown, pointerHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &in.handlers, event: EventPointerDown}
}

// OnPointerUp registers a callback for primary button releases.
func (in *Input) OnPointerUp(fn func(PointerContext)) CallbackHandle {
	in.handlers.nextID++
	id := in.handlers.nextID
	in.handlers.pointerUp = append(in.handlers.pointerUp, pointerHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &in.handlers, event: EventPointerUp}
}

// OnPointerMove registers a callback for pointer position changes, with or
// without the button held.
func (in *Input) OnPointerMove(fn func(PointerContext)) CallbackHandle {
	in.handlers.nextID++
	id := in.handlers.nextID
	in.handlers.pointerMove = append(in.handlers.pointerMove, pointerHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &in.handlers, event: EventPointerMove}
}

// OnResize registers a callback for surface size changes.
func (in *Input) OnResize(fn func(Surface)) CallbackHandle {
	in.handlers.nextID++
	id := in.handlers.nextID
	in.handlers.resize = append(in.handlers.resize, resizeHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &in.handlers, event: EventResize}
}

// HandlerCount returns the number of registered callbacks.
func (in *Input) HandlerCount() int {
	return in.handlers.count()
}

// Surface returns the last surface passed to SetSurface.
func (in *Input) Surface() Surface {
	return in.surface
}

// SetSurface records the current surface and fires resize handlers when it
// differs from the previous one.
func (in *Input) SetSurface(surf Surface) {
	if surf == in.surface {
		return
	}
	in.surface = surf
	for _, h := range in.handlers.resize {
		h.fn(surf)
	}
}

// Poll reads one pointer sample. A queued synthetic event takes precedence
// over the real mouse and touch state for that frame.
func (in *Input) Poll() {
	if in.processInjectedInput() {
		return
	}
	if x, y, ok := in.pollTouch(); ok {
		in.processPointer(x, y, true, true)
		return
	}
	if in.touching {
		in.touching = false
		in.processPointer(in.lastX, in.lastY, false, true)
		return
	}
	mx, my := ebiten.CursorPosition()
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	in.processPointer(float64(mx), float64(my), pressed, false)
}

// pollTouch follows the first touch until it lifts.
func (in *Input) pollTouch() (float64, float64, bool) {
	in.touchIDs = ebiten.AppendTouchIDs(in.touchIDs[:0])
	if len(in.touchIDs) == 0 {
		return 0, 0, false
	}
	found := false
	if in.touching {
		for _, id := range in.touchIDs {
			if id == in.touch {
				found = true
				break
			}
		}
	}
	if !found {
		in.touch = in.touchIDs[0]
	}
	in.touching = true
	x, y := ebiten.TouchPosition(in.touch)
	return float64(x), float64(y), true
}

// processPointer runs the pointer state machine for one sample. A changed
// position fires move before any press or release edge.
func (in *Input) processPointer(x, y float64, pressed, touch bool) {
	moved := !in.seen || x != in.lastX || y != in.lastY
	in.seen = true
	in.lastX, in.lastY = x, y

	if moved {
		in.fire(in.handlers.pointerMove, PointerContext{X: x, Y: y, Down: in.down, Touch: touch})
	}
	switch {
	case pressed && !in.down:
		in.down = true
		in.fire(in.handlers.pointerDown, PointerContext{X: x, Y: y, Down: true, Touch: touch})
	case !pressed && in.down:
		in.down = false
		in.fire(in.handlers.pointerUp, PointerContext{X: x, Y: y, Down: false, Touch: touch})
	}
}

func (in *Input) fire(hs []pointerHandler, ctx PointerContext) {
	for _, h := range hs {
		h.fn(ctx)
	}
}

// Down reports whether the primary button is held.
func (in *Input) Down() bool {
	return in.down
}

// Position returns the last pointer position and whether one was seen.
func (in *Input) Position() (float64, float64, bool) {
	return in.lastX, in.lastY, in.seen
}
