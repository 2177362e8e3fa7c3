package glyphswarm

import (
	"encoding/json"
	"fmt"
)

// testStep is one action of a test script.
type testStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
	Value  float64 `json:"value,omitempty"`
}

type testScript struct {
	Steps []testStep `json:"steps"`
}

// scriptTarget is what a TestRunner drives. Stage implements it.
type scriptTarget interface {
	input() *Input
	Screenshot(label string)
	Scatter()
	Assemble()
	SetStride(stride int)
	SetDotSize(r float64)
}

// scriptAction runs one step. check, when set, validates the step at load
// time.
type scriptAction struct {
	run   func(r *TestRunner, target scriptTarget, st testStep)
	check func(st testStep) error
}

var scriptActions = map[string]scriptAction{
	"screenshot": {run: func(_ *TestRunner, t scriptTarget, st testStep) { t.Screenshot(st.Label) }},
	"press":      {run: func(_ *TestRunner, t scriptTarget, st testStep) { t.input().InjectPress(st.X, st.Y) }},
	"release":    {run: func(_ *TestRunner, t scriptTarget, st testStep) { t.input().InjectRelease(st.X, st.Y) }},
	"move":       {run: func(_ *TestRunner, t scriptTarget, st testStep) { t.input().InjectHover(st.X, st.Y) }},
	"click":      {run: func(_ *TestRunner, t scriptTarget, st testStep) { t.input().InjectClick(st.X, st.Y) }},
	"drag": {run: func(_ *TestRunner, t scriptTarget, st testStep) {
		t.input().InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, max(st.Frames, 2))
	}},
	"wait": {
		run: func(r *TestRunner, _ scriptTarget, st testStep) {
			// This frame counts as one.
			r.waitCount = st.Frames - 1
		},
		check: func(st testStep) error {
			if st.Frames < 1 {
				return fmt.Errorf("wait needs frames >= 1")
			}
			return nil
		},
	},
	"scatter":  {run: func(_ *TestRunner, t scriptTarget, _ testStep) { t.Scatter() }},
	"assemble": {run: func(_ *TestRunner, t scriptTarget, _ testStep) { t.Assemble() }},
	"stride": {
		run: func(_ *TestRunner, t scriptTarget, st testStep) { t.SetStride(int(st.Value)) },
		check: func(st testStep) error {
			if st.Value < 1 {
				return fmt.Errorf("stride needs value >= 1")
			}
			return nil
		},
	},
	"size": {
		run: func(_ *TestRunner, t scriptTarget, st testStep) { t.SetDotSize(st.Value) },
		check: func(st testStep) error {
			if st.Value <= 0 {
				return fmt.Errorf("size needs value > 0")
			}
			return nil
		},
	},
}

// TestRunner replays a script of injected input, commands and screenshots,
// one step per frame, for automated visual checks. Attach it to a Stage with
// SetTestRunner.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script of the form
// {"steps": [{"action": "press", "x": 10, "y": 20}, ...]}.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		a, ok := scriptActions[st.Action]
		if !ok {
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
		if a.check != nil {
			if err := a.check(st); err != nil {
				return nil, fmt.Errorf("parse test script: step %d: %w", i, err)
			}
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// Done reports whether every step has run and its input has drained.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame. Called from Stage.Update before
// input is polled. Nothing advances while injected events are pending.
func (r *TestRunner) step(target scriptTarget) {
	if r.done {
		return
	}
	in := target.input()
	if in.Pending() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++
	scriptActions[st.Action].run(r, target, st)

	if r.cursor >= len(r.steps) && r.waitCount == 0 && in.Pending() == 0 {
		r.done = true
	}
}
