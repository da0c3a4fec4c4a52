package bough

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// testStep represents a single action in a touch script.
type testStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	ID     int     `json:"id,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
	Key    string  `json:"key,omitempty"`
}

// testScript is the top-level JSON structure for a touch script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner sequences injected touches, key presses and screenshots across
// frames for automated testing. Attach it with InputSource.SetTestRunner.
//
//	{"steps": [
//	  {"action": "tap", "x": 30, "y": 25},
//	  {"action": "swipe", "fromX": 300, "fromY": 100, "toX": 40, "toY": 100, "frames": 6},
//	  {"action": "wait", "frames": 30},
//	  {"action": "screenshot", "label": "after-swipe"}
//	]}
//
// Supported actions: tap, press, move, release (with optional touch id),
// swipe, key, wait and screenshot.
type TestRunner struct {
	steps     []testStep
	keys      []ebiten.Key
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON touch script.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, errors.New("parse test script: no steps")
	}
	r := &TestRunner{steps: script.Steps, keys: make([]ebiten.Key, len(script.Steps))}
	for i, st := range script.Steps {
		switch st.Action {
		case "tap", "press", "move", "release", "swipe", "wait", "screenshot":
		case "key":
			if err := r.keys[i].UnmarshalText([]byte(st.Key)); err != nil {
				return nil, fmt.Errorf("parse test script: step %d: %w", i, err)
			}
		default:
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return r, nil
}

// SetTestRunner attaches a runner. Its step runs at the start of every Poll.
func (s *InputSource) SetTestRunner(runner *TestRunner) {
	s.testRunner = runner
}

// Done reports whether all steps have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame.
func (r *TestRunner) step(s *InputSource) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(s.injectQueue) > 0 {
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

	i := r.cursor
	st := r.steps[i]
	r.cursor++

	id := TouchID(st.ID)
	if st.ID == 0 {
		id = MouseTouchID
	}
	switch st.Action {
	case "screenshot":
		s.ScreenshotRequested.Emit(st.Label)
	case "tap":
		s.InjectTap(st.X, st.Y)
	case "press":
		s.InjectTouchBegan(id, st.X, st.Y)
	case "move":
		s.InjectTouchMoved(id, st.X, st.Y)
	case "release":
		s.InjectTouchEnded(id, st.X, st.Y)
	case "swipe":
		s.InjectSwipe(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "key":
		s.InjectKey(KeyEvent{Key: r.keys[i]})
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}
