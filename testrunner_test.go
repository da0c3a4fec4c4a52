package bough

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestLoadTestScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "screenshot", "label": "initial"},
			{"action": "tap", "x": 100, "y": 200},
			{"action": "wait", "frames": 3},
			{"action": "key", "key": "ArrowRight"},
			{"action": "screenshot", "label": "after-tap"}
		]
	}`)

	runner, err := LoadTestScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.steps) != 5 {
		t.Fatalf("expected 5 steps, got %d", len(runner.steps))
	}
	if runner.steps[0].Action != "screenshot" || runner.steps[0].Label != "initial" {
		t.Error("step 0 mismatch")
	}
	if runner.steps[1].Action != "tap" || runner.steps[1].X != 100 || runner.steps[1].Y != 200 {
		t.Error("step 1 mismatch")
	}
	if runner.steps[2].Action != "wait" || runner.steps[2].Frames != 3 {
		t.Error("step 2 mismatch")
	}
	if runner.keys[3] != ebiten.KeyArrowRight {
		t.Errorf("step 3 key = %v, want ArrowRight", runner.keys[3])
	}
}

func TestLoadTestScript_Invalid(t *testing.T) {
	if _, err := LoadTestScript([]byte(`not json`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestLoadTestScript_Empty(t *testing.T) {
	if _, err := LoadTestScript([]byte(`{"steps": []}`)); err == nil {
		t.Error("expected error for empty steps")
	}
}

func TestLoadTestScript_UnknownAction(t *testing.T) {
	if _, err := LoadTestScript([]byte(`{"steps": [{"action": "click"}]}`)); err == nil {
		t.Error("expected error for unknown action")
	}
}

func TestLoadTestScript_UnknownKey(t *testing.T) {
	if _, err := LoadTestScript([]byte(`{"steps": [{"action": "key", "key": "NoSuchKey"}]}`)); err == nil {
		t.Error("expected error for unknown key name")
	}
}

func TestRunnerStep_Tap(t *testing.T) {
	s := NewInputSource(false)
	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "tap", "x": 50, "y": 50}]}`))
	if err != nil {
		t.Fatal(err)
	}

	// First step: tap queues began + ended.
	runner.step(s)
	if len(s.injectQueue) != 2 {
		t.Fatalf("expected 2 queued events, got %d", len(s.injectQueue))
	}
	if runner.Done() {
		t.Error("runner should not be done while inject queue has events")
	}

	s.processInjected()
	s.processInjected()

	runner.step(s)
	if !runner.Done() {
		t.Error("runner should be done after all steps executed and queue drained")
	}
}

func TestRunnerStep_Wait(t *testing.T) {
	s := NewInputSource(false)
	var shots []string
	s.ScreenshotRequested.Connect(func(label string) { shots = append(shots, label) })

	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "wait", "frames": 3},
		{"action": "screenshot", "label": "done"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}

	for frame := 1; frame <= 3; frame++ {
		runner.step(s)
		if runner.Done() {
			t.Fatalf("should not be done on frame %d", frame)
		}
	}
	runner.step(s)
	if !runner.Done() {
		t.Error("runner should be done after screenshot step")
	}
	if len(shots) != 1 || shots[0] != "done" {
		t.Errorf("expected screenshot 'done', got %v", shots)
	}
}

func TestRunnerStep_Swipe(t *testing.T) {
	s := NewInputSource(false)
	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "swipe", "fromX": 10, "fromY": 10, "toX": 200, "toY": 200, "frames": 4}]}`))
	if err != nil {
		t.Fatal(err)
	}
	runner.step(s)
	if len(s.injectQueue) != 4 {
		t.Fatalf("expected 4 queued events for swipe, got %d", len(s.injectQueue))
	}
}

func TestRunnerStep_PressMoveRelease(t *testing.T) {
	var log []string
	s := NewInputSource(true)
	s.Subscribe(&recordingHandler{name: "h", log: &log}, 0)

	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "press", "id": 3, "x": 10, "y": 10},
		{"action": "move", "id": 3, "x": 20, "y": 10},
		{"action": "release", "id": 3, "x": 20, "y": 10}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	s.SetTestRunner(runner)
	for range 6 {
		s.Poll()
	}
	if !runner.Done() {
		t.Error("runner should be done")
	}
	want := []string{"h:began", "h:moved", "h:ended"}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("log[%d] = %q, want %q", i, log[i], want[i])
		}
	}
}

func TestRunnerDone(t *testing.T) {
	s := NewInputSource(false)
	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "screenshot", "label": "only"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if runner.Done() {
		t.Error("runner should not be done before any steps")
	}
	runner.step(s)
	if !runner.Done() {
		t.Error("runner should be done after single screenshot step")
	}
}

func TestRunnerWaitsForInjectQueue(t *testing.T) {
	s := NewInputSource(false)
	var shots []string
	s.ScreenshotRequested.Connect(func(label string) { shots = append(shots, label) })

	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "tap", "x": 50, "y": 50},
		{"action": "screenshot", "label": "after"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}

	runner.step(s)
	if len(s.injectQueue) != 2 {
		t.Fatalf("expected 2 events, got %d", len(s.injectQueue))
	}

	// The runner does not advance while injections are pending.
	runner.step(s)
	if len(shots) != 0 {
		t.Error("screenshot should not fire before the queue drains")
	}

	s.processInjected()
	s.processInjected()
	runner.step(s)
	if len(shots) != 1 {
		t.Errorf("expected 1 screenshot, got %d", len(shots))
	}
	if !runner.Done() {
		t.Error("runner should be done")
	}
}

func TestKeyStepReachesFirstResponder(t *testing.T) {
	g := NewGraph(Size{100, 100})
	v := NewView("focus")
	k := &keyRecorder{}
	v.SetBehavior(k)
	g.Root().AddSubview(v)
	if !g.BecomeFirstResponder(v) {
		t.Fatal("view should accept focus")
	}

	s := NewInputSource(false)
	g.ConnectTouchEvents(s, 0)
	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "key", "key": "Space"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	s.SetTestRunner(runner)
	s.Poll()

	if len(k.keys) != 1 || k.keys[0] != ebiten.KeySpace {
		t.Errorf("keys = %v, want [Space]", k.keys)
	}
}
