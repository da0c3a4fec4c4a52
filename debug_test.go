package bough

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })
	return &buf
}

func expectDisposedPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on disposed view, got none")
		}
		if msg := fmt.Sprint(r); !strings.Contains(msg, "disposed") {
			t.Errorf("panic message should mention 'disposed', got: %s", msg)
		}
	}()
	fn()
}

func TestDebugMode_DisposedSubviewPanics(t *testing.T) {
	g := NewGraph(Size{100, 100})
	g.SetDebugMode(true)
	defer g.SetDebugMode(false)

	parent := NewView("parent")
	g.Root().AddSubview(parent)
	child := NewView("child")
	child.Dispose()

	expectDisposedPanic(t, func() { parent.AddSubview(child) })
}

func TestDebugMode_DisposedParentPanics(t *testing.T) {
	g := NewGraph(Size{100, 100})
	g.SetDebugMode(true)
	defer g.SetDebugMode(false)

	parent := NewView("parent")
	parent.Dispose()

	expectDisposedPanic(t, func() { parent.AddSubview(NewView("child")) })
}

func TestReleaseMode_DisposedViewNoPanic(t *testing.T) {
	g := NewGraph(Size{100, 100})
	g.SetDebugMode(false)

	child := NewView("child")
	child.Dispose()
	g.Root().AddSubview(child)
	if child.Parent() != g.Root() {
		t.Error("release mode should still attach the view")
	}
}

func TestDebugMode_FrameStatsLogged(t *testing.T) {
	buf := captureLogs(t)
	g := NewGraph(Size{100, 100})
	g.SetDebugMode(true)
	defer g.SetDebugMode(false)

	g.UpdateWithDelta(1.0 / 60)
	out := buf.String()
	if !strings.Contains(out, "msg=frame") {
		t.Fatalf("expected frame stats in log, got: %s", out)
	}
	if !strings.Contains(out, "layers=1") {
		t.Errorf("frame stats should count the root layer, got: %s", out)
	}
}

func TestReleaseMode_NoFrameStats(t *testing.T) {
	buf := captureLogs(t)
	g := NewGraph(Size{100, 100})
	g.UpdateWithDelta(1.0 / 60)
	if strings.Contains(buf.String(), "msg=frame") {
		t.Errorf("frame stats logged outside debug mode: %s", buf.String())
	}
}

func TestDebugMode_TreeDepthWarning(t *testing.T) {
	buf := captureLogs(t)
	g := NewGraph(Size{100, 100})
	g.SetDebugMode(true)
	defer g.SetDebugMode(false)

	parent := g.Root()
	for i := range debugMaxTreeDepth + 1 {
		v := NewView(fmt.Sprintf("v%d", i))
		parent.AddSubview(v)
		parent = v
	}
	if !strings.Contains(buf.String(), "tree depth exceeds threshold") {
		t.Errorf("expected depth warning, got: %s", buf.String())
	}
}

func TestDebugMode_ChildCountWarning(t *testing.T) {
	buf := captureLogs(t)
	g := NewGraph(Size{100, 100})
	g.SetDebugMode(true)
	defer g.SetDebugMode(false)

	for range debugMaxChildCount + 1 {
		g.Root().AddSubview(NewView("v"))
	}
	if !strings.Contains(buf.String(), "view has too many subviews") {
		t.Error("expected child count warning")
	}
}

func TestSetLoggerNilRestoresSilence(t *testing.T) {
	SetLogger(nil)
	if Logger().Enabled(t.Context(), slog.LevelError) {
		t.Error("default logger should be disabled")
	}
}
