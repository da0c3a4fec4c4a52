package bough

import (
	"fmt"
	"time"
)

// globalDebug mirrors the most recently set Graph debug flag so that view
// operations (which may run on detached views) can check it cheaply. With
// several graphs it reflects whichever called SetDebugMode last.
var globalDebug bool

// debugStats holds per-frame timing and draw metrics.
// Only populated when Graph.debug is true.
type debugStats struct {
	layoutTime time.Duration
	updateTime time.Duration
	drawTime   time.Duration
	drawCalls  int
	layers     int
	offscreen  int
	fbTotal    int
	fbInUse    int
}

// debugLog writes the frame stats at debug level.
func (g *Graph) debugLog(stats debugStats) {
	if !g.debug {
		return
	}
	Logger().Debug("frame",
		"layout", stats.layoutTime,
		"update", stats.updateTime,
		"draw", stats.drawTime,
		"drawCalls", stats.drawCalls,
		"layers", stats.layers,
		"offscreen", stats.offscreen,
		"framebuffers", stats.fbTotal,
		"framebuffersInUse", stats.fbInUse,
	)
}

// debugCheckDisposed panics with a descriptive message when a disposed view
// is used in a tree operation. Only called in debug mode.
func debugCheckDisposed(v *View, op string) {
	if v.disposed {
		panic(fmt.Sprintf("bough debug: %s on disposed view %q (ID was %d)", op, v.Name, v.ID))
	}
}

// debugMaxTreeDepth is the depth above which debug mode warns.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(v *View) {
	depth := 0
	for p := v; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		Logger().Warn("tree depth exceeds threshold",
			"depth", depth, "threshold", debugMaxTreeDepth, "view", v.Name)
	}
}

// debugMaxChildCount is the subview count above which debug mode warns.
const debugMaxChildCount = 1000

func debugCheckChildCount(v *View) {
	if len(v.subviews) > debugMaxChildCount {
		Logger().Warn("view has too many subviews",
			"view", v.Name, "subviews", len(v.subviews), "threshold", debugMaxChildCount)
	}
}
