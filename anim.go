package bough

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// DefaultEase is the easing used when AnimateTo is given a nil function.
var DefaultEase ease.TweenFunc = ease.OutQuad

// AnimFloat is an animatable float64. Set snaps the value; AnimateTo
// schedules a tween that advances on each Update. The owner queries
// IsSettled to decide whether dependent state must keep being invalidated.
//
// There is no global animation manager: whoever owns the value calls
// Update with the frame delta.
type AnimFloat struct {
	value  float64
	target float64
	tween  *gween.Tween
}

// NewAnimFloat returns a settled AnimFloat holding v.
func NewAnimFloat(v float64) AnimFloat {
	return AnimFloat{value: v, target: v}
}

// Value returns the current value.
func (a *AnimFloat) Value() float64 { return a.value }

// Target returns the value the animation settles on.
func (a *AnimFloat) Target() float64 { return a.target }

// Set snaps to v and cancels any running tween.
func (a *AnimFloat) Set(v float64) {
	a.value = v
	a.target = v
	a.tween = nil
}

// AnimateTo tweens from the current value to v over duration seconds.
// A non-positive duration behaves like Set.
func (a *AnimFloat) AnimateTo(v float64, duration float64, fn ease.TweenFunc) {
	if duration <= 0 {
		a.Set(v)
		return
	}
	if fn == nil {
		fn = DefaultEase
	}
	a.target = v
	a.tween = gween.New(float32(a.value), float32(v), float32(duration), fn)
}

// Stop freezes the value where it is.
func (a *AnimFloat) Stop() {
	a.tween = nil
	a.target = a.value
}

// IsSettled reports whether no tween is running.
func (a *AnimFloat) IsSettled() bool { return a.tween == nil }

// Update advances a running tween by dt seconds and reports whether the
// value changed.
func (a *AnimFloat) Update(dt float64) bool {
	if a.tween == nil {
		return false
	}
	prev := a.value
	val, done := a.tween.Update(float32(dt))
	if done {
		// gween works in float32; land exactly on the requested target.
		a.value = a.target
		a.tween = nil
	} else {
		a.value = float64(val)
	}
	return a.value != prev
}

// AnimVec2 is an animatable 2D vector with one tween per axis.
type AnimVec2 struct {
	x, y AnimFloat
}

// NewAnimVec2 returns a settled AnimVec2 holding v.
func NewAnimVec2(v Vec2) AnimVec2 {
	return AnimVec2{x: NewAnimFloat(v.X), y: NewAnimFloat(v.Y)}
}

// Value returns the current value.
func (a *AnimVec2) Value() Vec2 { return Vec2{a.x.value, a.y.value} }

// Target returns the value the animation settles on.
func (a *AnimVec2) Target() Vec2 { return Vec2{a.x.target, a.y.target} }

// Set snaps to v and cancels any running tween.
func (a *AnimVec2) Set(v Vec2) {
	a.x.Set(v.X)
	a.y.Set(v.Y)
}

// AnimateTo tweens both axes to v over duration seconds.
func (a *AnimVec2) AnimateTo(v Vec2, duration float64, fn ease.TweenFunc) {
	a.x.AnimateTo(v.X, duration, fn)
	a.y.AnimateTo(v.Y, duration, fn)
}

// Stop freezes both axes where they are.
func (a *AnimVec2) Stop() {
	a.x.Stop()
	a.y.Stop()
}

// IsSettled reports whether neither axis is animating.
func (a *AnimVec2) IsSettled() bool { return a.x.IsSettled() && a.y.IsSettled() }

// Update advances both axes and reports whether the value changed.
func (a *AnimVec2) Update(dt float64) bool {
	cx := a.x.Update(dt)
	cy := a.y.Update(dt)
	return cx || cy
}
