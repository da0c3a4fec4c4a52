package bough

import "time"

// TouchID identifies a touch for its whole began → moved → ended sequence.
type TouchID int

// MouseTouchID is the fixed id of touches synthesized from the mouse when
// multi-touch is disabled.
const MouseTouchID TouchID = -1

// Touch is a single contact point. Pos and PrevPos are in window space.
type Touch struct {
	ID      TouchID
	Pos     Vec2
	PrevPos Vec2
	// Time is the timestamp of the sample, measured from an arbitrary origin
	// that stays fixed for the lifetime of the InputSource.
	Time time.Duration
	// Handled is set by the view that claims (or consumes) the touch.
	Handled bool
}

// TouchEvent is an ordered collection of touches delivered for one phase.
type TouchEvent struct {
	Touches []*Touch
	// Handled becomes true once every touch originally in the event was
	// claimed by exactly one view.
	Handled bool
}

// NewTouchEvent builds an event from the given touches.
func NewTouchEvent(touches ...*Touch) *TouchEvent {
	return &TouchEvent{Touches: touches}
}

// Len returns the number of touches in the event.
func (e *TouchEvent) Len() int {
	return len(e.Touches)
}

// First returns the first touch, or nil for an empty event.
func (e *TouchEvent) First() *Touch {
	if len(e.Touches) == 0 {
		return nil
	}
	return e.Touches[0]
}

// Find returns the touch with the given id, or nil.
func (e *TouchEvent) Find(id TouchID) *Touch {
	for _, t := range e.Touches {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Claim marks t handled. Called from TouchesBegan to take ownership.
func (e *TouchEvent) Claim(t *Touch) {
	t.Handled = true
}

// ClaimAll marks every touch in the event handled.
func (e *TouchEvent) ClaimAll() {
	for _, t := range e.Touches {
		t.Handled = true
	}
}

// allHandled reports whether every touch is handled.
func (e *TouchEvent) allHandled() bool {
	return len(e.Touches) > 0 && allHandled(e.Touches)
}

// Remove drops the touch with the given id from the event. Returns whether
// it was present.
func (e *TouchEvent) Remove(id TouchID) bool {
	for i, t := range e.Touches {
		if t.ID == id {
			e.Touches = append(e.Touches[:i], e.Touches[i+1:]...)
			return true
		}
	}
	return false
}

// --- Hit shapes ---

// HitShape is used for custom hit testing regions in local coordinates.
type HitShape interface {
	Contains(x, y float64) bool
}

// HitRect is an axis-aligned rectangular hit area in local coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// HitCircle is a circular hit area in local coordinates.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// HitPolygon is a convex polygon hit area in local coordinates.
// Points must define a convex polygon in either winding order.
type HitPolygon struct {
	Points []Vec2
}

// Contains reports whether (x, y) lies inside a convex polygon using cross-product sign test.
func (p HitPolygon) Contains(x, y float64) bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}
	var positive, negative bool
	for i := 0; i < n; i++ {
		x1, y1 := p.Points[i].X, p.Points[i].Y
		j := (i + 1) % n
		x2, y2 := p.Points[j].X, p.Points[j].Y

		cross := (x2-x1)*(y-y1) - (y2-y1)*(x-x1)
		if cross > 0 {
			positive = true
		} else if cross < 0 {
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}
