package bough

// DefaultButtonCancelPadding is the distance a pressed touch may travel
// outside a button before the press is cancelled.
const DefaultButtonCancelPadding = 20

// Button is a rectangular control with pressed, released and clicked
// signals. A touch that leaves the bounds inflated by the cancel padding
// cancels the press; the button then ignores that touch until it ends.
type Button struct {
	*View

	NormalColor  Color
	PressedColor Color
	BorderColor  Color
	BorderWidth  float64

	// Pressed fires when a touch claims the button.
	Pressed Signal[*Button]
	// Released fires when the pressing touch ends without being cancelled.
	Released Signal[*Button]
	// Clicked fires after Released when the touch ended inside the cancel
	// region.
	Clicked Signal[*Button]
	// Canceled fires when the pressing touch leaves the cancel region.
	Canceled Signal[*Button]

	pressed       bool
	touchCanceled bool
	touchID       TouchID
}

// NewButton creates a button view.
func NewButton(name string) *Button {
	b := &Button{
		View:         NewView(name),
		NormalColor:  Color{0.25, 0.25, 0.3, 1},
		PressedColor: Color{0.4, 0.4, 0.5, 1},
	}
	b.SetCancelPadding(DefaultButtonCancelPadding)
	b.SetBehavior(b)
	return b
}

// IsPressed reports whether a touch is currently holding the button down.
func (b *Button) IsPressed() bool {
	return b.pressed
}

// TouchCanceled reports whether the current touch left the cancel region.
func (b *Button) TouchCanceled() bool {
	return b.touchCanceled
}

// SetEnabled enables or disables touch handling.
func (b *Button) SetEnabled(enabled bool) {
	b.SetInteractive(enabled)
	if !enabled {
		b.pressed = false
	}
}

// TouchesBegan claims the first touch when the button is not already held.
func (b *Button) TouchesBegan(e *TouchEvent) {
	if b.pressed {
		return
	}
	t := e.First()
	if t == nil {
		return
	}
	e.Claim(t)
	b.touchID = t.ID
	b.pressed = true
	b.touchCanceled = false
	b.Pressed.Emit(b)
	l := b.WindowToLocal(t.Pos)
	emitViewEvent(b.View, InteractionEvent{
		Type: EventButtonPressed, TouchID: t.ID,
		GlobalX: t.Pos.X, GlobalY: t.Pos.Y, LocalX: l.X, LocalY: l.Y,
	})
}

// TouchesMoved cancels the press once the touch leaves the cancel region.
func (b *Button) TouchesMoved(e *TouchEvent) {
	t := e.Find(b.touchID)
	if t == nil || b.touchCanceled || !b.pressed {
		return
	}
	if !b.InCancelRegion(t.Pos) {
		b.touchCanceled = true
		b.pressed = false
		b.Canceled.Emit(b)
	}
}

// TouchesEnded releases the button and reports a click when the touch
// ended inside the cancel region.
func (b *Button) TouchesEnded(e *TouchEvent) {
	t := e.Find(b.touchID)
	if t == nil {
		return
	}
	wasPressed := b.pressed && !b.touchCanceled
	b.pressed = false
	b.touchCanceled = false
	if !wasPressed {
		return
	}
	b.Released.Emit(b)
	if b.InCancelRegion(t.Pos) {
		b.Clicked.Emit(b)
		l := b.WindowToLocal(t.Pos)
		emitViewEvent(b.View, InteractionEvent{
			Type: EventButtonClicked, TouchID: t.ID,
			GlobalX: t.Pos.X, GlobalY: t.Pos.Y, LocalX: l.X, LocalY: l.Y,
		})
	}
}

// TouchesCancelled drops the press when the button leaves the graph while
// held. Canceled fires if the press was still active.
func (b *Button) TouchesCancelled(e *TouchEvent) {
	if e.Find(b.touchID) == nil {
		return
	}
	wasPressed := b.pressed
	b.pressed = false
	b.touchCanceled = false
	if wasPressed {
		b.Canceled.Emit(b)
	}
}

// Draw fills the bounds with the state color and strokes the border.
func (b *Button) Draw(r *Renderer) {
	c := b.NormalColor
	if b.pressed {
		c = b.PressedColor
	}
	bounds := b.Bounds()
	r.PushColor(c)
	r.DrawSolidRect(bounds)
	r.PopColor()
	if b.BorderWidth > 0 {
		r.PushColor(b.BorderColor)
		r.DrawStrokedRect(bounds, b.BorderWidth)
		r.PopColor()
	}
}
