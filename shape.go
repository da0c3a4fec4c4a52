package bough

// RectShape is a behavior that paints a solid and/or stroked rectangle over
// its view's bounds. View backgrounds are RectShapes.
type RectShape struct {
	view *View

	FillColor   Color
	StrokeColor Color
	StrokeWidth float64
}

// NewRectShape creates a view whose behavior is a RectShape with the given
// fill color. The view is not interactive.
func NewRectShape(name string, fill Color) (*View, *RectShape) {
	v := NewView(name)
	v.interactive = false
	s := &RectShape{view: v, FillColor: fill}
	v.SetBehavior(s)
	return v, s
}

// View returns the view this shape paints.
func (s *RectShape) View() *View {
	return s.view
}

// Draw fills then strokes the bounds.
func (s *RectShape) Draw(r *Renderer) {
	b := s.view.Bounds()
	if s.FillColor.A > 0 {
		r.PushColor(s.FillColor)
		r.DrawSolidRect(b)
		r.PopColor()
	}
	if s.StrokeWidth > 0 && s.StrokeColor.A > 0 {
		r.PushColor(s.StrokeColor)
		r.DrawStrokedRect(b, s.StrokeWidth)
		r.PopColor()
	}
}

// SetBorderColor sets the background stroke color.
func (v *View) SetBorderColor(c Color) {
	v.Background().StrokeColor = c
}

// SetBorderWidth sets the background stroke width.
func (v *View) SetBorderWidth(w float64) {
	v.Background().StrokeWidth = w
}
