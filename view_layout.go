package bough

// SetNeedsLayout marks the view for layout on the next update. The flag is
// propagated to descendants in fill-parent mode, since their size is defined
// by this view's size.
func (v *View) SetNeedsLayout() {
	v.needsLayout = true
	for _, sv := range v.subviews {
		if sv.fillParent && sv.parent == v {
			sv.SetNeedsLayout()
		}
	}
	for p := v.parent; p != nil && !p.layoutPending; p = p.parent {
		p.layoutPending = true
	}
}

// NeedsLayout reports whether a layout pass is scheduled for this view.
func (v *View) NeedsLayout() bool {
	return v.needsLayout
}

// FillParent reports whether the view's bounds track its parent's size.
func (v *View) FillParent() bool {
	return v.fillParent
}

// SetFillParent makes the view's bounds equal its parent's bounds (origin
// at zero, same size). The bounds are forced before the view's own Layout
// runs.
func (v *View) SetFillParent(fill bool) {
	if v.fillParent == fill {
		return
	}
	v.fillParent = fill
	v.SetNeedsLayout()
}

// LayoutIfNeeded runs the layout pass on this subtree immediately.
func (v *View) LayoutIfNeeded() {
	if v.needsLayout || v.layoutPending {
		v.layoutImpl()
	}
}

// layoutImpl runs the top-down layout pass: fill-parent bounds are forced,
// then the view's own Layout runs, then dirty subviews are visited.
func (v *View) layoutImpl() {
	if v.fillParent && v.parent != nil {
		v.matchParent()
	}
	if v.needsLayout {
		v.needsLayout = false
		if v.background != nil {
			v.background.size.Set(v.size.Value())
		}
		if v.layouter != nil {
			v.layouter.Layout()
		}
	}
	v.layoutPending = false

	subs := v.beginIterating()
	for _, sv := range subs {
		if !v.live(sv) {
			continue
		}
		if sv.needsLayout || sv.layoutPending || (sv.fillParent && sv.Size() != v.Size()) {
			sv.layoutImpl()
		}
	}
	v.endIterating()
}

// matchParent forces the view's bounds to its parent's bounds without
// re-scheduling layout.
func (v *View) matchParent() {
	ps := v.parent.size.Value()
	if !v.pos.Value().Near(Vec2{}, posEpsilon) || !v.pos.IsSettled() {
		v.pos.Set(Vec2{})
		v.markWorldPosDirty()
	}
	if !v.size.Value().Near(ps, posEpsilon) || !v.size.IsSettled() {
		v.size.Set(ps)
		v.needsLayout = true
	}
}

// updateImpl runs the per-frame update pass, parent before children:
// animatable properties are stepped, layer necessity is decided, then the
// behavior's Update runs. Removals requested during the pass are swept when
// the view finishes iterating its subviews.
func (v *View) updateImpl(dt float64) {
	if v.pos.Update(dt) {
		v.markWorldPosDirty()
	}
	if v.size.Update(dt) {
		v.SetNeedsLayout()
	}
	v.alpha.Update(dt)

	v.updateLayer()

	if v.updater != nil {
		v.updater.Update(dt)
	}

	subs := v.beginIterating()
	for _, sv := range subs {
		if v.live(sv) {
			sv.updateImpl(dt)
		}
	}
	v.endIterating()
}

// updateLayer decides whether the view must render in isolation this frame
// and creates or releases its layer accordingly.
func (v *View) updateLayer() {
	g := v.graph
	if g == nil {
		return
	}
	needsLayer := v.IsTransparent() || len(v.filters) > 0
	switch {
	case needsLayer && v.layer == nil:
		g.createLayer(v)
	case !needsLayer && v.layer != nil && v != g.root:
		g.releaseLayer(v.layer)
	}
	if len(v.filters) > 0 && v.layer != nil {
		v.layer.filtersNeedConfiguration = true
	}
}

// IsAnimating reports whether any animatable property of the view is still
// changing.
func (v *View) IsAnimating() bool {
	return !v.pos.IsSettled() || !v.size.IsSettled() || !v.alpha.IsSettled()
}
