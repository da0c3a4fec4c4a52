package bough

// drawTree paints v and its subtree, delegating to v's layer when it roots
// one.
func (v *View) drawTree(r *Renderer) {
	if v.hidden {
		return
	}
	if v.layer != nil {
		v.layer.draw(r)
		return
	}
	v.drawContents(r, v.alpha.Value())
}

// drawContents paints v's background, its own content and its subviews into
// the current target. alpha is pushed on top of the accumulated alpha; a
// layer passes 1 because it applies the root's alpha when compositing.
func (v *View) drawContents(r *Renderer, alpha float64) {
	if v.hidden {
		return
	}
	r.PushAlpha(alpha)
	r.PushOrigin(v.WorldPos())

	if bg := v.background; bg != nil && !bg.hidden && bg.drawer != nil {
		bg.drawer.Draw(r)
	}
	if v.clipEnabled {
		r.PushClip(v.Bounds())
	}
	if !r.ClipRect().Empty() {
		if v.drawer != nil {
			v.drawer.Draw(r)
		}
		subs := v.beginIterating()
		for _, sv := range subs {
			if v.live(sv) {
				sv.drawTree(r)
			}
		}
		v.endIterating()
	}
	if v.clipEnabled {
		r.PopClip()
	}

	r.PopOrigin()
	r.PopAlpha()
}
