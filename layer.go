package bough

// Layer renders one view subtree in isolation. It exists while its root view
// is transparent or has filters (and always for a graph's root view). An
// offscreen layer draws the subtree into a pooled FrameBuffer, runs the
// filter chain, then composites the result into the parent target with the
// root view's alpha.
type Layer struct {
	rootView *View
	fb       *FrameBuffer

	// renderBounds is the drawable area of the subtree in root-local space.
	// It grows during init and is recomputed from scratch on every init.
	renderBounds Rect

	markedForRemoval         bool
	filtersNeedConfiguration bool
	configuredSize           Size
	passInfos                []PassInfo
	pass                     Pass
}

func newLayer(v *View) *Layer {
	return &Layer{rootView: v}
}

// RootView returns the view this layer isolates.
func (l *Layer) RootView() *View {
	return l.rootView
}

// FrameBuffer returns the buffer used by the last offscreen draw, or nil.
// The buffer is back in the pool between frames and may be reused by
// another layer of the same size.
func (l *Layer) FrameBuffer() *FrameBuffer {
	return l.fb
}

// RenderBounds returns the drawable area of the subtree in root-local space,
// as computed by the last offscreen draw.
func (l *Layer) RenderBounds() Rect {
	return l.renderBounds
}

// IsOffscreen reports whether the subtree must be rendered through a
// framebuffer this frame.
func (l *Layer) IsOffscreen() bool {
	v := l.rootView
	return v != nil && (v.IsTransparent() || len(v.filters) > 0)
}

// IsMarkedForRemoval reports whether the layer was released and is waiting
// for the graph's end-of-update sweep.
func (l *Layer) IsMarkedForRemoval() bool {
	return l.markedForRemoval
}

// init recomputes renderBounds from the subtree's current frames.
func (l *Layer) init() {
	v := l.rootView
	l.renderBounds = v.Bounds()
	if !v.clipEnabled {
		l.collectBounds(v, Vec2{})
	}
	if pad := filterChainPadding(v.filters); pad > 0 {
		l.renderBounds = l.renderBounds.Inflate(pad)
	}
}

// collectBounds grows renderBounds by every visible descendant of v. offset
// is v's position relative to the layer root. Clipping views bound their
// subtree by their own frame; filtered views add their filter padding.
func (l *Layer) collectBounds(v *View, offset Vec2) {
	for _, sv := range v.subviews {
		if !v.live(sv) || sv.hidden {
			continue
		}
		o := offset.Add(sv.Pos())
		r := RectFromPosSize(o, sv.Size())
		if pad := filterChainPadding(sv.filters); pad > 0 {
			r = r.Inflate(pad)
		}
		l.extendRenderBounds(r)
		if !sv.clipEnabled {
			l.collectBounds(sv, o)
		}
	}
}

// extendRenderBounds grows renderBounds to include r.
func (l *Layer) extendRenderBounds(r Rect) {
	if r.Empty() {
		return
	}
	if l.renderBounds.Empty() {
		l.renderBounds = r
		return
	}
	l.renderBounds = l.renderBounds.Union(r)
}

// draw paints the subtree. Direct layers draw into the current target;
// offscreen layers go through a framebuffer and the filter chain.
func (l *Layer) draw(r *Renderer) {
	v := l.rootView
	if !l.IsOffscreen() {
		v.drawContents(r, 1)
		return
	}
	if v.alpha.Value() <= 0 && len(v.filters) == 0 {
		return
	}

	l.init()
	if l.renderBounds.Empty() {
		return
	}
	size := l.renderBounds.Size()
	w, h := size.Pixels()
	pool := r.Pool()
	if l.fb == nil || !l.fb.Fits(w, h) || !pool.Checkout(l.fb) {
		l.fb = pool.Acquire(w, h)
	}

	origin := v.WorldPos().Add(l.renderBounds.Pos())
	r.PushTarget(l.fb, origin)
	r.pushAlphaValue(1)
	r.PushBlendMode(BlendNormal)
	v.drawContents(r, 1)
	r.PopBlendMode()
	r.PopAlpha()
	r.PopTarget()

	out, outSize := l.fb, size
	if len(v.filters) > 0 {
		out, outSize = l.runFilters(r, size)
	}

	r.PushOrigin(Vec2{})
	r.PushBlendMode(v.BlendMode)
	r.DrawFrameBuffer(out, outSize, RectFromPosSize(origin, size), v.alpha.Value())
	r.PopBlendMode()
	r.PopOrigin()

	if out != l.fb {
		pool.Release(out)
	}
	pool.Release(l.fb)
}

// configureFilters asks every filter for its passes at the given size.
func (l *Layer) configureFilters(size Size) {
	filters := l.rootView.filters
	if cap(l.passInfos) < len(filters) {
		l.passInfos = make([]PassInfo, len(filters))
	}
	l.passInfos = l.passInfos[:len(filters)]
	for i, f := range filters {
		l.passInfos[i].reset()
		f.Configure(size, &l.passInfos[i])
	}
	l.configuredSize = size
	l.filtersNeedConfiguration = false
}

// runFilters executes the filter passes in order. Each pass renders into a
// freshly acquired buffer and reads the previous pass's output. Returns the
// final output and its valid size.
func (l *Layer) runFilters(r *Renderer, size Size) (*FrameBuffer, Size) {
	if l.filtersNeedConfiguration || l.configuredSize != size || len(l.passInfos) != len(l.rootView.filters) {
		l.configureFilters(size)
	}
	pool := r.Pool()
	in, inSize := l.fb, size
	for fi, f := range l.rootView.filters {
		info := &l.passInfos[fi]
		for i := range info.NumPasses() {
			ps := info.PassSize(i)
			pw, ph := ps.Pixels()
			out := pool.Acquire(pw, ph)
			l.pass = Pass{Index: i, Size: ps, Input: in, InputSize: inSize, Output: out}

			r.PushTarget(out, Vec2{})
			r.PushOrigin(Vec2{})
			r.pushAlphaValue(1)
			r.PushBlendMode(BlendNormal)
			f.Process(r, &l.pass)
			r.PopBlendMode()
			r.PopAlpha()
			r.PopOrigin()
			r.PopTarget()

			if in != l.fb {
				pool.Release(in)
			}
			in, inSize = out, ps
		}
	}
	l.pass = Pass{}
	return in, inSize
}
