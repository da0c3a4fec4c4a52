package bough

import "github.com/tanema/gween/ease"

// Drawer is implemented by behaviors that paint content. Draw is called in
// the view's local coordinate space with the view's alpha and clip already
// pushed on the Renderer.
type Drawer interface {
	Draw(r *Renderer)
}

// Layouter is implemented by behaviors that position subviews. Layout runs
// top-down: a parent's Layout completes before any dirty child is visited.
type Layouter interface {
	Layout()
}

// Updater is implemented by behaviors that step state once per frame.
type Updater interface {
	Update(dt float64)
}

// TouchResponder is implemented by behaviors that react to touches. The
// events passed in are already filtered: TouchesBegan only sees touches
// inside the view's hit region that no view in front of it claimed, and
// TouchesMoved / TouchesEnded only see touches this view claimed.
//
// A touch is claimed by setting Touch.Handled (or calling TouchEvent.Claim)
// inside TouchesBegan.
type TouchResponder interface {
	TouchesBegan(e *TouchEvent)
	TouchesMoved(e *TouchEvent)
	TouchesEnded(e *TouchEvent)
}

// TouchCanceller is implemented by behaviors that keep gesture state across
// touch phases. TouchesCancelled receives the touches the view still owned
// when it left the graph or was disposed; no ended phase follows for them.
type TouchCanceller interface {
	TouchesCancelled(e *TouchEvent)
}

// FirstResponder is implemented by behaviors that take part in keyboard
// focus. Returning false from either method aborts the focus change before
// any state is modified.
type FirstResponder interface {
	WillBecomeFirstResponder() bool
	WillResignFirstResponder() bool
}

// KeyResponder receives key presses while its view is the first responder.
// It returns true when the key was consumed.
type KeyResponder interface {
	KeyDown(e KeyEvent) bool
}

// viewIDCounter is a plain counter; the view tree is single-threaded.
var viewIDCounter uint32

func nextViewID() uint32 {
	viewIDCounter++
	return viewIDCounter
}

// View is a node of the UI tree. A View has at most one parent, which is
// enforced by AddSubview. Widgets supply their policy through SetBehavior;
// the View provides the invariant-preserving wrapper (world position, layout
// ordering, clip, layer isolation and touch filtering).
type View struct {
	// Identity
	ID       uint32
	Name     string
	Tag      int
	UserData any

	// EntityID is forwarded to the Graph's EntityStore with interaction
	// events. Zero means the view is not bridged.
	EntityID uint32

	// HitShape overrides the rectangular hit region when set.
	HitShape HitShape

	// BlendMode is used when the view's layer is composited.
	BlendMode BlendMode

	// Hierarchy
	parent   *View
	subviews []*View
	graph    *Graph

	// Geometry
	pos           AnimVec2
	size          AnimVec2
	worldPos      Vec2
	worldPosDirty bool

	alpha AnimFloat

	// Flags
	hidden        bool
	interactive   bool
	clipEnabled   bool
	fillParent    bool
	needsLayout   bool
	layoutPending bool // some descendant needs layout

	background *View
	filters    []Filter
	layer      *Layer

	// Touch bookkeeping
	activeTouches map[TouchID]*Touch
	cancelPadding float64

	// Deferred removal
	iterating        int
	pendingRemoval   bool
	markedForRemoval bool
	disposed         bool

	// Behavior and its cached capabilities (nil when not implemented).
	behavior  any
	drawer    Drawer
	layouter  Layouter
	updater   Updater
	responder TouchResponder
}

// NewView creates an empty, visible, interactive view of zero size.
func NewView(name string) *View {
	return &View{
		ID:            nextViewID(),
		Name:          name,
		alpha:         NewAnimFloat(1),
		interactive:   true,
		worldPosDirty: true,
		needsLayout:   true,
	}
}

// SetBehavior installs the widget policy for this view. b may implement any
// of Drawer, Layouter, Updater, TouchResponder, FirstResponder and
// KeyResponder; capabilities it does not implement are skipped.
func (v *View) SetBehavior(b any) {
	v.behavior = b
	v.drawer, _ = b.(Drawer)
	v.layouter, _ = b.(Layouter)
	v.updater, _ = b.(Updater)
	v.responder, _ = b.(TouchResponder)
	v.SetNeedsLayout()
}

// Behavior returns the installed widget policy, or nil.
func (v *View) Behavior() any {
	return v.behavior
}

// Parent returns the parent view, or nil for a detached view or a graph root.
func (v *View) Parent() *View {
	return v.parent
}

// Graph returns the graph this view is attached to, or nil.
func (v *View) Graph() *Graph {
	return v.graph
}

// --- Geometry ---

// Pos returns the position relative to the parent.
func (v *View) Pos() Vec2 {
	return v.pos.Value()
}

// SetPos moves the view. Changes smaller than posEpsilon are ignored.
// Any running position animation is cancelled.
func (v *View) SetPos(p Vec2) {
	if v.pos.IsSettled() && p.Near(v.pos.Value(), posEpsilon) {
		return
	}
	v.pos.Set(p)
	v.markWorldPosDirty()
}

// AnimatePos tweens the position over duration seconds. World position is
// invalidated every frame until the animation settles.
func (v *View) AnimatePos(to Vec2, duration float64, fn ease.TweenFunc) {
	v.pos.AnimateTo(to, duration, fn)
	if duration <= 0 {
		v.markWorldPosDirty()
	}
}

// Size returns the view's size.
func (v *View) Size() Size {
	s := v.size.Value()
	return Size{s.X, s.Y}
}

// SetSize resizes the view and schedules a layout pass. Changes smaller
// than posEpsilon are ignored.
func (v *View) SetSize(s Size) {
	if s.Width < 0 || s.Height < 0 {
		panic("bough: negative view size")
	}
	if v.size.IsSettled() && s.Vec().Near(v.size.Value(), posEpsilon) {
		return
	}
	v.size.Set(s.Vec())
	v.SetNeedsLayout()
}

// AnimateSize tweens the size over duration seconds. Layout is scheduled
// every frame until the animation settles.
func (v *View) AnimateSize(to Size, duration float64, fn ease.TweenFunc) {
	v.size.AnimateTo(to.Vec(), duration, fn)
	v.SetNeedsLayout()
}

// SetBounds sets position and size from a rectangle in parent space.
func (v *View) SetBounds(r Rect) {
	v.SetPos(r.Pos())
	v.SetSize(r.Size())
}

// Bounds returns the view's rectangle in its own coordinate space.
func (v *View) Bounds() Rect {
	s := v.size.Value()
	return Rect{0, 0, s.X, s.Y}
}

// Frame returns the view's rectangle in its parent's coordinate space.
func (v *View) Frame() Rect {
	return RectFromPosSize(v.Pos(), v.Size())
}

// WorldPos returns the position in window space. It is cached and only
// recomputed after the view or one of its ancestors moved.
func (v *View) WorldPos() Vec2 {
	if v.worldPosDirty {
		p := v.pos.Value()
		if v.parent != nil {
			p = p.Add(v.parent.WorldPos())
		}
		v.worldPos = p
		v.worldPosDirty = false
	}
	return v.worldPos
}

// WorldFrame returns the view's rectangle in window space.
func (v *View) WorldFrame() Rect {
	return RectFromPosSize(v.WorldPos(), v.Size())
}

// WindowToLocal converts a window-space point into this view's space.
func (v *View) WindowToLocal(p Vec2) Vec2 {
	return p.Sub(v.WorldPos())
}

// LocalToWindow converts a point in this view's space into window space.
func (v *View) LocalToWindow(p Vec2) Vec2 {
	return p.Add(v.WorldPos())
}

// markWorldPosDirty invalidates the cached world position of v and every
// descendant. Nothing is recomputed until the next WorldPos call.
func (v *View) markWorldPosDirty() {
	v.worldPosDirty = true
	for _, sv := range v.subviews {
		sv.markWorldPosDirty()
	}
}

// --- Appearance ---

// Alpha returns the view's own opacity.
func (v *View) Alpha() float64 {
	return v.alpha.Value()
}

// SetAlpha sets the opacity, clamped to [0, 1]. A value below 1 makes the
// view render through its own offscreen layer from the next update.
func (v *View) SetAlpha(a float64) {
	v.alpha.Set(clamp01(a))
}

// AnimateAlpha tweens the opacity over duration seconds.
func (v *View) AnimateAlpha(to float64, duration float64, fn ease.TweenFunc) {
	v.alpha.AnimateTo(clamp01(to), duration, fn)
}

// CombinedAlpha returns the product of this view's alpha and all of its
// ancestors' alphas.
func (v *View) CombinedAlpha() float64 {
	a := v.alpha.Value()
	for p := v.parent; p != nil; p = p.parent {
		a *= p.alpha.Value()
	}
	return a
}

// IsTransparent reports whether the view's own alpha is below 1.
func (v *View) IsTransparent() bool {
	return v.alpha.Value() < 1
}

// Hidden reports whether the view is hidden.
func (v *View) Hidden() bool { return v.hidden }

// SetHidden hides or shows the view and its subtree. Hidden views neither
// draw nor receive new touches.
func (v *View) SetHidden(hidden bool) { v.hidden = hidden }

// Interactive reports whether the view takes part in touch dispatch.
func (v *View) Interactive() bool { return v.interactive }

// SetInteractive enables or disables touch dispatch for the view's subtree.
func (v *View) SetInteractive(interactive bool) { v.interactive = interactive }

// ClipEnabled reports whether subview drawing is clipped to the bounds.
func (v *View) ClipEnabled() bool { return v.clipEnabled }

// SetClipEnabled enables or disables clipping to the view's bounds.
func (v *View) SetClipEnabled(enabled bool) { v.clipEnabled = enabled }

// Background returns the background view, creating it on first use. The
// background always fills the view and is drawn before the view's content.
func (v *View) Background() *RectShape {
	if v.background == nil {
		bg := NewView(v.Name + ".background")
		bg.interactive = false
		shape := &RectShape{view: bg, FillColor: ColorTransparent}
		bg.SetBehavior(shape)
		bg.size.Set(v.size.Value())
		v.background = bg
	}
	return v.background.behavior.(*RectShape)
}

// SetBackgroundColor is a shorthand for Background().FillColor = c.
func (v *View) SetBackgroundColor(c Color) {
	v.Background().FillColor = c
}

// HasBackground reports whether a background was created.
func (v *View) HasBackground() bool {
	return v.background != nil
}

// --- Filters ---

// Filters returns the filter list. The returned slice MUST NOT be mutated.
func (v *View) Filters() []Filter {
	return v.filters
}

// SetFilters replaces the filter list. A non-empty list isolates the view in
// its own layer from the next update.
func (v *View) SetFilters(filters ...Filter) {
	v.filters = append(v.filters[:0], filters...)
}

// AddFilter appends a filter to the end of the chain.
func (v *View) AddFilter(f Filter) {
	if f == nil {
		panic("bough: cannot add nil filter")
	}
	v.filters = append(v.filters, f)
}

// ClearFilters removes all filters.
func (v *View) ClearFilters() {
	clear(v.filters)
	v.filters = v.filters[:0]
}

// Layer returns the layer this view roots, or nil when it draws directly
// into its parent's target.
func (v *View) Layer() *Layer {
	return v.layer
}

// --- Touch ---

// CancelPadding returns the distance a claimed touch may travel outside the
// bounds before controls treat it as cancelled.
func (v *View) CancelPadding() float64 { return v.cancelPadding }

// SetCancelPadding sets the cancel padding.
func (v *View) SetCancelPadding(p float64) { v.cancelPadding = p }

// InCancelRegion reports whether a window-space point lies inside the bounds
// inflated by the cancel padding.
func (v *View) InCancelRegion(p Vec2) bool {
	return v.Bounds().Inflate(v.cancelPadding).ContainsPoint(v.WindowToLocal(p))
}

// HitTest reports whether a window-space point lies in the view's hit region.
func (v *View) HitTest(p Vec2) bool {
	l := v.WindowToLocal(p)
	if v.HitShape != nil {
		return v.HitShape.Contains(l.X, l.Y)
	}
	return v.Bounds().ContainsPoint(l)
}

// NumActiveTouches returns how many touches this view currently owns.
func (v *View) NumActiveTouches() int {
	return len(v.activeTouches)
}

// OwnsTouch reports whether the view claimed the touch with the given id.
func (v *View) OwnsTouch(id TouchID) bool {
	_, ok := v.activeTouches[id]
	return ok
}

// --- Disposal ---

// Dispose removes this view from its parent and releases everything it
// holds: layer, background, filters, behavior and touches. Descendants are
// disposed too.
func (v *View) Dispose() {
	if v.disposed {
		return
	}
	if v.parent != nil {
		v.parent.RemoveSubview(v)
	}
	v.dispose()
}

func (v *View) dispose() {
	v.disposed = true
	if v.graph != nil {
		v.graph.forgetView(v)
	}
	for _, sv := range v.subviews {
		if sv.parent == v {
			sv.dispose()
			sv.parent = nil
		}
	}
	v.subviews = nil
	v.graph = nil
	v.background = nil
	v.filters = nil
	v.activeTouches = nil
	v.HitShape = nil
	v.UserData = nil
	v.SetBehavior(nil)
}

// IsDisposed reports whether Dispose was called.
func (v *View) IsDisposed() bool {
	return v.disposed
}

// IsMarkedForRemoval reports whether the view was removed while its parent
// was iterating and is waiting for the sweep.
func (v *View) IsMarkedForRemoval() bool {
	return v.markedForRemoval
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
