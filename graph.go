package bough

import (
	"cmp"
	"maps"
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// EntityStore is the interface for optional ECS integration.
// When set on a Graph, interaction events of views with a non-zero EntityID
// are forwarded to the store.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent describes something a view did in response to input.
// It is delivered to Graph.OnInteraction and, for bridged views, to the
// Graph's EntityStore.
type InteractionEvent struct {
	Type     EventType
	EntityID uint32
	ViewID   uint32
	TouchID  TouchID
	GlobalX  float64
	GlobalY  float64
	LocalX   float64
	LocalY   float64
	// Page is the new page index (EventPageChanged).
	Page int
	// OffsetX and OffsetY are the content offset (EventScrollEnded,
	// EventPageChanged).
	OffsetX float64
	OffsetY float64
}

// KeyEvent is a key press routed to the first responder.
type KeyEvent struct {
	Key       ebiten.Key
	Modifiers KeyModifiers
}

// Graph owns a view tree. It runs the per-frame update and draw passes,
// keeps the list of active layers, the first responder, and is the entry
// point for touch dispatch.
type Graph struct {
	root      *View
	rootLayer *Layer
	layers    []*Layer

	pool     *FrameBufferPool
	renderer *Renderer

	firstResponder *View
	store          EntityStore
	debug          bool

	// OnInteraction fires for every interaction event emitted by views of
	// this graph.
	OnInteraction Signal[InteractionEvent]

	// ScreenshotDir is where Screenshot writes; DefaultScreenshotDir when
	// empty.
	ScreenshotDir   string
	screenshotQueue []string

	inputConns []inputConnection
	touchBuf   []*Touch
}

// NewGraph creates a graph whose root view has the given size. The root view
// always roots a layer.
func NewGraph(size Size) *Graph {
	g := &Graph{pool: &FrameBufferPool{}}
	g.renderer = NewRenderer(g.pool)
	root := NewView("root")
	root.graph = g
	root.SetSize(size)
	g.root = root
	g.rootLayer = newLayer(root)
	root.layer = g.rootLayer
	g.layers = append(g.layers, g.rootLayer)
	return g
}

// Root returns the root view.
func (g *Graph) Root() *View {
	return g.root
}

// Size returns the size of the root view.
func (g *Graph) Size() Size {
	return g.root.Size()
}

// SetSize resizes the root view, typically to the window size.
func (g *Graph) SetSize(s Size) {
	g.root.SetSize(s)
}

// Layers returns the active layers, root layer first. The returned slice
// MUST NOT be mutated.
func (g *Graph) Layers() []*Layer {
	return g.layers
}

// Pool returns the framebuffer pool used by offscreen layers.
func (g *Graph) Pool() *FrameBufferPool {
	return g.pool
}

// SetEntityStore sets the optional ECS bridge.
func (g *Graph) SetEntityStore(store EntityStore) {
	g.store = store
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-view
// access panics, tree depth and child count warnings are logged, and
// per-frame timing stats are logged at debug level.
func (g *Graph) SetDebugMode(enabled bool) {
	g.debug = enabled
	globalDebug = enabled
}

// --- Frame ---

// Update runs one frame of the update pass with dt derived from ebiten's TPS.
func (g *Graph) Update() {
	g.UpdateWithDelta(1.0 / float64(ebiten.TPS()))
}

// UpdateWithDelta runs one frame of the update pass: pending layout, then
// the update traversal (animations, layer decisions, behavior Update), then
// layout again for anything the update invalidated. Layers released during
// the frame are swept at the end.
func (g *Graph) UpdateWithDelta(dt float64) {
	var stats debugStats
	var t0 time.Time
	if g.debug {
		t0 = time.Now()
	}

	g.root.LayoutIfNeeded()
	if g.debug {
		stats.layoutTime = time.Since(t0)
		t0 = time.Now()
	}

	g.root.updateImpl(dt)
	g.root.LayoutIfNeeded()
	g.sweepLayers()

	if g.debug {
		stats.updateTime = time.Since(t0)
		stats.layers = len(g.layers)
		g.debugLog(stats)
	}
}

// Draw paints the tree into screen.
func (g *Graph) Draw(screen *ebiten.Image) {
	var t0 time.Time
	if g.debug {
		t0 = time.Now()
	}

	r := g.renderer
	r.Begin(screen)
	g.root.drawTree(r)
	r.End()
	g.flushScreenshots(screen)

	if g.debug {
		var stats debugStats
		stats.drawTime = time.Since(t0)
		stats.drawCalls = r.DrawCalls()
		stats.layers = len(g.layers)
		for _, l := range g.layers {
			if l.IsOffscreen() {
				stats.offscreen++
			}
		}
		stats.fbTotal, stats.fbInUse = g.pool.Stats()
		g.debugLog(stats)
	}
}

// Dispose disposes the whole tree and frees every pooled framebuffer.
func (g *Graph) Dispose() {
	g.firstResponder = nil
	for _, c := range g.inputConns {
		c.conn.Disconnect()
	}
	g.inputConns = nil
	g.root.dispose()
	g.layers = nil
	g.pool.Purge()
}

// --- Layers ---

// createLayer gives v its own layer and appends it to the active list.
func (g *Graph) createLayer(v *View) *Layer {
	l := newLayer(v)
	v.layer = l
	g.layers = append(g.layers, l)
	Logger().Debug("layer created", "view", v.Name, "id", v.ID)
	return l
}

// releaseLayer detaches l from its view and marks it for the end-of-update
// sweep. The graph's root layer is never released.
func (g *Graph) releaseLayer(l *Layer) {
	if l == nil || l == g.rootLayer || l.markedForRemoval {
		return
	}
	l.markedForRemoval = true
	if l.rootView != nil && l.rootView.layer == l {
		l.rootView.layer = nil
	}
	Logger().Debug("layer released", "view", l.rootView.Name, "id", l.rootView.ID)
}

// sweepLayers physically removes released layers. Their framebuffers are
// already back in the pool.
func (g *Graph) sweepLayers() {
	kept := g.layers[:0]
	for _, l := range g.layers {
		if l.markedForRemoval {
			l.rootView = nil
			l.fb = nil
			continue
		}
		kept = append(kept, l)
	}
	clear(g.layers[len(kept):])
	g.layers = kept
}

// forgetView drops every reference the graph holds on v: its layer, focus
// and claimed touches. Owned touches are handed to a TouchCanceller first.
// Called when v leaves the graph or is disposed.
func (g *Graph) forgetView(v *View) {
	if v.layer != nil && v != g.root {
		g.releaseLayer(v.layer)
	}
	if g.firstResponder == v {
		g.firstResponder = nil
		g.EmitInteraction(InteractionEvent{Type: EventFirstResponderChanged})
	}
	if len(v.activeTouches) == 0 {
		return
	}
	owned := slices.SortedFunc(maps.Values(v.activeTouches), func(a, b *Touch) int {
		return cmp.Compare(a.ID, b.ID)
	})
	clear(v.activeTouches)
	if c, ok := v.behavior.(TouchCanceller); ok {
		c.TouchesCancelled(&TouchEvent{Touches: owned})
	}
}

// --- First responder ---

// FirstResponder returns the view receiving key events, or nil.
func (g *Graph) FirstResponder() *View {
	return g.firstResponder
}

// BecomeFirstResponder moves keyboard focus to v. The current first
// responder may refuse to resign and v may refuse to become first
// responder; either refusal aborts before any state changes. Returns whether
// v is the first responder afterwards.
func (g *Graph) BecomeFirstResponder(v *View) bool {
	if v == nil {
		panic("bough: nil first responder")
	}
	if v.graph != g {
		return false
	}
	if g.firstResponder == v {
		return true
	}
	if cur := g.firstResponder; cur != nil {
		if fr, ok := cur.behavior.(FirstResponder); ok && !fr.WillResignFirstResponder() {
			return false
		}
	}
	fr, ok := v.behavior.(FirstResponder)
	if !ok || !fr.WillBecomeFirstResponder() {
		return false
	}
	g.firstResponder = v
	g.emitFor(v, InteractionEvent{Type: EventFirstResponderChanged})
	return true
}

// ResignFirstResponder clears keyboard focus unless the current first
// responder refuses. Returns whether focus is clear afterwards.
func (g *Graph) ResignFirstResponder() bool {
	cur := g.firstResponder
	if cur == nil {
		return true
	}
	if fr, ok := cur.behavior.(FirstResponder); ok && !fr.WillResignFirstResponder() {
		return false
	}
	g.firstResponder = nil
	g.EmitInteraction(InteractionEvent{Type: EventFirstResponderChanged})
	return true
}

// DispatchKey delivers a key press to the first responder, then up its
// ancestor chain until a KeyResponder consumes it.
func (g *Graph) DispatchKey(e KeyEvent) bool {
	for v := g.firstResponder; v != nil; v = v.parent {
		if kr, ok := v.behavior.(KeyResponder); ok && kr.KeyDown(e) {
			return true
		}
	}
	return false
}

// --- Interaction events ---

// EmitInteraction delivers ev to OnInteraction and, when ev carries an
// EntityID, to the EntityStore.
func (g *Graph) EmitInteraction(ev InteractionEvent) {
	g.OnInteraction.Emit(ev)
	if g.store != nil && ev.EntityID != 0 {
		g.store.EmitEvent(ev)
	}
}

// emitFor fills the view fields of ev from v and emits it.
func (g *Graph) emitFor(v *View, ev InteractionEvent) {
	ev.ViewID = v.ID
	ev.EntityID = v.EntityID
	g.EmitInteraction(ev)
}

// emitTouch emits a touch phase event for the view that owns t.
func (g *Graph) emitTouch(typ EventType, v *View, t *Touch) {
	if g.OnInteraction.NumSlots() == 0 && (g.store == nil || v.EntityID == 0) {
		return
	}
	l := v.WindowToLocal(t.Pos)
	g.emitFor(v, InteractionEvent{
		Type:    typ,
		TouchID: t.ID,
		GlobalX: t.Pos.X,
		GlobalY: t.Pos.Y,
		LocalX:  l.X,
		LocalY:  l.Y,
	})
}

// emitViewEvent is used by widgets to report their own events.
func emitViewEvent(v *View, ev InteractionEvent) {
	if v.graph != nil {
		v.graph.emitFor(v, ev)
	}
}
