package bough

import (
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// TouchHandler receives touch phases from an InputSource. *Graph implements
// it. Each method returns whether the event was fully handled, which stops
// propagation to lower priority handlers.
type TouchHandler interface {
	PropagateTouchesBegan(e *TouchEvent) bool
	PropagateTouchesMoved(e *TouchEvent) bool
	PropagateTouchesEnded(e *TouchEvent) bool
}

// KeyHandler receives key presses from an InputSource. *Graph implements it.
type KeyHandler interface {
	DispatchKey(e KeyEvent) bool
}

type touchPhase uint8

const (
	phaseBegan touchPhase = iota
	phaseMoved
	phaseEnded
)

type inputListener struct {
	id       uint32
	priority int
	touch    TouchHandler
}

type inputConnection struct {
	src  *InputSource
	conn Connection
}

// InputSource converts ebiten's polled input into touch phases and key
// presses, and delivers them to subscribed handlers by priority (higher
// first). A phase stops propagating once a handler fully handles it.
//
// With MultiTouch disabled the left mouse button is reported as a single
// touch with id MouseTouchID.
type InputSource struct {
	MultiTouch bool

	// ScreenshotRequested fires when a test script asks for a screenshot.
	ScreenshotRequested Signal[string]

	listeners []inputListener
	nextID    uint32

	clock     time.Duration
	last      map[TouchID]Vec2
	mouseDown bool

	injectQueue []syntheticTouchEvent
	testRunner  *TestRunner

	touchIDBuf []ebiten.TouchID
	keyBuf     []ebiten.Key
	began      []*Touch
	moved      []*Touch
	ended      []*Touch
}

// NewInputSource creates an input source. With multiTouch false the mouse
// is synthesized into single-touch events.
func NewInputSource(multiTouch bool) *InputSource {
	return &InputSource{
		MultiTouch: multiTouch,
		last:       make(map[TouchID]Vec2),
	}
}

// Subscribe registers a touch handler (and, when it implements KeyHandler,
// a key handler) at the given priority. Handlers with equal priority are
// called in subscription order.
func (s *InputSource) Subscribe(h TouchHandler, priority int) Connection {
	if h == nil {
		panic("bough: cannot subscribe nil touch handler")
	}
	s.nextID++
	id := s.nextID
	l := inputListener{id: id, priority: priority, touch: h}
	i, _ := slices.BinarySearchFunc(s.listeners, priority, func(e inputListener, p int) int {
		// Descending priority; equal priorities keep insertion order.
		if e.priority >= p {
			return -1
		}
		return 1
	})
	s.listeners = slices.Insert(s.listeners, i, l)
	return Connection{id: id, remove: s.unsubscribe}
}

func (s *InputSource) unsubscribe(id uint32) {
	s.listeners = slices.DeleteFunc(s.listeners, func(l inputListener) bool { return l.id == id })
}

// NumSubscribers returns the number of subscribed handlers.
func (s *InputSource) NumSubscribers() int {
	return len(s.listeners)
}

// ConnectTouchEvents subscribes the graph to src at the given priority. The
// connection is dropped when the graph is disposed.
func (g *Graph) ConnectTouchEvents(src *InputSource, priority int) Connection {
	conn := src.Subscribe(g, priority)
	g.inputConns = append(g.inputConns, inputConnection{src: src, conn: conn})
	return conn
}

// Clock returns the timestamp assigned to touches created this frame.
func (s *InputSource) Clock() time.Duration {
	return s.clock
}

// Poll reads one frame of input and dispatches it. Injected events take
// precedence: while any are queued, real input is ignored and one injected
// event is consumed per frame.
func (s *InputSource) Poll() {
	s.clock += time.Second / time.Duration(max(ebiten.TPS(), 1))
	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	if s.processInjected() {
		return
	}
	if s.MultiTouch {
		s.pollTouches()
	} else {
		s.pollMouse()
	}
	s.pollKeys()
}

func (s *InputSource) pollMouse() {
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	x, y := ebiten.CursorPosition()
	pos := Vec2{float64(x), float64(y)}
	switch {
	case pressed && !s.mouseDown:
		s.mouseDown = true
		s.touch(phaseBegan, MouseTouchID, pos)
	case pressed && s.mouseDown:
		s.touch(phaseMoved, MouseTouchID, pos)
	case !pressed && s.mouseDown:
		s.mouseDown = false
		s.touch(phaseEnded, MouseTouchID, pos)
	}
	s.flush()
}

func (s *InputSource) pollTouches() {
	s.touchIDBuf = inpututil.AppendJustReleasedTouchIDs(s.touchIDBuf[:0])
	for _, id := range s.touchIDBuf {
		tid := TouchID(id)
		if _, ok := s.last[tid]; ok {
			x, y := inpututil.TouchPositionInPreviousTick(id)
			s.touch(phaseEnded, tid, Vec2{float64(x), float64(y)})
		}
	}
	s.touchIDBuf = ebiten.AppendTouchIDs(s.touchIDBuf[:0])
	for _, id := range s.touchIDBuf {
		tid := TouchID(id)
		x, y := ebiten.TouchPosition(id)
		pos := Vec2{float64(x), float64(y)}
		if _, ok := s.last[tid]; ok {
			s.touch(phaseMoved, tid, pos)
		} else {
			s.touch(phaseBegan, tid, pos)
		}
	}
	s.flush()
}

func (s *InputSource) pollKeys() {
	s.keyBuf = inpututil.AppendJustPressedKeys(s.keyBuf[:0])
	if len(s.keyBuf) == 0 {
		return
	}
	mods := readModifiers()
	for _, k := range s.keyBuf {
		s.dispatchKey(KeyEvent{Key: k, Modifiers: mods})
	}
}

// touch records one sample for the given phase. Moved samples that did not
// change position are dropped. Samples are dispatched by flush.
func (s *InputSource) touch(phase touchPhase, id TouchID, pos Vec2) {
	prev, known := s.last[id]
	switch phase {
	case phaseBegan:
		if known {
			return
		}
		s.last[id] = pos
		s.began = append(s.began, &Touch{ID: id, Pos: pos, PrevPos: pos, Time: s.clock})
	case phaseMoved:
		if !known || prev == pos {
			return
		}
		s.last[id] = pos
		s.moved = append(s.moved, &Touch{ID: id, Pos: pos, PrevPos: prev, Time: s.clock})
	case phaseEnded:
		if !known {
			return
		}
		delete(s.last, id)
		s.moved = slices.DeleteFunc(s.moved, func(t *Touch) bool { return t.ID == id })
		s.ended = append(s.ended, &Touch{ID: id, Pos: pos, PrevPos: prev, Time: s.clock})
	}
}

// flush dispatches the collected samples as one event per phase, ended
// first so a touch id can be reused within the same frame.
func (s *InputSource) flush() {
	if len(s.ended) > 0 {
		s.dispatch(phaseEnded, &TouchEvent{Touches: s.ended})
		s.ended = nil
	}
	if len(s.began) > 0 {
		s.dispatch(phaseBegan, &TouchEvent{Touches: s.began})
		s.began = nil
	}
	if len(s.moved) > 0 {
		s.dispatch(phaseMoved, &TouchEvent{Touches: s.moved})
		s.moved = nil
	}
}

func (s *InputSource) dispatch(phase touchPhase, e *TouchEvent) {
	for _, l := range slices.Clone(s.listeners) {
		var handled bool
		switch phase {
		case phaseBegan:
			handled = l.touch.PropagateTouchesBegan(e)
		case phaseMoved:
			handled = l.touch.PropagateTouchesMoved(e)
		case phaseEnded:
			handled = l.touch.PropagateTouchesEnded(e)
		}
		if handled {
			return
		}
	}
}

func (s *InputSource) dispatchKey(e KeyEvent) bool {
	for _, l := range slices.Clone(s.listeners) {
		if kh, ok := l.touch.(KeyHandler); ok && kh.DispatchKey(e) {
			return true
		}
	}
	return false
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ModMeta
	}
	return mods
}
