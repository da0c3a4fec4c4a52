package bough

// syntheticTouchEvent is a single injected touch sample or key press.
// Coordinates are window coordinates, identical to real input.
type syntheticTouchEvent struct {
	phase touchPhase
	id    TouchID
	pos   Vec2
	key   *KeyEvent
}

// InjectTouchBegan queues a touch-down at window coordinates. Injected
// events are consumed one per Poll, and real input is ignored while any are
// queued.
func (s *InputSource) InjectTouchBegan(id TouchID, x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticTouchEvent{phase: phaseBegan, id: id, pos: Vec2{x, y}})
}

// InjectTouchMoved queues a move of a touch previously began.
func (s *InputSource) InjectTouchMoved(id TouchID, x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticTouchEvent{phase: phaseMoved, id: id, pos: Vec2{x, y}})
}

// InjectTouchEnded queues a touch-up.
func (s *InputSource) InjectTouchEnded(id TouchID, x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticTouchEvent{phase: phaseEnded, id: id, pos: Vec2{x, y}})
}

// InjectTap queues a began and an ended phase at the same point using
// MouseTouchID. Consumes two frames.
func (s *InputSource) InjectTap(x, y float64) {
	s.InjectTouchBegan(MouseTouchID, x, y)
	s.InjectTouchEnded(MouseTouchID, x, y)
}

// InjectSwipe queues a full swipe: began at from, frames-2 linearly
// interpolated moves, and ended at to. Consumes frames frames (minimum 2).
func (s *InputSource) InjectSwipe(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.InjectTouchBegan(MouseTouchID, fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		s.InjectTouchMoved(MouseTouchID, fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	s.InjectTouchEnded(MouseTouchID, toX, toY)
}

// InjectKey queues a key press for the first responder.
func (s *InputSource) InjectKey(e KeyEvent) {
	s.injectQueue = append(s.injectQueue, syntheticTouchEvent{key: &e})
}

// PendingInjections returns the number of queued injected events.
func (s *InputSource) PendingInjections() int {
	return len(s.injectQueue)
}

// processInjected pops one event from the inject queue and dispatches it.
// Returns true if an event was consumed (real input is then skipped).
func (s *InputSource) processInjected() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	evt := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue[len(s.injectQueue)-1] = syntheticTouchEvent{}
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

	if evt.key != nil {
		s.dispatchKey(*evt.key)
		return true
	}
	s.touch(evt.phase, evt.id, evt.pos)
	s.flush()
	return true
}
