package bough

// PropagateTouchesBegan dispatches a began phase. Each touch is offered
// front-to-back to the views under it; the deepest frontmost view whose
// TouchesBegan claims a touch becomes its owner. The event's Handled flag is
// set once every touch has an owner. Returns e.Handled.
func (g *Graph) PropagateTouchesBegan(e *TouchEvent) bool {
	if e.Len() == 0 {
		return false
	}
	g.touchesBegan(g.root, e.Touches)
	e.Handled = e.allHandled()
	return e.Handled
}

func (g *Graph) touchesBegan(v *View, touches []*Touch) {
	if v.hidden || !v.interactive || v.disposed {
		return
	}
	var hits []*Touch
	for _, t := range touches {
		if !t.Handled && v.HitTest(t.Pos) {
			hits = append(hits, t)
		}
	}
	if len(hits) == 0 {
		return
	}

	subs := v.beginIterating()
	for i := len(subs) - 1; i >= 0; i-- {
		sv := subs[i]
		if !v.live(sv) {
			continue
		}
		g.touchesBegan(sv, hits)
		if allHandled(hits) {
			break
		}
	}
	v.endIterating()

	if v.responder == nil || v.markedForRemoval || v.disposed {
		return
	}
	remaining := unhandled(hits)
	if len(remaining) == 0 {
		return
	}
	v.responder.TouchesBegan(&TouchEvent{Touches: remaining})
	for _, t := range remaining {
		if !t.Handled {
			continue
		}
		if v.activeTouches == nil {
			v.activeTouches = make(map[TouchID]*Touch)
		}
		v.activeTouches[t.ID] = t
		g.emitTouch(EventTouchBegan, v, t)
	}
}

// PropagateTouchesMoved dispatches a moved phase. No hit testing is done:
// each touch goes only to the view that claimed it in the began phase.
// Returns whether every touch reached an owner.
func (g *Graph) PropagateTouchesMoved(e *TouchEvent) bool {
	return g.propagateContinuing(e, false)
}

// PropagateTouchesEnded dispatches an ended phase to the owners of the
// touches, then forgets the ownership. Returns whether every touch reached
// an owner.
func (g *Graph) PropagateTouchesEnded(e *TouchEvent) bool {
	return g.propagateContinuing(e, true)
}

func (g *Graph) propagateContinuing(e *TouchEvent, ended bool) bool {
	if e.Len() == 0 {
		return false
	}
	g.touchBuf = append(g.touchBuf[:0], e.Touches...)
	rest := g.touchesContinuing(g.root, g.touchBuf, ended)
	clear(g.touchBuf)
	e.Handled = len(rest) == 0
	return e.Handled
}

// touchesContinuing removes the touches v owns from the working set, lets
// the subtree consume the rest front-to-back, then delivers v's own touches.
// Returns the touches still unowned.
func (g *Graph) touchesContinuing(v *View, working []*Touch, ended bool) []*Touch {
	var mine []*Touch
	if len(v.activeTouches) > 0 {
		rest := working[:0]
		for _, t := range working {
			if _, ok := v.activeTouches[t.ID]; ok {
				mine = append(mine, t)
			} else {
				rest = append(rest, t)
			}
		}
		working = rest
	}

	if len(working) > 0 {
		subs := v.beginIterating()
		for i := len(subs) - 1; i >= 0 && len(working) > 0; i-- {
			sv := subs[i]
			if v.live(sv) {
				working = g.touchesContinuing(sv, working, ended)
			}
		}
		v.endIterating()
	}

	if len(mine) > 0 {
		for _, t := range mine {
			t.Handled = true
			if ended {
				delete(v.activeTouches, t.ID)
			} else {
				v.activeTouches[t.ID] = t
			}
		}
		ev := &TouchEvent{Touches: mine, Handled: true}
		typ := EventTouchMoved
		if ended {
			typ = EventTouchEnded
		}
		if v.responder != nil {
			if ended {
				v.responder.TouchesEnded(ev)
			} else {
				v.responder.TouchesMoved(ev)
			}
		}
		for _, t := range mine {
			g.emitTouch(typ, v, t)
		}
	}
	return working
}

func allHandled(touches []*Touch) bool {
	for _, t := range touches {
		if !t.Handled {
			return false
		}
	}
	return true
}

func unhandled(touches []*Touch) []*Touch {
	var out []*Touch
	for _, t := range touches {
		if !t.Handled {
			out = append(out, t)
		}
	}
	return out
}
