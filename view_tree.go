package bough

import "slices"

// --- Tree manipulation ---

// AddSubview appends sv on top of the existing subviews.
// If sv already has a parent, it is removed from that parent first.
// Panics if sv is nil, is v itself, or is an ancestor of v (cycle).
func (v *View) AddSubview(sv *View) {
	v.insertSubview(sv, -1)
}

// InsertSubview inserts sv at index in paint order (0 = bottom).
// Same reparenting and cycle-check behavior as AddSubview.
func (v *View) InsertSubview(sv *View, index int) {
	if index < 0 || index > len(v.subviews) {
		panic("bough: subview index out of range")
	}
	v.insertSubview(sv, index)
}

func (v *View) insertSubview(sv *View, index int) {
	if sv == nil {
		panic("bough: cannot add nil subview")
	}
	if globalDebug {
		debugCheckDisposed(v, "AddSubview (parent)")
		debugCheckDisposed(sv, "AddSubview (subview)")
	}
	if isAncestor(sv, v) {
		panic("bough: adding subview would create a cycle")
	}
	if sv.parent == v && !sv.markedForRemoval {
		// Re-adding only moves the view to the requested slot.
		if index < 0 || index >= len(v.subviews) {
			index = len(v.subviews) - 1
		}
		v.moveSubview(sv, index)
		return
	}
	if sv.parent != nil {
		sv.parent.detach(sv)
	}

	subs := v.mutableSubviews()
	if index < 0 || index >= len(subs) {
		subs = append(subs, sv)
	} else {
		subs = slices.Insert(subs, index, sv)
	}
	v.subviews = subs
	sv.parent = v
	sv.markedForRemoval = false
	sv.markWorldPosDirty()
	sv.setGraph(v.graph)
	sv.SetNeedsLayout()
	if globalDebug {
		debugCheckTreeDepth(sv)
		debugCheckChildCount(v)
	}
}

// RemoveSubview detaches sv from this view. While v is iterating its
// subviews (update, layout, draw or touch dispatch) the removal is deferred:
// sv is marked and physically removed when the iteration finishes.
// Panics if sv is not a subview of v.
func (v *View) RemoveSubview(sv *View) {
	if sv == nil || sv.parent != v {
		panic("bough: view is not a subview of this view")
	}
	if globalDebug {
		debugCheckDisposed(v, "RemoveSubview")
	}
	if v.iterating > 0 {
		sv.markedForRemoval = true
		v.pendingRemoval = true
		return
	}
	v.detach(sv)
}

// RemoveSubviewAt removes and returns the subview at index.
func (v *View) RemoveSubviewAt(index int) *View {
	if index < 0 || index >= len(v.subviews) {
		panic("bough: subview index out of range")
	}
	sv := v.subviews[index]
	v.RemoveSubview(sv)
	return sv
}

// RemoveFromSuperview detaches this view from its parent.
// No-op if the view has no parent.
func (v *View) RemoveFromSuperview() {
	if v.parent == nil {
		return
	}
	v.parent.RemoveSubview(v)
}

// RemoveAllSubviews detaches every subview. Subviews are NOT disposed.
func (v *View) RemoveAllSubviews() {
	for _, sv := range slices.Clone(v.subviews) {
		v.RemoveSubview(sv)
	}
}

// Subviews returns the subview list in paint order. The returned slice MUST
// NOT be mutated by the caller.
func (v *View) Subviews() []*View {
	return v.subviews
}

// NumSubviews returns the number of subviews.
func (v *View) NumSubviews() int {
	return len(v.subviews)
}

// SubviewAt returns the subview at index.
func (v *View) SubviewAt(index int) *View {
	if index < 0 || index >= len(v.subviews) {
		panic("bough: subview index out of range")
	}
	return v.subviews[index]
}

// IndexOf returns the paint-order index of sv, or -1.
func (v *View) IndexOf(sv *View) int {
	return slices.Index(v.subviews, sv)
}

// IsSubview reports whether sv is a direct subview of v.
func (v *View) IsSubview(sv *View) bool {
	return sv != nil && sv.parent == v
}

// BringToFront moves sv to the top of the paint order.
func (v *View) BringToFront(sv *View) {
	v.moveSubview(sv, len(v.subviews)-1)
}

// SendToBack moves sv to the bottom of the paint order.
func (v *View) SendToBack(sv *View) {
	v.moveSubview(sv, 0)
}

func (v *View) moveSubview(sv *View, index int) {
	if sv == nil || sv.parent != v {
		panic("bough: view is not a subview of this view")
	}
	old := v.IndexOf(sv)
	if old == index {
		return
	}
	subs := v.mutableSubviews()
	subs = slices.Delete(subs, old, old+1)
	subs = slices.Insert(subs, index, sv)
	v.subviews = subs
}

// Walk calls fn for v and every descendant in paint order, parent first.
// Returning false from fn skips that view's subtree.
func (v *View) Walk(fn func(*View) bool) {
	if !fn(v) {
		return
	}
	subs := v.beginIterating()
	for _, sv := range subs {
		if v.live(sv) {
			sv.Walk(fn)
		}
	}
	v.endIterating()
}

// --- Helpers ---

// isAncestor reports whether candidate is view or one of its ancestors.
func isAncestor(candidate, view *View) bool {
	for p := view; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// mutableSubviews returns a subview slice safe to modify. While an iteration
// holds the current slice, the list is copied first so the iteration keeps
// seeing a stable snapshot.
func (v *View) mutableSubviews() []*View {
	if v.iterating > 0 {
		return slices.Clone(v.subviews)
	}
	return v.subviews
}

// detach physically removes sv from the subview list and clears the
// bookkeeping that depends on its position in the tree.
func (v *View) detach(sv *View) {
	i := v.IndexOf(sv)
	if i < 0 {
		return
	}
	subs := v.mutableSubviews()
	copy(subs[i:], subs[i+1:])
	subs[len(subs)-1] = nil
	v.subviews = subs[:len(subs)-1]
	sv.parent = nil
	sv.markedForRemoval = false
	sv.markWorldPosDirty()
	sv.setGraph(nil)
}

// beginIterating and endIterating bracket every traversal of v.subviews.
// Removals requested in between are swept when the outermost traversal ends.
func (v *View) beginIterating() []*View {
	v.iterating++
	return v.subviews
}

func (v *View) endIterating() {
	v.iterating--
	if v.iterating == 0 && v.pendingRemoval {
		v.sweepRemoved()
	}
}

// sweepRemoved removes every subview marked for removal.
func (v *View) sweepRemoved() {
	v.pendingRemoval = false
	kept := v.subviews[:0]
	var removed []*View
	for _, sv := range v.subviews {
		if sv.markedForRemoval && sv.parent == v {
			removed = append(removed, sv)
			continue
		}
		kept = append(kept, sv)
	}
	clear(v.subviews[len(kept):])
	v.subviews = kept
	for _, sv := range removed {
		sv.parent = nil
		sv.markedForRemoval = false
		sv.markWorldPosDirty()
		sv.setGraph(nil)
	}
}

// live reports whether a subview taken from a snapshot still belongs to v
// and should be visited.
func (v *View) live(sv *View) bool {
	return sv.parent == v && !sv.markedForRemoval && !sv.disposed
}

// setGraph attaches or detaches a subtree from a graph. Layers and focus
// held by the subtree are released when it leaves a graph.
func (v *View) setGraph(g *Graph) {
	if v.graph == g {
		return
	}
	if v.graph != nil {
		v.graph.forgetView(v)
	}
	v.graph = g
	for _, sv := range v.subviews {
		if sv.parent == v {
			sv.setGraph(g)
		}
	}
}
