package bough

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSubviewSetsParent(t *testing.T) {
	a, b := NewView("a"), NewView("b")
	a.AddSubview(b)

	assert.Same(t, a, b.Parent())
	assert.Equal(t, []*View{b}, a.Subviews())
}

func TestAddSubviewReparents(t *testing.T) {
	a, b, c := NewView("a"), NewView("b"), NewView("c")
	a.AddSubview(c)
	b.AddSubview(c)

	assert.Same(t, b, c.Parent())
	assert.Equal(t, 0, a.NumSubviews())
	assert.Equal(t, 1, b.NumSubviews())
}

func TestAddSubviewTwiceMovesToTop(t *testing.T) {
	a, b, c := NewView("a"), NewView("b"), NewView("c")
	a.AddSubview(b)
	a.AddSubview(c)
	a.AddSubview(b)

	assert.Equal(t, []*View{c, b}, a.Subviews())
}

func TestAddSubviewCyclePanics(t *testing.T) {
	a, b := NewView("a"), NewView("b")
	a.AddSubview(b)

	assert.Panics(t, func() { b.AddSubview(a) })
	assert.Panics(t, func() { a.AddSubview(a) })
	assert.Panics(t, func() { a.AddSubview(nil) })
}

func TestInsertSubviewOrder(t *testing.T) {
	p := NewView("p")
	a, b, c := NewView("a"), NewView("b"), NewView("c")
	p.AddSubview(a)
	p.AddSubview(c)
	p.InsertSubview(b, 1)

	assert.Equal(t, []*View{a, b, c}, p.Subviews())

	p.BringToFront(a)
	assert.Equal(t, []*View{b, c, a}, p.Subviews())
	p.SendToBack(a)
	assert.Equal(t, []*View{a, b, c}, p.Subviews())
}

func TestRemoveSubviewNotChildPanics(t *testing.T) {
	a, b := NewView("a"), NewView("b")
	assert.Panics(t, func() { a.RemoveSubview(b) })
}

func TestWorldPosFollowsAncestors(t *testing.T) {
	a, b, c := NewView("a"), NewView("b"), NewView("c")
	a.SetPos(Vec2{10, 20})
	b.SetPos(Vec2{5, 5})
	c.SetPos(Vec2{1, 2})
	a.AddSubview(b)
	b.AddSubview(c)

	assert.Equal(t, Vec2{16, 27}, c.WorldPos())

	a.SetPos(Vec2{100, 100})
	assert.Equal(t, Vec2{106, 107}, c.WorldPos())

	b.RemoveFromSuperview()
	assert.Equal(t, Vec2{6, 7}, c.WorldPos())
}

func TestSetPosAndSizeIgnoreSubEpsilonChanges(t *testing.T) {
	p, v := NewView("p"), NewView("v")
	p.AddSubview(v)
	v.SetBounds(Rect{10, 20, 30, 40})
	p.LayoutIfNeeded()
	v.WorldPos()
	require.False(t, v.needsLayout)
	require.False(t, v.worldPosDirty)
	require.False(t, p.layoutPending)

	v.SetPos(Vec2{10 + 1e-5, 20 - 1e-5})
	v.SetSize(Size{30 + 1e-5, 40})
	assert.False(t, v.worldPosDirty)
	assert.False(t, v.needsLayout)
	assert.False(t, p.layoutPending)
	assert.Equal(t, Vec2{10, 20}, v.Pos())
	assert.Equal(t, Size{30, 40}, v.Size())

	v.SetPos(Vec2{10.5, 20})
	assert.True(t, v.worldPosDirty)
	v.SetSize(Size{31, 40})
	assert.True(t, v.needsLayout)
	assert.True(t, p.layoutPending)
	assert.Equal(t, Vec2{10.5, 20}, v.WorldPos())
}

func TestWindowLocalRoundTrip(t *testing.T) {
	a, b := NewView("a"), NewView("b")
	a.SetPos(Vec2{30, 40})
	b.SetPos(Vec2{5, 6})
	a.AddSubview(b)

	l := b.WindowToLocal(Vec2{50, 50})
	assert.Equal(t, Vec2{15, 4}, l)
	assert.Equal(t, Vec2{50, 50}, b.LocalToWindow(l))
}

func TestSetSizeNegativePanics(t *testing.T) {
	assert.Panics(t, func() { NewView("v").SetSize(Size{-1, 1}) })
}

func TestRemovalDuringIterationIsDeferred(t *testing.T) {
	p := NewView("p")
	a, b, c := NewView("a"), NewView("b"), NewView("c")
	p.AddSubview(a)
	p.AddSubview(b)
	p.AddSubview(c)

	var visited []string
	p.Walk(func(v *View) bool {
		visited = append(visited, v.Name)
		if v == a {
			p.RemoveSubview(b)
			assert.True(t, b.IsMarkedForRemoval())
			assert.Equal(t, 3, p.NumSubviews(), "removal is deferred while iterating")
		}
		return true
	})

	assert.Equal(t, []string{"p", "a", "c"}, visited)
	assert.Equal(t, []*View{a, c}, p.Subviews())
	assert.Nil(t, b.Parent())
	assert.False(t, b.IsMarkedForRemoval())
}

func TestAddDuringIterationIsNotVisited(t *testing.T) {
	p := NewView("p")
	a := NewView("a")
	p.AddSubview(a)
	late := NewView("late")

	var visited []string
	p.Walk(func(v *View) bool {
		visited = append(visited, v.Name)
		if v == a {
			p.AddSubview(late)
		}
		return true
	})

	assert.Equal(t, []string{"p", "a"}, visited)
	assert.Equal(t, []*View{a, late}, p.Subviews())
}

func TestReAddMarkedViewCancelsRemoval(t *testing.T) {
	p, a := NewView("p"), NewView("a")
	p.AddSubview(a)

	p.Walk(func(v *View) bool {
		if v == a {
			p.RemoveSubview(a)
			p.AddSubview(a)
		}
		return true
	})

	assert.Same(t, p, a.Parent())
	assert.Equal(t, []*View{a}, p.Subviews())
}

func TestDisposeReleasesSubtree(t *testing.T) {
	g := NewGraph(Size{100, 100})
	a, b := NewView("a"), NewView("b")
	a.AddSubview(b)
	g.Root().AddSubview(a)
	require.Same(t, g, b.Graph())

	a.Dispose()

	assert.True(t, a.IsDisposed())
	assert.True(t, b.IsDisposed())
	assert.Nil(t, a.Parent())
	assert.Equal(t, 0, g.Root().NumSubviews())
	assert.Nil(t, b.Graph())
}

func TestLayoutRunsTopDown(t *testing.T) {
	var order []string
	p, c := NewView("p"), NewView("c")
	p.SetBehavior(layoutFunc(func() { order = append(order, "p") }))
	c.SetBehavior(layoutFunc(func() { order = append(order, "c") }))
	p.AddSubview(c)

	p.LayoutIfNeeded()
	assert.Equal(t, []string{"p", "c"}, order)

	order = nil
	p.LayoutIfNeeded()
	assert.Empty(t, order, "nothing is dirty")

	c.SetNeedsLayout()
	assert.True(t, c.NeedsLayout())
	p.LayoutIfNeeded()
	assert.Equal(t, []string{"c"}, order)
}

func TestFillParentTracksParentSize(t *testing.T) {
	p, c := NewView("p"), NewView("c")
	p.SetSize(Size{100, 50})
	c.SetPos(Vec2{7, 7})
	c.SetFillParent(true)
	p.AddSubview(c)

	p.LayoutIfNeeded()
	assert.Equal(t, Rect{0, 0, 100, 50}, c.Frame())

	p.SetSize(Size{200, 80})
	p.LayoutIfNeeded()
	assert.Equal(t, Size{200, 80}, c.Size())
}

func TestUpdateStepsAnimations(t *testing.T) {
	g := NewGraph(Size{100, 100})
	v := NewView("v")
	g.Root().AddSubview(v)

	v.AnimatePos(Vec2{100, 0}, 1, nil)
	assert.True(t, v.IsAnimating())

	for range 70 {
		g.UpdateWithDelta(1.0 / 60)
	}
	assert.False(t, v.IsAnimating())
	assert.Equal(t, Vec2{100, 0}, v.Pos())
	assert.Equal(t, Vec2{100, 0}, v.WorldPos())
}

func TestCombinedAlpha(t *testing.T) {
	a, b := NewView("a"), NewView("b")
	a.SetAlpha(0.5)
	b.SetAlpha(0.5)
	a.AddSubview(b)

	assert.InDelta(t, 0.25, b.CombinedAlpha(), 1e-9)
	assert.True(t, b.IsTransparent())

	a.SetAlpha(2)
	assert.Equal(t, 1.0, a.Alpha())
}

type layoutFunc func()

func (f layoutFunc) Layout() { f() }
