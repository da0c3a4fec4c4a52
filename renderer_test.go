package bough

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T, w, h int) *Renderer {
	t.Helper()
	screen := ebiten.NewImage(w, h)
	t.Cleanup(screen.Deallocate)
	r := NewRenderer(nil)
	r.Begin(screen)
	return r
}

func TestRendererBalancedFrame(t *testing.T) {
	r := newTestRenderer(t, 64, 64)
	r.PushColor(Color{1, 0, 0, 1})
	r.PushAlpha(0.5)
	r.PushClip(Rect{0, 0, 10, 10})
	r.DrawSolidRect(Rect{0, 0, 5, 5})
	r.PopClip()
	r.PopAlpha()
	r.PopColor()

	assert.NotPanics(t, r.End)
	assert.Equal(t, 1, r.DrawCalls())
}

func TestRendererEndPanicsWhenUnbalanced(t *testing.T) {
	r := newTestRenderer(t, 8, 8)
	r.PushColor(ColorWhite)
	assert.Panics(t, r.End)
}

func TestRendererUnderflowPanics(t *testing.T) {
	r := newTestRenderer(t, 8, 8)
	assert.Panics(t, r.PopColor)
	assert.Panics(t, r.PopAlpha)
	assert.Panics(t, r.PopBlendMode)
	assert.Panics(t, r.PopClip)
	assert.Panics(t, r.PopOrigin)
	assert.Panics(t, r.PopTarget)
}

func TestRendererAlphaMultiplies(t *testing.T) {
	r := newTestRenderer(t, 8, 8)
	r.PushAlpha(0.5)
	r.PushAlpha(0.5)
	assert.Equal(t, 0.25, r.Alpha())
	r.PopAlpha()
	assert.Equal(t, 0.5, r.Alpha())
}

func TestRendererClipIntersects(t *testing.T) {
	r := newTestRenderer(t, 100, 100)
	assert.Equal(t, Rect{0, 0, 100, 100}, r.ClipRect())

	r.PushOrigin(Vec2{20, 30})
	r.PushClip(Rect{0, 0, 50, 50})
	assert.Equal(t, Rect{20, 30, 50, 50}, r.ClipRect())

	r.PushClip(Rect{40, 40, 100, 100})
	assert.Equal(t, Rect{60, 70, 10, 10}, r.ClipRect())

	r.PopClip()
	r.PopClip()
	r.PopOrigin()
	assert.NotPanics(t, r.End)
}

func TestRendererEmptyClipSkipsDraws(t *testing.T) {
	r := newTestRenderer(t, 100, 100)
	r.PushClip(Rect{200, 200, 10, 10})
	r.DrawSolidRect(Rect{0, 0, 50, 50})
	r.PopClip()
	assert.Equal(t, 0, r.DrawCalls())
}

func TestRendererOffscreenTarget(t *testing.T) {
	r := newTestRenderer(t, 100, 100)
	fb := r.Pool().Acquire(32, 32)

	r.PushTarget(fb, Vec2{10, 10})
	assert.True(t, r.IsOffscreen())
	assert.Equal(t, Vec2{10, 10}, r.TargetOrigin())
	assert.Equal(t, Rect{0, 0, 32, 32}, r.ClipRect())

	r.PushOrigin(Vec2{15, 15})
	r.PushClip(Rect{0, 0, 4, 4})
	assert.Equal(t, Rect{5, 5, 4, 4}, r.ClipRect(), "clips are in target space")
	r.PopClip()
	r.PopOrigin()

	r.PopTarget()
	assert.False(t, r.IsOffscreen())
	r.Pool().Release(fb)

	assert.Panics(t, func() { r.PushTarget(fb, Vec2{}) }, "released buffers cannot be targets")
}

func TestFrameBufferPoolReuse(t *testing.T) {
	var p FrameBufferPool
	a := p.Acquire(16, 8)
	b := p.Acquire(16, 8)
	require.NotSame(t, a, b)
	assert.True(t, a.InUse())
	assert.Equal(t, Size{16, 8}, a.Size())

	total, inUse := p.Stats()
	assert.Equal(t, 2, total)
	assert.Equal(t, 2, inUse)

	p.Release(a)
	assert.Same(t, a, p.Acquire(16, 8))

	c := p.Acquire(8, 16)
	assert.NotSame(t, a, c, "sizes are matched exactly")
	total, _ = p.Stats()
	assert.Equal(t, 3, total)
}

func TestFrameBufferPoolCheckout(t *testing.T) {
	var p FrameBufferPool
	fb := p.Acquire(4, 4)
	assert.False(t, p.Checkout(fb), "already in use")

	p.Release(fb)
	assert.True(t, p.Checkout(fb))
	assert.False(t, p.Checkout(nil))
}

func TestFrameBufferPoolPurge(t *testing.T) {
	var p FrameBufferPool
	kept := p.Acquire(4, 4)
	dropped := p.Acquire(4, 4)
	p.Release(dropped)

	p.Purge()
	total, inUse := p.Stats()
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, inUse)
	assert.True(t, kept.InUse())
	assert.False(t, p.Checkout(dropped), "purged buffers cannot come back")
}

func TestFrameBufferPoolRejectsEmpty(t *testing.T) {
	var p FrameBufferPool
	assert.Panics(t, func() { p.Acquire(0, 4) })
}
