package bough

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
)

func TestRectContainsEdges(t *testing.T) {
	r := Rect{10, 10, 20, 20}
	assert.True(t, r.Contains(10, 10))
	assert.True(t, r.Contains(30, 30))
	assert.False(t, r.Contains(30.01, 20))
	assert.False(t, r.ContainsPoint(Vec2{9, 20}))
}

func TestRectIntersect(t *testing.T) {
	a := Rect{0, 0, 20, 20}
	assert.Equal(t, Rect{10, 5, 10, 15}, a.Intersect(Rect{10, 5, 40, 40}))

	disjoint := a.Intersect(Rect{50, 50, 10, 10})
	assert.True(t, disjoint.Empty())
	assert.True(t, a.Intersects(Rect{20, 0, 5, 5}), "shared edge counts")
}

func TestRectUnionAndInflate(t *testing.T) {
	assert.Equal(t, Rect{-5, 0, 25, 30}, Rect{0, 0, 20, 20}.Union(Rect{-5, 10, 10, 20}))
	assert.Equal(t, Rect{-2, -2, 14, 9}, Rect{0, 0, 10, 5}.Inflate(2))
	assert.Equal(t, Rect{3, 4, 10, 5}, Rect{0, 0, 10, 5}.Translate(Vec2{3, 4}))
}

func TestRectClosestPoint(t *testing.T) {
	r := Rect{0, 0, 100, 50}
	tests := []struct {
		p, want Vec2
	}{
		{Vec2{10, 10}, Vec2{10, 10}},
		{Vec2{-10, 10}, Vec2{0, 10}},
		{Vec2{150, 70}, Vec2{100, 50}},
		{Vec2{50, -1}, Vec2{50, 0}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.ClosestPoint(tt.p), "closest to %v", tt.p)
	}

	// Degenerate rectangles collapse to a line or a point.
	assert.Equal(t, Vec2{320, 0}, Rect{320, 0, 0, 0}.ClosestPoint(Vec2{400, 30}))
	assert.Equal(t, Vec2{0, 25}, Rect{0, 0, 0, 100}.ClosestPoint(Vec2{-40, 25}))
}

func TestVec2ClampLen(t *testing.T) {
	assert.Equal(t, Vec2{3, 4}, Vec2{3, 4}.ClampLen(10))
	c := Vec2{30, 40}.ClampLen(5)
	assert.InDelta(t, 3, c.X, 1e-12)
	assert.InDelta(t, 4, c.Y, 1e-12)
	assert.Equal(t, Vec2{}, Vec2{}.ClampLen(0))
}

func TestVec2Near(t *testing.T) {
	assert.True(t, Vec2{1, 1}.Near(Vec2{1.00001, 0.99999}, posEpsilon))
	assert.False(t, Vec2{1, 1}.Near(Vec2{1.1, 1}, posEpsilon))
}

func TestColorWithAlpha(t *testing.T) {
	assert.Equal(t, Color{1, 0.5, 0, 0.25}, Color{1, 0.5, 0, 0.5}.WithAlpha(0.5))
}

func TestBlendModes(t *testing.T) {
	assert.Equal(t, ebiten.BlendSourceOver, BlendNormal.EbitenBlend())
	assert.Equal(t, ebiten.BlendLighter, BlendAdd.EbitenBlend())
	assert.Equal(t, ebiten.BlendDestinationOut, BlendErase.EbitenBlend())
	assert.Equal(t, ebiten.BlendCopy, BlendNone.EbitenBlend())
	assert.Equal(t, ebiten.BlendSourceOver, BlendMode(99).EbitenBlend())
}
