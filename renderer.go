package bough

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// WhitePixel is a 1x1 white image used for solid color primitives.
var WhitePixel *ebiten.Image

func init() {
	WhitePixel = ebiten.NewImage(1, 1)
	WhitePixel.Fill(ColorWhite.toRGBA())
}

// renderTarget is one entry of the target stack. origin is the window-space
// position that maps to the target's pixel (0, 0); clips are in target space.
type renderTarget struct {
	image  *ebiten.Image
	origin Vec2
	clips  []Rect
}

func (t *renderTarget) clip() Rect {
	return t.clips[len(t.clips)-1]
}

// Renderer is the stateful drawing surface handed to Drawers. It keeps
// stacks for render targets, colors, blend modes, alpha, the local origin
// and clip rectangles. All primitive coordinates are in the local space of
// the view being drawn.
type Renderer struct {
	pool *FrameBufferPool

	targets []renderTarget
	colors  []Color
	blends  []BlendMode
	alphas  []float64
	origins []Vec2

	op       ebiten.DrawImageOptions
	drawCall int
}

// NewRenderer creates a renderer that borrows offscreen buffers from pool.
func NewRenderer(pool *FrameBufferPool) *Renderer {
	if pool == nil {
		pool = &FrameBufferPool{}
	}
	return &Renderer{pool: pool}
}

// Pool returns the framebuffer pool.
func (r *Renderer) Pool() *FrameBufferPool {
	return r.pool
}

// Begin resets all stacks and binds screen as the window-space target.
func (r *Renderer) Begin(screen *ebiten.Image) {
	if screen == nil {
		panic("bough: renderer needs a screen image")
	}
	r.targets = r.targets[:0]
	r.colors = append(r.colors[:0], ColorWhite)
	r.blends = append(r.blends[:0], BlendNormal)
	r.alphas = append(r.alphas[:0], 1)
	r.origins = append(r.origins[:0], Vec2{})
	r.drawCall = 0
	r.pushTarget(screen, Vec2{})
}

// End checks that every push was popped.
func (r *Renderer) End() {
	if len(r.targets) != 1 || len(r.colors) != 1 || len(r.blends) != 1 ||
		len(r.alphas) != 1 || len(r.origins) != 1 || len(r.targets[0].clips) != 1 {
		panic("bough: unbalanced renderer stacks at end of frame")
	}
}

// DrawCalls returns the number of draw calls issued since Begin.
func (r *Renderer) DrawCalls() int {
	return r.drawCall
}

// --- Targets ---

// PushTarget makes fb the active target. origin is the window-space
// position that maps to the buffer's top-left pixel.
func (r *Renderer) PushTarget(fb *FrameBuffer, origin Vec2) {
	if fb == nil || !fb.inUse {
		panic("bough: render target must be a checked-out framebuffer")
	}
	r.pushTarget(fb.image, origin)
}

func (r *Renderer) pushTarget(img *ebiten.Image, origin Vec2) {
	b := img.Bounds()
	full := Rect{float64(b.Min.X), float64(b.Min.Y), float64(b.Dx()), float64(b.Dy())}
	r.targets = append(r.targets, renderTarget{image: img, origin: origin, clips: []Rect{full}})
}

// PopTarget restores the previous target.
func (r *Renderer) PopTarget() {
	if len(r.targets) <= 1 {
		panic("bough: renderer target stack underflow")
	}
	r.targets = r.targets[:len(r.targets)-1]
}

// IsOffscreen reports whether drawing currently goes into a framebuffer.
func (r *Renderer) IsOffscreen() bool {
	return len(r.targets) > 1
}

// TargetOrigin returns the window-space origin of the current target.
func (r *Renderer) TargetOrigin() Vec2 {
	return r.top().origin
}

func (r *Renderer) top() *renderTarget {
	return &r.targets[len(r.targets)-1]
}

// dst returns the current target restricted to the current clip, or nil
// when the clip is empty.
func (r *Renderer) dst() *ebiten.Image {
	t := r.top()
	c := t.clip()
	if c.Empty() {
		return nil
	}
	b := t.image.Bounds()
	rect := image.Rect(
		int(math.Floor(c.X)), int(math.Floor(c.Y)),
		int(math.Ceil(c.X+c.Width)), int(math.Ceil(c.Y+c.Height)),
	)
	if rect == b {
		return t.image
	}
	// SubImage keeps the parent's coordinate space, so draws need no offset.
	return t.image.SubImage(rect).(*ebiten.Image)
}

// Clear fills the current clip region with transparent black.
func (r *Renderer) Clear() {
	if d := r.dst(); d != nil {
		d.Clear()
	}
}

// --- Local origin ---

// PushOrigin sets the window-space origin of subsequent local coordinates.
func (r *Renderer) PushOrigin(window Vec2) {
	r.origins = append(r.origins, window)
}

// PopOrigin restores the previous origin.
func (r *Renderer) PopOrigin() {
	if len(r.origins) <= 1 {
		panic("bough: renderer origin stack underflow")
	}
	r.origins = r.origins[:len(r.origins)-1]
}

// toTarget converts a local point into current target space.
func (r *Renderer) toTarget(p Vec2) Vec2 {
	return p.Add(r.origins[len(r.origins)-1]).Sub(r.top().origin)
}

// --- Color, blend, alpha ---

// PushColor sets the fill color for primitives.
func (r *Renderer) PushColor(c Color) {
	r.colors = append(r.colors, c)
}

// PopColor restores the previous color.
func (r *Renderer) PopColor() {
	if len(r.colors) <= 1 {
		panic("bough: renderer color stack underflow")
	}
	r.colors = r.colors[:len(r.colors)-1]
}

// Color returns the current color.
func (r *Renderer) Color() Color {
	return r.colors[len(r.colors)-1]
}

// PushBlendMode sets the blend mode for subsequent draws.
func (r *Renderer) PushBlendMode(b BlendMode) {
	r.blends = append(r.blends, b)
}

// PopBlendMode restores the previous blend mode.
func (r *Renderer) PopBlendMode() {
	if len(r.blends) <= 1 {
		panic("bough: renderer blend stack underflow")
	}
	r.blends = r.blends[:len(r.blends)-1]
}

// BlendMode returns the current blend mode.
func (r *Renderer) BlendMode() BlendMode {
	return r.blends[len(r.blends)-1]
}

// PushAlpha multiplies the current alpha by a.
func (r *Renderer) PushAlpha(a float64) {
	r.alphas = append(r.alphas, r.Alpha()*a)
}

// PopAlpha restores the previous alpha.
func (r *Renderer) PopAlpha() {
	if len(r.alphas) <= 1 {
		panic("bough: renderer alpha stack underflow")
	}
	r.alphas = r.alphas[:len(r.alphas)-1]
}

// Alpha returns the accumulated alpha.
func (r *Renderer) Alpha() float64 {
	return r.alphas[len(r.alphas)-1]
}

// --- Clip ---

// PushClip intersects the clip with a local-space rectangle, converted into
// the current target's coordinate space.
func (r *Renderer) PushClip(local Rect) {
	p := r.toTarget(local.Pos())
	t := r.top()
	c := Rect{p.X, p.Y, local.Width, local.Height}.Intersect(t.clip())
	t.clips = append(t.clips, c)
}

// PopClip restores the previous clip.
func (r *Renderer) PopClip() {
	t := r.top()
	if len(t.clips) <= 1 {
		panic("bough: renderer clip stack underflow")
	}
	t.clips = t.clips[:len(t.clips)-1]
}

// ClipRect returns the current clip in target space.
func (r *Renderer) ClipRect() Rect {
	return r.top().clip()
}

// --- Primitives ---

// DrawSolidRect fills a local-space rectangle with the current color.
func (r *Renderer) DrawSolidRect(rect Rect) {
	if rect.Empty() {
		return
	}
	d := r.dst()
	if d == nil {
		return
	}
	p := r.toTarget(rect.Pos())
	op := r.resetOp()
	op.GeoM.Scale(rect.Width, rect.Height)
	op.GeoM.Translate(p.X, p.Y)
	r.applyColor(op, r.Color())
	d.DrawImage(WhitePixel, op)
	r.drawCall++
}

// DrawStrokedRect outlines a local-space rectangle with the current color.
// The stroke lies inside the rectangle.
func (r *Renderer) DrawStrokedRect(rect Rect, width float64) {
	if rect.Empty() || width <= 0 {
		return
	}
	d := r.dst()
	if d == nil {
		return
	}
	w := math.Min(width, math.Min(rect.Width, rect.Height)/2)
	p := r.toTarget(rect.Pos())
	c := r.Color().WithAlpha(r.Alpha())
	vector.StrokeRect(d,
		float32(p.X+w/2), float32(p.Y+w/2),
		float32(rect.Width-w), float32(rect.Height-w),
		float32(w), c.toRGBA(), false)
	r.drawCall++
}

// DrawImage draws img with its top-left corner at a local position.
func (r *Renderer) DrawImage(img *ebiten.Image, pos Vec2) {
	b := img.Bounds()
	r.DrawImageRect(img, Rect{pos.X, pos.Y, float64(b.Dx()), float64(b.Dy())})
}

// DrawImageRect draws img stretched into a local-space rectangle.
func (r *Renderer) DrawImageRect(img *ebiten.Image, dstRect Rect) {
	if img == nil || dstRect.Empty() {
		return
	}
	d := r.dst()
	if d == nil {
		return
	}
	b := img.Bounds()
	p := r.toTarget(dstRect.Pos())
	op := r.resetOp()
	op.GeoM.Translate(-float64(b.Min.X), -float64(b.Min.Y))
	op.GeoM.Scale(dstRect.Width/float64(b.Dx()), dstRect.Height/float64(b.Dy()))
	op.GeoM.Translate(p.X, p.Y)
	op.Filter = ebiten.FilterLinear
	r.applyColor(op, r.Color())
	d.DrawImage(img, op)
	r.drawCall++
}

// DrawFrameBuffer composites the top-left src region of fb into a
// local-space rectangle. Buffer contents are premultiplied, so alpha scales
// every channel.
func (r *Renderer) DrawFrameBuffer(fb *FrameBuffer, src Size, dstRect Rect, alpha float64) {
	if fb == nil || fb.image == nil {
		return
	}
	sw, sh := src.Pixels()
	sw = min(sw, fb.width)
	sh = min(sh, fb.height)
	sub := fb.image.SubImage(image.Rect(0, 0, sw, sh)).(*ebiten.Image)
	r.PushColor(Color{1, 1, 1, alpha})
	r.DrawImageRect(sub, dstRect)
	r.PopColor()
}

// DrawRectShader runs shader over a local-space rectangle of the given size
// at the local origin. op.Images must match that size.
func (r *Renderer) DrawRectShader(size Size, shader *ebiten.Shader, op *ebiten.DrawRectShaderOptions) {
	d := r.dst()
	if d == nil || shader == nil {
		return
	}
	w, h := size.Pixels()
	p := r.toTarget(Vec2{})
	op.GeoM.Reset()
	op.GeoM.Translate(p.X, p.Y)
	op.ColorScale.Reset()
	a := r.Alpha()
	op.ColorScale.Scale(float32(a), float32(a), float32(a), float32(a))
	op.Blend = r.BlendMode().EbitenBlend()
	d.DrawRectShader(w, h, shader, op)
	r.drawCall++
}

// pushAlphaValue pushes an absolute alpha, ignoring the accumulated value.
// Layers use it so offscreen content starts fully opaque.
func (r *Renderer) pushAlphaValue(a float64) {
	r.alphas = append(r.alphas, a)
}

func (r *Renderer) resetOp() *ebiten.DrawImageOptions {
	op := &r.op
	op.GeoM.Reset()
	op.ColorScale.Reset()
	op.Filter = ebiten.FilterNearest
	op.Blend = r.BlendMode().EbitenBlend()
	return op
}

// applyColor multiplies c by the accumulated alpha and premultiplies it.
func (r *Renderer) applyColor(op *ebiten.DrawImageOptions, c Color) {
	a := c.A * r.Alpha()
	op.ColorScale.Scale(float32(c.R*a), float32(c.G*a), float32(c.B*a), float32(a))
}

// toRGBA converts a Color to a premultiplied colorRGBA.
func (c Color) toRGBA() colorRGBA {
	return colorRGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// colorRGBA implements the color.Color interface for image.Fill.
type colorRGBA struct {
	R, G, B, A uint8
}

func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = uint32(c.A) * 0x101
	return
}
