package bough

import (
	"fmt"
	"image"
	"math"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// Filter is a multi-pass post-process effect applied to a view's layer.
//
// Configure declares the passes and their output sizes for content of the
// given size. Process renders one pass: the renderer's current target is the
// pass output, with the local origin at the output's top-left pixel.
type Filter interface {
	Configure(size Size, info *PassInfo)
	Process(r *Renderer, pass *Pass)
}

// Padder is implemented by filters that draw outside the content bounds
// (blur radius, outline thickness). The layer grows its buffer by the sum of
// the paddings in the chain.
type Padder interface {
	Padding() float64
}

// PassInfo collects the pass sizes declared by Filter.Configure.
type PassInfo struct {
	sizes []Size
}

// AddPass declares a pass that renders into a buffer of the given size.
func (p *PassInfo) AddPass(size Size) {
	p.sizes = append(p.sizes, size)
}

// NumPasses returns the number of declared passes.
func (p *PassInfo) NumPasses() int {
	return len(p.sizes)
}

// PassSize returns the output size of pass i.
func (p *PassInfo) PassSize(i int) Size {
	return p.sizes[i]
}

func (p *PassInfo) reset() {
	p.sizes = p.sizes[:0]
}

// Pass is one step of a filter chain. Input holds the previous pass output
// (or the layer's content for the first pass of the first filter); only its
// top-left InputSize region is valid.
type Pass struct {
	Index     int
	Size      Size
	Input     *FrameBuffer
	InputSize Size
	Output    *FrameBuffer
}

// InputImage returns the valid region of the input buffer.
func (p *Pass) InputImage() *ebiten.Image {
	w, h := p.InputSize.Pixels()
	return p.Input.image.SubImage(image.Rect(0, 0, w, h)).(*ebiten.Image)
}

// DrawInput draws the input stretched over the whole pass output.
func (p *Pass) DrawInput(r *Renderer) {
	r.DrawImageRect(p.InputImage(), Rect{0, 0, p.Size.Width, p.Size.Height})
}

// filterChainPadding returns the cumulative padding of a filter chain.
func filterChainPadding(filters []Filter) float64 {
	pad := 0.0
	for _, f := range filters {
		if p, ok := f.(Padder); ok {
			pad += p.Padding()
		}
	}
	return pad
}

// --- Kage shader sources ---
// Ebitengine uses premultiplied alpha; shaders un-premultiply before
// processing and re-premultiply the output.

const colorMatrixShaderSrc = `//kage:unit pixels
package main

var Matrix [20]float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	if c.a > 0 {
		c.rgb /= c.a
	}
	r := Matrix[0]*c.r + Matrix[1]*c.g + Matrix[2]*c.b + Matrix[3]*c.a + Matrix[4]
	g := Matrix[5]*c.r + Matrix[6]*c.g + Matrix[7]*c.b + Matrix[8]*c.a + Matrix[9]
	b := Matrix[10]*c.r + Matrix[11]*c.g + Matrix[12]*c.b + Matrix[13]*c.a + Matrix[14]
	a := Matrix[15]*c.r + Matrix[16]*c.g + Matrix[17]*c.b + Matrix[18]*c.a + Matrix[19]
	r = clamp(r, 0, 1)
	g = clamp(g, 0, 1)
	b = clamp(b, 0, 1)
	a = clamp(a, 0, 1)
	return vec4(r*a, g*a, b*a, a)
}
`

const outlineShaderSrc = `//kage:unit pixels
package main

var OutlineColor vec4

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	if c.a > 0 {
		return c
	}
	if imageSrc0At(src + vec2(1, 0)).a > 0 ||
		imageSrc0At(src + vec2(-1, 0)).a > 0 ||
		imageSrc0At(src + vec2(0, 1)).a > 0 ||
		imageSrc0At(src + vec2(0, -1)).a > 0 {
		return OutlineColor
	}
	return vec4(0)
}
`

// Shaders compile lazily on first use; the render loop is single-threaded.
var (
	colorMatrixShader *ebiten.Shader
	outlineShader     *ebiten.Shader
)

func ensureShader(dst **ebiten.Shader, src, name string) *ebiten.Shader {
	if *dst == nil {
		s, err := ebiten.NewShader([]byte(src))
		if err != nil {
			panic("bough: failed to compile " + name + " shader: " + err.Error())
		}
		*dst = s
	}
	return *dst
}

// --- BlurFilter ---

// BlurFilter blurs by repeatedly halving the content and scaling it back up
// with bilinear filtering. Each halving is one pass, each doubling another.
type BlurFilter struct {
	Radius float64
}

// NewBlurFilter creates a blur filter with the given radius in pixels.
func NewBlurFilter(radius float64) *BlurFilter {
	return &BlurFilter{Radius: math.Max(radius, 0)}
}

// Configure declares ceil(log2(radius)) downsample passes, the matching
// upsample passes and a final pass at full size.
func (f *BlurFilter) Configure(size Size, info *PassInfo) {
	n := f.levels()
	sizes := make([]Size, 0, n)
	s := size
	for range n {
		s = Size{math.Max(math.Floor(s.Width/2), 1), math.Max(math.Floor(s.Height/2), 1)}
		sizes = append(sizes, s)
		info.AddPass(s)
	}
	for i := n - 2; i >= 0; i-- {
		info.AddPass(sizes[i])
	}
	info.AddPass(size)
}

func (f *BlurFilter) levels() int {
	if f.Radius <= 1 {
		if f.Radius > 0 {
			return 1
		}
		return 0
	}
	return int(math.Ceil(math.Log2(f.Radius)))
}

// Process scales the input into the pass output.
func (f *BlurFilter) Process(r *Renderer, pass *Pass) {
	pass.DrawInput(r)
}

// Padding returns the blur radius.
func (f *BlurFilter) Padding() float64 { return f.Radius }

// --- ColorMatrixFilter ---

// ColorMatrixFilter applies a 4x5 color matrix in a single shader pass.
// The matrix is row-major: [R_r, R_g, R_b, R_a, R_offset, G_r, ...].
type ColorMatrixFilter struct {
	Matrix [20]float64

	uniforms  map[string]any
	matrixF32 [20]float32
	shaderOp  ebiten.DrawRectShaderOptions
}

// NewColorMatrixFilter creates a color matrix filter set to the identity.
func NewColorMatrixFilter() *ColorMatrixFilter {
	f := &ColorMatrixFilter{uniforms: make(map[string]any, 1)}
	f.uniforms["Matrix"] = f.matrixF32[:]
	f.Matrix[0] = 1
	f.Matrix[6] = 1
	f.Matrix[12] = 1
	f.Matrix[18] = 1
	return f
}

// SetBrightness offsets every color channel by b in [-1, 1].
func (f *ColorMatrixFilter) SetBrightness(b float64) {
	f.Matrix = [20]float64{
		1, 0, 0, 0, b,
		0, 1, 0, 0, b,
		0, 0, 1, 0, b,
		0, 0, 0, 1, 0,
	}
}

// SetSaturation scales saturation. 1 is unchanged, 0 is grayscale.
func (f *ColorMatrixFilter) SetSaturation(s float64) {
	sr := (1 - s) * 0.299
	sg := (1 - s) * 0.587
	sb := (1 - s) * 0.114
	f.Matrix = [20]float64{
		sr + s, sg, sb, 0, 0,
		sr, sg + s, sb, 0, 0,
		sr, sg, sb + s, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Configure declares one pass at content size.
func (f *ColorMatrixFilter) Configure(size Size, info *PassInfo) {
	info.AddPass(size)
}

// Process runs the matrix shader over the input.
func (f *ColorMatrixFilter) Process(r *Renderer, pass *Pass) {
	shader := ensureShader(&colorMatrixShader, colorMatrixShaderSrc, "color matrix")
	for i, v := range f.Matrix {
		f.matrixF32[i] = float32(v)
	}
	f.shaderOp.Images[0] = pass.InputImage()
	f.shaderOp.Uniforms = f.uniforms
	r.DrawRectShader(pass.InputSize, shader, &f.shaderOp)
}

// --- TintFilter ---

// TintFilter multiplies the content by a color.
type TintFilter struct {
	Color Color
}

// NewTintFilter creates a tint filter.
func NewTintFilter(c Color) *TintFilter {
	return &TintFilter{Color: c}
}

// Configure declares one pass at content size.
func (f *TintFilter) Configure(size Size, info *PassInfo) {
	info.AddPass(size)
}

// Process draws the input with the tint color pushed.
func (f *TintFilter) Process(r *Renderer, pass *Pass) {
	r.PushColor(f.Color)
	pass.DrawInput(r)
	r.PopColor()
}

// --- OutlineFilter ---

// OutlineFilter draws a one pixel outline around opaque content.
type OutlineFilter struct {
	Color Color

	uniforms map[string]any
	colorF32 [4]float32
	shaderOp ebiten.DrawRectShaderOptions
}

// NewOutlineFilter creates an outline filter.
func NewOutlineFilter(c Color) *OutlineFilter {
	f := &OutlineFilter{Color: c, uniforms: make(map[string]any, 1)}
	f.uniforms["OutlineColor"] = f.colorF32[:]
	return f
}

// Configure declares one pass at content size.
func (f *OutlineFilter) Configure(size Size, info *PassInfo) {
	info.AddPass(size)
}

// Process runs the outline shader over the input.
func (f *OutlineFilter) Process(r *Renderer, pass *Pass) {
	shader := ensureShader(&outlineShader, outlineShaderSrc, "outline")
	f.colorF32[0] = float32(f.Color.R * f.Color.A)
	f.colorF32[1] = float32(f.Color.G * f.Color.A)
	f.colorF32[2] = float32(f.Color.B * f.Color.A)
	f.colorF32[3] = float32(f.Color.A)
	f.shaderOp.Images[0] = pass.InputImage()
	f.shaderOp.Uniforms = f.uniforms
	r.DrawRectShader(pass.InputSize, shader, &f.shaderOp)
}

// Padding returns 1; the outline extends one pixel past the content.
func (f *OutlineFilter) Padding() float64 { return 1 }

// --- CustomShaderFilter ---

// CustomShaderFilter runs a user-provided Kage shader in one pass.
// Images[0] is filled with the pass input; Images[1] and Images[2] may be
// set by the caller and must match the content size.
type CustomShaderFilter struct {
	Shader   *ebiten.Shader
	Uniforms map[string]any
	Images   [3]*ebiten.Image
	padding  float64
	shaderOp ebiten.DrawRectShaderOptions
}

// NewCustomShaderFilter creates a filter around a compiled shader.
func NewCustomShaderFilter(shader *ebiten.Shader, padding float64) *CustomShaderFilter {
	return &CustomShaderFilter{
		Shader:   shader,
		Uniforms: make(map[string]any),
		padding:  padding,
	}
}

// CompileCustomShaderFilter compiles Kage source and wraps it in a filter.
func CompileCustomShaderFilter(src []byte, padding float64) (*CustomShaderFilter, error) {
	s, err := ebiten.NewShader(src)
	if err != nil {
		return nil, fmt.Errorf("compile custom shader: %w", err)
	}
	return NewCustomShaderFilter(s, padding), nil
}

// Configure declares one pass at content size.
func (f *CustomShaderFilter) Configure(size Size, info *PassInfo) {
	info.AddPass(size)
}

// Process runs the shader with the pass input as Images[0].
func (f *CustomShaderFilter) Process(r *Renderer, pass *Pass) {
	f.shaderOp.Images[0] = pass.InputImage()
	f.shaderOp.Images[1] = f.Images[1]
	f.shaderOp.Images[2] = f.Images[2]
	f.shaderOp.Uniforms = f.Uniforms
	r.DrawRectShader(pass.InputSize, f.Shader, &f.shaderOp)
}

// Padding returns the padding given at construction.
func (f *CustomShaderFilter) Padding() float64 { return f.padding }

// --- Registry ---

var filterRegistry = map[string]func() Filter{}

func init() {
	RegisterFilter("blur", func() Filter { return NewBlurFilter(4) })
	RegisterFilter("grayscale", func() Filter {
		f := NewColorMatrixFilter()
		f.SetSaturation(0)
		return f
	})
	RegisterFilter("dim", func() Filter { return NewTintFilter(Color{0.5, 0.5, 0.5, 1}) })
	RegisterFilter("outline", func() Filter { return NewOutlineFilter(ColorWhite) })
}

// RegisterFilter makes a filter constructor available to NewFilterByName.
// Registering a name twice replaces the previous constructor.
func RegisterFilter(name string, factory func() Filter) {
	if name == "" || factory == nil {
		panic("bough: filter registration needs a name and a factory")
	}
	filterRegistry[name] = factory
}

// NewFilterByName creates a registered filter. Panics if name is unknown.
func NewFilterByName(name string) Filter {
	factory, ok := filterRegistry[name]
	if !ok {
		panic("bough: unregistered filter " + name)
	}
	return factory()
}

// RegisteredFilters returns the registered filter names, sorted.
func RegisteredFilters() []string {
	names := make([]string, 0, len(filterRegistry))
	for name := range filterRegistry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
