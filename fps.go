package bough

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// FPSView displays the current FPS and TPS. The text is refreshed about
// every half second.
type FPSView struct {
	*View

	img     *ebiten.Image
	elapsed float64
	dirty   bool
}

// NewFPSView creates a non-interactive overlay view sized for two lines of
// debug text.
func NewFPSView() *FPSView {
	f := &FPSView{View: NewView("fps"), dirty: true}
	f.SetSize(Size{100, 32})
	f.SetInteractive(false)
	f.SetBehavior(f)
	return f
}

// Update schedules a refresh every half second.
func (f *FPSView) Update(dt float64) {
	f.elapsed += dt
	if f.elapsed >= 0.5 {
		f.elapsed = 0
		f.dirty = true
	}
}

// Draw paints the cached text image.
func (f *FPSView) Draw(r *Renderer) {
	if f.img == nil {
		f.img = ebiten.NewImage(100, 32)
	}
	if f.dirty {
		f.dirty = false
		f.img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(f.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
	r.DrawImage(f.img, Vec2{})
}
