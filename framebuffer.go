package bough

import (
	"image"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
)

// FrameBuffer is an offscreen color target borrowed from a FrameBufferPool.
// It is "in use" while bound as the draw target of a layer or filter pass;
// outside of that window the pool may hand it to someone else.
type FrameBuffer struct {
	image         *ebiten.Image
	width, height int
	inUse         bool
}

// Image returns the underlying ebiten image.
func (fb *FrameBuffer) Image() *ebiten.Image {
	return fb.image
}

// Width returns the buffer width in pixels.
func (fb *FrameBuffer) Width() int { return fb.width }

// Height returns the buffer height in pixels.
func (fb *FrameBuffer) Height() int { return fb.height }

// Size returns the buffer size.
func (fb *FrameBuffer) Size() Size {
	return Size{float64(fb.width), float64(fb.height)}
}

// InUse reports whether the buffer is checked out.
func (fb *FrameBuffer) InUse() bool { return fb.inUse }

// Fits reports whether the buffer is at least w x h pixels.
func (fb *FrameBuffer) Fits(w, h int) bool {
	return fb.width >= w && fb.height >= h
}

// FrameBufferPool hands out offscreen buffers keyed by exact pixel size.
// Two requests of the same size return the same buffer only when the first
// was released in between. After warmup Acquire/Release are zero-alloc.
type FrameBufferPool struct {
	buckets map[uint64][]*FrameBuffer
	total   int
}

// poolKey packs width and height into a single uint64.
func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(h)
}

// Acquire checks out a cleared buffer of exactly w x h pixels, creating one
// when every buffer of that size is in use.
func (p *FrameBufferPool) Acquire(w, h int) *FrameBuffer {
	if w <= 0 || h <= 0 {
		panic("bough: framebuffer size must be positive")
	}
	key := poolKey(w, h)
	for _, fb := range p.buckets[key] {
		if !fb.inUse {
			fb.inUse = true
			fb.image.Clear()
			return fb
		}
	}

	fb := &FrameBuffer{
		image: ebiten.NewImageWithOptions(
			image.Rect(0, 0, w, h),
			&ebiten.NewImageOptions{Unmanaged: true},
		),
		width:  w,
		height: h,
		inUse:  true,
	}
	if p.buckets == nil {
		p.buckets = make(map[uint64][]*FrameBuffer)
	}
	p.buckets[key] = append(p.buckets[key], fb)
	p.total++
	Logger().Debug("framebuffer allocated",
		slog.Int("width", w), slog.Int("height", h), slog.Int("pooled", p.total))
	return fb
}

// Checkout re-acquires a specific buffer if it is not in use. It returns
// false when someone else holds it or it was purged.
func (p *FrameBufferPool) Checkout(fb *FrameBuffer) bool {
	if fb == nil || fb.inUse || fb.image == nil {
		return false
	}
	fb.inUse = true
	fb.image.Clear()
	return true
}

// Release returns a buffer to the pool. The image is cleared on the next
// Acquire, not here.
func (p *FrameBufferPool) Release(fb *FrameBuffer) {
	if fb == nil {
		return
	}
	fb.inUse = false
}

// Stats returns the number of pooled buffers and how many are in use.
func (p *FrameBufferPool) Stats() (total, inUse int) {
	for _, bucket := range p.buckets {
		for _, fb := range bucket {
			total++
			if fb.inUse {
				inUse++
			}
		}
	}
	return total, inUse
}

// Purge deallocates every buffer that is not in use.
func (p *FrameBufferPool) Purge() {
	for key, bucket := range p.buckets {
		kept := bucket[:0]
		for _, fb := range bucket {
			if fb.inUse {
				kept = append(kept, fb)
				continue
			}
			fb.image.Deallocate()
			fb.image = nil
			p.total--
		}
		clear(bucket[len(kept):])
		if len(kept) == 0 {
			delete(p.buckets, key)
		} else {
			p.buckets[key] = kept
		}
	}
}
