// Package scene holds the render surface size and a 2D camera that maps
// world coordinates onto it.
package scene

import "sync/atomic"

// Viewport is the render surface size in pixels. The host updates it on
// resize; renderers read it through SurfaceSize on every flush.
type Viewport struct {
	size atomic.Uint64
}

func NewViewport(w, h int) *Viewport {
	v := &Viewport{}
	v.SetViewportPixels(w, h)
	return v
}

// SetViewportPixels records a new size. Non-positive dimensions (a minimized
// window) are ignored.
func (v *Viewport) SetViewportPixels(w, h int) bool {
	if w < 1 || h < 1 {
		return false
	}
	v.size.Store(uint64(uint32(w))<<32 | uint64(uint32(h)))
	return true
}

func (v *Viewport) SurfaceSize() (w, h int) {
	s := v.size.Load()
	return int(s >> 32), int(uint32(s))
}

func (v *Viewport) Aspect() float32 {
	w, h := v.SurfaceSize()
	if h == 0 {
		return 1
	}
	return float32(w) / float32(h)
}
