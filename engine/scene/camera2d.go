package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/hubastard/grove2d/engine/gfx/batch"
)

const minZoom = 0.05

// Camera2D centres Position on the viewport, scaled by Zoom. Items are
// transformed on the CPU before they are queued.
type Camera2D struct {
	Position mgl32.Vec2
	Zoom     float32 // 1 = no zoom

	vp    *Viewport
	view  mgl32.Mat4
	key   [3]float32
	w, h  int
	valid bool
}

func NewCamera2D(vp *Viewport) *Camera2D {
	return &Camera2D{Zoom: 1, vp: vp}
}

func (c *Camera2D) Move(dx, dy float32) { c.Position = c.Position.Add(mgl32.Vec2{dx, dy}) }

func (c *Camera2D) SetZoom(z float32) {
	if z < minZoom {
		z = minZoom
	}
	c.Zoom = z
}

// View maps world to screen pixels.
func (c *Camera2D) View() mgl32.Mat4 {
	w, h := c.vp.SurfaceSize()
	key := [3]float32{c.Position.X(), c.Position.Y(), c.Zoom}
	if c.valid && key == c.key && w == c.w && h == c.h {
		return c.view
	}
	c.view = mgl32.Translate3D(float32(w)/2, float32(h)/2, 0).
		Mul4(mgl32.Scale3D(c.Zoom, c.Zoom, 1)).
		Mul4(mgl32.Translate3D(-c.Position.X(), -c.Position.Y(), 0))
	c.key, c.w, c.h, c.valid = key, w, h, true
	return c.view
}

func (c *Camera2D) ToScreen(p mgl32.Vec2) mgl32.Vec2 {
	return mgl32.TransformCoordinate(p.Vec3(0), c.View()).Vec2()
}

func (c *Camera2D) ToWorld(p mgl32.Vec2) mgl32.Vec2 {
	return mgl32.TransformCoordinate(p.Vec3(0), c.View().Inv()).Vec2()
}

// RectToScreen moves r's top-left corner to screen space and scales its size.
func (c *Camera2D) RectToScreen(r batch.Rect) batch.Rect {
	p := c.ToScreen(mgl32.Vec2{r.X, r.Y})
	return batch.Rect{X: p.X(), Y: p.Y(), W: r.W * c.Zoom, H: r.H * c.Zoom}
}
