package renderer2d

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/hubastard/grove2d/engine/gfx/batch"
	"github.com/hubastard/grove2d/engine/gfx/transform"
)

// Transform maps the unit quad to normalized device coordinates for an item
// drawn into dest, rotated by angleDeg about its centre plus origin, on a
// surface of w×h pixels. Vertex data carries the model part; the projection
// part is the uProjection uniform set on every flush.
func Transform(dest batch.Rect, angleDeg float32, origin mgl32.Vec2, w, h int) mgl32.Mat4 {
	return transform.Projection(w, h).Mul4(transform.Model(dest.X, dest.Y, dest.W, dest.H, angleDeg, origin))
}
