// Package transform builds the 2D affine transforms used to place draw items.
// All matrices are column-major mgl32 values; pixel space has its origin at
// the top-left of the render surface with y pointing down.
package transform

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Unit quad corners in the order vertices are written: TL, TR, BR, BL.
var UnitQuad = [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

// Model maps the unit quad onto the rectangle (x, y, w, h) rotated by
// angleDeg about its centre offset by origin. Positive angles turn clockwise
// on screen.
func Model(x, y, w, h, angleDeg float32, origin mgl32.Vec2) mgl32.Mat4 {
	m := mgl32.Translate3D(x, y, 0).Mul4(mgl32.Scale3D(w, h, 1))
	if angleDeg == 0 {
		return m
	}
	px := x + w*0.5 + origin.X()
	py := y + h*0.5 + origin.Y()
	rot := mgl32.Translate3D(px, py, 0).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(angleDeg))).
		Mul4(mgl32.Translate3D(-px, -py, 0))
	return rot.Mul4(m)
}

// Projection maps pixel space of a w×h surface to normalized device
// coordinates.
func Projection(w, h int) mgl32.Mat4 {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return mgl32.Ortho2D(0, float32(w), float32(h), 0)
}

// Apply transforms a 2D point by m.
func Apply(m mgl32.Mat4, p mgl32.Vec2) mgl32.Vec2 {
	v := m.Mul4x1(mgl32.Vec4{p.X(), p.Y(), 0, 1})
	return mgl32.Vec2{v.X(), v.Y()}
}

// Corners returns the four transformed unit quad corners.
func Corners(m mgl32.Mat4) [4]mgl32.Vec2 {
	var out [4]mgl32.Vec2
	for i, c := range UnitQuad {
		out[i] = Apply(m, c)
	}
	return out
}
