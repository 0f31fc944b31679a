package buffer

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/hubastard/grove2d/engine/colors"
	"github.com/hubastard/grove2d/engine/gfx"
	"github.com/hubastard/grove2d/engine/gfx/batch"
	"github.com/hubastard/grove2d/engine/gfx/transform"
)

const (
	VerticesPerItem = 4
	IndicesPerItem  = 6
)

// Encoder turns one item into VerticesPerItem interleaved vertices.
type Encoder[T batch.Item] interface {
	Layout() gfx.VertexLayout
	// Encode writes exactly VerticesPerItem*Layout().Floats() values to dst.
	Encode(dst []float32, item T)
}

// pos2 + uv2 + color4
var spriteLayout = gfx.NewLayout(2, 2, 4)

// pos2 + local2 + size2 + color4 + params3 (solid, border, radius)
var rectLayout = gfx.NewLayout(2, 2, 2, 4, 3)

// pos2 + color4
var lineLayout = gfx.NewLayout(2, 4)

// TextureEncoder encodes TextureItems.
type TextureEncoder struct{}

func (TextureEncoder) Layout() gfx.VertexLayout { return spriteLayout }

func (TextureEncoder) Encode(dst []float32, it batch.TextureItem) {
	d := it.Dest
	m := transform.Model(d.X, d.Y, d.W, d.H, it.Angle, it.Origin)
	uv := texCoords(it.Src, it.Texture, it.Flip)
	writeSprite(dst, m, uv, it.Tint)
}

// GlyphEncoder encodes GlyphItems. Glyphs rotate about their own centre.
type GlyphEncoder struct{}

func (GlyphEncoder) Layout() gfx.VertexLayout { return spriteLayout }

func (GlyphEncoder) Encode(dst []float32, it batch.GlyphItem) {
	d := it.Dest
	m := transform.Model(d.X, d.Y, d.W, d.H, it.Angle, mgl32.Vec2{})
	uv := texCoords(it.Src, it.Texture, batch.FlipNone)
	writeSprite(dst, m, uv, it.Tint)
}

// texCoords returns the UVs of the four corners in TL, TR, BR, BL order.
// An empty src selects the whole texture.
func texCoords(src batch.Rect, tex gfx.Texture, flip batch.FlipMode) [4]mgl32.Vec2 {
	u0, v0, u1, v1 := float32(0), float32(0), float32(1), float32(1)
	if !src.Empty() && tex.Width > 0 && tex.Height > 0 {
		tw, th := float32(tex.Width), float32(tex.Height)
		u0, v0 = src.X/tw, src.Y/th
		u1, v1 = (src.X+src.W)/tw, (src.Y+src.H)/th
	}
	if flip&batch.FlipH != 0 {
		u0, u1 = u1, u0
	}
	if flip&batch.FlipV != 0 {
		v0, v1 = v1, v0
	}
	return [4]mgl32.Vec2{{u0, v0}, {u1, v0}, {u1, v1}, {u0, v1}}
}

func writeSprite(dst []float32, m mgl32.Mat4, uv [4]mgl32.Vec2, c colors.Color) {
	i := 0
	for k, corner := range transform.UnitQuad {
		p := transform.Apply(m, corner)
		dst[i+0], dst[i+1] = p.X(), p.Y()
		dst[i+2], dst[i+3] = uv[k].X(), uv[k].Y()
		dst[i+4], dst[i+5], dst[i+6], dst[i+7] = c[0], c[1], c[2], c[3]
		i += 8
	}
}

// RectEncoder encodes RectItems. The fragment shader shades the rectangle
// from each fragment's position relative to the rectangle centre.
type RectEncoder struct{}

func (RectEncoder) Layout() gfx.VertexLayout { return rectLayout }

func (RectEncoder) Encode(dst []float32, it batch.RectItem) {
	r := it.Rect
	m := transform.Model(r.X, r.Y, r.W, r.H, it.Angle, mgl32.Vec2{})
	solid := float32(0)
	if it.Solid {
		solid = 1
	}
	radius := clampRadius(it.CornerRadius, r.W, r.H)
	c := it.Color
	i := 0
	for _, corner := range transform.UnitQuad {
		p := transform.Apply(m, corner)
		dst[i+0], dst[i+1] = p.X(), p.Y()
		dst[i+2], dst[i+3] = (corner.X()-0.5)*r.W, (corner.Y()-0.5)*r.H
		dst[i+4], dst[i+5] = r.W, r.H
		dst[i+6], dst[i+7], dst[i+8], dst[i+9] = c[0], c[1], c[2], c[3]
		dst[i+10], dst[i+11], dst[i+12] = solid, it.BorderThickness, radius
		i += 13
	}
}

func clampRadius(radius, w, h float32) float32 {
	if radius < 0 {
		return 0
	}
	half := w * 0.5
	if h*0.5 < half {
		half = h * 0.5
	}
	if radius > half {
		return half
	}
	return radius
}

// LineEncoder encodes LineItems as a quad Thickness pixels wide centred on
// the segment.
type LineEncoder struct{}

func (LineEncoder) Layout() gfx.VertexLayout { return lineLayout }

func (LineEncoder) Encode(dst []float32, it batch.LineItem) {
	dir := it.P2.Sub(it.P1)
	if dir.Len() == 0 {
		dir = mgl32.Vec2{1, 0}
	}
	thickness := it.Thickness
	if thickness <= 0 {
		thickness = 1
	}
	n := mgl32.Vec2{-dir.Y(), dir.X()}.Normalize().Mul(thickness * 0.5)
	corners := [4]mgl32.Vec2{it.P1.Sub(n), it.P2.Sub(n), it.P2.Add(n), it.P1.Add(n)}
	c := it.Color
	i := 0
	for _, p := range corners {
		dst[i+0], dst[i+1] = p.X(), p.Y()
		dst[i+2], dst[i+3], dst[i+4], dst[i+5] = c[0], c[1], c[2], c[3]
		i += 6
	}
}
