package renderer2d

import (
	"github.com/hubastard/grove2d/engine/colors"
	"github.com/hubastard/grove2d/engine/gfx"
	"github.com/hubastard/grove2d/engine/gfx/batch"
)

// SubTexture is a pixel region of an atlas texture.
type SubTexture struct {
	Texture gfx.Texture
	Src     batch.Rect
}

// FromPixels selects the region (x, y, w, h) of tex.
func FromPixels(tex gfx.Texture, x, y, w, h int) SubTexture {
	return SubTexture{
		Texture: tex,
		Src:     batch.Rect{X: float32(x), Y: float32(y), W: float32(w), H: float32(h)},
	}
}

// FromGrid selects tile (cx, cy) of a grid of cw×ch cells.
func FromGrid(tex gfx.Texture, cx, cy, cw, ch int) SubTexture {
	return FromPixels(tex, cx*cw, cy*ch, cw, ch)
}

// Item returns a TextureItem drawing the region into dest.
func (s SubTexture) Item(dest batch.Rect, tint colors.Color, angleDeg float32) batch.TextureItem {
	return batch.TextureItem{
		Src:     s.Src,
		Dest:    dest,
		Tint:    tint,
		Angle:   angleDeg,
		Texture: s.Texture,
	}
}
