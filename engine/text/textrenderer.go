// Package text lays out strings as glyph items of a font atlas.
package text

import (
	"github.com/hubastard/grove2d/engine/colors"
	"github.com/hubastard/grove2d/engine/gfx/batch"
)

// GlyphRenderer queues glyphs; *renderer2d.Renderer implements it.
type GlyphRenderer interface {
	RenderGlyph(item batch.GlyphItem) error
}

// DrawText draws s with its top-left corner at (x, y), scaled to size pixels
// (size <= 0 uses the atlas size). Y grows downward. It stops at the first
// error returned by r.
func DrawText(r GlyphRenderer, f *Font, x, y float32, s string, size float32, tint colors.Color) error {
	scale := scaleFor(f, size)
	penX := x
	baseY := y + f.Ascent*scale
	prev := rune(-1)

	for _, ch := range s {
		if ch == '\n' {
			penX = x
			baseY += f.LineHeight() * scale
			prev = -1
			continue
		}
		g, ok := f.Glyphs[ch]
		if !ok {
			penX += f.Glyphs[' '].Advance * scale
			prev = -1
			continue
		}
		if prev >= 0 {
			penX += f.Kern(prev, ch) * scale
		}
		if g.W > 0 && g.H > 0 {
			err := r.RenderGlyph(batch.GlyphItem{
				Glyph: ch,
				Src:   g.Src,
				Dest: batch.Rect{
					X: penX + g.BearingX*scale,
					Y: baseY - g.BearingY*scale,
					W: float32(g.W) * scale,
					H: float32(g.H) * scale,
				},
				Tint:    tint,
				Texture: f.Texture,
			})
			if err != nil {
				return err
			}
		}
		penX += g.Advance * scale
		prev = ch
	}
	return nil
}

// MeasureText returns the size of the box DrawText would fill.
func MeasureText(f *Font, s string, size float32) (width, height float32) {
	scale := scaleFor(f, size)
	var lineW float32
	prev := rune(-1)
	height = f.LineHeight()

	for _, ch := range s {
		if ch == '\n' {
			width = max(width, lineW)
			lineW = 0
			height += f.LineHeight()
			prev = -1
			continue
		}
		g, ok := f.Glyphs[ch]
		if !ok {
			lineW += f.Glyphs[' '].Advance
			prev = -1
			continue
		}
		if prev >= 0 {
			lineW += f.Kern(prev, ch)
		}
		lineW += g.Advance
		prev = ch
	}
	width = max(width, lineW)
	return width * scale, height * scale
}

func scaleFor(f *Font, size float32) float32 {
	if size <= 0 {
		return 1
	}
	return size / f.SizePx
}
