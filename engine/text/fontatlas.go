package text

import (
	"fmt"
	"image"
	"log/slog"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/hubastard/grove2d/engine/gfx"
	"github.com/hubastard/grove2d/engine/gfx/batch"
	"github.com/hubastard/grove2d/engine/logging"
)

type Glyph struct {
	Rune     rune
	Advance  float32 // pixels
	BearingX float32 // left bearing in pixels
	BearingY float32 // distance from baseline to glyph top
	W, H     int
	Src      batch.Rect // pixel region in the atlas
}

// Font is a glyph atlas uploaded as a single white-on-transparent texture.
type Font struct {
	SizePx                   float32
	Ascent, Descent, LineGap float32
	Glyphs                   map[rune]Glyph
	Texture                  gfx.Texture
	AtlasW, AtlasH           int

	kerning map[[2]rune]float32
}

const (
	firstRune    = rune(32)
	lastRune     = rune(255)
	atlasPadding = 2
	maxAtlas     = 4096
)

// LoadDefault builds an atlas of the Go Regular font.
func LoadDefault(be gfx.Backend, sizePx float32) (*Font, error) {
	return LoadTTF(be, goregular.TTF, sizePx)
}

// LoadFile reads a TrueType or OpenType font from disk.
func LoadFile(be gfx.Backend, path string, sizePx float32) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	return LoadTTF(be, data, sizePx)
}

// LoadTTF rasterizes Latin-1 into an atlas and uploads it through be.
func LoadTTF(be gfx.Backend, ttf []byte, sizePx float32) (*Font, error) {
	if sizePx <= 0 {
		return nil, fmt.Errorf("font size %v must be positive", sizePx)
	}
	ft, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size: float64(sizePx), DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	defer face.Close()

	m := face.Metrics()
	ascent := float32(m.Ascent.Round())
	descent := float32(-m.Descent.Round())
	lineGap := float32(m.Height.Round()) - ascent + descent

	measured := measure(face)
	size, pos, err := pack(measured, 256)
	if err != nil {
		return nil, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	drawer := &font.Drawer{Dst: dst, Src: image.White, Face: face}

	glyphs := make(map[rune]Glyph, len(measured))
	for _, g := range measured {
		glyph := Glyph{Rune: g.r, Advance: g.adv, BearingX: g.bx, BearingY: g.by, W: g.w, H: g.h}
		if p, ok := pos[g.r]; ok {
			// Dot sits on the baseline, shifted left by the bearing.
			drawer.Dot = fixed.P(p.X-int(g.bx), p.Y+int(g.by))
			drawer.DrawString(string(g.r))
			glyph.Src = batch.Rect{X: float32(p.X), Y: float32(p.Y), W: float32(g.w), H: float32(g.h)}
		}
		glyphs[g.r] = glyph
	}

	kerning := make(map[[2]rune]float32)
	for _, a := range measured {
		if a.r > 126 {
			continue
		}
		for _, b := range measured {
			if b.r > 126 {
				continue
			}
			if dx := face.Kern(a.r, b.r); dx != 0 {
				kerning[[2]rune{a.r, b.r}] = float32(dx.Round())
			}
		}
	}

	tex, err := be.CreateTexture(gfx.TextureDesc{
		Width: size, Height: size,
		Pixels:    dst.Pix,
		MinFilter: gfx.FilterNearest,
		MagFilter: gfx.FilterNearest,
		Wrap:      gfx.WrapClamp,
	})
	if err != nil {
		return nil, fmt.Errorf("upload font atlas: %w", err)
	}

	logging.For("text").Debug("font atlas",
		slog.Float64("size_px", float64(sizePx)),
		slog.Int("glyphs", len(glyphs)),
		slog.Int("atlas", size))

	return &Font{
		SizePx: sizePx,
		Ascent: ascent, Descent: descent, LineGap: lineGap,
		Glyphs:  glyphs,
		Texture: tex,
		AtlasW:  size, AtlasH: size,
		kerning: kerning,
	}, nil
}

// Kern returns the extra advance between a and b in atlas pixels.
func (f *Font) Kern(a, b rune) float32 { return f.kerning[[2]rune{a, b}] }

// LineHeight is the baseline-to-baseline distance at the atlas size.
func (f *Font) LineHeight() float32 { return f.Ascent - f.Descent + f.LineGap }

type measuredGlyph struct {
	r      rune
	w, h   int
	adv    float32
	bx, by float32
}

func measure(face font.Face) []measuredGlyph {
	out := make([]measuredGlyph, 0, lastRune-firstRune+1)
	for r := firstRune; r <= lastRune; r++ {
		br, adv, ok := face.GlyphBounds(r)
		if !ok {
			continue
		}
		out = append(out, measuredGlyph{
			r:   r,
			w:   (br.Max.X - br.Min.X).Round(),
			h:   (br.Max.Y - br.Min.Y).Round(),
			adv: float32(adv.Round()),
			bx:  float32(br.Min.X.Round()),
			by:  float32(-br.Min.Y.Round()),
		})
	}
	return out
}

// pack places glyphs on shelves in a square atlas, doubling its side from
// start until everything fits. Empty glyphs get no position.
func pack(glyphs []measuredGlyph, start int) (int, map[rune]image.Point, error) {
	for size := start; size <= maxAtlas; size *= 2 {
		if pos, ok := packInto(glyphs, size); ok {
			return size, pos, nil
		}
	}
	return 0, nil, fmt.Errorf("font atlas too large (>%d)", maxAtlas)
}

func packInto(glyphs []measuredGlyph, size int) (map[rune]image.Point, bool) {
	x, y, rowH := atlasPadding, atlasPadding, 0
	pos := make(map[rune]image.Point, len(glyphs))
	for _, g := range glyphs {
		if g.w == 0 || g.h == 0 {
			continue
		}
		if g.w+atlasPadding*2 > size || g.h+atlasPadding*2 > size {
			return nil, false
		}
		if x+g.w+atlasPadding > size {
			x = atlasPadding
			y += rowH + atlasPadding
			rowH = 0
		}
		if y+g.h+atlasPadding > size {
			return nil, false
		}
		pos[g.r] = image.Pt(x, y)
		x += g.w + atlasPadding
		rowH = max(rowH, g.h)
	}
	return pos, true
}
