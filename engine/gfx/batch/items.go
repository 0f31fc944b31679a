// Package batch holds the per-frame draw item kinds and the fixed-capacity
// Batch that queues them until a flush.
package batch

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/hubastard/grove2d/engine/colors"
	"github.com/hubastard/grove2d/engine/gfx"
)

// Item is implemented by every draw item kind. Items are plain comparable
// values; two items with identical fields are equal.
type Item interface {
	comparable
	TextureID() gfx.TextureID
}

// Kind selects the batch/buffer/shader triple an item belongs to.
type Kind int

const (
	KindTexture Kind = iota
	KindGlyph
	KindRect
	KindLine
)

func (k Kind) String() string {
	switch k {
	case KindTexture:
		return "texture"
	case KindGlyph:
		return "glyph"
	case KindRect:
		return "rect"
	case KindLine:
		return "line"
	default:
		return "unknown"
	}
}

// Rect is a pixel rectangle with its top-left corner at X,Y.
type Rect struct {
	X, Y, W, H float32
}

func (r Rect) Center() mgl32.Vec2 { return mgl32.Vec2{r.X + r.W*0.5, r.Y + r.H*0.5} }

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

type FlipMode uint8

const (
	FlipNone FlipMode = 0
	FlipH    FlipMode = 1 << 0
	FlipV    FlipMode = 1 << 1
)

// TextureItem draws the Src region of Texture into Dest.
type TextureItem struct {
	Src, Dest Rect
	Tint      colors.Color
	Angle     float32    // degrees, clockwise on screen
	Origin    mgl32.Vec2 // rotation pivot relative to the Dest centre
	Flip      FlipMode
	Layer     int
	Texture   gfx.Texture
}

func (it TextureItem) TextureID() gfx.TextureID { return it.Texture.ID }

// GlyphItem draws one glyph from a font atlas texture.
type GlyphItem struct {
	Glyph     rune
	Src, Dest Rect
	Tint      colors.Color
	Angle     float32
	Layer     int
	Texture   gfx.Texture
}

func (it GlyphItem) TextureID() gfx.TextureID { return it.Texture.ID }

// RectItem draws a filled or outlined rectangle, optionally with rounded corners.
type RectItem struct {
	Rect            Rect
	Color           colors.Color
	Solid           bool
	BorderThickness float32
	CornerRadius    float32
	Angle           float32
	Layer           int
}

func (RectItem) TextureID() gfx.TextureID { return gfx.NoTexture }

// LineItem draws a straight segment of the given thickness.
type LineItem struct {
	P1, P2    mgl32.Vec2
	Color     colors.Color
	Thickness float32
	Layer     int
}

func (LineItem) TextureID() gfx.TextureID { return gfx.NoTexture }
