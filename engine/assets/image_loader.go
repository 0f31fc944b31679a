package assets

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"

	"github.com/hubastard/grove2d/engine/gfx"
)

// LoadPNG returns width, height, and tightly packed RGBA8 pixels (row-major,
// top row first).
func LoadPNG(path string) (w, h int, rgba []byte, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()
	return DecodePNG(f)
}

// DecodePNG is LoadPNG for an already opened stream.
func DecodePNG(r io.Reader) (w, h int, rgba []byte, err error) {
	img, err := png.Decode(r)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("decode png: %w", err)
	}
	w, h, rgba = Pixels(img)
	return w, h, rgba, nil
}

// Pixels repacks img into tight RGBA8 rows (stride == 4*w).
func Pixels(img image.Image) (w, h int, rgba []byte) {
	m := imageToRGBA(img)
	w, h = m.Bounds().Dx(), m.Bounds().Dy()
	out := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		copy(out[y*w*4:(y+1)*w*4], m.Pix[y*m.Stride:y*m.Stride+w*4])
	}
	return w, h, out
}

// LoadTexture decodes a PNG and uploads it through be.
func LoadTexture(be gfx.Backend, path string, filter gfx.Filter) (gfx.Texture, error) {
	w, h, pix, err := LoadPNG(path)
	if err != nil {
		return gfx.Texture{}, err
	}
	return UploadImage(be, w, h, pix, filter)
}

// UploadImage creates a clamped texture from tight RGBA8 pixels.
func UploadImage(be gfx.Backend, w, h int, pix []byte, filter gfx.Filter) (gfx.Texture, error) {
	tex, err := be.CreateTexture(gfx.TextureDesc{
		Width: w, Height: h,
		Pixels:    pix,
		MinFilter: filter,
		MagFilter: filter,
		Wrap:      gfx.WrapClamp,
	})
	if err != nil {
		return gfx.Texture{}, fmt.Errorf("upload %dx%d texture: %w", w, h, err)
	}
	return tex, nil
}

// WhiteTexture uploads a 1×1 opaque white texture, useful for tinted quads.
func WhiteTexture(be gfx.Backend) (gfx.Texture, error) {
	return UploadImage(be, 1, 1, []byte{255, 255, 255, 255}, gfx.FilterNearest)
}

func imageToRGBA(img image.Image) *image.RGBA {
	if m, ok := img.(*image.RGBA); ok && m.Stride == m.Rect.Dx()*4 && m.Rect.Min == (image.Point{}) {
		return m
	}
	dst := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}
