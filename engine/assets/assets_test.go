package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/hubastard/grove2d/engine/gfx"
	"github.com/hubastard/grove2d/engine/gfx/gfxtest"
	"github.com/hubastard/grove2d/engine/gfx/shader"
)

var _ shader.Source = Shaders{}

func TestBuiltinShaders(t *testing.T) {
	src := BuiltinShaders()
	for _, name := range []string{"texture", "glyph", "rect", "line"} {
		vs, fs, err := src.Load(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !strings.HasPrefix(vs, "#version 330 core") || !strings.HasPrefix(fs, "#version 330 core") {
			t.Errorf("%s: missing version directive", name)
		}
		if !strings.Contains(vs, "uProjection") {
			t.Errorf("%s: vertex shader ignores uProjection", name)
		}
	}
	if _, _, err := src.Load("missing"); err == nil {
		t.Error("loading an unknown program should fail")
	}
}

func TestShadersFrom(t *testing.T) {
	fsys := fstest.MapFS{
		"a.vert": {Data: []byte("v")},
		"a.frag": {Data: []byte("f")},
		"b.vert": {Data: []byte("v")},
		"b.frag": {Data: nil},
	}
	vs, fs, err := ShadersFrom(fsys).Load("a")
	if err != nil || vs != "v" || fs != "f" {
		t.Errorf("Load(a) = %q %q %v", vs, fs, err)
	}
	if _, _, err := ShadersFrom(fsys).Load("b"); err == nil {
		t.Error("empty fragment shader should fail")
	}
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	p := filepath.Join(t.TempDir(), "img.png")
	if err := os.WriteFile(p, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadPNGTopRowFirst(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	img.Set(1, 1, color.NRGBA{0, 0, 255, 255})

	w, h, pix, err := LoadPNG(writePNG(t, img))
	if err != nil {
		t.Fatal(err)
	}
	if w != 2 || h != 2 || len(pix) != 16 {
		t.Fatalf("got %dx%d, %d bytes", w, h, len(pix))
	}
	if pix[0] != 255 || pix[2] != 0 {
		t.Errorf("top-left = %v, want red", pix[0:4])
	}
	if pix[12] != 0 || pix[14] != 255 {
		t.Errorf("bottom-right = %v, want blue", pix[12:16])
	}
}

func TestPixelsOffsetBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(5, 5, 8, 7))
	w, h, pix := Pixels(img)
	if w != 3 || h != 2 || len(pix) != 24 {
		t.Errorf("got %dx%d, %d bytes", w, h, len(pix))
	}
}

func TestLoadTexture(t *testing.T) {
	be := gfxtest.New()
	path := writePNG(t, image.NewRGBA(image.Rect(0, 0, 4, 3)))
	tex, err := LoadTexture(be, path, gfx.FilterLinear)
	if err != nil {
		t.Fatal(err)
	}
	if !tex.Valid() || tex.Width != 4 || tex.Height != 3 {
		t.Errorf("texture = %+v", tex)
	}
	if _, err := LoadTexture(be, filepath.Join(t.TempDir(), "nope.png"), gfx.FilterLinear); err == nil {
		t.Error("missing file should fail")
	}
	white, err := WhiteTexture(be)
	if err != nil || white.Width != 1 || white.ID == tex.ID {
		t.Errorf("white = %+v, %v", white, err)
	}
}
