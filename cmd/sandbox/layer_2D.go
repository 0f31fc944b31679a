package main

import (
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/hubastard/grove2d/engine/assets"
	"github.com/hubastard/grove2d/engine/colors"
	"github.com/hubastard/grove2d/engine/core"
	"github.com/hubastard/grove2d/engine/gfx"
	"github.com/hubastard/grove2d/engine/gfx/batch"
	"github.com/hubastard/grove2d/engine/gfx/renderer2d"
	"github.com/hubastard/grove2d/engine/scene"
)

const (
	gridCols = 40
	gridRows = 25
	tileSize = 32
)

// ------- A simple 2D Layer demo -------
type Layer2D struct {
	cam   *scene.Camera2D
	ctrl  *scene.Controller2D
	atlas gfx.Texture
	tiles [4]renderer2d.SubTexture
	white gfx.Texture
	t     float32
}

func (l *Layer2D) OnAttach(e *core.Engine) {
	l.cam = scene.NewCamera2D(e.Viewport)
	l.cam.Position = mgl32.Vec2{gridCols * tileSize / 2, gridRows * tileSize / 2}
	l.ctrl = scene.NewController2D(l.cam)

	var err error
	w, h, pix := checkerAtlas(tileSize)
	if l.atlas, err = assets.UploadImage(e.Backend, w, h, pix, gfx.FilterNearest); err != nil {
		log.Fatal(err)
	}
	for i := range l.tiles {
		l.tiles[i] = renderer2d.FromGrid(l.atlas, i%2, i/2, tileSize, tileSize)
	}
	if l.white, err = assets.WhiteTexture(e.Backend); err != nil {
		log.Fatal(err)
	}
}

func (l *Layer2D) OnDetach(e *core.Engine) {
	e.Backend.DeleteTexture(l.atlas.ID)
	e.Backend.DeleteTexture(l.white.ID)
}

func (l *Layer2D) OnUpdate(e *core.Engine, dt float64) {
	in := e.Input
	zoom := float32(in.TakeScroll())
	if in.IsKeyDown(core.KeyQ) {
		zoom++
	}
	if in.IsKeyDown(core.KeyE) {
		zoom--
	}
	l.ctrl.Update(in.Axis(core.KeyA, core.KeyD), in.Axis(core.KeyW, core.KeyS), zoom, float32(dt))
	l.t += float32(dt)
}

func (l *Layer2D) OnRender(e *core.Engine, alpha float64) {
	r := e.Renderer
	z := l.cam.Zoom

	for y := 0; y < gridRows; y++ {
		for x := 0; x < gridCols; x++ {
			world := batch.Rect{X: float32(x * tileSize), Y: float32(y * tileSize), W: tileSize, H: tileSize}
			angle := float32(math.Sin(float64(l.t+float32(x+y)*0.2))) * 30
			tile := l.tiles[(x+y)%len(l.tiles)]
			must(r.RenderTexture(tile.Item(l.cam.RectToScreen(world), colors.White, angle)))
		}
	}

	// A tinted quad from the white texture flips every second.
	flip := batch.FlipNone
	if int(l.t)%2 == 1 {
		flip = batch.FlipH
	}
	must(r.RenderTexture(batch.TextureItem{
		Dest:    l.cam.RectToScreen(batch.Rect{X: -96, Y: -96, W: 64, H: 64}),
		Tint:    colors.Cyan.WithAlpha(0.8),
		Angle:   l.t * 90,
		Origin:  mgl32.Vec2{16 * z, 16 * z},
		Flip:    flip,
		Texture: l.white,
	}))

	bounds := l.cam.RectToScreen(batch.Rect{W: gridCols * tileSize, H: gridRows * tileSize})
	must(r.RenderRect(batch.RectItem{
		Rect:            bounds,
		Color:           colors.Yellow,
		BorderThickness: 3,
		CornerRadius:    12 * z,
	}))
	must(r.RenderRect(batch.RectItem{
		Rect:         l.cam.RectToScreen(batch.Rect{X: -200, Y: 0, W: 120, H: 80}),
		Color:        colors.Magenta.WithAlpha(0.6),
		Solid:        true,
		CornerRadius: 16 * z,
		Angle:        -l.t * 20,
	}))

	centre := l.cam.ToScreen(mgl32.Vec2{gridCols * tileSize / 2, gridRows * tileSize / 2})
	for i := 0; i < 12; i++ {
		a := float64(l.t) + float64(i)*math.Pi/6
		tip := centre.Add(mgl32.Vec2{float32(math.Cos(a)), float32(math.Sin(a))}.Mul(200 * z))
		must(r.RenderLine(batch.LineItem{P1: centre, P2: tip, Color: colors.Green, Thickness: 2}))
	}
}

func (l *Layer2D) OnEvent(e *core.Engine, ev core.Event) bool { return false }

// checkerAtlas generates a 2×2 grid of tiles with different checker colors.
func checkerAtlas(tile int) (w, h int, pix []byte) {
	palette := [4]colors.Color{colors.Red, colors.Green, colors.Blue, colors.Orange}
	w, h = tile*2, tile*2
	pix = make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := palette[(y/tile)*2+x/tile]
			if ((x/4)+(y/4))%2 == 0 {
				c = colors.White
			}
			n := c.NRGBA()
			i := (y*w + x) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = n.R, n.G, n.B, n.A
		}
	}
	return w, h, pix
}

// must reports render errors; they only come from items without a texture.
func must(err error) {
	if err != nil {
		log.Println(err)
	}
}
