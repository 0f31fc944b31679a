package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/hubastard/grove2d/engine/gfx/batch"
)

func TestViewport(t *testing.T) {
	v := NewViewport(800, 600)
	if w, h := v.SurfaceSize(); w != 800 || h != 600 {
		t.Fatalf("size = %dx%d", w, h)
	}
	if v.SetViewportPixels(0, 0) {
		t.Error("minimized size accepted")
	}
	if !v.SetViewportPixels(1920, 1080) {
		t.Fatal("resize rejected")
	}
	if w, h := v.SurfaceSize(); w != 1920 || h != 1080 {
		t.Errorf("size = %dx%d", w, h)
	}
	if a := v.Aspect(); !mgl32.FloatEqual(a, 16.0/9) {
		t.Errorf("aspect = %v", a)
	}
}

func vecNear(a, b mgl32.Vec2) bool { return a.ApproxEqualThreshold(b, 1e-4) }

func TestCameraIdentityAtOrigin(t *testing.T) {
	cam := NewCamera2D(NewViewport(800, 600))
	if p := cam.ToScreen(mgl32.Vec2{0, 0}); !vecNear(p, mgl32.Vec2{400, 300}) {
		t.Errorf("origin -> %v, want centre", p)
	}
	cam.Position = mgl32.Vec2{100, 50}
	if p := cam.ToScreen(mgl32.Vec2{100, 50}); !vecNear(p, mgl32.Vec2{400, 300}) {
		t.Errorf("position -> %v, want centre", p)
	}
}

func TestCameraZoomAndInverse(t *testing.T) {
	vp := NewViewport(800, 600)
	cam := NewCamera2D(vp)
	cam.SetZoom(2)
	r := cam.RectToScreen(batch.Rect{X: 10, Y: 10, W: 5, H: 5})
	if r != (batch.Rect{X: 420, Y: 320, W: 10, H: 10}) {
		t.Errorf("rect = %+v", r)
	}
	w := cam.ToWorld(mgl32.Vec2{420, 320})
	if !vecNear(w, mgl32.Vec2{10, 10}) {
		t.Errorf("ToWorld = %v", w)
	}

	vp.SetViewportPixels(400, 300)
	if p := cam.ToScreen(mgl32.Vec2{}); !vecNear(p, mgl32.Vec2{200, 150}) {
		t.Errorf("after resize origin -> %v", p)
	}

	cam.SetZoom(0)
	if cam.Zoom != minZoom {
		t.Errorf("zoom = %v, want clamp to %v", cam.Zoom, minZoom)
	}
}

func TestController(t *testing.T) {
	cam := NewCamera2D(NewViewport(100, 100))
	cc := NewController2D(cam)
	cc.Update(1, -1, 0, 0.5)
	if !vecNear(cam.Position, mgl32.Vec2{150, -150}) {
		t.Errorf("position = %v", cam.Position)
	}
	cc.Update(0, 0, 1, 1)
	if cam.Zoom != 2 {
		t.Errorf("zoom in = %v", cam.Zoom)
	}
	cc.Update(0, 0, -1, 1)
	if cam.Zoom != 1 {
		t.Errorf("zoom out = %v", cam.Zoom)
	}
}
