package core

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/hubastard/grove2d/engine/colors"
	"github.com/hubastard/grove2d/engine/gfx"
	"github.com/hubastard/grove2d/engine/gfx/batch"
	"github.com/hubastard/grove2d/engine/gfx/gfxtest"
	"github.com/hubastard/grove2d/engine/logging"
)

type fakeWindow struct {
	w, h       int
	frames     int
	closeAfter int
	cb         func(Event)
	pending    []Event
	destroyed  bool
}

func (f *fakeWindow) PollEvents() {
	evs := f.pending
	f.pending = nil
	for _, ev := range evs {
		if f.cb != nil {
			f.cb(ev)
		}
	}
}
func (f *fakeWindow) SwapBuffers()                    { f.frames++ }
func (f *fakeWindow) ShouldClose() bool               { return f.frames >= f.closeAfter }
func (f *fakeWindow) FramebufferSize() (int, int)     { return f.w, f.h }
func (f *fakeWindow) SetTitle(string)                 {}
func (f *fakeWindow) SetEventCallback(cb func(Event)) { f.cb = cb }
func (f *fakeWindow) Destroy()                        { f.destroyed = true }

type recordingApp struct {
	started, shutdown bool
	renders           int
	events            []Event
	renderErr         error
}

func (a *recordingApp) OnStart(e *Engine)           { a.started = true }
func (a *recordingApp) OnUpdate(*Engine, float64)   {}
func (a *recordingApp) OnEvent(_ *Engine, ev Event) { a.events = append(a.events, ev) }
func (a *recordingApp) OnShutdown(*Engine)          { a.shutdown = true }

func (a *recordingApp) OnRender(e *Engine, _ float64) {
	a.renders++
	a.renderErr = e.Renderer.RenderRect(batch.RectItem{
		Rect:  batch.Rect{X: 1, Y: 1, W: 10, H: 10},
		Color: colors.Orange,
		Solid: true,
	})
}

func run(t *testing.T, app App, win *fakeWindow, be *gfxtest.Backend, cfg Config) error {
	t.Helper()
	return Run(app, cfg,
		func(Config) (Window, error) { return win, nil },
		func(Window, Config) (gfx.Backend, error) { return be, nil })
}

func TestRunFrames(t *testing.T) {
	win := &fakeWindow{w: 640, h: 480, closeAfter: 3}
	be := gfxtest.New()
	app := &recordingApp{}
	if err := run(t, app, win, be, Config{ClearColor: colors.Black}); err != nil {
		t.Fatal(err)
	}
	if !app.started || !app.shutdown || !win.destroyed {
		t.Errorf("started=%v shutdown=%v destroyed=%v", app.started, app.shutdown, win.destroyed)
	}
	if app.renders != 3 || app.renderErr != nil {
		t.Errorf("renders=%d err=%v", app.renders, app.renderErr)
	}
	if len(be.Draws) != 3 || be.Count("Clear") != 3 {
		t.Errorf("draws=%d clears=%d, want 3 each", len(be.Draws), be.Count("Clear"))
	}
	for _, kind := range []string{"program", "buffer", "vertexarray", "shader"} {
		if n := be.Live(kind); n != 0 {
			t.Errorf("%d %s objects leaked", n, kind)
		}
	}
	if be.Count("ResetState") != 1 {
		t.Errorf("ResetState called %d times, want 1 at shutdown", be.Count("ResetState"))
	}
}

func TestRunBackendReadyError(t *testing.T) {
	win := &fakeWindow{w: 640, h: 480, closeAfter: 1}
	be := gfxtest.New()
	be.FailLink = "undefined symbol"
	app := &recordingApp{}

	err := run(t, app, win, be, Config{})
	var le *gfx.LinkError
	if !errors.As(err, &le) {
		t.Fatalf("err = %v, want *gfx.LinkError", err)
	}
	if app.started || win.frames != 0 {
		t.Error("loop ran after a failed BackendReady")
	}
	if !win.destroyed {
		t.Error("window not destroyed")
	}
	if be.Live("program") != 0 {
		t.Error("programs leaked after a failed start")
	}
}

func TestRunWindowError(t *testing.T) {
	boom := errors.New("no display")
	err := Run(&recordingApp{}, Config{},
		func(Config) (Window, error) { return nil, boom },
		func(Window, Config) (gfx.Backend, error) { t.Fatal("backend created"); return nil, nil })
	if !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
}

func TestResizeUpdatesViewport(t *testing.T) {
	win := &fakeWindow{w: 640, h: 480, closeAfter: 1}
	be := gfxtest.New()
	e, err := NewEngine(Config{}, win, be)
	if err != nil {
		t.Fatal(err)
	}
	app := &recordingApp{}

	win.w, win.h = 1024, 768
	e.dispatch(app, EventResize{W: 1024, H: 768})
	if w, h := e.Viewport.SurfaceSize(); w != 1024 || h != 768 {
		t.Errorf("viewport = %dx%d", w, h)
	}
	if be.Count("Viewport") != 2 {
		t.Errorf("Viewport called %d times, want 2", be.Count("Viewport"))
	}

	win.w, win.h = 0, 0
	e.dispatch(app, EventResize{})
	if w, h := e.Viewport.SurfaceSize(); w != 1024 || h != 768 {
		t.Errorf("minimize changed viewport to %dx%d", w, h)
	}
	if len(app.events) != 2 {
		t.Errorf("app saw %d events", len(app.events))
	}
}

type stopLayer struct {
	attached, detached bool
	renders            int
	handle             bool
	seen               int
}

func (l *stopLayer) OnAttach(*Engine)          { l.attached = true }
func (l *stopLayer) OnDetach(*Engine)          { l.detached = true }
func (l *stopLayer) OnUpdate(*Engine, float64) {}
func (l *stopLayer) OnRender(*Engine, float64) { l.renders++ }

func (l *stopLayer) OnEvent(*Engine, Event) bool {
	l.seen++
	return l.handle
}

type layeredApp struct {
	recordingApp
	bottom, top *stopLayer
}

func (a *layeredApp) OnStart(e *Engine) {
	e.PushLayer(a.bottom)
	e.PushLayer(a.top)
}

func TestLayersAndEvents(t *testing.T) {
	app := &layeredApp{bottom: &stopLayer{}, top: &stopLayer{handle: true}}
	win := &fakeWindow{w: 320, h: 240, closeAfter: 2}
	win.pending = []Event{EventKey{Key: KeySpace, Down: true}}
	be := gfxtest.New()

	if err := run(t, app, win, be, Config{}); err != nil {
		t.Fatal(err)
	}
	if !app.bottom.attached || !app.top.detached {
		t.Error("layers not attached and detached")
	}
	if app.bottom.renders != 2 || app.top.renders != 2 {
		t.Errorf("renders = %d/%d", app.bottom.renders, app.top.renders)
	}
	if app.top.seen != 1 || app.bottom.seen != 0 || len(app.events) != 0 {
		t.Errorf("handled event propagated: top=%d bottom=%d app=%d", app.top.seen, app.bottom.seen, len(app.events))
	}
}

// endingLayer closes the batch it was given.
type endingLayer struct{ stopLayer }

func (l *endingLayer) OnRender(e *Engine, _ float64) { e.Renderer.EndBatch() }

func TestLayersRenderInsideBatch(t *testing.T) {
	win := &fakeWindow{w: 320, h: 240, closeAfter: 1}
	e, err := NewEngine(Config{}, win, gfxtest.New())
	if err != nil {
		t.Fatal(err)
	}
	l := &stopLayer{}
	e.PushLayer(l)

	v := panicValue(func() { e.Layers.Render(e, 0) })
	if _, ok := v.(*gfx.SequenceError); !ok {
		t.Fatalf("render outside a batch: panic = %v", v)
	}
	if l.renders != 0 {
		t.Error("layer rendered without an open batch")
	}

	e.PushLayer(&endingLayer{})
	e.Renderer.BeginBatch()
	v = panicValue(func() { e.Layers.Render(e, 0) })
	se, ok := v.(*gfx.SequenceError)
	if !ok || !strings.Contains(se.Detail, "endingLayer") {
		t.Fatalf("layer ending the batch: panic = %v", v)
	}
	if l.renders != 1 {
		t.Errorf("renders = %d, want 1", l.renders)
	}
}

func panicValue(fn func()) (v any) {
	defer func() { v = recover() }()
	fn()
	return nil
}

func TestRequestClose(t *testing.T) {
	win := &fakeWindow{w: 320, h: 240, closeAfter: 100}
	app := &closingApp{}
	if err := run(t, app, win, gfxtest.New(), Config{}); err != nil {
		t.Fatal(err)
	}
	if win.frames != 1 {
		t.Errorf("frames = %d, want 1", win.frames)
	}
}

type closingApp struct{ recordingApp }

func (a *closingApp) OnRender(e *Engine, _ float64) { e.RequestClose() }

func TestRunLogsWhenConfigured(t *testing.T) {
	defer logging.SetLogger(nil)
	var buf bytes.Buffer
	win := &fakeWindow{w: 320, h: 240, closeAfter: 1}
	if err := run(t, &recordingApp{}, win, gfxtest.New(), Config{Log: &buf}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "backend ready") || !strings.Contains(buf.String(), "engine exit") {
		t.Errorf("log = %q", buf.String())
	}
}

func TestInput(t *testing.T) {
	in := NewInput()
	in.Handle(EventKey{Key: KeyD, Down: true})
	in.Handle(EventMouseMove{X: 3, Y: 4})
	in.Handle(EventScroll{Yoff: 1.5})
	in.Handle(EventScroll{Yoff: -0.5})
	if !in.IsKeyDown(KeyD) || in.Axis(KeyA, KeyD) != 1 {
		t.Error("KeyD not down")
	}
	if x, y := in.Mouse(); x != 3 || y != 4 {
		t.Errorf("mouse = %v,%v", x, y)
	}
	if s := in.TakeScroll(); s != 1 || in.TakeScroll() != 0 {
		t.Errorf("scroll = %v", s)
	}
}
