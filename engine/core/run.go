package core

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/hubastard/grove2d/engine/assets"
	"github.com/hubastard/grove2d/engine/gfx"
	"github.com/hubastard/grove2d/engine/gfx/renderer2d"
	"github.com/hubastard/grove2d/engine/logging"
	"github.com/hubastard/grove2d/engine/notify"
	"github.com/hubastard/grove2d/engine/profiler"
	"github.com/hubastard/grove2d/engine/scene"
)

const (
	tick    = time.Second / 60
	maxStep = 10 // prevent spiral of death
)

// Run wires the platform window, backend and renderer and executes the main
// loop. It returns the first BackendReady error, e.g. a shader that fails to
// compile.
func Run(app App, cfg Config, newWindow func(Config) (Window, error), newBackend func(Window, Config) (gfx.Backend, error)) error {
	// Graphics contexts require the main OS thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if cfg.Log != nil {
		logging.SetLogger(slog.New(slog.NewTextHandler(cfg.Log, &slog.HandlerOptions{Level: cfg.LogLevel})))
	}
	if cfg.ProfileCapacity > 0 {
		profiler.Init(cfg.ProfileCapacity)
	}

	win, err := newWindow(cfg)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	// Window owns the context; it goes last.
	defer win.Destroy()

	be, err := newBackend(win, cfg)
	if err != nil {
		return fmt.Errorf("create backend: %w", err)
	}

	eng, err := NewEngine(cfg, win, be)
	if err != nil {
		return err
	}
	win.SetEventCallback(func(ev Event) { eng.dispatch(app, ev) })

	app.OnStart(eng)
	eng.loop(app)
	eng.shutdown(app)
	return nil
}

// NewEngine creates the bus, viewport and renderer for an existing window
// and backend, then publishes BackendReady.
func NewEngine(cfg Config, win Window, be gfx.Backend) (*Engine, error) {
	log := logging.For("core")
	w, h := win.FramebufferSize()
	if w < 1 || h < 1 {
		w, h = max(cfg.Width, 1), max(cfg.Height, 1)
	}
	src := cfg.Shaders
	if src == nil {
		src = assets.BuiltinShaders()
	}

	e := &Engine{
		Window:   win,
		Backend:  be,
		Bus:      notify.New(),
		Viewport: scene.NewViewport(w, h),
		Input:    NewInput(),
		cfg:      cfg,
		start:    time.Now(),
	}
	var opts []renderer2d.Option
	if cfg.BatchSize > 0 {
		opts = append(opts, renderer2d.WithBatchSize(cfg.BatchSize))
	}
	e.Renderer = renderer2d.New(be, e.Bus, e.Viewport, src, opts...)
	// After the renderer: buffers and programs are released first.
	e.subs.Add(notify.Subscribe(e.Bus, notify.ShuttingDown, "backend", func(struct{}) error {
		be.ResetState()
		return nil
	}))

	if err := notify.Publish(e.Bus, notify.BackendReady, struct{}{}); err != nil {
		_ = notify.Publish(e.Bus, notify.ShuttingDown, struct{}{})
		e.Renderer.Close()
		e.subs.Dispose()
		return nil, fmt.Errorf("backend ready: %w", err)
	}
	be.Viewport(0, 0, w, h)
	log.Info("backend ready", "width", w, "height", h, "batch_size", e.Renderer.BatchSize())
	return e, nil
}

func (e *Engine) dispatch(app App, ev Event) {
	e.Input.Handle(ev)
	if r, ok := ev.(EventResize); ok {
		e.resize(r)
	}
	if !e.Layers.Dispatch(e, ev) {
		app.OnEvent(e, ev)
	}
}

func (e *Engine) resize(ev EventResize) {
	fw, fh := e.Window.FramebufferSize()
	if fw < 1 || fh < 1 {
		fw, fh = ev.W, ev.H
	}
	if !e.Viewport.SetViewportPixels(fw, fh) {
		return
	}
	e.Backend.Viewport(0, 0, fw, fh)
}

// Fixed-timestep (60 Hz) with interpolation
func (e *Engine) loop(app App) {
	var (
		accum time.Duration
		prev  = time.Now()
	)
	for !e.quit && !e.Window.ShouldClose() {
		endFrame := profiler.Start("frame")

		now := time.Now()
		accum += now.Sub(prev)
		prev = now

		// Platform emits events via the callback.
		e.Window.PollEvents()

		steps := 0
		for accum >= tick && steps < maxStep {
			e.update(app, tick.Seconds())
			accum -= tick
			steps++
		}
		if steps == maxStep {
			accum = 0
		}
		e.Frame(app, float64(accum)/float64(tick))
		e.Window.SwapBuffers()

		endFrame()
	}
}

func (e *Engine) update(app App, dt float64) {
	defer profiler.Start("update")()
	e.Layers.Update(e, dt)
	app.OnUpdate(e, dt)
}

// Frame clears the surface and renders layers then app inside one batch.
func (e *Engine) Frame(app App, alpha float64) {
	defer profiler.Start("render")()
	e.Backend.Clear(e.cfg.ClearColor)
	e.Renderer.BeginBatch()
	e.Layers.Render(e, alpha)
	app.OnRender(e, alpha)
	e.Renderer.EndBatch()
}

func (e *Engine) shutdown(app App) {
	log := logging.For("core")
	app.OnShutdown(e)
	e.Layers.DetachAll(e)
	if err := notify.Publish(e.Bus, notify.ShuttingDown, struct{}{}); err != nil {
		log.Error("shutdown", "err", err)
	}
	e.Renderer.Close()
	e.subs.Dispose()

	if e.cfg.ProfilePath != "" && profiler.Enabled() {
		if err := profiler.Dump(e.cfg.ProfilePath); err != nil {
			log.Warn("profile dump failed", "path", e.cfg.ProfilePath, "err", err)
		} else {
			log.Info("profile written", "path", e.cfg.ProfilePath)
		}
	}
	log.Info("engine exit", "uptime", e.Uptime().Round(time.Millisecond))
}
