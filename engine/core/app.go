// Package core hosts an App: it owns the window, the graphics backend, the
// notification bus and the 2D renderer, and drives the frame loop.
package core

import (
	"io"
	"log/slog"
	"time"

	"github.com/hubastard/grove2d/engine/colors"
	"github.com/hubastard/grove2d/engine/gfx"
	"github.com/hubastard/grove2d/engine/gfx/renderer2d"
	"github.com/hubastard/grove2d/engine/gfx/shader"
	"github.com/hubastard/grove2d/engine/notify"
	"github.com/hubastard/grove2d/engine/scene"
)

// App defines the game/application hooks.
type App interface {
	OnStart(e *Engine)                 // called once after BackendReady
	OnUpdate(e *Engine, dt float64)    // called at a fixed tick (60Hz)
	OnRender(e *Engine, alpha float64) // inside the frame's batch, alpha in [0..1]
	OnEvent(e *Engine, ev Event)       // events no layer handled
	OnShutdown(e *Engine)              // before ShuttingDown
}

// Engine exposes core services to the App.
type Engine struct {
	Window   Window
	Backend  gfx.Backend
	Bus      *notify.Bus
	Renderer *renderer2d.Renderer
	Viewport *scene.Viewport
	Input    *Input
	Layers   LayerStack

	cfg   Config
	start time.Time
	quit  bool
	subs  notify.Group
}

func (e *Engine) Uptime() time.Duration { return time.Since(e.start) }

// RequestClose ends the loop after the current frame.
func (e *Engine) RequestClose() { e.quit = true }

// PushLayer attaches l on top of the stack.
func (e *Engine) PushLayer(l Layer) {
	e.Layers.Push(l)
	l.OnAttach(e)
}

// Window abstraction.
type Window interface {
	PollEvents()
	SwapBuffers()
	ShouldClose() bool
	FramebufferSize() (int, int)
	SetTitle(title string)
	SetEventCallback(cb func(Event))
	Destroy()
}

// Event model.
type Event interface{ isEvent() }

type EventCloseRequested struct{}

func (EventCloseRequested) isEvent() {}

type EventResize struct{ W, H int }

func (EventResize) isEvent() {}

type EventKey struct {
	Key  Key
	Down bool
	Mods Mod
}

func (EventKey) isEvent() {}

type EventMouseMove struct{ X, Y float64 }

func (EventMouseMove) isEvent() {}

type EventScroll struct{ Xoff, Yoff float64 }

func (EventScroll) isEvent() {}

// Key/mod enums (subset).
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeySpace
	KeyW
	KeyA
	KeyS
	KeyD
	KeyQ
	KeyE
	KeyP
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

type Mod int

const (
	ModNone  Mod = 0
	ModShift Mod = 1 << 0
	ModCtrl  Mod = 1 << 1
	ModAlt   Mod = 1 << 2
	ModSuper Mod = 1 << 3
)

// Config for the engine run.
type Config struct {
	Title      string
	Width      int
	Height     int
	VSync      bool
	ClearColor colors.Color

	// BatchSize is the renderer's items per batch; 0 uses batch.DefaultSize.
	BatchSize int
	// Shaders overrides the built-in shader sources.
	Shaders shader.Source

	// Log receives text logs at LogLevel; nil keeps the engine silent.
	Log      io.Writer
	LogLevel slog.Level

	// ProfileCapacity > 0 records frame and flush scopes; ProfilePath, if
	// set, receives a speedscope capture on exit.
	ProfileCapacity int
	ProfilePath     string
}
