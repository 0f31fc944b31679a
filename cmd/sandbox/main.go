package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/hubastard/grove2d/engine/colors"
	"github.com/hubastard/grove2d/engine/core"
	"github.com/hubastard/grove2d/engine/gfx"
	glbackend "github.com/hubastard/grove2d/engine/gfx/gl"
	"github.com/hubastard/grove2d/engine/gfx/renderer2d"
	"github.com/hubastard/grove2d/engine/platform"
	"github.com/hubastard/grove2d/engine/text"
)

type App struct {
	stats      renderer2d.Statistics
	font       *text.Font
	layer      *Layer2D
	debugLayer *LayerDebug
}

func (a *App) OnStart(e *core.Engine) {
	var err error
	a.font, err = text.LoadDefault(e.Backend, 18)
	if err != nil {
		log.Fatal(err)
	}

	a.layer = &Layer2D{}
	e.PushLayer(a.layer)

	a.debugLayer = &LayerDebug{font: a.font, stats: &a.stats}
	e.PushLayer(a.debugLayer)
}

// OnUpdate runs between frames, so Stats holds the last complete batch.
func (a *App) OnUpdate(e *core.Engine, dt float64) {
	a.stats = e.Renderer.Stats()
	a.debugLayer.tick++

	if e.Input.IsKeyDown(core.KeyEscape) {
		e.RequestClose()
	}
}

func (a *App) OnRender(e *core.Engine, alpha float64) {}

func (a *App) OnEvent(e *core.Engine, ev core.Event) {
	if k, ok := ev.(core.EventKey); ok && k.Down && k.Key == core.KeyP {
		// Renderer is idle between frames.
		next := e.Renderer.BatchSize() * 2
		if next > 8000 {
			next = 250
		}
		if err := e.Renderer.SetBatchSize(next); err != nil {
			log.Printf("batch size: %v", err)
		}
	}
}

func (a *App) OnShutdown(e *core.Engine) {}

func main() {
	batchSize := flag.Int("batch", 1000, "items per batch")
	verbose := flag.Bool("v", false, "debug logging")
	profile := flag.String("profile", "", "write a speedscope capture to this file on exit")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	cfg := core.Config{
		Title:      "grove2d sandbox",
		Width:      1280,
		Height:     720,
		VSync:      true,
		ClearColor: colors.DarkGray,
		BatchSize:  *batchSize,
		Log:        os.Stderr,
		LogLevel:   level,
	}
	if *profile != "" {
		cfg.ProfileCapacity = 1 << 16
		cfg.ProfilePath = *profile
	}

	newWindow := func(cfg core.Config) (core.Window, error) {
		return platform.NewGLFWWindow(cfg)
	}
	newBackend := func(core.Window, core.Config) (gfx.Backend, error) {
		return glbackend.New(), nil
	}

	if err := core.Run(&App{}, cfg, newWindow, newBackend); err != nil {
		log.Fatal(err)
	}
}
