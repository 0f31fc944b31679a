package main

import (
	"fmt"

	"github.com/hubastard/grove2d/engine/colors"
	"github.com/hubastard/grove2d/engine/core"
	"github.com/hubastard/grove2d/engine/gfx/batch"
	"github.com/hubastard/grove2d/engine/gfx/renderer2d"
	"github.com/hubastard/grove2d/engine/text"
)

// LayerDebug draws frame statistics in screen space.
type LayerDebug struct {
	font  *text.Font
	stats *renderer2d.Statistics
	tick  int
}

func (l *LayerDebug) OnAttach(e *core.Engine) {}
func (l *LayerDebug) OnDetach(e *core.Engine) {}

func (l *LayerDebug) OnUpdate(e *core.Engine, dt float64) {}

func (l *LayerDebug) OnRender(e *core.Engine, alpha float64) {
	s := l.stats
	lines := fmt.Sprintf(
		"tick %d  uptime %.1fs\ndraw calls %d  flushes %d\nitems %d  (sprites %d, glyphs %d, rects %d, lines %d)\nbatch size %d  texture switches %d  kind switches %d",
		l.tick, e.Uptime().Seconds(),
		s.DrawCalls, s.Flushes,
		s.Items, s.ItemsOf(batch.KindTexture), s.ItemsOf(batch.KindGlyph), s.ItemsOf(batch.KindRect), s.ItemsOf(batch.KindLine),
		e.Renderer.BatchSize(), s.TextureSwitches, s.KindSwitches,
	)

	w, h := text.MeasureText(l.font, lines, 0)
	must(e.Renderer.RenderRect(batch.RectItem{
		Rect:         batch.Rect{X: 8, Y: 8, W: w + 16, H: h + 16},
		Color:        colors.Black.WithAlpha(0.6),
		Solid:        true,
		CornerRadius: 6,
	}))
	must(text.DrawText(e.Renderer, l.font, 16, 16, lines, 0, colors.White))
}

func (l *LayerDebug) OnEvent(e *core.Engine, ev core.Event) bool { return false }
