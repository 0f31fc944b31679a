// Package renderer2d batches textured quads, glyphs, rectangles and lines
// into as few draw calls as possible.
//
// Each item kind owns a Batch, a GPU buffer and a shader program. Items are
// queued between BeginBatch and EndBatch; a kind's batch is flushed when it
// fills up, when an item with a different texture or of a different kind
// arrives, and at EndBatch. Paint order therefore follows submission order.
// Layer is carried on items for the caller's own sorting and is never used
// here.
package renderer2d

import (
	"fmt"
	"log/slog"

	"github.com/hubastard/grove2d/engine/gfx"
	"github.com/hubastard/grove2d/engine/gfx/batch"
	"github.com/hubastard/grove2d/engine/gfx/buffer"
	"github.com/hubastard/grove2d/engine/gfx/shader"
	"github.com/hubastard/grove2d/engine/logging"
	"github.com/hubastard/grove2d/engine/notify"
)

// Program names requested from the shader source.
const (
	TextureProgram = "texture"
	GlyphProgram   = "glyph"
	RectProgram    = "rect"
	LineProgram    = "line"
)

const (
	projectionUniform = "uProjection"
	textureSampler    = "uTexture"
)

// SurfaceSizer reports the current render surface size in pixels. It is read
// on every flush.
type SurfaceSizer interface {
	SurfaceSize() (w, h int)
}

// SurfaceFunc adapts a function to SurfaceSizer.
type SurfaceFunc func() (int, int)

func (f SurfaceFunc) SurfaceSize() (int, int) { return f() }

type State int

const (
	Idle State = iota
	BatchOpen
	Flushing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case BatchOpen:
		return "batch-open"
	case Flushing:
		return "flushing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type Option func(*Renderer)

// WithBatchSize sets the number of items per batch. Values <= 0 are ignored.
func WithBatchSize(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

type Renderer struct {
	be      gfx.Backend
	bus     *notify.Bus
	surface SurfaceSizer

	batchSize int
	state     State

	textures *pipeline[batch.TextureItem]
	glyphs   *pipeline[batch.GlyphItem]
	rects    *pipeline[batch.RectItem]
	lines    *pipeline[batch.LineItem]
	queues   []queue
	pending  queue

	spans []span
	stats Statistics
	subs  notify.Group
	log   *slog.Logger
}

// New wires one batch, buffer and program per item kind. Backend objects are
// created when BackendReady is published on bus.
func New(be gfx.Backend, bus *notify.Bus, surface SurfaceSizer, src shader.Source, opts ...Option) *Renderer {
	r := &Renderer{
		be:        be,
		bus:       bus,
		surface:   surface,
		batchSize: batch.DefaultSize,
		log:       logging.For("renderer2d"),
	}
	for _, opt := range opts {
		opt(r)
	}

	// Must precede the pipelines: a rejected resize then reaches no buffer.
	r.subs.Add(
		notify.Subscribe(bus, notify.BatchSizeChanged, "renderer2d", r.onBatchSizeChanged),
		notify.Subscribe(bus, notify.ShuttingDown, "renderer2d", func(struct{}) error {
			r.discard()
			return nil
		}),
	)

	r.textures = newPipeline[batch.TextureItem](r, batch.KindTexture, buffer.TextureEncoder{}, src, TextureProgram, true)
	r.glyphs = newPipeline[batch.GlyphItem](r, batch.KindGlyph, buffer.GlyphEncoder{}, src, GlyphProgram, true)
	r.rects = newPipeline[batch.RectItem](r, batch.KindRect, buffer.RectEncoder{}, src, RectProgram, false)
	r.lines = newPipeline[batch.LineItem](r, batch.KindLine, buffer.LineEncoder{}, src, LineProgram, false)
	r.queues = []queue{r.textures, r.glyphs, r.rects, r.lines}

	return r
}

func (r *Renderer) State() State      { return r.state }
func (r *Renderer) BatchSize() int    { return r.batchSize }
func (r *Renderer) Stats() Statistics { return r.stats }

// SetBatchSize changes the batch capacity of every item kind. It must not be
// called while a batch is open.
func (r *Renderer) SetBatchSize(n int) error {
	if r.state != Idle {
		panic(&gfx.SequenceError{
			Component:    "renderer2d",
			Op:           "SetBatchSize",
			Prerequisite: "EndBatch",
			Detail:       "batch size cannot change while a batch is open",
		})
	}
	if n <= 0 {
		return &gfx.ArgumentError{Op: "SetBatchSize", Arg: "n", Err: fmt.Errorf("batch size %d must be positive", n)}
	}
	if n == r.batchSize {
		return nil
	}
	return notify.Publish(r.bus, notify.BatchSizeChanged, n)
}

func (r *Renderer) onBatchSizeChanged(n int) error {
	if r.state != Idle {
		return &gfx.SequenceError{Component: "renderer2d", Op: "BatchSizeChanged", Prerequisite: "EndBatch"}
	}
	if n <= 0 {
		return &gfx.ArgumentError{Op: "BatchSizeChanged", Arg: "n", Err: fmt.Errorf("batch size %d must be positive", n)}
	}
	r.batchSize = n
	for _, q := range r.queues {
		q.resize(n)
	}
	r.log.Debug("batch size changed", "size", n)
	return nil
}

// BeginBatch opens a frame's batch and resets the frame statistics.
func (r *Renderer) BeginBatch() {
	if r.state != Idle {
		panic(&gfx.SequenceError{
			Component:    "renderer2d",
			Op:           "BeginBatch",
			Prerequisite: "EndBatch",
			Detail:       "batch already open",
		})
	}
	r.stats = Statistics{}
	r.state = BatchOpen
}

// RenderTexture queues a textured quad. It returns an *gfx.ArgumentError
// without queuing anything if the item has no texture.
func (r *Renderer) RenderTexture(item batch.TextureItem) error {
	return submit(r, r.textures, "RenderTexture", item)
}

// RenderGlyph queues one glyph of a font atlas.
func (r *Renderer) RenderGlyph(item batch.GlyphItem) error {
	return submit(r, r.glyphs, "RenderGlyph", item)
}

func (r *Renderer) RenderRect(item batch.RectItem) error {
	return submit(r, r.rects, "RenderRect", item)
}

func (r *Renderer) RenderLine(item batch.LineItem) error {
	return submit(r, r.lines, "RenderLine", item)
}

// EndBatch flushes whatever is queued and closes the batch. Calling it with
// nothing queued, or when no batch is open, does nothing.
func (r *Renderer) EndBatch() {
	if r.state != BatchOpen {
		return
	}
	if r.pending != nil {
		r.pending.drain(r)
		r.pending = nil
	}
	r.state = Idle
	if r.stats.DrawCalls > 0 {
		r.log.Debug("frame", "stats", r.stats)
	}
}

// Close unsubscribes the renderer and everything it owns from the bus.
func (r *Renderer) Close() {
	r.subs.Dispose()
	for _, q := range r.queues {
		q.dispose()
	}
}

// discard drops queued items without drawing; the backend is going away.
func (r *Renderer) discard() {
	for _, q := range r.queues {
		q.discard()
	}
	r.pending = nil
	r.state = Idle
}
