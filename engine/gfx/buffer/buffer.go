// Package buffer owns the vertex and index storage of one item kind on the
// graphics backend.
package buffer

import (
	"fmt"
	"log/slog"

	"github.com/hubastard/grove2d/engine/gfx"
	"github.com/hubastard/grove2d/engine/gfx/batch"
	"github.com/hubastard/grove2d/engine/logging"
	"github.com/hubastard/grove2d/engine/notify"
)

// Buffer holds capacity slots of VerticesPerItem vertices plus the static
// index pattern. Backend objects exist between BackendReady and ShuttingDown.
type Buffer[T batch.Item] struct {
	name     string
	be       gfx.Backend
	enc      Encoder[T]
	layout   gfx.VertexLayout
	capacity int

	vao, vbo, ebo uint32
	life          gfx.Lifetime
	scratch       []float32
	subs          notify.Group
	log           *slog.Logger
}

// New creates a buffer and subscribes it to the lifecycle topics on bus.
func New[T batch.Item](be gfx.Backend, bus *notify.Bus, enc Encoder[T], capacity int, name string) *Buffer[T] {
	if capacity <= 0 {
		capacity = batch.DefaultSize
	}
	layout := enc.Layout()
	b := &Buffer[T]{
		name:     name,
		be:       be,
		enc:      enc,
		layout:   layout,
		capacity: capacity,
		life:     gfx.Lifetime{Component: "buffer " + name},
		scratch:  make([]float32, VerticesPerItem*layout.Floats()),
		log:      logging.For("buffer").With("kind", name),
	}
	b.subs.Add(
		notify.Subscribe(bus, notify.BackendReady, "buffer "+name, func(struct{}) error {
			return b.SetupVertexArray()
		}),
		notify.Subscribe(bus, notify.BatchSizeChanged, "buffer "+name, func(n int) error {
			b.Resize(n)
			return nil
		}),
		notify.Subscribe(bus, notify.ShuttingDown, "buffer "+name, func(struct{}) error {
			b.release()
			return nil
		}),
	)
	return b
}

func (b *Buffer[T]) Name() string        { return b.name }
func (b *Buffer[T]) Capacity() int       { return b.capacity }
func (b *Buffer[T]) Live() bool          { return b.life.Live() }
func (b *Buffer[T]) Stride() int         { return b.layout.Stride }
func (b *Buffer[T]) VertexArray() uint32 { return b.vao }

func (b *Buffer[T]) itemBytes() int { return VerticesPerItem * b.layout.Stride }

// SetupVertexArray creates the vertex array, vertex storage and index buffer.
// It runs once per BackendReady.
func (b *Buffer[T]) SetupVertexArray() error {
	if err := b.life.Acquire(); err != nil {
		return err
	}
	b.vao = b.be.CreateVertexArray()
	b.be.BindVertexArray(b.vao)

	b.vbo = b.be.CreateBuffer()
	b.be.BindBuffer(gfx.ArrayBuffer, b.vbo)
	b.be.AllocateBuffer(gfx.ArrayBuffer, b.capacity*b.itemBytes())

	// The element binding is vertex array state, so it is set while the VAO is bound.
	b.ebo = b.be.CreateBuffer()
	b.be.BindBuffer(gfx.ElementArrayBuffer, b.ebo)
	b.be.UploadIndices(GenerateIndices(b.capacity))

	b.be.EnableVertexLayout(b.layout)
	b.be.BindVertexArray(0)

	b.log.Debug("vertex array ready",
		"vao", b.vao, "vbo", b.vbo, "ebo", b.ebo,
		"capacity", b.capacity, "bytes", b.capacity*b.itemBytes())
	return nil
}

// UploadVertexData encodes item and writes it to slot's vertex range. It
// never draws.
func (b *Buffer[T]) UploadVertexData(item T, slot int) {
	b.mustBeLive("UploadVertexData")
	if slot < 0 || slot >= b.capacity {
		panic(&gfx.ArgumentError{
			Op:  "buffer " + b.name + " UploadVertexData",
			Arg: "slot",
			Err: fmt.Errorf("%d outside [0,%d)", slot, b.capacity),
		})
	}
	b.enc.Encode(b.scratch, item)
	b.be.BindBuffer(gfx.ArrayBuffer, b.vbo)
	b.be.UploadVertices(slot*b.itemBytes(), b.scratch)
}

// Bind makes the buffer's vertex array current for drawing.
func (b *Buffer[T]) Bind() {
	b.mustBeLive("Bind")
	b.be.BindVertexArray(b.vao)
}

// Resize reallocates storage for capacity items. Pending vertex data is lost;
// flush before resizing. Before BackendReady only the capacity is recorded.
func (b *Buffer[T]) Resize(capacity int) {
	if capacity <= 0 {
		panic(&gfx.ArgumentError{Op: "buffer " + b.name + " Resize", Arg: "capacity", Err: fmt.Errorf("%d", capacity)})
	}
	if capacity == b.capacity {
		return
	}
	b.capacity = capacity
	if !b.life.Live() {
		return
	}
	b.be.BindVertexArray(b.vao)
	b.be.BindBuffer(gfx.ArrayBuffer, b.vbo)
	b.be.AllocateBuffer(gfx.ArrayBuffer, b.capacity*b.itemBytes())
	b.be.BindBuffer(gfx.ElementArrayBuffer, b.ebo)
	b.be.UploadIndices(GenerateIndices(b.capacity))
	b.be.BindVertexArray(0)
	b.log.Debug("resized", "capacity", capacity)
}

// Dispose unsubscribes from the bus. Backend objects are released by
// ShuttingDown, not by Dispose.
func (b *Buffer[T]) Dispose() { b.subs.Dispose() }

func (b *Buffer[T]) release() {
	if !b.life.Release() {
		return
	}
	b.be.DeleteBuffer(b.ebo)
	b.be.DeleteBuffer(b.vbo)
	b.be.DeleteVertexArray(b.vao)
	b.vao, b.vbo, b.ebo = 0, 0, 0
	b.log.Debug("released")
}

func (b *Buffer[T]) mustBeLive(op string) {
	if !b.life.Live() {
		panic(&gfx.SequenceError{
			Component:    "buffer " + b.name,
			Op:           op,
			Prerequisite: "BackendReady",
			Detail:       "vertex array not set up",
		})
	}
}
