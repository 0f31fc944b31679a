package renderer2d

import (
	"github.com/hubastard/grove2d/engine/gfx"
	"github.com/hubastard/grove2d/engine/gfx/batch"
	"github.com/hubastard/grove2d/engine/gfx/buffer"
	"github.com/hubastard/grove2d/engine/gfx/shader"
	"github.com/hubastard/grove2d/engine/gfx/transform"
	"github.com/hubastard/grove2d/engine/profiler"
)

// pipeline is the batch, buffer and program triple of one item kind.
type pipeline[T batch.Item] struct {
	kind     batch.Kind
	batch    *batch.Batch[T]
	buf      *buffer.Buffer[T]
	prog     *shader.Program
	textured bool
	scope    string
}

// span is a run of uploaded slots sharing one texture.
type span struct {
	tex          gfx.TextureID
	first, count int
}

func newPipeline[T batch.Item](r *Renderer, kind batch.Kind, enc buffer.Encoder[T], src shader.Source, program string, textured bool) *pipeline[T] {
	var samplers []string
	if textured {
		samplers = []string{textureSampler}
	}
	return &pipeline[T]{
		kind:     kind,
		batch:    batch.New[T](r.batchSize),
		buf:      buffer.New[T](r.be, r.bus, enc, r.batchSize, kind.String()),
		prog:     shader.New(r.be, r.bus, src, program, samplers...),
		textured: textured,
		scope:    "flush " + kind.String(),
	}
}

// queue is the kind-independent view of a pipeline.
type queue interface {
	drain(r *Renderer)
	resize(n int)
	discard()
	dispose()
}

func (p *pipeline[T]) drain(r *Renderer) { flush(r, p) }
func (p *pipeline[T]) resize(n int)      { p.batch.Resize(n) }
func (p *pipeline[T]) discard()          { p.batch.Clear() }

func (p *pipeline[T]) dispose() {
	p.buf.Dispose()
	p.prog.Dispose()
}

func submit[T batch.Item](r *Renderer, p *pipeline[T], op string, item T) error {
	if r.state != BatchOpen {
		panic(&gfx.SequenceError{Component: "renderer2d", Op: "Render", Prerequisite: "BeginBatch"})
	}
	if p.textured && item.TextureID() == gfx.NoTexture {
		return &gfx.ArgumentError{Op: op, Arg: "item.Texture", Err: gfx.ErrNullTexture}
	}
	// Only one kind holds pending items, so draws follow submission order.
	if r.pending != nil && r.pending != queue(p) {
		r.stats.KindSwitches++
		r.pending.drain(r)
	}
	r.pending = p
	// One draw call binds one texture.
	if last, ok := p.batch.Last(); ok && last.TextureID() != item.TextureID() {
		r.stats.TextureSwitches++
		flush(r, p)
	}
	if p.batch.Add(item) {
		flush(r, p)
	}
	return nil
}

// flush uploads the queued items grouped by texture, draws each group with one
// call and clears the batch.
func flush[T batch.Item](r *Renderer, p *pipeline[T]) {
	if p.batch.IsEmpty() {
		return
	}
	defer profiler.Start(p.scope)()
	prev := r.state
	r.state = Flushing
	defer func() { r.state = prev }()

	w, h := r.surface.SurfaceSize()
	r.spans = r.spans[:0]

	textures := p.batch.Textures()
	if len(textures) == 1 {
		for slot, it := range p.batch.Items() {
			p.buf.UploadVertexData(it, slot)
		}
		r.spans = append(r.spans, span{tex: textures[0], first: 0, count: p.batch.Len()})
	} else {
		slot := 0
		for _, id := range textures {
			first := slot
			for _, it := range p.batch.ItemsByTexture(id) {
				p.buf.UploadVertexData(it, slot)
				slot++
			}
			r.spans = append(r.spans, span{tex: id, first: first, count: slot - first})
		}
	}

	p.prog.Use()
	p.prog.SetMatrix(projectionUniform, transform.Projection(w, h))
	p.buf.Bind()
	for _, s := range r.spans {
		if p.textured {
			r.be.BindTexture(0, s.tex)
			r.stats.TextureBinds++
		}
		r.be.DrawIndexed(gfx.Triangles, s.count*buffer.IndicesPerItem, s.first*buffer.IndicesPerItem)
		r.stats.DrawCalls++
	}
	r.be.BindVertexArray(0)

	n := p.batch.Len()
	r.stats.Flushes++
	r.stats.Items += n
	r.stats.BufferUploads += n
	r.stats.byKind[p.kind] += n
	p.batch.Clear()
}
