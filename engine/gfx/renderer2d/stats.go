package renderer2d

import (
	"log/slog"

	"github.com/hubastard/grove2d/engine/gfx/batch"
	"github.com/hubastard/grove2d/engine/gfx/buffer"
)

// Statistics counts what one frame (BeginBatch to the next BeginBatch) sent
// to the backend.
type Statistics struct {
	DrawCalls       int
	Flushes         int
	Items           int
	BufferUploads   int
	TextureBinds    int
	TextureSwitches int
	KindSwitches    int

	byKind [4]int
}

// ItemsOf reports the items drawn for one kind.
func (s Statistics) ItemsOf(k batch.Kind) int {
	if k < 0 || int(k) >= len(s.byKind) {
		return 0
	}
	return s.byKind[k]
}

// TotalVertexCount reports vertices submitted this frame.
func (s Statistics) TotalVertexCount() int { return s.Items * buffer.VerticesPerItem }

// TotalIndexCount reports indices submitted this frame.
func (s Statistics) TotalIndexCount() int { return s.Items * buffer.IndicesPerItem }

func (s Statistics) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("draw_calls", s.DrawCalls),
		slog.Int("flushes", s.Flushes),
		slog.Int("items", s.Items),
		slog.Int("uploads", s.BufferUploads),
		slog.Int("texture_binds", s.TextureBinds),
		slog.Int("texture_switches", s.TextureSwitches),
		slog.Int("kind_switches", s.KindSwitches),
	)
}
