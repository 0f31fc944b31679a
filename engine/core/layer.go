package core

import (
	"fmt"

	"github.com/hubastard/grove2d/engine/gfx"
	"github.com/hubastard/grove2d/engine/gfx/renderer2d"
)

// Layer is one slice of a frame. OnRender runs while the renderer has the
// frame's batch open: a layer queues items and never begins or ends a batch.
type Layer interface {
	OnAttach(e *Engine)
	OnDetach(e *Engine)
	OnUpdate(e *Engine, dt float64)
	OnRender(e *Engine, alpha float64)
	OnEvent(e *Engine, ev Event) bool // return true if handled; propagation stops
}

// LayerStack renders bottom to top and dispatches events top to bottom.
type LayerStack struct{ list []Layer }

func (ls *LayerStack) Push(l Layer) { ls.list = append(ls.list, l) }
func (ls *LayerStack) Len() int     { return len(ls.list) }

func (ls *LayerStack) Pop() (Layer, bool) {
	if len(ls.list) == 0 {
		return nil, false
	}
	i := len(ls.list) - 1
	l := ls.list[i]
	ls.list = ls.list[:i]
	return l, true
}

func (ls *LayerStack) Update(e *Engine, dt float64) {
	for _, l := range ls.list {
		l.OnUpdate(e, dt)
	}
}

// Render calls OnRender bottom to top. It panics with a *gfx.SequenceError
// when no batch is open, or when a layer returns with the batch closed.
func (ls *LayerStack) Render(e *Engine, alpha float64) {
	requireOpenBatch(e, nil)
	for _, l := range ls.list {
		l.OnRender(e, alpha)
		requireOpenBatch(e, l)
	}
}

// Dispatch offers ev to each layer from the top and reports whether one
// handled it.
func (ls *LayerStack) Dispatch(e *Engine, ev Event) bool {
	for i := len(ls.list) - 1; i >= 0; i-- {
		if ls.list[i].OnEvent(e, ev) {
			return true
		}
	}
	return false
}

// DetachAll pops every layer, top first, and detaches it.
func (ls *LayerStack) DetachAll(e *Engine) {
	for {
		l, ok := ls.Pop()
		if !ok {
			return
		}
		l.OnDetach(e)
	}
}

func requireOpenBatch(e *Engine, after Layer) {
	s := e.Renderer.State()
	if s == renderer2d.BatchOpen {
		return
	}
	err := &gfx.SequenceError{Component: "core", Op: "Layer.OnRender", Prerequisite: "BeginBatch"}
	if after != nil {
		err.Detail = fmt.Sprintf("%T returned with the renderer %v", after, s)
	}
	panic(err)
}
