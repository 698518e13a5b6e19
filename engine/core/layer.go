package core

import (
	"iter"
	"slices"
)

// Layer is one slice of the application with its own lifecycle. Layers
// update and render bottom to top and see events top to bottom.
type Layer interface {
	OnAttach(e *Engine)
	OnDetach(e *Engine)
	OnUpdate(e *Engine, dt float64)
	OnRender(e *Engine, alpha float64)
	// OnEvent returns true when it handled ev, which stops propagation.
	OnEvent(e *Engine, ev Event) bool
}

// LayerStack keeps overlays above the regular layers whatever order they
// were pushed in.
type LayerStack struct {
	list     []Layer
	overlays int // the last overlays entries of list
}

// Push adds l above the other layers and below every overlay.
func (ls *LayerStack) Push(l Layer) {
	ls.list = slices.Insert(ls.list, len(ls.list)-ls.overlays, l)
}

// PushOverlay adds l on top of everything.
func (ls *LayerStack) PushOverlay(l Layer) {
	ls.list = append(ls.list, l)
	ls.overlays++
}

// Pop removes the topmost layer.
func (ls *LayerStack) Pop() (Layer, bool) {
	n := len(ls.list)
	if n == 0 {
		return nil, false
	}
	l := ls.list[n-1]
	ls.list[n-1] = nil
	ls.list = ls.list[:n-1]
	if ls.overlays > 0 {
		ls.overlays--
	}
	return l, true
}

func (ls *LayerStack) Len() int { return len(ls.list) }

// All yields the layers bottom to top.
func (ls *LayerStack) All() iter.Seq[Layer] {
	return func(yield func(Layer) bool) {
		for _, l := range ls.list {
			if !yield(l) {
				return
			}
		}
	}
}

// Backward yields the layers top to bottom.
func (ls *LayerStack) Backward() iter.Seq[Layer] {
	return func(yield func(Layer) bool) {
		for _, l := range slices.Backward(ls.list) {
			if !yield(l) {
				return
			}
		}
	}
}

// Dispatch offers ev to the layers top to bottom and reports whether one
// handled it.
func (ls *LayerStack) Dispatch(e *Engine, ev Event) bool {
	for l := range ls.Backward() {
		if l.OnEvent(e, ev) {
			return true
		}
	}
	return false
}
