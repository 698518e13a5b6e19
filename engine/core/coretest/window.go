package coretest

import "github.com/hubastard/grove3d/engine/core"

// Window is a scriptable core.Window. Each PollEvents delivers the next
// queued batch of events; the window closes after Frames polls.
type Window struct {
	W, H    int
	Frames  int
	Batches [][]core.Event
	Title   string
	Swaps   int

	polls  int
	closed bool
	cb     func(core.Event)
}

var _ core.Window = (*Window)(nil)

func (w *Window) PollEvents() {
	if w.polls < len(w.Batches) {
		for _, ev := range w.Batches[w.polls] {
			w.Emit(ev)
		}
	}
	w.polls++
}

// Emit delivers ev to the registered callback immediately.
func (w *Window) Emit(ev core.Event) {
	if r, ok := ev.(core.EventResize); ok {
		w.W, w.H = r.W, r.H
	}
	if w.cb != nil {
		w.cb(ev)
	}
}

func (w *Window) SwapBuffers()                         { w.Swaps++ }
func (w *Window) ShouldClose() bool                    { return w.closed || w.polls >= w.Frames }
func (w *Window) RequestClose()                        { w.closed = true }
func (w *Window) FramebufferSize() (int, int)          { return w.W, w.H }
func (w *Window) SetTitle(t string)                    { w.Title = t }
func (w *Window) SetEventCallback(cb func(core.Event)) { w.cb = cb }
