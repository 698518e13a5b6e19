package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recLayer struct {
	name    string
	handles bool
	log     *[]string
}

func (l *recLayer) OnAttach(*Engine)          { *l.log = append(*l.log, l.name+".attach") }
func (l *recLayer) OnDetach(*Engine)          { *l.log = append(*l.log, l.name+".detach") }
func (l *recLayer) OnUpdate(*Engine, float64) { *l.log = append(*l.log, l.name+".update") }
func (l *recLayer) OnRender(*Engine, float64) { *l.log = append(*l.log, l.name+".render") }
func (l *recLayer) OnEvent(*Engine, Event) bool {
	*l.log = append(*l.log, l.name+".event")
	return l.handles
}

func TestLayerStackOrder(t *testing.T) {
	var log []string
	ls := &LayerStack{}
	ls.Push(&recLayer{name: "a", log: &log})
	ls.Push(&recLayer{name: "b", handles: true, log: &log})
	ls.Push(&recLayer{name: "c", log: &log})
	assert.Equal(t, 3, ls.Len())

	for l := range ls.All() {
		l.OnRender(nil, 0)
	}
	assert.Equal(t, []string{"a.render", "b.render", "c.render"}, log)

	log = nil
	handled := ls.Dispatch(nil, EventResize{W: 1, H: 1})
	assert.True(t, handled)
	assert.Equal(t, []string{"c.event", "b.event"}, log, "propagation stops at the handling layer")

	l, ok := ls.Pop()
	assert.True(t, ok)
	assert.Equal(t, "c", l.(*recLayer).name)
	ls.Pop()
	ls.Pop()
	_, ok = ls.Pop()
	assert.False(t, ok)
}

func TestOverlaysStayOnTop(t *testing.T) {
	var log []string
	ls := &LayerStack{}
	ls.PushOverlay(&recLayer{name: "ui", log: &log})
	ls.Push(&recLayer{name: "world", log: &log})
	ls.Push(&recLayer{name: "fx", log: &log})

	var order []string
	for l := range ls.All() {
		order = append(order, l.(*recLayer).name)
	}
	assert.Equal(t, []string{"world", "fx", "ui"}, order)

	ls.Dispatch(nil, EventResize{})
	assert.Equal(t, []string{"ui.event", "fx.event", "world.event"}, log)

	l, _ := ls.Pop()
	assert.Equal(t, "ui", l.(*recLayer).name)
	ls.Push(&recLayer{name: "late", log: &log})
	for l := range ls.Backward() {
		assert.Equal(t, "late", l.(*recLayer).name)
		break
	}
}
