package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoopVariableStep(t *testing.T) {
	l := newLoop(0)
	t0 := time.Unix(100, 0)

	assert.Equal(t, []float64{0}, l.advance(t0))
	steps := l.advance(t0.Add(250 * time.Millisecond))
	assert.Equal(t, []float64{0.25}, steps)
	assert.Equal(t, 1.0, l.alpha())
}

func TestLoopFixedStep(t *testing.T) {
	l := newLoop(10) // 100ms ticks
	t0 := time.Unix(100, 0)

	assert.Empty(t, l.advance(t0))
	steps := l.advance(t0.Add(250 * time.Millisecond))
	assert.Len(t, steps, 2)
	assert.InDelta(t, 0.1, steps[0], 1e-9)
	assert.InDelta(t, 0.5, l.alpha(), 1e-9)

	// A long stall is capped and the backlog dropped.
	steps = l.advance(t0.Add(10 * time.Second))
	assert.Len(t, steps, maxUpdateSteps)
	assert.Zero(t, l.alpha())
}

// passRenderer accepts the clear pass step issues; nothing else is called.
type passRenderer struct{ Renderer }

func (passRenderer) ResetStats()        {}
func (passRenderer) BeginPass(PassDesc) {}
func (passRenderer) EndPass()           {}

// edgeApp counts what every update step sees.
type edgeApp struct {
	steps, presses int
	dx             float64
	renderPresses  int
}

func (a *edgeApp) OnStart(*Engine)        {}
func (a *edgeApp) OnEvent(*Engine, Event) {}
func (a *edgeApp) OnShutdown(*Engine)     {}

func (a *edgeApp) OnUpdate(e *Engine, _ float64) {
	a.steps++
	if e.Input.IsKeyPressed(KeySpace) {
		a.presses++
	}
	dx, _ := e.Input.MouseDelta()
	a.dx += dx
}
func (a *edgeApp) OnRender(e *Engine, _ float64) {
	if e.Input.IsKeyPressed(KeySpace) {
		a.renderPresses++
	}
}

func TestFixedStepConsumesInputOnce(t *testing.T) {
	e := &Engine{Renderer: passRenderer{}, Input: NewInput(), Layers: &LayerStack{}}
	app := &edgeApp{}
	l := newLoop(60)
	t0 := time.Unix(100, 0)
	e.step(app, l, t0)

	e.Input.Handle(EventMouseMove{X: 0})
	e.Input.Handle(EventKey{Key: KeySpace, Down: true})
	e.Input.Handle(EventMouseMove{X: 10})
	e.step(app, l, t0.Add(50*time.Millisecond))

	assert.Equal(t, 3, app.steps)
	assert.Equal(t, 1, app.presses)
	assert.Equal(t, 10.0, app.dx)
	assert.Equal(t, 1, app.renderPresses, "the rendered frame still sees the press")
}

func TestFixedStepCarriesInputWithoutStep(t *testing.T) {
	e := &Engine{Renderer: passRenderer{}, Input: NewInput(), Layers: &LayerStack{}}
	app := &edgeApp{}
	l := newLoop(60)
	t0 := time.Unix(100, 0)
	e.step(app, l, t0)

	e.Input.Handle(EventKey{Key: KeySpace, Down: true})
	e.step(app, l, t0.Add(5*time.Millisecond))
	assert.Zero(t, app.steps)
	assert.Equal(t, 1, app.renderPresses)

	e.step(app, l, t0.Add(20*time.Millisecond))
	assert.Equal(t, 1, app.steps)
	assert.Equal(t, 1, app.presses, "the press waits for the next update")
	assert.Equal(t, 1, app.renderPresses, "but is drawn only once")
}
