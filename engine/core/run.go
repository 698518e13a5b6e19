package core

import (
	"runtime"
	"time"

	"github.com/hubastard/grove3d/engine/log"
)

var logger = log.New("core")

const maxUpdateSteps = 10 // prevent spiral of death

// Run wires the platform window + renderer and executes the main loop.
func Run(app App, cfg Config, newWindow func(Config) (Window, error), newRenderer func(Window, Config) (Renderer, error)) error {
	// Graphics contexts require the main OS thread.
	runtime.LockOSThread()

	win, err := newWindow(cfg)
	if err != nil {
		return err
	}

	rend, err := newRenderer(win, cfg)
	if err != nil {
		return err
	}
	defer rend.Shutdown()

	w, h := win.FramebufferSize()
	rend.Resize(w, h)

	now := cfg.Clock
	if now == nil {
		now = time.Now
	}

	eng := &Engine{
		Window:   win,
		Renderer: rend,
		Input:    NewInput(),
		Layers:   &LayerStack{},
		Config:   cfg,
		start:    now(),
	}
	win.SetEventCallback(func(ev Event) { eng.dispatch(app, ev) })

	app.OnStart(eng)
	for l := range eng.Layers.All() {
		l.OnAttach(eng)
	}

	loop := newLoop(cfg.TickRate)
	for !win.ShouldClose() {
		win.PollEvents()
		eng.step(app, loop, now())
		win.SwapBuffers()
	}

	for l, ok := eng.Layers.Pop(); ok; l, ok = eng.Layers.Pop() {
		l.OnDetach(eng)
	}
	app.OnShutdown(eng)
	logger.Notice("engine exit")
	return nil
}

func (e *Engine) dispatch(app App, ev Event) {
	e.Input.Handle(ev)
	app.OnEvent(e, ev)
	e.Layers.Dispatch(e, ev)
	switch ev.(type) {
	case EventResize:
		fw, fh := e.Window.FramebufferSize()
		if fw < 1 || fh < 1 {
			return
		}
		e.Renderer.Resize(fw, fh)
	case EventCloseRequested:
		e.Window.RequestClose()
	}
}

// step runs the updates due at now, then renders one frame.
func (e *Engine) step(app App, l *loop, now time.Time) {
	for _, dt := range l.advance(now) {
		e.Time.Delta = dt
		e.Time.Total += dt
		e.Input.beginUpdate()
		app.OnUpdate(e, dt)
		for ly := range e.Layers.All() {
			ly.OnUpdate(e, dt)
		}
		e.Input.endUpdate()
	}

	alpha := l.alpha()
	e.Renderer.ResetStats()
	c := e.Config.ClearColor
	e.Renderer.BeginPass(PassDesc{Name: "clear", Clear: ClearColor | ClearDepth, ClearColor: c, ClearDepth: 1})
	e.Renderer.EndPass()
	app.OnRender(e, alpha)
	for ly := range e.Layers.All() {
		ly.OnRender(e, alpha)
	}

	e.Time.Frame++
	e.Input.EndFrame()
}

// loop turns wall-clock frames into update steps.
type loop struct {
	tick  time.Duration // zero: variable step
	accum time.Duration
	prev  time.Time
}

func newLoop(tickRate int) *loop {
	l := &loop{}
	if tickRate > 0 {
		l.tick = time.Second / time.Duration(tickRate)
	}
	return l
}

// advance returns the update deltas (seconds) due at now.
func (l *loop) advance(now time.Time) []float64 {
	if l.prev.IsZero() {
		l.prev = now
		if l.tick == 0 {
			return []float64{0}
		}
		return nil
	}
	frame := now.Sub(l.prev)
	l.prev = now

	if l.tick == 0 {
		return []float64{frame.Seconds()}
	}

	l.accum += frame
	var steps []float64
	for l.accum >= l.tick && len(steps) < maxUpdateSteps {
		steps = append(steps, l.tick.Seconds())
		l.accum -= l.tick
	}
	if len(steps) == maxUpdateSteps {
		l.accum = 0
	}
	return steps
}

// alpha is the interpolation factor between the last two fixed updates.
func (l *loop) alpha() float64 {
	if l.tick == 0 {
		return 1
	}
	return float64(l.accum) / float64(l.tick)
}
