package core

import "time"

// App is driven by Run. OnStart runs once the window and renderer exist
// and is where layers are pushed. OnUpdate runs at the fixed tick rate, or
// once per frame when TickRate is zero, before the layers update. OnRender
// gets the interpolation alpha in [0, 1]. Events reach the App before the
// layers. OnShutdown runs after every layer is detached.
type App interface {
	OnStart(e *Engine)
	OnUpdate(e *Engine, dt float64)
	OnRender(e *Engine, alpha float64)
	OnEvent(e *Engine, ev Event)
	OnShutdown(e *Engine)
}

// Engine is what the App and its layers see of the running loop.
type Engine struct {
	Window   Window
	Renderer Renderer
	Input    *Input
	Layers   *LayerStack
	Time     FrameTime
	Config   Config
	start    time.Time
}

// FrameTime carries the timing of the update currently running.
type FrameTime struct {
	Delta float64 // seconds since the previous update
	Total float64 // seconds since the loop started
	Frame uint64  // rendered frames so far
}

func (e *Engine) Uptime() time.Duration { return time.Since(e.start) }

// AspectRatio reports width/height of the current framebuffer (1 when minimised).
func (e *Engine) AspectRatio() float32 {
	w, h := e.Window.FramebufferSize()
	if w < 1 || h < 1 {
		return 1
	}
	return float32(w) / float32(h)
}

// Window is the platform window with a current GL context. Events are
// delivered through the callback during PollEvents.
type Window interface {
	PollEvents()
	SwapBuffers()
	ShouldClose() bool
	RequestClose()
	FramebufferSize() (int, int)
	SetTitle(title string)
	SetEventCallback(cb func(Event))
}

// Config sets up the window and the loop.
type Config struct {
	Title      string
	Width      int
	Height     int
	VSync      bool
	ClearColor [4]float32 // RGBA
	// TickRate is the fixed update frequency in Hz. Zero runs one variable
	// step per rendered frame.
	TickRate int
	// Clock drives the loop; nil uses time.Now.
	Clock func() time.Time
}
