// Package platform provides the GLFW window the engine runs in.
package platform

import (
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/hubastard/grove3d/engine/core"
	"github.com/hubastard/grove3d/engine/log"
)

var logger = log.New("platform")

// GLFWWindow implements core.Window and pushes events to the app via a handler.
type GLFWWindow struct {
	w    *glfw.Window
	onEv func(core.Event)
}

var _ core.Window = (*GLFWWindow)(nil)

// NewGLFWWindow opens a window with a current OpenGL 3.3 core context.
// Must be called on the main thread before any GL calls.
func NewGLFWWindow(cfg core.Config) (*GLFWWindow, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	// macOS only hands out core contexts when forward-compatible.
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Samples, 0)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	win.MakeContextCurrent()
	interval := 0
	if cfg.VSync {
		interval = 1
	}
	glfw.SwapInterval(interval)

	if err := gl.Init(); err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("gl init: %w", err)
	}
	logger.Infof("window %dx%d vsync=%t", cfg.Width, cfg.Height, cfg.VSync)

	gw := &GLFWWindow{w: win}
	gw.install()
	return gw, nil
}

// install routes the GLFW callbacks into core events. Keys and buttons
// the engine does not know are dropped.
func (g *GLFWWindow) install() {
	w := g.w
	w.SetCloseCallback(func(*glfw.Window) { g.emit(core.EventCloseRequested{}) })
	w.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		g.emit(core.EventResize{W: width, H: height})
	})
	w.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		g.emit(core.EventMouseMove{X: x, Y: y})
	})
	w.SetScrollCallback(func(_ *glfw.Window, dx, dy float64) {
		g.emit(core.EventScroll{Xoff: dx, Yoff: dy})
	})
	w.SetMouseButtonCallback(func(_ *glfw.Window, b glfw.MouseButton, a glfw.Action, m glfw.ModifierKey) {
		if mb, ok := buttonMap[b]; ok {
			g.emit(core.EventMouseButton{Button: mb, Down: a != glfw.Release, Mods: translateMods(m)})
		}
	})
	w.SetKeyCallback(func(_ *glfw.Window, k glfw.Key, _ int, a glfw.Action, m glfw.ModifierKey) {
		// Repeats count as held.
		if ck, ok := keyMap[k]; ok {
			g.emit(core.EventKey{Key: ck, Down: a != glfw.Release, Mods: translateMods(m)})
		}
	})
}

func (g *GLFWWindow) emit(ev core.Event) {
	if g.onEv != nil {
		g.onEv(ev)
	}
}

// Destroy closes the window and terminates GLFW.
func (g *GLFWWindow) Destroy() {
	g.w.Destroy()
	glfw.Terminate()
}

func (g *GLFWWindow) PollEvents()                          { glfw.PollEvents() }
func (g *GLFWWindow) SwapBuffers()                         { g.w.SwapBuffers() }
func (g *GLFWWindow) ShouldClose() bool                    { return g.w.ShouldClose() }
func (g *GLFWWindow) RequestClose()                        { g.w.SetShouldClose(true) }
func (g *GLFWWindow) FramebufferSize() (int, int)          { return g.w.GetFramebufferSize() }
func (g *GLFWWindow) SetTitle(t string)                    { g.w.SetTitle(t) }
func (g *GLFWWindow) SetEventCallback(cb func(core.Event)) { g.onEv = cb }

var keyMap = map[glfw.Key]core.Key{
	glfw.KeyEscape:     core.KeyEscape,
	glfw.KeySpace:      core.KeySpace,
	glfw.KeyW:          core.KeyW,
	glfw.KeyA:          core.KeyA,
	glfw.KeyS:          core.KeyS,
	glfw.KeyD:          core.KeyD,
	glfw.KeyQ:          core.KeyQ,
	glfw.KeyE:          core.KeyE,
	glfw.KeyX:          core.KeyX,
	glfw.KeyR:          core.KeyR,
	glfw.KeyP:          core.KeyP,
	glfw.KeyTab:        core.KeyTab,
	glfw.KeyEqual:      core.KeyEqual,
	glfw.KeyKPAdd:      core.KeyEqual,
	glfw.KeyMinus:      core.KeyMinus,
	glfw.KeyKPSubtract: core.KeyMinus,
	glfw.KeyLeftShift:  core.KeyLeftShift,
	glfw.KeyRightShift: core.KeyLeftShift,
	glfw.Key1:          core.Key1,
	glfw.Key2:          core.Key2,
	glfw.Key3:          core.Key3,
}

var buttonMap = map[glfw.MouseButton]core.MouseButton{
	glfw.MouseButtonLeft:   core.MouseLeft,
	glfw.MouseButtonRight:  core.MouseRight,
	glfw.MouseButtonMiddle: core.MouseMiddle,
}

var modMap = [...]struct {
	from glfw.ModifierKey
	to   core.Mod
}{
	{glfw.ModShift, core.ModShift},
	{glfw.ModControl, core.ModCtrl},
	{glfw.ModAlt, core.ModAlt},
	{glfw.ModSuper, core.ModSuper},
}

func translateMods(m glfw.ModifierKey) (out core.Mod) {
	for _, e := range modMap {
		if m&e.from != 0 {
			out |= e.to
		}
	}
	return out
}
