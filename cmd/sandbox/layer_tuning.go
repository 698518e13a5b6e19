package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/grove3d/engine/colors"
	"github.com/hubastard/grove3d/engine/core"
	"github.com/hubastard/grove3d/engine/gfx/renderer2d"
	"github.com/hubastard/grove3d/engine/profiler"
	"github.com/hubastard/grove3d/engine/render"
	"github.com/hubastard/grove3d/engine/scene"
	"github.com/hubastard/grove3d/engine/text"
	"github.com/hubastard/grove3d/engine/ui"
)

// Font scale steps. ui.Ctx keeps the scale at 0.1 or above.
const (
	fontStep    = 0.1   // per button click
	fontKeyStep = 0.005 // per update while + or - is held
)

// TuningLayer draws the tuning panel over the scene and handles the
// panel's keyboard shortcuts.
type TuningLayer struct {
	sl *SceneLayer

	r2d   *renderer2d.Renderer2D
	font  *text.Font
	ui    *ui.Ctx
	cam   *scene.OrthoCamera2D
	timer *profiler.FrameTimer
	stats renderer2d.Statistics
	// frame holds the counters of the last complete frame.
	frame render.Stats

	// Stopwatch toggled by Space and cleared by R.
	running bool
	elapsed float64

	e         *core.Engine
	lastFrame time.Time
}

func NewTuningLayer(sl *SceneLayer) *TuningLayer {
	return &TuningLayer{sl: sl, timer: profiler.NewFrameTimer(120)}
}

func (l *TuningLayer) OnAttach(e *core.Engine) {
	l.e = e
	pipe, err := l.sl.Shaders.Load(renderer2d.PipelineDesc("", ""), "renderer2d.vert", "renderer2d.frag")
	if err != nil {
		panic(err)
	}
	l.r2d, err = renderer2d.New(e.Renderer, pipe, 10000)
	if err != nil {
		panic(err)
	}
	l.font, err = text.Default(e.Renderer, 18)
	if err != nil {
		panic(err)
	}
	l.ui = ui.New(ui.Backend{R2D: l.r2d, Font: l.font})
	l.ui.SetNextPanelPos(16, 16)

	// Camera sized to framebuffer
	w, h := e.Window.FramebufferSize()
	l.cam = scene.NewOrtho2D(w, h)
}

func (l *TuningLayer) OnDetach(e *core.Engine) {
	l.r2d.Destroy()
	l.font.Destroy(e.Renderer)
}

func (l *TuningLayer) OnUpdate(e *core.Engine, dt float64) {
	in := e.Input
	if in.IsKeyPressed(core.KeyEscape) {
		e.Window.RequestClose()
	}
	if !in.KeyboardCaptured {
		if in.IsKeyDown(core.KeyEqual) {
			l.ui.SetFontScale(l.ui.FontScale() + fontKeyStep)
		}
		if in.IsKeyDown(core.KeyMinus) {
			l.ui.SetFontScale(l.ui.FontScale() - fontKeyStep)
		}
		if in.IsKeyPressed(core.KeySpace) {
			l.running = !l.running
		}
		if in.IsKeyPressed(core.KeyR) {
			l.running = false
			l.elapsed = 0
		}
	}
	if l.running {
		l.elapsed += dt
	}
}

func (l *TuningLayer) OnRender(e *core.Engine, alpha float64) {
	now := time.Now()
	if !l.lastFrame.IsZero() {
		l.timer.Add(now.Sub(l.lastFrame).Seconds())
	}
	l.lastFrame = now
	l.frame = l.sl.Frame.Stats()
}

func (l *TuningLayer) OnEvent(e *core.Engine, ev core.Event) bool {
	if v, ok := ev.(core.EventResize); ok {
		l.cam.SetViewportPixels(v.W, v.H)
	}
	return false
}

// Draw builds and submits the panel. It runs inside the overlay pass.
func (l *TuningLayer) Draw() error {
	defer profiler.Start("TuningLayer.Draw")()

	e := l.e
	w, h := e.Window.FramebufferSize()
	l.r2d.BeginScene(l.cam.VP())
	l.ui.BeginFrame(ui.InputFrom(e.Input), float32(w), float32(h))

	l.ui.Begin("Sandbox")
	l.appDetails(w, h)
	l.meshInfo()
	l.entities()
	l.cameras()
	l.lights()
	l.rendering()
	l.diagnostics()
	l.ui.End()

	l.ui.EndFrame(e.Input)
	err := l.r2d.EndScene()
	l.stats = l.r2d.Stats()
	return err
}

func (l *TuningLayer) appDetails(w, h int) {
	c := l.ui
	if !c.Header("App Details") {
		return
	}
	s := l.sl.Scene
	c.Textf("Framerate - %.1f fps", l.timer.FPS())
	c.Textf("Width - %d px : Height - %d px", w, h)

	bg := colors.Color(s.Background)
	if c.ColorEdit4("Background", &bg) {
		s.Background = bg
	}

	if c.Button("Increase Font") {
		c.SetFontScale(c.FontScale() + fontStep)
	}
	if c.Button("Decrease Font") {
		c.SetFontScale(c.FontScale() - fontStep)
	}
	c.Text("Press + or - to increase/decrease font size")

	c.Text("Press SPACE to start and pause the stopwatch")
	c.Text("Press R to reset")
	c.Textf("Stopwatch - %.2f seconds", l.elapsed)

	c.DragFloat3("Shader Offset", &s.Offset, 0.001, 0, 0)
	tint := colors.Color(s.Tint)
	if c.ColorEdit4("Mesh Tint", &tint) {
		s.Tint = mgl32.Vec4(tint)
	}
	c.Checkbox("Animate", &s.Animate)
}

func (l *TuningLayer) meshInfo() {
	c := l.ui
	if !c.Header("Mesh Information") {
		return
	}
	c.Indent()
	for i, ent := range l.sl.Scene.Entities {
		c.PushID(fmt.Sprint(i))
		if c.Header(fmt.Sprintf("Mesh %d (%s)", i+1, ent.Mesh.Name)) {
			c.Textf("Triangles - %d", ent.Mesh.TriangleCount())
			c.Textf("Vertices - %d", ent.Mesh.VertexCount())
			c.Textf("Indices - %d", ent.Mesh.IndexCount())
		}
		c.PopID()
	}
	c.Unindent()
}

func (l *TuningLayer) entities() {
	c := l.ui
	if !c.Header("Scene Entities") {
		return
	}
	c.Indent()
	for i, ent := range l.sl.Scene.Entities {
		c.PushID(fmt.Sprint(i))
		if c.Header(fmt.Sprintf("Entity %d (%s)", i+1, ent.Name)) {
			t := ent.Transform
			pos, rot, scl := t.Position(), t.PitchYawRoll(), t.Scaling()
			if c.DragFloat3("Position", &pos, 0.01, 0, 0) {
				t.SetPosition(pos)
			}
			if c.DragFloat3("Rotation", &rot, 0.01, 0, 0) {
				t.SetRotation(rot)
			}
			if c.DragFloat3("Scale", &scl, 0.01, 0, 0) {
				t.SetScale(scl)
			}
			visible := !ent.Hidden
			if c.Checkbox("Visible", &visible) {
				ent.Hidden = !visible
			}
			c.Checkbox("Cast Shadow", &ent.CastShadow)
			if ent.Material != nil {
				c.Textf("Material - %s", ent.Material.Name)
			}
		}
		c.PopID()
	}
	c.Unindent()
}

func (l *TuningLayer) cameras() {
	c := l.ui
	if !c.Header("Cameras") {
		return
	}
	c.Indent()
	rig := &l.sl.Scene.Cameras
	for i, cam := range rig.All() {
		c.PushID(fmt.Sprint(i))
		label := cam.Name
		if cam.Active() {
			label += " (active)"
		}
		if c.Button(label + "##select") {
			_ = rig.Activate(i)
		}
		c.PopID()
	}
	if cam := rig.Active(); cam != nil {
		c.Separator()
		fov := cam.FOV
		if cam.Projection == scene.Perspective && c.DragFloat("FOV", &fov, 0.005, 0.1, 3) {
			cam.SetFOV(fov)
		}
		c.DragFloat("Move Speed", &cam.MoveSpeed, 0.05, 0, 100)
		p := cam.Position()
		c.Textf("Position - %.2f, %.2f, %.2f", p[0], p[1], p[2])
	}
	c.Unindent()
}

func (l *TuningLayer) lights() {
	c := l.ui
	if !c.Header("Lights") {
		return
	}
	s := l.sl.Scene
	c.DragFloat3("Ambient", &s.Ambient, 0.005, 0, 1)
	c.Indent()
	for i := range s.Lights {
		lt := &s.Lights[i]
		c.PushID(fmt.Sprint(i))
		if c.Header(fmt.Sprintf("Light %d (%s)", i+1, lt.Type)) {
			enabled := !lt.Disabled
			if c.Checkbox("Enabled", &enabled) {
				lt.Disabled = !enabled
			}
			if lt.Type != scene.LightPoint {
				c.DragFloat3("Direction", &lt.Direction, 0.01, -1, 1)
			}
			if lt.Type != scene.LightDirectional {
				c.DragFloat3("Position", &lt.Position, 0.02, 0, 0)
				c.DragFloat("Range", &lt.Range, 0.05, 0, 100)
			}
			c.DragFloat3("Color", &lt.Color, 0.005, 0, 1)
			c.DragFloat("Intensity", &lt.Intensity, 0.01, 0, 10)
			if lt.Type == scene.LightSpot {
				c.DragFloat("Inner Angle", &lt.SpotInner, 0.005, 0, lt.SpotOuter)
				c.DragFloat("Outer Angle", &lt.SpotOuter, 0.005, lt.SpotInner, 1.5)
			}
			if lt.Type == scene.LightDirectional {
				c.Checkbox("Cast Shadow", &lt.CastShadow)
			}
		}
		c.PopID()
	}
	c.Unindent()
}

func (l *TuningLayer) rendering() {
	c := l.ui
	if !c.Header("Rendering") {
		return
	}
	sl := l.sl
	fr := sl.Frame
	c.Checkbox("Wireframe (Tab)", &fr.Wireframe)
	c.Checkbox("Shadows", &fr.ShadowsEnabled)
	if fr.Shadow != nil {
		c.Checkbox("Soft Shadows (PCF)", &fr.Shadow.PCF)
		c.DragFloat("Shadow Bias", &fr.Shadow.Bias, 0.0001, 0, 0.05)
		c.DragFloat("Shadow Extent", &fr.Shadow.Extent, 0.1, 1, 200)
	}
	c.Checkbox("Post Processing", &fr.PostEnabled)
	if fr.Post == nil || !fr.PostEnabled {
		return
	}
	c.Indent()
	if sl.Blur != nil {
		c.Checkbox("Blur", &sl.Blur.On)
		radius := float32(sl.Blur.Radius)
		if c.DragFloat("Blur Radius", &radius, 0.05, 0, 8) {
			sl.Blur.Radius = int(radius + 0.5)
		}
	}
	if sl.Chromatic != nil {
		c.Checkbox("Chromatic Aberration", &sl.Chromatic.On)
		c.DragFloat3("Channel Offsets", &sl.Chromatic.Offsets, 0.05, -20, 20)
	}
	if sl.Tone != nil {
		c.Checkbox("Tone", &sl.Tone.On)
		c.DragFloat("Exposure", &sl.Tone.Exposure, 0.01, 0, 10)
		c.DragFloat("Gamma", &sl.Tone.Gamma, 0.01, 0.1, 4)
		c.DragFloat("Vignette", &sl.Tone.Vignette, 0.005, 0, 1)
	}
	names := make([]string, 0, len(fr.Post.Effects))
	for _, ef := range fr.Post.Active() {
		names = append(names, ef.Name())
	}
	if len(names) == 0 {
		names = append(names, "passthrough")
	}
	c.Textf("Chain - %s", strings.Join(names, " > "))
	c.Unindent()
}

func (l *TuningLayer) diagnostics() {
	c := l.ui
	if !c.Header("Diagnostics") {
		return
	}
	e := l.e
	st := l.frame
	c.Textf("Frame: %d", e.Time.Frame)
	c.Textf("  %2.3f ms (%.2f FPS)", l.timer.Average()*1000, l.timer.FPS())
	c.Text("3D Renderer")
	c.Textf("  Draw Calls: %d", st.DrawCalls)
	c.Textf("  Triangles: %d", st.Triangles)
	c.Textf("  Entities: %d", st.Entities)
	c.Textf("  Passes: %s", strings.Join(st.Passes, ", "))
	c.Text("2D Renderer")
	c.Textf("  Draw Calls: %d", l.stats.DrawCalls)
	c.Textf("  Quads: %d", l.stats.QuadCount)
	c.Textf("  Vertices: %d", l.stats.TotalVertexCount())
	c.Textf("  Textures: %d", l.stats.TextureCount)
	c.Text("Memory")
	c.Textf("  Usage: %.3f MB", float32(profiler.MemoryUsage())/(1<<20))
	c.Textf("  Allocs: %d", profiler.MemoryAllocs())
	c.Textf("  Goroutines: %d", profiler.NumGoroutine())
	c.Text("CPU")
	c.Textf("  Count: %d", profiler.NumCPU())
	c.Text("GPU")
	c.Textf("  Vendor: %s", e.Renderer.GPUVendor())
	c.Textf("  Renderer: %s", e.Renderer.GPURenderer())
	c.Textf("  Version: %s", e.Renderer.GPUVersion())
}
