package main

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/grove3d/engine/assets"
	"github.com/hubastard/grove3d/engine/colors"
	"github.com/hubastard/grove3d/engine/config"
	"github.com/hubastard/grove3d/engine/core"
	"github.com/hubastard/grove3d/engine/geometry"
	"github.com/hubastard/grove3d/engine/profiler"
	"github.com/hubastard/grove3d/engine/render"
	"github.com/hubastard/grove3d/engine/scene"
)

var skyFaces = [6]string{"right.png", "left.png", "top.png", "bottom.png", "front.png", "back.png"}

// SceneLayer builds the demo world and renders it every frame.
type SceneLayer struct {
	cfg config.Config

	Scene   *scene.Scene
	Frame   *render.Renderer
	Shaders *assets.ShaderLibrary
	// Overlay draws into the back buffer after post-processing.
	Overlay func() error

	Blur      *render.Blur
	Chromatic *render.Chromatic
	Tone      *render.Tone

	r        core.Renderer
	meshes   []*geometry.Mesh
	textures []core.Texture
	samplers []core.Sampler
	lastErr  string
}

func NewSceneLayer(cfg config.Config) *SceneLayer {
	return &SceneLayer{cfg: cfg}
}

func (l *SceneLayer) OnAttach(e *core.Engine) {
	if err := l.build(e); err != nil {
		panic(err)
	}
	logger.Infof("scene: %d entities, %d lights, %d cameras",
		len(l.Scene.Entities), len(l.Scene.Lights), l.Scene.Cameras.Len())
}

func (l *SceneLayer) build(e *core.Engine) error {
	l.r = e.Renderer
	l.Shaders = assets.NewShaderLibrary(l.r)
	l.Scene = scene.New()
	l.Scene.Background = l.cfg.Render.Background
	l.Scene.Ambient = l.cfg.Render.Ambient

	fr, err := render.New(l.r)
	if err != nil {
		return err
	}
	l.Frame = fr
	fr.PostEnabled = l.cfg.Render.PostProcess
	fr.Wireframe = l.cfg.Render.Wireframe

	lit, err := l.Shaders.Load(render.MeshPipelineDesc("lit", "", ""), "mesh.vert", "mesh.frag")
	if err != nil {
		return err
	}
	if err := l.buildEntities(lit); err != nil {
		return err
	}

	lights, err := lightsFromConfig(l.cfg.Lights)
	if err != nil {
		return err
	}
	l.Scene.Lights = lights
	for _, c := range camerasFromConfig(l.cfg.Cameras, e.AspectRatio()) {
		l.Scene.Cameras.Add(c, false)
	}

	if err := l.buildShadows(); err != nil {
		return err
	}
	w, h := e.Window.FramebufferSize()
	if err := l.buildPost(w, h); err != nil {
		return err
	}
	if err := l.buildSky(); err != nil {
		return err
	}

	if l.cfg.Render.HotReload {
		if err := l.Shaders.Watch(); err != nil {
			logger.Warningf("shader hot reload disabled: %v", err)
		} else {
			fr.HotReload = l.Shaders.ReloadChanged
		}
	}
	return nil
}

func (l *SceneLayer) upload(name string, d geometry.Data) (*geometry.Mesh, error) {
	m, err := geometry.Upload(l.r, name, d)
	if err != nil {
		return nil, err
	}
	l.meshes = append(l.meshes, m)
	return m, nil
}

func (l *SceneLayer) buildEntities(lit core.Pipeline) error {
	checker, err := assets.LoadTexture(l.r, "checker.png", assets.Checker(256, 32, colors.White, colors.Gray))
	if err != nil {
		return err
	}
	normal, err := assets.LoadTexture(l.r, "normal.png", assets.FlatNormal())
	if err != nil {
		return err
	}
	l.textures = append(l.textures, checker, normal)

	aniso, err := l.r.CreateSampler(core.SamplerDesc{
		MinFilter: "mipmap", MagFilter: "linear",
		WrapU: "repeat", WrapV: "repeat",
		MaxAnisotropy: 16,
	})
	if err != nil {
		return fmt.Errorf("material sampler: %w", err)
	}
	l.samplers = append(l.samplers, aniso)

	// Untextured materials show the vertex colours.
	flat := scene.NewMaterial("flat", lit, mgl32.Vec4{1, 1, 1, 1})
	flat.Roughness = 0.6

	tiles := scene.NewMaterial("tiles", lit, mgl32.Vec4{1, 1, 1, 1})
	tiles.AddTexture(scene.TexAlbedo, checker)
	tiles.AddTexture(scene.TexNormal, normal)
	tiles.AddSampler("default", aniso)
	tiles.Roughness = 0.4

	wavy := scene.NewMaterial("wavy", lit, mgl32.Vec4{0.8, 0.9, 1, 1})
	wavy.AddTexture(scene.TexAlbedo, checker)
	wavy.AddSampler("default", aniso)
	wavy.UVScale = mgl32.Vec2{2, 2}
	wavy.DistortionStrength = 0.02
	wavy.Roughness = 0.2

	floor := scene.NewMaterial("floor", lit, mgl32.Vec4{0.7, 0.7, 0.7, 1})
	floor.AddTexture(scene.TexAlbedo, checker)
	floor.AddTexture(scene.TexNormal, normal)
	floor.AddSampler("default", aniso)
	floor.UVScale = mgl32.Vec2{8, 8}
	floor.Roughness = 0.9

	shapes := []struct {
		name string
		data geometry.Data
		mat  *scene.Material
		pos  mgl32.Vec3
	}{
		{"square", geometry.Square(), flat, mgl32.Vec3{0, 0, 0}},
		{"diamond", geometry.Diamond(), flat, mgl32.Vec3{0, 0, 0}},
		{"triangle", geometry.Triangle(), flat, mgl32.Vec3{0, 0, 0}},
		{"cube", geometry.Cube(1), tiles, mgl32.Vec3{-2.5, 0, 2}},
		{"sphere", geometry.Sphere(0.75, 24, 32), wavy, mgl32.Vec3{2.5, 0, 2}},
	}
	for _, s := range shapes {
		m, err := l.upload(s.name, s.data)
		if err != nil {
			return err
		}
		ent := scene.NewEntity(s.name, m, s.mat)
		ent.Transform.SetPosition(s.pos)
		l.Scene.Add(ent)
	}

	plane, err := l.upload("floor", geometry.Plane(20, 1))
	if err != nil {
		return err
	}
	ground := scene.NewEntity("floor", plane, floor)
	ground.Transform.SetPosition(mgl32.Vec3{0, -1.5, 0})
	ground.CastShadow = false
	l.Scene.Add(ground)
	return nil
}

func (l *SceneLayer) buildShadows() error {
	pipe, err := l.Shaders.Load(render.ShadowPipelineDesc("", ""), "shadow.vert", "shadow.frag")
	if err != nil {
		return err
	}
	sm, err := render.NewShadowMap(l.r, l.cfg.Render.ShadowMapSize, pipe)
	if err != nil {
		return err
	}
	if l.cfg.Render.ShadowExtent > 0 {
		sm.Extent = l.cfg.Render.ShadowExtent
		sm.Distance = l.cfg.Render.ShadowExtent
		sm.Far = 3 * l.cfg.Render.ShadowExtent
	}
	sm.Bias = l.cfg.Render.ShadowBias
	l.Frame.Shadow = sm
	return nil
}

func (l *SceneLayer) buildPost(w, h int) error {
	load := func(name, frag string) (core.Pipeline, error) {
		return l.Shaders.Load(render.PostPipelineDesc(name, "", ""), "post.vert", frag)
	}
	pass, err := load("passthrough", "passthrough.frag")
	if err != nil {
		return err
	}
	if w < 1 || h < 1 {
		w, h = l.cfg.Window.Width, l.cfg.Window.Height
	}
	post, err := render.NewPostProcess(l.r, w, h, pass)
	if err != nil {
		return err
	}
	l.Frame.Post = post

	blur, err := load("blur", "blur.frag")
	if err != nil {
		return err
	}
	chroma, err := load("chromatic", "chromatic.frag")
	if err != nil {
		return err
	}
	tone, err := load("tone", "tone.frag")
	if err != nil {
		return err
	}
	l.Blur = &render.Blur{BaseEffect: render.NewBaseEffect("blur", blur), Radius: l.cfg.Render.BlurRadius}
	l.Chromatic = &render.Chromatic{BaseEffect: render.NewBaseEffect("chromatic", chroma)}
	l.Chromatic.On = false
	l.Tone = &render.Tone{BaseEffect: render.NewBaseEffect("tone", tone), Exposure: 1, Gamma: 1, Vignette: 0.3}
	post.Add(l.Blur, l.Chromatic, l.Tone)
	return nil
}

func (l *SceneLayer) buildSky() error {
	faces, err := assets.LoadCubemap("sky", skyFaces)
	if err != nil {
		logger.Infof("%v; using gradient sky", err)
		faces = assets.SkyGradient(64, colors.Sky, colors.Horizon, colors.Ground)
	}
	cube, err := l.upload("sky", geometry.Cube(1))
	if err != nil {
		return err
	}
	smp, err := l.r.CreateSampler(core.SamplerDesc{
		MinFilter: "linear", MagFilter: "linear",
		WrapU: "clamp", WrapV: "clamp", WrapW: "clamp",
	})
	if err != nil {
		return fmt.Errorf("sky sampler: %w", err)
	}
	l.samplers = append(l.samplers, smp)
	pipe, err := l.Shaders.Load(scene.SkyPipelineDesc("", ""), "sky.vert", "sky.frag")
	if err != nil {
		return err
	}
	sky, err := scene.NewSkybox(l.r, cube, smp, faces, pipe)
	if err != nil {
		return err
	}
	l.Scene.Sky = sky
	return nil
}

func (l *SceneLayer) OnDetach(e *core.Engine) {
	if err := l.Shaders.Close(); err != nil {
		logger.Warningf("closing shader watcher: %v", err)
	}
	if l.Scene.Sky != nil {
		l.Scene.Sky.Destroy(l.r)
	}
	l.Frame.Destroy()
	for _, m := range l.meshes {
		l.r.Destroy(m.GPU)
	}
	for _, t := range l.textures {
		l.r.Destroy(t)
	}
	for _, s := range l.samplers {
		l.r.Destroy(s)
	}
}

func (l *SceneLayer) OnUpdate(e *core.Engine, dt float64) {
	in := e.Input
	if !in.KeyboardCaptured {
		for i, k := range []core.Key{core.Key1, core.Key2, core.Key3} {
			if in.IsKeyPressed(k) && i < l.Scene.Cameras.Len() {
				_ = l.Scene.Cameras.Activate(i)
			}
		}
		if in.IsKeyPressed(core.KeyTab) {
			l.Frame.Wireframe = !l.Frame.Wireframe
		}
	}
	l.Scene.Update(float32(dt), float32(e.Time.Total), in)
}

func (l *SceneLayer) OnRender(e *core.Engine, alpha float64) {
	defer profiler.Start("SceneLayer.OnRender")()

	err := l.Frame.Frame(l.Scene, float32(e.Time.Total), l.Overlay)
	l.report(err)
}

// report logs a frame error once until it changes or clears.
func (l *SceneLayer) report(err error) {
	if err == nil {
		l.lastErr = ""
		return
	}
	if msg := err.Error(); msg != l.lastErr {
		l.lastErr = msg
		logger.Errorf("frame: %v", err)
	}
}

func (l *SceneLayer) OnEvent(e *core.Engine, ev core.Event) bool {
	switch v := ev.(type) {
	case core.EventKey:
		if v.Down && v.Key == core.KeyP && (v.Mods&core.ModCtrl) != 0 {
			if path, err := profiler.OpenProfilerGraph(); err == nil {
				logger.Noticef("speedscope dump: %s", path)
			} else {
				logger.Warningf("profiler dump error: %v", err)
			}
			return true
		}
	case core.EventResize:
		l.Resize(v.W, v.H)
	}
	return false
}

// Resize follows the framebuffer: every camera's aspect ratio and the
// post-process targets. A minimised window is ignored.
func (l *SceneLayer) Resize(w, h int) {
	if w < 1 || h < 1 {
		return
	}
	l.Scene.Cameras.Resize(float32(w) / float32(h))
	if err := l.Frame.Resize(w, h); err != nil && !errors.Is(err, render.ErrNoSize) {
		logger.Errorf("resize: %v", err)
	}
}

func lightsFromConfig(cfg []config.Light) ([]scene.Light, error) {
	out := make([]scene.Light, 0, len(cfg))
	for i, c := range cfg {
		typ, err := scene.ParseLightType(c.Type)
		if err != nil {
			return nil, fmt.Errorf("light %d: %w", i, err)
		}
		out = append(out, scene.Light{
			Type:       typ,
			Direction:  c.Direction,
			Position:   c.Position,
			Color:      c.Color,
			Intensity:  c.Intensity,
			Range:      c.Range,
			SpotInner:  c.SpotInner,
			SpotOuter:  c.SpotOuter,
			CastShadow: c.CastShadow,
		})
	}
	return out, nil
}

func camerasFromConfig(cfg []config.Camera, aspect float32) []*scene.Camera {
	out := make([]*scene.Camera, 0, len(cfg))
	for i, c := range cfg {
		cam := scene.NewCamera(c.Position, c.MoveSpeed, c.MouseSpeed, c.FOV, aspect)
		cam.Name = fmt.Sprintf("Camera %d", i+1)
		cam.Near, cam.Far = c.Near, c.Far
		if c.Ortho {
			cam.OrthoWidth = c.OrthoWidth
			cam.Projection = scene.Orthographic
		}
		cam.UpdateProjectionMatrix(aspect)
		out = append(out, cam)
	}
	return out
}
