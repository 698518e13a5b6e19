// Package render sequences the passes of a frame: shadow depth, the lit
// main pass with the skybox, post-processing and the UI overlay.
package render

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/grove3d/engine/core"
	"github.com/hubastard/grove3d/engine/gfx/cbuffer"
	"github.com/hubastard/grove3d/engine/log"
	"github.com/hubastard/grove3d/engine/profiler"
	"github.com/hubastard/grove3d/engine/scene"
)

var logger = log.New("render")

var ErrNoActiveCamera = errors.New("scene has no active camera")

// Pass names as they appear in Stats.Passes.
const (
	PassShadow  = "shadow"
	PassMain    = "main"
	PassOverlay = "overlay"
)

// Stats extends the backend counters with scene-level numbers.
type Stats struct {
	core.FrameStats
	Entities int
}

// Renderer is the forward renderer. It owns the shared uniform blocks and
// optionally a shadow map and a post-process chain.
type Renderer struct {
	Shadow *ShadowMap
	Post   *PostProcess

	ShadowsEnabled bool
	PostEnabled    bool
	Wireframe      bool

	// HotReload runs before anything is drawn; errors are logged.
	HotReload func() error

	r       core.Renderer
	buffers map[string]core.Buffer
	writer  *cbuffer.Writer
	drawn   int
}

func New(r core.Renderer) (*Renderer, error) {
	sizes := map[string]int{
		cbuffer.ObjectBlock:   cbuffer.ObjectSize,
		cbuffer.FrameBlock:    cbuffer.FrameSize,
		cbuffer.LightsBlock:   cbuffer.LightsSize,
		cbuffer.MaterialBlock: cbuffer.MaterialSize,
	}
	fr := &Renderer{
		r:              r,
		buffers:        make(map[string]core.Buffer, len(sizes)),
		writer:         cbuffer.NewWriter(cbuffer.LightsSize),
		ShadowsEnabled: true,
		PostEnabled:    true,
	}
	for _, name := range []string{cbuffer.ObjectBlock, cbuffer.FrameBlock, cbuffer.LightsBlock, cbuffer.MaterialBlock} {
		b, err := r.CreateBuffer(sizes[name])
		if err != nil {
			fr.Destroy()
			return nil, fmt.Errorf("uniform block %s: %w", name, err)
		}
		fr.buffers[name] = b
	}
	return fr, nil
}

// Resize follows the framebuffer size.
func (fr *Renderer) Resize(w, h int) error {
	if fr.Post == nil {
		return nil
	}
	return fr.Post.Resize(w, h)
}

func (fr *Renderer) upload(block string, data []byte) error {
	if err := fr.r.UpdateBuffer(fr.buffers[block], data); err != nil {
		return fmt.Errorf("upload %s: %w", block, err)
	}
	return nil
}

// Frame renders s. overlay, when set, draws into the back buffer after
// post-processing.
func (fr *Renderer) Frame(s *scene.Scene, totalTime float32, overlay func() error) error {
	defer profiler.Start("render.Frame")()

	if fr.HotReload != nil {
		if err := fr.HotReload(); err != nil {
			logger.Warningf("hot reload: %v", err)
		}
	}

	cam := s.Cameras.Active()
	if cam == nil {
		return ErrNoActiveCamera
	}

	lights := s.LightData()
	packed, n := cbuffer.PackLights(fr.writer, lights)
	if err := fr.upload(cbuffer.LightsBlock, packed); err != nil {
		return err
	}

	frame := cbuffer.FrameData{
		View:           cam.ViewMatrix(),
		Projection:     cam.ProjectionMatrix(),
		LightViewProj:  mgl32.Ident4(),
		CameraPosition: cam.Transform.WorldPosition(),
		TotalTime:      totalTime,
		Ambient:        s.Ambient,
		LightCount:     int32(n),
		ShadowLight:    -1,
	}
	fr.drawn = 0

	slot, shadowed, err := fr.shadowPass(s, totalTime)
	if err != nil {
		return err
	}
	if shadowed {
		frame.LightViewProj = fr.Shadow.LightViewProjection()
		frame.ShadowBias = fr.Shadow.Bias
		frame.ShadowsEnabled = true
		frame.ShadowLight = int32(slot)
		frame.ShadowPCF = fr.Shadow.PCF
	}

	if err := fr.mainPass(s, cam, frame); err != nil {
		return err
	}

	if fr.postActive() {
		stop := profiler.Start("render.Post")
		err := fr.Post.Run(totalTime)
		stop()
		if err != nil {
			return err
		}
	}

	if overlay != nil {
		fr.r.BeginPass(core.PassDesc{Name: PassOverlay})
		err := overlay()
		fr.r.EndPass()
		if err != nil {
			return fmt.Errorf("overlay: %w", err)
		}
	}
	return nil
}

func (fr *Renderer) postActive() bool { return fr.Post != nil && fr.PostEnabled }

// shadowPass renders the depth of the shadow casters from the shadow light
// and returns that light's slot in the Lights block.
func (fr *Renderer) shadowPass(s *scene.Scene, totalTime float32) (int, bool, error) {
	if fr.Shadow == nil || !fr.ShadowsEnabled {
		return -1, false, nil
	}
	light, slot, ok := s.ShadowLight()
	if !ok {
		return -1, false, nil
	}
	defer profiler.Start("render.Shadow")()

	sm := fr.Shadow
	sm.Update(light)
	frame := cbuffer.FrameData{
		View:          sm.LightView(),
		Projection:    sm.LightProjection(),
		LightViewProj: sm.LightViewProjection(),
		TotalTime:     totalTime,
	}
	if err := fr.upload(cbuffer.FrameBlock, frame.Pack(fr.writer)); err != nil {
		return -1, false, err
	}

	dc := &scene.DrawContext{
		Renderer:  fr.r,
		TotalTime: totalTime,
		Offset:    s.Offset,
		Buffers:   fr.buffers,
		Override:  sm.Pipeline,
	}
	fr.r.BeginPass(core.PassDesc{
		Name:       PassShadow,
		Target:     sm.Target,
		Clear:      core.ClearDepth,
		ClearDepth: 1,
	})
	defer fr.r.EndPass()
	for _, e := range s.Entities {
		if !e.CastShadow {
			continue
		}
		if err := e.Draw(dc); err != nil {
			return -1, false, err
		}
	}
	return slot, true, nil
}

func (fr *Renderer) mainPass(s *scene.Scene, cam *scene.Camera, frame cbuffer.FrameData) error {
	defer profiler.Start("render.Main")()

	if err := fr.upload(cbuffer.FrameBlock, frame.Pack(fr.writer)); err != nil {
		return err
	}

	var target core.RenderTarget
	if fr.postActive() {
		target = fr.Post.SceneTarget()
	}
	dc := &scene.DrawContext{
		Renderer:  fr.r,
		Camera:    cam,
		TotalTime: frame.TotalTime,
		Tint:      s.Tint,
		Offset:    s.Offset,
		Buffers:   fr.buffers,
	}
	if fr.Shadow != nil {
		dc.Textures = map[string]core.Texture{scene.TexShadow: fr.Shadow.Target.Depth()}
		dc.SamplerStates = map[string]core.Sampler{scene.TexShadow: fr.Shadow.Sampler}
	}

	fr.r.BeginPass(core.PassDesc{
		Name:       PassMain,
		Target:     target,
		Clear:      core.ClearColor | core.ClearDepth,
		ClearColor: s.Background,
		ClearDepth: 1,
		Wireframe:  fr.Wireframe,
	})
	defer fr.r.EndPass()
	for _, e := range s.Entities {
		if e.Hidden {
			continue
		}
		if err := e.Draw(dc); err != nil {
			return err
		}
		fr.drawn++
	}
	s.Sky.Draw(fr.r, cam)
	return nil
}

// Stats reports the backend counters plus the entities drawn last frame.
func (fr *Renderer) Stats() Stats {
	return Stats{FrameStats: fr.r.Stats(), Entities: fr.drawn}
}

func (fr *Renderer) Destroy() {
	for _, b := range fr.buffers {
		fr.r.Destroy(b)
	}
	if fr.Shadow != nil {
		fr.Shadow.Destroy(fr.r)
	}
	if fr.Post != nil {
		fr.Post.Destroy()
	}
}
