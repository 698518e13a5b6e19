package render

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/grove3d/engine/core"
	"github.com/hubastard/grove3d/engine/geometry"
	"github.com/hubastard/grove3d/engine/gfx/cbuffer"
)

// TexScene is the sampler every post effect reads its input from.
const TexScene = "sceneTexture"

// Effect is one fullscreen post-process step.
type Effect interface {
	Name() string
	Pipeline() core.Pipeline
	Enabled() bool
	// Params fills the effect-specific part of the PostParams block.
	Params(d *cbuffer.PostData)
}

// BaseEffect implements the bookkeeping part of Effect.
type BaseEffect struct {
	name string
	pipe core.Pipeline
	On   bool
}

func NewBaseEffect(name string, pipe core.Pipeline) BaseEffect {
	return BaseEffect{name: name, pipe: pipe, On: true}
}

func (e *BaseEffect) Name() string            { return e.name }
func (e *BaseEffect) Pipeline() core.Pipeline { return e.pipe }
func (e *BaseEffect) Enabled() bool           { return e.On }
func (e *BaseEffect) Params(d *cbuffer.PostData) {}

// Blur is a box blur over (2*Radius+1)^2 texels.
type Blur struct {
	BaseEffect
	Radius int
}

func (b *Blur) Enabled() bool { return b.On && b.Radius > 0 }
func (b *Blur) Params(d *cbuffer.PostData) {
	d.Radius = int32(b.Radius)
}

// Chromatic shifts the red, green and blue channels outward by Offsets
// pixels, scaled by the distance from the centre.
type Chromatic struct {
	BaseEffect
	Offsets mgl32.Vec3
}

func (c *Chromatic) Params(d *cbuffer.PostData) {
	d.Params = c.Offsets.Vec4(0)
}

// Tone applies exposure, gamma and a vignette.
type Tone struct {
	BaseEffect
	Exposure float32
	Gamma    float32
	Vignette float32
}

func (t *Tone) Params(d *cbuffer.PostData) {
	d.Params = mgl32.Vec4{t.Exposure, t.Gamma, t.Vignette, 0}
}

// PostProcess owns two colour targets and ping-pongs the scene through the
// enabled effects. The last effect writes the back buffer.
type PostProcess struct {
	Effects []Effect

	r           core.Renderer
	targets     [2]core.RenderTarget
	w, h        int
	quad        *geometry.Mesh
	passthrough Effect
	params      core.Buffer
	sampler     core.Sampler
	writer      *cbuffer.Writer
}

var ErrNoSize = errors.New("post-process target has no size")

// NewPostProcess creates w x h targets. passthrough copies its input
// unchanged and runs when no effect is enabled.
func NewPostProcess(r core.Renderer, w, h int, passthrough core.Pipeline) (*PostProcess, error) {
	quad, err := geometry.Upload(r, "fullscreen", geometry.FullscreenTriangle())
	if err != nil {
		return nil, err
	}
	params, err := r.CreateBuffer(cbuffer.PostSize)
	if err != nil {
		return nil, fmt.Errorf("post params: %w", err)
	}
	smp, err := r.CreateSampler(core.SamplerDesc{
		MinFilter: "linear", MagFilter: "linear", WrapU: "clamp", WrapV: "clamp",
	})
	if err != nil {
		return nil, fmt.Errorf("post sampler: %w", err)
	}
	pass := NewBaseEffect("passthrough", passthrough)
	p := &PostProcess{
		r:           r,
		quad:        quad,
		passthrough: &pass,
		params:      params,
		sampler:     smp,
		writer:      cbuffer.NewWriter(cbuffer.PostSize),
	}
	if err := p.Resize(w, h); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *PostProcess) Add(e ...Effect) { p.Effects = append(p.Effects, e...) }

// SceneTarget is where the main pass renders when post-processing is on.
func (p *PostProcess) SceneTarget() core.RenderTarget { return p.targets[0] }

func (p *PostProcess) Size() (int, int) { return p.w, p.h }

// Resize recreates both targets. Sizes below one are ignored.
func (p *PostProcess) Resize(w, h int) error {
	if w < 1 || h < 1 {
		if p.targets[0] == nil {
			return ErrNoSize
		}
		return nil
	}
	if w == p.w && h == p.h && p.targets[0] != nil {
		return nil
	}
	for i, t := range p.targets {
		if t != nil {
			p.r.Destroy(t)
			p.targets[i] = nil
		}
	}
	for i := range p.targets {
		t, err := p.r.CreateRenderTarget(core.RenderTargetDesc{
			Width: w, Height: h, Color: true, ColorFormat: core.TextureRGBA16F, Depth: i == 0,
		})
		if err != nil {
			return fmt.Errorf("post target %d: %w", i, err)
		}
		p.targets[i] = t
	}
	p.w, p.h = w, h
	return nil
}

// Active lists the effects Run would apply, in order.
func (p *PostProcess) Active() []Effect {
	var out []Effect
	for _, e := range p.Effects {
		if e.Enabled() {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		out = append(out, p.passthrough)
	}
	return out
}

// Run applies the active effects to the scene target, one pass each.
func (p *PostProcess) Run(totalTime float32) error {
	effects := p.Active()
	src := 0
	for i, e := range effects {
		var dst core.RenderTarget
		if i < len(effects)-1 {
			dst = p.targets[1-src]
		}

		d := cbuffer.PostData{
			TexelSize: mgl32.Vec2{1 / float32(p.w), 1 / float32(p.h)},
			Time:      totalTime,
		}
		e.Params(&d)
		if err := p.r.UpdateBuffer(p.params, d.Pack(p.writer)); err != nil {
			return fmt.Errorf("post %s: %w", e.Name(), err)
		}

		p.r.BeginPass(core.PassDesc{Name: "post:" + e.Name(), Target: dst})
		p.r.Draw(core.DrawCmd{
			Pipe:          e.Pipeline(),
			Mesh:          p.quad.GPU,
			Samplers:      map[string]core.Texture{TexScene: p.targets[src].Color()},
			SamplerStates: map[string]core.Sampler{TexScene: p.sampler},
			Buffers:       map[string]core.Buffer{cbuffer.PostBlock: p.params},
		})
		p.r.EndPass()
		src = 1 - src
	}
	return nil
}

func (p *PostProcess) Destroy() {
	for _, t := range p.targets {
		if t != nil {
			p.r.Destroy(t)
		}
	}
	p.r.Destroy(p.params)
	p.r.Destroy(p.sampler)
	p.r.Destroy(p.quad.GPU)
}
