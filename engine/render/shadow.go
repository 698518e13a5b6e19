package render

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/grove3d/engine/core"
	"github.com/hubastard/grove3d/engine/scene"
)

const DefaultShadowMapSize = 2048

// ShadowMap renders scene depth from a directional light.
type ShadowMap struct {
	Size int
	// Extent is the half-width of the square the light covers.
	Extent float32
	// Distance places the light's eye this far from Center.
	Distance  float32
	Near, Far float32
	Center    mgl32.Vec3
	Bias      float32
	PCF       bool

	Target   core.RenderTarget
	Pipeline core.Pipeline
	Sampler  core.Sampler

	view, proj mgl32.Mat4
}

// NewShadowMap allocates a size x size depth target drawn with pipe, which
// should be created from ShadowPipelineDesc. The map owns pipe from then on.
// A size of zero uses DefaultShadowMapSize.
func NewShadowMap(r core.Renderer, size int, pipe core.Pipeline) (*ShadowMap, error) {
	if size <= 0 {
		size = DefaultShadowMapSize
	}
	target, err := r.CreateRenderTarget(core.RenderTargetDesc{
		Width: size, Height: size, Depth: true, DepthCompare: true,
	})
	if err != nil {
		return nil, fmt.Errorf("shadow target: %w", err)
	}
	smp, err := r.CreateSampler(core.SamplerDesc{
		MinFilter: "linear", MagFilter: "linear",
		WrapU: "border", WrapV: "border",
		Border:  [4]float32{1, 1, 1, 1},
		Compare: true,
	})
	if err != nil {
		r.Destroy(target)
		r.Destroy(pipe)
		return nil, fmt.Errorf("shadow sampler: %w", err)
	}
	s := &ShadowMap{
		Size:     size,
		Extent:   20,
		Distance: 20,
		Near:     0.1,
		Far:      60,
		Bias:     0.005,
		PCF:      true,
		Target:   target,
		Pipeline: pipe,
		Sampler:  smp,
	}
	s.Update(scene.Directional(mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 1, 1}, 1))
	return s, nil
}

// Update aims the shadow camera along the light's direction at Center.
func (s *ShadowMap) Update(l scene.Light) {
	dir := l.Direction
	if dir.Len() == 0 {
		dir = mgl32.Vec3{0, -1, 0}
	}
	dir = dir.Normalize()
	eye := s.Center.Sub(dir.Mul(s.Distance))
	s.view = scene.LookTo(eye, dir, mgl32.Vec3{0, 1, 0})
	s.proj = scene.OrthoMatrix(2*s.Extent, 2*s.Extent, s.Near, s.Far)
}

func (s *ShadowMap) LightView() mgl32.Mat4       { return s.view }
func (s *ShadowMap) LightProjection() mgl32.Mat4 { return s.proj }

// LightViewProjection maps world positions into the shadow map's clip space.
func (s *ShadowMap) LightViewProjection() mgl32.Mat4 { return s.proj.Mul4(s.view) }

func (s *ShadowMap) Destroy(r core.Renderer) {
	r.Destroy(s.Target)
	r.Destroy(s.Pipeline)
	r.Destroy(s.Sampler)
}
