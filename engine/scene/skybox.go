package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/grove3d/engine/core"
	"github.com/hubastard/grove3d/engine/geometry"
)

// Skybox draws a cubemap around the camera after the opaque geometry. The
// pipeline culls front faces so the inside of the cube is visible and
// compares depth with LessEqual so the sky sits on the far plane.
type Skybox struct {
	Mesh     *geometry.Mesh
	Cubemap  core.Texture
	Sampler  core.Sampler
	Pipeline core.Pipeline
}

// SkyPipelineDesc is the pipeline state the sky is drawn with.
func SkyPipelineDesc(vs, fs string) core.PipelineDesc {
	return core.PipelineDesc{
		Name:           "sky",
		VertexSource:   vs,
		FragmentSource: fs,
		Cull:           core.CullFront,
		DepthTest:      true,
		DepthFunc:      core.CompareLessEqual,
	}
}

// NewSkybox uploads faces and draws them with pipe, which should be created
// from SkyPipelineDesc. The skybox owns pipe from then on.
func NewSkybox(r core.Renderer, mesh *geometry.Mesh, sampler core.Sampler, faces core.CubemapDesc, pipe core.Pipeline) (*Skybox, error) {
	cube, err := r.CreateCubemap(faces)
	if err != nil {
		return nil, fmt.Errorf("skybox cubemap: %w", err)
	}
	return &Skybox{Mesh: mesh, Cubemap: cube, Sampler: sampler, Pipeline: pipe}, nil
}

// SkyView strips the translation from a view matrix so the sky follows
// the camera.
func SkyView(view mgl32.Mat4) mgl32.Mat4 {
	return view.Mat3().Mat4()
}

func (s *Skybox) Draw(r core.Renderer, cam *Camera) {
	if s == nil || cam == nil {
		return
	}
	cmd := core.DrawCmd{
		Pipe: s.Pipeline,
		Mesh: s.Mesh.GPU,
		Uniforms: map[string]any{
			"view":       SkyView(cam.ViewMatrix()),
			"projection": cam.ProjectionMatrix(),
		},
		Samplers: map[string]core.Texture{TexSky: s.Cubemap},
	}
	if s.Sampler != nil {
		cmd.SamplerStates = map[string]core.Sampler{TexSky: s.Sampler}
	}
	r.Draw(cmd)
}

func (s *Skybox) Destroy(r core.Renderer) {
	r.Destroy(s.Cubemap)
	r.Destroy(s.Pipeline)
}
