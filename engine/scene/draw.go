package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/grove3d/engine/core"
	"github.com/hubastard/grove3d/engine/gfx/cbuffer"
)

// DrawContext carries the per-pass state entities draw with.
type DrawContext struct {
	Renderer  core.Renderer
	Camera    *Camera
	TotalTime float32

	// Tint multiplies every material tint; zero leaves tints unchanged.
	Tint mgl32.Vec4
	// Offset translates every entity in world space.
	Offset mgl32.Vec3

	// Buffers are the uniform blocks bound to every draw, keyed by block
	// name. The object and material blocks are rewritten per draw.
	Buffers map[string]core.Buffer
	// Textures and SamplerStates are bound in addition to the material's,
	// e.g. the shadow map.
	Textures      map[string]core.Texture
	SamplerStates map[string]core.Sampler
	// Override replaces every material pipeline, e.g. for the depth pass.
	Override core.Pipeline

	w *cbuffer.Writer
}

func (dc *DrawContext) writer() *cbuffer.Writer {
	if dc.w == nil {
		dc.w = cbuffer.NewWriter(cbuffer.FrameSize)
	}
	return dc.w
}

func (dc *DrawContext) upload(block string, data []byte) error {
	b, ok := dc.Buffers[block]
	if !ok {
		return nil
	}
	if err := dc.Renderer.UpdateBuffer(b, data); err != nil {
		return fmt.Errorf("upload %s: %w", block, err)
	}
	return nil
}

func (dc *DrawContext) sceneTint() mgl32.Vec4 {
	if dc.Tint == (mgl32.Vec4{}) {
		return mgl32.Vec4{1, 1, 1, 1}
	}
	return dc.Tint
}
