package render

import (
	"github.com/hubastard/grove3d/engine/core"
	"github.com/hubastard/grove3d/engine/gfx/cbuffer"
)

// MeshPipelineDesc is the state lit entities are drawn with.
func MeshPipelineDesc(name, vs, fs string) core.PipelineDesc {
	return core.PipelineDesc{
		Name:           name,
		VertexSource:   vs,
		FragmentSource: fs,
		Cull:           core.CullBack,
		DepthTest:      true,
		DepthFunc:      core.CompareLess,
		Blocks: map[string]uint32{
			cbuffer.ObjectBlock:   core.SlotObject,
			cbuffer.FrameBlock:    core.SlotFrame,
			cbuffer.LightsBlock:   core.SlotLights,
			cbuffer.MaterialBlock: core.SlotMaterial,
		},
	}
}

// ShadowPipelineDesc renders depth only from the light. Front faces are
// culled so the stored depth is the back side of each caster.
func ShadowPipelineDesc(vs, fs string) core.PipelineDesc {
	return core.PipelineDesc{
		Name:           "shadow",
		VertexSource:   vs,
		FragmentSource: fs,
		Cull:           core.CullFront,
		DepthTest:      true,
		DepthFunc:      core.CompareLess,
		Blocks: map[string]uint32{
			cbuffer.ObjectBlock: core.SlotObject,
			cbuffer.FrameBlock:  core.SlotFrame,
		},
	}
}

// PostPipelineDesc draws a fullscreen triangle without depth.
func PostPipelineDesc(name, vs, fs string) core.PipelineDesc {
	return core.PipelineDesc{
		Name:           name,
		VertexSource:   vs,
		FragmentSource: fs,
		Cull:           core.CullNone,
		Blocks:         map[string]uint32{cbuffer.PostBlock: core.SlotPost},
	}
}
