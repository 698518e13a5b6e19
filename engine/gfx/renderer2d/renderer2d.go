// Package renderer2d batches screen-space quads for the overlay. Quads
// sharing up to maxTexSlots textures go out in one draw call.
package renderer2d

import (
	"fmt"
	"strconv"

	"github.com/hubastard/grove3d/engine/colors"
	"github.com/hubastard/grove3d/engine/core"
)

// Common GL limit for fragment sampler units.
const maxTexSlots = 16

// Vertex: pos2 + color4 + uv2 + slot1.
const (
	vStride      = 9
	vertsPerQuad = 4
	indsPerQuad  = 6
)

var quadLayout = core.VertexLayout{
	Stride: vStride * 4,
	Attributes: []core.VertexAttrib{
		{Location: 0, Size: 2, Type: core.AttribFloat32, Offset: 0},
		{Location: 1, Size: 4, Type: core.AttribFloat32, Offset: 2 * 4},
		{Location: 2, Size: 2, Type: core.AttribFloat32, Offset: 6 * 4},
		{Location: 3, Size: 1, Type: core.AttribFloat32, Offset: 8 * 4},
	},
}

// samplerNames are the uTex[i] uniform names, built once.
var samplerNames = func() (n [maxTexSlots]string) {
	for i := range n {
		n[i] = "uTex[" + strconv.Itoa(i) + "]"
	}
	return n
}()

// Statistics counts what one scene submitted.
type Statistics struct {
	DrawCalls    int
	QuadCount    int
	TextureCount int
}

func (s Statistics) TotalVertexCount() int { return s.QuadCount * vertsPerQuad }
func (s Statistics) TotalIndexCount() int  { return s.QuadCount * indsPerQuad }

type Renderer2D struct {
	r     core.Renderer
	pipe  core.Pipeline
	mesh  core.Mesh
	white core.Texture

	maxQuads int
	verts    []float32
	inds     []uint32
	slots    slotTable

	// Reused between flushes; the backend does not keep them.
	samplers map[string]core.Texture
	uniforms map[string]any

	vp    [16]float32
	stats Statistics
	err   error
}

// PipelineDesc is the alpha-blended, depth-less state quads are drawn with.
func PipelineDesc(vertSrc, fragSrc string) core.PipelineDesc {
	return core.PipelineDesc{
		Name:           "renderer2d",
		VertexSource:   vertSrc,
		FragmentSource: fragSrc,
		Cull:           core.CullNone,
		DepthTest:      false,
		Blend:          true,
	}
}

// New creates a renderer drawing through pipe, which should be created
// from PipelineDesc. A batch holds at most maxQuads quads.
func New(r core.Renderer, pipe core.Pipeline, maxQuads int) (*Renderer2D, error) {
	if maxQuads <= 0 {
		maxQuads = 10000
	}
	white, err := r.CreateTexture(core.TextureDesc{
		Width: 1, Height: 1,
		Format:    core.TextureRGBA8,
		Pixels:    []byte{255, 255, 255, 255},
		MinFilter: "nearest", MagFilter: "nearest",
		WrapU: "clamp", WrapV: "clamp",
	})
	if err != nil {
		return nil, fmt.Errorf("renderer2d white texture: %w", err)
	}

	// One dynamic mesh sized for the largest batch; flushes overwrite it.
	mesh, err := r.CreateMesh(core.MeshDesc{
		Vertices: make([]float32, maxQuads*vertsPerQuad*vStride),
		Indices:  make([]uint32, maxQuads*indsPerQuad),
		Layout:   quadLayout,
		Dynamic:  true,
	})
	if err != nil {
		r.Destroy(white)
		return nil, fmt.Errorf("renderer2d mesh: %w", err)
	}

	rd := &Renderer2D{
		r: r, pipe: pipe, mesh: mesh, white: white,
		maxQuads: maxQuads,
		verts:    make([]float32, 0, maxQuads*vertsPerQuad*vStride),
		inds:     make([]uint32, 0, maxQuads*indsPerQuad),
		samplers: make(map[string]core.Texture, maxTexSlots),
		uniforms: make(map[string]any, 1),
	}
	rd.slots.reset(white)
	return rd, nil
}

// BeginScene starts collecting quads projected by vp.
func (rd *Renderer2D) BeginScene(vp [16]float32) {
	rd.vp = vp
	rd.stats = Statistics{}
	rd.err = nil
	rd.resetBatch()
}

// EndScene flushes the last batch. It reports the first upload error of
// the scene; batches that failed to upload are dropped.
func (rd *Renderer2D) EndScene() error {
	rd.flush()
	return rd.err
}

func (rd *Renderer2D) Destroy() {
	rd.r.Destroy(rd.mesh)
	rd.r.Destroy(rd.white)
}

func (rd *Renderer2D) Stats() Statistics { return rd.stats }

// DrawRect fills the rectangle whose top-left corner is (x, y).
func (rd *Renderer2D) DrawRect(x, y, w, h float32, color colors.Color) {
	rd.quad(x, y, w, h, color, 0, Region{U1: 1, V1: 1})
}

// DrawRectLines outlines the rectangle with lines t pixels thick, drawn
// inside its bounds.
func (rd *Renderer2D) DrawRectLines(x, y, w, h, t float32, color colors.Color) {
	rd.DrawRect(x, y, w, t, color)
	rd.DrawRect(x, y+h-t, w, t, color)
	rd.DrawRect(x, y+t, t, h-2*t, color)
	rd.DrawRect(x+w-t, y+t, t, h-2*t, color)
}

// DrawImage draws all of tex into the rectangle at (x, y).
func (rd *Renderer2D) DrawImage(x, y, w, h float32, tex core.Texture, tint colors.Color) {
	rd.DrawRegion(x, y, w, h, Whole(tex), tint)
}

// DrawRegion draws part of a texture into the rectangle at (x, y).
func (rd *Renderer2D) DrawRegion(x, y, w, h float32, reg Region, tint colors.Color) {
	if reg.Texture == nil {
		rd.quad(x, y, w, h, tint, 0, reg)
		return
	}
	slot, ok := rd.slots.find(reg.Texture)
	if !ok {
		rd.flush()
		slot, _ = rd.slots.find(reg.Texture)
	}
	rd.quad(x, y, w, h, tint, slot, reg)
}

func (rd *Renderer2D) quad(x, y, w, h float32, c colors.Color, slot int, reg Region) {
	if len(rd.inds)/indsPerQuad >= rd.maxQuads {
		rd.flush()
	}
	// Flushing may have dropped the region's texture from the table.
	if slot > 0 && (slot >= rd.slots.n || rd.slots.tex[slot] != reg.Texture) {
		slot, _ = rd.slots.find(reg.Texture)
	}

	base := uint32(len(rd.verts) / vStride)
	s := float32(slot)
	x1, y1 := x+w, y+h
	rd.verts = append(rd.verts,
		x, y, c[0], c[1], c[2], c[3], reg.U0, reg.V0, s,
		x1, y, c[0], c[1], c[2], c[3], reg.U1, reg.V0, s,
		x, y1, c[0], c[1], c[2], c[3], reg.U0, reg.V1, s,
		x1, y1, c[0], c[1], c[2], c[3], reg.U1, reg.V1, s,
	)
	rd.inds = append(rd.inds, base, base+2, base+1, base+1, base+2, base+3)
	rd.stats.QuadCount++
	rd.stats.TextureCount = max(rd.stats.TextureCount, rd.slots.n)
}

func (rd *Renderer2D) flush() {
	if len(rd.inds) == 0 {
		return
	}
	defer rd.resetBatch()

	if err := rd.r.UpdateMesh(rd.mesh, rd.verts, rd.inds); err != nil {
		if rd.err == nil {
			rd.err = fmt.Errorf("renderer2d upload: %w", err)
		}
		return
	}

	clear(rd.samplers)
	for i := 0; i < rd.slots.n; i++ {
		rd.samplers[samplerNames[i]] = rd.slots.tex[i]
	}
	rd.uniforms["uVP"] = rd.vp

	rd.r.Draw(core.DrawCmd{
		Pipe:     rd.pipe,
		Mesh:     rd.mesh,
		Uniforms: rd.uniforms,
		Samplers: rd.samplers,
		// Only the filled part of the shared mesh is drawn.
		IndexCount: len(rd.inds),
	})
	rd.stats.DrawCalls++
}

func (rd *Renderer2D) resetBatch() {
	rd.verts = rd.verts[:0]
	rd.inds = rd.inds[:0]
	rd.slots.reset(rd.white)
}
