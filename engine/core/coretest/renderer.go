// Package coretest provides a recording core.Renderer and core.Window for
// tests that exercise rendering code without a GPU.
package coretest

import (
	"fmt"

	"github.com/hubastard/grove3d/engine/core"
)

type Pipeline struct {
	ID       int
	D        core.PipelineDesc
	Reloaded int
}

func (p *Pipeline) Desc() core.PipelineDesc { return p.D }

type Mesh struct {
	ID       int
	Vertices []float32
	Indices  []uint32
	Layout   core.VertexLayout
}

func (m *Mesh) VertexCount() int {
	if m.Layout.Floats() == 0 {
		return 0
	}
	return len(m.Vertices) / m.Layout.Floats()
}
func (m *Mesh) IndexCount() int { return len(m.Indices) }

type Texture struct {
	ID   int
	W, H int
	K    core.TextureKind
	Desc core.TextureDesc
}

func (t *Texture) Size() (int, int)       { return t.W, t.H }
func (t *Texture) Kind() core.TextureKind { return t.K }

type RenderTarget struct {
	ID    int
	W, H  int
	C, D  *Texture
	Descr core.RenderTargetDesc
}

func (t *RenderTarget) Size() (int, int) { return t.W, t.H }
func (t *RenderTarget) Color() core.Texture {
	if t.C == nil {
		return nil
	}
	return t.C
}
func (t *RenderTarget) Depth() core.Texture {
	if t.D == nil {
		return nil
	}
	return t.D
}

type Buffer struct {
	ID   int
	Data []byte
}

func (b *Buffer) Len() int { return len(b.Data) }

type Sampler struct {
	ID int
	D  core.SamplerDesc
}

func (s *Sampler) Desc() core.SamplerDesc { return s.D }

// Draw is a recorded draw call. Data holds a copy of every bound buffer's
// contents at submission time, keyed like DrawCmd.Buffers.
type Draw struct {
	core.DrawCmd
	Data map[string][]byte
}

// Pass is a recorded pass with the draws submitted inside it.
type Pass struct {
	Desc  core.PassDesc
	Draws []Draw
}

// Renderer records every call. It is not safe for concurrent use, like the
// GL backend it stands in for.
type Renderer struct {
	W, H      int
	Calls     []string
	Passes    []Pass
	Destroyed []any
	// FailCreate makes every Create* call return this error.
	FailCreate error

	nextID int
	open   *Pass
	stats  core.FrameStats
}

var _ core.Renderer = (*Renderer)(nil)

func New(w, h int) *Renderer { return &Renderer{W: w, H: h} }

func (r *Renderer) id() int { r.nextID++; return r.nextID }

func (r *Renderer) record(format string, args ...any) {
	r.Calls = append(r.Calls, fmt.Sprintf(format, args...))
}

func (r *Renderer) Init() error      { r.record("Init"); return nil }
func (r *Renderer) Resize(w, h int)  { r.W, r.H = w, h; r.record("Resize %dx%d", w, h) }
func (r *Renderer) Size() (int, int) { return r.W, r.H }
func (r *Renderer) Shutdown()        { r.record("Shutdown") }

func (r *Renderer) CreatePipeline(desc core.PipelineDesc) (core.Pipeline, error) {
	if r.FailCreate != nil {
		return nil, r.FailCreate
	}
	r.record("CreatePipeline %s", desc.Name)
	return &Pipeline{ID: r.id(), D: desc}, nil
}

func (r *Renderer) ReloadPipeline(p core.Pipeline, vertSrc, fragSrc string) error {
	pp := p.(*Pipeline)
	pp.D.VertexSource, pp.D.FragmentSource = vertSrc, fragSrc
	pp.Reloaded++
	r.record("ReloadPipeline %s", pp.D.Name)
	return nil
}

func (r *Renderer) CreateMesh(desc core.MeshDesc) (core.Mesh, error) {
	if r.FailCreate != nil {
		return nil, r.FailCreate
	}
	r.record("CreateMesh")
	return &Mesh{ID: r.id(), Vertices: desc.Vertices, Indices: desc.Indices, Layout: desc.Layout}, nil
}

func (r *Renderer) UpdateMesh(m core.Mesh, vertices []float32, indices []uint32) error {
	mm := m.(*Mesh)
	mm.Vertices = append(mm.Vertices[:0], vertices...)
	mm.Indices = append(mm.Indices[:0], indices...)
	return nil
}

func (r *Renderer) CreateTexture(desc core.TextureDesc) (core.Texture, error) {
	if r.FailCreate != nil {
		return nil, r.FailCreate
	}
	r.record("CreateTexture %dx%d", desc.Width, desc.Height)
	return &Texture{ID: r.id(), W: desc.Width, H: desc.Height, K: core.Texture2D, Desc: desc}, nil
}

func (r *Renderer) CreateCubemap(desc core.CubemapDesc) (core.Texture, error) {
	if r.FailCreate != nil {
		return nil, r.FailCreate
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	r.record("CreateCubemap %dx%d", desc.Faces[0].Width, desc.Faces[0].Height)
	return &Texture{ID: r.id(), W: desc.Faces[0].Width, H: desc.Faces[0].Height, K: core.TextureCube}, nil
}

func (r *Renderer) CreateSampler(desc core.SamplerDesc) (core.Sampler, error) {
	if r.FailCreate != nil {
		return nil, r.FailCreate
	}
	r.record("CreateSampler %s/%s", desc.MinFilter, desc.WrapU)
	return &Sampler{ID: r.id(), D: desc}, nil
}

func (r *Renderer) CreateRenderTarget(desc core.RenderTargetDesc) (core.RenderTarget, error) {
	if r.FailCreate != nil {
		return nil, r.FailCreate
	}
	r.record("CreateRenderTarget %dx%d", desc.Width, desc.Height)
	t := &RenderTarget{ID: r.id(), W: desc.Width, H: desc.Height, Descr: desc}
	if desc.Color {
		t.C = &Texture{ID: r.id(), W: desc.Width, H: desc.Height, K: core.Texture2D}
	}
	if desc.Depth {
		t.D = &Texture{ID: r.id(), W: desc.Width, H: desc.Height, K: core.TextureDepth}
	}
	return t, nil
}

func (r *Renderer) CreateBuffer(size int) (core.Buffer, error) {
	if r.FailCreate != nil {
		return nil, r.FailCreate
	}
	r.record("CreateBuffer %d", size)
	return &Buffer{ID: r.id(), Data: make([]byte, size)}, nil
}

func (r *Renderer) UpdateBuffer(b core.Buffer, data []byte) error {
	bb := b.(*Buffer)
	if len(data) > len(bb.Data) {
		return fmt.Errorf("buffer overflow: %d > %d", len(data), len(bb.Data))
	}
	copy(bb.Data, data)
	return nil
}

func (r *Renderer) Destroy(res any) {
	r.Destroyed = append(r.Destroyed, res)
}

func (r *Renderer) BeginPass(desc core.PassDesc) {
	if r.open != nil {
		panic("coretest: BeginPass inside pass " + r.open.Desc.Name)
	}
	r.record("BeginPass %s", desc.Name)
	r.open = &Pass{Desc: desc}
	r.stats.Passes = append(r.stats.Passes, desc.Name)
}

func (r *Renderer) Draw(cmd core.DrawCmd) {
	if r.open == nil {
		panic("coretest: Draw outside a pass")
	}
	// Snapshot the maps; callers reuse them between draws.
	c := cmd
	c.Uniforms = make(map[string]any, len(cmd.Uniforms))
	for k, v := range cmd.Uniforms {
		c.Uniforms[k] = v
	}
	c.Samplers = make(map[string]core.Texture, len(cmd.Samplers))
	for k, v := range cmd.Samplers {
		c.Samplers[k] = v
	}
	c.SamplerStates = make(map[string]core.Sampler, len(cmd.SamplerStates))
	for k, v := range cmd.SamplerStates {
		c.SamplerStates[k] = v
	}
	c.Buffers = make(map[string]core.Buffer, len(cmd.Buffers))
	data := make(map[string][]byte, len(cmd.Buffers))
	for k, v := range cmd.Buffers {
		c.Buffers[k] = v
		if b, ok := v.(*Buffer); ok {
			data[k] = append([]byte(nil), b.Data...)
		}
	}
	r.open.Draws = append(r.open.Draws, Draw{DrawCmd: c, Data: data})
	r.stats.DrawCalls++
	n := cmd.IndexCount
	if n == 0 && cmd.Mesh != nil {
		n = cmd.Mesh.IndexCount()
	}
	r.stats.Triangles += n / 3
}

func (r *Renderer) EndPass() {
	if r.open == nil {
		panic("coretest: EndPass without BeginPass")
	}
	r.record("EndPass %s", r.open.Desc.Name)
	r.Passes = append(r.Passes, *r.open)
	r.open = nil
}

func (r *Renderer) Stats() core.FrameStats { return r.stats }
func (r *Renderer) ResetStats()            { r.stats = core.FrameStats{} }

func (r *Renderer) GPUVendor() string   { return "coretest" }
func (r *Renderer) GPURenderer() string { return "recording" }
func (r *Renderer) GPUVersion() string  { return "0" }

// PassNames lists recorded pass names in submission order.
func (r *Renderer) PassNames() []string {
	out := make([]string, len(r.Passes))
	for i, p := range r.Passes {
		out[i] = p.Desc.Name
	}
	return out
}

// Draws flattens the draws of every recorded pass called name.
func (r *Renderer) Draws(name string) []Draw {
	var out []Draw
	for _, p := range r.Passes {
		if p.Desc.Name == name {
			out = append(out, p.Draws...)
		}
	}
	return out
}

// Reset forgets recorded calls and passes but keeps created resources valid.
func (r *Renderer) Reset() {
	r.Calls = nil
	r.Passes = nil
	r.stats = core.FrameStats{}
}
