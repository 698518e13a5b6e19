// Package glbackend implements core.Renderer on OpenGL 3.3 core.
//
// The engine's world is left-handed like Direct3D, so outward faces wind
// clockwise on screen; the backend sets glFrontFace(GL_CW) once and every
// CullBack pipeline culls the counter-clockwise side.
package glbackend

import (
	"fmt"
	"sort"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/hubastard/grove3d/engine/core"
	"github.com/hubastard/grove3d/engine/log"
)

var logger = log.New("gl")

type RendererGL struct {
	win  core.Window
	w, h int

	// Everything created and not yet destroyed, freed at Shutdown.
	live map[any]struct{}

	inPass    bool
	wireframe bool
	cur       *pipeline
	units     int // texture units bound by the last draw
	names     []string
	stats     core.FrameStats

	vendor, renderer, version string
}

var _ core.Renderer = (*RendererGL)(nil)

// NewRendererGL expects the window's GL context to be current.
func NewRendererGL(win core.Window, _ core.Config) (*RendererGL, error) {
	r := &RendererGL{win: win, live: make(map[any]struct{})}
	if err := r.Init(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *RendererGL) Init() error {
	r.vendor = gl.GoStr(gl.GetString(gl.VENDOR))
	r.renderer = gl.GoStr(gl.GetString(gl.RENDERER))
	r.version = gl.GoStr(gl.GetString(gl.VERSION))
	logger.Infof("GL %s (%s, %s)", r.version, r.renderer, r.vendor)

	gl.FrontFace(gl.CW)
	gl.Enable(gl.TEXTURE_CUBE_MAP_SEAMLESS)
	r.defaultState()
	if r.win != nil {
		r.w, r.h = r.win.FramebufferSize()
	}
	return checkError("init")
}

func (r *RendererGL) Shutdown() {
	for res := range r.live {
		r.Destroy(res)
	}
}

func (r *RendererGL) Resize(w, h int) {
	r.w, r.h = w, h
	gl.Viewport(0, 0, int32(w), int32(h))
}

func (r *RendererGL) Size() (int, int) { return r.w, r.h }

func (r *RendererGL) GPUVendor() string   { return r.vendor }
func (r *RendererGL) GPURenderer() string { return r.renderer }
func (r *RendererGL) GPUVersion() string  { return r.version }

func (r *RendererGL) Stats() core.FrameStats { return r.stats }
func (r *RendererGL) ResetStats()            { r.stats = core.FrameStats{} }

// ---- resources ----

func (r *RendererGL) track(res any) { r.live[res] = struct{}{} }

func (r *RendererGL) CreatePipeline(desc core.PipelineDesc) (core.Pipeline, error) {
	p, err := newPipeline(desc)
	if err != nil {
		return nil, err
	}
	r.track(p)
	return p, nil
}

// ReloadPipeline recompiles p from new sources. On failure p keeps its
// previous program.
func (r *RendererGL) ReloadPipeline(p core.Pipeline, vertSrc, fragSrc string) error {
	pp, ok := p.(*pipeline)
	if !ok {
		return fmt.Errorf("reload: foreign pipeline %T", p)
	}
	prog, err := makeProgram(vertSrc, fragSrc)
	if err != nil {
		return fmt.Errorf("reload %q: %w", pp.desc.Name, err)
	}
	gl.DeleteProgram(pp.prog)
	pp.prog = prog
	pp.desc.VertexSource, pp.desc.FragmentSource = vertSrc, fragSrc
	pp.bind()
	if r.cur == pp {
		r.cur = nil
	}
	logger.Infof("reloaded pipeline %q", pp.desc.Name)
	return nil
}

func (r *RendererGL) CreateMesh(desc core.MeshDesc) (core.Mesh, error) {
	m, err := newMesh(desc)
	if err != nil {
		return nil, err
	}
	r.track(m)
	return m, nil
}

func (r *RendererGL) UpdateMesh(m core.Mesh, vertices []float32, indices []uint32) error {
	mm, ok := m.(*mesh)
	if !ok {
		return fmt.Errorf("update: foreign mesh %T", m)
	}
	gl.BindVertexArray(mm.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, mm.vbo)
	mm.upload(vertices, indices)
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return checkError("update mesh")
}

func (r *RendererGL) CreateTexture(desc core.TextureDesc) (core.Texture, error) {
	t, err := newTexture(desc)
	if err != nil {
		return nil, err
	}
	r.track(t)
	return t, nil
}

func (r *RendererGL) CreateCubemap(desc core.CubemapDesc) (core.Texture, error) {
	t, err := newCubemap(desc)
	if err != nil {
		return nil, err
	}
	r.track(t)
	return t, nil
}

func (r *RendererGL) CreateSampler(desc core.SamplerDesc) (core.Sampler, error) {
	s, err := newSampler(desc)
	if err != nil {
		return nil, err
	}
	r.track(s)
	return s, nil
}

func (r *RendererGL) CreateRenderTarget(desc core.RenderTargetDesc) (core.RenderTarget, error) {
	t, err := newRenderTarget(desc)
	if err != nil {
		return nil, err
	}
	r.track(t)
	return t, nil
}

func (r *RendererGL) CreateBuffer(size int) (core.Buffer, error) {
	b, err := newBuffer(size)
	if err != nil {
		return nil, err
	}
	r.track(b)
	return b, nil
}

func (r *RendererGL) UpdateBuffer(b core.Buffer, data []byte) error {
	bb, ok := b.(*buffer)
	if !ok {
		return fmt.Errorf("update: foreign buffer %T", b)
	}
	return bb.update(data)
}

func (r *RendererGL) Destroy(res any) {
	switch v := res.(type) {
	case *pipeline:
		gl.DeleteProgram(v.prog)
		if r.cur == v {
			r.cur = nil
		}
	case *mesh:
		v.destroy()
	case *texture:
		gl.DeleteTextures(1, &v.id)
	case *sampler:
		gl.DeleteSamplers(1, &v.id)
	case *renderTarget:
		v.destroy()
	case *buffer:
		gl.DeleteBuffers(1, &v.id)
	case nil:
		return
	default:
		logger.Warningf("destroy: unknown resource %T", res)
		return
	}
	delete(r.live, res)
}

// ---- passes ----

func (r *RendererGL) BeginPass(desc core.PassDesc) {
	if r.inPass {
		logger.Warningf("pass %q begun inside another pass", desc.Name)
		r.EndPass()
	}
	r.inPass = true
	r.wireframe = desc.Wireframe
	r.stats.Passes = append(r.stats.Passes, desc.Name)

	w, h := r.w, r.h
	if t, ok := desc.Target.(*renderTarget); ok {
		gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
		w, h = t.w, t.h
	} else {
		if desc.Target != nil {
			logger.Warningf("pass %q: foreign target %T, drawing to the back buffer", desc.Name, desc.Target)
		}
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	}
	if vp := desc.Viewport; vp[2] > 0 && vp[3] > 0 {
		gl.Viewport(int32(vp[0]), int32(vp[1]), int32(vp[2]), int32(vp[3]))
	} else {
		gl.Viewport(0, 0, int32(w), int32(h))
	}

	var mask uint32
	if desc.Clear&core.ClearColor != 0 {
		c := desc.ClearColor
		gl.ClearColor(c[0], c[1], c[2], c[3])
		mask |= gl.COLOR_BUFFER_BIT
	}
	if desc.Clear&core.ClearDepth != 0 {
		// Depth clears honour the write mask.
		gl.DepthMask(true)
		gl.ClearDepth(float64(desc.ClearDepth))
		mask |= gl.DEPTH_BUFFER_BIT
	}
	if mask != 0 {
		gl.Clear(mask)
	}
	if r.wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	}
}

func (r *RendererGL) EndPass() {
	if !r.inPass {
		logger.Warning("EndPass without BeginPass")
		return
	}
	r.inPass = false
	r.wireframe = false
	r.defaultState()
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// defaultState restores what every pass starts from.
func (r *RendererGL) defaultState() {
	gl.UseProgram(0)
	r.cur = nil
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(true)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	gl.Disable(gl.BLEND)
	for i := 0; i < r.units; i++ {
		gl.BindSampler(uint32(i), 0)
	}
	r.units = 0
}

func (r *RendererGL) apply(p *pipeline) {
	if r.cur == p {
		return
	}
	r.cur = p
	d := p.desc
	gl.UseProgram(p.prog)

	switch d.Cull {
	case core.CullNone:
		gl.Disable(gl.CULL_FACE)
	case core.CullFront:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	default:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}

	if d.Fill == core.FillWireframe || r.wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	if d.DepthTest {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthMask(!d.DepthReadOnly)
		switch d.DepthFunc {
		case core.CompareLessEqual:
			gl.DepthFunc(gl.LEQUAL)
		case core.CompareAlways:
			gl.DepthFunc(gl.ALWAYS)
		default:
			gl.DepthFunc(gl.LESS)
		}
	} else {
		gl.Disable(gl.DEPTH_TEST)
		gl.DepthMask(false)
	}

	if d.Blend {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	} else {
		gl.Disable(gl.BLEND)
	}
}

func (r *RendererGL) Draw(cmd core.DrawCmd) {
	if !r.inPass {
		logger.Warning("draw outside a pass dropped")
		return
	}
	p, ok := cmd.Pipe.(*pipeline)
	if !ok {
		logger.Warningf("draw with foreign pipeline %T dropped", cmd.Pipe)
		return
	}
	m, ok := cmd.Mesh.(*mesh)
	if !ok {
		logger.Warningf("draw with foreign mesh %T dropped", cmd.Mesh)
		return
	}
	r.apply(p)

	for name, v := range cmd.Uniforms {
		p.setUniform(name, v)
	}
	for name, b := range cmd.Buffers {
		slot, ok := p.desc.Blocks[name]
		if !ok {
			continue
		}
		if bb, ok := b.(*buffer); ok {
			gl.BindBufferBase(gl.UNIFORM_BUFFER, slot, bb.id)
		}
	}
	r.bindTextures(p, cmd)

	count := cmd.IndexCount
	if count == 0 || count > m.icount {
		count = m.icount
	}
	gl.BindVertexArray(m.vao)
	if m.icount > 0 {
		gl.DrawElementsWithOffset(gl.TRIANGLES, int32(count), gl.UNSIGNED_INT, 0)
	} else {
		count = m.vcount
		gl.DrawArrays(gl.TRIANGLES, 0, int32(count))
	}
	gl.BindVertexArray(0)

	r.stats.DrawCalls++
	r.stats.Triangles += count / 3
}

// bindTextures gives each named texture its own unit, in name order so
// units are stable between draws.
func (r *RendererGL) bindTextures(p *pipeline, cmd core.DrawCmd) {
	r.names = r.names[:0]
	for name := range cmd.Samplers {
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)

	unit := 0
	for _, name := range r.names {
		t, ok := cmd.Samplers[name].(*texture)
		if !ok {
			continue
		}
		l := p.loc(name)
		if l < 0 {
			continue
		}
		gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
		gl.BindTexture(t.target, t.id)
		gl.Uniform1i(l, int32(unit))
		var sid uint32
		if s, ok := cmd.SamplerStates[name].(*sampler); ok {
			sid = s.id
		}
		gl.BindSampler(uint32(unit), sid)
		unit++
	}
	// Drop sampler objects left on units this draw no longer uses.
	for i := unit; i < r.units; i++ {
		gl.BindSampler(uint32(i), 0)
	}
	r.units = unit
	gl.ActiveTexture(gl.TEXTURE0)
}
