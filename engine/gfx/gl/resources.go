package glbackend

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/hubastard/grove3d/engine/core"
)

// GL_TEXTURE_MAX_ANISOTROPY(_EXT); core only since 4.6 but exposed by
// every desktop driver as an extension.
const texMaxAnisotropy = 0x84FE

var ErrBufferOverflow = errors.New("data larger than buffer")

type mesh struct {
	vao, vbo, ibo uint32
	layout        core.VertexLayout
	usage         uint32
	vcount        int
	icount        int
	vcap, icap    int // allocated bytes
}

func (m *mesh) VertexCount() int { return m.vcount }
func (m *mesh) IndexCount() int  { return m.icount }

type texture struct {
	id     uint32
	target uint32
	w, h   int
	kind   core.TextureKind
}

func (t *texture) Size() (int, int)       { return t.w, t.h }
func (t *texture) Kind() core.TextureKind { return t.kind }

type renderTarget struct {
	fbo          uint32
	w, h         int
	color, depth *texture
}

func (t *renderTarget) Size() (int, int) { return t.w, t.h }
func (t *renderTarget) Color() core.Texture {
	if t.color == nil {
		return nil
	}
	return t.color
}
func (t *renderTarget) Depth() core.Texture {
	if t.depth == nil {
		return nil
	}
	return t.depth
}

type buffer struct {
	id   uint32
	size int
}

func (b *buffer) Len() int { return b.size }

type sampler struct {
	id   uint32
	desc core.SamplerDesc
}

func (s *sampler) Desc() core.SamplerDesc { return s.desc }

// ptr returns a pointer to the first element, or nil for an empty slice.
func ptr[T any](s []T) unsafe.Pointer {
	if len(s) == 0 {
		return nil
	}
	return gl.Ptr(s)
}

func checkError(op string) error {
	var codes []uint32
	for e := gl.GetError(); e != gl.NO_ERROR; e = gl.GetError() {
		codes = append(codes, e)
	}
	if len(codes) > 0 {
		return fmt.Errorf("%s: gl errors %#x", op, codes)
	}
	return nil
}

// ---- meshes ----

func newMesh(desc core.MeshDesc) (*mesh, error) {
	if desc.Layout.Floats() == 0 {
		return nil, errors.New("mesh layout has no stride")
	}
	m := &mesh{layout: desc.Layout, usage: gl.STATIC_DRAW}
	if desc.Dynamic {
		m.usage = gl.DYNAMIC_DRAW
	}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.GenBuffers(1, &m.ibo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ibo)
	m.upload(desc.Vertices, desc.Indices)

	for _, a := range desc.Layout.Attributes {
		gl.EnableVertexAttribArray(a.Location)
		gl.VertexAttribPointerWithOffset(a.Location, a.Size, gl.FLOAT, false, desc.Layout.Stride, uintptr(a.Offset))
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	if err := checkError("create mesh"); err != nil {
		m.destroy()
		return nil, err
	}
	return m, nil
}

// upload expects the VAO (and so the index buffer) and the VBO to be bound.
// Storage is reallocated only when the data outgrows it.
func (m *mesh) upload(vertices []float32, indices []uint32) {
	vb, ib := len(vertices)*4, len(indices)*4
	if vb > m.vcap || m.vcap == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, vb, ptr(vertices), m.usage)
		m.vcap = vb
	} else if vb > 0 {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, vb, ptr(vertices))
	}
	if ib > m.icap || m.icap == 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, ib, ptr(indices), m.usage)
		m.icap = ib
	} else if ib > 0 {
		gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, ib, ptr(indices))
	}
	m.vcount = len(vertices) / m.layout.Floats()
	m.icount = len(indices)
}

func (m *mesh) destroy() {
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ibo)
	gl.DeleteVertexArrays(1, &m.vao)
}

// ---- textures ----

func filterEnums(min, mag string) (int32, int32) {
	conv := func(s string) int32 {
		if s == "nearest" {
			return gl.NEAREST
		}
		return gl.LINEAR
	}
	mn := conv(min)
	if min == "mipmap" {
		mn = gl.LINEAR_MIPMAP_LINEAR
	}
	return mn, conv(mag)
}

func wrapEnum(s string) int32 {
	switch s {
	case "repeat":
		return gl.REPEAT
	case "mirror":
		return gl.MIRRORED_REPEAT
	case "border":
		return gl.CLAMP_TO_BORDER
	}
	return gl.CLAMP_TO_EDGE
}

func formatEnums(f core.TextureFormat) (internal int32, format, typ uint32, bpp int) {
	switch f {
	case core.TextureRGBA16F:
		return gl.RGBA16F, gl.RGBA, gl.FLOAT, 16
	case core.TextureDepth24:
		return gl.DEPTH_COMPONENT24, gl.DEPTH_COMPONENT, gl.FLOAT, 4
	}
	return gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE, 4
}

func newTexture(desc core.TextureDesc) (*texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("texture size %dx%d", desc.Width, desc.Height)
	}
	internal, format, typ, bpp := formatEnums(desc.Format)
	if desc.Pixels != nil && len(desc.Pixels) != desc.Width*desc.Height*bpp {
		return nil, fmt.Errorf("texture %dx%d: expected %d bytes, got %d", desc.Width, desc.Height, desc.Width*desc.Height*bpp, len(desc.Pixels))
	}
	kind := core.Texture2D
	if desc.Format == core.TextureDepth24 {
		kind = core.TextureDepth
	}
	t := &texture{target: gl.TEXTURE_2D, w: desc.Width, h: desc.Height, kind: kind}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)

	mn, mg := filterEnums(desc.MinFilter, desc.MagFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, mn)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, mg)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrapEnum(desc.WrapU))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrapEnum(desc.WrapV))

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, int32(desc.Width), int32(desc.Height), 0, format, typ, ptr(desc.Pixels))
	if desc.MinFilter == "mipmap" {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
	if err := checkError("create texture"); err != nil {
		gl.DeleteTextures(1, &t.id)
		return nil, err
	}
	return t, nil
}

func newCubemap(desc core.CubemapDesc) (*texture, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	f0 := desc.Faces[0]
	t := &texture{target: gl.TEXTURE_CUBE_MAP, w: f0.Width, h: f0.Height, kind: core.TextureCube}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, t.id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	for i, f := range desc.Faces {
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), 0, gl.RGBA8, int32(f.Width), int32(f.Height), 0, gl.RGBA, gl.UNSIGNED_BYTE, ptr(f.Pixels))
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	if err := checkError("create cubemap"); err != nil {
		gl.DeleteTextures(1, &t.id)
		return nil, err
	}
	return t, nil
}

func newSampler(desc core.SamplerDesc) (*sampler, error) {
	s := &sampler{desc: desc}
	gl.GenSamplers(1, &s.id)
	mn, mg := filterEnums(desc.MinFilter, desc.MagFilter)
	gl.SamplerParameteri(s.id, gl.TEXTURE_MIN_FILTER, mn)
	gl.SamplerParameteri(s.id, gl.TEXTURE_MAG_FILTER, mg)
	gl.SamplerParameteri(s.id, gl.TEXTURE_WRAP_S, wrapEnum(desc.WrapU))
	gl.SamplerParameteri(s.id, gl.TEXTURE_WRAP_T, wrapEnum(desc.WrapV))
	gl.SamplerParameteri(s.id, gl.TEXTURE_WRAP_R, wrapEnum(desc.WrapW))
	gl.SamplerParameterfv(s.id, gl.TEXTURE_BORDER_COLOR, &desc.Border[0])
	if desc.MaxAnisotropy > 1 {
		gl.SamplerParameterf(s.id, texMaxAnisotropy, desc.MaxAnisotropy)
	}
	if desc.Compare {
		gl.SamplerParameteri(s.id, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
		gl.SamplerParameteri(s.id, gl.TEXTURE_COMPARE_FUNC, gl.LEQUAL)
	}
	if err := checkError("create sampler"); err != nil {
		gl.DeleteSamplers(1, &s.id)
		return nil, err
	}
	return s, nil
}

// ---- render targets ----

func newRenderTarget(desc core.RenderTargetDesc) (*renderTarget, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("render target size %dx%d", desc.Width, desc.Height)
	}
	if !desc.Color && !desc.Depth {
		return nil, errors.New("render target without attachments")
	}
	t := &renderTarget{w: desc.Width, h: desc.Height}
	gl.GenFramebuffers(1, &t.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	defer gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	if desc.Color {
		c, err := newTexture(core.TextureDesc{
			Width: desc.Width, Height: desc.Height,
			Format:    desc.ColorFormat,
			MinFilter: "linear", MagFilter: "linear",
			WrapU: "clamp", WrapV: "clamp",
		})
		if err != nil {
			t.destroy()
			return nil, err
		}
		t.color = c
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, c.id, 0)
	}
	if desc.Depth {
		d := &texture{target: gl.TEXTURE_2D, w: desc.Width, h: desc.Height, kind: core.TextureDepth}
		gl.GenTextures(1, &d.id)
		gl.BindTexture(gl.TEXTURE_2D, d.id)
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT24, int32(desc.Width), int32(desc.Height), 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
		if desc.DepthCompare {
			// Outside the map everything is lit.
			white := [4]float32{1, 1, 1, 1}
			gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
			gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
			gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
			gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
			gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &white[0])
			gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
			gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_FUNC, gl.LEQUAL)
		} else {
			gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
			gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
			gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
			gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
		}
		gl.BindTexture(gl.TEXTURE_2D, 0)
		t.depth = d
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, d.id, 0)
	}
	if !desc.Color {
		gl.DrawBuffer(gl.NONE)
		gl.ReadBuffer(gl.NONE)
	}

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		t.destroy()
		return nil, fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}
	return t, nil
}

func (t *renderTarget) destroy() {
	if t.color != nil {
		gl.DeleteTextures(1, &t.color.id)
	}
	if t.depth != nil {
		gl.DeleteTextures(1, &t.depth.id)
	}
	gl.DeleteFramebuffers(1, &t.fbo)
}

// ---- uniform buffers ----

func newBuffer(size int) (*buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("buffer size %d", size)
	}
	b := &buffer{size: size}
	gl.GenBuffers(1, &b.id)
	gl.BindBuffer(gl.UNIFORM_BUFFER, b.id)
	gl.BufferData(gl.UNIFORM_BUFFER, size, nil, gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	if err := checkError("create buffer"); err != nil {
		gl.DeleteBuffers(1, &b.id)
		return nil, err
	}
	return b, nil
}

func (b *buffer) update(data []byte) error {
	if len(data) > b.size {
		return fmt.Errorf("%d > %d bytes: %w", len(data), b.size, ErrBufferOverflow)
	}
	if len(data) == 0 {
		return nil
	}
	gl.BindBuffer(gl.UNIFORM_BUFFER, b.id)
	gl.BufferSubData(gl.UNIFORM_BUFFER, 0, len(data), gl.Ptr(data))
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	return nil
}
