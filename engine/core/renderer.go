package core

import (
	"errors"
	"fmt"
)

// Renderer is the backend-neutral GPU surface the engine draws through.
type Renderer interface {
	Init() error
	Resize(w, h int)
	Size() (int, int)
	Shutdown()

	CreatePipeline(desc PipelineDesc) (Pipeline, error)
	ReloadPipeline(p Pipeline, vertSrc, fragSrc string) error
	CreateMesh(desc MeshDesc) (Mesh, error)
	UpdateMesh(m Mesh, vertices []float32, indices []uint32) error
	CreateTexture(desc TextureDesc) (Texture, error)
	CreateCubemap(desc CubemapDesc) (Texture, error)
	CreateSampler(desc SamplerDesc) (Sampler, error)
	CreateRenderTarget(desc RenderTargetDesc) (RenderTarget, error)
	CreateBuffer(size int) (Buffer, error)
	UpdateBuffer(b Buffer, data []byte) error
	Destroy(res any)

	BeginPass(desc PassDesc)
	Draw(cmd DrawCmd)
	EndPass()

	Stats() FrameStats
	ResetStats()

	GPUVendor() string
	GPURenderer() string
	GPUVersion() string
}

// Resource handles. Backends return their own concrete types; callers only
// compare and pass them back.
type (
	Pipeline interface {
		Desc() PipelineDesc
	}
	Mesh interface {
		VertexCount() int
		IndexCount() int
	}
	Texture interface {
		Size() (int, int)
		Kind() TextureKind
	}
	RenderTarget interface {
		Size() (int, int)
		Color() Texture // nil for depth-only targets
		Depth() Texture // nil when the target has no sampled depth
	}
	Buffer interface {
		Len() int
	}
	Sampler interface {
		Desc() SamplerDesc
	}
)

// FrameStats counts the work submitted since the last ResetStats.
type FrameStats struct {
	DrawCalls int
	Triangles int
	Passes    []string
}

// ---- pipeline state ----

type CullMode int

const (
	CullBack CullMode = iota
	CullFront
	CullNone
)

type FillMode int

const (
	FillSolid FillMode = iota
	FillWireframe
)

type CompareFunc int

const (
	CompareLess CompareFunc = iota
	CompareLessEqual
	CompareAlways
)

// PipelineDesc bundles shaders with rasterizer, depth-stencil and blend state.
type PipelineDesc struct {
	Name           string
	VertexSource   string
	FragmentSource string

	Cull          CullMode
	Fill          FillMode
	DepthTest     bool
	DepthReadOnly bool
	DepthFunc     CompareFunc
	Blend         bool

	// Blocks maps uniform block names to binding slots.
	Blocks map[string]uint32
}

// Uniform block slots shared by every 3D pipeline.
const (
	SlotObject   uint32 = 0
	SlotFrame    uint32 = 1
	SlotLights   uint32 = 2
	SlotMaterial uint32 = 3
	SlotPost     uint32 = 4
)

// ---- meshes ----

type AttribType int

const (
	AttribFloat32 AttribType = iota
)

type VertexAttrib struct {
	Location uint32
	Size     int32 // component count
	Type     AttribType
	Offset   int // bytes
}

type VertexLayout struct {
	Stride     int32 // bytes
	Attributes []VertexAttrib
}

// Floats returns the number of float32 values per vertex.
func (l VertexLayout) Floats() int { return int(l.Stride) / 4 }

type MeshDesc struct {
	Vertices []float32
	Indices  []uint32
	Layout   VertexLayout
	Dynamic  bool
}

// ---- textures ----

type TextureKind int

const (
	Texture2D TextureKind = iota
	TextureCube
	TextureDepth
)

type TextureFormat int

const (
	TextureRGBA8 TextureFormat = iota
	TextureRGBA16F
	TextureDepth24
)

type TextureDesc struct {
	Width, Height int
	Format        TextureFormat
	Pixels        []byte // nil allocates storage only

	MinFilter, MagFilter string // "linear" | "nearest" | "mipmap"
	WrapU, WrapV         string // "clamp" | "repeat" | "border"
}

// SamplerDesc describes filtering and addressing independent of a texture.
// A sampler bound next to a texture overrides the texture's own parameters.
type SamplerDesc struct {
	MinFilter, MagFilter string
	WrapU, WrapV, WrapW  string
	Border               [4]float32
	MaxAnisotropy        float32 // <= 1 disables
	// Compare turns depth lookups into less-or-equal comparisons.
	Compare bool
}

// Image is one tightly packed RGBA8 face.
type Image struct {
	Width, Height int
	Pixels        []byte
}

// CubemapDesc lists the faces in +X, -X, +Y, -Y, +Z, -Z order.
type CubemapDesc struct {
	Faces [6]Image
}

var (
	ErrCubemapFaceMismatch = errors.New("cubemap faces differ in size")
	ErrCubemapFaceEmpty    = errors.New("cubemap face has no pixels")
)

// Validate checks that every face is square-compatible RGBA8 data of one size.
func (d CubemapDesc) Validate() error {
	w, h := d.Faces[0].Width, d.Faces[0].Height
	for i, f := range d.Faces {
		if f.Width <= 0 || f.Height <= 0 || len(f.Pixels) == 0 {
			return fmt.Errorf("face %d: %w", i, ErrCubemapFaceEmpty)
		}
		if f.Width != w || f.Height != h {
			return fmt.Errorf("face %d is %dx%d, face 0 is %dx%d: %w", i, f.Width, f.Height, w, h, ErrCubemapFaceMismatch)
		}
		if len(f.Pixels) != f.Width*f.Height*4 {
			return fmt.Errorf("face %d: expected %d bytes, got %d", i, f.Width*f.Height*4, len(f.Pixels))
		}
	}
	return nil
}

// ---- render targets and passes ----

type RenderTargetDesc struct {
	Width, Height int
	Color         bool
	ColorFormat   TextureFormat
	Depth         bool
	// DepthCompare samples the depth texture with a comparison sampler (shadow maps).
	DepthCompare bool
}

type ClearFlags int

const (
	ClearColor ClearFlags = 1 << iota
	ClearDepth
)

// PassDesc opens a pass. A nil Target renders to the back buffer.
type PassDesc struct {
	Name       string
	Target     RenderTarget
	Clear      ClearFlags
	ClearColor [4]float32
	ClearDepth float32
	Viewport   [4]int // zero means the whole target
	// Wireframe rasterizes every draw in the pass as lines.
	Wireframe bool
}

// DrawCmd is one draw call with everything it binds.
type DrawCmd struct {
	Pipe     Pipeline
	Mesh     Mesh
	Uniforms map[string]any
	Samplers map[string]Texture
	// SamplerStates are keyed by the same names as Samplers.
	SamplerStates map[string]Sampler
	Buffers       map[string]Buffer
	// IndexCount limits the draw to the first n indices; zero draws all.
	IndexCount int
}
