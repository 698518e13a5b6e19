package scene

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/grove3d/engine/core"
	"github.com/hubastard/grove3d/engine/gfx/cbuffer"
)

// Texture names understood by the mesh shader.
const (
	TexAlbedo = "albedoMap"
	TexNormal = "normalMap"
	TexShadow = "shadowMap"
	TexSky    = "skyboxMap"
)

// Material is a pipeline plus the parameters and textures it is drawn with.
type Material struct {
	Name     string
	Pipeline core.Pipeline

	Tint               mgl32.Vec4
	UVScale            mgl32.Vec2
	UVOffset           mgl32.Vec2
	DistortionStrength float32
	Roughness          float32

	textures map[string]core.Texture
	samplers map[string]core.Sampler
}

func NewMaterial(name string, pipe core.Pipeline, tint mgl32.Vec4) *Material {
	return &Material{
		Name:     name,
		Pipeline: pipe,
		Tint:     tint,
		UVScale:  mgl32.Vec2{1, 1},
		textures: map[string]core.Texture{},
		samplers: map[string]core.Sampler{},
	}
}

// AddTexture binds t to the shader sampler called name, replacing any
// texture already bound there.
func (m *Material) AddTexture(name string, t core.Texture) { m.textures[name] = t }

// AddSampler registers a sampler state. A sampler named after a texture
// applies to that texture only; any other name makes it the default for
// textures without their own.
func (m *Material) AddSampler(name string, s core.Sampler) { m.samplers[name] = s }

func (m *Material) Texture(name string) core.Texture { return m.textures[name] }
func (m *Material) Sampler(name string) core.Sampler { return m.samplers[name] }

func (m *Material) fallbackSampler() core.Sampler {
	var names []string
	for n := range m.samplers {
		if _, ok := m.textures[n]; !ok {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)
	return m.samplers[names[0]]
}

// Params returns the MaterialParams block for this frame.
func (m *Material) Params(totalTime float32) cbuffer.MaterialData {
	return cbuffer.MaterialData{
		Tint:               m.Tint,
		UVScale:            m.UVScale,
		UVOffset:           m.UVOffset,
		DistortionStrength: m.DistortionStrength,
		Time:               totalTime,
		Roughness:          m.Roughness,
		HasAlbedo:          m.textures[TexAlbedo] != nil,
		HasNormalMap:       m.textures[TexNormal] != nil,
	}
}

// Prepare uploads the object and material blocks for a draw of t and
// returns a command with this material's pipeline, textures and samplers
// bound. The caller fills in the mesh.
func (m *Material) Prepare(dc *DrawContext, t *Transform) (core.DrawCmd, error) {
	world := t.WorldMatrix()
	if dc.Offset != (mgl32.Vec3{}) {
		world = mgl32.Translate3D(dc.Offset[0], dc.Offset[1], dc.Offset[2]).Mul4(world)
	}
	// The vertex stage applies the scene tint and the pixel stage the
	// material tint, so each factor reaches the colour exactly once.
	obj := cbuffer.ObjectData{Tint: dc.sceneTint(), World: world, WorldInvTranspose: t.WorldInverseTransposeMatrix()}
	if err := dc.upload(cbuffer.ObjectBlock, obj.Pack(dc.writer())); err != nil {
		return core.DrawCmd{}, err
	}
	params := m.Params(dc.TotalTime)
	if err := dc.upload(cbuffer.MaterialBlock, params.Pack(dc.writer())); err != nil {
		return core.DrawCmd{}, err
	}

	cmd := core.DrawCmd{
		Pipe:          m.Pipeline,
		Samplers:      make(map[string]core.Texture, len(m.textures)+len(dc.Textures)),
		SamplerStates: make(map[string]core.Sampler, len(m.textures)+len(dc.Textures)),
		Buffers:       dc.Buffers,
	}
	fallback := m.fallbackSampler()
	for name, tex := range m.textures {
		cmd.Samplers[name] = tex
		if s, ok := m.samplers[name]; ok {
			cmd.SamplerStates[name] = s
		} else if fallback != nil {
			cmd.SamplerStates[name] = fallback
		}
	}
	for name, tex := range dc.Textures {
		cmd.Samplers[name] = tex
		if s, ok := dc.SamplerStates[name]; ok {
			cmd.SamplerStates[name] = s
		}
	}
	if dc.Override != nil {
		cmd.Pipe = dc.Override
	}
	return cmd, nil
}
