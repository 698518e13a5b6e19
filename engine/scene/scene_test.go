package scene

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/grove3d/engine/core"
	"github.com/hubastard/grove3d/engine/core/coretest"
	"github.com/hubastard/grove3d/engine/geometry"
	"github.com/hubastard/grove3d/engine/gfx/cbuffer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSceneAnimation(t *testing.T) {
	s := New()
	a := NewEntity("a", nil, nil)
	b := NewEntity("b", nil, nil)
	shared := NewEntity("shared", nil, nil)
	shared.Transform = a.Transform
	s.Add(a, b, shared)

	total := math32.Pi / 2
	s.Update(0.1, total, nil)
	assertVec(t, mgl32.Vec3{0.05, 0, 0}, a.Transform.Position())
	assertVec(t, mgl32.Vec3{1, 1.05, 1}, a.Transform.Scaling())
	assertVec(t, mgl32.Vec3{0.05, 0, 0}, b.Transform.Position())

	s.Animate = false
	s.Update(0.1, total, nil)
	assertVec(t, mgl32.Vec3{0.05, 0, 0}, a.Transform.Position())
}

func TestSceneUpdatesOnlyActiveCamera(t *testing.T) {
	s := New()
	s.Animate = false
	a := NewCamera(mgl32.Vec3{}, 1, 0.01, 1, 1)
	b := NewCamera(mgl32.Vec3{}, 1, 0.01, 1, 1)
	s.Cameras.Add(a, false)
	s.Cameras.Add(b, true)

	in := core.NewInput()
	in.Handle(core.EventKey{Key: core.KeyW, Down: true})
	s.Update(1, 0, in)
	assert.Equal(t, mgl32.Vec3{}, a.Position())
	assertVec(t, mgl32.Vec3{0, 0, 1}, b.Position())
}

func TestSceneLights(t *testing.T) {
	s := New()
	sun := Directional(mgl32.Vec3{0, -2, 0}, mgl32.Vec3{1, 1, 1}, 1)
	sun.CastShadow = true
	off := Point(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{1, 0, 0}, 1, 5)
	off.Disabled = true
	s.Lights = []Light{off, sun}
	for i := 0; i < 10; i++ {
		s.Lights = append(s.Lights, Point(mgl32.Vec3{}, mgl32.Vec3{}, 1, 1))
	}

	data := s.LightData()
	require.Len(t, data, cbuffer.MaxLights)
	assert.Equal(t, int32(LightDirectional), data[0].Type)
	assertVec(t, mgl32.Vec3{0, -1, 0}, data[0].Direction)

	l, slot, ok := s.ShadowLight()
	require.True(t, ok)
	assert.Equal(t, sun, l)
	assert.Equal(t, 0, slot, "disabled lights are not packed")

	// A directional light that does not cast shadows keeps its slot.
	fill := Directional(mgl32.Vec3{1, -1, 0}, mgl32.Vec3{1, 1, 1}, 1)
	s.Lights = []Light{fill, off, sun}
	_, slot, ok = s.ShadowLight()
	require.True(t, ok)
	assert.Equal(t, 1, slot)

	s.Lights = []Light{off}
	_, slot, ok = s.ShadowLight()
	assert.False(t, ok)
	assert.Equal(t, -1, slot)
}

func TestLightTypes(t *testing.T) {
	spot := Spot(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 0}, 2, 10, 0.3, 0.5)
	d := spot.Data()
	assert.Equal(t, int32(2), d.Type)
	assert.Equal(t, mgl32.Vec3{}, d.Direction)
	assert.Equal(t, float32(0.5), d.SpotOuter)

	for _, name := range []string{"directional", "point", "spot"} {
		lt, err := ParseLightType(name)
		require.NoError(t, err)
		assert.Equal(t, name, lt.String())
	}
	lt, err := ParseLightType(" Dir ")
	require.NoError(t, err)
	assert.Equal(t, LightDirectional, lt)
	_, err = ParseLightType("area")
	assert.Error(t, err)
	assert.Equal(t, "LightType(7)", LightType(7).String())
}

func TestSceneTriangles(t *testing.T) {
	r := coretest.New(1, 1)
	cube, err := geometry.Upload(r, "cube", geometry.Cube(1))
	require.NoError(t, err)
	s := New()
	s.Add(NewEntity("a", cube, nil), NewEntity("b", cube, nil))
	assert.Equal(t, 24, s.Triangles())
	s.Entities[1].Hidden = true
	assert.Equal(t, 12, s.Triangles())
}

func solidFaces(size int) core.CubemapDesc {
	var d core.CubemapDesc
	for i := range d.Faces {
		d.Faces[i] = core.Image{Width: size, Height: size, Pixels: make([]byte, size*size*4)}
	}
	return d
}

func TestSkybox(t *testing.T) {
	r := coretest.New(640, 480)
	cube, err := geometry.Upload(r, "sky", geometry.Cube(1))
	require.NoError(t, err)
	smp, err := r.CreateSampler(core.SamplerDesc{MinFilter: "linear", WrapU: "clamp"})
	require.NoError(t, err)

	pipe, err := r.CreatePipeline(SkyPipelineDesc("vs", "fs"))
	require.NoError(t, err)
	sky, err := NewSkybox(r, cube, smp, solidFaces(4), pipe)
	require.NoError(t, err)
	desc := sky.Pipeline.Desc()
	assert.Equal(t, core.CullFront, desc.Cull)
	assert.Equal(t, core.CompareLessEqual, desc.DepthFunc)
	assert.True(t, desc.DepthTest)

	cam := NewCamera(mgl32.Vec3{3, 4, 5}, 1, 1, 1, 1)
	r.BeginPass(core.PassDesc{Name: "main"})
	sky.Draw(r, cam)
	r.EndPass()

	draws := r.Draws("main")
	require.Len(t, draws, 1)
	view := draws[0].Uniforms["view"].(mgl32.Mat4)
	assert.Equal(t, mgl32.Vec4{0, 0, 0, 1}, view.Col(3))
	assert.Same(t, sky.Cubemap, draws[0].Samplers[TexSky])
	assert.Same(t, smp, draws[0].SamplerStates[TexSky])

	sky.Destroy(r)
	assert.Len(t, r.Destroyed, 2)
}

func TestSkyboxBadFaces(t *testing.T) {
	r := coretest.New(1, 1)
	faces := solidFaces(4)
	faces.Faces[3] = core.Image{Width: 2, Height: 2, Pixels: make([]byte, 16)}
	_, err := NewSkybox(r, nil, nil, faces, nil)
	assert.ErrorIs(t, err, core.ErrCubemapFaceMismatch)

	var nilSky *Skybox
	assert.NotPanics(t, func() { nilSky.Draw(r, nil) })
}
