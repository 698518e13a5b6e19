package render

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/grove3d/engine/core"
	"github.com/hubastard/grove3d/engine/core/coretest"
	"github.com/hubastard/grove3d/engine/geometry"
	"github.com/hubastard/grove3d/engine/gfx/cbuffer"
	"github.com/hubastard/grove3d/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type world struct {
	r     *coretest.Renderer
	fr    *Renderer
	scene *scene.Scene
}

func pipeline(t *testing.T, r core.Renderer, desc core.PipelineDesc) core.Pipeline {
	t.Helper()
	p, err := r.CreatePipeline(desc)
	require.NoError(t, err)
	return p
}

func newWorld(t *testing.T, shadows, post bool) *world {
	t.Helper()
	r := coretest.New(320, 240)
	fr, err := New(r)
	require.NoError(t, err)

	if shadows {
		fr.Shadow, err = NewShadowMap(r, 0, pipeline(t, r, ShadowPipelineDesc("vs", "fs")))
		require.NoError(t, err)
	}
	if post {
		fr.Post, err = NewPostProcess(r, 320, 240, pipeline(t, r, PostPipelineDesc("passthrough", "vs", "fs")))
		require.NoError(t, err)
	}

	cube, err := geometry.Upload(r, "cube", geometry.Cube(1))
	require.NoError(t, err)
	mat := scene.NewMaterial("lit", pipeline(t, r, MeshPipelineDesc("lit", "vs", "fs")), mgl32.Vec4{1, 1, 1, 1})

	s := scene.New()
	s.Animate = false
	s.Background = [4]float32{0.4, 0.6, 0.75, 0}
	s.Ambient = mgl32.Vec3{0.1, 0.1, 0.25}
	a := scene.NewEntity("a", cube, mat)
	b := scene.NewEntity("b", cube, mat)
	b.CastShadow = false
	s.Add(a, b)
	s.Cameras.Add(scene.NewCamera(mgl32.Vec3{0, 0, -5}, 5, 0.01, 1, 320.0/240), true)
	sun := scene.Directional(mgl32.Vec3{1, -1, 0}, mgl32.Vec3{1, 1, 1}, 1)
	sun.CastShadow = true
	s.Lights = []scene.Light{sun, scene.Point(mgl32.Vec3{0, 2, 0}, mgl32.Vec3{1, 0, 0}, 1, 10)}

	return &world{r: r, fr: fr, scene: s}
}

func TestFramePassOrder(t *testing.T) {
	w := newWorld(t, true, true)
	blur := &Blur{BaseEffect: NewBaseEffect("blur", pipeline(t, w.r, PostPipelineDesc("blur", "vs", "fs"))), Radius: 2}
	tone := &Tone{BaseEffect: NewBaseEffect("tone", pipeline(t, w.r, PostPipelineDesc("tone", "vs", "fs"))), Exposure: 1, Gamma: 2.2}
	w.fr.Post.Add(blur, tone)

	overlayCalls := 0
	require.NoError(t, w.fr.Frame(w.scene, 1, func() error { overlayCalls++; return nil }))

	assert.Equal(t, []string{"shadow", "main", "post:blur", "post:tone", "overlay"}, w.r.PassNames())
	assert.Equal(t, w.r.PassNames(), w.fr.Stats().Passes)
	assert.Equal(t, 1, overlayCalls)
	assert.Equal(t, 2, w.fr.Stats().Entities)

	// Only the caster reaches the shadow pass, with the depth pipeline.
	shadow := w.r.Draws("shadow")
	require.Len(t, shadow, 1)
	assert.Same(t, w.fr.Shadow.Pipeline, shadow[0].Pipe)

	main := w.r.Passes[1]
	assert.Same(t, w.fr.Post.SceneTarget(), main.Desc.Target)
	assert.Equal(t, core.ClearColor|core.ClearDepth, main.Desc.Clear)
	assert.Equal(t, w.scene.Background, main.Desc.ClearColor)
	require.Len(t, main.Draws, 2)
	assert.Same(t, w.fr.Shadow.Target.Depth(), main.Draws[0].Samplers[scene.TexShadow])

	frame := main.Draws[0].Data[cbuffer.FrameBlock]
	assert.Equal(t, int32(2), cbuffer.Int32At(frame, 220))
	assert.Equal(t, int32(1), cbuffer.Int32At(frame, 228))
	assert.Equal(t, float32(0.005), cbuffer.Float32At(frame, 224))
	assert.Equal(t, float32(-5), cbuffer.Float32At(frame, 200))
	assert.Equal(t, int32(0), cbuffer.Int32At(frame, 232), "shadow light slot")
	assert.Equal(t, int32(1), cbuffer.Int32At(frame, 236), "pcf")

	// Blur reads the scene target and writes the second target; tone
	// writes the back buffer.
	blurPass, tonePass := w.r.Passes[2], w.r.Passes[3]
	assert.NotNil(t, blurPass.Desc.Target)
	assert.NotSame(t, w.fr.Post.SceneTarget(), blurPass.Desc.Target)
	assert.Same(t, w.fr.Post.SceneTarget().Color(), blurPass.Draws[0].Samplers[TexScene])
	assert.Nil(t, tonePass.Desc.Target)
	assert.Same(t, blurPass.Desc.Target.Color(), tonePass.Draws[0].Samplers[TexScene])
	assert.Equal(t, int32(2), cbuffer.Int32At(blurPass.Draws[0].Data[cbuffer.PostBlock], 12))
	assert.InDelta(t, 2.2, cbuffer.Float32At(tonePass.Draws[0].Data[cbuffer.PostBlock], 20), 1e-6)
}

func TestFramePassthroughWhenNoEffectEnabled(t *testing.T) {
	w := newWorld(t, false, true)
	blur := &Blur{BaseEffect: NewBaseEffect("blur", pipeline(t, w.r, PostPipelineDesc("blur", "vs", "fs"))), Radius: 0}
	w.fr.Post.Add(blur)

	require.NoError(t, w.fr.Frame(w.scene, 0, nil))
	assert.Equal(t, []string{"main", "post:passthrough"}, w.r.PassNames())
	assert.Nil(t, w.r.Passes[1].Desc.Target)

	frame := w.r.Draws("main")[0].Data[cbuffer.FrameBlock]
	assert.Equal(t, int32(0), cbuffer.Int32At(frame, 228))
	assert.Equal(t, int32(-1), cbuffer.Int32At(frame, 232))
}

func TestFrameShadowLightSlot(t *testing.T) {
	w := newWorld(t, true, false)
	fill := scene.Directional(mgl32.Vec3{0, -1, 1}, mgl32.Vec3{1, 1, 1}, 0.5)
	sun := w.scene.Lights[0]
	sun.CastShadow = true
	w.scene.Lights = []scene.Light{fill, w.scene.Lights[1], sun}
	w.fr.Shadow.PCF = false

	require.NoError(t, w.fr.Frame(w.scene, 0, nil))
	frame := w.r.Draws("main")[0].Data[cbuffer.FrameBlock]
	assert.Equal(t, int32(1), cbuffer.Int32At(frame, 228))
	assert.Equal(t, int32(2), cbuffer.Int32At(frame, 232), "the caster receives, not the first directional light")
	assert.Equal(t, int32(0), cbuffer.Int32At(frame, 236))

	// Switching casters moves the slot with it.
	w.r.Reset()
	w.scene.Lights[2].CastShadow = false
	w.scene.Lights[0].CastShadow = true
	require.NoError(t, w.fr.Frame(w.scene, 0, nil))
	frame = w.r.Draws("main")[0].Data[cbuffer.FrameBlock]
	assert.Equal(t, int32(0), cbuffer.Int32At(frame, 232))
}

func TestFrameWithoutPostDrawsToBackBuffer(t *testing.T) {
	w := newWorld(t, true, true)
	w.fr.PostEnabled = false
	w.fr.ShadowsEnabled = false
	w.fr.Wireframe = true
	require.NoError(t, w.fr.Frame(w.scene, 0, nil))
	assert.Equal(t, []string{"main"}, w.r.PassNames())
	assert.Nil(t, w.r.Passes[0].Desc.Target)
	assert.True(t, w.r.Passes[0].Desc.Wireframe)
}

func TestFrameSkipsShadowWithoutCaster(t *testing.T) {
	w := newWorld(t, true, false)
	w.scene.Lights[0].CastShadow = false
	require.NoError(t, w.fr.Frame(w.scene, 0, nil))
	assert.Equal(t, []string{"main"}, w.r.PassNames())
}

func TestFrameDrawsSkyLast(t *testing.T) {
	w := newWorld(t, false, false)
	sky, err := scene.NewSkybox(w.r, w.scene.Entities[0].Mesh, nil, faces(2), pipeline(t, w.r, scene.SkyPipelineDesc("vs", "fs")))
	require.NoError(t, err)
	w.scene.Sky = sky
	w.scene.Entities[1].Hidden = true

	require.NoError(t, w.fr.Frame(w.scene, 0, nil))
	draws := w.r.Draws("main")
	require.Len(t, draws, 2)
	assert.Same(t, sky.Pipeline, draws[1].Pipe)
	assert.Equal(t, 1, w.fr.Stats().Entities)
}

func TestFrameHotReloadRunsFirst(t *testing.T) {
	w := newWorld(t, false, false)
	var passesAtReload int
	w.fr.HotReload = func() error {
		passesAtReload = len(w.r.Passes)
		return errors.New("broken shader")
	}
	require.NoError(t, w.fr.Frame(w.scene, 0, nil))
	assert.Zero(t, passesAtReload)
	assert.Equal(t, []string{"main"}, w.r.PassNames())
}

func TestFrameErrors(t *testing.T) {
	w := newWorld(t, false, false)
	empty := scene.New()
	assert.ErrorIs(t, w.fr.Frame(empty, 0, nil), ErrNoActiveCamera)

	boom := errors.New("boom")
	err := w.fr.Frame(w.scene, 0, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "overlay", w.r.PassNames()[len(w.r.PassNames())-1])
}

func TestShadowMapProjection(t *testing.T) {
	r := coretest.New(1, 1)
	sm, err := NewShadowMap(r, 512, pipeline(t, r, ShadowPipelineDesc("vs", "fs")))
	require.NoError(t, err)
	w, h := sm.Target.Size()
	assert.Equal(t, 512, w)
	assert.Equal(t, 512, h)
	assert.Nil(t, sm.Target.Color())
	assert.True(t, sm.Sampler.Desc().Compare)
	assert.Equal(t, core.CullFront, sm.Pipeline.Desc().Cull)

	sm.Extent = 10
	sm.Update(scene.Directional(mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 1, 1}, 1))

	// The centre of the scene lands in the middle of the map, and a point
	// at the edge of the extent lands on the border.
	c := sm.LightViewProjection().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 0, c[0], 1e-5)
	assert.InDelta(t, 0, c[1], 1e-5)
	assert.Greater(t, c[2], float32(-1))
	assert.Less(t, c[2], float32(1))

	edge := sm.LightViewProjection().Mul4x1(mgl32.Vec4{10, 0, 0, 1})
	assert.InDelta(t, 1, mgl32.Abs(edge[0]), 1e-5)

	sm.Destroy(r)
	assert.Len(t, r.Destroyed, 3)
}

func TestPostProcessResize(t *testing.T) {
	r := coretest.New(100, 50)
	p, err := NewPostProcess(r, 100, 50, pipeline(t, r, PostPipelineDesc("passthrough", "vs", "fs")))
	require.NoError(t, err)
	old := p.SceneTarget()

	require.NoError(t, p.Resize(100, 50))
	assert.Same(t, old, p.SceneTarget())

	require.NoError(t, p.Resize(0, 0))
	assert.Same(t, old, p.SceneTarget())

	require.NoError(t, p.Resize(200, 80))
	w, h := p.SceneTarget().Size()
	assert.Equal(t, 200, w)
	assert.Equal(t, 80, h)
	assert.Contains(t, r.Destroyed, any(old))
}

func TestChromaticParams(t *testing.T) {
	c := &Chromatic{BaseEffect: NewBaseEffect("chromatic", nil), Offsets: mgl32.Vec3{1, 0, -1}}
	var d cbuffer.PostData
	c.Params(&d)
	assert.Equal(t, mgl32.Vec4{1, 0, -1, 0}, d.Params)
	assert.True(t, c.Enabled())
	c.On = false
	assert.False(t, c.Enabled())
}

func faces(size int) core.CubemapDesc {
	var d core.CubemapDesc
	for i := range d.Faces {
		d.Faces[i] = core.Image{Width: size, Height: size, Pixels: make([]byte, size*size*4)}
	}
	return d
}
