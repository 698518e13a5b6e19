package text

import (
	"testing"

	"github.com/hubastard/grove3d/engine/colors"
	"github.com/hubastard/grove3d/engine/core"
	"github.com/hubastard/grove3d/engine/core/coretest"
	"github.com/hubastard/grove3d/engine/gfx/renderer2d"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFont() *Font {
	return &Font{
		SizePx:  10,
		Ascent:  8,
		Descent: -2,
		LineGap: 1,
		Glyphs: map[rune]Glyph{
			' ': {Advance: 3},
			'A': {Advance: 6, BearingX: 1, BearingY: 7, W: 4, H: 7, Region: renderer2d.Region{U1: 0.5, V1: 0.5}},
			'V': {Advance: 6, BearingY: 7, W: 6, H: 7},
		},
		Kerning: map[[2]rune]float32{{'A', 'V'}: -1},
	}
}

// collect lays s out and returns the emitted quads.
func collect(f *Font, x, y float32, s string, scale float32) ([]Quad, float32, float32) {
	var quads []Quad
	w, h := Layout(f, x, y, s, scale, func(q Quad) { quads = append(quads, q) })
	return quads, w, h
}

func TestLayoutSingleLine(t *testing.T) {
	f := testFont()
	quads, w, h := collect(f, 10, 20, "A A", 1)
	require.Len(t, quads, 2)
	assert.Equal(t, float32(15), w)
	assert.Equal(t, float32(11), h)

	// Top of 'A' is baseline (20+8) minus bearing 7.
	a := quads[0]
	assert.Equal(t, float32(11), a.X)
	assert.Equal(t, float32(21), a.Y)
	assert.Equal(t, float32(4), a.W)
	assert.Equal(t, float32(0.5), a.Region.U1)
	assert.Equal(t, float32(10+9+1), quads[1].X)
}

func TestLayoutKerningAndScale(t *testing.T) {
	f := testFont()
	w1, _ := MeasureText(f, "AV", 1)
	assert.Equal(t, float32(11), w1)

	w2, h2 := MeasureText(f, "AV", 2)
	assert.Equal(t, float32(22), w2)
	assert.Equal(t, float32(22), h2)

	w0, _ := MeasureText(f, "AV", 0)
	assert.Equal(t, w1, w0)
}

func TestLayoutMultiline(t *testing.T) {
	f := testFont()
	quads, w, h := collect(f, 0, 0, "AAA\nA", 1)
	assert.Len(t, quads, 4)
	assert.Equal(t, float32(18), w)
	assert.Equal(t, float32(22), h)
	assert.Equal(t, quads[0].X, quads[3].X)
	assert.Equal(t, quads[0].Y+11, quads[3].Y)
}

func TestLayoutUnknownRuneAdvancesLikeSpace(t *testing.T) {
	f := testFont()
	quads, w, _ := collect(f, 0, 0, "€A", 1)
	require.Len(t, quads, 1)
	assert.Equal(t, float32(9), w)
}

func TestDefaultFont(t *testing.T) {
	r := coretest.New(1, 1)
	f, err := Default(r, 16)
	require.NoError(t, err)
	defer f.Destroy(r)

	assert.Greater(t, f.Ascent, float32(0))
	assert.Less(t, f.Descent, float32(0))
	assert.Contains(t, f.Glyphs, 'g')
	assert.NotNil(t, f.Texture)
	assert.Equal(t, f.AtlasW, f.AtlasH)
	g := f.Glyphs['g']
	assert.Equal(t, f.Texture, g.Region.Texture)
	assert.False(t, g.Region.Empty())
	assert.True(t, f.Glyphs[' '].Region.Empty(), "space has no bitmap")

	wide, _ := MeasureText(f, "WWWW", 1)
	narrow, _ := MeasureText(f, "iiii", 1)
	assert.Greater(t, wide, narrow)

	_, err = Bake(r, []byte("not a font"), 16)
	assert.Error(t, err)
	_, err = Default(r, 0)
	assert.Error(t, err)
}

func TestDrawTextBatchesGlyphs(t *testing.T) {
	r := coretest.New(100, 100)
	f, err := Default(r, 12)
	require.NoError(t, err)
	pipe, err := r.CreatePipeline(renderer2d.PipelineDesc("vs", "fs"))
	require.NoError(t, err)
	rd, err := renderer2d.New(r, pipe, 64)
	require.NoError(t, err)

	r.BeginPass(core.PassDesc{Name: "overlay"})
	rd.BeginScene([16]float32{})
	DrawText(rd, f, 0, 0, "hi there", colors.White, 1)
	require.NoError(t, rd.EndScene())
	r.EndPass()

	assert.Equal(t, 7, rd.Stats().QuadCount, "the space has no quad")
	draws := r.Draws("overlay")
	require.Len(t, draws, 1)
	assert.Equal(t, f.Texture, draws[0].Samplers["uTex[1]"])
}
