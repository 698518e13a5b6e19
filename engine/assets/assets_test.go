package assets

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hubastard/grove3d/engine/colors"
	"github.com/hubastard/grove3d/engine/core"
	"github.com/hubastard/grove3d/engine/core/coretest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func useRoot(t *testing.T) string {
	t.Helper()
	old := Root
	Root = t.TempDir()
	t.Cleanup(func() { Root = old })
	for _, d := range []string{"textures", "shaders"} {
		require.NoError(t, os.MkdirAll(filepath.Join(Root, d), 0o755))
	}
	return Root
}

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{128, 128, 128, 255})
		}
	}
	img.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	img.Set(w-1, h-1, color.NRGBA{0, 0, 255, 255})
	return img
}

func writeImage(t *testing.T, name string, encode func(f *os.File) error) {
	t.Helper()
	f, err := os.Create(Path("textures", name))
	require.NoError(t, err)
	require.NoError(t, encode(f))
	require.NoError(t, f.Close())
}

func TestLoadImageFormats(t *testing.T) {
	useRoot(t)
	src := testImage(3, 2)
	writeImage(t, "a.png", func(f *os.File) error { return png.Encode(f, src) })
	writeImage(t, "a.bmp", func(f *os.File) error { return bmp.Encode(f, src) })
	writeImage(t, "a.tiff", func(f *os.File) error { return tiff.Encode(f, src, nil) })

	for _, name := range []string{"a.png", "a.bmp", "a.tiff"} {
		t.Run(name, func(t *testing.T) {
			img, err := LoadImage(name)
			require.NoError(t, err)
			assert.Equal(t, 3, img.Width)
			assert.Equal(t, 2, img.Height)
			require.Len(t, img.Pixels, 3*2*4)
			assert.Equal(t, []byte{255, 0, 0, 255}, img.Pixels[:4])
			assert.Equal(t, []byte{0, 0, 255, 255}, img.Pixels[len(img.Pixels)-4:])
		})
	}

	w, h, pix, err := LoadPNG("a.png")
	require.NoError(t, err)
	assert.Equal(t, 3, w)
	assert.Equal(t, 2, h)
	assert.Len(t, pix, 24)
}

func TestLoadImageErrors(t *testing.T) {
	useRoot(t)
	_, err := LoadImage("missing.png")
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, os.WriteFile(Path("textures", "junk.png"), []byte("nope"), 0o644))
	_, err = LoadImage("junk.png")
	assert.Error(t, err)
}

func TestFromImageSubImage(t *testing.T) {
	big := image.NewRGBA(image.Rect(0, 0, 4, 4))
	big.Set(2, 2, color.RGBA{9, 8, 7, 255})
	sub := big.SubImage(image.Rect(2, 2, 4, 4))
	img := FromImage(sub)
	assert.Equal(t, 2, img.Width)
	assert.Equal(t, []byte{9, 8, 7, 255}, img.Pixels[:4])
}

func TestLoadTextureFallback(t *testing.T) {
	useRoot(t)
	r := coretest.New(1, 1)
	tex, err := LoadTexture(r, "missing.png", Checker(8, 2, colors.White, colors.Black))
	require.NoError(t, err)
	w, _ := tex.Size()
	assert.Equal(t, 8, w)
	assert.Equal(t, "repeat", tex.(*coretest.Texture).Desc.WrapU)

	_, err = LoadTexture(r, "missing.png", core.Image{})
	assert.Error(t, err)
}

func TestLoadCubemap(t *testing.T) {
	root := useRoot(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "textures", "sky"), 0o755))
	names := [6]string{"px.png", "nx.png", "py.png", "ny.png", "pz.png", "nz.png"}
	for _, n := range names {
		writeImage(t, filepath.Join("sky", n), func(f *os.File) error { return png.Encode(f, testImage(4, 4)) })
	}
	d, err := LoadCubemap("sky", names)
	require.NoError(t, err)
	assert.Equal(t, 4, d.Faces[5].Width)

	writeImage(t, filepath.Join("sky", "nz.png"), func(f *os.File) error { return png.Encode(f, testImage(2, 2)) })
	_, err = LoadCubemap("sky", names)
	assert.ErrorIs(t, err, core.ErrCubemapFaceMismatch)
}

func TestChecker(t *testing.T) {
	img := Checker(4, 2, colors.White, colors.Black)
	px := func(x, y int) []byte { return img.Pixels[(y*4+x)*4 : (y*4+x)*4+4] }
	assert.Equal(t, []byte{255, 255, 255, 255}, px(0, 0))
	assert.Equal(t, []byte{255, 255, 255, 255}, px(1, 1))
	assert.Equal(t, []byte{0, 0, 0, 255}, px(2, 0))
	assert.Equal(t, []byte{0, 0, 0, 255}, px(0, 3))
	assert.Equal(t, []byte{255, 255, 255, 255}, px(3, 3))
}

func TestSkyGradient(t *testing.T) {
	d := SkyGradient(8, colors.Blue, colors.White, colors.Black)
	require.NoError(t, d.Validate())

	// The centre of +Y looks straight up and the centre of -Y straight down.
	centre := func(face int) []byte {
		i := (4*8 + 4) * 4
		return d.Faces[face].Pixels[i : i+4]
	}
	up, down := centre(2), centre(3)
	assert.Greater(t, up[2], up[0])
	assert.Less(t, down[2], byte(40))

	// Side faces are bright near the horizon row.
	side := d.Faces[0].Pixels[(4*8+4)*4:]
	assert.Greater(t, side[0], byte(200))
}

func TestShaderLibraryReload(t *testing.T) {
	useRoot(t)
	require.NoError(t, os.WriteFile(Path("shaders", "a.vert"), []byte("v1"), 0o644))
	require.NoError(t, os.WriteFile(Path("shaders", "a.frag"), []byte("f1"), 0o644))
	require.NoError(t, os.WriteFile(Path("shaders", "b.frag"), []byte("g1"), 0o644))

	r := coretest.New(1, 1)
	lib := NewShaderLibrary(r)
	a, err := lib.Load(core.PipelineDesc{Name: "a"}, "a.vert", "a.frag")
	require.NoError(t, err)
	b, err := lib.Load(core.PipelineDesc{}, "a.vert", "b.frag")
	require.NoError(t, err)
	assert.Equal(t, "a.vert+b.frag", b.Desc().Name)
	assert.Equal(t, "v1", a.Desc().VertexSource)

	require.NoError(t, os.WriteFile(Path("shaders", "a.vert"), []byte("v2"), 0o644))
	n, err := lib.Reload("a.vert")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "v2", a.Desc().VertexSource)

	n, err = lib.Reload("b.frag")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, b.(*coretest.Pipeline).Reloaded)

	require.NoError(t, os.Remove(Path("shaders", "a.frag")))
	n, err = lib.Reload("a.frag")
	assert.Error(t, err)
	assert.Zero(t, n)

	_, err = lib.Load(core.PipelineDesc{}, "missing.vert", "a.frag")
	assert.Error(t, err)
	assert.NoError(t, lib.ReloadChanged())
}

func TestShaderLibraryWatch(t *testing.T) {
	useRoot(t)
	require.NoError(t, os.WriteFile(Path("shaders", "w.vert"), []byte("v1"), 0o644))
	require.NoError(t, os.WriteFile(Path("shaders", "w.frag"), []byte("f1"), 0o644))

	r := coretest.New(1, 1)
	lib := NewShaderLibrary(r)
	p, err := lib.Load(core.PipelineDesc{Name: "w"}, "w.vert", "w.frag")
	require.NoError(t, err)
	require.NoError(t, lib.Watch())
	defer lib.Close()

	require.NoError(t, os.WriteFile(Path("shaders", "w.frag"), []byte("f2"), 0o644))
	require.Eventually(t, func() bool {
		// A reload may race the truncating write and see an empty file.
		_ = lib.ReloadChanged()
		return p.Desc().FragmentSource == "f2"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatcherCoalesces(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()
	assert.Nil(t, w.Changed())

	path := filepath.Join(dir, "x.glsl")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte{byte(i)}, 0o644))
	}
	var got []string
	require.Eventually(t, func() bool {
		got = append(got, w.Changed()...)
		return len(got) > 0
	}, 5*time.Second, 20*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	got = append(got, w.Changed()...)
	for _, g := range got {
		assert.Equal(t, filepath.Clean(path), g)
	}

	_, err = NewWatcher(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
