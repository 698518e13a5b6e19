package assets

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/hubastard/grove3d/engine/core"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Root is the directory every asset path is resolved against.
var Root = "assets"

// Path joins Root, kind ("textures", "shaders", ...) and name.
func Path(kind, name string) string {
	return filepath.Join(Root, kind, name)
}

// LoadImage decodes a PNG, JPEG, BMP or TIFF file under Root/textures into
// tightly packed RGBA8 rows, top row first. UV (0,0) samples the top-left
// texel.
func LoadImage(relPath string) (core.Image, error) {
	path := Path("textures", relPath)
	f, err := os.Open(path)
	if err != nil {
		return core.Image{}, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return core.Image{}, fmt.Errorf("decode %q: %w", path, err)
	}
	logger.Debugf("decoded %s as %s", path, format)
	return FromImage(img), nil
}

// LoadPNG returns width, height and RGBA8 pixels like LoadImage. Despite
// the name every registered format is accepted.
func LoadPNG(relPath string) (w, h int, rgba []byte, err error) {
	img, err := LoadImage(relPath)
	if err != nil {
		return 0, 0, nil, err
	}
	return img.Width, img.Height, img.Pixels, nil
}

// FromImage repacks any image.Image as tight RGBA8 rows.
func FromImage(img image.Image) core.Image {
	rgbaImg := imageToRGBA(img)
	w, h := rgbaImg.Bounds().Dx(), rgbaImg.Bounds().Dy()

	out := make([]byte, w*h*4)
	src := rgbaImg.Pix
	srcStride := rgbaImg.Stride
	for y := 0; y < h; y++ {
		copy(out[y*w*4:(y+1)*w*4], src[y*srcStride:y*srcStride+w*4])
	}
	return core.Image{Width: w, Height: h, Pixels: out}
}

func imageToRGBA(img image.Image) *image.RGBA {
	if m, ok := img.(*image.RGBA); ok && m.Stride == m.Rect.Dx()*4 && m.Rect.Min == (image.Point{}) {
		return m
	}
	dst := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}

// LoadTexture uploads relPath as a mipmapped, repeating 2D texture. When
// the file cannot be loaded, fallback is uploaded instead and the error is
// logged.
func LoadTexture(r core.Renderer, relPath string, fallback core.Image) (core.Texture, error) {
	img, err := LoadImage(relPath)
	if err != nil {
		if fallback.Pixels == nil {
			return nil, err
		}
		logger.Warningf("%v; using fallback", err)
		img = fallback
	}
	return r.CreateTexture(core.TextureDesc{
		Width:     img.Width,
		Height:    img.Height,
		Format:    core.TextureRGBA8,
		Pixels:    img.Pixels,
		MinFilter: "mipmap",
		MagFilter: "linear",
		WrapU:     "repeat",
		WrapV:     "repeat",
	})
}

// LoadCubemap loads six faces from Root/textures/dir in +X, -X, +Y, -Y,
// +Z, -Z order.
func LoadCubemap(dir string, names [6]string) (core.CubemapDesc, error) {
	var d core.CubemapDesc
	for i, n := range names {
		img, err := LoadImage(filepath.Join(dir, n))
		if err != nil {
			return core.CubemapDesc{}, fmt.Errorf("cubemap face %d: %w", i, err)
		}
		d.Faces[i] = img
	}
	if err := d.Validate(); err != nil {
		return core.CubemapDesc{}, err
	}
	return d, nil
}
