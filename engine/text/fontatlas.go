// Package text bakes fonts into a texture atlas and lays out strings as
// quads for the overlay.
package text

import (
	"fmt"
	"image"
	"os"

	"github.com/hubastard/grove3d/engine/assets"
	"github.com/hubastard/grove3d/engine/core"
	"github.com/hubastard/grove3d/engine/gfx/renderer2d"
	"github.com/hubastard/grove3d/engine/log"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var logger = log.New("text")

const (
	firstRune = 32
	lastRune  = 255

	minAtlas = 256
	maxAtlas = 4096
	// Empty texels around each glyph so linear filtering never bleeds.
	glyphPad = 2
)

// Glyph metrics are in pixels at the baked size.
type Glyph struct {
	Advance float32
	// Offset of the bitmap's top-left corner from the pen position on
	// the baseline; Y grows upwards.
	BearingX, BearingY float32
	W, H               int
	Region             renderer2d.Region
}

// Font is a baked glyph atlas.
type Font struct {
	SizePx                   float32
	Ascent, Descent, LineGap float32
	Glyphs                   map[rune]Glyph
	Kerning                  map[[2]rune]float32
	Texture                  core.Texture
	AtlasW, AtlasH           int
}

// Destroy frees the atlas texture.
func (f *Font) Destroy(r core.Renderer) {
	if f != nil && f.Texture != nil {
		r.Destroy(f.Texture)
		f.Texture = nil
	}
}

// Kern is the extra advance between a and b in pixels.
func (f *Font) Kern(a, b rune) float32 { return f.Kerning[[2]rune{a, b}] }

// LineHeight is the baseline-to-baseline distance.
func (f *Font) LineHeight() float32 { return f.Ascent - f.Descent + f.LineGap }

// Default bakes Go Regular, which ships with x/image, so the overlay needs
// no font file.
func Default(r core.Renderer, sizePx float32) (*Font, error) {
	return Bake(r, goregular.TTF, sizePx)
}

// LoadTTF bakes a TrueType or OpenType file from the asset root's fonts
// directory.
func LoadTTF(r core.Renderer, name string, sizePx float32) (*Font, error) {
	data, err := os.ReadFile(assets.Path("fonts", name))
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	return Bake(r, data, sizePx)
}

// Bake rasterizes code points 32..255 white on transparent, coverage in
// alpha, and uploads the atlas as an RGBA texture.
func Bake(r core.Renderer, ttf []byte, sizePx float32) (*Font, error) {
	if sizePx <= 0 {
		return nil, fmt.Errorf("font size %v", sizePx)
	}
	ft, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size: float64(sizePx), DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	defer face.Close()

	cells := measure(face)
	size, err := pack(cells)
	if err != nil {
		return nil, err
	}
	atlas := rasterize(face, cells, size)

	tex, err := r.CreateTexture(core.TextureDesc{
		Width: size, Height: size,
		Format:    core.TextureRGBA8,
		Pixels:    atlas.Pix,
		MinFilter: "linear", MagFilter: "linear",
		WrapU: "clamp", WrapV: "clamp",
	})
	if err != nil {
		return nil, fmt.Errorf("font atlas texture: %w", err)
	}

	m := face.Metrics()
	f := &Font{
		SizePx:  sizePx,
		Ascent:  float32(m.Ascent.Round()),
		Descent: float32(-m.Descent.Round()),
		Glyphs:  make(map[rune]Glyph, len(cells)),
		Kerning: kerning(face, cells),
		Texture: tex,
		AtlasW:  size,
		AtlasH:  size,
	}
	f.LineGap = float32(m.Height.Round()) - f.Ascent + f.Descent
	for _, c := range cells {
		g := Glyph{Advance: c.adv, BearingX: c.bx, BearingY: c.by, W: c.w, H: c.h}
		if c.w > 0 && c.h > 0 {
			g.Region = renderer2d.FromPixels(tex, c.at.X, c.at.Y, c.w, c.h, size, size)
		}
		f.Glyphs[c.r] = g
	}
	logger.Debugf("baked %d glyphs at %vpx into %dx%d", len(cells), sizePx, size, size)
	return f, nil
}

// cell is a glyph's measurements and, once packed, its atlas position.
type cell struct {
	r      rune
	w, h   int
	adv    float32
	bx, by float32
	at     image.Point
}

func measure(face font.Face) []cell {
	cells := make([]cell, 0, lastRune-firstRune+1)
	for r := rune(firstRune); r <= lastRune; r++ {
		b, adv, ok := face.GlyphBounds(r)
		if !ok {
			continue
		}
		cells = append(cells, cell{
			r:   r,
			w:   (b.Max.X - b.Min.X).Round(),
			h:   (b.Max.Y - b.Min.Y).Round(),
			adv: float32(adv.Round()),
			bx:  float32(b.Min.X.Round()),
			by:  float32(-b.Min.Y.Round()),
		})
	}
	return cells
}

// pack places the cells on shelves in the smallest square power-of-two
// atlas that holds them all and returns its side.
func pack(cells []cell) (int, error) {
	for size := minAtlas; size <= maxAtlas; size *= 2 {
		if shelve(cells, size) {
			return size, nil
		}
	}
	return 0, fmt.Errorf("font atlas larger than %dx%d", maxAtlas, maxAtlas)
}

func shelve(cells []cell, size int) bool {
	x, y, rowH := glyphPad, glyphPad, 0
	for i := range cells {
		c := &cells[i]
		if c.w == 0 || c.h == 0 {
			continue
		}
		if x+c.w+glyphPad > size {
			x, y, rowH = glyphPad, y+rowH+glyphPad, 0
		}
		if x+c.w+glyphPad > size || y+c.h+glyphPad > size {
			return false
		}
		c.at = image.Pt(x, y)
		x += c.w + glyphPad
		rowH = max(rowH, c.h)
	}
	return true
}

func rasterize(face font.Face, cells []cell, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	d := font.Drawer{Dst: dst, Src: image.White, Face: face}
	for _, c := range cells {
		if c.w == 0 || c.h == 0 {
			continue
		}
		d.Dot = fixed.P(c.at.X-int(c.bx), c.at.Y+int(c.by))
		d.DrawString(string(c.r))
	}
	return dst
}

func kerning(face font.Face, cells []cell) map[[2]rune]float32 {
	k := make(map[[2]rune]float32)
	for _, a := range cells {
		for _, b := range cells {
			if dx := face.Kern(a.r, b.r); dx != 0 {
				k[[2]rune{a.r, b.r}] = float32(dx.Round())
			}
		}
	}
	return k
}
