package text

import (
	"github.com/hubastard/grove3d/engine/colors"
	"github.com/hubastard/grove3d/engine/gfx/renderer2d"
)

// Quad is one laid-out glyph: its top-left corner, size and atlas region.
type Quad struct {
	X, Y, W, H float32
	Region     renderer2d.Region
}

// Layout places s with its top-left corner at (x, y), scaled by scale,
// and calls emit for every visible glyph. Positive Y goes down. emit may
// be nil to only measure. It returns the size of the text block.
func Layout(font *Font, x, y float32, s string, scale float32, emit func(Quad)) (width, height float32) {
	if scale <= 0 {
		scale = 1
	}
	lineH := font.LineHeight() * scale
	penX, baseY := x, y+font.Ascent*scale
	height = lineH
	prev := rune(-1)

	for _, r := range s {
		if r == '\n' {
			width = max(width, penX-x)
			penX = x
			baseY += lineH
			height += lineH
			prev = -1
			continue
		}
		g, ok := font.Glyphs[r]
		if !ok {
			// Unknown runes take the room of a space.
			g = Glyph{Advance: font.Glyphs[' '].Advance}
		} else if prev >= 0 {
			penX += font.Kern(prev, r) * scale
		}
		if emit != nil && g.W > 0 && g.H > 0 {
			emit(Quad{
				X:      penX + g.BearingX*scale,
				Y:      baseY - g.BearingY*scale,
				W:      float32(g.W) * scale,
				H:      float32(g.H) * scale,
				Region: g.Region,
			})
		}
		penX += g.Advance * scale
		prev = r
	}
	return max(width, penX-x), height
}

// DrawText draws s with its top-left corner at (x, y).
func DrawText(r2d *renderer2d.Renderer2D, font *Font, x, y float32, s string, color colors.Color, scale float32) {
	Layout(font, x, y, s, scale, func(q Quad) {
		r2d.DrawRegion(q.X, q.Y, q.W, q.H, q.Region, color)
	})
}

// MeasureText returns the size s would occupy when drawn at scale.
func MeasureText(font *Font, s string, scale float32) (width, height float32) {
	return Layout(font, 0, 0, s, scale, nil)
}
