package ui

import (
	"github.com/hubastard/grove3d/engine/colors"
	"github.com/hubastard/grove3d/engine/gfx/renderer2d"
	"github.com/hubastard/grove3d/engine/text"
)

// Backend draws the panel into a renderer2d batch with a baked font.
type Backend struct {
	R2D  *renderer2d.Renderer2D
	Font *text.Font
}

var _ Renderer = Backend{}

func (b Backend) DrawRect(x, y, w, h float32, color colors.Color) {
	b.R2D.DrawRect(x, y, w, h, color)
}

func (b Backend) DrawText(x, y float32, s string, scale float32, color colors.Color) {
	text.DrawText(b.R2D, b.Font, x, y, s, color, scale)
}

func (b Backend) Measure(s string, scale float32) (float32, float32) {
	return text.MeasureText(b.Font, s, scale)
}
