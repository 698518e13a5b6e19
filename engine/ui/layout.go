package ui

import (
	"strings"

	"github.com/hubastard/grove3d/engine/colors"
)

// Style holds the metrics and colours of every panel. Metrics are pixels
// at font scale 1 and grow with the scale.
type Style struct {
	PanelWidth    float32
	Padding       float32
	FramePadding  float32
	Spacing       float32
	IndentSpacing float32
	// FrameRatio is the share of the row the widget frames take; the
	// label is drawn to their right.
	FrameRatio float32

	PanelBg      colors.Color
	TitleBg      colors.Color
	Header       colors.Color
	Frame        colors.Color
	FrameHovered colors.Color
	FrameActive  colors.Color
	Check        colors.Color
	Text         colors.Color
	TextDim      colors.Color
}

func DefaultStyle() Style {
	return Style{
		PanelWidth:    360,
		Padding:       8,
		FramePadding:  3,
		Spacing:       4,
		IndentSpacing: 14,
		FrameRatio:    0.62,

		PanelBg:      colors.DarkGray.WithAlpha(0.9),
		TitleBg:      colors.Color{0.16, 0.29, 0.48, 1},
		Header:       colors.Color{0.26, 0.59, 0.98, 0.31},
		Frame:        colors.Color{0.16, 0.29, 0.48, 0.54},
		FrameHovered: colors.Color{0.26, 0.59, 0.98, 0.4},
		FrameActive:  colors.Color{0.26, 0.59, 0.98, 0.67},
		Check:        colors.Color{0.26, 0.59, 0.98, 1},
		Text:         colors.White,
		TextDim:      colors.Gray,
	}
}

type rect struct{ x, y, w, h float32 }

func (r rect) contains(x, y float32) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

type cmdKind uint8

const (
	cmdRect cmdKind = iota
	cmdText
)

type cmd struct {
	kind  cmdKind
	r     rect
	text  string
	scale float32
	color colors.Color
}

type panel struct {
	id      ID
	titleID ID
	title   string
	x, y    float32
	w, h    float32
	cursor  float32 // y of the next row
	indent  float32
	rows    int
}

func (c *Ctx) emitRect(r rect, color colors.Color) {
	c.cmds = append(c.cmds, cmd{kind: cmdRect, r: r, color: color})
}

func (c *Ctx) emitText(x, y float32, s string, color colors.Color) {
	c.cmds = append(c.cmds, cmd{kind: cmdText, r: rect{x: x, y: y}, text: s, scale: c.fontScale, color: color})
}

func (c *Ctx) flush() {
	for i := range c.cmds {
		k := &c.cmds[i]
		switch k.kind {
		case cmdRect:
			c.R.DrawRect(k.r.x, k.r.y, k.r.w, k.r.h, k.color)
		case cmdText:
			c.R.DrawText(k.r.x, k.r.y, k.text, k.scale, k.color)
		}
	}
	c.cmds = c.cmds[:0]
}

func (c *Ctx) lineHeight() float32 {
	_, h := c.R.Measure("Ag", c.fontScale)
	return h
}

func (c *Ctx) framePad() float32  { return c.Style.FramePadding * c.fontScale }
func (c *Ctx) rowHeight() float32 { return c.lineHeight() + 2*c.framePad() }

// row reserves a full-width line of height h in the current panel.
func (c *Ctx) row(h float32) rect {
	p := c.cur
	pad := c.Style.Padding
	r := rect{
		x: p.x + pad + p.indent,
		y: p.cursor,
		w: p.w - 2*pad - p.indent,
		h: h,
	}
	if r.w < 1 {
		r.w = 1
	}
	p.cursor += h + c.Style.Spacing
	p.rows++
	return r
}

// split divides a row into the frame area and the label position.
func (c *Ctx) split(r rect) (frame rect, labelX float32) {
	frame = r
	frame.w = r.w * c.Style.FrameRatio
	return frame, frame.x + frame.w + 2*c.framePad()
}

// columns divides r into n frames separated by the item spacing.
func (c *Ctx) columns(r rect, n int) []rect {
	gap := c.Style.Spacing
	w := (r.w - gap*float32(n-1)) / float32(n)
	out := make([]rect, n)
	for i := range out {
		out[i] = rect{x: r.x + float32(i)*(w+gap), y: r.y, w: w, h: r.h}
	}
	return out
}

// displayText hides everything from "##" on, which only feeds the id.
func displayText(label string) string {
	if i := strings.Index(label, "##"); i >= 0 {
		return label[:i]
	}
	return label
}

func (c *Ctx) frameColor(hovered, held bool) colors.Color {
	switch {
	case held:
		return c.Style.FrameActive
	case hovered:
		return c.Style.FrameHovered
	}
	return c.Style.Frame
}

// textCentered queues s centred in r.
func (c *Ctx) textCentered(r rect, s string, color colors.Color) {
	w, h := c.R.Measure(s, c.fontScale)
	c.emitText(r.x+(r.w-w)*0.5, r.y+(r.h-h)*0.5, s, color)
}
