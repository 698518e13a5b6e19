package ui

import (
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/grove3d/engine/colors"
)

const cascade = 30

// Begin opens the panel called title. Panels keep their position between
// frames and can be dragged by the title bar.
func (c *Ctx) Begin(title string) {
	if c.cur != nil {
		logger.Warningf("Begin(%q) inside panel %q", title, c.cur.title)
		c.End()
	}
	id := hashID(0, title)
	p, ok := c.panels[id]
	if !ok {
		pos := [2]float32{10 + cascade*float32(len(c.panels)), 10 + cascade*float32(len(c.panels))}
		if c.nextPos != nil {
			pos = *c.nextPos
		}
		p = &panel{id: id, titleID: hashID(id, "#title"), title: title, x: pos[0], y: pos[1]}
		c.panels[id] = p
	}
	c.nextPos = nil
	c.cur = p
	p.w = c.Style.PanelWidth * c.fontScale
	p.indent = 0
	p.rows = 0

	titleH := c.rowHeight()
	if _, held, _ := c.behavior(p.titleID, rect{p.x, p.y, p.w, titleH}); held {
		p.x += c.in.MouseDX
		p.y += c.in.MouseDY
	}
	p.cursor = p.y + titleH + c.Style.Padding
	c.ids = append(c.ids, id)
}

// End closes the current panel and draws it.
func (c *Ctx) End() {
	p := c.cur
	if p == nil {
		logger.Warning("End without Begin")
		return
	}
	c.PopID()
	c.cur = nil

	titleH := c.rowHeight()
	p.h = titleH
	if p.rows > 0 {
		p.h = p.cursor - c.Style.Spacing + c.Style.Padding - p.y
	}
	bounds := rect{p.x, p.y, p.w, p.h}
	if bounds.contains(c.in.MouseX, c.in.MouseY) {
		c.hovered = true
		// Presses on the background belong to the panel.
		if c.in.MousePressed && c.active == 0 {
			c.active = p.id
		}
	}

	body := c.cmds
	c.cmds = nil
	c.emitRect(bounds, c.Style.PanelBg)
	c.emitRect(rect{p.x, p.y, p.w, titleH}, c.Style.TitleBg)
	c.emitText(p.x+c.Style.Padding, p.y+c.framePad(), p.title, c.Style.Text)
	c.cmds = append(c.cmds, body...)
	c.flush()
}

func (c *Ctx) inPanel(widget string) bool {
	if c.cur == nil {
		logger.Warningf("%s outside Begin/End", widget)
		return false
	}
	return true
}

func (c *Ctx) Indent() {
	if c.inPanel("Indent") {
		c.cur.indent += c.Style.IndentSpacing * c.fontScale
	}
}

func (c *Ctx) Unindent() {
	if !c.inPanel("Unindent") {
		return
	}
	c.cur.indent -= c.Style.IndentSpacing * c.fontScale
	if c.cur.indent < 0 {
		c.cur.indent = 0
	}
}

func (c *Ctx) Text(s string) {
	if !c.inPanel("Text") {
		return
	}
	r := c.row(c.lineHeight())
	c.emitText(r.x, r.y, s, c.Style.Text)
}

func (c *Ctx) Textf(format string, args ...any) { c.Text(c.text.sprintf(format, args...)) }

// Separator draws a thin horizontal rule.
func (c *Ctx) Separator() {
	if !c.inPanel("Separator") {
		return
	}
	r := c.row(1)
	c.emitRect(r, c.Style.TextDim)
}

// Header draws a collapsing header and reports whether it is open.
// Headers start closed.
func (c *Ctx) Header(label string) bool {
	if !c.inPanel("Header") {
		return false
	}
	id := c.ID(label)
	r := c.row(c.rowHeight())
	hovered, held, clicked := c.behavior(id, r)
	st := c.state[id]
	if clicked {
		st.open = !st.open
		c.state[id] = st
	}

	bg := c.Style.Header
	if hovered || held {
		bg = c.frameColor(hovered, held)
	}
	c.emitRect(r, bg)
	arrow := "> "
	if st.open {
		arrow = "v "
	}
	c.emitText(r.x+c.framePad(), r.y+c.framePad(), arrow+displayText(label), c.Style.Text)
	return st.open
}

func (c *Ctx) Button(label string) bool {
	if !c.inPanel("Button") {
		return false
	}
	text := displayText(label)
	tw, _ := c.R.Measure(text, c.fontScale)
	r := c.row(c.rowHeight())
	r.w = tw + 4*c.framePad()

	hovered, held, clicked := c.behavior(c.ID(label), r)
	c.emitRect(r, c.frameColor(hovered, held))
	c.textCentered(r, text, c.Style.Text)
	return clicked
}

// Checkbox flips *v when clicked and reports the change.
func (c *Ctx) Checkbox(label string, v *bool) bool {
	if !c.inPanel("Checkbox") {
		return false
	}
	r := c.row(c.rowHeight())
	box := rect{r.x, r.y, r.h, r.h}
	hit := r
	tw, _ := c.R.Measure(displayText(label), c.fontScale)
	hit.w = box.w + 2*c.framePad() + tw

	hovered, held, clicked := c.behavior(c.ID(label), hit)
	if clicked {
		*v = !*v
	}
	c.emitRect(box, c.frameColor(hovered, held))
	if *v {
		in := c.framePad() + 1
		c.emitRect(rect{box.x + in, box.y + in, box.w - 2*in, box.h - 2*in}, c.Style.Check)
	}
	c.emitText(box.x+box.w+2*c.framePad(), r.y+c.framePad(), displayText(label), c.Style.Text)
	return clicked
}

// DragFloat edits *v by dragging horizontally, speed units per pixel.
// The value is clamped to [min, max] when min < max.
func (c *Ctx) DragFloat(label string, v *float32, speed, min, max float32) bool {
	if !c.inPanel("DragFloat") {
		return false
	}
	r := c.row(c.rowHeight())
	frame, lx := c.split(r)
	changed := c.drag(c.ID(label), frame, v, speed, min, max, "")
	c.emitText(lx, r.y+c.framePad(), displayText(label), c.Style.Text)
	return changed
}

// DragFloat3 edits three components side by side.
func (c *Ctx) DragFloat3(label string, v *mgl32.Vec3, speed, min, max float32) bool {
	if !c.inPanel("DragFloat3") {
		return false
	}
	r := c.row(c.rowHeight())
	frame, lx := c.split(r)
	c.PushID(label)
	changed := false
	for i, col := range c.columns(frame, 3) {
		if c.drag(c.ID(strconv.Itoa(i)), col, &v[i], speed, min, max, "") {
			changed = true
		}
	}
	c.PopID()
	c.emitText(lx, r.y+c.framePad(), displayText(label), c.Style.Text)
	return changed
}

var channelNames = [4]string{"R:", "G:", "B:", "A:"}

// ColorEdit4 drags each channel within [0, 1] and shows a swatch.
func (c *Ctx) ColorEdit4(label string, col *colors.Color) bool {
	if !c.inPanel("ColorEdit4") {
		return false
	}
	r := c.row(c.rowHeight())
	frame, lx := c.split(r)
	cells := c.columns(frame, 5)
	c.PushID(label)
	changed := false
	for i := 0; i < 4; i++ {
		if c.drag(c.ID(channelNames[i]), cells[i], &col[i], 0.005, 0, 1, channelNames[i]) {
			changed = true
		}
	}
	c.PopID()
	c.emitRect(cells[4], col.WithAlpha(1))
	c.emitText(lx, r.y+c.framePad(), displayText(label), c.Style.Text)
	return changed
}

func (c *Ctx) drag(id ID, r rect, v *float32, speed, min, max float32, prefix string) bool {
	hovered, held, _ := c.behavior(id, r)
	changed := false
	if held && c.in.MouseDX != 0 {
		nv := *v + c.in.MouseDX*speed
		if min < max {
			nv = mgl32.Clamp(nv, min, max)
		}
		changed = nv != *v
		*v = nv
	}
	c.emitRect(r, c.frameColor(hovered, held))
	c.textCentered(r, c.text.float(prefix, *v, 3), c.Style.Text)
	return changed
}
