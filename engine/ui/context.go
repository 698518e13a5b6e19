// Package ui is a small immediate-mode tuning panel drawn with renderer2d.
//
// Widgets are plain function calls made every frame between BeginFrame and
// EndFrame. Their state (open headers, the widget being dragged) is keyed
// by a hash of the label and the enclosing ID stack, so two widgets with the
// same label need a PushID or a "##suffix" to stay distinct.
package ui

import (
	"encoding/binary"
	"hash/fnv"

	"github.com/hubastard/grove3d/engine/colors"
	"github.com/hubastard/grove3d/engine/core"
	"github.com/hubastard/grove3d/engine/log"
)

var logger = log.New("ui")

// Renderer draws the panel. Positions are pixels from the top-left corner
// of the framebuffer; text is placed by its top-left corner. The text
// passed to DrawText is only valid during the call.
type Renderer interface {
	DrawRect(x, y, w, h float32, color colors.Color)
	DrawText(x, y float32, text string, scale float32, color colors.Color)
	Measure(text string, scale float32) (w, h float32)
}

// Input is the mouse state the widgets react to during one frame.
type Input struct {
	MouseX, MouseY   float32
	MouseDX, MouseDY float32
	MouseDown        bool
	MousePressed     bool
	MouseReleased    bool
}

// InputFrom snapshots the left mouse button and cursor of in.
func InputFrom(in *core.Input) Input {
	x, y := in.Mouse()
	dx, dy := in.MouseDelta()
	return Input{
		MouseX:        float32(x),
		MouseY:        float32(y),
		MouseDX:       float32(dx),
		MouseDY:       float32(dy),
		MouseDown:     in.IsMouseDown(core.MouseLeft),
		MousePressed:  in.IsMousePressed(core.MouseLeft),
		MouseReleased: in.IsMouseReleased(core.MouseLeft),
	}
}

// ID identifies a widget across frames. Zero means none.
type ID uint64

func hashID(seed ID, s string) ID {
	h := fnv.New64a()
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(seed))
	_, _ = h.Write(b[:]) // fnv.Write never returns an error
	_, _ = h.Write([]byte(s))
	return ID(h.Sum64())
}

type widgetState struct {
	open bool
}

// Ctx holds everything that persists between frames.
type Ctx struct {
	R     Renderer
	Style Style

	in        Input
	viewportW float32
	viewportH float32

	ids    []ID
	state  map[ID]widgetState
	panels map[ID]*panel
	cur    *panel
	cmds   []cmd
	text   arena

	active    ID
	hovered   bool
	fontScale float32
	nextPos   *[2]float32
}

func New(r Renderer) *Ctx {
	return &Ctx{
		R:         r,
		Style:     DefaultStyle(),
		state:     make(map[ID]widgetState, 64),
		panels:    make(map[ID]*panel, 4),
		cmds:      make([]cmd, 0, 256),
		text:      newArena(4 << 10),
		fontScale: 1,
	}
}

// BeginFrame starts a frame over a viewport of w x h pixels.
func (c *Ctx) BeginFrame(in Input, w, h float32) {
	c.in = in
	c.viewportW, c.viewportH = w, h
	c.hovered = false
	c.ids = c.ids[:0]
	c.text.reset()
	if c.cur != nil {
		logger.Warningf("panel %q was not ended", c.cur.title)
		c.cur = nil
	}
}

// EndFrame finishes the frame and, when in is non-nil, tells it whether
// the panel consumed the mouse and keyboard.
func (c *Ctx) EndFrame(in *core.Input) {
	if c.cur != nil {
		c.End()
	}
	if len(c.ids) > 0 {
		logger.Warningf("%d ids still pushed at end of frame", len(c.ids))
		c.ids = c.ids[:0]
	}
	// A release outside every widget still ends the interaction.
	if !c.in.MouseDown {
		c.active = 0
	}
	if in != nil {
		in.MouseCaptured = c.WantCaptureMouse()
		in.KeyboardCaptured = c.WantCaptureKeyboard()
	}
}

// WantCaptureMouse reports whether the cursor is over a panel or a widget
// is being dragged.
func (c *Ctx) WantCaptureMouse() bool { return c.hovered || c.active != 0 }

// WantCaptureKeyboard reports whether a widget is being edited.
func (c *Ctx) WantCaptureKeyboard() bool { return c.active != 0 }

func (c *Ctx) FontScale() float32 { return c.fontScale }

// SetFontScale scales every widget; values below 0.1 are raised to 0.1.
func (c *Ctx) SetFontScale(s float32) {
	if s < 0.1 {
		s = 0.1
	}
	c.fontScale = s
}

// SetNextPanelPos places the next panel the first time it is begun.
func (c *Ctx) SetNextPanelPos(x, y float32) { c.nextPos = &[2]float32{x, y} }

func (c *Ctx) PushID(s string) { c.ids = append(c.ids, c.ID(s)) }

func (c *Ctx) PopID() {
	if len(c.ids) == 0 {
		logger.Warning("PopID with an empty id stack")
		return
	}
	c.ids = c.ids[:len(c.ids)-1]
}

// ID returns the id label would get at the current point of the stack.
func (c *Ctx) ID(label string) ID {
	var seed ID
	if n := len(c.ids); n > 0 {
		seed = c.ids[n-1]
	}
	return hashID(seed, label)
}

// Active is the widget currently held by the mouse.
func (c *Ctx) Active() ID { return c.active }

// behavior runs the press/hold/release logic for a widget occupying r.
func (c *Ctx) behavior(id ID, r rect) (hovered, held, clicked bool) {
	hovered = r.contains(c.in.MouseX, c.in.MouseY) && (c.active == 0 || c.active == id)
	if hovered && c.in.MousePressed {
		c.active = id
	}
	held = c.active == id
	if held && c.in.MouseReleased {
		clicked = hovered
		c.active = 0
	}
	return hovered, held, clicked
}
