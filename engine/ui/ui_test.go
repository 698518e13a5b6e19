package ui

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/grove3d/engine/colors"
	"github.com/hubastard/grove3d/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type drawn struct {
	rect  rect
	text  string
	color colors.Color
}

// fakeRenderer measures every glyph as 8x16 pixels at scale 1.
type fakeRenderer struct {
	rects []drawn
	texts []drawn
}

func (f *fakeRenderer) DrawRect(x, y, w, h float32, color colors.Color) {
	f.rects = append(f.rects, drawn{rect: rect{x, y, w, h}, color: color})
}

func (f *fakeRenderer) DrawText(x, y float32, s string, scale float32, color colors.Color) {
	f.texts = append(f.texts, drawn{rect: rect{x: x, y: y}, text: strings.Clone(s), color: color})
}

func (f *fakeRenderer) Measure(s string, scale float32) (float32, float32) {
	return float32(len(s)) * 8 * scale, 16 * scale
}

func (f *fakeRenderer) reset() { f.rects, f.texts = nil, nil }

func (f *fakeRenderer) hasText(s string) bool {
	for _, d := range f.texts {
		if d.text == s {
			return true
		}
	}
	return false
}

// With the default style the first panel sits at (10, 10); its first row
// starts at (18, 40) and is 344 x 22 pixels.
const rowX, rowY = 18, 40

func frame(c *Ctx, in Input, body func()) {
	c.BeginFrame(in, 800, 600)
	c.Begin("Tuning")
	body()
	c.End()
	c.EndFrame(nil)
}

func press(x, y float32) Input {
	return Input{MouseX: x, MouseY: y, MouseDown: true, MousePressed: true}
}

func TestButtonClickNeedsPressAndRelease(t *testing.T) {
	c := New(&fakeRenderer{})
	var clicked bool
	frame(c, press(rowX+2, rowY+5), func() { clicked = c.Button("Go") })
	assert.False(t, clicked)
	assert.NotZero(t, c.Active())

	frame(c, Input{MouseX: rowX + 2, MouseY: rowY + 5, MouseReleased: true}, func() { clicked = c.Button("Go") })
	assert.True(t, clicked)
	assert.Zero(t, c.Active())
}

func TestButtonFastClick(t *testing.T) {
	c := New(&fakeRenderer{})
	var clicked bool
	in := Input{MouseX: rowX + 2, MouseY: rowY + 5, MousePressed: true, MouseReleased: true}
	frame(c, in, func() { clicked = c.Button("Go") })
	assert.True(t, clicked)
}

func TestButtonReleasedOutsideDoesNotClick(t *testing.T) {
	c := New(&fakeRenderer{})
	var clicked bool
	frame(c, press(rowX+2, rowY+5), func() { c.Button("Go") })
	frame(c, Input{MouseX: 700, MouseY: 500, MouseReleased: true}, func() { clicked = c.Button("Go") })
	assert.False(t, clicked)
	assert.Zero(t, c.Active())
}

func TestHiddenLabelSuffix(t *testing.T) {
	f := &fakeRenderer{}
	c := New(f)
	frame(c, Input{}, func() {
		c.Button("Go##1")
		c.Button("Go##2")
	})
	assert.True(t, f.hasText("Go"))
	assert.False(t, f.hasText("Go##1"))
	assert.NotEqual(t, hashID(0, "Go##1"), hashID(0, "Go##2"))
}

func TestHeaderStartsClosedAndToggles(t *testing.T) {
	c := New(&fakeRenderer{})
	var open bool
	frame(c, Input{}, func() { open = c.Header("Lights") })
	assert.False(t, open)

	click := Input{MouseX: rowX + 2, MouseY: rowY + 5, MousePressed: true, MouseReleased: true}
	frame(c, click, func() { open = c.Header("Lights") })
	assert.True(t, open)
	frame(c, Input{}, func() { open = c.Header("Lights") })
	assert.True(t, open)
	frame(c, click, func() { open = c.Header("Lights") })
	assert.False(t, open)
}

func TestCheckbox(t *testing.T) {
	c := New(&fakeRenderer{})
	v := false
	click := Input{MouseX: rowX + 2, MouseY: rowY + 5, MousePressed: true, MouseReleased: true}
	var changed bool
	frame(c, click, func() { changed = c.Checkbox("Shadows", &v) })
	assert.True(t, changed)
	assert.True(t, v)

	frame(c, Input{}, func() { changed = c.Checkbox("Shadows", &v) })
	assert.False(t, changed)
	assert.True(t, v)
}

func TestDragFloat(t *testing.T) {
	c := New(&fakeRenderer{})
	v := float32(1)
	frame(c, press(rowX+10, rowY+5), func() { c.DragFloat("Speed", &v, 0.1, 0, 0) })

	// The drag continues while the cursor leaves the frame.
	var changed bool
	in := Input{MouseX: 700, MouseY: 300, MouseDX: 10, MouseDown: true}
	frame(c, in, func() { changed = c.DragFloat("Speed", &v, 0.1, 0, 0) })
	assert.True(t, changed)
	assert.InDelta(t, 2, v, 1e-5)
}

func TestDragFloatClamps(t *testing.T) {
	c := New(&fakeRenderer{})
	v := float32(0.25)
	frame(c, press(rowX+10, rowY+5), func() { c.DragFloat("Bias", &v, 0.1, 0, 0.5) })
	frame(c, Input{MouseDX: 100, MouseDown: true}, func() { c.DragFloat("Bias", &v, 0.1, 0, 0.5) })
	assert.Equal(t, float32(0.5), v)

	// Pinned at the limit: no change reported.
	var changed bool
	frame(c, Input{MouseDX: 5, MouseDown: true}, func() { changed = c.DragFloat("Bias", &v, 0.1, 0, 0.5) })
	assert.False(t, changed)
}

func TestDragFloat3EditsOneComponent(t *testing.T) {
	c := New(&fakeRenderer{})
	v := mgl32.Vec3{1, 2, 3}
	// Second column starts at 18 + (213.28-8)/3 + 4 = ~90.4.
	frame(c, press(100, rowY+5), func() { c.DragFloat3("Position", &v, 1, 0, 0) })
	frame(c, Input{MouseDX: -2, MouseDown: true}, func() { c.DragFloat3("Position", &v, 1, 0, 0) })
	assert.Equal(t, mgl32.Vec3{1, 0, 3}, v)
}

func TestColorEdit4Clamps(t *testing.T) {
	c := New(&fakeRenderer{})
	col := colors.Color{0.5, 0.5, 0.5, 1}
	frame(c, press(rowX+5, rowY+5), func() { c.ColorEdit4("Tint", &col) })
	var changed bool
	frame(c, Input{MouseDX: 1000, MouseDown: true}, func() { changed = c.ColorEdit4("Tint", &col) })
	assert.True(t, changed)
	assert.Equal(t, colors.Color{1, 0.5, 0.5, 1}, col)

	frame(c, Input{MouseDX: -1000, MouseDown: true}, func() { c.ColorEdit4("Tint", &col) })
	assert.Equal(t, float32(0), col[0])
}

func TestPushIDSeparatesState(t *testing.T) {
	c := New(&fakeRenderer{})
	c.BeginFrame(Input{}, 800, 600)
	c.Begin("Tuning")
	a := c.ID("Activate")
	c.PushID("camera 1")
	b := c.ID("Activate")
	c.PopID()
	assert.Equal(t, a, c.ID("Activate"))
	assert.NotEqual(t, a, b)
	c.End()
	c.EndFrame(nil)
}

func TestIndentShiftsRows(t *testing.T) {
	f := &fakeRenderer{}
	c := New(f)
	frame(c, Input{}, func() {
		c.Indent()
		c.Text("indented")
		c.Unindent()
		c.Unindent()
		c.Text("flush")
	})
	require.Len(t, f.texts, 3)
	assert.Equal(t, float32(rowX+14), f.texts[1].rect.x)
	assert.Equal(t, float32(rowX), f.texts[2].rect.x)
	assert.Equal(t, float32(rowY+16+4), f.texts[2].rect.y)
}

func TestPanelDrawnBehindWidgets(t *testing.T) {
	f := &fakeRenderer{}
	c := New(f)
	frame(c, Input{}, func() { c.Text("fps") })
	require.GreaterOrEqual(t, len(f.rects), 2)
	// One text row: 40 + 16 + 8 - 10.
	assert.Equal(t, rect{10, 10, 360, 54}, f.rects[0].rect)
	assert.Equal(t, c.Style.PanelBg, f.rects[0].color)
	assert.Equal(t, "Tuning", f.texts[0].text)
	assert.Equal(t, "fps", f.texts[1].text)
}

func TestTitleDragMovesPanel(t *testing.T) {
	f := &fakeRenderer{}
	c := New(f)
	frame(c, press(20, 15), func() {})
	f.reset()
	frame(c, Input{MouseX: 25, MouseY: 22, MouseDX: 5, MouseDY: 7, MouseDown: true}, func() {})
	assert.Equal(t, float32(15), f.rects[0].rect.x)
	assert.Equal(t, float32(17), f.rects[0].rect.y)
}

func TestSetNextPanelPos(t *testing.T) {
	f := &fakeRenderer{}
	c := New(f)
	c.SetNextPanelPos(100, 200)
	frame(c, Input{}, func() {})
	assert.Equal(t, float32(100), f.rects[0].rect.x)
	assert.Equal(t, float32(200), f.rects[0].rect.y)
}

func TestCaptureFlags(t *testing.T) {
	c := New(&fakeRenderer{})
	in := core.NewInput()

	c.BeginFrame(Input{MouseX: 20, MouseY: 45}, 800, 600)
	c.Begin("Tuning")
	c.Text("hello")
	c.End()
	c.EndFrame(in)
	assert.True(t, in.MouseCaptured)
	assert.False(t, in.KeyboardCaptured)

	c.BeginFrame(Input{MouseX: 500, MouseY: 500}, 800, 600)
	c.Begin("Tuning")
	c.Text("hello")
	c.End()
	c.EndFrame(in)
	assert.False(t, in.MouseCaptured)
}

func TestDragKeepsCaptureOutsidePanel(t *testing.T) {
	c := New(&fakeRenderer{})
	v := float32(0)
	frame(c, press(rowX+10, rowY+5), func() { c.DragFloat("x", &v, 1, 0, 0) })

	in := core.NewInput()
	c.BeginFrame(Input{MouseX: 700, MouseY: 500, MouseDown: true}, 800, 600)
	c.Begin("Tuning")
	c.DragFloat("x", &v, 1, 0, 0)
	c.End()
	c.EndFrame(in)
	assert.True(t, in.MouseCaptured)
	assert.True(t, in.KeyboardCaptured)
}

func TestBackgroundPressCaptures(t *testing.T) {
	c := New(&fakeRenderer{})
	frame(c, press(300, 45), func() { c.Text("hello") })
	assert.True(t, c.WantCaptureMouse())
	frame(c, Input{MouseX: 700, MouseY: 500}, func() { c.Text("hello") })
	assert.False(t, c.WantCaptureMouse())
}

func TestFontScaleFloor(t *testing.T) {
	c := New(&fakeRenderer{})
	c.SetFontScale(0.01)
	assert.Equal(t, float32(0.1), c.FontScale())
	c.SetFontScale(2)
	assert.Equal(t, float32(2), c.FontScale())
}

func TestMisuseDoesNotPanic(t *testing.T) {
	c := New(&fakeRenderer{})
	v := false
	assert.NotPanics(t, func() {
		c.BeginFrame(Input{}, 800, 600)
		c.End()
		assert.False(t, c.Button("orphan"))
		assert.False(t, c.Checkbox("orphan", &v))
		c.PopID()
		c.Begin("a")
		c.PushID("left open")
		c.EndFrame(nil)
	})
}

func TestInputFrom(t *testing.T) {
	in := core.NewInput()
	in.Handle(core.EventMouseMove{X: 10, Y: 20})
	in.Handle(core.EventMouseMove{X: 13, Y: 18})
	in.Handle(core.EventMouseButton{Button: core.MouseLeft, Down: true})
	got := InputFrom(in)
	assert.Equal(t, Input{MouseX: 13, MouseY: 18, MouseDX: 3, MouseDY: -2, MouseDown: true, MousePressed: true}, got)
}
