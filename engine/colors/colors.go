// Package colors holds linear RGBA colours shared by the renderers and UI.
package colors

import "github.com/go-gl/mathgl/mgl32"

type Color [4]float32

var (
	White    = Color{1, 1, 1, 1}
	Red      = Color{1, 0, 0, 1}
	Green    = Color{0, 1, 0, 1}
	Blue     = Color{0, 0, 1, 1}
	Black    = Color{0, 0, 0, 1}
	Magenta  = Color{1, 0, 1, 1}
	Cyan     = Color{0, 1, 1, 1}
	Yellow   = Color{1, 1, 0, 1}
	Gray     = Color{0.5, 0.5, 0.5, 1}
	DarkGray = Color{0.08, 0.10, 0.12, 1}

	// Sky is the sandbox's default background.
	Sky     = Color{0.4, 0.6, 0.75, 1}
	Horizon = Color{0.85, 0.9, 0.95, 1}
	Ground  = Color{0.25, 0.22, 0.2, 1}
)

func (c Color) WithAlpha(a float32) Color {
	c[3] = a
	return c
}

// Mul multiplies component-wise.
func (c Color) Mul(o Color) Color {
	return Color{c[0] * o[0], c[1] * o[1], c[2] * o[2], c[3] * o[3]}
}

// Lerp blends from c to o; t is clamped to [0, 1].
func (c Color) Lerp(o Color, t float32) Color {
	t = mgl32.Clamp(t, 0, 1)
	var out Color
	for i := range c {
		out[i] = c[i] + (o[i]-c[i])*t
	}
	return out
}

// RGBA8 converts to bytes, clamping each channel.
func (c Color) RGBA8() [4]byte {
	var out [4]byte
	for i, v := range c {
		out[i] = byte(mgl32.Clamp(v, 0, 1)*255 + 0.5)
	}
	return out
}

func (c Color) Vec4() mgl32.Vec4 { return mgl32.Vec4(c) }
func (c Color) Vec3() mgl32.Vec3 { return mgl32.Vec3{c[0], c[1], c[2]} }
