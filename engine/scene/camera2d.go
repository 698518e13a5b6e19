package scene

import "github.com/go-gl/mathgl/mgl32"

// OrthoCamera2D maps pixel coordinates to clip space for overlays. The
// origin is the top-left corner of the framebuffer and +Y points down.
type OrthoCamera2D struct {
	Width, Height float32
	X, Y          float32
	Zoom          float32 // 1 = one unit per pixel
	vp            mgl32.Mat4
	dirty         bool
}

func NewOrtho2D(width, height int) *OrthoCamera2D {
	c := &OrthoCamera2D{Width: float32(width), Height: float32(height), Zoom: 1}
	c.Recalculate()
	return c
}

func (c *OrthoCamera2D) SetViewportPixels(w, h int) {
	c.Width, c.Height = float32(w), float32(h)
	c.dirty = true
}

func (c *OrthoCamera2D) Move(dx, dy float32) { c.X += dx; c.Y += dy; c.dirty = true }
func (c *OrthoCamera2D) SetZoom(z float32) {
	if z < 0.05 {
		z = 0.05
	}
	c.Zoom = z
	c.dirty = true
}

// VP returns the view-projection matrix in the layout renderer2d uploads.
func (c *OrthoCamera2D) VP() [16]float32 {
	if c.dirty {
		c.Recalculate()
	}
	return c.vp
}

// ScreenToWorld converts a framebuffer pixel into overlay coordinates.
func (c *OrthoCamera2D) ScreenToWorld(px, py float32) (float32, float32) {
	return px/c.Zoom + c.X, py/c.Zoom + c.Y
}

func (c *OrthoCamera2D) Recalculate() {
	w, h := c.Width/c.Zoom, c.Height/c.Zoom
	proj := mgl32.Ortho(0, w, h, 0, -1, 1)
	view := mgl32.Translate3D(-c.X, -c.Y, 0)
	c.vp = proj.Mul4(view)
	c.dirty = false
}
