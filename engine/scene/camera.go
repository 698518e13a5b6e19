package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/grove3d/engine/core"
)

type Projection int

const (
	Perspective Projection = iota
	Orthographic
)

// pitchLimit keeps the fly camera just short of looking straight up or down.
const pitchLimit = math32.Pi/2 - 0.001

// Camera is a fly camera with its own transform.
type Camera struct {
	Name      string
	Transform *Transform

	Projection Projection
	FOV        float32 // vertical, radians
	Near, Far  float32
	OrthoWidth float32

	MoveSpeed  float32 // units per second
	MouseSpeed float32 // radians per pixel

	aspect float32
	active bool
	view   mgl32.Mat4
	proj   mgl32.Mat4
}

// NewCamera builds a perspective camera at pos looking down +Z.
func NewCamera(pos mgl32.Vec3, moveSpeed, mouseSpeed, fov, aspect float32) *Camera {
	c := &Camera{
		Transform:  NewTransform(),
		FOV:        fov,
		Near:       0.01,
		Far:        1000,
		OrthoWidth: 10,
		MoveSpeed:  moveSpeed,
		MouseSpeed: mouseSpeed,
	}
	c.Transform.SetPosition(pos)
	c.UpdateViewMatrix()
	c.UpdateProjectionMatrix(aspect)
	return c
}

func (c *Camera) Active() bool                 { return c.active }
func (c *Camera) Aspect() float32              { return c.aspect }
func (c *Camera) ViewMatrix() mgl32.Mat4       { return c.view }
func (c *Camera) ProjectionMatrix() mgl32.Mat4 { return c.proj }
func (c *Camera) Position() mgl32.Vec3 {
	return c.Transform.Position()
}

// ViewProjection is projection * view.
func (c *Camera) ViewProjection() mgl32.Mat4 { return c.proj.Mul4(c.view) }

// UpdateViewMatrix looks along the transform's world forward axis, so a
// camera parented to a moving entity follows it.
func (c *Camera) UpdateViewMatrix() {
	t := c.Transform
	c.view = LookTo(t.WorldPosition(), t.WorldForward(), mgl32.Vec3{0, 1, 0})
}

// UpdateProjectionMatrix rebuilds the projection for a new aspect ratio.
func (c *Camera) UpdateProjectionMatrix(aspect float32) {
	if aspect <= 0 {
		aspect = 1
	}
	c.aspect = aspect
	if c.Projection == Orthographic {
		c.proj = OrthoMatrix(c.OrthoWidth, c.OrthoWidth/aspect, c.Near, c.Far)
		return
	}
	c.proj = PerspectiveMatrix(c.FOV, aspect, c.Near, c.Far)
}

// SetFOV changes the vertical field of view and rebuilds the projection.
func (c *Camera) SetFOV(fov float32) {
	c.FOV = mgl32.Clamp(fov, 0.01, math32.Pi-0.01)
	c.UpdateProjectionMatrix(c.aspect)
}

func (c *Camera) SetProjection(p Projection) {
	c.Projection = p
	c.UpdateProjectionMatrix(c.aspect)
}

// Update applies fly controls: WASD moves along the camera axes, Space and
// X move along world Y, Shift multiplies speed by five, and dragging with
// the left button held looks around. Input the UI captured is ignored.
func (c *Camera) Update(dt float32, in *core.Input) {
	t := c.Transform
	if !in.KeyboardCaptured {
		speed := c.MoveSpeed * dt
		if in.IsKeyDown(core.KeyLeftShift) {
			speed *= 5
		}
		if in.IsKeyDown(core.KeyW) {
			t.MoveRelative(mgl32.Vec3{0, 0, speed})
		}
		if in.IsKeyDown(core.KeyS) {
			t.MoveRelative(mgl32.Vec3{0, 0, -speed})
		}
		if in.IsKeyDown(core.KeyA) {
			t.MoveRelative(mgl32.Vec3{-speed, 0, 0})
		}
		if in.IsKeyDown(core.KeyD) {
			t.MoveRelative(mgl32.Vec3{speed, 0, 0})
		}
		if in.IsKeyDown(core.KeySpace) {
			t.MoveAbsolute(mgl32.Vec3{0, speed, 0})
		}
		if in.IsKeyDown(core.KeyX) {
			t.MoveAbsolute(mgl32.Vec3{0, -speed, 0})
		}
	}

	if !in.MouseCaptured && in.IsMouseDown(core.MouseLeft) {
		dx, dy := in.MouseDelta()
		t.Rotate(mgl32.Vec3{float32(dy) * c.MouseSpeed, float32(dx) * c.MouseSpeed, 0})
		r := t.PitchYawRoll()
		if p := mgl32.Clamp(r[0], -pitchLimit, pitchLimit); p != r[0] {
			r[0] = p
			t.SetRotation(r)
		}
	}

	c.UpdateViewMatrix()
}
