package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// The world is left-handed: +X right, +Y up, +Z forward. These helpers build
// column-major GL matrices for that convention; clip depth is [-1, 1].

// LookTo returns the view matrix for an eye looking along dir.
func LookTo(eye, dir, up mgl32.Vec3) mgl32.Mat4 {
	f := dir.Normalize()
	if mgl32.Abs(f.Dot(up.Normalize())) > 0.999 {
		up = mgl32.Vec3{0, 0, 1}
	}
	r := up.Cross(f).Normalize()
	u := f.Cross(r)
	return mgl32.Mat4{
		r[0], u[0], f[0], 0,
		r[1], u[1], f[1], 0,
		r[2], u[2], f[2], 0,
		-r.Dot(eye), -u.Dot(eye), -f.Dot(eye), 1,
	}
}

// PerspectiveMatrix maps view-space z in [near, far] to clip depth [-1, 1].
func PerspectiveMatrix(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1 / math32.Tan(fovY*0.5)
	nf := 1 / (far - near)
	return mgl32.Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, 1,
		0, 0, -2 * far * near * nf, 0,
	}
}

// OrthoMatrix is a centred orthographic projection width x height.
func OrthoMatrix(width, height, near, far float32) mgl32.Mat4 {
	nf := 1 / (far - near)
	return mgl32.Mat4{
		2 / width, 0, 0, 0,
		0, 2 / height, 0, 0,
		0, 0, 2 * nf, 0,
		0, 0, -(far + near) * nf, 1,
	}
}

// rotationQuat composes roll (Z), then pitch (X), then yaw (Y).
func rotationQuat(pyr mgl32.Vec3) mgl32.Quat {
	qy := mgl32.QuatRotate(pyr[1], mgl32.Vec3{0, 1, 0})
	qx := mgl32.QuatRotate(pyr[0], mgl32.Vec3{1, 0, 0})
	qz := mgl32.QuatRotate(pyr[2], mgl32.Vec3{0, 0, 1})
	return qy.Mul(qx).Mul(qz)
}

// decompose splits an affine matrix into translation, pitch/yaw/roll and
// scale. Shear is discarded.
func decompose(m mgl32.Mat4) (pos, pyr, scale mgl32.Vec3) {
	pos = m.Col(3).Vec3()
	c0, c1, c2 := m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()
	scale = mgl32.Vec3{c0.Len(), c1.Len(), c2.Len()}
	if scale[0] == 0 || scale[1] == 0 || scale[2] == 0 {
		return pos, mgl32.Vec3{}, scale
	}
	r := mgl32.Mat3FromCols(c0.Mul(1/scale[0]), c1.Mul(1/scale[1]), c2.Mul(1/scale[2]))

	sp := mgl32.Clamp(-r.At(1, 2), -1, 1)
	pyr[0] = math32.Asin(sp)
	if math32.Abs(sp) < 0.9999 {
		pyr[1] = math32.Atan2(r.At(0, 2), r.At(2, 2))
		pyr[2] = math32.Atan2(r.At(1, 0), r.At(1, 1))
	} else {
		// Gimbal lock: fold roll into yaw.
		pyr[1] = math32.Atan2(-r.At(2, 0), r.At(0, 0))
		pyr[2] = 0
	}
	return pos, pyr, scale
}
