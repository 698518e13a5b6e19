package scene

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrCycle = errors.New("transform hierarchy cycle")

// Transform is a position, pitch/yaw/roll rotation and scale with a lazily
// recomputed world matrix. Every setter marks the transform and its
// descendants dirty; the matrices are rebuilt on the next read.
type Transform struct {
	position mgl32.Vec3
	rotation mgl32.Vec3 // pitch, yaw, roll (radians)
	scale    mgl32.Vec3

	parent   *Transform
	children []*Transform

	world     mgl32.Mat4
	worldInvT mgl32.Mat4
	quat      mgl32.Quat
	dirty     bool
	quatDirty bool

	// rebuilds counts world-matrix recomputations.
	rebuilds int
}

func NewTransform() *Transform {
	return &Transform{
		scale:     mgl32.Vec3{1, 1, 1},
		world:     mgl32.Ident4(),
		worldInvT: mgl32.Ident4(),
		quat:      mgl32.QuatIdent(),
	}
}

func (t *Transform) markDirty() {
	t.dirty = true
	for _, c := range t.children {
		c.markDirty()
	}
}

func (t *Transform) rotationChanged() {
	t.quatDirty = true
	t.markDirty()
}

// ---- setters ----

func (t *Transform) SetPosition(p mgl32.Vec3) { t.position = p; t.markDirty() }
func (t *Transform) SetRotation(pyr mgl32.Vec3) {
	t.rotation = pyr
	t.rotationChanged()
}
func (t *Transform) SetScale(s mgl32.Vec3) { t.scale = s; t.markDirty() }

// ---- getters ----

func (t *Transform) Position() mgl32.Vec3     { return t.position }
func (t *Transform) PitchYawRoll() mgl32.Vec3 { return t.rotation }
func (t *Transform) Scaling() mgl32.Vec3      { return t.scale }

// Rotation returns the orientation quaternion.
func (t *Transform) Rotation() mgl32.Quat {
	if t.quatDirty {
		t.quat = rotationQuat(t.rotation)
		t.quatDirty = false
	}
	return t.quat
}

// Right, Up and Forward are the local axes after rotation, ignoring parents.
func (t *Transform) Right() mgl32.Vec3   { return t.Rotation().Rotate(mgl32.Vec3{1, 0, 0}) }
func (t *Transform) Up() mgl32.Vec3      { return t.Rotation().Rotate(mgl32.Vec3{0, 1, 0}) }
func (t *Transform) Forward() mgl32.Vec3 { return t.Rotation().Rotate(mgl32.Vec3{0, 0, 1}) }

// ---- transformers ----

// MoveAbsolute offsets the position along the world axes.
func (t *Transform) MoveAbsolute(offset mgl32.Vec3) {
	t.position = t.position.Add(offset)
	t.markDirty()
}

// MoveRelative offsets the position along the transform's own axes.
func (t *Transform) MoveRelative(offset mgl32.Vec3) {
	t.position = t.position.Add(t.Rotation().Rotate(offset))
	t.markDirty()
}

// Rotate adds to pitch, yaw and roll.
func (t *Transform) Rotate(pyr mgl32.Vec3) {
	t.rotation = t.rotation.Add(pyr)
	t.rotationChanged()
}

// Scale multiplies the scale component-wise.
func (t *Transform) Scale(s mgl32.Vec3) {
	t.scale = mgl32.Vec3{t.scale[0] * s[0], t.scale[1] * s[1], t.scale[2] * s[2]}
	t.markDirty()
}

// ---- matrices ----

// LocalMatrix is translation * rotation * scale relative to the parent.
func (t *Transform) LocalMatrix() mgl32.Mat4 {
	tr := mgl32.Translate3D(t.position[0], t.position[1], t.position[2])
	sc := mgl32.Scale3D(t.scale[0], t.scale[1], t.scale[2])
	return tr.Mul4(t.Rotation().Mat4()).Mul4(sc)
}

func (t *Transform) WorldMatrix() mgl32.Mat4 {
	t.update()
	return t.world
}

// WorldInverseTransposeMatrix transforms normals into world space.
func (t *Transform) WorldInverseTransposeMatrix() mgl32.Mat4 {
	t.update()
	return t.worldInvT
}

// WorldPosition is the translation part of the world matrix.
func (t *Transform) WorldPosition() mgl32.Vec3 {
	return t.WorldMatrix().Col(3).Vec3()
}

// WorldForward is the local +Z axis carried through every parent's
// rotation, normalized.
func (t *Transform) WorldForward() mgl32.Vec3 {
	v := t.WorldMatrix().Col(2).Vec3()
	if v.Len() == 0 {
		return v
	}
	return v.Normalize()
}

func (t *Transform) update() {
	if !t.dirty {
		return
	}
	w := t.LocalMatrix()
	if t.parent != nil {
		w = t.parent.WorldMatrix().Mul4(w)
	}
	t.world = w
	if w.Det() == 0 {
		t.worldInvT = mgl32.Ident4()
	} else {
		t.worldInvT = w.Inv().Transpose()
	}
	t.dirty = false
	t.rebuilds++
}

// ---- hierarchy ----

func (t *Transform) Parent() *Transform          { return t.parent }
func (t *Transform) Children() []*Transform      { return t.children }
func (t *Transform) AddChild(c *Transform) error { return c.SetParent(t, false) }

// RemoveChild detaches c, keeping its local values.
func (t *Transform) RemoveChild(c *Transform) {
	if c.parent != t {
		return
	}
	_ = c.SetParent(nil, false)
}

// SetParent reparents t. With keepWorld the local values are recomputed so
// the world matrix stays where it was.
func (t *Transform) SetParent(p *Transform, keepWorld bool) error {
	if p == t.parent {
		return nil
	}
	for a := p; a != nil; a = a.parent {
		if a == t {
			return ErrCycle
		}
	}

	var world mgl32.Mat4
	if keepWorld {
		world = t.WorldMatrix()
	}

	if t.parent != nil {
		sib := t.parent.children
		for i, c := range sib {
			if c == t {
				t.parent.children = append(sib[:i], sib[i+1:]...)
				break
			}
		}
	}
	t.parent = p
	if p != nil {
		p.children = append(p.children, t)
	}

	if keepWorld {
		local := world
		if p != nil {
			local = p.WorldMatrix().Inv().Mul4(world)
		}
		t.position, t.rotation, t.scale = decompose(local)
		t.quatDirty = true
	}
	t.markDirty()
	return nil
}
