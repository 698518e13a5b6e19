// Package scene holds the 3D world: transforms, cameras, materials,
// entities, lights and the skybox.
package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/grove3d/engine/core"
	"github.com/hubastard/grove3d/engine/gfx/cbuffer"
)

type Scene struct {
	Entities []*Entity
	Cameras  CameraRig
	Lights   []Light
	Sky      *Skybox

	Ambient    mgl32.Vec3
	Background [4]float32
	// Tint multiplies every material tint.
	Tint mgl32.Vec4
	// Offset translates every entity in world space.
	Offset mgl32.Vec3
	// Animate moves and stretches every entity along a sine wave.
	Animate bool
}

func New() *Scene {
	return &Scene{Tint: mgl32.Vec4{1, 1, 1, 1}, Animate: true}
}

func (s *Scene) Add(e ...*Entity) { s.Entities = append(s.Entities, e...) }

// Update animates the entities and flies the active camera.
func (s *Scene) Update(dt, total float32, in *core.Input) {
	if cam := s.Cameras.Active(); cam != nil && in != nil {
		cam.Update(dt, in)
	}
	if !s.Animate {
		return
	}
	step := math32.Sin(total) * 0.5 * dt
	seen := make(map[*Transform]bool, len(s.Entities))
	for _, e := range s.Entities {
		t := e.Transform
		if seen[t] {
			continue
		}
		seen[t] = true
		t.MoveAbsolute(mgl32.Vec3{step, 0, 0})
		sc := t.Scaling()
		sc[1] += step
		t.SetScale(sc)
	}
}

// LightData returns the enabled lights in shader layout, at most
// cbuffer.MaxLights of them.
func (s *Scene) LightData() []cbuffer.LightData {
	out := make([]cbuffer.LightData, 0, len(s.Lights))
	for _, l := range s.Lights {
		if l.Disabled {
			continue
		}
		out = append(out, l.Data())
		if len(out) == cbuffer.MaxLights {
			break
		}
	}
	return out
}

// ShadowLight returns the first enabled directional light that casts
// shadows and its index in LightData, or -1 when it did not fit there.
func (s *Scene) ShadowLight() (Light, int, bool) {
	slot := 0
	for _, l := range s.Lights {
		if l.Disabled {
			continue
		}
		if l.CastShadow && l.Type == LightDirectional {
			if slot >= cbuffer.MaxLights {
				slot = -1
			}
			return l, slot, true
		}
		slot++
	}
	return Light{}, -1, false
}

// Triangles is the total triangle count of the visible entities.
func (s *Scene) Triangles() int {
	n := 0
	for _, e := range s.Entities {
		if !e.Hidden && e.Mesh != nil {
			n += e.Mesh.TriangleCount()
		}
	}
	return n
}
