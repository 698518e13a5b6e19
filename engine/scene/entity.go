package scene

import (
	"fmt"

	"github.com/hubastard/grove3d/engine/geometry"
)

// Entity places a mesh in the world with a material.
type Entity struct {
	Name      string
	Mesh      *geometry.Mesh
	Material  *Material
	Transform *Transform
	Hidden    bool
	// CastShadow includes the entity in the shadow depth pass.
	CastShadow bool
}

func NewEntity(name string, mesh *geometry.Mesh, mat *Material) *Entity {
	return &Entity{Name: name, Mesh: mesh, Material: mat, Transform: NewTransform(), CastShadow: true}
}

// Draw submits one draw call through dc.
func (e *Entity) Draw(dc *DrawContext) error {
	if e.Hidden || e.Mesh == nil {
		return nil
	}
	if e.Material == nil {
		return fmt.Errorf("entity %q has no material", e.Name)
	}
	cmd, err := e.Material.Prepare(dc, e.Transform)
	if err != nil {
		return fmt.Errorf("entity %q: %w", e.Name, err)
	}
	cmd.Mesh = e.Mesh.GPU
	dc.Renderer.Draw(cmd)
	return nil
}
