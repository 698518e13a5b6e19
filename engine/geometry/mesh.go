package geometry

import (
	"fmt"

	"github.com/hubastard/grove3d/engine/core"
)

// Mesh is uploaded geometry plus the counts the UI reports.
type Mesh struct {
	Name   string
	GPU    core.Mesh
	Vertex int
	Index  int
	Min    [3]float32
	Max    [3]float32
}

// Upload creates a GPU mesh from d.
func Upload(r core.Renderer, name string, d Data) (*Mesh, error) {
	if len(d.Vertices) == 0 || len(d.Indices) == 0 {
		return nil, fmt.Errorf("mesh %q: no geometry", name)
	}
	for _, i := range d.Indices {
		if int(i) >= len(d.Vertices) {
			return nil, fmt.Errorf("mesh %q: index %d out of range (%d vertices)", name, i, len(d.Vertices))
		}
	}
	gm, err := r.CreateMesh(core.MeshDesc{
		Vertices: d.Flatten(),
		Indices:  d.Indices,
		Layout:   vertexLayout,
	})
	if err != nil {
		return nil, fmt.Errorf("mesh %q: %w", name, err)
	}
	lo, hi := d.Bounds()
	return &Mesh{
		Name:   name,
		GPU:    gm,
		Vertex: len(d.Vertices),
		Index:  len(d.Indices),
		Min:    lo,
		Max:    hi,
	}, nil
}

func (m *Mesh) VertexCount() int   { return m.Vertex }
func (m *Mesh) IndexCount() int    { return m.Index }
func (m *Mesh) TriangleCount() int { return m.Index / 3 }
