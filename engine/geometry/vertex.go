// Package geometry builds procedural meshes in the engine's standard vertex format.
package geometry

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/grove3d/engine/core"
)

// Vertex: pos3 + normal3 + uv2 + tangent3 + color4 => 15 floats
const vStride = 15

// Vertex is the layout every 3D pipeline consumes.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
	Tangent  mgl32.Vec3
	Color    mgl32.Vec4
}

var vertexLayout = core.VertexLayout{
	Stride: vStride * 4,
	Attributes: []core.VertexAttrib{
		{Location: 0, Size: 3, Type: core.AttribFloat32, Offset: 0},      // position
		{Location: 1, Size: 3, Type: core.AttribFloat32, Offset: 3 * 4},  // normal
		{Location: 2, Size: 2, Type: core.AttribFloat32, Offset: 6 * 4},  // uv
		{Location: 3, Size: 3, Type: core.AttribFloat32, Offset: 8 * 4},  // tangent
		{Location: 4, Size: 4, Type: core.AttribFloat32, Offset: 11 * 4}, // color
	},
}

// Layout returns the vertex layout matching Flatten's output.
func Layout() core.VertexLayout { return vertexLayout }

// Data is CPU-side geometry ready for upload.
type Data struct {
	Vertices []Vertex
	Indices  []uint32
}

// Flatten interleaves the vertices into the float stream described by Layout.
func (d Data) Flatten() []float32 {
	out := make([]float32, 0, len(d.Vertices)*vStride)
	for _, v := range d.Vertices {
		out = append(out,
			v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2],
			v.UV[0], v.UV[1],
			v.Tangent[0], v.Tangent[1], v.Tangent[2],
			v.Color[0], v.Color[1], v.Color[2], v.Color[3],
		)
	}
	return out
}

// Bounds returns the axis-aligned min and max corners.
func (d Data) Bounds() (lo, hi mgl32.Vec3) {
	if len(d.Vertices) == 0 {
		return
	}
	lo, hi = d.Vertices[0].Position, d.Vertices[0].Position
	for _, v := range d.Vertices[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = math32.Min(lo[i], v.Position[i])
			hi[i] = math32.Max(hi[i], v.Position[i])
		}
	}
	return lo, hi
}

// ComputeTangents accumulates per-triangle tangents from positions and UVs
// and orthogonalises them against the vertex normals.
func ComputeTangents(vertices []Vertex, indices []uint32) {
	acc := make([]mgl32.Vec3, len(vertices))
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		v0, v1, v2 := vertices[i0], vertices[i1], vertices[i2]

		e1 := v1.Position.Sub(v0.Position)
		e2 := v2.Position.Sub(v0.Position)
		du1, dv1 := v1.UV[0]-v0.UV[0], v1.UV[1]-v0.UV[1]
		du2, dv2 := v2.UV[0]-v0.UV[0], v2.UV[1]-v0.UV[1]

		det := du1*dv2 - du2*dv1
		if det == 0 {
			continue
		}
		r := 1 / det
		t := e1.Mul(dv2).Sub(e2.Mul(dv1)).Mul(r)

		acc[i0] = acc[i0].Add(t)
		acc[i1] = acc[i1].Add(t)
		acc[i2] = acc[i2].Add(t)
	}

	for i := range vertices {
		n := vertices[i].Normal
		t := acc[i]
		// Gram-Schmidt
		t = t.Sub(n.Mul(n.Dot(t)))
		if t.Len() < 1e-6 {
			continue
		}
		vertices[i].Tangent = t.Normalize()
	}
}
