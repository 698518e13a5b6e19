package geometry

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

var white = mgl32.Vec4{1, 1, 1, 1}

// Cube returns a unit cube centred on the origin with per-face normals.
func Cube(size float32) Data {
	h := size * 0.5
	type face struct{ n, u, v mgl32.Vec3 }
	faces := [6]face{
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	}
	var d Data
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for _, f := range faces {
		base := uint32(len(d.Vertices))
		for _, c := range corners {
			p := f.n.Add(f.u.Mul(c[0])).Add(f.v.Mul(c[1])).Mul(h)
			d.Vertices = append(d.Vertices, Vertex{
				Position: p,
				Normal:   f.n,
				UV:       mgl32.Vec2{(c[0] + 1) * 0.5, 1 - (c[1]+1)*0.5},
				Color:    white,
			})
		}
		d.Indices = append(d.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	ComputeTangents(d.Vertices, d.Indices)
	return d
}

// Sphere returns a UV sphere of the given radius.
func Sphere(radius float32, stacks, slices int) Data {
	if stacks < 2 {
		stacks = 2
	}
	if slices < 3 {
		slices = 3
	}
	var d Data
	for i := 0; i <= stacks; i++ {
		v := float32(i) / float32(stacks)
		phi := v * math32.Pi
		for j := 0; j <= slices; j++ {
			u := float32(j) / float32(slices)
			theta := u * 2 * math32.Pi
			n := mgl32.Vec3{
				math32.Sin(phi) * math32.Cos(theta),
				math32.Cos(phi),
				math32.Sin(phi) * math32.Sin(theta),
			}
			d.Vertices = append(d.Vertices, Vertex{
				Position: n.Mul(radius),
				Normal:   n,
				UV:       mgl32.Vec2{u, v},
				Color:    white,
			})
		}
	}
	ring := uint32(slices + 1)
	for i := uint32(0); i < uint32(stacks); i++ {
		for j := uint32(0); j < uint32(slices); j++ {
			a := i*ring + j
			b := a + ring
			d.Indices = append(d.Indices, a, a+1, b, a+1, b+1, b)
		}
	}
	ComputeTangents(d.Vertices, d.Indices)
	return d
}

// Plane returns a horizontal XZ plane facing +Y, with UVs repeating tiles times.
func Plane(size, tiles float32) Data {
	h := size * 0.5
	n := mgl32.Vec3{0, 1, 0}
	d := Data{
		Vertices: []Vertex{
			{Position: mgl32.Vec3{-h, 0, -h}, Normal: n, UV: mgl32.Vec2{0, 0}, Color: white},
			{Position: mgl32.Vec3{h, 0, -h}, Normal: n, UV: mgl32.Vec2{tiles, 0}, Color: white},
			{Position: mgl32.Vec3{h, 0, h}, Normal: n, UV: mgl32.Vec2{tiles, tiles}, Color: white},
			{Position: mgl32.Vec3{-h, 0, h}, Normal: n, UV: mgl32.Vec2{0, tiles}, Color: white},
		},
		Indices: []uint32{0, 2, 1, 0, 3, 2},
	}
	ComputeTangents(d.Vertices, d.Indices)
	return d
}

// Quad returns a unit quad in the XY plane facing +Z.
func Quad() Data {
	n := mgl32.Vec3{0, 0, 1}
	d := Data{
		Vertices: []Vertex{
			{Position: mgl32.Vec3{-0.5, -0.5, 0}, Normal: n, UV: mgl32.Vec2{0, 1}, Color: white},
			{Position: mgl32.Vec3{0.5, -0.5, 0}, Normal: n, UV: mgl32.Vec2{1, 1}, Color: white},
			{Position: mgl32.Vec3{0.5, 0.5, 0}, Normal: n, UV: mgl32.Vec2{1, 0}, Color: white},
			{Position: mgl32.Vec3{-0.5, 0.5, 0}, Normal: n, UV: mgl32.Vec2{0, 0}, Color: white},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
	ComputeTangents(d.Vertices, d.Indices)
	return d
}

// FullscreenTriangle covers clip space with one oversized triangle; the
// post-process vertex shader passes positions through untransformed.
func FullscreenTriangle() Data {
	return Data{
		Vertices: []Vertex{
			{Position: mgl32.Vec3{-1, -1, 0}, UV: mgl32.Vec2{0, 0}, Color: white},
			{Position: mgl32.Vec3{3, -1, 0}, UV: mgl32.Vec2{2, 0}, Color: white},
			{Position: mgl32.Vec3{-1, 3, 0}, UV: mgl32.Vec2{0, 2}, Color: white},
		},
		Indices: []uint32{0, 1, 2},
	}
}
