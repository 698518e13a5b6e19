package geometry

import "github.com/go-gl/mathgl/mgl32"

var (
	red    = mgl32.Vec4{1, 0, 0, 1}
	green  = mgl32.Vec4{0, 1, 0, 1}
	blue   = mgl32.Vec4{0, 0, 1, 1}
	purple = mgl32.Vec4{1, 0, 1, 1}
	orange = mgl32.Vec4{1, 0.6, 0, 1}
)

func flat(pos [][3]float32, cols []mgl32.Vec4, idx []uint32) Data {
	d := Data{Indices: idx}
	for i, p := range pos {
		d.Vertices = append(d.Vertices, Vertex{
			Position: mgl32.Vec3{p[0], p[1], p[2]},
			Normal:   mgl32.Vec3{0, 0, -1},
			Color:    cols[i],
		})
	}
	return d
}

// Square is the small vertex-coloured square of the first sandbox scene.
func Square() Data {
	return flat(
		[][3]float32{{0.25, 0.25, 0}, {0.25, -0.25, 0}, {-0.25, -0.25, 0}, {-0.25, 0.25, 0}},
		[]mgl32.Vec4{red, blue, green, blue},
		[]uint32{0, 1, 2, 3, 0, 2},
	)
}

// Diamond is the four-vertex kite on the right of the first sandbox scene.
func Diamond() Data {
	return flat(
		[][3]float32{{0.75, 0.75, 0}, {0.9, 0, 0}, {0.6, 0, 0}, {0.75, -0.75, 0}},
		[]mgl32.Vec4{red, orange, orange, purple},
		[]uint32{0, 1, 2, 2, 1, 3},
	)
}

// Triangle is the sliver on the left of the first sandbox scene.
func Triangle() Data {
	return flat(
		[][3]float32{{-0.7, 0.75, 0}, {-0.7, -0.2, 0}, {-0.9, -0.75, 0}},
		[]mgl32.Vec4{purple, orange, blue},
		[]uint32{0, 1, 2},
	)
}
