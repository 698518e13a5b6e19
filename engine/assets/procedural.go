package assets

import (
	"github.com/chewxy/math32"
	"github.com/hubastard/grove3d/engine/colors"
	"github.com/hubastard/grove3d/engine/core"
)

// Checker is a size x size checkerboard with cell-pixel squares.
func Checker(size, cell int, a, b colors.Color) core.Image {
	if cell < 1 {
		cell = 1
	}
	ca, cb := a.RGBA8(), b.RGBA8()
	pix := make([]byte, size*size*4)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := ca
			if (x/cell+y/cell)%2 == 1 {
				c = cb
			}
			copy(pix[(y*size+x)*4:], c[:])
		}
	}
	return core.Image{Width: size, Height: size, Pixels: pix}
}

// FlatNormal is a 1x1 normal map pointing straight out of the surface.
func FlatNormal() core.Image {
	return core.Image{Width: 1, Height: 1, Pixels: []byte{128, 128, 255, 255}}
}

// faceDir is the direction through texel (s, t) of cube face i, with s and
// t in [-1, 1] and t growing downwards.
func faceDir(i int, s, t float32) (x, y, z float32) {
	switch i {
	case 0:
		return 1, -t, -s
	case 1:
		return -1, -t, s
	case 2:
		return s, 1, t
	case 3:
		return s, -1, -t
	case 4:
		return s, -t, 1
	default:
		return -s, -t, -1
	}
}

// SkyGradient builds cubemap faces that blend from bottom through horizon
// to top by the elevation of each texel's direction.
func SkyGradient(size int, top, horizon, bottom colors.Color) core.CubemapDesc {
	var d core.CubemapDesc
	for i := range d.Faces {
		pix := make([]byte, size*size*4)
		for py := 0; py < size; py++ {
			for px := 0; px < size; px++ {
				s := 2*(float32(px)+0.5)/float32(size) - 1
				t := 2*(float32(py)+0.5)/float32(size) - 1
				x, y, z := faceDir(i, s, t)
				e := y / math32.Sqrt(x*x+y*y+z*z)
				var c colors.Color
				if e >= 0 {
					c = horizon.Lerp(top, e)
				} else {
					c = horizon.Lerp(bottom, -e)
				}
				rgba := c.RGBA8()
				copy(pix[(py*size+px)*4:], rgba[:])
			}
		}
		d.Faces[i] = core.Image{Width: size, Height: size, Pixels: pix}
	}
	return d
}
