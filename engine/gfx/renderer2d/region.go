package renderer2d

import "github.com/hubastard/grove3d/engine/core"

// Region is a rectangle of a texture in UV space. V grows downwards, the
// way textures are uploaded.
type Region struct {
	Texture core.Texture
	U0, V0  float32
	U1, V1  float32
}

// Whole covers all of tex.
func Whole(tex core.Texture) Region {
	return Region{Texture: tex, U1: 1, V1: 1}
}

// FromPixels selects the w x h pixels at (x, y) of an atlasW x atlasH texture.
func FromPixels(tex core.Texture, x, y, w, h, atlasW, atlasH int) Region {
	fw, fh := float32(atlasW), float32(atlasH)
	return Region{
		Texture: tex,
		U0:      float32(x) / fw,
		V0:      float32(y) / fh,
		U1:      float32(x+w) / fw,
		V1:      float32(y+h) / fh,
	}
}

// Empty reports whether the region covers no texels.
func (g Region) Empty() bool { return g.U1 <= g.U0 || g.V1 <= g.V0 }

// slotTable assigns the textures of one batch to sampler slots. Slot 0
// always holds the white texture solid quads sample.
type slotTable struct {
	tex [maxTexSlots]core.Texture
	n   int
}

func (s *slotTable) reset(white core.Texture) {
	clear(s.tex[:])
	s.tex[0] = white
	s.n = 1
}

// find returns the slot of t, adding it when there is room.
func (s *slotTable) find(t core.Texture) (int, bool) {
	for i := 0; i < s.n; i++ {
		if s.tex[i] == t {
			return i, true
		}
	}
	if s.n == maxTexSlots {
		return 0, false
	}
	s.tex[s.n] = t
	s.n++
	return s.n - 1, true
}
