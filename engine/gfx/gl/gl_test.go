package glbackend

import (
	"testing"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/hubastard/grove3d/engine/core"
	"github.com/stretchr/testify/assert"
)

// These helpers never touch the GL context, so they run without a window.

func TestTerminated(t *testing.T) {
	assert.Equal(t, "void main(){}\x00", terminated("void main(){}"))
	assert.Equal(t, "x\x00", terminated("x\x00"))
}

func TestFilterEnums(t *testing.T) {
	mn, mg := filterEnums("mipmap", "nearest")
	assert.Equal(t, int32(gl.LINEAR_MIPMAP_LINEAR), mn)
	assert.Equal(t, int32(gl.NEAREST), mg)

	mn, mg = filterEnums("", "")
	assert.Equal(t, int32(gl.LINEAR), mn)
	assert.Equal(t, int32(gl.LINEAR), mg)
}

func TestWrapEnum(t *testing.T) {
	assert.Equal(t, int32(gl.REPEAT), wrapEnum("repeat"))
	assert.Equal(t, int32(gl.CLAMP_TO_BORDER), wrapEnum("border"))
	assert.Equal(t, int32(gl.MIRRORED_REPEAT), wrapEnum("mirror"))
	assert.Equal(t, int32(gl.CLAMP_TO_EDGE), wrapEnum("clamp"))
	assert.Equal(t, int32(gl.CLAMP_TO_EDGE), wrapEnum(""))
}

func TestFormatEnums(t *testing.T) {
	_, _, typ, bpp := formatEnums(core.TextureRGBA8)
	assert.Equal(t, uint32(gl.UNSIGNED_BYTE), typ)
	assert.Equal(t, 4, bpp)

	internal, _, _, bpp := formatEnums(core.TextureRGBA16F)
	assert.Equal(t, int32(gl.RGBA16F), internal)
	assert.Equal(t, 16, bpp)

	internal, format, _, _ := formatEnums(core.TextureDepth24)
	assert.Equal(t, int32(gl.DEPTH_COMPONENT24), internal)
	assert.Equal(t, uint32(gl.DEPTH_COMPONENT), format)
}

func TestMeshCountsAreHandles(t *testing.T) {
	var m core.Mesh = &mesh{vcount: 4, icount: 6}
	assert.Equal(t, 4, m.VertexCount())
	assert.Equal(t, 6, m.IndexCount())

	rt := &renderTarget{w: 8, h: 4}
	assert.Nil(t, rt.Color())
	assert.Nil(t, rt.Depth())
	w, h := rt.Size()
	assert.Equal(t, [2]int{8, 4}, [2]int{w, h})
}
