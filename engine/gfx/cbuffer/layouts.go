package cbuffer

import "github.com/go-gl/mathgl/mgl32"

// MaxLights is the fixed length of the light array in the Lights block.
const MaxLights = 8

// Block sizes in bytes.
const (
	ObjectSize   = 144
	FrameSize    = 240
	LightSize    = 64
	LightsSize   = LightSize * MaxLights
	MaterialSize = 64
	PostSize     = 32
)

// Block names shared with the GLSL sources.
const (
	ObjectBlock   = "PerObject"
	FrameBlock    = "PerFrame"
	LightsBlock   = "Lights"
	MaterialBlock = "MaterialParams"
	PostBlock     = "PostParams"
)

// ObjectData is the per-draw block.
//
//	layout(std140) uniform PerObject {
//	    vec4 colorTint;
//	    mat4 world;
//	    mat4 worldInvTranspose;
//	};
type ObjectData struct {
	Tint              mgl32.Vec4
	World             mgl32.Mat4
	WorldInvTranspose mgl32.Mat4
}

func (d ObjectData) Pack(w *Writer) []byte {
	w.Reset()
	w.Vec4(d.Tint).Mat4(d.World).Mat4(d.WorldInvTranspose)
	return w.Bytes()
}

// FrameData is uploaded once per pass.
//
//	layout(std140) uniform PerFrame {
//	    mat4 view;
//	    mat4 projection;
//	    mat4 lightViewProj;
//	    vec3 cameraPosition; float totalTime;
//	    vec3 ambientColor;   int   lightCount;
//	    float shadowBias;    int   shadowsEnabled;
//	    int   shadowLight;   int   shadowPCF;
//	};
type FrameData struct {
	View           mgl32.Mat4
	Projection     mgl32.Mat4
	LightViewProj  mgl32.Mat4
	CameraPosition mgl32.Vec3
	TotalTime      float32
	Ambient        mgl32.Vec3
	LightCount     int32
	ShadowBias     float32
	ShadowsEnabled bool
	// ShadowLight indexes the Lights block; -1 when no light receives the
	// shadow map.
	ShadowLight int32
	ShadowPCF   bool
}

func (d FrameData) Pack(w *Writer) []byte {
	w.Reset()
	w.Mat4(d.View).Mat4(d.Projection).Mat4(d.LightViewProj)
	w.Vec3(d.CameraPosition).Float(d.TotalTime)
	w.Vec3(d.Ambient).Int(d.LightCount)
	w.Float(d.ShadowBias).Bool(d.ShadowsEnabled)
	w.Int(d.ShadowLight).Bool(d.ShadowPCF)
	return w.Bytes()
}

// LightData is one element of the Lights block. Members are ordered so every
// vec3 shares its register with a scalar.
//
//	struct Light {
//	    vec3 direction; int   type;
//	    vec3 position;  float range;
//	    vec3 color;     float intensity;
//	    float spotInner; float spotOuter; vec2 pad;
//	};
type LightData struct {
	Type      int32
	Direction mgl32.Vec3
	Range     float32
	Position  mgl32.Vec3
	Intensity float32
	Color     mgl32.Vec3
	SpotInner float32
	SpotOuter float32
}

func (l LightData) pack(w *Writer) {
	w.Vec3(l.Direction).Int(l.Type)
	w.Vec3(l.Position).Float(l.Range)
	w.Vec3(l.Color).Float(l.Intensity)
	w.Float(l.SpotInner).Float(l.SpotOuter)
	w.Align(16)
}

// PackLights writes up to MaxLights lights and zero-fills the remaining
// slots. It returns the packed block and the number of lights written.
func PackLights(w *Writer, lights []LightData) ([]byte, int) {
	w.Reset()
	n := len(lights)
	if n > MaxLights {
		n = MaxLights
	}
	for i := 0; i < n; i++ {
		lights[i].pack(w)
	}
	w.Pad(LightsSize - w.Len())
	return w.Bytes(), n
}

// MaterialData is the per-material block read by the pixel stage.
//
//	layout(std140) uniform MaterialParams {
//	    vec4 colorTint;
//	    vec2 uvScale; vec2 uvOffset;
//	    float distortionStrength; float time; float roughness; int hasAlbedo;
//	    int hasNormalMap;
//	};
type MaterialData struct {
	Tint               mgl32.Vec4
	UVScale            mgl32.Vec2
	UVOffset           mgl32.Vec2
	DistortionStrength float32
	Time               float32
	Roughness          float32
	HasAlbedo          bool
	HasNormalMap       bool
}

func (d MaterialData) Pack(w *Writer) []byte {
	w.Reset()
	w.Vec4(d.Tint).Vec2(d.UVScale).Vec2(d.UVOffset)
	w.Float(d.DistortionStrength).Float(d.Time).Float(d.Roughness).Bool(d.HasAlbedo)
	w.Bool(d.HasNormalMap)
	return w.Bytes()
}

// PostData is shared by every post-process effect. Params carries the
// effect-specific values.
//
//	layout(std140) uniform PostParams {
//	    vec2 texelSize; float time; int radius;
//	    vec4 params;
//	};
type PostData struct {
	TexelSize mgl32.Vec2
	Time      float32
	Radius    int32
	Params    mgl32.Vec4
}

func (d PostData) Pack(w *Writer) []byte {
	w.Reset()
	w.Vec2(d.TexelSize).Float(d.Time).Int(d.Radius)
	w.Vec4(d.Params)
	return w.Bytes()
}
