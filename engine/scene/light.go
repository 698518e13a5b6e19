package scene

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/grove3d/engine/gfx/cbuffer"
)

type LightType int32

const (
	LightDirectional LightType = 0
	LightPoint       LightType = 1
	LightSpot        LightType = 2
)

func (t LightType) String() string {
	switch t {
	case LightDirectional:
		return "directional"
	case LightPoint:
		return "point"
	case LightSpot:
		return "spot"
	}
	return fmt.Sprintf("LightType(%d)", int32(t))
}

// ParseLightType accepts the names String returns.
func ParseLightType(s string) (LightType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "directional", "dir":
		return LightDirectional, nil
	case "point":
		return LightPoint, nil
	case "spot":
		return LightSpot, nil
	}
	return 0, fmt.Errorf("unknown light type %q", s)
}

type Light struct {
	Type      LightType
	Direction mgl32.Vec3
	Position  mgl32.Vec3
	Color     mgl32.Vec3
	Intensity float32
	Range     float32
	SpotInner float32 // radians
	SpotOuter float32 // radians

	CastShadow bool
	Disabled   bool
}

func Directional(dir, color mgl32.Vec3, intensity float32) Light {
	return Light{Type: LightDirectional, Direction: dir, Color: color, Intensity: intensity}
}

func Point(pos, color mgl32.Vec3, intensity, rng float32) Light {
	return Light{Type: LightPoint, Position: pos, Color: color, Intensity: intensity, Range: rng}
}

func Spot(pos, dir, color mgl32.Vec3, intensity, rng, inner, outer float32) Light {
	return Light{
		Type: LightSpot, Position: pos, Direction: dir, Color: color,
		Intensity: intensity, Range: rng, SpotInner: inner, SpotOuter: outer,
	}
}

// Data converts the light to its shader layout. The direction is normalized.
func (l Light) Data() cbuffer.LightData {
	dir := l.Direction
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}
	return cbuffer.LightData{
		Type:      int32(l.Type),
		Direction: dir,
		Range:     l.Range,
		Position:  l.Position,
		Intensity: l.Intensity,
		Color:     l.Color,
		SpotInner: l.SpotInner,
		SpotOuter: l.SpotOuter,
	}
}
