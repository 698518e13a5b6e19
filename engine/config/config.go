// Package config loads the sandbox settings from TOML on top of built-in defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/hubastard/grove3d/engine/core"
	"github.com/pelletier/go-toml/v2"
)

type Window struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	VSync  bool   `toml:"vsync"`
}

type Render struct {
	Background    [4]float32 `toml:"background"`
	Ambient       [3]float32 `toml:"ambient"`
	TickRate      int        `toml:"tick_rate"`
	ShadowMapSize int        `toml:"shadow_map_size"`
	ShadowExtent  float32    `toml:"shadow_extent"`
	ShadowBias    float32    `toml:"shadow_bias"`
	PostProcess   bool       `toml:"post_process"`
	BlurRadius    int        `toml:"blur_radius"`
	Wireframe     bool       `toml:"wireframe"`
	AssetRoot     string     `toml:"asset_root"`
	HotReload     bool       `toml:"hot_reload"`
}

type Camera struct {
	Position   [3]float32 `toml:"position"`
	FOV        float32    `toml:"fov"` // radians
	Near       float32    `toml:"near"`
	Far        float32    `toml:"far"`
	MoveSpeed  float32    `toml:"move_speed"`
	MouseSpeed float32    `toml:"mouse_speed"`
	Ortho      bool       `toml:"ortho"`
	OrthoWidth float32    `toml:"ortho_width"`
}

type Light struct {
	Type       string     `toml:"type"` // directional | point | spot
	Direction  [3]float32 `toml:"direction"`
	Position   [3]float32 `toml:"position"`
	Color      [3]float32 `toml:"color"`
	Intensity  float32    `toml:"intensity"`
	Range      float32    `toml:"range"`
	SpotInner  float32    `toml:"spot_inner"` // radians
	SpotOuter  float32    `toml:"spot_outer"` // radians
	CastShadow bool       `toml:"cast_shadow"`
}

type Log struct {
	Level string `toml:"level"`
}

// Config is the whole sandbox configuration.
type Config struct {
	Window  Window   `toml:"window"`
	Render  Render   `toml:"render"`
	Cameras []Camera `toml:"cameras"`
	Lights  []Light  `toml:"lights"`
	Log     Log      `toml:"log"`
}

var (
	ErrInvalid      = errors.New("invalid config")
	ErrUnknownLight = errors.New("unknown light type")
)

// Default returns the settings the sandbox starts with when no file is given.
func Default() Config {
	return Config{
		Window: Window{Title: "Grove 3D Sandbox", Width: 1280, Height: 720, VSync: true},
		Render: Render{
			Background:    [4]float32{0.4, 0.6, 0.75, 0},
			Ambient:       [3]float32{0.1, 0.1, 0.25},
			TickRate:      60,
			ShadowMapSize: 2048,
			ShadowExtent:  20,
			ShadowBias:    0.005,
			PostProcess:   true,
			BlurRadius:    0,
			AssetRoot:     "assets",
		},
		Cameras: []Camera{
			{Position: [3]float32{0, 0, -5}, FOV: math.Pi / 4, Near: 0.01, Far: 1000, MoveSpeed: 5, MouseSpeed: 0.01},
			{Position: [3]float32{5, 0, -5}, FOV: math.Pi / 2, Near: 0.01, Far: 1000, MoveSpeed: 5, MouseSpeed: 0.01},
			{Position: [3]float32{-2, 0, -7}, FOV: 1, Near: 0.01, Far: 1000, MoveSpeed: 5, MouseSpeed: 0.01},
		},
		Lights: []Light{
			{Type: "directional", Direction: [3]float32{1, -1, 1}, Color: [3]float32{1, 1, 1}, Intensity: 1, CastShadow: true},
			{Type: "directional", Direction: [3]float32{-1, -0.25, 0}, Color: [3]float32{1, 0.2, 0.2}, Intensity: 0.5},
			{Type: "point", Position: [3]float32{-3, 2, 0}, Color: [3]float32{0.2, 1, 0.2}, Intensity: 1, Range: 10},
			{Type: "point", Position: [3]float32{3, -1, 1}, Color: [3]float32{1, 1, 1}, Intensity: 0.75, Range: 8},
			{Type: "spot", Position: [3]float32{0, 4, -2}, Direction: [3]float32{0, -1, 0.3}, Color: [3]float32{0.3, 0.3, 1}, Intensity: 2, Range: 15, SpotInner: 0.3, SpotOuter: 0.5},
		},
		Log: Log{Level: "notice"},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config %q: %w", path, err)
	}
	defer f.Close()
	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// Decode reads TOML from r over the defaults. Unknown keys are rejected.
// Arrays (cameras, lights) replace the defaults wholesale when present.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	defCameras, defLights := cfg.Cameras, cfg.Lights
	cfg.Cameras, cfg.Lights = nil, nil

	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("%w: %s", ErrInvalid, strict.String())
		}
		return Config{}, err
	}
	if cfg.Cameras == nil {
		cfg.Cameras = defCameras
	}
	if cfg.Lights == nil {
		cfg.Lights = defLights
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg Config) error {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Render.TickRate <= 0:
		return fmt.Errorf("%w: tick_rate %d", ErrInvalid, c.Render.TickRate)
	case c.Render.ShadowMapSize <= 0:
		return fmt.Errorf("%w: shadow_map_size %d", ErrInvalid, c.Render.ShadowMapSize)
	case c.Render.BlurRadius < 0:
		return fmt.Errorf("%w: blur_radius %d", ErrInvalid, c.Render.BlurRadius)
	case len(c.Cameras) == 0:
		return fmt.Errorf("%w: at least one camera is required", ErrInvalid)
	}
	for i, cam := range c.Cameras {
		if cam.Near <= 0 || cam.Near >= cam.Far {
			return fmt.Errorf("%w: camera %d clip planes near=%v far=%v", ErrInvalid, i, cam.Near, cam.Far)
		}
		if !cam.Ortho && (cam.FOV <= 0 || cam.FOV >= math.Pi) {
			return fmt.Errorf("%w: camera %d fov %v", ErrInvalid, i, cam.FOV)
		}
	}
	for i, l := range c.Lights {
		switch l.Type {
		case "directional", "point", "spot":
		default:
			return fmt.Errorf("light %d %q: %w", i, l.Type, ErrUnknownLight)
		}
		if l.Type == "spot" && l.SpotInner > l.SpotOuter {
			return fmt.Errorf("%w: light %d spot inner angle exceeds outer", ErrInvalid, i)
		}
	}
	return nil
}

// Engine converts the window and loop settings to a core.Config.
func (c Config) Engine() core.Config {
	return core.Config{
		Title:      c.Window.Title,
		Width:      c.Window.Width,
		Height:     c.Window.Height,
		VSync:      c.Window.VSync,
		ClearColor: c.Render.Background,
		TickRate:   c.Render.TickRate,
	}
}
