package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Cameras, 3)
	assert.Equal(t, [4]float32{0.4, 0.6, 0.75, 0}, cfg.Render.Background)

	ec := cfg.Engine()
	assert.Equal(t, 1280, ec.Width)
	assert.Equal(t, cfg.Render.Background, ec.ClearColor)
	assert.Equal(t, 60, ec.TickRate)
}

func TestDecodeOverlaysDefaults(t *testing.T) {
	src := `
[window]
width = 800
height = 600

[render]
post_process = false
blur_radius = 3

[[lights]]
type = "point"
position = [1.0, 2.0, 3.0]
color = [1.0, 1.0, 1.0]
intensity = 2.0
range = 5.0
`
	cfg, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, "Grove 3D Sandbox", cfg.Window.Title, "unset keys keep defaults")
	assert.False(t, cfg.Render.PostProcess)
	assert.Equal(t, 3, cfg.Render.BlurRadius)
	require.Len(t, cfg.Lights, 1)
	assert.Equal(t, [3]float32{1, 2, 3}, cfg.Lights[0].Position)
	assert.Len(t, cfg.Cameras, 3)
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := Decode(strings.NewReader("[window]\nwidht = 3\n"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"zero width":     func(c *Config) { c.Window.Width = 0 },
		"negative tick":  func(c *Config) { c.Render.TickRate = -1 },
		"zero tick":      func(c *Config) { c.Render.TickRate = 0 },
		"no shadow size": func(c *Config) { c.Render.ShadowMapSize = 0 },
		"near past far":  func(c *Config) { c.Cameras[0].Near = 2000 },
		"flat fov":       func(c *Config) { c.Cameras[1].FOV = 0 },
		"no cameras":     func(c *Config) { c.Cameras = nil },
		"spot inverted":  func(c *Config) { c.Lights[4].SpotInner = 1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}

	cfg := Default()
	cfg.Lights[0].Type = "area"
	assert.ErrorIs(t, cfg.Validate(), ErrUnknownLight)
}

func TestEncodeRoundTripsThroughLoad(t *testing.T) {
	cfg := Default()
	cfg.Window.Width = 1024
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, cfg))

	path := filepath.Join(t.TempDir(), "sandbox.toml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
