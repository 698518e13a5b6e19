package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/hubastard/grove3d/engine/config"
	"github.com/hubastard/grove3d/engine/core"
	glbackend "github.com/hubastard/grove3d/engine/gfx/gl"
	"github.com/hubastard/grove3d/engine/log"
	"github.com/hubastard/grove3d/engine/platform"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

var logger = log.New("sandbox")

// setupLogging applies the config level, then lets -v and -vv raise it.
func setupLogging(ctx *cli.Context, cfg config.Config) {
	if lvl, err := log.ParseLevel(cfg.Log.Level); err != nil {
		logger.Warning(err)
	} else {
		log.SetLevel(lvl)
	}

	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}

// loadConfig reads --config over the defaults and applies the run flags.
func loadConfig(ctx *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := ctx.GlobalString("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return config.Config{}, err
		}
	}
	if w := ctx.Int("width"); w > 0 {
		cfg.Window.Width = w
	}
	if h := ctx.Int("height"); h > 0 {
		cfg.Window.Height = h
	}
	switch {
	case ctx.Bool("vsync") && ctx.Bool("no-vsync"):
		return config.Config{}, errors.New("--vsync and --no-vsync are exclusive")
	case ctx.Bool("vsync"):
		cfg.Window.VSync = true
	case ctx.Bool("no-vsync"):
		cfg.Window.VSync = false
	}
	if ctx.Bool("no-post") {
		cfg.Render.PostProcess = false
	}
	return cfg, cfg.Validate()
}

func newRenderer(win core.Window, cfg core.Config) (core.Renderer, error) {
	r, err := glbackend.NewRendererGL(win, cfg)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// RunSandbox opens the window and runs the demo scene.
func RunSandbox(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	setupLogging(ctx, cfg)

	var win *platform.GLFWWindow
	newWindow := func(c core.Config) (core.Window, error) {
		w, err := platform.NewGLFWWindow(c)
		if err != nil {
			return nil, err
		}
		win = w
		return w, nil
	}
	defer func() {
		if win != nil {
			win.Destroy()
		}
	}()

	logger.Noticef("starting %dx%d", cfg.Window.Width, cfg.Window.Height)
	return core.Run(NewApp(cfg), cfg.Engine(), newWindow, newRenderer)
}

// ShowInfo prints the resolved settings, cameras and lights as tables.
func ShowInfo(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	setupLogging(ctx, cfg)
	writeInfo(os.Stdout, cfg)
	return nil
}

func writeInfo(w io.Writer, cfg config.Config) {
	f3 := func(v [3]float32) string { return fmt.Sprintf("%.2f, %.2f, %.2f", v[0], v[1], v[2]) }
	f := func(v float32) string { return strconv.FormatFloat(float64(v), 'f', 3, 32) }

	table := tablewriter.NewWriter(w)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Setting", "Value"})
	table.Append([]string{"Window", fmt.Sprintf("%q %dx%d vsync=%t", cfg.Window.Title, cfg.Window.Width, cfg.Window.Height, cfg.Window.VSync)})
	table.Append([]string{"Tick rate", strconv.Itoa(cfg.Render.TickRate)})
	table.Append([]string{"Background", fmt.Sprintf("%v", cfg.Render.Background)})
	table.Append([]string{"Ambient", f3(cfg.Render.Ambient)})
	table.Append([]string{"Shadow map", fmt.Sprintf("%d px, extent %s, bias %s", cfg.Render.ShadowMapSize, f(cfg.Render.ShadowExtent), f(cfg.Render.ShadowBias))})
	table.Append([]string{"Post process", fmt.Sprintf("%t (blur radius %d)", cfg.Render.PostProcess, cfg.Render.BlurRadius)})
	table.Append([]string{"Asset root", cfg.Render.AssetRoot})
	table.Append([]string{"Hot reload", strconv.FormatBool(cfg.Render.HotReload)})
	table.Append([]string{"Log level", cfg.Log.Level})
	table.Render()

	fmt.Fprintln(w)
	cams := tablewriter.NewWriter(w)
	cams.SetAutoFormatHeaders(false)
	cams.SetHeader([]string{"#", "Position", "Projection", "Near", "Far", "Speed"})
	for i, c := range cfg.Cameras {
		proj := "perspective fov " + f(c.FOV)
		if c.Ortho {
			proj = "ortho width " + f(c.OrthoWidth)
		}
		cams.Append([]string{strconv.Itoa(i + 1), f3(c.Position), proj, f(c.Near), f(c.Far), f(c.MoveSpeed)})
	}
	cams.Render()

	fmt.Fprintln(w)
	lights := tablewriter.NewWriter(w)
	lights.SetAutoFormatHeaders(false)
	lights.SetHeader([]string{"#", "Type", "Position", "Direction", "Color", "Intensity", "Range", "Shadow"})
	for i, l := range cfg.Lights {
		lights.Append([]string{
			strconv.Itoa(i + 1), l.Type, f3(l.Position), f3(l.Direction), f3(l.Color),
			f(l.Intensity), f(l.Range), strconv.FormatBool(l.CastShadow),
		})
	}
	lights.Render()
}

// DumpConfig writes the resolved configuration to the file argument, or
// stdout without one.
func DumpConfig(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	setupLogging(ctx, cfg)

	path := ctx.Args().First()
	if path == "" {
		return config.Encode(os.Stdout, cfg)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dump config: %w", err)
	}
	if err := config.Encode(out, cfg); err != nil {
		out.Close()
		return fmt.Errorf("dump config: %w", err)
	}
	logger.Infof("wrote %s", path)
	return out.Close()
}
