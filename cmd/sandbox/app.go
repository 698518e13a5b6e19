package main

import (
	"github.com/hubastard/grove3d/engine/assets"
	"github.com/hubastard/grove3d/engine/config"
	"github.com/hubastard/grove3d/engine/core"
	"github.com/hubastard/grove3d/engine/profiler"
)

// App owns the two sandbox layers. The scene layer renders the frame and
// calls the tuning layer to draw the panel on top.
type App struct {
	cfg    config.Config
	scene  *SceneLayer
	tuning *TuningLayer
}

func NewApp(cfg config.Config) *App {
	return &App{cfg: cfg}
}

func (a *App) OnStart(e *core.Engine) {
	profiler.Init(1 << 10) // ~1K scope samples

	if a.cfg.Render.AssetRoot != "" {
		assets.Root = a.cfg.Render.AssetRoot
	}

	a.scene = NewSceneLayer(a.cfg)
	a.tuning = NewTuningLayer(a.scene)
	a.scene.Overlay = a.tuning.Draw

	e.Layers.Push(a.scene)
	e.Layers.PushOverlay(a.tuning)
}

func (a *App) OnUpdate(e *core.Engine, dt float64)    {}
func (a *App) OnRender(e *core.Engine, alpha float64) {}
func (a *App) OnEvent(e *core.Engine, ev core.Event)  {}
func (a *App) OnShutdown(e *core.Engine) {
	if path, err := profiler.Dump(""); err != nil {
		logger.Warningf("profiler dump: %v", err)
	} else if path != "" {
		logger.Infof("speedscope dump: %s", path)
	}
}
