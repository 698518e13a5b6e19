package assets

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/hubastard/grove3d/engine/core"
)

type program struct {
	pipe   core.Pipeline
	vs, fs string
}

// ShaderLibrary creates pipelines from shader files and reloads them when
// a watched file changes.
type ShaderLibrary struct {
	r        core.Renderer
	programs []*program
	watcher  *Watcher
}

func NewShaderLibrary(r core.Renderer) *ShaderLibrary {
	return &ShaderLibrary{r: r}
}

// Load reads vsFile and fsFile from Root/shaders into desc and creates the
// pipeline.
func (l *ShaderLibrary) Load(desc core.PipelineDesc, vsFile, fsFile string) (core.Pipeline, error) {
	vs, err := LoadShader(vsFile)
	if err != nil {
		return nil, err
	}
	fs, err := LoadShader(fsFile)
	if err != nil {
		return nil, err
	}
	desc.VertexSource, desc.FragmentSource = vs, fs
	if desc.Name == "" {
		desc.Name = vsFile + "+" + fsFile
	}
	pipe, err := l.r.CreatePipeline(desc)
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", desc.Name, err)
	}
	l.programs = append(l.programs, &program{pipe: pipe, vs: vsFile, fs: fsFile})
	return pipe, nil
}

// Watch starts watching the shader directory.
func (l *ShaderLibrary) Watch() error {
	if l.watcher != nil {
		return nil
	}
	w, err := NewWatcher(filepath.Join(Root, "shaders"))
	if err != nil {
		return fmt.Errorf("watch shaders: %w", err)
	}
	l.watcher = w
	return nil
}

// Reload recompiles every pipeline that uses file (a base name). A
// pipeline whose new source fails to compile keeps its old program.
func (l *ShaderLibrary) Reload(file string) (int, error) {
	var errs []error
	n := 0
	for _, p := range l.programs {
		if p.vs != file && p.fs != file {
			continue
		}
		vs, err := LoadShader(p.vs)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		fs, err := LoadShader(p.fs)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := l.r.ReloadPipeline(p.pipe, vs, fs); err != nil {
			errs = append(errs, fmt.Errorf("reload %s: %w", p.pipe.Desc().Name, err))
			continue
		}
		logger.Infof("reloaded %s", p.pipe.Desc().Name)
		n++
	}
	return n, errors.Join(errs...)
}

// ReloadChanged drains the watcher and reloads what changed. It does
// nothing when Watch was not called.
func (l *ShaderLibrary) ReloadChanged() error {
	if l.watcher == nil {
		return nil
	}
	var errs []error
	for _, path := range l.watcher.Changed() {
		if _, err := l.Reload(filepath.Base(path)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (l *ShaderLibrary) Close() error {
	if l.watcher == nil {
		return nil
	}
	err := l.watcher.Close()
	l.watcher = nil
	return err
}
