package glbackend

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/grove3d/engine/core"
)

type pipeline struct {
	desc core.PipelineDesc
	prog uint32
	locs map[string]int32
	// warned remembers uniforms whose value type could not be set.
	warned map[string]bool
}

func (p *pipeline) Desc() core.PipelineDesc { return p.desc }

func newPipeline(desc core.PipelineDesc) (*pipeline, error) {
	prog, err := makeProgram(desc.VertexSource, desc.FragmentSource)
	if err != nil {
		return nil, fmt.Errorf("pipeline %q: %w", desc.Name, err)
	}
	p := &pipeline{desc: desc, prog: prog}
	p.bind()
	return p, nil
}

// bind resets the location cache and attaches the uniform blocks to their slots.
func (p *pipeline) bind() {
	p.locs = make(map[string]int32)
	p.warned = make(map[string]bool)
	for name, slot := range p.desc.Blocks {
		idx := gl.GetUniformBlockIndex(p.prog, gl.Str(name+"\x00"))
		if idx == gl.INVALID_INDEX {
			// The compiler drops blocks the shader never reads.
			logger.Debugf("pipeline %q: block %s not active", p.desc.Name, name)
			continue
		}
		gl.UniformBlockBinding(p.prog, idx, slot)
	}
}

func (p *pipeline) loc(name string) int32 {
	if l, ok := p.locs[name]; ok {
		return l
	}
	l := gl.GetUniformLocation(p.prog, gl.Str(name+"\x00"))
	p.locs[name] = l
	return l
}

func (p *pipeline) setUniform(name string, v any) {
	l := p.loc(name)
	if l < 0 {
		return
	}
	switch u := v.(type) {
	case float32:
		gl.Uniform1f(l, u)
	case float64:
		gl.Uniform1f(l, float32(u))
	case int:
		gl.Uniform1i(l, int32(u))
	case int32:
		gl.Uniform1i(l, u)
	case bool:
		var i int32
		if u {
			i = 1
		}
		gl.Uniform1i(l, i)
	case mgl32.Vec2:
		gl.Uniform2f(l, u[0], u[1])
	case [2]float32:
		gl.Uniform2f(l, u[0], u[1])
	case mgl32.Vec3:
		gl.Uniform3f(l, u[0], u[1], u[2])
	case [3]float32:
		gl.Uniform3f(l, u[0], u[1], u[2])
	case mgl32.Vec4:
		gl.Uniform4f(l, u[0], u[1], u[2], u[3])
	case [4]float32:
		gl.Uniform4f(l, u[0], u[1], u[2], u[3])
	case mgl32.Mat3:
		gl.UniformMatrix3fv(l, 1, false, &u[0])
	case mgl32.Mat4:
		gl.UniformMatrix4fv(l, 1, false, &u[0])
	case [16]float32:
		gl.UniformMatrix4fv(l, 1, false, &u[0])
	case []float32:
		if len(u) > 0 {
			gl.Uniform1fv(l, int32(len(u)), &u[0])
		}
	default:
		if !p.warned[name] {
			p.warned[name] = true
			logger.Warningf("pipeline %q: uniform %s has unsupported type %T", p.desc.Name, name, v)
		}
	}
}

func terminated(src string) string {
	if strings.HasSuffix(src, "\x00") {
		return src
	}
	return src + "\x00"
}

func makeShader(src string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(terminated(src))
	defer free()
	gl.ShaderSource(sh, 1, csrc, nil)
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen)+1)
		gl.GetShaderInfoLog(sh, logLen, nil, gl.Str(log))
		gl.DeleteShader(sh)
		kind := "vertex"
		if shaderType == gl.FRAGMENT_SHADER {
			kind = "fragment"
		}
		return 0, fmt.Errorf("%s shader compile error: %s", kind, strings.TrimRight(log, "\x00\n"))
	}
	return sh, nil
}

func makeProgram(vsSrc, fsSrc string) (uint32, error) {
	vs, err := makeShader(vsSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := makeShader(fsSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}
	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen)+1)
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("program link error: %s", strings.TrimRight(log, "\x00\n"))
	}
	return prog, nil
}
