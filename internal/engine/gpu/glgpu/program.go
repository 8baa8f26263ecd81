package glgpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// compileProgram compiles vertex and fragment shaders and links them into a program.
func compileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", string(log))
	}

	return program, nil
}

// compileShader compiles a single shader of the given type.
func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, string(log))
	}

	return shader, nil
}

// bindingPoint maps (group, binding) to a uniform buffer binding point.
// Four bindings per group keep the points below GL_MAX_UNIFORM_BUFFER_BINDINGS.
func bindingPoint(group, binding uint32) uint32 {
	return group*4 + binding
}

// bindUniformBlock connects the named block to a binding point. Blocks the
// program does not use are skipped.
func bindUniformBlock(program uint32, name string, point uint32) bool {
	idx := gl.GetUniformBlockIndex(program, gl.Str(name+"\x00"))
	if idx == gl.INVALID_INDEX {
		return false
	}
	gl.UniformBlockBinding(program, idx, point)
	return true
}

// bindSamplerUnit points the named sampler uniform at texture unit.
func bindSamplerUnit(program uint32, name string, unit int32) bool {
	loc := gl.GetUniformLocation(program, gl.Str(name+"\x00"))
	if loc < 0 {
		return false
	}
	gl.UseProgram(program)
	gl.Uniform1i(loc, unit)
	gl.UseProgram(0)
	return true
}
