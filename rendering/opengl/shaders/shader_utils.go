package shaders

import (
	"fmt"
	"log"
	"strings"

	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// compileShader compiles a single shader
func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		if logLength == 0 {
			// Some drivers report failure without an info log.
			return 0, fmt.Errorf("shader compile failed with no info log")
		}
		infoLog := make([]byte, logLength)
		gl.GetShaderInfoLog(shader, logLength, nil, &infoLog[0])
		return 0, fmt.Errorf("%s", infoLog)
	}

	return shader, nil
}

// linkProgram links vertex and fragment shaders into a program
func linkProgram(vertShader, fragShader uint32) (uint32, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		if logLength == 0 {
			return 0, fmt.Errorf("program link failed with no info log")
		}
		infoLog := make([]byte, logLength)
		gl.GetProgramInfoLog(program, logLength, nil, &infoLog[0])
		return 0, fmt.Errorf("link failed: %s", infoLog)
	}

	gl.DetachShader(program, vertShader)
	gl.DetachShader(program, fragShader)

	return program, nil
}

// uniformInfo caches what GL reports about one active uniform.
type uniformInfo struct {
	location int32
	count    int32
}

// Program wraps a linked shader program together with a map of its
// active uniforms, built once at link time. Querying locations every
// frame (or parsing the source for them) is needless round-tripping;
// GL already knows the answer.
type Program struct {
	id       uint32
	uniforms map[string]uniformInfo
}

// NewProgram compiles and links a vertex/fragment pair and introspects
// its active uniforms.
func NewProgram(vertexSource, fragmentSource string) (*Program, error) {
	vertShader, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return nil, fmt.Errorf("vertex shader error: %v", err)
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, fmt.Errorf("fragment shader error: %v", err)
	}
	defer gl.DeleteShader(fragShader)

	id, err := linkProgram(vertShader, fragShader)
	if err != nil {
		return nil, err
	}

	return &Program{id: id, uniforms: buildUniformMap(id)}, nil
}

// buildUniformMap queries every active uniform of a linked program and
// records its location and array count.
func buildUniformMap(program uint32) map[string]uniformInfo {
	uniforms := make(map[string]uniformInfo)

	var uniformCount int32
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORMS, &uniformCount)
	if uniformCount == 0 {
		log.Printf("program %d reports no active uniforms", program)
		return uniforms
	}

	var maxNameLen int32
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORM_MAX_LENGTH, &maxNameLen)

	nameBuf := make([]byte, maxNameLen+1)
	for i := int32(0); i < uniformCount; i++ {
		var length, count int32
		var xtype uint32
		gl.GetActiveUniform(program, uint32(i), maxNameLen, &length, &count, &xtype, &nameBuf[0])

		name := string(nameBuf[:length])
		// Array uniforms are reported as "name[0]"
		name = strings.TrimSuffix(name, "[0]")
		location := gl.GetUniformLocation(program, gl.Str(name+"\x00"))
		uniforms[name] = uniformInfo{location: location, count: count}
	}

	return uniforms
}

// ID returns the GL program object name.
func (p *Program) ID() uint32 {
	return p.id
}

// Use binds the program for subsequent draws.
func (p *Program) Use() {
	gl.UseProgram(p.id)
}

// Delete releases the program object.
func (p *Program) Delete() {
	gl.DeleteProgram(p.id)
}

func (p *Program) location(name string) (int32, bool) {
	info, ok := p.uniforms[name]
	if !ok {
		log.Printf("uniform %q does not exist in program %d", name, p.id)
		return -1, false
	}
	return info.location, true
}

// SetMat4 uploads a 4x4 matrix uniform in column-major order.
func (p *Program) SetMat4(name string, value mgl32.Mat4) {
	if loc, ok := p.location(name); ok {
		gl.ProgramUniformMatrix4fv(p.id, loc, 1, false, &value[0])
	}
}

// SetVec3 uploads a vec3 uniform.
func (p *Program) SetVec3(name string, value mgl32.Vec3) {
	if loc, ok := p.location(name); ok {
		gl.ProgramUniform3f(p.id, loc, value.X(), value.Y(), value.Z())
	}
}

// SetFloat uploads a float uniform.
func (p *Program) SetFloat(name string, value float32) {
	if loc, ok := p.location(name); ok {
		gl.ProgramUniform1f(p.id, loc, value)
	}
}

// SetInt uploads an int uniform.
func (p *Program) SetInt(name string, value int32) {
	if loc, ok := p.location(name); ok {
		gl.ProgramUniform1i(p.id, loc, value)
	}
}
