package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

const colorVertSrc = `#version 410 core
layout(location = 0) in vec3 aPos;
layout(location = 1) in vec4 aColor;
uniform mat4 uTransform;
out vec4 vColor;
void main() {
	vColor = aColor;
	gl_Position = uTransform * vec4(aPos, 1.0);
}`

const colorFragSrc = `#version 410 core
in vec4 vColor;
out vec4 fragColor;
void main() {
	if (vColor.a == 0.0) {
		discard;
	}
	fragColor = vColor;
}`

const texturedVertSrc = `#version 410 core
layout(location = 0) in vec3 aPos;
layout(location = 1) in vec2 aUV;
uniform mat4 uTransform;
out vec2 vUV;
void main() {
	vUV = aUV;
	gl_Position = uTransform * vec4(aPos, 1.0);
}`

// Texels with a clear alpha bit are transparent palette index 0.
const texturedFragSrc = `#version 410 core
in vec2 vUV;
uniform sampler2D uAtlas;
out vec4 fragColor;
void main() {
	vec4 c = texture(uAtlas, vUV);
	if (c.a == 0.0) {
		discard;
	}
	fragColor = c;
}`

// program is a linked shader program with its transform uniform.
type program struct {
	id        uint32
	transform int32
}

func newProgram(vertexSrc, fragmentSrc string) (*program, error) {
	id, err := compileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}
	return &program{id: id, transform: gl.GetUniformLocation(id, gl.Str("uTransform\x00"))}, nil
}

func compileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertexShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex shader: %w", err)
	}
	fragmentShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, fmt.Errorf("fragment shader: %w", err)
	}

	id := gl.CreateProgram()
	gl.AttachShader(id, vertexShader)
	gl.AttachShader(id, fragmentShader)
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(id, logLength, nil, gl.Str(log))

		return 0, fmt.Errorf("failed to link program: %v", log)
	}
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)
	return id, nil
}

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

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		return 0, fmt.Errorf("failed to compile shader: %v", log)
	}
	return shader, nil
}
