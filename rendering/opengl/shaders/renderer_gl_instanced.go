package shaders

// Instanced vertex shader: every vertex carries a draw ID selecting a
// model matrix from the transform table at SSBO binding 0. The table is
// written by the host between frames and read-only during a draw.
const instancedVertexShader = `
#version 430 core

layout (location = 0) in vec3 position;
layout (location = 1) in vec3 color;
layout (location = 2) in uint drawID;

layout (std430, binding = 0) readonly buffer TransformData {
    mat4 transforms[];
};

uniform mat4 view;
uniform mat4 projection;

out vec3 vertColor;

void main() {
    vec4 worldPos = transforms[drawID] * vec4(position, 1.0);
    gl_Position = projection * view * worldPos;
    vertColor = color;
}
`

// Fragment shader: the interpolated vertex color, opaque.
const instancedFragmentShader = `
#version 430 core

in vec3 vertColor;
out vec4 outColor;

void main() {
    outColor = vec4(vertColor, 1.0);
}
`

// CreateInstancedProgram compiles the instanced mesh shaders.
// Requires an OpenGL 4.3 context for the std430 storage block.
func CreateInstancedProgram() (*Program, error) {
	return NewProgram(instancedVertexShader, instancedFragmentShader)
}
