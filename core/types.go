package core

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is one entry of the interleaved vertex stream: a local-space
// position and an RGB color, matching attribute locations 0 and 1.
type Vertex struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3
}

// Mesh holds immutable indexed geometry. Vertex and index data must not
// change after a batch is built from it, because the batch bakes index
// offsets into its indirect draw commands.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// IndexCount returns the number of indices as drawn.
func (m *Mesh) IndexCount() int32 {
	return int32(len(m.Indices))
}

// DefaultPalette is the instance color cycle used by the demo scene.
var DefaultPalette = []rl.Color{
	rl.NewColor(230, 80, 60, 255),   // brick
	rl.NewColor(70, 160, 240, 255),  // sky
	rl.NewColor(90, 200, 110, 255),  // leaf
	rl.NewColor(245, 200, 70, 255),  // sand
	rl.NewColor(180, 100, 220, 255), // violet
	rl.NewColor(240, 140, 60, 255),  // ember
}

// ColorVec converts an 8-bit palette color to the normalized vec3 the
// vertex stream carries.
func ColorVec(c rl.Color) mgl32.Vec3 {
	const inv = 1.0 / 255.0
	return mgl32.Vec3{float32(c.R) * inv, float32(c.G) * inv, float32(c.B) * inv}
}

// PaletteColor cycles through the default palette.
func PaletteColor(i int) mgl32.Vec3 {
	return ColorVec(DefaultPalette[i%len(DefaultPalette)])
}
