package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Cube returns an axis-aligned cube of the given edge length centered
// on the origin, with every vertex carrying the given color.
func Cube(size float32, color mgl32.Vec3) Mesh {
	h := size / 2
	positions := []mgl32.Vec3{
		{-h, -h, -h}, {h, -h, -h}, {h, h, -h}, {-h, h, -h}, // back
		{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h}, // front
	}

	vertices := make([]Vertex, len(positions))
	for i, p := range positions {
		vertices[i] = Vertex{Position: p, Color: color}
	}

	indices := []uint32{
		4, 5, 6, 6, 7, 4, // front
		1, 0, 3, 3, 2, 1, // back
		0, 4, 7, 7, 3, 0, // left
		5, 1, 2, 2, 6, 5, // right
		3, 7, 6, 6, 2, 3, // top
		0, 1, 5, 5, 4, 0, // bottom
	}

	return Mesh{Vertices: vertices, Indices: indices}
}

// Icosphere builds a sphere by subdividing an icosahedron and
// normalizing every vertex onto the radius. Subdivision quadruples the
// triangle count each level, so keep levels small.
func Icosphere(radius float32, subdivisions int, color mgl32.Vec3) Mesh {
	// Golden ratio
	t := float32((1.0 + math.Sqrt(5.0)) / 2.0)

	positions := []mgl32.Vec3{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}

	indices := []uint32{
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}

	for i := 0; i < subdivisions; i++ {
		positions, indices = subdivide(positions, indices)
	}

	vertices := make([]Vertex, len(positions))
	for i, p := range positions {
		vertices[i] = Vertex{Position: p.Normalize().Mul(radius), Color: color}
	}

	return Mesh{Vertices: vertices, Indices: indices}
}

// subdivide splits every triangle into four, sharing midpoints between
// neighboring triangles.
func subdivide(positions []mgl32.Vec3, indices []uint32) ([]mgl32.Vec3, []uint32) {
	midpoints := make(map[[2]uint32]uint32)
	newIndices := make([]uint32, 0, len(indices)*4)

	getMidpoint := func(i1, i2 uint32) uint32 {
		key := [2]uint32{i1, i2}
		if i1 > i2 {
			key = [2]uint32{i2, i1}
		}
		if mid, exists := midpoints[key]; exists {
			return mid
		}

		mid := positions[i1].Add(positions[i2]).Mul(0.5)
		positions = append(positions, mid)
		midpoints[key] = uint32(len(positions) - 1)
		return midpoints[key]
	}

	for i := 0; i < len(indices); i += 3 {
		v1, v2, v3 := indices[i], indices[i+1], indices[i+2]
		m1 := getMidpoint(v1, v2)
		m2 := getMidpoint(v2, v3)
		m3 := getMidpoint(v3, v1)

		newIndices = append(newIndices, v1, m1, m3, v2, m2, m1, v3, m3, m2, m1, m2, m3)
	}

	return positions, newIndices
}
