package core

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestCubeGeometry(t *testing.T) {
	color := mgl32.Vec3{0.2, 0.4, 0.6}
	mesh := Cube(2.0, color)

	if len(mesh.Vertices) != 8 {
		t.Errorf("cube has %d vertices, want 8", len(mesh.Vertices))
	}
	if len(mesh.Indices) != 36 {
		t.Errorf("cube has %d indices, want 36", len(mesh.Indices))
	}

	for i, v := range mesh.Vertices {
		if v.Color != color {
			t.Fatalf("vertex %d color = %v, want %v", i, v.Color, color)
		}
		for axis := 0; axis < 3; axis++ {
			if math.Abs(float64(v.Position[axis])) != 1.0 {
				t.Fatalf("vertex %d is not on the size-2 cube surface: %v", i, v.Position)
			}
		}
	}

	for _, idx := range mesh.Indices {
		if int(idx) >= len(mesh.Vertices) {
			t.Fatalf("index %d out of range", idx)
		}
	}
}

func TestIcosphereCounts(t *testing.T) {
	tests := []struct {
		subdivisions int
		wantVerts    int
		wantIndices  int
	}{
		// 10*4^n + 2 vertices, 20*4^n triangles
		{0, 12, 60},
		{1, 42, 240},
		{2, 162, 960},
	}

	for _, tc := range tests {
		mesh := Icosphere(1.0, tc.subdivisions, mgl32.Vec3{1, 1, 1})
		if len(mesh.Vertices) != tc.wantVerts {
			t.Errorf("level %d: %d vertices, want %d", tc.subdivisions, len(mesh.Vertices), tc.wantVerts)
		}
		if len(mesh.Indices) != tc.wantIndices {
			t.Errorf("level %d: %d indices, want %d", tc.subdivisions, len(mesh.Indices), tc.wantIndices)
		}
	}
}

func TestIcosphereVerticesLieOnRadius(t *testing.T) {
	const radius = 2.5
	mesh := Icosphere(radius, 3, mgl32.Vec3{1, 0, 0})

	for i, v := range mesh.Vertices {
		r := v.Position.Len()
		if math.Abs(float64(r-radius)) > epsilon {
			t.Fatalf("vertex %d at radius %v, want %v", i, r, radius)
		}
	}
}

func TestIndexCount(t *testing.T) {
	mesh := Cube(1, mgl32.Vec3{})
	if mesh.IndexCount() != 36 {
		t.Errorf("IndexCount = %d, want 36", mesh.IndexCount())
	}
}

func TestPaletteColorCyclesAndNormalizes(t *testing.T) {
	n := len(DefaultPalette)
	if PaletteColor(0) != PaletteColor(n) {
		t.Error("palette did not cycle")
	}
	for i := 0; i < n; i++ {
		c := PaletteColor(i)
		for axis := 0; axis < 3; axis++ {
			if c[axis] < 0 || c[axis] > 1 {
				t.Fatalf("palette color %d component %d = %v outside [0,1]", i, axis, c[axis])
			}
		}
	}
}
