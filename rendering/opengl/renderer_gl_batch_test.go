package opengl

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"meshbatch/core"
)

// The construction and upload guards all run before the first GL call,
// so they are exercised here without a context.

func testMeshes() []core.Mesh {
	return []core.Mesh{
		core.Cube(1, mgl32.Vec3{1, 0, 0}),
		core.Icosphere(0.5, 1, mgl32.Vec3{0, 1, 0}),
	}
}

func identityTable(n int) []mgl32.Mat4 {
	table := make([]mgl32.Mat4, n)
	for i := range table {
		table[i] = mgl32.Ident4()
	}
	return table
}

func TestNewMeshBatchRejectsEmptyInput(t *testing.T) {
	tests := []struct {
		name      string
		meshes    []core.Mesh
		meshIndex []int
	}{
		{"no meshes", nil, []int{0}},
		{"no instances", testMeshes(), nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewMeshBatch(tc.meshes, tc.meshIndex, identityTable(len(tc.meshIndex))); err == nil {
				t.Error("expected error for empty batch")
			}
		})
	}
}

func TestNewMeshBatchRejectsShortTransformTable(t *testing.T) {
	meshIndex := []int{0, 1, 0}

	// One entry short: instance 2's draw ID would read past the table.
	if _, err := NewMeshBatch(testMeshes(), meshIndex, identityTable(2)); err == nil {
		t.Error("expected error for short transform table")
	}
	if _, err := NewMeshBatch(testMeshes(), meshIndex, identityTable(4)); err == nil {
		t.Error("expected error for oversized transform table")
	}
}

func TestNewMeshBatchRejectsBadMeshIndex(t *testing.T) {
	tests := []struct {
		name      string
		meshIndex []int
	}{
		{"negative", []int{0, -1}},
		{"out of range", []int{0, 2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewMeshBatch(testMeshes(), tc.meshIndex, identityTable(len(tc.meshIndex))); err == nil {
				t.Error("expected error for bad mesh index")
			}
		})
	}
}

func TestUploadTransformsRejectsWrongLength(t *testing.T) {
	b := &MeshBatch{instanceCount: 3}

	if err := b.UploadTransforms(identityTable(2)); err == nil {
		t.Error("expected error for short table")
	}
	if err := b.UploadTransforms(identityTable(4)); err == nil {
		t.Error("expected error for long table")
	}
}

func TestSetTransformIgnoresOutOfRangeIndex(t *testing.T) {
	b := &MeshBatch{instanceCount: 2}

	// Out-of-range indices return before touching any buffer.
	b.SetTransform(-1, mgl32.Ident4())
	b.SetTransform(2, mgl32.Ident4())
}
