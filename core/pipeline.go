package core

import (
	"runtime"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// VertexStage is a CPU implementation of the instanced vertex shader,
// used as the reference for what the GPU program computes. Transforms
// is the instance transform table the shader reads at SSBO binding 0;
// View and Projection are the per-frame uniforms.
//
// The table is read-only for the duration of a ShadeAll call. A draw ID
// outside the table is a caller bug and panics on this path (the GPU
// path leaves it undefined).
type VertexStage struct {
	Transforms []mgl32.Mat4
	View       mgl32.Mat4
	Projection mgl32.Mat4
}

// ShadedVertex is the vertex stage output: a clip-space position and
// the interpolation-ready color.
type ShadedVertex struct {
	ClipPosition mgl32.Vec4
	Color        mgl32.Vec3
}

// Shade runs the vertex stage for a single invocation: world position
// from the indexed instance transform, then view and projection, with
// the color passed through unchanged.
func (s *VertexStage) Shade(v Vertex, drawID uint32) ShadedVertex {
	local := mgl32.Vec4{v.Position.X(), v.Position.Y(), v.Position.Z(), 1}
	world := s.Transforms[drawID].Mul4x1(local)
	clip := s.Projection.Mul4(s.View).Mul4x1(world)
	return ShadedVertex{ClipPosition: clip, Color: v.Color}
}

// WorldPosition applies only the instance transform, without the camera
// matrices.
func (s *VertexStage) WorldPosition(position mgl32.Vec3, drawID uint32) mgl32.Vec4 {
	local := mgl32.Vec4{position.X(), position.Y(), position.Z(), 1}
	return s.Transforms[drawID].Mul4x1(local)
}

// ShadeAll shades every vertex using one worker per CPU, writing
// results into out. Each invocation is independent, so the split is a
// plain range partition with no synchronization beyond the join.
// len(out) and len(drawIDs) must equal len(vertices).
func (s *VertexStage) ShadeAll(vertices []Vertex, drawIDs []uint32, out []ShadedVertex) {
	if len(drawIDs) != len(vertices) || len(out) != len(vertices) {
		panic("meshbatch: ShadeAll slice lengths differ")
	}

	workers := runtime.NumCPU()
	if workers > len(vertices) {
		workers = len(vertices)
	}
	if workers <= 1 {
		for i, v := range vertices {
			out[i] = s.Shade(v, drawIDs[i])
		}
		return
	}

	chunk := (len(vertices) + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < len(vertices); start += chunk {
		end := start + chunk
		if end > len(vertices) {
			end = len(vertices)
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				out[i] = s.Shade(vertices[i], drawIDs[i])
			}
		}(start, end)
	}
	wg.Wait()
}
