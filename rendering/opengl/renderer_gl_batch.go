package opengl

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"meshbatch/core"
)

// drawElementsIndirectCommand matches the GL indirect draw command
// layout consumed by MultiDrawElementsIndirect.
type drawElementsIndirectCommand struct {
	Count         uint32 // number of indices
	InstanceCount uint32
	FirstIndex    uint32 // offset into the shared index buffer
	BaseVertex    int32  // added to every fetched index
	BaseInstance  uint32 // selects the drawID attribute entry
}

const matrixBytes = 16 * 4 // one densely packed mat4 in the transform table

// MeshBatch owns the GL objects for one indirect multidraw: the shared
// vertex/index buffers, the per-instance draw-ID attribute, the
// transform table SSBO at binding 0 and the indirect command buffer.
//
// Mesh geometry is immutable once the batch is built; editing it would
// invalidate every baked draw command. Transforms are the high-frequency
// data and go through buffer subdata updates instead.
type MeshBatch struct {
	vao         uint32
	vbo         uint32 // interleaved position+color
	ebo         uint32 // shared index buffer
	drawIDBO    uint32 // per-instance uint draw IDs, attribute 2
	transformBO uint32 // SSBO binding 0, one mat4 per instance
	indirectBO  uint32

	instanceCount int32
}

// NewMeshBatch uploads the given meshes and builds one draw command per
// instance. meshIndex assigns each instance its mesh; transforms is the
// initial transform table and must have one entry per instance, because
// the shader indexes it with the instance's draw ID and a short table
// would put those reads out of bounds.
func NewMeshBatch(meshes []core.Mesh, meshIndex []int, transforms []mgl32.Mat4) (*MeshBatch, error) {
	if len(meshes) == 0 || len(meshIndex) == 0 {
		return nil, fmt.Errorf("empty batch")
	}
	if len(transforms) != len(meshIndex) {
		return nil, fmt.Errorf("transform table has %d entries for %d instances", len(transforms), len(meshIndex))
	}

	// Concatenate mesh geometry, remembering per-mesh offsets.
	var vertexData []float32
	var indexData []uint32
	firstIndex := make([]uint32, len(meshes))
	baseVertex := make([]int32, len(meshes))
	vertexOffset := int32(0)
	for m, mesh := range meshes {
		firstIndex[m] = uint32(len(indexData))
		baseVertex[m] = vertexOffset
		for _, v := range mesh.Vertices {
			vertexData = append(vertexData,
				v.Position.X(), v.Position.Y(), v.Position.Z(),
				v.Color.X(), v.Color.Y(), v.Color.Z())
		}
		indexData = append(indexData, mesh.Indices...)
		vertexOffset += int32(len(mesh.Vertices))
	}

	commands := make([]drawElementsIndirectCommand, len(meshIndex))
	drawIDs := make([]uint32, len(meshIndex))
	for i, m := range meshIndex {
		if m < 0 || m >= len(meshes) {
			return nil, fmt.Errorf("instance %d references mesh %d of %d", i, m, len(meshes))
		}
		commands[i] = drawElementsIndirectCommand{
			Count:         uint32(meshes[m].IndexCount()),
			InstanceCount: 1,
			FirstIndex:    firstIndex[m],
			BaseVertex:    baseVertex[m],
			BaseInstance:  uint32(i),
		}
		drawIDs[i] = uint32(i)
	}

	b := &MeshBatch{instanceCount: int32(len(meshIndex))}

	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertexData)*4, gl.Ptr(vertexData), gl.STATIC_DRAW)

	stride := int32(6 * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)

	// Draw IDs advance once per instance, and BaseInstance picks the
	// entry for each command, so every vertex of an instance sees the
	// same ID.
	gl.GenBuffers(1, &b.drawIDBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.drawIDBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(drawIDs)*4, gl.Ptr(drawIDs), gl.STATIC_DRAW)
	gl.VertexAttribIPointer(2, 1, gl.UNSIGNED_INT, 4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribDivisor(2, 1)

	gl.GenBuffers(1, &b.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indexData)*4, gl.Ptr(indexData), gl.STATIC_DRAW)

	gl.GenBuffers(1, &b.transformBO)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, b.transformBO)
	gl.BufferData(gl.SHADER_STORAGE_BUFFER, len(transforms)*matrixBytes, gl.Ptr(&transforms[0][0]), gl.DYNAMIC_DRAW)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 0, b.transformBO)

	gl.GenBuffers(1, &b.indirectBO)
	gl.BindBuffer(gl.DRAW_INDIRECT_BUFFER, b.indirectBO)
	cmdSize := int(unsafe.Sizeof(drawElementsIndirectCommand{}))
	gl.BufferData(gl.DRAW_INDIRECT_BUFFER, len(commands)*cmdSize, gl.Ptr(commands), gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	if errCode := gl.GetError(); errCode != gl.NO_ERROR {
		b.Release()
		return nil, fmt.Errorf("OpenGL error 0x%x while building batch", errCode)
	}

	return b, nil
}

// InstanceCount returns the number of draw commands in the batch.
func (b *MeshBatch) InstanceCount() int {
	return int(b.instanceCount)
}

// SetTransform replaces a single entry of the transform table.
func (b *MeshBatch) SetTransform(index int, transform mgl32.Mat4) {
	if index < 0 || index >= int(b.instanceCount) {
		return
	}
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, b.transformBO)
	gl.BufferSubData(gl.SHADER_STORAGE_BUFFER, index*matrixBytes, matrixBytes, gl.Ptr(&transform[0]))
}

// UploadTransforms replaces the whole transform table. The slice must
// hold exactly one matrix per instance.
func (b *MeshBatch) UploadTransforms(transforms []mgl32.Mat4) error {
	if len(transforms) != int(b.instanceCount) {
		return fmt.Errorf("transform table has %d entries for %d instances", len(transforms), b.instanceCount)
	}
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, b.transformBO)
	gl.BufferSubData(gl.SHADER_STORAGE_BUFFER, 0, len(transforms)*matrixBytes, gl.Ptr(&transforms[0][0]))
	return nil
}

// Draw issues the whole batch as one indirect multidraw.
func (b *MeshBatch) Draw() {
	gl.BindVertexArray(b.vao)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 0, b.transformBO)
	gl.BindBuffer(gl.DRAW_INDIRECT_BUFFER, b.indirectBO)
	gl.MultiDrawElementsIndirect(gl.TRIANGLES, gl.UNSIGNED_INT, gl.PtrOffset(0), b.instanceCount, 0)
	gl.BindVertexArray(0)
}

// Release deletes the batch's GL objects. The shader program is owned
// by the renderer; other batches may share it.
func (b *MeshBatch) Release() {
	gl.DeleteBuffers(1, &b.indirectBO)
	gl.DeleteBuffers(1, &b.transformBO)
	gl.DeleteBuffers(1, &b.ebo)
	gl.DeleteBuffers(1, &b.drawIDBO)
	gl.DeleteBuffers(1, &b.vbo)
	gl.DeleteVertexArrays(1, &b.vao)
}
