package core

import "github.com/go-gl/mathgl/mgl32"

// Transform is a position/rotation/scale triple for one instance.
// Mat4 composes them in T*R*S order, so scale applies in local space
// before rotation and translation.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// NewTransform returns an identity transform at the given position.
func NewTransform(position mgl32.Vec3) Transform {
	return Transform{
		Position: position,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Mat4 builds the 4x4 model matrix for this transform.
func (t *Transform) Mat4() mgl32.Mat4 {
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return translate.Mul4(t.Rotation.Mat4()).Mul4(scale)
}

// Rotate multiplies the current rotation by q and renormalizes, so
// repeated incremental rotations don't drift off the unit sphere.
func (t *Transform) Rotate(q mgl32.Quat) {
	t.Rotation = t.Rotation.Mul(q).Normalize()
}

// Translate moves the transform by the given offset.
func (t *Transform) Translate(offset mgl32.Vec3) {
	t.Position = t.Position.Add(offset)
}
