package core

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewTransformIsIdentity(t *testing.T) {
	tr := NewTransform(mgl32.Vec3{0, 0, 0})
	m := tr.Mat4()

	want := mgl32.Ident4()
	for i := range m {
		if math.Abs(float64(m[i]-want[i])) > epsilon {
			t.Fatalf("identity transform matrix differs at %d: %v", i, m)
		}
	}
}

func TestMat4AppliesScaleThenRotationThenTranslation(t *testing.T) {
	tr := Transform{
		Position: mgl32.Vec3{10, 0, 0},
		Rotation: mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1}),
		Scale:    mgl32.Vec3{2, 2, 2},
	}

	// (1,0,0) scales to (2,0,0), rotates 90° about Z to (0,2,0),
	// translates to (10,2,0).
	got := tr.Mat4().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	want := mgl32.Vec4{10, 2, 0, 1}
	vec4Near(t, got, want, "TRS order")
}

func TestRotateStaysNormalized(t *testing.T) {
	tr := NewTransform(mgl32.Vec3{0, 0, 0})
	step := mgl32.QuatRotate(0.1, mgl32.Vec3{0.3, 0.9, 0.1}.Normalize())

	for i := 0; i < 1000; i++ {
		tr.Rotate(step)
	}

	norm := tr.Rotation.Norm()
	if math.Abs(float64(norm-1)) > epsilon {
		t.Errorf("rotation norm drifted to %v after repeated increments", norm)
	}
}

func TestTranslateAccumulates(t *testing.T) {
	tr := NewTransform(mgl32.Vec3{1, 1, 1})
	tr.Translate(mgl32.Vec3{2, -1, 0})
	tr.Translate(mgl32.Vec3{0, 0, 3})

	want := mgl32.Vec3{3, 0, 4}
	if tr.Position != want {
		t.Errorf("position = %v, want %v", tr.Position, want)
	}
}
