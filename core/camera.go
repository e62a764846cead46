package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera orbits a target point and produces the two per-frame matrices
// the vertex stage consumes: view and projection.
type Camera struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4

	Target   mgl32.Vec3
	Distance float32

	// Orbit angles in radians. RotationX pitches around the horizontal
	// axis, RotationY yaws around world up.
	RotationX float32
	RotationY float32

	worldUp mgl32.Vec3
	front   mgl32.Vec3
	right   mgl32.Vec3
	up      mgl32.Vec3
}

const (
	minCameraDistance = 0.5
	maxCameraPitch    = math.Pi/2 - 0.01
)

// NewCamera creates an orbit camera looking at target from the given
// distance along +Z, with Y as world up.
func NewCamera(target mgl32.Vec3, distance float32) *Camera {
	c := &Camera{
		Target:     target,
		Distance:   distance,
		worldUp:    mgl32.Vec3{0, 1, 0},
		Projection: mgl32.Ident4(),
	}
	c.UpdateView()
	return c
}

// SetPerspective rebuilds the projection matrix. fovy is in degrees.
func (c *Camera) SetPerspective(fovy, aspect, near, far float32) {
	c.Projection = mgl32.Perspective(mgl32.DegToRad(fovy), aspect, near, far)
}

// Position returns the camera's world-space position for the current
// orbit angles and distance.
func (c *Camera) Position() mgl32.Vec3 {
	cosPitch := float32(math.Cos(float64(c.RotationX)))
	offset := mgl32.Vec3{
		float32(math.Sin(float64(c.RotationY))) * cosPitch,
		float32(math.Sin(float64(c.RotationX))),
		float32(math.Cos(float64(c.RotationY))) * cosPitch,
	}.Mul(c.Distance)
	return c.Target.Add(offset)
}

// Orbit adjusts the orbit angles by the given deltas (radians) and
// recomputes the view matrix. Pitch is clamped short of the poles so
// the look-at basis stays well defined.
func (c *Camera) Orbit(dYaw, dPitch float32) {
	c.RotationY += dYaw
	c.RotationX += dPitch
	if c.RotationX > maxCameraPitch {
		c.RotationX = maxCameraPitch
	}
	if c.RotationX < -maxCameraPitch {
		c.RotationX = -maxCameraPitch
	}
	c.UpdateView()
}

// Zoom moves the camera along its front vector. Positive delta moves in.
func (c *Camera) Zoom(delta float32) {
	c.Distance -= delta
	if c.Distance < minCameraDistance {
		c.Distance = minCameraDistance
	}
	c.UpdateView()
}

// UpdateView recomputes the view matrix, then the camera's
// front-right-up vectors.
func (c *Camera) UpdateView() {
	position := c.Position()
	c.View = mgl32.LookAtV(position, c.Target, c.worldUp)
	c.updateCameraVectors(position)
}

func (c *Camera) updateCameraVectors(position mgl32.Vec3) {
	c.front = c.Target.Sub(position).Normalize()
	c.right = c.front.Cross(c.worldUp).Normalize()
	c.up = c.right.Cross(c.front).Normalize()
}

// Front returns the normalized view direction.
func (c *Camera) Front() mgl32.Vec3 { return c.front }

// Right returns the normalized right vector.
func (c *Camera) Right() mgl32.Vec3 { return c.right }

// Up returns the normalized up vector.
func (c *Camera) Up() mgl32.Vec3 { return c.up }
