// Package camera provides the perspective camera, the character follow rig
// and a free orbit camera for inspecting the level.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/prisonstep/pkg/math"
)

// Camera is a perspective look-at camera.
type Camera struct {
	Eye    math.Vec3
	Center math.Vec3
	Up     math.Vec3

	FOV    float32 // vertical, degrees
	Near   float32
	Far    float32
	Aspect float32
}

// New creates a camera with the starting view of the cell block.
func New(fov, near, far float32, width, height int) *Camera {
	c := &Camera{
		Eye:    math.Vec3{X: 800, Y: 180, Z: 1053},
		Center: math.Vec3{X: 275, Y: 90, Z: 1053},
		Up:     math.Vec3{Y: 1},
		FOV:    fov,
		Near:   near,
		Far:    far,
	}
	c.Resize(width, height)
	return c
}

// Resize updates the aspect ratio for a new viewport size.
func (c *Camera) Resize(width, height int) {
	if height <= 0 {
		height = 1
	}
	c.Aspect = float32(width) / float32(height)
}

// ViewMatrix returns the world-to-eye transform.
func (c *Camera) ViewMatrix() math.Mat4 {
	return math.Mat4(mgl32.LookAtV(vec(c.Eye), vec(c.Center), vec(c.Up)))
}

// ProjectionMatrix returns the perspective projection.
func (c *Camera) ProjectionMatrix() math.Mat4 {
	return math.Mat4(mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far))
}

func vec(v math.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}
