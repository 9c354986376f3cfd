package camera

import (
	gomath "math"

	"github.com/Faultbox/prisonstep/internal/region"
	"github.com/Faultbox/prisonstep/pkg/math"
)

// OrbitCamera orbits around a center point. The game uses it as a free
// overview of the floor plan.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates
	Distance  float32
	RotationX float32 // pitch, radians
	RotationY float32 // yaw, radians

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        1500,
		RotationX:       0.9,
		MinDistance:     100,
		MaxDistance:     8000,
		MinPitch:        0.1,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	cx := gomath.Cos(float64(c.RotationX))
	return c.Center.Add(math.Vec3{
		X: c.Distance * float32(cx*gomath.Sin(float64(c.RotationY))),
		Y: c.Distance * float32(gomath.Sin(float64(c.RotationX))),
		Z: c.Distance * float32(cx*gomath.Cos(float64(c.RotationY))),
	})
}

// Apply points cam from the orbit position at the center.
func (c *OrbitCamera) Apply(cam *Camera) {
	cam.Eye = c.Position()
	cam.Center = c.Center
}

// HandleYaw spins the camera around the center.
func (c *OrbitCamera) HandleYaw(delta float32) {
	c.RotationY -= delta * c.DragSensitivity
}

// HandlePitch tilts the camera, clamped to the pitch limits.
func (c *OrbitCamera) HandlePitch(delta float32) {
	c.RotationX = clamp(c.RotationX+delta*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance = clamp(c.Distance-delta*c.Distance*c.ZoomSensitivity, c.MinDistance, c.MaxDistance)
}

// FitToRegions centers the camera over every region of m.
func (c *OrbitCamera) FitToRegions(m *region.Map) {
	lo := math.Vec2{X: float32(gomath.Inf(1)), Y: float32(gomath.Inf(1))}
	hi := math.Vec2{X: float32(gomath.Inf(-1)), Y: float32(gomath.Inf(-1))}
	empty := true
	for _, name := range m.Names() {
		r, _ := m.Region(name)
		for _, tri := range r.Triangles {
			for _, p := range tri {
				lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
				hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
				empty = false
			}
		}
	}
	if empty {
		return
	}

	c.Center = math.Vec3{X: (lo.X + hi.X) / 2, Z: (lo.Y + hi.Y) / 2}
	c.Distance = clamp(max(hi.X-lo.X, hi.Y-lo.Y), c.MinDistance, c.MaxDistance)
	c.RotationX = 0.9
	c.RotationY = 0
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
