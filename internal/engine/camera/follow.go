package camera

import (
	"github.com/Faultbox/prisonstep/internal/region"
	"github.com/Faultbox/prisonstep/pkg/math"
)

// DoorState reports whether a door is open far enough to see through.
type DoorState interface {
	IsDoorOpen(id int) bool
}

// FollowConfig shapes the follow rig.
type FollowConfig struct {
	Pullback  float32 // starting distance behind the character
	Step      float32 // pull-in step while the eye is blocked
	EyeHeight float32 // eye height in character space
	Head      float32 // look-at height above the feet
	Tilt      float32 // look-down offset at full pullback
}

// DefaultFollowConfig returns the standard over-the-shoulder rig.
func DefaultFollowConfig() FollowConfig {
	return FollowConfig{
		Pullback:  160,
		Step:      0.5,
		EyeHeight: 200,
		Head:      180,
		Tilt:      -30,
	}
}

// Follow places a camera behind a character, pulling the eye in until it
// sits on the floor plan and outside closed doors.
type Follow struct {
	cfg     FollowConfig
	regions *region.Map
	doors   DoorState

	// Distance is the pullback chosen by the last Update.
	Distance float32
}

// NewFollow creates a follow rig. doors may be nil, in which case every
// door counts as closed.
func NewFollow(cfg FollowConfig, regions *region.Map, doors DoorState) *Follow {
	return &Follow{cfg: cfg, regions: regions, doors: doors, Distance: cfg.Pullback}
}

// Update moves cam behind a character with the given world transform,
// standing in charRegion.
func (f *Follow) Update(cam *Camera, transform math.Mat4, charRegion string) {
	trans := f.cfg.Pullback

	// The first sample point sits on the diagonal; later ones at eye height.
	eye := transform.TransformPoint(math.Vec3{Y: trans, Z: -trans})
	name, _ := f.regions.ClassifyVec3(eye)

	for f.blocked(name) && trans > 0 {
		trans -= f.cfg.Step
		eye = f.eyeAt(transform, trans)
		name, _ = f.regions.ClassifyVec3(eye)
	}
	// Never look through a door region the character is not standing in.
	for name != charRegion && f.regions.IsDoor(name) && trans > 0 {
		trans -= f.cfg.Step
		eye = f.eyeAt(transform, trans)
		name, _ = f.regions.ClassifyVec3(eye)
	}

	f.Distance = trans

	location := transform.Translation()
	head := location.Add(math.Vec3{Y: f.cfg.Head})
	drop := f.cfg.Tilt + (f.cfg.EyeHeight-trans)*f.cfg.Tilt/f.cfg.Pullback
	cam.Center = head.Add(transform.Backward().Scale(2)).Add(math.Vec3{Y: drop})
	cam.Eye = f.eyeAt(transform, trans)
}

func (f *Follow) eyeAt(transform math.Mat4, trans float32) math.Vec3 {
	return transform.TransformPoint(math.Vec3{Y: f.cfg.EyeHeight, Z: -trans})
}

// blocked reports whether the eye may not sit in the named region: off the
// floor plan, or inside a door that is not open.
func (f *Follow) blocked(name string) bool {
	if name == "" {
		return true
	}
	if !f.regions.IsDoor(name) {
		return false
	}
	id, ok := f.regions.DoorID(name)
	return !ok || f.doors == nil || !f.doors.IsDoorOpen(id)
}
