// Package input samples keyboard and gamepad state and maps it to
// locomotion controls.
package input

import (
	"github.com/Faultbox/prisonstep/internal/locomotion"
)

// StickDeadZone is the thumbstick magnitude below which the pad is ignored.
const StickDeadZone = 0.15

// Controls is a snapshot of the held buttons and stick positions.
type Controls struct {
	Left, Right, Up, Down bool
	Crouch, Aim           bool

	// Right thumbstick, each axis in [-1, 1] with Y up.
	HasPad         bool
	StickX, StickY float32
}

// Mapper turns control snapshots into locomotion input. It keeps the
// previous snapshot to detect press edges.
type Mapper struct {
	PanRate   float32
	AimScale  float32
	WalkSpeed float32

	prev Controls
}

// NewMapper creates a mapper with the given rates.
func NewMapper(panRate, aimScale, walkSpeed float32) *Mapper {
	return &Mapper{PanRate: panRate, AimScale: aimScale, WalkSpeed: walkSpeed}
}

// Map converts one snapshot. Held arrows decide turn and walk, and the
// pad's right stick is used only when they are released. For turns Left
// wins over Right. Aim deltas are always produced, with Right over Left and
// Down over Up, and the stick replaces them when pushed past the dead zone;
// the machine applies them only while aiming.
func (m *Mapper) Map(c Controls) locomotion.Input {
	var in locomotion.Input

	stickX := c.HasPad && abs(c.StickX) > StickDeadZone
	stickY := c.HasPad && abs(c.StickY) > StickDeadZone

	switch {
	case c.Left:
		in.TurnRate = m.PanRate
	case c.Right:
		in.TurnRate = -m.PanRate
	case stickX:
		in.TurnRate = -c.StickX * m.PanRate
	}

	switch {
	case c.Up:
		in.DesiredSpeed = m.WalkSpeed
	case stickY:
		// No walking backwards.
		in.DesiredSpeed = max(c.StickY*m.WalkSpeed, 0)
	}

	if c.Left {
		in.AimDelta.X = -m.AimScale
	}
	if c.Right {
		in.AimDelta.X = m.AimScale
	}
	if c.Up {
		in.AimDelta.Y = m.AimScale
	}
	if c.Down {
		in.AimDelta.Y = -m.AimScale
	}
	if stickX {
		in.AimDelta.X = c.StickX * m.AimScale
	}
	if stickY {
		in.AimDelta.Y = c.StickY * m.AimScale
	}

	in.CrouchToggle = c.Crouch && !m.prev.Crouch
	in.AimToggle = c.Aim && !m.prev.Aim
	m.prev = c
	return in
}

// Reset forgets the previous snapshot, so a button held across the reset
// registers as a fresh press.
func (m *Mapper) Reset() {
	m.prev = Controls{}
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
