package locomotion

import (
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/prisonstep/internal/anim"
	"github.com/Faultbox/prisonstep/internal/door"
	"github.com/Faultbox/prisonstep/internal/logger"
	"github.com/Faultbox/prisonstep/internal/region"
	"github.com/Faultbox/prisonstep/pkg/math"
)

// MaxSubSteps bounds the sub-steps of one Tick.
const MaxSubSteps = 32

// Clip playback rates.
const (
	crouchSpeed    = 2
	raiseSpeed     = 2
	lowerSpeed     = 2
	walkStartSpeed = 10
)

// Input is one tick's worth of sampled controls.
type Input struct {
	// DesiredSpeed is the walk playback rate; 0 means stand still.
	DesiredSpeed float32
	// TurnRate is the signed turn rate in radians per second.
	TurnRate float32
	// CrouchToggle and AimToggle are press edges that flip the crouch and
	// aim intents.
	CrouchToggle bool
	AimToggle    bool
	// AimDelta nudges the spine aim (X pitch, Y roll) while aiming.
	AimDelta math.Vec2
}

// Hazard receives the slime flag. Entering one region sets it and entering
// another clears it.
type Hazard interface {
	Slimed() bool
	SetSlimed(slimed bool)
}

// Level is the static environment the machine moves in.
type Level struct {
	Regions *region.Map
	Doors   *door.Controller
	// Hazard may be nil.
	Hazard Hazard

	SlimeEnter string
	SlimeExit  string
}

// Machine is the locomotion state machine of one character. It owns the
// character's placement on the floor plan.
type Machine struct {
	pose  *anim.Pose
	clips Clips
	level Level

	state    State
	crouched bool
	aiming   bool

	position    math.Vec3
	orientation float32
	transform   math.Mat4
	region      string

	log *zap.Logger
}

// NewMachine creates a machine in the Start state placed at position facing
// orientation radians about Y.
func NewMachine(pose *anim.Pose, clips Clips, level Level, position math.Vec3, orientation float32) *Machine {
	m := &Machine{
		pose:  pose,
		clips: clips,
		level: level,
		state: Start,
		log:   logger.Named("locomotion"),
	}
	m.SetPlacement(position, orientation)
	return m
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Crouched reports whether a crouch is pending or playing.
func (m *Machine) Crouched() bool {
	return m.crouched
}

// Aiming reports whether the aim intent is set.
func (m *Machine) Aiming() bool {
	return m.aiming
}

// Position returns the committed world position.
func (m *Machine) Position() math.Vec3 {
	return m.position
}

// Orientation returns the heading in radians about Y.
func (m *Machine) Orientation() float32 {
	return m.orientation
}

// Region returns the region the last candidate position classified into,
// or "" when it was off the floor plan.
func (m *Machine) Region() string {
	return m.region
}

// Transform returns the world transform: RotateY(orientation) placed at
// the position.
func (m *Machine) Transform() math.Mat4 {
	return m.transform
}

// SetPlacement teleports the character without any collision check.
func (m *Machine) SetPlacement(position math.Vec3, orientation float32) {
	m.position = position
	m.orientation = orientation
	m.updateTransform()
	m.region, _ = m.level.Regions.ClassifyVec3(position)
}

func (m *Machine) updateTransform() {
	m.transform = math.RotateY(m.orientation).WithTranslation(m.position)
}

// Tick advances the machine by dt seconds. Toggle edges and aim deltas are
// applied once, then dt is consumed in sub-steps that end on clip
// boundaries.
func (m *Machine) Tick(dt float64, in Input) {
	if in.CrouchToggle {
		m.crouched = !m.crouched
	}
	if in.AimToggle {
		m.aiming = !m.aiming
	}
	if m.aiming {
		m.pose.AddSpineAngles(in.AimDelta.X, in.AimDelta.Y)
	}

	remaining := dt
	for i := 1; ; i++ {
		remaining -= m.Step(remaining, in)
		if remaining <= 0 {
			break
		}
		if i >= MaxSubSteps {
			m.log.Warn("sub-step limit reached",
				zap.Stringer("state", m.state),
				zap.Float64("dropped", remaining))
			break
		}
	}
}

// Step runs one sub-step with up to remaining seconds and returns the time
// it consumed. Only DesiredSpeed and TurnRate of in are read; toggles are
// applied by Tick.
func (m *Machine) Step(remaining float64, in Input) float64 {
	delta := remaining
	speed := float64(in.DesiredSpeed)

	switch m.state {
	case Start:
		m.setState(StanceStart)
		delta = 0

	case StanceStart:
		m.play(ClipStance, 0)
		m.position.Y = 0
		m.setState(Stance)

	case Stance:
		switch {
		case m.crouched:
			m.play(ClipCrouch, crouchSpeed)
			m.setState(Crouch)
		case m.aiming:
			m.play(ClipRaise, raiseSpeed)
			m.setState(BazookaRaise)
		case speed > 0:
			m.play(ClipWalkStart, walkStartSpeed)
			m.setState(WalkStart)
		}

	case StrafeStart:
		if left := m.player().Remaining(); delta > left {
			delta = left
			m.setState(StanceStart)
		}

	case WalkStart, WalkLoop:
		p := m.player()
		if left := p.Remaining(); delta > left {
			delta = left
			m.setState(WalkLoopStart)
		}
		if speed == 0 || m.crouched || m.aiming {
			delta = 0
			m.setState(StanceStart)
		} else {
			p.SetSpeed(speed)
		}

	case WalkLoopStart:
		m.play(ClipWalkLoop, speed)
		m.position.Y = 0
		m.setState(WalkLoop)

	case Crouch:
		// The crouch clip is a crouch and stand up; half way through the
		// character is down and the rest plays out in one step.
		p := m.player()
		if delta > p.Clip().Duration/2-p.Time() {
			delta = p.Remaining()
			p.SetSpeed(0)
			m.crouched = false
			m.setState(StanceStart)
		}

	case BazookaRaise:
		if left := m.player().Remaining(); delta > left {
			delta = left
			m.pose.SetSpineAim(true)
			m.setState(BazookaUp)
		}

	case BazookaUp:
		if !m.aiming {
			m.pose.SetSpineAim(false)
			m.pose.SetSpineAngles(0, 0)
			m.play(ClipLower, lowerSpeed)
			m.setState(BazookaLower)
		}

	case BazookaLower:
		if left := m.player().Remaining(); delta > left {
			delta = left
			m.setState(StanceStart)
		}
	}

	if !m.aiming {
		m.orientation += in.TurnRate * float32(delta)
	}

	m.pose.Update(delta)
	m.integrate()

	return delta
}

// integrate applies the pose's root motion to the placement and runs the
// floor plan and door checks on the candidate position.
func (m *Machine) integrate() {
	rm := m.pose.RootMotion()

	newOrientation := m.orientation + heading(rm.Delta)

	// The clip may be authored facing another way than the character
	// currently faces; re-express its displacement in the live heading.
	actual := heading(m.pose.RootReference())
	step := math.RotateY(newOrientation - actual).TransformDirection(rm.DeltaTranslation)
	candidate := m.position.Add(step)

	name, ok := m.level.Regions.ClassifyVec3(candidate)
	m.region = name
	m.updateHazard(name)

	collision := false
	if !ok {
		collision = true
	} else if id, isDoor := m.level.Regions.DoorID(name); isDoor {
		doors := m.level.Doors
		open, under := doors.ShouldBeOpen(id, m.position, m.transform.Backward())
		if open {
			doors.SetOpenDoor(id)
		} else {
			doors.SetOpenDoor(0)
		}
		if under && !doors.IsOpen(id) {
			collision = true
		}
	} else if m.level.Doors.OpenDoor() > 0 {
		m.level.Doors.SetOpenDoor(0)
	}

	if collision {
		m.log.Debug("move rejected",
			zap.String("region", name),
			zap.Float32("x", candidate.X),
			zap.Float32("z", candidate.Z))
	} else {
		m.position = candidate
	}
	m.orientation = newOrientation
	m.updateTransform()
}

func (m *Machine) updateHazard(name string) {
	h := m.level.Hazard
	if h == nil {
		return
	}
	if !h.Slimed() && name == m.level.SlimeEnter {
		h.SetSlimed(true)
	} else if h.Slimed() && name == m.level.SlimeExit {
		h.SetSlimed(false)
	}
}

func (m *Machine) play(id ClipID, speed float64) {
	m.pose.Play(m.clips.Get(id)).SetSpeed(speed)
}

func (m *Machine) player() *anim.Player {
	return m.pose.Player()
}

func (m *Machine) setState(s State) {
	if s == m.state {
		return
	}
	m.log.Debug("state", zap.Stringer("from", m.state), zap.Stringer("to", s))
	m.state = s
}

// heading returns the yaw of a transform's backward axis.
func heading(t math.Mat4) float32 {
	b := t.Backward()
	return float32(gomath.Atan2(float64(b.X), float64(b.Z)))
}
