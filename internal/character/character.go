// Package character assembles the controllable prisoner: a posed rig, its
// locomotion state machine and door controller, and the weapon socket.
package character

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/prisonstep/internal/anim"
	"github.com/Faultbox/prisonstep/internal/door"
	"github.com/Faultbox/prisonstep/internal/locomotion"
	"github.com/Faultbox/prisonstep/internal/region"
	"github.com/Faultbox/prisonstep/pkg/math"
)

// Bone names of the prisoner rig.
const (
	DefaultSpineBone  = "Bip01 Spine1"
	DefaultWeaponBone = "Bip01 R Hand"
)

// Config places and rigs the character.
type Config struct {
	Position    math.Vec3
	Orientation float32

	SpineBone  string
	WeaponBone string

	// ClipNames overrides locomotion.DefaultClipNames.
	ClipNames map[locomotion.ClipID]string
}

// DefaultConfig returns the prisoner's start in the first cell block.
func DefaultConfig() Config {
	return Config{
		Position:    math.Vec3{X: 275, Y: 0, Z: 1053},
		Orientation: 1.6,
		SpineBone:   DefaultSpineBone,
		WeaponBone:  DefaultWeaponBone,
	}
}

// Environment is the level the character walks in.
type Environment struct {
	Regions   *region.Map
	Doors     []door.Door
	DoorModel door.Query
	Hazard    locomotion.Hazard

	SlimeEnter string
	SlimeExit  string
}

// Character is one animated, controllable character.
type Character struct {
	rig     *anim.Rig
	pose    *anim.Pose
	doors   *door.Controller
	machine *locomotion.Machine

	weaponBone   int
	weaponOffset math.Mat4
}

// New poses rig at its bind pose and places it per cfg.
func New(rig *anim.Rig, env Environment, cfg Config) (*Character, error) {
	if env.Regions == nil {
		return nil, fmt.Errorf("character: no region map")
	}

	spine, ok := rig.Skeleton.LookupBone(cfg.SpineBone)
	if !ok {
		return nil, fmt.Errorf("character: spine bone %q not in skeleton", cfg.SpineBone)
	}
	weapon, ok := rig.Skeleton.LookupBone(cfg.WeaponBone)
	if !ok {
		return nil, fmt.Errorf("character: weapon bone %q not in skeleton", cfg.WeaponBone)
	}

	clips, err := locomotion.BindClips(rig.Clips, cfg.ClipNames)
	if err != nil {
		return nil, fmt.Errorf("character: %w", err)
	}

	doors, err := door.NewController(env.Doors, env.DoorModel)
	if err != nil {
		return nil, fmt.Errorf("character: %w", err)
	}
	for _, name := range env.Regions.Names() {
		if id, isDoor := env.Regions.DoorID(name); isDoor {
			if _, known := doors.Door(id); !known {
				return nil, fmt.Errorf("character: region %q has no door %d", name, id)
			}
		}
	}

	pose := anim.NewPose(rig.Skeleton, rig.Skin)
	pose.SetSpineBone(spine)

	machine := locomotion.NewMachine(pose, clips, locomotion.Level{
		Regions:    env.Regions,
		Doors:      doors,
		Hazard:     env.Hazard,
		SlimeEnter: env.SlimeEnter,
		SlimeExit:  env.SlimeExit,
	}, cfg.Position, cfg.Orientation)

	return &Character{
		rig:          rig,
		pose:         pose,
		doors:        doors,
		machine:      machine,
		weaponBone:   weapon,
		weaponOffset: WeaponOffset(),
	}, nil
}

// WeaponOffset is the bazooka's placement relative to the right hand bone.
func WeaponOffset() math.Mat4 {
	return math.Translate(-9.6, 11.85, 21.1).
		Mul(math.RotateZ(radians(72.9))).
		Mul(math.RotateY(radians(9.7))).
		Mul(math.RotateX(radians(109.5)))
}

func radians(deg float64) float32 {
	return float32(deg * gomath.Pi / 180)
}

// Update runs one simulation tick.
func (c *Character) Update(dt float64, in locomotion.Input) {
	c.machine.Tick(dt, in)
}

// World returns the character's world transform.
func (c *Character) World() math.Mat4 {
	return c.machine.Transform()
}

// WeaponTransform returns the world transform of the held weapon.
func (c *Character) WeaponTransform() math.Mat4 {
	return c.World().Mul(c.pose.Absolute(c.weaponBone)).Mul(c.weaponOffset)
}

// SkinMatrices returns the skinning palette for the renderer.
func (c *Character) SkinMatrices() []math.Mat4 {
	return c.pose.SkinMatrices()
}

// Position returns the world position.
func (c *Character) Position() math.Vec3 {
	return c.machine.Position()
}

// Orientation returns the heading in radians.
func (c *Character) Orientation() float32 {
	return c.machine.Orientation()
}

// Region returns the region name the character last moved into.
func (c *Character) Region() string {
	return c.machine.Region()
}

// State returns the locomotion state.
func (c *Character) State() locomotion.State {
	return c.machine.State()
}

// SetPlacement teleports the character.
func (c *Character) SetPlacement(position math.Vec3, orientation float32) {
	c.machine.SetPlacement(position, orientation)
}

// Rig returns the loaded rig.
func (c *Character) Rig() *anim.Rig {
	return c.rig
}

// Pose returns the pose evaluator.
func (c *Character) Pose() *anim.Pose {
	return c.pose
}

// Doors returns the door controller.
func (c *Character) Doors() *door.Controller {
	return c.doors
}
