// Package sim runs the level and the character without a window, so tools
// and tests can drive the game headless.
package sim

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/prisonstep/internal/anim"
	"github.com/Faultbox/prisonstep/internal/assets"
	"github.com/Faultbox/prisonstep/internal/character"
	"github.com/Faultbox/prisonstep/internal/config"
	"github.com/Faultbox/prisonstep/internal/door"
	"github.com/Faultbox/prisonstep/internal/engine/camera"
	"github.com/Faultbox/prisonstep/internal/locomotion"
	"github.com/Faultbox/prisonstep/internal/logger"
	"github.com/Faultbox/prisonstep/internal/region"
	"github.com/Faultbox/prisonstep/internal/savegame"
	"github.com/Faultbox/prisonstep/internal/scene"
	"github.com/Faultbox/prisonstep/pkg/math"
)

// Sim is the windowless part of the game: the level, the character and the
// follow camera, advanced one tick at a time.
type Sim struct {
	Scene     *scene.Scene
	Character *character.Character
	Regions   *region.Map
	Camera    *camera.Camera
	Follow    *camera.Follow

	store *savegame.Store
	log   *zap.Logger
}

// Load loads the rig and collision mesh named by cfg and builds a Sim.
func Load(cfg *config.Config, content *assets.Manager, store *savegame.Store) (*Sim, error) {
	rig, err := content.LoadRig(cfg.Content.Rig)
	if err != nil {
		return nil, err
	}
	regions, err := content.LoadRegions(cfg.Content.Collision, cfg.Level.WallPrefix, cfg.Level.DoorPrefix)
	if err != nil {
		return nil, err
	}
	return New(cfg, rig, regions, store)
}

// New builds a Sim from loaded content. store may be nil. A saved
// placement is restored when it still lands on the floor plan.
func New(cfg *config.Config, rig *anim.Rig, regions *region.Map, store *savegame.Store) (*Sim, error) {
	s := &Sim{
		Regions: regions,
		store:   store,
		log:     logger.Named("sim"),
	}

	doors := make([]door.Door, len(cfg.Level.Doors))
	ids := make([]int, len(cfg.Level.Doors))
	for i, d := range cfg.Level.Doors {
		doors[i] = door.Door{ID: d.ID, Center: vec3(d.Center), Axis: vec3(d.Axis)}
		ids[i] = d.ID
	}
	s.Scene = scene.New(ids)
	s.Scene.SetDoorRate(cfg.Level.DoorRate)

	var err error
	s.Character, err = character.New(rig, character.Environment{
		Regions:    regions,
		Doors:      doors,
		DoorModel:  s.Scene,
		Hazard:     s.Scene,
		SlimeEnter: cfg.Level.SlimeEnter,
		SlimeExit:  cfg.Level.SlimeExit,
	}, character.Config{
		Position:    vec3(cfg.Character.Position),
		Orientation: cfg.Character.Orientation,
		SpineBone:   cfg.Character.SpineBone,
		WeaponBone:  cfg.Character.WeaponBone,
	})
	if err != nil {
		return nil, fmt.Errorf("creating character: %w", err)
	}

	s.restore()

	c := cfg.Camera
	s.Camera = camera.New(c.FOV, c.Near, c.Far, cfg.Window.Width, cfg.Window.Height)
	s.Follow = camera.NewFollow(c.Follow(), regions, s.Scene)

	s.log.Info("simulation ready",
		zap.Int("regions", regions.Len()),
		zap.Int("doors", len(doors)),
		zap.Strings("clips", rig.ClipNames()),
		zap.String("region", s.Character.Region()))
	return s, nil
}

// Tick advances the character, then the level, then the camera.
func (s *Sim) Tick(dt float64, in locomotion.Input) {
	s.Character.Update(dt, in)
	s.Scene.Update(dt)
	s.Follow.Update(s.Camera, s.Character.World(), s.Character.Region())
}

// Placement snapshots what Save writes.
func (s *Sim) Placement() savegame.Placement {
	p := s.Character.Position()
	return savegame.Placement{
		Position:    [3]float32{p.X, p.Y, p.Z},
		Orientation: s.Character.Orientation(),
		Region:      s.Character.Region(),
		OpenDoor:    s.Character.Doors().OpenDoor(),
	}
}

// Save persists the character placement.
func (s *Sim) Save() error {
	if s.store == nil {
		return nil
	}
	return s.store.Save(s.Placement())
}

func (s *Sim) restore() {
	if s.store == nil {
		return
	}
	p, ok, err := s.store.Load()
	if err != nil {
		s.log.Warn("ignoring saved placement", zap.Error(err))
		return
	}
	if !ok {
		return
	}
	pos := p.PositionVec3()
	if _, onMap := s.Regions.ClassifyVec3(pos); !onMap {
		s.log.Warn("saved placement is off the floor plan",
			zap.Float32("x", pos.X), zap.Float32("z", pos.Z))
		return
	}
	s.Character.SetPlacement(pos, p.Orientation)
	if _, known := s.Character.Doors().Door(p.OpenDoor); known {
		s.Character.Doors().SetOpenDoor(p.OpenDoor)
	}
	s.log.Info("restored placement", zap.String("region", s.Character.Region()))
}

func vec3(v [3]float32) math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}
