// Package savegame persists the character's placement between runs using
// per-user application storage.
package savegame

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/prisonstep/internal/logger"
	"github.com/Faultbox/prisonstep/pkg/math"
)

const (
	placementObject   = "character"
	placementProperty = "placement"
)

// Placement is the saved character state.
type Placement struct {
	Position    [3]float32 `yaml:"position"`
	Orientation float32    `yaml:"orientation"`
	Region      string     `yaml:"region,omitempty"`
	OpenDoor    int        `yaml:"open_door,omitempty"`
}

// PositionVec3 returns Position as a vector.
func (p Placement) PositionVec3() math.Vec3 {
	return math.Vec3{X: p.Position[0], Y: p.Position[1], Z: p.Position[2]}
}

// Store reads and writes placements. A Store without a backing manager keeps
// the last saved placement in memory only.
type Store struct {
	mgr    *gdata.Manager
	memory *Placement
	log    *zap.Logger
}

// Open opens the store for appName. When enabled is false, or the platform
// storage cannot be opened, the store falls back to memory-only mode and the
// open error (if any) is returned alongside a usable store.
func Open(appName string, enabled bool) (*Store, error) {
	s := &Store{log: logger.Named("savegame")}
	if !enabled {
		return s, nil
	}
	mgr, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return s, fmt.Errorf("opening save storage: %w", err)
	}
	s.mgr = mgr
	return s, nil
}

// NewStore wraps an existing manager. mgr may be nil.
func NewStore(mgr *gdata.Manager) *Store {
	return &Store{mgr: mgr, log: logger.Named("savegame")}
}

// Persistent reports whether saves survive the process.
func (s *Store) Persistent() bool {
	return s.mgr != nil
}

// Load returns the saved placement. ok is false when nothing was saved yet.
func (s *Store) Load() (p Placement, ok bool, err error) {
	if s.mgr == nil {
		if s.memory == nil {
			return Placement{}, false, nil
		}
		return *s.memory, true, nil
	}

	if !s.mgr.ObjectPropExists(placementObject, placementProperty) {
		return Placement{}, false, nil
	}
	data, err := s.mgr.LoadObjectProp(placementObject, placementProperty)
	if err != nil {
		return Placement{}, false, fmt.Errorf("failed to load placement: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Placement{}, false, fmt.Errorf("failed to unmarshal placement: %w", err)
	}
	return p, true, nil
}

// Save stores p.
func (s *Store) Save(p Placement) error {
	if s.mgr == nil {
		s.memory = &p
		return nil
	}

	data, err := yaml.Marshal(&p)
	if err != nil {
		return fmt.Errorf("failed to marshal placement: %w", err)
	}
	if err := s.mgr.SaveObjectProp(placementObject, placementProperty, data); err != nil {
		return fmt.Errorf("failed to save placement: %w", err)
	}
	s.log.Debug("placement saved",
		zap.Float32("x", p.Position[0]),
		zap.Float32("z", p.Position[2]),
		zap.String("region", p.Region))
	return nil
}
