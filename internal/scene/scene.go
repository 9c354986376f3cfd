// Package scene holds the prison's mutable world state outside the
// character: the sliding doors and the slime flood.
package scene

import (
	"sort"
	"sync"
)

// Slime flood tuning.
const (
	SlimeRate = 2.5
	// SlimeLow is the level the flood sinks to while the character is
	// slimed; SlimeHigh is the resting level.
	SlimeLow  = -1.5
	SlimeHigh = 1.0
)

// DefaultDoorRate is how much of a door's travel is covered per second.
const DefaultDoorRate = 2.0

type doorModel struct {
	target bool
	// amount is 0 when shut and 1 when fully open.
	amount float32
}

// Scene is the door and slime state shared by the simulation and the
// renderer.
type Scene struct {
	mu sync.RWMutex

	doors    map[int]*doorModel
	doorRate float32

	slimed     bool
	slimeLevel float32
}

// New creates a scene with every listed door shut.
func New(doorIDs []int) *Scene {
	s := &Scene{
		doors:      make(map[int]*doorModel, len(doorIDs)),
		doorRate:   DefaultDoorRate,
		slimeLevel: SlimeHigh,
	}
	for _, id := range doorIDs {
		s.doors[id] = &doorModel{}
	}
	return s
}

// SetDoorRate changes how fast doors slide.
func (s *Scene) SetDoorRate(rate float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doorRate = rate
}

// IsDoorOpen reports whether door id has slid fully open.
func (s *Scene) IsDoorOpen(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.doors[id]
	return ok && d.amount >= 1
}

// SetDoorOpen starts door id sliding open or shut. Unknown ids are ignored.
func (s *Scene) SetDoorOpen(id int, open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.doors[id]; ok {
		d.target = open
	}
}

// DoorAmount returns how far open door id is, from 0 to 1.
func (s *Scene) DoorAmount(id int) float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.doors[id]; ok {
		return d.amount
	}
	return 0
}

// DoorIDs returns the door ids in ascending order.
func (s *Scene) DoorIDs() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int, 0, len(s.doors))
	for id := range s.doors {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Slimed reports whether the character has been slimed.
func (s *Scene) Slimed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slimed
}

// SetSlimed sets the slime flag.
func (s *Scene) SetSlimed(slimed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slimed = slimed
}

// SlimeLevel returns the current flood level.
func (s *Scene) SlimeLevel() float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slimeLevel
}

// Update slides doors toward their targets and moves the slime level.
func (s *Scene) Update(dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	step := s.doorRate * float32(dt)
	for _, d := range s.doors {
		if d.target {
			d.amount = min(d.amount+step, 1)
		} else {
			d.amount = max(d.amount-step, 0)
		}
	}

	// The level may overshoot the bounds by one step, as the flood
	// animation expects.
	rate := float32(dt) * SlimeRate
	if s.slimed && s.slimeLevel >= SlimeLow {
		s.slimeLevel -= rate
	} else if !s.slimed && s.slimeLevel < SlimeHigh {
		s.slimeLevel += rate
	}
}
