package locomotion

import (
	"fmt"

	"github.com/Faultbox/prisonstep/internal/anim"
)

// ClipID names a clip the state machine plays.
type ClipID uint8

// Clip ids.
const (
	ClipStance ClipID = iota
	ClipCrouch
	ClipRaise
	ClipLower
	ClipWalkStart
	ClipWalkLoop

	clipCount
)

// String returns the clip id name.
func (id ClipID) String() string {
	switch id {
	case ClipStance:
		return "Stance"
	case ClipCrouch:
		return "Crouch"
	case ClipRaise:
		return "Raise"
	case ClipLower:
		return "Lower"
	case ClipWalkStart:
		return "WalkStart"
	case ClipWalkLoop:
		return "WalkLoop"
	default:
		return fmt.Sprintf("Unknown(%d)", id)
	}
}

// DefaultClipNames maps clip ids to the clip names of the bazooka rig. The
// stance is the first frame of the raise clip held at speed 0.
func DefaultClipNames() map[ClipID]string {
	return map[ClipID]string{
		ClipStance:    "raisebazooka",
		ClipCrouch:    "crouchbazooka",
		ClipRaise:     "raisebazooka",
		ClipLower:     "lowerbazooka",
		ClipWalkStart: "walkstartbazooka",
		ClipWalkLoop:  "walkloopbazooka",
	}
}

// Clips is the resolved clip table.
type Clips [clipCount]*anim.Clip

// Get returns the clip bound to id.
func (c *Clips) Get(id ClipID) *anim.Clip {
	return c[id]
}

// BindClips resolves every clip id against a loaded clip library. names
// overrides DefaultClipNames entry by entry; nil uses the defaults.
func BindClips(library map[string]*anim.Clip, names map[ClipID]string) (Clips, error) {
	resolved := DefaultClipNames()
	for id, name := range names {
		resolved[id] = name
	}

	var clips Clips
	for id := ClipID(0); id < clipCount; id++ {
		name := resolved[id]
		clip, ok := library[name]
		if !ok || clip == nil {
			return Clips{}, fmt.Errorf("clip %s: %q not in library", id, name)
		}
		clips[id] = clip
	}
	return clips, nil
}
