package anim

import (
	"github.com/Faultbox/prisonstep/pkg/math"
)

// Keyframe is one sample of a bone track. Time is in seconds from clip start.
type Keyframe struct {
	Time        float64
	Rotation    math.Quat
	Translation math.Vec3
}

// Track is the time-sorted keyframe list for one bone.
type Track struct {
	Keys []Keyframe
}

// Clip is a named fixed-duration animation. Tracks is indexed by bone; a nil
// entry (or an index past the end) means the clip does not animate that bone.
type Clip struct {
	Name     string
	Duration float64
	Tracks   []*Track
}

// Track returns the track for bone b, or nil when b is not animated.
func (c *Clip) Track(b int) *Track {
	if b < 0 || b >= len(c.Tracks) {
		return nil
	}
	return c.Tracks[b]
}

// Sample returns the interpolated rotation and translation at time t.
// Times before the first key or after the last clamp to that key.
func (tr *Track) Sample(t float64) (math.Quat, math.Vec3) {
	keys := tr.Keys
	switch len(keys) {
	case 0:
		return math.QuatIdentity(), math.Vec3{}
	case 1:
		return keys[0].Rotation, keys[0].Translation
	}

	// Keys are sorted by time; find the last key at or before t.
	prev, next := 0, 0
	for i := range keys {
		if keys[i].Time > t {
			next = i
			break
		}
		prev = i
		next = i
	}

	if prev == next {
		k := keys[prev]
		return k.Rotation, k.Translation
	}

	k0, k1 := keys[prev], keys[next]
	f := float32(0)
	if span := k1.Time - k0.Time; span > 0 {
		f = float32((t - k0.Time) / span)
	}
	return k0.Rotation.Slerp(k1.Rotation, f), k0.Translation.Lerp(k1.Translation, f)
}
