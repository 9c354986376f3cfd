package anim

import (
	"fmt"
	"sort"
)

// Rig is everything loaded for one skinned character: its skeleton, the
// skin palette mapping and the clip library by name.
type Rig struct {
	Skeleton *Skeleton
	Skin     *SkinMapping
	Clips    map[string]*Clip
}

// Clip returns the named clip and panics when the rig has none.
func (r *Rig) Clip(name string) *Clip {
	c, ok := r.Clips[name]
	if !ok {
		panic(fmt.Sprintf("anim: rig has no clip %q", name))
	}
	return c
}

// ClipNames returns the clip names sorted.
func (r *Rig) ClipNames() []string {
	names := make([]string, 0, len(r.Clips))
	for name := range r.Clips {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
