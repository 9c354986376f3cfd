package anim

import (
	"fmt"

	"github.com/Faultbox/prisonstep/pkg/math"
)

// MaxSkinMatrices is the size of the skinning palette the skinned shader
// declares.
const MaxSkinMatrices = 57

// SkinMapping maps skinning palette slots to skeleton bones.
type SkinMapping struct {
	Bones []int
	// InverseBind[i] is the inverse bind-absolute transform of Bones[i].
	InverseBind []math.Mat4
}

// NewSkinMapping builds a mapping for the given slot → bone table.
func NewSkinMapping(skel *Skeleton, bones []int) (*SkinMapping, error) {
	if len(bones) > MaxSkinMatrices {
		return nil, fmt.Errorf("skin mapping has %d slots, palette holds %d", len(bones), MaxSkinMatrices)
	}

	m := &SkinMapping{
		Bones:       make([]int, len(bones)),
		InverseBind: make([]math.Mat4, len(bones)),
	}
	for slot, b := range bones {
		if b < 0 || b >= skel.BoneCount() {
			return nil, fmt.Errorf("skin slot %d: bone %d out of range", slot, b)
		}
		m.Bones[slot] = b
		m.InverseBind[slot] = skel.Bones[b].InverseBindAbsolute
	}
	return m, nil
}

// Len returns the number of mapped slots.
func (m *SkinMapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Bones)
}
