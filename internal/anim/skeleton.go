// Package anim holds the skeleton, clip and player types and the skinned
// pose evaluator that turns a playing clip into bone transforms, root motion
// and skinning matrices.
package anim

import (
	"fmt"

	"github.com/Faultbox/prisonstep/pkg/math"
)

// NoParent marks a bone without a parent.
const NoParent = -1

// Bone is one joint of the bind-pose hierarchy. Bones are immutable once
// the skeleton is built.
type Bone struct {
	Name      string
	Parent    int
	BindLocal math.Mat4

	// Derived by NewSkeleton.
	Index               int
	BindAbsolute        math.Mat4
	InverseBindAbsolute math.Mat4
}

// Skeleton is an index-addressed bone hierarchy with a designated root bone
// that carries root motion.
type Skeleton struct {
	Bones    []Bone
	RootBone int

	byName map[string]int
}

// NewSkeleton validates the hierarchy and derives bind-absolute transforms.
// Parents must precede their children so absolutes can be computed in one
// forward pass.
func NewSkeleton(bones []Bone, rootBone int) (*Skeleton, error) {
	if len(bones) == 0 {
		return nil, fmt.Errorf("skeleton has no bones")
	}
	if rootBone < 0 || rootBone >= len(bones) {
		return nil, fmt.Errorf("root bone %d out of range [0, %d)", rootBone, len(bones))
	}

	s := &Skeleton{
		Bones:    make([]Bone, len(bones)),
		RootBone: rootBone,
		byName:   make(map[string]int, len(bones)),
	}
	copy(s.Bones, bones)

	for i := range s.Bones {
		b := &s.Bones[i]
		b.Index = i
		switch {
		case b.Parent == NoParent:
			b.BindAbsolute = b.BindLocal
		case b.Parent < 0 || b.Parent >= i:
			return nil, fmt.Errorf("bone %d (%q): parent %d must precede it", i, b.Name, b.Parent)
		default:
			b.BindAbsolute = s.Bones[b.Parent].BindAbsolute.Mul(b.BindLocal)
		}
		b.InverseBindAbsolute = b.BindAbsolute.Inverse()

		if b.Name != "" {
			if prev, dup := s.byName[b.Name]; dup {
				return nil, fmt.Errorf("bone %d: name %q already used by bone %d", i, b.Name, prev)
			}
			s.byName[b.Name] = i
		}
	}

	return s, nil
}

// BoneCount returns the number of bones.
func (s *Skeleton) BoneCount() int {
	return len(s.Bones)
}

// LookupBone returns the index of the named bone.
func (s *Skeleton) LookupBone(name string) (int, bool) {
	i, ok := s.byName[name]
	return i, ok
}

// BoneIndex returns the index of the named bone and panics if there is none.
// Resolve names once at load time, not per frame.
func (s *Skeleton) BoneIndex(name string) int {
	i, ok := s.byName[name]
	if !ok {
		panic(fmt.Sprintf("anim: skeleton has no bone %q", name))
	}
	return i
}
