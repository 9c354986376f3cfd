package assets

import (
	"fmt"
	"path"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/prisonstep/internal/anim"
	"github.com/Faultbox/prisonstep/pkg/math"
)

// rigFile is the YAML rig format: a bind-pose skeleton, an optional skin
// palette, and clips inline or in separate clip files.
type rigFile struct {
	RootBone  string     `yaml:"root_bone"`
	Bones     []boneDef  `yaml:"bones"`
	Skin      []string   `yaml:"skin"`
	Clips     []clipFile `yaml:"clips"`
	ClipFiles []string   `yaml:"clip_files"`
}

type boneDef struct {
	Name        string      `yaml:"name"`
	Parent      string      `yaml:"parent"`
	Translation [3]float32  `yaml:"translation"`
	Rotation    *[4]float32 `yaml:"rotation"` // x, y, z, w
	Scale       *[3]float32 `yaml:"scale"`
}

type clipFile struct {
	Name     string     `yaml:"name"`
	Duration float64    `yaml:"duration"`
	Tracks   []trackDef `yaml:"tracks"`
}

type trackDef struct {
	Bone string   `yaml:"bone"`
	Keys []keyDef `yaml:"keys"`
}

type keyDef struct {
	Time        float64    `yaml:"t"`
	Rotation    [4]float32 `yaml:"r"`
	Translation [3]float32 `yaml:"p"`
}

// LoadRig loads a rig file and every clip file it references. Clip file
// paths are relative to the rig file.
func (m *Manager) LoadRig(name string) (*anim.Rig, error) {
	data, err := m.Load(name)
	if err != nil {
		return nil, fmt.Errorf("loading rig: %w", err)
	}

	var rf rigFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing rig %s: %w", name, err)
	}

	for _, cf := range rf.ClipFiles {
		clipPath := path.Join(path.Dir(name), cf)
		data, err := m.Load(clipPath)
		if err != nil {
			return nil, fmt.Errorf("loading clips for rig %s: %w", name, err)
		}
		var clips []clipFile
		if err := yaml.Unmarshal(data, &clips); err != nil {
			return nil, fmt.Errorf("parsing clips %s: %w", clipPath, err)
		}
		rf.Clips = append(rf.Clips, clips...)
	}

	rig, err := buildRig(&rf)
	if err != nil {
		return nil, fmt.Errorf("rig %s: %w", name, err)
	}
	return rig, nil
}

func buildRig(rf *rigFile) (*anim.Rig, error) {
	index := make(map[string]int, len(rf.Bones))
	for i, b := range rf.Bones {
		if b.Name == "" {
			return nil, fmt.Errorf("bone %d has no name", i)
		}
		index[b.Name] = i
	}

	bones := make([]anim.Bone, len(rf.Bones))
	for i, b := range rf.Bones {
		parent := anim.NoParent
		if b.Parent != "" {
			p, ok := index[b.Parent]
			if !ok {
				return nil, fmt.Errorf("bone %q: unknown parent %q", b.Name, b.Parent)
			}
			parent = p
		}
		bones[i] = anim.Bone{Name: b.Name, Parent: parent, BindLocal: b.bindLocal()}
	}

	skinBones := make([]int, len(rf.Skin))
	for slot, name := range rf.Skin {
		b, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("skin slot %d: unknown bone %q", slot, name)
		}
		skinBones[slot] = b
	}

	// The root defaults to the first palette bone, else the first bone.
	root := 0
	switch {
	case rf.RootBone != "":
		r, ok := index[rf.RootBone]
		if !ok {
			return nil, fmt.Errorf("unknown root bone %q", rf.RootBone)
		}
		root = r
	case len(skinBones) > 0:
		root = skinBones[0]
	}

	skel, err := anim.NewSkeleton(bones, root)
	if err != nil {
		return nil, err
	}

	var skin *anim.SkinMapping
	if len(skinBones) > 0 {
		skin, err = anim.NewSkinMapping(skel, skinBones)
		if err != nil {
			return nil, err
		}
	}

	clips := make(map[string]*anim.Clip, len(rf.Clips))
	for _, cf := range rf.Clips {
		if _, dup := clips[cf.Name]; dup {
			return nil, fmt.Errorf("clip %q defined twice", cf.Name)
		}
		clip, err := cf.build(index, len(bones))
		if err != nil {
			return nil, err
		}
		clips[cf.Name] = clip
	}

	return &anim.Rig{Skeleton: skel, Skin: skin, Clips: clips}, nil
}

func (b *boneDef) bindLocal() math.Mat4 {
	rot := math.QuatIdentity()
	if b.Rotation != nil {
		r := b.Rotation
		rot = math.Quat{X: r[0], Y: r[1], Z: r[2], W: r[3]}.Normalize()
	}
	scale := [3]float32{1, 1, 1}
	if b.Scale != nil {
		scale = *b.Scale
	}
	return math.Translate(b.Translation[0], b.Translation[1], b.Translation[2]).
		Mul(rot.ToMat4()).
		Mul(math.Scale(scale[0], scale[1], scale[2]))
}

func (cf *clipFile) build(index map[string]int, boneCount int) (*anim.Clip, error) {
	if cf.Name == "" {
		return nil, fmt.Errorf("clip without a name")
	}
	if cf.Duration < 0 {
		return nil, fmt.Errorf("clip %q: negative duration", cf.Name)
	}

	clip := &anim.Clip{
		Name:     cf.Name,
		Duration: cf.Duration,
		Tracks:   make([]*anim.Track, boneCount),
	}
	for _, td := range cf.Tracks {
		b, ok := index[td.Bone]
		if !ok {
			return nil, fmt.Errorf("clip %q: unknown bone %q", cf.Name, td.Bone)
		}
		keys := make([]anim.Keyframe, len(td.Keys))
		for i, k := range td.Keys {
			keys[i] = anim.Keyframe{
				Time:        k.Time,
				Rotation:    math.Quat{X: k.Rotation[0], Y: k.Rotation[1], Z: k.Rotation[2], W: k.Rotation[3]}.Normalize(),
				Translation: math.Vec3{X: k.Translation[0], Y: k.Translation[1], Z: k.Translation[2]},
			}
		}
		sort.SliceStable(keys, func(i, j int) bool { return keys[i].Time < keys[j].Time })
		clip.Tracks[b] = &anim.Track{Keys: keys}
	}
	return clip, nil
}
