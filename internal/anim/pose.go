package anim

import (
	"github.com/Faultbox/prisonstep/pkg/math"
)

// Spine aim limits in radians.
const (
	SpineLimitX = 1.2
	SpineLimitZ = 0.5
)

// RootMotion is the motion the root bone's track produced during the last
// Update. The root bone itself stays at bind pose; callers apply this to the
// character's world placement instead.
type RootMotion struct {
	// Delta is the change of the raw root transform: new * inverse(previous).
	Delta math.Mat4
	// DeltaTranslation is new.T - previous.T in model space.
	DeltaTranslation math.Vec3

	previousRaw math.Mat4
}

// Pose evaluates one skeleton instance: it owns the per-frame local and
// absolute buffers, the active player, root-motion state and the skinning
// palette.
type Pose struct {
	skel *Skeleton
	skin *SkinMapping

	bindScale []math.Vec3
	local     []math.Mat4
	absolute  []math.Mat4
	skins     [MaxSkinMatrices]math.Mat4

	player *Player
	root   RootMotion

	spineBone int
	spineAim  bool
	spineX    float32
	spineZ    float32
}

// NewPose creates an evaluator at bind pose. skin may be nil when the mesh
// is not skinned.
func NewPose(skel *Skeleton, skin *SkinMapping) *Pose {
	n := skel.BoneCount()
	p := &Pose{
		skel:      skel,
		skin:      skin,
		bindScale: make([]math.Vec3, n),
		local:     make([]math.Mat4, n),
		absolute:  make([]math.Mat4, n),
		spineBone: -1,
	}
	for i := range skel.Bones {
		// Clips carry rotation and translation only; keep any scale baked
		// into the bind pose.
		p.bindScale[i] = skel.Bones[i].BindLocal.BasisScale()
		p.local[i] = skel.Bones[i].BindLocal
		p.absolute[i] = skel.Bones[i].BindAbsolute
	}
	for i := range p.skins {
		p.skins[i] = math.Identity()
	}
	p.root.Delta = math.Identity()
	p.root.previousRaw = math.Identity()
	p.updateSkins()
	return p
}

// Skeleton returns the skeleton being posed.
func (p *Pose) Skeleton() *Skeleton {
	return p.skel
}

// Player returns the active player, or nil when no clip is playing.
func (p *Pose) Player() *Player {
	return p.player
}

// Play replaces the active player with a new one for clip and evaluates
// once with zero delta, so the next Update measures root motion from the
// clip's first frame. A nil clip stops playback.
func (p *Pose) Play(clip *Clip) *Player {
	p.player = nil
	if clip != nil {
		p.player = NewPlayer(clip)
	}
	p.Update(0)
	return p.player
}

// SetSpineBone designates the bone the aim overlay rotates. -1 disables it.
func (p *Pose) SetSpineBone(bone int) {
	p.spineBone = bone
}

// SetSpineAim enables or disables the aim overlay.
func (p *Pose) SetSpineAim(enabled bool) {
	p.spineAim = enabled
}

// SpineAimEnabled reports whether the aim overlay is active.
func (p *Pose) SpineAimEnabled() bool {
	return p.spineAim
}

// SpineAngles returns the current aim angles.
func (p *Pose) SpineAngles() (x, z float32) {
	return p.spineX, p.spineZ
}

// SetSpineAngles sets the aim angles. They are clamped on the next Update.
func (p *Pose) SetSpineAngles(x, z float32) {
	p.spineX, p.spineZ = x, z
}

// AddSpineAngles nudges the aim angles.
func (p *Pose) AddSpineAngles(dx, dz float32) {
	p.spineX += dx
	p.spineZ += dz
}

// Update advances the active player by delta seconds and recomputes local,
// absolute and skinning transforms.
func (p *Pose) Update(delta float64) {
	if p.player != nil {
		p.player.advance(delta)
		p.sampleClip()
		p.extractRootMotion()
	} else {
		for b := range p.skel.Bones {
			p.local[b] = p.skel.Bones[b].BindLocal
		}
		p.root.Delta = math.Identity()
		p.root.DeltaTranslation = math.Vec3{}
	}

	if p.spineAim && p.spineBone >= 0 {
		p.applySpineAim()
	}

	p.updateAbsolutes()
	p.updateSkins()
}

func (p *Pose) sampleClip() {
	clip := p.player.clip
	t := p.player.time
	for b := range p.skel.Bones {
		track := clip.Track(b)
		if track == nil {
			p.local[b] = p.skel.Bones[b].BindLocal
			continue
		}
		rot, trans := track.Sample(t)
		s := p.bindScale[b]
		p.local[b] = math.TranslateVec3(trans).
			Mul(rot.ToMat4()).
			Mul(math.Scale(s.X, s.Y, s.Z))
	}
}

// extractRootMotion moves the root bone's clip motion into p.root and pins
// the root bone back to bind pose.
func (p *Pose) extractRootMotion() {
	r := p.skel.RootBone
	raw := p.local[r]

	p.root.Delta = raw.Mul(p.root.previousRaw.Inverse())
	p.root.DeltaTranslation = raw.Translation().Sub(p.root.previousRaw.Translation())
	p.root.previousRaw = raw

	p.local[r] = p.skel.Bones[r].BindLocal
}

func (p *Pose) applySpineAim() {
	p.spineX = clamp(p.spineX, -SpineLimitX, SpineLimitX)
	p.spineZ = clamp(p.spineZ, -SpineLimitZ, SpineLimitZ)

	b := p.spineBone
	p.local[b] = p.skel.Bones[b].BindLocal.
		Mul(math.RotateZ(p.spineZ)).
		Mul(math.RotateX(p.spineX))
}

func (p *Pose) updateAbsolutes() {
	for b := range p.skel.Bones {
		parent := p.skel.Bones[b].Parent
		if parent == NoParent {
			p.absolute[b] = p.local[b]
			continue
		}
		p.absolute[b] = p.absolute[parent].Mul(p.local[b])
	}
}

func (p *Pose) updateSkins() {
	if p.skin == nil {
		return
	}
	for slot, b := range p.skin.Bones {
		p.skins[slot] = p.absolute[b].Mul(p.skin.InverseBind[slot])
	}
}

// RootMotion returns the root motion extracted by the last Update.
func (p *Pose) RootMotion() RootMotion {
	return p.root
}

// RootReference returns the raw root transform relative to the root's bind
// pose. Its facing tells how the clip is oriented in model space.
func (p *Pose) RootReference() math.Mat4 {
	r := p.skel.RootBone
	return p.root.previousRaw.Mul(p.skel.Bones[r].InverseBindAbsolute)
}

// Local returns the current local transform of bone b.
func (p *Pose) Local(b int) math.Mat4 {
	return p.local[b]
}

// Absolute returns the current model-space transform of bone b.
func (p *Pose) Absolute(b int) math.Mat4 {
	return p.absolute[b]
}

// SkinMatrices returns the skinning palette. Slots past the mapping hold
// identity. The slice aliases the pose's buffer.
func (p *Pose) SkinMatrices() []math.Mat4 {
	return p.skins[:]
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
