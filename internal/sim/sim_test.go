package sim

import (
	gomath "math"
	"testing"
	"testing/fstest"

	"github.com/Faultbox/prisonstep/internal/anim"
	"github.com/Faultbox/prisonstep/internal/assets"
	"github.com/Faultbox/prisonstep/internal/config"
	"github.com/Faultbox/prisonstep/internal/locomotion"
	"github.com/Faultbox/prisonstep/internal/region"
	"github.com/Faultbox/prisonstep/internal/savegame"
	"github.com/Faultbox/prisonstep/pkg/math"
)

func testRig(t *testing.T) *anim.Rig {
	t.Helper()
	skel, err := anim.NewSkeleton([]anim.Bone{
		{Name: "Bip01", Parent: anim.NoParent, BindLocal: math.Identity()},
		{Name: "Bip01 Spine1", Parent: 0, BindLocal: math.Translate(0, 100, 0)},
		{Name: "Bip01 R Hand", Parent: 1, BindLocal: math.Translate(-20, 30, 0)},
	}, 0)
	if err != nil {
		t.Fatalf("NewSkeleton: %v", err)
	}
	skin, err := anim.NewSkinMapping(skel, []int{0, 1, 2})
	if err != nil {
		t.Fatalf("NewSkinMapping: %v", err)
	}
	clips := make(map[string]*anim.Clip)
	for _, name := range locomotion.DefaultClipNames() {
		clips[name] = &anim.Clip{Name: name, Duration: 1}
	}
	return &anim.Rig{Skeleton: skel, Skin: skin, Clips: clips}
}

// testRegions covers x 0..500, z 900..1200 with one floor region.
func testRegions() *region.Map {
	return region.NewBuilder().
		Add("R_Section1", region.Triangle{{X: 0, Y: 900}, {X: 500, Y: 900}, {X: 500, Y: 1200}}).
		Add("R_Section1", region.Triangle{{X: 0, Y: 900}, {X: 500, Y: 1200}, {X: 0, Y: 1200}}).
		Build()
}

func newTestSim(t *testing.T, store *savegame.Store) *Sim {
	t.Helper()
	s, err := New(config.Default(), testRig(t), testRegions(), store)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNew(t *testing.T) {
	s := newTestSim(t, nil)

	if got := s.Character.Position(); got != (math.Vec3{X: 275, Z: 1053}) {
		t.Errorf("Position = %+v, want start placement", got)
	}
	if s.Character.Region() != "R_Section1" {
		t.Errorf("Region = %q", s.Character.Region())
	}
	if ids := s.Scene.DoorIDs(); len(ids) != 5 {
		t.Errorf("DoorIDs = %v, want 5 doors", ids)
	}
	if s.Camera.FOV != 42 {
		t.Errorf("FOV = %v, want 42", s.Camera.FOV)
	}
}

func TestNew_BadBone(t *testing.T) {
	cfg := config.Default()
	cfg.Character.SpineBone = "Bip01 Neck"
	if _, err := New(cfg, testRig(t), testRegions(), nil); err == nil {
		t.Error("expected error for missing spine bone")
	}
}

func TestSim_Tick(t *testing.T) {
	s := newTestSim(t, nil)

	s.Tick(1.0/60, locomotion.Input{})

	if s.Character.State() != locomotion.Stance {
		t.Errorf("State = %v, want Stance", s.Character.State())
	}
	if s.Follow.Distance != 160 {
		t.Errorf("camera pullback = %v, want 160", s.Follow.Distance)
	}
	if s.Camera.Eye.Y != 200 {
		t.Errorf("camera eye height = %v, want 200", s.Camera.Eye.Y)
	}
}

func TestSim_SaveRestore(t *testing.T) {
	store := savegame.NewStore(nil)

	s := newTestSim(t, store)
	s.Character.SetPlacement(math.Vec3{X: 100, Z: 1000}, 0.25)
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	restored := newTestSim(t, store)
	if got := restored.Character.Position(); got != (math.Vec3{X: 100, Z: 1000}) {
		t.Errorf("restored Position = %+v", got)
	}
	if got := restored.Character.Orientation(); got != 0.25 {
		t.Errorf("restored Orientation = %v", got)
	}
}

func TestSim_RestoreOffMap(t *testing.T) {
	store := savegame.NewStore(nil)
	if err := store.Save(savegame.Placement{Position: [3]float32{-5000, 0, 0}}); err != nil {
		t.Fatal(err)
	}

	s := newTestSim(t, store)
	if got := s.Character.Position(); got != (math.Vec3{X: 275, Z: 1053}) {
		t.Errorf("Position = %+v, want the start placement", got)
	}
}

func TestSim_RestoreOpenDoor(t *testing.T) {
	store := savegame.NewStore(nil)
	if err := store.Save(savegame.Placement{Position: [3]float32{275, 0, 1053}, OpenDoor: 1}); err != nil {
		t.Fatal(err)
	}

	s := newTestSim(t, store)
	if got := s.Character.Doors().OpenDoor(); got != 1 {
		t.Errorf("OpenDoor = %d, want 1", got)
	}
	if got := s.Placement().OpenDoor; got != 1 {
		t.Errorf("Placement().OpenDoor = %d, want 1", got)
	}
}

func TestLoad_MissingContent(t *testing.T) {
	content := assets.NewManager()
	content.AddFS("content", fstest.MapFS{})

	if _, err := Load(config.Default(), content, nil); err == nil {
		t.Error("expected error for missing rig")
	}
}

func TestLoad_SampleContent(t *testing.T) {
	content := assets.NewManager()
	if err := content.AddDir("../../content"); err != nil {
		t.Fatalf("AddDir: %v", err)
	}

	s, err := Load(config.Default(), content, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Character.Region() != "R_Section1" {
		t.Fatalf("start region = %q, want R_Section1", s.Character.Region())
	}

	// Facing +X, two seconds of walking stays inside the first section.
	in := locomotion.Input{DesiredSpeed: 2}
	for i := 0; i < 120; i++ {
		s.Tick(1.0/60, in)
	}
	p := s.Character.Position()
	if p.X <= 300 {
		t.Errorf("X = %v after walking, want > 300", p.X)
	}
	if s.Character.Region() != "R_Section1" {
		t.Errorf("region = %q after walking", s.Character.Region())
	}
}

func TestLoad_SampleContentThroughDoor(t *testing.T) {
	content := assets.NewManager()
	if err := content.AddDir("../../content"); err != nil {
		t.Fatalf("AddDir: %v", err)
	}
	s, err := Load(config.Default(), content, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Face west, towards door 1 and the slime section behind it.
	s.Character.SetPlacement(math.Vec3{X: 275, Z: 1023}, -gomath.Pi/2)

	in := locomotion.Input{DesiredSpeed: 2}
	sawDoor := false
	for i := 0; i < 600 && s.Character.Region() != "R_Section6"; i++ {
		s.Tick(1.0/60, in)
		if s.Character.Region() == "R_Door1" {
			sawDoor = true
		}
	}

	if !sawDoor {
		t.Error("never entered R_Door1")
	}
	if s.Character.Region() != "R_Section6" {
		t.Fatalf("region = %q, want R_Section6", s.Character.Region())
	}
	if p := s.Character.Position(); p.X >= 178 {
		t.Errorf("X = %v, want past the door", p.X)
	}
	if !s.Scene.Slimed() {
		t.Error("entering R_Section6 should slime the level")
	}
}
