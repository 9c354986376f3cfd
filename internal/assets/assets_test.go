package assets

import (
	"bytes"
	"math"
	"testing"
	"testing/fstest"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	pmath "github.com/Faultbox/prisonstep/pkg/math"
)

func TestManager_Load_Priority(t *testing.T) {
	m := NewManager()
	m.AddFS("base", fstest.MapFS{
		"a.txt": {Data: []byte("base")},
		"b.txt": {Data: []byte("only base")},
	})
	m.AddFS("mod", fstest.MapFS{
		"a.txt": {Data: []byte("mod")},
	})

	tests := []struct {
		name string
		want string
	}{
		{"a.txt", "mod"},
		{"b.txt", "only base"},
		{"/b.txt", "only base"},
		{"./dir/../a.txt", "mod"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := m.Load(tt.name)
			if err != nil {
				t.Fatalf("Load(%q): %v", tt.name, err)
			}
			if string(data) != tt.want {
				t.Errorf("Load(%q) = %q, want %q", tt.name, data, tt.want)
			}
		})
	}
}

func TestManager_Load_NotFound(t *testing.T) {
	m := NewManager()
	m.AddFS("base", fstest.MapFS{})
	if _, err := m.Load("missing.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestManager_Load_Caches(t *testing.T) {
	m := NewManager()
	m.AddFS("base", fstest.MapFS{"a": {Data: []byte("x")}})

	for i := 0; i < 3; i++ {
		if _, err := m.Load("a"); err != nil {
			t.Fatal(err)
		}
	}
	hits, misses := m.cache.Stats()
	if hits != 2 || misses != 1 {
		t.Errorf("stats = %d hits, %d misses; want 2, 1", hits, misses)
	}

	m.Close()
	if _, err := m.Load("a"); err == nil {
		t.Error("Load after Close should fail")
	}
}

func TestManager_AddDir(t *testing.T) {
	m := NewManager()
	if err := m.AddDir(t.TempDir()); err != nil {
		t.Fatalf("AddDir: %v", err)
	}
	if err := m.AddDir("/does/not/exist"); err == nil {
		t.Error("expected error for missing dir")
	}
}

const testRig = `
bones:
  - name: Bip01
    translation: [0, 10, 0]
  - name: Bip01 Spine1
    parent: Bip01
    translation: [0, 20, 0]
    scale: [2, 2, 2]
  - name: Bip01 R Hand
    parent: Bip01 Spine1
    translation: [5, 0, 0]
    rotation: [0, 0, 0, 2]
skin: [Bip01, Bip01 Spine1, Bip01 R Hand]
clips:
  - name: idle
    duration: 1
    tracks:
      - bone: Bip01
        keys:
          - {t: 1, r: [0, 0, 0, 1], p: [0, 10, 5]}
          - {t: 0, r: [0, 0, 0, 1], p: [0, 10, 0]}
clip_files: [clips/extra.yaml]
`

const testClips = `
- name: walk
  duration: 0.5
  tracks:
    - bone: Bip01 Spine1
      keys:
        - {t: 0, r: [0, 0, 0, 1], p: [0, 20, 0]}
`

func rigFS(rig string) fstest.MapFS {
	return fstest.MapFS{
		"chars/victoria.yaml":    {Data: []byte(rig)},
		"chars/clips/extra.yaml": {Data: []byte(testClips)},
	}
}

func TestManager_LoadRig(t *testing.T) {
	m := NewManager()
	m.AddFS("content", rigFS(testRig))

	rig, err := m.LoadRig("chars/victoria.yaml")
	if err != nil {
		t.Fatalf("LoadRig: %v", err)
	}

	skel := rig.Skeleton
	if skel.BoneCount() != 3 {
		t.Fatalf("BoneCount = %d, want 3", skel.BoneCount())
	}
	if skel.RootBone != 0 {
		t.Errorf("RootBone = %d, want 0", skel.RootBone)
	}
	hand := skel.BoneIndex("Bip01 R Hand")
	got := skel.Bones[hand].BindAbsolute.Translation()
	// Spine scale doubles the hand's offset.
	if got.X != 10 || got.Y != 30 || got.Z != 0 {
		t.Errorf("hand bind position = %+v, want (10,30,0)", got)
	}
	if rig.Skin == nil || len(rig.Skin.Bones) != 3 {
		t.Fatalf("skin mapping = %+v", rig.Skin)
	}

	names := rig.ClipNames()
	if len(names) != 2 || names[0] != "idle" || names[1] != "walk" {
		t.Errorf("ClipNames = %v, want [idle walk]", names)
	}

	idle := rig.Clip("idle")
	keys := idle.Tracks[0].Keys
	if keys[0].Time != 0 || keys[1].Time != 1 {
		t.Errorf("keys not sorted by time: %v, %v", keys[0].Time, keys[1].Time)
	}
	if idle.Track(1) != nil {
		t.Error("idle should not animate the spine")
	}
	if rig.Clip("walk").Track(1) == nil {
		t.Error("walk should animate the spine")
	}
}

func TestManager_LoadRig_Errors(t *testing.T) {
	tests := []struct {
		name string
		rig  string
	}{
		{"bad yaml", "bones: [\n"},
		{"unnamed bone", "bones:\n  - translation: [0, 0, 0]\n"},
		{"unknown parent", "bones:\n  - name: a\n    parent: nope\n"},
		{"child before parent", "bones:\n  - name: a\n    parent: b\n  - name: b\n"},
		{"unknown skin bone", "bones:\n  - name: a\nskin: [b]\n"},
		{"unknown root", "root_bone: x\nbones:\n  - name: a\n"},
		{"unknown track bone", "bones:\n  - name: a\nclips:\n  - name: c\n    duration: 1\n    tracks:\n      - bone: b\n"},
		{"duplicate clip", "bones:\n  - name: a\nclips:\n  - name: c\n  - name: c\n"},
		{"negative duration", "bones:\n  - name: a\nclips:\n  - name: c\n    duration: -1\n"},
		{"missing clip file", "bones:\n  - name: a\nclip_files: [nope.yaml]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager()
			m.AddFS("content", rigFS(tt.rig))
			if _, err := m.LoadRig("chars/victoria.yaml"); err == nil {
				t.Error("expected error")
			}
		})
	}
}

// collisionGLB builds a binary glTF with one square region, one wall nested
// under it, and a primitive without indices.
func collisionGLB(t *testing.T) []byte {
	t.Helper()
	doc := gltf.NewDocument()

	square := modeler.WritePosition(doc, [][3]float32{
		{0, 0, 0}, {100, 0, 0}, {100, 0, 100}, {0, 0, 100},
	})
	squareIdx := modeler.WriteIndices(doc, []uint32{0, 1, 2, 0, 2, 3})
	wall := modeler.WritePosition(doc, [][3]float32{
		{200, 0, 0}, {300, 0, 0}, {300, 0, 100},
	})

	doc.Meshes = append(doc.Meshes,
		&gltf.Mesh{Name: "floor", Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(squareIdx),
			Attributes: map[string]uint32{"POSITION": square},
		}}},
		&gltf.Mesh{Name: "W_Wall", Primitives: []*gltf.Primitive{{
			Attributes: map[string]uint32{"POSITION": wall},
		}}},
	)
	doc.Nodes = append(doc.Nodes,
		&gltf.Node{Name: "R_Section1", Mesh: gltf.Index(0), Children: []uint32{1}},
		&gltf.Node{Mesh: gltf.Index(1)},
	)
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		t.Fatalf("encoding glb: %v", err)
	}
	return buf.Bytes()
}

func TestManager_LoadRegions(t *testing.T) {
	m := NewManager()
	m.AddFS("content", fstest.MapFS{
		"prison.glb": {Data: collisionGLB(t)},
	})

	regions, err := m.LoadRegions("prison.glb", "", "")
	if err != nil {
		t.Fatalf("LoadRegions: %v", err)
	}
	if regions.Len() != 2 {
		t.Fatalf("Len = %d, want 2", regions.Len())
	}
	if !regions.IsWall("W_Wall") {
		t.Error("W_Wall should be a wall")
	}

	tests := []struct {
		x, z   float32
		want   string
		wantOK bool
	}{
		{50, 50, "R_Section1", true},
		{10, 90, "R_Section1", true},
		{280, 20, "", false}, // walls never classify
		{-10, 50, "", false},
	}
	for _, tt := range tests {
		got, ok := regions.ClassifyVec3(pmath.Vec3{X: tt.x, Z: tt.z})
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Classify(%v,%v) = %q,%v; want %q,%v", tt.x, tt.z, got, ok, tt.want, tt.wantOK)
		}
	}
}

// placedCollisionGLB nests an unnamed mesh node under a translated parent
// and scales the child, so the region lands at x 1000..1200, z 0..200.
func placedCollisionGLB(t *testing.T, mode gltf.PrimitiveMode) []byte {
	t.Helper()
	doc := gltf.NewDocument()

	square := modeler.WritePosition(doc, [][3]float32{
		{0, 0, 0}, {100, 0, 0}, {100, 0, 100}, {0, 0, 100},
	})
	squareIdx := modeler.WriteIndices(doc, []uint32{0, 1, 2, 0, 2, 3})
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: "R_Section2", Primitives: []*gltf.Primitive{{
		Indices:    gltf.Index(squareIdx),
		Attributes: map[string]uint32{"POSITION": square},
		Mode:       mode,
	}}})
	doc.Nodes = append(doc.Nodes,
		&gltf.Node{Name: "block", Translation: [3]float32{1000, 0, 0}, Children: []uint32{1}},
		&gltf.Node{Mesh: gltf.Index(0), Scale: [3]float32{2, 1, 2}},
	)
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		t.Fatalf("encoding glb: %v", err)
	}
	return buf.Bytes()
}

func TestManager_LoadRegions_NodeTransforms(t *testing.T) {
	m := NewManager()
	m.AddFS("content", fstest.MapFS{
		"placed.glb": {Data: placedCollisionGLB(t, gltf.PrimitiveTriangles)},
	})

	regions, err := m.LoadRegions("placed.glb", "", "")
	if err != nil {
		t.Fatalf("LoadRegions: %v", err)
	}

	tests := []struct {
		x, z   float32
		want   string
		wantOK bool
	}{
		{1050, 50, "R_Section2", true},
		{1150, 150, "R_Section2", true},
		{50, 50, "", false},
		{1250, 50, "", false},
	}
	for _, tt := range tests {
		got, ok := regions.ClassifyVec3(pmath.Vec3{X: tt.x, Z: tt.z})
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Classify(%v,%v) = %q,%v; want %q,%v", tt.x, tt.z, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNodeTransform_Matrix(t *testing.T) {
	node := &gltf.Node{Matrix: [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 5, 6, 7, 1}}
	got := nodeTransform(node).TransformPoint(pmath.Vec3{X: 1})
	if got != (pmath.Vec3{X: 6, Y: 6, Z: 7}) {
		t.Errorf("TransformPoint = %+v, want (6,6,7)", got)
	}
}

func TestManager_LoadRegions_Errors(t *testing.T) {
	m := NewManager()
	m.AddFS("content", fstest.MapFS{
		"junk.glb":  {Data: []byte("not a gltf")},
		"strip.glb": {Data: placedCollisionGLB(t, gltf.PrimitiveTriangleStrip)},
	})
	if _, err := m.LoadRegions("junk.glb", "W", "R_Door"); err == nil {
		t.Error("expected error for junk data")
	}
	if _, err := m.LoadRegions("missing.glb", "W", "R_Door"); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := m.LoadRegions("strip.glb", "W", "R_Door"); err == nil {
		t.Error("expected error for a triangle strip")
	}
}

func TestBoneDef_BindLocal_Default(t *testing.T) {
	b := boneDef{Name: "a"}
	got := b.bindLocal()
	for i, v := range got {
		want := float32(0)
		if i%5 == 0 {
			want = 1
		}
		if math.Abs(float64(v-want)) > 1e-6 {
			t.Fatalf("bindLocal[%d] = %v, want %v", i, v, want)
		}
	}
}
