package region

import (
	"testing"

	"github.com/Faultbox/prisonstep/pkg/math"
)

func square(x0, z0, x1, z1 float32) []Triangle {
	return []Triangle{
		{{X: x0, Y: z0}, {X: x1, Y: z0}, {X: x1, Y: z1}},
		{{X: x0, Y: z0}, {X: x1, Y: z1}, {X: x0, Y: z1}},
	}
}

func testMap() *Map {
	return NewBuilder().
		Add("W_North", square(-100, -100, 100, 100)...).
		Add("R_Section1", square(0, 0, 100, 100)...).
		Add("R_Door1", square(100, 0, 120, 100)...).
		Add("R_Section2", square(120, 0, 220, 100)...).
		Build()
}

func TestMap_Classify(t *testing.T) {
	m := testMap()

	tests := []struct {
		name   string
		point  math.Vec2
		want   string
		wantOK bool
	}{
		{"inside section", math.Vec2{X: 50, Y: 50}, "R_Section1", true},
		{"inside door", math.Vec2{X: 110, Y: 10}, "R_Door1", true},
		{"inside second section", math.Vec2{X: 200, Y: 90}, "R_Section2", true},
		{"on shared edge first wins", math.Vec2{X: 100, Y: 50}, "R_Section1", true},
		{"only inside wall", math.Vec2{X: -50, Y: -50}, "", false},
		{"outside everything", math.Vec2{X: 500, Y: 500}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Classify(tt.point)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Classify(%v) = (%q, %v), want (%q, %v)", tt.point, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestMap_ClassifyDeterministic(t *testing.T) {
	m := testMap()
	p := math.Vec2{X: 100, Y: 50}

	first, _ := m.Classify(p)
	for i := 0; i < 100; i++ {
		if got, _ := m.Classify(p); got != first {
			t.Fatalf("call %d returned %q, first call returned %q", i, got, first)
		}
	}
}

func TestMap_ClassifyVec3(t *testing.T) {
	m := testMap()

	got, ok := m.ClassifyVec3(math.Vec3{X: 50, Y: 1000, Z: 50})
	if !ok || got != "R_Section1" {
		t.Errorf("ClassifyVec3 = (%q, %v), want R_Section1", got, ok)
	}
}

func TestMap_DegenerateTriangle(t *testing.T) {
	m := NewBuilder().
		Add("R_Line", Triangle{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}}).
		Build()

	if _, ok := m.Classify(math.Vec2{X: 1, Y: 1}); ok {
		t.Error("degenerate triangle should not contain any point")
	}
}

func TestMap_Names(t *testing.T) {
	m := NewBuilder().
		AddPoints("R_A", []math.Vec2{{X: 0}, {X: 1}, {Y: 1}}).
		AddPoints("R_B", []math.Vec2{{X: 5}, {X: 6}, {X: 5, Y: 1}}).
		AddPoints("R_A", []math.Vec2{{X: 10}, {X: 11}, {X: 10, Y: 1}, {X: 99}}).
		Build()

	names := m.Names()
	if len(names) != 2 || names[0] != "R_A" || names[1] != "R_B" {
		t.Fatalf("Names() = %v, want [R_A R_B]", names)
	}

	r, ok := m.Region("R_A")
	if !ok {
		t.Fatal("Region(R_A) not found")
	}
	if len(r.Triangles) != 2 {
		t.Errorf("R_A has %d triangles, want 2 (partial triple dropped)", len(r.Triangles))
	}
	if got, _ := m.Classify(math.Vec2{X: 10.2, Y: 0.2}); got != "R_A" {
		t.Errorf("merged triangle classified as %q", got)
	}
}

func TestMap_DoorID(t *testing.T) {
	m := NewMap(nil)

	tests := []struct {
		name   string
		want   int
		wantOK bool
	}{
		{"R_Door1", 1, true},
		{"R_Door5", 5, true},
		{"R_Door12", 12, true},
		{"R_Door", 0, false},
		{"R_Door0", 0, false},
		{"R_DoorX", 0, false},
		{"R_Section6", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.DoorID(tt.name)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("DoorID(%q) = (%d, %v), want (%d, %v)", tt.name, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestMap_IsWall(t *testing.T) {
	m := NewMap(nil)
	if !m.IsWall("W_Cell") {
		t.Error("W_Cell should be a wall")
	}
	if m.IsWall("R_Section1") {
		t.Error("R_Section1 should not be a wall")
	}
}
