// Package region classifies ground-plane points against named triangle
// regions: rooms, walls and door thresholds of a level's floor plan.
package region

import (
	"strconv"
	"strings"

	"github.com/Faultbox/prisonstep/pkg/math"
)

// Default naming conventions of level collision geometry.
const (
	DefaultWallPrefix = "W"
	DefaultDoorPrefix = "R_Door"
)

// Triangle is one ground-plane triangle in XZ coordinates.
type Triangle [3]math.Vec2

// Region is a named set of triangles.
type Region struct {
	Name      string
	Triangles []Triangle
}

type triangle struct {
	p1, p2, p3 math.Vec2
	// d is the reciprocal of the barycentric denominator.
	d float32
}

func newTriangle(t Triangle) triangle {
	p1, p2, p3 := t[0], t[1], t[2]
	den := (p1.X-p3.X)*(p2.Y-p3.Y) - (p2.X-p3.X)*(p1.Y-p3.Y)
	// A zero denominator yields infinities here and the containment test
	// below then never passes, so degenerate triangles match nothing.
	return triangle{p1: p1, p2: p2, p3: p3, d: 1 / den}
}

func (t *triangle) contains(p math.Vec2) bool {
	l1 := ((t.p2.Y-t.p3.Y)*(p.X-t.p3.X) + (t.p3.X-t.p2.X)*(p.Y-t.p3.Y)) * t.d
	l2 := ((t.p3.Y-t.p1.Y)*(p.X-t.p3.X) + (t.p1.X-t.p3.X)*(p.Y-t.p3.Y)) * t.d
	l3 := 1 - l1 - l2
	return l1 >= 0 && l2 >= 0 && l3 >= 0
}

type entry struct {
	name      string
	wall      bool
	triangles []triangle
}

// Map is an immutable, ordered set of regions. It is safe for concurrent
// readers.
type Map struct {
	entries    []entry
	byName     map[string]int
	wallPrefix string
	doorPrefix string
}

// NewMap builds a map from regions using the default naming conventions.
// Regions keep the order given; later regions with a name already seen are
// merged into the first.
func NewMap(regions []Region) *Map {
	b := NewBuilder()
	for _, r := range regions {
		b.Add(r.Name, r.Triangles...)
	}
	return b.Build()
}

// Classify returns the name of the first non-wall region containing p.
// Regions are scanned in insertion order and triangles in authored order.
func (m *Map) Classify(p math.Vec2) (string, bool) {
	for i := range m.entries {
		e := &m.entries[i]
		if e.wall {
			continue
		}
		for j := range e.triangles {
			if e.triangles[j].contains(p) {
				return e.name, true
			}
		}
	}
	return "", false
}

// ClassifyVec3 classifies the XZ projection of p.
func (m *Map) ClassifyVec3(p math.Vec3) (string, bool) {
	return m.Classify(p.XZ())
}

// IsWall reports whether name carries the wall prefix.
func (m *Map) IsWall(name string) bool {
	return strings.HasPrefix(name, m.wallPrefix)
}

// IsDoor reports whether name carries the door prefix.
func (m *Map) IsDoor(name string) bool {
	return strings.HasPrefix(name, m.doorPrefix)
}

// DoorID extracts the door number from a door region name such as R_Door3.
func (m *Map) DoorID(name string) (int, bool) {
	if !m.IsDoor(name) {
		return 0, false
	}
	id, err := strconv.Atoi(name[len(m.doorPrefix):])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Len returns the number of regions, walls included.
func (m *Map) Len() int {
	return len(m.entries)
}

// Names returns region names in classification order.
func (m *Map) Names() []string {
	names := make([]string, len(m.entries))
	for i, e := range m.entries {
		names[i] = e.name
	}
	return names
}

// Region returns a copy of the named region's triangles.
func (m *Map) Region(name string) (Region, bool) {
	i, ok := m.byName[name]
	if !ok {
		return Region{}, false
	}
	e := m.entries[i]
	r := Region{Name: e.name, Triangles: make([]Triangle, len(e.triangles))}
	for j, t := range e.triangles {
		r.Triangles[j] = Triangle{t.p1, t.p2, t.p3}
	}
	return r, true
}

// Builder accumulates regions before freezing them into a Map.
type Builder struct {
	WallPrefix string
	DoorPrefix string

	entries []entry
	byName  map[string]int
}

// NewBuilder returns a builder with the default naming conventions.
func NewBuilder() *Builder {
	return &Builder{
		WallPrefix: DefaultWallPrefix,
		DoorPrefix: DefaultDoorPrefix,
		byName:     make(map[string]int),
	}
}

// Add appends triangles to the named region, creating it on first use.
func (b *Builder) Add(name string, tris ...Triangle) *Builder {
	i, ok := b.byName[name]
	if !ok {
		i = len(b.entries)
		b.byName[name] = i
		b.entries = append(b.entries, entry{name: name})
	}
	for _, t := range tris {
		b.entries[i].triangles = append(b.entries[i].triangles, newTriangle(t))
	}
	return b
}

// AddPoints appends consecutive point triples as triangles. A trailing
// partial triple is ignored.
func (b *Builder) AddPoints(name string, points []math.Vec2) *Builder {
	tris := make([]Triangle, 0, len(points)/3)
	for i := 0; i+2 < len(points); i += 3 {
		tris = append(tris, Triangle{points[i], points[i+1], points[i+2]})
	}
	return b.Add(name, tris...)
}

// Build freezes the builder. The builder must not be used afterwards.
func (b *Builder) Build() *Map {
	m := &Map{
		entries:    b.entries,
		byName:     b.byName,
		wallPrefix: b.WallPrefix,
		doorPrefix: b.DoorPrefix,
	}
	for i := range m.entries {
		m.entries[i].wall = m.IsWall(m.entries[i].name)
	}
	b.entries = nil
	b.byName = nil
	return m
}
