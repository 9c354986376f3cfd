package renderer

import (
	"hash/fnv"

	"github.com/Faultbox/prisonstep/internal/anim"
	"github.com/Faultbox/prisonstep/internal/region"
	"github.com/Faultbox/prisonstep/pkg/math"
)

// Vertex is the interleaved layout shared by every mesh: position, color
// and the skinning palette slot (0 for unskinned meshes).
type Vertex struct {
	Pos   [3]float32
	Color [3]float32
	Slot  float32
}

const vertexStride = 7 * 4

// Region colors.
var (
	ColorWall  = [3]float32{0.45, 0.45, 0.5}
	ColorDoor  = [3]float32{0.3, 0.45, 0.85}
	ColorBone  = [3]float32{0.85, 0.75, 0.6}
	ColorFloor = [3]float32{0.35, 0.6, 0.35}
)

// cube corners and the 12 triangles that close it.
var (
	cubeCorners = [8]math.Vec3{
		{X: -1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: -1}, {X: 1, Y: 1, Z: -1}, {X: -1, Y: 1, Z: -1},
		{X: -1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: -1, Y: 1, Z: 1},
	}
	cubeIndices = [36]int{
		0, 2, 1, 0, 3, 2, // back
		4, 5, 6, 4, 6, 7, // front
		0, 1, 5, 0, 5, 4, // bottom
		3, 7, 6, 3, 6, 2, // top
		0, 4, 7, 0, 7, 3, // left
		1, 2, 6, 1, 6, 5, // right
	}
)

// AppendBox appends a cube of half-size half, placed by transform.
func AppendBox(dst []Vertex, transform math.Mat4, half float32, color [3]float32, slot int) []Vertex {
	for _, i := range cubeIndices {
		p := transform.TransformPoint(cubeCorners[i].Scale(half))
		dst = append(dst, Vertex{Pos: [3]float32{p.X, p.Y, p.Z}, Color: color, Slot: float32(slot)})
	}
	return dst
}

// BoneBoxes builds one box per palette slot at the bone's bind pose. Drawn
// with the skinning palette, each box follows its bone.
func BoneBoxes(skel *anim.Skeleton, skin *anim.SkinMapping, half float32) []Vertex {
	if skin == nil {
		return nil
	}
	out := make([]Vertex, 0, len(skin.Bones)*len(cubeIndices))
	for slot, b := range skin.Bones {
		out = AppendBox(out, skel.Bones[b].BindAbsolute, half, ColorBone, slot)
	}
	return out
}

// RegionTriangles lays the floor plan out at height y, colored by region
// kind.
func RegionTriangles(m *region.Map, y float32) []Vertex {
	var out []Vertex
	for _, name := range m.Names() {
		r, _ := m.Region(name)
		color := RegionColor(m, name)
		for _, tri := range r.Triangles {
			for _, p := range tri {
				out = append(out, Vertex{Pos: [3]float32{p.X, y, p.Y}, Color: color})
			}
		}
	}
	return out
}

// RegionColor picks a stable color for a region. Plain floor regions get a
// shade of green derived from the name so neighbours stand apart.
func RegionColor(m *region.Map, name string) [3]float32 {
	switch {
	case m.IsWall(name):
		return ColorWall
	case m.IsDoor(name):
		return ColorDoor
	}
	h := fnv.New32a()
	h.Write([]byte(name))
	shade := float32(h.Sum32()%64) / 255
	return [3]float32{ColorFloor[0] + shade/2, ColorFloor[1] + shade, ColorFloor[2]}
}
