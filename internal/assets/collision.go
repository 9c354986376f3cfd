package assets

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/prisonstep/internal/logger"
	"github.com/Faultbox/prisonstep/internal/region"
	"github.com/Faultbox/prisonstep/pkg/math"
)

// LoadRegions reads a glTF (or GLB) collision scene and builds a region map
// from it. Every mesh node becomes a region named after the node, or after
// its mesh when the node is unnamed. Vertices are placed by the node's
// world transform and projected onto the XZ plane. Only triangle lists are
// accepted.
func (m *Manager) LoadRegions(name, wallPrefix, doorPrefix string) (*region.Map, error) {
	data, err := m.Load(name)
	if err != nil {
		return nil, errors.Wrap(err, "loading collision")
	}

	doc := &gltf.Document{}
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, errors.Wrapf(err, "failed to read gltf %s", name)
	}

	b := region.NewBuilder()
	if wallPrefix != "" {
		b.WallPrefix = wallPrefix
	}
	if doorPrefix != "" {
		b.DoorPrefix = doorPrefix
	}

	if err := addCollisionScene(doc, b); err != nil {
		return nil, errors.Wrapf(err, "collision %s", name)
	}

	regions := b.Build()
	logger.Named("assets").Debug("loaded collision regions",
		zap.String("file", name),
		zap.Int("regions", regions.Len()))
	return regions, nil
}

func addCollisionScene(doc *gltf.Document, b *region.Builder) error {
	if len(doc.Scenes) == 0 {
		return errors.New("document has no scenes")
	}
	scene := 0
	if doc.Scene != nil {
		scene = int(*doc.Scene)
	}
	if scene >= len(doc.Scenes) {
		return errors.Errorf("default scene %d out of range", scene)
	}

	// No acyclic hierarchy is deeper than its node count.
	var walk func(id uint32, parent math.Mat4, depth int) error
	walk = func(id uint32, parent math.Mat4, depth int) error {
		if int(id) >= len(doc.Nodes) {
			return errors.Errorf("node %d out of range", id)
		}
		if depth > len(doc.Nodes) {
			return errors.Errorf("node %d: hierarchy has a cycle", id)
		}
		node := doc.Nodes[id]
		world := parent.Mul(nodeTransform(node))
		if node.Mesh != nil {
			if err := addCollisionMesh(doc, node, world, b); err != nil {
				return err
			}
		}
		for _, c := range node.Children {
			if err := walk(c, world, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	for _, id := range doc.Scenes[scene].Nodes {
		if err := walk(id, math.Identity(), 0); err != nil {
			return err
		}
	}
	return nil
}

// nodeTransform returns the node's local transform: its matrix when one is
// set, else translation * rotation * scale.
func nodeTransform(node *gltf.Node) math.Mat4 {
	if m := node.MatrixOrDefault(); m != gltf.DefaultMatrix {
		return math.Mat4(m)
	}
	t := node.TranslationOrDefault()
	r := node.RotationOrDefault()
	s := node.ScaleOrDefault()
	rot := math.Quat{X: r[0], Y: r[1], Z: r[2], W: r[3]}
	return math.Translate(t[0], t[1], t[2]).
		Mul(rot.ToMat4()).
		Mul(math.Scale(s[0], s[1], s[2]))
}

func addCollisionMesh(doc *gltf.Document, node *gltf.Node, world math.Mat4, b *region.Builder) error {
	if int(*node.Mesh) >= len(doc.Meshes) {
		return errors.Errorf("node %q: mesh %d out of range", node.Name, *node.Mesh)
	}
	mesh := doc.Meshes[*node.Mesh]
	name := node.Name
	if name == "" {
		name = mesh.Name
	}
	if name == "" {
		return errors.Errorf("mesh node without a name")
	}

	for _, primitive := range mesh.Primitives {
		if primitive.Mode != gltf.PrimitiveTriangles {
			return errors.Errorf("%q: primitive mode %d is not a triangle list", name, primitive.Mode)
		}
		posIndex, ok := primitive.Attributes["POSITION"]
		if !ok {
			continue
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIndex], make([][3]float32, 0))
		if err != nil {
			return errors.Wrapf(err, "failed to read vertices of %q", name)
		}

		var indices []uint32
		if primitive.Indices != nil {
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*primitive.Indices], make([]uint32, 0))
			if err != nil {
				return errors.Wrapf(err, "failed to read indices of %q", name)
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		points := make([]math.Vec2, 0, len(indices))
		for _, idx := range indices {
			if int(idx) >= len(positions) {
				return errors.Errorf("%q: index %d out of range", name, idx)
			}
			p := world.TransformPoint(math.Vec3{X: positions[idx][0], Y: positions[idx][1], Z: positions[idx][2]})
			points = append(points, p.XZ())
		}
		b.AddPoints(name, points)
	}
	return nil
}
