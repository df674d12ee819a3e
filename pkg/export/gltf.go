// Package export writes composed frames to files: binary glTF for 3D
// viewers, binary STL for slicers and a YAML dump for inspection.
package export

import (
	"fmt"
	"io"
	"math"

	"github.com/chazu/foldnet/pkg/kernel"
	"github.com/chazu/foldnet/pkg/shape"
	"github.com/chazu/foldnet/pkg/tessellate"
	"github.com/fogleman/fauxgl"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// Document converts a frame into a glTF document with one mesh, material and
// node per face. Materials are double sided so an open net reads correctly
// from both sides.
func Document(frame *shape.Frame) (*gltf.Document, error) {
	meshes, err := tessellate.Tessellate(frame.Faces)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	doc := gltf.NewDocument()
	for i, m := range meshes {
		node := AddMesh(doc, m)
		doc.Nodes[node].Extras = map[string]interface{}{
			"role":  frame.Faces[i].Role.String(),
			"label": frame.Faces[i].Label,
			"depth": frame.Faces[i].Depth,
		}
	}
	return doc, nil
}

// AddMesh appends m to doc as a mesh with its own material and a root node
// in the default scene. It returns the node index.
func AddMesh(doc *gltf.Document, m *kernel.Mesh) uint32 {
	n := m.VertexCount()
	positions := make([][3]float32, n)
	normals := make([][3]float32, n)
	for i := 0; i < n; i++ {
		positions[i] = m.Vertex(i)
		if len(m.Normals) >= 3*(i+1) {
			normals[i] = [3]float32{m.Normals[3*i], m.Normals[3*i+1], m.Normals[3*i+2]}
		}
	}

	indices := modeler.WriteIndices(doc, m.Indices)
	attributes := map[string]uint32{
		"POSITION": modeler.WritePosition(doc, positions),
	}
	if len(m.Normals) == len(m.Vertices) {
		attributes["NORMAL"] = modeler.WriteNormal(doc, normals)
	}

	doc.Materials = append(doc.Materials, material(m.PartName, m.Color))
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: m.PartName,
		Primitives: []*gltf.Primitive{
			{
				Indices:    gltf.Index(indices),
				Attributes: attributes,
				Material:   gltf.Index(uint32(len(doc.Materials) - 1)),
			},
		},
	})
	doc.Nodes = append(doc.Nodes, &gltf.Node{
		Name: m.PartName,
		Mesh: gltf.Index(uint32(len(doc.Meshes) - 1)),
	})
	node := uint32(len(doc.Nodes) - 1)
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, node)
	return node
}

func material(name, hex string) *gltf.Material {
	c := [4]float32{0.8, 0.8, 0.8, 1}
	if hex != "" {
		fc := fauxgl.HexColor(hex)
		c = [4]float32{linear(fc.R), linear(fc.G), linear(fc.B), float32(fc.A)}
	}
	return &gltf.Material{
		Name:        name,
		DoubleSided: true,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &c,
			MetallicFactor:  gltf.Float(0),
			RoughnessFactor: gltf.Float(0.9),
		},
	}
}

// linear converts an sRGB channel to the linear space glTF expects.
func linear(c float64) float32 {
	if c <= 0.04045 {
		return float32(c / 12.92)
	}
	return float32(math.Pow((c+0.055)/1.055, 2.4))
}

// WriteBinary encodes doc as a single .glb stream.
func WriteBinary(w io.Writer, doc *gltf.Document) error {
	enc := gltf.NewEncoder(w)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("export: encode glb: %w", err)
	}
	return nil
}

// GLB writes the frame as binary glTF.
func GLB(w io.Writer, frame *shape.Frame) error {
	doc, err := Document(frame)
	if err != nil {
		return err
	}
	return WriteBinary(w, doc)
}
