package export

import (
	"fmt"
	"io"

	"github.com/chazu/foldnet/pkg/kernel"
	"github.com/chazu/foldnet/pkg/shape"
	"github.com/chazu/foldnet/pkg/tessellate"
	"github.com/hschendel/stl"
)

// Solid converts a mesh to an STL solid. Triangle normals are taken from
// the first vertex normal when present; readers recompute them otherwise.
func Solid(name string, m *kernel.Mesh) *stl.Solid {
	s := &stl.Solid{Name: name, Triangles: make([]stl.Triangle, 0, m.TriangleCount())}
	hasNormals := len(m.Normals) == len(m.Vertices)
	for i := 0; i < m.TriangleCount(); i++ {
		var t stl.Triangle
		for j := 0; j < 3; j++ {
			idx := int(m.Indices[3*i+j])
			t.Vertices[j] = stl.Vec3(m.Vertex(idx))
		}
		if hasNormals {
			idx := int(m.Indices[3*i])
			t.Normal = stl.Vec3{m.Normals[3*idx], m.Normals[3*idx+1], m.Normals[3*idx+2]}
		}
		s.Triangles = append(s.Triangles, t)
	}
	return s
}

// STL writes the frame as one binary STL solid. Faces are merged; colors
// and names do not survive.
func STL(w io.Writer, frame *shape.Frame) error {
	meshes, err := tessellate.Tessellate(frame.Faces)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	s := Solid(frame.Family.String(), tessellate.Merge(meshes))
	if len(s.Triangles) == 0 {
		return fmt.Errorf("export: frame has no triangles")
	}
	if err := s.WriteAll(w); err != nil {
		return fmt.Errorf("export: encode stl: %w", err)
	}
	return nil
}
