// Package tessellate turns composed world-space faces into triangle meshes.
// One mesh is produced per face.
package tessellate

import (
	"fmt"

	"github.com/chazu/foldnet/pkg/fold"
	"github.com/chazu/foldnet/pkg/kernel"
)

// Tessellate fan-triangulates each face (0, i, i+1) into its own mesh with a
// flat per-face normal. Faces are convex, so the fan is always valid. The
// input is never modified.
func Tessellate(faces []fold.WorldFace) ([]*kernel.Mesh, error) {
	meshes := make([]*kernel.Mesh, 0, len(faces))
	for _, f := range faces {
		m, err := faceMesh(f)
		if err != nil {
			return nil, fmt.Errorf("tessellate: %w", err)
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}

func faceMesh(f fold.WorldFace) (*kernel.Mesh, error) {
	n := len(f.Vertices)
	if n < 3 {
		return nil, fmt.Errorf("face %q has %d vertices, need at least 3", f.Name, n)
	}

	nx, ny, nz := float32(f.Normal.X), float32(f.Normal.Y), float32(f.Normal.Z)
	m := &kernel.Mesh{
		Vertices: make([]float32, 0, n*3),
		Normals:  make([]float32, 0, n*3),
		Indices:  make([]uint32, 0, (n-2)*3),
		PartName: f.Name,
		Color:    f.Color,
	}
	for _, v := range f.Vertices {
		m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
		m.Normals = append(m.Normals, nx, ny, nz)
	}
	for i := 1; i < n-1; i++ {
		m.Indices = append(m.Indices, 0, uint32(i), uint32(i+1))
	}
	return m, nil
}

// Merge concatenates meshes into one, re-basing indices. The part name and
// color of the result are left empty.
func Merge(meshes []*kernel.Mesh) *kernel.Mesh {
	out := &kernel.Mesh{}
	for _, m := range meshes {
		if m == nil {
			continue
		}
		base := uint32(out.VertexCount())
		out.Vertices = append(out.Vertices, m.Vertices...)
		out.Normals = append(out.Normals, m.Normals...)
		for _, idx := range m.Indices {
			out.Indices = append(out.Indices, base+idx)
		}
	}
	return out
}
