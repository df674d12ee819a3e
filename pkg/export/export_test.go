package export_test

import (
	"bytes"
	"testing"

	"github.com/chazu/foldnet/pkg/export"
	"github.com/chazu/foldnet/pkg/kernel/sdfx"
	"github.com/chazu/foldnet/pkg/shape"
	"github.com/hschendel/stl"
	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func frame(t *testing.T, f shape.Family, progress float64) *shape.Frame {
	t.Helper()
	fr, err := shape.Evaluate(shape.Request{
		Family:     f,
		Dimensions: shape.Defaults(f),
		Progress:   progress,
		Options:    shape.Options{ShowLabels: true},
		Centered:   true,
	})
	require.NoError(t, err)
	return fr
}

func TestDocumentOneMeshPerFace(t *testing.T) {
	for _, f := range shape.Families {
		t.Run(f.String(), func(t *testing.T) {
			fr := frame(t, f, 0.5)
			doc, err := export.Document(fr)
			require.NoError(t, err)

			n := len(fr.Faces)
			assert.Len(t, doc.Meshes, n)
			assert.Len(t, doc.Materials, n)
			assert.Len(t, doc.Nodes, n)
			assert.Len(t, doc.Scenes[0].Nodes, n)
			for i, m := range doc.Meshes {
				assert.Equal(t, fr.Faces[i].Name, m.Name)
				require.Len(t, m.Primitives, 1)
				p := m.Primitives[0]
				assert.Contains(t, p.Attributes, "POSITION")
				assert.Contains(t, p.Attributes, "NORMAL")
				require.NotNil(t, p.Material)
				assert.True(t, doc.Materials[*p.Material].DoubleSided)
			}
		})
	}
}

func TestMaterialColors(t *testing.T) {
	fr := frame(t, shape.FamilyBox, 1)
	doc, err := export.Document(fr)
	require.NoError(t, err)

	// Default side color #ef4444: red dominates after linearization.
	for i, face := range fr.Faces {
		if face.Color != "#ef4444" {
			continue
		}
		c := doc.Materials[i].PBRMetallicRoughness.BaseColorFactor
		require.NotNil(t, c)
		assert.Greater(t, c[0], c[1])
		assert.Greater(t, c[0], c[2])
		assert.Equal(t, float32(1), c[3])
	}
}

func TestGLBRoundTrip(t *testing.T) {
	fr := frame(t, shape.FamilyTriangularPrism, 1)
	var buf bytes.Buffer
	require.NoError(t, export.GLB(&buf, fr))
	require.Greater(t, buf.Len(), 12)
	assert.Equal(t, "glTF", string(buf.Bytes()[:4]))

	var doc gltf.Document
	require.NoError(t, gltf.NewDecoder(bytes.NewReader(buf.Bytes())).Decode(&doc))
	assert.Len(t, doc.Meshes, len(fr.Faces))
}

func TestAddReferenceMesh(t *testing.T) {
	k := sdfx.WithCells(16)
	d := shape.Defaults(shape.FamilyBox)
	solid, err := shape.Reference(k, shape.FamilyBox, d)
	require.NoError(t, err)
	mesh, err := k.ToMesh(solid)
	require.NoError(t, err)

	doc, err := export.Document(frame(t, shape.FamilyBox, 1))
	require.NoError(t, err)
	before := len(doc.Nodes)
	node := export.AddMesh(doc, mesh)
	assert.Equal(t, uint32(before), node)
	assert.Equal(t, "reference", doc.Nodes[node].Name)
	assert.Len(t, doc.Scenes[0].Nodes, before+1)
}

func TestYAMLDump(t *testing.T) {
	fr := frame(t, shape.FamilyBox, 1)
	var buf bytes.Buffer
	require.NoError(t, export.YAML(&buf, fr))

	out := buf.String()
	assert.Contains(t, out, "family: box")
	assert.Contains(t, out, "role: side")
	assert.Contains(t, out, "label: Lateral")

	var back struct {
		Family string `yaml:"family"`
		Faces  []struct {
			Name     string       `yaml:"name"`
			Vertices [][3]float64 `yaml:"vertices"`
		} `yaml:"faces"`
		Report struct {
			SeamGap float64 `yaml:"seam_gap"`
			Volume  float64 `yaml:"volume"`
		} `yaml:"report"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, "box", back.Family)
	assert.Len(t, back.Faces, 6)
	assert.InDelta(t, 0, back.Report.SeamGap, 1e-9)
	assert.InDelta(t, 3*4*2, back.Report.Volume, 1e-9)
}

func TestSTLRoundTrip(t *testing.T) {
	tests := []struct {
		family    shape.Family
		triangles int
	}{
		{shape.FamilyBox, 12},
		{shape.FamilyTriangularPrism, 8},
		{shape.FamilyTrapezoidalPrism, 12},
	}
	for _, tt := range tests {
		t.Run(tt.family.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, export.STL(&buf, frame(t, tt.family, 1)))
			// 80 byte header, 4 byte count, 50 bytes per triangle.
			assert.Equal(t, 84+50*tt.triangles, buf.Len())

			solid, err := stl.ReadAll(&buf)
			require.NoError(t, err)
			require.Len(t, solid.Triangles, tt.triangles)
			for _, tri := range solid.Triangles {
				n := tri.Normal
				assert.InDelta(t, 1, float64(n[0]*n[0]+n[1]*n[1]+n[2]*n[2]), 1e-5)
			}
		})
	}
}
