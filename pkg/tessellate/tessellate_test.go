package tessellate_test

import (
	"math"
	"testing"

	"github.com/chazu/foldnet/pkg/fold"
	"github.com/chazu/foldnet/pkg/tessellate"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// makeFace creates a world face with the given name and vertices.
func makeFace(name string, vs ...v3.Vec) fold.WorldFace {
	return fold.WorldFace{
		Name:     name,
		Color:    "#ef4444",
		Vertices: vs,
		Normal:   fold.Normal(vs),
	}
}

func TestQuadProducesTwoTriangles(t *testing.T) {
	f := makeFace("base", v3.Vec{}, v3.Vec{X: 1}, v3.Vec{X: 1, Z: 1}, v3.Vec{Z: 1})
	meshes, err := tessellate.Tessellate([]fold.WorldFace{f})
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != 1 {
		t.Fatalf("got %d meshes, want 1", len(meshes))
	}
	m := meshes[0]
	if m.VertexCount() != 4 {
		t.Errorf("VertexCount() = %d, want 4", m.VertexCount())
	}
	if m.TriangleCount() != 2 {
		t.Errorf("TriangleCount() = %d, want 2", m.TriangleCount())
	}
	want := []uint32{0, 1, 2, 0, 2, 3}
	for i, idx := range m.Indices {
		if idx != want[i] {
			t.Errorf("index %d = %d, want %d", i, idx, want[i])
		}
	}
	if m.PartName != "base" {
		t.Errorf("PartName = %q, want base", m.PartName)
	}
	if m.Color != "#ef4444" {
		t.Errorf("Color = %q, want #ef4444", m.Color)
	}
}

func TestTriangleFace(t *testing.T) {
	f := makeFace("front", v3.Vec{}, v3.Vec{X: 4}, v3.Vec{X: 2, Z: 3})
	meshes, err := tessellate.Tessellate([]fold.WorldFace{f})
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if got := meshes[0].TriangleCount(); got != 1 {
		t.Errorf("TriangleCount() = %d, want 1", got)
	}
}

func TestNormalsAreFlat(t *testing.T) {
	// Local winding points the normal toward -y.
	f := makeFace("base", v3.Vec{}, v3.Vec{X: 1}, v3.Vec{X: 1, Z: 1}, v3.Vec{Z: 1})
	meshes, err := tessellate.Tessellate([]fold.WorldFace{f})
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	m := meshes[0]
	for i := 0; i < m.VertexCount(); i++ {
		nx, ny, nz := m.Normals[3*i], m.Normals[3*i+1], m.Normals[3*i+2]
		if math.Abs(float64(nx)) > 1e-6 || math.Abs(float64(ny+1)) > 1e-6 || math.Abs(float64(nz)) > 1e-6 {
			t.Errorf("normal %d = (%v,%v,%v), want (0,-1,0)", i, nx, ny, nz)
		}
	}
}

func TestDegenerateFaceErrors(t *testing.T) {
	f := makeFace("broken", v3.Vec{}, v3.Vec{X: 1})
	if _, err := tessellate.Tessellate([]fold.WorldFace{f}); err == nil {
		t.Fatal("expected error for two-vertex face")
	}
}

func TestEmptyInput(t *testing.T) {
	meshes, err := tessellate.Tessellate(nil)
	if err != nil {
		t.Fatalf("Tessellate(nil) error = %v", err)
	}
	if len(meshes) != 0 {
		t.Errorf("got %d meshes, want 0", len(meshes))
	}
}

func TestMerge(t *testing.T) {
	a := makeFace("a", v3.Vec{}, v3.Vec{X: 1}, v3.Vec{X: 1, Z: 1}, v3.Vec{Z: 1})
	b := makeFace("b", v3.Vec{Y: 1}, v3.Vec{X: 1, Y: 1}, v3.Vec{X: 1, Y: 1, Z: 1})
	meshes, err := tessellate.Tessellate([]fold.WorldFace{a, b})
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	m := tessellate.Merge(meshes)
	if m.VertexCount() != 7 {
		t.Errorf("VertexCount() = %d, want 7", m.VertexCount())
	}
	if m.TriangleCount() != 3 {
		t.Errorf("TriangleCount() = %d, want 3", m.TriangleCount())
	}
	// The triangle from b must index its own vertices, after a's four.
	last := m.Indices[len(m.Indices)-3:]
	want := []uint32{4, 5, 6}
	for i := range want {
		if last[i] != want[i] {
			t.Errorf("merged index %d = %d, want %d", i, last[i], want[i])
		}
	}
}
