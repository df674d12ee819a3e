//go:build manifold

package manifold

import (
	"math"
	"testing"

	"github.com/chazu/foldnet/pkg/kernel"
)

func mustNew(t *testing.T) kernel.Kernel {
	t.Helper()
	k, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return k
}

func checkBounds(t *testing.T, s kernel.Solid, wantMin, wantMax [3]float64) {
	t.Helper()
	min, max := s.BoundingBox()
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-wantMin[i]) > 1e-6 {
			t.Errorf("min[%d] = %f, want %f", i, min[i], wantMin[i])
		}
		if math.Abs(max[i]-wantMax[i]) > 1e-6 {
			t.Errorf("max[%d] = %f, want %f", i, max[i], wantMax[i])
		}
	}
}

func TestBox(t *testing.T) {
	k := mustNew(t)
	checkBounds(t, k.Box(3, 2, 4), [3]float64{0, 0, 0}, [3]float64{3, 2, 4})
}

func TestTranslate(t *testing.T) {
	k := mustNew(t)
	moved := k.Translate(k.Box(3, 2, 4), -1.5, 0, -2)
	checkBounds(t, moved, [3]float64{-1.5, 0, -2}, [3]float64{1.5, 2, 2})
}

func TestPrism(t *testing.T) {
	k := mustNew(t)
	// Isosceles triangle 4 wide and 3 high, 5 long.
	s, err := k.Prism([][2]float64{{0, 0}, {4, 0}, {2, 3}}, 5)
	if err != nil {
		t.Fatalf("Prism() error = %v", err)
	}
	checkBounds(t, s, [3]float64{0, 0, 0}, [3]float64{4, 3, 5})

	m, err := k.ToMesh(s)
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	// Two triangular caps and three quads.
	if m.TriangleCount() != 8 {
		t.Errorf("triangle count = %d, want 8", m.TriangleCount())
	}
}

func TestPrismErrors(t *testing.T) {
	k := mustNew(t)
	if _, err := k.Prism([][2]float64{{0, 0}, {1, 0}}, 1); err == nil {
		t.Error("expected error for a two point profile")
	}
	if _, err := k.Prism([][2]float64{{0, 0}, {1, 0}, {0, 1}}, 0); err == nil {
		t.Error("expected error for zero length")
	}
}

func TestToMesh(t *testing.T) {
	k := mustNew(t)
	mesh, err := k.ToMesh(k.Box(2, 2, 2))
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("ToMesh() returned empty mesh for a box")
	}
	// A box has 12 triangles (2 per face, 6 faces).
	if mesh.TriangleCount() < 12 {
		t.Errorf("triangle count = %d, want >= 12", mesh.TriangleCount())
	}
	if len(mesh.Normals) != len(mesh.Vertices) {
		t.Errorf("normals length = %d, vertices length = %d, want equal",
			len(mesh.Normals), len(mesh.Vertices))
	}
	if mesh.PartName != "reference" {
		t.Errorf("PartName = %q, want reference", mesh.PartName)
	}
}

func TestComputeFlatNormals(t *testing.T) {
	// One triangle in the XZ plane, wound so its normal is +Y.
	vertices := []float32{0, 0, 0, 0, 0, 1, 1, 0, 0}
	n := computeFlatNormals(vertices, []uint32{0, 1, 2})
	for i := 0; i < 3; i++ {
		if math.Abs(float64(n[i*3+1])-1) > 1e-6 {
			t.Errorf("vertex %d normal = %v, want +Y", i, n[i*3:i*3+3])
		}
	}
}
