// Package kernel defines the abstract geometry kernel used to build the
// reference solids a folded net must close into. Implementations (sdfx)
// provide solid construction and meshing behind this interface, so the
// closure checks never depend on a particular backend.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives. Box has its minimum corner at the origin.
	Box(x, y, z float64) Solid
	// Prism extrudes a convex profile in the XY plane along +Z from z=0
	// to z=length.
	Prism(profile [][2]float64, length float64) (Solid, error)

	// Transforms
	Translate(s Solid, x, y, z float64) Solid

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
