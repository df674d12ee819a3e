package fold

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// WorldFace is a face resolved into world space.
type WorldFace struct {
	Name     string   `json:"name"`
	Role     Role     `json:"role"`
	Label    string   `json:"label,omitempty"`
	Color    string   `json:"color"`
	Vertices []v3.Vec `json:"vertices"`
	Center   v3.Vec   `json:"center"` // label anchor
	Normal   v3.Vec   `json:"normal"`
	Depth    int      `json:"depth"` // hinge depth below the root
}

// Identity returns the identity transform, the parent of a root face.
func Identity() sdf.M44 {
	return sdf.Identity3d()
}

// Offset returns a translation to use as the parent transform of a root
// face, e.g. to center a net around the origin.
func Offset(v v3.Vec) sdf.M44 {
	return sdf.Translate3d(v)
}

// Compose resolves the tree rooted at root into world-space faces.
// Each face's transform is parent * Translate(Origin) * Rotation(Hinge, Angle);
// children are placed in that post-rotation frame. Output is depth-first
// with parents before children. The tree is never modified.
func Compose(root *Face, parent sdf.M44) []WorldFace {
	if root == nil {
		return nil
	}
	out := make([]WorldFace, 0, root.Count())
	return compose(root, parent, 0, out)
}

func compose(f *Face, parent sdf.M44, depth int, out []WorldFace) []WorldFace {
	world := parent.Mul(sdf.Translate3d(f.Origin)).Mul(f.Hinge.Rotation(f.Angle))

	vs := make([]v3.Vec, len(f.Vertices))
	for i, v := range f.Vertices {
		vs[i] = world.MulPosition(v)
	}

	out = append(out, WorldFace{
		Name:     f.Name,
		Role:     f.Role,
		Label:    f.Label,
		Color:    f.Color,
		Vertices: vs,
		Center:   BoundingCenter(vs),
		Normal:   Normal(vs),
		Depth:    depth,
	})

	for _, c := range f.Children {
		out = compose(c, world, depth+1, out)
	}
	return out
}

// BoundingCenter returns the midpoint of the axis-aligned bounding box of vs.
func BoundingCenter(vs []v3.Vec) v3.Vec {
	if len(vs) == 0 {
		return v3.Vec{}
	}
	lo, hi := vs[0], vs[0]
	for _, v := range vs[1:] {
		lo = lo.Min(v)
		hi = hi.Max(v)
	}
	return lo.Add(hi).MulScalar(0.5)
}

// Normal returns the unit normal (v1-v0)x(v2-v0) of a polygon, or the zero
// vector for fewer than three points or a degenerate polygon.
func Normal(vs []v3.Vec) v3.Vec {
	if len(vs) < 3 {
		return v3.Vec{}
	}
	n := vs[1].Sub(vs[0]).Cross(vs[2].Sub(vs[0]))
	l := n.Length()
	if l == 0 || math.IsNaN(l) {
		return v3.Vec{}
	}
	return n.MulScalar(1 / l)
}

// Lookup indexes world faces by name.
func Lookup(faces []WorldFace) map[string]WorldFace {
	m := make(map[string]WorldFace, len(faces))
	for _, f := range faces {
		m[f.Name] = f
	}
	return m
}
