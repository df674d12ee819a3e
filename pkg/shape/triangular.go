package shape

import (
	"math"

	"github.com/chazu/foldnet/pkg/fold"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// TriangularPrism builds the net of a right prism over an isosceles triangle
// with base w and apex height d, of length h. The rectangular base spans
// (0,0,0) to (w,0,h); the two lateral panels lean in until they meet at the
// apex line x = w/2, y = d, and the triangular caps close the ends.
func TriangularPrism(d Dimensions, progress float64, opts Options) (*Net, error) {
	if err := d.Validate(FamilyTriangularPrism); err != nil {
		return nil, err
	}
	t := ClampProgress(progress)
	side, end := TriangularAngles(d, t)
	w, h, ad := d.Width, d.Height, d.Depth
	s := math.Hypot(w/2, ad)

	root := opts.decorate(&fold.Face{
		Name:     "base",
		Vertices: []v3.Vec{p(0, 0), p(w, 0), p(w, h), p(0, h)},
		Children: []*fold.Face{
			opts.decorate(&fold.Face{
				Name:     "left",
				Vertices: []v3.Vec{p(0, 0), p(0, h), p(-s, h), p(-s, 0)},
				Hinge:    fold.HingeLeft,
				Angle:    side,
			}, fold.RoleSide),
			opts.decorate(&fold.Face{
				Name:     "right",
				Vertices: []v3.Vec{p(0, 0), p(s, 0), p(s, h), p(0, h)},
				Hinge:    fold.HingeRight,
				Angle:    side,
				Origin:   v3.Vec{X: w},
			}, fold.RoleSide),
			opts.decorate(&fold.Face{
				Name:     "front",
				Vertices: []v3.Vec{p(0, 0), p(w, 0), p(w/2, ad)},
				Hinge:    fold.HingeBottom,
				Angle:    end,
				Origin:   v3.Vec{Z: h},
			}, fold.RoleBase),
			opts.decorate(&fold.Face{
				Name:     "back",
				Vertices: []v3.Vec{p(0, 0), p(w/2, -ad), p(w, 0)},
				Hinge:    fold.HingeTop,
				Angle:    end,
			}, fold.RoleTop),
		},
	}, fold.RoleSide)

	return &Net{
		Family:   FamilyTriangularPrism,
		Progress: t,
		Root:     root,
		Hinges: []Pair{
			pair("base", 3, "left", 0),
			pair("base", 1, "right", 3),
			pair("base", 2, "front", 0),
			pair("base", 0, "back", 2),
		},
		Seams: []Pair{
			pair("left", 2, "right", 1),
			pair("left", 1, "front", 2),
			pair("left", 3, "back", 0),
			pair("right", 2, "front", 1),
			pair("right", 0, "back", 1),
		},
	}, nil
}
