package shape

import (
	"github.com/chazu/foldnet/pkg/fold"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// p returns a point in a face's local y=0 plane.
func p(x, z float64) v3.Vec {
	return v3.Vec{X: x, Z: z}
}

// Box builds the cross-shaped net of a W x H x D box. The base lies in the
// x-z plane from (0,0,0) to (W,0,D); the four walls fold up about its edges
// and the lid hangs off the back wall. Closed, the box fills
// [0,W] x [0,H] x [0,D].
func Box(d Dimensions, progress float64, opts Options) (*Net, error) {
	if err := d.Validate(FamilyBox); err != nil {
		return nil, err
	}
	t := ClampProgress(progress)
	a := BoxAngle(t)
	W, H, D := d.Width, d.Height, d.Depth

	lid := opts.decorate(&fold.Face{
		Name:     "lid",
		Vertices: []v3.Vec{p(0, 0), p(0, -D), p(W, -D), p(W, 0)},
		Hinge:    fold.HingeTop,
		Angle:    a,
		Origin:   v3.Vec{Z: -H},
	}, fold.RoleTop)

	root := opts.decorate(&fold.Face{
		Name:     "base",
		Vertices: []v3.Vec{p(0, 0), p(W, 0), p(W, D), p(0, D)},
		Children: []*fold.Face{
			opts.decorate(&fold.Face{
				Name:     "front",
				Vertices: []v3.Vec{p(0, 0), p(W, 0), p(W, H), p(0, H)},
				Hinge:    fold.HingeBottom,
				Angle:    a,
				Origin:   v3.Vec{Z: D},
			}, fold.RoleSide),
			opts.decorate(&fold.Face{
				Name:     "back",
				Vertices: []v3.Vec{p(0, 0), p(0, -H), p(W, -H), p(W, 0)},
				Hinge:    fold.HingeTop,
				Angle:    a,
				Children: []*fold.Face{lid},
			}, fold.RoleSide),
			opts.decorate(&fold.Face{
				Name:     "left",
				Vertices: []v3.Vec{p(0, 0), p(0, D), p(-H, D), p(-H, 0)},
				Hinge:    fold.HingeLeft,
				Angle:    a,
			}, fold.RoleSide),
			opts.decorate(&fold.Face{
				Name:     "right",
				Vertices: []v3.Vec{p(0, 0), p(H, 0), p(H, D), p(0, D)},
				Hinge:    fold.HingeRight,
				Angle:    a,
				Origin:   v3.Vec{X: W},
			}, fold.RoleSide),
		},
	}, fold.RoleBase)

	return &Net{
		Family:   FamilyBox,
		Progress: t,
		Root:     root,
		Hinges: []Pair{
			pair("base", 1, "right", 3),
			pair("base", 2, "front", 0),
			pair("base", 3, "left", 0),
			pair("base", 0, "back", 3),
			pair("back", 1, "lid", 3),
		},
		Seams: []Pair{
			pair("front", 2, "lid", 1),
			pair("left", 1, "front", 3),
			pair("left", 3, "back", 0),
			pair("left", 2, "lid", 0),
			pair("right", 0, "back", 2),
			pair("right", 2, "front", 1),
			pair("right", 1, "lid", 2),
		},
	}, nil
}
