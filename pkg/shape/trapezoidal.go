package shape

import (
	"math"

	"github.com/chazu/foldnet/pkg/fold"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// TrapezoidalPrism builds the net of a right prism over a trapezoid with
// parallel sides w1 (on the ground) and w2 (on top), height d, and length h.
// The back panel hangs off the right panel so the four lateral faces form a
// strip. With w1 == w2 the geometry is that of a w1 x d x h box.
func TrapezoidalPrism(d Dimensions, progress float64, opts Options) (*Net, error) {
	if err := d.Validate(FamilyTrapezoidalPrism); err != nil {
		return nil, err
	}
	t := ClampProgress(progress)
	side, back, end := TrapezoidalAngles(d, t)
	w1, w2, h, td := d.Width, d.Width2, d.Height, d.Depth
	o := (w1 - w2) / 2
	s := math.Hypot(o, td)

	root := opts.decorate(&fold.Face{
		Name:     "base",
		Vertices: []v3.Vec{p(0, 0), p(w1, 0), p(w1, h), p(0, h)},
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
				Origin:   v3.Vec{X: w1},
				Children: []*fold.Face{
					opts.decorate(&fold.Face{
						Name:     "back",
						Vertices: []v3.Vec{p(0, 0), p(w2, 0), p(w2, h), p(0, h)},
						Hinge:    fold.HingeRight,
						Angle:    back,
						Origin:   v3.Vec{X: s},
					}, fold.RoleSide),
				},
			}, fold.RoleSide),
			opts.decorate(&fold.Face{
				Name:     "front",
				Vertices: []v3.Vec{p(0, 0), p(w1, 0), p(o+w2, td), p(o, td)},
				Hinge:    fold.HingeBottom,
				Angle:    end,
				Origin:   v3.Vec{Z: h},
			}, fold.RoleBase),
			opts.decorate(&fold.Face{
				Name:     "back-cap",
				Vertices: []v3.Vec{p(0, 0), p(o, -td), p(o+w2, -td), p(w1, 0)},
				Hinge:    fold.HingeTop,
				Angle:    end,
			}, fold.RoleTop),
		},
	}, fold.RoleSide)

	return &Net{
		Family:   FamilyTrapezoidalPrism,
		Progress: t,
		Root:     root,
		Hinges: []Pair{
			pair("base", 3, "left", 0),
			pair("base", 1, "right", 3),
			pair("base", 2, "front", 0),
			pair("base", 0, "back-cap", 3),
			pair("right", 1, "back", 3),
		},
		Seams: []Pair{
			pair("left", 2, "back", 1),
			pair("left", 1, "front", 3),
			pair("left", 3, "back-cap", 0),
			pair("right", 2, "front", 1),
			pair("right", 0, "back-cap", 2),
			pair("back", 2, "front", 2),
			pair("back", 0, "back-cap", 1),
		},
	}, nil
}
