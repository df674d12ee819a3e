package shape

import (
	"fmt"

	"github.com/chazu/foldnet/pkg/kernel"
)

// Profile returns the closed cross-section of a family in the x-y plane,
// counter-clockwise, and the length it is extruded along +z. Closed nets
// occupy exactly Profile extruded from z=0 to z=length.
func Profile(f Family, d Dimensions) ([][2]float64, float64, error) {
	if err := d.Validate(f); err != nil {
		return nil, 0, err
	}
	switch f {
	case FamilyBox:
		W, H := d.Width, d.Height
		return [][2]float64{{0, 0}, {W, 0}, {W, H}, {0, H}}, d.Depth, nil
	case FamilyTriangularPrism:
		w := d.Width
		return [][2]float64{{0, 0}, {w, 0}, {w / 2, d.Depth}}, d.Height, nil
	default:
		o := (d.Width - d.Width2) / 2
		return [][2]float64{{0, 0}, {d.Width, 0}, {o + d.Width2, d.Depth}, {o, d.Depth}}, d.Height, nil
	}
}

// Volume returns the enclosed volume of the closed solid.
func Volume(f Family, d Dimensions) (float64, error) {
	if err := d.Validate(f); err != nil {
		return 0, err
	}
	switch f {
	case FamilyBox:
		return d.Width * d.Height * d.Depth, nil
	case FamilyTriangularPrism:
		return d.Width * d.Depth / 2 * d.Height, nil
	default:
		return (d.Width + d.Width2) / 2 * d.Depth * d.Height, nil
	}
}

// Reference builds the solid a closed net must coincide with, in the same
// uncentered world frame the builders use.
func Reference(k kernel.Kernel, f Family, d Dimensions) (kernel.Solid, error) {
	if f == FamilyBox {
		if err := d.Validate(f); err != nil {
			return nil, err
		}
		return k.Box(d.Width, d.Height, d.Depth), nil
	}
	profile, length, err := Profile(f, d)
	if err != nil {
		return nil, err
	}
	s, err := k.Prism(profile, length)
	if err != nil {
		return nil, fmt.Errorf("shape: reference %s: %w", f, err)
	}
	return s, nil
}
