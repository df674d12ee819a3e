// Package shape builds the hinged face trees of the supported solid
// families. A builder maps linear dimensions and a fold progress in [0,1] to
// a root fold.Face whose hinge angles are already computed: progress 0 is
// the flat net, progress 1 the closed solid.
//
// Builders are pure. Every call allocates a fresh tree and no state is kept
// between calls, so they are safe to call from any number of goroutines.
package shape

import (
	"errors"
	"fmt"
	"strings"
)

// Family identifies a supported solid family.
type Family int

const (
	FamilyBox Family = iota
	FamilyTriangularPrism
	FamilyTrapezoidalPrism
)

// Families lists every supported family in catalog order.
var Families = []Family{FamilyBox, FamilyTriangularPrism, FamilyTrapezoidalPrism}

// ErrUnknownFamily is returned when a family name or value is not supported.
var ErrUnknownFamily = errors.New("unknown solid family")

func (f Family) String() string {
	switch f {
	case FamilyBox:
		return "box"
	case FamilyTriangularPrism:
		return "triangular-prism"
	case FamilyTrapezoidalPrism:
		return "trapezoidal-prism"
	default:
		return fmt.Sprintf("Family(%d)", int(f))
	}
}

// Valid reports whether f is a supported family.
func (f Family) Valid() bool {
	return f >= FamilyBox && f <= FamilyTrapezoidalPrism
}

// ParseFamily parses a family name. The scene id aliases
// (cuboid, quadrilateral-prism) are accepted.
func ParseFamily(s string) (Family, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "box", "cuboid":
		return FamilyBox, nil
	case "triangular-prism", "triangular_prism", "triangle":
		return FamilyTriangularPrism, nil
	case "trapezoidal-prism", "trapezoidal_prism", "quadrilateral-prism", "trapezoid":
		return FamilyTrapezoidalPrism, nil
	}
	return 0, fmt.Errorf("shape: %q: %w", s, ErrUnknownFamily)
}

// MarshalText implements encoding.TextMarshaler.
func (f Family) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("shape: %d: %w", int(f), ErrUnknownFamily)
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Family) UnmarshalText(b []byte) error {
	v, err := ParseFamily(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}
