package shape

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDimensions is matched by every *DimensionError.
var ErrInvalidDimensions = errors.New("invalid dimensions")

// Dimensions holds the linear sizes of a solid. Which fields a family uses:
//
//	box:               Width=W (x), Height=H (wall height), Depth=D (z)
//	triangular prism:  Width=w (base), Height=h (length), Depth=d (apex height)
//	trapezoidal prism: Width=w1 (front), Height=h (length), Depth=d, Width2=w2 (back)
type Dimensions struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
	Depth  float64 `json:"depth" yaml:"depth"`
	Width2 float64 `json:"width2,omitempty" yaml:"width2,omitempty"`
}

// DimensionError reports the first unusable dimension field for a family.
type DimensionError struct {
	Family Family
	Field  string
	Value  float64
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("shape: %s: %s = %g must be finite and > 0", e.Family, e.Field, e.Value)
}

// Is makes errors.Is(err, ErrInvalidDimensions) true for any DimensionError.
func (e *DimensionError) Is(target error) bool {
	return target == ErrInvalidDimensions
}

type dimField struct {
	name string
	v    float64
}

// Validate checks the fields the family uses. Unused fields are ignored.
func (d Dimensions) Validate(f Family) error {
	if !f.Valid() {
		return fmt.Errorf("shape: %d: %w", int(f), ErrUnknownFamily)
	}
	fields := []dimField{
		{"width", d.Width},
		{"height", d.Height},
		{"depth", d.Depth},
	}
	if f == FamilyTrapezoidalPrism {
		fields = append(fields, dimField{"width2", d.Width2})
	}
	for _, fl := range fields {
		if math.IsNaN(fl.v) || math.IsInf(fl.v, 0) || fl.v <= 0 {
			return &DimensionError{Family: f, Field: fl.name, Value: fl.v}
		}
	}
	return nil
}

// Clamp limits each used field to the catalog's advisory slider range.
// Hosts use it on user input; the builders never clamp dimensions.
func (d Dimensions) Clamp(f Family) Dimensions {
	info, ok := Lookup(f)
	if !ok {
		return d
	}
	d.Width = info.Limits.Width.clamp(d.Width)
	d.Height = info.Limits.Height.clamp(d.Height)
	d.Depth = info.Limits.Depth.clamp(d.Depth)
	if f == FamilyTrapezoidalPrism {
		d.Width2 = info.Limits.Width2.clamp(d.Width2)
	}
	return d
}

// ClampProgress maps a fold progress into [0,1]; NaN becomes 0.
func ClampProgress(t float64) float64 {
	switch {
	case math.IsNaN(t), t < 0:
		return 0
	case t > 1:
		return 1
	}
	return t
}
