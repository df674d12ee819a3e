package fold

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Hinge identifies the local edge a face rotates about when it folds
// relative to its parent.
type Hinge int

const (
	HingeNone   Hinge = iota // root / anchor face
	HingeLeft                // local z axis, folds with RotateZ(-angle)
	HingeRight               // local z axis, folds with RotateZ(+angle)
	HingeTop                 // local x axis, folds with RotateX(+angle)
	HingeBottom              // local x axis, folds with RotateX(-angle)
)

func (h Hinge) String() string {
	switch h {
	case HingeNone:
		return "none"
	case HingeLeft:
		return "left"
	case HingeRight:
		return "right"
	case HingeTop:
		return "top"
	case HingeBottom:
		return "bottom"
	default:
		return fmt.Sprintf("Hinge(%d)", int(h))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (h Hinge) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// Rotation returns the rotation a hinge applies for the given fold angle.
// The signs are chosen so that a positive angle always lifts the child face
// toward +y, which is the inside of the closing solid.
func (h Hinge) Rotation(angle float64) sdf.M44 {
	switch h {
	case HingeTop:
		return sdf.RotateX(angle)
	case HingeBottom:
		return sdf.RotateX(-angle)
	case HingeLeft:
		return sdf.RotateZ(-angle)
	case HingeRight:
		return sdf.RotateZ(angle)
	default:
		return sdf.Identity3d()
	}
}

// onAxis reports whether a local point lies on the hinge line.
func (h Hinge) onAxis(v v3.Vec, eps float64) bool {
	switch h {
	case HingeTop, HingeBottom:
		return abs(v.Y) <= eps && abs(v.Z) <= eps
	case HingeLeft, HingeRight:
		return abs(v.X) <= eps && abs(v.Y) <= eps
	default:
		return false
	}
}

// Role is the display role of a face. The palette maps roles to colors.
type Role int

const (
	RoleBase Role = iota
	RoleSide
	RoleTop
)

func (r Role) String() string {
	switch r {
	case RoleBase:
		return "base"
	case RoleSide:
		return "side"
	case RoleTop:
		return "top"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Palette maps face roles to display colors. Highlight is passed through to
// the renderer for hover feedback and is never assigned to a face.
type Palette struct {
	Base      string `json:"base" yaml:"base"`
	Side      string `json:"side" yaml:"side"`
	Top       string `json:"top" yaml:"top"`
	Highlight string `json:"highlight" yaml:"highlight"`
}

// DefaultPalette is the palette used when none is supplied.
var DefaultPalette = Palette{
	Base:      "#3b82f6",
	Side:      "#ef4444",
	Top:       "#10b981",
	Highlight: "#f59e0b",
}

// Color resolves a role to its color, falling back to DefaultPalette for
// roles the palette leaves empty.
func (p Palette) Color(r Role) string {
	var c, fallback string
	switch r {
	case RoleBase:
		c, fallback = p.Base, DefaultPalette.Base
	case RoleSide:
		c, fallback = p.Side, DefaultPalette.Side
	case RoleTop:
		c, fallback = p.Top, DefaultPalette.Top
	}
	if c == "" {
		return fallback
	}
	return c
}

// Face is a planar polygon in its own local frame, attached to its parent
// through a hinge. Local polygons lie in the y = 0 plane and are wound so
// that (v1-v0)x(v2-v0) points toward -y.
type Face struct {
	Name     string   `json:"name"`
	Vertices []v3.Vec `json:"vertices"`
	Hinge    Hinge    `json:"hinge"`
	Angle    float64  `json:"angle"`  // radians about the hinge axis
	Origin   v3.Vec   `json:"origin"` // hinge position in the parent's rotated frame
	Children []*Face  `json:"children,omitempty"`
	Role     Role     `json:"role"`
	Label    string   `json:"label,omitempty"`
	Color    string   `json:"color"`
}

// Walk visits f and its descendants depth first, parents before children.
// Returning false from fn stops the descent below that face.
func (f *Face) Walk(fn func(f *Face) bool) {
	if f == nil || !fn(f) {
		return
	}
	for _, c := range f.Children {
		c.Walk(fn)
	}
}

// Count returns the number of faces in the tree rooted at f.
func (f *Face) Count() int {
	n := 0
	f.Walk(func(*Face) bool { n++; return true })
	return n
}

// Find returns the first face with the given name, or nil.
func (f *Face) Find(name string) *Face {
	var found *Face
	f.Walk(func(c *Face) bool {
		if found != nil {
			return false
		}
		if c.Name == name {
			found = c
			return false
		}
		return true
	})
	return found
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
