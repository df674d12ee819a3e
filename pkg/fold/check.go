package fold

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// checkEps is the tolerance used for local-frame checks.
const checkEps = 1e-9

// TreeError describes a malformed face tree. Malformed trees are a builder
// bug; the composer itself never rejects input.
type TreeError struct {
	Face    string // face name, empty for tree-level problems
	Message string
}

func (e TreeError) Error() string {
	if e.Face == "" {
		return e.Message
	}
	return fmt.Sprintf("face %q: %s", e.Face, e.Message)
}

// Check validates the structure of a face tree and returns every problem
// found. An empty slice means the tree is well formed. Check is read-only.
func Check(root *Face) []TreeError {
	if root == nil {
		return []TreeError{{Message: "nil root face"}}
	}

	var errs []TreeError
	if root.Hinge != HingeNone {
		errs = append(errs, TreeError{Face: root.Name, Message: fmt.Sprintf("root face has hinge %s, want none", root.Hinge)})
	}
	if root.Angle != 0 {
		errs = append(errs, TreeError{Face: root.Name, Message: "root face has a non-zero angle"})
	}

	seen := make(map[string]bool)
	root.Walk(func(f *Face) bool {
		if f.Name == "" {
			errs = append(errs, TreeError{Message: "face without a name"})
		} else if seen[f.Name] {
			errs = append(errs, TreeError{Face: f.Name, Message: "duplicate face name"})
		}
		seen[f.Name] = true

		errs = append(errs, checkFace(f)...)
		for _, c := range f.Children {
			if c == nil {
				errs = append(errs, TreeError{Face: f.Name, Message: "nil child"})
				continue
			}
			if c.Hinge == HingeNone {
				errs = append(errs, TreeError{Face: c.Name, Message: "child face without a hinge"})
			}
		}
		return true
	})
	return errs
}

func checkFace(f *Face) []TreeError {
	var errs []TreeError
	n := len(f.Vertices)
	if n != 3 && n != 4 {
		return append(errs, TreeError{Face: f.Name, Message: fmt.Sprintf("has %d vertices, want 3 or 4", n)})
	}
	if !finite(f.Angle) || !finiteVec(f.Origin) {
		errs = append(errs, TreeError{Face: f.Name, Message: "non-finite angle or origin"})
	}
	for i, v := range f.Vertices {
		if !finiteVec(v) {
			errs = append(errs, TreeError{Face: f.Name, Message: fmt.Sprintf("vertex %d is not finite", i)})
			return errs
		}
		if abs(v.Y) > checkEps {
			errs = append(errs, TreeError{Face: f.Name, Message: fmt.Sprintf("vertex %d leaves the local y=0 plane", i)})
		}
	}

	// Every corner must turn the same way: convex, wound toward -y.
	for i := 0; i < n; i++ {
		a, b, c := f.Vertices[i], f.Vertices[(i+1)%n], f.Vertices[(i+2)%n]
		if turnY(a, b, c) >= -checkEps {
			errs = append(errs, TreeError{Face: f.Name, Message: fmt.Sprintf("corner %d is not convex with -y winding", (i+1)%n)})
			break
		}
	}

	if f.Hinge != HingeNone && !hasHingeEdge(f) {
		errs = append(errs, TreeError{Face: f.Name, Message: fmt.Sprintf("no edge lies on the %s hinge axis", f.Hinge)})
	}
	return errs
}

// hasHingeEdge reports whether some polygon edge lies on the hinge line.
func hasHingeEdge(f *Face) bool {
	n := len(f.Vertices)
	for i := 0; i < n; i++ {
		a, b := f.Vertices[i], f.Vertices[(i+1)%n]
		if f.Hinge.onAxis(a, checkEps) && f.Hinge.onAxis(b, checkEps) && a.Sub(b).Length() > checkEps {
			return true
		}
	}
	return false
}

// turnY is the y component of (b-a)x(c-a).
func turnY(a, b, c v3.Vec) float64 {
	u, w := b.Sub(a), c.Sub(a)
	return u.Z*w.X - u.X*w.Z
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func finiteVec(v v3.Vec) bool {
	return finite(v.X) && finite(v.Y) && finite(v.Z)
}
