// Package inspect measures how well a composed net closes: the gaps along
// its declared hinges and seams, its flatness, the volume it encloses and
// the orientation of its faces.
package inspect

import (
	"fmt"
	"math"

	"github.com/chazu/foldnet/pkg/fold"
	"github.com/chazu/foldnet/pkg/shape"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

// Report summarises one composed frame.
type Report struct {
	HingeGap float64 `json:"hingeGap"` // largest endpoint distance over hinges
	SeamGap  float64 `json:"seamGap"`  // largest endpoint distance over seams
	Flatness float64 `json:"flatness"` // largest |y| over all vertices
	Volume   float64 `json:"volume"`   // signed, positive when normals face out
	Outward  bool    `json:"outward"`  // every face normal points away from the centroid
	Worst    string  `json:"worst,omitempty"`
}

// Closed reports whether every declared edge meets within tol.
func (r Report) Closed(tol float64) bool {
	return r.HingeGap <= tol && r.SeamGap <= tol
}

func (r Report) String() string {
	return fmt.Sprintf("hinge gap %.3g, seam gap %.3g, flatness %.3g, volume %.6g, outward %v",
		r.HingeGap, r.SeamGap, r.Flatness, r.Volume, r.Outward)
}

func vec(v v3.Vec) r3.Vec {
	return r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}

// endpoints returns the world start and end of an edge.
func endpoints(faces map[string]fold.WorldFace, e shape.Edge) (a, b r3.Vec, err error) {
	f, ok := faces[e.Face]
	if !ok {
		return a, b, fmt.Errorf("inspect: no face %q", e.Face)
	}
	n := len(f.Vertices)
	if e.Index < 0 || e.Index >= n {
		return a, b, fmt.Errorf("inspect: face %q has no edge %d", e.Face, e.Index)
	}
	return vec(f.Vertices[e.Index]), vec(f.Vertices[(e.Index+1)%n]), nil
}

// EdgeGap returns the larger endpoint distance between edge A and the
// reverse of edge B.
func EdgeGap(faces map[string]fold.WorldFace, p shape.Pair) (float64, error) {
	a0, a1, err := endpoints(faces, p.A)
	if err != nil {
		return 0, err
	}
	b0, b1, err := endpoints(faces, p.B)
	if err != nil {
		return 0, err
	}
	return math.Max(r3.Norm(r3.Sub(a0, b1)), r3.Norm(r3.Sub(a1, b0))), nil
}

// Inspect measures a composed frame against its net's declared edges.
func Inspect(net *shape.Net, faces []fold.WorldFace) (Report, error) {
	var r Report
	byName := fold.Lookup(faces)

	worst := -1.0
	measure := func(p shape.Pair, acc *float64) error {
		g, err := EdgeGap(byName, p)
		if err != nil {
			return err
		}
		*acc = math.Max(*acc, g)
		if g > worst {
			worst, r.Worst = g, p.String()
		}
		return nil
	}
	for _, h := range net.Hinges {
		if err := measure(h, &r.HingeGap); err != nil {
			return r, err
		}
	}
	for _, s := range net.Seams {
		if err := measure(s, &r.SeamGap); err != nil {
			return r, err
		}
	}

	for _, f := range faces {
		for _, v := range f.Vertices {
			r.Flatness = math.Max(r.Flatness, math.Abs(v.Y))
		}
	}
	r.Volume = Volume(faces)
	r.Outward = Outward(faces)
	return r, nil
}

// Volume returns the signed volume enclosed by the faces, summing the
// divergence-theorem contribution of every fan triangle. It is only
// meaningful for a closed surface.
func Volume(faces []fold.WorldFace) float64 {
	var sum float64
	for _, f := range faces {
		if len(f.Vertices) < 3 {
			continue
		}
		v0 := vec(f.Vertices[0])
		for i := 1; i < len(f.Vertices)-1; i++ {
			v1, v2 := vec(f.Vertices[i]), vec(f.Vertices[i+1])
			sum += r3.Dot(v0, r3.Cross(v1, v2))
		}
	}
	return sum / 6
}

// Outward reports whether every face normal points away from the centroid
// of all vertices. It holds for the closed convex solids built here.
func Outward(faces []fold.WorldFace) bool {
	var c r3.Vec
	n := 0
	for _, f := range faces {
		for _, v := range f.Vertices {
			c = r3.Add(c, vec(v))
			n++
		}
	}
	if n == 0 {
		return false
	}
	c = r3.Scale(1/float64(n), c)
	for _, f := range faces {
		if len(f.Vertices) == 0 {
			return false
		}
		center := r3.Scale(1/float64(len(f.Vertices)), sumVec(f.Vertices))
		if r3.Dot(vec(f.Normal), r3.Sub(center, c)) <= 0 {
			return false
		}
	}
	return true
}

func sumVec(vs []v3.Vec) r3.Vec {
	var s r3.Vec
	for _, v := range vs {
		s = r3.Add(s, vec(v))
	}
	return s
}

// VolumeMatches reports whether the report's volume equals the family's
// closed volume within a relative tolerance.
func (r Report) VolumeMatches(f shape.Family, d shape.Dimensions, tol float64) bool {
	want, err := shape.Volume(f, d)
	if err != nil {
		return false
	}
	return scalar.EqualWithinRel(r.Volume, want, tol) || scalar.EqualWithinAbs(r.Volume, want, tol)
}

// Bounds returns the axis-aligned bounding box of the faces.
func Bounds(faces []fold.WorldFace) (min, max [3]float64) {
	first := true
	for _, f := range faces {
		for _, v := range f.Vertices {
			p := [3]float64{v.X, v.Y, v.Z}
			for i := range p {
				if first || p[i] < min[i] {
					min[i] = p[i]
				}
				if first || p[i] > max[i] {
					max[i] = p[i]
				}
			}
			first = false
		}
	}
	return min, max
}

// BoundsMatch reports whether two boxes agree per coordinate within tol.
func BoundsMatch(aMin, aMax, bMin, bMax [3]float64, tol float64) bool {
	for i := 0; i < 3; i++ {
		if !scalar.EqualWithinAbs(aMin[i], bMin[i], tol) || !scalar.EqualWithinAbs(aMax[i], bMax[i], tol) {
			return false
		}
	}
	return true
}
