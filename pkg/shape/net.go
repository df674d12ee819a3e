package shape

import (
	"fmt"

	"github.com/chazu/foldnet/pkg/fold"
)

// Edge names the polygon edge of a face running from vertex Index to vertex
// Index+1 (wrapping).
type Edge struct {
	Face  string `json:"face"`
	Index int    `json:"index"`
}

func (e Edge) String() string {
	return fmt.Sprintf("%s[%d]", e.Face, e.Index)
}

// Pair declares that edge A coincides with edge B traversed in reverse.
type Pair struct {
	A Edge `json:"a"`
	B Edge `json:"b"`
}

func (p Pair) String() string {
	return p.A.String() + "~" + p.B.String()
}

// Net is a built face tree plus its declared edges. Hinges coincide at every
// progress; Seams only meet once the solid is closed.
type Net struct {
	Family   Family     `json:"family"`
	Progress float64    `json:"progress"`
	Root     *fold.Face `json:"root"`
	Hinges   []Pair     `json:"hinges"`
	Seams    []Pair     `json:"seams"`
}

// Edges returns every declared edge pair, hinges first.
func (n *Net) Edges() []Pair {
	out := make([]Pair, 0, len(n.Hinges)+len(n.Seams))
	out = append(out, n.Hinges...)
	return append(out, n.Seams...)
}

// Angles returns the hinge angle of every face by name. The root is 0.
func (n *Net) Angles() map[string]float64 {
	out := make(map[string]float64)
	n.Root.Walk(func(f *fold.Face) bool {
		out[f.Name] = f.Angle
		return true
	})
	return out
}

// Build dispatches to the family's builder. Dimensions are validated before
// anything is built; progress is clamped.
func Build(f Family, d Dimensions, progress float64, opts Options) (*Net, error) {
	switch f {
	case FamilyBox:
		return Box(d, progress, opts)
	case FamilyTriangularPrism:
		return TriangularPrism(d, progress, opts)
	case FamilyTrapezoidalPrism:
		return TrapezoidalPrism(d, progress, opts)
	}
	return nil, fmt.Errorf("shape: %d: %w", int(f), ErrUnknownFamily)
}

func pair(fa string, ia int, fb string, ib int) Pair {
	return Pair{A: Edge{fa, ia}, B: Edge{fb, ib}}
}
