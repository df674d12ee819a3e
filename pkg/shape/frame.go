package shape

import (
	"sync"

	"github.com/chazu/foldnet/pkg/fold"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Request is everything needed to produce one frame.
type Request struct {
	Family     Family     `json:"family" yaml:"family"`
	Dimensions Dimensions `json:"dimensions" yaml:"dimensions"`
	Progress   float64    `json:"progress" yaml:"progress"`
	Options    Options    `json:"options" yaml:"options"`
	Centered   bool       `json:"centered" yaml:"centered"`
}

// Frame is one evaluated request: the world-space faces ready to render,
// plus the net they came from.
type Frame struct {
	Family    Family             `json:"family"`
	Progress  float64            `json:"progress"`
	Faces     []fold.WorldFace   `json:"faces"`
	Net       *Net               `json:"-"`
	Hinges    []Pair             `json:"hinges"`
	Seams     []Pair             `json:"seams"`
	Angles    map[string]float64 `json:"angles"`
	Highlight string             `json:"highlight"`
}

// Anchor returns the offset that centers a family's base footprint on the
// origin: (-W/2, 0, -D/2) for the box, (-w/2, 0, -h/2) for the prisms.
func Anchor(f Family, d Dimensions) v3.Vec {
	if f == FamilyBox {
		return v3.Vec{X: -d.Width / 2, Z: -d.Depth / 2}
	}
	return v3.Vec{X: -d.Width / 2, Z: -d.Height / 2}
}

// Evaluate builds the request's net and composes it into world space.
func Evaluate(req Request) (*Frame, error) {
	net, err := Build(req.Family, req.Dimensions, req.Progress, req.Options)
	if err != nil {
		return nil, err
	}
	parent := fold.Identity()
	if req.Centered {
		parent = fold.Offset(Anchor(req.Family, req.Dimensions))
	}
	hl := req.Options.Palette.Highlight
	if hl == "" {
		hl = fold.DefaultPalette.Highlight
	}
	return &Frame{
		Family:    net.Family,
		Progress:  net.Progress,
		Faces:     fold.Compose(net.Root, parent),
		Net:       net,
		Hinges:    net.Hinges,
		Seams:     net.Seams,
		Angles:    net.Angles(),
		Highlight: hl,
	}, nil
}

// Frames evaluates n evenly spaced progress values from 0 to 1 in parallel.
// The request's own progress is ignored. n < 2 yields the single closed
// frame.
func Frames(req Request, n int) ([]*Frame, error) {
	if err := req.Dimensions.Validate(req.Family); err != nil {
		return nil, err
	}
	if n < 2 {
		req.Progress = 1
		f, err := Evaluate(req)
		if err != nil {
			return nil, err
		}
		return []*Frame{f}, nil
	}

	frames := make([]*Frame, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r := req
			r.Progress = float64(i) / float64(n-1)
			frames[i], errs[i] = Evaluate(r)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return frames, nil
}
