package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/chazu/foldnet/pkg/fold"
	"github.com/chazu/foldnet/pkg/inspect"
	"github.com/chazu/foldnet/pkg/shape"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gopkg.in/yaml.v3"
)

type faceDump struct {
	Name     string       `yaml:"name"`
	Role     fold.Role    `yaml:"role"`
	Label    string       `yaml:"label,omitempty"`
	Color    string       `yaml:"color"`
	Depth    int          `yaml:"depth"`
	Normal   [3]float64   `yaml:"normal,flow"`
	Center   [3]float64   `yaml:"center,flow"`
	Vertices [][3]float64 `yaml:"vertices,flow"`
}

type reportDump struct {
	HingeGap float64 `yaml:"hinge_gap"`
	SeamGap  float64 `yaml:"seam_gap"`
	Flatness float64 `yaml:"flatness"`
	Volume   float64 `yaml:"volume"`
	Outward  bool    `yaml:"outward"`
	Worst    string  `yaml:"worst,omitempty"`
}

type frameDump struct {
	Family   shape.Family       `yaml:"family"`
	Progress float64            `yaml:"progress"`
	Angles   map[string]float64 `yaml:"angles"`
	Hinges   []string           `yaml:"hinges,flow"`
	Seams    []string           `yaml:"seams,flow"`
	Faces    []faceDump         `yaml:"faces"`
	Report   *reportDump        `yaml:"report,omitempty"`
}

func triple(v v3.Vec) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func pairs(ps []shape.Pair) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.String()
	}
	return out
}

func dump(frame *shape.Frame) (*frameDump, error) {
	d := &frameDump{
		Family:   frame.Family,
		Progress: frame.Progress,
		Angles:   frame.Angles,
		Hinges:   pairs(frame.Hinges),
		Seams:    pairs(frame.Seams),
		Faces:    make([]faceDump, len(frame.Faces)),
	}
	for i, f := range frame.Faces {
		fd := faceDump{
			Name:     f.Name,
			Role:     f.Role,
			Label:    f.Label,
			Color:    f.Color,
			Depth:    f.Depth,
			Normal:   triple(f.Normal),
			Center:   triple(f.Center),
			Vertices: make([][3]float64, len(f.Vertices)),
		}
		for j, v := range f.Vertices {
			fd.Vertices[j] = triple(v)
		}
		d.Faces[i] = fd
	}
	if frame.Net != nil {
		r, err := inspect.Inspect(frame.Net, frame.Faces)
		if err != nil {
			return nil, err
		}
		d.Report = &reportDump{
			HingeGap: r.HingeGap,
			SeamGap:  r.SeamGap,
			Flatness: r.Flatness,
			Volume:   r.Volume,
			Outward:  r.Outward,
			Worst:    r.Worst,
		}
	}
	return d, nil
}

// YAML writes a readable dump of the frame, including its closure report
// when the net is attached.
func YAML(w io.Writer, frame *shape.Frame) error {
	d, err := dump(frame)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	var buffer bytes.Buffer
	enc := yaml.NewEncoder(&buffer)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("export: encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("export: encode yaml: %w", err)
	}
	_, err = w.Write(buffer.Bytes())
	return err
}
