// Command foldsnap renders frames of a fold to PNG, binary glTF, STL or
// YAML files and prints the closure report of each frame.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/chazu/foldnet/pkg/config"
	"github.com/chazu/foldnet/pkg/export"
	"github.com/chazu/foldnet/pkg/inspect"
	"github.com/chazu/foldnet/pkg/kernel"
	"github.com/chazu/foldnet/pkg/preview"
	"github.com/chazu/foldnet/pkg/shape"
	"github.com/pkg/errors"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

type options struct {
	configPath string
	family     string
	dims       shape.Dimensions
	progress   float64
	frames     int
	out        string
	format     string
	reference  bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("foldsnap", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "YAML settings file")
	fs.StringVar(&o.family, "family", "", "box, triangular-prism or trapezoidal-prism (default from config)")
	fs.Float64Var(&o.dims.Width, "width", 0, "Width override")
	fs.Float64Var(&o.dims.Height, "height", 0, "Height override")
	fs.Float64Var(&o.dims.Depth, "depth", 0, "Depth override")
	fs.Float64Var(&o.dims.Width2, "width2", 0, "Back width override (trapezoidal prism)")
	fs.Float64Var(&o.progress, "progress", 1, "Fold progress in [0,1]")
	fs.IntVar(&o.frames, "frames", 1, "Evenly spaced frames from flat to closed; 1 uses -progress")
	fs.StringVar(&o.out, "out", "fold", "Output path without extension")
	fs.StringVar(&o.format, "format", "png", "png, glb, stl or yaml")
	fs.BoolVar(&o.reference, "reference", false, "Add the closed reference solid to glb output")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	switch o.format {
	case "png", "glb", "stl", "yaml":
	default:
		return o, errors.Errorf("unknown format %q", o.format)
	}
	if o.frames < 1 || o.frames > 240 {
		return o, errors.Errorf("frames %d out of range [1, 240]", o.frames)
	}
	return o, nil
}

// request resolves the family and dimensions: the config default, then the
// family defaults when another family is picked, then the flags.
func request(cfg *config.Config, o options) (shape.Request, error) {
	req := cfg.Request(o.progress)
	if o.family != "" {
		f, err := shape.ParseFamily(o.family)
		if err != nil {
			return req, err
		}
		if f != req.Family {
			req.Family = f
			req.Dimensions = shape.Defaults(f)
		}
	}
	for _, d := range []struct{ src, dst *float64 }{
		{&o.dims.Width, &req.Dimensions.Width},
		{&o.dims.Height, &req.Dimensions.Height},
		{&o.dims.Depth, &req.Dimensions.Depth},
		{&o.dims.Width2, &req.Dimensions.Width2},
	} {
		if *d.src != 0 {
			*d.dst = *d.src
		}
	}
	return req, req.Dimensions.Validate(req.Family)
}

func outPath(o options, i int) string {
	if o.frames == 1 {
		return o.out + "." + o.format
	}
	return fmt.Sprintf("%s_%03d.%s", o.out, i, o.format)
}

// glb writes the frame as binary glTF, with the reference solid of the
// frame's shape added as one more node when ref is set.
func glb(w io.Writer, fr *shape.Frame, req shape.Request, ref kernel.Kernel) error {
	doc, err := export.Document(fr)
	if err != nil {
		return err
	}
	if ref != nil {
		solid, err := shape.Reference(ref, req.Family, req.Dimensions)
		if err != nil {
			return err
		}
		if req.Centered {
			off := shape.Anchor(req.Family, req.Dimensions)
			solid = ref.Translate(solid, off.X, off.Y, off.Z)
		}
		m, err := ref.ToMesh(solid)
		if err != nil {
			return err
		}
		export.AddMesh(doc, m)
	}
	return export.WriteBinary(w, doc)
}

func write(path string, fr *shape.Frame, req shape.Request, cfg *config.Config, o options) error {
	format := o.format
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if format == "png" {
		return preview.Save(path, fr, cfg.Preview.Options())
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	switch format {
	case "glb":
		var ref kernel.Kernel
		if o.reference {
			if ref, err = cfg.OpenKernel(); err != nil {
				return err
			}
		}
		err = glb(f, fr, req, ref)
	case "stl":
		err = export.STL(f, fr)
	default:
		err = export.YAML(f, fr)
	}
	if err != nil {
		return err
	}
	return f.Close()
}

func run(args []string, stdout io.Writer) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	req, err := request(cfg, o)
	if err != nil {
		return err
	}

	var frames []*shape.Frame
	if o.frames == 1 {
		fr, err := shape.Evaluate(req)
		if err != nil {
			return err
		}
		frames = []*shape.Frame{fr}
	} else if frames, err = shape.Frames(req, o.frames); err != nil {
		return err
	}

	for i, fr := range frames {
		path := outPath(o, i)
		if err := write(path, fr, req, cfg, o); err != nil {
			return errors.Wrapf(err, "Failed to write %s", path)
		}
		rep, err := inspect.Inspect(fr.Net, fr.Faces)
		if err != nil {
			return errors.Wrapf(err, "Failed to inspect frame %d", i)
		}
		fmt.Fprintf(stdout, "%s %s t=%.3f: %s\n", path, fr.Family, fr.Progress, rep)
		if fr.Progress == 1 && !rep.Closed(1e-9) {
			log.Printf("[foldsnap] %s does not close: worst edge %s", path, rep.Worst)
		}
	}
	return nil
}
