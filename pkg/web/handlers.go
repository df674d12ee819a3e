package web

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/chazu/foldnet/pkg/engine"
	"github.com/chazu/foldnet/pkg/export"
	"github.com/chazu/foldnet/pkg/inspect"
	"github.com/chazu/foldnet/pkg/preview"
	"github.com/chazu/foldnet/pkg/shape"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

const (
	maxScriptSize = 1 << 20
	maxFrames     = 240
)

type frameResponse struct {
	*shape.Frame
	Report inspect.Report `json:"report"`
}

type scriptResponse struct {
	Frames   []*shape.Frame       `json:"frames"`
	Errors   []engine.EvalError   `json:"errors"`
	Warnings []engine.EvalWarning `json:"warnings"`
}

// statusOf maps domain errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, shape.ErrUnknownFamily):
		return http.StatusNotFound
	case errors.Is(err, shape.ErrInvalidDimensions), errors.Is(err, errBadParam):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

var errBadParam = errors.New("bad parameter")

func floatParam(q url.Values, name string, dst *float64) error {
	v := q.Get(name)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return errors.Wrapf(errBadParam, "%s=%q", name, v)
	}
	*dst = f
	return nil
}

func boolParam(q url.Values, name string, dst *bool) error {
	v := q.Get(name)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return errors.Wrapf(errBadParam, "%s=%q", name, v)
	}
	*dst = b
	return nil
}

// request reads a frame request from the route and query string. Missing
// dimensions take the family defaults; progress defaults to closed.
func (s *Server) request(r *http.Request) (shape.Request, error) {
	f, err := shape.ParseFamily(mux.Vars(r)["family"])
	if err != nil {
		return shape.Request{}, err
	}
	req := shape.Request{
		Family:     f,
		Dimensions: shape.Defaults(f),
		Progress:   1,
		Options: shape.Options{
			ShowLabels: s.cfg.Default.ShowLabels,
			Palette:    s.cfg.Palette,
		},
		Centered: s.cfg.Default.Centered,
	}

	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  *float64
	}{
		{"width", &req.Dimensions.Width},
		{"height", &req.Dimensions.Height},
		{"depth", &req.Dimensions.Depth},
		{"width2", &req.Dimensions.Width2},
		{"progress", &req.Progress},
	} {
		if err := floatParam(q, p.name, p.dst); err != nil {
			return shape.Request{}, err
		}
	}
	if err := boolParam(q, "labels", &req.Options.ShowLabels); err != nil {
		return shape.Request{}, err
	}
	if err := boolParam(q, "centered", &req.Centered); err != nil {
		return shape.Request{}, err
	}
	return req, nil
}

func (s *Server) frame(r *http.Request) (*shape.Frame, error) {
	req, err := s.request(r)
	if err != nil {
		return nil, err
	}
	return shape.Evaluate(req)
}

// HandlerFamilies lists the catalog.
func (s *Server) HandlerFamilies(w http.ResponseWriter, r *http.Request) {
	writeJson(w, shape.Catalog())
}

// HandlerFrame returns one frame with its closure report.
func (s *Server) HandlerFrame(w http.ResponseWriter, r *http.Request) {
	fr, err := s.frame(r)
	if err != nil {
		writeError(w, statusOf(err), errors.Wrapf(err, "frame"))
		return
	}
	rep, err := inspect.Inspect(fr.Net, fr.Faces)
	if err != nil {
		writeError(w, http.StatusInternalServerError, errors.Wrapf(err, "inspect"))
		return
	}
	writeJson(w, frameResponse{Frame: fr, Report: rep})
}

// HandlerFrames returns count evenly spaced frames from flat to closed.
func (s *Server) HandlerFrames(w http.ResponseWriter, r *http.Request) {
	req, err := s.request(r)
	if err != nil {
		writeError(w, statusOf(err), errors.Wrapf(err, "frames"))
		return
	}
	count := 10
	if v := r.URL.Query().Get("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxFrames {
			writeError(w, http.StatusBadRequest, errors.Wrapf(errBadParam, "count=%q", v))
			return
		}
		count = n
	}
	frames, err := shape.Frames(req, count)
	if err != nil {
		writeError(w, statusOf(err), errors.Wrapf(err, "frames"))
		return
	}
	writeJson(w, frames)
}

// HandlerScript evaluates a scene script posted as the request body and
// returns one frame per fold form.
func (s *Server) HandlerScript(w http.ResponseWriter, r *http.Request) {
	src, err := io.ReadAll(io.LimitReader(r.Body, maxScriptSize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrapf(err, "Failed to read"))
		return
	}
	if len(src) > maxScriptSize {
		writeError(w, http.StatusRequestEntityTooLarge, errors.Errorf("script larger than %d bytes", maxScriptSize))
		return
	}

	res := scriptResponse{
		Frames:   []*shape.Frame{},
		Errors:   []engine.EvalError{},
		Warnings: []engine.EvalWarning{},
	}
	sc, evalErrs, err := engine.NewEngine().Evaluate(string(src))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, errors.Wrapf(err, "script"))
		return
	}
	if len(evalErrs) > 0 {
		res.Errors = append(res.Errors, evalErrs...)
		writeJson(w, res)
		return
	}
	res.Warnings = append(res.Warnings, sc.Warnings...)
	for i, req := range sc.Requests {
		fr, err := shape.Evaluate(req)
		if err != nil {
			res.Errors = append(res.Errors, engine.EvalError{Message: errors.Wrapf(err, "fold %d", i).Error()})
			continue
		}
		res.Frames = append(res.Frames, fr)
	}
	writeJson(w, res)
}

// HandlerDumpGltf downloads the frame as binary glTF.
func (s *Server) HandlerDumpGltf(w http.ResponseWriter, r *http.Request) {
	fr, err := s.frame(r)
	if err != nil {
		writeError(w, statusOf(err), errors.Wrapf(err, "gltf"))
		return
	}
	var buf bytes.Buffer
	if err := export.GLB(&buf, fr); err != nil {
		writeError(w, http.StatusInternalServerError, errors.Wrapf(err, "Failed to export"))
		return
	}
	writeFile(w, &buf, fr.Family.String()+".glb", "model/gltf-binary")
}

// HandlerDumpYaml downloads a readable dump of the frame.
func (s *Server) HandlerDumpYaml(w http.ResponseWriter, r *http.Request) {
	fr, err := s.frame(r)
	if err != nil {
		writeError(w, statusOf(err), errors.Wrapf(err, "yaml"))
		return
	}
	var buf bytes.Buffer
	if err := export.YAML(&buf, fr); err != nil {
		writeError(w, http.StatusInternalServerError, errors.Wrapf(err, "Failed to export"))
		return
	}
	writeFile(w, &buf, fr.Family.String()+".yaml", "application/yaml")
}

// HandlerDumpStl downloads the frame as one binary STL solid.
func (s *Server) HandlerDumpStl(w http.ResponseWriter, r *http.Request) {
	fr, err := s.frame(r)
	if err != nil {
		writeError(w, statusOf(err), errors.Wrapf(err, "stl"))
		return
	}
	var buf bytes.Buffer
	if err := export.STL(&buf, fr); err != nil {
		writeError(w, http.StatusInternalServerError, errors.Wrapf(err, "Failed to export"))
		return
	}
	writeFile(w, &buf, fr.Family.String()+".stl", "model/stl")
}

// HandlerDumpPng renders the frame. Optional w and h query parameters
// override the configured preview size.
func (s *Server) HandlerDumpPng(w http.ResponseWriter, r *http.Request) {
	fr, err := s.frame(r)
	if err != nil {
		writeError(w, statusOf(err), errors.Wrapf(err, "png"))
		return
	}
	opts := s.cfg.Preview.Options()
	q := r.URL.Query()
	for _, d := range []struct {
		name string
		dst  *int
	}{{"w", &opts.Width}, {"h", &opts.Height}} {
		if v := q.Get(d.name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > 4096 {
				writeError(w, http.StatusBadRequest, errors.Wrapf(errBadParam, "%s=%q", d.name, v))
				return
			}
			*d.dst = n
		}
	}

	img, err := preview.Render(fr, opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, errors.Wrapf(err, "Failed to render"))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := preview.WritePNG(w, img); err != nil {
		writeError(w, http.StatusInternalServerError, errors.Wrapf(err, "Failed to encode"))
	}
}
