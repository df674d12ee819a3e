package main

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/chazu/foldnet/pkg/config"
	"github.com/chazu/foldnet/pkg/engine"
	"github.com/chazu/foldnet/pkg/illustrate"
	"github.com/chazu/foldnet/pkg/inspect"
	"github.com/chazu/foldnet/pkg/kernel"
	"github.com/chazu/foldnet/pkg/kernel/sdfx"
	"github.com/chazu/foldnet/pkg/progress"
	"github.com/chazu/foldnet/pkg/shape"
	"github.com/chazu/foldnet/pkg/tessellate"
)

// App is the Wails backend. It exposes methods to the frontend via bindings.
// It holds the current selection; every binding returns the frame to draw.
type App struct {
	ctx    context.Context
	cfg    *config.Config
	engine *engine.Engine
	kernel kernel.Kernel

	illustrator illustrate.Provider

	mu         sync.Mutex
	family     shape.Family
	dims       shape.Dimensions
	showLabels bool
	hintGone   bool
	acc        *progress.Accumulator
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// FrameResult is the state of the viewer after a binding call.
type FrameResult struct {
	Frame      *shape.Frame     `json:"frame"`
	Meshes     []MeshData       `json:"meshes"`
	Report     inspect.Report   `json:"report"`
	Dimensions shape.Dimensions `json:"dimensions"`
	ShowLabels bool             `json:"showLabels"`
	ShowHint   bool             `json:"showHint"`
	Error      string           `json:"error,omitempty"`
}

// EvalResult is the full result returned to the frontend.
type EvalResult struct {
	Frames   []*shape.Frame  `json:"frames"`
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// IllustrationResult carries a generated picture or the reason there is
// none.
type IllustrationResult struct {
	Title   string `json:"title"`
	Prompt  string `json:"prompt"`
	DataURL string `json:"dataUrl,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewApp creates a new App with the default settings.
func NewApp() *App {
	return NewAppWithConfig(config.Default())
}

// NewAppWithConfig creates a new App with an engine, the configured
// reference kernel and an HTTP illustration provider built from cfg.
func NewAppWithConfig(cfg *config.Config) *App {
	k, err := cfg.OpenKernel()
	if err != nil {
		log.Printf("[app] Kernel %q unavailable, using sdfx: %v", cfg.Kernel, err)
		k = sdfx.New()
	}
	il := cfg.Illustrate
	return &App{
		cfg:         cfg,
		engine:      engine.NewEngine(),
		kernel:      k,
		illustrator: illustrate.NewHTTPProvider(il.Endpoint, il.Model, il.APIKey(), il.Timeout),
		family:      cfg.Default.Family,
		dims:        startDimensions(cfg.Default.Dimensions),
		showLabels:  cfg.Default.ShowLabels,
		acc:         progress.New(cfg.Sensitivity),
	}
}

// startDimensions fills Width2 so that switching to the trapezoidal prism
// never starts from an invalid back width.
func startDimensions(d shape.Dimensions) shape.Dimensions {
	if d.Width2 <= 0 {
		d.Width2 = shape.Defaults(shape.FamilyTrapezoidalPrism).Width2
	}
	return d
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

func (a *App) context() context.Context {
	if a.ctx != nil {
		return a.ctx
	}
	return context.Background()
}

// request snapshots the current selection. The caller holds a.mu.
func (a *App) request() shape.Request {
	return shape.Request{
		Family:     a.family,
		Dimensions: a.dims,
		Progress:   a.acc.Value(),
		Options: shape.Options{
			ShowLabels: a.showLabels,
			Palette:    a.cfg.Palette,
		},
		Centered: a.cfg.Default.Centered,
	}
}

// frame evaluates the current selection. The caller holds a.mu.
func (a *App) frame() FrameResult {
	res := FrameResult{
		Meshes:     []MeshData{},
		Dimensions: a.dims,
		ShowLabels: a.showLabels,
		ShowHint:   !a.hintGone,
	}
	fr, err := shape.Evaluate(a.request())
	if err != nil {
		log.Printf("[app] Frame error: %v", err)
		res.Error = err.Error()
		return res
	}
	res.Frame = fr
	if rep, err := inspect.Inspect(fr.Net, fr.Faces); err == nil {
		res.Report = rep
	}
	meshes, err := tessellate.Tessellate(fr.Faces)
	if err != nil {
		log.Printf("[app] Tessellate error: %v", err)
		res.Error = "tessellation failed: " + err.Error()
		return res
	}
	res.Meshes = meshData(meshes)
	return res
}

func meshData(meshes []*kernel.Mesh) []MeshData {
	out := make([]MeshData, 0, len(meshes))
	for _, m := range meshes {
		out = append(out, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Color:    m.Color,
		})
	}
	return out
}

// Catalog lists the supported families.
func (a *App) Catalog() []shape.Info {
	return shape.Catalog()
}

// Frame returns the current frame without changing anything.
func (a *App) Frame() FrameResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.frame()
}

// SelectShape switches family and lays the new net flat. Dimensions are
// kept.
func (a *App) SelectShape(family string) FrameResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	f, err := shape.ParseFamily(family)
	if err != nil {
		res := a.frame()
		res.Error = err.Error()
		return res
	}
	a.family = f
	a.acc.Set(0)
	return a.frame()
}

// SetDimensions replaces the dimensions. Invalid values are rejected and
// the previous dimensions stay in place.
func (a *App) SetDimensions(d shape.Dimensions) FrameResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	if d.Width2 == 0 {
		d.Width2 = a.dims.Width2
	}
	if err := d.Validate(shape.FamilyTrapezoidalPrism); err != nil {
		res := a.frame()
		res.Error = err.Error()
		return res
	}
	a.dims = d
	return a.frame()
}

// SetProgress sets the fold progress, clamped to [0,1].
func (a *App) SetProgress(t float64) FrameResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acc.Set(t)
	return a.frame()
}

// Scroll feeds a wheel delta into the progress accumulator.
func (a *App) Scroll(delta float64) FrameResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, changed := a.acc.Scroll(delta); changed {
		a.hintGone = true
	}
	return a.frame()
}

// QuickAction selects family and jumps to the flat net ("flat") or the
// closed solid ("folded").
func (a *App) QuickAction(family, action string) FrameResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	f, err := shape.ParseFamily(family)
	if err != nil {
		res := a.frame()
		res.Error = err.Error()
		return res
	}
	var t float64
	switch action {
	case "flat":
		t = 0
	case "folded":
		t = 1
	default:
		res := a.frame()
		res.Error = "unknown action " + action
		return res
	}
	a.family = f
	a.acc.Set(t)
	a.hintGone = true
	return a.frame()
}

// ToggleLabels flips face labels on or off.
func (a *App) ToggleLabels() FrameResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.showLabels = !a.showLabels
	return a.frame()
}

// Reset restores the start dimensions, lays the net flat and shows labels.
// The selected family is kept.
func (a *App) Reset() FrameResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.dims = shape.Defaults(shape.FamilyTrapezoidalPrism)
	a.showLabels = true
	a.acc.Reset()
	return a.frame()
}

// Evaluate takes scene script source and returns one frame per fold form,
// with meshes for all of them. This is the binding called by the editor.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Frames:   []*shape.Frame{},
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the script into a scene of requests.
	sc, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("[app] Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	// Step 2: Convert eval errors to the frontend format.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}
	for _, w := range sc.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Line: w.Line, Col: w.Col, Message: w.Message})
	}

	// Step 3: Build and tessellate every requested frame.
	for _, req := range sc.Requests {
		fr, err := shape.Evaluate(req)
		if err != nil {
			result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
			continue
		}
		meshes, err := tessellate.Tessellate(fr.Faces)
		if err != nil {
			log.Printf("[app] Tessellate error: %v", err)
			result.Errors = append(result.Errors, EvalErrorData{Message: "tessellation failed: " + err.Error()})
			continue
		}
		result.Frames = append(result.Frames, fr)
		result.Meshes = append(result.Meshes, meshData(meshes)...)
	}
	return result
}

// Reference returns the closed solid of the current selection built by the
// solid kernel, for overlay against the folded net.
func (a *App) Reference() (MeshData, error) {
	a.mu.Lock()
	f, d := a.family, a.dims
	a.mu.Unlock()

	solid, err := shape.Reference(a.kernel, f, d)
	if err != nil {
		return MeshData{}, err
	}
	if a.cfg.Default.Centered {
		off := shape.Anchor(f, d)
		solid = a.kernel.Translate(solid, off.X, off.Y, off.Z)
	}
	m, err := a.kernel.ToMesh(solid)
	if err != nil {
		return MeshData{}, err
	}
	return meshData([]*kernel.Mesh{m})[0], nil
}

// Illustrate generates a picture of example i of the selected family. A
// failure is reported in the result and never changes the fold state.
func (a *App) Illustrate(exampleIndex int) IllustrationResult {
	a.mu.Lock()
	f := a.family
	a.mu.Unlock()

	ex, err := illustrate.Example(f, exampleIndex)
	if err != nil {
		return IllustrationResult{Error: err.Error()}
	}
	res := IllustrationResult{Title: ex.Title, Prompt: illustrate.Prompt(ex)}

	ctx := a.context()
	if t := a.cfg.Illustrate.Timeout; t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t+time.Second)
		defer cancel()
	}
	img, err := a.illustrator.Illustrate(ctx, res.Prompt)
	if err != nil {
		log.Printf("[app] Illustrate error: %v", err)
		res.Error = err.Error()
		return res
	}
	res.DataURL = img.DataURL()
	return res
}
