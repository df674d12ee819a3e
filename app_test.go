package main

import (
	"context"
	"errors"
	"math"
	"os"
	"testing"

	"github.com/chazu/foldnet/pkg/config"
	"github.com/chazu/foldnet/pkg/illustrate"
	"github.com/chazu/foldnet/pkg/shape"
)

func readExample(t *testing.T, name string) string {
	t.Helper()
	source, err := os.ReadFile("examples/" + name)
	if err != nil {
		t.Fatalf("failed to read %s: %v", name, err)
	}
	return string(source)
}

func requireNoErrors(t *testing.T, errs []EvalErrorData) {
	t.Helper()
	if len(errs) > 0 {
		for _, e := range errs {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}
}

// TestE2EBoxExample exercises the full pipeline: script -> engine -> scene
// -> shape -> compose -> tessellate. This is the same path that the Wails
// Evaluate binding takes, but without the Wails runtime.
func TestE2EBoxExample(t *testing.T) {
	app := NewApp()
	result := app.Evaluate(readExample(t, "box.fold"))
	requireNoErrors(t, result.Errors)

	if len(result.Frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(result.Frames))
	}
	if got := result.Frames[0].Progress; got != 0.5 {
		t.Errorf("progress = %v, want 0.5", got)
	}

	// Expect 6 meshes: base, front, back, left, right, lid.
	if len(result.Meshes) != 6 {
		t.Fatalf("expected 6 meshes, got %d", len(result.Meshes))
	}
	expectedParts := map[string]bool{
		"base": false, "front": false, "back": false,
		"left": false, "right": false, "lid": false,
	}
	for _, m := range result.Meshes {
		if _, ok := expectedParts[m.PartName]; !ok {
			t.Errorf("unexpected part name: %q", m.PartName)
			continue
		}
		expectedParts[m.PartName] = true

		if len(m.Vertices) == 0 || len(m.Normals) == 0 || len(m.Indices) == 0 {
			t.Errorf("part %q: empty geometry", m.PartName)
		}
		if m.Color == "" {
			t.Errorf("part %q: no color assigned", m.PartName)
		}
	}
	for name, found := range expectedParts {
		if !found {
			t.Errorf("missing mesh for part %q", name)
		}
	}
}

func TestE2EExamples(t *testing.T) {
	tests := []struct {
		file   string
		frames int
		meshes int
	}{
		{"box.fold", 1, 6},
		{"triangular_prism.fold", 1, 5},
		{"trapezoidal_prism.fold", 1, 6},
		{"flipbook.fold", 5, 30},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			result := NewApp().Evaluate(readExample(t, tt.file))
			requireNoErrors(t, result.Errors)
			if len(result.Frames) != tt.frames {
				t.Errorf("frames = %d, want %d", len(result.Frames), tt.frames)
			}
			if len(result.Meshes) != tt.meshes {
				t.Errorf("meshes = %d, want %d", len(result.Meshes), tt.meshes)
			}
		})
	}
}

func TestE2EPaletteExample(t *testing.T) {
	result := NewApp().Evaluate(readExample(t, "trapezoidal_prism.fold"))
	requireNoErrors(t, result.Errors)
	for _, f := range result.Frames[0].Faces {
		// The prism's bases are its trapezoidal end caps; the lateral
		// faces include the face the net is cut around.
		switch f.Name {
		case "front":
			if f.Color != "#f97316" {
				t.Errorf("front cap color = %q, want #f97316", f.Color)
			}
		case "base", "back", "left", "right":
			if f.Color != "#facc15" {
				t.Errorf("%s color = %q, want #facc15", f.Name, f.Color)
			}
		}
	}
}

// TestE2EEmptySource ensures the pipeline handles empty input gracefully.
func TestE2EEmptySource(t *testing.T) {
	result := NewApp().Evaluate("")
	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for empty source: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes for empty source, got %d", len(result.Meshes))
	}
}

// TestE2ESyntaxError ensures eval errors are reported, not fatal errors.
func TestE2ESyntaxError(t *testing.T) {
	result := NewApp().Evaluate("(fold (box")
	if len(result.Errors) == 0 {
		t.Fatal("expected eval errors for syntax error")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on error, got %d", len(result.Meshes))
	}
}

// --- Viewer bindings ---

func TestInitialFrame(t *testing.T) {
	app := NewApp()
	res := app.Frame()
	if res.Error != "" {
		t.Fatalf("unexpected error: %s", res.Error)
	}
	if res.Frame.Family != shape.FamilyBox {
		t.Errorf("family = %v, want box", res.Frame.Family)
	}
	if res.Frame.Progress != 0 {
		t.Errorf("progress = %v, want 0", res.Frame.Progress)
	}
	if !res.ShowLabels || !res.ShowHint {
		t.Errorf("labels and hint should start on: %+v", res)
	}
	if res.Dimensions.Width2 != 2 {
		t.Errorf("Width2 = %v, want 2", res.Dimensions.Width2)
	}
	if len(res.Meshes) != 6 {
		t.Errorf("meshes = %d, want 6", len(res.Meshes))
	}
	for _, f := range res.Frame.Faces {
		for _, v := range f.Vertices {
			if math.Abs(v.Y) > 1e-9 {
				t.Fatalf("face %s not flat at progress 0: %v", f.Name, v)
			}
		}
	}
}

func TestScrollAccumulates(t *testing.T) {
	app := NewApp()
	res := app.Scroll(500)
	want := 500 * 0.0006
	if math.Abs(res.Frame.Progress-want) > 1e-12 {
		t.Errorf("progress = %v, want %v", res.Frame.Progress, want)
	}
	if res.ShowHint {
		t.Error("scrolling should hide the hint")
	}
	res = app.Scroll(1e6)
	if res.Frame.Progress != 1 {
		t.Errorf("progress = %v, want clamp to 1", res.Frame.Progress)
	}
	res = app.Scroll(-1e6)
	if res.Frame.Progress != 0 {
		t.Errorf("progress = %v, want clamp to 0", res.Frame.Progress)
	}
}

func TestScrollAtLimitKeepsHint(t *testing.T) {
	app := NewApp()
	if res := app.Scroll(-100); !res.ShowHint {
		t.Error("a scroll that changes nothing should keep the hint")
	}
}

func TestSelectShapeLaysFlat(t *testing.T) {
	app := NewApp()
	app.SetProgress(0.8)
	res := app.SelectShape("triangular-prism")
	if res.Error != "" {
		t.Fatalf("unexpected error: %s", res.Error)
	}
	if res.Frame.Family != shape.FamilyTriangularPrism || res.Frame.Progress != 0 {
		t.Errorf("got %v at %v, want triangular prism at 0", res.Frame.Family, res.Frame.Progress)
	}
	if len(res.Frame.Faces) != 5 {
		t.Errorf("faces = %d, want 5", len(res.Frame.Faces))
	}

	res = app.SelectShape("sphere")
	if res.Error == "" {
		t.Error("expected error for unknown family")
	}
	if res.Frame.Family != shape.FamilyTriangularPrism {
		t.Error("unknown family must not change the selection")
	}
}

func TestQuickAction(t *testing.T) {
	app := NewApp()
	res := app.QuickAction("trapezoidal-prism", "folded")
	if res.Error != "" {
		t.Fatalf("unexpected error: %s", res.Error)
	}
	if res.Frame.Family != shape.FamilyTrapezoidalPrism || res.Frame.Progress != 1 {
		t.Errorf("got %v at %v", res.Frame.Family, res.Frame.Progress)
	}
	if res.ShowHint {
		t.Error("quick action should hide the hint")
	}
	if res.Report.SeamGap > 1e-9 {
		t.Errorf("closed solid has seam gap %v", res.Report.SeamGap)
	}

	res = app.QuickAction("box", "flat")
	if res.Frame.Family != shape.FamilyBox || res.Frame.Progress != 0 {
		t.Errorf("got %v at %v", res.Frame.Family, res.Frame.Progress)
	}

	res = app.QuickAction("box", "explode")
	if res.Error == "" {
		t.Error("expected error for unknown action")
	}
}

func TestSetDimensions(t *testing.T) {
	app := NewApp()
	res := app.SetDimensions(shape.Dimensions{Width: 5, Height: 6, Depth: 1})
	if res.Error != "" {
		t.Fatalf("unexpected error: %s", res.Error)
	}
	if res.Dimensions.Width != 5 || res.Dimensions.Width2 != 2 {
		t.Errorf("dimensions = %+v, want width 5 and width2 kept", res.Dimensions)
	}

	res = app.SetDimensions(shape.Dimensions{Width: 0, Height: 6, Depth: 1})
	if res.Error == "" {
		t.Error("expected error for zero width")
	}
	if res.Dimensions.Width != 5 {
		t.Errorf("rejected dimensions must not apply, got %+v", res.Dimensions)
	}
}

func TestToggleLabelsAndReset(t *testing.T) {
	app := NewApp()
	res := app.ToggleLabels()
	if res.ShowLabels {
		t.Fatal("labels should be off")
	}
	for _, f := range res.Frame.Faces {
		if f.Label != "" {
			t.Errorf("face %s has label %q with labels off", f.Name, f.Label)
		}
	}

	app.SetDimensions(shape.Dimensions{Width: 5, Height: 6, Depth: 1, Width2: 4})
	app.SetProgress(0.7)
	res = app.Reset()
	if !res.ShowLabels || res.Frame.Progress != 0 {
		t.Errorf("reset: labels %v progress %v", res.ShowLabels, res.Frame.Progress)
	}
	want := shape.Dimensions{Width: 3, Height: 4, Depth: 2, Width2: 2}
	if res.Dimensions != want {
		t.Errorf("reset dimensions = %+v, want %+v", res.Dimensions, want)
	}
}

func TestReference(t *testing.T) {
	app := NewApp()
	m, err := app.Reference()
	if err != nil {
		t.Fatalf("Reference() error = %v", err)
	}
	if len(m.Vertices) == 0 || len(m.Indices) == 0 {
		t.Error("reference mesh is empty")
	}
}

type fakeProvider struct {
	prompt string
	img    illustrate.Image
	err    error
}

func (f *fakeProvider) Illustrate(ctx context.Context, prompt string) (illustrate.Image, error) {
	f.prompt = prompt
	return f.img, f.err
}

func TestIllustrate(t *testing.T) {
	app := NewApp()
	fake := &fakeProvider{img: illustrate.Image{MIMEType: "image/png", Data: []byte{1}}}
	app.illustrator = fake

	res := app.Illustrate(1)
	if res.Error != "" {
		t.Fatalf("unexpected error: %s", res.Error)
	}
	if res.Title != "Book" {
		t.Errorf("title = %q, want Book", res.Title)
	}
	if fake.prompt != res.Prompt || res.DataURL != "data:image/png;base64,AQ==" {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestIllustrateFailureKeepsState(t *testing.T) {
	app := NewApp()
	app.illustrator = &fakeProvider{err: errors.New("quota exceeded")}
	before := app.SetProgress(0.4)

	res := app.Illustrate(0)
	if res.Error == "" {
		t.Fatal("expected error")
	}
	if res.Prompt == "" {
		t.Error("prompt should be reported even on failure")
	}
	after := app.Frame()
	if after.Frame.Progress != before.Frame.Progress || after.Frame.Family != before.Frame.Family {
		t.Error("illustration failure changed the fold state")
	}

	if res := app.Illustrate(7); res.Error == "" {
		t.Error("expected error for missing example")
	}
}

func TestUnavailableKernelFallsBack(t *testing.T) {
	cfg := config.Default()
	cfg.Kernel = config.KernelManifold
	app := NewAppWithConfig(cfg)
	if app.kernel == nil {
		t.Fatal("expected a kernel")
	}
	if _, err := app.Reference(); err != nil {
		t.Errorf("Reference() error = %v", err)
	}
}
