package engine

import (
	"math"
	"strings"
	"testing"

	"github.com/chazu/foldnet/pkg/fold"
	"github.com/chazu/foldnet/pkg/shape"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(box :width 3)`,
			expect: `(box "__kw_width" 3)`,
		},
		{
			name:   "multiple keywords",
			input:  `(fold s :progress 0.5 :labels true)`,
			expect: `(fold s "__kw_progress" 0.5 "__kw_labels" true)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "color string preserved",
			input:  `(palette :base "#3b82f6")`,
			expect: `(palette "__kw_base" "#3b82f6")`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(triangular-prism :width 4)`,
			expect: `(triangular_prism "__kw_width" 4)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:family :trapezoidal-prism`,
			expect: `"__kw_family" "__kw_trapezoidal-prism"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// mustScene evaluates source and fails on any error.
func mustScene(t *testing.T, source string) *Scene {
	t.Helper()
	sc, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if sc == nil {
		t.Fatal("expected non-nil scene")
	}
	return sc
}

// ---------------------------------------------------------------------------
// Shape constructors
// ---------------------------------------------------------------------------

func TestSimpleBox(t *testing.T) {
	sc := mustScene(t, `(fold (box :width 3 :height 4 :depth 2) :progress 0.5)`)
	if sc.Len() != 1 {
		t.Fatalf("expected 1 request, got %d", sc.Len())
	}
	req := sc.Requests[0]
	if req.Family != shape.FamilyBox {
		t.Errorf("expected box, got %s", req.Family)
	}
	want := shape.Dimensions{Width: 3, Height: 4, Depth: 2}
	if req.Dimensions != want {
		t.Errorf("expected dimensions %+v, got %+v", want, req.Dimensions)
	}
	if req.Progress != 0.5 {
		t.Errorf("expected progress=0.5, got %f", req.Progress)
	}
	if req.Options.ShowLabels {
		t.Error("expected labels off by default")
	}
	if req.Options.Palette != fold.DefaultPalette {
		t.Errorf("expected default palette, got %+v", req.Options.Palette)
	}
}

func TestKebabCaseFamilies(t *testing.T) {
	sc := mustScene(t, `
(fold (triangular-prism :width 4 :height 5 :depth 3))
(fold (trapezoidal-prism :width 3 :width2 2 :height 4 :depth 2))
(fold (quadrilateral-prism))
(fold (cuboid))
`)
	want := []shape.Family{
		shape.FamilyTriangularPrism,
		shape.FamilyTrapezoidalPrism,
		shape.FamilyTrapezoidalPrism,
		shape.FamilyBox,
	}
	if sc.Len() != len(want) {
		t.Fatalf("expected %d requests, got %d", len(want), sc.Len())
	}
	for i, f := range want {
		if sc.Requests[i].Family != f {
			t.Errorf("request %d: expected %s, got %s", i, f, sc.Requests[i].Family)
		}
	}
	if sc.Requests[1].Dimensions.Width2 != 2 {
		t.Errorf("expected width2=2, got %f", sc.Requests[1].Dimensions.Width2)
	}
}

func TestShapeByFamilyKeyword(t *testing.T) {
	sc := mustScene(t, `(fold (shape :family :trapezoidal-prism :width 4 :width2 1))`)
	req := sc.Requests[0]
	if req.Family != shape.FamilyTrapezoidalPrism {
		t.Fatalf("expected trapezoidal-prism, got %s", req.Family)
	}
	if req.Dimensions.Width != 4 || req.Dimensions.Width2 != 1 {
		t.Errorf("unexpected dimensions %+v", req.Dimensions)
	}
}

func TestDefaultsFillMissingDimensions(t *testing.T) {
	sc := mustScene(t, `(fold (box :width 5))`)
	d := sc.Requests[0].Dimensions
	if d.Width != 5 || d.Height != 4 || d.Depth != 2 {
		t.Errorf("expected 5x4x2, got %+v", d)
	}
	if sc.Requests[0].Progress != 1 {
		t.Errorf("expected default progress=1, got %f", sc.Requests[0].Progress)
	}
}

// ---------------------------------------------------------------------------
// Variable reference test
// ---------------------------------------------------------------------------

func TestVariableReference(t *testing.T) {
	sc := mustScene(t, `
(def w 2.5)
(def s (box :width w :height (* w 2)))
(fold s :progress 0.25)
(fold s :progress 0.75)
`)
	if sc.Len() != 2 {
		t.Fatalf("expected 2 requests, got %d", sc.Len())
	}
	if d := sc.Requests[0].Dimensions; d.Width != 2.5 || d.Height != 5 {
		t.Errorf("expected 2.5x5 (from variable), got %+v", d)
	}
	if sc.Requests[1].Progress != 0.75 {
		t.Errorf("expected progress=0.75, got %f", sc.Requests[1].Progress)
	}
}

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

func TestFoldOptions(t *testing.T) {
	sc := mustScene(t, `
(def p (palette :base "#111111" :side "#222222"))
(fold (box) :labels true :centered true :palette p)
`)
	req := sc.Requests[0]
	if !req.Options.ShowLabels {
		t.Error("expected labels on")
	}
	if !req.Centered {
		t.Error("expected centered")
	}
	pal := req.Options.Palette
	if pal.Base != "#111111" || pal.Side != "#222222" {
		t.Errorf("unexpected palette %+v", pal)
	}
	if pal.Top != fold.DefaultPalette.Top {
		t.Errorf("expected default top color, got %q", pal.Top)
	}
}

func TestFrames(t *testing.T) {
	sc := mustScene(t, `(frames (box) :count 5 :labels true)`)
	if sc.Len() != 5 {
		t.Fatalf("expected 5 requests, got %d", sc.Len())
	}
	for i, req := range sc.Requests {
		want := float64(i) / 4
		if math.Abs(req.Progress-want) > 1e-12 {
			t.Errorf("request %d: progress %f, want %f", i, req.Progress, want)
		}
		if !req.Options.ShowLabels {
			t.Errorf("request %d: expected labels on", i)
		}
	}
}

func TestWarnings(t *testing.T) {
	sc := mustScene(t, `
(fold (box) :progress 1.5)
(fold (box :width 40))
(fold (box))
`)
	if sc.Len() != 3 {
		t.Fatalf("expected 3 requests, got %d", sc.Len())
	}
	if len(sc.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d: %v", len(sc.Warnings), sc.Warnings)
	}
	if !strings.Contains(sc.Warnings[0].Message, "clamped") || sc.Warnings[0].Request != 0 {
		t.Errorf("unexpected first warning %+v", sc.Warnings[0])
	}
	if sc.Warnings[1].Request != 1 {
		t.Errorf("unexpected second warning %+v", sc.Warnings[1])
	}
}

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"negative width", `(fold (box :width -1))`, "width"},
		{"string dimension", `(box :depth "deep")`, "expected number"},
		{"fold without shape", `(fold)`, "requires a shape"},
		{"fold of number", `(fold 3)`, "expected shape"},
		{"unknown family", `(shape :family :pyramid)`, "unknown solid family"},
		{"shape without family", `(shape :width 1)`, "requires :family"},
		{"bad palette value", `(palette :base 12)`, "expected string"},
		{"bad frame count", `(frames (box) :count 1)`, "out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, evalErrs, err := NewEngine().Evaluate(tt.source)
			if err != nil {
				t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
			}
			if sc != nil {
				t.Fatal("expected nil scene on eval error")
			}
			if len(evalErrs) == 0 {
				t.Fatal("expected at least one eval error")
			}
			if !strings.Contains(evalErrs[0].Message, tt.want) {
				t.Errorf("message = %q, want containing %q", evalErrs[0].Message, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Requests evaluate cleanly (regression)
// ---------------------------------------------------------------------------

func TestRequestsEvaluate(t *testing.T) {
	sc := mustScene(t, `
(fold (box) :progress 0)
(fold (triangular-prism) :progress 0.5 :labels true)
(fold (trapezoidal-prism :width 2 :width2 4) :centered true)
`)
	for i, req := range sc.Requests {
		if _, err := shape.Evaluate(req); err != nil {
			t.Errorf("request %d: %v", i, err)
		}
	}
}

// ---------------------------------------------------------------------------
// Plain arithmetic still works (regression)
// ---------------------------------------------------------------------------

func TestArithmeticStillWorks(t *testing.T) {
	sc := mustScene(t, "(+ 1 2)")
	if sc.Len() != 0 {
		t.Errorf("expected empty scene, got %d requests", sc.Len())
	}
}
