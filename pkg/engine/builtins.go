package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/foldnet/pkg/fold"
	"github.com/chazu/foldnet/pkg/shape"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms scene source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: triangular-prism -> triangular_prism
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpShape wraps a family and its dimensions so it can be returned from
// `box` and friends and consumed by `fold`.
type sexpShape struct {
	family shape.Family
	dims   shape.Dimensions
}

func (s *sexpShape) SexpString(ps *zygo.PrintState) string {
	d := s.dims
	if s.family == shape.FamilyTrapezoidalPrism {
		return fmt.Sprintf("(%s %gx%gx%g/%g)", s.family, d.Width, d.Height, d.Depth, d.Width2)
	}
	return fmt.Sprintf("(%s %gx%gx%g)", s.family, d.Width, d.Height, d.Depth)
}
func (s *sexpShape) Type() *zygo.RegisteredType { return nil }

// sexpPalette wraps a fold.Palette.
type sexpPalette struct {
	palette fold.Palette
}

func (p *sexpPalette) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(palette :base %q :side %q :top %q)", p.palette.Base, p.palette.Side, p.palette.Top)
}
func (p *sexpPalette) Type() *zygo.RegisteredType { return nil }

// sexpRequest is returned from `fold` and refers to a scene request by index.
type sexpRequest struct {
	index int
	req   shape.Request
}

func (r *sexpRequest) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(fold %s :progress %g)", r.req.Family, r.req.Progress)
}
func (r *sexpRequest) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: a flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toBool extracts a boolean from a Sexp. Numbers are true when non-zero.
func toBool(s zygo.Sexp) (bool, error) {
	switch v := s.(type) {
	case *zygo.SexpBool:
		return v.Val, nil
	case *zygo.SexpInt:
		return v.Val != 0, nil
	}
	if s == zygo.SexpNull {
		return false, nil
	}
	return false, fmt.Errorf("expected boolean, got %T (%s)", s, s.SexpString(nil))
}

// toShape extracts a family and dimensions from a sexpShape.
func toShape(s zygo.Sexp) (*sexpShape, error) {
	if sh, ok := s.(*sexpShape); ok {
		return sh, nil
	}
	return nil, fmt.Errorf("expected shape, got %T (%s)", s, s.SexpString(nil))
}

// toPalette extracts a palette from a sexpPalette.
func toPalette(s zygo.Sexp) (fold.Palette, error) {
	if p, ok := s.(*sexpPalette); ok {
		return p.palette, nil
	}
	return fold.Palette{}, fmt.Errorf("expected palette, got %T (%s)", s, s.SexpString(nil))
}

// toFamily converts a keyword or string to a shape.Family.
func toFamily(s zygo.Sexp) (shape.Family, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected family keyword: %w", err)
	}
	return shape.ParseFamily(name)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// dimensionKeys maps script keywords to dimension fields.
var dimensionKeys = []string{"width", "height", "depth", "width2"}

// shapeBuiltin returns the implementation of a family constructor such as
// (box :width 3 :height 4 :depth 2). Omitted dimensions take the family's
// catalog defaults; the result is validated immediately.
func shapeBuiltin(f shape.Family) func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error) {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		return buildShape(f, pa)
	}
}

func buildShape(f shape.Family, pa kwArgs) (zygo.Sexp, error) {
	d := shape.Defaults(f)
	fields := []*float64{&d.Width, &d.Height, &d.Depth, &d.Width2}
	for i, key := range dimensionKeys {
		v, ok := pa.kw[key]
		if !ok {
			continue
		}
		x, err := toFloat64(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %s: %w", f, key, err)
		}
		*fields[i] = x
	}
	if err := d.Validate(f); err != nil {
		return zygo.SexpNull, err
	}
	return &sexpShape{family: f, dims: d}, nil
}

// registerBuiltins installs all scene builtins into a zygomys environment.
// The builtins append to the provided Scene during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, sc *Scene) {

	// -----------------------------------------------------------------------
	// (box :width 3 :height 4 :depth 2)
	// (triangular-prism :width 4 :height 5 :depth 3)
	// (trapezoidal-prism :width 3 :width2 2 :height 4 :depth 2)
	//
	// Registered with underscores because zygomys does not support hyphens
	// in identifiers; the preprocessor rewrites the kebab-case names.
	// -----------------------------------------------------------------------
	env.AddFunction("box", shapeBuiltin(shape.FamilyBox))
	env.AddFunction("cuboid", shapeBuiltin(shape.FamilyBox))
	env.AddFunction("triangular_prism", shapeBuiltin(shape.FamilyTriangularPrism))
	env.AddFunction("trapezoidal_prism", shapeBuiltin(shape.FamilyTrapezoidalPrism))
	env.AddFunction("quadrilateral_prism", shapeBuiltin(shape.FamilyTrapezoidalPrism))

	// -----------------------------------------------------------------------
	// (shape :family :box :width 3 ...)
	// -----------------------------------------------------------------------
	env.AddFunction("shape", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		v, ok := pa.kw["family"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("shape requires :family")
		}
		f, err := toFamily(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("shape: family: %w", err)
		}
		return buildShape(f, pa)
	})

	// -----------------------------------------------------------------------
	// (palette :base "#3b82f6" :side "#ef4444" :top "#10b981" :highlight "#f59e0b")
	// -----------------------------------------------------------------------
	env.AddFunction("palette", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		p := fold.DefaultPalette
		for key, dst := range map[string]*string{
			"base":      &p.Base,
			"side":      &p.Side,
			"top":       &p.Top,
			"highlight": &p.Highlight,
		} {
			v, ok := pa.kw[key]
			if !ok {
				continue
			}
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("palette: %s: %w", key, err)
			}
			*dst = s
		}
		return &sexpPalette{palette: p}, nil
	})

	// -----------------------------------------------------------------------
	// (fold (box ...) :progress 0.5 :labels true :palette p :centered true)
	// -----------------------------------------------------------------------
	env.AddFunction("fold", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("fold requires a shape as first argument")
		}
		sh, err := toShape(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("fold: %w", err)
		}
		req, err := requestFrom(sh, pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("fold: %w", err)
		}
		idx := sc.add(req)
		return &sexpRequest{index: idx, req: req}, nil
	})

	// -----------------------------------------------------------------------
	// (frames (box ...) :count 5 :labels true)
	//
	// Appends count requests evenly spaced from flat to closed and returns
	// how many were added.
	// -----------------------------------------------------------------------
	env.AddFunction("frames", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("frames requires a shape as first argument")
		}
		sh, err := toShape(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("frames: %w", err)
		}
		n := 2
		if v, ok := pa.kw["count"]; ok {
			c, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("frames: count: %w", err)
			}
			n = int(c)
		}
		if n < 2 || n > maxFrames {
			return zygo.SexpNull, fmt.Errorf("frames: count %d out of range [2, %d]", n, maxFrames)
		}
		delete(pa.kw, "progress")
		req, err := requestFrom(sh, pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("frames: %w", err)
		}
		for i := 0; i < n; i++ {
			r := req
			r.Progress = float64(i) / float64(n-1)
			sc.add(r)
		}
		return &zygo.SexpInt{Val: int64(n)}, nil
	})
}

// maxFrames bounds the requests a single frames form may add.
const maxFrames = 240

// requestFrom builds a request from a shape and the fold options.
func requestFrom(sh *sexpShape, pa kwArgs) (shape.Request, error) {
	req := shape.Request{
		Family:     sh.family,
		Dimensions: sh.dims,
		Progress:   1,
		Options:    shape.Options{Palette: fold.DefaultPalette},
	}
	if v, ok := pa.kw["progress"]; ok {
		p, err := toFloat64(v)
		if err != nil {
			return req, fmt.Errorf("progress: %w", err)
		}
		req.Progress = p
	}
	if v, ok := pa.kw["labels"]; ok {
		b, err := toBool(v)
		if err != nil {
			return req, fmt.Errorf("labels: %w", err)
		}
		req.Options.ShowLabels = b
	}
	if v, ok := pa.kw["centered"]; ok {
		b, err := toBool(v)
		if err != nil {
			return req, fmt.Errorf("centered: %w", err)
		}
		req.Centered = b
	}
	if v, ok := pa.kw["palette"]; ok {
		p, err := toPalette(v)
		if err != nil {
			return req, fmt.Errorf("palette: %w", err)
		}
		req.Options.Palette = p
	}
	return req, nil
}

// add appends a request, recording warnings for values the builders will
// clamp and for dimensions outside the catalog's advisory ranges.
func (sc *Scene) add(req shape.Request) int {
	idx := len(sc.Requests)
	if p := req.Progress; math.IsNaN(p) || p < 0 || p > 1 {
		sc.Warnings = append(sc.Warnings, EvalWarning{
			Message: fmt.Sprintf("progress %g clamped to %g", p, shape.ClampProgress(p)),
			Request: idx,
		})
	}
	if clamped := req.Dimensions.Clamp(req.Family); clamped != req.Dimensions {
		sc.Warnings = append(sc.Warnings, EvalWarning{
			Message: fmt.Sprintf("%s dimensions %+v outside the catalog range", req.Family, req.Dimensions),
			Request: idx,
		})
	}
	sc.Requests = append(sc.Requests, req)
	return idx
}
