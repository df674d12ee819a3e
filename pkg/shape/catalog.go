package shape

// Range is an advisory slider range for one dimension field.
type Range struct {
	Min  float64 `json:"min" yaml:"min"`
	Max  float64 `json:"max" yaml:"max"`
	Step float64 `json:"step" yaml:"step"`
}

func (r Range) clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Limits holds the advisory ranges of each dimension field. Width2 is zero
// for families that do not use it.
type Limits struct {
	Width  Range `json:"width"`
	Height Range `json:"height"`
	Depth  Range `json:"depth"`
	Width2 Range `json:"width2"`
}

// Example is a real-world object shaped like a family, used for
// illustration prompts.
type Example struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Info describes a family for hosts: counts, ranges, defaults and examples.
type Info struct {
	Family      Family     `json:"family"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Faces       int        `json:"faces"`
	Edges       int        `json:"edges"`
	Vertices    int        `json:"vertices"`
	Limits      Limits     `json:"limits"`
	Defaults    Dimensions `json:"defaults"`
	Examples    []Example  `json:"examples"`
}

var (
	widthRange  = Range{Min: 1, Max: 6, Step: 0.1}
	heightRange = Range{Min: 2, Max: 8, Step: 0.1}
	depthRange  = Range{Min: 1, Max: 6, Step: 0.1}
	width2Range = Range{Min: 1, Max: 5, Step: 0.1}

	defaultDims = Dimensions{Width: 3, Height: 4, Depth: 2, Width2: 2}
)

// Catalog returns the supported families in display order. The result is a
// fresh copy on every call.
func Catalog() []Info {
	return []Info{
		{
			Family:      FamilyBox,
			Name:        "Rectangular Box",
			Description: "Six faces, all rectangles.",
			Faces:       6, Edges: 12, Vertices: 8,
			Limits:   Limits{Width: widthRange, Height: heightRange, Depth: depthRange},
			Defaults: Dimensions{Width: defaultDims.Width, Height: defaultDims.Height, Depth: defaultDims.Depth},
			Examples: []Example{
				{"Gift Box", "Most product packaging boxes have this shape.", "Gift"},
				{"Book", "A familiar everyday study object.", "Book"},
				{"Refrigerator", "A common household appliance in the kitchen.", "Refrigerator"},
			},
		},
		{
			Family:      FamilyTriangularPrism,
			Name:        "Triangular Right Prism",
			Description: "Two triangular bases and three rectangular lateral faces.",
			Faces:       5, Edges: 9, Vertices: 6,
			Limits:   Limits{Width: widthRange, Height: heightRange, Depth: depthRange},
			Defaults: Dimensions{Width: defaultDims.Width, Height: defaultDims.Height, Depth: defaultDims.Depth},
			Examples: []Example{
				{"Chocolate Box", "The signature Toblerone package design.", "Candy"},
				{"Roof", "The gable roof common on houses.", "Home"},
				{"Tent", "A prism-shaped shelter for camping trips.", "Tent"},
			},
		},
		{
			Family:      FamilyTrapezoidalPrism,
			Name:        "Quadrilateral Right Prism",
			Description: "A right prism whose bases are quadrilaterals (for example trapezoids).",
			Faces:       6, Edges: 12, Vertices: 8,
			Limits:   Limits{Width: widthRange, Height: heightRange, Depth: depthRange, Width2: width2Range},
			Defaults: defaultDims,
			Examples: []Example{
				{"Dam", "The cross-section of a dam is usually a trapezoid.", "Waves"},
				{"Flower Bed", "Street planters with a quadrilateral base.", "Flower"},
				{"Concrete Block", "Road dividers and breakwater blocks.", "Square"},
			},
		},
	}
}

// Lookup returns the catalog entry of a family.
func Lookup(f Family) (Info, bool) {
	for _, info := range Catalog() {
		if info.Family == f {
			return info, true
		}
	}
	return Info{}, false
}

// Defaults returns the default dimensions of a family.
func Defaults(f Family) Dimensions {
	info, _ := Lookup(f)
	return info.Defaults
}
