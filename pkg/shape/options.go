package shape

import "github.com/chazu/foldnet/pkg/fold"

// Options controls face metadata. It never affects geometry.
type Options struct {
	ShowLabels bool         `json:"showLabels" yaml:"show_labels"`
	Palette    fold.Palette `json:"palette" yaml:"palette"`
}

// Label text per role.
const (
	LabelBase    = "Base"
	LabelLateral = "Lateral"
)

// decorate fills the role-derived metadata of a face.
func (o Options) decorate(f *fold.Face, r fold.Role) *fold.Face {
	f.Role = r
	f.Color = o.Palette.Color(r)
	if o.ShowLabels {
		if r == fold.RoleSide {
			f.Label = LabelLateral
		} else {
			f.Label = LabelBase
		}
	}
	return f
}
