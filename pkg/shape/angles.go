package shape

import "math"

// BoxAngle is the hinge angle shared by every box face.
func BoxAngle(progress float64) float64 {
	return ClampProgress(progress) * math.Pi / 2
}

// TriangularAngles returns the side panel and end cap hinge angles of a
// triangular prism. The panels close at pi - alpha where alpha is the base
// angle of the isosceles cross-section.
func TriangularAngles(d Dimensions, progress float64) (side, end float64) {
	t := ClampProgress(progress)
	alpha := math.Atan2(d.Depth, d.Width/2)
	return t * (math.Pi - alpha), t * math.Pi / 2
}

// TrapezoidalAngles returns the side panel, back panel and end cap hinge
// angles of a trapezoidal prism. With equal widths theta is exactly pi/2.
func TrapezoidalAngles(d Dimensions, progress float64) (side, back, end float64) {
	t := ClampProgress(progress)
	theta := math.Atan2(d.Depth, (d.Width-d.Width2)/2)
	return t * (math.Pi - theta), t * theta, t * math.Pi / 2
}
