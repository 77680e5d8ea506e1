package frame

import "fmt"

// Axis selects the spatial axis along which wavelength varies.
type Axis int

const (
	// DispersionHorizontal disperses along x: one profile value per ROI
	// column, reduced over rows.
	DispersionHorizontal Axis = iota
	// DispersionVertical disperses along y: one profile value per ROI row,
	// reduced over columns.
	DispersionVertical
)

// String returns the axis name.
func (a Axis) String() string {
	switch a {
	case DispersionHorizontal:
		return "horizontal"
	case DispersionVertical:
		return "vertical"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// Reduction selects how the perpendicular axis is collapsed.
type Reduction int

const (
	// ReduceMean averages the perpendicular axis.
	ReduceMean Reduction = iota
	// ReduceMax takes the maximum over the perpendicular axis.
	ReduceMax
)

// String returns the reduction name.
func (r Reduction) String() string {
	switch r {
	case ReduceMean:
		return "mean"
	case ReduceMax:
		return "max"
	default:
		return fmt.Sprintf("reduction(%d)", int(r))
	}
}

// ROI is a rectangular sub-area of a frame, in pixel coordinates.
type ROI struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Clamp returns the ROI intersected with a width×height frame. The result
// may have zero extent.
func (r ROI) Clamp(width, height int) ROI {
	x0 := min(max(r.X, 0), width)
	y0 := min(max(r.Y, 0), height)
	x1 := min(r.X+r.Width, width)
	y1 := min(r.Y+r.Height, height)

	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}

	return ROI{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Empty reports whether the ROI has zero extent.
func (r ROI) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}
