// Package calib maps pixel columns to wavelengths from user-supplied
// calibration points.
//
// With two points the mapping is linear. With three or more it is a
// least-squares polynomial of degree at most three; when the fitted
// polynomial is not monotonic across the pixel range, the model falls back
// to piecewise-linear interpolation between consecutive points. With fewer
// than two points the mapping is the identity and the resulting spectrum is
// flagged uncalibrated.
package calib

import (
	"errors"
	"fmt"
	"sort"
)

const maxPolyDegree = 3

var (
	// ErrDuplicatePixel is returned when two calibration points share a
	// pixel index.
	ErrDuplicatePixel = errors.New("calib: duplicate pixel index")
	// ErrNegativePixel is returned for a calibration point left of column 0.
	ErrNegativePixel = errors.New("calib: negative pixel index")
	// ErrDecreasingWavelength is returned when wavelengths do not increase
	// with pixel index; such a point set cannot yield a monotonic axis.
	ErrDecreasingWavelength = errors.New("calib: wavelength must be non-decreasing in pixel index")
)

// Point anchors one pixel column to a wavelength in nanometers.
type Point struct {
	Pixel      int     `yaml:"pixel"`
	Wavelength float64 `yaml:"wavelength"`
}

// Outcome tags how a mapping was produced.
type Outcome int

const (
	// Identity means fewer than two points were available; wavelengths are
	// raw pixel indices.
	Identity Outcome = iota
	// Fitted means the polynomial fit succeeded and is monotonic.
	Fitted
	// PiecewiseFallback means the polynomial fit was rejected as
	// non-monotonic and piecewise-linear interpolation is used instead.
	PiecewiseFallback
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Identity:
		return "identity"
	case Fitted:
		return "fitted"
	case PiecewiseFallback:
		return "piecewise-linear fallback"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Model owns an ordered set of calibration points.
type Model struct {
	points []Point
}

// NewModel returns an empty model (identity mapping).
func NewModel() *Model {
	return &Model{}
}

// SetPoints replaces the calibration point set. Points are validated (pixel
// indices unique and non-negative, wavelengths non-decreasing with pixel
// index) and sorted by pixel index; on error the previous set stays active.
func (m *Model) SetPoints(points []Point) error {
	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Pixel < sorted[j].Pixel })

	for i, p := range sorted {
		if p.Pixel < 0 {
			return fmt.Errorf("%w: %d", ErrNegativePixel, p.Pixel)
		}
		if i > 0 {
			if p.Pixel == sorted[i-1].Pixel {
				return fmt.Errorf("%w: %d", ErrDuplicatePixel, p.Pixel)
			}
			if p.Wavelength < sorted[i-1].Wavelength {
				return fmt.Errorf("%w: pixel %d maps to %g nm after %g nm",
					ErrDecreasingWavelength, p.Pixel, p.Wavelength, sorted[i-1].Wavelength)
			}
		}
	}

	m.points = sorted

	return nil
}

// Points returns a copy of the active point set, sorted by pixel index.
func (m *Model) Points() []Point {
	out := make([]Point, len(m.points))
	copy(out, m.points)

	return out
}
