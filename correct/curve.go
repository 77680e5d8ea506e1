package correct

import (
	"errors"
	"fmt"
	"sort"
)

// ErrCurveNotMonotonic is returned when linearization breakpoints do not
// increase in both raw and linear value.
var ErrCurveNotMonotonic = errors.New("correct: linearization breakpoints must be strictly increasing")

// Breakpoint maps one raw intensity to its linearized value.
type Breakpoint struct {
	Raw    float64 `yaml:"raw"`
	Linear float64 `yaml:"linear"`
}

// Curve is a monotonic piecewise-linear linearization curve. The zero value
// is the identity curve.
type Curve struct {
	points []Breakpoint
}

// NewCurve builds a curve from breakpoints. Raw values must be strictly
// increasing and linear values non-decreasing; breakpoints are sorted by raw
// value first.
func NewCurve(points []Breakpoint) (Curve, error) {
	if len(points) == 0 {
		return Curve{}, nil
	}

	sorted := make([]Breakpoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Raw < sorted[j].Raw })

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Raw == sorted[i-1].Raw {
			return Curve{}, fmt.Errorf("%w: duplicate raw value %g", ErrCurveNotMonotonic, sorted[i].Raw)
		}
		if sorted[i].Linear < sorted[i-1].Linear {
			return Curve{}, fmt.Errorf("%w: linear value drops at raw %g", ErrCurveNotMonotonic, sorted[i].Raw)
		}
	}

	return Curve{points: sorted}, nil
}

// Identity reports whether the curve passes values through unchanged.
func (c Curve) Identity() bool {
	return len(c.points) == 0
}

// Apply linearizes one value. Inside the breakpoint range it interpolates
// linearly between the surrounding breakpoints; outside it clamps to the
// nearest endpoint's value, never extrapolating.
func (c Curve) Apply(v float64) float64 {
	n := len(c.points)
	if n == 0 {
		return v
	}
	if v <= c.points[0].Raw {
		return c.points[0].Linear
	}
	if v >= c.points[n-1].Raw {
		return c.points[n-1].Linear
	}

	// First breakpoint with Raw > v; v lies in segment [hi-1, hi].
	hi := sort.Search(n, func(i int) bool { return c.points[i].Raw > v })
	lo := hi - 1

	span := c.points[hi].Raw - c.points[lo].Raw
	frac := (v - c.points[lo].Raw) / span

	return c.points[lo].Linear + frac*(c.points[hi].Linear-c.points[lo].Linear)
}
