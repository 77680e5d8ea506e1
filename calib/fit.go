package calib

import (
	"gonum.org/v1/gonum/mat"
)

// Mapping is a resolved pixel→wavelength axis over a fixed pixel range.
type Mapping struct {
	wavelengths []float64
	outcome     Outcome
}

// Fit resolves the model into a mapping over pixel columns [0, width).
//
// The returned mapping is monotonically non-decreasing whenever the outcome
// is not Identity; a polynomial fit that violates monotonicity anywhere in
// the range is discarded in favor of the piecewise-linear fallback.
func (m *Model) Fit(width int) *Mapping {
	if width < 0 {
		width = 0
	}

	axis := make([]float64, width)

	if len(m.points) < 2 {
		for i := range axis {
			axis[i] = float64(i)
		}

		return &Mapping{wavelengths: axis, outcome: Identity}
	}

	if len(m.points) == 2 {
		evalLinear(axis, m.points[0], m.points[1])

		return &Mapping{wavelengths: axis, outcome: Fitted}
	}

	coeffs, ok := polyFit(m.points)
	if ok {
		evalPoly(axis, coeffs)
		if isMonotonic(axis) {
			return &Mapping{wavelengths: axis, outcome: Fitted}
		}
	}

	evalPiecewise(axis, m.points)

	return &Mapping{wavelengths: axis, outcome: PiecewiseFallback}
}

// WavelengthFor returns the wavelength for a pixel column. Columns outside
// the fitted range are clamped to the nearest end of the axis.
func (mp *Mapping) WavelengthFor(pixel int) float64 {
	if len(mp.wavelengths) == 0 {
		return float64(pixel)
	}
	if pixel < 0 {
		return mp.wavelengths[0]
	}
	if pixel >= len(mp.wavelengths) {
		return mp.wavelengths[len(mp.wavelengths)-1]
	}

	return mp.wavelengths[pixel]
}

// Wavelengths returns the full axis. The slice is owned by the mapping;
// callers must not modify it.
func (mp *Mapping) Wavelengths() []float64 {
	return mp.wavelengths
}

// Outcome reports how the mapping was produced.
func (mp *Mapping) Outcome() Outcome {
	return mp.outcome
}

// Calibrated reports whether the axis carries real wavelengths.
func (mp *Mapping) Calibrated() bool {
	return mp.outcome != Identity
}

// polyFit solves the least-squares Vandermonde system for a polynomial of
// degree min(len(points)-1, 3). Returns false if the system is singular.
func polyFit(points []Point) ([]float64, bool) {
	degree := len(points) - 1
	if degree > maxPolyDegree {
		degree = maxPolyDegree
	}

	n := len(points)
	a := mat.NewDense(n, degree+1, nil)
	b := mat.NewVecDense(n, nil)

	for i, p := range points {
		x := float64(p.Pixel)
		pow := 1.0
		for j := 0; j <= degree; j++ {
			a.Set(i, j, pow)
			pow *= x
		}
		b.SetVec(i, p.Wavelength)
	}

	var qr mat.QR
	qr.Factorize(a)

	var sol mat.VecDense
	if err := qr.SolveVecTo(&sol, false, b); err != nil {
		return nil, false
	}

	coeffs := make([]float64, degree+1)
	for j := range coeffs {
		coeffs[j] = sol.AtVec(j)
	}

	return coeffs, true
}

func evalLinear(axis []float64, lo, hi Point) {
	slope := (hi.Wavelength - lo.Wavelength) / float64(hi.Pixel-lo.Pixel)
	for i := range axis {
		axis[i] = lo.Wavelength + slope*float64(i-lo.Pixel)
	}
}

// evalPoly evaluates the polynomial with Horner's rule at each pixel index.
func evalPoly(axis, coeffs []float64) {
	for i := range axis {
		x := float64(i)
		v := 0.0
		for j := len(coeffs) - 1; j >= 0; j-- {
			v = v*x + coeffs[j]
		}
		axis[i] = v
	}
}

// evalPiecewise interpolates linearly between consecutive points and extends
// the end segments beyond the first and last point. Monotonic by
// construction since SetPoints enforces non-decreasing wavelengths.
func evalPiecewise(axis []float64, points []Point) {
	seg := 0
	for i := range axis {
		for seg < len(points)-2 && i >= points[seg+1].Pixel {
			seg++
		}
		lo, hi := points[seg], points[seg+1]
		slope := (hi.Wavelength - lo.Wavelength) / float64(hi.Pixel-lo.Pixel)
		axis[i] = lo.Wavelength + slope*float64(i-lo.Pixel)
	}
}

func isMonotonic(axis []float64) bool {
	for i := 1; i < len(axis); i++ {
		if axis[i] < axis[i-1] {
			return false
		}
	}

	return true
}
