package filter

import (
	"errors"
	"fmt"
	"math"
)

// QButterworth is the quality factor of a maximally flat second-order
// low-pass.
const QButterworth = 1 / math.Sqrt2

// ErrCutoff is returned when the cutoff frequency is not inside
// (0, sampleRate/2); a cutoff at or above Nyquist makes the design unstable.
var ErrCutoff = errors.New("filter: cutoff must be inside (0, Nyquist)")

// Lowpass designs an RBJ low-pass biquad at freq with quality factor q.
// A non-positive q falls back to QButterworth.
func Lowpass(freq, q, sampleRate float64) (Coefficients, error) {
	w0, err := normalizedW0(freq, sampleRate)
	if err != nil {
		return Coefficients{}, err
	}

	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		q = QButterworth
	}

	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / (2 * q)

	b0 := (1 - cw) / 2
	b1 := 1 - cw
	b2 := (1 - cw) / 2
	a0 := 1 + alpha
	a1 := -2 * cw
	a2 := 1 - alpha

	return normalize(b0, b1, b2, a0, a1, a2)
}

// normalizedW0 converts freq to the normalized angular frequency
// 2π·freq/sampleRate, rejecting anything at or beyond Nyquist.
func normalizedW0(freq, sampleRate float64) (float64, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, fmt.Errorf("filter: sample rate must be positive: %g", sampleRate)
	}

	nyquist := sampleRate / 2
	if freq <= 0 || freq >= nyquist || math.IsNaN(freq) || math.IsInf(freq, 0) {
		return 0, fmt.Errorf("%w: cutoff %g at sample rate %g", ErrCutoff, freq, sampleRate)
	}

	return 2 * math.Pi * freq / sampleRate, nil
}

// normalize divides through by a0 so it need not be stored.
func normalize(b0, b1, b2, a0, a1, a2 float64) (Coefficients, error) {
	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return Coefficients{}, fmt.Errorf("filter: degenerate design, a0 = %g", a0)
	}

	return Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}, nil
}
