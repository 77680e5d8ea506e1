package reference

import (
	"errors"

	"github.com/cwbudde/spectro-dsp/spectrum"
)

// ErrNoScaling is the checked precondition for ApplyScaling.
var ErrNoScaling = errors.New("reference: no scaling factors derived")

// DeriveScaling computes per-bin intensity scaling factors that would map
// the live spectrum's combined channel onto the stored reference, turning
// the reference into an intensity calibration. Bins where either side is
// not strictly positive get factor 1 (left uncorrected).
func (e *Engine) DeriveScaling(live *spectrum.Spectrum) error {
	if e.ref == nil {
		return ErrNoReference
	}

	scaling := make([]float64, live.Len())
	for i, wl := range live.Wavelengths {
		scaling[i] = 1
		refV, ok := interpolate(e.ref.Wavelengths, e.ref.Combined, wl)
		if ok && refV > 0 && live.Combined[i] > 0 {
			scaling[i] = refV / live.Combined[i]
		}
	}

	e.scaling = scaling

	return nil
}

// HasScaling reports whether scaling factors are available.
func (e *Engine) HasScaling() bool {
	return e.scaling != nil
}

// ClearScaling drops the derived factors.
func (e *Engine) ClearScaling() {
	e.scaling = nil
}

// ApplyScaling multiplies the spectrum's combined channel by the derived
// factors in place. A spectrum of a different width than the derivation is
// left untouched.
func (e *Engine) ApplyScaling(s *spectrum.Spectrum) error {
	if e.scaling == nil {
		return ErrNoScaling
	}
	if len(e.scaling) != s.Len() {
		return nil
	}

	for i := range s.Combined {
		s.Combined[i] *= e.scaling[i]
	}

	return nil
}
