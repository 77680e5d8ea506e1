// Package reference holds the zero/100%-transmission baseline spectrum and
// derives absorbance spectra from live measurements against it.
//
// An Engine is owned by the pipeline thread; it carries no locking of its
// own.
package reference

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/spectro-dsp/spectrum"
)

// ErrNoReference is the checked precondition for absorbance: no baseline has
// been captured or generated yet.
var ErrNoReference = errors.New("reference: no reference spectrum set")

// Engine owns the reference spectrum and optional per-bin scaling factors.
type Engine struct {
	ref     *spectrum.Spectrum
	scaling []float64
}

// NewEngine returns an engine with no reference set.
func NewEngine() *Engine {
	return &Engine{}
}

// HasReference reports whether a baseline is available.
func (e *Engine) HasReference() bool {
	return e.ref != nil
}

// Reference returns the stored baseline, nil when unset. Callers must treat
// it as read-only.
func (e *Engine) Reference() *spectrum.Spectrum {
	return e.ref
}

// CaptureZero stores a deep copy of the current spectrum as the baseline, so
// later live frames cannot mutate it.
func (e *Engine) CaptureZero(current *spectrum.Spectrum) {
	e.ref = current.Clone()
}

// ClearReference removes the baseline; absorbance becomes unavailable.
func (e *Engine) ClearReference() {
	e.ref = nil
}

// GenerateTungsten synthesizes the baseline from Planck's law at the given
// filament temperature, evaluated at each wavelength of the supplied axis
// and normalized so the largest value equals peak. Every channel receives
// the same curve. No live camera input is required.
func (e *Engine) GenerateTungsten(kelvin float64, axis []float64, channels int, peak float64) error {
	if err := validateFilamentTemp(kelvin); err != nil {
		return err
	}
	if len(axis) == 0 {
		return errors.New("reference: empty wavelength axis")
	}
	if peak <= 0 {
		return fmt.Errorf("reference: peak normalization must be positive: %g", peak)
	}
	if channels < 1 {
		channels = 1
	}

	radiance := make([]float64, len(axis))
	maxVal := 0.0
	for i, wl := range axis {
		radiance[i] = planckRadiance(wl, kelvin)
		if radiance[i] > maxVal {
			maxVal = radiance[i]
		}
	}
	if maxVal <= 0 {
		return errors.New("reference: radiance vanished over the whole axis")
	}

	ref := spectrum.NewSpectrum(channels, len(axis))
	copy(ref.Wavelengths, axis)
	for i, v := range radiance {
		scaled := v / maxVal * peak
		for c := range ref.Channels {
			ref.Channels[c][i] = scaled
		}
	}
	ref.SumCombined()
	ref.Calibrated = true

	e.ref = ref

	return nil
}

// Absorbance computes -log10(live/reference) per channel for every live
// wavelength covered by the reference axis, interpolating the reference when
// the axes differ.
//
// A sample where any interpolated reference intensity is not strictly
// positive is undefined: it is excluded from the result rather than clamped
// or replaced with a sentinel. The same applies to live wavelengths outside
// the reference axis.
func (e *Engine) Absorbance(live *spectrum.Spectrum) (*spectrum.AbsorbanceSpectrum, error) {
	if e.ref == nil {
		return nil, ErrNoReference
	}

	channels := len(live.Channels)
	if channels > len(e.ref.Channels) {
		channels = len(e.ref.Channels)
	}

	out := &spectrum.AbsorbanceSpectrum{
		Channels: make([][]float64, channels),
	}

	for i, wl := range live.Wavelengths {
		values := make([]float64, channels)
		defined := true

		for c := 0; c < channels; c++ {
			refI, ok := interpolate(e.ref.Wavelengths, e.ref.Channels[c], wl)
			if !ok || refI <= 0 || live.Channels[c][i] <= 0 {
				defined = false

				break
			}
			values[c] = -math.Log10(live.Channels[c][i] / refI)
		}
		if !defined {
			continue
		}

		refSum, ok := interpolate(e.ref.Wavelengths, e.ref.Combined, wl)
		if !ok || refSum <= 0 || live.Combined[i] <= 0 {
			continue
		}

		out.Wavelengths = append(out.Wavelengths, wl)
		for c := 0; c < channels; c++ {
			out.Channels[c] = append(out.Channels[c], values[c])
		}
		out.Combined = append(out.Combined, -math.Log10(live.Combined[i]/refSum))
	}

	return out, nil
}

// interpolate linearly resamples the reference curve at wl. Returns false
// when wl lies outside the reference axis.
func interpolate(axis, values []float64, wl float64) (float64, bool) {
	n := len(axis)
	if n == 0 || wl < axis[0] || wl > axis[n-1] {
		return 0, false
	}

	// First axis entry >= wl.
	hi := sort.SearchFloat64s(axis, wl)
	if hi < n && axis[hi] == wl {
		return values[hi], true
	}

	lo := hi - 1
	span := axis[hi] - axis[lo]
	if span <= 0 {
		return values[lo], true
	}

	frac := (wl - axis[lo]) / span

	return values[lo] + frac*(values[hi]-values[lo]), true
}
