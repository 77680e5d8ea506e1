// Package peak finds local extrema in a spectrum with a neighborhood-window
// and prominence policy. Detection is stateless and fully deterministic:
// identical input and policy always yield the identical list.
package peak

import (
	"math"

	"github.com/cwbudde/spectro-dsp/spectrum"
)

// Kind labels an extremum.
type Kind int

const (
	// Peak is a local maximum.
	Peak Kind = iota
	// Dip is a local minimum.
	Dip
)

// String returns the kind name.
func (k Kind) String() string {
	if k == Dip {
		return "dip"
	}

	return "peak"
}

// PeakDip is one detected extremum.
type PeakDip struct {
	Wavelength float64
	Intensity  float64
	Kind       Kind
	Prominence float64
}

// Policy configures detection. All values are plain configuration, not
// hardcoded tuning.
type Policy struct {
	// WindowNm is the neighborhood width in wavelength units. A candidate
	// must be the strict extremum over this window.
	WindowNm float64
	// MinProminence is an absolute prominence floor.
	MinProminence float64
	// MinProminenceRatio is a prominence floor as a fraction of the
	// spectrum's intensity range; the effective threshold is the larger of
	// the two floors.
	MinProminenceRatio float64
	// SearchHorizon bounds the prominence walk to this many samples per
	// side. Zero means unbounded.
	SearchHorizon int
}

// Detector applies a Policy to spectra.
type Detector struct {
	policy Policy
}

// NewDetector returns a detector with the given policy.
func NewDetector(policy Policy) *Detector {
	return &Detector{policy: policy}
}

// SetPolicy replaces the detection policy.
func (d *Detector) SetPolicy(policy Policy) {
	d.policy = policy
}

// Policy returns the active policy.
func (d *Detector) Policy() Policy {
	return d.policy
}

// Detect scans the combined channel left to right and returns all peaks and
// dips passing the prominence threshold, ordered by wavelength.
func (d *Detector) Detect(s *spectrum.Spectrum) []PeakDip {
	return d.DetectLine(s.Wavelengths, s.Combined)
}

// DetectLine runs detection over an explicit (wavelength, intensity) pair of
// slices of equal length.
func (d *Detector) DetectLine(wavelengths, intensity []float64) []PeakDip {
	n := len(intensity)
	if n < 3 {
		return nil
	}

	threshold := d.threshold(intensity)

	var out []PeakDip

	// Runs of equal value are treated as one candidate at their midpoint.
	for start := 0; start < n; {
		end := start
		for end+1 < n && intensity[end+1] == intensity[start] {
			end++
		}

		mid := (start + end) / 2
		half := d.halfWindow(wavelengths, mid)

		if start-half >= 0 && end+half < n {
			for _, kind := range []Kind{Peak, Dip} {
				if !isExtremum(intensity, start, end, half, kind) {
					continue
				}

				prominence := d.prominence(intensity, start, end, kind)
				if prominence < threshold {
					continue
				}

				out = append(out, PeakDip{
					Wavelength: wavelengths[mid],
					Intensity:  intensity[mid],
					Kind:       kind,
					Prominence: prominence,
				})
			}
		}

		start = end + 1
	}

	return out
}

// threshold resolves the effective prominence floor for one spectrum.
func (d *Detector) threshold(intensity []float64) float64 {
	threshold := d.policy.MinProminence

	if d.policy.MinProminenceRatio > 0 {
		lo, hi := intensity[0], intensity[0]
		for _, v := range intensity {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		if rel := d.policy.MinProminenceRatio * (hi - lo); rel > threshold {
			threshold = rel
		}
	}

	return threshold
}

// halfWindow converts the wavelength-unit window to a sample count using the
// local sampling density around index i.
func (d *Detector) halfWindow(wavelengths []float64, i int) int {
	if d.policy.WindowNm <= 0 {
		return 1
	}

	lo := max(i-1, 0)
	hi := min(i+1, len(wavelengths)-1)

	spacing := (wavelengths[hi] - wavelengths[lo]) / float64(hi-lo)
	if spacing <= 0 {
		return 1
	}

	half := int(math.Round(d.policy.WindowNm / 2 / spacing))
	if half < 1 {
		half = 1
	}

	return half
}

// isExtremum reports whether the flat run [start, end] is a strict extremum
// against every sample within half samples of the run on either side.
func isExtremum(intensity []float64, start, end, half int, kind Kind) bool {
	v := intensity[start]
	for j := start - half; j < start; j++ {
		if !beats(v, intensity[j], kind) {
			return false
		}
	}
	for j := end + 1; j <= end+half; j++ {
		if !beats(v, intensity[j], kind) {
			return false
		}
	}

	return true
}

// beats reports whether v strictly dominates w for the given kind.
func beats(v, w float64, kind Kind) bool {
	if kind == Peak {
		return v > w
	}

	return v < w
}

// prominence walks outward from the run on both sides until a dominating
// sample or the search horizon, and returns the minimum drop (peaks) or rise
// (dips) over the two sides.
func (d *Detector) prominence(intensity []float64, start, end int, kind Kind) float64 {
	horizon := d.policy.SearchHorizon
	if horizon <= 0 {
		horizon = len(intensity)
	}

	v := intensity[start]

	side := func(from, step int) float64 {
		extreme := v
		for j, steps := from, 0; j >= 0 && j < len(intensity) && steps < horizon; j, steps = j+step, steps+1 {
			if beats(intensity[j], v, kind) {
				break
			}
			if beats(v, intensity[j], kind) && beats(extreme, intensity[j], kind) {
				extreme = intensity[j]
			}
		}

		return math.Abs(v - extreme)
	}

	left := side(start-1, -1)
	right := side(end+1, 1)

	return math.Min(left, right)
}
