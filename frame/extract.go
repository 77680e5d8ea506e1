package frame

import (
	"errors"

	"github.com/cwbudde/spectro-dsp/spectrum"
)

// ErrEmptyROI is returned when the configured region of interest, clamped to
// the frame bounds, has zero extent.
var ErrEmptyROI = errors.New("frame: region of interest has zero extent")

// Extract reduces the frame's region of interest into a per-column intensity
// profile. The ROI is clamped to the frame bounds first. The profile length
// equals the ROI extent along the dispersion axis; the perpendicular axis is
// collapsed per channel with the given reduction.
//
// Extract is a pure function of its inputs.
func Extract(f *RawFrame, roi ROI, axis Axis, mode Reduction) (*spectrum.Profile, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	roi = roi.Clamp(f.Width, f.Height)
	if roi.Empty() {
		return nil, ErrEmptyROI
	}

	along, across := roi.Width, roi.Height
	if axis == DispersionVertical {
		along, across = roi.Height, roi.Width
	}

	profile := spectrum.NewProfile(f.Channels, along)

	for ch := 0; ch < f.Channels; ch++ {
		out := profile.Data[ch]
		for i := 0; i < along; i++ {
			out[i] = reduceLine(f, roi, axis, mode, ch, i, across)
		}
	}

	return profile, nil
}

// reduceLine collapses one line perpendicular to the dispersion axis.
func reduceLine(f *RawFrame, roi ROI, axis Axis, mode Reduction, ch, i, across int) float64 {
	sample := func(j int) float64 {
		if axis == DispersionHorizontal {
			return f.At(roi.X+i, roi.Y+j, ch)
		}

		return f.At(roi.X+j, roi.Y+i, ch)
	}

	switch mode {
	case ReduceMax:
		best := sample(0)
		for j := 1; j < across; j++ {
			if v := sample(j); v > best {
				best = v
			}
		}

		return best
	default:
		sum := 0.0
		for j := 0; j < across; j++ {
			sum += sample(j)
		}

		return sum / float64(across)
	}
}
