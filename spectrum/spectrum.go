package spectrum

// Profile is an ordered sequence of per-column intensity values, one slice
// per channel. Data[c][i] is the intensity of channel c at ROI column i.
// All channel slices have equal length.
type Profile struct {
	Data [][]float64
}

// NewProfile returns a zero-filled profile with the given channel count and
// width. The backing storage is a single allocation.
func NewProfile(channels, width int) *Profile {
	if channels < 1 {
		channels = 1
	}
	if width < 0 {
		width = 0
	}

	backing := make([]float64, channels*width)
	data := make([][]float64, channels)
	for c := range data {
		data[c] = backing[c*width : (c+1)*width : (c+1)*width]
	}

	return &Profile{Data: data}
}

// Channels returns the number of channels.
func (p *Profile) Channels() int {
	return len(p.Data)
}

// Width returns the number of columns, 0 for an empty profile.
func (p *Profile) Width() int {
	if len(p.Data) == 0 {
		return 0
	}

	return len(p.Data[0])
}

// Clone returns a deep copy of the profile.
func (p *Profile) Clone() *Profile {
	out := NewProfile(p.Channels(), p.Width())
	for c := range p.Data {
		copy(out.Data[c], p.Data[c])
	}

	return out
}

// CopyFrom overwrites the profile with src. Both profiles must have the same
// channel count and width.
func (p *Profile) CopyFrom(src *Profile) {
	for c := range p.Data {
		copy(p.Data[c], src.Data[c])
	}
}

// Spectrum is a calibrated intensity spectrum: a wavelength axis ordered
// ascending plus per-channel intensities and the combined (sum) channel.
//
// Calibrated is false when the wavelength axis is the identity pixel-index
// fallback (fewer than two calibration points).
type Spectrum struct {
	Wavelengths []float64
	Channels    [][]float64
	Combined    []float64
	Calibrated  bool
	Seq         uint64
}

// NewSpectrum returns a zero-filled spectrum with the given channel count
// and bin count.
func NewSpectrum(channels, bins int) *Spectrum {
	s := &Spectrum{
		Wavelengths: make([]float64, bins),
		Channels:    make([][]float64, channels),
		Combined:    make([]float64, bins),
	}
	for c := range s.Channels {
		s.Channels[c] = make([]float64, bins)
	}

	return s
}

// Len returns the number of wavelength bins.
func (s *Spectrum) Len() int {
	return len(s.Wavelengths)
}

// Clone returns a deep copy of the spectrum.
func (s *Spectrum) Clone() *Spectrum {
	out := NewSpectrum(len(s.Channels), s.Len())
	copy(out.Wavelengths, s.Wavelengths)
	for c := range s.Channels {
		copy(out.Channels[c], s.Channels[c])
	}
	copy(out.Combined, s.Combined)
	out.Calibrated = s.Calibrated
	out.Seq = s.Seq

	return out
}

// SumCombined recomputes the combined channel as the per-bin sum over all
// channels.
func (s *Spectrum) SumCombined() {
	for i := range s.Combined {
		sum := 0.0
		for c := range s.Channels {
			sum += s.Channels[c][i]
		}
		s.Combined[i] = sum
	}
}

// AbsorbanceSpectrum is a derived sequence of (wavelength, absorbance) values.
// Wavelengths where the reference made absorbance undefined are excluded, so
// its axis may be shorter than the live spectrum it was derived from.
type AbsorbanceSpectrum struct {
	Wavelengths []float64
	Channels    [][]float64
	Combined    []float64
}

// Len returns the number of wavelength bins.
func (a *AbsorbanceSpectrum) Len() int {
	return len(a.Wavelengths)
}

// ExportPoint is one tabular row of a spectrum, suitable for serialization
// by an external exporter.
type ExportPoint struct {
	Wavelength float64
	Intensity  []float64
	Combined   float64
}

// ExportPoints returns the spectrum as ordered (wavelength, intensity) rows.
func (s *Spectrum) ExportPoints() []ExportPoint {
	points := make([]ExportPoint, s.Len())
	for i := range points {
		intensity := make([]float64, len(s.Channels))
		for c := range s.Channels {
			intensity[c] = s.Channels[c][i]
		}
		points[i] = ExportPoint{
			Wavelength: s.Wavelengths[i],
			Intensity:  intensity,
			Combined:   s.Combined[i],
		}
	}

	return points
}
