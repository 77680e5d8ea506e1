package filter

import (
	"github.com/cwbudde/spectro-dsp/spectrum"
)

// Bank runs one low-pass per channel along the time axis: every wavelength
// bin keeps its own delay line, so the filter smooths frame-to-frame noise
// at a fixed wavelength rather than smearing the spectrum along its axis.
//
// A Bank is owned by the pipeline thread; Process calls must be serialized
// in frame-arrival order for the state evolution to be meaningful.
type Bank struct {
	coeffs     Coefficients
	cutoff     float64
	sampleRate float64
	q          float64
	state      [][]Section // [channel][bin]
}

// NewBank designs the per-channel low-pass and allocates no bin state yet;
// state grows lazily to match the first processed profile.
func NewBank(channels int, cutoff, q, sampleRate float64) (*Bank, error) {
	coeffs, err := Lowpass(cutoff, q, sampleRate)
	if err != nil {
		return nil, err
	}

	if channels < 1 {
		channels = 1
	}

	return &Bank{
		coeffs:     coeffs,
		cutoff:     cutoff,
		sampleRate: sampleRate,
		q:          q,
		state:      make([][]Section, channels),
	}, nil
}

// SetCutoff recomputes the coefficients for a new cutoff and sample-rate
// proxy. On error the previous design stays active. Delay-line state is
// preserved across the recomputation: both the old and the new design are
// stable by construction, since any cutoff at or beyond Nyquist is rejected
// here before it can reach the sections.
func (b *Bank) SetCutoff(cutoff, q, sampleRate float64) error {
	coeffs, err := Lowpass(cutoff, q, sampleRate)
	if err != nil {
		return err
	}

	b.coeffs = coeffs
	b.cutoff = cutoff
	b.sampleRate = sampleRate
	b.q = q
	for ch := range b.state {
		for i := range b.state[ch] {
			b.state[ch][i].Coefficients = coeffs
		}
	}

	return nil
}

// Cutoff returns the active cutoff frequency.
func (b *Bank) Cutoff() float64 {
	return b.cutoff
}

// Channels returns the channel count the bank was built for.
func (b *Bank) Channels() int {
	return len(b.state)
}

// Process filters one profile in place, advancing every bin's delay line by
// one time step. A width change resets all state to zero first.
func (b *Bank) Process(p *spectrum.Profile) {
	width := p.Width()
	for ch := range p.Data {
		if ch >= len(b.state) {
			break
		}
		if len(b.state[ch]) != width {
			b.state[ch] = newSections(b.coeffs, width)
		}

		line := p.Data[ch]
		sections := b.state[ch]
		for i := range line {
			line[i] = sections[i].Process(line[i])
		}
	}
}

// Reset clears every bin's delay line.
func (b *Bank) Reset() {
	for ch := range b.state {
		for i := range b.state[ch] {
			b.state[ch][i].Reset()
		}
	}
}

func newSections(c Coefficients, n int) []Section {
	sections := make([]Section, n)
	for i := range sections {
		sections[i].Coefficients = c
	}

	return sections
}
