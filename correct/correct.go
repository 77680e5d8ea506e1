// Package correct applies per-channel gain and linearization to raw
// intensity profiles, ahead of wavelength lookup.
package correct

import (
	"fmt"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/spectro-dsp/spectrum"
)

// Correction holds per-channel gains and linearization curves. It carries no
// per-frame state: applying the same configuration to the same profile twice
// yields identical output.
type Correction struct {
	gains  []float64
	curves []Curve
}

// New returns a correction for the given channel count with unity gains and
// identity linearization.
func New(channels int) *Correction {
	if channels < 1 {
		channels = 1
	}

	gains := make([]float64, channels)
	for i := range gains {
		gains[i] = 1
	}

	return &Correction{
		gains:  gains,
		curves: make([]Curve, channels),
	}
}

// Channels returns the channel count this correction was built for.
func (c *Correction) Channels() int {
	return len(c.gains)
}

// SetGains replaces all channel gains at once. The slice length must match
// the channel count; on error the previous gains stay active.
func (c *Correction) SetGains(gains []float64) error {
	if len(gains) != len(c.gains) {
		return fmt.Errorf("correct: gain vector length %d, want %d", len(gains), len(c.gains))
	}
	for i, g := range gains {
		if g < 0 {
			return fmt.Errorf("correct: gain[%d] must be non-negative: %g", i, g)
		}
	}

	copy(c.gains, gains)

	return nil
}

// Gains returns a copy of the active gain vector.
func (c *Correction) Gains() []float64 {
	out := make([]float64, len(c.gains))
	copy(out, c.gains)

	return out
}

// SetCurve installs one linearization curve on every channel.
func (c *Correction) SetCurve(curve Curve) {
	for i := range c.curves {
		c.curves[i] = curve
	}
}

// SetChannelCurve installs a linearization curve on a single channel.
func (c *Correction) SetChannelCurve(channel int, curve Curve) error {
	if channel < 0 || channel >= len(c.curves) {
		return fmt.Errorf("correct: channel %d out of range [0,%d)", channel, len(c.curves))
	}

	c.curves[channel] = curve

	return nil
}

// Value corrects a single raw intensity: gain first, then linearization.
func (c *Correction) Value(raw float64, channel int) float64 {
	return c.curves[channel].Apply(raw * c.gains[channel])
}

// Apply corrects a whole profile in place. The profile channel count must
// match the correction's.
func (c *Correction) Apply(p *spectrum.Profile) error {
	if p.Channels() != len(c.gains) {
		return fmt.Errorf("correct: profile has %d channels, correction built for %d",
			p.Channels(), len(c.gains))
	}

	for ch := range p.Data {
		c.ApplyChannel(p, ch)
	}

	return nil
}

// ApplyChannel corrects one channel of a profile in place. Channels are
// independent, so callers may fan ApplyChannel calls out across workers.
func (c *Correction) ApplyChannel(p *spectrum.Profile, channel int) {
	line := p.Data[channel]
	if g := c.gains[channel]; g != 1 {
		vecmath.ScaleBlock(line, line, g)
	}

	curve := c.curves[channel]
	if curve.Identity() {
		return
	}
	for i, v := range line {
		line[i] = curve.Apply(v)
	}
}
