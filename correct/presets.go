package correct

import (
	"fmt"
	"math"
)

// Preset is a named gain vector, applied atomically: all channels update
// together or not at all. A nil gain vector means unity for any channel
// count.
type Preset struct {
	Name  string
	Gains []float64
}

// Standard gain presets, matching the common luminance weight sets.
var (
	PresetUnity  = Preset{Name: "Unity"}
	PresetSRGB   = Preset{Name: "sRGB", Gains: []float64{0.2126, 0.7152, 0.0722}}
	PresetRec601 = Preset{Name: "Rec601", Gains: []float64{0.299, 0.587, 0.114}}
	PresetRec709 = Preset{Name: "Rec709", Gains: []float64{0.2126, 0.7152, 0.0722}}
)

// PresetByName looks up a standard preset by its name.
func PresetByName(name string) (Preset, bool) {
	for _, p := range []Preset{PresetUnity, PresetSRGB, PresetRec601, PresetRec709} {
		if p.Name == name {
			return p, true
		}
	}

	return Preset{}, false
}

// ApplyPreset replaces all channel gains with the preset's vector. A preset
// without a gain vector sets unity gains regardless of channel count.
func (c *Correction) ApplyPreset(p Preset) error {
	if p.Gains == nil {
		for i := range c.gains {
			c.gains[i] = 1
		}

		return nil
	}
	if len(p.Gains) != len(c.gains) {
		return fmt.Errorf("correct: preset %q has %d gains, correction built for %d channels",
			p.Name, len(p.Gains), len(c.gains))
	}

	return c.SetGains(p.Gains)
}

// curveBreakpoints is the sample count used when tabulating a transfer
// function into a piecewise-linear curve.
const curveBreakpoints = 33

// tabulate samples fn over raw values [0, 1] into curve breakpoints.
func tabulate(fn func(float64) float64) Curve {
	points := make([]Breakpoint, curveBreakpoints)
	for i := range points {
		raw := float64(i) / float64(curveBreakpoints-1)
		points[i] = Breakpoint{Raw: raw, Linear: fn(raw)}
	}

	return Curve{points: points}
}

// CurveSRGB returns the sRGB electro-optical transfer function as a
// linearization curve over [0, 1].
func CurveSRGB() Curve {
	return tabulate(func(v float64) float64 {
		if v <= 0.04045 {
			return v / 12.92
		}

		return math.Pow((v+0.055)/1.055, 2.4)
	})
}

// CurveRec709 returns the Rec.709 (shared with Rec.601) transfer function as
// a linearization curve over [0, 1].
func CurveRec709() Curve {
	return tabulate(func(v float64) float64 {
		if v < 0.081 {
			return v / 4.5
		}

		return math.Pow((v+0.099)/1.099, 1/0.45)
	})
}

// CurveRec601 returns the Rec.601 transfer function. Rec.601 and Rec.709
// share the same curve; the presets differ only in their gain weights.
func CurveRec601() Curve {
	return CurveRec709()
}

// CurveByName looks up a linearization preset curve. "Off" and "" return the
// identity curve.
func CurveByName(name string) (Curve, bool) {
	switch name {
	case "", "Off":
		return Curve{}, true
	case "sRGB":
		return CurveSRGB(), true
	case "Rec601":
		return CurveRec601(), true
	case "Rec709":
		return CurveRec709(), true
	default:
		return Curve{}, false
	}
}
