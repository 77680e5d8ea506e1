package correct

import (
	"math"
	"testing"

	"github.com/cwbudde/spectro-dsp/spectrum"
)

const eps = 1e-12

func flatProfile(channels, width int, v float64) *spectrum.Profile {
	p := spectrum.NewProfile(channels, width)
	for c := range p.Data {
		for i := range p.Data[c] {
			p.Data[c][i] = v
		}
	}

	return p
}

func TestGainAppliedBeforeLinearization(t *testing.T) {
	c := New(1)
	if err := c.SetGains([]float64{2}); err != nil {
		t.Fatalf("set gains: %v", err)
	}

	// Curve maps 200 → 0.5, so gain must run first for this to hit.
	curve, err := NewCurve([]Breakpoint{{Raw: 0, Linear: 0}, {Raw: 200, Linear: 0.5}, {Raw: 400, Linear: 1}})
	if err != nil {
		t.Fatalf("curve: %v", err)
	}
	c.SetCurve(curve)

	if got := c.Value(100, 0); got != 0.5 {
		t.Fatalf("Value(100): got %v, want 0.5 (gain then linearize)", got)
	}
}

func TestGainScenario(t *testing.T) {
	// ROI width 100, raw value 100 everywhere, gain 2.0, identity
	// linearization: corrected profile is exactly 200 everywhere.
	c := New(3)
	if err := c.SetGains([]float64{2, 2, 2}); err != nil {
		t.Fatalf("set gains: %v", err)
	}

	p := flatProfile(3, 100, 100)
	if err := c.Apply(p); err != nil {
		t.Fatalf("apply: %v", err)
	}

	for ch := range p.Data {
		for i, v := range p.Data[ch] {
			if v != 200 {
				t.Fatalf("ch %d col %d: got %v, want exactly 200", ch, i, v)
			}
		}
	}
}

func TestCorrectionIsIdempotentAcrossApplications(t *testing.T) {
	// Re-applying the same configuration to the same raw profile yields
	// identical output: no hidden accumulating state.
	c := New(2)
	if err := c.SetGains([]float64{1.5, 0.5}); err != nil {
		t.Fatalf("set gains: %v", err)
	}
	c.SetCurve(CurveSRGB())

	raw := spectrum.NewProfile(2, 32)
	for ch := range raw.Data {
		for i := range raw.Data[ch] {
			raw.Data[ch][i] = float64(i) / 31
		}
	}

	first := raw.Clone()
	if err := c.Apply(first); err != nil {
		t.Fatalf("apply: %v", err)
	}
	second := raw.Clone()
	if err := c.Apply(second); err != nil {
		t.Fatalf("apply: %v", err)
	}

	for ch := range first.Data {
		for i := range first.Data[ch] {
			if first.Data[ch][i] != second.Data[ch][i] {
				t.Fatalf("ch %d col %d: %v != %v", ch, i, first.Data[ch][i], second.Data[ch][i])
			}
		}
	}
}

func TestSetGainsRejectsAtomically(t *testing.T) {
	c := New(3)
	if err := c.SetGains([]float64{1, 2, 3}); err != nil {
		t.Fatalf("set gains: %v", err)
	}

	if err := c.SetGains([]float64{1, 2}); err == nil {
		t.Fatal("length mismatch accepted")
	}
	if err := c.SetGains([]float64{1, 2, -1}); err == nil {
		t.Fatal("negative gain accepted")
	}

	if got := c.Gains(); got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("gains changed by rejected update: %v", got)
	}
}

func TestCurveClampsOutsideRange(t *testing.T) {
	curve, err := NewCurve([]Breakpoint{{Raw: 10, Linear: 1}, {Raw: 20, Linear: 3}})
	if err != nil {
		t.Fatalf("curve: %v", err)
	}

	if got := curve.Apply(5); got != 1 {
		t.Errorf("below range: got %v, want 1 (clamped, not extrapolated)", got)
	}
	if got := curve.Apply(25); got != 3 {
		t.Errorf("above range: got %v, want 3", got)
	}
	if got := curve.Apply(15); got != 2 {
		t.Errorf("interior: got %v, want 2", got)
	}
}

func TestNewCurveRejectsNonMonotonic(t *testing.T) {
	if _, err := NewCurve([]Breakpoint{{Raw: 0, Linear: 0}, {Raw: 0, Linear: 1}}); err == nil {
		t.Error("duplicate raw accepted")
	}
	if _, err := NewCurve([]Breakpoint{{Raw: 0, Linear: 1}, {Raw: 1, Linear: 0}}); err == nil {
		t.Error("decreasing linear accepted")
	}
}

func TestPresets(t *testing.T) {
	c := New(3)
	if err := c.ApplyPreset(PresetRec601); err != nil {
		t.Fatalf("preset: %v", err)
	}

	want := []float64{0.299, 0.587, 0.114}
	for i, g := range c.Gains() {
		if g != want[i] {
			t.Errorf("gain %d: got %v, want %v", i, g, want[i])
		}
	}

	// A preset that cannot fit the channel count leaves gains untouched.
	mono := New(1)
	if err := mono.ApplyPreset(PresetSRGB); err == nil {
		t.Fatal("3-channel preset accepted on 1-channel correction")
	}
	if got := mono.Gains(); got[0] != 1 {
		t.Fatalf("gains changed by rejected preset: %v", got)
	}

	// Unity carries no fixed vector and fits any channel count.
	if err := mono.SetGains([]float64{5}); err != nil {
		t.Fatalf("set gains: %v", err)
	}
	if err := mono.ApplyPreset(PresetUnity); err != nil {
		t.Fatalf("unity preset on 1 channel: %v", err)
	}
	if got := mono.Gains(); got[0] != 1 {
		t.Fatalf("unity preset gains: got %v, want 1", got)
	}

	if _, ok := PresetByName("Unity"); !ok {
		t.Error("Unity preset missing")
	}
	if _, ok := PresetByName("Bogus"); ok {
		t.Error("unknown preset resolved")
	}
}

func TestCurveSRGBEndpoints(t *testing.T) {
	curve := CurveSRGB()

	if got := curve.Apply(0); math.Abs(got) > eps {
		t.Errorf("sRGB(0): got %v, want 0", got)
	}
	if got := curve.Apply(1); math.Abs(got-1) > eps {
		t.Errorf("sRGB(1): got %v, want 1", got)
	}

	// Monotone over the tabulated range.
	prev := -1.0
	for i := 0; i <= 100; i++ {
		v := curve.Apply(float64(i) / 100)
		if v < prev {
			t.Fatalf("sRGB curve decreases at %d", i)
		}
		prev = v
	}
}

func TestCurveByName(t *testing.T) {
	for _, name := range []string{"", "Off", "sRGB", "Rec601", "Rec709"} {
		if _, ok := CurveByName(name); !ok {
			t.Errorf("curve %q missing", name)
		}
	}
	if _, ok := CurveByName("Gamma22"); ok {
		t.Error("unknown curve resolved")
	}
}
