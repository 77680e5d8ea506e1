package synth

import (
	"math"
	"testing"
)

func TestFrameIsDeterministicPerSeed(t *testing.T) {
	line := Line{Center: 10, Width: 2, Height: 50}

	a := NewGenerator(32, 4, 3, WithSeed(7), WithNoise(1), WithLine(line)).Frame(0)
	b := NewGenerator(32, 4, 3, WithSeed(7), WithNoise(1), WithLine(line)).Frame(0)

	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("pixel %d differs across identical seeds: %v vs %v", i, a.Pix[i], b.Pix[i])
		}
	}
}

func TestNoiseFreeFrameMatchesLineProfile(t *testing.T) {
	g := NewGenerator(32, 4, 1, WithLine(Line{Center: 16, Width: 3, Height: 100}))
	f := g.Frame(0)

	if got := f.At(16, 0, 0); got != 100 {
		t.Errorf("line center: got %v, want 100", got)
	}
	// Rows are identical without noise.
	for x := 0; x < 32; x++ {
		if f.At(x, 0, 0) != f.At(x, 3, 0) {
			t.Fatalf("rows differ at column %d without noise", x)
		}
	}
}

func TestNoiseNeverGoesNegative(t *testing.T) {
	g := NewGenerator(64, 2, 1, WithSeed(3), WithNoise(5))
	f := g.Frame(0)

	for _, v := range f.Pix {
		if v < 0 {
			t.Fatalf("negative sample %v", v)
		}
	}
}

func TestGaussianLine(t *testing.T) {
	out := make([]float64, 21)
	GaussianLine(out, 10, 2, 8)

	if out[10] != 8 {
		t.Errorf("center: got %v, want 8", out[10])
	}
	if math.Abs(out[8]-out[12]) > 1e-12 {
		t.Errorf("not symmetric: %v vs %v", out[8], out[12])
	}
	for i := 1; i <= 10; i++ {
		if out[i] <= out[i-1] {
			t.Fatalf("not increasing toward center at %d", i)
		}
	}
}
