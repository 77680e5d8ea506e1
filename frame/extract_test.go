package frame

import (
	"errors"
	"testing"
)

// gradientFrame builds a 2-channel frame where channel 0 holds the column
// index and channel 1 holds the row index.
func gradientFrame(width, height int) *RawFrame {
	f := NewRawFrame(width, height, 2)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			f.Set(x, y, 0, float64(x))
			f.Set(x, y, 1, float64(y))
		}
	}

	return f
}

func TestExtractMeanHorizontal(t *testing.T) {
	f := gradientFrame(8, 4)

	p, err := Extract(f, ROI{X: 0, Y: 0, Width: 8, Height: 4}, DispersionHorizontal, ReduceMean)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if p.Width() != 8 || p.Channels() != 2 {
		t.Fatalf("profile %dx%d, want 8x2", p.Width(), p.Channels())
	}

	// Channel 0 is constant per column; channel 1 averages rows 0..3 = 1.5.
	for x := 0; x < 8; x++ {
		if p.Data[0][x] != float64(x) {
			t.Errorf("ch0[%d]: got %v, want %v", x, p.Data[0][x], float64(x))
		}
		if p.Data[1][x] != 1.5 {
			t.Errorf("ch1[%d]: got %v, want 1.5", x, p.Data[1][x])
		}
	}
}

func TestExtractMaxHorizontal(t *testing.T) {
	f := gradientFrame(4, 5)

	p, err := Extract(f, ROI{X: 0, Y: 0, Width: 4, Height: 5}, DispersionHorizontal, ReduceMax)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	for x := 0; x < 4; x++ {
		if p.Data[1][x] != 4 {
			t.Errorf("ch1[%d]: got %v, want 4 (max row index)", x, p.Data[1][x])
		}
	}
}

func TestExtractVerticalAxis(t *testing.T) {
	f := gradientFrame(6, 3)

	p, err := Extract(f, ROI{X: 0, Y: 0, Width: 6, Height: 3}, DispersionVertical, ReduceMean)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if p.Width() != 3 {
		t.Fatalf("vertical profile width: got %d, want 3", p.Width())
	}

	// Dispersion along y: channel 1 (row index) is constant per profile
	// entry, channel 0 averages columns 0..5 = 2.5.
	for i := 0; i < 3; i++ {
		if p.Data[1][i] != float64(i) {
			t.Errorf("ch1[%d]: got %v, want %v", i, p.Data[1][i], float64(i))
		}
		if p.Data[0][i] != 2.5 {
			t.Errorf("ch0[%d]: got %v, want 2.5", i, p.Data[0][i])
		}
	}
}

func TestExtractClampsROI(t *testing.T) {
	f := gradientFrame(8, 4)

	// ROI reaching past the frame is clamped, not rejected.
	p, err := Extract(f, ROI{X: 6, Y: 2, Width: 100, Height: 100}, DispersionHorizontal, ReduceMean)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if p.Width() != 2 {
		t.Fatalf("clamped width: got %d, want 2", p.Width())
	}
	if p.Data[0][0] != 6 || p.Data[0][1] != 7 {
		t.Errorf("clamped columns: got %v, %v, want 6, 7", p.Data[0][0], p.Data[0][1])
	}
}

func TestExtractEmptyROI(t *testing.T) {
	f := gradientFrame(8, 4)

	for _, roi := range []ROI{
		{X: 0, Y: 0, Width: 0, Height: 4},
		{X: 100, Y: 0, Width: 10, Height: 4}, // fully outside
		{X: 0, Y: 0, Width: 8, Height: 0},
	} {
		if _, err := Extract(f, roi, DispersionHorizontal, ReduceMean); !errors.Is(err, ErrEmptyROI) {
			t.Errorf("roi %+v: got %v, want ErrEmptyROI", roi, err)
		}
	}
}

func TestExtractIsPure(t *testing.T) {
	f := gradientFrame(8, 4)
	roi := ROI{X: 1, Y: 1, Width: 5, Height: 2}

	p1, err := Extract(f, roi, DispersionHorizontal, ReduceMean)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	p2, err := Extract(f, roi, DispersionHorizontal, ReduceMean)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	for x := 0; x < p1.Width(); x++ {
		if p1.Data[0][x] != p2.Data[0][x] {
			t.Fatalf("extraction not reproducible at column %d", x)
		}
	}
}

func TestROIClamp(t *testing.T) {
	for _, tc := range []struct {
		roi  ROI
		want ROI
	}{
		{roi: ROI{X: -5, Y: -5, Width: 20, Height: 20}, want: ROI{X: 0, Y: 0, Width: 10, Height: 10}},
		{roi: ROI{X: 5, Y: 5, Width: 20, Height: 20}, want: ROI{X: 5, Y: 5, Width: 5, Height: 5}},
		{roi: ROI{X: 12, Y: 0, Width: 5, Height: 5}, want: ROI{X: 10, Y: 0, Width: 0, Height: 5}},
	} {
		if got := tc.roi.Clamp(10, 10); got != tc.want {
			t.Errorf("Clamp %+v: got %+v, want %+v", tc.roi, got, tc.want)
		}
	}
}
