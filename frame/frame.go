// Package frame holds the raw camera frame model and the profile extractor
// that reduces a frame region of interest into a per-column intensity
// profile.
package frame

import (
	"fmt"
	"time"
)

// RawFrame is an externally owned pixel grid. Pix is row-major and
// channel-interleaved: the sample for (x, y, c) lives at
// (y*Width+x)*Channels + c. The processing core only reads it.
type RawFrame struct {
	Width    int
	Height   int
	Channels int
	Pix      []float64
	Seq      uint64
	Arrival  time.Time
}

// NewRawFrame returns a zero-filled frame.
func NewRawFrame(width, height, channels int) *RawFrame {
	return &RawFrame{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]float64, width*height*channels),
	}
}

// At returns the sample at (x, y) for the given channel.
func (f *RawFrame) At(x, y, ch int) float64 {
	return f.Pix[(y*f.Width+x)*f.Channels+ch]
}

// Set writes the sample at (x, y) for the given channel.
func (f *RawFrame) Set(x, y, ch int, v float64) {
	f.Pix[(y*f.Width+x)*f.Channels+ch] = v
}

// Validate checks the frame dimensions against its pixel storage.
func (f *RawFrame) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("frame dimensions must be positive: %dx%d", f.Width, f.Height)
	}
	if f.Channels <= 0 {
		return fmt.Errorf("frame channel count must be positive: %d", f.Channels)
	}
	if want := f.Width * f.Height * f.Channels; len(f.Pix) != want {
		return fmt.Errorf("frame pixel storage length %d, want %d", len(f.Pix), want)
	}

	return nil
}
