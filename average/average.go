// Package average suppresses shot noise with a fixed-capacity ring buffer of
// recent profiles and their element-wise running mean.
package average

import (
	"errors"
	"fmt"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/spectro-dsp/spectrum"
)

// ErrCapacity is returned for a non-positive buffer capacity.
var ErrCapacity = errors.New("average: capacity must be positive")

// Buffer is a FIFO ring of the last N profiles. It owns its storage: pushed
// profiles are copied in, and the mean is written to a caller-supplied
// profile. Before warm-up the mean covers however many entries exist.
type Buffer struct {
	capacity int
	entries  []*spectrum.Profile
	head     int
	count    int
}

// New returns a buffer holding up to capacity profiles.
func New(capacity int) (*Buffer, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrCapacity, capacity)
	}

	return &Buffer{
		capacity: capacity,
		entries:  make([]*spectrum.Profile, capacity),
	}, nil
}

// Capacity returns the configured capacity.
func (b *Buffer) Capacity() int {
	return b.capacity
}

// Len returns the number of profiles currently held.
func (b *Buffer) Len() int {
	return b.count
}

// Push copies the profile into the ring, evicting the oldest entry when
// full. A profile whose dimensions differ from the held entries invalidates
// the history first: means across different widths are meaningless.
func (b *Buffer) Push(p *spectrum.Profile) {
	if b.count > 0 {
		held := b.entries[b.oldest()]
		if held.Width() != p.Width() || held.Channels() != p.Channels() {
			b.Reset()
		}
	}

	slot := (b.oldest() + b.count) % b.capacity
	if b.count == b.capacity {
		slot = b.head
		b.head = (b.head + 1) % b.capacity
	}

	if b.entries[slot] == nil ||
		b.entries[slot].Width() != p.Width() ||
		b.entries[slot].Channels() != p.Channels() {
		b.entries[slot] = p.Clone()
	} else {
		b.entries[slot].CopyFrom(p)
	}

	if b.count < b.capacity {
		b.count++
	}
}

// Mean writes the element-wise arithmetic mean of all held profiles into
// dst, which must match the held dimensions. Returns false when the buffer
// is empty.
func (b *Buffer) Mean(dst *spectrum.Profile) bool {
	if b.count == 0 {
		return false
	}

	for ch := range dst.Data {
		line := dst.Data[ch]
		for i := range line {
			line[i] = 0
		}
	}

	for k := 0; k < b.count; k++ {
		entry := b.entries[(b.oldest()+k)%b.capacity]
		for ch := range dst.Data {
			vecmath.AddBlockInPlace(dst.Data[ch], entry.Data[ch])
		}
	}

	inv := 1 / float64(b.count)
	for ch := range dst.Data {
		vecmath.ScaleBlock(dst.Data[ch], dst.Data[ch], inv)
	}

	return true
}

// Resize replaces the capacity and clears all held history: old and new
// capacities are not comparable in a way that preserves mean validity. On
// error the previous capacity stays active.
func (b *Buffer) Resize(capacity int) error {
	if capacity <= 0 {
		return fmt.Errorf("%w: %d", ErrCapacity, capacity)
	}
	if capacity == b.capacity {
		b.Reset()

		return nil
	}

	b.capacity = capacity
	b.entries = make([]*spectrum.Profile, capacity)
	b.head = 0
	b.count = 0

	return nil
}

// Reset drops all held profiles without changing capacity.
func (b *Buffer) Reset() {
	b.head = 0
	b.count = 0
}

func (b *Buffer) oldest() int {
	return b.head
}
