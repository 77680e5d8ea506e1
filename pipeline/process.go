package pipeline

import (
	"fmt"
	"sync"

	"github.com/cwbudde/spectro-dsp/frame"
	"github.com/cwbudde/spectro-dsp/spectrum"
)

// ProcessFrame runs one full cycle on a frame and publishes the resulting
// snapshot. It must be called from the goroutine that owns the pipeline.
// Pending commands and reconfigurations are applied first, never mid-cycle.
func (p *Pipeline) ProcessFrame(f *frame.RawFrame) (*Snapshot, error) {
	p.drainCommands()

	profile, err := frame.Extract(f, p.cfg.ROI, p.axis, p.reduce)
	if err != nil {
		return nil, err
	}
	if profile.Channels() != p.cfg.Channels {
		return nil, fmt.Errorf("pipeline: frame has %d channels, configured for %d",
			profile.Channels(), p.cfg.Channels)
	}

	width := profile.Width()
	if width != p.width {
		// Dimension change invalidates everything accumulated at the old
		// width: averaging history, filter delay lines, the zero reference
		// and the resolved wavelength axis. The very first frame has no old
		// width, so a pre-generated reference survives it.
		if p.width > 0 {
			p.buf.Reset()
			if p.bank != nil {
				p.bank.Reset()
			}
			p.engine.ClearReference()
			p.engine.ClearScaling()
		}
		p.mapping = p.model.Fit(width)
		p.width = width
		p.mean = spectrum.NewProfile(profile.Channels(), width)
	}

	p.correctParallel(profile)

	p.buf.Push(profile)
	p.buf.Mean(p.mean)

	if p.bank != nil {
		p.bank.Process(p.mean)
	}

	snap := p.publish()

	return snap, nil
}

// correctParallel applies channel correction, fanning channels out across
// workers: each channel's transform is independent and stateless per frame.
func (p *Pipeline) correctParallel(profile *spectrum.Profile) {
	channels := profile.Channels()
	if channels == 1 {
		p.corr.ApplyChannel(profile, 0)

		return
	}

	var wg sync.WaitGroup
	wg.Add(channels)
	for ch := 0; ch < channels; ch++ {
		go func(ch int) {
			defer wg.Done()
			p.corr.ApplyChannel(profile, ch)
		}(ch)
	}
	wg.Wait()
}

// publish assembles the immutable snapshot from the current mean profile
// and swaps it in as the latest value.
func (p *Pipeline) publish() *Snapshot {
	p.seq++

	s := spectrum.NewSpectrum(p.mean.Channels(), p.width)
	copy(s.Wavelengths, p.mapping.Wavelengths())
	for c := range s.Channels {
		copy(s.Channels[c], p.mean.Data[c])
	}
	s.SumCombined()
	s.Calibrated = p.mapping.Calibrated()
	s.Seq = p.seq

	if p.engine.HasScaling() {
		// Best effort: a width mismatch leaves the spectrum unscaled.
		_ = p.engine.ApplyScaling(s)
	}

	snap := &Snapshot{
		Spectrum: s,
		Peaks:    p.det.Detect(s),
		Outcome:  p.mapping.Outcome(),
		Seq:      p.seq,
	}

	if p.engine.HasReference() {
		if abs, err := p.engine.Absorbance(s); err == nil {
			snap.Absorbance = abs
		}
	}

	p.published.Store(snap)

	return snap
}
