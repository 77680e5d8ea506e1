// Package pipeline wires the processing stages into a per-frame cycle:
// extraction, correction, averaging, low-pass filtering, calibration,
// peak/dip detection and absorbance, publishing an immutable snapshot after
// every frame.
//
// All mutable per-frame state (averaging buffer, filter bank, reference
// engine) is owned by the single goroutine running the cycle. Frames come in
// through a bounded drop-oldest channel, snapshots go out through an
// atomically swapped pointer, and reconfiguration is applied strictly
// between cycles.
package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/cwbudde/spectro-dsp/average"
	"github.com/cwbudde/spectro-dsp/calib"
	"github.com/cwbudde/spectro-dsp/config"
	"github.com/cwbudde/spectro-dsp/correct"
	"github.com/cwbudde/spectro-dsp/filter"
	"github.com/cwbudde/spectro-dsp/frame"
	"github.com/cwbudde/spectro-dsp/peak"
	"github.com/cwbudde/spectro-dsp/reference"
	"github.com/cwbudde/spectro-dsp/spectrum"
)

// Snapshot is one published processing result. It is immutable once
// published; readers always see the most recently completed snapshot and
// never a partially built one.
type Snapshot struct {
	Spectrum   *spectrum.Spectrum
	Peaks      []peak.PeakDip
	Absorbance *spectrum.AbsorbanceSpectrum
	Outcome    calib.Outcome
	Seq        uint64
}

// Pipeline owns the processing components and runs the per-frame cycle.
//
// ProcessFrame and the command/configuration appliers must only run on the
// goroutine that owns the pipeline (the one inside Run, or the caller's own
// loop when driving ProcessFrame directly). Offer, Latest and LastError are
// safe from any goroutine.
type Pipeline struct {
	cfg    config.Config
	axis   frame.Axis
	reduce frame.Reduction

	model   *calib.Model
	mapping *calib.Mapping
	corr    *correct.Correction
	buf     *average.Buffer
	bank    *filter.Bank
	det     *peak.Detector
	engine  *reference.Engine

	width int
	mean  *spectrum.Profile
	seq   uint64

	in        chan *frame.RawFrame
	commands  chan func()
	published atomic.Pointer[Snapshot]
	lastErr   atomic.Pointer[errBox]
}

type errBox struct{ err error }

// New builds a pipeline from a validated configuration.
func New(cfg config.Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{
		in:       make(chan *frame.RawFrame, 1),
		commands: make(chan func(), 16),
		model:    calib.NewModel(),
		det:      peak.NewDetector(peak.Policy{}),
		engine:   reference.NewEngine(),
	}
	if err := p.apply(cfg); err != nil {
		return nil, err
	}

	return p, nil
}

// apply installs a validated configuration on the owning goroutine. Every
// component is staged into locals first; pipeline state is only touched once
// nothing can fail anymore, so a rejected configuration leaves the active one
// fully intact.
func (p *Pipeline) apply(cfg config.Config) error {
	axis, err := cfg.ParseAxis()
	if err != nil {
		return err
	}
	reduce, err := cfg.ParseReduction()
	if err != nil {
		return err
	}

	model := calib.NewModel()
	if err := model.SetPoints(cfg.Calibration); err != nil {
		return err
	}

	corr := correct.New(cfg.Channels)
	if len(cfg.Gains) > 0 {
		if err := corr.SetGains(cfg.Gains); err != nil {
			return err
		}
	} else if cfg.GainPreset != "" {
		preset, ok := correct.PresetByName(cfg.GainPreset)
		if !ok {
			return fmt.Errorf("%w: %q", config.ErrUnknownPreset, cfg.GainPreset)
		}
		if err := corr.ApplyPreset(preset); err != nil {
			return err
		}
	}

	if len(cfg.Linearization) > 0 {
		curve, err := correct.NewCurve(cfg.Linearization)
		if err != nil {
			return err
		}
		corr.SetCurve(curve)
	} else {
		curve, ok := correct.CurveByName(cfg.CurvePreset)
		if !ok {
			return fmt.Errorf("%w: %q", config.ErrUnknownCurve, cfg.CurvePreset)
		}
		corr.SetCurve(curve)
	}

	buf := p.buf
	if buf == nil || buf.Capacity() != cfg.AveragingCapacity {
		// Resizing clears history anyway, so a fresh buffer is equivalent.
		if buf, err = average.New(cfg.AveragingCapacity); err != nil {
			return err
		}
	}

	var bank *filter.Bank
	if cfg.FilterEnabled {
		if p.bank != nil && p.bank.Channels() == cfg.Channels {
			// Last fallible step. On failure the bank keeps its previous
			// design and nothing staged above has been committed.
			if err := p.bank.SetCutoff(cfg.FilterCutoff, cfg.FilterQ, cfg.FilterSampleRate); err != nil {
				return err
			}
			bank = p.bank
		} else {
			bank, err = filter.NewBank(cfg.Channels, cfg.FilterCutoff, cfg.FilterQ, cfg.FilterSampleRate)
			if err != nil {
				return err
			}
		}
	}

	// Commit.
	if p.corr != nil && p.corr.Channels() != cfg.Channels {
		// Channel count changed: per-channel state is no longer comparable.
		buf.Reset()
		p.width = 0
	}

	p.det.SetPolicy(peak.Policy{
		WindowNm:           cfg.Detection.WindowNm,
		MinProminence:      cfg.Detection.MinProminence,
		MinProminenceRatio: cfg.Detection.MinProminenceRatio,
		SearchHorizon:      cfg.Detection.SearchHorizon,
	})

	p.cfg = cfg
	p.axis = axis
	p.reduce = reduce
	p.model = model
	p.corr = corr
	p.buf = buf
	p.bank = bank
	if p.width > 0 {
		p.mapping = p.model.Fit(p.width)
	}

	return nil
}

// Offer hands a frame to the pipeline without blocking. When the processing
// side is slower than capture, the oldest unconsumed frame is dropped:
// bounded staleness over completeness.
func (p *Pipeline) Offer(f *frame.RawFrame) {
	for {
		select {
		case p.in <- f:
			return
		default:
		}

		select {
		case <-p.in:
		default:
		}
	}
}

// Run pulls frames and pending commands until the context is cancelled.
// Cancellation is simply "stop pulling frames"; there is no teardown beyond
// releasing buffers to the collector.
func (p *Pipeline) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-p.commands:
			cmd()
		case f := <-p.in:
			if _, err := p.ProcessFrame(f); err != nil {
				// Data errors degrade this frame only; the previous snapshot
				// stays published and processing continues.
				p.lastErr.Store(&errBox{err: err})
			}
		}
	}
}

// drainCommands applies all queued commands; called between cycles so a
// reconfiguration never lands mid-frame.
func (p *Pipeline) drainCommands() {
	for {
		select {
		case cmd := <-p.commands:
			cmd()
		default:
			return
		}
	}
}

// Latest returns the most recently published snapshot, nil before the first
// completed cycle. Reading never blocks the processing goroutine.
func (p *Pipeline) Latest() *Snapshot {
	return p.published.Load()
}

// LastError returns the most recent per-frame data error, nil when the last
// cycle succeeded.
func (p *Pipeline) LastError() error {
	box := p.lastErr.Load()
	if box == nil {
		return nil
	}

	return box.err
}

// Reconfigure validates the new configuration immediately and, on success,
// queues it for atomic application between cycles. A rejected configuration
// leaves the active one untouched.
func (p *Pipeline) Reconfigure(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	p.enqueue(func() {
		if err := p.apply(cfg); err != nil {
			p.lastErr.Store(&errBox{err: err})
		}
	})

	return nil
}

// CaptureZero stores the latest published spectrum as the zero reference,
// applied between cycles.
func (p *Pipeline) CaptureZero() {
	p.enqueue(func() {
		if snap := p.published.Load(); snap != nil {
			p.engine.CaptureZero(snap.Spectrum)
		}
	})
}

// GenerateTungsten synthesizes a blackbody reference on the active
// wavelength axis. It works with no camera attached: before the first frame
// the axis is resolved from the configured ROI extent.
func (p *Pipeline) GenerateTungsten(kelvin float64) {
	p.enqueue(func() {
		mapping := p.mapping
		if mapping == nil {
			mapping = p.model.Fit(p.roiWidth())
		}

		err := p.engine.GenerateTungsten(kelvin, mapping.Wavelengths(), p.cfg.Channels, p.cfg.ReferencePeak)
		if err != nil {
			p.lastErr.Store(&errBox{err: err})
		}
	})
}

// ClearReference removes the stored reference between cycles.
func (p *Pipeline) ClearReference() {
	p.enqueue(func() { p.engine.ClearReference() })
}

// DeriveScaling turns the stored reference into per-bin intensity scaling
// factors based on the latest published spectrum.
func (p *Pipeline) DeriveScaling() {
	p.enqueue(func() {
		snap := p.published.Load()
		if snap == nil {
			return
		}
		if err := p.engine.DeriveScaling(snap.Spectrum); err != nil {
			p.lastErr.Store(&errBox{err: err})
		}
	})
}

func (p *Pipeline) enqueue(cmd func()) {
	p.commands <- cmd
}

// roiWidth returns the profile width the configured ROI would produce.
func (p *Pipeline) roiWidth() int {
	if p.axis == frame.DispersionVertical {
		return p.cfg.ROI.Height
	}

	return p.cfg.ROI.Width
}
