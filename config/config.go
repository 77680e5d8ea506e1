// Package config carries the plain structured values the processing core is
// configured with. The core owns no persistence; Load exists for binaries
// that read the same structure from a YAML file.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/spectro-dsp/calib"
	"github.com/cwbudde/spectro-dsp/correct"
	"github.com/cwbudde/spectro-dsp/frame"
)

// Configuration errors. A rejected configuration never partially applies;
// the previous configuration stays active.
var (
	ErrInvalidROI       = errors.New("config: region of interest must have positive extent")
	ErrInvalidChannels  = errors.New("config: channel count must be positive")
	ErrInvalidGains     = errors.New("config: gains must match the channel count with finite non-negative entries")
	ErrBufferCapacity   = errors.New("config: averaging capacity must be in [1, 100]")
	ErrCutoffRange      = errors.New("config: filter cutoff must be inside (0, Nyquist)")
	ErrUnknownPreset    = errors.New("config: unknown gain preset")
	ErrUnknownCurve     = errors.New("config: unknown linearization preset")
	ErrUnknownAxis      = errors.New("config: unknown dispersion axis")
	ErrUnknownReduction = errors.New("config: unknown reduction mode")
)

// MaxAveragingCapacity bounds the averaging buffer depth, matching the range
// the original tool exposes.
const MaxAveragingCapacity = 100

// Config is the full configuration of the processing pipeline, supplied by
// an external collaborator as plain values.
type Config struct {
	Channels  int       `yaml:"channels"`
	ROI       frame.ROI `yaml:"roi"`
	Axis      string    `yaml:"dispersion_axis"`
	Reduction string    `yaml:"reduction"`

	Calibration []calib.Point `yaml:"calibration"`

	Gains         []float64            `yaml:"gains,omitempty"`
	GainPreset    string               `yaml:"gain_preset,omitempty"`
	Linearization []correct.Breakpoint `yaml:"linearization,omitempty"`
	CurvePreset   string               `yaml:"linearization_preset,omitempty"`

	AveragingCapacity int `yaml:"averaging_capacity"`

	FilterEnabled    bool    `yaml:"filter_enabled"`
	FilterCutoff     float64 `yaml:"filter_cutoff"`
	FilterQ          float64 `yaml:"filter_q"`
	FilterSampleRate float64 `yaml:"filter_sample_rate"`

	Detection DetectionConfig `yaml:"detection"`

	TungstenKelvin float64 `yaml:"tungsten_kelvin"`
	ReferencePeak  float64 `yaml:"reference_peak"`
}

// DetectionConfig holds the peak/dip policy values.
type DetectionConfig struct {
	WindowNm           float64 `yaml:"window_nm"`
	MinProminence      float64 `yaml:"min_prominence"`
	MinProminenceRatio float64 `yaml:"min_prominence_ratio"`
	SearchHorizon      int     `yaml:"search_horizon"`
}

// Default returns the defaults the original tool ships with.
func Default() Config {
	return Config{
		Channels:          3,
		ROI:               frame.ROI{X: 0, Y: 0, Width: 640, Height: 80},
		Axis:              "horizontal",
		Reduction:         "mean",
		GainPreset:        "Unity",
		CurvePreset:       "Off",
		AveragingCapacity: 10,
		FilterEnabled:     true,
		FilterCutoff:      0.5,
		FilterQ:           0, // 0 selects Butterworth Q
		FilterSampleRate:  2,
		Detection: DetectionConfig{
			WindowNm:           5,
			MinProminenceRatio: 0.05,
			SearchHorizon:      100,
		},
		TungstenKelvin: 2800,
		ReferencePeak:  1,
	}
}

// Validate checks the configuration as a whole: apply atomically or not at
// all.
func (c *Config) Validate() error {
	if c.Channels <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidChannels, c.Channels)
	}
	if c.ROI.Width <= 0 || c.ROI.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidROI, c.ROI.Width, c.ROI.Height)
	}
	if _, err := c.ParseAxis(); err != nil {
		return err
	}
	if _, err := c.ParseReduction(); err != nil {
		return err
	}
	if c.AveragingCapacity < 1 || c.AveragingCapacity > MaxAveragingCapacity {
		return fmt.Errorf("%w: %d", ErrBufferCapacity, c.AveragingCapacity)
	}
	if c.FilterEnabled {
		// NaN fails every ordered comparison, so non-finite values need
		// their own rejection.
		if !isFinite(c.FilterSampleRate) || !isFinite(c.FilterCutoff) ||
			c.FilterSampleRate <= 0 || c.FilterCutoff <= 0 || c.FilterCutoff >= c.FilterSampleRate/2 {
			return fmt.Errorf("%w: cutoff %g at sample rate %g",
				ErrCutoffRange, c.FilterCutoff, c.FilterSampleRate)
		}
	}
	if len(c.Gains) > 0 {
		if len(c.Gains) != c.Channels {
			return fmt.Errorf("%w: %d gains for %d channels", ErrInvalidGains, len(c.Gains), c.Channels)
		}
		for i, g := range c.Gains {
			if g < 0 || !isFinite(g) {
				return fmt.Errorf("%w: gain[%d] = %g", ErrInvalidGains, i, g)
			}
		}
	}
	if c.GainPreset != "" {
		preset, ok := correct.PresetByName(c.GainPreset)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownPreset, c.GainPreset)
		}
		if len(c.Gains) == 0 && preset.Gains != nil && len(preset.Gains) != c.Channels {
			return fmt.Errorf("%w: preset %q has %d gains for %d channels",
				ErrInvalidGains, c.GainPreset, len(preset.Gains), c.Channels)
		}
	}
	if _, ok := correct.CurveByName(c.CurvePreset); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCurve, c.CurvePreset)
	}

	// Point-set and curve validity is checked by their owners; doing it here
	// too keeps rejection at the configuration boundary.
	model := calib.NewModel()
	if err := model.SetPoints(c.Calibration); err != nil {
		return err
	}
	if _, err := correct.NewCurve(c.Linearization); err != nil {
		return err
	}

	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ParseAxis maps the axis name onto the frame type.
func (c *Config) ParseAxis() (frame.Axis, error) {
	switch c.Axis {
	case "", "horizontal":
		return frame.DispersionHorizontal, nil
	case "vertical":
		return frame.DispersionVertical, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAxis, c.Axis)
	}
}

// ParseReduction maps the reduction name onto the frame type.
func (c *Config) ParseReduction() (frame.Reduction, error) {
	switch c.Reduction {
	case "", "mean":
		return frame.ReduceMean, nil
	case "max":
		return frame.ReduceMax, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownReduction, c.Reduction)
	}
}

// Load reads and validates a configuration file. Fields absent from the
// file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}
