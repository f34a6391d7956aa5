// SPDX-License-Identifier: EPL-2.0

package beatdriver

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/ik5/beatdriver/bands"
	"github.com/ik5/beatdriver/normalize"
	"github.com/ik5/beatdriver/onset"
)

// Config holds every tunable of an analysis run. It is passed by value and
// never modified by the pipeline.
type Config struct {
	FrameRate  float64      `json:"frame_rate"`
	BandRanges bands.Ranges `json:"band_ranges"`
	Overlap    float64      `json:"overlap"`

	Sensitivity                float64 `json:"sensitivity"`
	MovingAverageWindow        int     `json:"moving_average_window"`
	RefractoryFrames           int     `json:"refractory_frames"`
	MinOnsetLevel              float64 `json:"min_onset_level"`
	CoincidenceToleranceFrames int     `json:"coincidence_tolerance_frames"`
	CoincidenceMinBands        int     `json:"coincidence_min_bands"`
	PulseAggregate             string  `json:"pulse_aggregate"`

	// NoiseFloor is the fraction of the file's loudest band energy below
	// which a band's range counts as steady. Steady bands are scaled against
	// that energy instead of their own range. 0 always uses min-max.
	NoiseFloor float64 `json:"noise_floor"`
	// SmoothingKernel is the width of the median filter applied to the
	// normalized series. 1 disables smoothing.
	SmoothingKernel int `json:"smoothing_kernel"`
	// AnalysisSampleRate resamples the decoded audio before framing. 0
	// keeps the native rate.
	AnalysisSampleRate int `json:"analysis_sample_rate"`
	// Workers sizes the filter bank pool. 0 uses one worker per CPU.
	Workers int `json:"workers"`

	FFmpegPath  string `json:"ffmpeg_path,omitempty"`
	FFprobePath string `json:"ffprobe_path,omitempty"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		FrameRate:                  30,
		BandRanges:                 bands.DefaultRanges(),
		Overlap:                    0.5,
		Sensitivity:                1.5,
		MovingAverageWindow:        15,
		RefractoryFrames:           3,
		MinOnsetLevel:              0.07,
		CoincidenceToleranceFrames: 2,
		CoincidenceMinBands:        2,
		PulseAggregate:             onset.AggregateMax.String(),
		NoiseFloor:                 normalize.DefaultFloor,
		SmoothingKernel:            1,
	}
}

// LoadConfig reads a JSON file over DefaultConfig, so absent keys keep their
// default value. The result is validated.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}

	return cfg, cfg.Validate()
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Validate reports the first out of range parameter as a *ConfigError.
func (c Config) Validate() error {
	switch {
	case !finite(c.FrameRate) || c.FrameRate <= 0:
		return &ConfigError{Field: "frame_rate", Value: c.FrameRate, Reason: "must be > 0"}
	case !finite(c.Overlap) || c.Overlap < 0 || c.Overlap >= 1:
		return &ConfigError{Field: "overlap", Value: c.Overlap, Reason: "must be in [0, 1)"}
	case !finite(c.Sensitivity) || c.Sensitivity <= 0:
		return &ConfigError{Field: "sensitivity", Value: c.Sensitivity, Reason: "must be > 0"}
	case c.MovingAverageWindow < 1:
		return &ConfigError{Field: "moving_average_window", Value: c.MovingAverageWindow, Reason: "must be >= 1"}
	case c.RefractoryFrames < 0:
		return &ConfigError{Field: "refractory_frames", Value: c.RefractoryFrames, Reason: "must be >= 0"}
	case !finite(c.MinOnsetLevel) || c.MinOnsetLevel < 0 || c.MinOnsetLevel >= 1:
		return &ConfigError{Field: "min_onset_level", Value: c.MinOnsetLevel, Reason: "must be in [0, 1)"}
	case c.CoincidenceToleranceFrames < 0:
		return &ConfigError{Field: "coincidence_tolerance_frames", Value: c.CoincidenceToleranceFrames, Reason: "must be >= 0"}
	case c.CoincidenceMinBands < 1 || c.CoincidenceMinBands > bands.Count:
		return &ConfigError{Field: "coincidence_min_bands", Value: c.CoincidenceMinBands,
			Reason: fmt.Sprintf("must be in [1, %d]", bands.Count)}
	case !finite(c.NoiseFloor) || c.NoiseFloor < 0 || c.NoiseFloor >= 1:
		return &ConfigError{Field: "noise_floor", Value: c.NoiseFloor, Reason: "must be in [0, 1)"}
	case c.SmoothingKernel < 1 || c.SmoothingKernel%2 == 0:
		return &ConfigError{Field: "smoothing_kernel", Value: c.SmoothingKernel, Reason: "must be odd and >= 1"}
	case c.AnalysisSampleRate < 0:
		return &ConfigError{Field: "analysis_sample_rate", Value: c.AnalysisSampleRate, Reason: "must be >= 0"}
	case c.Workers < 0:
		return &ConfigError{Field: "workers", Value: c.Workers, Reason: "must be >= 0"}
	}

	if err := c.BandRanges.Validate(); err != nil {
		return &ConfigError{Field: "band_ranges", Value: c.BandRanges, Reason: err.Error(), Err: err}
	}
	if _, err := onset.ParseAggregate(c.PulseAggregate); err != nil {
		return &ConfigError{Field: "pulse_aggregate", Value: c.PulseAggregate, Reason: "must be max, sum or mean", Err: err}
	}
	return nil
}

func (c Config) onsetParams() onset.Params {
	return onset.Params{
		Sensitivity: c.Sensitivity,
		Window:      c.MovingAverageWindow,
		Refractory:  c.RefractoryFrames,
		MinLevel:    c.MinOnsetLevel,
	}
}

func (c Config) pulseParams() onset.PulseParams {
	agg, _ := onset.ParseAggregate(c.PulseAggregate)
	return onset.PulseParams{
		Tolerance: c.CoincidenceToleranceFrames,
		MinBands:  c.CoincidenceMinBands,
		Aggregate: agg,
	}
}
