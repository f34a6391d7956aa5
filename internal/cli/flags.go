// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"github.com/spf13/pflag"

	"github.com/ik5/beatdriver"
	"github.com/ik5/beatdriver/bands"
)

// analysisFlags mirrors beatdriver.Config. Only flags set on the command
// line override the configuration file.
type analysisFlags struct {
	frameRate   float64
	bands       string
	overlap     float64
	sensitivity float64
	window      int
	refractory  int
	minLevel    float64
	tolerance   int
	minBands    int
	aggregate   string
	noiseFloor  float64
	smoothing   int
	sampleRate  int
	workers     int
	ffmpeg      string
	ffprobe     string
}

func (f *analysisFlags) bind(fs *pflag.FlagSet) {
	def := beatdriver.DefaultConfig()

	fs.Float64VarP(&f.frameRate, "frame-rate", "r", def.FrameRate, "Output frames per second")
	fs.StringVar(&f.bands, "bands", def.BandRanges.String(), "Seven low-high band ranges in Hz, comma separated")
	fs.Float64Var(&f.overlap, "overlap", def.Overlap, "Analysis window overlap in [0,1)")
	fs.Float64VarP(&f.sensitivity, "sensitivity", "s", def.Sensitivity, "Onset threshold multiplier")
	fs.IntVar(&f.window, "window", def.MovingAverageWindow, "Frames averaged for the onset threshold")
	fs.IntVar(&f.refractory, "refractory", def.RefractoryFrames, "Frames after an onset in which no onset may fire")
	fs.Float64Var(&f.minLevel, "min-level", def.MinOnsetLevel, "Lowest normalized value that can be an onset")
	fs.IntVar(&f.tolerance, "tolerance", def.CoincidenceToleranceFrames, "Coincidence window half width in frames")
	fs.IntVar(&f.minBands, "min-bands", def.CoincidenceMinBands, "Bands that must coincide to raise the pulse")
	fs.StringVar(&f.aggregate, "aggregate", def.PulseAggregate, "Pulse aggregate: max, sum or mean")
	fs.Float64Var(&f.noiseFloor, "noise-floor", def.NoiseFloor, "Band range, as a fraction of the loudest band, below which a band is steady")
	fs.IntVar(&f.smoothing, "smoothing", def.SmoothingKernel, "Median smoothing width in frames, odd, 1 disables")
	fs.IntVar(&f.sampleRate, "sample-rate", def.AnalysisSampleRate, "Resample before analysis, 0 keeps the native rate")
	fs.IntVarP(&f.workers, "workers", "j", def.Workers, "Filter bank workers, 0 uses every CPU")
	fs.StringVar(&f.ffmpeg, "ffmpeg", def.FFmpegPath, "ffmpeg binary used for formats without a native decoder")
	fs.StringVar(&f.ffprobe, "ffprobe", def.FFprobePath, "ffprobe binary used with --ffmpeg")
}

// apply copies every changed flag into cfg.
func (f *analysisFlags) apply(fs *pflag.FlagSet, cfg *beatdriver.Config) error {
	changed := func(name string) bool { return fs.Changed(name) }

	if changed("frame-rate") {
		cfg.FrameRate = f.frameRate
	}
	if changed("bands") {
		rs, err := bands.ParseRanges(f.bands)
		if err != nil {
			return &beatdriver.ConfigError{Field: "band_ranges", Value: f.bands, Reason: err.Error(), Err: err}
		}
		cfg.BandRanges = rs
	}
	if changed("overlap") {
		cfg.Overlap = f.overlap
	}
	if changed("sensitivity") {
		cfg.Sensitivity = f.sensitivity
	}
	if changed("window") {
		cfg.MovingAverageWindow = f.window
	}
	if changed("refractory") {
		cfg.RefractoryFrames = f.refractory
	}
	if changed("min-level") {
		cfg.MinOnsetLevel = f.minLevel
	}
	if changed("tolerance") {
		cfg.CoincidenceToleranceFrames = f.tolerance
	}
	if changed("min-bands") {
		cfg.CoincidenceMinBands = f.minBands
	}
	if changed("aggregate") {
		cfg.PulseAggregate = f.aggregate
	}
	if changed("noise-floor") {
		cfg.NoiseFloor = f.noiseFloor
	}
	if changed("smoothing") {
		cfg.SmoothingKernel = f.smoothing
	}
	if changed("sample-rate") {
		cfg.AnalysisSampleRate = f.sampleRate
	}
	if changed("workers") {
		cfg.Workers = f.workers
	}
	if changed("ffmpeg") {
		cfg.FFmpegPath = f.ffmpeg
	}
	if changed("ffprobe") {
		cfg.FFprobePath = f.ffprobe
	}
	return nil
}

// resolve loads the configuration file when given, applies the flags and
// validates the result.
func (a *app) resolve(fs *pflag.FlagSet, f *analysisFlags) (beatdriver.Config, error) {
	cfg := beatdriver.DefaultConfig()
	if a.configPath != "" {
		var err error
		if cfg, err = beatdriver.LoadConfig(a.configPath); err != nil {
			return cfg, err
		}
	}
	if err := f.apply(fs, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}
