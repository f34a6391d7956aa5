// SPDX-License-Identifier: EPL-2.0

package beatdriver

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/ik5/beatdriver/audio"
	"github.com/ik5/beatdriver/bands"
	"github.com/ik5/beatdriver/dataset"
	"github.com/ik5/beatdriver/formats"
	"github.com/ik5/beatdriver/formats/ffmpeg"
	"github.com/ik5/beatdriver/framer"
	"github.com/ik5/beatdriver/normalize"
	"github.com/ik5/beatdriver/onset"
)

type options struct {
	logger *zap.Logger
	opener *formats.Opener
	source string
}

// Option customises a single Analyze call.
type Option func(*options)

// WithLogger routes pipeline diagnostics to l.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithOpener replaces the decoder lookup, for example to register extra
// formats.
func WithOpener(op *formats.Opener) Option {
	return func(o *options) {
		if op != nil {
			o.opener = op
		}
	}
}

// WithSource names the analyzed audio in the dataset metadata and the logs.
// AnalyzeFile uses its path unless a name is given.
func WithSource(name string) Option {
	return func(o *options) { o.source = name }
}

func newOptions(cfg Config, opts []Option) *options {
	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	if o.opener == nil {
		var fallback *ffmpeg.Decoder
		if cfg.FFmpegPath != "" {
			fallback = &ffmpeg.Decoder{FFmpegPath: cfg.FFmpegPath, FFprobePath: cfg.FFprobePath}
		}
		o.opener = formats.NewOpener(fallback)
	}
	return o
}

// AnalyzeFile decodes the audio file at path and analyzes it.
func AnalyzeFile(ctx context.Context, path string, cfg Config, opts ...Option) (*dataset.Dataset, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := newOptions(cfg, opts)

	if o.source == "" {
		o.source = path
	}

	buf, err := loadFile(ctx, path, cfg, o)
	if err != nil {
		return nil, err
	}
	return analyze(ctx, buf, cfg, o)
}

// Analyze decodes r, using hint (a file extension such as ".mp3") when the
// content signature is not conclusive.
func Analyze(ctx context.Context, r io.ReadSeeker, hint string, cfg Config, opts ...Option) (*dataset.Dataset, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := newOptions(cfg, opts)

	src, err := o.opener.Decode(ctx, r, hint)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	buf, err := load(src, cfg, o.logger)
	if err != nil {
		return nil, err
	}
	return analyze(ctx, buf, cfg, o)
}

// AnalyzeSource drains src and analyzes it. src is not closed.
func AnalyzeSource(ctx context.Context, src audio.Source, cfg Config, opts ...Option) (*dataset.Dataset, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := newOptions(cfg, opts)

	buf, err := load(src, cfg, o.logger)
	if err != nil {
		return nil, err
	}
	return analyze(ctx, buf, cfg, o)
}

// AnalyzeBuffer analyzes an already decoded mono buffer.
func AnalyzeBuffer(ctx context.Context, buf *audio.SampleBuffer, cfg Config, opts ...Option) (*dataset.Dataset, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := newOptions(cfg, opts)

	if cfg.AnalysisSampleRate > 0 && cfg.AnalysisSampleRate != buf.SampleRate() {
		var err error
		if buf, err = load(buf.Source(), cfg, o.logger); err != nil {
			return nil, err
		}
	}
	return analyze(ctx, buf, cfg, o)
}

// LoadFile decodes path into the mono buffer that AnalyzeFile would
// analyze, resampled when AnalysisSampleRate is set.
func LoadFile(ctx context.Context, path string, cfg Config, opts ...Option) (*audio.SampleBuffer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return loadFile(ctx, path, cfg, newOptions(cfg, opts))
}

func loadFile(ctx context.Context, path string, cfg Config, o *options) (*audio.SampleBuffer, error) {
	start := time.Now()

	src, err := o.opener.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	buf, err := load(src, cfg, o.logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	o.logger.Debug("decoded",
		zap.String("path", path),
		zap.Int("sample_rate", buf.SampleRate()),
		zap.Int("samples", buf.Len()),
		zap.Float64("duration_seconds", buf.Duration()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return buf, nil
}

func load(src audio.Source, cfg Config, logger *zap.Logger) (*audio.SampleBuffer, error) {
	if src.SampleRate() <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrCorruptData, src.SampleRate())
	}
	if cfg.AnalysisSampleRate > 0 && cfg.AnalysisSampleRate != src.SampleRate() {
		logger.Debug("resampling",
			zap.Int("from", src.SampleRate()),
			zap.Int("to", cfg.AnalysisSampleRate),
		)
		src = audio.NewResampler(src, cfg.AnalysisSampleRate)
	}
	return audio.ReadAll(src, src.BufSize())
}

func analyze(ctx context.Context, buf *audio.SampleBuffer, cfg Config, o *options) (*dataset.Dataset, error) {
	start := time.Now()
	log := o.logger
	if o.source != "" {
		log = log.With(zap.String("path", o.source))
	}

	fr, err := framer.New(buf, cfg.FrameRate, cfg.Overlap)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	log.Debug("framed",
		zap.Int("frames", fr.Len()),
		zap.Int("window_length", fr.WindowLength()),
		zap.Int("analysis_length", fr.AnalysisLength()),
		zap.Int("workers", workers),
	)

	spectra, err := bands.Compute(ctx, fr, cfg.BandRanges, workers)
	if err != nil {
		return nil, err
	}

	series := normalize.Spectra(spectra, cfg.SmoothingKernel, cfg.NoiseFloor)
	onsets := onset.DetectBands(series, cfg.onsetParams())
	pulse := onset.Pulse(onsets, fr.Len(), cfg.pulseParams())
	loudness := normalize.Series(fr.RMS(), cfg.SmoothingKernel, cfg.NoiseFloor)

	counts := make([]zap.Field, 0, bands.Count)
	for _, b := range bands.All {
		counts = append(counts, zap.Int("onsets_"+b.Key(), onsets.Count(b)))
	}
	log.Debug("onsets detected", counts...)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d, err := dataset.Emit(dataset.Metadata{
		Source:     o.source,
		SampleRate: buf.SampleRate(),
		FrameRate:  cfg.FrameRate,
		Duration:   buf.Duration(),
	}, dataset.Input{
		Bands:    series,
		Onsets:   onsets.Flags,
		Pulse:    pulse,
		Loudness: loudness,
	})
	if err != nil {
		return nil, fmt.Errorf("emit dataset: %w", err)
	}

	log.Info("analysis complete",
		zap.Int("frames", d.Len()),
		zap.Float64("duration_seconds", buf.Duration()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return d, nil
}
