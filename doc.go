// SPDX-License-Identifier: EPL-2.0

// Package beatdriver turns an audio file into a per frame table of band
// energies, onsets and a cross band pulse, sampled at a video frame rate so
// it can drive animation.
//
// # Pipeline
//
// An analysis run is a fixed sequence of stages:
//
//   - decode: formats picks a decoder and audio.ReadAll downmixes to mono
//   - frame: framer slices the buffer into one window per output frame
//   - filter: bands runs a Hann windowed FFT per frame on a worker pool and
//     sums bin magnitudes into seven bands
//   - normalize: every band is min-max scaled over the whole file
//   - onsets: onset scans each band against a trailing adaptive threshold and
//     derives the coincidence pulse
//   - emit: dataset merges everything into an immutable Dataset
//
// Normalization needs the whole file, so nothing is streamed: either a
// complete Dataset is returned or an error.
//
// # Quick Start
//
//	cfg := beatdriver.DefaultConfig()
//	cfg.FrameRate = 24
//
//	d, err := beatdriver.AnalyzeFile(ctx, "song.mp3", cfg)
//	if err != nil {
//		return err
//	}
//	return dataset.WriteFile("song.csv", d)
//
// # Errors
//
// Failures are classified by ErrUnsupportedFormat, ErrCorruptData,
// ErrEmptyInput and ErrInvalidConfig; test with errors.Is. Configuration is
// validated before any file is opened.
//
// # Determinism
//
// The same input and Config always produce a bit-identical Dataset,
// regardless of the number of workers.
package beatdriver
