// SPDX-License-Identifier: EPL-2.0

// Package audio provides the low-level audio primitives the analysis
// pipeline is built on.
//
// This package contains:
//   - Source interface for streamed PCM input
//   - Decoder interface and a format Registry
//   - MonoMixer for channel averaging
//   - Resampler for sample rate conversion
//   - SampleBuffer, the immutable mono buffer handed to the analysis stages
//
// # Source Interface
//
// The Source interface is the foundation of audio input:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// All decoders in the formats tree return a Source, and the processors in
// this package wrap one, so they can be chained.
//
// # Collecting Samples
//
// ReadAll drains a Source, averages its channels down to mono and returns
// a SampleBuffer:
//
//	buf, err := audio.ReadAll(src, audio.DefaultReadSize)
//	if errors.Is(err, audio.ErrEmptyInput) {
//	    // nothing decoded
//	}
//
// A zero sample rate, a mid-stream read failure or non-finite samples are
// reported as ErrCorruptData. A clean end of stream with no samples is
// ErrEmptyInput. SampleBuffer.Source turns a buffer back into a Source, for
// example to resample it.
//
// # Resampling
//
// The Resampler changes the sample rate of audio using cubic interpolation:
//
//	resampler := audio.NewResampler(source, 22050)
//
// # Format Registry
//
// The registry maps format keys (file extensions) to decoders:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	decoder, _ := registry.Get(".WAV")
//
// # Sample Format
//
// Sources produce float32 samples in [-1.0, 1.0]. SampleBuffer stores
// float64 samples, which is what the spectral stages consume.
package audio
