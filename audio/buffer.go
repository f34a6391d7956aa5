// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
)

// DefaultReadSize is the number of mono samples requested per read by ReadAll.
const DefaultReadSize = 4096

// maxEmptyReads bounds the number of consecutive (0, nil) reads tolerated
// from a source before it is considered stalled.
const maxEmptyReads = 64

// SampleBuffer is a decoded, mono, immutable block of samples.
type SampleBuffer struct {
	samples []float64
	rate    int
}

// NewSampleBuffer copies samples into a new buffer. The rate must be
// positive and at least one sample is required.
func NewSampleBuffer(samples []float64, rate int) (*SampleBuffer, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrCorruptData, rate)
	}
	if len(samples) == 0 {
		return nil, ErrEmptyInput
	}

	return &SampleBuffer{
		samples: append([]float64(nil), samples...),
		rate:    rate,
	}, nil
}

func (b *SampleBuffer) SampleRate() int { return b.rate }
func (b *SampleBuffer) Len() int        { return len(b.samples) }

// Duration in seconds.
func (b *SampleBuffer) Duration() float64 {
	return float64(len(b.samples)) / float64(b.rate)
}

// At returns sample i, or 0 outside the buffer.
func (b *SampleBuffer) At(i int) float64 {
	if i < 0 || i >= len(b.samples) {
		return 0
	}
	return b.samples[i]
}

// CopyTo fills dst with samples starting at start. Positions past the end
// of the buffer are zero filled. It returns the number of real samples copied.
func (b *SampleBuffer) CopyTo(dst []float64, start int) int {
	n := 0
	if start >= 0 && start < len(b.samples) {
		n = copy(dst, b.samples[start:])
	}
	clear(dst[n:])

	return n
}

// Float32 returns a float32 copy of the samples.
func (b *SampleBuffer) Float32() []float32 {
	out := make([]float32, len(b.samples))
	for i, v := range b.samples {
		out[i] = float32(v)
	}
	return out
}

// ReadAll drains src, downmixing to mono by channel averaging, and returns
// the collected samples. src is not closed.
func ReadAll(src Source, readSize int) (*SampleBuffer, error) {
	rate := src.SampleRate()
	if rate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrCorruptData, rate)
	}
	if src.Channels() <= 0 {
		return nil, fmt.Errorf("%w: channel count %d", ErrCorruptData, src.Channels())
	}
	if readSize <= 0 {
		readSize = DefaultReadSize
	}

	mono := NewMonoMixer(src)
	buf := make([]float32, readSize)
	samples := make([]float64, 0, rate)
	empty := 0

	for {
		n, err := mono.ReadSamples(buf)
		for i := range n {
			v := float64(buf[i])
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: non-finite sample at %d", ErrCorruptData, len(samples))
			}
			samples = append(samples, v)
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: after %d samples: %w", ErrCorruptData, len(samples), err)
		}

		if n == 0 {
			empty++
			if empty >= maxEmptyReads {
				return nil, fmt.Errorf("%w: %w", ErrCorruptData, io.ErrNoProgress)
			}
			continue
		}
		empty = 0
	}

	if len(samples) == 0 {
		return nil, ErrEmptyInput
	}

	return &SampleBuffer{samples: samples, rate: rate}, nil
}

// Source returns a mono Source reading the buffer from the start. Each call
// returns an independent reader.
func (b *SampleBuffer) Source() Source {
	return &bufferSource{buf: b}
}

type bufferSource struct {
	buf *SampleBuffer
	pos int
}

func (s *bufferSource) SampleRate() int { return s.buf.rate }
func (s *bufferSource) Channels() int   { return 1 }
func (s *bufferSource) BufSize() int    { return DefaultReadSize }
func (s *bufferSource) Close() error    { return nil }

func (s *bufferSource) ReadSamples(dst []float32) (int, error) {
	if s.pos >= len(s.buf.samples) {
		return 0, io.EOF
	}
	n := min(len(dst), len(s.buf.samples)-s.pos)
	for i := range n {
		dst[i] = float32(s.buf.samples[s.pos+i])
	}
	s.pos += n
	return n, nil
}
