// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"math"
)

var errBroken = errors.New("broken stream")

// mockSource generates interleaved frames from a waveform function and can
// fail after a fixed number of frames.
type mockSource struct {
	sampleRate int
	channels   int
	frames     int
	pos        int
	failAt     int // -1 disables
	waveform   func(frame, channel int) float32
}

func newMockSource(sampleRate, channels, frames int, waveform func(frame, channel int) float32) *mockSource {
	return &mockSource{
		sampleRate: sampleRate,
		channels:   channels,
		frames:     frames,
		failAt:     -1,
		waveform:   waveform,
	}
}

func newSilentSource(sampleRate, channels, frames int) *mockSource {
	return newConstantSource(sampleRate, channels, frames, 0)
}

func newConstantSource(sampleRate, channels, frames int, value float32) *mockSource {
	return newMockSource(sampleRate, channels, frames, func(int, int) float32 { return value })
}

func newSineSource(sampleRate, channels, frames int, frequency float64) *mockSource {
	return newMockSource(sampleRate, channels, frames, func(frame, _ int) float32 {
		return float32(math.Sin(2 * math.Pi * frequency * float64(frame) / float64(sampleRate)))
	})
}

func (m *mockSource) SampleRate() int { return m.sampleRate }
func (m *mockSource) Channels() int   { return m.channels }
func (m *mockSource) BufSize() int    { return 4096 }
func (m *mockSource) Close() error    { return nil }

func (m *mockSource) ReadSamples(dst []float32) (int, error) {
	if m.failAt >= 0 && m.pos >= m.failAt {
		return 0, errBroken
	}
	if m.pos >= m.frames {
		return 0, io.EOF
	}

	n := min(len(dst)/m.channels, m.frames-m.pos)
	if m.failAt >= 0 {
		n = min(n, m.failAt-m.pos)
	}
	for f := range n {
		for ch := range m.channels {
			dst[f*m.channels+ch] = m.waveform(m.pos+f, ch)
		}
	}
	m.pos += n

	if m.pos >= m.frames {
		return n * m.channels, io.EOF
	}
	return n * m.channels, nil
}

// stalledSource never produces data and never ends.
type stalledSource struct{}

func (stalledSource) SampleRate() int                  { return 8000 }
func (stalledSource) Channels() int                    { return 1 }
func (stalledSource) BufSize() int                     { return 0 }
func (stalledSource) Close() error                     { return nil }
func (stalledSource) ReadSamples([]float32) (int, error) { return 0, nil }
