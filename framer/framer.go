// SPDX-License-Identifier: EPL-2.0

package framer

import (
	"fmt"
	"iter"
	"math"

	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/floats"

	"github.com/ik5/beatdriver/audio"
)

// Window is one analysis window.
type Window struct {
	Index int
	// Start is the first sample owned by the frame.
	Start int
	// Offset is the buffer index of Samples[0]. It equals Start except near
	// the end of the buffer, where the window is moved back so that it does
	// not run past the last sample.
	Offset int
	// Length is the number of samples owned by the frame.
	Length  int
	Samples []float64
}

// Framer maps frame indices to sample ranges of a buffer. It holds no
// mutable state and is safe for concurrent use.
type Framer struct {
	buf      *audio.SampleBuffer
	step     float64 // samples per frame, unrounded
	window   int
	analysis int
	frames   int
}

// New returns a Framer over buf at frameRate frames per second. overlap is
// the fraction of each analysis window shared with the next frame.
func New(buf *audio.SampleBuffer, frameRate, overlap float64) (*Framer, error) {
	if frameRate <= 0 || math.IsNaN(frameRate) || math.IsInf(frameRate, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFrameRate, frameRate)
	}
	if overlap < 0 || overlap >= 1 || math.IsNaN(overlap) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOverlap, overlap)
	}

	rate := float64(buf.SampleRate())
	step := rate / frameRate
	window := max(1, int(math.Round(step)))
	analysis := max(window, int(math.Round(float64(window)/(1-overlap))))

	// The epsilon keeps exact multiples from rounding up a frame.
	frames := int(math.Ceil(float64(buf.Len())*frameRate/rate - 1e-9))

	return &Framer{
		buf:      buf,
		step:     step,
		window:   window,
		analysis: analysis,
		frames:   max(frames, 1),
	}, nil
}

// Len is the number of frames.
func (f *Framer) Len() int { return f.frames }

// WindowLength is the number of samples owned by each frame.
func (f *Framer) WindowLength() int { return f.window }

// AnalysisLength is the number of samples in each analysis window.
func (f *Framer) AnalysisLength() int { return f.analysis }

// SampleRate of the underlying buffer.
func (f *Framer) SampleRate() int { return f.buf.SampleRate() }

// Start returns the first sample index of frame i.
func (f *Framer) Start(i int) int {
	return int(math.Round(float64(i) * f.step))
}

// anchor returns where a span of n samples for frame i begins. The span
// starts at the frame and extends forward, but is pulled back to end on the
// last sample when it would run past it. Only a buffer shorter than n is
// zero padded.
func (f *Framer) anchor(i, n int) int {
	start := f.Start(i)
	if end := f.buf.Len(); start+n > end {
		start = max(end-n, 0)
	}
	return start
}

// Window fills dst with the analysis window of frame i and returns it.
// dst is reallocated when shorter than AnalysisLength.
func (f *Framer) Window(i int, dst []float64) Window {
	if cap(dst) < f.analysis {
		dst = make([]float64, f.analysis)
	}
	dst = dst[:f.analysis]

	offset := f.anchor(i, f.analysis)
	f.buf.CopyTo(dst, offset)

	return Window{Index: i, Start: f.Start(i), Offset: offset, Length: f.window, Samples: dst}
}

// All yields every window in frame order. The yielded Samples slice is
// reused between iterations. Each call starts a fresh pass.
func (f *Framer) All() iter.Seq[Window] {
	return func(yield func(Window) bool) {
		buf := make([]float64, f.analysis)
		for i := range f.frames {
			if !yield(f.Window(i, buf)) {
				return
			}
		}
	}
}

// RMS returns the loudness of every frame: the root mean square of its
// analysis window, Hann weighted so that a sustained tone measures the same
// wherever the frame boundaries fall within its period.
func (f *Framer) RMS() []float64 {
	weights := window.Hann(f.analysis)
	total := floats.Sum(weights)
	if !(total > 0) {
		// Hann degenerates below three points.
		for i := range weights {
			weights[i] = 1
		}
		total = float64(f.analysis)
	}

	out := make([]float64, f.frames)
	buf := make([]float64, f.analysis)

	for i := range f.frames {
		w := f.Window(i, buf)

		var sum float64
		for j, v := range w.Samples {
			sum += weights[j] * v * v
		}
		out[i] = math.Sqrt(sum / total)
	}

	return out
}
