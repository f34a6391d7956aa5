// SPDX-License-Identifier: EPL-2.0

package dataset

import (
	"fmt"
	"iter"
	"math"

	"github.com/ik5/beatdriver/bands"
)

// Frame is one output record.
type Frame struct {
	Index int
	// Bands holds the normalized energy of every band in [0, 1].
	Bands    [bands.Count]float64
	Onsets   [bands.Count]bool
	Pulse    float64
	Loudness float64
}

// Metadata describes the analysis that produced a Dataset.
type Metadata struct {
	Source     string  `json:"source,omitempty"`
	SampleRate int     `json:"sample_rate"`
	FrameRate  float64 `json:"frame_rate"`
	Duration   float64 `json:"duration_seconds"`
}

// Input carries the whole-file series produced by the pipeline. Every
// series must have the same length.
type Input struct {
	Bands    [bands.Count][]float64
	Onsets   [bands.Count][]bool
	Pulse    []float64
	Loudness []float64
}

// Dataset is the ordered, gap free sequence of frames from one run. It is
// not modified after Emit returns.
type Dataset struct {
	meta   Metadata
	frames []Frame
}

// Emit merges the series of in into frames 0..N-1. Values are clamped to
// [0, 1]; NaN or infinite values are rejected.
func Emit(meta Metadata, in Input) (*Dataset, error) {
	n := len(in.Pulse)
	if n == 0 {
		return nil, ErrNoFrames
	}
	if len(in.Loudness) != n {
		return nil, fmt.Errorf("%w: loudness has %d frames, pulse %d", ErrLengthMismatch, len(in.Loudness), n)
	}
	for _, b := range bands.All {
		if len(in.Bands[b]) != n || len(in.Onsets[b]) != n {
			return nil, fmt.Errorf("%w: %s has %d values and %d onset flags, pulse %d",
				ErrLengthMismatch, b, len(in.Bands[b]), len(in.Onsets[b]), n)
		}
	}

	frames := make([]Frame, n)
	for i := range frames {
		f := &frames[i]
		f.Index = i

		var err error
		for _, b := range bands.All {
			if f.Bands[b], err = unit(in.Bands[b][i]); err != nil {
				return nil, fmt.Errorf("%s frame %d: %w", b, i, err)
			}
			f.Onsets[b] = in.Onsets[b][i]
		}
		if f.Pulse, err = unit(in.Pulse[i]); err != nil {
			return nil, fmt.Errorf("pulse frame %d: %w", i, err)
		}
		if f.Loudness, err = unit(in.Loudness[i]); err != nil {
			return nil, fmt.Errorf("loudness frame %d: %w", i, err)
		}
	}

	return &Dataset{meta: meta, frames: frames}, nil
}

func unit(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %v", ErrNonFinite, v)
	}
	return min(max(v, 0), 1), nil
}

func (d *Dataset) Metadata() Metadata { return d.meta }

// Len is the number of frames.
func (d *Dataset) Len() int { return len(d.frames) }

// Frame returns frame i by value.
func (d *Dataset) Frame(i int) Frame { return d.frames[i] }

// Frames yields every frame in order.
func (d *Dataset) Frames() iter.Seq[Frame] {
	return func(yield func(Frame) bool) {
		for _, f := range d.frames {
			if !yield(f) {
				return
			}
		}
	}
}

// Series returns a copy of band b's values.
func (d *Dataset) Series(b bands.Band) []float64 {
	out := make([]float64, len(d.frames))
	for i := range d.frames {
		out[i] = d.frames[i].Bands[b]
	}
	return out
}

// OnsetCount returns the number of onsets flagged in band b.
func (d *Dataset) OnsetCount(b bands.Band) int {
	n := 0
	for i := range d.frames {
		if d.frames[i].Onsets[b] {
			n++
		}
	}
	return n
}

// Equal reports whether two datasets hold bit-identical frames.
func (d *Dataset) Equal(o *Dataset) bool {
	if d.meta != o.meta || len(d.frames) != len(o.frames) {
		return false
	}
	for i := range d.frames {
		a, b := d.frames[i], o.frames[i]
		if a.Index != b.Index || a.Onsets != b.Onsets ||
			math.Float64bits(a.Pulse) != math.Float64bits(b.Pulse) ||
			math.Float64bits(a.Loudness) != math.Float64bits(b.Loudness) {
			return false
		}
		for k := range a.Bands {
			if math.Float64bits(a.Bands[k]) != math.Float64bits(b.Bands[k]) {
				return false
			}
		}
	}
	return true
}
