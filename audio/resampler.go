// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/beatdriver/utils"
)

// Resampler converts src to another sample rate using cubic interpolation
// over a four frame window. Channel count is preserved. When downsampling a
// one-pole low-pass filter is applied to the input first.
type Resampler struct {
	src      Source
	dstRate  int
	step     float64 // source frames consumed per output frame
	channels int

	// window[0..3] hold frames t-1, t0, t+1, t+2.
	window [4][]float32
	valid  [4]bool
	primed bool
	done   bool
	pos    float64
	eof    bool

	in []float32

	lowpass bool
	alpha   float32
	state   []float32
}

// NewResampler wraps src so that it is read at dstRate.
func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	step := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		step:     step,
		channels: channels,
		in:       make([]float32, channels),
		lowpass:  step > 1.0,
		alpha:    0.5,
		state:    make([]float32, channels),
	}
	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// readFrame pulls one interleaved frame from the source into dst.
func (r *Resampler) readFrame(dst []float32) (bool, error) {
	if r.eof {
		return false, io.EOF
	}

	n, err := r.src.ReadSamples(r.in)
	got := n == r.channels
	if got {
		if r.lowpass {
			for c, v := range r.in {
				r.state[c] = r.alpha*v + (1-r.alpha)*r.state[c]
			}
			copy(dst, r.state)
		} else {
			copy(dst, r.in)
		}
	}

	if errors.Is(err, io.EOF) {
		r.eof = true
		return got, nil
	}
	if err != nil {
		return got, fmt.Errorf("%w", err)
	}

	return got, nil
}

// prime fills the initial window, duplicating the last frame when the
// source is shorter than the window.
func (r *Resampler) prime() error {
	for i := range r.window {
		ok, err := r.readFrame(r.window[i])
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		r.valid[i] = ok

		if i == 0 && ok && r.lowpass {
			// Seed the filter with the first frame to avoid a ramp from zero.
			copy(r.state, r.in)
			copy(r.window[0], r.in)
		}

		if !ok {
			if i == 0 {
				return io.EOF
			}
			for j := i; j < len(r.window); j++ {
				copy(r.window[j], r.window[i-1])
				r.valid[j] = true
			}
			break
		}
	}

	r.primed = true
	return nil
}

// advance shifts the window by one source frame.
func (r *Resampler) advance() error {
	if r.eof && !r.valid[3] {
		return io.EOF
	}

	last := r.window[0]
	copy(r.window[:], r.window[1:])
	copy(r.valid[:], r.valid[1:])
	r.window[3] = last

	ok, err := r.readFrame(r.window[3])
	r.valid[3] = ok
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if !r.valid[2] {
		return io.EOF
	}

	return nil
}

// ReadSamples fills dst with interleaved frames at the target rate.
// len(dst) must be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if r.done {
		return 0, io.EOF
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			r.done = errors.Is(err, io.EOF)
			return 0, err
		}
	}

	frames := len(dst) / r.channels
	written := 0

	for written < frames {
		for r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.advance(); err != nil {
				r.done = errors.Is(err, io.EOF)
				return written * r.channels, err
			}
		}
		if !r.valid[1] || !r.valid[2] {
			r.done = true
			return written * r.channels, io.EOF
		}

		t := float32(r.pos)
		base := written * r.channels
		for c := range r.channels {
			y1, y2 := r.window[1][c], r.window[2][c]
			y0, y3 := y1, y2
			if r.valid[0] {
				y0 = r.window[0][c]
			}
			if r.valid[3] {
				y3 = r.window[3][c]
			}
			dst[base+c] = utils.CubicInterpolate(y0, y1, y2, y3, t)
		}

		written++
		r.pos += r.step
	}

	return written * r.channels, nil
}
