// SPDX-License-Identifier: EPL-2.0

package bands

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

// FilterBank computes band energies for windows of a fixed size. It keeps
// scratch buffers and must not be shared between goroutines.
type FilterBank struct {
	size   int
	rate   int
	window []float64
	scale  float64
	fft    *fourier.FFT

	// bins[b] is the half-open bin interval of band b.
	bins [Count][2]int

	buf    []float64
	coeffs []complex128
}

// NewFilterBank prepares a bank for windows of size samples at rate Hz.
func NewFilterBank(rate, size int, ranges Ranges) *FilterBank {
	win := window.Hann(size)
	sum := floats.Sum(win)
	if !(sum > 0) {
		// Hann degenerates below three points.
		for i := range win {
			win[i] = 1
		}
		sum = float64(size)
	}

	fb := &FilterBank{
		size:   size,
		rate:   rate,
		window: win,
		scale:  2 / sum,
		fft:    fourier.NewFFT(size),
		buf:    make([]float64, size),
		coeffs: make([]complex128, size/2+1),
	}

	for _, b := range All {
		lo, hi := 0, 0
		for k := 1; k <= size/2; k++ {
			if !ranges[b].Contains(fb.Frequency(k)) {
				continue
			}
			if lo == 0 {
				lo = k
			}
			hi = k + 1
		}
		fb.bins[b] = [2]int{lo, hi}
	}

	return fb
}

// Size is the window length in samples.
func (fb *FilterBank) Size() int { return fb.size }

// Frequency is the center frequency of bin k in Hz.
func (fb *FilterBank) Frequency(k int) float64 {
	return float64(k) * float64(fb.rate) / float64(fb.size)
}

// Bins returns the half-open bin interval assigned to b. An empty interval
// means the band lies outside the representable spectrum.
func (fb *FilterBank) Bins(b Band) (lo, hi int) {
	return fb.bins[b][0], fb.bins[b][1]
}

// Analyze windows samples, which must have Size elements, and returns the
// summed bin magnitudes of every band.
func (fb *FilterBank) Analyze(samples []float64) Spectrum {
	floats.MulTo(fb.buf, samples[:fb.size], fb.window)
	fb.coeffs = fb.fft.Coefficients(fb.coeffs, fb.buf)

	var s Spectrum
	for _, b := range All {
		lo, hi := fb.bins[b][0], fb.bins[b][1]
		var sum float64
		for k := lo; k < hi; k++ {
			sum += cmplx.Abs(fb.coeffs[k])
		}
		s[b] = sum * fb.scale
	}

	return s
}
