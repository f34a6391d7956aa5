// SPDX-License-Identifier: EPL-2.0

// Package bands measures spectral energy in seven fixed frequency bands.
//
// A FilterBank applies a Hann window (github.com/mjibson/go-dsp/window) and a
// real FFT (gonum.org/v1/gonum/dsp/fourier) to one analysis window, then sums
// bin magnitudes per band. Bin k covers frequency k*rate/size and belongs to
// a band when low <= f < high. Bands above the Nyquist frequency have no
// bins and always report 0.
//
// Compute runs a FilterBank per worker over every frame of a framer.Framer
// and returns the spectra in frame order.
package bands
