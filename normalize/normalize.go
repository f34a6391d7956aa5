// SPDX-License-Identifier: EPL-2.0

package normalize

import (
	"slices"

	"github.com/ik5/beatdriver/bands"
	"gonum.org/v1/gonum/floats"
)

// MinMax maps series onto [0, 1] with (v - min) / (max - min). A constant
// series, including an all-zero one, maps to all zeros. The result is a new
// slice.
func MinMax(series []float64) []float64 {
	out := make([]float64, len(series))
	if len(series) == 0 {
		return out
	}

	lo, hi := floats.Min(series), floats.Max(series)
	span := hi - lo
	if !(span > 0) {
		return out
	}

	for i, v := range series {
		out[i] = min(max((v-lo)/span, 0), 1)
	}
	return out
}

// Median applies a running median of width kernel, zero padded at both
// ends like scipy's medfilt. A kernel of 1 or less returns a copy. Even
// kernels are widened by one.
func Median(series []float64, kernel int) []float64 {
	if kernel <= 1 {
		return slices.Clone(series)
	}
	if kernel%2 == 0 {
		kernel++
	}

	half := kernel / 2
	out := make([]float64, len(series))
	win := make([]float64, kernel)

	for i := range series {
		for j := range kernel {
			k := i - half + j
			if k < 0 || k >= len(series) {
				win[j] = 0
			} else {
				win[j] = series[k]
			}
		}
		slices.Sort(win)
		out[i] = win[half]
	}
	return out
}

// DefaultFloor is the default noise floor of Scale, as a fraction of the
// reference peak.
const DefaultFloor = 0.01

// Scale normalizes series against peak, the largest value of every series
// normalized together. A series whose range is below floor*peak is steady:
// its values are divided by peak instead of being stretched to [0, 1], so
// jitter in a sustained tone or in spectral leakage stays small. Any other
// series is min-max scaled. A floor of 0 always min-maxes, and a series
// that is all zero stays zero.
func Scale(series []float64, peak, floor float64) []float64 {
	if len(series) == 0 {
		return []float64{}
	}

	lo, hi := floats.Min(series), floats.Max(series)
	if !(hi > 0) || !(peak > 0) || hi-lo >= floor*peak {
		return MinMax(series)
	}

	out := make([]float64, len(series))
	for i, v := range series {
		out[i] = min(max(v/peak, 0), 1)
	}
	return out
}

// Spectra normalizes each band of spectra and returns one series per band,
// each smoothed with a median of width kernel. Bands are scaled
// independently, with the loudest band energy of the file as the reference
// peak for steady bands, see Scale.
func Spectra(spectra []bands.Spectrum, kernel int, floor float64) [bands.Count][]float64 {
	var peak float64
	for _, s := range spectra {
		peak = max(peak, floats.Max(s[:]))
	}

	var out [bands.Count][]float64
	series := make([]float64, len(spectra))

	for _, b := range bands.All {
		for i, s := range spectra {
			series[i] = s[b]
		}
		out[b] = Median(Scale(series, peak, floor), kernel)
	}
	return out
}

// Series normalizes a single series with its own maximum as the peak.
func Series(series []float64, kernel int, floor float64) []float64 {
	var peak float64
	if len(series) > 0 {
		peak = floats.Max(series)
	}
	return Median(Scale(series, peak, floor), kernel)
}
