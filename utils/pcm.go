// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

const pcm16Max = math.MaxInt16

// Float32ToInt16 converts a sample in [-1, 1] to 16-bit PCM, rounding to the
// nearest step. Input outside the range is clamped and NaN becomes silence.
func Float32ToInt16(x float32) int16 {
	if math.IsNaN(float64(x)) {
		return 0
	}
	x = min(max(x, -1), 1)
	return int16(math.Round(float64(x) * pcm16Max))
}

// Float64ToPCM16 converts a whole signal with Float32ToInt16 semantics.
func Float64ToPCM16(samples []float64) []int16 {
	out := make([]int16, len(samples))
	for i, v := range samples {
		out[i] = Float32ToInt16(float32(v))
	}
	return out
}
