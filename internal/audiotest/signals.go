// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/beatdriver/audio"
	"github.com/ik5/beatdriver/formats/wav"
	"github.com/ik5/beatdriver/utils"
)

// Sine returns n samples of a sine wave at freq Hz.
func Sine(rate, n int, freq, amp float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
	}
	return out
}

// Mix adds b into a sample by sample and returns a.
func Mix(a, b []float64) []float64 {
	for i := range min(len(a), len(b)) {
		a[i] += b[i]
	}
	return a
}

// Bursts returns n samples of silence with short sine bursts of freq Hz
// starting every period samples, each burst lasting length samples.
func Bursts(rate, n, period, length int, freq, amp float64) []float64 {
	out := make([]float64, n)
	for start := 0; start < n; start += period {
		for i := range min(length, n-start) {
			out[start+i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
		}
	}
	return out
}

// Buffer wraps samples in a SampleBuffer, failing the test on error.
func Buffer(tb testing.TB, rate int, samples []float64) *audio.SampleBuffer {
	tb.Helper()

	buf, err := audio.NewSampleBuffer(samples, rate)
	if err != nil {
		tb.Fatalf("NewSampleBuffer() error = %v", err)
	}
	return buf
}

// WriteWAV writes samples as a mono 16-bit WAV in a temporary directory and
// returns its path.
func WriteWAV(tb testing.TB, name string, rate int, samples []float64) string {
	tb.Helper()

	pcm := utils.Float64ToPCM16(samples)

	path := filepath.Join(tb.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		tb.Fatal(err)
	}
	defer f.Close()

	if err := wav.WriteWAV16(f, rate, pcm); err != nil {
		tb.Fatalf("WriteWAV16() error = %v", err)
	}
	return path
}
