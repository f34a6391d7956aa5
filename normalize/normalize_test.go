// SPDX-License-Identifier: EPL-2.0

package normalize

import (
	"fmt"
	"math"
	"slices"
	"testing"

	"github.com/ik5/beatdriver/bands"
)

func TestMinMax(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []float64
		want []float64
	}{
		{"empty", nil, []float64{}},
		{"ramp", []float64{2, 4, 6}, []float64{0, 0.5, 1}},
		{"unordered", []float64{5, 1, 3}, []float64{1, 0, 0.5}},
		{"constant", []float64{3, 3, 3}, []float64{0, 0, 0}},
		{"silent", []float64{0, 0}, []float64{0, 0}},
		{"single", []float64{7}, []float64{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := MinMax(tt.in); !slices.Equal(got, tt.want) {
				t.Errorf("MinMax(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMinMax_Range(t *testing.T) {
	t.Parallel()

	in := make([]float64, 1000)
	for i := range in {
		in[i] = math.Sin(float64(i)*0.37) * 1e-3
	}

	got := MinMax(in)
	var sawZero, sawOne bool
	for i, v := range got {
		if v < 0 || v > 1 {
			t.Fatalf("MinMax()[%d] = %v outside [0,1]", i, v)
		}
		sawZero = sawZero || v == 0
		sawOne = sawOne || v == 1
	}
	if !sawZero || !sawOne {
		t.Errorf("MinMax() does not reach both ends: zero=%v one=%v", sawZero, sawOne)
	}
}

func TestMinMax_DoesNotModifyInput(t *testing.T) {
	t.Parallel()

	in := []float64{1, 2, 3}
	_ = MinMax(in)
	if !slices.Equal(in, []float64{1, 2, 3}) {
		t.Errorf("input modified: %v", in)
	}
}

func TestMedian(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kernel int
		in     []float64
		want   []float64
	}{
		{1, []float64{3, 1, 2}, []float64{3, 1, 2}},
		{3, []float64{0, 1, 0, 0, 1, 1, 1, 0}, []float64{0, 0, 0, 0, 1, 1, 1, 0}},
		{3, []float64{5, 5, 5}, []float64{5, 5, 5}},
		{4, []float64{1, 9, 2, 8, 3}, []float64{1, 2, 3, 3, 2}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("kernel %d %v", tt.kernel, tt.in), func(t *testing.T) {
			t.Parallel()

			if got := Median(tt.in, tt.kernel); !slices.Equal(got, tt.want) {
				t.Errorf("Median(%v, %d) = %v, want %v", tt.in, tt.kernel, got, tt.want)
			}
		})
	}
}

func TestSpectra_PerBand(t *testing.T) {
	t.Parallel()

	spectra := []bands.Spectrum{
		{0, 10, 1, 0, 0, 0, 0},
		{0, 20, 1, 0, 0, 0, 5},
		{0, 30, 1, 0, 0, 0, 0},
	}

	got := Spectra(spectra, 1, 0)

	if want := []float64{0, 0.5, 1}; !slices.Equal(got[bands.Bass], want) {
		t.Errorf("Bass = %v, want %v", got[bands.Bass], want)
	}
	if want := []float64{0, 0, 0}; !slices.Equal(got[bands.LowMid], want) {
		t.Errorf("constant LowMid = %v, want %v", got[bands.LowMid], want)
	}
	if want := []float64{0, 1, 0}; !slices.Equal(got[bands.Brilliance], want) {
		t.Errorf("Brilliance = %v, want %v", got[bands.Brilliance], want)
	}
}

func TestScale(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		in    []float64
		peak  float64
		floor float64
		want  []float64
	}{
		{"empty", nil, 1, 0.01, []float64{}},
		{"wide range", []float64{2, 4, 6}, 6, 0.01, []float64{0, 0.5, 1}},
		{"steady loud", []float64{0.99, 1, 0.995}, 1, 0.05, []float64{0.99, 1, 0.995}},
		{"steady quiet", []float64{0.02, 0.025, 0.02}, 1, 0.01, []float64{0.02, 0.025, 0.02}},
		{"constant", []float64{0.5, 0.5}, 1, 0.01, []float64{0.5, 0.5}},
		{"constant without floor", []float64{0.5, 0.5}, 1, 0, []float64{0, 0}},
		{"jitter without floor", []float64{0.99, 1, 0.995}, 1, 0, []float64{0, 1, 0.5}},
		{"silent", []float64{0, 0, 0}, 1, 0.01, []float64{0, 0, 0}},
		{"silent file", []float64{0, 0}, 0, 0.01, []float64{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Scale(tt.in, tt.peak, tt.floor)
			if len(got) != len(tt.want) {
				t.Fatalf("Scale(%v) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-12 {
					t.Errorf("Scale(%v, %v, %v) = %v, want %v", tt.in, tt.peak, tt.floor, got, tt.want)
					break
				}
			}
		})
	}
}

func TestSpectra_SteadyBandsStayFlat(t *testing.T) {
	t.Parallel()

	// A sustained bass tone jittering slightly from frame to frame, with
	// leakage in the other bands far below the bass level.
	spectra := make([]bands.Spectrum, 30)
	for i := range spectra {
		jitter := 1e-4 * float64(i%3)
		spectra[i] = bands.Spectrum{0.006 + jitter, 1.675 - jitter, 0.001, 0.0002, 0, 0, 0.0001}
	}

	got := Spectra(spectra, 1, DefaultFloor)

	for i, v := range got[bands.Bass] {
		if v < 0.99 || v > 1 {
			t.Fatalf("Bass[%d] = %v, want about 1", i, v)
		}
	}
	for _, b := range bands.All {
		if b == bands.Bass {
			continue
		}
		for i, v := range got[b] {
			if v > 0.01 {
				t.Fatalf("%s[%d] = %v, want near zero", b, i, v)
			}
		}
	}
}

func TestSeries(t *testing.T) {
	t.Parallel()

	if got := Series([]float64{1, 0.999, 1}, 1, DefaultFloor); got[0] != 1 || got[1] != 0.999 {
		t.Errorf("steady Series() = %v", got)
	}
	if got := Series([]float64{0, 0.5, 1}, 1, DefaultFloor); !slices.Equal(got, []float64{0, 0.5, 1}) {
		t.Errorf("Series() = %v", got)
	}
	if got := Series(nil, 3, DefaultFloor); len(got) != 0 {
		t.Errorf("Series(nil) = %v", got)
	}
}
