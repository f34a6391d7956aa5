// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"bytes"
	"errors"
	"io"
	"math"
	"strings"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/ik5/beatdriver/audio"
)

// sliceReader serves a fixed set of integer samples.
type sliceReader struct {
	data []int
	err  error
}

func (r *sliceReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if len(r.data) == 0 {
		return 0, r.err
	}
	n := copy(buf.Data, r.data)
	r.data = r.data[n:]
	return n, nil
}

func format(rate, channels int) *goaudio.Format {
	return &goaudio.Format{SampleRate: rate, NumChannels: channels}
}

func TestSource_Scaling(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		bitDepth int
		unsigned bool
		in       []int
		want     []float32
	}{
		{"8-bit unsigned", 8, true, []int{0, 128, 192}, []float32{-1, 0, 0.5}},
		{"8-bit signed", 8, false, []int{-128, 0, 64}, []float32{-1, 0, 0.5}},
		{"16-bit", 16, false, []int{-32768, 0, 16384}, []float32{-1, 0, 0.5}},
		{"24-bit", 24, false, []int{-8388608, 4194304, 0}, []float32{-1, 0.5, 0}},
		{"32-bit", 32, false, []int{math.MinInt32, 0, 1 << 30}, []float32{-1, 0, 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src, err := NewSource(&sliceReader{data: tt.in}, format(8000, 1), tt.bitDepth, tt.unsigned)
			if err != nil {
				t.Fatalf("NewSource() error = %v", err)
			}

			dst := make([]float32, 8)
			n, err := src.ReadSamples(dst)
			if err != nil {
				t.Fatalf("ReadSamples() error = %v", err)
			}
			if n != len(tt.want) {
				t.Fatalf("ReadSamples() n = %d, want %d", n, len(tt.want))
			}
			for i := range n {
				if math.Abs(float64(dst[i]-tt.want[i])) > 1e-6 {
					t.Errorf("dst[%d] = %v, want %v", i, dst[i], tt.want[i])
				}
			}

			if n, err := src.ReadSamples(dst); n != 0 || err != io.EOF {
				t.Errorf("ReadSamples() at end = %d, %v; want 0, io.EOF", n, err)
			}
		})
	}
}

func TestSource_WholeFrames(t *testing.T) {
	t.Parallel()

	src, err := NewSource(&sliceReader{data: []int{1, 2, 3, 4, 5, 6}}, format(8000, 2), 16, false)
	if err != nil {
		t.Fatal(err)
	}

	n, err := src.ReadSamples(make([]float32, 5))
	if err != nil || n != 4 {
		t.Errorf("ReadSamples(5) = %d, %v; want 4, nil", n, err)
	}
	if n, err := src.ReadSamples(make([]float32, 1)); n != 0 || err != nil {
		t.Errorf("ReadSamples(1) = %d, %v; want 0, nil", n, err)
	}
}

func TestSource_ReadError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	src, _ := NewSource(&sliceReader{err: boom}, format(8000, 1), 16, false)

	if _, err := src.ReadSamples(make([]float32, 4)); !errors.Is(err, boom) {
		t.Errorf("ReadSamples() error = %v, want boom", err)
	}
}

func TestNewSource_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		format   *goaudio.Format
		bitDepth int
		want     error
	}{
		{"nil format", nil, 16, audio.ErrCorruptData},
		{"zero rate", format(0, 1), 16, audio.ErrCorruptData},
		{"zero channels", format(8000, 0), 16, audio.ErrCorruptData},
		{"12-bit", format(8000, 1), 12, audio.ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := NewSource(&sliceReader{}, tt.format, tt.bitDepth, false); !errors.Is(err, tt.want) {
				t.Errorf("NewSource() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSeekable(t *testing.T) {
	t.Parallel()

	br := bytes.NewReader([]byte("abc"))
	if rs, _ := Seekable(br); rs != br {
		t.Error("Seekable() should return an existing ReadSeeker unchanged")
	}

	rs, err := Seekable(io.MultiReader(strings.NewReader("ab"), strings.NewReader("cd")))
	if err != nil {
		t.Fatalf("Seekable() error = %v", err)
	}
	if _, err := rs.Seek(2, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	rest, _ := io.ReadAll(rs)
	if string(rest) != "cd" {
		t.Errorf("after seek got %q, want %q", rest, "cd")
	}
}
