// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/ik5/beatdriver/audio"
)

// mockOggReader hands out at most chunk values per Read, like the real
// reader does at packet boundaries.
type mockOggReader struct {
	rate, channels int
	data           []float32
	chunk          int
	err            error
}

func (m *mockOggReader) SampleRate() int { return m.rate }
func (m *mockOggReader) Channels() int   { return m.channels }

func (m *mockOggReader) Read(p []float32) (int, error) {
	if len(m.data) == 0 {
		if m.err != nil {
			return 0, m.err
		}
		return 0, io.EOF
	}
	if m.chunk > 0 && len(p) > m.chunk {
		p = p[:m.chunk]
	}
	n := copy(p, m.data)
	m.data = m.data[n:]
	return n, nil
}

func ramp(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(i) / float32(n)
	}
	return out
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	for _, data := range [][]byte{nil, []byte("OggS but not really a vorbis stream")} {
		_, err := Decoder{}.Decode(bytes.NewReader(data))
		if !errors.Is(err, audio.ErrUnsupportedFormat) {
			t.Errorf("Decode(%q) error = %v, want audio.ErrUnsupportedFormat", data, err)
		}
	}
}

func TestSource_CountsValues(t *testing.T) {
	t.Parallel()

	want := ramp(10)
	src := newSource(&mockOggReader{rate: 44100, channels: 2, data: append([]float32(nil), want...)})

	dst := make([]float32, 32)
	n, err := src.ReadSamples(dst)
	if err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if n != 10 {
		t.Fatalf("ReadSamples() n = %d, want 10", n)
	}
	for i := range n {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}

	if n, err := src.ReadSamples(dst); n != 0 || err != io.EOF {
		t.Errorf("ReadSamples() at end = %d, %v; want 0, io.EOF", n, err)
	}
}

func TestSource_WholeFrames(t *testing.T) {
	t.Parallel()

	src := newSource(&mockOggReader{rate: 8000, channels: 3, data: ramp(30), chunk: 8})

	total := 0
	dst := make([]float32, 7)
	for {
		n, err := src.ReadSamples(dst)
		if n%3 != 0 {
			t.Fatalf("ReadSamples() returned %d values, not whole frames", n)
		}
		total += n
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
	}
	if total != 30 {
		t.Errorf("read %d values, want 30", total)
	}
}

func TestSource_ReadError(t *testing.T) {
	t.Parallel()

	boom := errors.New("corrupt packet")
	src := newSource(&mockOggReader{rate: 8000, channels: 1, err: boom})

	if _, err := src.ReadSamples(make([]float32, 4)); !errors.Is(err, boom) {
		t.Errorf("ReadSamples() error = %v, want %v", err, boom)
	}
}
