// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/ik5/beatdriver/audio"
)

// mockMP3Reader serves interleaved int16 PCM in chunks of at most chunk bytes.
type mockMP3Reader struct {
	sampleRate int
	data       []byte
	chunk      int
	err        error
}

func newMockReader(rate int, samples []int16, chunk int) *mockMP3Reader {
	data := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[2*i:], uint16(s))
	}
	return &mockMP3Reader{sampleRate: rate, data: data, chunk: chunk}
}

func (m *mockMP3Reader) SampleRate() int { return m.sampleRate }

func (m *mockMP3Reader) Read(p []byte) (int, error) {
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

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"text", []byte("This is not MP3 data")},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decoder{}.Decode(bytes.NewReader(tt.data))
			if !errors.Is(err, audio.ErrUnsupportedFormat) {
				t.Errorf("Decode() error = %v, want audio.ErrUnsupportedFormat", err)
			}
		})
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	in := []int16{0, 16384, 32767, -16384, -32768, 8192, -8192, 0}
	src := newSource(newMockReader(8000, in, 3))

	if src.SampleRate() != 8000 || src.Channels() != 2 {
		t.Errorf("format = %d Hz %d ch", src.SampleRate(), src.Channels())
	}

	dst := make([]float32, 16)
	n, err := src.ReadSamples(dst)
	if err != io.EOF {
		t.Fatalf("ReadSamples() error = %v, want io.EOF", err)
	}
	if n != len(in) {
		t.Fatalf("ReadSamples() n = %d, want %d", n, len(in))
	}
	for i, s := range in {
		if want := float32(s) / 32768; math.Abs(float64(dst[i]-want)) > 1e-6 {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want)
		}
	}

	if n, err := src.ReadSamples(dst); n != 0 || err != io.EOF {
		t.Errorf("ReadSamples() after EOF = %d, %v", n, err)
	}
}

func TestSource_DropsTrailingPartialFrame(t *testing.T) {
	t.Parallel()

	src := newSource(newMockReader(8000, []int16{1, 2, 3}, 0))

	n, err := src.ReadSamples(make([]float32, 8))
	if n != 2 || err != io.EOF {
		t.Errorf("ReadSamples() = %d, %v; want 2, io.EOF", n, err)
	}
}

func TestSource_ChunkedReads(t *testing.T) {
	t.Parallel()

	src := newSource(newMockReader(44100, make([]int16, 1000), 100))

	total := 0
	dst := make([]float32, 6)
	for {
		n, err := src.ReadSamples(dst)
		if n%2 != 0 {
			t.Fatalf("ReadSamples() returned partial frame: %d", n)
		}
		total += n
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
	}
	if total != 1000 {
		t.Errorf("read %d samples, want 1000", total)
	}
}

func TestSource_ReadError(t *testing.T) {
	t.Parallel()

	boom := errors.New("bad frame")
	reader := newMockReader(8000, nil, 0)
	reader.err = boom

	if _, err := newSource(reader).ReadSamples(make([]float32, 4)); !errors.Is(err, boom) {
		t.Errorf("ReadSamples() error = %v, want %v", err, boom)
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	dst := make([]float32, 4096)

	b.ReportAllocs()

	for b.Loop() {
		src := newSource(newMockReader(44100, make([]int16, 88200), 0))
		for {
			if _, err := src.ReadSamples(dst); err != nil {
				break
			}
		}
	}
}
