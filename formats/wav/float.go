// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/riff"
	"github.com/ik5/beatdriver/audio"
)

const (
	formatFloat      = 3
	formatExtensible = 0xFFFE
)

// subFormat returns the format tag carried in the SubFormat GUID of a
// WAVE_FORMAT_EXTENSIBLE fmt chunk. rs is rewound before returning.
func subFormat(rs io.ReadSeeker) (uint16, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	defer rs.Seek(0, io.SeekStart)

	p := riff.New(rs)
	if err := p.ParseHeaders(); err != nil {
		return 0, err
	}
	for {
		ch, err := p.NextChunk()
		if err != nil {
			return 0, fmt.Errorf("fmt chunk: %w", err)
		}
		if ch.ID != riff.FmtID {
			ch.Drain()
			continue
		}

		body := make([]byte, ch.Size)
		if _, err := io.ReadFull(ch, body); err != nil {
			return 0, fmt.Errorf("fmt chunk: %w", err)
		}
		// cbSize, valid bits and channel mask precede the GUID.
		if len(body) < 26 {
			return 0, errors.New("fmt chunk: extensible header too short")
		}
		return binary.LittleEndian.Uint16(body[24:26]), nil
	}
}

// floatSource reads IEEE float samples of 32 or 64 bits.
type floatSource struct {
	r        io.Reader
	rate     int
	channels int
	width    int
	raw      []byte
	eof      bool
}

func newFloatSource(r io.Reader, rate, channels, bits int) (*floatSource, error) {
	if rate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("%w: missing sample rate or channel count", audio.ErrCorruptData)
	}
	if bits != 32 && bits != 64 {
		return nil, fmt.Errorf("%w (%d-bit float)", ErrUnsupportedEncoding, bits)
	}
	return &floatSource{r: r, rate: rate, channels: channels, width: bits / 8}, nil
}

func (s *floatSource) SampleRate() int { return s.rate }
func (s *floatSource) Channels() int   { return s.channels }
func (s *floatSource) BufSize() int    { return audio.DefaultReadSize }
func (s *floatSource) Close() error    { return nil }

func (s *floatSource) ReadSamples(dst []float32) (int, error) {
	if s.eof {
		return 0, io.EOF
	}

	want := len(dst) - len(dst)%s.channels
	if want == 0 {
		return 0, nil
	}
	if need := want * s.width; cap(s.raw) < need {
		s.raw = make([]byte, need)
	}
	raw := s.raw[:want*s.width]

	n, err := io.ReadFull(s.r, raw)
	switch {
	case errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF):
		s.eof = true
	case err != nil:
		return 0, fmt.Errorf("%w: %w", audio.ErrCorruptData, err)
	}

	// A trailing partial frame is dropped.
	frame := s.width * s.channels
	samples := n / frame * s.channels

	for i := range samples {
		b := raw[i*s.width:]
		var v float64
		if s.width == 4 {
			v = float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
		} else {
			v = math.Float64frombits(binary.LittleEndian.Uint64(b))
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: non-finite float sample", audio.ErrCorruptData)
		}
		dst[i] = float32(max(-1, min(1, v)))
	}

	if s.eof {
		return samples, io.EOF
	}
	return samples, nil
}
