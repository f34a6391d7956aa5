// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"bytes"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/ik5/beatdriver/audio"
)

// Reader is the subset of the go-audio decoders used by Source.
type Reader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Source converts integer PCM into float32 samples in [-1, 1].
type Source struct {
	dec      Reader
	format   *goaudio.Format
	bitDepth int
	offset   int // subtracted before scaling; non-zero for unsigned PCM
	scale    float32
	buf      *goaudio.IntBuffer
	eof      bool
}

// NewSource wraps dec. Unsigned selects offset binary samples, as used by
// 8-bit WAV.
func NewSource(dec Reader, format *goaudio.Format, bitDepth int, unsigned bool) (*Source, error) {
	if format == nil || format.SampleRate <= 0 || format.NumChannels <= 0 {
		return nil, fmt.Errorf("%w: missing sample rate or channel count", audio.ErrCorruptData)
	}

	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d-bit PCM", audio.ErrUnsupportedFormat, bitDepth)
	}

	full := 1 << (bitDepth - 1)
	s := &Source{
		dec:      dec,
		format:   format,
		bitDepth: bitDepth,
		scale:    1 / float32(full),
	}
	if unsigned {
		s.offset = full
	}

	return s, nil
}

func (s *Source) SampleRate() int { return s.format.SampleRate }
func (s *Source) Channels() int   { return s.format.NumChannels }
func (s *Source) BitDepth() int   { return s.bitDepth }
func (s *Source) Close() error    { return nil }

func (s *Source) BufSize() int {
	if s.buf != nil {
		return cap(s.buf.Data)
	}
	return audio.DefaultReadSize
}

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if s.eof {
		return 0, io.EOF
	}

	// Whole frames only.
	want := len(dst) - len(dst)%s.format.NumChannels
	if want == 0 {
		return 0, nil
	}

	if s.buf == nil || cap(s.buf.Data) < want {
		s.buf = &goaudio.IntBuffer{
			Data:           make([]int, want),
			Format:         s.format,
			SourceBitDepth: s.bitDepth,
		}
	}
	s.buf.Data = s.buf.Data[:want]

	n, err := s.dec.PCMBuffer(s.buf)
	for i, v := range s.buf.Data[:n] {
		dst[i] = float32(v-s.offset) * s.scale
	}

	switch {
	case err == io.EOF || (err == nil && n == 0):
		s.eof = true
		return n, io.EOF
	case err != nil:
		return n, fmt.Errorf("%w", err)
	}

	return n, nil
}

// Seekable returns r when it already supports seeking, otherwise it buffers
// the remaining input in memory.
func Seekable(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("buffering input: %w", err)
	}

	return bytes.NewReader(data), nil
}
