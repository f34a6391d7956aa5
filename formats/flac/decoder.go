// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/beatdriver/audio"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
)

var ErrNotFlacFile = fmt.Errorf("%w: not a FLAC stream", audio.ErrUnsupportedFormat)

// frameParser is the subset of flac.Stream used here.
type frameParser interface {
	ParseNext() (*frame.Frame, error)
	Close() error
}

type source struct {
	stream     frameParser
	sampleRate int
	channels   int
	scale      float32

	// Interleaved samples of the current frame not yet handed out.
	pending []float32
	eof     bool
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BufSize() int    { return max(cap(s.pending), audio.DefaultReadSize) }

func (s *source) Close() error {
	if err := s.stream.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	want := len(dst) - len(dst)%s.channels
	written := 0

	for written < want {
		if len(s.pending) == 0 {
			if s.eof {
				break
			}
			if err := s.next(); err != nil {
				return written, err
			}
			continue
		}

		n := copy(dst[written:want], s.pending)
		s.pending = s.pending[n:]
		written += n
	}

	if written == 0 && s.eof && want > 0 {
		return 0, io.EOF
	}

	return written, nil
}

// next decodes one frame into pending.
func (s *source) next() error {
	f, err := s.stream.ParseNext()
	if errors.Is(err, io.EOF) {
		s.eof = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("decoding flac frame: %w", err)
	}
	if len(f.Subframes) != s.channels {
		return fmt.Errorf("%w: frame has %d channels, stream has %d",
			audio.ErrCorruptData, len(f.Subframes), s.channels)
	}

	size := len(f.Subframes[0].Samples)
	buf := s.pending[:0]
	if cap(buf) < size*s.channels {
		buf = make([]float32, 0, size*s.channels)
	}
	for i := range size {
		for _, sub := range f.Subframes {
			buf = append(buf, float32(sub.Samples[i])*s.scale)
		}
	}
	s.pending = buf

	return nil
}

// Decoder decodes FLAC files.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	// flac.Stream closes readers that implement io.Closer; the caller owns r.
	stream, err := flac.New(io.NopCloser(r))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFlacFile, err)
	}

	info := stream.Info
	src, err := newSource(stream, int(info.SampleRate), int(info.NChannels), int(info.BitsPerSample))
	if err != nil {
		_ = stream.Close()
		return nil, err
	}

	return src, nil
}

func newSource(stream frameParser, rate, channels, bitDepth int) (*source, error) {
	if rate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("%w: flac stream reports %d Hz, %d channels",
			audio.ErrCorruptData, rate, channels)
	}
	if bitDepth < 4 || bitDepth > 32 {
		return nil, fmt.Errorf("%w: %d-bit flac", audio.ErrUnsupportedFormat, bitDepth)
	}

	return &source{
		stream:     stream,
		sampleRate: rate,
		channels:   channels,
		scale:      1 / float32(uint64(1)<<(bitDepth-1)),
	}, nil
}
