// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"io"
)

// ErrInjected is returned by a Source once its failure point is reached.
var ErrInjected = errors.New("injected read failure")

// Source serves interleaved samples as an audio.Source.
type Source struct {
	Rate   int
	Chans  int
	Data   []float32
	FailAt int // sample offset that triggers ErrInjected; 0 disables
	Closed bool
	pos    int
}

func (s *Source) SampleRate() int { return s.Rate }
func (s *Source) Channels() int   { return s.Chans }
func (s *Source) BufSize() int    { return len(s.Data) }

func (s *Source) Close() error {
	s.Closed = true
	return nil
}

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if s.FailAt > 0 && s.pos >= s.FailAt {
		return 0, ErrInjected
	}

	end := len(s.Data)
	if s.FailAt > 0 {
		end = min(end, s.FailAt)
	}
	n := copy(dst, s.Data[s.pos:end])
	s.pos += n

	if s.pos >= len(s.Data) {
		return n, io.EOF
	}
	return n, nil
}

// Mono returns a mono Source over samples.
func Mono(rate int, samples []float64) *Source {
	data := make([]float32, len(samples))
	for i, v := range samples {
		data[i] = float32(v)
	}
	return &Source{Rate: rate, Chans: 1, Data: data}
}
