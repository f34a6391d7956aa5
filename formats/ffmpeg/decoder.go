// SPDX-License-Identifier: EPL-2.0

package ffmpeg

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/ik5/beatdriver/audio"
)

const (
	defaultFFmpeg  = "ffmpeg"
	defaultFFprobe = "ffprobe"
)

// Decoder runs ffprobe and ffmpeg. Empty paths are resolved through PATH.
type Decoder struct {
	FFmpegPath  string
	FFprobePath string
}

func (d Decoder) ffmpegBin() string {
	if d.FFmpegPath != "" {
		return d.FFmpegPath
	}
	return defaultFFmpeg
}

func (d Decoder) probeBin() string {
	if d.FFprobePath != "" {
		return d.FFprobePath
	}
	return defaultFFprobe
}

// Available reports whether both binaries can be found.
func (d Decoder) Available() bool {
	if _, err := exec.LookPath(d.ffmpegBin()); err != nil {
		return false
	}
	_, err := exec.LookPath(d.probeBin())
	return err == nil
}

func (d Decoder) Decode(r io.Reader) (audio.Source, error) {
	return d.DecodeContext(context.Background(), r)
}

// DecodeContext probes r and starts an ffmpeg process that decodes it. The
// input is read twice, so readers that cannot seek are buffered in memory.
// The returned source must be closed to reap the process.
func (d Decoder) DecodeContext(ctx context.Context, r io.Reader) (audio.Source, error) {
	if !d.Available() {
		return nil, fmt.Errorf("%w: ffmpeg tools not found", audio.ErrUnsupportedFormat)
	}

	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", audio.ErrCorruptData, err)
		}
		rs = bytes.NewReader(data)
	}

	start, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	info, err := d.Probe(ctx, rs)
	if err != nil {
		return nil, err
	}

	if _, err := rs.Seek(start, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	args := []string{
		"-hide_banner", "-nostats", "-v", "error",
		"-i", "pipe:0", "-vn",
		"-f", "f32le", "-acodec", "pcm_f32le",
		"-ac", strconv.Itoa(info.Channels),
		"-ar", strconv.Itoa(info.SampleRate),
		"pipe:1",
	}
	cmd := exec.CommandContext(ctx, d.ffmpegBin(), args...)
	cmd.Stdin = rs

	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: starting ffmpeg: %w", audio.ErrUnsupportedFormat, err)
	}

	return &source{
		out:      stdout,
		info:     info,
		stderr:   stderr,
		wait:     cmd.Wait,
		kill:     func() error { return cmd.Process.Kill() },
		channels: info.Channels,
	}, nil
}

// source reads interleaved little-endian float32 frames from a pipe.
type source struct {
	out      io.Reader
	info     StreamInfo
	channels int
	stderr   *bytes.Buffer
	wait     func() error
	kill     func() error
	buf      []byte
	eof      bool
	waited   bool
}

func (s *source) SampleRate() int { return s.info.SampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BufSize() int    { return max(len(s.buf)/4, audio.DefaultReadSize) }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if s.eof {
		return 0, io.EOF
	}

	want := len(dst) - len(dst)%s.channels
	if want == 0 {
		return 0, nil
	}
	if cap(s.buf) < 4*want {
		s.buf = make([]byte, 4*want)
	}
	s.buf = s.buf[:4*want]

	n, err := io.ReadFull(s.out, s.buf)
	samples := n / 4
	samples -= samples % s.channels
	for i := range samples {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(s.buf[4*i:]))
	}

	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		s.eof = true
		if werr := s.reap(); werr != nil {
			return samples, werr
		}
		return samples, io.EOF
	case err != nil:
		return samples, fmt.Errorf("%w", err)
	}

	return samples, nil
}

// reap waits for the process once and reports a failed exit as corrupt data.
func (s *source) reap() error {
	if s.waited {
		return nil
	}
	s.waited = true

	if err := s.wait(); err != nil {
		msg := ""
		if s.stderr != nil {
			msg = strings.TrimSpace(s.stderr.String())
		}
		return fmt.Errorf("%w: ffmpeg: %w %s", audio.ErrCorruptData, err, msg)
	}
	return nil
}

func (s *source) Close() error {
	if s.waited {
		return nil
	}
	if !s.eof && s.kill != nil {
		_ = s.kill()
	}
	s.waited = true
	_ = s.wait()
	return nil
}
