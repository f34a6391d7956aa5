// SPDX-License-Identifier: EPL-2.0

package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/ik5/beatdriver/audio"
)

// StreamInfo describes the first audio stream of an input.
type StreamInfo struct {
	Codec      string
	SampleRate int
	Channels   int
}

type probeOutput struct {
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		SampleRate string `json:"sample_rate"`
		Channels   int    `json:"channels"`
	} `json:"streams"`
}

// parseProbe extracts the first audio stream from ffprobe JSON output.
func parseProbe(out []byte) (StreamInfo, error) {
	var p probeOutput
	if err := json.Unmarshal(out, &p); err != nil {
		return StreamInfo{}, fmt.Errorf("%w: parsing ffprobe output: %w", audio.ErrCorruptData, err)
	}

	for _, s := range p.Streams {
		if s.CodecType != "audio" {
			continue
		}

		rate, err := strconv.Atoi(s.SampleRate)
		if err != nil || rate <= 0 {
			return StreamInfo{}, fmt.Errorf("%w: sample rate %q", audio.ErrCorruptData, s.SampleRate)
		}
		if s.Channels <= 0 {
			return StreamInfo{}, fmt.Errorf("%w: %d channels", audio.ErrCorruptData, s.Channels)
		}

		return StreamInfo{Codec: s.CodecName, SampleRate: rate, Channels: s.Channels}, nil
	}

	return StreamInfo{}, fmt.Errorf("%w: no audio stream", audio.ErrUnsupportedFormat)
}

// Probe runs ffprobe with r on its standard input.
func (d Decoder) Probe(ctx context.Context, r io.Reader) (StreamInfo, error) {
	args := []string{"-v", "error", "-show_streams", "-of", "json", "-i", "pipe:0"}
	out, err := runCmd(ctx, r, d.probeBin(), args...)
	if err != nil {
		return StreamInfo{}, fmt.Errorf("%w: ffprobe: %w", audio.ErrUnsupportedFormat, err)
	}

	return parseProbe(out)
}

// runCmd runs bin to completion and returns its standard output. Standard
// error is folded into the returned error.
func runCmd(ctx context.Context, stdin io.Reader, bin string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdin = stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, fmt.Errorf("%w", err)
	}

	return stdout.Bytes(), nil
}
