// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ik5/beatdriver/audio"
	"github.com/ik5/beatdriver/formats/aiff"
	"github.com/ik5/beatdriver/formats/ffmpeg"
	"github.com/ik5/beatdriver/formats/flac"
	"github.com/ik5/beatdriver/formats/mp3"
	"github.com/ik5/beatdriver/formats/vorbis"
	"github.com/ik5/beatdriver/formats/wav"
)

// NewRegistry returns a registry holding every native decoder under its
// common file extensions.
func NewRegistry() *audio.Registry {
	r := audio.NewRegistry()

	r.Register("wav", wav.Decoder{})
	r.Register("wave", wav.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	r.Register("oga", vorbis.Decoder{})
	r.Register("aif", aiff.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	r.Register("flac", flac.Decoder{})

	return r
}

// Sniff names the container from the first bytes of a file, or returns ""
// when the signature is unknown. At least 12 bytes should be supplied.
func Sniff(header []byte) string {
	switch {
	case len(header) >= 12 && bytes.Equal(header[:4], []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WAVE")):
		return "wav"
	case len(header) >= 12 && bytes.Equal(header[:4], []byte("FORM")) &&
		(bytes.Equal(header[8:12], []byte("AIFF")) || bytes.Equal(header[8:12], []byte("AIFC"))):
		return "aiff"
	case bytes.HasPrefix(header, []byte("fLaC")):
		return "flac"
	case bytes.HasPrefix(header, []byte("OggS")):
		return "ogg"
	case bytes.HasPrefix(header, []byte("ID3")):
		return "mp3"
	case len(header) >= 2 && header[0] == 0xFF && header[1]&0xE0 == 0xE0:
		return "mp3"
	}
	return ""
}

// Opener resolves and decodes audio files. A nil FFmpeg disables the
// external fallback.
type Opener struct {
	Registry *audio.Registry
	FFmpeg   *ffmpeg.Decoder
}

// NewOpener returns an Opener over the native decoders with the ffmpeg
// fallback enabled.
func NewOpener(fallback *ffmpeg.Decoder) *Opener {
	return &Opener{Registry: NewRegistry(), FFmpeg: fallback}
}

// fileSource closes the underlying file along with the decoder.
type fileSource struct {
	audio.Source
	file *os.File
}

func (s *fileSource) Close() error {
	return errors.Join(s.Source.Close(), s.file.Close())
}

// Open decodes the file at path. The returned source owns the file.
func (o *Opener) Open(ctx context.Context, path string) (audio.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	src, err := o.Decode(ctx, f, filepath.Ext(path))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &fileSource{Source: src, file: f}, nil
}

// Decode picks a decoder for r by content signature, then by the extension
// hint, and finally falls back to ffmpeg when a native decoder rejects the
// input.
func (o *Opener) Decode(ctx context.Context, r io.ReadSeeker, hint string) (audio.Source, error) {
	var header [12]byte
	n, err := io.ReadFull(r, header[:])
	if n == 0 && (errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)) {
		return nil, audio.ErrEmptyInput
	}
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("%w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	name := Sniff(header[:n])
	if name == "" {
		name = hint
	}

	var nativeErr error
	if dec, ok := o.Registry.Get(name); ok {
		src, err := dec.Decode(r)
		if err == nil {
			return src, nil
		}
		if !errors.Is(err, audio.ErrUnsupportedFormat) {
			return nil, err
		}
		nativeErr = err
	} else {
		nativeErr = fmt.Errorf("%w: no decoder for %q", audio.ErrUnsupportedFormat, name)
	}

	if o.FFmpeg == nil || !o.FFmpeg.Available() {
		return nil, nativeErr
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	src, err := o.FFmpeg.DecodeContext(ctx, r)
	if err != nil {
		return nil, errors.Join(nativeErr, err)
	}

	return src, nil
}
