// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	"github.com/ik5/beatdriver/audio"
	"github.com/ik5/beatdriver/formats/pcm"
)

// Decoder reads big-endian PCM AIFF files through github.com/go-audio/aiff.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := pcm.Seekable(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", audio.ErrCorruptData, err)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}

	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", audio.ErrCorruptData, err)
	}

	src, err := pcm.NewSource(dec, dec.Format(), int(dec.BitDepth), false)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return src, nil
}
