// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	"github.com/go-audio/wav"
	"github.com/ik5/beatdriver/audio"
	"github.com/ik5/beatdriver/formats/pcm"
)

const formatPCM = 1

// Decoder reads integer PCM WAV files of 8, 16, 24 or 32 bits and IEEE
// float files of 32 or 64 bits, plain or WAVE_FORMAT_EXTENSIBLE. Input that
// cannot seek is buffered in memory.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := pcm.Seekable(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", audio.ErrCorruptData, err)
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}

	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", audio.ErrCorruptData, err)
	}

	tag := dec.WavAudioFormat
	if tag == formatExtensible {
		if tag, err = subFormat(rs); err != nil {
			return nil, fmt.Errorf("%w: %w", audio.ErrCorruptData, err)
		}
		// subFormat rewound the input under the decoder.
		dec = wav.NewDecoder(rs)
		dec.ReadInfo()
		if err := dec.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", audio.ErrCorruptData, err)
		}
	}

	switch tag {
	case formatPCM:
	case formatFloat:
		return decodeFloat(dec)
	default:
		return nil, fmt.Errorf("%w (format tag %d)", ErrUnsupportedEncoding, tag)
	}

	// 8-bit WAV is unsigned; wider depths are two's complement.
	src, err := pcm.NewSource(dec, dec.Format(), int(dec.BitDepth), dec.BitDepth == 8)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return src, nil
}

func decodeFloat(dec *wav.Decoder) (audio.Source, error) {
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", audio.ErrCorruptData, err)
	}
	if dec.PCMChunk == nil {
		return nil, fmt.Errorf("%w: no data chunk", audio.ErrCorruptData)
	}

	r := io.LimitReader(dec.PCMChunk, dec.PCMLen())
	return newFloatSource(r, int(dec.SampleRate), int(dec.NumChans), int(dec.BitDepth))
}
