// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and writes RIFF/WAVE audio.
//
// Decoding is delegated to github.com/go-audio/wav and supports integer PCM
// at 8, 16, 24 and 32 bits with any channel count and sample rate. Floating
// point and compressed WAV variants are rejected with ErrUnsupportedEncoding,
// which matches audio.ErrUnsupportedFormat so callers can fall back to an
// external decoder.
//
//	src, err := wav.Decoder{}.Decode(file)
//	if errors.Is(err, audio.ErrUnsupportedFormat) {
//	    // try another decoder
//	}
//
// Two writers are provided. WriteWAV16 streams a mono 16-bit file to any
// io.Writer. WriteMono takes float samples and needs an io.WriteSeeker
// because the encoder rewrites the chunk sizes when it is closed.
package wav
