// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG audio layer III streams using
// github.com/hajimehoshi/go-mp3.
//
// The decoder always reports two channels; mono files are duplicated into
// both by the underlying library. Samples are 16-bit and are scaled to
// float32 in [-1, 1). Input that does not start with a decodable frame is
// rejected with ErrNotMP3File, which matches audio.ErrUnsupportedFormat.
package mp3
