// SPDX-License-Identifier: EPL-2.0

// Package ffmpeg decodes any container the ffmpeg tools understand by
// running them as subprocesses. ffprobe reports the stream layout and ffmpeg
// streams raw 32-bit float PCM on its standard output.
//
// It is used as a fallback for files the native decoders reject. When the
// binaries are missing, Decode fails with audio.ErrUnsupportedFormat.
package ffmpeg
