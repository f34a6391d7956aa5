// SPDX-License-Identifier: EPL-2.0

// Package flac decodes Free Lossless Audio Codec streams using
// github.com/mewkiz/flac. Frames are decoded one at a time and interleaved
// into the caller's buffer, so memory use is bounded by the largest frame.
package flac
