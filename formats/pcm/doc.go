// SPDX-License-Identifier: EPL-2.0

// Package pcm adapts integer PCM decoders from github.com/go-audio to the
// audio.Source interface. It is shared by the wav and aiff packages, which
// differ only in how headers are parsed.
package pcm
