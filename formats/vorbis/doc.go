// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams using
// github.com/jfreymuth/oggvorbis. The library produces float32 samples
// directly, so no conversion is needed.
package vorbis
