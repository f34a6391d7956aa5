// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes Audio Interchange File Format files.
//
// Headers and sample data are read by github.com/go-audio/aiff; samples are
// converted to float32 by the shared pcm package. AIFF stores samples
// big-endian and signed at every bit depth.
package aiff
