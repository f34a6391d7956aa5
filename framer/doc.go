// SPDX-License-Identifier: EPL-2.0

// Package framer slices a mono sample buffer into analysis windows aligned
// to an output frame rate.
//
// Frame k starts at sample round(k*rate/fps) and owns WindowLength samples.
// Its analysis window extends forward from the same start and may be longer
// than the frame itself when an overlap is configured. A window that would
// run past the last sample is moved back to end on it, so the final frames
// are analyzed over real audio instead of a hard cut into silence. The final
// partial frame is kept rather than dropped. Zero padding only happens when
// the whole buffer is shorter than a window.
//
// The frame count is ceil(duration*fps), so frames never drift against a
// timeline running at fps, even when rate/fps is not an integer.
package framer
