// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")

	// ErrUnsupportedFormat indicates no decoder could identify or open the input.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrCorruptData indicates the input was recognised but did not decode into usable samples.
	ErrCorruptData = errors.New("corrupt audio data")

	// ErrEmptyInput indicates the decoded audio has zero duration.
	ErrEmptyInput = errors.New("empty audio input")
)
