// SPDX-License-Identifier: EPL-2.0

package dataset

import "errors"

var (
	ErrNoFrames           = errors.New("dataset has no frames")
	ErrLengthMismatch     = errors.New("series lengths differ")
	ErrNonFinite          = errors.New("non-finite value in series")
	ErrUnknownFormat      = errors.New("unknown output format")
	ErrUnknownCompression = errors.New("unknown output compression")
)
