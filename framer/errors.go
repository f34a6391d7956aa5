// SPDX-License-Identifier: EPL-2.0

package framer

import "errors"

var (
	ErrInvalidFrameRate = errors.New("frame rate must be positive and finite")
	ErrInvalidOverlap   = errors.New("overlap must be in [0, 1)")
)
