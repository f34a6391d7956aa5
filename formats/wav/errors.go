// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"

	"github.com/ik5/beatdriver/audio"
)

var (
	ErrNotWavFile          = fmt.Errorf("%w: not a WAV file", audio.ErrUnsupportedFormat)
	ErrUnsupportedEncoding = fmt.Errorf("%w: WAV encoding is not integer PCM or IEEE float", audio.ErrUnsupportedFormat)
)
