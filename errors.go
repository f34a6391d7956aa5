// SPDX-License-Identifier: EPL-2.0

package beatdriver

import (
	"errors"
	"fmt"

	"github.com/ik5/beatdriver/audio"
)

var (
	// ErrUnsupportedFormat is returned when no decoder accepts the input.
	ErrUnsupportedFormat = audio.ErrUnsupportedFormat
	// ErrCorruptData is returned when the input is recognised but yields no
	// usable samples.
	ErrCorruptData = audio.ErrCorruptData
	// ErrEmptyInput is returned for inputs that decode to zero samples.
	ErrEmptyInput = audio.ErrEmptyInput
	// ErrInvalidConfig is returned by Config.Validate and every Analyze
	// function when a parameter is out of range.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ConfigError describes the offending configuration field.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s = %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidConfig, e.Err}
	}
	return []error{ErrInvalidConfig}
}
