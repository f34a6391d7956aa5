// SPDX-License-Identifier: EPL-2.0

package bands

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Band identifies one of the fixed frequency bands.
type Band int

const (
	SubBass Band = iota
	Bass
	LowMid
	Mid
	HighMid
	Presence
	Brilliance
)

// Count is the number of bands.
const Count = 7

// All lists the bands from lowest to highest.
var All = [Count]Band{SubBass, Bass, LowMid, Mid, HighMid, Presence, Brilliance}

var (
	names = [Count]string{"Sub Bass", "Bass", "Low Mid", "Mid", "High Mid", "Presence", "Brilliance"}
	keys  = [Count]string{"sub_bass", "bass", "low_mid", "mid", "high_mid", "presence", "brilliance"}
)

func (b Band) String() string {
	if b < 0 || int(b) >= Count {
		return fmt.Sprintf("Band(%d)", int(b))
	}
	return names[b]
}

// Key is the snake_case column name of the band.
func (b Band) Key() string {
	if b < 0 || int(b) >= Count {
		return fmt.Sprintf("band_%d", int(b))
	}
	return keys[b]
}

// ErrInvalidRange is returned for a band range that is not a positive,
// finite interval with low < high.
var ErrInvalidRange = errors.New("invalid band range")

// Range is a half-open frequency interval in Hz.
type Range struct {
	Low  float64 `json:"low_hz"`
	High float64 `json:"high_hz"`
}

func (r Range) String() string { return fmt.Sprintf("%g-%g Hz", r.Low, r.High) }

// Contains reports whether f lies in [Low, High).
func (r Range) Contains(f float64) bool { return f >= r.Low && f < r.High }

// Validate checks that the range is usable.
func (r Range) Validate() error {
	switch {
	case math.IsNaN(r.Low) || math.IsNaN(r.High) || math.IsInf(r.Low, 0) || math.IsInf(r.High, 0):
		return fmt.Errorf("%w: %v is not finite", ErrInvalidRange, r)
	case r.Low < 0:
		return fmt.Errorf("%w: %v has a negative bound", ErrInvalidRange, r)
	case r.Low >= r.High:
		return fmt.Errorf("%w: %v low must be below high", ErrInvalidRange, r)
	}
	return nil
}

// Ranges holds one range per band, indexed by Band.
type Ranges [Count]Range

// DefaultRanges returns the standard band boundaries.
func DefaultRanges() Ranges {
	return Ranges{
		SubBass:    {20, 60},
		Bass:       {60, 250},
		LowMid:     {250, 500},
		Mid:        {500, 2000},
		HighMid:    {2000, 4000},
		Presence:   {4000, 6000},
		Brilliance: {6000, 20000},
	}
}

// Validate checks every range and names the first bad band.
func (rs Ranges) Validate() error {
	for _, b := range All {
		if err := rs[b].Validate(); err != nil {
			return fmt.Errorf("%s: %w", b, err)
		}
	}
	return nil
}

// String renders rs in the form accepted by ParseRanges.
func (rs Ranges) String() string {
	parts := make([]string, Count)
	for i, r := range rs {
		parts[i] = strconv.FormatFloat(r.Low, 'g', -1, 64) + "-" + strconv.FormatFloat(r.High, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

// ParseRanges parses seven comma separated "low-high" pairs in Hz, ordered
// from SubBass to Brilliance, for example "20-60,60-250,...".
func ParseRanges(s string) (Ranges, error) {
	var rs Ranges

	parts := strings.Split(s, ",")
	if len(parts) != Count {
		return rs, fmt.Errorf("%w: want %d ranges, got %d", ErrInvalidRange, Count, len(parts))
	}

	for i, p := range parts {
		lo, hi, ok := strings.Cut(strings.TrimSpace(p), "-")
		if !ok {
			return rs, fmt.Errorf("%w: %q is not low-high", ErrInvalidRange, p)
		}

		var err error
		if rs[i].Low, err = strconv.ParseFloat(strings.TrimSpace(lo), 64); err != nil {
			return rs, fmt.Errorf("%w: %s low bound: %w", ErrInvalidRange, Band(i), err)
		}
		if rs[i].High, err = strconv.ParseFloat(strings.TrimSpace(hi), 64); err != nil {
			return rs, fmt.Errorf("%w: %s high bound: %w", ErrInvalidRange, Band(i), err)
		}
	}

	return rs, rs.Validate()
}

// Spectrum holds one non-negative energy value per band.
type Spectrum [Count]float64
