// SPDX-License-Identifier: EPL-2.0

package onset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ik5/beatdriver/bands"
	"gonum.org/v1/gonum/floats"
)

// Aggregate combines the onset strengths found around a frame.
type Aggregate int

const (
	AggregateMax Aggregate = iota
	AggregateSum
	AggregateMean
)

var ErrUnknownAggregate = errors.New("unknown pulse aggregate")

func (a Aggregate) String() string {
	switch a {
	case AggregateMax:
		return "max"
	case AggregateSum:
		return "sum"
	case AggregateMean:
		return "mean"
	}
	return fmt.Sprintf("Aggregate(%d)", int(a))
}

// ParseAggregate accepts "max", "sum" or "mean". Empty means max.
func ParseAggregate(s string) (Aggregate, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "max":
		return AggregateMax, nil
	case "sum":
		return AggregateSum, nil
	case "mean":
		return AggregateMean, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAggregate, s)
}

// PulseParams configures Pulse.
type PulseParams struct {
	// Tolerance is the half width, in frames, of the coincidence window.
	Tolerance int
	// MinBands is the number of distinct bands that must have an onset in
	// the window for it to count.
	MinBands  int
	Aggregate Aggregate
}

// Pulse returns a [0, 1] coincidence value per frame. Frames with no
// qualifying coincidence are 0, and the run maximum maps to 1.
func Pulse(res *Result, frames int, p PulseParams) []float64 {
	raw := make([]float64, frames)
	tol := max(p.Tolerance, 0)
	need := max(p.MinBands, 1)

	for f := range frames {
		lo, hi := max(f-tol, 0), min(f+tol, frames-1)

		var (
			present int
			count   int
			sum     float64
			peak    float64
		)
		for _, b := range bands.All {
			hit := false
			for i := lo; i <= hi && i < len(res.Flags[b]); i++ {
				if !res.Flags[b][i] {
					continue
				}
				hit = true
				s := res.Strength[b][i]
				count++
				sum += s
				peak = max(peak, s)
			}
			if hit {
				present++
			}
		}

		if present < need {
			continue
		}
		switch p.Aggregate {
		case AggregateSum:
			raw[f] = sum
		case AggregateMean:
			raw[f] = sum / float64(count)
		default:
			raw[f] = peak
		}
	}

	if frames == 0 {
		return raw
	}
	top := floats.Max(raw)
	if !(top > 0) {
		clear(raw)
		return raw
	}
	for i := range raw {
		raw[i] /= top
	}

	return raw
}
