// SPDX-License-Identifier: EPL-2.0

package onset

import (
	"sync"

	"github.com/ik5/beatdriver/bands"
)

// Params configures a Detector.
type Params struct {
	// Sensitivity multiplies the trailing mean to form the threshold.
	Sensitivity float64
	// Window is the number of prior frames averaged for the threshold.
	Window int
	// Refractory is the number of frames after an onset in which no other
	// onset may fire.
	Refractory int
	// MinLevel is the lowest value that can be an onset.
	MinLevel float64
}

// Detector is a sequential onset scanner for one series.
type Detector struct {
	p     Params
	hist  *ring
	prev  float64
	frame int
	last  int
	fired bool
}

func NewDetector(p Params) *Detector {
	return &Detector{p: p, hist: newRing(p.Window)}
}

// Next consumes the value of the next frame and reports whether it is an
// onset. The strength of an onset is its value.
func (d *Detector) Next(v float64) (bool, float64) {
	threshold := d.hist.mean() * d.p.Sensitivity

	onset := v > threshold &&
		v > d.prev &&
		v >= d.p.MinLevel &&
		(!d.fired || d.frame-d.last > d.p.Refractory)

	if onset {
		d.last = d.frame
		d.fired = true
	}

	d.hist.push(v)
	d.prev = v
	d.frame++

	if onset {
		return true, v
	}
	return false, 0
}

// Reset clears all state so the detector can scan a new series.
func (d *Detector) Reset() {
	d.hist.reset()
	d.prev, d.frame, d.last, d.fired = 0, 0, 0, false
}

// Detect scans series and returns the onset flags and strengths per frame.
func Detect(series []float64, p Params) ([]bool, []float64) {
	flags := make([]bool, len(series))
	strength := make([]float64, len(series))

	d := NewDetector(p)
	for i, v := range series {
		flags[i], strength[i] = d.Next(v)
	}
	return flags, strength
}

// Result holds per band onset flags and strengths.
type Result struct {
	Flags    [bands.Count][]bool
	Strength [bands.Count][]float64
}

// Count returns the number of onsets in band b.
func (r *Result) Count(b bands.Band) int {
	n := 0
	for _, f := range r.Flags[b] {
		if f {
			n++
		}
	}
	return n
}

// DetectBands scans every band concurrently. Each goroutine writes only its
// own band's slots.
func DetectBands(series [bands.Count][]float64, p Params) *Result {
	res := &Result{}

	var wg sync.WaitGroup
	for _, b := range bands.All {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res.Flags[b], res.Strength[b] = Detect(series[b], p)
		}()
	}
	wg.Wait()

	return res
}
