// SPDX-License-Identifier: EPL-2.0

package bands

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/ik5/beatdriver/framer"
)

// chunkFrames is the number of consecutive frames handed to a worker at once.
const chunkFrames = 64

type span struct{ from, to int }

// Compute analyzes every frame of fr with workers goroutines, each owning
// its own FilterBank. Results are written to disjoint slots, so the output
// is in frame order and independent of scheduling. workers <= 0 uses one
// goroutine per CPU.
func Compute(ctx context.Context, fr *framer.Framer, ranges Ranges, workers int) ([]Spectrum, error) {
	if err := ranges.Validate(); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	n := fr.Len()
	workers = min(workers, (n+chunkFrames-1)/chunkFrames)
	out := make([]Spectrum, n)

	jobs := make(chan span)
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			fb := NewFilterBank(fr.SampleRate(), fr.AnalysisLength(), ranges)
			buf := make([]float64, fr.AnalysisLength())
			for job := range jobs {
				for i := job.from; i < job.to; i++ {
					w := fr.Window(i, buf)
					out[i] = fb.Analyze(w.Samples)
				}
			}
		}()
	}

	var err error
feed:
	for from := 0; from < n; from += chunkFrames {
		if ctx.Err() != nil {
			err = fmt.Errorf("computing band energies: %w", ctx.Err())
			break
		}
		select {
		case jobs <- span{from, min(from+chunkFrames, n)}:
		case <-ctx.Done():
			err = fmt.Errorf("computing band energies: %w", ctx.Err())
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err != nil {
		return nil, err
	}
	return out, nil
}
