// SPDX-License-Identifier: EPL-2.0

package onset

// ring keeps the most recent values of a series in fixed storage.
type ring struct {
	vals []float64
	next int
	n    int
}

func newRing(capacity int) *ring {
	return &ring{vals: make([]float64, max(capacity, 1))}
}

func (r *ring) push(v float64) {
	r.vals[r.next] = v
	r.next = (r.next + 1) % len(r.vals)
	r.n = min(r.n+1, len(r.vals))
}

// mean of the stored values, oldest first; 0 when empty.
func (r *ring) mean() float64 {
	if r.n == 0 {
		return 0
	}

	start := (r.next - r.n + len(r.vals)) % len(r.vals)
	var sum float64
	for i := range r.n {
		sum += r.vals[(start+i)%len(r.vals)]
	}
	return sum / float64(r.n)
}

func (r *ring) reset() {
	r.next, r.n = 0, 0
}
