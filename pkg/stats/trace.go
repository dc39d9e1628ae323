// Package stats holds the fixed-capacity histograms and traces filled by
// the flight computer. All types are plain values: copying one yields an
// independent snapshot.
package stats

// TraceCapacity is the number of values a Trace retains.
const TraceCapacity = 30

// Trace is a fixed-capacity ring of float64 values, oldest evicted first.
type Trace struct {
	data [TraceCapacity]float64
	pos  int
	full bool
}

// Push adds a value to the trace.
func (r *Trace) Push(v float64) {
	r.data[r.pos] = v
	r.pos++
	if r.pos >= TraceCapacity {
		r.pos = 0
		r.full = true
	}
}

// Len returns the number of values in the trace.
func (r *Trace) Len() int {
	if r.full {
		return TraceCapacity
	}
	return r.pos
}

// At returns the i-th value in insertion order (0 is the oldest).
func (r *Trace) At(i int) float64 {
	if i < 0 || i >= r.Len() {
		return 0
	}
	if !r.full {
		return r.data[i]
	}
	return r.data[(r.pos+i)%TraceCapacity]
}

// Last returns the most recent value and whether the trace is non-empty.
func (r *Trace) Last() (float64, bool) {
	n := r.Len()
	if n == 0 {
		return 0, false
	}
	return r.At(n - 1), true
}

// AppendTo appends the values in insertion order to dst.
func (r *Trace) AppendTo(dst []float64) []float64 {
	for i := 0; i < r.Len(); i++ {
		dst = append(dst, r.At(i))
	}
	return dst
}

// Clear empties the trace.
func (r *Trace) Clear() {
	r.pos = 0
	r.full = false
}
