package sim

import "math"

// MaxSampleRate is the highest sample rate, in Hz, at which a WindowAverage
// still holds every sample of its window.
const MaxSampleRate = 20.0

type timedValue struct {
	time  float64
	value float64
}

// WindowAverage maintains a rolling time window of samples and returns their mean.
// The ring is sized once from the window and MaxSampleRate, so Update never
// allocates.
type WindowAverage struct {
	window  float64
	samples []timedValue
	head    int // index of the oldest sample
	n       int
}

// NewWindowAverage creates an averager over the given window in seconds (e.g. 30).
func NewWindowAverage(window float64) *WindowAverage {
	capacity := 2
	if window > 0 && !math.IsInf(window, 0) {
		capacity = max(capacity, int(math.Ceil(window*MaxSampleRate))+1)
	}
	return &WindowAverage{window: window, samples: make([]timedValue, capacity)}
}

// Capacity returns the number of samples the ring can hold.
func (b *WindowAverage) Capacity() int {
	return len(b.samples)
}

// Update adds a sample taken at time t and returns the mean over the window.
// A sample older than the newest one restarts the window.
func (b *WindowAverage) Update(t, v float64) float64 {
	if b.n > 0 && t < b.newest().time {
		b.Reset()
	}

	capacity := len(b.samples)
	if b.n == capacity {
		b.head = (b.head + 1) % capacity
		b.n--
	}
	b.samples[(b.head+b.n)%capacity] = timedValue{time: t, value: v}
	b.n++

	// Remove old samples outside window, keeping at least the newest
	cutoff := t - b.window
	for b.n > 1 && b.samples[b.head].time <= cutoff {
		b.head = (b.head + 1) % capacity
		b.n--
	}

	return b.Mean()
}

// Mean returns the mean of the samples currently held, or 0 if empty.
func (b *WindowAverage) Mean() float64 {
	if b.n == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < b.n; i++ {
		sum += b.samples[(b.head+i)%len(b.samples)].value
	}
	return sum / float64(b.n)
}

// Len returns the number of samples in the window.
func (b *WindowAverage) Len() int {
	return b.n
}

// Reset clears the buffer.
func (b *WindowAverage) Reset() {
	b.head = 0
	b.n = 0
}

func (b *WindowAverage) newest() timedValue {
	return b.samples[(b.head+b.n-1)%len(b.samples)]
}
