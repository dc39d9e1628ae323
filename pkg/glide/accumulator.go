package glide

// AccumulatorSize is the number of samples averaged (at 1 Hz, two minutes).
const AccumulatorSize = 120

type record struct {
	distance int
	altitude int
}

// Accumulator computes the average glide ratio over the most recent
// samples of a cruise. It keeps a fixed ring of (distance flown since the
// previous sample, altitude) pairs.
type Accumulator struct {
	records  [AccumulatorSize]record
	start    int
	n        int
	totalDst int
}

// NewAccumulator returns an initialized accumulator.
func NewAccumulator() *Accumulator {
	a := &Accumulator{}
	a.Initialize()
	return a
}

// Initialize clears all samples.
func (a *Accumulator) Initialize() {
	a.start = 0
	a.n = 0
	a.totalDst = 0
}

// Add records the distance flown since the last sample and the current altitude, both in meters.
func (a *Accumulator) Add(distance, altitude int) {
	if a.n == AccumulatorSize {
		// Oldest record leaves the window
		a.totalDst -= a.records[a.start].distance
		a.start = (a.start + 1) % AccumulatorSize
		a.n--
	}
	a.records[(a.start+a.n)%AccumulatorSize] = record{distance: distance, altitude: altitude}
	a.n++
	a.totalDst += distance
}

// Len returns the number of samples held.
func (a *Accumulator) Len() int {
	return a.n
}

// Calculate returns the average glide ratio over the window, or
// InvalidRatio when fewer than two samples exist or no height was lost.
func (a *Accumulator) Calculate() float64 {
	if a.n < 2 {
		return InvalidRatio
	}
	first := a.records[a.start]
	last := a.records[(a.start+a.n-1)%AccumulatorSize]
	heightLoss := first.altitude - last.altitude
	// The first record's distance was flown before its altitude was taken
	distance := a.totalDst - first.distance
	if heightLoss <= 0 || distance <= 0 {
		return InvalidRatio
	}
	ld := float64(distance) / float64(heightLoss)
	if ld >= InvalidRatio {
		return InvalidRatio
	}
	return ld
}
