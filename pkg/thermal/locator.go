// Package thermal locates the core of the thermal being circled and
// extrapolates it down-drift to its ground source.
package thermal

import (
	"math"

	"soarcalc/pkg/geo"
	"soarcalc/pkg/sim"
)

const (
	// LocatorCapacity is the number of circling samples kept.
	LocatorCapacity = 60
	// MinLiftPoints is the number of rising samples needed for an estimate.
	MinLiftPoints = 10
	// decayTime weights older samples down, seconds.
	decayTime = 30.0
)

type liftPoint struct {
	t    float64
	p    geo.Point
	lift float64
}

// Locator estimates the thermal centre as the lift-weighted centroid of
// recent circling positions, each drifted with the wind to the present.
type Locator struct {
	points [LocatorCapacity]liftPoint
	head   int
	n      int
}

// NewLocator creates an empty locator.
func NewLocator() *Locator {
	return &Locator{}
}

// Reset drops all samples.
func (l *Locator) Reset() {
	l.head = 0
	l.n = 0
}

// Process adds a sample while circling and returns the current estimate.
// Samples are discarded when circling stops or time runs backwards.
func (l *Locator) Process(circling bool, t float64, p geo.Point, vario float64, w sim.Wind) (geo.Point, bool) {
	if !circling {
		l.Reset()
		return geo.Point{}, false
	}
	if l.n > 0 && t < l.latest().t {
		l.Reset()
	}

	l.points[l.head] = liftPoint{t: t, p: p, lift: vario}
	l.head = (l.head + 1) % LocatorCapacity
	if l.n < LocatorCapacity {
		l.n++
	}

	return l.estimate(t, w)
}

func (l *Locator) latest() liftPoint {
	return l.points[(l.head+LocatorCapacity-1)%LocatorCapacity]
}

func (l *Locator) estimate(now float64, w sim.Wind) (geo.Point, bool) {
	var sumW, sumLat, sumLon float64
	rising := 0
	downwind := w.Bearing + 180

	for i := 0; i < l.n; i++ {
		pt := l.points[i]
		if pt.lift <= 0 {
			continue
		}
		rising++

		p := pt.p
		if age := now - pt.t; age > 0 && w.Speed > 0 {
			p = geo.DestinationPoint(p, w.Speed*age, downwind)
		}
		weight := pt.lift * math.Exp(-(now-pt.t)/decayTime)
		sumW += weight
		sumLat += weight * p.Lat
		sumLon += weight * p.Lon
	}

	if rising < MinLiftPoints || sumW <= 0 {
		return geo.Point{}, false
	}
	return geo.Point{Lat: sumLat / sumW, Lon: sumLon / sumW}, true
}
