package flight

import (
	"math"

	"soarcalc/pkg/geo"
)

// liftStep is the heading step of the lift database, degrees.
const liftStep = 10.0

// HeadingToIndex maps a heading to its lift database bucket. Bucket i
// covers [i*10-5, i*10+5).
func HeadingToIndex(heading float64) int {
	i := int(math.Floor(geo.NormalizeBearing(heading+liftStep/2) / liftStep))
	return geo.Clamp(i, 0, LiftBuckets-1)
}

// updateLiftDatabase writes the current vario into every heading bucket
// swept since the previous tick and pushes the circle average to the trace
// each time the heading crosses north.
func (e *Engine) updateLiftDatabase(newThermal bool) {
	c := &e.calc

	if newThermal {
		c.ClearLiftDatabase()
		c.CirclingAverage.Clear()
	}
	if !c.Circling || !e.cur.BruttoVarioAvailable {
		return
	}

	vario := e.cur.BruttoVario
	left := e.c.Circling.TurningLeft()
	from := e.last.Heading
	to := c.Heading

	h := from
	for i := 0; i < LiftBuckets; i++ {
		d := geo.NormalizeAngle(h - to)
		if (left && d < 0) || (!left && d > 0) {
			break
		}
		c.LiftDatabase[HeadingToIndex(h)] = vario
		if left {
			h -= liftStep
		} else {
			h += liftStep
		}
	}

	if (from < 90 && to > 270) || (from > 270 && to < 90) {
		sum := 0.0
		for _, v := range c.LiftDatabase {
			sum += v
		}
		c.CirclingAverage.Push(sum / LiftBuckets)
	}
}
