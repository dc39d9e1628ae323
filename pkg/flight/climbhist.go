package flight

import (
	"math"

	"soarcalc/pkg/geo"
)

// maxGLoadDeviation excludes pull-ups and pushovers from the histogram.
const maxGLoadDeviation = 0.25

// updateClimbHistory records the cruise climb rate by indicated airspeed.
func (e *Engine) updateClimbHistory() {
	s := &e.cur
	if e.calc.Circling || !s.AirspeedAvailable || !s.TotalEnergyVarioAvailable ||
		s.IndicatedAirspeed <= 0 || s.TrueAirspeed <= 0 {
		return
	}
	if s.GLoadAvailable && math.Abs(s.GLoad-1) > maxGLoadDeviation {
		return
	}

	climb := s.TotalEnergyVario * s.IndicatedAirspeed / s.TrueAirspeed
	if !geo.IsFinite(climb) {
		return
	}
	e.calc.ClimbHistory.Add(int(math.Round(s.IndicatedAirspeed)), climb)
}
