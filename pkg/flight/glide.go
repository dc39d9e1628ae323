package flight

import (
	"math"

	"soarcalc/pkg/geo"
	"soarcalc/pkg/glide"
)

// updateLD smooths the glide ratio over the last tick.
func (e *Engine) updateLD() {
	c := &e.calc
	if e.tick == tickRetreat {
		c.LD = glide.InvalidRatio
		return
	}

	prev := e.previousSample()
	if !e.timeAdvanced() || prev == nil ||
		!e.cur.LocationAvailable || !prev.LocationAvailable ||
		!e.cur.NavAltitudeAvailable || !prev.NavAltitudeAvailable {
		return
	}

	dist := geo.Distance(prev.Location, e.cur.Location)
	c.LD = glide.UpdateLD(c.LD, dist, prev.NavAltitude-e.cur.NavAltitude, e.cfg.LDFactor)

	if c.Flying && !c.Circling {
		e.c.Accumulator.Add(int(math.Round(dist)), int(math.Round(e.cur.NavAltitude)))
	}
}

// updateLDVario derives the glide ratio from airspeed and sink rate.
func (e *Engine) updateLDVario() {
	c := &e.calc
	s := &e.cur
	if !s.AirspeedAvailable || !s.TotalEnergyVarioAvailable || !c.Flying {
		c.LDVario = glide.InvalidRatio
		return
	}
	c.LDVario = glide.UpdateLD(c.LDVario, s.IndicatedAirspeed, -s.TotalEnergyVario, e.cfg.LDVarioFactor)
}

// updateCruiseLD tracks the glide ratio since the start of the cruise leg.
func (e *Engine) updateCruiseLD() {
	c := &e.calc
	s := &e.cur
	if c.Circling || !s.LocationAvailable || !s.NavAltitudeAvailable || !s.TimeAvailable {
		return
	}

	if !c.CruiseStart.Active() {
		te, _ := s.TotalEnergyAltitude()
		c.CruiseStart = PhaseStart{
			Time:       s.Time,
			Location:   s.Location,
			Altitude:   s.NavAltitude,
			AltitudeTE: te,
		}
		return
	}

	dist := geo.Distance(c.CruiseStart.Location, s.Location)
	c.CruiseLD = glide.UpdateLD(c.CruiseLD, dist, c.CruiseStart.Altitude-s.NavAltitude, e.cfg.CruiseLDFactor)
}
