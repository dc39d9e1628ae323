package flight

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/uber/h3-go/v4"

	"soarcalc/pkg/logging"
)

// updateMarkers maintains the climb and cruise start markers and reports
// the circling edges of this tick.
func (e *Engine) updateMarkers() (newThermal, leftThermal bool) {
	c := &e.calc
	newThermal = c.Circling && !e.last.Circling
	leftThermal = !c.Circling && e.last.Circling

	switch {
	case newThermal:
		c.ClimbStart = e.startHere()
		c.CruiseStart = inactiveStart()
		c.ThermalBand.MaxThermalHeight = 0
		c.BandHistogram.Reset()
		logging.TraceDefault("Flight: circling started", "time", e.cur.Time)
	case c.Circling:
		c.CruiseStart = inactiveStart()
	default:
		c.ClimbStart = inactiveStart()
	}
	return newThermal, leftThermal
}

func (e *Engine) startHere() PhaseStart {
	s := &e.cur
	te, _ := s.TotalEnergyAltitude()
	p := PhaseStart{
		Time:       s.Time,
		Location:   s.Location,
		Altitude:   s.NavAltitude,
		AltitudeTE: te,
	}
	if !s.TimeAvailable {
		p.Time = 0
	}
	return p
}

// updateCurrentThermal tracks the climb in progress.
func (e *Engine) updateCurrentThermal() {
	c := &e.calc
	te, ok := e.cur.TotalEnergyAltitude()
	if !c.Circling || !c.ClimbStart.Active() || !ok || !e.cur.TimeAvailable {
		c.CurrentThermal = ThermalInfo{}
		return
	}

	t := ThermalInfo{
		StartTime: c.ClimbStart.Time,
		EndTime:   e.cur.Time,
		Gain:      te - c.ClimbStart.AltitudeTE,
	}
	t.Duration = t.EndTime - t.StartTime
	if t.Duration > 0 {
		t.LiftRate = t.Gain / t.Duration
	}
	c.CurrentThermal = t
}

// finaliseThermal records the climb that just ended as the last thermal
// and estimates where it left the ground.
func (e *Engine) finaliseThermal() {
	c := &e.calc
	start := e.last.ClimbStart
	if !start.Active() {
		return
	}

	end := c.CruiseStart
	if !end.Active() {
		end = e.startHere()
	}

	t := ThermalInfo{
		StartTime: start.Time,
		EndTime:   end.Time,
		Gain:      end.AltitudeTE - start.AltitudeTE,
		Duration:  end.Time - start.Time,
	}
	if t.Duration < e.cfg.ThermalMinDuration || t.Duration <= 0 || t.Gain <= 0 {
		return
	}
	t.LiftRate = t.Gain / t.Duration
	c.LastThermal = t

	if e.smoothLiftSeeded {
		e.smoothLift += e.cfg.LastThermalSmoothing * (t.LiftRate - e.smoothLift)
	} else {
		e.smoothLift = t.LiftRate
		e.smoothLiftSeeded = true
	}
	c.LastThermalAverageSmooth = e.smoothLift

	slog.Info("Flight: thermal finished",
		"gain", int(t.Gain),
		"duration", int(t.Duration),
		"lift", t.LiftRate,
		"average", e.smoothLift)

	e.estimateSource(t)
}

// estimateSource records the ground origin of a finished thermal.
func (e *Engine) estimateSource(t ThermalInfo) {
	c := &e.calc
	if e.c.Base == nil {
		return
	}

	centre := c.ThermalLocator
	if !centre.Valid {
		// the locator drops its estimate as soon as circling stops
		centre = e.last.ThermalLocator
	}
	if !centre.Valid || !e.cur.NavAltitudeAvailable || t.LiftRate <= 0 {
		return
	}

	windSpeed := 0.0
	if c.WindAvailable {
		windSpeed = c.Wind.Speed
	}
	if windSpeed/t.LiftRate >= e.cfg.MaxWindLiftRatio {
		logging.TraceDefault("Flight: thermal source skipped, drift too strong",
			"wind", windSpeed, "lift", t.LiftRate)
		return
	}

	loc, ground := e.c.Base.EstimateBase(centre.Location, e.cur.NavAltitude, t.LiftRate, c.Wind)
	if ground <= 0 {
		return
	}

	src := ThermalSource{
		ID:           uuid.New(),
		Location:     loc,
		GroundHeight: ground,
		LiftRate:     t.LiftRate,
		Time:         e.cur.Time,
	}
	cell, err := h3.LatLngToCell(h3.NewLatLng(loc.Lat, loc.Lon), e.cfg.SourceCellResolution)
	if err != nil {
		slog.Debug("Flight: no H3 cell for thermal source", "error", err)
	} else {
		src.Cell = cell
	}

	merged := c.ThermalSources.Append(src, e.cfg.SourceCapacity)
	slog.Debug("Flight: thermal source", "lat", loc.Lat, "lon", loc.Lon, "ground", int(ground),
		"cell", src.Cell, "merged", merged)
}
