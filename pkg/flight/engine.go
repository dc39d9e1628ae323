// Package flight turns the instrument sample stream into the derived flight
// state: circling statistics, lift by heading, the thermal band, glide
// ratios, thermal sources and flight phase bookkeeping.
//
// The engine is single threaded. Per sample call Push, then ProcessBasic,
// ProcessVertical and ProcessTimes, or simply Update.
package flight

import (
	"errors"
	"fmt"

	"soarcalc/pkg/sim"
)

// ErrMissingCollaborator is returned by New when a required collaborator is nil.
var ErrMissingCollaborator = errors.New("missing collaborator")

// Settings tunes the engine.
type Settings struct {
	SafetyHeight         float64 // Meters above terrain considered the floor
	TerrainBaseFallback  float64 // Terrain height assumed when none is known
	LDFactor             float64
	LDVarioFactor        float64
	CruiseLDFactor       float64
	ThermalMinDuration   float64 // Seconds
	LastThermalSmoothing float64
	SourceCapacity       int
	MaxWindLiftRatio     float64
	VarioWindow          float64 // Seconds
	TakeoffSiteRange     float64 // Meters
	SourceCellResolution int     // H3 resolution of thermal source cells
}

// DefaultSettings returns the stock tuning.
func DefaultSettings() Settings {
	return Settings{
		SafetyHeight:         300,
		TerrainBaseFallback:  0,
		LDFactor:             0.1,
		LDVarioFactor:        0.3,
		CruiseLDFactor:       0.5,
		ThermalMinDuration:   45,
		LastThermalSmoothing: 0.3,
		SourceCapacity:       MaxThermalSources,
		MaxWindLiftRatio:     10,
		VarioWindow:          30,
		TakeoffSiteRange:     2000,
		SourceCellResolution: 9,
	}
}

// tickKind classifies the time step between the last two samples.
type tickKind int

const (
	tickUnavailable tickKind = iota
	tickAdvance
	tickRetreat
	tickStill
)

// Engine owns the current and previous derived state.
type Engine struct {
	cfg       Settings
	waypoints Waypoints
	c         Collaborators

	calc   DerivedState
	last   DerivedState
	finish DerivedState

	cur, prev sim.Sample
	samples   int
	tick      tickKind
	dt        float64

	varioAvg *sim.WindowAverage
	nettoAvg *sim.WindowAverage

	smoothLift       float64
	smoothLiftSeeded bool
}

// New creates an engine. waypoints may be nil.
func New(cfg Settings, waypoints Waypoints, c Collaborators) (*Engine, error) {
	switch {
	case c.Circling == nil:
		return nil, fmt.Errorf("%w: circling analyzer", ErrMissingCollaborator)
	case c.Wind == nil:
		return nil, fmt.Errorf("%w: wind estimator", ErrMissingCollaborator)
	case c.Flying == nil:
		return nil, fmt.Errorf("%w: flying detector", ErrMissingCollaborator)
	case c.Locator == nil:
		return nil, fmt.Errorf("%w: thermal locator", ErrMissingCollaborator)
	case c.Accumulator == nil:
		return nil, fmt.Errorf("%w: glide accumulator", ErrMissingCollaborator)
	}

	e := &Engine{
		cfg:       cfg,
		waypoints: waypoints,
		c:         c,
		varioAvg:  sim.NewWindowAverage(cfg.VarioWindow),
		nettoAvg:  sim.NewWindowAverage(cfg.VarioWindow),
	}
	e.calc.reset()
	e.last.reset()
	e.finish.reset()
	e.c.Accumulator.Initialize()
	return e, nil
}

// Push makes s the current sample. The state computed so far becomes the
// previous state.
func (e *Engine) Push(s sim.Sample) {
	e.prev = e.cur
	e.cur = s
	e.samples++
	e.last = e.calc

	e.tick = tickUnavailable
	e.dt = 0
	if e.samples > 1 && e.cur.TimeAvailable && e.prev.TimeAvailable {
		e.dt = e.cur.Time - e.prev.Time
		switch {
		case e.dt < 0:
			e.tick = tickRetreat
		case e.dt > 0:
			e.tick = tickAdvance
		default:
			e.tick = tickStill
		}
	}
}

// Update runs all phases for one sample.
func (e *Engine) Update(s sim.Sample) {
	e.Push(s)
	e.ProcessBasic()
	e.ProcessVertical()
	e.ProcessTimes()
}

// Calculated returns a copy of the current state.
func (e *Engine) Calculated() DerivedState {
	return e.calc
}

// Last returns a copy of the previous tick's state.
func (e *Engine) Last() DerivedState {
	return e.last
}

func (e *Engine) previousSample() *sim.Sample {
	if e.samples < 2 {
		return nil
	}
	return &e.prev
}

func (e *Engine) timeAdvanced() bool {
	return e.tick == tickAdvance
}

// ProcessBasic resolves terrain and the averaged varios.
func (e *Engine) ProcessBasic() {
	e.updateTerrain()

	if !e.timeAdvanced() {
		return
	}
	if e.cur.BruttoVarioAvailable {
		e.calc.AverageVario = e.varioAvg.Update(e.cur.Time, e.cur.BruttoVario)
	}
	if e.cur.NettoVarioAvailable {
		e.calc.AverageNetto = e.nettoAvg.Update(e.cur.Time, e.cur.NettoVario)
	}
}

// ProcessVertical updates the circling, wind, lift and glide statistics.
func (e *Engine) ProcessVertical() {
	e.updateHeading()
	e.updateCircling()
	newThermal, leftThermal := e.updateMarkers()
	e.updateWind()
	e.updateLocator()
	e.updateLD()
	e.updateLDVario()
	e.updateCruiseLD()
	if leftThermal {
		e.finaliseThermal()
	}
	e.updateCurrentThermal()
	e.updateBand()
	e.updateLiftDatabase(newThermal)
	e.updateClimbHistory()
	e.calc.AverageLD = e.c.Accumulator.Calculate()
}

func (e *Engine) updateCircling() {
	e.c.Circling.TurnRate(&e.cur, e.previousSample())
	e.c.Circling.Turning(&e.cur, e.calc.Flying)
	e.calc.TurnMode = e.c.Circling.Mode()
	e.calc.Circling = e.calc.TurnMode.Circling()
	e.calc.Turning = e.c.Circling.IsTurning()
}

func (e *Engine) updateWind() {
	e.c.Wind.Compute(&e.cur, e.calc.Circling)
	e.calc.Wind, e.calc.WindAvailable = e.c.Wind.Select(&e.cur)
	if !e.calc.WindAvailable {
		e.calc.Wind = sim.Wind{}
	}
	e.calc.HeadWind, e.calc.HeadWindAvailable = e.c.Wind.ComputeHeadWind(e.calc.Heading)
}

func (e *Engine) updateLocator() {
	if !e.cur.TimeAvailable || !e.cur.LocationAvailable {
		e.calc.ThermalLocator = Locator{}
		return
	}
	vario := 0.0
	if e.cur.BruttoVarioAvailable {
		vario = e.cur.BruttoVario
	}
	p, ok := e.c.Locator.Process(e.calc.Circling, e.cur.Time, e.cur.Location, vario, e.calc.Wind)
	e.calc.ThermalLocator = Locator{Location: p, Valid: ok}
}
