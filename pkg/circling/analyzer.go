// Package circling detects thermalling turns from the ground track.
package circling

import (
	"math"

	"soarcalc/pkg/geo"
	"soarcalc/pkg/sim"
)

// Settings tunes turn detection.
type Settings struct {
	MinTurnRate       float64 // deg/s required to count as turning
	CruiseClimbSwitch float64 // seconds of turning before circling is confirmed
	ClimbCruiseSwitch float64 // seconds of straight flight before cruise is confirmed
	Smoothing         float64 // low pass factor for the turn rate, (0, 1]
}

// DefaultSettings returns the stock thresholds.
func DefaultSettings() Settings {
	return Settings{
		MinTurnRate:       4,
		CruiseClimbSwitch: 15,
		ClimbCruiseSwitch: 15,
		Smoothing:         0.3,
	}
}

// Analyzer computes the turn rate and drives the turn mode state machine.
type Analyzer struct {
	cfg Settings

	turnRate         float64
	turnRateSmoothed float64
	turning          bool
	mode             sim.TurnMode
	modeSince        float64
}

// New creates an analyzer in cruise mode.
func New(cfg Settings) *Analyzer {
	if cfg.Smoothing <= 0 || cfg.Smoothing > 1 {
		cfg.Smoothing = 1
	}
	return &Analyzer{cfg: cfg}
}

// Reset returns the analyzer to straight flight.
func (a *Analyzer) Reset() {
	a.turnRate = 0
	a.turnRateSmoothed = 0
	a.turning = false
	a.mode = sim.TurnCruise
	a.modeSince = 0
}

// TurnRate updates the turn rate from the track change between two samples.
func (a *Analyzer) TurnRate(cur, prev *sim.Sample) {
	if prev == nil || !cur.TrackAvailable || !prev.TrackAvailable ||
		!cur.TimeAvailable || !prev.TimeAvailable {
		return
	}

	dt := cur.Time - prev.Time
	if dt < 0 {
		a.turnRate = 0
		a.turnRateSmoothed = 0
		return
	}
	if dt == 0 {
		return
	}

	a.turnRate = geo.NormalizeAngle(cur.Track-prev.Track) / dt
	a.turnRateSmoothed += a.cfg.Smoothing * (a.turnRate - a.turnRateSmoothed)
}

// Turning updates the turning flag and the turn mode.
func (a *Analyzer) Turning(cur *sim.Sample, flying bool) {
	if !flying || !cur.TimeAvailable {
		a.turning = false
		a.mode = sim.TurnCruise
		return
	}

	a.turning = math.Abs(a.turnRateSmoothed) >= a.cfg.MinTurnRate
	now := cur.Time
	if now < a.modeSince {
		a.modeSince = now
	}

	switch a.mode {
	case sim.TurnCruise:
		if a.turning {
			a.setMode(sim.TurnPossibleClimb, now)
		}
	case sim.TurnPossibleClimb:
		switch {
		case !a.turning:
			a.setMode(sim.TurnCruise, now)
		case now-a.modeSince >= a.cfg.CruiseClimbSwitch:
			a.setMode(sim.TurnClimb, now)
		}
	case sim.TurnClimb:
		if !a.turning {
			a.setMode(sim.TurnPossibleCruise, now)
		}
	case sim.TurnPossibleCruise:
		switch {
		case a.turning:
			a.setMode(sim.TurnClimb, now)
		case now-a.modeSince >= a.cfg.ClimbCruiseSwitch:
			a.setMode(sim.TurnCruise, now)
		}
	}
}

func (a *Analyzer) setMode(m sim.TurnMode, now float64) {
	a.mode = m
	a.modeSince = now
}

// Mode returns the current turn mode.
func (a *Analyzer) Mode() sim.TurnMode {
	return a.mode
}

// IsTurning reports whether the smoothed turn rate exceeds the threshold.
func (a *Analyzer) IsTurning() bool {
	return a.turning
}

// TurningLeft reports whether the aircraft turns counter-clockwise.
func (a *Analyzer) TurningLeft() bool {
	return a.turnRateSmoothed < 0
}

// SmoothedTurnRate returns the filtered turn rate in deg/s.
func (a *Analyzer) SmoothedTurnRate() float64 {
	return a.turnRateSmoothed
}
