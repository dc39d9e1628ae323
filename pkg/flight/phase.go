package flight

import (
	"log/slog"

	"github.com/google/uuid"
)

// ProcessTimes handles time retreats, take-off and landing and accumulates
// the climb and cruise times.
func (e *Engine) ProcessTimes() {
	if e.tick == tickRetreat && e.cur.LocationAvailable {
		// A retreat that coincides with a replay on/off switch is a replay reset,
		// whichever way the flag switched.
		replayReset := e.cur.Replay != e.prev.Replay
		slog.Info("Flight: time retreat, resetting", "from", e.prev.Time, "to", e.cur.Time,
			"replay_reset", replayReset, "replay", e.cur.Replay)
		e.ResetFlight(true)
		e.calc.Replaying = e.cur.Replay
		e.notifyReset(replayReset)
		return
	}

	e.calc.Replaying = e.cur.Replay
	wasFlying := e.calc.Flying
	flying := e.c.Flying.Compute(&e.cur, e.calc.AltitudeAGL, e.calc.AltitudeAGLValid)

	switch {
	case flying && !wasFlying:
		e.takeoff()
		return
	case !flying && wasFlying:
		e.landing()
		return
	}

	if !flying || !e.timeAdvanced() {
		return
	}

	c := &e.calc
	c.FlightTime = e.cur.Time - c.TakeoffTime
	if c.Circling && c.Turning {
		c.TimeClimb += e.dt
	} else {
		c.TimeCruise += e.dt
	}

	total := c.TimeClimb + c.TimeCruise
	if total > e.dt {
		c.CirclingPercentage = 100 * c.TimeClimb / total
	} else {
		c.CirclingPercentage = 0
	}
}

func (e *Engine) takeoff() {
	e.resetStats()
	e.notifyReset(e.cur.Replay)

	c := &e.calc
	c.Flying = true
	c.Replaying = e.cur.Replay
	c.TakeoffTime = e.cur.Time
	c.TakeoffLocation = e.cur.Location
	c.FlightID = uuid.New()
	if e.waypoints != nil && e.cur.LocationAvailable {
		if w, ok := e.waypoints.Nearest(e.cur.Location, e.cfg.TakeoffSiteRange); ok {
			c.TakeoffSite = w.Name
		}
	}

	e.finish = e.calc
	slog.Info("Flight: takeoff", "time", c.TakeoffTime, "site", c.TakeoffSite, "flight_id", c.FlightID)
}

func (e *Engine) landing() {
	c := &e.calc
	slog.Info("Flight: landing",
		"time", e.cur.Time,
		"flight_time", c.FlightTime,
		"circling_pct", int(c.CirclingPercentage),
		"task_finished", c.TaskFinished)

	if c.TaskFinished {
		e.calc = e.finish
	}
	e.calc.Flying = false
}

// OnFinishTask marks the task as finished and keeps a copy of the current
// statistics, which are restored after landing.
func (e *Engine) OnFinishTask() {
	e.calc.TaskFinished = true
	e.finish = e.calc
	slog.Info("Flight: task finished", "time", e.cur.Time)
}

// ResetFlight clears the flight statistics. A full reset also forgets that
// the aircraft is flying and resets the flying detector, circling analyzer
// and wind estimator.
func (e *Engine) ResetFlight(full bool) {
	if full {
		e.c.Flying.Reset()
		e.c.Circling.Reset()
		e.c.Wind.Reset()
		e.calc.reset()
		e.finish = e.calc
	}
	e.resetStats()
}

// resetStats clears the derived statistics but keeps the flight status.
func (e *Engine) resetStats() {
	c := &e.calc
	flying := c.Flying
	takeoffTime, takeoffLocation, site, id := c.TakeoffTime, c.TakeoffLocation, c.TakeoffSite, c.FlightID
	replaying := c.Replaying

	c.reset()
	c.Flying = flying
	c.Replaying = replaying
	if flying {
		c.TakeoffTime, c.TakeoffLocation, c.TakeoffSite, c.FlightID = takeoffTime, takeoffLocation, site, id
	}
	c.LastThermalAverageSmooth = e.smoothLift

	e.varioAvg.Reset()
	e.nettoAvg.Reset()
	e.c.Locator.Reset()
	e.c.Accumulator.Initialize()
}

func (e *Engine) notifyReset(replaying bool) {
	if e.c.Stats != nil {
		e.c.Stats.ResetStats(replaying)
	}
}
