package mocksim

import (
	"math"

	"soarcalc/pkg/geo"
	"soarcalc/pkg/sim"
)

const (
	gravity = 9.81

	rollAccel   = 2.0  // m/s²
	brakeDecel  = 3.0  // m/s²
	towSpeed    = 32.0 // m/s
	towClimb    = 3.0  // m/s
	cruiseSpeed = 30.0
	cruiseSink  = 1.0
	circleSpeed = 24.0
	circleSink  = 0.8
	circleRate  = 18.0 // deg/s
	finalSpeed  = 35.0
	finalSink   = 2.0

	maxThermalTime = 1200.0 // seconds
	flareHeight    = 5.0
	landedHold     = 120.0 // seconds on the ground before the source ends
)

func (c *Client) enter(stage string) {
	c.stage = stage
	c.stageStart = c.t
}

// advance moves the flight forward by one sample interval.
func (c *Client) advance() {
	dt := c.dt
	elapsed := c.t - c.stageStart
	c.turnRate = 0

	switch c.stage {
	case StageParked:
		c.tas, c.vario = 0, 0
		if elapsed >= c.cfg.Parked.Seconds() {
			c.enter(StageRoll)
		}

	case StageRoll:
		c.vario = 0
		c.tas = math.Min(towSpeed, c.tas+rollAccel*dt)
		if c.tas >= towSpeed {
			c.enter(StageTow)
		}

	case StageTow:
		c.tas, c.vario = towSpeed, towClimb
		if c.alt-c.cfg.FieldAlt >= c.cfg.TowHeight {
			c.release()
		}

	case StageCruise:
		c.tas, c.vario = cruiseSpeed, -cruiseSink
		c.heading = geo.NormalizeBearing(c.cfg.StartHeading)
		if elapsed >= c.cfg.CruiseLeg.Seconds() {
			c.entryAlt = c.alt
			c.enter(StageThermal)
		}

	case StageThermal:
		c.tas, c.vario = circleSpeed, c.cfg.ThermalLift-circleSink
		// Alternate the turn direction between climbs
		c.turnRate = circleRate
		if c.thermals%2 == 1 {
			c.turnRate = -circleRate
		}
		c.heading = geo.NormalizeBearing(c.heading + c.turnRate*dt)
		if c.alt-c.entryAlt >= c.cfg.ThermalGain || elapsed >= maxThermalTime {
			c.thermals++
			c.release()
		}

	case StageFinalGlide:
		c.tas, c.vario = finalSpeed, -finalSink
		home := geo.Point{Lat: c.cfg.StartLat, Lon: c.cfg.StartLon}
		if geo.Distance(c.pos, home) > 500 {
			c.heading = geo.Bearing(c.pos, home)
		}
		if c.alt-c.cfg.FieldAlt <= flareHeight {
			c.alt = c.cfg.FieldAlt
			c.vario = 0
			c.enter(StageRollout)
		}

	case StageRollout:
		c.vario = 0
		c.tas = math.Max(0, c.tas-brakeDecel*dt)
		if c.tas == 0 {
			c.enter(StageLanded)
		}

	case StageLanded:
		c.tas, c.vario = 0, 0
	}

	gs, track := c.groundVector()
	if gs > 0 {
		c.pos = geo.DestinationPoint(c.pos, gs*dt, track)
	}
	c.alt = math.Max(c.cfg.FieldAlt, c.alt+c.vario*dt)
	c.t += dt
}

func (c *Client) release() {
	if c.thermals < c.cfg.Thermals {
		c.enter(StageCruise)
		return
	}
	c.enter(StageFinalGlide)
}

func (c *Client) onGround() bool {
	switch c.stage {
	case StageParked, StageRoll, StageRollout, StageLanded:
		return true
	}
	return false
}

// groundVector adds the wind drift to the air vector. Wind is ignored on the ground.
func (c *Client) groundVector() (speed, track float64) {
	if c.onGround() {
		return c.tas, c.heading
	}
	h := geo.Radians(c.heading)
	drift := geo.Radians(c.cfg.WindBearing + 180)
	vn := c.tas*math.Cos(h) + c.cfg.WindSpeed*math.Cos(drift)
	ve := c.tas*math.Sin(h) + c.cfg.WindSpeed*math.Sin(drift)
	speed = math.Hypot(vn, ve)
	if speed == 0 {
		return 0, c.heading
	}
	return speed, geo.NormalizeBearing(geo.Degrees(math.Atan2(ve, vn)))
}

// polarSink returns the still-air sink rate of the current stage.
func (c *Client) polarSink() float64 {
	switch c.stage {
	case StageCruise:
		return cruiseSink
	case StageThermal:
		return circleSink
	case StageFinalGlide:
		return finalSink
	case StageTow:
		return cruiseSink
	}
	return 0
}

func (c *Client) sample() sim.Sample {
	gs, track := c.groundVector()

	vario := c.vario
	if c.cfg.Noise > 0 && !c.onGround() {
		vario += c.rng.NormFloat64() * c.cfg.Noise
	}

	g := 1.0
	if c.turnRate != 0 {
		bank := math.Atan(c.tas * geo.Radians(math.Abs(c.turnRate)) / gravity)
		g = 1 / math.Cos(bank)
	}

	return sim.Sample{
		Time:          c.t,
		TimeAvailable: true,

		Location:          c.pos,
		LocationAvailable: true,

		Track:          track,
		TrackAvailable: true,

		GroundSpeed:          gs,
		GroundSpeedAvailable: true,

		IndicatedAirspeed: c.tas,
		TrueAirspeed:      c.tas,
		AirspeedAvailable: true,

		BruttoVario:          vario,
		BruttoVarioAvailable: true,

		NettoVario:          vario + c.polarSink(),
		NettoVarioAvailable: true,

		TotalEnergyVario:          vario,
		TotalEnergyVarioAvailable: true,

		GLoad:          g,
		GLoadAvailable: true,

		NavAltitude:          c.alt,
		NavAltitudeAvailable: true,

		EnergyHeight:          c.tas * c.tas / (2 * gravity),
		EnergyHeightAvailable: true,

		Replay: true,
	}
}
