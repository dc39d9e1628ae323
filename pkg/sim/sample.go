package sim

import "soarcalc/pkg/geo"

// Sample represents one instrument reading. Every numeric field is paired
// with an availability flag which must be checked before use.
type Sample struct {
	Time          float64 // Seconds
	TimeAvailable bool

	Location          geo.Point
	LocationAvailable bool

	Track          float64 // Degrees True
	TrackAvailable bool

	GroundSpeed          float64 // m/s
	GroundSpeedAvailable bool

	IndicatedAirspeed float64 // m/s
	TrueAirspeed      float64 // m/s
	AirspeedAvailable bool

	BruttoVario          float64 // m/s
	BruttoVarioAvailable bool

	NettoVario          float64 // m/s
	NettoVarioAvailable bool

	TotalEnergyVario          float64 // m/s
	TotalEnergyVarioAvailable bool

	GLoad          float64 // g
	GLoadAvailable bool

	NavAltitude          float64 // Meters MSL
	NavAltitudeAvailable bool

	TEAltitude          float64 // Meters, total energy
	TEAltitudeAvailable bool

	EnergyHeight          float64 // Meters, v²/2g
	EnergyHeightAvailable bool

	// Replay is set while samples come from a logger replay rather than a live GPS.
	Replay bool
}

// TotalEnergyAltitude returns the total-energy altitude. It falls back to
// the navigation altitude plus energy height when no TE altitude is reported.
func (s *Sample) TotalEnergyAltitude() (float64, bool) {
	if s.TEAltitudeAvailable {
		return s.TEAltitude, true
	}
	if !s.NavAltitudeAvailable {
		return 0, false
	}
	if s.EnergyHeightAvailable {
		return s.NavAltitude + s.EnergyHeight, true
	}
	return s.NavAltitude, true
}

// Speed returns the best available speed for phase detection:
// indicated airspeed, else ground speed.
func (s *Sample) Speed() (float64, bool) {
	if s.AirspeedAvailable {
		return s.IndicatedAirspeed, true
	}
	if s.GroundSpeedAvailable {
		return s.GroundSpeed, true
	}
	return 0, false
}
