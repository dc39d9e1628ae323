package flight

import (
	"math"

	"soarcalc/pkg/geo"
)

// updateHeading derives the aircraft heading from the ground track
// corrected for wind. Without wind it is the track.
func (e *Engine) updateHeading() {
	s := &e.cur
	c := &e.calc

	if !s.TrackAvailable {
		return
	}

	// Without a ground speed the wind triangle cannot be solved.
	gs := s.GroundSpeed
	if !s.GroundSpeedAvailable || !c.WindAvailable || (gs <= 0 && c.Wind.Speed <= 0) || !c.Flying {
		c.Heading = s.Track
		return
	}

	track := geo.Radians(s.Track)
	wind := geo.Radians(c.Wind.Bearing)
	x := gs*math.Sin(track) + c.Wind.Speed*math.Sin(wind)
	y := gs*math.Cos(track) + c.Wind.Speed*math.Cos(wind)
	c.Heading = geo.NormalizeBearing(geo.Degrees(math.Atan2(x, y)))
}
