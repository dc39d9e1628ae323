// Package geo provides the geographic primitives shared by the flight
// computer: points, great-circle distance, bearings and angle wrapping.
package geo

import (
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"golang.org/x/exp/constraints"
)

// Point represents a geographic coordinate.
type Point struct {
	Lat float64
	Lon float64
}

// Orb returns the point in orb's [lon, lat] order.
func (p Point) Orb() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// FromOrb converts an orb point back to a Point.
func FromOrb(o orb.Point) Point {
	return Point{Lat: o.Lat(), Lon: o.Lon()}
}

// IsZero reports whether the point is the zero value.
func (p Point) IsZero() bool {
	return p.Lat == 0 && p.Lon == 0
}

// Distance calculates the Haversine distance between two points in meters.
func Distance(p1, p2 Point) float64 {
	return orbgeo.DistanceHaversine(p1.Orb(), p2.Orb())
}

// DestinationPoint calculates the destination point from a start point, given distance (in meters) and bearing (in degrees).
func DestinationPoint(start Point, distMeters, bearing float64) Point {
	return FromOrb(orbgeo.PointAtBearingAndDistance(start.Orb(), bearing, distMeters))
}

// Bearing calculates the initial bearing (forward azimuth) from p1 to p2 in degrees [0, 360).
func Bearing(p1, p2 Point) float64 {
	return NormalizeBearing(orbgeo.Bearing(p1.Orb(), p2.Orb()))
}

// NormalizeAngle normalizes an angle difference to the range [-180, 180).
// Non-finite input yields 0.
func NormalizeAngle(angleDeg float64) float64 {
	if math.IsNaN(angleDeg) || math.IsInf(angleDeg, 0) {
		return 0
	}
	a := math.Mod(angleDeg+180, 360)
	if a < 0 {
		a += 360
	}
	return a - 180
}

// NormalizeBearing reduces an angle to [0, 360).
// Non-finite input yields 0.
func NormalizeBearing(angleDeg float64) float64 {
	if math.IsNaN(angleDeg) || math.IsInf(angleDeg, 0) {
		return 0
	}
	a := math.Mod(angleDeg, 360)
	if a < 0 {
		a += 360
	}
	// -1e-15 + 360 rounds to 360
	if a >= 360 {
		a = 0
	}
	return a
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * (180.0 / math.Pi)
}

// Clamp limits x to [low, high].
func Clamp[T constraints.Ordered](x, low, high T) T {
	if x < low {
		return low
	}
	if x > high {
		return high
	}
	return x
}

// Sqr returns v*v.
func Sqr[V constraints.Integer | constraints.Float](v V) V { return v * v }

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
