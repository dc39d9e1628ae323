package flight

import (
	"soarcalc/pkg/geo"
	"soarcalc/pkg/sim"
	"soarcalc/pkg/terrain"
	"soarcalc/pkg/waypoint"
)

// TerrainProvider returns the ground height at a location.
type TerrainProvider interface {
	HeightAt(p geo.Point) (float64, terrain.Status)
}

// CirclingAnalyzer detects turns and the circling mode.
type CirclingAnalyzer interface {
	TurnRate(cur, prev *sim.Sample)
	Turning(cur *sim.Sample, flying bool)
	Mode() sim.TurnMode
	IsTurning() bool
	TurningLeft() bool
	Reset()
}

// WindEstimator estimates and selects the wind vector.
type WindEstimator interface {
	Compute(cur *sim.Sample, circling bool)
	Select(cur *sim.Sample) (sim.Wind, bool)
	ComputeHeadWind(heading float64) (float64, bool)
	Reset()
}

// FlyingDetector decides whether the aircraft is airborne.
type FlyingDetector interface {
	Compute(cur *sim.Sample, agl float64, aglValid bool) bool
	Reset()
}

// ThermalLocator estimates the centre of the thermal being circled.
type ThermalLocator interface {
	Process(circling bool, t float64, p geo.Point, vario float64, w sim.Wind) (geo.Point, bool)
	Reset()
}

// GlideAccumulator averages the glide ratio across thermals.
type GlideAccumulator interface {
	Initialize()
	Add(distance, altitude int)
	Calculate() float64
}

// BaseEstimator extrapolates a thermal down-drift to its ground source.
type BaseEstimator interface {
	EstimateBase(center geo.Point, altitude, lift float64, w sim.Wind) (geo.Point, float64)
}

// StatsResetter is notified whenever the flight statistics are reset.
type StatsResetter interface {
	ResetStats(replaying bool)
}

// Waypoints is a read-only waypoint lookup.
type Waypoints interface {
	Nearest(p geo.Point, maxDist float64) (waypoint.Waypoint, bool)
}

// Collaborators bundles the components the engine delegates to. Terrain,
// Stats and Base may be nil.
type Collaborators struct {
	Terrain     TerrainProvider
	Circling    CirclingAnalyzer
	Wind        WindEstimator
	Flying      FlyingDetector
	Locator     ThermalLocator
	Accumulator GlideAccumulator
	Base        BaseEstimator
	Stats       StatsResetter
}
