package thermal

import (
	"soarcalc/pkg/geo"
	"soarcalc/pkg/sim"
	"soarcalc/pkg/terrain"
)

// baseSteps bounds the down-drift extrapolation.
const baseSteps = 50

// Terrain answers ground height queries.
type Terrain interface {
	HeightAt(p geo.Point) (float64, terrain.Status)
}

// BaseEstimator traces a thermal from altitude back down to where it left
// the ground, moving upwind by the drift accumulated while air rose at the
// measured lift rate.
type BaseEstimator struct {
	terrain Terrain
}

// NewBaseEstimator creates an estimator. A nil terrain treats ground as sea level.
func NewBaseEstimator(t Terrain) *BaseEstimator {
	return &BaseEstimator{terrain: t}
}

// EstimateBase returns the estimated source location and its ground height.
func (b *BaseEstimator) EstimateBase(center geo.Point, altitude, lift float64, w sim.Wind) (geo.Point, float64) {
	if altitude <= 0 || lift <= 0 || !geo.IsFinite(altitude) || !geo.IsFinite(lift) {
		return center, b.ground(center)
	}

	dh := altitude / baseSteps
	loc := center
	ground := b.ground(center)
	for i := 1; i <= baseSteps; i++ {
		h := altitude - float64(i)*dh
		drift := w.Speed * (altitude - h) / lift
		loc = center
		if drift > 0 {
			loc = geo.DestinationPoint(center, drift, w.Bearing)
		}
		ground = b.ground(loc)
		if h <= ground {
			break
		}
	}
	return loc, ground
}

func (b *BaseEstimator) ground(p geo.Point) float64 {
	if b.terrain == nil {
		return 0
	}
	h, st := b.terrain.HeightAt(p)
	if st != terrain.Valid {
		return 0
	}
	return h
}
