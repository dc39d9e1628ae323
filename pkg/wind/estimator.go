// Package wind estimates the wind vector from circling drift and selects
// between the estimate and a manually configured wind.
package wind

import (
	"math"

	"soarcalc/pkg/geo"
	"soarcalc/pkg/sim"
)

// Settings configures wind selection.
type Settings struct {
	// UseManual forces the manual wind even when an estimate exists.
	UseManual     bool
	ManualSpeed   float64 // m/s
	ManualBearing float64 // Degrees, wind from
	// Smoothing blends each new circle estimate into the previous one, (0, 1].
	Smoothing float64
}

// DefaultSettings returns automatic estimation with moderate smoothing.
func DefaultSettings() Settings {
	return Settings{Smoothing: 0.5}
}

// Estimator derives wind from ground speed variation over full circles.
type Estimator struct {
	cfg Settings

	// current circle
	active     bool
	lastTrack  float64
	turned     float64
	minGS      float64
	maxGS      float64
	minGSTrack float64

	estimate      sim.Wind
	estimateValid bool

	selected      sim.Wind
	selectedValid bool
}

// NewEstimator creates an estimator.
func NewEstimator(cfg Settings) *Estimator {
	if cfg.Smoothing <= 0 || cfg.Smoothing > 1 {
		cfg.Smoothing = 1
	}
	return &Estimator{cfg: cfg}
}

// Reset drops the estimate and any circle in progress.
func (e *Estimator) Reset() {
	*e = Estimator{cfg: e.cfg}
}

// Compute feeds one sample. Only circling samples with track and ground
// speed contribute.
func (e *Estimator) Compute(cur *sim.Sample, circling bool) {
	if !circling || !cur.TrackAvailable || !cur.GroundSpeedAvailable {
		e.active = false
		return
	}

	if !e.active {
		e.startCircle(cur)
		return
	}

	e.turned += geo.NormalizeAngle(cur.Track - e.lastTrack)
	e.lastTrack = cur.Track
	if cur.GroundSpeed < e.minGS {
		e.minGS = cur.GroundSpeed
		e.minGSTrack = cur.Track
	}
	if cur.GroundSpeed > e.maxGS {
		e.maxGS = cur.GroundSpeed
	}

	if math.Abs(e.turned) >= 360 {
		e.finishCircle()
		e.startCircle(cur)
	}
}

func (e *Estimator) startCircle(cur *sim.Sample) {
	e.active = true
	e.lastTrack = cur.Track
	e.turned = 0
	e.minGS = cur.GroundSpeed
	e.maxGS = cur.GroundSpeed
	e.minGSTrack = cur.Track
}

func (e *Estimator) finishCircle() {
	// Slowest ground speed is flown straight into wind.
	w := sim.Wind{
		Speed:   (e.maxGS - e.minGS) / 2,
		Bearing: geo.NormalizeBearing(e.minGSTrack),
	}
	if !e.estimateValid {
		e.estimate = w
		e.estimateValid = true
		return
	}

	// blend as vectors so bearings wrap correctly
	k := e.cfg.Smoothing
	px, py := components(e.estimate)
	nx, ny := components(w)
	x := px + k*(nx-px)
	y := py + k*(ny-py)
	e.estimate = sim.Wind{
		Speed:   math.Hypot(x, y),
		Bearing: geo.NormalizeBearing(geo.Degrees(math.Atan2(x, y))),
	}
}

func components(w sim.Wind) (x, y float64) {
	r := geo.Radians(w.Bearing)
	return w.Speed * math.Sin(r), w.Speed * math.Cos(r)
}

// Select returns the wind to use for this tick.
func (e *Estimator) Select(_ *sim.Sample) (sim.Wind, bool) {
	switch {
	case e.cfg.UseManual:
		e.selected = sim.Wind{Speed: e.cfg.ManualSpeed, Bearing: geo.NormalizeBearing(e.cfg.ManualBearing)}
		e.selectedValid = true
	case e.estimateValid:
		e.selected = e.estimate
		e.selectedValid = true
	default:
		e.selected = sim.Wind{}
		e.selectedValid = false
	}
	return e.selected, e.selectedValid
}

// ComputeHeadWind returns the wind component along the given heading,
// positive for a head wind. It uses the wind returned by the last Select.
func (e *Estimator) ComputeHeadWind(heading float64) (float64, bool) {
	if !e.selectedValid {
		return 0, false
	}
	return e.selected.Speed * math.Cos(geo.Radians(e.selected.Bearing-heading)), true
}
