package flight

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"soarcalc/pkg/geo"
	"soarcalc/pkg/glide"
	"soarcalc/pkg/sim"
	"soarcalc/pkg/terrain"
	"soarcalc/pkg/waypoint"
)

type fakeTerrain struct {
	height float64
	status terrain.Status
}

func (f *fakeTerrain) HeightAt(geo.Point) (float64, terrain.Status) {
	return f.height, f.status
}

type fakeCircling struct {
	circling bool
	turning  bool
	left     bool
	resets   int
}

func (f *fakeCircling) TurnRate(cur, prev *sim.Sample)       {}
func (f *fakeCircling) Turning(cur *sim.Sample, flying bool) {}
func (f *fakeCircling) IsTurning() bool                      { return f.turning }
func (f *fakeCircling) TurningLeft() bool                    { return f.left }
func (f *fakeCircling) Reset()                               { f.resets++ }

func (f *fakeCircling) Mode() sim.TurnMode {
	if f.circling {
		return sim.TurnClimb
	}
	return sim.TurnCruise
}

type fakeWind struct {
	w      sim.Wind
	ok     bool
	resets int
}

func (f *fakeWind) Compute(cur *sim.Sample, circling bool) {}
func (f *fakeWind) Select(cur *sim.Sample) (sim.Wind, bool) {
	return f.w, f.ok
}

func (f *fakeWind) ComputeHeadWind(heading float64) (float64, bool) {
	if !f.ok {
		return 0, false
	}
	return f.w.Speed * math.Cos(geo.Radians(f.w.Bearing-heading)), true
}
func (f *fakeWind) Reset() { f.resets++ }

type fakeFlying struct {
	flying bool
	resets int
}

func (f *fakeFlying) Compute(cur *sim.Sample, agl float64, aglValid bool) bool {
	return f.flying
}
func (f *fakeFlying) Reset() { f.resets++ }

type fakeLocator struct {
	p      geo.Point
	ok     bool
	resets int
}

func (f *fakeLocator) Process(circling bool, t float64, p geo.Point, vario float64, w sim.Wind) (geo.Point, bool) {
	return f.p, f.ok
}
func (f *fakeLocator) Reset() { f.resets++ }

type accAdd struct {
	distance, altitude int
}

type fakeAccumulator struct {
	adds  []accAdd
	inits int
	ratio float64
}

func (f *fakeAccumulator) Initialize() {
	f.inits++
	f.adds = nil
}

func (f *fakeAccumulator) Add(distance, altitude int) {
	f.adds = append(f.adds, accAdd{distance, altitude})
}

func (f *fakeAccumulator) Calculate() float64 {
	if f.ratio == 0 {
		return glide.InvalidRatio
	}
	return f.ratio
}

type fakeBase struct {
	loc    geo.Point
	ground float64
	calls  int
}

func (f *fakeBase) EstimateBase(center geo.Point, altitude, lift float64, w sim.Wind) (geo.Point, float64) {
	f.calls++
	return f.loc, f.ground
}

type fakeStats struct {
	resets []bool
}

func (f *fakeStats) ResetStats(replaying bool) {
	f.resets = append(f.resets, replaying)
}

type fakeWaypoints struct {
	w  waypoint.Waypoint
	ok bool
}

func (f *fakeWaypoints) Nearest(p geo.Point, maxDist float64) (waypoint.Waypoint, bool) {
	return f.w, f.ok
}

// rig drives an engine with fake collaborators and a scripted glider.
type rig struct {
	e *Engine

	terr  *fakeTerrain
	circ  *fakeCircling
	wind  *fakeWind
	fly   *fakeFlying
	loc   *fakeLocator
	acc   *fakeAccumulator
	base  *fakeBase
	stats *fakeStats
	wps   *fakeWaypoints

	t     float64
	pos   geo.Point
	alt   float64
	track float64
	vario float64
}

func newRig(t *testing.T, edit ...func(*Settings)) *rig {
	t.Helper()
	r := &rig{
		terr:  &fakeTerrain{status: terrain.Invalid},
		circ:  &fakeCircling{},
		wind:  &fakeWind{},
		fly:   &fakeFlying{flying: true},
		loc:   &fakeLocator{},
		acc:   &fakeAccumulator{},
		base:  &fakeBase{},
		stats: &fakeStats{},
		wps:   &fakeWaypoints{},
		pos:   geo.Point{Lat: 47.0, Lon: 8.0},
		alt:   1500,
		vario: -1,
	}
	cfg := DefaultSettings()
	for _, f := range edit {
		f(&cfg)
	}
	e, err := New(cfg, r.wps, Collaborators{
		Terrain:     r.terr,
		Circling:    r.circ,
		Wind:        r.wind,
		Flying:      r.fly,
		Locator:     r.loc,
		Accumulator: r.acc,
		Base:        r.base,
		Stats:       r.stats,
	})
	require.NoError(t, err)
	r.e = e
	return r
}

func (r *rig) sample() sim.Sample {
	return sim.Sample{
		Time: r.t, TimeAvailable: true,
		Location: r.pos, LocationAvailable: true,
		Track: r.track, TrackAvailable: true,
		GroundSpeed: 25, GroundSpeedAvailable: true,
		IndicatedAirspeed: 25, TrueAirspeed: 25, AirspeedAvailable: true,
		BruttoVario: r.vario, BruttoVarioAvailable: true,
		TotalEnergyVario: r.vario, TotalEnergyVarioAvailable: true,
		NavAltitude: r.alt, NavAltitudeAvailable: true,
		TEAltitude: r.alt, TEAltitudeAvailable: true,
	}
}

// tick feeds one sample one second after the previous and returns the state.
func (r *rig) tick(edit ...func(*sim.Sample)) DerivedState {
	s := r.sample()
	for _, f := range edit {
		f(&s)
	}
	r.e.Update(s)
	r.t++
	return r.e.Calculated()
}

// cruise flies straight north for n seconds at the given glide ratio.
func (r *rig) cruise(n int, ld float64) DerivedState {
	r.circ.circling, r.circ.turning = false, false
	var st DerivedState
	for i := 0; i < n; i++ {
		st = r.tick()
		r.pos = geo.DestinationPoint(r.pos, 25, 0)
		r.alt -= 25 / ld
	}
	return st
}

// thermal circles for n seconds at the given lift rate and returns the
// state of the first straight tick after it.
func (r *rig) thermal(n int, lift float64) DerivedState {
	r.circ.circling, r.circ.turning = true, true
	r.vario = lift
	for i := 0; i < n; i++ {
		r.tick()
		r.alt += lift
	}
	r.circ.circling, r.circ.turning = false, false
	r.vario = -1
	return r.tick()
}
