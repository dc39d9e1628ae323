package flight

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soarcalc/pkg/circling"
	"soarcalc/pkg/geo"
	"soarcalc/pkg/glide"
	"soarcalc/pkg/sim"
	"soarcalc/pkg/terrain"
	"soarcalc/pkg/wind"
)

func TestTerrain(t *testing.T) {
	tests := []struct {
		name        string
		height      float64
		status      terrain.Status
		noLocation  bool
		noAltitude  bool
		wantValid   bool
		wantTerrain float64
		wantAGL     float64
		wantAGLOK   bool
	}{
		{name: "land", height: 500, status: terrain.Valid, wantValid: true, wantTerrain: 500, wantAGL: 1000, wantAGLOK: true},
		{name: "water", height: -30, status: terrain.Water, wantValid: true, wantTerrain: 0, wantAGL: 1500, wantAGLOK: true},
		{name: "no data", height: 500, status: terrain.Invalid, wantValid: false},
		{name: "no location", height: 500, status: terrain.Valid, noLocation: true, wantValid: false},
		{name: "no altitude", height: 500, status: terrain.Valid, noAltitude: true, wantValid: true, wantTerrain: 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig(t)
			r.terr.height, r.terr.status = tt.height, tt.status
			r.tick() // takeoff
			st := r.tick(func(s *sim.Sample) {
				s.LocationAvailable = !tt.noLocation
				s.NavAltitudeAvailable = !tt.noAltitude
			})
			assert.Equal(t, tt.wantValid, st.TerrainValid)
			assert.Equal(t, tt.wantTerrain, st.TerrainAltitude)
			assert.Equal(t, tt.wantAGLOK, st.AltitudeAGLValid)
			if tt.wantAGLOK {
				assert.Equal(t, tt.wantAGL, st.AltitudeAGL)
			}
		})
	}
}

func TestTerrain_NoProvider(t *testing.T) {
	e, err := New(DefaultSettings(), nil, Collaborators{
		Circling:    &fakeCircling{},
		Wind:        &fakeWind{},
		Flying:      &fakeFlying{},
		Locator:     &fakeLocator{},
		Accumulator: &fakeAccumulator{},
	})
	require.NoError(t, err)
	e.Update(sim.Sample{Location: geo.Point{Lat: 1, Lon: 1}, LocationAvailable: true, NavAltitude: 900, NavAltitudeAvailable: true})
	st := e.Calculated()
	assert.False(t, st.TerrainValid)
	assert.False(t, st.AltitudeAGLValid)
	assert.Equal(t, 0.0, st.AltitudeAGL)
}

func TestHeading(t *testing.T) {
	tests := []struct {
		name      string
		track     float64
		gs        float64
		gsMissing bool
		wind      sim.Wind
		windOK    bool
		flying    bool
		want      float64
	}{
		{name: "no wind", track: 123, gs: 25, flying: true, want: 123},
		{name: "crosswind from east", track: 0, gs: 20, wind: sim.Wind{Speed: 20, Bearing: 90}, windOK: true, flying: true, want: 45},
		{name: "headwind", track: 270, gs: 20, wind: sim.Wind{Speed: 10, Bearing: 270}, windOK: true, flying: true, want: 270},
		{name: "on the ground", track: 0, gs: 20, wind: sim.Wind{Speed: 20, Bearing: 90}, windOK: true, flying: false, want: 0},
		{name: "hovering in wind", track: 0, gs: 0, wind: sim.Wind{Speed: 10, Bearing: 180}, windOK: true, flying: true, want: 180},
		{name: "calm and still", track: 42, gs: 0, wind: sim.Wind{}, windOK: true, flying: true, want: 42},
		{name: "no ground speed", track: 30, gsMissing: true, wind: sim.Wind{Speed: 10, Bearing: 180}, windOK: true, flying: true, want: 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig(t)
			r.fly.flying = tt.flying
			r.wind.w, r.wind.ok = tt.wind, tt.windOK
			r.tick() // takeoff
			r.tick() // wind is used from the next tick on
			st := r.tick(func(s *sim.Sample) {
				s.Track = tt.track
				s.GroundSpeed = tt.gs
				s.GroundSpeedAvailable = !tt.gsMissing
			})
			assert.InDelta(t, tt.want, st.Heading, 1e-9)
		})
	}
}

func TestBand(t *testing.T) {
	r := newRig(t)
	r.terr.height, r.terr.status = 500, terrain.Valid
	r.tick()
	r.alt = 1500
	st := r.tick()

	assert.Equal(t, 700.0, st.ThermalBand.WorkingHeight)
	assert.Equal(t, 1.0, st.ThermalBand.WorkingFraction)
	assert.Equal(t, 1500.0, st.ThermalBand.Ceiling)

	r.alt = 700
	st = r.tick()
	assert.Equal(t, -100.0, st.ThermalBand.WorkingHeight)
	assert.Equal(t, 0.0, st.ThermalBand.WorkingFraction)
}

func TestBand_TerrainFallback(t *testing.T) {
	r := newRig(t, func(s *Settings) { s.TerrainBaseFallback = 200 })
	r.tick()
	r.alt = 1000
	st := r.tick()
	assert.Equal(t, 500.0, st.ThermalBand.WorkingHeight)
}

func TestBand_Accumulation(t *testing.T) {
	r := newRig(t)
	r.terr.height, r.terr.status = 0, terrain.Valid
	r.alt = 1300
	r.tick()

	r.circ.circling, r.circ.turning = true, true
	r.vario = 2
	var st DerivedState
	for i := 0; i < 30; i++ {
		st = r.tick()
		if i == 0 {
			assert.Equal(t, 1000.0, st.ThermalBand.MaxThermalHeight, "seeded with working height")
		}
		r.alt += 2
	}
	assert.InDelta(t, 1058, st.ThermalBand.MaxThermalHeight, 1e-9)
	assert.False(t, st.BandHistogram.Empty())
	assert.InDelta(t, 1058.0/1056, st.ThermalBand.WorkingFraction, 1e-9, "fraction uses the height before this tick")
	assert.InDelta(t, 1058+300, st.ThermalBand.Ceiling, 1e-9)

	// cruise lower, fraction drops below one
	r.circ.circling, r.circ.turning = false, false
	r.alt = 800
	st = r.tick()
	assert.InDelta(t, 500.0/1058, st.ThermalBand.WorkingFraction, 1e-9)
	assert.InDelta(t, 1058, st.ThermalBand.MaxThermalHeight, 1e-9, "kept until the next thermal")

	// next thermal starts from scratch
	r.circ.circling, r.circ.turning = true, true
	st = r.tick()
	assert.Equal(t, 500.0, st.ThermalBand.MaxThermalHeight, "reseeded by the new thermal")
	assert.Equal(t, 500.0, st.BandHistogram.MaxHeight())
}

func TestBand_SinkingNotAccumulated(t *testing.T) {
	r := newRig(t)
	r.terr.height, r.terr.status = 0, terrain.Valid
	r.tick()

	r.circ.circling, r.circ.turning = true, true
	r.vario = -2
	var st DerivedState
	for i := 0; i < 10; i++ {
		st = r.tick()
	}
	assert.True(t, st.BandHistogram.Empty())
	assert.Equal(t, 0.0, st.ThermalBand.MaxThermalHeight)
}

func TestGlide_LDAndAccumulator(t *testing.T) {
	r := newRig(t)
	st := r.cruise(20, 40)
	assert.InDelta(t, 40, st.LD, 0.1)
	assert.InDelta(t, 40, st.CruiseLD, 0.1)
	assert.InDelta(t, 25, st.LDVario, 1e-9)

	// every straight tick after takeoff feeds the accumulator
	require.Len(t, r.acc.adds, 19)
	assert.Equal(t, 25, r.acc.adds[0].distance)
	assert.InDelta(t, r.alt+25/40.0, float64(r.acc.adds[18].altitude), 0.5)

	r.thermal(50, 2)
	assert.Len(t, r.acc.adds, 19+1, "only the straight tick after the thermal")
}

func TestGlide_CruiseLDLatchesAfterThermal(t *testing.T) {
	r := newRig(t)
	r.cruise(10, 30)
	st := r.thermal(50, 2)
	require.True(t, st.CruiseStart.Active())
	assert.Equal(t, st.LastThermal.EndTime, st.CruiseStart.Time)
	start := st.CruiseStart

	st = r.cruise(10, 20)
	assert.Equal(t, start, st.CruiseStart)
	assert.InDelta(t, 20, st.CruiseLD, 0.5)
}

func TestGlide_LDVarioRequiresInputs(t *testing.T) {
	r := newRig(t)
	r.tick()
	st := r.tick(func(s *sim.Sample) { s.AirspeedAvailable = false })
	assert.Equal(t, glide.InvalidRatio, st.LDVario)

	st = r.tick()
	assert.InDelta(t, 25.0, st.LDVario, 1e-9)

	r.fly.flying = false
	r.tick() // landing
	st = r.tick()
	assert.Equal(t, glide.InvalidRatio, st.LDVario)
}

func TestGlide_AverageLDFromAccumulator(t *testing.T) {
	r := newRig(t)
	r.acc.ratio = 33
	st := r.tick()
	assert.Equal(t, glide.InvalidRatio, st.AverageLD, "takeoff reset")
	st = r.tick()
	assert.Equal(t, 33.0, st.AverageLD)
}

func TestClimbHistory(t *testing.T) {
	tests := []struct {
		name     string
		circling bool
		gload    float64
		gloadOK  bool
		tas      float64
		want     int
	}{
		{name: "cruise", tas: 27, want: 1},
		{name: "smooth air", gload: 1.2, gloadOK: true, tas: 27, want: 1},
		{name: "pull up", gload: 1.3, gloadOK: true, tas: 27, want: 0},
		{name: "push over", gload: 0.7, gloadOK: true, tas: 27, want: 0},
		{name: "circling", circling: true, tas: 27, want: 0},
		{name: "no true airspeed", tas: 0, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig(t)
			r.tick()
			r.circ.circling = tt.circling
			st := r.tick(func(s *sim.Sample) {
				s.IndicatedAirspeed = 25.4
				s.TrueAirspeed = tt.tas
				s.TotalEnergyVario = -0.8
				s.GLoad, s.GLoadAvailable = tt.gload, tt.gloadOK
			})
			assert.Equal(t, tt.want, st.ClimbHistory.Count(25))
			if tt.want > 0 {
				assert.InDelta(t, -0.8*25.4/27, st.ClimbHistory.Get(25), 1e-9)
			}
		})
	}
}

func TestBasic_AverageVario(t *testing.T) {
	r := newRig(t)
	r.tick()
	var st DerivedState
	for i := 0; i < 40; i++ {
		r.vario = float64(i % 2)
		st = r.tick(func(s *sim.Sample) { s.NettoVario, s.NettoVarioAvailable = 0.5, true })
	}
	assert.InDelta(t, 0.5, st.AverageVario, 0.05)
	assert.InDelta(t, 0.5, st.AverageNetto, 1e-9)
}

func TestBasic_AverageVarioAtFiveHertz(t *testing.T) {
	r := newRig(t)
	r.tick()
	var st DerivedState
	for i := 0; i < 150; i++ {
		r.vario = 4
		if i >= 100 {
			r.vario = 0
		}
		ts := 1 + float64(i)*0.2
		st = r.tick(func(s *sim.Sample) { s.Time = ts })
	}
	// 30 s window holds all 150 samples
	assert.InDelta(t, 4.0*100/150, st.AverageVario, 1e-9)
}

func TestBasic_StillTimeNotAveraged(t *testing.T) {
	r := newRig(t)
	r.tick()
	r.vario = 2
	r.tick()
	r.t--
	r.vario = 10
	st := r.tick()
	assert.Equal(t, 2.0, st.AverageVario)
}

func TestLastDoesNotAlias(t *testing.T) {
	r := newRig(t)
	r.circ.circling, r.circ.turning = true, true
	r.vario = 1
	r.tick()
	r.track = 40
	r.tick()
	r.vario = 5
	r.track = 80
	r.tick()

	last := r.e.Last()
	cur := r.e.Calculated()
	assert.NotEqual(t, last.LiftDatabase, cur.LiftDatabase)
	cur.LiftDatabase[0] = 99
	assert.NotEqual(t, 99.0, r.e.Calculated().LiftDatabase[0])
}

// TestInvariants_RandomStream drives the reference collaborators with a
// noisy, scrubbed sample stream and checks the state invariants on every tick.
func TestInvariants_RandomStream(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	cfg := DefaultSettings()
	cfg.SourceCapacity = 5
	c := DefaultCollaborators(nil, circling.DefaultSettings(), wind.DefaultSettings(), nil)
	e, err := New(cfg, nil, c)
	require.NoError(t, err)

	now := 0.0
	pos := geo.Point{Lat: 46.8, Lon: 7.3}
	alt := 2000.0
	track := 0.0
	turn := 0.0
	replay := false

	for i := 0; i < 5000; i++ {
		switch {
		case rng.Intn(400) == 0:
			now -= rng.Float64() * 60
		case rng.Intn(300) == 0:
			replay = !replay
		default:
			now += 1
		}
		if i%90 == 0 {
			turn = []float64{0, 15, -18, 0, 25}[rng.Intn(5)]
		}
		track = geo.NormalizeBearing(track + turn + rng.NormFloat64()*3)
		pos = geo.DestinationPoint(pos, 25, track)
		vario := rng.NormFloat64() * 2
		if turn != 0 {
			vario += 1.5
		}
		alt += vario

		s := sim.Sample{
			Time: now, TimeAvailable: rng.Intn(50) != 0,
			Location: pos, LocationAvailable: rng.Intn(30) != 0,
			Track: track, TrackAvailable: true,
			GroundSpeed: 20 + rng.Float64()*15, GroundSpeedAvailable: true,
			IndicatedAirspeed: 25 + rng.NormFloat64(), TrueAirspeed: 27, AirspeedAvailable: rng.Intn(20) != 0,
			BruttoVario: vario, BruttoVarioAvailable: true,
			NettoVario: vario + 0.7, NettoVarioAvailable: true,
			TotalEnergyVario: vario, TotalEnergyVarioAvailable: true,
			GLoad: 1 + rng.NormFloat64()*0.2, GLoadAvailable: true,
			NavAltitude: alt, NavAltitudeAvailable: rng.Intn(40) != 0,
			Replay: replay,
		}
		if rng.Intn(100) == 0 {
			s.IndicatedAirspeed = math.NaN()
		}
		if rng.Intn(100) == 0 {
			s.TotalEnergyVario = math.Inf(-1)
		}

		require.NotPanics(t, func() { e.Update(s) })
		st := e.Calculated()

		for _, ld := range []float64{st.LD, st.LDVario, st.CruiseLD, st.AverageLD} {
			require.False(t, math.IsNaN(ld) || math.IsInf(ld, 0), "tick %d: %v", i, ld)
			require.True(t, glide.Valid(ld) || ld == glide.InvalidRatio, "tick %d: %v", i, ld)
		}
		require.GreaterOrEqual(t, st.CirclingPercentage, 0.0)
		require.LessOrEqual(t, st.CirclingPercentage, 100.0)
		require.LessOrEqual(t, st.ThermalSources.Len(), cfg.SourceCapacity)
		if st.TimeClimb+st.TimeCruise <= 1 {
			require.Equal(t, 0.0, st.CirclingPercentage)
		}
		if !st.Circling {
			require.False(t, st.ClimbStart.Active(), "tick %d", i)
		} else {
			require.False(t, st.CruiseStart.Active(), "tick %d", i)
		}
	}
}
