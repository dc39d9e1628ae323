package thermal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soarcalc/pkg/geo"
	"soarcalc/pkg/sim"
	"soarcalc/pkg/terrain"
)

// orbit returns a point on a 100 m circle around c.
func orbit(c geo.Point, deg float64) geo.Point {
	return geo.DestinationPoint(c, 100, deg)
}

func TestLocator_CentreOfCircle(t *testing.T) {
	l := NewLocator()
	centre := geo.Point{Lat: 46.5, Lon: 7.5}

	var got geo.Point
	var ok bool
	for i := 0; i < 36; i++ {
		got, ok = l.Process(true, float64(i), orbit(centre, float64(i)*10), 2, sim.Wind{})
		if i < MinLiftPoints-1 {
			assert.False(t, ok, "sample %d", i)
		}
	}
	require.True(t, ok)
	assert.Less(t, geo.Distance(got, centre), 30.0, "recent samples weigh more")
}

func TestLocator_WeightsStrongerLift(t *testing.T) {
	l := NewLocator()
	centre := geo.Point{Lat: 46.5, Lon: 7.5}

	var got geo.Point
	for i := 0; i < 36; i++ {
		deg := float64(i) * 10
		lift := 0.5
		if deg < 90 || deg > 270 {
			lift = 4 // strong on the north side
		}
		got, _ = l.Process(true, float64(i), orbit(centre, deg), lift, sim.Wind{})
	}
	assert.Greater(t, got.Lat, centre.Lat)
}

func TestLocator_DriftsWithWind(t *testing.T) {
	l := NewLocator()
	centre := geo.Point{Lat: 46.5, Lon: 7.5}
	w := sim.Wind{Speed: 5, Bearing: 270} // from the west

	var got geo.Point
	for i := 0; i < 36; i++ {
		got, _ = l.Process(true, float64(i), orbit(centre, float64(i)*10), 2, w)
	}
	assert.Greater(t, got.Lon, centre.Lon, "estimate moves downwind (east)")
}

func TestLocator_ResetWhenNotCircling(t *testing.T) {
	l := NewLocator()
	centre := geo.Point{Lat: 46.5, Lon: 7.5}
	for i := 0; i < 20; i++ {
		l.Process(true, float64(i), orbit(centre, float64(i)*10), 2, sim.Wind{})
	}
	_, ok := l.Process(false, 21, centre, 2, sim.Wind{})
	assert.False(t, ok)
	_, ok = l.Process(true, 22, centre, 2, sim.Wind{})
	assert.False(t, ok, "history cleared")
}

func TestLocator_SinkIgnored(t *testing.T) {
	l := NewLocator()
	centre := geo.Point{Lat: 46.5, Lon: 7.5}
	for i := 0; i < LocatorCapacity*2; i++ {
		_, ok := l.Process(true, float64(i), orbit(centre, float64(i)*10), -1, sim.Wind{})
		assert.False(t, ok)
	}
}

type flatTerrain struct {
	height float64
	status terrain.Status
}

func (f flatTerrain) HeightAt(geo.Point) (float64, terrain.Status) {
	return f.height, f.status
}

func TestBaseEstimator_EstimateBase(t *testing.T) {
	centre := geo.Point{Lat: 46.5, Lon: 7.5}

	tests := []struct {
		name       string
		terrain    Terrain
		altitude   float64
		lift       float64
		wind       sim.Wind
		wantGround float64
		wantDist   float64 // expected upwind distance, -1 to skip
	}{
		{
			name:       "calm over flat ground",
			terrain:    flatTerrain{500, terrain.Valid},
			altitude:   1500,
			lift:       2,
			wantGround: 500,
			wantDist:   0,
		},
		{
			name:       "wind drifts source upwind",
			terrain:    flatTerrain{500, terrain.Valid},
			altitude:   1500,
			lift:       2,
			wind:       sim.Wind{Speed: 4, Bearing: 270},
			wantGround: 500,
			wantDist:   4 * 1020 / 2.0, // stops at the first step at or below ground
		},
		{
			name:       "water has no ground",
			terrain:    flatTerrain{0, terrain.Water},
			altitude:   1000,
			lift:       2,
			wind:       sim.Wind{Speed: 3, Bearing: 0},
			wantGround: 0,
			wantDist:   -1,
		},
		{
			name:       "no lift",
			terrain:    flatTerrain{300, terrain.Valid},
			altitude:   1000,
			lift:       0,
			wantGround: 300,
			wantDist:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBaseEstimator(tt.terrain)
			loc, ground := b.EstimateBase(centre, tt.altitude, tt.lift, tt.wind)
			assert.Equal(t, tt.wantGround, ground)
			if tt.wantDist >= 0 {
				assert.InDelta(t, tt.wantDist, geo.Distance(centre, loc), 1)
			}
			if tt.wind.Speed > 0 && tt.lift > 0 && tt.wantDist > 0 {
				brg := geo.Bearing(centre, loc)
				assert.Less(t, math.Abs(geo.NormalizeAngle(brg-tt.wind.Bearing)), 1.0)
			}
		})
	}
}

func TestBaseEstimator_NilTerrain(t *testing.T) {
	b := NewBaseEstimator(nil)
	_, ground := b.EstimateBase(geo.Point{Lat: 1, Lon: 1}, 1000, 2, sim.Wind{})
	assert.Equal(t, 0.0, ground)
}
