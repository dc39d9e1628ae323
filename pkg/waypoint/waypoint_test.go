package waypoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soarcalc/pkg/geo"
)

func TestSet_Nearest(t *testing.T) {
	set, err := NewSet([]Waypoint{
		{Name: "Grenchen", Location: geo.Point{Lat: 47.1817, Lon: 7.4172}, Airfield: true},
		{Name: "Bern", Location: geo.Point{Lat: 46.9141, Lon: 7.4971}, Airfield: true},
		{Name: "Weissenstein", Location: geo.Point{Lat: 47.2517, Lon: 7.5070}},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, set.Len())

	tests := []struct {
		name    string
		p       geo.Point
		maxDist float64
		want    string
		wantOK  bool
	}{
		{"on the field", geo.Point{Lat: 47.1820, Lon: 7.4170}, 1000, "Grenchen", true},
		{"closer to the ridge", geo.Point{Lat: 47.24, Lon: 7.50}, 5000, "Weissenstein", true},
		{"out of range", geo.Point{Lat: 46.0, Lon: 9.0}, 5000, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, ok := set.Nearest(tt.p, tt.maxDist)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, w.Name)
		})
	}
}

func TestSet_Empty(t *testing.T) {
	var s *Set
	_, ok := s.Nearest(geo.Point{}, 1e9)
	assert.False(t, ok)

	s, err := NewSet(nil)
	require.NoError(t, err)
	_, ok = s.Nearest(geo.Point{}, 1e9)
	assert.False(t, ok)
}

func TestNewSet_OutOfBounds(t *testing.T) {
	_, err := NewSet([]Waypoint{{Name: "bad", Location: geo.Point{Lat: 95, Lon: 0}}})
	assert.Error(t, err)
}
