// Package waypoint holds a read-only set of named turnpoints and airfields.
package waypoint

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/quadtree"

	"soarcalc/pkg/geo"
)

// Waypoint is a named location.
type Waypoint struct {
	Name      string
	Location  geo.Point
	Elevation float64 // Meters MSL
	Airfield  bool
}

// Point implements orb.Pointer.
func (w *Waypoint) Point() orb.Point {
	return w.Location.Orb()
}

// candidates is how many planar neighbours are re-ranked by great-circle distance.
const candidates = 4

// Set is an immutable collection indexed for nearest lookups.
type Set struct {
	items []Waypoint
	tree  *quadtree.Quadtree
}

// NewSet indexes the given waypoints.
func NewSet(items []Waypoint) (*Set, error) {
	s := &Set{
		items: make([]Waypoint, len(items)),
		tree:  quadtree.New(orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}}),
	}
	copy(s.items, items)
	for i := range s.items {
		if err := s.tree.Add(&s.items[i]); err != nil {
			return nil, fmt.Errorf("waypoint %q: %w", s.items[i].Name, err)
		}
	}
	return s, nil
}

// Len returns the number of waypoints.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Nearest returns the closest waypoint within maxDist meters.
func (s *Set) Nearest(p geo.Point, maxDist float64) (Waypoint, bool) {
	if s.Len() == 0 {
		return Waypoint{}, false
	}

	var buf [candidates]orb.Pointer
	found := s.tree.KNearest(buf[:0], p.Orb(), candidates)

	best := -1.0
	var out Waypoint
	for _, f := range found {
		w := f.(*Waypoint)
		d := geo.Distance(p, w.Location)
		if best < 0 || d < best {
			best = d
			out = *w
		}
	}
	if best < 0 || best > maxDist || math.IsNaN(best) {
		return Waypoint{}, false
	}
	return out, true
}
