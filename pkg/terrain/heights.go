package terrain

import (
	"log/slog"
	"math"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"soarcalc/pkg/geo"
)

// Status classifies a terrain lookup.
type Status int

const (
	// Invalid means no elevation is known for the point.
	Invalid Status = iota
	// Valid means the height is ground elevation above sea level.
	Valid
	// Water means the point is over sea; the height is 0.
	Water
)

func (s Status) String() string {
	switch s {
	case Valid:
		return "valid"
	case Water:
		return "water"
	}
	return "invalid"
}

type cellKey struct {
	row, col int32
}

type cachedHeight struct {
	height int16
	status Status
}

// DefaultCacheSize is the number of grid cells kept by a Resolver.
const DefaultCacheSize = 4096

// Resolver answers height queries from an ElevationGetter, caching grid
// cells so that a glider circling over the same ground does not re-read the
// file every tick.
type Resolver struct {
	src   ElevationGetter
	cache *expirable.LRU[cellKey, cachedHeight]
}

// NewResolver wraps src. A size <= 0 uses DefaultCacheSize; ttl 0 keeps
// entries until evicted.
func NewResolver(src ElevationGetter, size int, ttl time.Duration) *Resolver {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Resolver{
		src:   src,
		cache: expirable.NewLRU[cellKey, cachedHeight](size, nil, ttl),
	}
}

// HeightAt returns the ground height at p and its status.
func (r *Resolver) HeightAt(p geo.Point) (float64, Status) {
	if r == nil || r.src == nil {
		return 0, Invalid
	}

	key := cellKey{
		row: int32(math.Round(p.Lat * cellsPerDegree)),
		col: int32(math.Round(p.Lon * cellsPerDegree)),
	}
	if c, ok := r.cache.Get(key); ok {
		return float64(c.height), c.status
	}

	c := cachedHeight{status: Valid}
	h, err := r.src.GetElevation(p.Lat, p.Lon)
	switch {
	case err != nil:
		slog.Debug("Terrain lookup failed", "lat", p.Lat, "lon", p.Lon, "error", err)
		c.status = Invalid
	case h < 0:
		c.status = Water
	default:
		c.height = h
	}

	r.cache.Add(key, c)
	return float64(c.height), c.status
}

// Len returns the number of cached cells.
func (r *Resolver) Len() int {
	return r.cache.Len()
}

// Flat is level terrain at a fixed height, for synthetic flights without
// elevation data.
type Flat struct {
	Height float64
}

// HeightAt returns the fixed height.
func (f Flat) HeightAt(geo.Point) (float64, Status) {
	if f.Height < 0 {
		return 0, Water
	}
	return f.Height, Valid
}
