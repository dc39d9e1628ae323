// Package mocksim generates a synthetic glider flight as a sample stream:
// ground roll, aerotow, a number of cruise legs each followed by a circling
// climb, a final glide and the landing rollout.
package mocksim

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"soarcalc/pkg/geo"
	"soarcalc/pkg/sim"
)

// Flight stages of the synthetic flight.
const (
	StageParked     = "PARKED"
	StageRoll       = "ROLL"
	StageTow        = "TOW"
	StageCruise     = "CRUISE"
	StageThermal    = "THERMAL"
	StageFinalGlide = "FINAL_GLIDE"
	StageRollout    = "ROLLOUT"
	StageLanded     = "LANDED"
)

// ErrClosed is returned by Next after Close.
var ErrClosed = errors.New("mocksim: source closed")

// Config describes the synthetic flight.
type Config struct {
	StartLat     float64
	StartLon     float64
	FieldAlt     float64 // Meters MSL
	StartHeading float64 // Degrees, cruise direction
	Parked       time.Duration
	TowHeight    float64 // Meters above the field
	Thermals     int
	ThermalLift  float64 // m/s, air mass
	ThermalGain  float64 // Meters per thermal
	CruiseLeg    time.Duration
	WindSpeed    float64 // m/s
	WindBearing  float64 // Degrees, wind from
	SampleRate   time.Duration
	Noise        float64 // m/s, vario noise standard deviation
	Seed         int64
	// Pace delays each sample by wall-clock time; zero replays as fast as possible.
	Pace time.Duration
}

// Client implements sim.Source.
type Client struct {
	mu     sync.Mutex
	cfg    Config
	rng    *rand.Rand
	dt     float64
	closed bool

	t          float64
	stage      string
	stageStart float64
	pos        geo.Point
	alt        float64
	heading    float64 // Air heading
	tas        float64
	vario      float64 // Brutto, noise free
	turnRate   float64 // deg/s, negative is left

	entryAlt float64
	thermals int
	emitted  int
}

// NewClient creates a synthetic flight source.
func NewClient(cfg Config) *Client {
	dt := cfg.SampleRate.Seconds()
	if dt <= 0 {
		dt = 1
	}
	return &Client{
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		dt:      dt,
		stage:   StageParked,
		pos:     geo.Point{Lat: cfg.StartLat, Lon: cfg.StartLon},
		alt:     cfg.FieldAlt,
		heading: geo.NormalizeBearing(cfg.StartHeading),
	}
}

// Next returns the next sample of the flight. It returns sim.ErrSourceExhausted
// once the glider has been standing still long enough after landing.
func (c *Client) Next(ctx context.Context) (sim.Sample, error) {
	if err := ctx.Err(); err != nil {
		return sim.Sample{}, err
	}
	if c.cfg.Pace > 0 && c.Emitted() > 0 {
		timer := time.NewTimer(c.cfg.Pace)
		select {
		case <-ctx.Done():
			timer.Stop()
			return sim.Sample{}, ctx.Err()
		case <-timer.C:
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return sim.Sample{}, ErrClosed
	}
	if c.stage == StageLanded && c.t-c.stageStart >= landedHold {
		return sim.Sample{}, sim.ErrSourceExhausted
	}

	s := c.sample()
	c.advance()
	c.emitted++
	return s, nil
}

// Close stops the source.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Stage returns the stage the next sample is generated in.
func (c *Client) Stage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stage
}

// ThermalsCompleted returns the number of finished climbs.
func (c *Client) ThermalsCompleted() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.thermals
}

// Emitted returns the number of samples delivered.
func (c *Client) Emitted() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.emitted
}
