package main

import (
	"fmt"
	"log/slog"
	"time"

	"soarcalc/pkg/circling"
	"soarcalc/pkg/config"
	"soarcalc/pkg/flight"
	"soarcalc/pkg/geo"
	"soarcalc/pkg/sim"
	"soarcalc/pkg/sim/mocksim"
	"soarcalc/pkg/terrain"
	"soarcalc/pkg/waypoint"
	"soarcalc/pkg/wind"
)

// buildEngine wires the flight engine from the configuration. The returned
// function releases the elevation file.
func buildEngine(cfg *config.Config) (*flight.Engine, func(), error) {
	tp, closeTerrain, err := terrainProvider(cfg)
	if err != nil {
		return nil, nil, err
	}

	wps, err := waypoints(cfg.Waypoints)
	if err != nil {
		closeTerrain()
		return nil, nil, err
	}

	c := flight.DefaultCollaborators(tp, circlingSettings(&cfg.Circling), windSettings(&cfg.Wind), stageMachine(&cfg.Flying))
	c.Stats = statsLogger{}

	eng, err := flight.New(flightSettings(&cfg.Flight), wps, c)
	if err != nil {
		closeTerrain()
		return nil, nil, fmt.Errorf("failed to create flight engine: %w", err)
	}
	return eng, closeTerrain, nil
}

// terrainProvider opens the ETOPO1 file when configured. Without one the
// synthetic flight is flown over level ground at field elevation.
func terrainProvider(cfg *config.Config) (flight.TerrainProvider, func(), error) {
	if cfg.Terrain.ElevationFile == "" {
		slog.Info("No elevation file configured, assuming level terrain", "height", cfg.Replay.FieldAlt)
		return terrain.Flat{Height: cfg.Replay.FieldAlt}, func() {}, nil
	}
	ep, err := terrain.NewElevationProvider(cfg.Terrain.ElevationFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open elevation file: %w", err)
	}
	r := terrain.NewResolver(ep, cfg.Terrain.CacheSize, time.Duration(cfg.Terrain.CacheTTL))
	return r, func() { _ = ep.Close() }, nil
}

func waypoints(items []config.WaypointConfig) (*waypoint.Set, error) {
	wps := make([]waypoint.Waypoint, 0, len(items))
	for _, w := range items {
		wps = append(wps, waypoint.Waypoint{
			Name:      w.Name,
			Location:  geo.Point{Lat: w.Lat, Lon: w.Lon},
			Elevation: w.Elevation,
			Airfield:  w.Airfield,
		})
	}
	set, err := waypoint.NewSet(wps)
	if err != nil {
		return nil, fmt.Errorf("failed to build waypoint index: %w", err)
	}
	return set, nil
}

func flightSettings(c *config.FlightConfig) flight.Settings {
	return flight.Settings{
		SafetyHeight:         c.SafetyHeight.Meters(),
		TerrainBaseFallback:  c.TerrainBaseFallback.Meters(),
		LDFactor:             c.LDFactor,
		LDVarioFactor:        c.LDVarioFactor,
		CruiseLDFactor:       c.CruiseLDFactor,
		ThermalMinDuration:   c.ThermalMinDuration.Seconds(),
		LastThermalSmoothing: c.LastThermalSmoothing,
		SourceCapacity:       c.SourceCapacity,
		MaxWindLiftRatio:     c.MaxWindLiftRatio,
		VarioWindow:          c.VarioWindow.Seconds(),
		TakeoffSiteRange:     c.TakeoffSiteRange.Meters(),
		SourceCellResolution: c.SourceCellResolution,
	}
}

func circlingSettings(c *config.CirclingConfig) circling.Settings {
	return circling.Settings{
		MinTurnRate:       c.MinTurnRate,
		CruiseClimbSwitch: c.CruiseClimbSwitch.Seconds(),
		ClimbCruiseSwitch: c.ClimbCruiseSwitch.Seconds(),
		Smoothing:         c.Smoothing,
	}
}

func windSettings(c *config.WindConfig) wind.Settings {
	return wind.Settings{
		UseManual:     c.UseManual,
		ManualSpeed:   c.ManualSpeed.MetersPerSecond(),
		ManualBearing: c.ManualBearing,
		Smoothing:     c.Smoothing,
	}
}

func stageMachine(c *config.FlyingConfig) *sim.StageMachine {
	m := sim.NewStageMachine()
	m.TakeoffSpeed = c.TakeoffSpeed.MetersPerSecond()
	m.LandingSpeed = c.LandingSpeed.MetersPerSecond()
	m.TakeoffHold = c.TakeoffHold.Seconds()
	m.LandingHold = c.LandingHold.Seconds()
	return m
}

func newSource(cfg *config.Config, pace time.Duration) *mocksim.Client {
	r := &cfg.Replay
	return mocksim.NewClient(mocksim.Config{
		StartLat:     r.StartLat,
		StartLon:     r.StartLon,
		FieldAlt:     r.FieldAlt,
		StartHeading: r.StartHeading,
		Parked:       time.Duration(r.Parked),
		TowHeight:    r.TowHeight.Meters(),
		Thermals:     r.Thermals,
		ThermalLift:  r.ThermalLift,
		ThermalGain:  r.ThermalGain.Meters(),
		CruiseLeg:    time.Duration(r.CruiseLeg),
		WindSpeed:    r.WindSpeed.MetersPerSecond(),
		WindBearing:  r.WindBearing,
		SampleRate:   time.Duration(r.SampleRate),
		Noise:        r.Noise,
		Seed:         r.Seed,
		Pace:         pace,
	})
}
