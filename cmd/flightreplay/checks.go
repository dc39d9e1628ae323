package main

import (
	"context"
	"errors"
	"fmt"

	"soarcalc/pkg/config"
	"soarcalc/pkg/geo"
	"soarcalc/pkg/probe"
	"soarcalc/pkg/terrain"
)

var errNoAirfield = errors.New("no airfield within takeoff range of the start position")

// startupProbes checks the replay inputs before the engine runs. A broken
// elevation file is fatal; a start far from any airfield only loses the
// takeoff site name.
func startupProbes(cfg *config.Config) []probe.Probe {
	probes := []probe.Probe{{
		Name:     "Waypoint Index",
		Critical: false,
		Check: func(context.Context) error {
			set, err := waypoints(cfg.Waypoints)
			if err != nil {
				return err
			}
			start := geo.Point{Lat: cfg.Replay.StartLat, Lon: cfg.Replay.StartLon}
			if _, ok := set.Nearest(start, cfg.Flight.TakeoffSiteRange.Meters()); !ok {
				return errNoAirfield
			}
			return nil
		},
	}}

	if cfg.Terrain.ElevationFile != "" {
		probes = append(probes, probe.Probe{
			Name:     "Terrain Data (ETOPO1)",
			Critical: true,
			Check: func(context.Context) error {
				ep, err := terrain.NewElevationProvider(cfg.Terrain.ElevationFile)
				if err != nil {
					return err
				}
				defer ep.Close()
				if _, err := ep.GetElevation(cfg.Replay.StartLat, cfg.Replay.StartLon); err != nil {
					return fmt.Errorf("start position: %w", err)
				}
				return nil
			},
		})
	}
	return probes
}
