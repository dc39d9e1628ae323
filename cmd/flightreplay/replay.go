package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"soarcalc/pkg/flight"
	"soarcalc/pkg/sim"
)

// SampleSource is the part of sim.Source the replay loop needs.
type SampleSource interface {
	Next(ctx context.Context) (sim.Sample, error)
}

// summary collects what happened during a replay.
type summary struct {
	Samples   int
	Takeoffs  int
	Landings  int
	Thermals  int
	Finished  bool
	FlightIDs []string
}

// replay feeds src into eng until the source is exhausted or ctx is done.
// The task is marked finished once finishAfter climbs have been recorded.
func replay(ctx context.Context, eng *flight.Engine, src SampleSource, finishAfter int) (summary, error) {
	var sum summary
	for {
		s, err := src.Next(ctx)
		if errors.Is(err, sim.ErrSourceExhausted) {
			return sum, nil
		}
		if err != nil {
			return sum, err
		}

		eng.Update(s)
		sum.Samples++

		last, calc := eng.Last(), eng.Calculated()
		switch {
		case calc.Flying && !last.Flying:
			sum.Takeoffs++
			sum.FlightIDs = append(sum.FlightIDs, calc.FlightID.String())
		case !calc.Flying && last.Flying:
			sum.Landings++
		}

		if calc.Flying && calc.LastThermal.Valid() && calc.LastThermal.EndTime != last.LastThermal.EndTime {
			sum.Thermals++
			if finishAfter > 0 && sum.Thermals == finishAfter && !sum.Finished {
				eng.OnFinishTask()
				sum.Finished = true
			}
		}
	}
}

func (s summary) log(calc flight.DerivedState) {
	slog.Info("Flight: replay summary",
		"samples", s.Samples,
		"takeoffs", s.Takeoffs,
		"landings", s.Landings,
		"climbs", s.Thermals,
		"task_finished", s.Finished,
		"takeoff_site", calc.TakeoffSite,
		"flight_time", fmt.Sprintf("%.0fs", calc.FlightTime),
		"circling", fmt.Sprintf("%.0f%%", calc.CirclingPercentage),
		"avg_ld", calc.AverageLD,
		"last_thermal_smooth", fmt.Sprintf("%.2fm/s", calc.LastThermalAverageSmooth),
		"sources", calc.ThermalSources.Len())

	for i := 0; i < calc.ThermalSources.Len(); i++ {
		src := calc.ThermalSources.At(i)
		slog.Info("Flight: thermal source",
			"id", src.ID,
			"lat", fmt.Sprintf("%.5f", src.Location.Lat),
			"lon", fmt.Sprintf("%.5f", src.Location.Lon),
			"cell", src.Cell.String(),
			"lift", fmt.Sprintf("%.1fm/s", src.LiftRate))
	}
}

// statsLogger reports statistics resets.
type statsLogger struct{}

func (statsLogger) ResetStats(replaying bool) {
	slog.Info("Flight: statistics reset", "replaying", replaying)
}
