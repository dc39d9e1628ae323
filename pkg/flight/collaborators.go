package flight

import (
	"soarcalc/pkg/circling"
	"soarcalc/pkg/glide"
	"soarcalc/pkg/sim"
	"soarcalc/pkg/thermal"
	"soarcalc/pkg/wind"
)

// DefaultCollaborators wires the reference implementations of every
// collaborator. t may be nil when no terrain data is available.
func DefaultCollaborators(t TerrainProvider, cs circling.Settings, ws wind.Settings, flying *sim.StageMachine) Collaborators {
	if flying == nil {
		flying = sim.NewStageMachine()
	}
	return Collaborators{
		Terrain:     t,
		Circling:    circling.New(cs),
		Wind:        wind.NewEstimator(ws),
		Flying:      flying,
		Locator:     thermal.NewLocator(),
		Accumulator: glide.NewAccumulator(),
		Base:        thermal.NewBaseEstimator(t),
	}
}
