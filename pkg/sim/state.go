// Package sim provides the instrument sample types, sample sources and the
// small per-tick state machines shared by the flight computer.
package sim

// TurnMode represents the circling state machine of the turn analyzer.
type TurnMode int

const (
	// TurnCruise indicates straight flight.
	TurnCruise TurnMode = iota
	// TurnPossibleClimb indicates a turn has started but is not yet confirmed as circling.
	TurnPossibleClimb
	// TurnClimb indicates confirmed circling.
	TurnClimb
	// TurnPossibleCruise indicates the turn has stopped but cruise is not yet confirmed.
	TurnPossibleCruise
)

// Circling reports whether the mode counts as circling.
func (m TurnMode) Circling() bool {
	return m == TurnClimb || m == TurnPossibleCruise
}

func (m TurnMode) String() string {
	switch m {
	case TurnCruise:
		return "cruise"
	case TurnPossibleClimb:
		return "possible_climb"
	case TurnClimb:
		return "climb"
	case TurnPossibleCruise:
		return "possible_cruise"
	}
	return "unknown"
}

// Wind is a horizontal wind vector.
type Wind struct {
	Speed   float64 // m/s
	Bearing float64 // Degrees, direction the wind blows from
}

// IsZero reports whether the wind is calm.
func (w Wind) IsZero() bool {
	return w.Speed == 0
}
