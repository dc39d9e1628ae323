package sim

import (
	"strings"
)

const (
	StageOnGround = "on_the_ground"
	StageTakeOff  = "take-off"
	StageAirborne = "airborne"
	StageLanding  = "landing"
	StageLanded   = "landed"
)

// Default thresholds of the flying detector.
const (
	DefaultTakeoffSpeed = 10.0 // m/s
	DefaultLandingSpeed = 5.0  // m/s
	DefaultTakeoffHold  = 10.0 // seconds
	DefaultLandingHold  = 30.0 // seconds

	// aglAirborne is the height above ground that keeps a slow aircraft airborne (e.g. ridge soaring in wind).
	aglAirborne = 300.0
)

// StageMachine tracks the flight phase across samples and decides whether
// the aircraft is flying. A candidate stage must persist for a hold time
// before it is confirmed.
type StageMachine struct {
	current        string
	candidateSince float64
	lastTime       float64
	takeoffTime    float64
	landingTime    float64

	TakeoffSpeed float64
	LandingSpeed float64
	TakeoffHold  float64
	LandingHold  float64
}

// NewStageMachine creates a stage machine with default thresholds.
func NewStageMachine() *StageMachine {
	m := &StageMachine{
		TakeoffSpeed: DefaultTakeoffSpeed,
		LandingSpeed: DefaultLandingSpeed,
		TakeoffHold:  DefaultTakeoffHold,
		LandingHold:  DefaultLandingHold,
	}
	m.Reset()
	return m
}

// Reset returns the machine to the uninitialized ground state.
func (m *StageMachine) Reset() {
	m.current = StageOnGround
	m.candidateSince = -1
	m.lastTime = -1
	m.takeoffTime = -1
	m.landingTime = -1
}

// Compute evaluates a sample and returns whether the aircraft is flying.
func (m *StageMachine) Compute(s *Sample, agl float64, aglValid bool) bool {
	if !s.TimeAvailable {
		return m.Flying()
	}

	// Time retreat (replay scrubbing): drop pending candidates
	if m.lastTime >= 0 && s.Time < m.lastTime {
		m.candidateSince = -1
		m.settle()
	}
	m.lastTime = s.Time

	speed, ok := s.Speed()
	if !ok {
		return m.Flying()
	}
	high := aglValid && agl > aglAirborne

	switch m.current {
	case StageOnGround, StageLanded:
		if speed >= m.TakeoffSpeed || high {
			m.current = StageTakeOff
			m.candidateSince = s.Time
		}
	case StageTakeOff:
		switch {
		case speed < m.TakeoffSpeed && !high:
			// Aborted roll
			m.current = StageOnGround
			m.candidateSince = -1
		case s.Time-m.candidateSince >= m.TakeoffHold:
			m.current = StageAirborne
			m.takeoffTime = m.candidateSince
			m.candidateSince = -1
		}
	case StageAirborne:
		if speed < m.LandingSpeed && !high {
			m.current = StageLanding
			m.candidateSince = s.Time
		}
	case StageLanding:
		switch {
		case speed >= m.LandingSpeed || high:
			// Touch and go / slow flight
			m.current = StageAirborne
			m.candidateSince = -1
		case s.Time-m.candidateSince >= m.LandingHold:
			m.current = StageLanded
			m.landingTime = m.candidateSince
			m.candidateSince = -1
		}
	}

	return m.Flying()
}

// settle collapses pending stages to their confirmed counterpart.
func (m *StageMachine) settle() {
	switch m.current {
	case StageTakeOff:
		m.current = StageOnGround
	case StageLanding:
		m.current = StageAirborne
	}
}

// Flying reports whether the confirmed stage is airborne.
func (m *StageMachine) Flying() bool {
	return m.current == StageAirborne || m.current == StageLanding
}

func (m *StageMachine) Current() string {
	return m.current
}

// TakeoffTime returns the time the take-off roll started, or -1.
func (m *StageMachine) TakeoffTime() float64 {
	return m.takeoffTime
}

// LandingTime returns the time the landing roll started, or -1.
func (m *StageMachine) LandingTime() float64 {
	return m.landingTime
}

// FormatStage returns a human-readable title for the stage.
func FormatStage(s string) string {
	if s == "" {
		return "Unknown"
	}
	// on_the_ground -> On The Ground
	// take-off -> Take-Off
	parts := strings.Split(s, "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[0:1]) + p[1:]
		}
	}
	res := strings.Join(parts, " ")

	if strings.Contains(res, "-") {
		sub := strings.Split(res, "-")
		for i, p := range sub {
			if p != "" {
				sub[i] = strings.ToUpper(p[0:1]) + p[1:]
			}
		}
		res = strings.Join(sub, "-")
	}

	return res
}

// FlightDuration returns the seconds since take-off at time now,
// or 0 if no take-off was detected.
func (m *StageMachine) FlightDuration(now float64) float64 {
	if m.takeoffTime < 0 || now < m.takeoffTime {
		return 0
	}
	return now - m.takeoffTime
}
