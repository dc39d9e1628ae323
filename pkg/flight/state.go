package flight

import (
	"github.com/google/uuid"
	"github.com/uber/h3-go/v4"

	"soarcalc/pkg/geo"
	"soarcalc/pkg/glide"
	"soarcalc/pkg/sim"
	"soarcalc/pkg/stats"
)

const (
	// LiftBuckets is the number of 10° heading sectors in the lift database.
	LiftBuckets = 36
	// MaxThermalSources bounds the thermal source list.
	MaxThermalSources = 20
)

// PhaseStart marks where a climb or cruise began. Time is negative while
// the phase is not active.
type PhaseStart struct {
	Time       float64
	Location   geo.Point
	Altitude   float64 // Navigation altitude
	AltitudeTE float64 // Total energy altitude
}

// Active reports whether the marker is set.
func (p PhaseStart) Active() bool {
	return p.Time >= 0
}

func inactiveStart() PhaseStart {
	return PhaseStart{Time: -1}
}

// ThermalInfo describes a climb.
type ThermalInfo struct {
	StartTime float64
	EndTime   float64
	Gain      float64 // Meters
	Duration  float64 // Seconds
	LiftRate  float64 // m/s
}

// Valid reports whether the record holds a climb.
func (t ThermalInfo) Valid() bool {
	return t.Duration > 0
}

// Band is the working band between the safety floor and the highest
// climb of the current thermal.
type Band struct {
	WorkingHeight    float64 // Height above the safety floor
	WorkingFraction  float64
	Ceiling          float64
	MaxThermalHeight float64
}

// Locator is the thermal centre estimate.
type Locator struct {
	Location geo.Point
	Valid    bool
}

// ThermalSource is an estimated ground origin of a thermal.
type ThermalSource struct {
	ID           uuid.UUID
	Location     geo.Point
	GroundHeight float64
	LiftRate     float64
	Time         float64
	Cell         h3.Cell
}

// ThermalSources is a fixed-capacity FIFO of source records.
type ThermalSources struct {
	items [MaxThermalSources]ThermalSource
	head  int // oldest
	n     int
}

// Append adds a record, evicting the oldest once capacity is reached.
// capacity is clamped to [1, MaxThermalSources]. A record landing in the
// cell of an existing one updates that record instead; Append reports
// whether it did.
func (s *ThermalSources) Append(src ThermalSource, capacity int) bool {
	if s.merge(src) {
		return true
	}
	capacity = geo.Clamp(capacity, 1, MaxThermalSources)
	for s.n >= capacity {
		s.head = (s.head + 1) % MaxThermalSources
		s.n--
	}
	s.items[(s.head+s.n)%MaxThermalSources] = src
	s.n++
	return false
}

// merge folds src into an existing record in the same H3 cell. The record
// keeps its ID and location; lift rate, ground height and time follow the
// newer estimate. A zero cell never merges.
func (s *ThermalSources) merge(src ThermalSource) bool {
	if src.Cell == 0 {
		return false
	}
	for i := 0; i < s.n; i++ {
		r := &s.items[(s.head+i)%MaxThermalSources]
		if r.Cell != src.Cell {
			continue
		}
		r.LiftRate = src.LiftRate
		r.GroundHeight = src.GroundHeight
		r.Time = src.Time
		return true
	}
	return false
}

// Len returns the number of records.
func (s *ThermalSources) Len() int {
	return s.n
}

// At returns the i-th record, oldest first.
func (s *ThermalSources) At(i int) ThermalSource {
	if i < 0 || i >= s.n {
		return ThermalSource{}
	}
	return s.items[(s.head+i)%MaxThermalSources]
}

// Clear removes all records.
func (s *ThermalSources) Clear() {
	*s = ThermalSources{}
}

// DerivedState is the flight state computed from the sample stream. It is
// a plain value; copies never share storage.
type DerivedState struct {
	Flying       bool
	Replaying    bool
	TaskFinished bool

	TakeoffTime     float64
	TakeoffLocation geo.Point
	TakeoffSite     string
	FlightID        uuid.UUID
	FlightTime      float64

	TerrainValid     bool
	TerrainAltitude  float64
	AltitudeAGLValid bool
	AltitudeAGL      float64

	AverageVario float64 // 30 s brutto
	AverageNetto float64 // 30 s netto

	Heading  float64
	Circling bool
	Turning  bool
	TurnMode sim.TurnMode

	Wind              sim.Wind
	WindAvailable     bool
	HeadWind          float64
	HeadWindAvailable bool

	ClimbStart  PhaseStart
	CruiseStart PhaseStart

	LiftDatabase    [LiftBuckets]float64
	CirclingAverage stats.Trace

	ThermalBand   Band
	BandHistogram stats.ThermalBand

	ThermalLocator Locator

	CurrentThermal           ThermalInfo
	LastThermal              ThermalInfo
	LastThermalAverageSmooth float64
	ThermalSources           ThermalSources

	LD        float64
	LDVario   float64
	CruiseLD  float64
	AverageLD float64

	ClimbHistory stats.ClimbHistory

	TimeClimb          float64
	TimeCruise         float64
	CirclingPercentage float64
}

// reset zeroes the state and applies the sentinels.
func (s *DerivedState) reset() {
	*s = DerivedState{}
	s.TakeoffTime = -1
	s.ClimbStart = inactiveStart()
	s.CruiseStart = inactiveStart()
	s.LD = glide.InvalidRatio
	s.LDVario = glide.InvalidRatio
	s.CruiseLD = glide.InvalidRatio
	s.AverageLD = glide.InvalidRatio
}

// ClearLiftDatabase zeroes all heading buckets.
func (s *DerivedState) ClearLiftDatabase() {
	s.LiftDatabase = [LiftBuckets]float64{}
}
