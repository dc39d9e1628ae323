package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the application configuration.
type Config struct {
	Log       LogConfig        `yaml:"log"`
	Terrain   TerrainConfig    `yaml:"terrain"`
	Flight    FlightConfig     `yaml:"flight"`
	Circling  CirclingConfig   `yaml:"circling"`
	Wind      WindConfig       `yaml:"wind"`
	Flying    FlyingConfig     `yaml:"flying"`
	Replay    ReplayConfig     `yaml:"replay"`
	Waypoints []WaypointConfig `yaml:"waypoints"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Path       string `yaml:"path"`
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
	Trace      bool   `yaml:"trace"` // Per-tick debug output
}

// TerrainConfig holds the elevation data settings.
type TerrainConfig struct {
	ElevationFile string   `yaml:"elevation_file"` // ETOPO1 binary; empty disables terrain
	CacheSize     int      `yaml:"cache_size"`
	CacheTTL      Duration `yaml:"cache_ttl"`
}

// FlightConfig tunes the flight computer.
type FlightConfig struct {
	SafetyHeight         Distance `yaml:"safety_height"`
	TerrainBaseFallback  Distance `yaml:"terrain_base_fallback"`
	LDFactor             float64  `yaml:"ld_factor"`
	LDVarioFactor        float64  `yaml:"ld_vario_factor"`
	CruiseLDFactor       float64  `yaml:"cruise_ld_factor"`
	ThermalMinDuration   Duration `yaml:"thermal_min_duration"`
	LastThermalSmoothing float64  `yaml:"last_thermal_smoothing"`
	SourceCapacity       int      `yaml:"source_capacity"`
	MaxWindLiftRatio     float64  `yaml:"max_wind_lift_ratio"`
	VarioWindow          Duration `yaml:"vario_window"`
	TakeoffSiteRange     Distance `yaml:"takeoff_site_range"`
	SourceCellResolution int      `yaml:"source_cell_resolution"`
}

// CirclingConfig holds the turn detection thresholds.
type CirclingConfig struct {
	MinTurnRate       float64  `yaml:"min_turn_rate"` // deg/s
	CruiseClimbSwitch Duration `yaml:"cruise_climb_switch"`
	ClimbCruiseSwitch Duration `yaml:"climb_cruise_switch"`
	Smoothing         float64  `yaml:"smoothing"`
}

// WindConfig holds the wind selection settings.
type WindConfig struct {
	UseManual     bool    `yaml:"use_manual"`
	ManualSpeed   Speed   `yaml:"manual_speed"`
	ManualBearing float64 `yaml:"manual_bearing"` // Degrees, wind from
	Smoothing     float64 `yaml:"smoothing"`
}

// FlyingConfig holds the take-off and landing detection thresholds.
type FlyingConfig struct {
	TakeoffSpeed Speed    `yaml:"takeoff_speed"`
	LandingSpeed Speed    `yaml:"landing_speed"`
	TakeoffHold  Duration `yaml:"takeoff_hold"`
	LandingHold  Duration `yaml:"landing_hold"`
}

// ReplayConfig describes the synthetic flight driven through the engine.
type ReplayConfig struct {
	StartLat      float64  `yaml:"start_lat"`
	StartLon      float64  `yaml:"start_lon"`
	FieldAlt      float64  `yaml:"field_alt"` // Meters MSL
	StartHeading  float64  `yaml:"start_heading"`
	Parked        Duration `yaml:"parked"` // Standing time before the ground roll
	TowHeight     Distance `yaml:"tow_height"`
	Thermals      int      `yaml:"thermals"`
	ThermalLift   float64  `yaml:"thermal_lift"` // m/s
	ThermalGain   Distance `yaml:"thermal_gain"`
	CruiseLeg     Duration `yaml:"cruise_leg"`
	WindSpeed     Speed    `yaml:"wind_speed"`
	WindBearing   float64  `yaml:"wind_bearing"` // Degrees, wind from
	SampleRate    Duration `yaml:"sample_rate"`
	Noise         float64  `yaml:"noise"` // Vario noise standard deviation, m/s
	Seed          int64    `yaml:"seed"`
	FinishAfter   int      `yaml:"finish_after"` // Thermals before the task is finished, 0 never
}

// WaypointConfig is a named location.
type WaypointConfig struct {
	Name      string  `yaml:"name"`
	Lat       float64 `yaml:"lat"`
	Lon       float64 `yaml:"lon"`
	Elevation float64 `yaml:"elevation"`
	Airfield  bool    `yaml:"airfield"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Path:       "logs/soarcalc.log",
			Level:      "INFO",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Terrain: TerrainConfig{
			CacheSize: 4096,
			CacheTTL:  Duration(time.Hour),
		},
		Flight: FlightConfig{
			SafetyHeight:         300,
			LDFactor:             0.1,
			LDVarioFactor:        0.3,
			CruiseLDFactor:       0.5,
			ThermalMinDuration:   Duration(45 * time.Second),
			LastThermalSmoothing: 0.3,
			SourceCapacity:       20,
			MaxWindLiftRatio:     10,
			VarioWindow:          Duration(30 * time.Second),
			TakeoffSiteRange:     2000,
			SourceCellResolution: 9,
		},
		Circling: CirclingConfig{
			MinTurnRate:       4,
			CruiseClimbSwitch: Duration(15 * time.Second),
			ClimbCruiseSwitch: Duration(15 * time.Second),
			Smoothing:         0.3,
		},
		Wind: WindConfig{
			Smoothing: 0.5,
		},
		Flying: FlyingConfig{
			TakeoffSpeed: 10,
			LandingSpeed: 5,
			TakeoffHold:  Duration(10 * time.Second),
			LandingHold:  Duration(30 * time.Second),
		},
		Replay: ReplayConfig{
			StartLat:     47.1817,
			StartLon:     7.4172,
			FieldAlt:     430,
			StartHeading: 250,
			Parked:       Duration(20 * time.Second),
			TowHeight:    600,
			Thermals:     4,
			ThermalLift:  2.0,
			ThermalGain:  800,
			CruiseLeg:    Duration(4 * time.Minute),
			WindSpeed:    4,
			WindBearing:  270,
			SampleRate:   Duration(time.Second),
			Noise:        0.3,
			Seed:         1,
			FinishAfter:  3,
		},
		Waypoints: []WaypointConfig{
			{Name: "Grenchen", Lat: 47.1817, Lon: 7.4172, Elevation: 430, Airfield: true},
			{Name: "Weissenstein", Lat: 47.2517, Lon: 7.5070, Elevation: 1284},
		},
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, it creates it with default values.
// If the file exists, it merges defaults with existing values but does NOT save back to disk (to preserve user formatting and comments).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if err := Save(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config file: %w", err)
	}

	// Expanded paths are used at runtime only; the file keeps the raw value.
	cfg.Log.Path = expandPath(cfg.Log.Path)
	cfg.Terrain.ElevationFile = expandPath(cfg.Terrain.ElevationFile)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var (
	reLevel       = regexp.MustCompile(`^(?i)(debug|info|warn|error)$`)
	reWindowsVars = regexp.MustCompile(`%([A-Za-z_][A-Za-z0-9_]*)%`)
)

// expandPath resolves $VAR and %VAR% references.
func expandPath(p string) string {
	p = reWindowsVars.ReplaceAllString(p, "$${$1}")
	return os.ExpandEnv(p)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if !reLevel.MatchString(c.Log.Level) {
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.Log.Level)
	}
	for name, f := range map[string]float64{
		"ld_factor":              c.Flight.LDFactor,
		"ld_vario_factor":        c.Flight.LDVarioFactor,
		"cruise_ld_factor":       c.Flight.CruiseLDFactor,
		"last_thermal_smoothing": c.Flight.LastThermalSmoothing,
	} {
		if f <= 0 || f > 1 {
			return fmt.Errorf("%w: %s must be in (0, 1], got %v", ErrInvalid, name, f)
		}
	}
	if c.Flight.SourceCapacity < 1 || c.Flight.SourceCapacity > 20 {
		return fmt.Errorf("%w: source_capacity must be in [1, 20], got %d", ErrInvalid, c.Flight.SourceCapacity)
	}
	if c.Flight.SourceCellResolution < 0 || c.Flight.SourceCellResolution > 15 {
		return fmt.Errorf("%w: source_cell_resolution must be in [0, 15], got %d", ErrInvalid, c.Flight.SourceCellResolution)
	}
	if c.Flight.VarioWindow <= 0 {
		return fmt.Errorf("%w: vario_window must be positive", ErrInvalid)
	}
	if c.Replay.SampleRate <= 0 {
		return fmt.Errorf("%w: replay sample_rate must be positive", ErrInvalid)
	}
	for _, w := range c.Waypoints {
		if w.Lat < -90 || w.Lat > 90 || w.Lon < -180 || w.Lon > 180 {
			return fmt.Errorf("%w: waypoint %q out of range", ErrInvalid, w.Name)
		}
	}
	return nil
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# soarcalc Configuration
# ---------------------
# Supported Units:
#   Duration: ns, us (or µs), ms, s, m, h, d (day), w (week)
#   Distance: m (meters), km (kilometers), nm (nautical miles), ft (feet)

`)
	data = append(header, data...)

	reLevelKey := regexp.MustCompile(`(?m)^(\s+)level:`)
	data = reLevelKey.ReplaceAll(data, []byte("${1}# Options: DEBUG, INFO, WARN, ERROR\n${1}level:"))

	reBearing := regexp.MustCompile(`(?m)^(\s+)(manual_bearing|wind_bearing):`)
	data = reBearing.ReplaceAll(data, []byte("${1}# Direction the wind blows from, degrees true\n${1}${2}:"))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // File exists, do nothing
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return Save(path, DefaultConfig())
}
