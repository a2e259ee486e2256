package config

import (
	"errors"
	"time"

	"github.com/Hussnain311/Traffic-Load-Balancer/parameter"
	"github.com/brunoga/deep"
)

// ErrInvalidConfig wraps every structural configuration fault
var ErrInvalidConfig = errors.New("invalid config")

// Barrier group names accepted in [[barrier]] tables
const (
	GroupStop   = "stop"
	GroupSignal = "signal"
)

// Duration is a time.Duration that decodes from TOML strings such as "10s" or "500ms"
type Duration struct {
	time.Duration
}

// D wraps a time.Duration
func D(d time.Duration) Duration {
	return Duration{Duration: d}
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the full simulation configuration
type Config struct {
	Sim      SimConfig       `toml:"sim"`
	Signal   SignalConfig    `toml:"signal"`
	Stop     StopConfig      `toml:"stop"`
	Spawn    SpawnConfig     `toml:"spawn"`
	Vehicles []VehicleConfig `toml:"vehicle"`
	Segments []SegmentConfig `toml:"segment"`
	Nodes    []NodeConfig    `toml:"node"`
	Barriers []BarrierConfig `toml:"barrier"`
	Tolls    []TollConfig    `toml:"toll"`
}

// SimConfig holds run-level settings
type SimConfig struct {
	Seed int64    `toml:"seed"` // 0 means time-seeded
	Tick Duration `toml:"tick"`
}

// SignalConfig configures the round-robin signal cycle
type SignalConfig struct {
	SwitchTime Duration `toml:"switch_time"`
}

// StopConfig configures the manual stop barriers
type StopConfig struct {
	ReenableAfter Duration `toml:"reenable_after"`
	Controls      int      `toml:"controls"` // UI control count, 0 means one per stop barrier
}

// SpawnConfig configures the spawn and unlock loops
type SpawnConfig struct {
	MinInterval Duration `toml:"min_interval"`
	MaxInterval Duration `toml:"max_interval"`
	UnlockEvery Duration `toml:"unlock_every"`
	RateStep    Duration `toml:"rate_step"`
	MinFloor    Duration `toml:"min_floor"`
	MaxFloor    Duration `toml:"max_floor"`
}

// VehicleConfig is one vehicle catalog entry, in unlock order
type VehicleConfig struct {
	Name              string  `toml:"name"`
	Model             string  `toml:"model"`
	MinSpeed          float64 `toml:"min_speed"`
	MaxSpeed          float64 `toml:"max_speed"`
	DetectionDistance float64 `toml:"detection_distance"`
	MinFollowDistance float64 `toml:"min_follow_distance"`
	RotationSpeed     float64 `toml:"rotation_speed"`
	BodyRadius        float64 `toml:"body_radius"`
	SensorOffset      float64 `toml:"sensor_offset"`
	Sensor            *bool   `toml:"sensor"` // nil means present
}

// HasSensor reports whether the type carries a forward sensor
func (v VehicleConfig) HasSensor() bool {
	return v.Sensor == nil || *v.Sensor
}

// SegmentConfig declares a road segment and its initial activation
type SegmentConfig struct {
	Name   string `toml:"name"`
	Active bool   `toml:"active"`
}

// NodeConfig declares a waypoint
type NodeConfig struct {
	Name     string   `toml:"name"`
	X        float64  `toml:"x"`
	Y        float64  `toml:"y"`
	Segment  string   `toml:"segment"`
	Next     []string `toml:"next"`
	Heading  *float64 `toml:"heading"` // Degrees, counter-clockwise from +X
	Entry    bool     `toml:"entry"`
	Terminal bool     `toml:"terminal"`
}

// BarrierConfig declares a stop or signal barrier
type BarrierConfig struct {
	Name   string  `toml:"name"`
	Group  string  `toml:"group"`
	X      float64 `toml:"x"`
	Y      float64 `toml:"y"`
	Radius float64 `toml:"radius"`
}

// TollConfig declares a circular toll region
type TollConfig struct {
	Name   string  `toml:"name"`
	X      float64 `toml:"x"`
	Y      float64 `toml:"y"`
	Radius float64 `toml:"radius"`
	Reward int     `toml:"reward"`
}

// Default returns a config with every timing set from parameter and no world content
func Default() *Config {
	return &Config{
		Sim: SimConfig{
			Tick: D(parameter.GameUpdateInterval),
		},
		Signal: SignalConfig{
			SwitchTime: D(parameter.SignalSwitchTime),
		},
		Stop: StopConfig{
			ReenableAfter: D(parameter.StopReenableAfter),
		},
		Spawn: SpawnConfig{
			MinInterval: D(parameter.MinSpawnInterval),
			MaxInterval: D(parameter.MaxSpawnInterval),
			UnlockEvery: D(parameter.UnlockEvery),
			RateStep:    D(parameter.SpawnRateStep),
			MinFloor:    D(parameter.MinSpawnFloor),
			MaxFloor:    D(parameter.MaxSpawnFloor),
		},
	}
}

// DefaultVehicle returns a catalog entry with the stock movement and sensor tuning
func DefaultVehicle(name string) VehicleConfig {
	return VehicleConfig{
		Name:              name,
		Model:             name,
		MinSpeed:          parameter.VehicleMinSpeed,
		MaxSpeed:          parameter.VehicleMaxSpeed,
		DetectionDistance: parameter.DetectionDistance,
		MinFollowDistance: parameter.MinFollowDistance,
		RotationSpeed:     parameter.RotationSpeed,
		BodyRadius:        parameter.VehicleBodyRadius,
		SensorOffset:      parameter.SensorOffset,
	}
}

// Clone returns a deep copy so callers can mutate without aliasing slices
func (c *Config) Clone() *Config {
	cp := deep.MustCopy(*c)
	return &cp
}

// EntryNodes returns the names of nodes flagged as spawn entries, in declaration order
func (c *Config) EntryNodes() []string {
	var out []string
	for _, n := range c.Nodes {
		if n.Entry {
			out = append(out, n.Name)
		}
	}
	return out
}

// applyDefaults fills zero-valued per-item tuning with stock values
func (c *Config) applyDefaults() {
	for i := range c.Vehicles {
		v := &c.Vehicles[i]
		if v.RotationSpeed == 0 {
			v.RotationSpeed = parameter.RotationSpeed
		}
		if v.DetectionDistance == 0 {
			v.DetectionDistance = parameter.DetectionDistance
		}
		if v.MinFollowDistance == 0 {
			v.MinFollowDistance = parameter.MinFollowDistance
		}
		if v.BodyRadius == 0 {
			v.BodyRadius = parameter.VehicleBodyRadius
		}
		if v.SensorOffset == 0 {
			v.SensorOffset = parameter.SensorOffset
		}
	}
	for i := range c.Barriers {
		if c.Barriers[i].Radius == 0 {
			c.Barriers[i].Radius = parameter.BarrierRadius
		}
	}
	for i := range c.Tolls {
		if c.Tolls[i].Reward == 0 {
			c.Tolls[i].Reward = parameter.TollReward
		}
	}
}
