package config

import (
	"fmt"
)

// Validate checks structural consistency; soft faults are left to the simulation to log
func (c *Config) Validate() error {
	if c.Sim.Tick.Duration <= 0 {
		return invalid("sim.tick must be positive")
	}
	if c.Signal.SwitchTime.Duration <= 0 {
		return invalid("signal.switch_time must be positive")
	}
	if c.Stop.ReenableAfter.Duration <= 0 {
		return invalid("stop.reenable_after must be positive")
	}
	if c.Stop.Controls < 0 {
		return invalid("stop.controls must not be negative")
	}
	if err := c.validateSpawn(); err != nil {
		return err
	}
	if err := c.validateVehicles(); err != nil {
		return err
	}
	if err := c.validateGraph(); err != nil {
		return err
	}
	for _, b := range c.Barriers {
		if b.Group != GroupStop && b.Group != GroupSignal {
			return invalid("barrier %q: group must be %q or %q, got %q", b.Name, GroupStop, GroupSignal, b.Group)
		}
		if b.Radius < 0 {
			return invalid("barrier %q: negative radius", b.Name)
		}
	}
	for _, t := range c.Tolls {
		if t.Radius <= 0 {
			return invalid("toll %q: radius must be positive", t.Name)
		}
		if t.Reward < 0 {
			return invalid("toll %q: negative reward", t.Name)
		}
	}
	return nil
}

func (c *Config) validateSpawn() error {
	s := c.Spawn
	if s.MinInterval.Duration <= 0 || s.MaxInterval.Duration <= 0 {
		return invalid("spawn intervals must be positive")
	}
	if s.MinInterval.Duration > s.MaxInterval.Duration {
		return invalid("spawn.min_interval %v exceeds spawn.max_interval %v", s.MinInterval, s.MaxInterval)
	}
	if s.UnlockEvery.Duration <= 0 {
		return invalid("spawn.unlock_every must be positive")
	}
	if s.RateStep.Duration < 0 {
		return invalid("spawn.rate_step must not be negative")
	}
	if s.MinFloor.Duration <= 0 || s.MaxFloor.Duration <= 0 {
		return invalid("spawn floors must be positive")
	}
	if s.MinFloor.Duration > s.MaxFloor.Duration {
		return invalid("spawn.min_floor %v exceeds spawn.max_floor %v", s.MinFloor, s.MaxFloor)
	}
	if s.MinInterval.Duration < s.MinFloor.Duration {
		return invalid("spawn.min_interval %v below spawn.min_floor %v", s.MinInterval, s.MinFloor)
	}
	if s.MaxInterval.Duration < s.MaxFloor.Duration {
		return invalid("spawn.max_interval %v below spawn.max_floor %v", s.MaxInterval, s.MaxFloor)
	}
	return nil
}

func (c *Config) validateVehicles() error {
	if len(c.Vehicles) == 0 {
		return invalid("no vehicle types")
	}
	seen := make(map[string]bool, len(c.Vehicles))
	for i, v := range c.Vehicles {
		if v.Name == "" {
			return invalid("vehicle %d: missing name", i)
		}
		if seen[v.Name] {
			return invalid("vehicle %q: duplicate name", v.Name)
		}
		seen[v.Name] = true
		if v.MinSpeed < 0 || v.MaxSpeed < 0 {
			return invalid("vehicle %q: negative speed", v.Name)
		}
		if v.MinSpeed > v.MaxSpeed {
			return invalid("vehicle %q: min_speed %g exceeds max_speed %g", v.Name, v.MinSpeed, v.MaxSpeed)
		}
		if v.DetectionDistance < 0 || v.MinFollowDistance < 0 {
			return invalid("vehicle %q: negative sensor distance", v.Name)
		}
	}
	return nil
}

func (c *Config) validateGraph() error {
	segments := make(map[string]bool, len(c.Segments))
	for _, s := range c.Segments {
		if s.Name == "" {
			return invalid("segment with empty name")
		}
		if segments[s.Name] {
			return invalid("segment %q: duplicate name", s.Name)
		}
		segments[s.Name] = true
	}

	names := make(map[string]bool, len(c.Nodes))
	for _, n := range c.Nodes {
		if n.Name == "" {
			return invalid("node with empty name")
		}
		if names[n.Name] {
			return invalid("node %q: duplicate name", n.Name)
		}
		names[n.Name] = true
		if n.Segment != "" && !segments[n.Segment] {
			return invalid("node %q: unknown segment %q", n.Name, n.Segment)
		}
	}

	for _, n := range c.Nodes {
		for _, next := range n.Next {
			if !names[next] {
				return invalid("node %q: unknown successor %q", n.Name, next)
			}
		}
	}

	if len(c.EntryNodes()) == 0 {
		return invalid("no entry nodes")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
