package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Hussnain311/Traffic-Load-Balancer/parameter"
)

const minimal = `
[[vehicle]]
name = "car"
model = "car"
min_speed = 3.0
max_speed = 5.0

[[node]]
name = "a"
entry = true
next = ["b"]

[[node]]
name = "b"
x = 10.0
terminal = true
`

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse(minimal)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Signal.SwitchTime.Duration != parameter.SignalSwitchTime {
		t.Errorf("switch_time = %v", cfg.Signal.SwitchTime)
	}
	if cfg.Stop.ReenableAfter.Duration != parameter.StopReenableAfter {
		t.Errorf("reenable_after = %v", cfg.Stop.ReenableAfter)
	}
	if cfg.Spawn.MinFloor.Duration != 500*time.Millisecond || cfg.Spawn.MaxFloor.Duration != time.Second {
		t.Errorf("floors = %v %v", cfg.Spawn.MinFloor, cfg.Spawn.MaxFloor)
	}

	v := cfg.Vehicles[0]
	if v.DetectionDistance != parameter.DetectionDistance || v.RotationSpeed != parameter.RotationSpeed {
		t.Errorf("vehicle tuning not defaulted: %+v", v)
	}
	if !v.HasSensor() {
		t.Error("sensor should default to present")
	}
	if got := cfg.EntryNodes(); len(got) != 1 || got[0] != "a" {
		t.Errorf("entries = %v", got)
	}
}

func TestParseDurations(t *testing.T) {
	cfg, err := Parse(minimal + `
[signal]
switch_time = "2.5s"
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Signal.SwitchTime.Duration != 2500*time.Millisecond {
		t.Errorf("switch_time = %v", cfg.Signal.SwitchTime)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		substr string
	}{
		{"no vehicles", `
[[node]]
name = "a"
entry = true
`, "no vehicle types"},
		{"speed range", strings.Replace(minimal, "max_speed = 5.0", "max_speed = 1.0", 1), "exceeds max_speed"},
		{"unknown successor", strings.Replace(minimal, `next = ["b"]`, `next = ["zzz"]`, 1), "unknown successor"},
		{"duplicate node", minimal + `
[[node]]
name = "a"
`, "duplicate name"},
		{"no entry", strings.Replace(minimal, "entry = true", "", 1), "no entry nodes"},
		{"bad group", minimal + `
[[barrier]]
name = "x"
group = "yield"
`, "group must be"},
		{"unknown key", minimal + `
[sim]
speed_up = 2
`, "unknown keys"},
		{"inverted interval", minimal + `
[spawn]
min_interval = "8s"
max_interval = "2s"
`, "exceeds spawn.max_interval"},
		{"min interval under floor", minimal + `
[spawn]
min_interval = "200ms"
max_interval = "2s"
`, "below spawn.min_floor"},
		{"max interval under floor", minimal + `
[spawn]
min_interval = "600ms"
max_interval = "800ms"
`, "below spawn.max_floor"},
		{"unknown segment", strings.Replace(minimal, `name = "b"`, "name = \"b\"\nsegment = \"ghost\"", 1), "unknown segment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.doc)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error not wrapped with ErrInvalidConfig: %v", err)
			}
			if !strings.Contains(err.Error(), tt.substr) {
				t.Errorf("error %q missing %q", err, tt.substr)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	cfg, err := Parse(minimal)
	if err != nil {
		t.Fatal(err)
	}
	cp := cfg.Clone()
	cp.Nodes[0].Next[0] = "changed"
	cp.Vehicles[0].Name = "changed"

	if cfg.Nodes[0].Next[0] != "b" || cfg.Vehicles[0].Name != "car" {
		t.Error("clone aliases original")
	}
}

func TestLoadExampleAndRoundTrip(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "cmd", "trafficsim", "example.toml"))
	if err != nil {
		t.Fatalf("Load example: %v", err)
	}
	if len(cfg.Vehicles) != 4 || cfg.Vehicles[3].HasSensor() {
		t.Errorf("unexpected catalog: %+v", cfg.Vehicles)
	}

	var buf bytes.Buffer
	if err := Write(&buf, cfg); err != nil {
		t.Fatalf("Write: %v", err)
	}
	path := filepath.Join(t.TempDir(), "out.toml")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	again, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v\n%s", err, buf.String())
	}
	if len(again.Nodes) != len(cfg.Nodes) || again.Spawn.UnlockEvery != cfg.Spawn.UnlockEvery {
		t.Error("round trip lost data")
	}
}
