package event

import "strings"

var (
	nameToType = make(map[string]EventType)
	typeToName = make(map[EventType]string)
)

func init() {
	registerType("vehicle_spawned", EventVehicleSpawned)
	registerType("vehicle_destroyed", EventVehicleDestroyed)
	registerType("spawn_failed", EventSpawnFailed)
	registerType("fleet_unlocked", EventFleetUnlocked)
	registerType("signal_changed", EventSignalChanged)
	registerType("stop_changed", EventStopChanged)
	registerType("toll_collected", EventTollCollected)
	registerType("snapshot", EventSnapshot)
}

// registerType maps a wire name to an EventType
func registerType(name string, et EventType) {
	nameToType[name] = et
	typeToName[et] = name
}

// GetEventType returns the EventType for a given wire name, case-insensitive
func GetEventType(name string) (EventType, bool) {
	et, ok := nameToType[strings.ToLower(name)]
	return et, ok
}

// GetEventName returns the wire name for an EventType
func GetEventName(et EventType) string {
	if name, ok := typeToName[et]; ok {
		return name
	}
	return "unknown"
}

// String implements fmt.Stringer
func (et EventType) String() string {
	return GetEventName(et)
}
