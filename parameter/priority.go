package parameter

// System Execution Priorities (lower runs first)
const (
	PrioritySensor  = 10 // Rebuilds the occupancy grid from pre-move positions
	PriorityVehicle = 20
	PriorityToll    = 30 // After movement, detects region entry
)
