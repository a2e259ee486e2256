package parameter

import "time"

// Simulation Loop & Engine Timing
const (
	// GameUpdateInterval is the fixed simulation step used by the clock scheduler (~50 Hz)
	GameUpdateInterval = 20 * time.Millisecond

	// FrameUpdateInterval is the terminal viewer redraw interval (~30 FPS)
	FrameUpdateInterval = 33 * time.Millisecond

	// SnapshotEveryTicks is how many ticks pass between published snapshots
	SnapshotEveryTicks = 5

	// MaxTickDelta caps a single tick's elapsed time so a stalled host does not teleport vehicles
	MaxTickDelta = 250 * time.Millisecond
)

// ECS & Resources Limits
const (
	// EventQueueSize is the fixed capacity of the event ring buffer
	EventQueueSize = 2048

	// EventBufferMask is the bitmask for fast modulo operations (2048 - 1)
	EventBufferMask = 2047
)

// Spatial Grid Defaults
const (
	// MinGridCellSize is the smallest grid cell edge in world units
	MinGridCellSize = 1.0

	// MaxGridCells caps the dense grid allocation; wide networks get coarser cells instead
	MaxGridCells = 1 << 18

	// GridMargin pads the graph bounds so vehicles on the edge stay indexable
	GridMargin = 4.0
)
