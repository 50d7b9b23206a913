package parameter

import "time"

// Game Loop & Engine Timing
const (
	// FrameUpdateInterval is the simulation and render interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// MaxFrameDelta caps a single step after stalls so contacts are not tunneled through
	MaxFrameDelta = 50 * time.Millisecond

	// MaxFlushPasses bounds lifecycle notification passes per frame
	// Creations requested by OnCreate hooks past this limit are delivered next frame
	MaxFlushPasses = 8
)

// Terminal input
const (
	// KeyHoldWindow keeps a key active after its last press event
	// Terminals report presses and auto-repeats only, never releases
	KeyHoldWindow = 120 * time.Millisecond
)

// Physics defaults
const (
	DefaultGravity = 60.0 // world units per second squared, +Y is down
	Restitution    = 0.1
	ContactSlop    = 0.01
)
