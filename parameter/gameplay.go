package parameter

import "time"

// Planet hazard contact
const (
	// HazardThreshold is the continuous contact time with the hazard boundary that ends the run
	HazardThreshold = 2 * time.Second

	// DefaultHazardName is the model name of the top-of-field collider
	DefaultHazardName = "ArenaTop"
)

// Event names produced by the core
const (
	EventGameOver = "GameOver"

	// EventInputPrefix prefixes synthesized input events: Input:<set>:<name>
	EventInputPrefix = "Input"

	// MaxEventDepth bounds events sent from inside responses; deeper sends are dropped
	MaxEventDepth = 16
)

// Input names consumed by the dropper
const (
	InputSet   = "Main"
	InputLeft  = "Left"
	InputRight = "Right"
	InputDrop  = "Drop"
	InputQuit  = "Quit"
)

// Catalog section and key names
const (
	SectionGame  = "Game"
	SectionScene = "Scene"
	SectionInput = "Input"

	KeyEventHandlerList = "EventHandlerList"
	KeyInherit          = "Inherit"
	KeyKind             = "Kind"
	KeyStay             = "Stay"
	KeyNext             = "Next"
	KeyScore            = "Score"
	KeyEffect           = "Effect"
	KeyHazard           = "Hazard"
	KeySound            = "Sound"
	KeyDrop             = "Drop"
	KeyMinDropWait      = "MinDropWait"
	KeyMinX             = "MinX"
	KeyMaxX             = "MaxX"
	KeyMaxSpeed         = "MaxSpeed"
	KeyLifeTime         = "LifeTime"
	KeyTrack            = "Track"
	KeyTrackLoop        = "TrackLoop"
)
