package parameter

// System Execution Priorities (lower runs first)
const (
	PriorityInput    = 10 // Synthesized input events before anything reacts to input
	PriorityPhysics  = 20 // Contacts before behaviors read contact state
	PriorityBehavior = 30 // Per-entity Update hooks (planet timer, dropper)
	PriorityTrack    = 40
	PriorityLifetime = 50 // Last: reclaims entities zeroed during this frame
)
