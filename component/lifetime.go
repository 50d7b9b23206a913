package component

import "time"

// LifetimeInfinite marks an entity that is never reclaimed by elapsed time
const LifetimeInfinite time.Duration = -1

// LifetimeComponent counts down to removal; Remaining == 0 means scheduled for removal
type LifetimeComponent struct {
	Remaining time.Duration
}
