package component

import "time"

// HazardContact is the per-planet contact timer with the hazard boundary
// The zero value is the not-touching state; touching for zero time is a distinct state
type HazardContact struct {
	touching bool
	elapsed  time.Duration
}

// Begin enters the touching state with a zeroed timer
func (h *HazardContact) Begin() {
	h.touching = true
	h.elapsed = 0
}

// End returns to the not-touching state
func (h *HazardContact) End() {
	h.touching = false
	h.elapsed = 0
}

// Touching returns the elapsed contact time and whether contact is ongoing
func (h HazardContact) Touching() (time.Duration, bool) {
	return h.elapsed, h.touching
}

// Advance adds dt while touching and returns the new elapsed time
func (h *HazardContact) Advance(dt time.Duration) time.Duration {
	if h.touching {
		h.elapsed += dt
	}
	return h.elapsed
}

// PlanetComponent holds planet-only state
type PlanetComponent struct {
	Hazard HazardContact
}
