package component

import (
	"time"

	"github.com/lixenwraith/planet/core"
)

// DropperComponent is the drop slot of a dropper: at most one held placeholder
type DropperComponent struct {
	held core.Entity

	SinceDrop time.Duration // Accumulates only while the slot is empty
	First     bool          // First spawn bypasses MinDropWait
}

// NewDropper returns an empty slot awaiting its first spawn
func NewDropper() DropperComponent {
	return DropperComponent{First: true}
}

// Holding returns the held placeholder, if any
func (d DropperComponent) Holding() (core.Entity, bool) {
	return d.held, d.held != 0
}

// Hold stores a placeholder; the slot must be empty
func (d *DropperComponent) Hold(e core.Entity) {
	if d.held != 0 {
		panic("dropper: placeholder created while one is already held")
	}
	d.held = e
}

// Release clears the slot and returns the placeholder; the slot must be holding
func (d *DropperComponent) Release() core.Entity {
	if d.held == 0 {
		panic("dropper: promoting a placeholder that does not exist")
	}
	e := d.held
	d.held = 0
	return e
}
