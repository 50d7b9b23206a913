// Package input holds the per-frame input query surface and the terminal key adapter that feeds it.
package input

import (
	"slices"
	"strings"
)

// Query is the read surface consumed by gameplay code
// Names are case-insensitive
type Query interface {
	IsActive(name string) bool
	HasBeenActivated(name string) bool // Inactive to active transition during the current frame
	Value(name string) float64
}

// State tracks active inputs and this frame's activation edges
type State struct {
	active    map[string]bool
	activated map[string]bool
	values    map[string]float64
}

// NewState creates an empty input state
func NewState() *State {
	return &State{
		active:    make(map[string]bool),
		activated: make(map[string]bool),
		values:    make(map[string]float64),
	}
}

func key(name string) string {
	return strings.ToLower(name)
}

// Press marks name active with full value; a press on an inactive input records an edge
func (s *State) Press(name string) {
	s.SetValue(name, 1)
}

// Release marks name inactive
func (s *State) Release(name string) {
	s.SetValue(name, 0)
}

// SetValue sets an analog value; nonzero means active
func (s *State) SetValue(name string, v float64) {
	k := key(name)
	if v != 0 && !s.active[k] {
		s.activated[k] = true
	}
	s.active[k] = v != 0
	s.values[k] = v
}

func (s *State) IsActive(name string) bool {
	return s.active[key(name)]
}

func (s *State) HasBeenActivated(name string) bool {
	return s.activated[key(name)]
}

func (s *State) Value(name string) float64 {
	return s.values[key(name)]
}

// Activated returns the names that became active this frame, sorted
func (s *State) Activated() []string {
	out := make([]string, 0, len(s.activated))
	for name := range s.activated {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Active returns the names currently held, sorted
func (s *State) Active() []string {
	out := make([]string, 0, len(s.active))
	for name, on := range s.active {
		if on {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

// EndFrame clears activation edges; call once after every consumer has run
func (s *State) EndFrame() {
	clear(s.activated)
}
