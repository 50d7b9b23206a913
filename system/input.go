package system

import (
	"strings"
	"time"

	"github.com/lixenwraith/planet/input"
	"github.com/lixenwraith/planet/parameter"
)

// InputSystem mirrors input activations as Input:<set>:<name> events
type InputSystem struct {
	state  *input.State
	events Sender
	set    string
}

func NewInputSystem(state *input.State, events Sender, set string) *InputSystem {
	if set == "" {
		set = parameter.InputSet
	}
	return &InputSystem{state: state, events: events, set: set}
}

func (s *InputSystem) Name() string {
	return "input"
}

func (s *InputSystem) Priority() int {
	return parameter.PriorityInput
}

func (s *InputSystem) Update(time.Duration) {
	for _, name := range s.state.Activated() {
		s.events.Send(InputEventName(s.set, name))
	}
}

// InputEventName builds the event name for an input activation
func InputEventName(set, name string) string {
	return strings.Join([]string{parameter.EventInputPrefix, set, name}, ":")
}
