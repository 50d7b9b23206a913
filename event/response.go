package event

import (
	"strings"

	"github.com/lixenwraith/planet/core"
)

// Call is the context handed to a response
type Call struct {
	Event   string      // Event name as sent
	Self    core.Entity // Subscribing entity
	Section string      // Handler section the subscription came from
	Args    []string    // Arguments following the response name in the configured line
}

// ResponseFunc reacts to an event on behalf of one subscriber
type ResponseFunc func(Call) error

type bindingKey struct {
	section string
	event   string
}

// Register makes fn available to configured response lines as name
func (r *Registry) Register(name string, fn ResponseFunc) {
	r.responses[strings.ToLower(name)] = fn
}

// Bind attaches fn to one (section, event) pair; a binding takes precedence over the configured line
func (r *Registry) Bind(section, event string, fn ResponseFunc) {
	r.bindings[bindingKey{section: strings.ToLower(section), event: eventKey(event)}] = fn
}

// deliver evaluates the response of one subscriber
// Unknown or failing responses are logged; delivery to other subscribers continues
func (r *Registry) deliver(name string, e core.Entity, section string) {
	call := Call{Event: name, Self: e, Section: section}

	fn, bound := r.bindings[bindingKey{section: strings.ToLower(section), event: eventKey(name)}]
	if !bound {
		sec, _ := r.catalog.Section(section)
		fields := strings.Fields(sec.String(name))
		if len(fields) == 0 {
			r.log.Warn().Str("event", name).Str("section", section).Msg("empty response")
			return
		}
		var ok bool
		fn, ok = r.responses[strings.ToLower(fields[0])]
		if !ok {
			r.log.Warn().Str("event", name).Str("section", section).Str("response", fields[0]).Msg("unknown response")
			return
		}
		call.Args = fields[1:]
	}

	r.countDelivery(name)
	if err := fn(call); err != nil {
		r.log.Warn().Err(err).Str("event", name).Stringer("entity", e).Msg("response failed")
	}
}
