// Package event routes named events to the entities that declared interest in them.
//
// An entity subscribes through its catalog section: EventHandlerList names one or more handler
// sections, whose keys are event names and whose values are response lines
// ("<response> [args...]"). Subscriptions follow entity lifetime exactly: they are added when the
// world reports creation and removed, symmetrically, when it reports deletion.
package event

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/lixenwraith/planet/config"
	"github.com/lixenwraith/planet/console"
	"github.com/lixenwraith/planet/core"
	"github.com/lixenwraith/planet/engine"
	"github.com/lixenwraith/planet/parameter"
	"github.com/lixenwraith/planet/status"
)

// CommandSendEvent is the console command that triggers Send and SendTo
const CommandSendEvent = "SendEvent"

// ErrNotRegistered is returned by SendTo when the target is not subscribed to the event
var ErrNotRegistered = errors.New("entity not registered for event")

// ErrTooDeep is returned by SendTo when events are nested past parameter.MaxEventDepth
var ErrTooDeep = errors.New("event nesting too deep")

// Registry is the event subscription table of one session
//
// Invariants:
//   - an entity is present only between its created and destroyed notifications
//   - Send never mutates the table; lifecycle notifications that arrive while a Send is
//     running are applied after the outermost Send returns
//   - responses may send further events, nested at most parameter.MaxEventDepth deep
type Registry struct {
	catalog *config.Catalog
	world   *engine.World
	log     zerolog.Logger

	// event (lower case) -> subscriber -> handler section
	table map[string]map[core.Entity]string
	// subscriber -> entries it added, so removal never consults the world
	entries map[core.Entity][]subscription

	responses map[string]ResponseFunc
	bindings  map[bindingKey]ResponseFunc

	depth   int
	pending []pendingChange
	console *console.Dispatcher

	statDelivered     *atomic.Int64
	statNotRegistered *atomic.Int64
	statSubscriptions *atomic.Int64
	statDropped       *atomic.Int64
	delivered         metric.Int64Counter
}

type subscription struct {
	event   string
	section string
}

type pendingChange struct {
	entity  core.Entity
	created bool
	subs    []subscription // resolved when the creation was reported
}

// NewRegistry creates an empty registry; Init attaches it to the world and console
func NewRegistry(catalog *config.Catalog, world *engine.World, reg *status.Registry, log zerolog.Logger) (*Registry, error) {
	delivered, err := otel.Meter(instrumentationName).Int64Counter(
		"events.delivered",
		metric.WithDescription("Total event responses evaluated"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating delivered counter: %w", err)
	}

	return &Registry{
		catalog:           catalog,
		world:             world,
		log:               log.With().Str("component", "event").Logger(),
		table:             make(map[string]map[core.Entity]string),
		entries:           make(map[core.Entity][]subscription),
		responses:         make(map[string]ResponseFunc),
		bindings:          make(map[bindingKey]ResponseFunc),
		statDelivered:     reg.Ints.Get("event.delivered"),
		statNotRegistered: reg.Ints.Get("event.unregistered"),
		statSubscriptions: reg.Ints.Get("event.subscriptions"),
		statDropped:       reg.Ints.Get("event.dropped"),
		delivered:         delivered,
	}, nil
}

const instrumentationName = "github.com/lixenwraith/planet/event"

func eventKey(name string) string {
	return strings.ToLower(name)
}

// Init registers the lifecycle listener and the SendEvent console command
func (r *Registry) Init(c *console.Dispatcher) {
	r.world.AddListener(r)
	if c != nil {
		c.Register(CommandSendEvent, r.handleSendEvent, console.Logged())
		r.console = c
	}
	r.log.Debug().Msg("event registry initialized")
}

// Exit detaches the registry and clears the table; safe to call more than once
func (r *Registry) Exit() {
	r.world.RemoveListener(r)
	if r.console != nil {
		r.console.Unregister(CommandSendEvent)
		r.console = nil
	}
	r.table = make(map[string]map[core.Entity]string)
	r.entries = make(map[core.Entity][]subscription)
	r.pending = nil
	r.statSubscriptions.Store(0)
	r.log.Debug().Msg("event registry cleared")
}

// OnEntityCreated subscribes e to every event its handler sections declare
func (r *Registry) OnEntityCreated(e core.Entity) {
	subs := r.declared(e)
	if r.depth > 0 {
		r.pending = append(r.pending, pendingChange{entity: e, created: true, subs: subs})
		return
	}
	r.subscribe(e, subs)
}

// OnEntityDestroyed removes exactly the entries OnEntityCreated added
// Entities that were never subscribed are ignored
func (r *Registry) OnEntityDestroyed(e core.Entity) {
	if r.depth > 0 {
		r.pending = append(r.pending, pendingChange{entity: e})
		return
	}
	r.unsubscribe(e)
}

func (r *Registry) subscribe(e core.Entity, declared []subscription) {
	if len(declared) == 0 {
		return
	}
	for _, d := range declared {
		subs, ok := r.table[d.event]
		if !ok {
			subs = make(map[core.Entity]string)
			r.table[d.event] = subs
		}
		if _, dup := subs[e]; !dup {
			r.statSubscriptions.Add(1)
		}
		subs[e] = d.section
	}
	r.entries[e] = append(r.entries[e], declared...)
}

func (r *Registry) unsubscribe(e core.Entity) {
	for _, d := range r.entries[e] {
		subs, ok := r.table[d.event]
		if !ok {
			continue
		}
		if _, present := subs[e]; present {
			delete(subs, e)
			r.statSubscriptions.Add(-1)
		}
		if len(subs) == 0 {
			delete(r.table, d.event)
		}
	}
	delete(r.entries, e)
}

// declared walks EventHandlerList of e's section
func (r *Registry) declared(e core.Entity) []subscription {
	name, ok := r.world.ModelName(e)
	if !ok {
		return nil
	}
	sec, ok := r.catalog.Section(name)
	if !ok {
		return nil
	}
	var out []subscription
	for _, list := range sec.Strings(parameter.KeyEventHandlerList) {
		handlers, ok := r.catalog.Section(list)
		if !ok {
			r.log.Warn().Stringer("entity", e).Str("section", list).Msg("event handler section not found, skipped")
			continue
		}
		for _, event := range handlers.Keys() {
			out = append(out, subscription{event: event, section: list})
		}
	}
	return out
}

// Send delivers name to every subscriber in ascending entity order
// Returns the number of subscribers reached; zero subscribers is not an error
func (r *Registry) Send(name string) int {
	if r.depth >= parameter.MaxEventDepth {
		r.statDropped.Add(1)
		r.log.Warn().Str("event", name).Int("depth", r.depth).Msg("event nesting too deep, dropped")
		return 0
	}

	key := eventKey(name)
	subs := r.table[key]
	if len(subs) == 0 {
		r.log.Debug().Str("event", name).Msg("no subscribers")
		return 0
	}

	targets := make([]core.Entity, 0, len(subs))
	for e := range subs {
		targets = append(targets, e)
	}
	slices.Sort(targets)

	r.depth++
	for _, e := range targets {
		r.deliver(name, e, subs[e])
	}
	r.leave()
	return len(targets)
}

// SendTo delivers name to target only, provided target is subscribed to it
func (r *Registry) SendTo(name string, target core.Entity) error {
	section, ok := r.table[eventKey(name)][target]
	if !ok {
		r.statNotRegistered.Add(1)
		r.log.Info().Str("event", name).Stringer("entity", target).Msg("entity not registered for event")
		return fmt.Errorf("%w: %s -> %s", ErrNotRegistered, name, target)
	}
	if r.depth >= parameter.MaxEventDepth {
		r.statDropped.Add(1)
		r.log.Warn().Str("event", name).Int("depth", r.depth).Msg("event nesting too deep, dropped")
		return fmt.Errorf("%w: %s", ErrTooDeep, name)
	}

	r.depth++
	r.deliver(name, target, section)
	r.leave()
	return nil
}

func (r *Registry) leave() {
	r.depth--
	if r.depth > 0 {
		return
	}
	pending := r.pending
	r.pending = nil
	for _, p := range pending {
		if p.created {
			r.subscribe(p.entity, p.subs)
		} else {
			r.unsubscribe(p.entity)
		}
	}
}

// Subscribers returns the entities subscribed to name, sorted
func (r *Registry) Subscribers(name string) []core.Entity {
	subs := r.table[eventKey(name)]
	out := make([]core.Entity, 0, len(subs))
	for e := range subs {
		out = append(out, e)
	}
	slices.Sort(out)
	return out
}

// Subscribed reports whether e is subscribed to name and through which handler section
func (r *Registry) Subscribed(name string, e core.Entity) (string, bool) {
	section, ok := r.table[eventKey(name)][e]
	return section, ok
}

// Events returns every event name with at least one subscriber, lower-cased and sorted
func (r *Registry) Events() []string {
	out := make([]string, 0, len(r.table))
	for name := range r.table {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// handleSendEvent implements "SendEvent <event> [entity]"
func (r *Registry) handleSendEvent(c console.Command) (any, error) {
	switch len(c.Args) {
	case 1:
		return r.Send(c.Args[0]), nil
	case 2:
		target, err := core.ParseEntity(c.Args[1])
		if err != nil {
			return nil, fmt.Errorf("send event %s: %w", c.Args[0], err)
		}
		if err := r.SendTo(c.Args[0], target); err != nil {
			return nil, err
		}
		return 1, nil
	default:
		return nil, fmt.Errorf("usage: %s <event> [entity]", CommandSendEvent)
	}
}

func (r *Registry) countDelivery(name string) {
	r.statDelivered.Add(1)
	r.delivered.Add(context.Background(), 1, metric.WithAttributes(attribute.String("event", eventKey(name))))
}
