// Package console routes named text commands to registered handlers.
// Config tracks and the terminal binary drive the game through it.
package console

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrUnknownCommand is returned when no handler is registered for a command
var ErrUnknownCommand = errors.New("unknown command")

// Command is one parsed console invocation
type Command struct {
	Name string
	Args []string
}

// String renders the command back to a console line
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// HandlerFunc processes a command and returns a printable result
type HandlerFunc func(Command) (any, error)

// Option configures handler registration
type Option func(*options)

type options struct {
	logged bool
}

// Logged adds debug logging around the handler
func Logged() Option {
	return func(o *options) {
		o.logged = true
	}
}

// Dispatcher maps command names to handlers; names are case-insensitive
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
	log      zerolog.Logger

	processed metric.Int64Counter
	failed    metric.Int64Counter
}

// New creates a dispatcher; metrics go to the global OTel meter (no-op if not configured)
func New(log zerolog.Logger) (*Dispatcher, error) {
	d := &Dispatcher{
		handlers: make(map[string]HandlerFunc),
		log:      log.With().Str("component", "console").Logger(),
	}

	m := meter()

	var err error
	d.processed, err = m.Int64Counter(
		"console.commands.processed",
		metric.WithDescription("Total console commands handled"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating processed counter: %w", err)
	}

	d.failed, err = m.Int64Counter(
		"console.commands.failed",
		metric.WithDescription("Total console commands that returned an error or had no handler"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating failed counter: %w", err)
	}

	return d, nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds or replaces the handler for a command
func (d *Dispatcher) Register(name string, h HandlerFunc, opts ...Option) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	handler := h
	if o.logged {
		handler = d.withLogging(name, handler)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[normalize(name)] = handler
}

// Unregister removes a command; unknown names are ignored
func (d *Dispatcher) Unregister(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.handlers, normalize(name))
}

// HasHandler returns true if a handler is registered for the command
func (d *Dispatcher) HasHandler(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.handlers[normalize(name)]
	return ok
}

// Dispatch routes a command to its registered handler
func (d *Dispatcher) Dispatch(c Command) (any, error) {
	d.mu.RLock()
	h, ok := d.handlers[normalize(c.Name)]
	d.mu.RUnlock()

	cmdAttr := metric.WithAttributes(attribute.String("command", normalize(c.Name)))
	if !ok {
		d.failed.Add(context.Background(), 1, cmdAttr)
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, c.Name)
	}

	result, err := h(c)
	d.processed.Add(context.Background(), 1, cmdAttr)
	if err != nil {
		d.failed.Add(context.Background(), 1, cmdAttr)
	}
	return result, err
}

// Exec parses a whitespace separated line and dispatches it
func (d *Dispatcher) Exec(line string) (any, error) {
	c, ok := Parse(line)
	if !ok {
		return nil, fmt.Errorf("%w: empty line", ErrUnknownCommand)
	}
	return d.Dispatch(c)
}

// Parse splits a console line into a command; false for blank lines
func Parse(line string) (Command, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, false
	}
	return Command{Name: fields[0], Args: fields[1:]}, true
}

func (d *Dispatcher) withLogging(name string, h HandlerFunc) HandlerFunc {
	return func(c Command) (any, error) {
		start := time.Now()
		d.log.Debug().Str("command", name).Int("args", len(c.Args)).Msg("handling command")

		result, err := h(c)

		if err != nil {
			d.log.Error().Err(err).Str("command", name).Dur("duration", time.Since(start)).Msg("command failed")
		} else {
			d.log.Debug().Str("command", name).Dur("duration", time.Since(start)).Msg("command complete")
		}
		return result, err
	}
}
