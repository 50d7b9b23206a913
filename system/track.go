package system

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/planet/component"
	"github.com/lixenwraith/planet/core"
	"github.com/lixenwraith/planet/engine"
	"github.com/lixenwraith/planet/parameter"
	"github.com/lixenwraith/planet/status"
)

// Executor runs one console line
type Executor interface {
	Exec(line string) (any, error)
}

// TrackSystem fires timed console commands declared by an entity's Track
type TrackSystem struct {
	world   *engine.World
	console Executor
	log     zerolog.Logger

	statCommands *atomic.Int64
}

func NewTrackSystem(world *engine.World, console Executor, reg *status.Registry, log zerolog.Logger) *TrackSystem {
	return &TrackSystem{
		world:        world,
		console:      console,
		log:          log.With().Str("component", "track").Logger(),
		statCommands: reg.Ints.Get("track.commands"),
	}
}

func (s *TrackSystem) Name() string {
	return "track"
}

func (s *TrackSystem) Priority() int {
	return parameter.PriorityTrack
}

func (s *TrackSystem) Update(dt time.Duration) {
	for _, e := range s.world.Tracks.All() {
		if !s.world.Live(e) {
			continue
		}

		var due []string
		done := false
		s.world.Tracks.Mutate(e, func(t *component.TrackComponent) {
			due = advance(t, dt)
			done = t.Done()
		})

		for _, cmd := range due {
			line := expandSelf(cmd, e)
			s.statCommands.Add(1)
			if _, err := s.console.Exec(line); err != nil {
				s.log.Warn().Err(err).Stringer("entity", e).Str("command", line).Msg("track command failed")
			}
		}

		if done {
			s.world.Tracks.Remove(e)
		}
	}
}

// advance moves the track clock and returns the commands that became due
// A looping track restarts once its last step fired; a zero-length loop fires once per frame
func advance(t *component.TrackComponent, dt time.Duration) []string {
	var due []string
	t.Elapsed += dt
	for t.Next < len(t.Steps) && t.Steps[t.Next].At <= t.Elapsed {
		due = append(due, t.Steps[t.Next].Command)
		t.Next++

		if t.Loop && t.Next == len(t.Steps) {
			period := t.Steps[len(t.Steps)-1].At
			t.Next = 0
			if period <= 0 {
				t.Elapsed = 0
				break
			}
			t.Elapsed -= period
		}
	}
	return due
}

// expandSelf replaces every ^ token with the owner entity id
func expandSelf(cmd string, e core.Entity) string {
	fields := strings.Fields(cmd)
	for i, f := range fields {
		if f == "^" {
			fields[i] = e.String()
		}
	}
	return strings.Join(fields, " ")
}
