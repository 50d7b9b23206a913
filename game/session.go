// Package game assembles one play session: world, systems, event registry and run bookkeeping.
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/planet/audio"
	"github.com/lixenwraith/planet/config"
	"github.com/lixenwraith/planet/console"
	"github.com/lixenwraith/planet/core"
	"github.com/lixenwraith/planet/engine"
	"github.com/lixenwraith/planet/event"
	"github.com/lixenwraith/planet/input"
	"github.com/lixenwraith/planet/parameter"
	"github.com/lixenwraith/planet/physics"
	"github.com/lixenwraith/planet/status"
	"github.com/lixenwraith/planet/store"
	"github.com/lixenwraith/planet/system"
)

// Run state published to the status registry under StateKey
const (
	StateKey        = "run.state"
	StateRunning    = "running"
	StateOverPrefix = "over: "
)

// ErrNoScene is returned by Start when the catalog has no Scene section
var ErrNoScene = errors.New("catalog has no scene section")

// Options configures a session; only Catalog is required
type Options struct {
	Catalog *config.Catalog
	Player  audio.Player
	History *store.History
	Status  *status.Registry
	Rand    *rand.Rand
	Now     func() time.Time
	Log     zerolog.Logger
}

// Session owns every piece of per-run state; nothing here is process global
type Session struct {
	World   *engine.World
	Factory *engine.Factory
	Console *console.Dispatcher
	Events  *event.Registry
	Input   *input.State
	Score   *engine.Score
	Status  *status.Registry

	catalog *config.Catalog
	player  audio.Player
	history *store.History
	now     func() time.Time
	log     zerolog.Logger

	scene     core.Entity
	startedAt time.Time
	started   bool
	over      bool
	reason    string
	closed    bool

	statFrames   *atomic.Int64
	statEntities *atomic.Int64
	statMerges   *atomic.Int64
	statState    *status.AtomicString
}

// NewSession builds the world and registers systems, behaviors, responses and console commands
func NewSession(opts Options) (*Session, error) {
	if opts.Catalog == nil {
		return nil, errors.New("session: catalog is required")
	}
	if opts.Player == nil {
		opts.Player = audio.Silent{}
	}
	if opts.Status == nil {
		opts.Status = status.NewRegistry()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	log := opts.Log.With().Str("component", "session").Logger()

	gameSec, _ := opts.Catalog.Section(parameter.SectionGame)
	gravity := parameter.DefaultGravity
	if gameSec.HasValue("Gravity") {
		gravity = gameSec.Float("Gravity")
	}

	s := &Session{
		World:        engine.NewWorld(opts.Log),
		Input:        input.NewState(),
		Score:        engine.NewScore(opts.Status.Ints.Get("score")),
		Status:       opts.Status,
		catalog:      opts.Catalog,
		player:       opts.Player,
		history:      opts.History,
		now:          opts.Now,
		log:          log,
		statFrames:   opts.Status.Ints.Get("session.frames"),
		statEntities: opts.Status.Ints.Get("session.entities"),
		statMerges:   opts.Status.Ints.Get("planet.merges"),
		statState:    opts.Status.Strings.Get(StateKey),
	}
	s.Factory = engine.NewFactory(s.World, opts.Catalog, gravity, opts.Log)

	var err error
	if s.Console, err = console.New(opts.Log); err != nil {
		return nil, fmt.Errorf("create console: %w", err)
	}
	if s.Events, err = event.NewRegistry(opts.Catalog, s.World, opts.Status, opts.Log); err != nil {
		return nil, fmt.Errorf("create event registry: %w", err)
	}
	s.Events.Init(s.Console)

	base := system.NewObjectSystem(s.World, opts.Catalog, opts.Player, opts.Log)
	planets, err := system.NewPlanetSystem(base, s.Factory, s.Events, s.Score, gameSec.String(parameter.KeyHazard), opts.Status)
	if err != nil {
		return nil, fmt.Errorf("create planet system: %w", err)
	}
	dropper := system.NewDropperSystem(base, s.Factory, s.Input, opts.Rand, opts.Status)

	s.World.SetBehavior(core.KindGeneric, base)
	s.World.SetBehavior(core.KindPlanet, planets)
	s.World.SetBehavior(core.KindDropper, dropper)

	s.World.AddSystem(system.NewInputSystem(s.Input, s.Events, parameter.InputSet))
	s.World.AddSystem(physics.NewSystem(s.World, opts.Status))
	s.World.AddSystem(engine.NewBehaviorSystem(s.World))
	s.World.AddSystem(system.NewTrackSystem(s.World, s.Console, opts.Status, opts.Log))
	s.World.AddSystem(system.NewLifetimeSystem(s.World, opts.Status))

	s.registerResponses()
	s.Console.Register("Score", func(console.Command) (any, error) {
		return s.Score.Value(), nil
	})

	return s, nil
}

// Start spawns the scene and its children
func (s *Session) Start() error {
	if s.started {
		return nil
	}
	scene := s.Factory.Create(parameter.SectionScene)
	if scene == 0 {
		return ErrNoScene
	}
	s.scene = scene
	s.started = true
	s.startedAt = s.now()
	s.statState.Store(StateRunning)
	s.World.Flush()

	s.log.Info().Int("entities", s.World.EntityCount()).Msg("session started")
	return nil
}

// Step advances the session by one frame
// The world keeps running after the run ends so despawn effects can finish
func (s *Session) Step(dt time.Duration) {
	if dt > parameter.MaxFrameDelta {
		dt = parameter.MaxFrameDelta
	}
	s.World.Update(dt)
	s.Input.EndFrame()

	s.statFrames.Add(1)
	s.statEntities.Store(int64(s.World.EntityCount()))
}

// End finishes the run once and records it; later calls are ignored
func (s *Session) End(reason string) {
	if s.over {
		return
	}
	s.over = true
	s.reason = reason
	s.statState.Store(StateOverPrefix + reason)
	s.player.Play(audio.SoundGameOver)

	run := store.Run{
		StartedAt: s.startedAt,
		EndedAt:   s.now(),
		Score:     s.Score.Value(),
		Merges:    s.statMerges.Load(),
		Reason:    reason,
	}
	s.log.Info().Uint64("score", run.Score).Int64("merges", run.Merges).Str("reason", reason).Msg("run ended")

	if s.history == nil {
		return
	}
	if err := s.history.Record(context.Background(), &run); err != nil {
		s.log.Error().Err(err).Msg("failed to record run")
	}
}

// Over reports whether the run has ended and why
func (s *Session) Over() (bool, string) {
	return s.over, s.reason
}

// Scene returns the root scene entity
func (s *Session) Scene() core.Entity {
	return s.scene
}

// Close ends an unfinished run as quit, detaches the registry and removes every entity
// Safe to call more than once
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.started {
		s.End("quit")
	}
	s.Events.Exit()
	s.World.Clear()
	s.log.Debug().Msg("session closed")
}
