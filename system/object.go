package system

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/planet/audio"
	"github.com/lixenwraith/planet/component"
	"github.com/lixenwraith/planet/config"
	"github.com/lixenwraith/planet/core"
	"github.com/lixenwraith/planet/engine"
	"github.com/lixenwraith/planet/parameter"
)

// Sender broadcasts a named event to its subscribers
type Sender interface {
	Send(name string) int
}

// ObjectSystem is the generic entity behavior; kind behaviors run it first
type ObjectSystem struct {
	world   *engine.World
	catalog *config.Catalog
	player  audio.Player
	log     zerolog.Logger
}

// NewObjectSystem creates the generic behavior
func NewObjectSystem(world *engine.World, catalog *config.Catalog, player audio.Player, log zerolog.Logger) *ObjectSystem {
	if player == nil {
		player = audio.Silent{}
	}
	return &ObjectSystem{
		world:   world,
		catalog: catalog,
		player:  player,
		log:     log.With().Str("component", "object").Logger(),
	}
}

// OnCreate flags the entity as a tracked object and plays its creation sound
func (s *ObjectSystem) OnCreate(e core.Entity) {
	s.world.Objects.Mutate(e, func(o *component.ObjectComponent) {
		o.IsObject = true
	})
	if sound := s.section(e).String(parameter.KeySound); sound != "" {
		s.player.Play(sound)
	}
}

func (s *ObjectSystem) OnDelete(e core.Entity) {
	s.log.Trace().Stringer("entity", e).Msg("object deleted")
}

func (s *ObjectSystem) Update(core.Entity, time.Duration) {}

// section returns the catalog section of e; the zero Section when it has none
func (s *ObjectSystem) section(e core.Entity) config.Section {
	name, ok := s.world.ModelName(e)
	if !ok {
		return config.Section{}
	}
	sec, _ := s.catalog.Section(name)
	return sec
}
