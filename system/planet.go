package system

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/lixenwraith/planet/component"
	"github.com/lixenwraith/planet/core"
	"github.com/lixenwraith/planet/engine"
	"github.com/lixenwraith/planet/parameter"
	"github.com/lixenwraith/planet/status"
	"github.com/lixenwraith/planet/vmath"
)

// PlanetSystem drives planets: the hazard contact timer and same-tier merges
type PlanetSystem struct {
	*ObjectSystem

	factory   *engine.Factory
	events    Sender
	score     *engine.Score
	hazard    string
	threshold time.Duration

	statMerges    *atomic.Int64
	statGameOvers *atomic.Int64
	statPeak      *status.AtomicFloat
	merges        metric.Int64Counter
}

// NewPlanetSystem creates the planet behavior; hazard is the model name of the top boundary
func NewPlanetSystem(base *ObjectSystem, factory *engine.Factory, events Sender, score *engine.Score, hazard string, reg *status.Registry) (*PlanetSystem, error) {
	merges, err := meter().Int64Counter(
		"planet.merges",
		metric.WithDescription("Total planet merges by produced tier"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating merges counter: %w", err)
	}

	if hazard == "" {
		hazard = parameter.DefaultHazardName
	}

	return &PlanetSystem{
		ObjectSystem:  base,
		factory:       factory,
		events:        events,
		score:         score,
		hazard:        hazard,
		threshold:     parameter.HazardThreshold,
		statMerges:    reg.Ints.Get("planet.merges"),
		statGameOvers: reg.Ints.Get("planet.gameovers"),
		statPeak:      reg.Floats.Get("planet.hazard_peak"),
		merges:        merges,
	}, nil
}

// OnCreate runs the object hook, then starts the planet not touching the hazard
func (s *PlanetSystem) OnCreate(e core.Entity) {
	s.ObjectSystem.OnCreate(e)
	s.world.Planets.Set(e, component.PlanetComponent{})
}

// Update advances the hazard timer and sends GameOver once per contact episode
func (s *PlanetSystem) Update(e core.Entity, dt time.Duration) {
	fire := false
	s.world.Planets.Mutate(e, func(p *component.PlanetComponent) {
		if _, touching := p.Hazard.Touching(); !touching {
			return
		}
		elapsed := p.Hazard.Advance(dt)
		s.statPeak.Max(elapsed.Seconds())
		if elapsed > s.threshold {
			p.Hazard.End()
			fire = true
		}
	})
	if !fire {
		return
	}

	s.statGameOvers.Add(1)
	s.log.Info().Stringer("entity", e).Msg("planet held against hazard, game over")
	s.events.Send(parameter.EventGameOver)
}

// OnCollideBegin handles the same-tier and hazard checks independently
func (s *PlanetSystem) OnCollideBegin(self, other core.Entity, _ engine.Contact) {
	selfName, _ := s.world.ModelName(self)
	otherName, ok := s.world.ModelName(other)
	if !ok {
		return
	}

	if strings.EqualFold(selfName, otherName) {
		s.merge(self, other)
	}
	if strings.EqualFold(otherName, s.hazard) {
		s.world.Planets.Mutate(self, func(p *component.PlanetComponent) {
			p.Hazard.Begin()
		})
	}
}

// OnCollideEnd leaves the touching state when the hazard separates
func (s *PlanetSystem) OnCollideEnd(self, other core.Entity) {
	otherName, ok := s.world.ModelName(other)
	if !ok || !strings.EqualFold(otherName, s.hazard) {
		return
	}
	s.world.Planets.Mutate(self, func(p *component.PlanetComponent) {
		p.Hazard.End()
	})
}

// Touching reports the hazard contact state of a planet
func (s *PlanetSystem) Touching(e core.Entity) (time.Duration, bool) {
	p, ok := s.world.Planets.Get(e)
	if !ok {
		return 0, false
	}
	return p.Hazard.Touching()
}

// merge resolves a same-tier collision
// Both sides of a contact call this; the life-time guard makes the second call a no-op
// A tier without a resolvable Next never merges
func (s *PlanetSystem) merge(self, other core.Entity) {
	sec := s.section(self)
	if sec.Bool(parameter.KeyStay) {
		return
	}
	if s.world.LifeTime(self) == 0 || s.world.LifeTime(other) == 0 {
		return
	}

	next := sec.String(parameter.KeyNext)
	if next == "" {
		s.log.Debug().Str("tier", sec.Name()).Msg("terminal tier collision ignored")
		return
	}
	nextSec, ok := s.catalog.Section(next)
	if !ok {
		s.log.Warn().Str("tier", sec.Name()).Str("next", next).Msg("next tier section not found, merge skipped")
		return
	}

	s.world.SetLifeTime(self, 0)
	s.world.SetLifeTime(other, 0)

	a, _ := s.world.Position(self)
	b, _ := s.world.Position(other)
	mid := vmath.Midpoint(a, b)

	spawned := s.factory.Create(next, engine.At(mid))
	if effect := sec.String(parameter.KeyEffect); effect != "" {
		s.factory.Create(effect, engine.At(mid))
	}
	if spawned == 0 {
		return
	}

	points := nextSec.Uint(parameter.KeyScore)
	s.score.Add(points)
	s.statMerges.Add(1)
	s.merges.Add(context.Background(), 1, metric.WithAttributes(attribute.String("tier", nextSec.Name())))

	s.log.Debug().
		Stringer("a", self).
		Stringer("b", other).
		Stringer("spawned", spawned).
		Str("tier", nextSec.Name()).
		Uint64("points", points).
		Msg("planets merged")
}
