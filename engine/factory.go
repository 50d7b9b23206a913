package engine

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/planet/component"
	"github.com/lixenwraith/planet/config"
	"github.com/lixenwraith/planet/core"
	"github.com/lixenwraith/planet/vmath"
)

// maxChildDepth bounds Children recursion in malformed catalogs
const maxChildDepth = 8

// SpawnOption adjusts a single Create call
type SpawnOption func(*spawnConfig)

type spawnConfig struct {
	placeholder bool
	hasPosition bool
	position    vmath.Vec2
}

// Placeholder creates a non-simulated preview body
func Placeholder() SpawnOption {
	return func(s *spawnConfig) { s.placeholder = true }
}

// At overrides the section's Position
func At(p vmath.Vec2) SpawnOption {
	return func(s *spawnConfig) {
		s.hasPosition = true
		s.position = p
	}
}

// Factory builds entities from catalog sections
type Factory struct {
	world   *World
	catalog *config.Catalog
	gravity float64
	log     zerolog.Logger
}

// NewFactory creates a factory bound to a world and catalog; gravity scales every body's Gravity key
func NewFactory(world *World, catalog *config.Catalog, gravity float64, log zerolog.Logger) *Factory {
	return &Factory{
		world:   world,
		catalog: catalog,
		gravity: gravity,
		log:     log.With().Str("component", "factory").Logger(),
	}
}

// Catalog returns the catalog the factory reads from
func (f *Factory) Catalog() *config.Catalog {
	return f.catalog
}

// Create spawns the entity described by section name
// Returns 0 when the section does not exist
func (f *Factory) Create(name string, opts ...SpawnOption) core.Entity {
	var cfg spawnConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return f.create(name, cfg, 0)
}

func (f *Factory) create(name string, cfg spawnConfig, depth int) core.Entity {
	sec, ok := f.catalog.Section(name)
	if !ok {
		f.log.Warn().Str("section", name).Msg("cannot create entity: section not found")
		return 0
	}

	obj := component.ObjectComponent{
		Name: sec.Name(),
		Kind: core.ParseKind(sec.String("Kind")),
	}
	if g := sec.String("Glyph"); g != "" {
		obj.Glyph, _ = utf8.DecodeRuneInString(g)
	}

	e := f.world.CreateEntity(obj)

	pos, _ := sec.Vec2("Position")
	if cfg.hasPosition {
		pos = cfg.position
	}
	f.world.Bodies.Set(e, f.body(sec, pos, cfg.placeholder))

	if sec.HasValue("LifeTime") {
		f.world.SetLifeTime(e, sec.Duration("LifeTime"))
	}

	if steps := f.track(sec); len(steps) > 0 {
		f.world.Tracks.Set(e, component.TrackComponent{
			Steps: steps,
			Loop:  sec.Bool("TrackLoop"),
		})
	}

	f.log.Debug().Stringer("entity", e).Str("section", obj.Name).Bool("placeholder", cfg.placeholder).Msg("entity created")

	if depth >= maxChildDepth {
		return e
	}
	for _, child := range sec.Strings("Children") {
		f.create(child, spawnConfig{}, depth+1)
	}
	return e
}

func (f *Factory) body(sec config.Section, pos vmath.Vec2, placeholder bool) component.BodyComponent {
	b := component.BodyComponent{
		Position:     pos,
		Shape:        component.ParseShape(sec.String("Shape")),
		Radius:       sec.Float("Radius"),
		GravityScale: 1,
		Static:       sec.Bool("Static"),
		Sensor:       sec.Bool("Sensor"),
		Simulated:    !placeholder,
	}
	if size, ok := sec.Vec2("Size"); ok {
		b.HalfSize = size.Scale(0.5)
	}
	if sec.HasValue("Gravity") {
		b.GravityScale = sec.Float("Gravity")
	}
	b.GravityScale *= f.gravity
	return b
}

// track parses "<delay seconds> <command...>" entries
func (f *Factory) track(sec config.Section) []component.TrackStep {
	var steps []component.TrackStep
	for _, entry := range sec.Strings("Track") {
		delay, cmd, found := strings.Cut(strings.TrimSpace(entry), " ")
		seconds, err := strconv.ParseFloat(delay, 64)
		if !found || err != nil || seconds < 0 {
			f.log.Warn().Str("section", sec.Name()).Str("entry", entry).Msg("malformed track entry skipped")
			continue
		}
		steps = append(steps, component.TrackStep{
			At:      time.Duration(seconds * float64(time.Second)),
			Command: strings.TrimSpace(cmd),
		})
	}
	slices.SortStableFunc(steps, func(a, b component.TrackStep) int {
		return cmp.Compare(a.At, b.At)
	})
	return steps
}
