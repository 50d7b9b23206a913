package system

import (
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/planet/audio"
	"github.com/lixenwraith/planet/component"
	"github.com/lixenwraith/planet/core"
	"github.com/lixenwraith/planet/engine"
	"github.com/lixenwraith/planet/input"
	"github.com/lixenwraith/planet/parameter"
	"github.com/lixenwraith/planet/status"
	"github.com/lixenwraith/planet/vmath"
)

// DropperSystem drives droppers: horizontal movement, placeholder spawn and drop
type DropperSystem struct {
	*ObjectSystem

	factory *engine.Factory
	input   input.Query
	rng     *rand.Rand

	statDrops *atomic.Int64
}

// NewDropperSystem creates the dropper behavior; rng picks among multiple Drop entries
func NewDropperSystem(base *ObjectSystem, factory *engine.Factory, in input.Query, rng *rand.Rand, reg *status.Registry) *DropperSystem {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &DropperSystem{
		ObjectSystem: base,
		factory:      factory,
		input:        in,
		rng:          rng,
		statDrops:    reg.Ints.Get("dropper.drops"),
	}
}

// OnCreate runs the object hook, then starts with an empty slot awaiting its first spawn
func (s *DropperSystem) OnCreate(e core.Entity) {
	s.ObjectSystem.OnCreate(e)
	s.world.Droppers.Set(e, component.NewDropper())
}

// Update moves, then promotes on the drop edge, then refills an empty slot
func (s *DropperSystem) Update(e core.Entity, dt time.Duration) {
	d, ok := s.world.Droppers.Get(e)
	if !ok {
		return
	}
	sec := s.section(e)
	pos, _ := s.world.Position(e)

	// Slot reference outlived its placeholder (removed by a response or life-time)
	if held, holding := d.Holding(); holding && !s.world.Exists(held) {
		d.Release()
	}

	// Move
	axis := s.input.Value(parameter.InputRight) - s.input.Value(parameter.InputLeft)
	maxSpeed, _ := sec.Vec2(parameter.KeyMaxSpeed)
	pos.X += axis * maxSpeed.X * dt.Seconds()
	if sec.HasValue(parameter.KeyMinX) && sec.HasValue(parameter.KeyMaxX) {
		pos.X = vmath.Clamp(pos.X, sec.Float(parameter.KeyMinX), sec.Float(parameter.KeyMaxX))
	}
	s.world.SetPosition(e, pos)
	if held, holding := d.Holding(); holding {
		s.world.SetPosition(held, pos)
	}

	// Promote
	if _, holding := d.Holding(); holding && s.input.HasBeenActivated(parameter.InputDrop) {
		held := d.Release()
		name, _ := s.world.ModelName(held)
		s.world.SetLifeTime(held, 0)
		if dropped := s.factory.Create(name, engine.At(pos)); dropped != 0 {
			s.statDrops.Add(1)
			s.player.Play(audio.SoundDrop)
			s.log.Debug().Stringer("dropper", e).Stringer("planet", dropped).Str("tier", name).Msg("dropped")
		}
	}

	// Refill
	if _, holding := d.Holding(); !holding {
		d.SinceDrop += dt
		if d.First || d.SinceDrop > sec.Duration(parameter.KeyMinDropWait) {
			if name := s.pick(sec.Strings(parameter.KeyDrop)); name != "" {
				if ph := s.factory.Create(name, engine.At(pos), engine.Placeholder()); ph != 0 {
					d.Hold(ph)
					d.SinceDrop = 0
					d.First = false
				}
			}
		}
	}

	s.world.Droppers.Set(e, d)
}

// Held returns the placeholder held by dropper e
func (s *DropperSystem) Held(e core.Entity) (core.Entity, bool) {
	d, ok := s.world.Droppers.Get(e)
	if !ok {
		return 0, false
	}
	return d.Holding()
}

func (s *DropperSystem) pick(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	return names[s.rng.IntN(len(names))]
}
