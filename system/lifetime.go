package system

import (
	"sync/atomic"
	"time"

	"github.com/lixenwraith/planet/component"
	"github.com/lixenwraith/planet/engine"
	"github.com/lixenwraith/planet/parameter"
	"github.com/lixenwraith/planet/status"
)

// LifetimeSystem counts down finite life-times and destroys entities that reach zero
type LifetimeSystem struct {
	world *engine.World

	statExpired *atomic.Int64
}

func NewLifetimeSystem(world *engine.World, reg *status.Registry) *LifetimeSystem {
	return &LifetimeSystem{
		world:       world,
		statExpired: reg.Ints.Get("lifetime.expired"),
	}
}

func (s *LifetimeSystem) Name() string {
	return "lifetime"
}

func (s *LifetimeSystem) Priority() int {
	return parameter.PriorityLifetime
}

func (s *LifetimeSystem) Update(dt time.Duration) {
	for _, e := range s.world.Lifetimes.All() {
		expired := false
		s.world.Lifetimes.Mutate(e, func(lt *component.LifetimeComponent) {
			if lt.Remaining == component.LifetimeInfinite {
				return
			}
			if lt.Remaining > 0 {
				lt.Remaining = max(lt.Remaining-dt, 0)
			}
			expired = lt.Remaining == 0
		})
		if expired {
			s.world.Destroy(e)
			s.statExpired.Add(1)
		}
	}
}
