package physics

import (
	"slices"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/planet/component"
	"github.com/lixenwraith/planet/core"
	"github.com/lixenwraith/planet/engine"
	"github.com/lixenwraith/planet/parameter"
	"github.com/lixenwraith/planet/status"
)

type pair struct {
	a, b core.Entity // a < b
}

func makePair(x, y core.Entity) pair {
	if x > y {
		x, y = y, x
	}
	return pair{a: x, b: y}
}

// System integrates simulated bodies, resolves overlaps and reports contact begin/end
// Each overlap episode produces exactly one begin and, once separated, one end
type System struct {
	world    *engine.World
	contacts map[pair]bool

	statContacts *atomic.Int64
	statBegins   *atomic.Int64
}

// NewSystem creates the physics stepper
func NewSystem(world *engine.World, reg *status.Registry) *System {
	return &System{
		world:        world,
		contacts:     make(map[pair]bool),
		statContacts: reg.Ints.Get("physics.contacts"),
		statBegins:   reg.Ints.Get("physics.begins"),
	}
}

func (s *System) Name() string { return "physics" }

func (s *System) Priority() int { return parameter.PriorityPhysics }

// Update steps every simulated body and dispatches contact changes through the world
func (s *System) Update(dt time.Duration) {
	entities := make([]core.Entity, 0, s.world.Bodies.Count())
	bodies := make(map[core.Entity]*component.BodyComponent)
	for _, e := range s.world.Bodies.All() {
		if !s.world.Live(e) {
			continue
		}
		b, _ := s.world.Bodies.Get(e)
		if !b.Simulated || b.Shape == component.ShapeNone {
			continue
		}
		Integrate(&b, dt, parameter.MaxBodySpeed)
		entities = append(entities, e)
		bodies[e] = &b
	}

	current := make(map[pair]engine.Contact)
	for iter := 0; iter < parameter.SolverIterations; iter++ {
		for i := 0; i < len(entities); i++ {
			for j := i + 1; j < len(entities); j++ {
				a, b := bodies[entities[i]], bodies[entities[j]]
				if a.Static && b.Static {
					continue
				}
				m, ok := Overlap(*a, *b)
				if !ok {
					continue
				}
				p := makePair(entities[i], entities[j])
				if _, seen := current[p]; !seen {
					current[p] = engine.Contact{Point: m.Point, Normal: m.Normal}
				}
				Resolve(a, b, m, parameter.ContactSlop, parameter.Restitution)
			}
		}
	}

	for _, e := range entities {
		s.world.Bodies.Set(e, *bodies[e])
	}

	s.dispatch(current)
}

// dispatch diffs this step's contacts against the previous step
// Callbacks run after every body is written back so behaviors see settled positions
func (s *System) dispatch(current map[pair]engine.Contact) {
	var begun, ended []pair
	for p := range current {
		if !s.contacts[p] {
			begun = append(begun, p)
		}
	}
	for p := range s.contacts {
		if _, still := current[p]; !still {
			ended = append(ended, p)
		}
	}
	sortPairs(begun)
	sortPairs(ended)

	s.contacts = make(map[pair]bool, len(current))
	for p := range current {
		s.contacts[p] = true
	}
	s.statContacts.Store(int64(len(current)))

	for _, p := range ended {
		// Removed entities get no end callback
		if !s.world.Exists(p.a) || !s.world.Exists(p.b) {
			continue
		}
		s.world.CollideEnd(p.a, p.b)
	}
	for _, p := range begun {
		s.statBegins.Add(1)
		s.world.CollideBegin(p.a, p.b, current[p])
	}
}

func sortPairs(ps []pair) {
	slices.SortFunc(ps, func(x, y pair) int {
		if x.a != y.a {
			if x.a < y.a {
				return -1
			}
			return 1
		}
		if x.b < y.b {
			return -1
		}
		if x.b > y.b {
			return 1
		}
		return 0
	})
}

// Contacts returns the number of overlapping pairs seen in the last step
func (s *System) Contacts() int {
	return len(s.contacts)
}
