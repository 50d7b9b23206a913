package engine

import (
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/planet/component"
	"github.com/lixenwraith/planet/core"
	"github.com/lixenwraith/planet/parameter"
	"github.com/lixenwraith/planet/vmath"
)

// World contains all entities, their components and the kind dispatch table
type World struct {
	mu           sync.RWMutex
	nextEntityID core.Entity

	Objects   *Store[component.ObjectComponent]
	Bodies    *Store[component.BodyComponent]
	Lifetimes *Store[component.LifetimeComponent]
	Planets   *Store[component.PlanetComponent]
	Droppers  *Store[component.DropperComponent]
	Tracks    *Store[component.TrackComponent]

	systems   []System
	behaviors map[core.Kind]Behavior
	listeners []LifecycleListener

	// Lifecycle notification queue, drained by Flush
	pendingCreate  []core.Entity
	pendingDestroy []core.Entity
	destroying     map[core.Entity]bool
	live           map[core.Entity]bool

	log zerolog.Logger
}

// NewWorld creates an empty world
func NewWorld(log zerolog.Logger) *World {
	return &World{
		nextEntityID: 1,
		Objects:      NewStore[component.ObjectComponent](),
		Bodies:       NewStore[component.BodyComponent](),
		Lifetimes:    NewStore[component.LifetimeComponent](),
		Planets:      NewStore[component.PlanetComponent](),
		Droppers:     NewStore[component.DropperComponent](),
		Tracks:       NewStore[component.TrackComponent](),
		behaviors:    make(map[core.Kind]Behavior),
		destroying:   make(map[core.Entity]bool),
		live:         make(map[core.Entity]bool),
		log:          log.With().Str("component", "world").Logger(),
	}
}

// CreateEntity reserves an id, stores the object component and queues the created notification
func (w *World) CreateEntity(obj component.ObjectComponent) core.Entity {
	w.mu.Lock()
	id := w.nextEntityID
	w.nextEntityID++
	w.pendingCreate = append(w.pendingCreate, id)
	w.mu.Unlock()

	w.Objects.Set(id, obj)
	w.Lifetimes.Set(id, component.LifetimeComponent{Remaining: component.LifetimeInfinite})
	return id
}

// Destroy schedules removal; the deleted notification fires on the next Flush
// Destroying an unknown or already scheduled entity is a no-op
func (w *World) Destroy(e core.Entity) {
	if !w.Objects.Has(e) {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroying[e] {
		return
	}
	w.destroying[e] = true
	w.pendingDestroy = append(w.pendingDestroy, e)
}

// Exists reports whether e has been created and not yet removed
func (w *World) Exists(e core.Entity) bool {
	return w.Objects.Has(e)
}

// Live reports whether e's created notification was delivered and removal is not scheduled
func (w *World) Live(e core.Entity) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.live[e] && !w.destroying[e]
}

// ModelName returns the catalog section of e
func (w *World) ModelName(e core.Entity) (string, bool) {
	obj, ok := w.Objects.Get(e)
	if !ok {
		return "", false
	}
	return obj.Name, true
}

// Kind returns the behavior tag of e
func (w *World) Kind(e core.Entity) core.Kind {
	obj, _ := w.Objects.Get(e)
	return obj.Kind
}

// LifeTime returns the remaining life-time of e; unknown entities report 0
func (w *World) LifeTime(e core.Entity) time.Duration {
	lt, ok := w.Lifetimes.Get(e)
	if !ok {
		return 0
	}
	return lt.Remaining
}

// SetLifeTime sets the remaining life-time; 0 schedules removal by the lifetime system
func (w *World) SetLifeTime(e core.Entity, d time.Duration) {
	w.Lifetimes.Mutate(e, func(lt *component.LifetimeComponent) {
		lt.Remaining = d
	})
}

// Position returns the world position of e
func (w *World) Position(e core.Entity) (vmath.Vec2, bool) {
	b, ok := w.Bodies.Get(e)
	if !ok {
		return vmath.Vec2{}, false
	}
	return b.Position, true
}

// SetPosition moves e without touching its velocity
func (w *World) SetPosition(e core.Entity, p vmath.Vec2) {
	w.Bodies.Mutate(e, func(b *component.BodyComponent) {
		b.Position = p
	})
}

// SetBehavior binds the hook set for a kind
func (w *World) SetBehavior(kind core.Kind, b Behavior) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.behaviors[kind] = b
}

func (w *World) behaviorOf(e core.Entity) Behavior {
	kind := w.Kind(e)
	w.mu.RLock()
	defer w.mu.RUnlock()
	if b, ok := w.behaviors[kind]; ok {
		return b
	}
	return w.behaviors[core.KindGeneric]
}

// AddListener registers a lifecycle observer
func (w *World) AddListener(l LifecycleListener) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listeners = append(w.listeners, l)
}

// RemoveListener unregisters a lifecycle observer; unknown listeners are ignored
func (w *World) RemoveListener(l LifecycleListener) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listeners = slices.DeleteFunc(w.listeners, func(x LifecycleListener) bool { return x == l })
}

func (w *World) listenerSnapshot() []LifecycleListener {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.listeners)
}

// AddSystem adds a system and keeps the list sorted by priority
func (w *World) AddSystem(system System) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.systems = append(w.systems, system)
	slices.SortStableFunc(w.systems, func(a, b System) int {
		return a.Priority() - b.Priority()
	})
}

// Systems returns a copy of all registered systems
func (w *World) Systems() []System {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.systems)
}

// Update runs all systems in priority order and then delivers lifecycle notifications
func (w *World) Update(dt time.Duration) {
	for _, system := range w.Systems() {
		system.Update(dt)
	}
	w.Flush()
}

// UpdateBehaviors runs the per-entity Update hook for every live entity
func (w *World) UpdateBehaviors(dt time.Duration) {
	for _, e := range w.Objects.All() {
		if !w.Live(e) {
			continue
		}
		if b := w.behaviorOf(e); b != nil {
			b.Update(e, dt)
		}
	}
}

// CollideBegin routes a contact to both participants' behaviors
// Each side sees itself as self; the normal is flipped for the second side
func (w *World) CollideBegin(a, b core.Entity, c Contact) {
	if col, ok := w.behaviorOf(a).(Collider); ok {
		col.OnCollideBegin(a, b, c)
	}
	flipped := Contact{Point: c.Point, Normal: c.Normal.Scale(-1)}
	if col, ok := w.behaviorOf(b).(Collider); ok {
		col.OnCollideBegin(b, a, flipped)
	}
}

// CollideEnd routes a separation to both participants' behaviors
func (w *World) CollideEnd(a, b core.Entity) {
	if col, ok := w.behaviorOf(a).(Collider); ok {
		col.OnCollideEnd(a, b)
	}
	if col, ok := w.behaviorOf(b).(Collider); ok {
		col.OnCollideEnd(b, a)
	}
}

// Flush delivers queued creation and deletion notifications
// Creation: kind hook, then listeners. Deletion: listeners, then kind hook, then store removal
// Entities created by hooks are delivered in a later pass, up to MaxFlushPasses
func (w *World) Flush() {
	for pass := 0; pass < parameter.MaxFlushPasses; pass++ {
		w.mu.Lock()
		created := w.pendingCreate
		destroyed := w.pendingDestroy
		w.pendingCreate = nil
		w.pendingDestroy = nil
		w.mu.Unlock()

		if len(created) == 0 && len(destroyed) == 0 {
			return
		}

		for _, e := range created {
			if !w.Objects.Has(e) {
				continue
			}
			w.mu.Lock()
			w.live[e] = true
			w.mu.Unlock()

			if b := w.behaviorOf(e); b != nil {
				b.OnCreate(e)
			}
			for _, l := range w.listenerSnapshot() {
				l.OnEntityCreated(e)
			}
		}

		for _, e := range destroyed {
			w.mu.RLock()
			wasLive := w.live[e]
			w.mu.RUnlock()

			if wasLive {
				for _, l := range w.listenerSnapshot() {
					l.OnEntityDestroyed(e)
				}
				if b := w.behaviorOf(e); b != nil {
					b.OnDelete(e)
				}
			}
			w.removeFromAllStores(e)

			w.mu.Lock()
			delete(w.live, e)
			delete(w.destroying, e)
			w.mu.Unlock()
		}
	}

	w.mu.RLock()
	deferred := len(w.pendingCreate) + len(w.pendingDestroy)
	w.mu.RUnlock()
	if deferred > 0 {
		w.log.Debug().Int("deferred", deferred).Msg("lifecycle notifications carried to next frame")
	}
}

// Clear schedules every entity for removal and flushes until the world is empty
func (w *World) Clear() {
	for i := 0; i < parameter.MaxFlushPasses && w.Objects.Count() > 0; i++ {
		for _, e := range w.Objects.All() {
			w.Destroy(e)
		}
		w.Flush()
	}
}

// Entities returns every entity in ascending id order
func (w *World) Entities() []core.Entity {
	return w.Objects.All()
}

// EntityCount returns the number of entities in the world
func (w *World) EntityCount() int {
	return w.Objects.Count()
}

func (w *World) removeFromAllStores(e core.Entity) {
	w.Objects.Remove(e)
	w.Bodies.Remove(e)
	w.Lifetimes.Remove(e)
	w.Planets.Remove(e)
	w.Droppers.Remove(e)
	w.Tracks.Remove(e)
}

// BehaviorSystem runs per-entity Update hooks as a regular system
type BehaviorSystem struct {
	world *World
}

// NewBehaviorSystem wraps World.UpdateBehaviors
func NewBehaviorSystem(world *World) *BehaviorSystem {
	return &BehaviorSystem{world: world}
}

func (s *BehaviorSystem) Name() string { return "behavior" }

func (s *BehaviorSystem) Priority() int { return parameter.PriorityBehavior }

func (s *BehaviorSystem) Update(dt time.Duration) {
	s.world.UpdateBehaviors(dt)
}
