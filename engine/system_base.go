package engine

import (
	"time"

	"github.com/lixenwraith/planet/core"
	"github.com/lixenwraith/planet/vmath"
)

// System is a per-frame processing stage
type System interface {
	Name() string
	Priority() int // Lower values run first
	Update(dt time.Duration)
}

// Behavior is the lifecycle hook set shared by every entity kind
type Behavior interface {
	OnCreate(e core.Entity)
	OnDelete(e core.Entity)
	Update(e core.Entity, dt time.Duration)
}

// Contact describes a collision reported by the physics layer
type Contact struct {
	Point  vmath.Vec2
	Normal vmath.Vec2 // Points from self toward other
}

// Collider is implemented by behaviors that react to physics contacts
type Collider interface {
	OnCollideBegin(self, other core.Entity, c Contact)
	OnCollideEnd(self, other core.Entity)
}

// LifecycleListener observes entity creation and deletion notifications
// Notifications are delivered by World.Flush, never during a frame's systems
type LifecycleListener interface {
	OnEntityCreated(e core.Entity)
	OnEntityDestroyed(e core.Entity)
}
