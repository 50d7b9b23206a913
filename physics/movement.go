package physics

import (
	"time"

	"github.com/lixenwraith/planet/component"
	"github.com/lixenwraith/planet/vmath"
)

// CapSpeed limits the velocity vector magnitude to maxSpeed
// Returns true if velocity was clamped
func CapSpeed(v *vmath.Vec2, maxSpeed float64) bool {
	if v.LenSq() <= maxSpeed*maxSpeed {
		return false
	}
	*v = v.Normalize().Scale(maxSpeed)
	return true
}

// Integrate advances a dynamic body by dt under its gravity scale (+Y is down)
func Integrate(b *component.BodyComponent, dt time.Duration, maxSpeed float64) {
	if b.Static || !b.Simulated {
		return
	}
	sec := dt.Seconds()
	b.Velocity.Y += b.GravityScale * sec
	CapSpeed(&b.Velocity, maxSpeed)
	b.Position = b.Position.Add(b.Velocity.Scale(sec))
}
