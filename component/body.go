package component

import "github.com/lixenwraith/planet/vmath"

// Shape selects the collision primitive of a body
type Shape uint8

const (
	ShapeNone Shape = iota // Positioned only, never collides
	ShapeCircle
	ShapeBox
)

// ParseShape maps a config value to a Shape
func ParseShape(s string) Shape {
	switch s {
	case "circle":
		return ShapeCircle
	case "box":
		return ShapeBox
	default:
		return ShapeNone
	}
}

// BodyComponent is the physics-facing state of an entity
type BodyComponent struct {
	Position vmath.Vec2
	Velocity vmath.Vec2
	Shape    Shape
	Radius   float64    // Circle
	HalfSize vmath.Vec2 // Box

	// GravityScale multiplies world gravity; zero disables gravity for this body
	GravityScale float64

	Static    bool // Never moves; resolves overlaps against dynamic bodies
	Sensor    bool // Reports contacts but never pushes
	Simulated bool // False for placeholders: no integration, no contacts
}
