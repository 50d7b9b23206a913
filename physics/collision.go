package physics

import (
	"math"

	"github.com/lixenwraith/planet/component"
	"github.com/lixenwraith/planet/vmath"
)

// Manifold describes an overlap between two bodies
type Manifold struct {
	Normal vmath.Vec2 // Unit vector from a toward b
	Depth  float64    // Penetration along Normal
	Point  vmath.Vec2 // Approximate contact point
}

// Overlap tests two bodies; ShapeNone never overlaps
func Overlap(a, b component.BodyComponent) (Manifold, bool) {
	switch {
	case a.Shape == component.ShapeCircle && b.Shape == component.ShapeCircle:
		return circleCircle(a.Position, a.Radius, b.Position, b.Radius)
	case a.Shape == component.ShapeCircle && b.Shape == component.ShapeBox:
		m, ok := boxCircle(b.Position, b.HalfSize, a.Position, a.Radius)
		m.Normal = m.Normal.Scale(-1)
		return m, ok
	case a.Shape == component.ShapeBox && b.Shape == component.ShapeCircle:
		return boxCircle(a.Position, a.HalfSize, b.Position, b.Radius)
	case a.Shape == component.ShapeBox && b.Shape == component.ShapeBox:
		return boxBox(a.Position, a.HalfSize, b.Position, b.HalfSize)
	}
	return Manifold{}, false
}

func circleCircle(pa vmath.Vec2, ra float64, pb vmath.Vec2, rb float64) (Manifold, bool) {
	d := pb.Sub(pa)
	r := ra + rb
	distSq := d.LenSq()
	if distSq >= r*r {
		return Manifold{}, false
	}

	dist := math.Sqrt(distSq)
	normal := vmath.Vec2{Y: 1}
	if dist > 0 {
		normal = d.Scale(1 / dist)
	}
	return Manifold{
		Normal: normal,
		Depth:  r - dist,
		Point:  pa.Add(normal.Scale(ra)),
	}, true
}

// boxCircle reports the normal from box toward circle
func boxCircle(pb, half vmath.Vec2, pc vmath.Vec2, r float64) (Manifold, bool) {
	closest := vmath.Vec2{
		X: vmath.Clamp(pc.X, pb.X-half.X, pb.X+half.X),
		Y: vmath.Clamp(pc.Y, pb.Y-half.Y, pb.Y+half.Y),
	}
	d := pc.Sub(closest)
	distSq := d.LenSq()

	if distSq > 0 {
		if distSq >= r*r {
			return Manifold{}, false
		}
		dist := math.Sqrt(distSq)
		return Manifold{Normal: d.Scale(1 / dist), Depth: r - dist, Point: closest}, true
	}

	// Center inside the box: push out along the shallowest axis
	rel := pc.Sub(pb)
	dx := half.X - math.Abs(rel.X)
	dy := half.Y - math.Abs(rel.Y)
	if dx < dy {
		n := vmath.Vec2{X: math.Copysign(1, rel.X)}
		return Manifold{Normal: n, Depth: dx + r, Point: pc}, true
	}
	n := vmath.Vec2{Y: math.Copysign(1, rel.Y)}
	return Manifold{Normal: n, Depth: dy + r, Point: pc}, true
}

func boxBox(pa, ha, pb, hb vmath.Vec2) (Manifold, bool) {
	d := pb.Sub(pa)
	ox := ha.X + hb.X - math.Abs(d.X)
	oy := ha.Y + hb.Y - math.Abs(d.Y)
	if ox <= 0 || oy <= 0 {
		return Manifold{}, false
	}
	point := vmath.Midpoint(pa, pb)
	if ox < oy {
		return Manifold{Normal: vmath.Vec2{X: math.Copysign(1, d.X)}, Depth: ox, Point: point}, true
	}
	return Manifold{Normal: vmath.Vec2{Y: math.Copysign(1, d.Y)}, Depth: oy, Point: point}, true
}

// Resolve separates two overlapping bodies and removes their approaching velocity
// Static bodies do not move; sensors are never resolved
func Resolve(a, b *component.BodyComponent, m Manifold, slop, restitution float64) {
	if a.Sensor || b.Sensor {
		return
	}
	invA, invB := inverseMass(a), inverseMass(b)
	total := invA + invB
	if total == 0 {
		return
	}

	corr := math.Max(m.Depth-slop, 0) / total
	a.Position = a.Position.Sub(m.Normal.Scale(corr * invA))
	b.Position = b.Position.Add(m.Normal.Scale(corr * invB))

	rel := b.Velocity.Sub(a.Velocity).Dot(m.Normal)
	if rel >= 0 {
		return
	}
	j := -(1 + restitution) * rel / total
	a.Velocity = a.Velocity.Sub(m.Normal.Scale(j * invA))
	b.Velocity = b.Velocity.Add(m.Normal.Scale(j * invB))
}

func inverseMass(b *component.BodyComponent) float64 {
	if b.Static {
		return 0
	}
	return 1
}
