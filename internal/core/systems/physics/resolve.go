package physics

import (
	"math"

	"github.com/zeusync/kinetic/internal/core/systems/physics/body"
	"github.com/zeusync/kinetic/internal/core/systems/physics/shape"
	"github.com/zeusync/kinetic/pkg/vmath"
)

// OrientCollisionNormal flips n when it points from b back toward a.
func OrientCollisionNormal(a, b, n vmath.Vec3) vmath.Vec3 {
	if n.Dot(b.Sub(a)) < 0 {
		return n.Neg()
	}
	return n
}

// ResolveCollision applies equal and opposite impulses along n, which must
// point from a to b. It reports false and leaves velocities alone when the
// bodies are already separating.
func ResolveCollision(a, b *body.Body, n vmath.Vec3, restitution float64) bool {
	velAlongNormal := b.V.Sub(a.V).Dot(n)
	if velAlongNormal > 0 {
		return false
	}

	invA, invB := a.InverseMass(), b.InverseMass()
	total := invA + invB
	if total == 0 {
		return false
	}

	j := -(1 + restitution) * velAlongNormal / total
	impulse := n.Scale(j)
	if !a.IsStatic() {
		a.V = a.V.Sub(impulse.Scale(invA))
	}
	if !b.IsStatic() {
		b.V = b.V.Add(impulse.Scale(invB))
	}
	return true
}

// PositionalCorrection moves a and b apart by percent of the depth that
// exceeds slop, split by inverse mass.
func PositionalCorrection(a, b *body.Body, contact shape.Contact, percent, slop float64) {
	invA, invB := a.InverseMass(), b.InverseMass()
	total := invA + invB
	if total == 0 {
		return
	}

	magnitude := math.Max(contact.Depth-slop, 0) / total * percent
	if magnitude == 0 {
		return
	}
	correction := contact.Normal.Scale(magnitude)
	if !a.IsStatic() {
		a.Transform.Position = a.Transform.Position.Sub(correction.Scale(invA))
	}
	if !b.IsStatic() {
		b.Transform.Position = b.Transform.Position.Add(correction.Scale(invB))
	}
}
