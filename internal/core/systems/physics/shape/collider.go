package shape

import (
	"math"

	"github.com/zeusync/kinetic/pkg/vmath"
)

// Kind tags the concrete collider type for pairwise dispatch.
type Kind uint8

const (
	KindBox Kind = iota
	KindSphere
	KindConvexPolyhedral

	kindCount
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindSphere:
		return "sphere"
	case KindConvexPolyhedral:
		return "convex_polyhedral"
	default:
		return "unknown"
	}
}

// Kinds lists every collider kind.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// Collider is a convex shape expressed in its owner's local frame.
type Collider interface {
	Kind() Kind

	// Support returns the farthest local point along dir.
	Support(dir vmath.Vec3) vmath.Vec3

	// Center returns the local reference point of the shape.
	Center() vmath.Vec3
}

// Pose places a collider in the world. A zero Rotation behaves as identity.
type Pose struct {
	Position vmath.Vec3
	Rotation vmath.Quat
}

// Placed is a collider at a world pose.
type Placed struct {
	Collider Collider
	Pose     Pose
}

// Support returns the farthest world point along dir.
func (p Placed) Support(dir vmath.Vec3) vmath.Vec3 {
	if p.Pose.Rotation.IsIdentity() {
		return p.Collider.Support(dir).Add(p.Pose.Position)
	}
	local := p.Pose.Rotation.Conjugate().Rotate(dir)
	return p.ToWorld(p.Collider.Support(local))
}

// ToWorld maps a local point to world space.
func (p Placed) ToWorld(v vmath.Vec3) vmath.Vec3 {
	if p.Pose.Rotation.IsIdentity() {
		return v.Add(p.Pose.Position)
	}
	return p.Pose.Rotation.Rotate(v).Add(p.Pose.Position)
}

// ToLocal maps a world point to local space.
func (p Placed) ToLocal(v vmath.Vec3) vmath.Vec3 {
	if p.Pose.Rotation.IsIdentity() {
		return v.Sub(p.Pose.Position)
	}
	return p.Pose.Rotation.Conjugate().Rotate(v.Sub(p.Pose.Position))
}

// Center returns the world-space center.
func (p Placed) Center() vmath.Vec3 {
	return p.ToWorld(p.Collider.Center())
}

// AABB returns the world-space axis-aligned bounds.
func (p Placed) AABB() (lo, hi vmath.Vec3) {
	hi = vmath.V3(
		p.Support(vmath.UnitX).X,
		p.Support(vmath.UnitY).Y,
		p.Support(vmath.UnitZ).Z,
	)
	lo = vmath.V3(
		p.Support(vmath.UnitX.Neg()).X,
		p.Support(vmath.UnitY.Neg()).Y,
		p.Support(vmath.UnitZ.Neg()).Z,
	)
	return lo, hi
}

// boundsOverlap reports whether the world AABBs of a and b intersect.
// Touching bounds count as overlapping.
func boundsOverlap(a, b Placed) bool {
	alo, ahi := a.AABB()
	blo, bhi := b.AABB()
	return alo.X <= bhi.X && blo.X <= ahi.X &&
		alo.Y <= bhi.Y && blo.Y <= ahi.Y &&
		alo.Z <= bhi.Z && blo.Z <= ahi.Z
}

// argmax returns the vertex with the largest projection on dir.
func argmax(vertices []vmath.Vec3, dir vmath.Vec3) vmath.Vec3 {
	best := vertices[0]
	bestDot := math.Inf(-1)
	for _, v := range vertices {
		if d := v.Dot(dir); d > bestDot {
			best, bestDot = v, d
		}
	}
	return best
}
