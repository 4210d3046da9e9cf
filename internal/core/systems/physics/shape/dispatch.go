package shape

import (
	"fmt"
	"math"

	"github.com/zeusync/kinetic/pkg/vmath"
)

// Contact is the narrow-phase result for one pair.
type Contact struct {
	Hit bool

	// Normal is a unit vector from the first shape toward the second.
	Normal vmath.Vec3

	// Depth is the overlap along Normal.
	Depth float64
}

// Handler tests a pair of placed colliders of fixed kinds.
type Handler func(a, b Placed) Contact

var dispatch [kindCount][kindCount]Handler

func init() {
	register(KindSphere, KindSphere, sphereSphere)
	register(KindSphere, KindBox, sphereHull)
	register(KindSphere, KindConvexPolyhedral, sphereHull)
	register(KindBox, KindBox, hullHull)
	register(KindBox, KindConvexPolyhedral, hullHull)
	register(KindConvexPolyhedral, KindConvexPolyhedral, hullHull)

	if err := ValidateDispatch(); err != nil {
		panic(err)
	}
}

// register installs h for (a, b) and its mirror for (b, a).
func register(a, b Kind, h Handler) {
	dispatch[a][b] = h
	if a != b {
		dispatch[b][a] = func(x, y Placed) Contact {
			c := h(y, x)
			c.Normal = c.Normal.Neg()
			return c
		}
	}
}

// ValidateDispatch checks that every ordered kind pair has a handler.
func ValidateDispatch() error {
	for _, a := range Kinds() {
		for _, b := range Kinds() {
			if dispatch[a][b] == nil {
				return fmt.Errorf("%s/%s: %w", a, b, ErrNoHandler)
			}
		}
	}
	return nil
}

// Collide runs the narrow phase for a and b. Pairs whose bounding boxes
// are disjoint are rejected before the pair handler runs.
func Collide(a, b Placed) (Contact, error) {
	ka, kb := a.Collider.Kind(), b.Collider.Kind()
	if ka >= kindCount || kb >= kindCount || dispatch[ka][kb] == nil {
		return Contact{}, fmt.Errorf("%s/%s: %w", ka, kb, ErrNoHandler)
	}
	if !boundsOverlap(a, b) {
		return Contact{}, nil
	}
	return dispatch[ka][kb](a, b), nil
}

func sphereSphere(a, b Placed) Contact {
	sa := a.Collider.(*SphereCollider)
	sb := b.Collider.(*SphereCollider)

	delta := b.Center().Sub(a.Center())
	dist := delta.Norm()
	reach := sa.radius + sb.radius
	if dist >= reach {
		return Contact{}
	}

	n := vmath.UnitX
	if dist > 1e-9 {
		n = delta.Scale(1 / dist)
	}
	return Contact{Hit: true, Normal: n, Depth: reach - dist}
}

// sphereHull approximates the closest hull point by clipping the sphere
// center against each face plane in turn. A center inside the hull is pushed
// out through the nearest face. Exact when the nearest feature is
// a face; near edges and vertices it can overestimate the distance.
func sphereHull(a, b Placed) Contact {
	s := a.Collider.(*SphereCollider)
	h := b.Collider.(hull)

	center := b.ToLocal(a.Center())
	if !h.Contains(center) {
		p := center
		for _, f := range h.Faces() {
			if dist := f.SignedDistance(p); dist > 0 {
				p = p.Sub(f.Normal().Scale(dist))
			}
		}

		delta := center.Sub(p)
		dist := delta.Norm()
		if dist >= s.radius {
			return Contact{}
		}
		if dist > 1e-9 {
			// delta points from hull to sphere; the contact normal runs sphere -> hull
			n := b.Pose.Rotation.Rotate(delta.Scale(-1 / dist))
			return Contact{Hit: true, Normal: n, Depth: s.radius - dist}
		}
	}

	// Center is inside: push out through the shallowest face.
	best := h.Faces()[0]
	bestDist := math.Inf(-1)
	for _, f := range h.Faces() {
		if d := f.SignedDistance(center); d > bestDist {
			best, bestDist = f, d
		}
	}
	n := b.Pose.Rotation.Rotate(best.Normal().Neg())
	return Contact{Hit: true, Normal: n, Depth: s.radius - bestDist}
}

func hullHull(a, b Placed) Contact {
	res := GJK(a, b)
	if !res.Hit {
		return Contact{}
	}
	pen := EPA(a, b, res)
	return Contact{Hit: true, Normal: pen.Normal, Depth: pen.Depth}
}
