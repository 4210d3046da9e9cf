package shape

import (
	"github.com/zeusync/kinetic/pkg/generic"
	"github.com/zeusync/kinetic/pkg/vmath"
)

const (
	// GJKMaxIterations bounds the simplex evolution loop.
	GJKMaxIterations = 50

	// degenerateEpsilon is the squared length below which a search direction
	// is treated as zero.
	degenerateEpsilon = 1e-12
)

// simplex holds 1-4 Minkowski-difference points, oldest first.
type simplex struct {
	points [4]vmath.Vec3
	count  int
}

func (s *simplex) push(p vmath.Vec3) {
	s.points[s.count] = p
	s.count++
}

func (s *simplex) set(points ...vmath.Vec3) {
	s.count = copy(s.points[:], points)
}

var simplexPool = generic.NewResetPool(
	func() *simplex { return &simplex{} },
	func(s *simplex) { s.count = 0 },
)

// GJKResult is the outcome of an intersection query.
type GJKResult struct {
	Hit bool

	// Direction is the last non-degenerate search direction. On a hit it
	// approximates the contact normal; it is not a penetration vector.
	Direction vmath.Vec3

	// Simplex holds the final simplex, a tetrahedron enclosing the origin
	// for a clean hit and fewer points when the loop degenerated.
	Simplex []vmath.Vec3
}

// MinkowskiSupport returns the support point of a - b along dir.
func MinkowskiSupport(a, b Placed, dir vmath.Vec3) vmath.Vec3 {
	return a.Support(dir).Sub(b.Support(dir.Neg()))
}

// GJK reports whether two convex shapes overlap.
func GJK(a, b Placed) GJKResult {
	s := simplexPool.Get()
	defer simplexPool.Put(s)

	dir := b.Center().Sub(a.Center())
	if dir.NormSq() < degenerateEpsilon {
		dir = vmath.UnitX
	}

	first := MinkowskiSupport(a, b, dir)
	s.push(first)
	last := dir
	dir = first.Neg()
	if dir.NormSq() < degenerateEpsilon {
		return s.result(true, last)
	}

	for i := 0; i < GJKMaxIterations; i++ {
		p := MinkowskiSupport(a, b, dir)
		if p.Dot(dir) < 0 {
			return s.result(false, dir)
		}

		s.push(p)
		last = dir
		if doSimplex(s, &dir) {
			return s.result(true, last)
		}
		if dir.NormSq() < degenerateEpsilon {
			return s.result(true, last)
		}
	}

	// Out of budget: report the best guess rather than stall the frame.
	return s.result(true, last)
}

func (s *simplex) result(hit bool, dir vmath.Vec3) GJKResult {
	return GJKResult{
		Hit:       hit,
		Direction: dir.Normalize(),
		Simplex:   append([]vmath.Vec3(nil), s.points[:s.count]...),
	}
}

// doSimplex reduces s to the feature nearest the origin and writes the next
// search direction. It returns true once the origin is enclosed.
func doSimplex(s *simplex, dir *vmath.Vec3) bool {
	switch s.count {
	case 2:
		return doLine(s, dir)
	case 3:
		return doTriangle(s, dir)
	case 4:
		return doTetrahedron(s, dir)
	}
	return false
}

func doLine(s *simplex, dir *vmath.Vec3) bool {
	a, b := s.points[1], s.points[0]
	ab := b.Sub(a)
	ao := a.Neg()

	if ab.Dot(ao) <= 0 {
		s.set(a)
		*dir = ao
		return false
	}
	*dir = vmath.TripleCross(ab, ao, ab)
	return false
}

func doTriangle(s *simplex, dir *vmath.Vec3) bool {
	a, b, c := s.points[2], s.points[1], s.points[0]
	ab := b.Sub(a)
	ac := c.Sub(a)
	ao := a.Neg()
	abc := ab.Cross(ac)

	if abc.NormSq() < degenerateEpsilon {
		s.set(b, a)
		return doLine(s, dir)
	}

	if abc.Cross(ac).Dot(ao) > 0 {
		if ac.Dot(ao) > 0 {
			s.set(c, a)
			*dir = vmath.TripleCross(ac, ao, ac)
			return false
		}
		s.set(b, a)
		return doLine(s, dir)
	}

	if ab.Cross(abc).Dot(ao) > 0 {
		s.set(b, a)
		return doLine(s, dir)
	}

	if abc.Dot(ao) > 0 {
		*dir = abc
	} else {
		s.set(b, c, a)
		*dir = abc.Neg()
	}
	return false
}

func doTetrahedron(s *simplex, dir *vmath.Vec3) bool {
	a, b, c, d := s.points[3], s.points[2], s.points[1], s.points[0]
	ab := b.Sub(a)
	ac := c.Sub(a)
	ad := d.Sub(a)
	ao := a.Neg()

	abc := outward(ab.Cross(ac), ad)
	acd := outward(ac.Cross(ad), ab)
	adb := outward(ad.Cross(ab), ac)

	if abc.NormSq() < degenerateEpsilon || acd.NormSq() < degenerateEpsilon || adb.NormSq() < degenerateEpsilon {
		s.set(c, b, a)
		return doTriangle(s, dir)
	}

	switch {
	case abc.Dot(ao) > 0:
		s.set(c, b, a)
	case acd.Dot(ao) > 0:
		s.set(d, c, a)
	case adb.Dot(ao) > 0:
		s.set(b, d, a)
	default:
		return true
	}
	return doTriangle(s, dir)
}

// outward flips n so it points away from the opposite vertex offset.
func outward(n, toOpposite vmath.Vec3) vmath.Vec3 {
	if n.Dot(toOpposite) > 0 {
		return n.Neg()
	}
	return n
}
