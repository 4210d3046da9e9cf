package shape

import (
	"math"

	"github.com/zeusync/kinetic/pkg/vmath"
)

const (
	// EPAMaxIterations bounds polytope expansion.
	EPAMaxIterations = 64

	// EPATolerance ends expansion once a new support point improves the
	// closest face distance by less than this.
	EPATolerance = 1e-4
)

type epaFace struct {
	a, b, c int
	normal  vmath.Vec3
	dist    float64
}

type epaEdge struct{ a, b int }

type polytope struct {
	points []vmath.Vec3
	faces  []epaFace

	// interior is a point strictly inside the polytope used to orient faces.
	interior vmath.Vec3
}

func (p *polytope) addFace(a, b, c int) {
	pa, pb, pc := p.points[a], p.points[b], p.points[c]
	n := pb.Sub(pa).Cross(pc.Sub(pa))
	if n.NormSq() < degenerateEpsilon {
		return
	}
	n = n.Normalize()
	if n.Dot(p.interior.Sub(pa)) > 0 {
		n = n.Neg()
		b, c = c, b
	}
	p.faces = append(p.faces, epaFace{a: a, b: b, c: c, normal: n, dist: math.Max(n.Dot(pa), 0)})
}

func (p *polytope) closest() int {
	best, bestDist := -1, math.Inf(1)
	for i, f := range p.faces {
		if f.dist < bestDist {
			best, bestDist = i, f.dist
		}
	}
	return best
}

// expand adds point q, removing every face that can see it and stitching
// the horizon to q.
func (p *polytope) expand(q vmath.Vec3) {
	idx := len(p.points)
	p.points = append(p.points, q)

	var horizon []epaEdge
	toggle := func(e epaEdge) {
		for i, h := range horizon {
			if h.a == e.b && h.b == e.a {
				horizon = append(horizon[:i], horizon[i+1:]...)
				return
			}
		}
		horizon = append(horizon, e)
	}

	kept := p.faces[:0]
	for _, f := range p.faces {
		if f.normal.Dot(q.Sub(p.points[f.a])) > 0 {
			toggle(epaEdge{f.a, f.b})
			toggle(epaEdge{f.b, f.c})
			toggle(epaEdge{f.c, f.a})
			continue
		}
		kept = append(kept, f)
	}
	p.faces = kept

	for _, e := range horizon {
		p.addFace(e.a, e.b, idx)
	}
}

// Penetration is the minimum translation separating two shapes.
type Penetration struct {
	// Normal points from a toward b; moving b along it by Depth separates them.
	Normal vmath.Vec3
	Depth  float64
}

// EPA expands the GJK simplex to find penetration depth and normal. A
// simplex with fewer than four points falls back to a depth estimate along
// the GJK direction.
func EPA(a, b Placed, res GJKResult) Penetration {
	if len(res.Simplex) < 4 {
		return estimatePenetration(a, b, res.Direction)
	}

	p := &polytope{points: append([]vmath.Vec3(nil), res.Simplex...)}
	for _, v := range p.points {
		p.interior = p.interior.Add(v.Scale(0.25))
	}
	p.addFace(0, 1, 2)
	p.addFace(0, 3, 1)
	p.addFace(0, 2, 3)
	p.addFace(1, 3, 2)
	if len(p.faces) < 4 {
		return estimatePenetration(a, b, res.Direction)
	}

	var best epaFace
	for i := 0; i < EPAMaxIterations; i++ {
		ci := p.closest()
		if ci < 0 {
			break
		}
		best = p.faces[ci]

		q := MinkowskiSupport(a, b, best.normal)
		if q.Dot(best.normal)-best.dist < EPATolerance {
			break
		}
		p.expand(q)
	}

	if best.normal.NormSq() == 0 {
		return estimatePenetration(a, b, res.Direction)
	}
	return Penetration{Normal: best.normal, Depth: best.dist}
}

// estimatePenetration measures overlap of a and b projected on the axis
// between their centers, or on dir when the centers coincide.
func estimatePenetration(a, b Placed, dir vmath.Vec3) Penetration {
	n := b.Center().Sub(a.Center())
	if n.NormSq() < degenerateEpsilon {
		n = dir
	}
	if n.NormSq() < degenerateEpsilon {
		n = vmath.UnitX
	}
	n = n.Normalize()
	depth := MinkowskiSupport(a, b, n).Dot(n)
	return Penetration{Normal: n, Depth: math.Max(depth, 0)}
}
