package shape

import (
	"fmt"
	"math"

	"github.com/zeusync/kinetic/pkg/vmath"
)

// CoplanarTolerance is the largest plane distance a polygon vertex may have.
const CoplanarTolerance = 1e-3

// Polygon is a planar face. Its plane satisfies Normal·p + D = 0.
type Polygon struct {
	vertices []vmath.Vec3
	normal   vmath.Vec3
	d        float64
}

// NewPolygon derives the face plane with Newell's method and rejects
// vertex loops that do not lie on it.
func NewPolygon(vertices ...vmath.Vec3) (*Polygon, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("%d vertices: %w", len(vertices), ErrTooFewVertices)
	}

	var n, centroid vmath.Vec3
	for i, cur := range vertices {
		next := vertices[(i+1)%len(vertices)]
		n.X += (cur.Y - next.Y) * (cur.Z + next.Z)
		n.Y += (cur.Z - next.Z) * (cur.X + next.X)
		n.Z += (cur.X - next.X) * (cur.Y + next.Y)
		centroid = centroid.Add(cur)
	}
	if n.Norm() < 1e-12 {
		return nil, ErrDegeneratePolygon
	}
	n = n.Normalize()
	centroid = centroid.Scale(1 / float64(len(vertices)))

	p := &Polygon{
		vertices: append([]vmath.Vec3(nil), vertices...),
		normal:   n,
		d:        -n.Dot(centroid),
	}
	for i, v := range p.vertices {
		if dist := math.Abs(p.SignedDistance(v)); dist > CoplanarTolerance {
			return nil, fmt.Errorf("vertex %d is %.4g off plane: %w", i, dist, ErrNotCoplanar)
		}
	}
	return p, nil
}

func (p *Polygon) Normal() vmath.Vec3 { return p.normal }
func (p *Polygon) D() float64         { return p.d }

// Vertices returns a copy of the vertex loop.
func (p *Polygon) Vertices() []vmath.Vec3 {
	return append([]vmath.Vec3(nil), p.vertices...)
}

// SignedDistance is positive on the side the normal points to.
func (p *Polygon) SignedDistance(v vmath.Vec3) float64 {
	return p.normal.Dot(v) + p.d
}

// reversed flips winding, normal and offset.
func (p *Polygon) reversed() *Polygon {
	out := &Polygon{
		vertices: make([]vmath.Vec3, len(p.vertices)),
		normal:   p.normal.Neg(),
		d:        -p.d,
	}
	for i, v := range p.vertices {
		out.vertices[len(p.vertices)-1-i] = v
	}
	return out
}
