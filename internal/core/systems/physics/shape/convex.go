package shape

import (
	"fmt"
	"math"

	"github.com/zeusync/kinetic/pkg/vmath"
)

const (
	// ConvexityEpsilon is the slack allowed when testing vertices against face planes.
	ConvexityEpsilon = 1e-4

	// vertexHashScale sets the rounding grid used to merge shared face vertices.
	vertexHashScale = 1e6
)

type vertexKey [3]int64

func hashVertex(v vmath.Vec3) vertexKey {
	return vertexKey{
		int64(math.Round(v.X * vertexHashScale)),
		int64(math.Round(v.Y * vertexHashScale)),
		int64(math.Round(v.Z * vertexHashScale)),
	}
}

// ConvexPolyhedralCollider is a closed convex hull given by its faces.
// Faces are stored with outward normals regardless of input winding.
type ConvexPolyhedralCollider struct {
	faces    []*Polygon
	vertices []vmath.Vec3
	center   vmath.Vec3
}

// NewConvexPolyhedralCollider merges face vertices and checks that no face
// plane splits the vertex set.
func NewConvexPolyhedralCollider(faces []*Polygon) (*ConvexPolyhedralCollider, error) {
	if len(faces) < 4 {
		return nil, fmt.Errorf("%d faces: %w", len(faces), ErrTooFewFaces)
	}

	seen := make(map[vertexKey]struct{})
	var vertices []vmath.Vec3
	var center vmath.Vec3
	for _, f := range faces {
		for _, v := range f.vertices {
			key := hashVertex(v)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			vertices = append(vertices, v)
			center = center.Add(v)
		}
	}
	center = center.Scale(1 / float64(len(vertices)))

	oriented := make([]*Polygon, len(faces))
	for i, f := range faces {
		var above, below bool
		for _, v := range vertices {
			switch dist := f.SignedDistance(v); {
			case dist > ConvexityEpsilon:
				above = true
			case dist < -ConvexityEpsilon:
				below = true
			}
		}
		if above && below {
			return nil, fmt.Errorf("face %d splits the hull: %w", i, ErrNotConvex)
		}
		if above {
			f = f.reversed()
		}
		oriented[i] = f
	}

	return &ConvexPolyhedralCollider{
		faces:    oriented,
		vertices: vertices,
		center:   center,
	}, nil
}

func (c *ConvexPolyhedralCollider) Kind() Kind { return KindConvexPolyhedral }

func (c *ConvexPolyhedralCollider) Support(dir vmath.Vec3) vmath.Vec3 {
	return argmax(c.vertices, dir)
}

func (c *ConvexPolyhedralCollider) Center() vmath.Vec3 { return c.center }

// Faces returns the outward-oriented faces.
func (c *ConvexPolyhedralCollider) Faces() []*Polygon { return c.faces }

// Vertices returns the deduplicated vertex set.
func (c *ConvexPolyhedralCollider) Vertices() []vmath.Vec3 {
	return append([]vmath.Vec3(nil), c.vertices...)
}

// Contains reports whether a local point is inside or on the hull.
func (c *ConvexPolyhedralCollider) Contains(p vmath.Vec3) bool {
	for _, f := range c.faces {
		if f.SignedDistance(p) > ConvexityEpsilon {
			return false
		}
	}
	return true
}

// hull is implemented by every collider backed by face planes.
type hull interface {
	Collider
	Faces() []*Polygon
	Contains(p vmath.Vec3) bool
}
