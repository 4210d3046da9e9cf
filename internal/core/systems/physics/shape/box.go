package shape

import (
	"fmt"

	"github.com/zeusync/kinetic/pkg/vmath"
)

// BoxCollider is an axis-aligned (in local space) box. Length runs along X,
// height along Y and width along Z.
type BoxCollider struct {
	*ConvexPolyhedralCollider

	half vmath.Vec3
}

func NewBoxCollider(center vmath.Vec3, l, w, h float64) (*BoxCollider, error) {
	if !(l > 0) || !(w > 0) || !(h > 0) {
		return nil, fmt.Errorf("l=%g w=%g h=%g: %w", l, w, h, ErrInvalidDimensions)
	}
	half := vmath.V3(l/2, h/2, w/2)

	corner := func(sx, sy, sz float64) vmath.Vec3 {
		return center.Add(vmath.V3(sx*half.X, sy*half.Y, sz*half.Z))
	}
	loops := [6][4]vmath.Vec3{
		{corner(1, -1, -1), corner(1, 1, -1), corner(1, 1, 1), corner(1, -1, 1)},
		{corner(-1, -1, -1), corner(-1, -1, 1), corner(-1, 1, 1), corner(-1, 1, -1)},
		{corner(-1, 1, -1), corner(-1, 1, 1), corner(1, 1, 1), corner(1, 1, -1)},
		{corner(-1, -1, -1), corner(1, -1, -1), corner(1, -1, 1), corner(-1, -1, 1)},
		{corner(-1, -1, 1), corner(1, -1, 1), corner(1, 1, 1), corner(-1, 1, 1)},
		{corner(-1, -1, -1), corner(-1, 1, -1), corner(1, 1, -1), corner(1, -1, -1)},
	}

	faces := make([]*Polygon, 0, len(loops))
	for _, loop := range loops {
		f, err := NewPolygon(loop[:]...)
		if err != nil {
			return nil, fmt.Errorf("box face: %w", err)
		}
		faces = append(faces, f)
	}

	poly, err := NewConvexPolyhedralCollider(faces)
	if err != nil {
		return nil, fmt.Errorf("box hull: %w", err)
	}
	return &BoxCollider{ConvexPolyhedralCollider: poly, half: half}, nil
}

func (b *BoxCollider) Kind() Kind { return KindBox }

// HalfExtents returns half of the box size on each local axis.
func (b *BoxCollider) HalfExtents() vmath.Vec3 { return b.half }
