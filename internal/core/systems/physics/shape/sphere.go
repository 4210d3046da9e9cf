package shape

import (
	"fmt"

	"github.com/zeusync/kinetic/pkg/vmath"
)

type SphereCollider struct {
	center vmath.Vec3
	radius float64
}

func NewSphereCollider(center vmath.Vec3, radius float64) (*SphereCollider, error) {
	if !(radius > 0) {
		return nil, fmt.Errorf("radius %g: %w", radius, ErrInvalidRadius)
	}
	return &SphereCollider{center: center, radius: radius}, nil
}

func (s *SphereCollider) Kind() Kind { return KindSphere }

func (s *SphereCollider) Support(dir vmath.Vec3) vmath.Vec3 {
	return s.center.Add(dir.Normalize().Scale(s.radius))
}

func (s *SphereCollider) Center() vmath.Vec3 { return s.center }
func (s *SphereCollider) Radius() float64    { return s.radius }
