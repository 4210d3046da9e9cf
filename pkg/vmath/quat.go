package vmath

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec4 is a 4D vector value.
type Vec4 struct {
	X, Y, Z, W float64
}

func (v Vec4) Dot(o Vec4) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z + v.W*o.W }
func (v Vec4) Norm() float64      { return math.Sqrt(v.Dot(v)) }
func (v Vec4) Scale(s float64) Vec4 {
	return Vec4{v.X * s, v.Y * s, v.Z * s, v.W * s}
}

// Normalize returns v at unit length; zero stays zero.
func (v Vec4) Normalize() Vec4 {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

// XYZ drops the W component.
func (v Vec4) XYZ() Vec3 { return Vec3{v.X, v.Y, v.Z} }

// Vector returns the components as a 4-length Vector.
func (v Vec4) Vector() Vector { return Vector{v.X, v.Y, v.Z, v.W} }

func (v Vec4) String() string {
	return fmt.Sprintf("(%g, %g, %g, %g)", v.X, v.Y, v.Z, v.W)
}

// Quat is a unit quaternion. X, Y, Z hold the vector part and W the scalar.
// Every constructor and Mul keeps it normalized.
type Quat struct {
	Vec4
}

// QuatIdent is the identity rotation.
func QuatIdent() Quat { return Quat{Vec4{W: 1}} }

// NewQuat normalizes (x, y, z, w) into a rotation. A zero input yields identity.
func NewQuat(x, y, z, w float64) Quat {
	v := Vec4{x, y, z, w}
	if v.Norm() == 0 {
		return QuatIdent()
	}
	return Quat{v.Normalize()}
}

// QuatFromAxisAngle builds the rotation of angle radians about axis.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	a := axis.Normalize()
	s := math.Sin(angle / 2)
	return NewQuat(a.X*s, a.Y*s, a.Z*s, math.Cos(angle/2))
}

// Mul returns the Hamilton product q*o, renormalized.
func (q Quat) Mul(o Quat) Quat {
	return NewQuat(
		q.W*o.X+q.X*o.W+q.Y*o.Z-q.Z*o.Y,
		q.W*o.Y-q.X*o.Z+q.Y*o.W+q.Z*o.X,
		q.W*o.Z+q.X*o.Y-q.Y*o.X+q.Z*o.W,
		q.W*o.W-q.X*o.X-q.Y*o.Y-q.Z*o.Z,
	)
}

// Conjugate returns the inverse rotation.
func (q Quat) Conjugate() Quat {
	return Quat{Vec4{-q.X, -q.Y, -q.Z, q.W}}
}

// RotateInPlace rotates v by q using v' = v + 2w(u×v) + 2u×(u×v).
func (q Quat) RotateInPlace(v *Vec3) {
	u := q.XYZ()
	t := u.Cross(*v).Scale(2)
	*v = v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Rotate returns v rotated by q.
func (q Quat) Rotate(v Vec3) Vec3 {
	q.RotateInPlace(&v)
	return v
}

// IsIdentity reports whether q leaves vectors unchanged.
func (q Quat) IsIdentity() bool {
	return q.X == 0 && q.Y == 0 && q.Z == 0
}

// Mgl converts to the mathgl representation.
func (q Quat) Mgl() mgl64.Quat {
	return mgl64.Quat{W: q.W, V: mgl64.Vec3{q.X, q.Y, q.Z}}
}

// Mat4 returns the homogeneous rotation matrix.
func (q Quat) Mat4() mgl64.Mat4 {
	return q.Mgl().Mat4()
}

// Mgl converts to the mathgl representation.
func (v Vec3) Mgl() mgl64.Vec3 { return mgl64.Vec3{v.X, v.Y, v.Z} }

// Vec3FromMgl converts from the mathgl representation.
func Vec3FromMgl(v mgl64.Vec3) Vec3 { return Vec3{v[0], v[1], v[2]} }
