package vmath

import (
	"fmt"
	"math"
)

// Vec3 is a 3D vector value.
type Vec3 struct {
	X, Y, Z float64
}

// Common axes.
var (
	Zero3 = Vec3{}
	UnitX = Vec3{X: 1}
	UnitY = Vec3{Y: 1}
	UnitZ = Vec3{Z: 1}
)

func V3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}
func (v Vec3) Neg() Vec3 { return Vec3{-v.X, -v.Y, -v.Z} }

func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// TripleCross returns (a × b) × c.
func TripleCross(a, b, c Vec3) Vec3 {
	return a.Cross(b).Cross(c)
}

func (v Vec3) NormSq() float64 { return v.Dot(v) }
func (v Vec3) Norm() float64   { return math.Sqrt(v.Dot(v)) }

// Normalize returns v scaled to unit length, or v itself when it is zero.
func (v Vec3) Normalize() Vec3 {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

// Distance returns |v - o|.
func (v Vec3) Distance(o Vec3) float64 { return v.Sub(o).Norm() }

// ApproxEqual compares component-wise within eps.
func (v Vec3) ApproxEqual(o Vec3, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps && math.Abs(v.Z-o.Z) <= eps
}

// Vector returns the components as a 3-length Vector.
func (v Vec3) Vector() Vector { return Vector{v.X, v.Y, v.Z} }

// Vec3FromVector reads a Vec3 from a 3-length Vector.
func Vec3FromVector(v Vector) (Vec3, error) {
	if len(v) != 3 {
		return Vec3{}, fmt.Errorf("vec3 from %d components: %w", len(v), ErrDimensionMismatch)
	}
	return Vec3{v[0], v[1], v[2]}, nil
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}
