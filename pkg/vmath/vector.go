package vmath

import (
	"errors"
	"fmt"
	"math"
)

// Errors returned by dimension-checked operations.
var (
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	ErrOutOfRange        = errors.New("vector range out of bounds")
)

// Vector is a variable-length float vector. It is used for flattened state
// vectors where each body occupies a fixed-size window.
type Vector []float64

// NewVector returns a zero vector of dimension n.
func NewVector(n int) Vector {
	return make(Vector, n)
}

// Dim returns the vector dimension.
func (v Vector) Dim() int { return len(v) }

// Dot returns the inner product of a and b.
func Dot(a, b Vector) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("dot %d·%d: %w", len(a), len(b), ErrDimensionMismatch)
	}
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum, nil
}

// Norm returns the euclidean length.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Normalize scales v to unit length in place. A zero vector is left untouched.
func (v Vector) Normalize() Vector {
	n := v.Norm()
	if n == 0 {
		return v
	}
	for i := range v {
		v[i] /= n
	}
	return v
}

// Add adds o into v in place and returns v.
func (v Vector) Add(o Vector) (Vector, error) {
	if len(v) != len(o) {
		return v, fmt.Errorf("add %d+%d: %w", len(v), len(o), ErrDimensionMismatch)
	}
	for i := range v {
		v[i] += o[i]
	}
	return v, nil
}

// Sub subtracts o from v in place and returns v.
func (v Vector) Sub(o Vector) (Vector, error) {
	if len(v) != len(o) {
		return v, fmt.Errorf("sub %d-%d: %w", len(v), len(o), ErrDimensionMismatch)
	}
	for i := range v {
		v[i] -= o[i]
	}
	return v, nil
}

// Scale multiplies every component by s in place.
func (v Vector) Scale(s float64) Vector {
	for i := range v {
		v[i] *= s
	}
	return v
}

// Clone returns an independent copy.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Load copies sub into v starting at offset.
func (v Vector) Load(offset int, sub Vector) error {
	if offset < 0 || offset+len(sub) > len(v) {
		return fmt.Errorf("load [%d:%d] into %d: %w", offset, offset+len(sub), len(v), ErrOutOfRange)
	}
	copy(v[offset:], sub)
	return nil
}

// Slice returns a copy of n components starting at offset.
func (v Vector) Slice(offset, n int) (Vector, error) {
	if offset < 0 || n < 0 || offset+n > len(v) {
		return nil, fmt.Errorf("slice [%d:%d] of %d: %w", offset, offset+n, len(v), ErrOutOfRange)
	}
	out := make(Vector, n)
	copy(out, v[offset:offset+n])
	return out, nil
}

// IsZero reports whether every component is exactly zero.
func (v Vector) IsZero() bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
