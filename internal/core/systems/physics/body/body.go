package body

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/kinetic/internal/core/systems/physics/shape"
	"github.com/zeusync/kinetic/pkg/vmath"
)

// InfiniteMass stands in for unbounded mass on static and kinematic bodies.
const InfiniteMass = 1e12

var ErrInvalidMass = errors.New("mass must be positive")

// CollisionFunc is invoked when the narrow phase reports a hit between me
// and other. The contact normal points from me toward other.
type CollisionFunc func(me, other *Body, contact shape.Contact)

// Transform is the placement of a body. Scale is carried for render
// consumers; colliders are sized at construction and ignore it.
type Transform struct {
	Position vmath.Vec3
	Rotation vmath.Quat
	Scale    vmath.Vec3
}

// Matrix returns the model matrix T * R * S.
func (t Transform) Matrix() mgl64.Mat4 {
	tr := mgl64.Translate3D(t.Position.X, t.Position.Y, t.Position.Z)
	sc := mgl64.Scale3D(t.Scale.X, t.Scale.Y, t.Scale.Z)
	return tr.Mul4(t.Rotation.Mat4()).Mul4(sc)
}

// Body is a rigid body integrated by the engine.
type Body struct {
	Transform Transform

	// V is the linear velocity.
	V vmath.Vec3

	// F holds the force accumulated during the last tick. It is written by
	// the engine only.
	F vmath.Vec3

	Collider    shape.Collider
	OnCollision CollisionFunc

	mass    float64
	trigger bool
	static  bool
	tag     string
}

type Option func(*Body)

func WithPosition(p vmath.Vec3) Option { return func(b *Body) { b.Transform.Position = p } }
func WithVelocity(v vmath.Vec3) Option { return func(b *Body) { b.V = v } }
func WithRotation(q vmath.Quat) Option { return func(b *Body) { b.Transform.Rotation = q } }
func WithCollider(c shape.Collider) Option {
	return func(b *Body) { b.Collider = c }
}
func WithTrigger() Option { return func(b *Body) { b.trigger = true } }
func WithTag(tag string) Option { return func(b *Body) { b.tag = tag } }
func WithOnCollision(fn CollisionFunc) Option {
	return func(b *Body) { b.OnCollision = fn }
}

// New creates a dynamic body.
func New(mass float64, opts ...Option) (*Body, error) {
	if !(mass > 0) {
		return nil, fmt.Errorf("mass %g: %w", mass, ErrInvalidMass)
	}
	b := &Body{
		Transform: Transform{Rotation: vmath.QuatIdent(), Scale: vmath.V3(1, 1, 1)},
		mass:      mass,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// NewStatic creates a body that impulses and forces cannot move. It still
// follows its own velocity, which makes it a kinematic body when V is set.
func NewStatic(opts ...Option) *Body {
	b, _ := New(InfiniteMass, opts...)
	b.static = true
	return b
}

func (b *Body) Mass() float64 { return b.mass }

// InverseMass returns 1/m.
func (b *Body) InverseMass() float64 { return 1 / b.mass }

func (b *Body) IsTrigger() bool { return b.trigger }
func (b *Body) IsStatic() bool  { return b.static }
func (b *Body) Tag() string     { return b.tag }

// Position is shorthand for Transform.Position.
func (b *Body) Position() vmath.Vec3 { return b.Transform.Position }

// Teleport repositions the body outside the integrator, e.g. for a
// network-driven paddle or a ball reset.
func (b *Body) Teleport(p vmath.Vec3, v vmath.Vec3) {
	b.Transform.Position = p
	b.V = v
}

// Placed returns the collider at the body's pose. ok is false when the body
// carries no collider.
func (b *Body) Placed() (shape.Placed, bool) {
	if b.Collider == nil {
		return shape.Placed{}, false
	}
	return shape.Placed{
		Collider: b.Collider,
		Pose:     shape.Pose{Position: b.Transform.Position, Rotation: b.Transform.Rotation},
	}, true
}

// PhaseState returns the 6 floats the engine flattens per body:
// position xyz then velocity xyz.
func (b *Body) PhaseState() vmath.Vector {
	p, v := b.Transform.Position, b.V
	return vmath.Vector{p.X, p.Y, p.Z, v.X, v.Y, v.Z}
}

// SetPhaseState is the inverse of PhaseState.
func (b *Body) SetPhaseState(s vmath.Vector) error {
	if len(s) != 6 {
		return fmt.Errorf("phase state of %d floats: %w", len(s), vmath.ErrDimensionMismatch)
	}
	b.Transform.Position = vmath.V3(s[0], s[1], s[2])
	b.V = vmath.V3(s[3], s[4], s[5])
	return nil
}
