package force

import (
	"github.com/zeusync/kinetic/internal/core/systems/physics/body"
	"github.com/zeusync/kinetic/pkg/vmath"
)

// Drag opposes motion with -K*m*v.
type Drag struct {
	K      float64
	Bodies []*body.Body
}

func (d Drag) ApplyForce(acc *Accumulator) {
	for _, b := range d.Bodies {
		acc.Add(b, b.V.Scale(-d.K*b.Mass()))
	}
}

// Gravity pulls along -Y with magnitude G*m.
type Gravity struct {
	G      float64
	Bodies []*body.Body
}

func (g Gravity) ApplyForce(acc *Accumulator) {
	for _, b := range g.Bodies {
		acc.Add(b, vmath.V3(0, -g.G*b.Mass(), 0))
	}
}

// BodyForceApplier lets gameplay code push one body without the engine
// knowing why. Fn is called every tick and its result is added.
type BodyForceApplier struct {
	Body *body.Body
	Fn   func(b *body.Body) vmath.Vec3
}

func (a BodyForceApplier) ApplyForce(acc *Accumulator) {
	if a.Fn == nil {
		return
	}
	acc.Add(a.Body, a.Fn(a.Body))
}

// Spring is a Hooke spring between A and B with rest length Rest.
type Spring struct {
	A, B *body.Body
	K    float64
	Rest float64
}

func (s Spring) ApplyForce(acc *Accumulator) {
	delta := s.B.Position().Sub(s.A.Position())
	length := delta.Norm()
	if length == 0 {
		return
	}
	f := delta.Scale(s.K * (length - s.Rest) / length)
	acc.Add(s.A, f)
	acc.Add(s.B, f.Neg())
}
