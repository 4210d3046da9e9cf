package physics

import (
	"github.com/zeusync/kinetic/internal/core/systems/physics/body"
	"github.com/zeusync/kinetic/internal/core/systems/physics/force"
	"github.com/zeusync/kinetic/pkg/vmath"
)

// World is the surface game loops drive once per tick: Step, then
// CheckColliders. Engine is the only implementation; the interface exists so
// scenes and the server can be tested against it.
type World interface {
	RegisterBody(key string, b *body.Body) error
	RegisterForce(forces ...force.Force)

	Step(dt float64) error
	CheckColliders() error

	// State is the flattened phase vector in registration order.
	State() vmath.Vector
	UpdateState(delta vmath.Vector) error
	SetState(state vmath.Vector) error

	Body(key string) (*body.Body, bool)
	Keys() []string
	Elapsed() float64
	Ticks() uint64

	Capture() *Snapshot
	Restore(s *Snapshot) error
}

var _ World = (*Engine)(nil)
