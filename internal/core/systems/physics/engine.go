// Package physics integrates rigid bodies and resolves their contacts.
//
// A tick is Step followed by CheckColliders. Bodies are integrated with
// explicit Euler over a flattened state vector that holds six floats per
// body (position xyz, velocity xyz) in registration order. That layout is
// also what State, UpdateState and snapshots exchange with the network layer.
package physics

import (
	"errors"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/zeusync/kinetic/internal/core/observability/log"
	"github.com/zeusync/kinetic/internal/core/systems/physics/body"
	"github.com/zeusync/kinetic/internal/core/systems/physics/force"
	"github.com/zeusync/kinetic/internal/core/systems/physics/shape"
	"github.com/zeusync/kinetic/pkg/generic"
	"github.com/zeusync/kinetic/pkg/vmath"
)

// StateStride is the number of floats each body occupies in the state vector.
const StateStride = 6

// Config tunes contact resolution.
type Config struct {
	// Restitution is the bounce coefficient used for every contact.
	Restitution float64 `yaml:"restitution"`

	// CorrectionPercent is the share of penetration beyond Slop removed per pass.
	CorrectionPercent float64 `yaml:"correction_percent"`

	// Slop is the overlap tolerated without positional correction.
	Slop float64 `yaml:"slop"`
}

func DefaultConfig() Config {
	return Config{
		Restitution:       1,
		CorrectionPercent: 0.8,
		Slop:              0.01,
	}
}

// Pair is one hit reported by the last CheckColliders pass.
type Pair struct {
	A, B    string
	Contact shape.Contact
}

// Engine owns the body registry, the force generators and simulated time.
// It is single-threaded: every method must be called from the goroutine
// driving the ticks.
type Engine struct {
	config Config
	logger log.Log

	bodies *generic.OrderedMap[string, *body.Body]
	forces []force.Force
	acc    *force.Accumulator

	elapsed float64
	ticks   uint64
	pairs   []Pair

	busy atomic.Bool
}

func NewEngine(config Config, logger log.Log) *Engine {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Engine{
		config: config,
		logger: logger.With(log.String("component", "physics")),
		bodies: generic.NewOrderedMap[string, *body.Body](),
		acc:    force.NewAccumulator(nil),
	}
}

// RegisterBody appends b under key. Registration order fixes the body's
// slot in the state vector. Register between ticks only.
func (e *Engine) RegisterBody(key string, b *body.Body) error {
	if b == nil {
		return fmt.Errorf("%s: %w", key, ErrNilBody)
	}
	if err := e.bodies.Add(key, b); err != nil {
		return fmt.Errorf("register body: %w", err)
	}
	e.acc.Track(b)

	kind := "none"
	if b.Collider != nil {
		kind = b.Collider.Kind().String()
	}
	e.logger.Debug("body registered",
		log.String("key", key),
		log.String("collider", kind),
		log.Bool("static", b.IsStatic()),
		log.Bool("trigger", b.IsTrigger()),
		log.Int("slot", e.bodies.Len()-1),
	)
	return nil
}

// RegisterForce adds generators, applied in registration order every tick.
func (e *Engine) RegisterForce(forces ...force.Force) {
	for _, f := range forces {
		if f != nil {
			e.forces = append(e.forces, f)
		}
	}
}

func (e *Engine) Body(key string) (*body.Body, bool) { return e.bodies.Get(key) }

// Keys returns body keys in registration order.
func (e *Engine) Keys() []string { return e.bodies.Keys() }

// Bodies returns bodies in registration order.
func (e *Engine) Bodies() []*body.Body { return e.bodies.Values() }

// Elapsed is the simulated time in seconds.
func (e *Engine) Elapsed() float64 { return e.elapsed }

// Ticks counts completed steps.
func (e *Engine) Ticks() uint64 { return e.ticks }

// Contacts returns a copy of the hits found by the last CheckColliders call.
func (e *Engine) Contacts() []Pair { return slices.Clone(e.pairs) }

// Step advances the simulation by dt with one explicit Euler step.
//
// Forces are gathered into a fresh accumulator, written back to each body's
// F, and turned into the derivative [v, F/m]. Static bodies ignore forces
// but still move with their own velocity.
func (e *Engine) Step(dt float64) error {
	if !(dt > 0) {
		return fmt.Errorf("dt %g: %w", dt, ErrInvalidStep)
	}
	if !e.busy.CompareAndSwap(false, true) {
		return ErrReentrantStep
	}
	defer e.busy.Store(false)

	bodies := e.bodies.Values()
	state := e.State()

	e.acc.Reset()
	for _, f := range e.forces {
		f.ApplyForce(e.acc)
	}
	if err := e.acc.Err(); err != nil {
		return fmt.Errorf("force phase: %w", err)
	}

	deriv := vmath.NewVector(len(state))
	for i, b := range bodies {
		f := e.acc.At(i)
		b.F = f
		var a vmath.Vec3
		if !b.IsStatic() {
			a = f.Scale(b.InverseMass())
		}
		if err := deriv.Load(i*StateStride, vmath.Vector{b.V.X, b.V.Y, b.V.Z, a.X, a.Y, a.Z}); err != nil {
			return err
		}
	}

	if _, err := state.Add(deriv.Scale(dt)); err != nil {
		return err
	}
	if err := e.load(state); err != nil {
		return err
	}

	e.elapsed += dt
	e.ticks++
	return nil
}

// CheckColliders tests every unordered pair of bodies that carry colliders,
// in registration order. Both bodies' OnCollision hooks fire on a hit.
// Pairs involving a trigger stop there; the rest get an impulse and a
// positional correction.
//
// A missing narrow-phase handler is logged and returned, but does not stop
// the pass.
func (e *Engine) CheckColliders() error {
	if !e.busy.CompareAndSwap(false, true) {
		return ErrReentrantStep
	}
	defer e.busy.Store(false)

	e.pairs = e.pairs[:0]
	entries := e.bodies.Len()

	var errs []error
	for i := 0; i < entries; i++ {
		a := e.bodies.At(i)
		if a.Value.Collider == nil {
			continue
		}
		for j := i + 1; j < entries; j++ {
			b := e.bodies.At(j)
			if a.Value == b.Value {
				continue
			}
			pb, ok := b.Value.Placed()
			if !ok {
				continue
			}
			// earlier pairs may have corrected a's position
			pa, _ := a.Value.Placed()

			contact, err := shape.Collide(pa, pb)
			if err != nil {
				e.logger.Error("narrow phase failed",
					log.String("a", a.Key),
					log.String("b", b.Key),
					log.Error(err),
				)
				errs = append(errs, fmt.Errorf("%s/%s: %w", a.Key, b.Key, err))
				continue
			}
			if !contact.Hit {
				continue
			}

			contact.Normal = OrientCollisionNormal(pa.Center(), pb.Center(), contact.Normal)
			e.pairs = append(e.pairs, Pair{A: a.Key, B: b.Key, Contact: contact})

			if fn := a.Value.OnCollision; fn != nil {
				fn(a.Value, b.Value, contact)
			}
			if fn := b.Value.OnCollision; fn != nil {
				mirrored := contact
				mirrored.Normal = contact.Normal.Neg()
				fn(b.Value, a.Value, mirrored)
			}

			if a.Value.IsTrigger() || b.Value.IsTrigger() {
				continue
			}
			if ResolveCollision(a.Value, b.Value, contact.Normal, e.config.Restitution) {
				PositionalCorrection(a.Value, b.Value, contact, e.config.CorrectionPercent, e.config.Slop)
			}
		}
	}

	return errors.Join(errs...)
}

// State returns a fresh copy of the flattened state: for the body at
// registration index i, floats [6i, 6i+3) are its position and
// [6i+3, 6i+6) its velocity.
func (e *Engine) State() vmath.Vector {
	state := vmath.NewVector(e.bodies.Len() * StateStride)
	for i, b := range e.bodies.Values() {
		_ = state.Load(i*StateStride, b.PhaseState())
	}
	return state
}

// UpdateState adds delta to the current state. A zero delta is the identity.
func (e *Engine) UpdateState(delta vmath.Vector) error {
	state := e.State()
	if _, err := state.Add(delta); err != nil {
		return fmt.Errorf("update state: %w: %w", ErrStateSize, err)
	}
	return e.load(state)
}

// SetState overwrites every body's position and velocity.
func (e *Engine) SetState(state vmath.Vector) error {
	if len(state) != e.bodies.Len()*StateStride {
		return fmt.Errorf("set state of %d floats for %d bodies: %w", len(state), e.bodies.Len(), ErrStateSize)
	}
	return e.load(state)
}

func (e *Engine) load(state vmath.Vector) error {
	for i, b := range e.bodies.Values() {
		phase, err := state.Slice(i*StateStride, StateStride)
		if err != nil {
			return err
		}
		if err = b.SetPhaseState(phase); err != nil {
			return err
		}
	}
	return nil
}
