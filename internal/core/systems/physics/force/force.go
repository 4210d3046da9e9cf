// Package force holds force generators and the per-tick buffer they write to.
//
// Generators never touch body fields directly. During the force phase of a
// tick the engine hands each generator an Accumulator, which is the only
// writable view of the forces for that tick.
package force

import (
	"errors"
	"fmt"

	"github.com/zeusync/kinetic/internal/core/systems/physics/body"
	"github.com/zeusync/kinetic/pkg/vmath"
)

var ErrUnknownBody = errors.New("force applied to unregistered body")

// Force contributes to the accumulator once per tick.
type Force interface {
	ApplyForce(acc *Accumulator)
}

// Func adapts a function to Force.
type Func func(acc *Accumulator)

func (f Func) ApplyForce(acc *Accumulator) { f(acc) }

// Accumulator is the engine-owned force buffer for one tick.
type Accumulator struct {
	index  map[*body.Body]int
	forces []vmath.Vec3
	err    error
}

// NewAccumulator creates a buffer for bodies, in order.
func NewAccumulator(bodies []*body.Body) *Accumulator {
	acc := &Accumulator{
		index:  make(map[*body.Body]int, len(bodies)),
		forces: make([]vmath.Vec3, len(bodies)),
	}
	for i, b := range bodies {
		acc.index[b] = i
	}
	return acc
}

// Track appends a body to the buffer.
func (a *Accumulator) Track(b *body.Body) {
	if _, ok := a.index[b]; ok {
		return
	}
	a.index[b] = len(a.forces)
	a.forces = append(a.forces, vmath.Zero3)
}

// Reset zeroes every slot and clears the recorded error.
func (a *Accumulator) Reset() {
	for i := range a.forces {
		a.forces[i] = vmath.Zero3
	}
	a.err = nil
}

// Add accumulates f on b. Writes to untracked bodies are dropped and
// reported through Err.
func (a *Accumulator) Add(b *body.Body, f vmath.Vec3) {
	if b == nil {
		if a.err == nil {
			a.err = fmt.Errorf("nil body: %w", ErrUnknownBody)
		}
		return
	}
	i, ok := a.index[b]
	if !ok {
		if a.err == nil {
			a.err = fmt.Errorf("%s: %w", b.Tag(), ErrUnknownBody)
		}
		return
	}
	a.forces[i] = a.forces[i].Add(f)
}

// At returns the accumulated force at slot i.
func (a *Accumulator) At(i int) vmath.Vec3 { return a.forces[i] }

// Len returns the number of tracked bodies.
func (a *Accumulator) Len() int { return len(a.forces) }

// Err returns the first write to an untracked body since Reset.
func (a *Accumulator) Err() error { return a.err }
