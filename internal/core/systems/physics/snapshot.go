package physics

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeusync/kinetic/pkg/encoding"
	"github.com/zeusync/kinetic/pkg/vmath"
)

var _ encoding.Serializable[Snapshot] = (*Snapshot)(nil)

// Snapshot is a point-in-time copy of the engine state, suitable for
// broadcasting to clients and for rolling the engine back.
type Snapshot struct {
	Tick     uint64    `msgpack:"tick"`
	Elapsed  float64   `msgpack:"elapsed"`
	Keys     []string  `msgpack:"keys"`
	State    []float64 `msgpack:"state"`
	Checksum uint64    `msgpack:"checksum"`
}

// Capture copies the current state into a new snapshot.
func (e *Engine) Capture() *Snapshot {
	state := e.State()
	return &Snapshot{
		Tick:     e.ticks,
		Elapsed:  e.elapsed,
		Keys:     e.Keys(),
		State:    state,
		Checksum: Checksum(state),
	}
}

// Restore rewinds the engine to s. The snapshot must have been captured
// from an engine with the same bodies registered in the same order.
func (e *Engine) Restore(s *Snapshot) error {
	if s == nil {
		return ErrSnapshotMismatch
	}
	if !slices.Equal(s.Keys, e.Keys()) {
		return fmt.Errorf("restore tick %d: %w", s.Tick, ErrSnapshotMismatch)
	}
	if err := s.Verify(); err != nil {
		return err
	}
	if err := e.SetState(vmath.Vector(s.State).Clone()); err != nil {
		return fmt.Errorf("restore tick %d: %w", s.Tick, err)
	}
	e.ticks = s.Tick
	e.elapsed = s.Elapsed
	return nil
}

// Verify recomputes the checksum over State.
func (s *Snapshot) Verify() error {
	if sum := Checksum(s.State); sum != s.Checksum {
		return fmt.Errorf("tick %d: got %016x, want %016x: %w", s.Tick, sum, s.Checksum, ErrChecksum)
	}
	return nil
}

// Position returns the position stored for key.
func (s *Snapshot) Position(key string) (vmath.Vec3, bool) {
	i := slices.Index(s.Keys, key)
	if i < 0 || (i+1)*StateStride > len(s.State) {
		return vmath.Vec3{}, false
	}
	off := i * StateStride
	return vmath.V3(s.State[off], s.State[off+1], s.State[off+2]), true
}

func (s *Snapshot) Serialize() ([]byte, error) {
	return msgpack.Marshal(s)
}

// Deserialize decodes data into s and verifies the checksum.
func (s *Snapshot) Deserialize(data []byte) error {
	if err := msgpack.Unmarshal(data, s); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	return s.Verify()
}

// Checksum hashes the IEEE-754 bits of state. Two engines fed the same
// inputs produce the same checksum.
func Checksum(state []float64) uint64 {
	h := xxhash.New()
	var buf [8]byte
	for _, x := range state {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(x))
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}
