package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/kinetic/internal/core/systems/physics/body"
	"github.com/zeusync/kinetic/internal/core/systems/physics/force"
	"github.com/zeusync/kinetic/pkg/vmath"
)

func fallingPair(t *testing.T) *Engine {
	t.Helper()
	e := newEngine()
	a := mustBody(t, 1, body.WithVelocity(vmath.V3(2, 0, 0)))
	b := mustBody(t, 4, body.WithPosition(vmath.V3(0, 10, 0)))
	require.NoError(t, e.RegisterBody("a", a))
	require.NoError(t, e.RegisterBody("b", b))
	e.RegisterForce(force.Gravity{G: 9.8, Bodies: []*body.Body{a, b}})
	return e
}

func TestCaptureRestore(t *testing.T) {
	e := fallingPair(t)
	for range 10 {
		require.NoError(t, e.Step(1.0/60))
	}
	snap := e.Capture()
	require.NoError(t, snap.Verify())
	assert.Equal(t, uint64(10), snap.Tick)
	assert.Equal(t, []string{"a", "b"}, snap.Keys)

	for range 30 {
		require.NoError(t, e.Step(1.0/60))
	}
	later := e.Capture()
	assert.NotEqual(t, snap.Checksum, later.Checksum)

	require.NoError(t, e.Restore(snap))
	assert.Equal(t, snap.Tick, e.Ticks())
	assert.Equal(t, snap.Elapsed, e.Elapsed())
	assert.Equal(t, vmath.Vector(snap.State), e.State())

	for range 30 {
		require.NoError(t, e.Step(1.0/60))
	}
	assert.Equal(t, later.Checksum, e.Capture().Checksum)
}

func TestRestoreRejectsForeignSnapshot(t *testing.T) {
	e := fallingPair(t)
	other := newEngine()
	require.NoError(t, other.RegisterBody("b", mustBody(t, 1)))
	require.NoError(t, other.RegisterBody("a", mustBody(t, 1)))

	assert.ErrorIs(t, e.Restore(other.Capture()), ErrSnapshotMismatch)
	assert.ErrorIs(t, e.Restore(nil), ErrSnapshotMismatch)

	snap := e.Capture()
	snap.State[0] += 1
	assert.ErrorIs(t, e.Restore(snap), ErrChecksum)
}

func TestSnapshotSerialize(t *testing.T) {
	e := fallingPair(t)
	require.NoError(t, e.Step(0.5))
	snap := e.Capture()

	data, err := snap.Serialize()
	require.NoError(t, err)

	var decoded Snapshot
	require.NoError(t, decoded.Deserialize(data))
	assert.Equal(t, *snap, decoded)

	pos, ok := decoded.Position("b")
	require.True(t, ok)
	assert.Equal(t, vmath.V3(0, 10, 0), pos)
	_, ok = decoded.Position("missing")
	assert.False(t, ok)

	assert.Error(t, decoded.Deserialize([]byte{0xc1}))
}

func TestChecksumIsOrderSensitive(t *testing.T) {
	assert.Equal(t, Checksum([]float64{1, 2}), Checksum([]float64{1, 2}))
	assert.NotEqual(t, Checksum([]float64{1, 2}), Checksum([]float64{2, 1}))
}
