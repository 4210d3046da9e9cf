package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/kinetic/internal/arena"
	"github.com/zeusync/kinetic/internal/core/events/bus"
	"github.com/zeusync/kinetic/internal/core/observability/log"
	"github.com/zeusync/kinetic/internal/core/systems/physics"
	"github.com/zeusync/kinetic/pkg/vmath"
)

func newTestArena(t *testing.T) *arena.Arena {
	t.Helper()
	engine := physics.NewEngine(physics.DefaultConfig(), log.NewNop())
	a, err := arena.New(arena.DefaultConfig(), engine, bus.New(), log.NewNop())
	require.NoError(t, err)
	return a
}

func newTestRoom(t *testing.T, mutate func(*Config)) *Room {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	r, err := NewRoom(cfg, newTestArena(t), log.NewNop())
	require.NoError(t, err)
	return r
}

func fakeClient(id string, buffer int) *client {
	return &client{id: id, send: make(chan []byte, buffer)}
}

func joinRoom(r *Room, c *client, side string) joinResult {
	reply := make(chan joinResult, 1)
	r.handleCommand(join{client: c, side: side, reply: reply})
	return <-reply
}

func nextFrame(t *testing.T, c *client) Frame {
	t.Helper()
	select {
	case b := <-c.send:
		f, err := DecodeFrame(b)
		require.NoError(t, err)
		return f
	default:
		t.Fatal("no frame queued")
		return Frame{}
	}
}

func TestRoomJoinAssignsSides(t *testing.T) {
	r := newTestRoom(t, nil)

	left := fakeClient("left", 8)
	res := joinRoom(r, left, "left")
	require.NoError(t, res.err)
	assert.Equal(t, "left", res.side)

	welcome := nextFrame(t, left)
	assert.Equal(t, FrameWelcome, welcome.Type)
	assert.Equal(t, "left", welcome.Client)
	assert.Equal(t, "left", welcome.Side)

	res = joinRoom(r, fakeClient("again", 8), "left")
	assert.ErrorIs(t, res.err, ErrSideTaken)

	res = joinRoom(r, fakeClient("auto", 8), "auto")
	require.NoError(t, res.err)
	assert.Equal(t, "right", res.side)

	res = joinRoom(r, fakeClient("spectator", 8), "")
	require.NoError(t, res.err)
	assert.Empty(t, res.side)

	res = joinRoom(r, fakeClient("late", 8), "auto")
	require.NoError(t, res.err)
	assert.Empty(t, res.side)

	res = joinRoom(r, fakeClient("bogus", 8), "middle")
	assert.ErrorIs(t, res.err, ErrInvalidMessage)
	assert.ErrorIs(t, res.err, arena.ErrUnknownSide)

	stats := r.stats()
	assert.Equal(t, 4, stats.Clients)
	assert.Equal(t, "left", stats.Left)
	assert.Equal(t, "auto", stats.Right)
}

func TestRoomMaxClients(t *testing.T) {
	r := newTestRoom(t, func(c *Config) { c.MaxClients = 1 })
	require.NoError(t, joinRoom(r, fakeClient("a", 8), "").err)
	assert.ErrorIs(t, joinRoom(r, fakeClient("b", 8), "").err, ErrMaxClientsReached)
}

func TestRoomInputSteersPaddle(t *testing.T) {
	r := newTestRoom(t, nil)
	r.arena.Ball().Teleport(vmath.Zero3, vmath.Zero3)
	require.NoError(t, joinRoom(r, fakeClient("p1", 64), "right").err)
	require.NoError(t, joinRoom(r, fakeClient("watcher", 64), "").err)

	r.handleCommand(input{clientID: "watcher", axis: 1})
	r.handleCommand(input{clientID: "p1", axis: -1})
	r.handleCommand(input{clientID: "nobody", axis: 1})
	for range 10 {
		r.tick()
	}

	assert.Less(t, r.arena.Paddle(arena.Right).Position().Z, 0.0)
	assert.Equal(t, 0.0, r.arena.Paddle(arena.Left).Position().Z)
}

func TestRoomLeaveFreesSide(t *testing.T) {
	r := newTestRoom(t, nil)
	c := fakeClient("p1", 8)
	require.NoError(t, joinRoom(r, c, "left").err)

	r.handleCommand(leave{clientID: "p1"})
	r.handleCommand(leave{clientID: "p1"})

	_, open := <-c.send // welcome
	assert.True(t, open)
	_, open = <-c.send
	assert.False(t, open)

	res := joinRoom(r, fakeClient("p2", 8), "left")
	require.NoError(t, res.err)
	assert.Equal(t, 1, r.stats().Clients)
}

func TestRoomBroadcastsStateAndDropsSlowClients(t *testing.T) {
	r := newTestRoom(t, func(c *Config) { c.BroadcastEvery = 1 })
	fast := fakeClient("fast", 64)
	slow := fakeClient("slow", 1)
	require.NoError(t, joinRoom(r, fast, "").err)
	require.NoError(t, joinRoom(r, slow, "").err)
	nextFrame(t, fast)

	r.tick()

	state := nextFrame(t, fast)
	assert.Equal(t, FrameState, state.Type)
	require.NotNil(t, state.Snapshot)
	assert.Equal(t, uint64(1), state.Snapshot.Tick)
	_, ok := state.Snapshot.Position(arena.KeyBall)
	assert.True(t, ok)

	assert.Equal(t, 1, r.stats().Clients)
	<-slow.send // welcome
	_, open := <-slow.send
	assert.False(t, open)
}

func TestRoomForwardsGoals(t *testing.T) {
	r := newTestRoom(t, func(c *Config) { c.BroadcastEvery = 1_000_000 })
	c := fakeClient("c", 64)
	require.NoError(t, joinRoom(r, c, "").err)
	nextFrame(t, c)

	r.arena.Ball().Teleport(vmath.V3(-9, 0, 5), vmath.V3(-8, 0, 0))
	for range 15 {
		r.tick()
	}

	goal := nextFrame(t, c)
	assert.Equal(t, FrameGoal, goal.Type)
	assert.Equal(t, "right", goal.Side)
	assert.Equal(t, [2]int{0, 1}, goal.Score)
}

func TestRoomRunStopsOnCancel(t *testing.T) {
	r := newTestRoom(t, nil)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- r.Run(ctx) }()

	stats, err := r.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Clients)

	cancel()
	require.NoError(t, <-errCh)

	_, err = r.Stats(context.Background())
	assert.ErrorIs(t, err, ErrServerClosed)
	assert.ErrorIs(t, r.submit(context.Background(), leave{}), ErrServerClosed)
}
