package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/kinetic/internal/arena"
	"github.com/zeusync/kinetic/internal/core/observability/log"
)

func startServer(t *testing.T) (*httptest.Server, context.CancelFunc) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.TickRate = 120
	cfg.BroadcastEvery = 2

	srv, err := NewServer(cfg, newTestArena(t), log.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = srv.Room().Run(ctx)
	}()

	hs := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		cancel()
		<-done
		hs.Close()
	})
	return hs, cancel
}

func dial(t *testing.T, hs *httptest.Server, side string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(hs.URL, "http") + "/ws?side=" + side
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	kind, data, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, websocket.BinaryMessage, kind)
	f, err := DecodeFrame(data)
	require.NoError(t, err)
	return f
}

func TestWebSocketPlay(t *testing.T) {
	hs, _ := startServer(t)
	conn := dial(t, hs, "left")

	welcome := readFrame(t, conn)
	assert.Equal(t, FrameWelcome, welcome.Type)
	assert.Equal(t, "left", welcome.Side)
	_, err := uuid.Parse(welcome.Client)
	require.NoError(t, err)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MessageInput, Axis: 1}))

	moved := false
	for range 200 {
		f := readFrame(t, conn)
		if f.Type != FrameState {
			continue
		}
		require.NotNil(t, f.Snapshot)
		pos, ok := f.Snapshot.Position(arena.KeyPaddleLeft)
		require.True(t, ok)
		if pos.Z > 0 {
			moved = true
			break
		}
	}
	assert.True(t, moved, "left paddle never moved")
}

func TestWebSocketRejectsTakenSide(t *testing.T) {
	hs, _ := startServer(t)
	first := dial(t, hs, "right")
	assert.Equal(t, "right", readFrame(t, first).Side)

	second := dial(t, hs, "right")
	require.NoError(t, second.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := second.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation), "got %v", err)

	resp, err := http.Get(hs.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats Stats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, 1, stats.Clients)
	assert.NotEmpty(t, stats.Right)
	assert.Empty(t, stats.Left)
}

func TestWebSocketClosedOnShutdown(t *testing.T) {
	hs, cancel := startServer(t)
	conn := dial(t, hs, "")
	assert.Equal(t, FrameWelcome, readFrame(t, conn).Type)

	cancel()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
			return
		}
	}
}

func TestServerRun(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ListenAddr = "127.0.0.1:0"
	srv, err := NewServer(cfg, newTestArena(t), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err = <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	assert.ErrorIs(t, srv.Run(context.Background()), ErrServerClosed)
}

func TestServerRunListenFailure(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	cfg := DefaultConfig()
	cfg.ListenAddr = l.Addr().String()
	srv, err := NewServer(cfg, newTestArena(t), nil)
	require.NoError(t, err)
	assert.ErrorIs(t, srv.Run(context.Background()), ErrListenerFailed)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.TickRate = 0
	cfg.ListenAddr = ""
	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorContains(t, err, "tick_rate")
	assert.ErrorContains(t, err, "listen_addr")

	_, err = NewServer(cfg, newTestArena(t), nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Equal(t, time.Second/60, DefaultConfig().TickDuration())
}
