package injector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/kinetic/internal/arena"
	"github.com/zeusync/kinetic/internal/config"
	"github.com/zeusync/kinetic/internal/server"
)

func TestInitializeServer(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "error"

	srv, cleanup, err := InitializeServer(cfg)
	require.NoError(t, err)
	defer cleanup()
	require.NotNil(t, srv)
	assert.NotNil(t, srv.Room())
}

func TestInitializeServerPropagatesErrors(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "error"
	cfg.Arena.BallRadius = 0
	_, _, err := InitializeServer(cfg)
	assert.ErrorIs(t, err, arena.ErrInvalidConfig)

	cfg = config.Default()
	cfg.Log.Level = "error"
	cfg.Server.TickRate = 0
	_, _, err = InitializeServer(cfg)
	assert.ErrorIs(t, err, server.ErrInvalidConfig)
}
