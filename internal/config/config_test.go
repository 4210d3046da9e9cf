package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/kinetic/internal/arena"
	"github.com/zeusync/kinetic/internal/core/observability/log"
	"github.com/zeusync/kinetic/internal/server"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
	assert.Equal(t, log.LevelInfo, Default().LogLevel())
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	src := `
server:
  listen_addr: 0.0.0.0:9000
  tick_rate: 120
  write_timeout: 2s
log:
  level: debug
  encoding: console
physics:
  restitution: 0.9
arena:
  ball_speed: 10
`
	c, err := LoadYAML(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", c.Server.ListenAddr)
	assert.Equal(t, 120, c.Server.TickRate)
	assert.Equal(t, 2*time.Second, c.Server.WriteTimeout)
	assert.Equal(t, server.DefaultConfig().BroadcastEvery, c.Server.BroadcastEvery)
	assert.Equal(t, log.LevelDebug, c.LogLevel())
	assert.Equal(t, "console", c.Log.Encoding)
	assert.Equal(t, 0.9, c.Physics.Restitution)
	assert.Equal(t, 0.8, c.Physics.CorrectionPercent)
	assert.Equal(t, 10.0, c.Arena.BallSpeed)
	assert.Equal(t, arena.DefaultConfig().Width, c.Arena.Width)
}

func TestLoadYAMLEmpty(t *testing.T) {
	c, err := LoadYAML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadYAMLRejects(t *testing.T) {
	_, err := LoadYAML(strings.NewReader("server:\n  tick_rat: 10\n"))
	assert.Error(t, err)

	_, err = LoadYAML(strings.NewReader("physics:\n  restitution: 2\nlog:\n  level: loud\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorContains(t, err, "restitution")
	assert.ErrorContains(t, err, "loud")

	_, err = LoadYAML(strings.NewReader("arena:\n  ball_radius: -1\n"))
	assert.ErrorIs(t, err, arena.ErrInvalidConfig)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kinetic.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  max_clients: 2\n"), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Server.MaxClients)

	c, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
