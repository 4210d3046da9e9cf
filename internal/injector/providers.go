package injector

import (
	"github.com/google/wire"
	"github.com/zeusync/kinetic/internal/arena"
	"github.com/zeusync/kinetic/internal/config"
	"github.com/zeusync/kinetic/internal/core/events/bus"
	"github.com/zeusync/kinetic/internal/core/observability/log"
	"github.com/zeusync/kinetic/internal/core/systems/physics"
	"github.com/zeusync/kinetic/internal/server"
)

var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideEngine,
	ProvideBus,
	ProvideArena,
	ProvideServer,
)

func ProvideLogger(cfg config.Config) (*log.Logger, func()) {
	logger := log.NewWithEncoding(cfg.LogLevel(), cfg.Log.Encoding)
	return logger, func() { _ = logger.Sync() }
}

func ProvideEngine(cfg config.Config, logger *log.Logger) *physics.Engine {
	return physics.NewEngine(cfg.Physics, logger)
}

func ProvideBus() bus.EventBus {
	return bus.New()
}

func ProvideArena(cfg config.Config, engine *physics.Engine, events bus.EventBus, logger *log.Logger) (*arena.Arena, error) {
	return arena.New(cfg.Arena, engine, events, logger)
}

func ProvideServer(cfg config.Config, a *arena.Arena, logger *log.Logger) (*server.Server, error) {
	return server.NewServer(cfg.Server, a, logger)
}
