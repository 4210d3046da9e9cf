//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"
	"github.com/zeusync/kinetic/internal/config"
	"github.com/zeusync/kinetic/internal/server"
)

// InitializeServer builds the server and everything under it from cfg.
// The returned cleanup flushes the logger.
func InitializeServer(cfg config.Config) (*server.Server, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}
