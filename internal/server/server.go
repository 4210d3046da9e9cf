package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/kinetic/internal/arena"
	"github.com/zeusync/kinetic/internal/core/observability/log"
)

// Server exposes one arena room over websocket.
type Server struct {
	config Config
	room   *Room
	logger log.Log

	http   *http.Server
	closed atomic.Bool
}

// NewServer wires a room around a and prepares the HTTP server.
func NewServer(config Config, a *arena.Arena, logger log.Log) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NewNop()
	}

	room, err := NewRoom(config, a, logger)
	if err != nil {
		return nil, err
	}

	s := &Server{
		config: config,
		room:   room,
		logger: logger.With(log.String("component", "server")),
	}
	s.http = &http.Server{
		Addr:    config.ListenAddr,
		Handler: s.Handler(),
	}

	s.logger.Info("Server created",
		log.String("listen_addr", config.ListenAddr),
		log.Int("max_clients", config.MaxClients),
		log.Int("tick_rate", config.TickRate))
	return s, nil
}

func (s *Server) Room() *Room { return s.room }

// Run listens on the configured address and blocks until ctx is cancelled
// or a component fails. A server can be run once.
func (s *Server) Run(ctx context.Context) error {
	if !s.closed.CompareAndSwap(false, true) {
		return ErrServerClosed
	}

	listener, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrListenerFailed, err)
	}
	return s.Serve(ctx, listener)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.room.Run(ctx)
	})

	g.Go(func() error {
		s.logger.Info("Server listening", log.String("addr", listener.Addr().String()))
		if err := s.http.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("Stopping server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	s.logger.Info("Server stopped")
	return err
}
