package server

import "errors"

// Server-specific errors
var (
	ErrServerClosed      = errors.New("server is closed")
	ErrMaxClientsReached = errors.New("maximum clients reached")
	ErrClientNotFound    = errors.New("client not found")
	ErrSideTaken         = errors.New("paddle already controlled by another client")
	ErrInvalidMessage    = errors.New("invalid message")
	ErrInvalidConfig     = errors.New("invalid server configuration")
	ErrListenerFailed    = errors.New("failed to create listener")
)
