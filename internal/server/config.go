package server

import (
	"errors"
	"fmt"
	"time"
)

// Config holds server configuration
type Config struct {
	// Network settings
	ListenAddr string `yaml:"listen_addr"`
	MaxClients int    `yaml:"max_clients"`

	// Simulation settings
	TickRate       int `yaml:"tick_rate"`
	BroadcastEvery int `yaml:"broadcast_every"`

	// Message settings
	InboxSize       int           `yaml:"inbox_size"`
	SendBuffer      int           `yaml:"send_buffer"`
	MaxMessageSize  int64         `yaml:"max_message_size"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	PongTimeout     time.Duration `yaml:"pong_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		ListenAddr:      "127.0.0.1:8080",
		MaxClients:      64,
		TickRate:        60,
		BroadcastEvery:  3,
		InboxSize:       256,
		SendBuffer:      32,
		MaxMessageSize:  4 * 1024,
		WriteTimeout:    10 * time.Second,
		PongTimeout:     60 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.ListenAddr == "" {
		errs = append(errs, errors.New("listen_addr is empty"))
	}
	if c.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("tick_rate %d must be positive", c.TickRate))
	}
	if c.BroadcastEvery <= 0 {
		errs = append(errs, fmt.Errorf("broadcast_every %d must be positive", c.BroadcastEvery))
	}
	if c.MaxClients <= 0 {
		errs = append(errs, fmt.Errorf("max_clients %d must be positive", c.MaxClients))
	}
	if c.InboxSize < 0 || c.SendBuffer <= 0 {
		errs = append(errs, errors.New("inbox_size must not be negative and send_buffer must be positive"))
	}
	if c.WriteTimeout <= 0 || c.PongTimeout <= 0 || c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("timeouts must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// TickDuration is the wall-clock period of one simulation tick.
func (c Config) TickDuration() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}
