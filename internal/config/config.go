// Package config loads the server's YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/kinetic/internal/arena"
	"github.com/zeusync/kinetic/internal/core/observability/log"
	"github.com/zeusync/kinetic/internal/core/systems/physics"
	"github.com/zeusync/kinetic/internal/server"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Server  server.Config  `yaml:"server"`
	Log     Log            `yaml:"log"`
	Physics physics.Config `yaml:"physics"`
	Arena   arena.Config   `yaml:"arena"`
}

type Log struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

func Default() Config {
	return Config{
		Server:  server.DefaultConfig(),
		Log:     Log{Level: "info", Encoding: "json"},
		Physics: physics.DefaultConfig(),
		Arena:   arena.DefaultConfig(),
	}
}

// Load reads the file at path. An empty path yields Default.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	c, err := LoadYAML(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// LoadYAML decodes r over Default, so omitted keys keep their defaults.
// Unknown keys are rejected.
func LoadYAML(r io.Reader) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	var errs []error
	if err := c.Server.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Arena.Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Encoding != "json" && c.Log.Encoding != "console" {
		errs = append(errs, fmt.Errorf("log encoding %q must be json or console", c.Log.Encoding))
	}
	if c.Physics.Restitution < 0 || c.Physics.Restitution > 1 {
		errs = append(errs, fmt.Errorf("physics restitution %g outside [0, 1]", c.Physics.Restitution))
	}
	if c.Physics.CorrectionPercent < 0 || c.Physics.CorrectionPercent > 1 {
		errs = append(errs, fmt.Errorf("physics correction_percent %g outside [0, 1]", c.Physics.CorrectionPercent))
	}
	if c.Physics.Slop < 0 {
		errs = append(errs, fmt.Errorf("physics slop %g is negative", c.Physics.Slop))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// LogLevel returns the parsed log level.
func (c Config) LogLevel() log.Level {
	level, _ := log.ParseLevel(c.Log.Level)
	return level
}
