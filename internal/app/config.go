package app

import (
	"errors"
	"time"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// LaunchPath is a single .hcl launch file or a directory of them.
	LaunchPath string

	LogFormat string
	LogLevel  string

	// ShutdownGrace is the window between asking a process to terminate and
	// killing it; zero selects the service default.
	ShutdownGrace time.Duration

	// Arguments overrides launch arguments by name before the description
	// executes, so declared defaults lose against them.
	Arguments map[string]string
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.LaunchPath == "" {
		return nil, errors.New("LaunchPath is a required configuration field and cannot be empty")
	}
	if cfg.ShutdownGrace < 0 {
		return nil, errors.New("ShutdownGrace cannot be negative")
	}
	return &cfg, nil
}
