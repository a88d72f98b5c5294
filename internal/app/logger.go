package app

import (
	"io"
	"log/slog"
)

// newLogger builds the app's isolated logger; it never touches the process
// global, so concurrent apps and tests stay independent. The level string is
// parsed by slog itself (accepting forms like "warn+2"); an unparseable
// level falls back to info rather than failing the launch, since the CLI has
// already validated its own input.
func newLogger(cfg *Config, outW io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}
