package mdstyle

import (
	"io"
	"log/slog"
)

// Option configures a Styler.
type Option func(*stylerConfig)

type stylerConfig struct {
	source  ConfigSource
	logger  *slog.Logger
	enabled bool
}

// WithConfigSource sets where style configuration is read from. Without a
// source the documented defaults are used.
func WithConfigSource(src ConfigSource) Option {
	return func(cfg *stylerConfig) {
		cfg.source = src
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *stylerConfig) {
		cfg.logger = logger
	}
}

// WithEnabled sets the initial enabled state. Stylers start enabled.
func WithEnabled(enabled bool) Option {
	return func(cfg *stylerConfig) {
		cfg.enabled = enabled
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
