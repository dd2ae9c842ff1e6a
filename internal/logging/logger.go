// Package logging configures the zerolog logger used across the client.
//
// The terminal belongs to the TUI while it runs, so logs go to a file by
// default rather than stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum level: debug, info, warn or error.
	Level string

	// Pretty enables human-readable console output instead of JSON.
	Pretty bool

	// Output receives log lines. When nil, File is opened instead.
	Output io.Writer

	// File is the path logs are appended to when Output is nil.
	File string
}

// Setup configures the global zerolog logger. The returned cleanup closes the
// log file, if one was opened.
func Setup(cfg Config) (zerolog.Logger, func() error, error) {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	out := cfg.Output
	cleanup := func() error { return nil }
	if out == nil {
		if cfg.File == "" {
			out = io.Discard
		} else {
			f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
			if err != nil {
				return zerolog.Nop(), cleanup, fmt.Errorf("open log file: %w", err)
			}
			out = f
			cleanup = f.Close
		}
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, NoColor: true}
	}

	logger := zerolog.New(out).With().Timestamp().Logger()
	log.Logger = logger
	return logger, cleanup, nil
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a logger tagged with the given component name.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Fields used across components:
//   - request_id: list fetch correlation ID
//   - page, size, sort: list query
//   - status_code: HTTP status of a failed fetch
//   - image_url: live image source
//   - outcome: image chain outcome (retry, placeholder, settled)
