// Package logx builds the zerolog loggers used by the CLI and pipeline.
package logx

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing to w. Verbose lowers the level to debug.
// Unless jsonOut is set, records go through a human-readable console writer.
func New(w io.Writer, verbose, jsonOut bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	if !jsonOut {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: true}
	}
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// Component tags every record from l with the given component name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}
