package core

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Logger interface for raycaster logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// nopLogger discards everything
type nopLogger struct{}

func (nopLogger) Printf(string, ...interface{}) {}

// NopLogger returns a Logger that discards all output
func NopLogger() Logger {
	return nopLogger{}
}

// zerologLogger writes Printf calls as info events
type zerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger adapts a zerolog logger to the Logger interface.
// Trailing newlines are trimmed since zerolog terminates every event.
func NewZerologLogger(log zerolog.Logger) Logger {
	return &zerologLogger{log: log}
}

func (z *zerologLogger) Printf(format string, args ...interface{}) {
	z.log.Info().Msg(strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}

// OrNop returns logger, or a discarding logger when it is nil
func OrNop(logger Logger) Logger {
	if logger == nil {
		return NopLogger()
	}
	return logger
}
