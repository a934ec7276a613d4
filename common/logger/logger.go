package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Package logger provides the unified logging facade for the RAG engine.
// It wraps zerolog so stage packages never depend on a concrete sink.

var (
	mu  sync.RWMutex
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
)

// SetOutput redirects log output, e.g. to a buffer in tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	log = zerolog.New(w).With().Timestamp().Logger()
}

// SetLevel sets the minimum level from a string: debug, info, warn, error.
func SetLevel(level string) {
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	mu.Lock()
	defer mu.Unlock()
	log = log.Level(parsed)
}

func current() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Debugf logs a debug message.
func Debugf(format string, args ...any) {
	l := current()
	l.Debug().Msgf(format, args...)
}

// Infof logs an info message.
func Infof(format string, args ...any) {
	l := current()
	l.Info().Msgf(format, args...)
}

// Warnf logs a warning message.
func Warnf(format string, args ...any) {
	l := current()
	l.Warn().Msgf(format, args...)
}

// Errorf logs an error message.
func Errorf(format string, args ...any) {
	l := current()
	l.Error().Msgf(format, args...)
}

// With returns a component-scoped zerolog logger for callers that want
// structured fields instead of the printf helpers.
func With(component string) zerolog.Logger {
	return current().With().Str("component", component).Logger()
}
