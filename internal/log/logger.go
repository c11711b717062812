// Package log provides the process-wide structured logger.
package log

import (
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	logger     = zerolog.New(os.Stderr).With().Timestamp().Logger()
	loggerLock sync.RWMutex
)

// Init replaces the logger. Pretty selects the human-readable console
// writer; otherwise one JSON object per line is written to out.
func Init(out io.Writer, pretty bool, levelStr string) {
	if pretty {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.Kitchen,
		}
	}

	loggerLock.Lock()
	logger = zerolog.New(out).
		Level(parseLogLevel(levelStr)).
		With().
		Timestamp().
		Logger()
	loggerLock.Unlock()
}

// SetLevel sets the global log level at runtime
func SetLevel(levelStr string) {
	level := parseLogLevel(levelStr)
	loggerLock.Lock()
	logger = logger.Level(level)
	loggerLock.Unlock()
}

// parseLogLevel converts a string log level to zerolog.Level
func parseLogLevel(levelStr string) zerolog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func current() zerolog.Logger {
	loggerLock.RLock()
	defer loggerLock.RUnlock()
	return logger
}

// Debug logs a debug message
func Debug() *zerolog.Event {
	l := current()
	return l.Debug()
}

// Info logs an info message
func Info() *zerolog.Event {
	l := current()
	return l.Info()
}

// Warn logs a warning message
func Warn() *zerolog.Event {
	l := current()
	return l.Warn()
}

// Error logs an error message
func Error() *zerolog.Event {
	l := current()
	return l.Error()
}

// Logger returns the underlying zerolog.Logger for integrations
func Logger() zerolog.Logger {
	return current()
}

// zerologWriter adapts the logger to io.Writer for stdlib integrations.
type zerologWriter struct{}

func (zerologWriter) Write(p []byte) (int, error) {
	msg := strings.TrimSuffix(string(p), "\n")
	l := current()
	l.Warn().Msg(msg)
	return len(p), nil
}

// StdLogger returns a standard library *log.Logger that writes to zerolog.
// Used for gin's and http.Server's error output.
func StdLogger() *stdlog.Logger {
	return stdlog.New(zerologWriter{}, "", 0)
}

