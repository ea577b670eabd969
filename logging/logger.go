// Package logging provides the process-wide *log.Logger used by md2word.
//
// The logger is backed by github.com/charmbracelet/log. Packages call
// Logger() at the point of use so a logger installed with SetLogger (for
// example by the CLI after parsing --log-level) is picked up everywhere.
package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
)

// ErrInvalidLevel is returned by ParseLevel for unknown level names.
var ErrInvalidLevel = errors.New("invalid log level")

// logger holds the package-level logger instance.
// Defaults to nil, which causes Logger() to install the stderr default.
var logger atomic.Pointer[log.Logger]

// New creates a logger writing to w with the md2word prefix.
func New(w io.Writer, level log.Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		Prefix:          "md2word",
		Level:           level,
		ReportTimestamp: false,
	})
	return l
}

// newDiscardLogger creates a logger that discards all output.
func newDiscardLogger() *log.Logger {
	return New(io.Discard, log.FatalLevel)
}

// SetLogger configures the package-level logger.
// Pass nil to silence logging.
//
// SetLogger is safe for concurrent use.
//
// Example capturing logs in tests:
//
//	var buf bytes.Buffer
//	logging.SetLogger(logging.New(&buf, log.DebugLevel))
func SetLogger(l *log.Logger) {
	if l == nil {
		logger.Store(newDiscardLogger())
		return
	}
	logger.Store(l)
}

// Logger returns the package-level logger. Until SetLogger is called it is
// an Info level logger writing to stderr.
//
// Logger is safe for concurrent use.
func Logger() *log.Logger {
	l := logger.Load()
	if l == nil {
		l = New(os.Stderr, log.InfoLevel)
		if !logger.CompareAndSwap(nil, l) {
			l = logger.Load()
		}
	}
	return l
}

// ParseLevel maps a level name (debug, info, warn, error) to a log.Level.
// An empty name means info.
func ParseLevel(name string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return log.InfoLevel, nil
	case "debug", "trace":
		return log.DebugLevel, nil
	case "info":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	case "off", "fatal":
		return log.FatalLevel, nil
	}
	return log.InfoLevel, errors.WithHint(
		errors.Wrapf(ErrInvalidLevel, "%q", name),
		"supported levels are debug, info, warn, error, off",
	)
}
