package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New builds the process logger. Unknown levels fall back to warn.
func New(w io.Writer, level string, timestamps bool) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.WarnLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "snap",
		ReportTimestamp: timestamps,
	})
}

// Setup builds the logger and installs it as the package default.
func Setup(level string, timestamps bool) *log.Logger {
	l := New(os.Stderr, level, timestamps)
	log.SetDefault(l)
	return l
}

// Discard returns a logger that drops everything, for tests.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// OrDefault returns l, or the package default logger when l is nil.
func OrDefault(l *log.Logger) *log.Logger {
	if l == nil {
		return log.Default()
	}
	return l
}
