package utils

import (
	"io"

	"github.com/pterm/pterm"
)

// NewLogger builds the structured logger used by every component. Verbosity 0
// shows warnings and errors, 1 adds info, 2 or more adds debug.
func NewLogger(verbosity int, w io.Writer) *pterm.Logger {
	level := pterm.LogLevelWarn
	switch {
	case verbosity >= 2:
		level = pterm.LogLevelDebug
	case verbosity == 1:
		level = pterm.LogLevelInfo
	}

	return pterm.DefaultLogger.
		WithLevel(level).
		WithWriter(w).
		WithTime(false)
}

// DiscardLogger is a logger that drops everything. Handy for tests.
func DiscardLogger() *pterm.Logger {
	return NewLogger(0, io.Discard)
}
