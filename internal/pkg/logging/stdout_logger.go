package logging

import (
	"io"
	"log/slog"
	"os"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

type Logger interface {
	Info(message string, args ...any)
	Warn(message string, args ...any)
	Error(message string, args ...any)
}

var StdoutLogger = slog.New(slog.NewTextHandler(os.Stdout, nil))

// NewLogger returns a JSON logger for FormatJSON and a text logger for anything else.
func NewLogger(w io.Writer, format string) *slog.Logger {
	if format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, nil))
	}

	return slog.New(slog.NewTextHandler(w, nil))
}
