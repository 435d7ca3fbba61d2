package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Formats accepted by Init.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Init installs the default slog logger writing to w, or os.Stderr if w is
// nil. Verbose lowers the level from Info to Debug.
func Init(verbose bool, format string, w io.Writer) error {
	if w == nil {
		w = os.Stderr
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch format {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	case FormatText, "":
		handler = slog.NewTextHandler(w, opts)
	default:
		return fmt.Errorf("unknown log format %q (supported: text, json)", format)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

// New returns the default logger tagged with a component name.
func New(component string) *slog.Logger {
	return slog.Default().With(slog.String("component", component))
}
