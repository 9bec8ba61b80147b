package logging

import (
	"io"
	"log/slog"
	"os"

	"gitlab.com/arcadia-gg/accounts-backend/pkg/env"
)

// Setup builds the process logger for the given mode. Local and test
// modes get human-readable text output, everything else JSON. When
// path is non-empty the log is appended to that file instead of
// stdout; the returned cleanup closes it.
func Setup(path string, mode env.Mode) (*slog.Logger, func()) {
	opts := &slog.HandlerOptions{Level: mode.SlogLevel()}

	var out io.Writer = os.Stdout
	cleanup := func() {}

	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			slog.Error("Failed to open log file, falling back to stdout", "path", path, "error", err)
		} else {
			out = f
			cleanup = func() { _ = f.Close() }
		}
	}

	var handler slog.Handler
	switch mode {
	case env.Local, env.Test:
		handler = slog.NewTextHandler(out, opts)
	default:
		handler = slog.NewJSONHandler(out, opts)
	}

	return slog.New(handler), cleanup
}
