// Package log configures structured logging for nitroviz using log/slog.
package log

import (
	"io"
	"log/slog"
	"os"
)

// Level maps the verbosity flags to a slog level.
//
//   - quiet mode:   only WARN and ERROR messages
//   - normal mode:  INFO and above
//   - verbose mode: DEBUG and above
//
// Quiet wins when both flags are set.
func Level(verbose, quiet bool) slog.Level {
	switch {
	case quiet:
		return slog.LevelWarn
	case verbose:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// New returns a text logger writing to w at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Setup configures the default slog logger based on verbosity flags.
// Output goes to stderr so stdout stays free for reports and the MCP
// stdio transport.
func Setup(verbose, quiet bool) {
	slog.SetDefault(New(os.Stderr, Level(verbose, quiet)))
}
