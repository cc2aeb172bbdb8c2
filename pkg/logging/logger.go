// Package logging provides structured logging for the assetlink engine using
// zerolog. Library code never creates its own logger: it pulls one from the
// context with FromContext and falls back to the package default, which is
// console output on a terminal and JSON everywhere else.
//
// Example usage:
//
//	ctx := logging.WithLogger(context.Background(), logging.Default())
//	ctx = logging.WithRun(ctx, runID)
//	logging.FromContext(ctx).Info().Int("robots", 12).Msg("Linking robots")
package logging

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// defaultLogger is used whenever a context carries no logger.
var defaultLogger = NewLoggerFromConfig(ConfigFromEnv())

// Default returns the default global logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the default logger, including zerolog's global one.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// isTerminal reports whether f is an interactive terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
