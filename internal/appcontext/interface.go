// Package appcontext provides the shared application context interface
// used by all commands. Commands accept this interface rather than the
// concrete App type so they can be tested with Mock.
package appcontext

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/simpilot/assetlink/pkg/fuzzy"
	"github.com/simpilot/assetlink/pkg/linker"
)

// Interface defines the application context interface that commands need.
type Interface interface {
	// Linker returns the default linker, creating it lazily from config.
	Linker() (linker.Linker, error)

	// LinkerWithOptions creates a linker with options appended to the
	// config-derived ones, e.g. linker.WithCanonicalKeys for --canonical.
	LinkerWithOptions(...linker.Option) (linker.Linker, error)

	// Scorer returns a fuzzy scorer capped at the configured candidate count.
	Scorer() *fuzzy.Scorer

	// Registry returns the metrics registry every linker records into.
	Registry() *prometheus.Registry

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, wide).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
