// Package app provides the application context and dependency management
// for the assetlink CLI. It centralizes configuration, logging, the metrics
// registry and the lazily built linker.
package app

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/simpilot/assetlink/internal/appcontext"
	"github.com/simpilot/assetlink/pkg/errors"
	"github.com/simpilot/assetlink/pkg/fuzzy"
	"github.com/simpilot/assetlink/pkg/linker"
	"github.com/simpilot/assetlink/pkg/metrics"
	"github.com/simpilot/assetlink/pkg/normalize"
)

// App represents the assetlink application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	registry *prometheus.Registry

	// Lazy-initialized, shared by every linker the app builds
	mu      sync.RWMutex
	metrics *metrics.Metrics
	linker  linker.Linker
}

var _ appcontext.Interface = (*App)(nil)

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version:  version,
		commit:   commit,
		date:     date,
		builtBy:  builtBy,
		registry: prometheus.NewRegistry(),
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Registry returns the metrics registry.
func (a *App) Registry() *prometheus.Registry {
	return a.registry
}

// Scorer returns a fuzzy scorer capped at the configured candidate count.
func (a *App) Scorer() *fuzzy.Scorer {
	return fuzzy.NewScorer(fuzzy.Options{MaxCandidates: a.config.MaxCandidates})
}

// Linker returns the default linker, creating it lazily if needed.
// This is thread-safe and ensures only one instance is created.
func (a *App) Linker() (linker.Linker, error) {
	a.mu.RLock()
	if a.linker != nil {
		l := a.linker
		a.mu.RUnlock()
		return l, nil
	}
	a.mu.RUnlock()

	l, err := a.LinkerWithOptions()
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.linker == nil {
		a.linker = l
	}
	return a.linker, nil
}

// LinkerWithOptions returns a new linker built from the configuration with
// opts applied last, so they override the config-derived settings.
func (a *App) LinkerWithOptions(opts ...linker.Option) (linker.Linker, error) {
	base, err := a.linkerOptions()
	if err != nil {
		return nil, err
	}
	l, err := linker.New(append(base, opts...)...)
	if err != nil {
		return nil, errors.WrapResource("create", "linker", "", err)
	}
	return l, nil
}

// linkerOptions constructs linker options from the app configuration.
func (a *App) linkerOptions() ([]linker.Option, error) {
	keys, err := normalize.ForMode(a.config.KeyMode)
	if err != nil {
		return nil, errors.NewConfigError("key_mode", "unknown key mode "+a.config.KeyMode, err)
	}
	return []linker.Option{
		linker.WithKeyFuncs(keys),
		linker.WithMetrics(a.sharedMetrics()),
	}, nil
}

// sharedMetrics registers the collectors once per registry.
func (a *App) sharedMetrics() *metrics.Metrics {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.metrics == nil {
		a.metrics = metrics.New(a.registry)
	}
	return a.metrics
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return errors.NewValidationError("config", nil, "cannot be nil")
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithLinker sets a custom linker instance (useful for testing).
func WithLinker(l linker.Linker) Option {
	return func(a *App) error {
		a.linker = l
		return nil
	}
}
