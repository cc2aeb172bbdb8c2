package appcontext

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/simpilot/assetlink/pkg/fuzzy"
	"github.com/simpilot/assetlink/pkg/linker"
	"github.com/simpilot/assetlink/pkg/linkgraph"
	"github.com/simpilot/assetlink/pkg/logging"
	"github.com/simpilot/assetlink/pkg/metrics"
)

// Mock provides a mock implementation of Interface for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a working default.
type Mock struct {
	LinkerFunc            func() (linker.Linker, error)
	LinkerWithOptionsFunc func(...linker.Option) (linker.Linker, error)
	ScorerFunc            func() *fuzzy.Scorer
	LoggerFunc            func() *zerolog.Logger
	Format                string

	registry *prometheus.Registry
	metrics  *metrics.Metrics
}

// Linker returns a linker using the mock function or a fresh default one.
func (m *Mock) Linker() (linker.Linker, error) {
	if m.LinkerFunc != nil {
		return m.LinkerFunc()
	}
	return m.LinkerWithOptions()
}

// LinkerWithOptions returns a linker using the mock function or one built
// from opts with a private id counter, recording into Registry.
func (m *Mock) LinkerWithOptions(opts ...linker.Option) (linker.Linker, error) {
	if m.LinkerWithOptionsFunc != nil {
		return m.LinkerWithOptionsFunc(opts...)
	}
	if m.metrics == nil {
		m.metrics = metrics.New(m.Registry())
	}
	base := []linker.Option{
		linker.WithIDGenerator(linkgraph.NewCounter()),
		linker.WithMetrics(m.metrics),
	}
	return linker.New(append(base, opts...)...)
}

// Scorer returns a scorer using the mock function or an uncapped default.
func (m *Mock) Scorer() *fuzzy.Scorer {
	if m.ScorerFunc != nil {
		return m.ScorerFunc()
	}
	return fuzzy.NewScorer(fuzzy.Options{})
}

// Registry returns a registry private to this mock.
func (m *Mock) Registry() *prometheus.Registry {
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	return m.registry
}

// Logger returns a logger using the mock function or a nop logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	return logging.NewNopLogger()
}

// OutputFormat returns Format.
func (m *Mock) OutputFormat() string {
	return m.Format
}

// Version returns "test".
func (m *Mock) Version() string { return "test" }

// Commit returns "test".
func (m *Mock) Commit() string { return "test" }

// Date returns "test".
func (m *Mock) Date() string { return "test" }

// BuiltBy returns "test".
func (m *Mock) BuiltBy() string { return "test" }

// Ensure Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
