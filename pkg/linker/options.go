package linker

import (
	"github.com/simpilot/assetlink/pkg/errors"
	"github.com/simpilot/assetlink/pkg/linkgraph"
	"github.com/simpilot/assetlink/pkg/metrics"
	"github.com/simpilot/assetlink/pkg/normalize"
)

// options configures a linker.
type options struct {
	ids      linkgraph.IDGenerator
	keys     normalize.KeyFuncs
	metrics  *metrics.Metrics
	fileName string // fallback warning file name for assets without a SourceFile
}

func defaultOptions() *options {
	return &options{
		ids:  linkgraph.DefaultIDs(),
		keys: normalize.Default(),
	}
}

// Option is a function that configures a Linker.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// newOptions returns linker options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithIDGenerator sets the link id generator. Tests pass a fresh
// linkgraph.NewCounter() per case.
func WithIDGenerator(ids linkgraph.IDGenerator) Option {
	return func(o *options) error {
		if ids == nil {
			return &errors.ValidationError{
				Field:   "ids",
				Message: "cannot be nil",
			}
		}
		o.ids = ids
		return nil
	}
}

// WithKeyFuncs sets the normalizers used for indexing and matching.
func WithKeyFuncs(keys normalize.KeyFuncs) Option {
	return func(o *options) error {
		if keys.Station == nil || keys.Area == nil || keys.Line == nil || keys.Name == nil {
			return &errors.ValidationError{
				Field:   "keys",
				Message: "every normalizer must be set",
			}
		}
		o.keys = keys
		return nil
	}
}

// WithCanonicalKeys switches to the digit-run station and expanding area
// normalizers.
func WithCanonicalKeys() Option {
	return func(o *options) error {
		o.keys = normalize.Canonical()
		return nil
	}
}

// WithMetrics records every run on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) error {
		if m == nil {
			return &errors.ValidationError{
				Field:   "metrics",
				Message: "cannot be nil",
			}
		}
		o.metrics = m
		return nil
	}
}

// WithFileName sets the warning file name for assets that carry no
// SourceFile of their own.
func WithFileName(name string) Option {
	return func(o *options) error {
		o.fileName = name
		return nil
	}
}
