// Package metrics provides Prometheus metrics for linking runs.
package metrics

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"github.com/simpilot/assetlink/pkg/assets"
	"github.com/simpilot/assetlink/pkg/linkgraph"
)

const namespace = "assetlink"

// Metrics holds the collectors for one registry.
type Metrics struct {
	// RunsTotal tracks linking runs by key mode
	RunsTotal *prometheus.CounterVec

	// RunDuration tracks linking run duration in seconds
	RunDuration *prometheus.HistogramVec

	// LinksTotal tracks created links by type and confidence
	LinksTotal *prometheus.CounterVec

	// WarningsTotal tracks ingestion warnings by kind
	WarningsTotal *prometheus.CounterVec

	// UnlinkedAssets reports unlinked assets of the last run by kind
	UnlinkedAssets *prometheus.GaugeVec
}

// New registers linking collectors with reg. Use a fresh
// prometheus.NewRegistry() per test.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "linker",
				Name:      "runs_total",
				Help:      "Total number of linking runs by key mode",
			},
			[]string{"key_mode"},
		),
		RunDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "linker",
				Name:      "run_duration_seconds",
				Help:      "Duration of linking runs in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"key_mode"},
		),
		LinksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "graph",
				Name:      "links_total",
				Help:      "Total number of links created by type and confidence",
			},
			[]string{"type", "confidence"},
		),
		WarningsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "linker",
				Name:      "warnings_total",
				Help:      "Total number of ingestion warnings by kind",
			},
			[]string{"kind"},
		),
		UnlinkedAssets: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "graph",
				Name:      "unlinked_assets",
				Help:      "Unlinked assets in the most recent run by kind",
			},
			[]string{"kind"},
		),
	}
}

// ObserveRun records one completed run.
func (m *Metrics) ObserveRun(keyMode string, g *linkgraph.Graph, warnings []assets.IngestionWarning, d time.Duration) {
	m.RunsTotal.WithLabelValues(keyMode).Inc()
	m.RunDuration.WithLabelValues(keyMode).Observe(d.Seconds())
	for _, l := range g.Links {
		m.LinksTotal.WithLabelValues(string(l.Type), string(l.Confidence)).Inc()
	}
	for _, w := range warnings {
		m.WarningsTotal.WithLabelValues(string(w.Kind)).Inc()
	}
	m.UnlinkedAssets.WithLabelValues(string(assets.KindRobot)).Set(float64(g.Stats.UnlinkedRobots))
	m.UnlinkedAssets.WithLabelValues(string(assets.KindTool)).Set(float64(g.Stats.UnlinkedTools))
}

// WriteText writes every metric family gathered from g in the Prometheus
// text exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
