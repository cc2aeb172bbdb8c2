package linker

import (
	"fmt"
	"time"

	"github.com/agentstation/utc"

	"github.com/simpilot/assetlink/pkg/assets"
	"github.com/simpilot/assetlink/pkg/linkgraph"
)

// Result represents the outcome of a linking run. Robots and Tools are the
// caller's own records, now carrying resolved foreign keys.
type Result struct {
	// Core data
	Cells  []assets.Cell
	Robots []*assets.Robot
	Tools  []*assets.Tool
	Graph  *linkgraph.Graph

	// Issues
	Warnings []assets.IngestionWarning

	// Metadata
	Metadata ResultMetadata
}

// ResultMetadata contains metadata about the linking run.
type ResultMetadata struct {
	// RunID identifies the run in logs
	RunID string

	// StartTime when linking started
	StartTime utc.Time

	// EndTime when linking completed
	EndTime utc.Time

	// Duration of the run
	Duration time.Duration

	// KeyMode is the normalizer set used
	KeyMode string
}

// WarningsOf returns the warnings of one kind, in emission order.
func (r *Result) WarningsOf(kind assets.WarningKind) []assets.IngestionWarning {
	var out []assets.IngestionWarning
	for _, w := range r.Warnings {
		if w.Kind == kind {
			out = append(out, w)
		}
	}
	return out
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	if r.Graph == nil {
		return "Linking did not run."
	}
	summary := r.Graph.Stats.Summary()
	if n := len(r.WarningsOf(assets.WarningMissingTarget)); n > 0 {
		summary += fmt.Sprintf(" %d unresolved.", n)
	}
	return summary
}

func newResult(in Input, keyMode string) *Result {
	return &Result{
		Cells:    in.Cells,
		Robots:   in.Robots,
		Tools:    in.Tools,
		Warnings: []assets.IngestionWarning{},
		Metadata: ResultMetadata{
			StartTime: utc.Now(),
			KeyMode:   keyMode,
		},
	}
}

// finalize calculates duration and marks completion.
func (r *Result) finalize() {
	r.Metadata.EndTime = utc.Now()
	r.Metadata.Duration = r.Metadata.EndTime.Sub(r.Metadata.StartTime)
}
