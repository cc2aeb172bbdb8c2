// Package link provides the link command, which resolves a bundle of
// robots and tools to station cells.
package link

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/simpilot/assetlink/internal/appcontext"
	"github.com/simpilot/assetlink/internal/cmd/output"
	"github.com/simpilot/assetlink/pkg/assets"
	"github.com/simpilot/assetlink/pkg/errors"
	"github.com/simpilot/assetlink/pkg/linker"
	"github.com/simpilot/assetlink/pkg/linkgraph"
	"github.com/simpilot/assetlink/pkg/logging"
	"github.com/simpilot/assetlink/pkg/metrics"
)

// Report is the JSON/YAML shape of a linking run.
type Report struct {
	RunID    string                    `json:"runId" yaml:"runId"`
	KeyMode  string                    `json:"keyMode" yaml:"keyMode"`
	Summary  string                    `json:"summary" yaml:"summary"`
	Stats    linkgraph.Stats           `json:"stats" yaml:"stats"`
	Links    []linkgraph.AssetLink     `json:"links" yaml:"links"`
	Warnings []assets.IngestionWarning `json:"warnings" yaml:"warnings"`
	Robots   []*assets.Robot           `json:"robots,omitempty" yaml:"robots,omitempty"`
	Tools    []*assets.Tool            `json:"tools,omitempty" yaml:"tools,omitempty"`
}

// NewCommand creates the link command with app dependencies.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link <bundle>",
		Short: "Link robots and tools in a bundle to station cells",
		Long: `Link reads a YAML or JSON bundle of cells, robots and tools, resolves
every robot and tool to a station cell, and prints the resulting links
followed by any warnings.

Ambiguous links are marked with "*" next to their confidence.`,
		Example: `  assetlink link plant.yaml                 # Table of links and warnings
  assetlink link plant.yaml -o json         # Full report with enriched records
  assetlink link plant.yaml --canonical     # Use expanded area and station keys
  assetlink link plant.yaml --metrics       # Append run metrics`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			canonical, _ := cmd.Flags().GetBool("canonical")
			showMetrics, _ := cmd.Flags().GetBool("metrics")
			records, _ := cmd.Flags().GetBool("records")
			return run(cmd, app, args[0], canonical, showMetrics, records)
		},
	}

	cmd.Flags().Bool("canonical", false, "Use canonical keys (expanded area names, digit-run stations)")
	cmd.Flags().Bool("metrics", false, "Print run metrics in Prometheus text format after the report")
	cmd.Flags().Bool("records", false, "Include enriched robot and tool records in JSON/YAML output")

	return cmd
}

func run(cmd *cobra.Command, app appcontext.Interface, path string, canonical, showMetrics, records bool) error {
	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}
	format = output.DetectFormat(string(format))

	bundle, err := assets.LoadBundle(path)
	if err != nil {
		return err
	}

	var l linker.Linker
	if canonical {
		l, err = app.LinkerWithOptions(linker.WithCanonicalKeys())
	} else {
		l, err = app.Linker()
	}
	if err != nil {
		return err
	}

	ctx := logging.WithLogger(cmd.Context(), app.Logger())
	ctx = logging.WithFile(ctx, path)

	result, err := l.Link(ctx, linker.Input{Cells: bundle.Cells, Robots: bundle.Robots, Tools: bundle.Tools})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format.IsTable() {
		if err := writeTables(out, format, result); err != nil {
			return err
		}
	} else {
		report := Report{
			RunID:    result.Metadata.RunID,
			KeyMode:  result.Metadata.KeyMode,
			Summary:  result.Summary(),
			Stats:    result.Graph.Stats,
			Links:    result.Graph.Links,
			Warnings: result.Warnings,
		}
		if records {
			report.Robots = result.Robots
			report.Tools = result.Tools
		}
		if err := output.NewFormatter(format).Format(out, report); err != nil {
			return errors.WrapIO("write", "stdout", err)
		}
	}

	if showMetrics {
		// Keep JSON/YAML on stdout parseable
		w := out
		if !format.IsTable() {
			w = cmd.ErrOrStderr()
		}
		return metrics.WriteText(w, app.Registry())
	}
	return nil
}

func writeTables(w io.Writer, format output.Format, result *linker.Result) error {
	links := output.LinksToTableData(result.Graph.Links, format == output.FormatWide)
	links.Caption = result.Summary()
	if err := output.NewFormatter(format).Format(w, links); err != nil {
		return errors.WrapIO("write", "stdout", err)
	}
	if len(result.Warnings) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	warnings := output.WarningsToTableData(result.Warnings)
	warnings.Caption = fmt.Sprintf("%d warnings", len(warnings.Rows))
	if err := output.NewFormatter(format).Format(w, warnings); err != nil {
		return errors.WrapIO("write", "stdout", err)
	}
	return nil
}
