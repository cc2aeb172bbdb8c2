// Package candidates provides the candidates command, which ranks records
// a reviewer can pick from when deterministic linking found nothing.
package candidates

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/simpilot/assetlink/internal/appcontext"
	"github.com/simpilot/assetlink/internal/cmd/output"
	"github.com/simpilot/assetlink/pkg/assets"
	"github.com/simpilot/assetlink/pkg/errors"
	"github.com/simpilot/assetlink/pkg/fuzzy"
)

// NewCommand creates the candidates command with app dependencies.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "candidates <records>",
		Short: "Rank fuzzy match candidates for manual review",
		Long: `Candidates scores every record in a YAML or JSON records file against
a query and lists the best matches, highest score first.

Only records of the query's kind and plant are considered. Records that
score zero or less are dropped.`,
		Example: `  assetlink candidates robots.yaml --kind robot --plant p1 --key UB-010-R01
  assetlink candidates robots.yaml --kind robot --key UB-10 --label eNumber=E-1234
  assetlink candidates tools.json --kind tool --label toolCode=TC-01 --max 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, _ := cmd.Flags().GetString("kind")
			q := fuzzy.Query{Kind: assets.Kind(strings.ToUpper(kind))}
			q.PlantID, _ = cmd.Flags().GetString("plant")
			q.Key, _ = cmd.Flags().GetString("key")
			q.UID, _ = cmd.Flags().GetString("uid")
			q.Labels, _ = cmd.Flags().GetStringToString("label")
			limit, _ := cmd.Flags().GetInt("max")
			return run(cmd, app, args[0], q, limit)
		},
	}

	cmd.Flags().String("kind", "", "Record kind: cell, robot, tool (required)")
	cmd.Flags().String("plant", "", "Restrict to records of this plant")
	cmd.Flags().String("key", "", "Query key, e.g. a station or robot code")
	cmd.Flags().String("uid", "", "UID of the query record, excluded from results")
	cmd.Flags().StringToString("label", nil, "Label to compare, as name=value (repeatable)")
	cmd.Flags().Int("max", 0, "Maximum candidates to return (default from config)")
	_ = cmd.MarkFlagRequired("kind")

	return cmd
}

func run(cmd *cobra.Command, app appcontext.Interface, path string, q fuzzy.Query, limit int) error {
	switch q.Kind {
	case assets.KindCell, assets.KindRobot, assets.KindTool:
	default:
		return errors.NewValidationError("kind", q.Kind, "must be one of: cell, robot, tool")
	}
	if limit < 0 {
		return errors.NewValidationError("max", limit, "cannot be negative")
	}

	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}
	format = output.DetectFormat(string(format))

	records, err := fuzzy.LoadRecords(path)
	if err != nil {
		return err
	}

	scorer := app.Scorer()
	if limit > 0 {
		scorer = fuzzy.NewScorer(fuzzy.Options{MaxCandidates: limit})
	}
	candidates := scorer.Candidates(q, records)

	app.Logger().Debug().
		Str("kind", q.Kind.String()).
		Int("records", len(records)).
		Int("candidates", len(candidates)).
		Msg("Scored candidates")

	if candidates == nil {
		candidates = []fuzzy.Candidate{}
	}
	table := output.CandidatesToTableData(candidates)
	if len(candidates) == 0 {
		table.Caption = "No candidates found"
	}
	return output.Write(cmd.OutOrStdout(), format, table, candidates)
}
