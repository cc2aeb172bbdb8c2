// Package normalize provides the normalize command, which shows how a raw
// station, area, line or asset name is keyed by every normalizer variant.
package normalize

import (
	"github.com/spf13/cobra"

	"github.com/simpilot/assetlink/internal/appcontext"
	"github.com/simpilot/assetlink/internal/cmd/output"
	"github.com/simpilot/assetlink/pkg/normalize"
)

// Variant is the JSON/YAML shape of one normalized input.
type Variant struct {
	Input string            `json:"input" yaml:"input"`
	Keys  map[string]string `json:"keys" yaml:"keys"`
}

// NewCommand creates the normalize command with app dependencies.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:       "normalize <station|area|line|asset> <value>...",
		Short:     "Show the match keys produced for raw values",
		ValidArgs: []string{"station", "area", "line", "asset"},
		Example: `  assetlink normalize station OP-010 "Station 10" ST_020A
  assetlink normalize area "RR UN 1" "UB Simulation"`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.ParseFormat(app.OutputFormat())
			if err != nil {
				return err
			}
			format = output.DetectFormat(string(format))

			kind, values := args[0], args[1:]
			results := make([]Variant, 0, len(values))
			variants := make([]map[string]string, 0, len(values))
			for _, v := range values {
				keys, err := normalize.Variants(kind, v)
				if err != nil {
					return err
				}
				results = append(results, Variant{Input: v, Keys: keys})
				variants = append(variants, keys)
			}

			return output.Write(cmd.OutOrStdout(), format, output.VariantsToTableData(values, variants), results)
		},
	}
}
