package output

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/simpilot/assetlink/pkg/assets"
	"github.com/simpilot/assetlink/pkg/fuzzy"
	"github.com/simpilot/assetlink/pkg/linkgraph"
)

// Write renders table as a table for table formats and raw otherwise.
func Write(w io.Writer, format Format, table Data, raw any) error {
	if format.IsTable() {
		return NewFormatter(format).Format(w, table)
	}
	return NewFormatter(format).Format(w, raw)
}

// LinksToTableData converts links to table rows. Wide adds ids and
// candidate counts.
func LinksToTableData(links []linkgraph.AssetLink, wide bool) Data {
	headers := []string{"TYPE", "SOURCE", "TARGET", "CONFIDENCE", "METHOD", "KEY"}
	if wide {
		headers = append([]string{"ID"}, headers...)
		headers = append(headers, "CANDIDATES")
	}

	rows := make([][]string, 0, len(links))
	for _, l := range links {
		confidence := string(l.Confidence)
		if l.Ambiguous {
			confidence += "*"
		}
		row := []string{string(l.Type), l.SourceID, l.TargetID, confidence, string(l.MatchMethod), l.MatchKey}
		if wide {
			row = append([]string{l.ID}, row...)
			row = append(row, strconv.Itoa(l.CandidateCount))
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows}
}

// WarningsToTableData converts warnings to table rows.
func WarningsToTableData(warnings []assets.IngestionWarning) Data {
	rows := make([][]string, 0, len(warnings))
	for _, w := range warnings {
		entity := strings.ToLower(string(w.Details.EntityType)) + "/" + w.Details.EntityID
		rows = append(rows, []string{string(w.Kind), entity, w.FileName, w.Details.Reason})
	}
	return Data{
		Headers: []string{"KIND", "ENTITY", "FILE", "REASON"},
		Rows:    rows,
	}
}

// CandidatesToTableData converts fuzzy candidates to table rows.
func CandidatesToTableData(candidates []fuzzy.Candidate) Data {
	rows := make([][]string, 0, len(candidates))
	for i, c := range candidates {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			c.UID,
			c.Key,
			strconv.Itoa(c.MatchScore),
			strings.Join(c.Reasons, "; "),
		})
	}
	return Data{
		Headers: []string{"#", "UID", "KEY", "SCORE", "REASONS"},
		Rows:    rows,
		Align:   []Align{AlignRight, AlignLeft, AlignLeft, AlignRight, AlignLeft},
	}
}

// VariantsToTableData renders normalizer variants of one or more values.
func VariantsToTableData(values []string, variants []map[string]string) Data {
	var names []string
	if len(variants) > 0 {
		for name := range variants[0] {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	headers := []string{"INPUT"}
	for _, n := range names {
		headers = append(headers, strings.ToUpper(n))
	}
	rows := make([][]string, 0, len(values))
	for i, v := range values {
		row := []string{fmt.Sprintf("%q", v)}
		for _, n := range names {
			row = append(row, variants[i][n])
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows}
}
