package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simpilot/assetlink/pkg/assets"
	"github.com/simpilot/assetlink/pkg/errors"
	"github.com/simpilot/assetlink/pkg/fuzzy"
	"github.com/simpilot/assetlink/pkg/linkgraph"
	"github.com/simpilot/assetlink/pkg/matcher"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"wide", FormatWide, false},
		{"", "", false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.True(t, errors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestJSONAndYAML(t *testing.T) {
	data := map[string]int{"links": 2}

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatJSON).Format(&buf, data))
	assert.Equal(t, "{\n  \"links\": 2\n}\n", buf.String())

	buf.Reset()
	require.NoError(t, NewFormatter(FormatYAML).Format(&buf, data))
	assert.Equal(t, "links: 2\n", buf.String())
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	data := Data{
		Headers: []string{"KIND", "ID"},
		Rows:    [][]string{{"ROBOT", "r1"}},
		Caption: "1 row",
	}
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, data))
	out := buf.String()
	assert.Contains(t, out, "KIND")
	assert.Contains(t, out, "r1")
	assert.True(t, strings.HasSuffix(out, "1 row\n"))
}

func TestTableFormatterStructSlice(t *testing.T) {
	type row struct {
		SourceID string `json:"source_id"`
		Score    int    `json:"score"`
	}
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, []row{{"r1", 40}}))
	assert.Contains(t, strings.ToLower(buf.String()), "source id")
	assert.Contains(t, buf.String(), "40")
}

func TestTableFormatterFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, map[string]string{"a": "b"}))
	assert.Contains(t, buf.String(), `"a": "b"`)
}

func TestLinksToTableData(t *testing.T) {
	links := []linkgraph.AssetLink{{
		ID: "robot_to_cell-1-x", Type: linkgraph.RobotToCell, SourceID: "r1", TargetID: "c1",
		Confidence: matcher.ConfidenceLow, MatchMethod: matcher.MethodStation, MatchKey: "20",
		Ambiguous: true, CandidateCount: 2,
	}}

	narrow := LinksToTableData(links, false)
	assert.Len(t, narrow.Headers, 6)
	assert.Equal(t, []string{"ROBOT_TO_CELL", "r1", "c1", "LOW*", "station", "20"}, narrow.Rows[0])

	wide := LinksToTableData(links, true)
	assert.Equal(t, "ID", wide.Headers[0])
	assert.Equal(t, "2", wide.Rows[0][len(wide.Rows[0])-1])
}

func TestWarningsAndCandidates(t *testing.T) {
	w := assets.NewWarning(assets.WarningMissingTarget, "robots.xlsx", "msg",
		assets.WarningDetails{EntityType: assets.KindRobot, EntityID: "r9", Reason: "no station code"})
	data := WarningsToTableData([]assets.IngestionWarning{w})
	assert.Equal(t, []string{"LINKING_MISSING_TARGET", "robot/r9", "robots.xlsx", "no station code"}, data.Rows[0])

	c := CandidatesToTableData([]fuzzy.Candidate{{UID: "r-1", Key: "UB-10", MatchScore: 90, Reasons: []string{"a", "b"}}})
	assert.Equal(t, []string{"1", "r-1", "UB-10", "90", "a; b"}, c.Rows[0])
}

func TestVariantsToTableData(t *testing.T) {
	data := VariantsToTableData(
		[]string{"OP-010"},
		[]map[string]string{{"station": "10", "key": "op010"}},
	)
	assert.Equal(t, []string{"INPUT", "KEY", "STATION"}, data.Headers)
	assert.Equal(t, []string{`"OP-010"`, "op010", "10"}, data.Rows[0])
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, Data{Headers: []string{"X"}}, []int{1}))
	assert.Equal(t, "[\n  1\n]\n", buf.String())
}
