package linker_test

import (
	"context"
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simpilot/assetlink/pkg/assets"
	"github.com/simpilot/assetlink/pkg/errors"
	"github.com/simpilot/assetlink/pkg/linker"
	"github.com/simpilot/assetlink/pkg/linkgraph"
	"github.com/simpilot/assetlink/pkg/logging"
	"github.com/simpilot/assetlink/pkg/matcher"
	"github.com/simpilot/assetlink/pkg/metrics"
	"github.com/simpilot/assetlink/pkg/normalize"
)

func newLinker(t *testing.T, opts ...linker.Option) linker.Linker {
	t.Helper()
	opts = append([]linker.Option{linker.WithIDGenerator(linkgraph.NewCounter())}, opts...)
	l, err := linker.New(opts...)
	require.NoError(t, err)
	return l
}

func link(t *testing.T, l linker.Linker, in linker.Input) *linker.Result {
	t.Helper()
	result, err := l.Link(context.Background(), in)
	require.NoError(t, err)
	require.NoError(t, result.Graph.Validate())
	stats := result.Graph.Stats
	require.Equal(t, stats.TotalRobots, stats.LinkedRobots+stats.UnlinkedRobots)
	require.Equal(t, stats.TotalTools, stats.LinkedTools+stats.UnlinkedTools)
	return result
}

func TestExactMatch(t *testing.T) {
	in := linker.Input{
		Cells:  []assets.Cell{{ID: "cell-1", Code: "OP-20"}},
		Robots: []*assets.Robot{{ID: "robot-1", StationCode: "OP-20"}},
	}
	result := link(t, newLinker(t), in)

	assert.Equal(t, "cell-1", result.Robots[0].CellID)
	assert.Equal(t, 1, result.Graph.Stats.LinkedRobots)
	assert.Empty(t, result.Warnings)

	require.Len(t, result.Graph.Links, 1)
	l := result.Graph.Links[0]
	assert.Equal(t, linkgraph.RobotToCell, l.Type)
	assert.Equal(t, matcher.ConfidenceMedium, l.Confidence)
	assert.Equal(t, matcher.MethodStation, l.MatchMethod)
	assert.Equal(t, "20", l.MatchKey)
}

func TestNormalizedMatch(t *testing.T) {
	in := linker.Input{
		Cells:  []assets.Cell{{ID: "cell-1", Code: "20"}},
		Robots: []*assets.Robot{{ID: "robot-1", StationCode: "OP-20"}},
	}
	result := link(t, newLinker(t), in)
	assert.Equal(t, "cell-1", result.Robots[0].CellID)
}

func TestAreaDisambiguation(t *testing.T) {
	in := linker.Input{
		Cells: []assets.Cell{
			{ID: "cell-sb", Code: "OP-20", AreaName: "Side Body", AreaID: "area-sb"},
			{ID: "cell-ub", Code: "OP-20", AreaName: "Underbody", AreaID: "area-ub", ProjectID: "proj-1"},
		},
		Robots: []*assets.Robot{{ID: "robot-1", StationCode: "OP-20", AreaName: "Underbody"}},
	}
	result := link(t, newLinker(t), in)

	robot := result.Robots[0]
	assert.Equal(t, "cell-ub", robot.CellID)
	assert.Equal(t, "area-ub", robot.AreaID)
	assert.Equal(t, "proj-1", robot.ProjectID)
	assert.Equal(t, matcher.ConfidenceHigh, result.Graph.Links[0].Confidence)
	assert.Empty(t, result.Warnings)
}

func TestToolFallbackToRobot(t *testing.T) {
	// The robot already sits in cell-1; no cell carries OP-30.
	in := linker.Input{
		Cells: []assets.Cell{{ID: "cell-1", Code: "OP-20", AreaID: "area-1", ProjectID: "proj-1"}},
		Robots: []*assets.Robot{{
			ID: "robot-1", StationCode: "OP-30", CellID: "cell-1", AreaID: "area-1", ProjectID: "proj-1",
			ToolIDs: []string{"tool-0"},
		}},
		Tools: []*assets.Tool{{ID: "tool-1", Name: "GUN 1", StationCode: "OP-30"}},
	}
	result := link(t, newLinker(t), in)

	tool := result.Tools[0]
	assert.Equal(t, "robot-1", tool.RobotID)
	assert.Equal(t, "cell-1", tool.CellID)
	assert.Equal(t, "area-1", tool.AreaID)
	assert.Equal(t, "proj-1", tool.ProjectID)
	assert.Equal(t, []string{"tool-0", "tool-1"}, result.Robots[0].ToolIDs)

	links := result.Graph.LinksFrom("tool-1")
	require.Len(t, links, 1)
	assert.Equal(t, linkgraph.ToolToRobot, links[0].Type)
	assert.Equal(t, matcher.MethodRobotStation, links[0].MatchMethod)
	assert.Empty(t, result.Graph.ToolsForCell("cell-1"), "one hop through the robot needs a ROBOT_TO_CELL link")
	assert.Len(t, result.WarningsOf(assets.WarningMissingTarget), 1, "the robot itself matched no cell")
}

func TestToolFallbackOnLinkedRobot(t *testing.T) {
	in := linker.Input{
		Cells:  []assets.Cell{{ID: "cell-1", Code: "OP-30", AreaName: "Underbody"}},
		Robots: []*assets.Robot{{ID: "robot-1", StationCode: "OP-30", AreaName: "Underbody"}},
		Tools: []*assets.Tool{
			{ID: "tool-1", StationCode: "OP-30"},
			{ID: "tool-2", StationCode: "030", AreaName: "Underbody"},
		},
	}
	result := link(t, newLinker(t), in)

	assert.Equal(t, "cell-1", result.Tools[0].CellID)
	assert.Equal(t, matcher.ConfidenceMedium, result.Graph.LinksFrom("tool-1")[0].Confidence)
	assert.Equal(t, matcher.ConfidenceHigh, result.Graph.LinksFrom("tool-2")[0].Confidence)
	assert.Empty(t, result.Robots[0].ToolIDs, "tools linked to a cell are not robot-owned")
	assert.ElementsMatch(t, []string{"tool-1", "tool-2"}, result.Graph.ToolsForCell("cell-1"))
}

func TestAmbiguityWarnings(t *testing.T) {
	in := linker.Input{
		Cells: []assets.Cell{
			{ID: "cell-a", Code: "OP-20"},
			{ID: "cell-b", Code: "20"},
		},
		Robots: []*assets.Robot{
			{ID: "robot-1", Name: "R01", StationCode: "OP-20", SourceFile: "robots.xlsx"},
			{ID: "robot-2", StationCode: "OP-40"},
			{ID: "robot-3", StationCode: "OP-40"},
		},
		Tools: []*assets.Tool{
			{ID: "tool-1", StationCode: "OP-40"},
			{ID: "tool-2"},
		},
	}
	result := link(t, newLinker(t, linker.WithFileName("plant.yaml")), in)

	assert.Equal(t, "cell-a", result.Robots[0].CellID, "first candidate wins")

	ambiguous := result.WarningsOf(assets.WarningAmbiguous)
	require.Len(t, ambiguous, 2)
	assert.Equal(t, "robot-1", ambiguous[0].Details.EntityID)
	assert.Equal(t, 2, ambiguous[0].Details.CandidateCount)
	assert.Equal(t, "robots.xlsx", ambiguous[0].FileName)
	assert.Equal(t, "tool-1", ambiguous[1].Details.EntityID, "tool matched two robots")
	assert.Equal(t, "plant.yaml", ambiguous[1].FileName)

	missing := result.WarningsOf(assets.WarningMissingTarget)
	require.Len(t, missing, 3)
	assert.Equal(t, []string{"robot-2", "robot-3", "tool-2"},
		[]string{missing[0].Details.EntityID, missing[1].Details.EntityID, missing[2].Details.EntityID})
	assert.Equal(t, "no station code", missing[2].Details.Reason)
	assert.Equal(t, "40", missing[0].Details.MatchKey)

	for _, l := range result.Graph.Links {
		if l.Ambiguous {
			assert.Greater(t, l.CandidateCount, 1)
		}
	}
	assert.Equal(t, 2, result.Graph.Stats.AmbiguousMatches)
	assert.Equal(t, 1, result.Graph.Stats.LinkedRobots)
	assert.Equal(t, 2, result.Graph.Stats.UnlinkedRobots)
	assert.Equal(t, "Linked 1/3 robots (33%), 1/2 tools (50%). 2 ambiguous matches. 3 unresolved.", result.Summary())
}

func TestWarningsAreReproducible(t *testing.T) {
	input := func() linker.Input {
		return linker.Input{
			Cells:  []assets.Cell{{ID: "c1", Code: "OP-10"}},
			Robots: []*assets.Robot{{ID: "r1", StationCode: "OP-99"}},
		}
	}
	first := link(t, newLinker(t), input())
	second := link(t, newLinker(t), input())
	assert.Equal(t, first.Warnings, second.Warnings)
}

func TestCanonicalKeys(t *testing.T) {
	input := func() linker.Input {
		return linker.Input{
			Cells:  []assets.Cell{{ID: "cell-1", Code: "CA8", AreaName: "REAR UNIT"}},
			Robots: []*assets.Robot{{ID: "robot-1", StationCode: "CA008", AreaName: "RR UN"}},
		}
	}

	def := link(t, newLinker(t), input())
	assert.Empty(t, def.Robots[0].CellID)
	assert.Equal(t, "default", def.Metadata.KeyMode)

	canon := link(t, newLinker(t, linker.WithCanonicalKeys()), input())
	assert.Equal(t, "cell-1", canon.Robots[0].CellID)
	assert.Equal(t, "canonical", canon.Metadata.KeyMode)
	assert.Equal(t, matcher.ConfidenceHigh, canon.Graph.Links[0].Confidence)
}

func TestCellsAreNotMutated(t *testing.T) {
	cells := []assets.Cell{{ID: "cell-1", Code: "OP-20", Name: "Underbody - OP-20"}}
	before := cells[0]
	link(t, newLinker(t), linker.Input{
		Cells:  cells,
		Robots: []*assets.Robot{{ID: "robot-1", StationCode: "OP-20"}},
	})
	assert.Equal(t, before, cells[0])
}

func TestInputValidation(t *testing.T) {
	tests := []struct {
		name string
		in   linker.Input
	}{
		{name: "nil robot", in: linker.Input{Robots: []*assets.Robot{nil}}},
		{name: "robot without id", in: linker.Input{Robots: []*assets.Robot{{StationCode: "OP-10"}}}},
		{name: "nil tool", in: linker.Input{Tools: []*assets.Tool{nil}}},
		{name: "tool without id", in: linker.Input{Tools: []*assets.Tool{{Name: "GUN"}}}},
		{name: "cell without id", in: linker.Input{Cells: []assets.Cell{{Code: "OP-10"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newLinker(t).Link(context.Background(), tt.in)
			require.Error(t, err)
			var ve *errors.ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}

	t.Run("nothing mutated on error", func(t *testing.T) {
		robot := &assets.Robot{ID: "robot-1", StationCode: "OP-10"}
		_, err := newLinker(t).Link(context.Background(), linker.Input{
			Cells:  []assets.Cell{{ID: "c1", Code: "OP-10"}},
			Robots: []*assets.Robot{robot, nil},
		})
		require.Error(t, err)
		assert.Empty(t, robot.CellID)
	})
}

func TestOptions(t *testing.T) {
	_, err := linker.New(linker.WithIDGenerator(nil))
	assert.True(t, errors.IsValidationError(err))

	_, err = linker.New(linker.WithKeyFuncs(normalize.KeyFuncs{}))
	assert.True(t, errors.IsValidationError(err))

	_, err = linker.New(linker.WithMetrics(nil))
	assert.True(t, errors.IsValidationError(err))

	_, err = linker.New(linker.WithKeyFuncs(normalize.Canonical()))
	assert.NoError(t, err)
}

func TestDefaultIDGenerator(t *testing.T) {
	linkgraph.ResetDefaultIDs()
	t.Cleanup(linkgraph.ResetDefaultIDs)

	l, err := linker.New()
	require.NoError(t, err)
	result, err := l.Link(context.Background(), linker.Input{
		Cells:  []assets.Cell{{ID: "c1", Code: "OP-10"}},
		Robots: []*assets.Robot{{ID: "r1", StationCode: "OP-10"}},
	})
	require.NoError(t, err)
	assert.Contains(t, result.Graph.Links[0].ID, "robot_to_cell-1-")
}

func TestMetricsAndLogging(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	l := newLinker(t, linker.WithMetrics(m))
	result, err := l.Link(ctx, linker.Input{
		Cells:  []assets.Cell{{ID: "c1", Code: "OP-10"}},
		Robots: []*assets.Robot{{ID: "r1", StationCode: "OP-10"}, {ID: "r2", StationCode: "OP-11"}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("default")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WarningsTotal.WithLabelValues("LINKING_MISSING_TARGET")))

	tl.AssertContains(t, result.Metadata.RunID)
	tl.AssertContains(t, "Linked 1/2 robots (50%)")
	tl.AssertContains(t, `"asset_id":"r2"`)
	assert.NotEmpty(t, result.Metadata.RunID)
	assert.False(t, result.Metadata.EndTime.Before(result.Metadata.StartTime))
}

func TestLinkBundleFixture(t *testing.T) {
	bundle, err := assets.LoadBundleFS(os.DirFS("../assets/testdata"), "plant.yaml")
	require.NoError(t, err)

	result := link(t, newLinker(t), linker.Input{Cells: bundle.Cells, Robots: bundle.Robots, Tools: bundle.Tools})

	assert.Equal(t, "cell-1", bundle.Robots[0].CellID)
	assert.Equal(t, "proj-1", bundle.Robots[0].ProjectID)
	missing := result.WarningsOf(assets.WarningMissingTarget)
	require.NotEmpty(t, missing)
	assert.Equal(t, "sim_status.xlsx", missing[0].FileName)
}
