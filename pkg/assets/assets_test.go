package assets_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simpilot/assetlink/pkg/assets"
	"github.com/simpilot/assetlink/pkg/errors"
)

func TestCellArea(t *testing.T) {
	tests := []struct {
		name string
		cell assets.Cell
		want string
	}{
		{name: "explicit area", cell: assets.Cell{AreaName: "Side Body", Name: "Underbody - OP-20"}, want: "Side Body"},
		{name: "derived from name", cell: assets.Cell{Name: "Underbody - OP-20"}, want: "Underbody"},
		{name: "name without separator", cell: assets.Cell{Name: "OP-20"}, want: ""},
		{name: "empty", cell: assets.Cell{}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cell.Area())
		})
	}
}

func TestAssetLike(t *testing.T) {
	robot := &assets.Robot{ID: "r1", Name: "R01", StationCode: "OP-10", AreaName: "UB", LineCode: "L1"}
	tool := &assets.Tool{ID: "t1", Name: "GUN 1", StationCode: "OP-20"}

	var a assets.AssetLike = robot
	assert.Equal(t, "r1", a.AssetID())
	assert.Equal(t, "R01", a.AssetName())
	assert.Equal(t, "OP-10", a.Station())
	assert.Equal(t, "UB", a.Area())
	assert.Equal(t, "L1", a.Line())
	assert.Equal(t, assets.KindRobot, a.Kind())

	a = tool
	assert.Equal(t, assets.KindTool, a.Kind())
	assert.Equal(t, "OP-20", a.Station())
	assert.Empty(t, a.Area())
}

func TestRobotAddTool(t *testing.T) {
	robot := &assets.Robot{ID: "r1", ToolIDs: []string{"t0"}}
	robot.AddTool("t1")
	robot.AddTool("t1")
	robot.AddTool("t0")
	assert.Equal(t, []string{"t0", "t1"}, robot.ToolIDs)
}

func TestNewWarningIsDeterministic(t *testing.T) {
	details := assets.WarningDetails{EntityType: assets.KindRobot, EntityID: "robot-9", Reason: "no station"}
	a := assets.NewWarning(assets.WarningMissingTarget, "robots.xlsx", "no match", details)
	b := assets.NewWarning(assets.WarningMissingTarget, "robots.xlsx", "no match", details)
	c := assets.NewWarning(assets.WarningAmbiguous, "robots.xlsx", "ambiguous", details)

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, a.ID, b.ID)
	assert.NotEqual(t, a.ID, c.ID)
	assert.Equal(t, "robots.xlsx", a.FileName)
}

func TestLoadBundleFS(t *testing.T) {
	bundle, err := assets.LoadBundleFS(os.DirFS("testdata"), "plant.yaml")
	require.NoError(t, err)

	require.Len(t, bundle.Cells, 2)
	require.Len(t, bundle.Robots, 2)
	require.Len(t, bundle.Tools, 1)

	assert.Equal(t, "Underbody", bundle.Cells[0].Area())
	assert.Equal(t, "Side Body", bundle.Cells[1].Area())
	assert.Equal(t, "plant.yaml", bundle.Robots[0].SourceFile)
	assert.Equal(t, "sim_status.xlsx", bundle.Robots[1].SourceFile, "explicit source file is kept")
	assert.Equal(t, "plant.yaml", bundle.Tools[0].SourceFile)
}

func TestLoadBundleJSON(t *testing.T) {
	bundle, err := assets.LoadBundle(filepath.Join("testdata", "plant.json"))
	require.NoError(t, err)
	require.Len(t, bundle.Cells, 1)
	assert.Equal(t, "20", bundle.Cells[0].Code)
	require.Len(t, bundle.Robots, 1)
	assert.Equal(t, "OP-20", bundle.Robots[0].StationCode)
	assert.Empty(t, bundle.Tools)
}

func TestLoadBundleErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := assets.LoadBundle(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		var ioErr *errors.IOError
		assert.ErrorAs(t, err, &ioErr)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("cells: [\n  - id: [oops"), 0o600))
		_, err := assets.LoadBundle(path)
		require.Error(t, err)
		var pe *errors.ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, path, pe.File)
	})

	t.Run("empty document", func(t *testing.T) {
		_, err := assets.DecodeBundle([]byte("  \n"), "yaml")
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := assets.DecodeBundle([]byte("cells: []"), "csv")
		assert.True(t, errors.IsValidationError(err))
		assert.True(t, errors.IsUnsupportedFormat(err))
	})
}
