package fuzzy_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simpilot/assetlink/pkg/assets"
	"github.com/simpilot/assetlink/pkg/errors"
	"github.com/simpilot/assetlink/pkg/fuzzy"
)

func robotRecords() []fuzzy.Record {
	return []fuzzy.Record{
		{UID: "r-1", Kind: assets.KindRobot, PlantID: "p1", Key: "UB-010-R01", Labels: map[string]string{fuzzy.LabelENumber: "E-1234"}},
		{UID: "r-2", Kind: assets.KindRobot, PlantID: "p1", Key: "UB-010-R02", Labels: map[string]string{fuzzy.LabelCaption: "Spot Welder"}},
		{UID: "r-3", Kind: assets.KindRobot, PlantID: "p1", Key: "SB-99-R07"},
		{UID: "r-4", Kind: assets.KindRobot, PlantID: "p2", Key: "UB-010-R01", Labels: map[string]string{fuzzy.LabelENumber: "E-1234"}},
		{UID: "t-1", Kind: assets.KindTool, PlantID: "p1", Key: "UB-010-R01"},
		{UID: "r-5", Kind: assets.KindRobot, PlantID: "p1", Key: "UB-10-R01", Inactive: true},
	}
}

func TestCandidatesRanking(t *testing.T) {
	s := fuzzy.NewScorer(fuzzy.Options{})
	q := fuzzy.Query{
		Kind:    assets.KindRobot,
		PlantID: "p1",
		Key:     "UB-10",
		Labels:  map[string]string{fuzzy.LabelENumber: "e1234", fuzzy.LabelCaption: "welder spot"},
	}

	got := s.Candidates(q, robotRecords())
	require.Len(t, got, 3)

	assert.Equal(t, "r-1", got[0].UID)
	assert.Equal(t, 90, got[0].MatchScore)
	assert.Len(t, got[0].Reasons, 2)

	// r-2: partial key 40; caption compares by key equality, not word order.
	assert.Equal(t, "r-2", got[1].UID)
	assert.Equal(t, 40, got[1].MatchScore)

	assert.Equal(t, "r-5", got[2].UID)
	assert.Equal(t, 30, got[2].MatchScore)
	assert.Contains(t, got[2].Reasons, "record is inactive")
}

func TestCandidatesFiltersScopeAndSelf(t *testing.T) {
	s := fuzzy.NewScorer(fuzzy.Options{})
	q := fuzzy.Query{UID: "r-1", Kind: assets.KindRobot, PlantID: "p1", Key: "UB-010-R01"}

	for _, c := range s.Candidates(q, robotRecords()) {
		assert.NotEqual(t, "r-1", c.UID, "query record is skipped")
		assert.NotEqual(t, "r-4", c.UID, "other plant is skipped")
		assert.NotEqual(t, "t-1", c.UID, "other kind is skipped")
	}
}

func TestCandidatesDropsNonPositive(t *testing.T) {
	s := fuzzy.NewScorer(fuzzy.Options{})
	records := []fuzzy.Record{
		{UID: "r-1", Kind: assets.KindRobot, Key: "ZZZ", Inactive: true},
		{UID: "r-2", Kind: assets.KindRobot, Key: "YYY"},
	}
	assert.Empty(t, s.Candidates(fuzzy.Query{Kind: assets.KindRobot, Key: "AAA"}, records))

	c := s.Score(fuzzy.Query{Kind: assets.KindRobot, Key: "AAA"}, records[0])
	assert.Equal(t, -10, c.MatchScore, "raw score can go negative")
}

func TestCandidatesStableTies(t *testing.T) {
	s := fuzzy.NewScorer(fuzzy.Options{})
	records := []fuzzy.Record{
		{UID: "c-3", Kind: assets.KindCell, Key: "OP-20A"},
		{UID: "c-1", Kind: assets.KindCell, Key: "OP-20B"},
		{UID: "c-2", Kind: assets.KindCell, Key: "OP-20C", Labels: map[string]string{fuzzy.LabelBay: "B2"}},
	}
	q := fuzzy.Query{Kind: assets.KindCell, Key: "op20", Labels: map[string]string{fuzzy.LabelBay: "b-2"}}

	got := s.Candidates(q, records)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"c-2", "c-3", "c-1"}, []string{got[0].UID, got[1].UID, got[2].UID})
	assert.Equal(t, 55, got[0].MatchScore)
}

func TestCandidatesToolSignals(t *testing.T) {
	s := fuzzy.NewScorer(fuzzy.Options{})
	records := []fuzzy.Record{
		{UID: "t-1", Kind: assets.KindTool, Key: "GUN-7", Labels: map[string]string{
			fuzzy.LabelToolCode: "TC-01", fuzzy.LabelGunCode: "G7", fuzzy.LabelName: "Spot Gun A",
		}},
	}
	q := fuzzy.Query{Kind: assets.KindTool, Key: "unrelated", Labels: map[string]string{
		fuzzy.LabelToolCode: "tc1", fuzzy.LabelGunCode: "g-7", fuzzy.LabelName: "a  spot gun",
	}}

	got := s.Candidates(q, records)
	require.Len(t, got, 1)
	assert.Equal(t, 75, got[0].MatchScore)
	assert.Len(t, got[0].Reasons, 3)
}

func TestCandidatesOptions(t *testing.T) {
	w := fuzzy.DefaultWeights()
	w.PartialKey = 5
	s := fuzzy.NewScorer(fuzzy.Options{MaxCandidates: 1, Weights: &w})

	records := []fuzzy.Record{
		{UID: "c-1", Kind: assets.KindCell, Key: "OP-20A"},
		{UID: "c-2", Kind: assets.KindCell, Key: "OP-20B"},
	}
	got := s.Candidates(fuzzy.Query{Kind: assets.KindCell, Key: "OP20"}, records)
	require.Len(t, got, 1)
	assert.Equal(t, "c-1", got[0].UID)
	assert.Equal(t, 5, got[0].MatchScore)
}

func TestLoadRecords(t *testing.T) {
	records, err := fuzzy.LoadRecords(filepath.Join("testdata", "robots.yaml"))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, assets.KindRobot, records[0].Kind)
	assert.Equal(t, "E-1234", records[0].Labels[fuzzy.LabelENumber])
	assert.True(t, records[1].Inactive)

	_, err = fuzzy.LoadRecords(filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("records:\n  - key: x\n"), 0o600))
	_, err = fuzzy.LoadRecords(path)
	assert.True(t, errors.IsValidationError(err))
}
