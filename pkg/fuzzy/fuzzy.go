// Package fuzzy ranks existing records that could be the one an unresolved
// key refers to. It backs manual resolution: results are advisory and
// nothing here mutates a record or feeds the link graph.
package fuzzy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/simpilot/assetlink/pkg/assets"
	"github.com/simpilot/assetlink/pkg/constants"
	"github.com/simpilot/assetlink/pkg/normalize"
)

// Label names understood by the scorer.
const (
	LabelLine     = "line"
	LabelBay      = "bay"
	LabelToolCode = "toolCode"
	LabelGunCode  = "gunCode"
	LabelName     = "name"
	LabelENumber  = "eNumber"
	LabelCaption  = "caption"
)

// Record is an existing record a reviewer could pick.
type Record struct {
	UID      string            `json:"uid" yaml:"uid"`
	Kind     assets.Kind       `json:"kind" yaml:"kind"`
	PlantID  string            `json:"plantId,omitempty" yaml:"plantId,omitempty"`
	Key      string            `json:"key" yaml:"key"`
	Labels   map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
	Inactive bool              `json:"inactive,omitempty" yaml:"inactive,omitempty"`
}

// Query is the unresolved key and whatever labels came with it.
type Query struct {
	UID     string            `json:"uid,omitempty" yaml:"uid,omitempty"`
	Kind    assets.Kind       `json:"kind" yaml:"kind"`
	PlantID string            `json:"plantId,omitempty" yaml:"plantId,omitempty"`
	Key     string            `json:"key" yaml:"key"`
	Labels  map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// Candidate is one ranked suggestion. MatchScore may be negative before
// filtering; returned candidates always score above zero.
type Candidate struct {
	UID        string   `json:"uid" yaml:"uid"`
	Key        string   `json:"key" yaml:"key"`
	MatchScore int      `json:"matchScore" yaml:"matchScore"`
	Reasons    []string `json:"reasons" yaml:"reasons"`
}

// Weights are the points each signal contributes.
type Weights struct {
	PartialKey int
	ENumber    int
	ToolCode   int
	GunCode    int
	Caption    int
	Line       int
	Bay        int
	Name       int
	Inactive   int
}

// DefaultWeights returns the standard signal weights.
func DefaultWeights() Weights {
	return Weights{
		PartialKey: constants.ScorePartialKey,
		ENumber:    constants.ScoreENumber,
		ToolCode:   constants.ScoreToolCode,
		GunCode:    constants.ScoreGunCode,
		Caption:    constants.ScoreCaption,
		Line:       constants.ScoreLine,
		Bay:        constants.ScoreBay,
		Name:       constants.ScoreName,
		Inactive:   constants.ScoreInactivePenalty,
	}
}

// Options configures a Scorer. A zero MaxCandidates returns every
// candidate; nil Weights selects DefaultWeights.
type Options struct {
	MaxCandidates int
	Weights       *Weights
}

// Scorer scores records against a query.
type Scorer struct {
	max     int
	weights Weights
}

// NewScorer creates a Scorer.
func NewScorer(opts Options) *Scorer {
	s := &Scorer{max: opts.MaxCandidates, weights: DefaultWeights()}
	if opts.Weights != nil {
		s.weights = *opts.Weights
	}
	return s
}

// signal is one label comparison.
type signal struct {
	label  string
	points func(Weights) int
	names  bool // compare with normalize.Names instead of key equality
}

var signals = map[assets.Kind][]signal{
	assets.KindCell: {
		{label: LabelLine, points: func(w Weights) int { return w.Line }},
		{label: LabelBay, points: func(w Weights) int { return w.Bay }},
	},
	assets.KindTool: {
		{label: LabelToolCode, points: func(w Weights) int { return w.ToolCode }},
		{label: LabelGunCode, points: func(w Weights) int { return w.GunCode }},
		{label: LabelName, points: func(w Weights) int { return w.Name }, names: true},
	},
	assets.KindRobot: {
		{label: LabelENumber, points: func(w Weights) int { return w.ENumber }},
		{label: LabelCaption, points: func(w Weights) int { return w.Caption }},
		{label: LabelName, points: func(w Weights) int { return w.Name }, names: true},
	},
}

// Candidates scores every record of the query's plant and kind, drops
// anything scoring zero or less and returns the rest best-first. Ties keep
// the order of records.
func (s *Scorer) Candidates(q Query, records []Record) []Candidate {
	queryKey := normalize.CanonicalKey(q.Key)
	var out []Candidate
	for _, rec := range records {
		if rec.Kind != q.Kind || rec.PlantID != q.PlantID {
			continue
		}
		if q.UID != "" && rec.UID == q.UID {
			continue
		}
		c := s.score(q, queryKey, rec)
		if c.MatchScore <= 0 {
			continue
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchScore > out[j].MatchScore
	})
	if s.max > 0 && len(out) > s.max {
		out = out[:s.max]
	}
	return out
}

// Score scores a single record with no plant or kind filtering.
func (s *Scorer) Score(q Query, rec Record) Candidate {
	return s.score(q, normalize.CanonicalKey(q.Key), rec)
}

func (s *Scorer) score(q Query, queryKey string, rec Record) Candidate {
	c := Candidate{UID: rec.UID, Key: rec.Key, Reasons: []string{}}

	recKey := normalize.CanonicalKey(rec.Key)
	if queryKey != "" && recKey != "" &&
		(strings.Contains(recKey, queryKey) || strings.Contains(queryKey, recKey)) {
		c.MatchScore += s.weights.PartialKey
		c.Reasons = append(c.Reasons, fmt.Sprintf("key %q partially matches %q", q.Key, rec.Key))
	}

	for _, sig := range signals[q.Kind] {
		want, have := q.Labels[sig.label], rec.Labels[sig.label]
		if want == "" || have == "" {
			continue
		}
		var ok bool
		if sig.names {
			ok = normalize.Names(want, have)
		} else {
			ok = normalize.CanonicalKey(want) == normalize.CanonicalKey(have)
		}
		if ok {
			c.MatchScore += sig.points(s.weights)
			c.Reasons = append(c.Reasons, fmt.Sprintf("%s %q matches", sig.label, have))
		}
	}

	if rec.Inactive {
		c.MatchScore += s.weights.Inactive
		c.Reasons = append(c.Reasons, "record is inactive")
	}
	return c
}
