package linkgraph

import (
	"fmt"

	"github.com/simpilot/assetlink/pkg/assets"
	"github.com/simpilot/assetlink/pkg/matcher"
)

// StatsInput is the full asset population of a run, linked or not.
type StatsInput struct {
	RobotIDs []string
	ToolIDs  []string
	CellIDs  []string
}

// Stats aggregates a graph against its asset population.
type Stats struct {
	TotalRobots    int `json:"totalRobots" yaml:"totalRobots"`
	LinkedRobots   int `json:"linkedRobots" yaml:"linkedRobots"`
	UnlinkedRobots int `json:"unlinkedRobots" yaml:"unlinkedRobots"`

	TotalTools    int `json:"totalTools" yaml:"totalTools"`
	LinkedTools   int `json:"linkedTools" yaml:"linkedTools"`
	UnlinkedTools int `json:"unlinkedTools" yaml:"unlinkedTools"`

	TotalCells  int `json:"totalCells" yaml:"totalCells"`
	LinkedCells int `json:"linkedCells" yaml:"linkedCells"` // cells with at least one incoming link

	TotalLinks       int                        `json:"totalLinks" yaml:"totalLinks"`
	AmbiguousMatches int                        `json:"ambiguousMatches" yaml:"ambiguousMatches"`
	ByType           map[LinkType]int           `json:"byType" yaml:"byType"`
	ByConfidence     map[matcher.Confidence]int `json:"byConfidence" yaml:"byConfidence"`
}

func computeStats(links []AssetLink, in StatsInput) Stats {
	s := Stats{
		TotalRobots:  len(in.RobotIDs),
		TotalTools:   len(in.ToolIDs),
		TotalCells:   len(in.CellIDs),
		TotalLinks:   len(links),
		ByType:       make(map[LinkType]int),
		ByConfidence: make(map[matcher.Confidence]int),
	}

	robotSources := sourceIDs(links, assets.KindRobot)
	toolSources := sourceIDs(links, assets.KindTool)
	cellTargets := make(map[string]bool)

	for _, l := range links {
		s.ByType[l.Type]++
		s.ByConfidence[l.Confidence]++
		if l.Ambiguous {
			s.AmbiguousMatches++
		}
		if l.TargetKind == assets.KindCell {
			cellTargets[l.TargetID] = true
		}
	}

	s.LinkedRobots = countIn(in.RobotIDs, robotSources)
	s.UnlinkedRobots = s.TotalRobots - s.LinkedRobots
	s.LinkedTools = countIn(in.ToolIDs, toolSources)
	s.UnlinkedTools = s.TotalTools - s.LinkedTools
	s.LinkedCells = countIn(in.CellIDs, cellTargets)
	return s
}

// countIn counts distinct ids present in set.
func countIn(ids []string, set map[string]bool) int {
	seen := make(map[string]bool, len(ids))
	n := 0
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if set[id] {
			n++
		}
	}
	return n
}

// Summary renders the stats as one line, e.g.
// "Linked 8/10 robots (80%), 15/20 tools (75%). 2 ambiguous matches."
func (s Stats) Summary() string {
	noun := "matches"
	if s.AmbiguousMatches == 1 {
		noun = "match"
	}
	return fmt.Sprintf("Linked %d/%d robots (%d%%), %d/%d tools (%d%%). %d ambiguous %s.",
		s.LinkedRobots, s.TotalRobots, percent(s.LinkedRobots, s.TotalRobots),
		s.LinkedTools, s.TotalTools, percent(s.LinkedTools, s.TotalTools),
		s.AmbiguousMatches, noun)
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return (part*100 + total/2) / total
}
