package linkgraph

import (
	"fmt"

	"github.com/simpilot/assetlink/pkg/assets"
	"github.com/simpilot/assetlink/pkg/errors"
)

// Graph is the full link set of one run. Every link appears in exactly one
// BySource bucket and one ByTarget bucket.
type Graph struct {
	Links    []AssetLink            `json:"links" yaml:"links"`
	BySource map[string][]AssetLink `json:"-" yaml:"-"`
	ByTarget map[string][]AssetLink `json:"-" yaml:"-"`
	Stats    Stats                  `json:"stats" yaml:"stats"`
}

// Builder accumulates links in insertion order.
type Builder struct {
	links []AssetLink
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends a link.
func (b *Builder) Add(link AssetLink) {
	b.links = append(b.links, link)
}

// Len returns the number of links added so far.
func (b *Builder) Len() int {
	return len(b.links)
}

// Build indexes the links and computes stats against the full asset
// totals in in.
func (b *Builder) Build(in StatsInput) *Graph {
	g := &Graph{
		Links:    make([]AssetLink, len(b.links)),
		BySource: make(map[string][]AssetLink, len(b.links)),
		ByTarget: make(map[string][]AssetLink, len(b.links)),
	}
	copy(g.Links, b.links)
	for _, l := range g.Links {
		g.BySource[l.SourceID] = append(g.BySource[l.SourceID], l)
		g.ByTarget[l.TargetID] = append(g.ByTarget[l.TargetID], l)
	}
	g.Stats = computeStats(g.Links, in)
	return g
}

// LinksFrom returns the links whose source is id.
func (g *Graph) LinksFrom(id string) []AssetLink {
	return g.BySource[id]
}

// LinksTo returns the links whose target is id.
func (g *Graph) LinksTo(id string) []AssetLink {
	return g.ByTarget[id]
}

// RobotsForCell returns the ids of robots linked to cellID.
func (g *Graph) RobotsForCell(cellID string) []string {
	var out []string
	for _, l := range g.ByTarget[cellID] {
		if l.Type == RobotToCell {
			out = append(out, l.SourceID)
		}
	}
	return out
}

// ToolsForCell returns tools linked to cellID directly and tools linked to
// a robot that is linked to cellID, without duplicates.
func (g *Graph) ToolsForCell(cellID string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, l := range g.ByTarget[cellID] {
		if l.Type == ToolToCell {
			add(l.SourceID)
		}
	}
	for _, robotID := range g.RobotsForCell(cellID) {
		for _, l := range g.ByTarget[robotID] {
			if l.Type == ToolToRobot {
				add(l.SourceID)
			}
		}
	}
	return out
}

// CellForRobot returns the cell robotID is linked to, if any.
func (g *Graph) CellForRobot(robotID string) (string, bool) {
	for _, l := range g.BySource[robotID] {
		if l.Type == RobotToCell {
			return l.TargetID, true
		}
	}
	return "", false
}

// Validate checks the reverse indices against Links.
func (g *Graph) Validate() error {
	if n := bucketTotal(g.BySource); n != len(g.Links) {
		return errors.NewValidationError("bySource", n, fmt.Sprintf("holds %d links, graph has %d", n, len(g.Links)))
	}
	if n := bucketTotal(g.ByTarget); n != len(g.Links) {
		return errors.NewValidationError("byTarget", n, fmt.Sprintf("holds %d links, graph has %d", n, len(g.Links)))
	}
	for _, l := range g.Links {
		if !contains(g.BySource[l.SourceID], l.ID) {
			return errors.NewValidationError("bySource", l.ID, "link missing from source bucket "+l.SourceID)
		}
		if !contains(g.ByTarget[l.TargetID], l.ID) {
			return errors.NewValidationError("byTarget", l.ID, "link missing from target bucket "+l.TargetID)
		}
	}
	return nil
}

func bucketTotal(m map[string][]AssetLink) int {
	n := 0
	for _, links := range m {
		n += len(links)
	}
	return n
}

func contains(links []AssetLink, id string) bool {
	for _, l := range links {
		if l.ID == id {
			return true
		}
	}
	return false
}

// sourceIDs returns the distinct source ids of links of the given kind.
func sourceIDs(links []AssetLink, kind assets.Kind) map[string]bool {
	ids := make(map[string]bool)
	for _, l := range links {
		if l.SourceKind == kind {
			ids[l.SourceID] = true
		}
	}
	return ids
}
