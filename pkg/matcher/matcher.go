// Package matcher resolves a single robot or tool to a cell, or a tool to a
// robot, using a fixed cascade of lookups against a prebuilt index.
//
// Area- and line-qualified lookups are tried before the bare station because
// station codes repeat across areas. A tier with more than one hit still
// returns its first entry, but always with Ambiguous set and a lowered
// confidence. The matcher never mutates the asset or the index.
package matcher

import (
	"github.com/simpilot/assetlink/pkg/assets"
	"github.com/simpilot/assetlink/pkg/index"
)

// Confidence labels how trustworthy a match is.
type Confidence string

// String returns the string representation of a confidence.
func (c Confidence) String() string {
	return string(c)
}

const (
	// ConfidenceHigh is a unique area- or line-qualified hit.
	ConfidenceHigh Confidence = "HIGH"
	// ConfidenceMedium is a unique station hit or an ambiguous qualified hit.
	ConfidenceMedium Confidence = "MEDIUM"
	// ConfidenceLow is an ambiguous station hit or no match at all.
	ConfidenceLow Confidence = "LOW"
)

// Method names the tier that produced a match.
type Method string

// String returns the string representation of a method.
func (m Method) String() string {
	return string(m)
}

const (
	MethodAreaStation  Method = "area+station"
	MethodLineStation  Method = "line+station"
	MethodStation      Method = "station"
	MethodRobotStation Method = "robot-station"
	MethodNone         Method = "none"
)

// Query is the raw identifying fields of one asset.
type Query struct {
	ID      string
	Name    string
	Station string
	Area    string
	Line    string
}

// QueryFor extracts a Query from any robot or tool.
func QueryFor(asset assets.AssetLike) Query {
	return Query{
		ID:      asset.AssetID(),
		Name:    asset.AssetName(),
		Station: asset.Station(),
		Area:    asset.Area(),
		Line:    asset.Line(),
	}
}

// Result is the outcome of matching one asset against the cell index.
type Result struct {
	Cell           *assets.Cell
	Confidence     Confidence
	Method         Method
	Key            string   // composite key of the winning tier, or the most specific key tried
	Ambiguous      bool
	CandidateCount int
	Attempted      []string // every key looked up, in order
}

// Matched reports whether a cell was found.
func (r Result) Matched() bool {
	return r.Cell != nil
}

// MatchCell runs the area, line and station tiers in order and returns the
// first tier with at least one hit. Keys are normalized with the index's
// own KeyFuncs.
func MatchCell(q Query, idx *index.CellIndex) Result {
	keys := idx.Keys
	station := keys.Station(q.Station)
	if station == "" {
		return Result{Confidence: ConfidenceLow, Method: MethodNone}
	}

	var attempted []string

	if area := keys.Area(q.Area); area != "" {
		k := index.CompositeKey(area, station)
		attempted = append(attempted, k)
		if hits := idx.ByAreaStation[k]; len(hits) > 0 {
			return cellTier(hits, ConfidenceHigh, ConfidenceMedium, MethodAreaStation, k, attempted)
		}
	}

	if line := keys.Line(q.Line); line != "" {
		k := index.CompositeKey(line, station)
		attempted = append(attempted, k)
		if hits := idx.ByLineStation[k]; len(hits) > 0 {
			return cellTier(hits, ConfidenceHigh, ConfidenceMedium, MethodLineStation, k, attempted)
		}
	}

	attempted = append(attempted, station)
	if hits := idx.ByStation[station]; len(hits) > 0 {
		return cellTier(hits, ConfidenceMedium, ConfidenceLow, MethodStation, station, attempted)
	}

	return Result{
		Confidence: ConfidenceLow,
		Method:     MethodNone,
		Key:        attempted[0],
		Attempted:  attempted,
	}
}

func cellTier(hits []*assets.Cell, unique, ambiguous Confidence, method Method, key string, attempted []string) Result {
	r := Result{
		Cell:           hits[0],
		Confidence:     unique,
		Method:         method,
		Key:            key,
		CandidateCount: len(hits),
		Attempted:      attempted,
	}
	if len(hits) > 1 {
		r.Ambiguous = true
		r.Confidence = ambiguous
	}
	return r
}

// RobotResult is the outcome of matching a tool against the robot index.
type RobotResult struct {
	Robot          *assets.Robot
	Confidence     Confidence
	Method         Method
	Key            string
	Ambiguous      bool
	CandidateCount int
}

// Matched reports whether a robot was found.
func (r RobotResult) Matched() bool {
	return r.Robot != nil
}

// FindRobotForTool runs the station-only tier against robots. It is the
// fallback for tools that resolved to no cell.
func FindRobotForTool(q Query, idx *index.RobotIndex) RobotResult {
	station := idx.Keys.Station(q.Station)
	if station == "" {
		return RobotResult{Confidence: ConfidenceLow, Method: MethodNone}
	}
	hits := idx.ByStation[station]
	if len(hits) == 0 {
		return RobotResult{Confidence: ConfidenceLow, Method: MethodNone, Key: station}
	}
	r := RobotResult{
		Robot:          hits[0],
		Confidence:     ConfidenceMedium,
		Method:         MethodRobotStation,
		Key:            station,
		CandidateCount: len(hits),
	}
	if len(hits) > 1 {
		r.Ambiguous = true
		r.Confidence = ConfidenceLow
	}
	return r
}
