// Package linkgraph holds the directed links produced by a linking run,
// their reverse indices and the aggregate statistics reviewers read.
package linkgraph

import (
	"github.com/simpilot/assetlink/pkg/assets"
	"github.com/simpilot/assetlink/pkg/matcher"
)

// LinkType is the direction and kinds of a link.
type LinkType string

// String returns the string representation of a link type.
func (t LinkType) String() string {
	return string(t)
}

const (
	RobotToCell LinkType = "ROBOT_TO_CELL"
	ToolToCell  LinkType = "TOOL_TO_CELL"
	ToolToRobot LinkType = "TOOL_TO_ROBOT"
	// RobotToTool is reserved for consumers; the linker records tool
	// ownership as ToolToRobot plus Robot.ToolIDs.
	RobotToTool LinkType = "ROBOT_TO_TOOL"
)

// AssetLink is one resolved association. Treat it as immutable once added
// to a Builder.
type AssetLink struct {
	ID             string             `json:"id" yaml:"id"`
	Type           LinkType           `json:"type" yaml:"type"`
	SourceID       string             `json:"sourceId" yaml:"sourceId"`
	SourceKind     assets.Kind        `json:"sourceKind" yaml:"sourceKind"`
	TargetID       string             `json:"targetId" yaml:"targetId"`
	TargetKind     assets.Kind        `json:"targetKind" yaml:"targetKind"`
	Confidence     matcher.Confidence `json:"confidence" yaml:"confidence"`
	MatchMethod    matcher.Method     `json:"matchMethod" yaml:"matchMethod"`
	MatchKey       string             `json:"matchKey" yaml:"matchKey"`
	Ambiguous      bool               `json:"ambiguous,omitempty" yaml:"ambiguous,omitempty"`
	CandidateCount int                `json:"candidateCount,omitempty" yaml:"candidateCount,omitempty"`
}
