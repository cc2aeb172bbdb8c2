// Package assets defines the station, robot and tool records the linking
// engine reads and enriches. Records arrive already parsed from spreadsheet
// exports; field sets are limited to what the engine reads or writes.
package assets

import "strings"

// Kind identifies the type of an asset record.
type Kind string

// String returns the string representation of a kind.
func (k Kind) String() string {
	return string(k)
}

const (
	// KindCell is a station record.
	KindCell Kind = "CELL"
	// KindRobot is a robot record.
	KindRobot Kind = "ROBOT"
	// KindTool is a tool (gun, gripper, fixture) record.
	KindTool Kind = "TOOL"
)

// AssetLike is anything the matcher can resolve against the station index.
type AssetLike interface {
	AssetID() string
	AssetName() string
	Station() string
	Area() string
	Line() string
	Kind() Kind
}

// Cell is a physical station. The engine never mutates cells.
type Cell struct {
	ID        string `json:"id" yaml:"id"`
	Code      string `json:"code" yaml:"code"`                                 // Raw station label, e.g. "OP-20"
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`             // Often "Area - Station"
	AreaID    string `json:"areaId,omitempty" yaml:"areaId,omitempty"`
	AreaName  string `json:"areaName,omitempty" yaml:"areaName,omitempty"`
	LineCode  string `json:"lineCode,omitempty" yaml:"lineCode,omitempty"`
	ProjectID string `json:"projectId,omitempty" yaml:"projectId,omitempty"`
}

// Area returns the cell's area name, falling back to the "Area - Station"
// prefix of Name when AreaName is empty.
func (c *Cell) Area() string {
	if c.AreaName != "" {
		return c.AreaName
	}
	if before, _, found := strings.Cut(c.Name, " - "); found {
		return strings.TrimSpace(before)
	}
	return ""
}

// Robot is a robot row from a robot list or simulation tracker.
type Robot struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	StationCode string `json:"stationCode,omitempty" yaml:"stationCode,omitempty"`
	AreaName    string `json:"areaName,omitempty" yaml:"areaName,omitempty"`
	LineCode    string `json:"lineCode,omitempty" yaml:"lineCode,omitempty"`
	SourceFile  string `json:"sourceFile,omitempty" yaml:"sourceFile,omitempty"`

	// Written by the engine
	CellID    string   `json:"cellId,omitempty" yaml:"cellId,omitempty"`
	AreaID    string   `json:"areaId,omitempty" yaml:"areaId,omitempty"`
	ProjectID string   `json:"projectId,omitempty" yaml:"projectId,omitempty"`
	ToolIDs   []string `json:"toolIds,omitempty" yaml:"toolIds,omitempty"`
}

// AssetID implements AssetLike.
func (r *Robot) AssetID() string { return r.ID }

// AssetName implements AssetLike.
func (r *Robot) AssetName() string { return r.Name }

// Station implements AssetLike.
func (r *Robot) Station() string { return r.StationCode }

// Area implements AssetLike.
func (r *Robot) Area() string { return r.AreaName }

// Line implements AssetLike.
func (r *Robot) Line() string { return r.LineCode }

// Kind implements AssetLike.
func (r *Robot) Kind() Kind { return KindRobot }

// AddTool appends a tool id once.
func (r *Robot) AddTool(toolID string) {
	for _, id := range r.ToolIDs {
		if id == toolID {
			return
		}
	}
	r.ToolIDs = append(r.ToolIDs, toolID)
}

// Tool is a tool row. Same shape as Robot plus the owning robot.
type Tool struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	StationCode string `json:"stationCode,omitempty" yaml:"stationCode,omitempty"`
	AreaName    string `json:"areaName,omitempty" yaml:"areaName,omitempty"`
	LineCode    string `json:"lineCode,omitempty" yaml:"lineCode,omitempty"`
	SourceFile  string `json:"sourceFile,omitempty" yaml:"sourceFile,omitempty"`

	// Written by the engine
	CellID    string `json:"cellId,omitempty" yaml:"cellId,omitempty"`
	AreaID    string `json:"areaId,omitempty" yaml:"areaId,omitempty"`
	ProjectID string `json:"projectId,omitempty" yaml:"projectId,omitempty"`
	RobotID   string `json:"robotId,omitempty" yaml:"robotId,omitempty"`
}

// AssetID implements AssetLike.
func (t *Tool) AssetID() string { return t.ID }

// AssetName implements AssetLike.
func (t *Tool) AssetName() string { return t.Name }

// Station implements AssetLike.
func (t *Tool) Station() string { return t.StationCode }

// Area implements AssetLike.
func (t *Tool) Area() string { return t.AreaName }

// Line implements AssetLike.
func (t *Tool) Line() string { return t.LineCode }

// Kind implements AssetLike.
func (t *Tool) Kind() Kind { return KindTool }

var (
	_ AssetLike = (*Robot)(nil)
	_ AssetLike = (*Tool)(nil)
)
