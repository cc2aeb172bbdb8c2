// Package index builds the per-run lookup tables the matcher resolves
// against. An index is a disposable value: rebuild it whenever the cell or
// robot lists change.
package index

import (
	"github.com/simpilot/assetlink/pkg/assets"
	"github.com/simpilot/assetlink/pkg/normalize"
)

// CompositeKey joins a qualifier key and a station key.
func CompositeKey(qualifier, station string) string {
	return qualifier + ":" + station
}

// CellIndex maps normalized keys to the cells sharing them, in input order.
type CellIndex struct {
	Keys          normalize.KeyFuncs
	ByStation     map[string][]*assets.Cell
	ByAreaStation map[string][]*assets.Cell
	ByLineStation map[string][]*assets.Cell
	Size          int
}

// BuildCells indexes cells in one pass. Cells without a station key are
// left out of every map. The index points into the cells slice.
func BuildCells(cells []assets.Cell, keys normalize.KeyFuncs) *CellIndex {
	idx := &CellIndex{
		Keys:          keys,
		ByStation:     make(map[string][]*assets.Cell, len(cells)),
		ByAreaStation: make(map[string][]*assets.Cell, len(cells)),
		ByLineStation: make(map[string][]*assets.Cell),
		Size:          len(cells),
	}
	for i := range cells {
		cell := &cells[i]
		station := keys.Station(cell.Code)
		if station == "" {
			continue
		}
		idx.ByStation[station] = append(idx.ByStation[station], cell)
		if area := keys.Area(cell.Area()); area != "" {
			k := CompositeKey(area, station)
			idx.ByAreaStation[k] = append(idx.ByAreaStation[k], cell)
		}
		if line := keys.Line(cell.LineCode); line != "" {
			k := CompositeKey(line, station)
			idx.ByLineStation[k] = append(idx.ByLineStation[k], cell)
		}
	}
	return idx
}

// RobotIndex maps normalized keys to robots.
type RobotIndex struct {
	Keys      normalize.KeyFuncs
	ByStation map[string][]*assets.Robot
	ByName    map[string]*assets.Robot // last write wins
	Size      int
}

// BuildRobots indexes robots in one pass. Robots without a station key
// still enter ByName.
func BuildRobots(robots []*assets.Robot, keys normalize.KeyFuncs) *RobotIndex {
	idx := &RobotIndex{
		Keys:      keys,
		ByStation: make(map[string][]*assets.Robot, len(robots)),
		ByName:    make(map[string]*assets.Robot, len(robots)),
		Size:      len(robots),
	}
	for _, robot := range robots {
		if robot == nil {
			continue
		}
		if name := keys.Name(robot.Name); name != "" {
			idx.ByName[name] = robot
		}
		if station := keys.Station(robot.StationCode); station != "" {
			idx.ByStation[station] = append(idx.ByStation[station], robot)
		}
	}
	return idx
}

// RobotByName returns the robot last indexed under name's key.
func (idx *RobotIndex) RobotByName(name string) (*assets.Robot, bool) {
	r, ok := idx.ByName[idx.Keys.Name(name)]
	return r, ok
}
