// Package linker runs a full linking pass: robots to cells, tools to cells,
// unlinked tools to robots, then robot tool lists. It writes resolved
// foreign keys into the caller's Robot and Tool records; treat the input
// slices as consumed. Cells are never modified.
package linker

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/simpilot/assetlink/pkg/assets"
	"github.com/simpilot/assetlink/pkg/errors"
	"github.com/simpilot/assetlink/pkg/index"
	"github.com/simpilot/assetlink/pkg/linkgraph"
	"github.com/simpilot/assetlink/pkg/logging"
	"github.com/simpilot/assetlink/pkg/matcher"
)

// Input is the full asset population of one run.
type Input struct {
	Cells  []assets.Cell
	Robots []*assets.Robot
	Tools  []*assets.Tool
}

// Linker links assets to stations and to each other.
type Linker interface {
	Link(ctx context.Context, in Input) (*Result, error)
}

type linker struct {
	options *options
}

// New creates a Linker.
func New(opts ...Option) (Linker, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &linker{options: options}, nil
}

// run holds the mutable state of a single Link call.
type run struct {
	opts     *options
	ctx      context.Context
	builder  *linkgraph.Builder
	warnings []assets.IngestionWarning
}

// Link resolves every robot and tool in in. Resolution failures become
// warnings; an error is returned only for malformed input, before any
// record is touched.
func (l *linker) Link(ctx context.Context, in Input) (*Result, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	result := newResult(in, l.options.keys.Mode)
	result.Metadata.RunID = uuid.NewString()
	ctx = logging.WithRun(ctx, result.Metadata.RunID)
	ctx = logging.WithOperation(ctx, "link")
	logger := logging.FromContext(ctx)

	r := &run{opts: l.options, ctx: ctx, builder: linkgraph.NewBuilder()}

	cells := index.BuildCells(in.Cells, l.options.keys)
	for _, robot := range in.Robots {
		r.linkRobot(robot, cells)
	}

	var pending []pendingTool
	for _, tool := range in.Tools {
		if res := r.linkToolToCell(tool, cells); !res.Matched() {
			pending = append(pending, pendingTool{tool: tool, cell: res})
		}
	}

	if len(pending) > 0 {
		robots := index.BuildRobots(in.Robots, l.options.keys)
		for _, p := range pending {
			r.linkToolToRobot(p, robots)
		}
	}

	graph := r.builder.Build(statsInput(in))
	backfillTools(in.Robots, graph)

	result.Graph = graph
	result.Warnings = r.warnings
	result.finalize()

	if l.options.metrics != nil {
		l.options.metrics.ObserveRun(result.Metadata.KeyMode, graph, result.Warnings, result.Metadata.Duration)
	}

	logger.Info().
		Str("key_mode", result.Metadata.KeyMode).
		Int("links", len(graph.Links)).
		Int("warnings", len(result.Warnings)).
		Dur("duration", result.Metadata.Duration).
		Msg(graph.Stats.Summary())

	return result, nil
}

func (r *run) linkRobot(robot *assets.Robot, cells *index.CellIndex) {
	res := matcher.MatchCell(matcher.QueryFor(robot), cells)
	if !res.Matched() {
		r.missing(robot, robot.SourceFile, res.Key, res.Attempted, "station")
		return
	}

	robot.CellID = res.Cell.ID
	if res.Cell.AreaID != "" {
		robot.AreaID = res.Cell.AreaID
	}
	if res.Cell.ProjectID != "" {
		robot.ProjectID = res.Cell.ProjectID
	}
	r.add(linkgraph.RobotToCell, robot, res.Cell.ID, assets.KindCell, res.Confidence, res.Method, res.Key, res.Ambiguous, res.CandidateCount)
	if res.Ambiguous {
		r.ambiguous(robot, robot.SourceFile, res.Key, res.Attempted, res.CandidateCount, "station", res.Cell.ID)
	}
}

// pendingTool is a tool that found no cell, with the cell lookup it tried.
type pendingTool struct {
	tool *assets.Tool
	cell matcher.Result
}

func (r *run) linkToolToCell(tool *assets.Tool, cells *index.CellIndex) matcher.Result {
	res := matcher.MatchCell(matcher.QueryFor(tool), cells)
	if !res.Matched() {
		return res
	}

	tool.CellID = res.Cell.ID
	if res.Cell.AreaID != "" {
		tool.AreaID = res.Cell.AreaID
	}
	if res.Cell.ProjectID != "" {
		tool.ProjectID = res.Cell.ProjectID
	}
	r.add(linkgraph.ToolToCell, tool, res.Cell.ID, assets.KindCell, res.Confidence, res.Method, res.Key, res.Ambiguous, res.CandidateCount)
	if res.Ambiguous {
		r.ambiguous(tool, tool.SourceFile, res.Key, res.Attempted, res.CandidateCount, "station", res.Cell.ID)
	}
	return res
}

// linkToolToRobot is the fallback for tools with no cell. A tool found on a
// linked robot inherits that robot's station.
func (r *run) linkToolToRobot(p pendingTool, robots *index.RobotIndex) {
	tool := p.tool
	res := matcher.FindRobotForTool(matcher.QueryFor(tool), robots)
	if !res.Matched() {
		attempted := append([]string(nil), p.cell.Attempted...)
		if res.Key != "" {
			attempted = append(attempted, "robot:"+res.Key)
		}
		r.missing(tool, tool.SourceFile, p.cell.Key, attempted, "station or robot")
		return
	}

	robot := res.Robot
	tool.RobotID = robot.ID
	if robot.CellID != "" {
		tool.CellID = robot.CellID
		tool.AreaID = robot.AreaID
		tool.ProjectID = robot.ProjectID
	}
	r.add(linkgraph.ToolToRobot, tool, robot.ID, assets.KindRobot, res.Confidence, res.Method, res.Key, res.Ambiguous, res.CandidateCount)
	if res.Ambiguous {
		r.ambiguous(tool, tool.SourceFile, res.Key, []string{"robot:" + res.Key}, res.CandidateCount, "robot", robot.ID)
	}
}

func (r *run) add(t linkgraph.LinkType, src assets.AssetLike, targetID string, targetKind assets.Kind,
	confidence matcher.Confidence, method matcher.Method, key string, ambiguous bool, count int) {
	r.builder.Add(linkgraph.AssetLink{
		ID:             r.opts.ids.Next(t),
		Type:           t,
		SourceID:       src.AssetID(),
		SourceKind:     src.Kind(),
		TargetID:       targetID,
		TargetKind:     targetKind,
		Confidence:     confidence,
		MatchMethod:    method,
		MatchKey:       key,
		Ambiguous:      ambiguous,
		CandidateCount: count,
	})
}

func (r *run) missing(asset assets.AssetLike, sourceFile, key string, attempted []string, target string) {
	reason := "no station code"
	if key != "" {
		reason = fmt.Sprintf("no %s matches key %q", target, key)
	}
	msg := fmt.Sprintf("%s %s could not be linked: %s", kindLabel(asset.Kind()), label(asset), reason)
	r.warn(assets.WarningMissingTarget, sourceFile, msg, assets.WarningDetails{
		EntityType: asset.Kind(),
		EntityID:   asset.AssetID(),
		EntityName: asset.AssetName(),
		MatchKey:   key,
		Attempted:  attempted,
		Reason:     reason,
	})
}

func (r *run) ambiguous(asset assets.AssetLike, sourceFile, key string, attempted []string, count int, target, chosen string) {
	reason := fmt.Sprintf("%d %s candidates share key %q; linked to first (%s)", count, target, key, chosen)
	msg := fmt.Sprintf("%s %s matched ambiguously: %s", kindLabel(asset.Kind()), label(asset), reason)
	r.warn(assets.WarningAmbiguous, sourceFile, msg, assets.WarningDetails{
		EntityType:     asset.Kind(),
		EntityID:       asset.AssetID(),
		EntityName:     asset.AssetName(),
		MatchKey:       key,
		Attempted:      attempted,
		CandidateCount: count,
		Reason:         reason,
	})
}

func (r *run) warn(kind assets.WarningKind, sourceFile, msg string, details assets.WarningDetails) {
	if sourceFile == "" {
		sourceFile = r.opts.fileName
	}
	w := assets.NewWarning(kind, sourceFile, msg, details)
	r.warnings = append(r.warnings, w)

	logger := logging.FromContext(logging.WithAsset(r.ctx, string(details.EntityType), details.EntityID))
	logger.Debug().
		Str("warning", string(kind)).
		Str("match_key", details.MatchKey).
		Int("candidates", details.CandidateCount).
		Msg(details.Reason)
}

// backfillTools appends every tool linked to a robot to that robot's
// ToolIDs, keeping any ids already present.
func backfillTools(robots []*assets.Robot, g *linkgraph.Graph) {
	for _, robot := range robots {
		for _, l := range g.LinksTo(robot.ID) {
			if l.Type == linkgraph.ToolToRobot {
				robot.AddTool(l.SourceID)
			}
		}
	}
}

func statsInput(in Input) linkgraph.StatsInput {
	s := linkgraph.StatsInput{
		RobotIDs: make([]string, len(in.Robots)),
		ToolIDs:  make([]string, len(in.Tools)),
		CellIDs:  make([]string, len(in.Cells)),
	}
	for i, r := range in.Robots {
		s.RobotIDs[i] = r.ID
	}
	for i, t := range in.Tools {
		s.ToolIDs[i] = t.ID
	}
	for i, c := range in.Cells {
		s.CellIDs[i] = c.ID
	}
	return s
}

func validate(in Input) error {
	for i, c := range in.Cells {
		if c.ID == "" {
			return errors.NewValidationError(fmt.Sprintf("cells[%d].id", i), c.Code, "cannot be empty")
		}
	}
	for i, r := range in.Robots {
		if r == nil {
			return errors.NewValidationError(fmt.Sprintf("robots[%d]", i), nil, "cannot be nil")
		}
		if r.ID == "" {
			return errors.NewValidationError(fmt.Sprintf("robots[%d].id", i), r.Name, "cannot be empty")
		}
	}
	for i, t := range in.Tools {
		if t == nil {
			return errors.NewValidationError(fmt.Sprintf("tools[%d]", i), nil, "cannot be nil")
		}
		if t.ID == "" {
			return errors.NewValidationError(fmt.Sprintf("tools[%d].id", i), t.Name, "cannot be empty")
		}
	}
	return nil
}

func label(a assets.AssetLike) string {
	if a.AssetName() != "" {
		return fmt.Sprintf("%q", a.AssetName())
	}
	return a.AssetID()
}

func kindLabel(k assets.Kind) string {
	switch k {
	case assets.KindRobot:
		return "Robot"
	case assets.KindTool:
		return "Tool"
	default:
		return "Cell"
	}
}
