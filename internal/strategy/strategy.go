// Package strategy implements the Extraction Strategy component of
// spec.md §4.6: the seven group-ordering/probing disciplines that drive
// the SAT-Check Worker (internal/worker) and Refinement (internal/refine)
// over MUS-State (internal/musstate) to shrink an initially-unsatisfiable
// group set down to one MUS. Each strategy is grounded on its own
// original_source/src/mus-2/mus_extraction_alg_*.cc file; the shared
// Context plumbing below corresponds to MUSExtractionAlg's constructor
// arguments (SATChecker, ModelRotator, MUSData, GroupScheduler), folded
// into one struct since Go favors composition over a class hierarchy.
package strategy

import (
	"github.com/mus-extract/gomus/internal/cnf"
	"github.com/mus-extract/gomus/internal/musstate"
	"github.com/mus-extract/gomus/internal/refine"
	"github.com/mus-extract/gomus/internal/rotate"
	"github.com/mus-extract/gomus/internal/scheduler"
	"github.com/mus-extract/gomus/internal/worker"
	"github.com/mus-extract/gomus/internal/workitem"
)

// RotateVariant selects which model-rotation algorithm Context.rotate
// drives, matching the CLI's `-refine` rotation-variant sub-flag
// (spec.md §6).
type RotateVariant int

const (
	RotateNone RotateVariant = iota
	RotateRMR
	RotateSiert
	RotateEMR
	RotateVMUS
	RotateMES
)

// RotateConfig bundles everything a strategy needs to fire model
// rotation after a SAT outcome, mirroring the ModelRotator reference
// every MUSExtractionAlg subclass is constructed with.
type RotateConfig struct {
	Variant          RotateVariant
	Decider          rotate.Decider
	VarPartition     *rotate.VarPartition // required for RotateVMUS
	MaxDepth         int
	MaxWidth         int
	CollectFastTrack bool
}

func (c RotateConfig) enabled() bool { return c.Variant != RotateNone }

// Context is the common environment every extraction strategy runs
// against: the SAT-check worker, the group set being extracted from, the
// scheduler producing traversal order and holding the fast-track queue,
// and the optional model-rotation configuration. UseRR enables
// redundancy-removal framing on single-group checks (spec.md §4.4).
type Context struct {
	Worker    *worker.Worker
	State     *musstate.State
	Groups    *cnf.GroupSet
	Scheduler *scheduler.Scheduler
	Rotate    RotateConfig
	UseRR     bool

	// DisableRefinement implements the CLI's `-norf` flag (spec.md §6):
	// every strategy's UNSAT/removable branch still commits the checked
	// group itself, but stops inferring any of the other untested groups
	// a failure core would otherwise exonerate.
	DisableRefinement bool
}

// wantRefinement is passed as every CheckRangeStatus/CheckSubsetStatus/
// CheckGroupStatus's WantRefinement parameter; centralised here so
// `-norf` is one field instead of a literal repeated at every call site.
func (ctx *Context) wantRefinement() bool { return !ctx.DisableRefinement }

func (ctx *Context) groupSize(gid cnf.GID) int {
	g := ctx.Groups.Group(gid)
	if g == nil {
		return 0
	}
	return g.Size()
}

// orderedUntested returns every untested group arranged by the
// scheduler's configured order. RunDeletion calls it once up front; the
// strategies that re-derive their working vector every outer round
// (insertion, dichotomic, progression, chunked, subset) call
// Scheduler.Arrange on the current untested set themselves.
func (ctx *Context) orderedUntested() []cnf.GID {
	return ctx.Scheduler.Arrange(ctx.State.UntestedIDs(), ctx.groupSize)
}

// applyRotation runs the configured model-rotation variant seeded at gid
// with model, commits every group it proves necessary, and (when
// CollectFastTrack is set) feeds its multi-group discoveries into the
// scheduler's fast-track queue. Mirrors the "if (_mrotter)" branch common
// to every MUSExtractionAlg SAT-outcome handler.
func (ctx *Context) applyRotation(gid cnf.GID, model map[cnf.Var]bool) {
	if !ctx.Rotate.enabled() || model == nil {
		return
	}

	item := &workitem.RotateModel{
		Group:    gid,
		Model:    model,
		MaxDepth: ctx.Rotate.MaxDepth,
		MaxWidth: ctx.Rotate.MaxWidth,
	}

	switch ctx.Rotate.Variant {
	case RotateEMR:
		rotate.RunEMR(ctx.Groups, item)
	case RotateVMUS:
		rotate.RunVMUS(ctx.Groups, ctx.Rotate.VarPartition, item, ctx.Rotate.Decider)
	case RotateMES:
		rotate.RunMES(ctx.Groups, item, ctx.Rotate.Decider)
	default: // RotateRMR, RotateSiert: same recursive walk, different decider
		rotate.RunRMR(ctx.Groups, item, ctx.Rotate.Decider, ctx.Rotate.CollectFastTrack)
	}

	for _, g := range item.FoundNecessary {
		if !ctx.State.Nec(g) {
			ctx.State.MarkNecessary(g)
		}
	}
	if ctx.Rotate.CollectFastTrack && len(item.FastTrack) > 0 {
		ctx.Scheduler.FastTrackPush(item.FastTrack...)
	}
}

// commitUnsat applies refinement's candidate list (if any) to MUS-State,
// the common tail of every single/range/subset UNSAT branch.
func commitUnsat(st *musstate.State, gids []cnf.GID) {
	if len(gids) > 0 {
		refine.Apply(st, gids)
	}
}
