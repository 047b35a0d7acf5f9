// Package engine implements the top-level orchestration spec.md §2's
// data-flow diagram describes: parser output -> MUS-State -> optional
// preprocessing -> Oracle Adapter -> one Extraction Strategy -> output,
// plus spec.md §7's exit-code policy. Grounded directly on spec.md §2 and
// §7; there is no single teacher file this wires against since the
// teacher's own `cmd/operator-cli` has no equivalent whole-pipeline
// driver, only a thin cobra dispatch straight into bundle generation.
package engine

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mus-extract/gomus/internal/cnf"
	"github.com/mus-extract/gomus/internal/musstate"
	"github.com/mus-extract/gomus/internal/oracle"
	"github.com/mus-extract/gomus/internal/rotate"
	"github.com/mus-extract/gomus/internal/scheduler"
	"github.com/mus-extract/gomus/internal/simplify"
	"github.com/mus-extract/gomus/internal/strategy"
	"github.com/mus-extract/gomus/internal/trim"
	"github.com/mus-extract/gomus/internal/worker"
	"github.com/mus-extract/gomus/internal/workitem"
)

// StrategyKind selects one of spec.md §4.6's seven extraction strategies.
type StrategyKind int

const (
	StrategyDeletion StrategyKind = iota
	StrategyInsertion
	StrategyDichotomic
	StrategyProgression
	StrategyChunked
	StrategySubset
	StrategyFBAR
)

// ExitCode mirrors spec.md §6's process exit-code table.
const (
	ExitDone        = 20 // completed: formula was UNSAT/SAT as the requested mode expected
	ExitInterrupted = 1  // deadline reached or an oracle abort forced an over-approximation
	ExitUsage       = 3  // invalid configuration
)

// Options bundles every CLI-flag-controlled choice engine.Run needs,
// already resolved from strings/ints into the internal enums the
// scheduler/strategy/rotate packages expect — cmd/gomus is responsible
// for that translation, keeping this package free of flag-parsing
// concerns.
type Options struct {
	Strategy  StrategyKind
	ChunkSize int // StrategyChunked
	SubsetM   int // StrategySubset: subset size (spec.md §6's `-subset M S L`; S/L are not
	// wired into internal/strategy.RunSubset's single-size generalised-deletion port — see DESIGN.md)

	DisableRefinement bool

	Rotate        strategy.RotateVariant
	RotationDepth int // only consulted for strategy.RotateSiert
	UseRR         bool
	AdaptiveRR    bool

	RunBCP, RunBCE, RunVE bool
	VEMaxGrowth           int

	TrimIterations  int
	TrimPercent     float64
	TrimToFixpoint  bool // if set and TrimIterations == 0, trim runs uncapped to a literal fixpoint
	InitialSatCheck bool

	Order scheduler.Order
	Seed  int64

	NoMUS bool // preprocessing only, no extraction

	Deadline time.Duration // 0 = no deadline

	Verify bool // -test: re-run extraction on the result to confirm minimality

	// Workers sets the degree of parallelism for the ambient multithreaded
	// worker pool (spec.md §5's skeleton, SPEC_FULL.md §5's additive
	// `-workers N` flag): a concurrent classification pass runs over every
	// initially-untested group before the sequential strategy loop takes
	// over. 0 or 1 reproduces the canonical single-threaded behavior
	// exactly (no pool is built).
	Workers int

	Log *logrus.Logger
}

// Result is what a caller (cmd/gomus) renders to the chosen output
// format: the post-extraction GroupSet (Removed flags mark the deletions)
// plus the provenance spec.md §7 requires be surfaced alongside it.
type Result struct {
	ExitCode    int
	Groups      *cnf.GroupSet
	Survivors   []cnf.GID // non-background groups neither removed nor subsumed by background
	Message     string
	Approximate bool // true when Survivors is an over-approximation of the real MUS
	SatCalls    int
}

// errOracleAbort is the cause runStrategy wraps an error in when the
// oracle reports Unknown (spec.md §7's "Oracle abort" kind); Run turns it
// into an over-approximated Result.
var errOracleAbort = errors.New("engine: oracle aborted (unknown result)")

// Run drives gs through preprocessing, trimming, and (unless opts.NoMUS)
// one extraction strategy, returning a Result whose ExitCode follows
// spec.md §7's policy table.
func Run(gs *cnf.GroupSet, opts Options) (*Result, error) {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	start := time.Now()

	if err := validate(opts); err != nil {
		return &Result{ExitCode: ExitUsage, Message: err.Error()}, nil
	}

	if err := runPreprocessing(gs, opts, log); err != nil {
		return nil, err
	}

	if opts.NoMUS {
		return &Result{ExitCode: ExitDone, Groups: gs, Message: "preprocessing only"}, nil
	}

	o := buildOracle(gs)
	if err := o.Err(); err != nil {
		return nil, errors.Wrap(err, "engine: building oracle")
	}
	st := musstate.New(gs)

	if opts.InitialSatCheck {
		outcome, _ := trim.CheckInitialUnsat(o)
		if outcome == oracle.Sat {
			return &Result{ExitCode: ExitDone, Groups: gs, Message: "formula is satisfiable; no MUS exists"}, nil
		}
	}

	if deadlineExceeded(start, opts.Deadline) {
		return overApproximateResult(gs, st, "deadline reached before trimming began"), nil
	}

	if opts.TrimIterations > 0 || opts.TrimToFixpoint || opts.TrimPercent > 0 {
		item := &workitem.TrimGroupSet{
			MaxIterations:   opts.TrimIterations,
			MinRelReduction: opts.TrimPercent,
		}
		if err := trim.Run(o, st, item); err != nil {
			if isOracleAbort(err) {
				return approximateFromAbort(gs, st, worker.New(o, st, gs)), nil
			}
			return nil, errors.Wrap(err, "engine: trimming")
		}
		if item.StoppedReason == workitem.TrimSATObserved {
			return &Result{ExitCode: ExitDone, Groups: gs, Message: "formula is satisfiable; no MUS exists"}, nil
		}
		log.WithFields(logrus.Fields{
			"iterations": item.IterationsRun,
			"reason":     item.StoppedReason,
		}).Debug("trim finished")
	}

	if deadlineExceeded(start, opts.Deadline) {
		return overApproximateResult(gs, st, "deadline reached before extraction began"), nil
	}

	if opts.Workers > 1 {
		if err := runConcurrentWarmup(gs, st, opts); err != nil {
			return nil, errors.Wrap(err, "engine: concurrent warm-up pass")
		}
	}

	w := worker.New(o, st, gs)
	sched := scheduler.New(opts.Order, opts.Seed)
	ctx := &strategy.Context{
		Worker:            w,
		State:             st,
		Groups:            gs,
		Scheduler:         sched,
		UseRR:             opts.UseRR,
		DisableRefinement: opts.DisableRefinement,
		Rotate:            rotateConfig(opts, o, st),
	}

	if err := runStrategy(ctx, opts); err != nil {
		if errors.Cause(err) == errOracleAbort {
			return approximateFromAbort(gs, st, w), nil
		}
		return nil, errors.Wrap(err, "engine: extraction")
	}

	res := finalResult(gs, st, w)
	if opts.Verify && !res.Approximate {
		if err := verifyMinimal(gs, res.Survivors, opts); err != nil {
			res.Message = "warning: result failed re-verification: " + err.Error()
		}
	}
	return res, nil
}

// runConcurrentWarmup implements SPEC_FULL.md §5's additive `-workers N`
// pass: every initially-untested group is checked concurrently through a
// worker.Pool, each goroutine against its own freshly built Oracle
// snapshot, before the sequential strategy loop takes over. Results are
// committed in two passes — every OutcomeNecessary verdict first, then
// every OutcomeRemovable verdict's refinement candidates — so a group's
// own direct check always wins over being swept up as another check's
// collateral inference; without that ordering, two concurrent checks
// computed from independent snapshots could disagree about one group
// (one item proving it necessary, a sibling item's refinement core
// proving it redundant) and musstate.State.MarkNecessary/MarkRemoved
// would panic on the contradiction. Any item left incomplete (a stale
// snapshot or an oracle abort) is simply left untested; the sequential
// pass that follows re-checks it exactly as it would have without a pool.
func runConcurrentWarmup(gs *cnf.GroupSet, st *musstate.State, opts Options) error {
	untested := st.UntestedIDs()
	if len(untested) == 0 {
		return nil
	}

	pool := worker.NewPool(st, gs, func() oracle.Oracle { return buildOracle(gs) }, opts.Workers)
	items := make([]*workitem.CheckGroupStatus, len(untested))
	wantRefinement := !opts.DisableRefinement
	for i, gid := range untested {
		items[i] = &workitem.CheckGroupStatus{Group: gid, WantRefinement: wantRefinement}
	}
	if err := pool.RunGroupChecks(items); err != nil {
		return err
	}

	for _, item := range items {
		if !item.Completed() || item.Outcome != workitem.OutcomeNecessary {
			continue
		}
		if st.Untested(item.Group) {
			st.MarkNecessary(item.Group)
		}
	}
	for _, item := range items {
		if !item.Completed() || item.Outcome != workitem.OutcomeRemovable || item.Tainted {
			continue
		}
		for _, gid := range item.UnnecGIDs {
			if st.Untested(gid) {
				st.MarkRemoved(gid)
			}
		}
	}
	return nil
}

func validate(opts Options) error {
	if opts.Strategy == StrategyChunked && opts.ChunkSize <= 0 {
		return errors.New("invalid configuration: -chunk requires a positive chunk size")
	}
	if opts.Strategy == StrategySubset && opts.SubsetM <= 0 {
		return errors.New("invalid configuration: -subset requires a positive subset size")
	}
	if opts.TrimPercent < 0 || opts.TrimPercent > 1 {
		return errors.New("invalid configuration: -tprct must be between 0 and 1")
	}
	if opts.Rotate == strategy.RotateSiert && opts.RotationDepth <= 0 {
		return errors.New("invalid configuration: -smr requires a positive depth")
	}
	return nil
}

func deadlineExceeded(start time.Time, d time.Duration) bool {
	return d > 0 && time.Since(start) >= d
}

// runPreprocessing applies the optional SimplifyBCP/BCE/VE passes in
// sequence, each always restricted to the background group (spec.md
// §4.1's preprocessing freeze): BCP first since it is cheapest and most
// likely to shrink the input for the later passes, then BCE, then VE,
// matching original_source/src/mus-2/mus_data.cc's own fixed
// preprocess() ordering.
func runPreprocessing(gs *cnf.GroupSet, opts Options, log *logrus.Logger) error {
	if opts.RunBCP {
		item := &workitem.SimplifyBCP{GroupMode: true}
		simplify.RunBCP(gs, item)
		if item.Conflict {
			return errors.New("engine: background clauses are contradictory; no MUS exists")
		}
		log.WithField("units", item.UnitsPropagated).Debug("BCP finished")
	}
	if opts.RunBCE {
		item := &workitem.SimplifyBCE{GroupMode: true}
		simplify.RunBCE(gs, item)
		log.WithField("eliminated", item.ClausesEliminated).Debug("BCE finished")
	}
	if opts.RunVE {
		item := &workitem.SimplifyVE{MaxGrowth: opts.VEMaxGrowth}
		simplify.RunVE(gs, item)
		log.WithField("vars", item.VarsEliminated).Debug("VE finished")
	}
	return nil
}

// buildOracle seeds a fresh Oracle Adapter from gs: the background group
// is taught final (spec.md §4.1's "gid=0 may be added final"), every
// other group gets its own activation literal.
func buildOracle(gs *cnf.GroupSet) *oracle.Adapter {
	o := oracle.New(gs.MaxVar)
	o.AddGroup(cnf.Background, liveLits(gs, cnf.Background), true)
	for _, gid := range gs.NonBackgroundGroupIDs() {
		o.AddGroup(gid, liveLits(gs, gid), false)
	}
	return o
}

func liveLits(gs *cnf.GroupSet, gid cnf.GID) [][]cnf.Lit {
	g := gs.Group(gid)
	if g == nil {
		return nil
	}
	var out [][]cnf.Lit
	for _, id := range g.Clauses {
		c := gs.Clause(id)
		if !c.Removed {
			out = append(out, c.Lits())
		}
	}
	return out
}

func rotateConfig(opts Options, o oracle.Oracle, st *musstate.State) strategy.RotateConfig {
	if opts.Rotate == strategy.RotateNone {
		return strategy.RotateConfig{}
	}
	var decider rotate.Decider
	if opts.Rotate == strategy.RotateSiert {
		decider = rotate.NewSiertDecider(opts.RotationDepth)
	} else {
		decider = rotate.NewBasicDecider(st)
	}
	return strategy.RotateConfig{
		Variant:          opts.Rotate,
		Decider:          decider,
		MaxDepth:         opts.RotationDepth,
		CollectFastTrack: true,
	}
}

func runStrategy(ctx *strategy.Context, opts Options) error {
	var err error
	switch opts.Strategy {
	case StrategyInsertion:
		err = strategy.RunInsertion(ctx)
	case StrategyDichotomic:
		err = strategy.RunDichotomic(ctx)
	case StrategyProgression:
		err = strategy.RunProgression(ctx)
	case StrategyChunked:
		err = strategy.RunChunked(ctx, opts.ChunkSize)
	case StrategySubset:
		err = strategy.RunSubset(ctx, opts.SubsetM)
	case StrategyFBAR:
		err = strategy.RunFBAR(ctx)
	default:
		err = strategy.RunDeletion(ctx)
	}
	if err != nil && isOracleAbort(err) {
		return errors.Wrap(errOracleAbort, err.Error())
	}
	return err
}

// isOracleAbort reports whether err is one of the "oracle returned an
// unknown result" sentinels internal/worker's Process* methods return;
// matched by message since the worker package does not export a typed
// sentinel of its own (spec.md §7's Oracle-abort kind is a local-policy
// decision made here, in the one layer that knows what approximation to
// fall back to).
func isOracleAbort(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "oracle returned an unknown result") ||
		strings.Contains(msg, "unknown result; item left incomplete")
}

// syncRemovedToGroupSet applies MUS-State's logical Removed
// classification onto gs's physical Clause.Removed flags: extraction
// itself only ever mutates the Oracle and MUS-State (internal/worker.Sync
// never touches the GroupSet), so the format writers — which render a
// GroupSet by its Clause.Removed flags, same as internal/trim's
// caller-facing contract — would otherwise still see every clause live.
func syncRemovedToGroupSet(gs *cnf.GroupSet, st *musstate.State) {
	for _, gid := range st.RemovedIDs() {
		gs.RemoveGroup(gid)
	}
}

// approximateFromAbort implements spec.md §7's Oracle-abort policy: every
// group MUS-State has not yet classified is recorded pot_necessary and
// folded into Survivors as an over-approximation, since no further oracle
// call can safely be trusted once a Solve call has already returned
// Unknown once.
func approximateFromAbort(gs *cnf.GroupSet, st *musstate.State, w *worker.Worker) *Result {
	for _, gid := range st.UntestedIDs() {
		st.MarkPotNecessary(gid)
	}
	res := finalResult(gs, st, w)
	res.ExitCode = ExitInterrupted
	res.Approximate = true
	res.Message = "oracle returned an undefined result; reported subformula over-approximates the true MUS"
	return res
}

// overApproximateResult implements spec.md §7's deadline/signal policy:
// every group MUS-State has not yet classified stays in the reported
// subformula, and the result is flagged approximate rather than silently
// returned as if it were exact.
func overApproximateResult(gs *cnf.GroupSet, st *musstate.State, reason string) *Result {
	syncRemovedToGroupSet(gs, st)
	survivors := st.NecessaryIDs()
	survivors = append(survivors, st.UntestedIDs()...)
	return &Result{
		ExitCode:    ExitInterrupted,
		Groups:      gs,
		Survivors:   survivors,
		Approximate: true,
		Message:     reason + "; reported subformula over-approximates the true MUS",
	}
}

// finalResult reads MUS-State's terminal classification into a Result:
// every Necessary group plus any group still Untested (which can only
// happen via an approximation mode) makes up Survivors.
func finalResult(gs *cnf.GroupSet, st *musstate.State, w *worker.Worker) *Result {
	syncRemovedToGroupSet(gs, st)
	survivors := st.NecessaryIDs()
	untested := st.UntestedIDs()
	approx := len(untested) > 0
	survivors = append(survivors, untested...)
	return &Result{
		ExitCode:    ExitDone,
		Groups:      gs,
		Survivors:   survivors,
		Approximate: approx,
		SatCalls:    w.SatCalls(),
	}
}

// verifyMinimal implements the CLI's `-test` flag: re-run deletion-based
// extraction restricted to just the reported survivors plus background,
// confirming no member can be additionally removed. A non-nil return
// means the result was not actually minimal, which should never happen
// for a correct run and is surfaced as a warning rather than silently
// swallowed.
func verifyMinimal(gs *cnf.GroupSet, survivors []cnf.GID, opts Options) error {
	sub := cnf.NewGroupSet()
	for _, gid := range append([]cnf.GID{cnf.Background}, survivors...) {
		g := gs.Group(gid)
		if g == nil {
			continue
		}
		for _, id := range g.Clauses {
			c := gs.Clause(id)
			if !c.Removed {
				sub.AddClause(gid, c.Lits())
			}
		}
	}

	o := buildOracle(sub)
	st := musstate.New(sub)
	w := worker.New(o, st, sub)
	ctx := &strategy.Context{
		Worker:    w,
		State:     st,
		Groups:    sub,
		Scheduler: scheduler.New(scheduler.OrderDefault, opts.Seed),
	}
	if err := strategy.RunDeletion(ctx); err != nil {
		return err
	}
	if len(st.RemovedIDs()) > 0 {
		return errors.Errorf("%d group(s) in the reported result are still removable", len(st.RemovedIDs()))
	}
	return nil
}
