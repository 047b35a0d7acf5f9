// Package workitem defines the passive value objects that describe one
// unit of work for the SAT-Check Worker (spec.md §3): each kind splits
// into immutable "parameters", worker-filled "results", and a completed
// flag, and is reset and reused across iterations to amortise
// allocation, mirroring original_source/src/mus-2/work_item.hh's
// WorkItem base (lifecycle + reset()) generalized from a single abstract
// base into one struct per concrete kind, since Go has no virtual
// dispatch to lean on.
package workitem

import "github.com/mus-extract/gomus/internal/cnf"

// base carries the fields every concrete kind shares: the MUS-State
// version the parameters were computed against (so a worker can detect a
// stale item per spec.md §3's "version" field) and the completed flag.
type base struct {
	Version   uint64
	completed bool
}

func (b *base) SetCompleted() { b.completed = true }
func (b *base) Completed() bool { return b.completed }
func (b *base) reset() {
	b.completed = false
}

// CheckGroupStatus asks whether a single group is necessary, requesting
// optional model extraction (for model rotation) and redundancy-removal
// framing.
type CheckGroupStatus struct {
	base

	// Parameters.
	Group          cnf.GID
	WantRefinement bool // refine other untested groups from the UNSAT core
	WantModel      bool // extract a SAT model for rotation
	UseRR          bool // assert the group's negation as a transient group

	// Results.
	Outcome   GroupOutcome
	Model     map[cnf.Var]bool
	Core      map[cnf.GID]bool
	Tainted   bool      // the core implicated an RR (transient) group
	UnnecGIDs []cnf.GID // groups refinement found redundant, including Group itself
}

// GroupOutcome is the worker's verdict for a single checked group.
type GroupOutcome int

const (
	OutcomeUnknown GroupOutcome = iota
	OutcomeNecessary
	OutcomeRemovable
)

// Reset restores the item to its zero-result state, keeping Group/flags
// so the scheduler can re-issue it against the same group.
func (w *CheckGroupStatus) Reset() {
	w.reset()
	w.Outcome = OutcomeUnknown
	w.Model = nil
	w.Core = nil
	w.Tainted = false
	w.UnnecGIDs = nil
}

// CheckGroupStatusChunk asks whether gid is necessary; only gid's own
// activation toggles between calls. No chunk negation is loaded: the
// worker does not read ChunkID and the chunked strategy leaves it unset.
type CheckGroupStatusChunk struct {
	base

	Group   cnf.GID
	ChunkID cnf.GID // reserved for a chunk negation group id; unused

	Outcome GroupOutcome
	Core    map[cnf.GID]bool
}

func (w *CheckGroupStatusChunk) Reset() {
	w.reset()
	w.Outcome = OutcomeUnknown
	w.Core = nil
}

// CheckRangeStatus asks whether the first K groups of an ordered working
// vector are jointly satisfiable.
type CheckRangeStatus struct {
	base

	Groups         []cnf.GID
	K              int
	WantRefinement bool // refine groups past the window from the UNSAT core

	Outcome   OverallOutcome
	Core      map[cnf.GID]bool
	UnnecGIDs []cnf.GID
}

// OverallOutcome is the verdict of a multi-group or whole-formula check.
type OverallOutcome int

const (
	RangeUnknown OverallOutcome = iota
	RangeSat
	RangeUnsat
)

func (w *CheckRangeStatus) Reset() {
	w.reset()
	w.Outcome = RangeUnknown
	w.Core = nil
	w.UnnecGIDs = nil
}

// CheckSubsetStatus asks whether the formula is satisfiable with an
// arbitrary set of groups (Groups) deactivated at once; used by the
// subset strategy.
type CheckSubsetStatus struct {
	base

	Groups         map[cnf.GID]bool
	WantRefinement bool

	Outcome   OverallOutcome
	Core      map[cnf.GID]bool
	UnnecGIDs []cnf.GID
}

func (w *CheckSubsetStatus) Reset() {
	w.reset()
	w.Outcome = RangeUnknown
	w.Core = nil
	w.UnnecGIDs = nil
}

// CheckUnsat asks whether the current formula (all still-active groups)
// is unsatisfiable. WantModel additionally requests the witness on SAT.
// trim.CheckInitialUnsat and FBAR's over-approximation phase call the
// oracle directly rather than through this item.
type CheckUnsat struct {
	base

	WantModel bool

	Outcome OverallOutcome
	Core    map[cnf.GID]bool
	Model   map[cnf.Var]bool
}

func (w *CheckUnsat) Reset() {
	w.reset()
	w.Outcome = RangeUnknown
	w.Core = nil
	w.Model = nil
}

// TrimGroupSet drives iterated UNSAT-core shrinking to a fixpoint or one
// of the original's three other termination conditions (iteration cap,
// relative-reduction threshold, SAT observed mid-trim).
type TrimGroupSet struct {
	base

	MaxIterations    int
	MinRelReduction  float64 // stop early once an iteration reduces size by less than this fraction

	IterationsRun int
	FinalCore     map[cnf.GID]bool
	StoppedReason TrimStopReason
}

// TrimStopReason records which of trim's termination conditions fired.
type TrimStopReason int

const (
	TrimNotRun TrimStopReason = iota
	TrimFixpoint
	TrimIterationCap
	TrimRelReductionFloor
	TrimSATObserved
)

func (w *TrimGroupSet) Reset() {
	w.reset()
	w.IterationsRun = 0
	w.FinalCore = nil
	w.StoppedReason = TrimNotRun
}

// RotateModel asks model rotation to amplify one SAT outcome at Group
// (with satisfying assignment Model) into further necessary groups.
type RotateModel struct {
	base

	Group cnf.GID
	Model map[cnf.Var]bool

	// MaxDepth/MaxWidth bound SMR/EMR traversal; zero means the variant's
	// default (RMR is always depth 1).
	MaxDepth int
	MaxWidth int

	FoundNecessary []cnf.GID
	FastTrack      []cnf.GID // groups worth checking next, not yet proven necessary
}

func (w *RotateModel) Reset() {
	w.reset()
	w.FoundNecessary = nil
	w.FastTrack = nil
}

// SimplifyBCP requests boolean constant propagation preprocessing.
// GroupMode restricts propagation to background-group units only, the
// mode this extractor always runs in; clauses of other groups are still
// removed or shrunk by the literals those units force. A top-level
// conflict (the
// background alone is already unsatisfiable) is signalled through
// Conflict/ConflictClause rather than an error return, per spec.md §7's
// "conflict through a recorded clause and an early exit" design note.
type SimplifyBCP struct {
	base

	GroupMode bool

	UnitsPropagated int
	ClausesRemoved  int
	GroupsRemoved   int

	Conflict       bool
	ConflictClause cnf.ClauseID
}

func (w *SimplifyBCP) Reset() {
	w.reset()
	w.UnitsPropagated = 0
	w.ClausesRemoved = 0
	w.GroupsRemoved = 0
	w.Conflict = false
	w.ConflictClause = 0
}

// SimplifyBCE requests blocked-clause elimination preprocessing.
// GroupMode restricts candidate clauses to the background group, the
// same preprocessing-freeze restriction SimplifyBCP applies: a blocked
// clause in a non-background group is still sound to drop for
// satisfiability, but dropping it would silently decide that group's
// fate before extraction gets a chance to classify it.
type SimplifyBCE struct {
	base

	GroupMode bool

	ClausesEliminated int
}

func (w *SimplifyBCE) Reset() {
	w.reset()
	w.ClausesEliminated = 0
}

// SimplifyVE requests bounded variable elimination preprocessing, with
// FrozenVars exempted (activation literals must never be eliminated, per
// spec.md §4.1's "Preprocessing freeze" note).
type SimplifyVE struct {
	base

	FrozenVars  []cnf.Var
	MaxGrowth   int // resolvent-count growth bound per eliminated variable

	VarsEliminated int
}

func (w *SimplifyVE) Reset() {
	w.reset()
	w.VarsEliminated = 0
}
