// Package worker implements the SAT-Check Worker (spec.md §4.3/§4.7): it
// turns a check-style work item into one or more Oracle calls and
// interprets the result against MUS-State, including the
// redundancy-removal (RR) group lifecycle and tainted-core detection.
// Grounded on original_source/src/mus-2/sat_checker.hh's process(...)
// overloads and sync_solver, adapted from C++ virtual dispatch per work
// item type to one Go method per concrete workitem kind.
package worker

import (
	"github.com/pkg/errors"

	"github.com/mus-extract/gomus/internal/cnf"
	"github.com/mus-extract/gomus/internal/musstate"
	"github.com/mus-extract/gomus/internal/oracle"
	"github.com/mus-extract/gomus/internal/refine"
	"github.com/mus-extract/gomus/internal/workitem"
)

// Worker turns work items into oracle calls, keeping the oracle's group
// population synchronized with MUS-State between calls.
type Worker struct {
	Oracle oracle.Oracle
	State  *musstate.State
	Groups *cnf.GroupSet

	// nextRRGid mints fresh transient group ids for redundancy-removal
	// encodings; it starts above every real
	// group id so RR groups never collide with problem groups. Tseitin
	// auxiliary variables for those encodings are minted through
	// Oracle.NewVar instead of a second local counter, since the oracle
	// is the single source of truth for the problem's variable
	// namespace (it also mints activation variables from the same
	// range).
	nextRRGid cnf.GID

	satCalls int
}

// New returns a Worker. gs is the group set being extracted from; its
// MaxGID seeds the transient group-id allocator so RR groups never
// collide with real ones.
func New(o oracle.Oracle, s *musstate.State, gs *cnf.GroupSet) *Worker {
	return &Worker{
		Oracle:    o,
		State:     s,
		Groups:    gs,
		nextRRGid: gs.MaxGID + 1,
	}
}

// SatCalls returns the number of Solve invocations issued so far.
func (w *Worker) SatCalls() int { return w.satCalls }

func (w *Worker) allocRRGid() cnf.GID {
	gid := w.nextRRGid
	w.nextRRGid++
	return gid
}

// Sync applies MUS-State's pending r_list/f_list deltas to the oracle,
// per spec.md §4.7: walk each log head-to-tail, issuing del_group for
// removed groups and make_group_final for necessary ones, until the logs
// are drained. Idempotent: calling Sync twice with nothing new to apply
// is a no-op.
func (w *Worker) Sync() {
	for _, gid := range w.State.DrainRemovedLog() {
		w.Oracle.DelGroup(gid)
	}
	for _, gid := range w.State.DrainFinalizedLog() {
		w.Oracle.MakeGroupFinal(gid)
	}
}

// ProcessCheckGroupStatus runs the single-group check algorithm of
// spec.md §4.3.
func (w *Worker) ProcessCheckGroupStatus(item *workitem.CheckGroupStatus) error {
	w.Sync()
	version := w.State.Version()
	if w.State.Nec(item.Group) || w.State.R(item.Group) {
		return nil // leave item.completed false: already classified
	}

	w.Oracle.DeactivateGroup(item.Group)

	var rrGid cnf.GID
	usedRR := false
	if item.UseRR {
		rrGid = w.allocRRGid()
		usedRR = true
		w.Oracle.AddGroup(rrGid, w.negationClauses(item.Group), false)
	}

	outcome := w.solve(nil)

	switch outcome {
	case oracle.Sat:
		if item.WantModel {
			item.Model = w.Oracle.Model()
		}
		item.Outcome = workitem.OutcomeNecessary
	case oracle.Unsat:
		core := w.Oracle.UnsatCore()
		item.Core = core
		if refine.Tainted(core, rrGid, usedRR) {
			item.Tainted = true
		} else if item.WantRefinement {
			item.UnnecGIDs = refine.Candidates(core, w.State.UntestedIDs(), rrGid, usedRR)
		} else {
			item.UnnecGIDs = []cnf.GID{item.Group}
		}
		item.Outcome = workitem.OutcomeRemovable
	default:
		w.Oracle.ActivateGroup(item.Group)
		if usedRR {
			w.Oracle.DelGroup(rrGid)
		}
		return errors.New("worker: oracle returned an unknown result; item left incomplete")
	}

	w.Oracle.ActivateGroup(item.Group)
	if usedRR {
		w.Oracle.DelGroup(rrGid)
	}

	if version != w.State.Version() {
		item.Version = version
		return nil // stale snapshot: caller must retry per spec.md §4.6.1 step 5
	}

	item.SetCompleted()
	return nil
}

// ProcessCheckUnsat runs spec.md §4.3's whole-formula check: solve with
// every still-active group enabled and no extra assumptions.
func (w *Worker) ProcessCheckUnsat(item *workitem.CheckUnsat) {
	outcome := w.solve(nil)
	switch outcome {
	case oracle.Sat:
		item.Outcome = workitem.RangeSat
		if item.WantModel {
			item.Model = w.Oracle.Model()
		}
	case oracle.Unsat:
		item.Outcome = workitem.RangeUnsat
		item.Core = w.Oracle.UnsatCore()
	default:
		return
	}
	item.SetCompleted()
}

// ProcessCheckRangeStatus implements spec.md §4.8.3's range check: enable
// groups[:k], disable groups[k:], then solve. Syncs first so a group
// another work item marked removed/necessary earlier in the same round
// is reflected in the oracle before this window's activation is set —
// without it a removed group, last left active by a prior range check's
// restoreAllActive, would stay active forever.
func (w *Worker) ProcessCheckRangeStatus(item *workitem.CheckRangeStatus) {
	w.Sync()

	for i, gid := range item.Groups {
		if i < item.K {
			w.Oracle.ActivateGroup(gid)
		} else {
			w.Oracle.DeactivateGroup(gid)
		}
	}

	outcome := w.solve(nil)
	switch outcome {
	case oracle.Sat:
		item.Outcome = workitem.RangeSat
	case oracle.Unsat:
		item.Outcome = workitem.RangeUnsat
		core := w.Oracle.UnsatCore()
		item.Core = core
		if item.WantRefinement {
			item.UnnecGIDs = refine.Candidates(core, w.State.UntestedIDs(), 0, false)
		}
	default:
		restoreAllActive(w.Oracle, item.Groups)
		return
	}

	restoreAllActive(w.Oracle, item.Groups)
	item.SetCompleted()
}

// ProcessCheckSubsetStatus deactivates an arbitrary set of groups
// simultaneously and solves, per spec.md §4.3's subset-check variant.
// Syncs first for the same reason ProcessCheckRangeStatus does.
func (w *Worker) ProcessCheckSubsetStatus(item *workitem.CheckSubsetStatus) {
	w.Sync()

	for gid := range item.Groups {
		w.Oracle.DeactivateGroup(gid)
	}

	outcome := w.solve(nil)
	switch outcome {
	case oracle.Sat:
		item.Outcome = workitem.RangeSat
	case oracle.Unsat:
		item.Outcome = workitem.RangeUnsat
		core := w.Oracle.UnsatCore()
		item.Core = core
		if item.WantRefinement {
			item.UnnecGIDs = refine.Candidates(core, w.State.UntestedIDs(), 0, false)
		}
	default:
		for gid := range item.Groups {
			w.Oracle.ActivateGroup(gid)
		}
		return
	}

	for gid := range item.Groups {
		w.Oracle.ActivateGroup(gid)
	}
	item.SetCompleted()
}

// ProcessCheckGroupStatusChunk checks item.Group by toggling only its own
// activation. No chunk negation is loaded and item.ChunkID is not read.
// Syncs first for the same reason ProcessCheckRangeStatus does.
func (w *Worker) ProcessCheckGroupStatusChunk(item *workitem.CheckGroupStatusChunk) {
	w.Sync()

	if w.State.Nec(item.Group) || w.State.R(item.Group) {
		return
	}
	w.Oracle.DeactivateGroup(item.Group)

	outcome := w.solve(nil)
	switch outcome {
	case oracle.Sat:
		item.Outcome = workitem.OutcomeNecessary
	case oracle.Unsat:
		core := w.Oracle.UnsatCore()
		item.Core = core
		item.Outcome = workitem.OutcomeRemovable
	default:
		w.Oracle.ActivateGroup(item.Group)
		return
	}

	w.Oracle.ActivateGroup(item.Group)
	item.SetCompleted()
}

func (w *Worker) solve(assumptions []cnf.Lit) oracle.Outcome {
	w.satCalls++
	return w.Oracle.Solve(assumptions)
}

func restoreAllActive(o oracle.Oracle, gids []cnf.GID) {
	for _, gid := range gids {
		o.ActivateGroup(gid)
	}
}

// negationClauses builds the CNF of ¬g from g's live clauses, a direct
// port of original_source/src/mus-2/utils.cc's Utils::make_neg_group: a
// singleton group's negation is one unit clause per literal; a
// multi-clause group needs a Tseitin encoding, since ¬(C1 ∧ C2 ∧ ... ∧ Cn)
// = ¬C1 ∨ ¬C2 ∨ ... ∨ ¬Cn is not itself a CNF — introduce a fresh
// auxiliary variable a_i per clause C_i standing for "C_i is falsified"
// (¬a_i ∨ ¬lit for every lit in C_i), then assert the long clause
// (a_1 ∨ a_2 ∨ ... ∨ a_n) forcing at least one clause falsified.
func (w *Worker) negationClauses(g cnf.GID) [][]cnf.Lit {
	group := w.Groups.Group(g)
	if group == nil {
		return nil
	}
	var live []*cnf.Clause
	for _, id := range group.Clauses {
		c := w.Groups.Clause(id)
		if !c.Removed {
			live = append(live, c)
		}
	}

	if len(live) == 0 {
		return nil
	}

	if len(live) == 1 {
		c := live[0]
		if c.Len() == 0 {
			// Empty clause negated is a tautology; fabricate one so the RR
			// group still exists as a well-formed (harmless) group.
			return [][]cnf.Lit{{1, -1}}
		}
		out := make([][]cnf.Lit, 0, c.Len())
		for i := 0; i < c.Len(); i++ {
			out = append(out, []cnf.Lit{c.Get(i).Negate()})
		}
		return out
	}

	var out [][]cnf.Lit
	longClause := make([]cnf.Lit, 0, len(live))
	for _, c := range live {
		aux := w.Oracle.NewVar()
		longClause = append(longClause, cnf.LitOf(aux, true))
		for i := 0; i < c.Len(); i++ {
			out = append(out, []cnf.Lit{cnf.LitOf(aux, false), c.Get(i).Negate()})
		}
	}
	out = append(out, longClause)
	return out
}
