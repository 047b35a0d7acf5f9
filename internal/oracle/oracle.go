// Package oracle implements the Oracle Adapter (spec.md §4.1): it presents
// an incremental SAT oracle with per-group control to the rest of the
// extraction engine, wrapping github.com/go-air/gini exactly as the
// teacher's pkg/controller/registry/resolver/solver wraps the same
// library for dependency-resolution SAT calls.
package oracle

import (
	"github.com/go-air/gini"
	"github.com/go-air/gini/inter"
	"github.com/go-air/gini/z"
	"github.com/pkg/errors"

	"github.com/mus-extract/gomus/internal/cnf"
)

// Outcome is the three-valued result of a SAT call.
type Outcome int

const (
	Unknown Outcome = iota
	Sat
	Unsat
)

func fromGini(res int) Outcome {
	switch {
	case res > 0:
		return Sat
	case res < 0:
		return Unsat
	default:
		return Unknown
	}
}

// Oracle is the contract spec.md §4.1 requires of any SAT back-end: it
// must support assumption-based solving, failed-assumption extraction,
// and (optionally) bounded variable elimination with variable freezing.
// internal/worker and internal/strategy depend only on this interface, so
// tests can substitute a mock (see MockOracle) without a real solver.
type Oracle interface {
	AddGroup(gid cnf.GID, clauses [][]cnf.Lit, final bool)
	DeactivateGroup(gid cnf.GID)
	ActivateGroup(gid cnf.GID)
	DelGroup(gid cnf.GID)
	MakeGroupFinal(gid cnf.GID)
	AddFinalClause(lits []cnf.Lit)
	Solve(assumptions []cnf.Lit) Outcome
	Model() map[cnf.Var]bool
	UnsatCore() map[cnf.GID]bool
	Freeze(v cnf.Var)
	NewVar() cnf.Var
}

// Adapter is the gini-backed implementation of Oracle. It maintains a
// bidirectional table between group ids and their activation literals
// (spec.md §9's "Activation-variable map" redesign note) so that both
// gid->lit lookups (for assume/deactivate) and lit->gid lookups (for core
// interpretation) are O(1).
type Adapter struct {
	g inter.S

	gidToAct map[cnf.GID]z.Lit
	actToGID map[z.Lit]cnf.GID

	final   map[cnf.GID]bool
	removed map[cnf.GID]bool

	// activeAssumptions is the set of groups whose "¬a_gid" is assumed on
	// the next Solve; extra per-call assumptions passed to Solve are not
	// stored here.
	activeAssumptions map[cnf.GID]bool

	// nextFreeVar is the next variable index available for an activation
	// literal or any other caller-requested fresh variable (e.g. the
	// Worker's Tseitin auxiliaries for redundancy-removal encodings).
	// Activation and auxiliary variables live in a single range strictly
	// above every problem variable, allocated only through this counter,
	// so two independent allocators can never mint the same index —
	// gini grows its variable count lazily as literals are taught, so
	// fresh variables must come from one shared source of truth rather
	// than from separately seeded counters.
	nextFreeVar cnf.Var
	problemMax  cnf.Var // largest problem (non-activation) variable taught

	lastOutcome Outcome

	errs []error
}

// New returns an Adapter wrapping a fresh gini.Gini instance. maxVar must
// be at least as large as the largest variable index that will ever be
// taught as part of a clause's own literals (typically cnf.GroupSet.MaxVar);
// activation variables are allocated starting at maxVar+1.
func New(maxVar cnf.Var) *Adapter {
	return &Adapter{
		g:                 gini.New(),
		gidToAct:          make(map[cnf.GID]z.Lit),
		actToGID:          make(map[z.Lit]cnf.GID),
		final:             make(map[cnf.GID]bool),
		removed:           make(map[cnf.GID]bool),
		activeAssumptions: make(map[cnf.GID]bool),
		nextFreeVar:       maxVar + 1,
	}
}

func toZ(l cnf.Lit) z.Lit {
	v := z.Var(l.Var())
	if l.Positive() {
		return v.Pos()
	}
	return v.Neg()
}

// AddGroup adds every clause of gid to the oracle. If final is false (the
// common case), a fresh activation variable a_gid is allocated and every
// clause is taught as (literals ∨ a_gid); the group starts active (the
// oracle is called with ¬a_gid among the assumptions). If final is true —
// used only for group 0 — the clauses are committed permanently with no
// activation variable, matching spec.md §4.1's "gid = 0 may be added
// final" clause.
func (a *Adapter) AddGroup(gid cnf.GID, clauses [][]cnf.Lit, final bool) {
	if _, dup := a.gidToAct[gid]; dup || a.final[gid] {
		a.errs = append(a.errs, errors.Errorf("oracle: group %s added more than once", gid))
		return
	}
	if final {
		for _, lits := range clauses {
			a.addClauseRaw(lits, z.LitNull)
		}
		a.final[gid] = true
		return
	}

	act := a.allocActivation()
	a.gidToAct[gid] = act
	a.actToGID[act] = gid
	for _, lits := range clauses {
		a.addClauseRaw(lits, act)
	}
	a.activeAssumptions[gid] = true
}

func (a *Adapter) allocActivation() z.Lit {
	return z.Var(a.NewVar()).Pos()
}

// NewVar allocates and returns a fresh variable disjoint from every
// problem variable, every previously allocated activation variable, and
// every previously allocated NewVar result. Callers that need auxiliary
// variables outside the problem's own namespace (e.g. Tseitin encodings
// for redundancy removal) must mint them here rather than picking their
// own range, so that no two independent allocators can collide.
func (a *Adapter) NewVar() cnf.Var {
	v := a.nextFreeVar
	a.nextFreeVar++
	return v
}

// addClauseRaw teaches the solver (literals ∨ extra), omitting extra if it
// is z.LitNull.
func (a *Adapter) addClauseRaw(lits []cnf.Lit, extra z.Lit) {
	for _, l := range lits {
		if v := l.Var(); v > a.problemMax {
			a.problemMax = v
		}
		a.g.Add(toZ(l))
	}
	if extra != z.LitNull {
		a.g.Add(extra)
	}
	a.g.Add(0)
}

// DeactivateGroup removes ¬a_gid from the next assumption set, disabling
// the group's clauses (they become tautological via a_gid).
func (a *Adapter) DeactivateGroup(gid cnf.GID) {
	delete(a.activeAssumptions, gid)
}

// ActivateGroup restores ¬a_gid to the assumption set.
func (a *Adapter) ActivateGroup(gid cnf.GID) {
	if _, ok := a.gidToAct[gid]; ok && !a.removed[gid] && !a.final[gid] {
		a.activeAssumptions[gid] = true
	}
}

// DelGroup permanently removes gid by asserting the unit a_gid; no future
// activation is possible.
func (a *Adapter) DelGroup(gid cnf.GID) {
	act, ok := a.gidToAct[gid]
	if !ok {
		return
	}
	a.g.Add(act)
	a.g.Add(0)
	a.removed[gid] = true
	delete(a.activeAssumptions, gid)
}

// MakeGroupFinal permanently enables gid by asserting the unit ¬a_gid.
func (a *Adapter) MakeGroupFinal(gid cnf.GID) {
	act, ok := a.gidToAct[gid]
	if !ok {
		a.final[gid] = true
		return
	}
	a.g.Add(act.Not())
	a.g.Add(0)
	a.final[gid] = true
	delete(a.activeAssumptions, gid)
}

// AddFinalClause commits a clause permanently, with no activation
// literal. Used to encode a group's negation for redundancy removal
// (spec.md §4.3/§4.5).
func (a *Adapter) AddFinalClause(lits []cnf.Lit) {
	a.addClauseRaw(lits, z.LitNull)
}

// Freeze protects v from being eliminated by bounded variable elimination
// preprocessing, required for every activation variable per spec.md
// §4.1's "Preprocessing freeze" note.
func (a *Adapter) Freeze(v cnf.Var) {
	a.g.Freeze(z.Var(v).Pos())
}

// Solve unions the caller-provided assumptions with the current ¬a_gid
// set and returns SAT/UNSAT/Unknown.
func (a *Adapter) Solve(assumptions []cnf.Lit) Outcome {
	for gid, act := range a.gidToAct {
		if a.activeAssumptions[gid] {
			a.g.Assume(act.Not())
		}
	}
	for _, l := range assumptions {
		a.g.Assume(toZ(l))
	}
	a.lastOutcome = fromGini(a.g.Solve())
	return a.lastOutcome
}

// Model returns, after a SAT outcome, a total assignment over problem
// variables.
func (a *Adapter) Model() map[cnf.Var]bool {
	if a.lastOutcome != Sat {
		return nil
	}
	model := make(map[cnf.Var]bool, int(a.problemMax))
	for v := cnf.Var(1); v <= a.problemMax; v++ {
		model[v] = a.g.Value(z.Var(v).Pos())
	}
	return model
}

// UnsatCore returns, after an UNSAT outcome, the set of gids whose a_gid
// appeared in the assumption-failure core.
func (a *Adapter) UnsatCore() map[cnf.GID]bool {
	if a.lastOutcome != Unsat {
		return nil
	}
	core := make(map[cnf.GID]bool)
	why := a.g.Why(nil)
	for _, m := range why {
		if gid, ok := a.actToGID[m.Not()]; ok {
			core[gid] = true
		}
	}
	return core
}

// Err aggregates any irrecoverable internal inconsistency observed so
// far, matching the teacher's litMapping/dict.Error() aggregation
// pattern. A non-nil return almost always indicates a caller bug (e.g. a
// group added twice) rather than a SAT-solving failure.
func (a *Adapter) Err() error {
	if len(a.errs) == 0 {
		return nil
	}
	err := a.errs[0]
	for _, e := range a.errs[1:] {
		err = errors.Wrap(err, e.Error())
	}
	return err
}
