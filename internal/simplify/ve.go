package simplify

import (
	"github.com/mus-extract/gomus/internal/cnf"
	"github.com/mus-extract/gomus/internal/workitem"
)

// RunVE implements spec.md §4.8's bounded variable elimination pass, a
// substantially reduced port of ve_simplifier.cc's SatElite-style
// elimination: for each non-frozen variable, replace every clause
// mentioning it with the set of non-tautological resolvents on that
// variable, provided doing so does not grow the clause count beyond
// item.MaxGrowth. The original additionally folds in subsumption,
// self-subsuming resolution, and a heap-ordered elimination schedule that
// picks the cheapest variable first; none of that changes which formula
// results, only how quickly it gets there, so this port keeps the
// elimination criterion (bounded resolvent growth) and drops the
// scheduling/subsumption machinery as out of scope for a CNF/group-set
// abstraction that has no standalone subsumption pass of its own to
// share code with.
//
// A variable is only eliminated when every clause it appears in belongs
// to the background group: resolving across groups would produce a
// clause with no well-defined owning group, silently merging two
// candidate groups' content before extraction ever gets to classify
// them — the same preprocessing-freeze concern SimplifyBCP/SimplifyBCE
// are restricted by by construction rather than by an explicit
// GroupMode flag, since there is no sound non-background variant to gate.
func RunVE(gs *cnf.GroupSet, item *workitem.SimplifyVE) {
	frozen := make(map[cnf.Var]bool, len(item.FrozenVars))
	for _, v := range item.FrozenVars {
		frozen[v] = true
	}

	for v := cnf.Var(1); v <= gs.MaxVar; v++ {
		if frozen[v] {
			continue
		}
		eliminateVar(gs, v, item)
	}
}

func eliminateVar(gs *cnf.GroupSet, v cnf.Var, item *workitem.SimplifyVE) {
	pos := liveClauses(gs, cnf.LitOf(v, true))
	neg := liveClauses(gs, cnf.LitOf(v, false))
	if len(pos) == 0 || len(neg) == 0 {
		return // pure literal or already untouched by either polarity
	}
	for _, c := range pos {
		if c.Group != cnf.Background {
			return
		}
	}
	for _, c := range neg {
		if c.Group != cnf.Background {
			return
		}
	}

	var resolvents [][]cnf.Lit
	for _, p := range pos {
		for _, n := range neg {
			if res, ok := resolveOn(p, n, v); ok {
				resolvents = append(resolvents, res)
			}
		}
	}

	growth := len(resolvents) - (len(pos) + len(neg))
	if growth > 0 && growth > item.MaxGrowth {
		return
	}

	for _, c := range pos {
		gs.RemoveClause(c.ID)
	}
	for _, c := range neg {
		gs.RemoveClause(c.ID)
	}
	for _, lits := range resolvents {
		gs.AddClause(cnf.Background, lits)
	}
	item.VarsEliminated++
}

func liveClauses(gs *cnf.GroupSet, l cnf.Lit) []*cnf.Clause {
	var out []*cnf.Clause
	for _, cid := range gs.Occ.Of(l) {
		c := gs.Clause(cid)
		if !c.Removed && c.Has(l) {
			out = append(out, c)
		}
	}
	return out
}

// resolveOn returns the resolvent of p (holding +v) and n (holding -v),
// or ok=false if it is tautological (some other variable appears with
// opposite polarity in both).
func resolveOn(p, n *cnf.Clause, v cnf.Var) ([]cnf.Lit, bool) {
	lits := make(map[cnf.Lit]bool, p.Len()+n.Len())
	for _, l := range p.Lits() {
		if l.Var() != v {
			lits[l] = true
		}
	}
	for _, l := range n.Lits() {
		if l.Var() == v {
			continue
		}
		if lits[l.Negate()] {
			return nil, false // clash on a variable other than v: tautology
		}
		lits[l] = true
	}
	out := make([]cnf.Lit, 0, len(lits))
	for l := range lits {
		out = append(out, l)
	}
	return out, true
}
