package simplify

import (
	"github.com/mus-extract/gomus/internal/cnf"
	"github.com/mus-extract/gomus/internal/workitem"
)

// RunBCE implements spec.md §4.8's blocked-clause elimination pass, a
// port of bce_simplifier.cc's destructive simplify(): a clause is blocked
// on literal l if every resolvent it would form (against a clause
// containing ¬l) is tautological; a blocked clause can never appear in
// any resolution refutation, so it is sound to drop outright. The
// original drives this from a literal-occurrence-size-ordered heap purely
// for throughput; this port uses a plain FIFO touched-literal queue
// instead, since elimination order does not change the result, only how
// much redundant re-checking happens along the way — a simplification
// worth making given this package has no access to minisat's mutable
// heap. item.GroupMode restricts candidates to the background group;
// clashes are drawn from every live clause whatever its group, since a
// clause blocked only with respect to the background can still take part
// in a refutation together with other groups.
func RunBCE(gs *cnf.GroupSet, item *workitem.SimplifyBCE) {
	eligible := func(c *cnf.Clause) bool {
		return !item.GroupMode || c.Group == cnf.Background
	}

	touched := make(map[cnf.Lit]bool)
	var queue []cnf.Lit
	touch := func(l cnf.Lit) {
		if !touched[l] {
			touched[l] = true
			queue = append(queue, l)
		}
	}

	seen := make(map[cnf.Lit]bool)
	for _, c := range gs.Clauses {
		if c.Removed {
			continue
		}
		for _, l := range c.Lits() {
			if !seen[l] {
				seen[l] = true
				touch(l)
			}
		}
	}

	for len(queue) > 0 {
		lit := queue[0]
		queue = queue[1:]
		touched[lit] = false

		for _, cid := range append([]cnf.ClauseID(nil), gs.Occ.Of(lit)...) {
			cand := gs.Clause(cid)
			if cand.Removed || !cand.Has(lit) || !eligible(cand) {
				continue
			}
			if !blockedOn(gs, cand, lit) {
				continue
			}
			lits := append([]cnf.Lit(nil), cand.Lits()...)
			gs.RemoveClause(cid)
			item.ClausesEliminated++
			for _, l := range lits {
				touch(l.Negate())
			}
		}
	}
}

// blockedOn reports whether every live clause containing ¬lit resolves
// with cand to a tautology, i.e. cand is blocked on lit.
func blockedOn(gs *cnf.GroupSet, cand *cnf.Clause, lit cnf.Lit) bool {
	for _, cid := range gs.Occ.Of(lit.Negate()) {
		clash := gs.Clause(cid)
		if clash.Removed || clash == cand || !clash.Has(lit.Negate()) {
			continue
		}
		if !tautResolvent(cand, clash, lit) {
			return false
		}
	}
	return true
}

// tautResolvent reports whether resolving cand and clash on lit (cand
// holds lit, clash holds ¬lit) produces a tautological clause: some
// other variable appears with opposite polarity in the two clauses. A
// direct port of bce_simplifier.cc's sorted-merge taut_resolvent, relying
// on Clause.Lits() already returning literals sorted by |literal|.
func tautResolvent(cand, clash *cnf.Clause, lit cnf.Lit) bool {
	a, b := cand.Lits(), clash.Lits()
	i, j := 0, 0
	av := lit.Var()
	for i < len(a) && j < len(b) {
		va, vb := a[i].Var(), b[j].Var()
		switch {
		case va < vb:
			i++
		case va > vb:
			j++
		case va == av:
			i++
			j++
		default:
			if (a[i] > 0) != (b[j] > 0) {
				return true
			}
			i++
			j++
		}
	}
	return false
}
