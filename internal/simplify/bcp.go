// Package simplify implements the Preprocessing component of spec.md §3's
// SimplifyBCP/SimplifyBCE/SimplifyVE work items (§4.8): optional passes
// that shrink a group set before extraction begins. Grounded on
// original_source/src/mus-2/bcp_simplifier.cc,
// bce_simplifier.cc, and ve_simplifier.cc.
package simplify

import (
	"github.com/mus-extract/gomus/internal/cnf"
	"github.com/mus-extract/gomus/internal/workitem"
)

// varAssignment mirrors SimplifyBCP::VarData: the value BCP forced on a
// variable (-1/0/+1) and the clause responsible, so a later solution
// reconstruction pass can walk reasons back to their support.
type varAssignment struct {
	value  int
	reason cnf.ClauseID
}

// RunBCP implements spec.md §4.8's BCP pass, a direct port of
// bcp_simplifier.cc's process(SimplifyBCP&): seed a propagation queue
// from every live unit clause, then repeatedly pop a forced literal,
// remove every clause it satisfies (dropping any group that loses its
// last live clause), and shrink every clause containing its negation,
// enqueuing any clause that shrinks to a new unit. item.GroupMode
// restricts both the seed set and propagation eligibility to background
// clauses, the mode this extractor always runs in: only literals the
// background forces are propagated, and a non-background clause that
// shrinks to a unit forces nothing. Non-background clauses are still
// removed when a propagated literal satisfies them and shrunk when it
// falsifies one of their literals. A conflict (two forced literals on the same
// variable clash) stops the pass immediately and is reported through
// item.Conflict/ConflictClause rather than an error return, mirroring
// the original's BasicClause::shrink()-to-empty encoding of the
// conflicting clause.
func RunBCP(gs *cnf.GroupSet, item *workitem.SimplifyBCP) {
	assigned := make(map[cnf.Var]*varAssignment, int(gs.MaxVar))
	var queue []cnf.Lit
	queued := make(map[cnf.Lit]bool)

	eligible := func(c *cnf.Clause) bool {
		return !item.GroupMode || c.Group == cnf.Background
	}

	enqueue := func(l cnf.Lit, reason cnf.ClauseID) bool {
		v := l.Var()
		want := 1
		if !l.Positive() {
			want = -1
		}
		if a, ok := assigned[v]; ok {
			if a.value != want {
				item.Conflict = true
				item.ConflictClause = reason
				return false
			}
			return true
		}
		assigned[v] = &varAssignment{value: want, reason: reason}
		if !queued[l] {
			queue = append(queue, l)
			queued[l] = true
		}
		item.UnitsPropagated++
		return true
	}

	for _, c := range gs.Clauses {
		if c.Removed || c.Len() != 1 || !eligible(c) {
			continue
		}
		if !enqueue(c.Get(0), c.ID) {
			item.SetCompleted()
			return
		}
	}

	for len(queue) > 0 {
		lit := queue[0]
		queue = queue[1:]
		queued[lit] = false

		for _, cid := range append([]cnf.ClauseID(nil), gs.Occ.Of(lit)...) {
			c := gs.Clause(cid)
			if c.Removed || !c.Has(lit) {
				continue
			}
			removeSatisfiedClause(gs, c, item)
		}

		for _, cid := range append([]cnf.ClauseID(nil), gs.Occ.Of(lit.Negate())...) {
			c := gs.Clause(cid)
			if c.Removed {
				continue
			}
			if !c.RemoveLit(lit.Negate()) {
				continue
			}
			gs.Occ.Remove(lit.Negate())
			if c.Len() == 1 && eligible(c) {
				if !enqueue(c.Get(0), c.ID) {
					item.SetCompleted()
					return
				}
			}
		}
	}

	item.SetCompleted()
}

func removeSatisfiedClause(gs *cnf.GroupSet, c *cnf.Clause, item *workitem.SimplifyBCP) {
	gid := c.Group
	gs.RemoveClause(c.ID)
	item.ClausesRemoved++
	if g := gs.Group(gid); g != nil && !g.Active(gs.Clauses) {
		item.GroupsRemoved++
	}
}
