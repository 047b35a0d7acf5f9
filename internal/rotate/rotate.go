// Package rotate implements Model Rotation (spec.md §4.5): cheap,
// oracle-free amplification of one SAT witness into further necessary
// groups by single-bit flips of the satisfying assignment. Grounded on
// original_source/src/mus-2/recursive_model_rotator.cc (RMR/SMR),
// extended_model_rotator.cc (EMR), vmus_model_rotator.cc (VMUS) and
// irr_model_rotator.cc (MES), each a distinct C++ ModelRotator
// implementation of the same RotateModel work item — collapsed here into
// one function per variant operating on workitem.RotateModel.
package rotate

import (
	"github.com/mus-extract/gomus/internal/cnf"
	"github.com/mus-extract/gomus/internal/workitem"
)

// Model is the working assignment rotation flips bits of; it starts as a
// copy of the satisfying model recorded on a workitem.RotateModel.
type Model map[cnf.Var]bool

func cloneModel(m map[cnf.Var]bool) Model {
	out := make(Model, len(m))
	for v, b := range m {
		out[v] = b
	}
	return out
}

func flip(m Model, v cnf.Var) { m[v] = !m[v] }

// falsified reports whether every literal of c is false under m.
func falsified(m Model, c *cnf.Clause) bool {
	for i := 0; i < c.Len(); i++ {
		l := c.Get(i)
		if m[l.Var()] == l.Positive() {
			return false
		}
	}
	return true
}

// numTrue returns the count of satisfied literals in c under m, scanning
// every literal (critical(c) only compares the count with 1).
func numTrue(m Model, c *cnf.Clause) int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		l := c.Get(i)
		if m[l.Var()] == l.Positive() {
			n++
		}
	}
	return n
}

// critical reports whether c has exactly one satisfying literal under m —
// the MES analogue of "falsified" for satisfiable formulas, per
// irr_model_rotator.cc's tv_clause_slow special-cased at count 1.
func critical(m Model, c *cnf.Clause) bool {
	return numTrue(m, c) == 1
}

func liveClauses(gs *cnf.GroupSet, gid cnf.GID) []*cnf.Clause {
	g := gs.Group(gid)
	if g == nil {
		return nil
	}
	var out []*cnf.Clause
	for _, id := range g.Clauses {
		c := gs.Clause(id)
		if !c.Removed {
			out = append(out, c)
		}
	}
	return out
}

type queueEntry struct {
	gid   cnf.GID
	delta []cnf.Var
}

// RunRMR performs recursive model rotation seeded at item.Group with
// item.Model, per spec.md §4.5's "Recursive variant". decider gates which
// newly-discovered singleton groups get enqueued (BasicDecider for plain
// RMR, SiertDecider for Siert SMR); collectFastTrack requests that
// multi-group discoveries be recorded on item.FastTrack instead of
// dropped, for scheduler priority elevation.
func RunRMR(gs *cnf.GroupSet, item *workitem.RotateModel, decider Decider, collectFastTrack bool) {
	found := make(map[cnf.GID]bool)
	model := cloneModel(item.Model)
	queue := []queueEntry{{gid: item.Group}}

	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]

		for _, v := range e.delta {
			flip(model, v)
		}

		clauses := liveClauses(gs, e.gid)
		candVars := make(map[cnf.Var]bool)
		for _, c := range clauses {
			if falsified(model, c) {
				for i := 0; i < c.Len(); i++ {
					candVars[c.Get(i).Var()] = true
				}
			}
		}

		for v := range candVars {
			lit := cnf.LitOf(v, model[v]) // the literal of v that is currently true
			flip(model, v)

			newGIDs := newlyFalsifiedGroups(gs, model, clauses, e.gid, lit)

			switch {
			case len(newGIDs) == 1:
				var newGid cnf.GID
				for g := range newGIDs {
					newGid = g
				}
				if decider.RotateThrough(found, newGid, lit) {
					found[newGid] = true
					delta := append(append([]cnf.Var(nil), e.delta...), v)
					queue = append(queue, queueEntry{gid: newGid, delta: delta})
				}
			case len(newGIDs) > 1 && collectFastTrack:
				for g := range newGIDs {
					item.FastTrack = append(item.FastTrack, g)
				}
			}

			flip(model, v) // undo the tentative flip
		}

		for _, v := range e.delta {
			flip(model, v)
		}
	}

	for g := range found {
		item.FoundNecessary = append(item.FoundNecessary, g)
	}
	item.SetCompleted()
}

// newlyFalsifiedGroups collects the groups with a clause falsified by
// model after lit's variable was flipped (lit is the literal that was
// true immediately before the flip, so only clauses containing lit can
// have newly changed truth value): first gid's own clauses (cheap,
// already at hand), then lit's occurrence list for every other group,
// short-circuiting as soon as a second distinct group is found, matching
// recursive_model_rotator.cc's loop order.
func newlyFalsifiedGroups(gs *cnf.GroupSet, model Model, ownClauses []*cnf.Clause, gid cnf.GID, lit cnf.Lit) map[cnf.GID]bool {
	newGIDs := make(map[cnf.GID]bool)
	for _, c := range ownClauses {
		if falsified(model, c) {
			newGIDs[gid] = true
			break
		}
	}

	for _, id := range gs.Occ.Of(lit) {
		c := gs.Clause(id)
		if c.Removed {
			continue
		}
		if falsified(model, c) {
			newGIDs[c.Group] = true
			if len(newGIDs) > 1 {
				break
			}
		}
	}
	return newGIDs
}

// RunMES performs the satisfiable-formula analogue of RMR for irredundant
// subformula extraction, per spec.md §4.5's "MES rotation": a group with
// no falsified clauses (the whole formula is SAT) instead rotates through
// its critically-satisfied clauses — those with exactly one true literal,
// since flipping that literal's variable is the only way to falsify them.
// Grounded on irr_model_rotator.cc's fallback from tv_clause to
// tv_clause_slow when the falsified-clause set is empty.
func RunMES(gs *cnf.GroupSet, item *workitem.RotateModel, decider Decider) {
	found := make(map[cnf.GID]bool)
	model := cloneModel(item.Model)
	queue := []queueEntry{{gid: item.Group}}

	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]

		for _, v := range e.delta {
			flip(model, v)
		}

		clauses := liveClauses(gs, e.gid)
		candVars := make(map[cnf.Var]bool)
		for _, c := range clauses {
			if falsified(model, c) {
				for i := 0; i < c.Len(); i++ {
					candVars[c.Get(i).Var()] = true
				}
			}
		}
		if len(candVars) == 0 {
			for _, c := range clauses {
				if critical(model, c) {
					for i := 0; i < c.Len(); i++ {
						candVars[c.Get(i).Var()] = true
					}
				}
			}
		}

		for v := range candVars {
			lit := cnf.LitOf(v, model[v])
			flip(model, v)

			newGIDs := newlyFalsifiedGroups(gs, model, clauses, e.gid, lit)
			if len(newGIDs) == 1 {
				var newGid cnf.GID
				for g := range newGIDs {
					newGid = g
				}
				if decider.RotateThrough(found, newGid, lit) {
					found[newGid] = true
					delta := append(append([]cnf.Var(nil), e.delta...), v)
					queue = append(queue, queueEntry{gid: newGid, delta: delta})
				}
			}

			flip(model, v)
		}

		for _, v := range e.delta {
			flip(model, v)
		}
	}

	for g := range found {
		item.FoundNecessary = append(item.FoundNecessary, g)
	}
	item.SetCompleted()
}
