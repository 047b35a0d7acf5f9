package rotate

import (
	"github.com/mus-extract/gomus/internal/cnf"
	"github.com/mus-extract/gomus/internal/workitem"
)

// VarPartition is the variable-oriented grouping VMUS rotation operates
// over: unlike cnf.GroupSet's clause-owning groups, a VMUS variable-group
// is a label on a set of variables, and its "falsified clauses" are found
// by scanning the variables' ordinary occurrence lists rather than a
// group's own clause list. Grounded on vmus_model_rotator.cc's
// gs.vgvars(vgid)/gs.get_var_grp_id(var) accessors.
type VarPartition struct {
	GroupOf map[cnf.Var]cnf.GID
	Vars    map[cnf.GID][]cnf.Var
}

func falsifiedClausesOfVar(gs *cnf.GroupSet, model Model, v cnf.Var) []*cnf.Clause {
	var out []*cnf.Clause
	seen := make(map[cnf.ClauseID]bool)
	for _, lit := range [2]cnf.Lit{cnf.LitOf(v, true), cnf.LitOf(v, false)} {
		for _, id := range gs.Occ.Of(lit) {
			if seen[id] {
				continue
			}
			seen[id] = true
			c := gs.Clause(id)
			if !c.Removed && falsified(model, c) {
				out = append(out, c)
			}
		}
	}
	return out
}

// RunVMUS performs variable-group model rotation, per spec.md §4.5's
// "VMUS rotation": a variable-group is necessary iff every clause
// falsified by the current assignment contains one of its variables.
// Grounded on vmus_model_rotator.cc's process(RotateModel&); item.Group
// is interpreted as a variable-group id, and the returned
// item.FoundNecessary lists necessary variable-group ids, not clause-group
// ids.
func RunVMUS(gs *cnf.GroupSet, vp *VarPartition, item *workitem.RotateModel, decider Decider) {
	found := make(map[cnf.GID]bool)
	model := cloneModel(item.Model)
	queue := []queueEntry{{gid: item.Group}}

	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]

		for _, v := range e.delta {
			flip(model, v)
		}

		fClauses := make(map[cnf.ClauseID]*cnf.Clause)
		for _, v := range vp.Vars[e.gid] {
			for _, c := range falsifiedClausesOfVar(gs, model, v) {
				fClauses[c.ID] = c
			}
		}

		// a variable-group is necessary iff it touches every falsified
		// clause — count, per variable-group, how many distinct falsified
		// clauses it appears in, then compare to len(fClauses).
		perVgid := make(map[cnf.GID]int)
		for _, c := range fClauses {
			seen := make(map[cnf.GID]bool)
			for i := 0; i < c.Len(); i++ {
				vg := vp.GroupOf[c.Get(i).Var()]
				if !seen[vg] {
					seen[vg] = true
					perVgid[vg]++
				}
			}
		}

		for vgid, count := range perVgid {
			if count != len(fClauses) {
				continue
			}
			const noLit = cnf.Lit(0) // VMUS's decider criterion is not literal-sensitive
			if !decider.RotateThrough(found, vgid, noLit) {
				continue
			}
			found[vgid] = true

			delta := append([]cnf.Var(nil), e.delta...)
			vars := vp.Vars[vgid]
			if len(vars) == 1 {
				delta = append(delta, vars[0])
			} else {
				dset := make(map[cnf.Var]bool)
				for _, c := range fClauses {
					for i := 0; i < c.Len(); i++ {
						v := c.Get(i).Var()
						if vp.GroupOf[v] == vgid {
							dset[v] = true
						}
					}
				}
				for v := range dset {
					delta = append(delta, v)
				}
			}
			queue = append(queue, queueEntry{gid: vgid, delta: delta})
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
