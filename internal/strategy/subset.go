package strategy

import (
	"github.com/pkg/errors"

	"github.com/mus-extract/gomus/internal/cnf"
	"github.com/mus-extract/gomus/internal/workitem"
)

// RunSubset implements spec.md §4.6.6's generalised deletion: schedule
// the remaining untested groups into fixed-size subsets; an UNSAT subset
// is wholly refinable in one call, a SAT subset means at least one of
// its members is necessary. Grounded on
// original_source/src/mus-2/mus_extraction_alg_subset.cc's
// MUSExtractionAlgSubset::operator(), minus its proof-trace-guided
// subset selection (path-count/articulation-point heuristics over a
// recorded resolution proof): CheckSubsetStatus does not surface a
// model on SAT, so a SAT subset here falls back to testing each of its
// members individually via plain deletion (workitem.CheckGroupStatus)
// rather than reading the witness to single out the falsified member in
// one step — correct, just not as amortised as the heuristic variants.
func RunSubset(ctx *Context, subsetSize int) error {
	if subsetSize <= 0 {
		subsetSize = 1
	}

	for {
		untested := ctx.State.UntestedIDs()
		if len(untested) == 0 {
			return nil
		}
		ordered := ctx.Scheduler.Arrange(untested, ctx.groupSize)

		n := subsetSize
		if n > len(ordered) {
			n = len(ordered)
		}
		members := ordered[:n]

		if n == 1 {
			if err := checkSingleton(ctx, members[0]); err != nil {
				return err
			}
			continue
		}

		inSubset := make(map[cnf.GID]bool, n)
		for _, g := range members {
			inSubset[g] = true
		}

		item := &workitem.CheckSubsetStatus{Groups: inSubset, WantRefinement: ctx.wantRefinement()}
		ctx.Worker.ProcessCheckSubsetStatus(item)
		if !item.Completed() {
			return errors.New("strategy: subset check did not complete")
		}

		if item.Outcome == workitem.RangeUnsat {
			commitUnsat(ctx.State, item.UnnecGIDs)
			continue
		}

		for _, g := range members {
			if !ctx.State.Untested(g) {
				continue
			}
			if err := checkSingleton(ctx, g); err != nil {
				return err
			}
		}
	}
}

// checkSingleton runs one plain deletion check on gid, committing its
// necessary/removable verdict, the same primitive Deletion itself uses.
func checkSingleton(ctx *Context, gid cnf.GID) error {
	if !ctx.State.Untested(gid) {
		return nil
	}
	item := &workitem.CheckGroupStatus{
		Group:          gid,
		WantRefinement: ctx.wantRefinement(),
		WantModel:      ctx.Rotate.enabled(),
		UseRR:          ctx.UseRR,
	}
	for {
		if err := ctx.Worker.ProcessCheckGroupStatus(item); err != nil {
			return err
		}
		if item.Completed() {
			break
		}
		if !ctx.State.Untested(gid) {
			return nil
		}
		item.Reset()
	}

	switch item.Outcome {
	case workitem.OutcomeNecessary:
		ctx.State.MarkNecessary(gid)
		ctx.applyRotation(gid, item.Model)
	case workitem.OutcomeRemovable:
		if !item.Tainted {
			commitUnsat(ctx.State, item.UnnecGIDs)
		}
	}
	return nil
}
