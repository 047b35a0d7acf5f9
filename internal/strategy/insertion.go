package strategy

import (
	"github.com/pkg/errors"

	"github.com/mus-extract/gomus/internal/workitem"
)

// RunInsertion implements spec.md §4.6.2: grow a front prefix of the
// remaining untested groups one at a time until the window turns UNSAT;
// the group that just tipped it over is necessary, and refinement
// (triggered by the same UNSAT probe) disposes of everything the core
// does not need — which, since CheckRangeStatus deactivates every group
// outside the window, includes groups never even reached by the growth
// loop. Grounded on
// original_source/src/mus-2/mus_extraction_alg_ins.cc's
// MUSExtractionAlgIns::operator(), with the C++'s in-place p_unknown/
// p_removed cursor swap replaced by re-deriving the scheduler's ordered
// working vector from MUS-State's untested set at the top of every outer
// round — MUS-State's Nec/R buckets are the authoritative partition, so
// there is nothing left for an array-index invariant to duplicate.
func RunInsertion(ctx *Context) error {
	for {
		untested := ctx.State.UntestedIDs()
		if len(untested) == 0 {
			return nil
		}
		ordered := ctx.Scheduler.Arrange(untested, ctx.groupSize)

		found := false
		for k := 1; k <= len(ordered); k++ {
			item := &workitem.CheckRangeStatus{Groups: ordered, K: k, WantRefinement: ctx.wantRefinement()}
			ctx.Worker.ProcessCheckRangeStatus(item)
			if !item.Completed() {
				return errors.New("strategy: insertion range check did not complete")
			}
			if item.Outcome == workitem.RangeUnsat {
				newGid := ordered[k-1]
				if ctx.State.Untested(newGid) {
					ctx.State.MarkNecessary(newGid)
				}
				commitUnsat(ctx.State, item.UnnecGIDs)
				found = true
				break
			}
		}
		if !found {
			// Every group in the remaining set activated together was SAT,
			// contradicting the whole-remaining-set-is-UNSAT invariant
			// every strategy relies on; bail out rather than loop forever.
			return errors.New("strategy: insertion window reached full size without finding UNSAT")
		}
	}
}
