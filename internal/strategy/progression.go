package strategy

import (
	"github.com/pkg/errors"

	"github.com/mus-extract/gomus/internal/workitem"
)

// RunProgression implements spec.md §4.6.4's geometric schedule: probe a
// target set of size 1, 2, 4, 8, ... taken from the tail of the
// remaining untested groups. Checking the prefix in front of the target
// (i.e. deactivating just the target) SAT means at least one target
// group is necessary — found via firstUnsatPrefix's binary search over
// the target range, the same "atg_binary_simple" technique Dichotomic
// uses — and the target size resets to 1; UNSAT means the whole target
// is redundant, refinement disposes of it (CheckRangeStatus's refinement
// already covers every deactivated group, target included), and the
// target size doubles. Grounded on
// original_source/src/mus-2/mus_extraction_alg_prog.cc's
// MUSExtractionAlgProg::operator()/atg_binary_simple.
func RunProgression(ctx *Context) error {
	targetSize := 1
	for {
		untested := ctx.State.UntestedIDs()
		if len(untested) == 0 {
			return nil
		}
		ordered := ctx.Scheduler.Arrange(untested, ctx.groupSize)

		ts := targetSize
		if ts > len(ordered) {
			ts = len(ordered)
		}
		prefixLen := len(ordered) - ts

		item := &workitem.CheckRangeStatus{Groups: ordered, K: prefixLen, WantRefinement: ctx.wantRefinement()}
		ctx.Worker.ProcessCheckRangeStatus(item)
		if !item.Completed() {
			return errors.New("strategy: progression range check did not complete")
		}

		if item.Outcome == workitem.RangeSat {
			k, err := ctx.firstUnsatPrefix(ordered, prefixLen, len(ordered))
			if err != nil {
				return err
			}
			newGid := ordered[k-1]
			if ctx.State.Untested(newGid) {
				ctx.State.MarkNecessary(newGid)
			}
			targetSize = 1
		} else {
			commitUnsat(ctx.State, item.UnnecGIDs)
			targetSize <<= 1
		}
	}
}
