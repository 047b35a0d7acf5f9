package strategy

import (
	"github.com/pkg/errors"

	"github.com/mus-extract/gomus/internal/cnf"
	"github.com/mus-extract/gomus/internal/workitem"
)

// firstUnsatPrefix binary searches (lo, hi] for the smallest window size K
// at which ordered[:K] is jointly unsatisfiable, given that ordered[:lo]
// is known satisfiable and ordered[:hi] is known unsatisfiable (hi is
// never itself probed — it is established by the strategy's own
// invariant, matching dichotomic/progression never re-checking the full
// remaining set before searching it). Every UNSAT probe along the way is
// refined immediately, shared by Dichotomic (§4.6.3) and Progression's
// target analysis (§4.6.4, atg_binary_simple).
func (ctx *Context) firstUnsatPrefix(ordered []cnf.GID, lo, hi int) (int, error) {
	for lo+1 < hi {
		mid := lo + (hi-lo)/2
		item := &workitem.CheckRangeStatus{Groups: ordered, K: mid, WantRefinement: ctx.wantRefinement()}
		ctx.Worker.ProcessCheckRangeStatus(item)
		if !item.Completed() {
			return 0, errors.New("strategy: range check did not complete")
		}
		if item.Outcome == workitem.RangeUnsat {
			commitUnsat(ctx.State, item.UnnecGIDs)
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi, nil
}
