// Package trim implements the pre-extraction Trimming and Initial Check
// component of spec.md §4.8. Grounded on
// original_source/src/mus-2/sat_checker.cc's
// SATChecker::process(TrimGroupSet&): an UNSAT-core shrinking loop run
// directly against the Oracle and MUS-State, bypassing the Worker's
// per-check Sync/refine machinery the way the original bypasses its own
// high-level sync/refine calls "for efficiency" inside the loop, applying
// the final result to MUS-State only once the loop terminates.
package trim

import (
	"github.com/pkg/errors"

	"github.com/mus-extract/gomus/internal/cnf"
	"github.com/mus-extract/gomus/internal/musstate"
	"github.com/mus-extract/gomus/internal/oracle"
	"github.com/mus-extract/gomus/internal/workitem"
)

// Run drives item's trim loop against o/st directly: solve, and on UNSAT
// remove every group absent from the returned core, until one of the
// four termination conditions of spec.md §4.8 fires. Unlike the
// original's mutually-exclusive iteration-cap/percentage-threshold
// configuration, MaxIterations and MinRelReduction are checked as two
// independent early-exit conditions per SPEC_FULL.md's supplemented
// four-way termination, so both may be set together.
func Run(o oracle.Oracle, st *musstate.State, item *workitem.TrimGroupSet) error {
	prevSize := st.RealGSize()
	iter := 0

	for {
		iter++

		outcome := o.Solve(nil)
		switch outcome {
		case oracle.Sat:
			item.IterationsRun = iter
			item.StoppedReason = workitem.TrimSATObserved
			item.SetCompleted()
			return nil
		case oracle.Unsat:
		default:
			return errors.New("trim: oracle returned an unknown result")
		}

		core := o.UnsatCore()
		item.FinalCore = core

		var removed []cnf.GID
		for _, gid := range st.UntestedIDs() {
			if !core[gid] {
				removed = append(removed, gid)
			}
		}

		if len(removed) == 0 {
			item.IterationsRun = iter
			item.StoppedReason = workitem.TrimFixpoint
			item.SetCompleted()
			return nil
		}

		for _, gid := range removed {
			st.MarkRemoved(gid)
			o.DelGroup(gid)
		}
		// The oracle already reflects every removal applied above;
		// discard the log entries MarkRemoved just appended so the
		// next Worker.Sync doesn't redundantly re-issue del_group on
		// groups this loop already deleted directly.
		st.DrainRemovedLog()

		if item.MaxIterations > 0 && iter >= item.MaxIterations {
			item.IterationsRun = iter
			item.StoppedReason = workitem.TrimIterationCap
			item.SetCompleted()
			return nil
		}

		if item.MinRelReduction > 0 {
			relReduction := float64(len(removed)) / float64(prevSize)
			if relReduction < item.MinRelReduction {
				item.IterationsRun = iter
				item.StoppedReason = workitem.TrimRelReductionFloor
				item.SetCompleted()
				return nil
			}
		}

		prevSize -= len(removed)
	}
}

// CheckInitialUnsat implements spec.md §4.8's initial check: one solve
// call with every group enabled, used to fail fast on SAT input and to
// warm the solver's learnt-clause database before extraction begins.
// Grounded on sat_checker.cc's process(CheckUnsat&), the same primitive
// internal/worker.ProcessCheckUnsat wraps as a work item — trim calls the
// Oracle directly since it runs before any Worker-mediated check and
// there is nothing yet to sync.
func CheckInitialUnsat(o oracle.Oracle) (oracle.Outcome, map[cnf.GID]bool) {
	outcome := o.Solve(nil)
	if outcome == oracle.Unsat {
		return outcome, o.UnsatCore()
	}
	return outcome, nil
}
