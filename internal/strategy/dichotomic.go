package strategy

// RunDichotomic implements spec.md §4.6.3: the same growing-window search
// as Insertion, but binary rather than linear, via the firstUnsatPrefix
// helper shared with Progression's target analysis. Grounded on
// original_source/src/mus-2/mus_extraction_alg_dich.cc's
// MUSExtractionAlgDich::operator(); position 0 (no groups of the current
// round's working vector active) is taken as the known-SAT low end
// without a probe, since it is just the necessary-groups-so-far formula,
// and the full window is taken as the known-UNSAT high end without a
// probe, since the whole-remaining-set-UNSAT invariant holds until
// extraction completes (spec.md §4.8's trimming/initial-check
// precondition).
func RunDichotomic(ctx *Context) error {
	for {
		untested := ctx.State.UntestedIDs()
		if len(untested) == 0 {
			return nil
		}
		ordered := ctx.Scheduler.Arrange(untested, ctx.groupSize)

		k, err := ctx.firstUnsatPrefix(ordered, 0, len(ordered))
		if err != nil {
			return err
		}

		newGid := ordered[k-1]
		if ctx.State.Untested(newGid) {
			ctx.State.MarkNecessary(newGid)
		}
	}
}
