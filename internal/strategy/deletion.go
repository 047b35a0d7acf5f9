package strategy

import (
	"github.com/mus-extract/gomus/internal/cnf"
)

// RunDeletion implements the deletion-based extraction algorithm of
// spec.md §4.6.1, grounded on
// original_source/src/mus-2/mus_extraction_alg_del.cc's
// MUSExtractionAlgDel::operator(): walk every untested group once in
// scheduler order (draining the fast-track queue ahead of the ordered
// list whenever it holds an as-yet-untested group) and check it in
// isolation via checkSingleton, which marks it necessary (rotating if
// enabled) or applies refinement from its failure core. A stale
// MUS-State snapshot encountered mid-check is retried immediately
// against the now-current state per step 5 of that section, inside
// checkSingleton's own retry loop.
func RunDeletion(ctx *Context) error {
	ordered := ctx.orderedUntested()
	cursor := 0

	for {
		gid, ok := ctx.nextCandidate(&cursor, ordered)
		if !ok {
			return nil
		}
		if err := checkSingleton(ctx, gid); err != nil {
			return err
		}
	}
}

// nextCandidate pops the scheduler's fast-track queue first (model
// rotation's priority discoveries), falling back to the next
// not-yet-classified group of ordered; reports false once both are
// exhausted. Fast-tracked groups that have since been classified by a
// prior rotation are silently dropped rather than re-checked.
func (ctx *Context) nextCandidate(cursor *int, ordered []cnf.GID) (cnf.GID, bool) {
	for {
		if g, ok := ctx.Scheduler.FastTrackPop(); ok {
			if ctx.State.Untested(g) {
				return g, true
			}
			continue
		}
		if *cursor >= len(ordered) {
			return 0, false
		}
		g := ordered[*cursor]
		*cursor++
		if ctx.State.Untested(g) {
			return g, true
		}
	}
}
