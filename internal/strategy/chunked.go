package strategy

import (
	"github.com/mus-extract/gomus/internal/cnf"
	"github.com/mus-extract/gomus/internal/refine"
	"github.com/mus-extract/gomus/internal/workitem"
)

// RunChunked implements spec.md §4.6.5: partition the remaining untested
// groups into fixed-size batches and run plain deletion within each
// batch before moving to the next. Grounded on
// original_source/src/mus-2/mus_extraction_alg_chunk.cc's
// MUSExtractionAlgChunk::operator(), which — for the single-clause-group
// case it actually supports — collects chunk_size untested groups from
// the scheduler and runs CheckGroupStatusChunk on each in turn with no
// additional per-chunk negation encoding of its own; the amortisation
// the source credits to "loading negations once" falls out for free from
// the oracle's own incremental state (activation toggles and learnt
// clauses persist across Solve calls on the same Adapter), which is why
// ChunkID is carried on workitem.CheckGroupStatusChunk as a reserved hook
// but left unpopulated here — there is no separate persistent structure
// to hand it.
func RunChunked(ctx *Context, chunkSize int) error {
	if chunkSize <= 0 {
		chunkSize = len(ctx.State.UntestedIDs())
	}

	for {
		untested := ctx.State.UntestedIDs()
		if len(untested) == 0 {
			return nil
		}
		ordered := ctx.Scheduler.Arrange(untested, ctx.groupSize)

		n := chunkSize
		if n > len(ordered) {
			n = len(ordered)
		}
		chunk := ordered[:n]

		for _, gid := range chunk {
			if !ctx.State.Untested(gid) {
				continue
			}
			item := &workitem.CheckGroupStatusChunk{Group: gid}
			ctx.Worker.ProcessCheckGroupStatusChunk(item)
			if !item.Completed() {
				continue
			}
			switch item.Outcome {
			case workitem.OutcomeNecessary:
				ctx.State.MarkNecessary(gid)
			case workitem.OutcomeRemovable:
				commitUnsat(ctx.State, refineChunkCore(ctx, gid, item.Core))
			}
		}
	}
}

// refineChunkCore mirrors single-group refinement for the chunk path:
// CheckGroupStatusChunk reports only the raw core, not a precomputed
// candidate list (it has no RR group to exclude), so build the
// candidate list the same way plain deletion's CheckGroupStatus does.
func refineChunkCore(ctx *Context, gid cnf.GID, core map[cnf.GID]bool) []cnf.GID {
	if core == nil || !ctx.wantRefinement() {
		return []cnf.GID{gid}
	}
	return refine.Candidates(core, ctx.State.UntestedIDs(), 0, false)
}
