package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mus-extract/gomus/internal/cnf"
	"github.com/mus-extract/gomus/internal/musstate"
	"github.com/mus-extract/gomus/internal/oracle"
	"github.com/mus-extract/gomus/internal/refine"
	"github.com/mus-extract/gomus/internal/workitem"
)

// buildPigeonhole mirrors spec.md §8 scenario 1: {-1,-2}, {1}, {2} over
// background group 0 is jointly UNSAT, and each non-background group is
// individually necessary.
func buildPigeonhole(t *testing.T) (*cnf.GroupSet, *oracle.Adapter, *musstate.State, *Worker) {
	t.Helper()
	gs := cnf.NewGroupSet()
	gs.AddClause(1, []cnf.Lit{-1, -2})
	gs.AddClause(2, []cnf.Lit{1})
	gs.AddClause(3, []cnf.Lit{2})

	o := oracle.New(gs.MaxVar)
	o.AddGroup(cnf.Background, nil, true)
	for _, gid := range gs.NonBackgroundGroupIDs() {
		var lits [][]cnf.Lit
		for _, id := range gs.Group(gid).Clauses {
			lits = append(lits, gs.Clause(id).Lits())
		}
		o.AddGroup(gid, lits, false)
	}
	require.NoError(t, o.Err())

	st := musstate.New(gs)
	w := New(o, st, gs)
	return gs, o, st, w
}

func TestProcessCheckGroupStatusUnsatRefinesOthers(t *testing.T) {
	// A fourth group duplicates group 2's clause ({1}) under a separate
	// group id: it is redundant, since the pigeonhole core {g1,g2,g3} is
	// already unsatisfiable without it.
	gs := cnf.NewGroupSet()
	gs.AddClause(1, []cnf.Lit{-1, -2})
	gs.AddClause(2, []cnf.Lit{1})
	gs.AddClause(3, []cnf.Lit{2})
	gs.AddClause(4, []cnf.Lit{1})

	o := oracle.New(gs.MaxVar)
	o.AddGroup(cnf.Background, nil, true)
	for _, gid := range gs.NonBackgroundGroupIDs() {
		var lits [][]cnf.Lit
		for _, id := range gs.Group(gid).Clauses {
			lits = append(lits, gs.Clause(id).Lits())
		}
		o.AddGroup(gid, lits, false)
	}
	require.NoError(t, o.Err())

	st := musstate.New(gs)
	w := New(o, st, gs)

	item := &workitem.CheckGroupStatus{Group: 4, WantRefinement: true}
	require.NoError(t, w.ProcessCheckGroupStatus(item))

	assert.True(t, item.Completed())
	assert.Equal(t, workitem.OutcomeRemovable, item.Outcome)
	assert.Contains(t, item.UnnecGIDs, cnf.GID(4), "the redundant duplicate group must be refined away")
	assert.NotContains(t, item.UnnecGIDs, cnf.GID(1))
	assert.NotContains(t, item.UnnecGIDs, cnf.GID(2))
	assert.NotContains(t, item.UnnecGIDs, cnf.GID(3))

	refine.Apply(st, item.UnnecGIDs)
	assert.True(t, st.R(4))
	assert.True(t, st.Untested(1) && st.Untested(2) && st.Untested(3), "groups in the failure core must remain untested")
}

func TestProcessCheckGroupStatusSatMarksNecessaryCandidate(t *testing.T) {
	_, _, _, w := buildPigeonhole(t)

	// Group 2 ({1}) alone: deactivating it and solving the rest ({-1,-2},
	// {2}) is SAT (x1=false, x2=true), so group 2 is necessary.
	item := &workitem.CheckGroupStatus{Group: 2, WantModel: true}
	require.NoError(t, w.ProcessCheckGroupStatus(item))

	assert.True(t, item.Completed())
	assert.Equal(t, workitem.OutcomeNecessary, item.Outcome)
	require.NotNil(t, item.Model)
}

func TestProcessCheckGroupStatusSkipsAlreadyClassified(t *testing.T) {
	_, _, st, w := buildPigeonhole(t)
	st.MarkNecessary(2)

	item := &workitem.CheckGroupStatus{Group: 2}
	require.NoError(t, w.ProcessCheckGroupStatus(item))
	assert.False(t, item.Completed(), "an already-classified group must leave the item incomplete")
}

func TestProcessCheckUnsatWholeFormula(t *testing.T) {
	_, _, _, w := buildPigeonhole(t)
	item := &workitem.CheckUnsat{}
	w.ProcessCheckUnsat(item)
	assert.True(t, item.Completed())
	assert.Equal(t, workitem.RangeUnsat, item.Outcome)
	assert.NotEmpty(t, item.Core)
}

func TestProcessCheckRangeStatusRestoresActivation(t *testing.T) {
	_, _, _, w := buildPigeonhole(t)
	item := &workitem.CheckRangeStatus{Groups: []cnf.GID{1, 2, 3}, K: 1}
	w.ProcessCheckRangeStatus(item)
	assert.True(t, item.Completed())

	// With only group 1 enabled the formula is SAT.
	assert.Equal(t, workitem.RangeSat, item.Outcome)

	// A follow-up whole-formula check must see all three groups active
	// again, reproducing the original UNSAT result.
	full := &workitem.CheckUnsat{}
	w.ProcessCheckUnsat(full)
	assert.Equal(t, workitem.RangeUnsat, full.Outcome)
}

func TestNegationClausesSingletonGroup(t *testing.T) {
	_, _, _, w := buildPigeonhole(t)
	lits := w.negationClauses(2) // group 2 is {1}
	require.Len(t, lits, 1)
	assert.Equal(t, []cnf.Lit{-1}, lits[0])
}

func TestNegationClausesMultiClauseGroupUsesTseitinAux(t *testing.T) {
	gs := cnf.NewGroupSet()
	gs.AddClause(1, []cnf.Lit{1, 2})
	gs.AddClause(1, []cnf.Lit{-1})

	o := oracle.New(gs.MaxVar)
	o.AddGroup(cnf.Background, nil, true)
	st := musstate.New(gs)
	w := New(o, st, gs)

	out := w.negationClauses(1)
	// Two source clauses -> two aux-linked clauses for the first (2
	// literals) + one for the second (1 literal) + one long clause.
	assert.Len(t, out, 2+1+1)
	last := out[len(out)-1]
	assert.Len(t, last, 2, "the long clause must have one auxiliary literal per source clause")
}

func TestSyncAppliesPendingRemovalsAndFinalizations(t *testing.T) {
	_, o, st, w := buildPigeonhole(t)
	st.MarkRemoved(1)
	w.Sync()
	assert.Empty(t, st.DrainRemovedLog())

	// Group 1 permanently removed: solving without it is SAT.
	outcome := o.Solve(nil)
	assert.Equal(t, oracle.Sat, outcome)
}
