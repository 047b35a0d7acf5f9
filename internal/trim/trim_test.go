package trim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mus-extract/gomus/internal/cnf"
	"github.com/mus-extract/gomus/internal/musstate"
	"github.com/mus-extract/gomus/internal/oracle"
	"github.com/mus-extract/gomus/internal/workitem"
)

// buildPigeonholeWithSlack mirrors worker_test.go's buildPigeonhole fixture
// plus two groups (4, 5) whose clauses are never needed to witness UNSAT:
// {-1,-2}=g1, {1}=g2, {2}=g3 is the minimal UNSAT core; {1,2}=g4 is
// subsumed by g2 and {1,-1}=g5 is a tautology, slack a correct trim pass
// must drop without ever touching the core.
func buildPigeonholeWithSlack(t *testing.T) (*oracle.Adapter, *musstate.State) {
	t.Helper()
	gs := cnf.NewGroupSet()
	gs.AddClause(1, []cnf.Lit{-1, -2})
	gs.AddClause(2, []cnf.Lit{1})
	gs.AddClause(3, []cnf.Lit{2})
	gs.AddClause(4, []cnf.Lit{1, 2})
	gs.AddClause(5, []cnf.Lit{1, -1})

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

	return o, musstate.New(gs)
}

func TestRunReachesFixpointAndDropsSlack(t *testing.T) {
	o, st := buildPigeonholeWithSlack(t)
	item := &workitem.TrimGroupSet{}

	require.NoError(t, Run(o, st, item))

	assert.True(t, item.Completed())
	assert.Equal(t, workitem.TrimFixpoint, item.StoppedReason)
	assert.True(t, st.R(4), "subsumed slack group must be trimmed")
	assert.True(t, st.R(5), "tautological slack group must be trimmed")
	assert.False(t, st.R(1), "core group must survive trimming")
	assert.False(t, st.R(2), "core group must survive trimming")
	assert.False(t, st.R(3), "core group must survive trimming")
	assert.Contains(t, item.FinalCore, cnf.GID(1))
	assert.Contains(t, item.FinalCore, cnf.GID(2))
	assert.Contains(t, item.FinalCore, cnf.GID(3))
}

func TestRunStopsAtIterationCap(t *testing.T) {
	o, st := buildPigeonholeWithSlack(t)
	item := &workitem.TrimGroupSet{MaxIterations: 1}

	require.NoError(t, Run(o, st, item))

	assert.True(t, item.Completed())
	assert.Equal(t, workitem.TrimIterationCap, item.StoppedReason)
	assert.Equal(t, 1, item.IterationsRun)
}

func TestRunStopsAtRelReductionFloor(t *testing.T) {
	// The first iteration drops both slack groups (2 of 5 = 40%
	// reduction); a floor above that makes trim stop after one round,
	// before the second round that would detect the fixpoint.
	o, st := buildPigeonholeWithSlack(t)
	item := &workitem.TrimGroupSet{MinRelReduction: 0.5}

	require.NoError(t, Run(o, st, item))

	assert.True(t, item.Completed())
	assert.Equal(t, workitem.TrimRelReductionFloor, item.StoppedReason)
	assert.Equal(t, 1, item.IterationsRun)
}

func TestRunStopsOnSAT(t *testing.T) {
	gs := cnf.NewGroupSet()
	gs.AddClause(1, []cnf.Lit{1})
	gs.AddClause(2, []cnf.Lit{2})

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

	item := &workitem.TrimGroupSet{}
	require.NoError(t, Run(o, st, item))

	assert.True(t, item.Completed())
	assert.Equal(t, workitem.TrimSATObserved, item.StoppedReason)
	assert.Empty(t, st.RemovedIDs())
}

func TestCheckInitialUnsatReportsCore(t *testing.T) {
	o, _ := buildPigeonholeWithSlack(t)

	outcome, core := CheckInitialUnsat(o)

	assert.Equal(t, oracle.Unsat, outcome)
	assert.Contains(t, core, cnf.GID(1))
}

func TestCheckInitialUnsatOnSATInput(t *testing.T) {
	gs := cnf.NewGroupSet()
	gs.AddClause(1, []cnf.Lit{1})

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

	outcome, core := CheckInitialUnsat(o)

	assert.Equal(t, oracle.Sat, outcome)
	assert.Nil(t, core)
}
