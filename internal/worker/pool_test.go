package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mus-extract/gomus/internal/cnf"
	"github.com/mus-extract/gomus/internal/musstate"
	"github.com/mus-extract/gomus/internal/oracle"
	"github.com/mus-extract/gomus/internal/workitem"
)

// buildIndependentGroups builds a formula where every non-background
// group contradicts a background unit on its own, so each one is
// removable while the others stay active, and the groups share no
// variables, so concurrently checking them in any order/interleaving
// yields the same per-group classification as running them one at a time.
func buildIndependentGroups(t *testing.T) *cnf.GroupSet {
	t.Helper()
	gs := cnf.NewGroupSet()
	gs.AddClause(cnf.Background, []cnf.Lit{1})
	gs.AddClause(cnf.Background, []cnf.Lit{3})
	gs.AddClause(cnf.Background, []cnf.Lit{5})
	gs.AddClause(1, []cnf.Lit{-1})
	gs.AddClause(2, []cnf.Lit{-3})
	gs.AddClause(3, []cnf.Lit{-5})
	return gs
}

func newOracleFor(t *testing.T, gs *cnf.GroupSet) func() oracle.Oracle {
	return func() oracle.Oracle {
		o := oracle.New(gs.MaxVar)
		o.AddGroup(cnf.Background, liveLitsFor(gs, cnf.Background), true)
		for _, gid := range gs.NonBackgroundGroupIDs() {
			o.AddGroup(gid, liveLitsFor(gs, gid), false)
		}
		require.NoError(t, o.Err())
		return o
	}
}

func liveLitsFor(gs *cnf.GroupSet, gid cnf.GID) [][]cnf.Lit {
	g := gs.Group(gid)
	if g == nil {
		return nil
	}
	var out [][]cnf.Lit
	for _, id := range g.Clauses {
		c := gs.Clause(id)
		if !c.Removed {
			out = append(out, c.Lits())
		}
	}
	return out
}

func TestPoolRunGroupChecksClassifiesEveryGroupConcurrently(t *testing.T) {
	gs := buildIndependentGroups(t)
	st := musstate.New(gs)
	pool := NewPool(st, gs, newOracleFor(t, gs), 3)

	items := []*workitem.CheckGroupStatus{
		{Group: 1},
		{Group: 2},
		{Group: 3},
	}
	require.NoError(t, pool.RunGroupChecks(items))

	for _, item := range items {
		assert.True(t, item.Completed())
		assert.Equal(t, workitem.OutcomeRemovable, item.Outcome, "the other two groups still contradict the background")
	}
}

func TestPoolDefaultsSizeToOneWhenNonPositive(t *testing.T) {
	gs := buildIndependentGroups(t)
	st := musstate.New(gs)
	pool := NewPool(st, gs, newOracleFor(t, gs), 0)
	assert.Equal(t, 1, pool.size)
}
