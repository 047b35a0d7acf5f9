package simplify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mus-extract/gomus/internal/cnf"
	"github.com/mus-extract/gomus/internal/workitem"
)

func TestRunBCPPropagatesBackgroundUnitsAndDropsSatisfiedClauses(t *testing.T) {
	gs := cnf.NewGroupSet()
	gs.AddClause(cnf.Background, []cnf.Lit{1})          // forces x1
	gs.AddClause(cnf.Background, []cnf.Lit{-1, 2})       // forces x2
	g1 := gs.AddClause(1, []cnf.Lit{1, 3})               // satisfied by x1
	g1b := gs.AddClause(1, []cnf.Lit{-1, -2, 4})         // shrinks to {-2,4}, then to {4}
	g2 := gs.AddClause(2, []cnf.Lit{-2, 5})              // shrinks to {5}, never propagated (not background)

	item := &workitem.SimplifyBCP{GroupMode: true}
	RunBCP(gs, item)

	require.True(t, item.Completed())
	assert.False(t, item.Conflict)
	assert.True(t, gs.Clause(g1).Removed, "g1's first clause is satisfied by x1=true")
	assert.False(t, gs.Clause(g1b).Removed, "g1's second clause survives, shrunk")
	assert.Equal(t, 1, gs.Clause(g1b).Len())
	assert.Equal(t, cnf.Lit(4), gs.Clause(g1b).Get(0))
	assert.False(t, gs.Clause(g2).Removed, "g2 survives but is shrunk by -2 being false")
	assert.Equal(t, 1, gs.Clause(g2).Len())
	assert.Equal(t, cnf.Lit(5), gs.Clause(g2).Get(0))
	assert.GreaterOrEqual(t, item.UnitsPropagated, 2)
}

func TestRunBCPGroupModeNeverPropagatesNonBackgroundUnits(t *testing.T) {
	gs := cnf.NewGroupSet()
	gs.AddClause(1, []cnf.Lit{7}) // a non-background unit clause
	other := gs.AddClause(2, []cnf.Lit{-7, 9})

	item := &workitem.SimplifyBCP{GroupMode: true}
	RunBCP(gs, item)

	require.True(t, item.Completed())
	assert.Equal(t, 0, item.UnitsPropagated, "non-background unit must not seed propagation in group mode")
	assert.False(t, gs.Clause(other).Removed)
	assert.Equal(t, 2, gs.Clause(other).Len())
}

func TestRunBCPDetectsBackgroundConflict(t *testing.T) {
	gs := cnf.NewGroupSet()
	gs.AddClause(cnf.Background, []cnf.Lit{1})
	c2 := gs.AddClause(cnf.Background, []cnf.Lit{-1}) // clashes with x1, already forced by {1}

	item := &workitem.SimplifyBCP{GroupMode: true}
	RunBCP(gs, item)

	require.True(t, item.Completed())
	assert.True(t, item.Conflict)
	assert.Equal(t, gs.Clause(c2).ID, item.ConflictClause)
}

func TestRunBCPNonGroupModePropagatesEverything(t *testing.T) {
	gs := cnf.NewGroupSet()
	gs.AddClause(1, []cnf.Lit{1})
	g2 := gs.AddClause(2, []cnf.Lit{-1, 3})

	item := &workitem.SimplifyBCP{GroupMode: false}
	RunBCP(gs, item)

	require.True(t, item.Completed())
	assert.True(t, gs.Clause(g2).Removed, "g2 shrinks to the unit {3}, which is propagated in turn and satisfies it")
	assert.Equal(t, 1, gs.Clause(g2).Len())
	assert.Equal(t, cnf.Lit(3), gs.Clause(g2).Get(0))
}
