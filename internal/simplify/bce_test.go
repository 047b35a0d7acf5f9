package simplify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mus-extract/gomus/internal/cnf"
	"github.com/mus-extract/gomus/internal/workitem"
)

// TestRunBCEEliminatesBlockedClause builds three background clauses that
// all carry literal 2 while none carries -2: 2 is pure, so each clause is
// blocked on it (there is no clash to resolve against) and all three are
// eliminated, {1,2} included. ({1,2} is not blocked on literal 1: its
// resolvent with {-1,2} is {2}, not a tautology.)
func TestRunBCEEliminatesBlockedClause(t *testing.T) {
	gs := cnf.NewGroupSet()
	blocked := gs.AddClause(cnf.Background, []cnf.Lit{1, 2})
	gs.AddClause(cnf.Background, []cnf.Lit{-1, 2})
	gs.AddClause(cnf.Background, []cnf.Lit{-1, 2, 3})

	item := &workitem.SimplifyBCE{GroupMode: true}
	RunBCE(gs, item)

	assert.True(t, gs.Clause(blocked).Removed)
	assert.Equal(t, 3, item.ClausesEliminated)
}

func TestRunBCENonTautologicalResolventBlocksElimination(t *testing.T) {
	gs := cnf.NewGroupSet()
	candidate := gs.AddClause(cnf.Background, []cnf.Lit{1, 2})
	gs.AddClause(cnf.Background, []cnf.Lit{-1, 3})  // resolvent {2,3}: not a tautology
	gs.AddClause(cnf.Background, []cnf.Lit{-2, -3}) // keeps 2 and 3 from being pure; its resolvents are not tautologies either

	item := &workitem.SimplifyBCE{GroupMode: true}
	RunBCE(gs, item)

	assert.False(t, gs.Clause(candidate).Removed, "a non-tautological resolvent must block elimination")
	assert.Equal(t, 0, item.ClausesEliminated)
}

func TestRunBCEGroupModeSparesNonBackgroundClauses(t *testing.T) {
	gs := cnf.NewGroupSet()
	candidate := gs.AddClause(1, []cnf.Lit{1, 2})
	gs.AddClause(cnf.Background, []cnf.Lit{-1, 2})
	gs.AddClause(cnf.Background, []cnf.Lit{-1, 2, 3})

	item := &workitem.SimplifyBCE{GroupMode: true}
	RunBCE(gs, item)

	assert.False(t, gs.Clause(candidate).Removed, "non-background clauses must survive in group mode")
	// Only the two background clauses go: they are blocked on the pure literal 2.
	assert.Equal(t, 2, item.ClausesEliminated)
}

func TestTautResolventDetectsOppositePolarityClash(t *testing.T) {
	cand := cnf.NewClause(1, cnf.Background, []cnf.Lit{1, 2})
	clash := cnf.NewClause(2, cnf.Background, []cnf.Lit{-1, -2})

	assert.True(t, tautResolvent(cand, clash, 1))
}

func TestTautResolventFalseWhenNoClash(t *testing.T) {
	cand := cnf.NewClause(1, cnf.Background, []cnf.Lit{1, 2})
	clash := cnf.NewClause(2, cnf.Background, []cnf.Lit{-1, 3})

	assert.False(t, tautResolvent(cand, clash, 1))
}
