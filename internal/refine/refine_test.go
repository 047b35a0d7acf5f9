package refine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mus-extract/gomus/internal/cnf"
	"github.com/mus-extract/gomus/internal/musstate"
)

func TestCandidatesExcludesCoreAndRRGroup(t *testing.T) {
	core := map[cnf.GID]bool{1: true, 2: true}
	untested := []cnf.GID{1, 2, 3, 4}
	got := Candidates(core, untested, 4, true)
	assert.ElementsMatch(t, []cnf.GID{3}, got)
}

func TestCandidatesKeepsRRGroupWhenNotUsed(t *testing.T) {
	core := map[cnf.GID]bool{1: true}
	untested := []cnf.GID{1, 2}
	got := Candidates(core, untested, 0, false)
	assert.ElementsMatch(t, []cnf.GID{2}, got)
}

func TestTaintedReportsRROnlyWhenUsed(t *testing.T) {
	core := map[cnf.GID]bool{5: true}
	assert.True(t, Tainted(core, 5, true))
	assert.False(t, Tainted(core, 5, false))
	assert.False(t, Tainted(map[cnf.GID]bool{1: true}, 5, true))
}

func TestApplyMarksEveryCandidateRemoved(t *testing.T) {
	gs := cnf.NewGroupSet()
	gs.AddClause(1, []cnf.Lit{1})
	gs.AddClause(2, []cnf.Lit{2})
	st := musstate.New(gs)

	Apply(st, []cnf.GID{1, 2})
	assert.True(t, st.R(1))
	assert.True(t, st.R(2))
}
