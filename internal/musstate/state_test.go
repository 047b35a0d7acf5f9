package musstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mus-extract/gomus/internal/cnf"
)

func newTestGroupSet() *cnf.GroupSet {
	gs := cnf.NewGroupSet()
	gs.AddClause(1, []cnf.Lit{1, 2})
	gs.AddClause(2, []cnf.Lit{-1})
	gs.AddClause(3, []cnf.Lit{-2})
	return gs
}

func TestNewStateStartsAllUntested(t *testing.T) {
	s := New(newTestGroupSet())
	for _, gid := range []cnf.GID{1, 2, 3} {
		assert.True(t, s.Untested(gid))
		assert.False(t, s.Nec(gid))
		assert.False(t, s.R(gid))
	}
	assert.Equal(t, 3, s.RealGSize())
}

func TestMarkNecessaryTransition(t *testing.T) {
	s := New(newTestGroupSet())
	s.MarkNecessary(2)
	assert.True(t, s.Nec(2))
	assert.False(t, s.Untested(2))
	assert.Contains(t, s.NecessaryIDs(), cnf.GID(2))
	assert.Contains(t, s.DrainFinalizedLog(), cnf.GID(2))
}

func TestMarkRemovedTransitionBumpsVersion(t *testing.T) {
	s := New(newTestGroupSet())
	before := s.Version()
	s.MarkRemoved(3)
	assert.True(t, s.R(3))
	assert.Equal(t, 2, s.RealGSize())
	assert.Greater(t, s.Version(), before)
	assert.Contains(t, s.DrainRemovedLog(), cnf.GID(3))
}

func TestMarkRemovedIsIdempotent(t *testing.T) {
	s := New(newTestGroupSet())
	s.MarkRemoved(3)
	v := s.Version()
	s.MarkRemoved(3)
	assert.Equal(t, v, s.Version(), "re-removing an already-removed group must not bump version again")
}

func TestConservationPanicsOnContradictoryTransition(t *testing.T) {
	s := New(newTestGroupSet())
	s.MarkNecessary(1)
	assert.Panics(t, func() { s.MarkRemoved(1) })

	s2 := New(newTestGroupSet())
	s2.MarkRemoved(1)
	assert.Panics(t, func() { s2.MarkNecessary(1) })
}

func TestPotNecessaryDisjointFromNecessary(t *testing.T) {
	s := New(newTestGroupSet())
	s.MarkPotNecessary(1)
	assert.True(t, s.PotNecessary(1))

	s.MarkNecessary(1)
	assert.False(t, s.PotNecessary(1), "becoming Necessary must clear the pot_necessary hypothesis")
}

func TestDrainListsClearAfterRead(t *testing.T) {
	s := New(newTestGroupSet())
	s.MarkRemoved(1)
	s.MarkNecessary(2)
	require.Len(t, s.DrainRemovedLog(), 1)
	require.Len(t, s.DrainFinalizedLog(), 1)
	assert.Empty(t, s.DrainRemovedLog())
	assert.Empty(t, s.DrainFinalizedLog())
}

func TestClearListsDropsBothLogsWithoutAffectingStatus(t *testing.T) {
	s := New(newTestGroupSet())
	s.MarkRemoved(1)
	s.ClearLists()
	assert.Empty(t, s.DrainRemovedLog())
	assert.True(t, s.R(1), "clearing the logs must not revert status")
}
