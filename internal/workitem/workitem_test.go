package workitem

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mus-extract/gomus/internal/cnf"
)

func TestCheckGroupStatusResetClearsResultsNotParameters(t *testing.T) {
	w := &CheckGroupStatus{Group: 7, WantModel: true}
	w.Outcome = OutcomeNecessary
	w.Model = map[cnf.Var]bool{1: true}
	w.Core = map[cnf.GID]bool{2: true}
	w.Tainted = true
	w.UnnecGIDs = []cnf.GID{7, 9}
	w.SetCompleted()

	w.Reset()

	assert.Equal(t, cnf.GID(7), w.Group, "parameters must survive Reset")
	assert.True(t, w.WantModel)
	assert.Equal(t, OutcomeUnknown, w.Outcome)
	assert.Nil(t, w.Model)
	assert.Nil(t, w.Core)
	assert.False(t, w.Tainted)
	assert.Nil(t, w.UnnecGIDs)
	assert.False(t, w.Completed())
}

func TestTrimGroupSetResetClearsRunState(t *testing.T) {
	w := &TrimGroupSet{MaxIterations: 10}
	w.IterationsRun = 4
	w.FinalCore = map[cnf.GID]bool{1: true}
	w.StoppedReason = TrimFixpoint
	w.SetCompleted()

	w.Reset()

	assert.Equal(t, 10, w.MaxIterations)
	assert.Equal(t, 0, w.IterationsRun)
	assert.Nil(t, w.FinalCore)
	assert.Equal(t, TrimNotRun, w.StoppedReason)
}

func TestRotateModelResetClearsFindings(t *testing.T) {
	w := &RotateModel{Group: 3, MaxDepth: 2}
	w.FoundNecessary = []cnf.GID{4, 5}
	w.FastTrack = []cnf.GID{6}

	w.Reset()

	assert.Equal(t, cnf.GID(3), w.Group)
	assert.Equal(t, 2, w.MaxDepth)
	assert.Nil(t, w.FoundNecessary)
	assert.Nil(t, w.FastTrack)
}

func TestSimplifyItemsResetCounters(t *testing.T) {
	bcp := &SimplifyBCP{}
	bcp.UnitsPropagated = 3
	bcp.ClausesRemoved = 2
	bcp.Reset()
	assert.Equal(t, 0, bcp.UnitsPropagated)
	assert.Equal(t, 0, bcp.ClausesRemoved)

	bce := &SimplifyBCE{}
	bce.ClausesEliminated = 5
	bce.Reset()
	assert.Equal(t, 0, bce.ClausesEliminated)

	ve := &SimplifyVE{FrozenVars: []cnf.Var{1, 2}}
	ve.VarsEliminated = 9
	ve.Reset()
	assert.Equal(t, 0, ve.VarsEliminated)
	assert.Equal(t, []cnf.Var{1, 2}, ve.FrozenVars, "parameters must survive Reset")
}

func TestCompletedFlagLifecycle(t *testing.T) {
	w := &CheckUnsat{}
	assert.False(t, w.Completed())
	w.SetCompleted()
	assert.True(t, w.Completed())
	w.Reset()
	assert.False(t, w.Completed())
}
