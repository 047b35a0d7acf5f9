package format

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mus-extract/gomus/internal/cnf"
)

func TestReadCNFAssignsClauseIDAsGroupID(t *testing.T) {
	in := strings.NewReader(`c a comment
p cnf 3 2
1 -2 0
2 3 0
`)
	gs, err := Read(in, ModeCNF)
	require.NoError(t, err)

	assert.Len(t, gs.Clauses, 2)
	assert.Equal(t, cnf.GID(1), gs.Clause(1).Group)
	assert.Equal(t, cnf.GID(2), gs.Clause(2).Group)
	assert.Equal(t, cnf.Var(3), gs.MaxVar)
}

func TestReadCNFRejectsUnterminatedClause(t *testing.T) {
	in := strings.NewReader("1 -2\n")
	_, err := Read(in, ModeCNF)
	require.Error(t, err)
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestReadGCNFParsesGroupPrefix(t *testing.T) {
	in := strings.NewReader(`p gcnf 3 3 2
{0} 1 0
{1} -1 2 0
{2} -2 3 0
`)
	gs, err := Read(in, ModeGCNF)
	require.NoError(t, err)

	require.Len(t, gs.Clauses, 3)
	assert.Equal(t, cnf.Background, gs.Clause(1).Group)
	assert.Equal(t, cnf.GID(1), gs.Clause(2).Group)
	assert.Equal(t, cnf.GID(2), gs.Clause(3).Group)
}

func TestReadVGCNFAssignsGroupByVariable(t *testing.T) {
	body := strings.NewReader(`-1 2 0
2 3 0
`)
	groups := strings.NewReader(`1 1
2 1
3 2
`)
	gs, err := ReadVGCNF(body, groups)
	require.NoError(t, err)

	require.Len(t, gs.Clauses, 2)
	assert.Equal(t, cnf.GID(1), gs.Clause(1).Group, "clause over vars 1,2 (both group 1) takes group 1")
	assert.Equal(t, cnf.Background, gs.Clause(2).Group, "clause mixing group 1 and 2 vars falls back to background")
}

func TestWriteCNFOmitsRemovedClausesAndGroups(t *testing.T) {
	gs := cnf.NewGroupSet()
	gs.AddClause(1, []cnf.Lit{1, 2})
	removed := gs.AddClause(2, []cnf.Lit{-1, 3})
	gs.RemoveClause(removed)

	var buf bytes.Buffer
	require.NoError(t, WriteCNF(&buf, gs))

	out := buf.String()
	assert.Contains(t, out, "p cnf 3 1\n")
	assert.Contains(t, out, "1 2 0")
	assert.NotContains(t, out, "-1 3 0")
}

func TestWriteGCNFPreservesGroupsAndOmitsRemoved(t *testing.T) {
	gs := cnf.NewGroupSet()
	gs.AddClause(cnf.Background, []cnf.Lit{1})
	live := gs.AddClause(5, []cnf.Lit{2, 3})
	dead := gs.AddClause(7, []cnf.Lit{-2})
	gs.RemoveClause(dead)

	var buf bytes.Buffer
	require.NoError(t, WriteGCNF(&buf, gs))

	out := buf.String()
	assert.Contains(t, out, "{0} 1 0")
	assert.Contains(t, out, "{5} 2 3 0")
	assert.NotContains(t, out, "{7}")
	_ = live
}

func TestWriteCompetitionFormatsUnsatAndSat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCompetition(&buf, []cnf.GID{3, 1, 2}, false))
	assert.Equal(t, "s UNSATISFIABLE\nv 1 2 3 0\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteCompetition(&buf, nil, true))
	assert.Equal(t, "s SATISFIABLE\nv 0\n", buf.String())
}

func TestWriteCNFPartitionedSeparatesNecessaryFromUncertain(t *testing.T) {
	gs := cnf.NewGroupSet()
	gs.AddClause(cnf.Background, []cnf.Lit{1})
	gs.AddClause(1, []cnf.Lit{2})
	gs.AddClause(2, []cnf.Lit{3})

	var buf bytes.Buffer
	require.NoError(t, WriteCNFPartitioned(&buf, gs, map[cnf.GID]bool{1: true}))

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.True(t, len(lines) >= 4)
	assert.Contains(t, out, "{0} 1 0")
	assert.Contains(t, out, "{0} 2 0", "necessary group 1's clause is folded into group 0")
	assert.Contains(t, out, "{1} 3 0", "uncertain group 2 is renumbered starting at 1")
}
