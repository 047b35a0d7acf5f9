package cnf

import "testing"

func TestAddClauseDedupesWithinGroup(t *testing.T) {
	gs := NewGroupSet()
	id1 := gs.AddClause(1, []Lit{1, 2})
	id2 := gs.AddClause(1, []Lit{2, 1}) // same content, different order
	if id1 != id2 {
		t.Fatalf("expected duplicate clause within a group to be deduped, got %d and %d", id1, id2)
	}
	if got, want := gs.Group(1).Size(), 1; got != want {
		t.Fatalf("group size = %d, want %d", got, want)
	}
}

func TestAddClauseTracksDuplicatesAcrossGroupsIndependently(t *testing.T) {
	gs := NewGroupSet()
	id1 := gs.AddClause(1, []Lit{1, 2})
	id2 := gs.AddClause(2, []Lit{1, 2})
	if id1 == id2 {
		t.Fatalf("expected identical clauses in different groups to be tracked independently")
	}
	gs.RemoveClause(id1)
	if gs.Clause(id2).Removed {
		t.Fatalf("removing one group's duplicate must not affect the other group's clause")
	}
}

func TestMaxVarAndMaxGID(t *testing.T) {
	gs := NewGroupSet()
	gs.AddClause(3, []Lit{1, -5})
	gs.AddClause(1, []Lit{2})
	if got, want := gs.MaxVar, Var(5); got != want {
		t.Fatalf("MaxVar = %d, want %d", got, want)
	}
	if got, want := gs.MaxGID, GID(3); got != want {
		t.Fatalf("MaxGID = %d, want %d", got, want)
	}
}

func TestOccurrenceListCompact(t *testing.T) {
	gs := NewGroupSet()
	id1 := gs.AddClause(1, []Lit{1})
	id2 := gs.AddClause(1, []Lit{1, 2})
	gs.RemoveClause(id1)
	if got, want := gs.Occ.ActiveLen(1), 1; got != want {
		t.Fatalf("ActiveLen(1) = %d, want %d", got, want)
	}
	gs.Occ.Compact(1, func(id ClauseID) bool { return !gs.Clause(id).Removed })
	occ := gs.Occ.Of(1)
	if len(occ) != 1 || occ[0] != id2 {
		t.Fatalf("Compact(1) = %v, want only [%d]", occ, id2)
	}
}

func TestGroupActive(t *testing.T) {
	gs := NewGroupSet()
	id := gs.AddClause(1, []Lit{1})
	g := gs.Group(1)
	if !g.Active(gs.Clauses) {
		t.Fatalf("group with a live clause must be active")
	}
	gs.RemoveClause(id)
	if g.Active(gs.Clauses) {
		t.Fatalf("group with only removed clauses must not be active")
	}
}
