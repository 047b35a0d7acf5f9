package cnf

// Group is a label plus the set of clause ids bearing that label. Group 0
// (Background) is never a candidate for removal and is always "final" in
// the Oracle Adapter.
type Group struct {
	ID      GID
	Clauses []ClauseID // ids of clauses with Group == ID
}

// Active reports whether at least one of the group's clauses is not
// removed.
func (g *Group) Active(clauses []*Clause) bool {
	for _, id := range g.Clauses {
		if !clauses[id-1].Removed {
			return true
		}
	}
	return false
}

// Size returns the number of clauses currently (not lazily) accounted to
// the group, including removed ones; callers wanting only live clauses
// should filter via Active/clause.Removed.
func (g *Group) Size() int {
	return len(g.Clauses)
}
