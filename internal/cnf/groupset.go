package cnf

import (
	"sort"
	"strconv"
)

// GroupSet is the top-level container for a CNF/GCNF formula: a dense,
// id-owned array of clauses plus the groups that partition them and the
// occurrence lists derived from them.
//
// Invariants (spec.md §3):
//   - each clause belongs to exactly one group;
//   - MaxVar is the largest variable of any clause ever added; removing
//     clauses does not lower it;
//   - MaxGID equals the largest group id ever assigned;
//   - clauses are uniquely identified by their sorted literal content (via
//     dedupeIndex) to support deduplication on creation.
type GroupSet struct {
	Clauses []*Clause      // dense, 1-based by ClauseID (index i holds id i+1)
	Groups  map[GID]*Group // group id -> group
	MaxVar  Var
	MaxGID  GID

	Occ *OccurrenceList

	dedupeIndex map[string]ClauseID // sorted-literal-content hash -> first clause with that content
}

// NewGroupSet returns an empty GroupSet.
func NewGroupSet() *GroupSet {
	return &GroupSet{
		Groups:      make(map[GID]*Group),
		Occ:         NewOccurrenceList(0),
		dedupeIndex: make(map[string]ClauseID),
	}
}

// contentKey renders a clause's *sorted* literal content as a dedupe key.
// Lits is already sorted by |literal| after NewClause's normalize pass.
func contentKey(lits []Lit) string {
	buf := make([]byte, 0, len(lits)*5)
	for _, l := range lits {
		buf = append(buf, byte(l), byte(l>>8), byte(l>>16), byte(l>>24), ',')
	}
	return string(buf)
}

// AddClause appends a new clause with the given literals to group gid,
// creating the group if it does not yet exist. It returns the existing
// clause id if an identical (same sorted literal content) clause was
// already present in the *same* group — duplicate clauses across
// different groups are tracked independently per spec.md §8's boundary
// behaviour ("Duplicate clauses across groups: each group's clauses are
// tracked independently").
func (gs *GroupSet) AddClause(gid GID, lits []Lit) ClauseID {
	id := ClauseID(len(gs.Clauses) + 1)
	c := NewClause(id, gid, lits)

	key := groupedContentKey(gid, c.Lits())
	if existing, ok := gs.dedupeIndex[key]; ok {
		return existing
	}

	gs.Clauses = append(gs.Clauses, c)
	gs.dedupeIndex[key] = id

	g, ok := gs.Groups[gid]
	if !ok {
		g = &Group{ID: gid}
		gs.Groups[gid] = g
	}
	g.Clauses = append(g.Clauses, id)
	if gid > gs.MaxGID {
		gs.MaxGID = gid
	}

	for _, l := range c.Lits() {
		if l.Var() > gs.MaxVar {
			gs.MaxVar = l.Var()
		}
		gs.Occ.Add(l, id)
	}
	return id
}

func groupedContentKey(gid GID, lits []Lit) string {
	return strconv.Itoa(int(gid)) + "|" + contentKey(lits)
}

// Clause returns the clause with the given id.
func (gs *GroupSet) Clause(id ClauseID) *Clause {
	return gs.Clauses[id-1]
}

// Group returns the group with the given id, or nil if absent.
func (gs *GroupSet) Group(gid GID) *Group {
	return gs.Groups[gid]
}

// GroupIDs returns every group id present, in ascending order.
func (gs *GroupSet) GroupIDs() []GID {
	ids := make([]GID, 0, len(gs.Groups))
	for gid := range gs.Groups {
		ids = append(ids, gid)
	}
	sortGIDs(ids)
	return ids
}

// NonBackgroundGroupIDs returns every group id other than Background, in
// ascending order — the candidate set for removal.
func (gs *GroupSet) NonBackgroundGroupIDs() []GID {
	ids := make([]GID, 0, len(gs.Groups))
	for gid := range gs.Groups {
		if gid != Background {
			ids = append(ids, gid)
		}
	}
	sortGIDs(ids)
	return ids
}

func sortGIDs(ids []GID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

// RemoveClause marks a clause removed (lazy deletion) and decrements the
// occurrence lists' active counts; the clause remains reachable through
// the occurrence lists until a later Compact pass.
func (gs *GroupSet) RemoveClause(id ClauseID) {
	c := gs.Clause(id)
	if c.Removed {
		return
	}
	c.Removed = true
	for _, l := range c.Lits() {
		gs.Occ.Remove(l)
	}
}

// RemoveGroup marks every clause of gid removed.
func (gs *GroupSet) RemoveGroup(gid GID) {
	g := gs.Group(gid)
	if g == nil {
		return
	}
	for _, id := range g.Clauses {
		gs.RemoveClause(id)
	}
}

// LiveClauseCount returns the number of non-removed clauses.
func (gs *GroupSet) LiveClauseCount() int {
	n := 0
	for _, c := range gs.Clauses {
		if !c.Removed {
			n++
		}
	}
	return n
}
