package cnf

// litIndex maps a literal to a dense, zero-based slot for occurrence-list
// storage: variables are 1-based, literals signed, so 2*(v-1) is the
// positive slot and 2*(v-1)+1 is the negative slot.
func litIndex(l Lit) int {
	v := int(l.Var()) - 1
	if l.Positive() {
		return 2 * v
	}
	return 2*v + 1
}

// OccurrenceList tracks, for every literal, the clauses containing it. It
// may contain stale entries for clauses that have since been removed or
// shrunk past that literal; activeSize tracks the live count so callers
// can decide when a lazy compaction pass is worthwhile without scanning.
type OccurrenceList struct {
	clauses    [][]ClauseID // indexed by litIndex(l)
	activeSize []int        // live (non-removed) count per slot
}

// NewOccurrenceList allocates an occurrence list sized for maxVar
// variables.
func NewOccurrenceList(maxVar Var) *OccurrenceList {
	n := 2 * int(maxVar)
	return &OccurrenceList{
		clauses:    make([][]ClauseID, n),
		activeSize: make([]int, n),
	}
}

// grow extends the list to accommodate v if needed.
func (o *OccurrenceList) grow(v Var) {
	need := 2 * int(v)
	if need <= len(o.clauses) {
		return
	}
	grown := make([][]ClauseID, need)
	copy(grown, o.clauses)
	o.clauses = grown
	growna := make([]int, need)
	copy(growna, o.activeSize)
	o.activeSize = growna
}

// Add records that clause id contains literal l.
func (o *OccurrenceList) Add(l Lit, id ClauseID) {
	o.grow(l.Var())
	i := litIndex(l)
	o.clauses[i] = append(o.clauses[i], id)
	o.activeSize[i]++
}

// Remove lazily decrements the active count for l; the stale ClauseID
// entry is left in place until Compact is called.
func (o *OccurrenceList) Remove(l Lit) {
	i := litIndex(l)
	if i < len(o.activeSize) && o.activeSize[i] > 0 {
		o.activeSize[i]--
	}
}

// Of returns the (possibly stale) list of clause ids containing l.
func (o *OccurrenceList) Of(l Lit) []ClauseID {
	i := litIndex(l)
	if i >= len(o.clauses) {
		return nil
	}
	return o.clauses[i]
}

// ActiveLen returns the live-clause count for l, without scanning.
func (o *OccurrenceList) ActiveLen(l Lit) int {
	i := litIndex(l)
	if i >= len(o.activeSize) {
		return 0
	}
	return o.activeSize[i]
}

// Compact replaces the stored list for l with only the clauses that are
// still live, per the provided predicate. This is a mark-and-compact pass
// run outside of any traversal of the list (spec.md §9's
// iterator-aliasing redesign note): it never mutates the list while
// scanning it.
func (o *OccurrenceList) Compact(l Lit, live func(ClauseID) bool) {
	i := litIndex(l)
	if i >= len(o.clauses) {
		return
	}
	survivors := make([]ClauseID, 0, len(o.clauses[i]))
	for _, id := range o.clauses[i] {
		if live(id) {
			survivors = append(survivors, id)
		}
	}
	o.clauses[i] = survivors
	o.activeSize[i] = len(survivors)
}
