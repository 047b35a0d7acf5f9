package cnf

import (
	"sort"
	"strings"
)

// ClauseID is a stable, dense, 1-based index assigned in input order.
type ClauseID int

// abstraction is a 64-bit bitmask over literal hashes, used as a cheap
// pre-filter for subsumption and tautology checks: if c1's abstraction is
// not a subset of c2's, c1 cannot subsume c2.
type abstraction uint64

func litAbstraction(l Lit) abstraction {
	// Fold the variable into 6 bits so the abstraction saturates gracefully
	// on large-variable problems instead of degenerating to a single bit.
	return abstraction(1) << uint(l.Var()%64)
}

// Clause is an ordered, deduplicated sequence of literals belonging to
// exactly one Group. Clauses are owned by a GroupSet's dense array and
// referenced elsewhere by ClauseID, never by pointer identity across
// packages (spec.md §9's index-based-ownership redesign note).
type Clause struct {
	ID     ClauseID
	Group  GID
	lits   []Lit // physical storage; literals beyond activeSize are shrunk off
	active int   // active size: literals[:active] are logically present

	Removed bool // lazy deletion: clause stays reachable until compaction

	abs   abstraction
	dirty bool // true if lits may not be sorted by |literal|

	// Rotation/traversal bookkeeping (spec.md §3).
	VisitGen     uint64
	IncomingLit  Lit
	IncomingFrom ClauseID
}

// NewClause builds a Clause from a deduplicated, unsorted literal slice.
func NewClause(id ClauseID, group GID, lits []Lit) *Clause {
	c := &Clause{
		ID:     id,
		Group:  group,
		lits:   append([]Lit(nil), lits...),
		active: len(lits),
		dirty:  true,
	}
	c.normalize()
	return c
}

// normalize deduplicates and sorts the active literals by |literal|,
// recomputing the abstraction. Idempotent: calling it twice in a row is a
// no-op the second time (the dirty flag guards re-sorting).
func (c *Clause) normalize() {
	if !c.dirty {
		return
	}
	seen := make(map[Lit]bool, c.active)
	out := c.lits[:0:0]
	for _, l := range c.lits[:c.active] {
		if seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		return abs32(out[i]) < abs32(out[j])
	})
	tail := c.lits[c.active:]
	c.active = len(out)
	c.lits = append(out, tail...)
	c.abs = 0
	for _, l := range out {
		c.abs |= litAbstraction(l)
	}
	c.dirty = false
}

func abs32(l Lit) Lit {
	if l < 0 {
		return -l
	}
	return l
}

// Len returns the active size of the clause (logical length, ignoring
// literals shrunk off the tail by BCP).
func (c *Clause) Len() int {
	c.normalize()
	return c.active
}

// FullLen returns the physically allocated length, including any literals
// shrunk off by BCP but not yet reclaimed.
func (c *Clause) FullLen() int {
	return len(c.lits)
}

// Get returns the i-th active literal.
func (c *Clause) Get(i int) Lit {
	c.normalize()
	return c.lits[i]
}

// Lits returns the active literal slice. Callers must not retain or mutate
// it past the next mutating call on c.
func (c *Clause) Lits() []Lit {
	c.normalize()
	return c.lits[:c.active]
}

// Has reports whether l is currently an active literal of the clause.
// Occurrence-list lookups are lazily stale (spec.md §9's deferred-
// compaction design), so a caller walking OccurrenceList.Of(l) must
// re-confirm membership with Has before treating the clause as a live
// occurrence of l.
func (c *Clause) Has(l Lit) bool {
	for _, x := range c.Lits() {
		if x == l {
			return true
		}
	}
	return false
}

// First returns the clause's sole literal; callers must ensure Len() == 1.
func (c *Clause) First() Lit {
	return c.Get(0)
}

// Shrink logically truncates the clause to n active literals without
// physically deallocating the tail (used by unit propagation/BCP so the
// removed literals remain available for solution reconstruction).
func (c *Clause) Shrink(n int) {
	if n < c.active {
		c.active = n
		c.dirty = true
	}
}

// RemoveLit logically removes literal l from the clause's active prefix
// by swapping it to the tail and shrinking by one, the same in-place
// shrink Shrink(n) performs — falsified literals move past the active
// boundary rather than being physically deallocated, so a later solution
// reconstruction pass can still reach them via FullLen/Get. Reports
// whether l was found active.
func (c *Clause) RemoveLit(l Lit) bool {
	c.normalize()
	for i := 0; i < c.active; i++ {
		if c.lits[i] == l {
			c.lits[i], c.lits[c.active-1] = c.lits[c.active-1], c.lits[i]
			c.active--
			c.dirty = true
			return true
		}
	}
	return false
}

// Abstraction returns the clause's subsumption pre-filter bitmask.
func (c *Clause) Abstraction() abstraction {
	c.normalize()
	return c.abs
}

// SubsumesFast reports whether c's abstraction is compatible with
// subsuming other; a false result is conclusive, a true result requires
// the caller to fall back to the exact Subsumes check.
func (c *Clause) SubsumesFast(other *Clause) bool {
	return c.Abstraction()&^other.Abstraction() == 0
}

// Subsumes reports whether every literal of c also appears in other,
// i.e. c ⊆ other as sets of literals.
func (c *Clause) Subsumes(other *Clause) bool {
	if c.Len() > other.Len() || !c.SubsumesFast(other) {
		return false
	}
	set := make(map[Lit]bool, other.Len())
	for _, l := range other.Lits() {
		set[l] = true
	}
	for _, l := range c.Lits() {
		if !set[l] {
			return false
		}
	}
	return true
}

// String renders the clause in DIMACS form, terminated by "0".
func (c *Clause) String() string {
	parts := make([]string, 0, c.Len()+1)
	for _, l := range c.Lits() {
		parts = append(parts, l.String())
	}
	parts = append(parts, "0")
	return strings.Join(parts, " ")
}
