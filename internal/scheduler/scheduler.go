// Package scheduler orders the untested groups an extraction strategy
// works through and holds the fast-track queue model rotation feeds,
// matching spec.md's "Group Scheduler" component (ordering policy over
// candidate groups plus a fast-track queue for rotation output). The
// fast-track set is adapted from
// pkg/controller/registry/resolver/solver/solve.go's orderedLitSet: an
// insertion-ordered slice paired with an index map, giving O(1)
// membership checks; removal splices the slice and re-indexes the shifted
// tail, so it takes time linear in the queue length. Generalized from
// literals to group ids.
package scheduler

import (
	"math/rand"
	"sort"

	"github.com/mus-extract/gomus/internal/cnf"
)

// Order selects the ordering policy applied to the candidate group list,
// matching the CLI's `-order N` flag (spec.md §6).
type Order int

const (
	// OrderDefault walks groups in ascending group-id (input) order.
	OrderDefault Order = iota
	// OrderLongestFirst walks groups with the most clauses first.
	OrderLongestFirst
	// OrderShortestFirst walks groups with the fewest clauses first.
	OrderShortestFirst
	// OrderRandom walks groups in a fixed-seed random permutation, for
	// reproducible runs under a pinned seed.
	OrderRandom
	// OrderReverse walks groups in descending group-id order.
	OrderReverse
)

// Scheduler produces the ordered working vector an extraction strategy
// iterates and the fast-track queue model rotation feeds priority group
// ids into.
type Scheduler struct {
	order Order
	rng   *rand.Rand

	fastTrack *orderedGIDSet
}

// New returns a Scheduler using the given order and random seed (only
// consulted for OrderRandom; any value is harmless otherwise).
func New(order Order, seed int64) *Scheduler {
	return &Scheduler{
		order:     order,
		rng:       rand.New(rand.NewSource(seed)),
		fastTrack: newOrderedGIDSet(),
	}
}

// Order reports the scheduler's configured ordering policy.
func (s *Scheduler) Order() Order { return s.order }

// Arrange returns gids reordered per the scheduler's policy. sizeOf
// reports a group's live clause count, needed by the longest/shortest
// policies; it is ignored by the other three. The input slice is never
// mutated; Arrange returns a new slice.
func (s *Scheduler) Arrange(gids []cnf.GID, sizeOf func(cnf.GID) int) []cnf.GID {
	out := append([]cnf.GID(nil), gids...)

	switch s.order {
	case OrderDefault:
		sortGIDsStable(out, func(a, b cnf.GID) bool { return a < b })
	case OrderReverse:
		sortGIDsStable(out, func(a, b cnf.GID) bool { return a > b })
	case OrderLongestFirst:
		sortGIDsStable(out, func(a, b cnf.GID) bool { return sizeOf(a) > sizeOf(b) })
	case OrderShortestFirst:
		sortGIDsStable(out, func(a, b cnf.GID) bool { return sizeOf(a) < sizeOf(b) })
	case OrderRandom:
		s.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	}
	return out
}

// sortGIDsStable sorts gids in place by less, preserving the relative
// order of equal elements (ties in sizeOf keep their input order).
func sortGIDsStable(gids []cnf.GID, less func(a, b cnf.GID) bool) {
	sort.SliceStable(gids, func(i, j int) bool { return less(gids[i], gids[j]) })
}

// FastTrackPush records gids as worth checking next, per spec.md §4.5's
// ">1 new_gids" rotation outcome; duplicates are no-ops.
func (s *Scheduler) FastTrackPush(gids ...cnf.GID) {
	for _, gid := range gids {
		s.fastTrack.Add(gid)
	}
}

// FastTrackPop removes and returns the oldest pushed group id still
// pending, and whether one was available.
func (s *Scheduler) FastTrackPop() (cnf.GID, bool) {
	return s.fastTrack.PopFront()
}

// FastTrackLen reports how many group ids are currently queued.
func (s *Scheduler) FastTrackLen() int { return s.fastTrack.Len() }

// orderedGIDSet is an insertion-ordered slice paired with an index map,
// giving O(1) Contains; Remove splices the slice and re-indexes the
// shifted tail (linear time). Adapted from orderedLitSet (solve.go) with
// z.Lit generalized to cnf.GID.
type orderedGIDSet struct {
	indices map[cnf.GID]int
	gids    []cnf.GID
}

func newOrderedGIDSet() *orderedGIDSet {
	return &orderedGIDSet{indices: make(map[cnf.GID]int)}
}

func (s *orderedGIDSet) Add(g cnf.GID) {
	if s.Contains(g) {
		return
	}
	s.indices[g] = len(s.gids)
	s.gids = append(s.gids, g)
}

func (s *orderedGIDSet) Remove(g cnf.GID) {
	if index, ok := s.indices[g]; ok {
		s.gids = append(s.gids[:index], s.gids[index+1:]...)
		delete(s.indices, g)
		for i := index; i < len(s.gids); i++ {
			s.indices[s.gids[i]] = i
		}
	}
}

func (s *orderedGIDSet) Contains(g cnf.GID) bool {
	_, ok := s.indices[g]
	return ok
}

func (s *orderedGIDSet) Len() int { return len(s.gids) }

// PopFront removes and returns the earliest-pushed group id.
func (s *orderedGIDSet) PopFront() (cnf.GID, bool) {
	if len(s.gids) == 0 {
		return 0, false
	}
	g := s.gids[0]
	s.Remove(g)
	return g, true
}
