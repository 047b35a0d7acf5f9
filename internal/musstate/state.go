// Package musstate implements the MUS-State database (spec.md §3/§4.2):
// the authoritative classification of every group into untested,
// necessary, removed, or (approximately) pot_necessary, plus the
// r_list/f_list delta logs the Oracle Adapter consumes to stay in sync.
package musstate

import (
	"sync"

	"github.com/mus-extract/gomus/internal/cnf"
)

// Status is a group's classification within the MUS-State lifecycle.
// Transitions are untested -> necessary (terminal) and
// untested -> removed (terminal): once set, a group's status never
// changes again, matching spec.md §3's lifecycle and §8's Conservation
// invariant ("no removed group ever re-enters M; no necessary group ever
// becomes removed").
type Status int

const (
	Untested Status = iota
	Necessary
	Removed
)

// State is the mutable ground truth shared by the Worker, Refinement,
// Model Rotation, and every Strategy. A sync.RWMutex is carried per
// spec.md §5 ("MUS-State may be locked for reading or for writing"); the
// canonical single-threaded build never contends on it, but the ambient
// worker pool (SPEC_FULL.md §5) does.
type State struct {
	mu sync.RWMutex

	status map[cnf.GID]Status

	// potNecessary holds groups hypothesized necessary by an
	// approximation (e.g. an Unknown oracle outcome treated as
	// over-approximation); disjoint from Necessary.
	potNecessary map[cnf.GID]bool

	// rList and fList are append-front logs of the most recent removals
	// and finalisations, walked head-to-tail by the Oracle Adapter's sync
	// procedure (spec.md §4.7) until it reaches an entry already applied.
	rList []cnf.GID
	fList []cnf.GID

	// version increments on every state-altering transition that removes
	// a group, so a Work Item computed against a stale snapshot can be
	// detected and re-issued (spec.md §3's "version" field).
	version uint64
}

// New returns a State with every group in gs initialized to Untested.
func New(gs *cnf.GroupSet) *State {
	s := &State{
		status:       make(map[cnf.GID]Status, len(gs.Groups)),
		potNecessary: make(map[cnf.GID]bool),
	}
	for gid := range gs.Groups {
		s.status[gid] = Untested
	}
	return s
}

// Version returns the current version counter.
func (s *State) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Lock/Unlock/RLock/RUnlock expose the advisory reader-writer lock
// directly so a Work Item can "acquire read lock on MUS-State ... release
// before invoking the Oracle ... re-acquire write lock to publish
// results" exactly as spec.md §4.3/§5 describe, without State needing to
// know about Work Items.
func (s *State) Lock()    { s.mu.Lock() }
func (s *State) Unlock()  { s.mu.Unlock() }
func (s *State) RLock()   { s.mu.RLock() }
func (s *State) RUnlock() { s.mu.RUnlock() }

// MarkNecessary transitions gid to Necessary. Calling it on an already
// Removed group is a caller bug (violates Conservation) and panics rather
// than silently corrupting state, since spec.md treats that invariant as
// load-bearing, not advisory.
func (s *State) MarkNecessary(gid cnf.GID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status[gid] == Removed {
		panic("musstate: group already removed cannot become necessary")
	}
	s.status[gid] = Necessary
	s.fList = append([]cnf.GID{gid}, s.fList...)
	delete(s.potNecessary, gid)
}

// MarkRemoved transitions gid to Removed and bumps the version counter,
// since removal is the transition work items must detect as making their
// snapshot stale.
func (s *State) MarkRemoved(gid cnf.GID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status[gid] == Necessary {
		panic("musstate: group already necessary cannot become removed")
	}
	if s.status[gid] == Removed {
		return
	}
	s.status[gid] = Removed
	s.rList = append([]cnf.GID{gid}, s.rList...)
	s.version++
}

// MarkPotNecessary records gid as hypothesized necessary by
// approximation, without moving it out of Untested — spec.md §3 keeps
// pot_necessary disjoint from Necessary.
func (s *State) MarkPotNecessary(gid cnf.GID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status[gid] == Untested {
		s.potNecessary[gid] = true
	}
}

// Nec reports whether gid is classified Necessary.
func (s *State) Nec(gid cnf.GID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status[gid] == Necessary
}

// R reports whether gid is classified Removed.
func (s *State) R(gid cnf.GID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status[gid] == Removed
}

// Untested reports whether gid is still Untested.
func (s *State) Untested(gid cnf.GID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status[gid] == Untested
}

// PotNecessary reports whether gid has been hypothesized necessary by
// approximation.
func (s *State) PotNecessary(gid cnf.GID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.potNecessary[gid]
}

// NecessaryIDs returns every group currently classified Necessary.
func (s *State) NecessaryIDs() []cnf.GID {
	return s.idsWithStatus(Necessary)
}

// RemovedIDs returns every group currently classified Removed.
func (s *State) RemovedIDs() []cnf.GID {
	return s.idsWithStatus(Removed)
}

// UntestedIDs returns every group currently classified Untested.
func (s *State) UntestedIDs() []cnf.GID {
	return s.idsWithStatus(Untested)
}

func (s *State) idsWithStatus(want Status) []cnf.GID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []cnf.GID
	for gid, st := range s.status {
		if st == want {
			ids = append(ids, gid)
		}
	}
	return ids
}

// RealGSize returns the number of groups still in Untested or Necessary —
// the "real" size of the group set still under consideration, excluding
// groups already proven removable.
func (s *State) RealGSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, st := range s.status {
		if st != Removed {
			n++
		}
	}
	return n
}

// DrainRemovedLog returns the current r_list (most recent first) and
// clears it, for a single-threaded strategy consuming it directly instead
// of through the Oracle Adapter's sync procedure.
func (s *State) DrainRemovedLog() []cnf.GID {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.rList
	s.rList = nil
	return l
}

// DrainFinalizedLog returns the current f_list (most recent first) and
// clears it.
func (s *State) DrainFinalizedLog() []cnf.GID {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.fList
	s.fList = nil
	return l
}

// ClearLists clears r_list and f_list without returning them, for
// strategies operating in single-threaded mode that have already
// synchronized the Oracle Adapter by other means (spec.md §3).
func (s *State) ClearLists() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rList = nil
	s.fList = nil
}
