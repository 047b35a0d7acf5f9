package rotate

import (
	"sort"

	"github.com/mitchellh/hashstructure"

	"github.com/mus-extract/gomus/internal/cnf"
	"github.com/mus-extract/gomus/internal/workitem"
)

// varHashBit folds v into a pseudo-random 64-bit mask via splitmix64's
// finalizer, used to build a rotation-insensitive xor-fold assignment
// hash: toggling one variable toggles exactly one set of bits, so flip
// and unflip are both O(1) rather than re-hashing the whole assignment.
func varHashBit(v cnf.Var) uint64 {
	x := uint64(v) * 0x9E3779B97F4A7C15
	x ^= x >> 32
	x *= 0xBF58476D1CE4E5B9
	x ^= x >> 29
	return x
}

func initialAssHash(m Model) uint64 {
	var h uint64
	for v, b := range m {
		if b {
			h ^= varHashBit(v)
		}
	}
	return h
}

func flipAssHash(h uint64, v cnf.Var) uint64 { return h ^ varHashBit(v) }

// gidsKey hashes a group-id set into a stable map key via the pack's
// hashstructure library, replacing a hand-rolled sorted-id string key.
func gidsKey(gids map[cnf.GID]bool) uint64 {
	ids := make([]cnf.GID, 0, len(gids))
	for g := range gids {
		ids = append(ids, g)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	h, _ := hashstructure.Hash(ids, nil)
	return h
}

// allowToRotate implements extended_model_rotator.cc's allow_to_rotate:
// refuse a group-set wider than width, refuse an assignment already
// recorded against that group-set, and (when depth is bounded) refuse
// once that group-set has accumulated depth or more distinguishing
// assignments.
func allowToRotate(key uint64, assHash uint64, depth, width, size int, visited map[uint64]map[uint64]bool) bool {
	if width > 0 && size > width {
		return false
	}
	s, ok := visited[key]
	if !ok {
		return true
	}
	if s[assHash] {
		return false
	}
	if depth > 0 && len(s) > depth-1 {
		return false
	}
	return true
}

type emrQueueEntry struct {
	gids  map[cnf.GID]bool
	delta []cnf.Var
}

// RunEMR performs extended model rotation: it rotates through sets of
// jointly-falsified groups up to item.MaxWidth wide, deduplicating
// (group-set, assignment) pairs it has already explored up to
// item.MaxDepth distinguishing assignments per group-set, per spec.md
// §4.5's "Extended variant". Singleton group-sets discovered along the
// way are recorded as necessary. Grounded on extended_model_rotator.cc's
// process(RotateModel&).
func RunEMR(gs *cnf.GroupSet, item *workitem.RotateModel) {
	width := item.MaxWidth
	depth := item.MaxDepth

	model := cloneModel(item.Model)
	assHash := initialAssHash(model)

	visited := make(map[uint64]map[uint64]bool)
	found := make(map[cnf.GID]bool)

	queue := []emrQueueEntry{{gids: map[cnf.GID]bool{item.Group: true}}}

	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]

		for _, v := range e.delta {
			flip(model, v)
			assHash = flipAssHash(assHash, v)
		}

		key := gidsKey(e.gids)
		if allowToRotate(key, assHash, depth, width, len(e.gids), visited) {
			var fClauses []*cnf.Clause
			candVars := make(map[cnf.Var]bool)
			for gid := range e.gids {
				for _, c := range liveClauses(gs, gid) {
					if falsified(model, c) {
						fClauses = append(fClauses, c)
						for i := 0; i < c.Len(); i++ {
							candVars[c.Get(i).Var()] = true
						}
					}
				}
			}

			for v := range candVars {
				lit := cnf.LitOf(v, model[v])
				flip(model, v)
				assHash = flipAssHash(assHash, v)

				newGIDs := make(map[cnf.GID]bool)
				for _, c := range fClauses {
					if falsified(model, c) {
						newGIDs[c.Group] = true
					}
				}
				if width == 0 || len(newGIDs) <= width {
					for _, id := range gs.Occ.Of(lit) {
						c := gs.Clause(id)
						if c.Removed {
							continue
						}
						if falsified(model, c) {
							newGIDs[c.Group] = true
							if width > 0 && len(newGIDs) > width {
								break
							}
						}
					}
				}

				if allowToRotate(gidsKey(newGIDs), assHash, depth, width, len(newGIDs), visited) {
					delta := append(append([]cnf.Var(nil), e.delta...), v)
					queue = append(queue, emrQueueEntry{gids: newGIDs, delta: delta})
				}

				flip(model, v)
				assHash = flipAssHash(assHash, v)
			}

			if visited[key] == nil {
				visited[key] = make(map[uint64]bool)
			}
			visited[key][assHash] = true

			if len(e.gids) == 1 {
				for g := range e.gids {
					found[g] = true
				}
			}
		}

		for _, v := range e.delta {
			flip(model, v)
			assHash = flipAssHash(assHash, v)
		}
	}

	for g := range found {
		item.FoundNecessary = append(item.FoundNecessary, g)
	}
	item.SetCompleted()
}
