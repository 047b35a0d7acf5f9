package rotate

import (
	"github.com/mus-extract/gomus/internal/cnf"
	"github.com/mus-extract/gomus/internal/musstate"
)

// Decider is consulted by RMR (and VMUS/MES, which share its shape) before
// a newly-discovered singleton falsified group is enqueued for further
// rotation, mirroring original_source/src/mus-2/model_rotator.hh's
// DeciderRMR/DeciderSMR rotate_through(rm, gid, lit) policy hook. found
// tracks every group already enqueued during the current rotation call
// (RotateModel.FoundNecessary, as it accumulates) so a decider can refuse
// to revisit a group without needing its own copy of that state.
type Decider interface {
	RotateThrough(found map[cnf.GID]bool, gid cnf.GID, lit cnf.Lit) bool
}

// BasicDecider implements plain RMR: rotate through gid iff it is not
// already known necessary, globally (unless IgnoreGlobal) or within this
// rotation call.
type BasicDecider struct {
	State        *musstate.State
	IgnoreGlobal bool
}

func NewBasicDecider(state *musstate.State) *BasicDecider {
	return &BasicDecider{State: state}
}

func (d *BasicDecider) RotateThrough(found map[cnf.GID]bool, gid cnf.GID, lit cnf.Lit) bool {
	_ = lit
	if !d.IgnoreGlobal && d.State != nil && d.State.Nec(gid) {
		return false
	}
	return !found[gid]
}

// SiertDecider implements Siert SMR: a per-(group, literal) visit counter
// capped at Depth, allowing a group to be revisited through distinct
// literals up to that many times — unlike BasicDecider it does not
// consult found at all, matching DeciderSMR::rotate_through.
type SiertDecider struct {
	Depth  int
	visits map[cnf.GID]map[cnf.Lit]int
}

func NewSiertDecider(depth int) *SiertDecider {
	return &SiertDecider{Depth: depth, visits: make(map[cnf.GID]map[cnf.Lit]int)}
}

func (d *SiertDecider) RotateThrough(found map[cnf.GID]bool, gid cnf.GID, lit cnf.Lit) bool {
	_ = found
	lm, ok := d.visits[gid]
	if !ok {
		lm = make(map[cnf.Lit]int)
		d.visits[gid] = lm
	}
	lm[lit]++
	return lm[lit] <= d.Depth
}
