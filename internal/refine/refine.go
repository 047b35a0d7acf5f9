// Package refine implements the Refinement component (spec.md §4.4): it
// turns a failing assumption core returned by the oracle into the set of
// groups proven redundant relative to the currently active set, with the
// tainted-core safeguard for redundancy-removal (RR) encodings.
// Grounded on original_source/src/mus-2/sat_checker.cc's refine(...),
// which populates a caller-owned unnec_gids set rather than mutating
// MUS-State itself — the extraction strategy decides when and whether to
// commit the candidates via MarkRemoved.
package refine

import (
	"github.com/mus-extract/gomus/internal/cnf"
	"github.com/mus-extract/gomus/internal/musstate"
)

// Candidates returns, among untested, every group whose activation
// literal is absent from core — i.e. every group whose removal the
// failure core does not actually depend on, and which is therefore safe
// to mark removed. rrGid is excluded from the result whenever usedRR is
// true, since the RR group is a transient encoding artifact, not a real
// group.
func Candidates(core map[cnf.GID]bool, untested []cnf.GID, rrGid cnf.GID, usedRR bool) []cnf.GID {
	var out []cnf.GID
	for _, gid := range untested {
		if usedRR && gid == rrGid {
			continue
		}
		if !core[gid] {
			out = append(out, gid)
		}
	}
	return out
}

// Tainted reports whether the RR group itself appears in the core: per
// spec.md §4.4, this means the core proves only that the RR-encoded
// negation — not the original groups — causes unsatisfiability, so no
// group can be safely refined from it.
func Tainted(core map[cnf.GID]bool, rrGid cnf.GID, usedRR bool) bool {
	return usedRR && core[rrGid]
}

// Apply commits every candidate gid as Removed in st. Kept separate from
// Candidates so a strategy can inspect the list (e.g. for logging or
// adaptive RR policy) before committing it.
func Apply(st *musstate.State, gids []cnf.GID) {
	for _, gid := range gids {
		st.MarkRemoved(gid)
	}
}
