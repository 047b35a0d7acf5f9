package format

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/mus-extract/gomus/internal/cnf"
)

// WriteCNF emits spec.md §6's plain "Output CNF": a "p cnf V C" header
// followed by the literals of every non-removed clause, one clause per
// line, group information dropped entirely.
func WriteCNF(w io.Writer, gs *cnf.GroupSet) error {
	bw := bufio.NewWriter(w)
	var body []string
	count := 0
	for _, c := range gs.Clauses {
		if c.Removed {
			continue
		}
		body = append(body, c.String())
		count++
	}
	if _, err := fmt.Fprintf(bw, "p cnf %d %d\n", int(gs.MaxVar), count); err != nil {
		return err
	}
	for _, line := range body {
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteCNFPartitioned implements spec.md §6's alternate output mode: group
// 0 carries the background clauses and every necessary group's clauses,
// and each remaining uncertain group is written as its own GCNF group,
// renumbered 1, 2, ... in ascending order of its original id.
func WriteCNFPartitioned(w io.Writer, gs *cnf.GroupSet, necessary map[cnf.GID]bool) error {
	bw := bufio.NewWriter(w)
	gids := liveGroupIDs(gs)

	count := 0
	for _, gid := range gids {
		if gid == cnf.Background || necessary[gid] {
			count += liveClauseCountIn(gs, gid)
		}
	}
	for _, gid := range gids {
		if gid != cnf.Background && !necessary[gid] {
			count += liveClauseCountIn(gs, gid)
		}
	}

	if _, err := fmt.Fprintf(bw, "p gcnf %d %d %d\n", int(gs.MaxVar), count, len(gids)); err != nil {
		return err
	}

	for _, gid := range gids {
		if gid != cnf.Background && !necessary[gid] {
			continue
		}
		if err := writeGroupLines(bw, gs, gid, 0); err != nil {
			return err
		}
	}
	next := 1
	for _, gid := range gids {
		if gid == cnf.Background || necessary[gid] {
			continue
		}
		if err := writeGroupLines(bw, gs, gid, next); err != nil {
			return err
		}
		next++
	}
	return bw.Flush()
}

// WriteGCNF implements spec.md §6's "Output GCNF": group ids preserved
// verbatim, removed groups omitted entirely.
func WriteGCNF(w io.Writer, gs *cnf.GroupSet) error {
	bw := bufio.NewWriter(w)
	gids := liveGroupIDs(gs)

	count := 0
	for _, gid := range gids {
		count += liveClauseCountIn(gs, gid)
	}
	if _, err := fmt.Fprintf(bw, "p gcnf %d %d %d\n", int(gs.MaxVar), count, len(gids)); err != nil {
		return err
	}
	for _, gid := range gids {
		if err := writeGroupLines(bw, gs, gid, int(gid)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteCompetition implements spec.md §6's competition format: a
// solver-style status line ("s UNSATISFIABLE" for a MUS, "s SATISFIABLE"
// for an MES) followed by one "v g1 g2 ... 0" line enumerating the
// surviving group ids.
func WriteCompetition(w io.Writer, survivors []cnf.GID, mes bool) error {
	bw := bufio.NewWriter(w)
	status := "s UNSATISFIABLE"
	if mes {
		status = "s SATISFIABLE"
	}
	if _, err := fmt.Fprintln(bw, status); err != nil {
		return err
	}
	ids := append([]cnf.GID(nil), survivors...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if _, err := bw.WriteString("v"); err != nil {
		return err
	}
	for _, gid := range ids {
		if _, err := fmt.Fprintf(bw, " %d", int(gid)); err != nil {
			return err
		}
	}
	if _, err := bw.WriteString(" 0\n"); err != nil {
		return err
	}
	return bw.Flush()
}

func liveGroupIDs(gs *cnf.GroupSet) []cnf.GID {
	var gids []cnf.GID
	for gid, g := range gs.Groups {
		if g.Active(gs.Clauses) {
			gids = append(gids, gid)
		}
	}
	sort.Slice(gids, func(i, j int) bool { return gids[i] < gids[j] })
	return gids
}

func liveClauseCountIn(gs *cnf.GroupSet, gid cnf.GID) int {
	g := gs.Group(gid)
	if g == nil {
		return 0
	}
	n := 0
	for _, id := range g.Clauses {
		if !gs.Clause(id).Removed {
			n++
		}
	}
	return n
}

func writeGroupLines(bw *bufio.Writer, gs *cnf.GroupSet, gid cnf.GID, renderAs int) error {
	g := gs.Group(gid)
	if g == nil {
		return nil
	}
	for _, id := range g.Clauses {
		c := gs.Clause(id)
		if c.Removed {
			continue
		}
		if _, err := fmt.Fprintf(bw, "{%d} %s\n", renderAs, c.String()); err != nil {
			return err
		}
	}
	return nil
}
