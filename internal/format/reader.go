// Package format implements spec.md §6's external interfaces: the
// CNF/GCNF/VGCNF readers and the CNF/GCNF/competition-format writers.
// DIMACS is simple enough line-oriented text that it needs no lexer/AST
// split of its own; the reader's bufio.Scanner-plus-line-number wrapper is
// still grounded on `ha1tch-tsqlparser/lexer`'s scanner shape (track a
// position for error messages, advance a line at a time).
package format

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/mus-extract/gomus/internal/cnf"
)

// Mode selects which of CNF/GCNF grammars Read parses; VGCNF is a
// separate two-document format handled by ReadVGCNF below, since it has
// no single-stream representation to select with a Mode value.
type Mode int

const (
	// ModeCNF parses plain DIMACS CNF: clause id = 1-based position,
	// group id = clause id (every clause is its own singleton group).
	ModeCNF Mode = iota
	// ModeGCNF parses GCNF: each clause line opens with "{g}" naming its
	// group, 0 being the background group.
	ModeGCNF
)

// ParseError reports the input line a parse failure occurred on.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("format: line %d: %s", e.Line, e.Msg)
}

// Read parses r according to mode into a fresh GroupSet. `c` and `p`
// header lines are skipped past (the `p` line's counts are not read; the
// GroupSet grows on demand); every other non-blank line is a
// whitespace-separated list of signed integers terminated by a literal 0.
func Read(r io.Reader, mode Mode) (*cnf.GroupSet, error) {
	gs := cnf.NewGroupSet()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	clauseID := 0

	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "c") {
			continue
		}
		if strings.HasPrefix(text, "p") {
			continue // capacity hint only; GroupSet grows on demand
		}

		switch mode {
		case ModeGCNF:
			gid, lits, err := parseGCNFLine(text, line)
			if err != nil {
				return nil, err
			}
			clauseID++
			gs.AddClause(gid, lits)
		default: // ModeCNF
			lits, err := parseLiteralLine(text, line)
			if err != nil {
				return nil, err
			}
			clauseID++
			gs.AddClause(cnf.GID(clauseID), lits)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "format: reading input")
	}
	return gs, nil
}

// ReadVGCNFGroups parses the separate variable->group assignment document
// VGCNF input ships alongside its CNF body: one "<var> <group>" pair per
// non-comment line.
func ReadVGCNFGroups(r io.Reader) (map[cnf.Var]cnf.GID, error) {
	assign := make(map[cnf.Var]cnf.GID)
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "c") || strings.HasPrefix(text, "p") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, &ParseError{Line: line, Msg: "expected \"<var> <group>\""}
		}
		v, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, &ParseError{Line: line, Msg: "non-integer variable: " + fields[0]}
		}
		g, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, &ParseError{Line: line, Msg: "non-integer group: " + fields[1]}
		}
		assign[cnf.Var(v)] = cnf.GID(g)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "format: reading VGCNF group assignment")
	}
	return assign, nil
}

// groupForVGCNF resolves a clause's group from its variables' individually
// assigned groups: if every variable maps to the same group, that's the
// clause's group; an unassigned variable or a mix of groups falls back to
// the background group, since VGCNF's per-variable assignment gives no
// other well-defined choice in that case.
func groupForVGCNF(lits []cnf.Lit, varToGroup map[cnf.Var]cnf.GID) cnf.GID {
	var gid cnf.GID
	set := false
	for _, l := range lits {
		g, ok := varToGroup[l.Var()]
		if !ok {
			return cnf.Background
		}
		if !set {
			gid, set = g, true
			continue
		}
		if g != gid {
			return cnf.Background
		}
	}
	if !set {
		return cnf.Background
	}
	return gid
}

// ReadVGCNF parses a CNF body and a variable->group assignment together,
// the two-document form VGCNF input takes.
func ReadVGCNF(cnfBody io.Reader, groups io.Reader) (*cnf.GroupSet, error) {
	assign, err := ReadVGCNFGroups(groups)
	if err != nil {
		return nil, err
	}

	gs := cnf.NewGroupSet()
	scanner := bufio.NewScanner(cnfBody)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "c") || strings.HasPrefix(text, "p") {
			continue
		}
		lits, err := parseLiteralLine(text, line)
		if err != nil {
			return nil, err
		}
		gs.AddClause(groupForVGCNF(lits, assign), lits)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "format: reading VGCNF body")
	}
	return gs, nil
}

// parseGCNFLine parses a "{g} l1 l2 ... 0" GCNF clause line.
func parseGCNFLine(text string, line int) (cnf.GID, []cnf.Lit, error) {
	open := strings.IndexByte(text, '{')
	shut := strings.IndexByte(text, '}')
	if open != 0 || shut < 0 {
		return 0, nil, &ParseError{Line: line, Msg: "expected clause to begin with \"{g}\""}
	}
	g, err := strconv.Atoi(strings.TrimSpace(text[open+1 : shut]))
	if err != nil {
		return 0, nil, &ParseError{Line: line, Msg: "non-integer group id: " + text[open+1:shut]}
	}
	lits, err := parseLiteralLine(strings.TrimSpace(text[shut+1:]), line)
	if err != nil {
		return 0, nil, err
	}
	return cnf.GID(g), lits, nil
}

// parseLiteralLine parses a whitespace-separated signed-integer literal
// list terminated by a literal 0.
func parseLiteralLine(text string, line int) ([]cnf.Lit, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil, nil
	}
	lits := make([]cnf.Lit, 0, len(fields)-1)
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, &ParseError{Line: line, Msg: "non-integer literal: " + f}
		}
		if n == 0 {
			return lits, nil
		}
		lits = append(lits, cnf.Lit(n))
	}
	return nil, &ParseError{Line: line, Msg: "clause not terminated by 0"}
}
