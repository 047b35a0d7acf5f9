// Package cnf implements the clause/group/occurrence data model shared by
// every other package in this module: a dense, index-owned representation
// of a CNF formula partitioned into labelled groups.
package cnf

import "fmt"

// Var is a one-based propositional variable index.
type Var int

// Lit is a signed, nonzero literal. Its absolute value is a Var; its sign
// is the literal's polarity.
type Lit int32

// LitOf returns the positive or negative literal for v depending on
// positive.
func LitOf(v Var, positive bool) Lit {
	if positive {
		return Lit(v)
	}
	return Lit(-v)
}

// Var returns the variable underlying l.
func (l Lit) Var() Var {
	if l < 0 {
		return Var(-l)
	}
	return Var(l)
}

// Positive reports whether l is a positive literal.
func (l Lit) Positive() bool {
	return l > 0
}

// Negate returns the complement of l.
func (l Lit) Negate() Lit {
	return -l
}

// Int returns the DIMACS-style signed integer for l.
func (l Lit) Int() int {
	return int(l)
}

func (l Lit) String() string {
	return fmt.Sprintf("%d", l.Int())
}

// GID is a nonnegative group identifier. GID 0 is the distinguished
// background group: it is never a candidate for removal.
type GID int

// Background is the group id that must remain in every output.
const Background GID = 0

func (g GID) String() string {
	return fmt.Sprintf("g%d", int(g))
}
