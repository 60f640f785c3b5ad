// Package formula defines the narrow contract the spreadsheet core consumes
// from its formula engine. The grammar, parser, and AST evaluator are
// deliberately external collaborators (see exprformula for the concrete
// implementation built on expr-lang/expr) — this package only fixes the
// shape Sheet and Cell program against.
package formula

import (
	"fmt"

	"github.com/tabgrid/tabgrid/cellvalue"
	"github.com/tabgrid/tabgrid/position"
)

// Resolver is how a Formula reads the rest of the sheet during Evaluate,
// without the formula engine importing the sheet package. Resolve applies
// the reference-coercion rules of the evaluation contract: an invalid
// position yields a #REF! error value, an empty or unset cell yields
// numeric zero, a text cell yields its numeric value when convertible (a
// #VALUE! error value otherwise), and a formula cell yields its own evaluated value,
// propagating whatever error it carries.
type Resolver interface {
	Resolve(pos position.Position) cellvalue.Value
}

// Formula is a parsed, ready-to-evaluate expression bound to the cell it
// lives in.
type Formula interface {
	// Expression returns the canonical printed form of the parsed
	// expression, without a leading '='.
	Expression() string

	// ReferencedCells returns the positions this formula reads, deduplicated
	// and sorted ascending row-major.
	ReferencedCells() []position.Position

	// Evaluate computes the formula's value, resolving references through r.
	Evaluate(r Resolver) cellvalue.Value
}

// Engine parses formula source text (the text following '=', already
// trimmed of leading whitespace by the caller) into a Formula.
type Engine interface {
	Parse(expression string) (Formula, error)
}

// ParseError wraps a failure from Engine.Parse with the offending source.
type ParseError struct {
	Expression string
	Err        error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("formula parse error in %q: %v", e.Expression, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
