// Package exprformula implements formula.Engine on top of
// github.com/expr-lang/expr, following the pattern
// berejant-devChallengeExcel's ExpressionExecutor establishes for wrapping
// a general-purpose expression compiler behind a spreadsheet formula
// interface: compile the cell's expression text once, resolve its free
// variables against the sheet on every evaluation, and map the engine's
// runtime failures onto the spreadsheet's formula-error taxonomy.
//
// Unlike that reference, cell references here (A1, AB27, ...) are already
// valid expr identifiers, so no canonicalization/rewrite pass is needed —
// the reference token is used verbatim as the compiled program's free
// variable name.
package exprformula

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/tabgrid/tabgrid/cellvalue"
	"github.com/tabgrid/tabgrid/formula"
	"github.com/tabgrid/tabgrid/position"
)

// errDivideByZero is returned by safeDivide for a zero denominator. Its
// message is deliberately worded to match the "divide by zero" substring
// mapRuntimeError already looks for in Go's integer-division panic text, so
// both paths land on the same #DIV/0! mapping.
var errDivideByZero = errors.New("formula: divide by zero")

// safeDivide backs the overridden "/" operator for float64 operands (every
// cell reference is stored as float64 in the eval environment). Unlike Go's
// native float division, which silently produces +/-Inf, this reports a
// zero denominator as a distinguishable runtime error so numberValue's
// IsInf branch is left to mean "overflow", not "division by zero".
func safeDivide(params ...any) (any, error) {
	a := params[0].(float64)
	b := params[1].(float64)
	if b == 0 {
		return nil, errDivideByZero
	}
	return a / b, nil
}

var divideFunction = expr.Function("safeDivide", safeDivide, new(func(float64, float64) float64))

// refToken matches the A1-style reference grammar from the position
// package wherever it appears in formula source.
var refToken = regexp.MustCompile(`[A-Z]+[1-9][0-9]*`)

// Engine is a formula.Engine backed by expr-lang/expr.
type Engine struct{}

// New returns a ready-to-use Engine.
func New() *Engine { return &Engine{} }

var _ formula.Engine = (*Engine)(nil)

// Parse compiles expression (the formula source following '=', already
// trimmed of leading whitespace by the caller) into a Formula.
func (e *Engine) Parse(expression string) (formula.Formula, error) {
	trimmed := strings.TrimSpace(expression)
	if trimmed == "" {
		return nil, &formula.ParseError{Expression: expression, Err: fmt.Errorf("empty expression")}
	}

	refs := extractReferences(trimmed)

	env := make(map[string]any, len(refs))
	for _, pos := range refs {
		env[position.Encode(pos)] = 0.0
	}

	options := []expr.Option{
		expr.Env(env),
		expr.AllowUndefinedVariables(),
		expr.DisableAllBuiltins(),
		sumFunction, avgFunction, minFunction, maxFunction,
		divideFunction,
		expr.Operator("/", "safeDivide"),
	}

	program, err := expr.Compile(trimmed, options...)
	if err != nil {
		return nil, &formula.ParseError{Expression: expression, Err: err}
	}

	return &compiledFormula{canonical: trimmed, program: program, refs: refs}, nil
}

// extractReferences scans expr for A1-style reference tokens, deduplicates
// them, and sorts the result ascending row-major — the order
// Formula.ReferencedCells must return.
func extractReferences(source string) []position.Position {
	seen := make(map[position.Position]struct{})
	for _, tok := range refToken.FindAllString(source, -1) {
		pos, err := position.Parse(tok)
		if err == nil {
			seen[pos] = struct{}{}
		}
	}

	refs := make([]position.Position, 0, len(seen))
	for pos := range seen {
		refs = append(refs, pos)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Less(refs[j]) })
	return refs
}

// compiledFormula is a formula.Formula backed by a compiled expr-lang
// program plus the reference list extracted at parse time.
type compiledFormula struct {
	canonical string
	program   *vm.Program
	refs      []position.Position
}

var _ formula.Formula = (*compiledFormula)(nil)

// Expression returns the formula source with surrounding whitespace trimmed.
// The source is not re-rendered: redundant parentheses and spacing are kept
// as written.
func (f *compiledFormula) Expression() string { return f.canonical }

func (f *compiledFormula) ReferencedCells() []position.Position {
	out := make([]position.Position, len(f.refs))
	copy(out, f.refs)
	return out
}

func (f *compiledFormula) Evaluate(r formula.Resolver) cellvalue.Value {
	env := make(map[string]any, len(f.refs))
	for _, pos := range f.refs {
		v := r.Resolve(pos)
		if v.Kind == cellvalue.KindError {
			return v
		}
		if v.Kind == cellvalue.KindNumber {
			env[position.Encode(pos)] = v.AsNumber()
		} else {
			env[position.Encode(pos)] = v.AsString()
		}
	}

	out, err := expr.Run(f.program, env)
	if err != nil {
		return mapRuntimeError(err)
	}

	return toValue(out)
}

// toValue converts expr-lang's dynamically typed result into the
// spreadsheet's tagged value. A formula cell's value is strictly a number
// or a FormulaError (cell.cpp's FormulaImpl::GetValue has no string case),
// so any non-numeric, non-bool result — including a standalone string
// reference like =A1 resolving to a text cell — maps to #VALUE!.
func toValue(out any) cellvalue.Value {
	switch v := out.(type) {
	case float64:
		return numberValue(v)
	case int:
		return numberValue(float64(v))
	case bool:
		if v {
			return numberValue(1)
		}
		return numberValue(0)
	default:
		return cellvalue.Error(cellvalue.NewFormulaError(cellvalue.ErrValue))
	}
}

// numberValue classifies a numeric result. NaN and +/-Inf both indicate a
// non-finite result (e.g. overflow from 1e300*1e300, or 0/0 via the
// asin/log family); genuine division by zero is intercepted earlier, at
// the operator level (see safeDivide), so by the time a result reaches
// here a non-finite value always means #ARITHM!, never #DIV/0!.
func numberValue(n float64) cellvalue.Value {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return cellvalue.Error(cellvalue.NewFormulaError(cellvalue.ErrArithm))
	}
	return cellvalue.Number(n)
}

// mapRuntimeError maps an expr-lang VM failure onto the formula-error
// taxonomy. Two distinct paths produce a "divide by zero" panic/error:
// Go's native integer division panics with a fixed runtime message, and
// safeDivide returns errDivideByZero for a zero float64 denominator; both
// are handled the same way here. Anything else at this layer is a
// type/coercion failure.
func mapRuntimeError(err error) cellvalue.Value {
	if strings.Contains(err.Error(), "divide by zero") {
		return cellvalue.Error(cellvalue.NewFormulaError(cellvalue.ErrDiv0))
	}
	return cellvalue.Error(cellvalue.NewFormulaError(cellvalue.ErrValue))
}
