package exprformula

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm/runtime"
)

// Aggregate functions over an explicit reference list, e.g. "=SUM(A1,A2,B3)".
// The engine has no range syntax (A1:C3), so every argument is a single cell
// reference or sub-expression; these mirror the teacher pack's
// MathFunctions.go, built on the same expr-lang runtime arithmetic helpers.

var sumFunction = expr.Function("SUM", func(args ...any) (any, error) {
	var sum any = 0.0
	for _, arg := range args {
		sum = runtime.Add(sum, arg)
	}
	return sum, nil
})

var avgFunction = expr.Function("AVG", func(args ...any) (any, error) {
	if len(args) == 0 {
		return 0.0, nil
	}
	var sum any = 0.0
	for _, arg := range args {
		sum = runtime.Add(sum, arg)
	}
	return runtime.Divide(sum, len(args)), nil
})

var maxFunction = expr.Function("MAX", func(args ...any) (any, error) {
	var result any
	for _, arg := range args {
		if result == nil || runtime.Less(result, arg) {
			result = arg
		}
	}
	return result, nil
})

var minFunction = expr.Function("MIN", func(args ...any) (any, error) {
	var result any
	for _, arg := range args {
		if result == nil || runtime.More(result, arg) {
			result = arg
		}
	}
	return result, nil
})
