package exprformula_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabgrid/tabgrid/cellvalue"
	"github.com/tabgrid/tabgrid/exprformula"
	"github.com/tabgrid/tabgrid/position"
)

// stubResolver lets formula tests supply cell values without a Sheet.
type stubResolver map[position.Position]cellvalue.Value

func (s stubResolver) Resolve(pos position.Position) cellvalue.Value {
	if v, ok := s[pos]; ok {
		return v
	}
	if !pos.Valid() {
		return cellvalue.Error(cellvalue.NewFormulaError(cellvalue.ErrRef))
	}
	return cellvalue.Number(0)
}

func TestArithmetic(t *testing.T) {
	engine := exprformula.New()

	f, err := engine.Parse("1 + 2 * 3")
	require.NoError(t, err)

	v := f.Evaluate(stubResolver{})
	require.Equal(t, cellvalue.KindNumber, v.Kind)
	assert.Equal(t, 7.0, v.AsNumber())
}

func TestReferencesAreDedupedAndSorted(t *testing.T) {
	engine := exprformula.New()

	f, err := engine.Parse("B2 + A1 + B2 + A1")
	require.NoError(t, err)

	want := []position.Position{position.New(0, 0), position.New(1, 1)}
	if diff := cmp.Diff(want, f.ReferencedCells()); diff != "" {
		t.Errorf("ReferencedCells() mismatch (-want +got):\n%s", diff)
	}
}

func TestReferenceResolution(t *testing.T) {
	engine := exprformula.New()

	f, err := engine.Parse("A1 + 10")
	require.NoError(t, err)

	resolver := stubResolver{position.New(0, 0): cellvalue.Number(5)}
	v := f.Evaluate(resolver)
	require.Equal(t, cellvalue.KindNumber, v.Kind)
	assert.Equal(t, 15.0, v.AsNumber())
}

func TestDivisionByZero(t *testing.T) {
	engine := exprformula.New()

	f, err := engine.Parse("A1 / B1")
	require.NoError(t, err)

	resolver := stubResolver{
		position.New(0, 0): cellvalue.Number(1),
		position.New(1, 0): cellvalue.Number(0),
	}
	v := f.Evaluate(resolver)
	require.Equal(t, cellvalue.KindError, v.Kind)
	assert.Equal(t, cellvalue.ErrDiv0, v.AsError().Code)
}

func TestInvalidReferencePropagatesRef(t *testing.T) {
	engine := exprformula.New()

	f, err := engine.Parse("A1 + 1")
	require.NoError(t, err)

	resolver := stubResolver{
		position.New(0, 0): cellvalue.Error(cellvalue.NewFormulaError(cellvalue.ErrRef)),
	}
	v := f.Evaluate(resolver)
	require.Equal(t, cellvalue.KindError, v.Kind)
	assert.Equal(t, cellvalue.ErrRef, v.AsError().Code)
}

func TestNonNumericTextIsValueError(t *testing.T) {
	engine := exprformula.New()

	f, err := engine.Parse("A1 + 1")
	require.NoError(t, err)

	resolver := stubResolver{position.New(0, 0): cellvalue.String("hello")}
	v := f.Evaluate(resolver)
	require.Equal(t, cellvalue.KindError, v.Kind)
	assert.Equal(t, cellvalue.ErrValue, v.AsError().Code)
}

func TestStandaloneTextReferenceIsValueError(t *testing.T) {
	engine := exprformula.New()

	f, err := engine.Parse("A1")
	require.NoError(t, err)

	resolver := stubResolver{position.New(0, 0): cellvalue.String("hello")}
	v := f.Evaluate(resolver)
	require.Equal(t, cellvalue.KindError, v.Kind)
	assert.Equal(t, cellvalue.ErrValue, v.AsError().Code)
}

// Overflow (no division involved) must not be conflated with genuine
// division by zero: they're distinct entries in the §7 error taxonomy.
func TestOverflowIsArithmeticErrorNotDivZero(t *testing.T) {
	engine := exprformula.New()

	f, err := engine.Parse("1e300 * 1e300")
	require.NoError(t, err)

	v := f.Evaluate(stubResolver{})
	require.Equal(t, cellvalue.KindError, v.Kind)
	assert.Equal(t, cellvalue.ErrArithm, v.AsError().Code)
}

func TestAggregateFunctions(t *testing.T) {
	engine := exprformula.New()
	resolver := stubResolver{
		position.New(0, 0): cellvalue.Number(1),
		position.New(1, 0): cellvalue.Number(2),
		position.New(2, 0): cellvalue.Number(3),
	}

	cases := map[string]float64{
		"SUM(A1, A2, A3)": 6,
		"AVG(A1, A2, A3)": 2,
		"MAX(A1, A2, A3)": 3,
		"MIN(A1, A2, A3)": 1,
	}

	for expr, want := range cases {
		f, err := engine.Parse(expr)
		require.NoError(t, err, expr)
		v := f.Evaluate(resolver)
		require.Equal(t, cellvalue.KindNumber, v.Kind, expr)
		assert.Equal(t, want, v.AsNumber(), expr)
	}
}

func TestParseErrorOnEmptyExpression(t *testing.T) {
	engine := exprformula.New()
	_, err := engine.Parse("   ")
	assert.Error(t, err)
}

func TestParseErrorOnSyntaxError(t *testing.T) {
	engine := exprformula.New()
	_, err := engine.Parse("1 +")
	assert.Error(t, err)
}
