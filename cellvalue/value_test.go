package cellvalue_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tabgrid/tabgrid/cellvalue"
)

func TestTextRendering(t *testing.T) {
	assert.Equal(t, "hello", cellvalue.String("hello").Text())
	assert.Equal(t, "6", cellvalue.Number(6).Text())
	assert.Equal(t, "6.5", cellvalue.Number(6.5).Text())
	assert.Equal(t, "#DIV/0!", cellvalue.Error(cellvalue.NewFormulaError(cellvalue.ErrDiv0)).Text())
	assert.Equal(t, "#VALUE!", cellvalue.Error(cellvalue.NewFormulaError(cellvalue.ErrValue)).Text())
	assert.Equal(t, "#REF!", cellvalue.Error(cellvalue.NewFormulaError(cellvalue.ErrRef)).Text())
	assert.Equal(t, "#ARITHM!", cellvalue.Error(cellvalue.NewFormulaError(cellvalue.ErrArithm)).Text())
}

func TestNoTrailingZeros(t *testing.T) {
	assert.Equal(t, "100", cellvalue.Number(100).Text())
	assert.Equal(t, "0", cellvalue.Number(0).Text())
	assert.Equal(t, "-3.25", cellvalue.Number(-3.25).Text())
}
