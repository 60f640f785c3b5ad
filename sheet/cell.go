package sheet

import (
	"github.com/tabgrid/tabgrid/cellvalue"
	"github.com/tabgrid/tabgrid/position"
)

// Cell is a single storage slot in a Sheet: one content variant, a cached
// value, and the cell's place in the dependency graph. Cells are owned
// exclusively by their Sheet; parents/children are non-owning references
// into that same storage, maintained only by the Sheet's commit protocol.
type Cell struct {
	pos     position.Position
	sheet   *Sheet
	content content

	cachedValue cellvalue.Value
	dirty       bool

	children []*Cell // cells this one depends on
	parents  []*Cell // cells that depend on this one
}

// newCell returns a fresh, empty cell at pos. It starts dirty so the first
// GetValue evaluates rather than returning a zero-value cache.
func newCell(sheet *Sheet, pos position.Position) *Cell {
	return &Cell{
		pos:     pos,
		sheet:   sheet,
		content: emptyContent(),
		dirty:   true,
	}
}

// GetText returns the raw stored text: verbatim for Text (including any
// leading escape sign), "=" followed by the formula's Expression() for
// Formula, "" for Empty.
func (c *Cell) GetText() string {
	return c.content.storedText()
}

// GetReferencedCells returns the positions this cell's formula references,
// deduplicated and sorted ascending row-major. Empty for non-Formula cells.
func (c *Cell) GetReferencedCells() []position.Position {
	return c.content.referencedCells()
}

// GetValue returns the cell's current value, evaluating (and caching) only
// if the cached value is stale.
func (c *Cell) GetValue() cellvalue.Value {
	if !c.dirty {
		return c.cachedValue
	}

	c.cachedValue = c.evaluate()
	c.dirty = false
	return c.cachedValue
}

func (c *Cell) evaluate() cellvalue.Value {
	switch c.content.kind {
	case contentEmpty:
		return cellvalue.String("")
	case contentText:
		return cellvalue.String(c.content.displayText())
	case contentFormula:
		return c.content.f.Evaluate(c.sheet)
	default:
		return cellvalue.Error(cellvalue.NewFormulaError(cellvalue.ErrValue))
	}
}

// invalidate marks this cell dirty and propagates to every parent,
// transitively. It is a no-op if the cell is already dirty, which both
// short-circuits redundant work and guarantees termination over the
// acyclic dependency graph.
func (c *Cell) invalidate() {
	if c.dirty {
		return
	}
	c.dirty = true
	for _, p := range c.parents {
		p.invalidate()
	}
}

// removeParent drops p from this cell's parent list, if present.
func (c *Cell) removeParent(p *Cell) {
	for i, existing := range c.parents {
		if existing == p {
			c.parents = append(c.parents[:i], c.parents[i+1:]...)
			return
		}
	}
}

// hasText reports whether this cell's stored text is non-empty, the
// definition GetPrintableSize uses for "non-empty cell".
func (c *Cell) hasText() bool {
	return c.GetText() != ""
}
