// Package sheet implements the dependency-graph and evaluation kernel: the
// Cell abstraction with its three content variants, the bidirectional
// parent/child dependency links, the two-phase (verify-then-commit) set
// protocol that keeps the graph acyclic, and lazy cache invalidation.
//
// The package structure mirrors the teacher pack's DependencyGraph/Cell
// split (vogtb-go-spreadsheet's graph.go and cell.go), generalized from that
// repo's worksheet-ID-keyed maps to a single growable row-major grid, since
// this engine is explicitly single-sheet.
package sheet

import (
	"io"
	"strconv"
	"strings"

	"github.com/tabgrid/tabgrid/cellvalue"
	"github.com/tabgrid/tabgrid/formula"
	"github.com/tabgrid/tabgrid/position"
)

// Sheet owns every cell's storage in a dynamically grown row-major table and
// mediates all mutation through the two-phase commit protocol described in
// SetCell. No other package constructs Cells directly.
type Sheet struct {
	engine formula.Engine
	grid   [][]*Cell // grid[row][col]; a nil entry is an unallocated slot
}

// New returns an empty Sheet that parses formulas with engine.
func New(engine formula.Engine) *Sheet {
	return &Sheet{engine: engine}
}

var _ formula.Resolver = (*Sheet)(nil)

// ensure grows the backing grid, if necessary, so that row pos.Row, col
// pos.Col is addressable. It never shrinks the grid.
func (s *Sheet) ensure(pos position.Position) {
	for len(s.grid) <= pos.Row {
		s.grid = append(s.grid, nil)
	}
	row := s.grid[pos.Row]
	for len(row) <= pos.Col {
		row = append(row, nil)
	}
	s.grid[pos.Row] = row
}

// cellAt returns the cell at pos, or nil if the slot is unallocated or
// outside the current grid. It does not validate pos.
func (s *Sheet) cellAt(pos position.Position) *Cell {
	if pos.Row < 0 || pos.Row >= len(s.grid) {
		return nil
	}
	row := s.grid[pos.Row]
	if pos.Col < 0 || pos.Col >= len(row) {
		return nil
	}
	return row[pos.Col]
}

// getOrCreate returns the cell at pos, allocating storage and an Empty cell
// if the slot was unset. Callers must have already validated pos.
func (s *Sheet) getOrCreate(pos position.Position) *Cell {
	s.ensure(pos)
	if c := s.grid[pos.Row][pos.Col]; c != nil {
		return c
	}
	c := newCell(s, pos)
	s.grid[pos.Row][pos.Col] = c
	return c
}

// GetCell returns the cell at pos, or nil if pos is unallocated or unset.
func (s *Sheet) GetCell(pos position.Position) (*Cell, error) {
	if !pos.Valid() {
		return nil, ErrInvalidPosition
	}
	return s.cellAt(pos), nil
}

// SetCell installs text as the content of the cell at pos, running the
// two-phase commit protocol: build a candidate content object and verify it
// would not introduce a cycle before touching any edge. A failed parse leaves
// the sheet untouched. A failed cycle check leaves every cell's content and
// dependency edges as they were; the target cell and the cells it references
// may by then exist as Empty cells.
func (s *Sheet) SetCell(pos position.Position, text string) error {
	if !pos.Valid() {
		return ErrInvalidPosition
	}
	if text == "" {
		return s.ClearCell(pos)
	}

	cand, err := s.buildContent(text)
	if err != nil {
		return err
	}

	refs := cand.referencedCells()
	refCells := make([]*Cell, 0, len(refs))
	for _, p := range refs {
		if !p.Valid() {
			continue // resolves to #REF! at evaluation; no cell to link
		}
		refCells = append(refCells, s.getOrCreate(p))
	}

	target := s.getOrCreate(pos)

	if s.wouldCycle(target, refCells) {
		return ErrCircularDependency
	}

	// commit: unlink target from its current children, install the
	// candidate, then relink to the new reference set.
	for _, child := range target.children {
		child.removeParent(target)
	}
	target.children = target.children[:0]

	target.content = cand
	for _, child := range refCells {
		target.children = append(target.children, child)
		child.parents = append(child.parents, target)
	}

	target.invalidate()
	return nil
}

// buildContent classifies text per the escape/formula/text rules and
// constructs the corresponding content variant. A formula parse failure
// returns the engine's error unchanged; the caller must not have mutated
// any state yet.
func (s *Sheet) buildContent(text string) (content, error) {
	switch {
	case strings.HasPrefix(text, "'"):
		return textContent(text), nil
	case strings.HasPrefix(text, "=") && len(text) > 1 && strings.TrimSpace(text[1:]) != "":
		f, err := s.engine.Parse(strings.TrimSpace(text[1:]))
		if err != nil {
			return content{}, err
		}
		return formulaContent(f), nil
	default:
		return textContent(text), nil
	}
}

// wouldCycle performs a depth-first search over children starting at
// target's prospective child set newChildren — substituting them in place
// of target's current children, which have not been rewired yet — and
// reports whether target itself is reachable. The visited set is local to
// this call and is never persisted.
func (s *Sheet) wouldCycle(target *Cell, newChildren []*Cell) bool {
	visited := make(map[*Cell]struct{})

	var visit func(c *Cell) bool
	visit = func(c *Cell) bool {
		if c == target {
			return true
		}
		if _, seen := visited[c]; seen {
			return false
		}
		visited[c] = struct{}{}

		for _, child := range c.children {
			if visit(child) {
				return true
			}
		}
		return false
	}

	for _, child := range newChildren {
		if visit(child) {
			return true
		}
	}
	return false
}

// ClearCell resets the cell at pos to Empty content. Parents' caches are
// invalidated first (their dependency is about to start reading empty
// instead of whatever content was there), then the slot's own content and
// outgoing child edges are dropped — an Empty cell references nothing.
// Edges pointing into this cell from its parents are left untouched; they
// still depend on this (now empty) position.
func (s *Sheet) ClearCell(pos position.Position) error {
	if !pos.Valid() {
		return ErrInvalidPosition
	}

	c := s.cellAt(pos)
	if c == nil {
		return nil
	}

	c.invalidate()

	for _, child := range c.children {
		child.removeParent(c)
	}
	c.children = c.children[:0]
	c.content = emptyContent()

	return nil
}

// Resolve implements formula.Resolver: it applies the reference-coercion
// rules a formula's Evaluate uses when reading another cell, which differ
// from Cell.GetValue's own view of itself (a Text cell reads as a string to
// its own caller, but coerces to a number — or #VALUE! — as a formula
// operand).
func (s *Sheet) Resolve(pos position.Position) cellvalue.Value {
	if !pos.Valid() {
		return cellvalue.Error(cellvalue.NewFormulaError(cellvalue.ErrRef))
	}

	c := s.cellAt(pos)
	if c == nil {
		return cellvalue.Number(0)
	}

	// Empty and Text cells are read through GetValue so that they are marked
	// clean; a later change to them then invalidates the formulas reading them.
	switch c.content.kind {
	case contentEmpty:
		c.GetValue()
		return cellvalue.Number(0)
	case contentText:
		text := c.GetValue().AsString()
		if n, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
			return cellvalue.Number(n)
		}
		return cellvalue.Error(cellvalue.NewFormulaError(cellvalue.ErrValue))
	case contentFormula:
		return c.GetValue()
	default:
		return cellvalue.Error(cellvalue.NewFormulaError(cellvalue.ErrValue))
	}
}

// GetPrintableSize returns the smallest rectangle anchored at (0,0) that
// contains every cell with non-empty stored text.
func (s *Sheet) GetPrintableSize() (rows, cols int) {
	for r, row := range s.grid {
		for c, cell := range row {
			if cell == nil || !cell.hasText() {
				continue
			}
			if r+1 > rows {
				rows = r + 1
			}
			if c+1 > cols {
				cols = c + 1
			}
		}
	}
	return rows, cols
}

// PrintValues writes the evaluated grid within the printable rectangle:
// columns tab-separated, rows newline-terminated, no trailing tab.
func (s *Sheet) PrintValues(w io.Writer) error {
	return s.print(w, func(c *Cell) string {
		if c == nil {
			return ""
		}
		return c.GetValue().Text()
	})
}

// PrintTexts writes the raw stored text of every cell within the printable
// rectangle, in the same layout as PrintValues.
func (s *Sheet) PrintTexts(w io.Writer) error {
	return s.print(w, func(c *Cell) string {
		if c == nil {
			return ""
		}
		return c.GetText()
	})
}

func (s *Sheet) print(w io.Writer, render func(*Cell) string) error {
	rows, cols := s.GetPrintableSize()

	var buf strings.Builder
	for r := 0; r < rows; r++ {
		var row []*Cell
		if r < len(s.grid) {
			row = s.grid[r]
		}
		for c := 0; c < cols; c++ {
			if c > 0 {
				buf.WriteByte('\t')
			}
			var cell *Cell
			if c < len(row) {
				cell = row[c]
			}
			buf.WriteString(render(cell))
		}
		buf.WriteByte('\n')
	}

	_, err := w.Write([]byte(buf.String()))
	return err
}
