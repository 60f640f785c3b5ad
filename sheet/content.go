package sheet

import (
	"github.com/tabgrid/tabgrid/formula"
	"github.com/tabgrid/tabgrid/position"
)

// contentKind tags which variant of content a cell currently holds.
type contentKind uint8

const (
	contentEmpty contentKind = iota
	contentText
	contentFormula
)

// content is the sum type stored in a cell: exactly one of raw text or a
// parsed formula, never both. Empty carries neither.
type content struct {
	kind contentKind
	raw  string
	f    formula.Formula
}

func emptyContent() content {
	return content{kind: contentEmpty}
}

func textContent(raw string) content {
	return content{kind: contentText, raw: raw}
}

func formulaContent(f formula.Formula) content {
	return content{kind: contentFormula, f: f}
}

// storedText returns the text GetText should report for this content: the
// raw text as typed for Empty/Text, or "=" plus the canonical expression for
// Formula.
func (c content) storedText() string {
	switch c.kind {
	case contentText:
		return c.raw
	case contentFormula:
		return "=" + c.f.Expression()
	default:
		return ""
	}
}

// displayText returns the Text variant's visible value: the raw text with
// one leading escape sign ' stripped, if present. Only meaningful for Text
// content; Formula and Empty values never go through this path.
func (c content) displayText() string {
	if c.kind == contentText && len(c.raw) > 0 && c.raw[0] == '\'' {
		return c.raw[1:]
	}
	return c.raw
}

// referencedCells returns the positions this content depends on. Only
// Formula content references anything.
func (c content) referencedCells() []position.Position {
	if c.kind != contentFormula {
		return nil
	}
	return c.f.ReferencedCells()
}
