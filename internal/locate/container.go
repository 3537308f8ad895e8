package locate

import "fmt"

// ParagraphAt returns the range of the innermost paragraph containing the
// native offset off. Tables are searched cell by cell to any depth. An
// offset that falls inside a non-paragraph element, or inside a table but
// outside every cell paragraph, has no enclosing paragraph.
func ParagraphAt(content []Element, off int64) (Range, bool) {
	for _, el := range content {
		if !el.Span().Contains(off) {
			continue
		}
		switch e := el.(type) {
		case *Paragraph:
			return e.Bounds.Range(), true
		case *Table:
			for _, row := range e.Rows {
				for _, cell := range row {
					if r, ok := ParagraphAt(cell.Content, off); ok {
						return r, true
					}
				}
			}
			return Range{}, false
		case *Other:
			return Range{}, false
		default:
			panic(fmt.Sprintf("locate: unhandled element %T", el))
		}
	}
	return Range{}, false
}
