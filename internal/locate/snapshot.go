package locate

import (
	"google.golang.org/api/docs/v1"
)

// SnapshotFields is the field mask requested when fetching a document for
// resolution: element offsets, text runs, and the table/cell skeleton.
const SnapshotFields = "documentId,body(content(startIndex,endIndex,sectionBreak,tableOfContents," +
	"paragraph(elements(startIndex,endIndex,textRun(content)))," +
	"table(tableRows(startIndex,endIndex,tableCells(startIndex,endIndex,content(startIndex,endIndex," +
	"paragraph(elements(startIndex,endIndex,textRun(content))),table,sectionBreak,tableOfContents))))))"

// Element is one structural element of a document body or table cell. The
// set of implementations is closed: *Paragraph, *Table and *Other.
type Element interface {
	// Span is the element's native range. Elements without offsets report
	// an empty span and never match an offset.
	Span() Span
	element()
}

// Span is a native range as reported by the remote service. Unlike Range it
// may be empty.
type Span struct {
	Start int64
	End   int64
}

// Contains reports whether off lies within [Start, End).
func (s Span) Contains(off int64) bool {
	return s.Start < s.End && s.Start <= off && off < s.End
}

// Range converts a non-empty span into a Range.
func (s Span) Range() Range {
	return Range{StartIndex: s.Start, EndIndex: s.End}
}

// Run is a text run inside a paragraph.
type Run struct {
	Span Span
	Text string
}

// Paragraph is an editable paragraph.
type Paragraph struct {
	Bounds Span
	Runs   []Run
}

// Table is a grid of cells, each holding its own element list.
type Table struct {
	Bounds Span
	Rows   [][]Cell
}

// Cell is one table cell.
type Cell struct {
	Bounds  Span
	Content []Element
}

// Other is any structural element that is neither a paragraph nor a table
// (section breaks, tables of contents). It occupies native offsets but
// contributes no text and is not an editable paragraph.
type Other struct {
	Bounds Span
	Kind   string
}

func (p *Paragraph) Span() Span { return p.Bounds }
func (t *Table) Span() Span     { return t.Bounds }
func (o *Other) Span() Span     { return o.Bounds }

func (*Paragraph) element() {}
func (*Table) element()     {}
func (*Other) element()     {}

// Snapshot is an immutable, point-in-time view of a document body.
type Snapshot struct {
	DocumentID string
	Content    []Element
}

// FromDocument converts a fetched document into a Snapshot. A document with
// no body yields an empty snapshot.
func FromDocument(doc *docs.Document) *Snapshot {
	if doc == nil {
		return &Snapshot{}
	}
	snap := &Snapshot{DocumentID: doc.DocumentId}
	if doc.Body != nil {
		snap.Content = convertContent(doc.Body.Content)
	}
	return snap
}

func convertContent(content []*docs.StructuralElement) []Element {
	out := make([]Element, 0, len(content))
	for _, se := range content {
		if se == nil {
			continue
		}
		out = append(out, convertElement(se))
	}
	return out
}

func convertElement(se *docs.StructuralElement) Element {
	bounds := Span{Start: se.StartIndex, End: se.EndIndex}
	switch {
	case se.Paragraph != nil:
		p := &Paragraph{Bounds: bounds}
		for _, pe := range se.Paragraph.Elements {
			if pe == nil || pe.TextRun == nil {
				continue
			}
			p.Runs = append(p.Runs, Run{
				Span: Span{Start: pe.StartIndex, End: pe.EndIndex},
				Text: pe.TextRun.Content,
			})
		}
		return p
	case se.Table != nil:
		t := &Table{Bounds: bounds}
		for _, row := range se.Table.TableRows {
			if row == nil {
				continue
			}
			cells := make([]Cell, 0, len(row.TableCells))
			for _, cell := range row.TableCells {
				if cell == nil {
					continue
				}
				cells = append(cells, Cell{
					Bounds:  Span{Start: cell.StartIndex, End: cell.EndIndex},
					Content: convertContent(cell.Content),
				})
			}
			t.Rows = append(t.Rows, cells)
		}
		return t
	case se.SectionBreak != nil:
		return &Other{Bounds: bounds, Kind: "sectionBreak"}
	case se.TableOfContents != nil:
		return &Other{Bounds: bounds, Kind: "tableOfContents"}
	default:
		return &Other{Bounds: bounds, Kind: "unknown"}
	}
}
