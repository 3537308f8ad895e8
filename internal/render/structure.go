package render

import (
	"encoding/json"

	"google.golang.org/api/docs/v1"
)

const previewRunes = 80

// Structure is a compact outline of a document with native offsets, so an
// agent can pick explicit ranges.
type Structure struct {
	DocumentID string    `json:"documentId"`
	Title      string    `json:"title,omitempty"`
	RevisionID string    `json:"revisionId,omitempty"`
	Elements   []Element `json:"elements"`
}

// Element is one outline entry.
type Element struct {
	Type       string    `json:"type"`
	StartIndex int64     `json:"startIndex"`
	EndIndex   int64     `json:"endIndex"`
	Style      string    `json:"style,omitempty"`
	Text       string    `json:"text,omitempty"`
	Rows       int64     `json:"rows,omitempty"`
	Columns    int64     `json:"columns,omitempty"`
	Cells      []Element `json:"cells,omitempty"`
}

// Outline builds the structure of doc.
func Outline(doc *docs.Document) Structure {
	s := Structure{Elements: []Element{}}
	if doc == nil {
		return s
	}
	s.DocumentID = doc.DocumentId
	s.Title = doc.Title
	s.RevisionID = doc.RevisionId
	if doc.Body != nil {
		s.Elements = outline(doc.Body.Content)
	}
	return s
}

func outline(content []*docs.StructuralElement) []Element {
	out := make([]Element, 0, len(content))
	for _, se := range content {
		if se == nil {
			continue
		}
		el := Element{StartIndex: se.StartIndex, EndIndex: se.EndIndex}
		switch {
		case se.Paragraph != nil:
			el.Type = "paragraph"
			if se.Paragraph.ParagraphStyle != nil {
				el.Style = se.Paragraph.ParagraphStyle.NamedStyleType
			}
			el.Text = Truncate(paragraphText(se.Paragraph), previewRunes)
		case se.Table != nil:
			el.Type = "table"
			el.Rows = se.Table.Rows
			el.Columns = se.Table.Columns
			for _, row := range se.Table.TableRows {
				for _, cell := range row.TableCells {
					el.Cells = append(el.Cells, Element{
						Type:       "cell",
						StartIndex: cell.StartIndex,
						EndIndex:   cell.EndIndex,
						Cells:      outline(cell.Content),
					})
				}
			}
		case se.SectionBreak != nil:
			el.Type = "sectionBreak"
		case se.TableOfContents != nil:
			el.Type = "tableOfContents"
		default:
			el.Type = "other"
		}
		out = append(out, el)
	}
	return out
}

// StructureJSON renders Outline(doc) as indented JSON.
func StructureJSON(doc *docs.Document) (string, error) {
	data, err := json.MarshalIndent(Outline(doc), "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
