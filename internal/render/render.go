// Package render turns a fetched document into text an agent can read.
package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/codefionn/docsmcp/internal/docerr"
	"google.golang.org/api/docs/v1"
)

// Format selects a rendering.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat accepts the format names case-insensitively. Empty selects text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", docerr.New(docerr.KindInvalidArgument, "unknown format %q (want text, markdown or json)", s)
	}
}

// Document renders doc in the given format.
func Document(doc *docs.Document, f Format) (string, error) {
	switch f {
	case FormatText:
		return PlainText(doc), nil
	case FormatMarkdown:
		return Markdown(doc), nil
	case FormatJSON:
		return StructureJSON(doc)
	default:
		return "", fmt.Errorf("unknown format %q", f)
	}
}

// PlainText concatenates every text run in document order. Table cells
// are separated by tabs, rows by newlines.
func PlainText(doc *docs.Document) string {
	if doc == nil || doc.Body == nil {
		return ""
	}
	var b strings.Builder
	writePlain(&b, doc.Body.Content)
	return b.String()
}

func writePlain(b *strings.Builder, content []*docs.StructuralElement) {
	for _, se := range content {
		switch {
		case se == nil:
		case se.Paragraph != nil:
			b.WriteString(paragraphText(se.Paragraph))
		case se.Table != nil:
			for _, row := range se.Table.TableRows {
				for i, cell := range row.TableCells {
					if i > 0 {
						b.WriteByte('\t')
					}
					var cb strings.Builder
					writePlain(&cb, cell.Content)
					b.WriteString(strings.TrimRight(cb.String(), "\n"))
				}
				b.WriteByte('\n')
			}
		}
	}
}

func paragraphText(p *docs.Paragraph) string {
	var b strings.Builder
	for _, el := range p.Elements {
		if el != nil && el.TextRun != nil {
			b.WriteString(el.TextRun.Content)
		}
	}
	return b.String()
}

// Truncate cuts s to at most limit runes and notes how much was dropped.
// limit <= 0 disables truncation.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	n := utf8.RuneCountInString(s)
	if n <= limit {
		return s
	}
	cut, seen := 0, 0
	for i := range s {
		if seen == limit {
			cut = i
			break
		}
		seen++
	}
	return fmt.Sprintf("%s\n... [truncated %d characters]", s[:cut], n-limit)
}
