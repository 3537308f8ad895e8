package render

import (
	"strings"

	"google.golang.org/api/docs/v1"
)

var headingPrefix = map[string]string{
	"TITLE":     "# ",
	"SUBTITLE":  "## ",
	"HEADING_1": "# ",
	"HEADING_2": "## ",
	"HEADING_3": "### ",
	"HEADING_4": "#### ",
	"HEADING_5": "##### ",
	"HEADING_6": "###### ",
}

var orderedGlyphs = map[string]bool{
	"DECIMAL":      true,
	"ZERO_DECIMAL": true,
	"UPPER_ALPHA":  true,
	"ALPHA":        true,
	"UPPER_ROMAN":  true,
	"ROMAN":        true,
}

// Markdown renders headings, lists, inline emphasis, links and tables.
// Anything without a Markdown equivalent is rendered as plain text.
func Markdown(doc *docs.Document) string {
	if doc == nil || doc.Body == nil {
		return ""
	}
	m := &mdWriter{lists: doc.Lists}
	m.content(doc.Body.Content)
	return strings.TrimRight(m.b.String(), "\n") + "\n"
}

type mdWriter struct {
	b     strings.Builder
	lists map[string]docs.List
}

func (m *mdWriter) content(content []*docs.StructuralElement) {
	for _, se := range content {
		switch {
		case se == nil:
		case se.Paragraph != nil:
			m.paragraph(se.Paragraph)
		case se.Table != nil:
			m.table(se.Table)
		case se.SectionBreak != nil:
		default:
		}
	}
}

func (m *mdWriter) paragraph(p *docs.Paragraph) {
	line := strings.TrimRight(inline(p), "\n")
	if p.Bullet != nil {
		level := p.Bullet.NestingLevel
		marker := "- "
		if m.ordered(p.Bullet) {
			marker = "1. "
		}
		m.b.WriteString(strings.Repeat("  ", int(level)))
		m.b.WriteString(marker)
		m.b.WriteString(line)
		m.b.WriteByte('\n')
		return
	}
	if strings.TrimSpace(line) == "" {
		m.b.WriteByte('\n')
		return
	}
	if p.ParagraphStyle != nil {
		m.b.WriteString(headingPrefix[p.ParagraphStyle.NamedStyleType])
	}
	m.b.WriteString(line)
	m.b.WriteString("\n\n")
}

func (m *mdWriter) ordered(bullet *docs.Bullet) bool {
	list, ok := m.lists[bullet.ListId]
	if !ok || list.ListProperties == nil {
		return false
	}
	levels := list.ListProperties.NestingLevels
	if int(bullet.NestingLevel) >= len(levels) || levels[bullet.NestingLevel] == nil {
		return false
	}
	return orderedGlyphs[levels[bullet.NestingLevel].GlyphType]
}

func (m *mdWriter) table(t *docs.Table) {
	for i, row := range t.TableRows {
		m.b.WriteString("|")
		for _, cell := range row.TableCells {
			m.b.WriteByte(' ')
			m.b.WriteString(cellText(cell))
			m.b.WriteString(" |")
		}
		m.b.WriteByte('\n')
		if i == 0 {
			m.b.WriteString("|")
			m.b.WriteString(strings.Repeat(" --- |", len(row.TableCells)))
			m.b.WriteByte('\n')
		}
	}
	m.b.WriteByte('\n')
}

func cellText(cell *docs.TableCell) string {
	var parts []string
	for _, se := range cell.Content {
		if se != nil && se.Paragraph != nil {
			if s := strings.TrimSpace(inline(se.Paragraph)); s != "" {
				parts = append(parts, s)
			}
		}
	}
	return strings.ReplaceAll(strings.Join(parts, "<br>"), "|", `\|`)
}

func inline(p *docs.Paragraph) string {
	var b strings.Builder
	for _, el := range p.Elements {
		if el == nil || el.TextRun == nil {
			continue
		}
		b.WriteString(styled(el.TextRun.Content, el.TextRun.TextStyle))
	}
	return b.String()
}

// styled wraps the non-space core of s so markers hug the text.
func styled(s string, ts *docs.TextStyle) string {
	if ts == nil {
		return s
	}
	core := strings.TrimSpace(s)
	if core == "" {
		return s
	}
	lead := s[:strings.Index(s, core)]
	trail := s[len(lead)+len(core):]

	if ts.Strikethrough {
		core = "~~" + core + "~~"
	}
	if ts.Italic {
		core = "*" + core + "*"
	}
	if ts.Bold {
		core = "**" + core + "**"
	}
	if ts.Link != nil && ts.Link.Url != "" {
		core = "[" + core + "](" + ts.Link.Url + ")"
	}
	return lead + core + trail
}
