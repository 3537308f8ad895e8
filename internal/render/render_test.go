package render

import (
	"encoding/json"
	"strings"
	"testing"

	"google.golang.org/api/docs/v1"
)

func run(start int64, text string, ts *docs.TextStyle) *docs.ParagraphElement {
	return &docs.ParagraphElement{
		StartIndex: start,
		EndIndex:   start + int64(len(text)),
		TextRun:    &docs.TextRun{Content: text, TextStyle: ts},
	}
}

func paragraph(start int64, named string, elems ...*docs.ParagraphElement) *docs.StructuralElement {
	end := start
	for _, e := range elems {
		end = e.EndIndex
	}
	p := &docs.Paragraph{Elements: elems}
	if named != "" {
		p.ParagraphStyle = &docs.ParagraphStyle{NamedStyleType: named}
	}
	return &docs.StructuralElement{StartIndex: start, EndIndex: end, Paragraph: p}
}

func sampleDocument() *docs.Document {
	cell := func(start int64, text string) *docs.TableCell {
		return &docs.TableCell{
			StartIndex: start,
			EndIndex:   start + int64(len(text)) + 1,
			Content:    []*docs.StructuralElement{paragraph(start+1, "", run(start+1, text, nil))},
		}
	}
	bullet := paragraph(30, "", run(30, "item\n", nil))
	bullet.Paragraph.Bullet = &docs.Bullet{ListId: "list-1"}

	return &docs.Document{
		DocumentId: "doc-1",
		Title:      "Notes",
		RevisionId: "rev-9",
		Lists: map[string]docs.List{
			"list-1": {ListProperties: &docs.ListProperties{
				NestingLevels: []*docs.NestingLevel{{GlyphType: "DECIMAL"}},
			}},
		},
		Body: &docs.Body{Content: []*docs.StructuralElement{
			{EndIndex: 1, SectionBreak: &docs.SectionBreak{}},
			paragraph(1, "HEADING_2", run(1, "Plan\n", nil)),
			paragraph(6, "",
				run(6, "Ship ", nil),
				run(11, "this ", &docs.TextStyle{Bold: true}),
				run(16, "week", &docs.TextStyle{Link: &docs.Link{Url: "https://example.com"}}),
				run(20, ".\n", nil),
			),
			bullet,
			{StartIndex: 35, EndIndex: 50, Table: &docs.Table{
				Rows: 1, Columns: 2,
				TableRows: []*docs.TableRow{{TableCells: []*docs.TableCell{cell(36, "a|b\n"), cell(42, "c\n")}}},
			}},
		}},
	}
}

func TestPlainText(t *testing.T) {
	got := PlainText(sampleDocument())
	want := "Plan\nShip this week.\nitem\na|b\tc\n"
	if got != want {
		t.Errorf("PlainText() = %q; want %q", got, want)
	}
	if PlainText(nil) != "" {
		t.Error("PlainText(nil) should be empty")
	}
}

func TestMarkdown(t *testing.T) {
	got := Markdown(sampleDocument())
	for _, want := range []string{
		"## Plan\n",
		"Ship **this** [week](https://example.com).\n",
		"1. item\n",
		"| a\\|b | c |\n| --- | --- |\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Markdown() = %q; missing %q", got, want)
		}
	}
}

func TestStyledKeepsSurroundingSpace(t *testing.T) {
	tests := []struct {
		in   string
		ts   *docs.TextStyle
		want string
	}{
		{"plain", nil, "plain"},
		{" bold ", &docs.TextStyle{Bold: true}, " **bold** "},
		{"both", &docs.TextStyle{Bold: true, Italic: true}, "***both***"},
		{"gone", &docs.TextStyle{Strikethrough: true}, "~~gone~~"},
		{"   ", &docs.TextStyle{Bold: true}, "   "},
	}
	for _, tt := range tests {
		if got := styled(tt.in, tt.ts); got != tt.want {
			t.Errorf("styled(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestOutline(t *testing.T) {
	out := Outline(sampleDocument())
	if out.DocumentID != "doc-1" || out.RevisionID != "rev-9" {
		t.Errorf("Outline() header = %+v", out)
	}
	if len(out.Elements) != 5 {
		t.Fatalf("len(Elements) = %d; want 5", len(out.Elements))
	}
	if e := out.Elements[1]; e.Type != "paragraph" || e.Style != "HEADING_2" || e.StartIndex != 1 || e.EndIndex != 6 {
		t.Errorf("Elements[1] = %+v", e)
	}
	table := out.Elements[4]
	if table.Type != "table" || table.Rows != 1 || table.Columns != 2 || len(table.Cells) != 2 {
		t.Errorf("table = %+v", table)
	}

	raw, err := StructureJSON(sampleDocument())
	if err != nil {
		t.Fatalf("StructureJSON() error = %v", err)
	}
	var decoded Structure
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		t.Fatalf("StructureJSON() is not JSON: %v", err)
	}
	if decoded.Elements[0].Type != "sectionBreak" {
		t.Errorf("first element = %q; want sectionBreak", decoded.Elements[0].Type)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"hello", 0, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 5, "hello\n... [truncated 6 characters]"},
		{"héllo", 2, "hé\n... [truncated 3 characters]"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.limit); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q; want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"": FormatText, "TEXT": FormatText, "md": FormatMarkdown, "json": FormatJSON}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("pdf"); err == nil {
		t.Error("ParseFormat(pdf) succeeded; want error")
	}
}
