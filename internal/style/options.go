package style

import (
	"strings"

	"github.com/codefionn/docsmcp/internal/docerr"
	"google.golang.org/api/docs/v1"
)

var (
	alignments = []string{"START", "CENTER", "END", "JUSTIFIED"}

	namedStyleTypes = []string{
		"NORMAL_TEXT", "TITLE", "SUBTITLE",
		"HEADING_1", "HEADING_2", "HEADING_3", "HEADING_4", "HEADING_5", "HEADING_6",
	}
)

// Alignments lists the accepted paragraph alignments.
func Alignments() []string { return append([]string(nil), alignments...) }

// NamedStyleTypes lists the accepted named paragraph styles.
func NamedStyleTypes() []string { return append([]string(nil), namedStyleTypes...) }

type textOption = option[TextOptions, docs.TextStyle]

type paragraphOption = option[ParagraphOptions, docs.ParagraphStyle]

var textOptions = []textOption{
	{name: "bold", field: "bold", apply: func(o *TextOptions, s *docs.TextStyle) (bool, error) {
		if o.Bold == nil {
			return false, nil
		}
		s.Bold = *o.Bold
		s.ForceSendFields = append(s.ForceSendFields, "Bold")
		return true, nil
	}},
	{name: "italic", field: "italic", apply: func(o *TextOptions, s *docs.TextStyle) (bool, error) {
		if o.Italic == nil {
			return false, nil
		}
		s.Italic = *o.Italic
		s.ForceSendFields = append(s.ForceSendFields, "Italic")
		return true, nil
	}},
	{name: "underline", field: "underline", apply: func(o *TextOptions, s *docs.TextStyle) (bool, error) {
		if o.Underline == nil {
			return false, nil
		}
		s.Underline = *o.Underline
		s.ForceSendFields = append(s.ForceSendFields, "Underline")
		return true, nil
	}},
	{name: "strikethrough", field: "strikethrough", apply: func(o *TextOptions, s *docs.TextStyle) (bool, error) {
		if o.Strikethrough == nil {
			return false, nil
		}
		s.Strikethrough = *o.Strikethrough
		s.ForceSendFields = append(s.ForceSendFields, "Strikethrough")
		return true, nil
	}},
	{name: "fontSize", field: "fontSize", apply: func(o *TextOptions, s *docs.TextStyle) (bool, error) {
		if o.FontSize == nil {
			return false, nil
		}
		if *o.FontSize <= 0 {
			return false, invalid("fontSize", "must be positive, got %g", *o.FontSize)
		}
		s.FontSize = points(*o.FontSize)
		return true, nil
	}},
	{name: "fontFamily", field: "weightedFontFamily", apply: func(o *TextOptions, s *docs.TextStyle) (bool, error) {
		if o.FontFamily == nil {
			return false, nil
		}
		family := strings.TrimSpace(*o.FontFamily)
		if family == "" {
			return false, invalid("fontFamily", "must not be empty")
		}
		s.WeightedFontFamily = &docs.WeightedFontFamily{FontFamily: family}
		return true, nil
	}},
	{name: "foregroundColor", field: "foregroundColor", apply: func(o *TextOptions, s *docs.TextStyle) (bool, error) {
		if o.ForegroundColor == nil {
			return false, nil
		}
		c, err := ParseHexColor(*o.ForegroundColor)
		if err != nil {
			return false, docerr.New(docerr.KindInvalidColor, "foregroundColor: %v", err)
		}
		s.ForegroundColor = c.optionalColor()
		return true, nil
	}},
	{name: "backgroundColor", field: "backgroundColor", apply: func(o *TextOptions, s *docs.TextStyle) (bool, error) {
		if o.BackgroundColor == nil {
			return false, nil
		}
		c, err := ParseHexColor(*o.BackgroundColor)
		if err != nil {
			return false, docerr.New(docerr.KindInvalidColor, "backgroundColor: %v", err)
		}
		s.BackgroundColor = c.optionalColor()
		return true, nil
	}},
	{name: "linkUrl", field: "link", apply: func(o *TextOptions, s *docs.TextStyle) (bool, error) {
		if o.LinkURL == nil {
			return false, nil
		}
		// A masked link with no value clears any existing link.
		if url := strings.TrimSpace(*o.LinkURL); url != "" {
			s.Link = &docs.Link{Url: url}
		}
		return true, nil
	}},
}

var paragraphOptions = []paragraphOption{
	{name: "alignment", field: "alignment", apply: func(o *ParagraphOptions, s *docs.ParagraphStyle) (bool, error) {
		if o.Alignment == nil {
			return false, nil
		}
		v, ok := oneOf(*o.Alignment, alignments)
		if !ok {
			return false, invalid("alignment", "%q is not one of %s", *o.Alignment, strings.Join(alignments, ", "))
		}
		s.Alignment = v
		return true, nil
	}},
	{name: "indentStart", field: "indentStart", apply: func(o *ParagraphOptions, s *docs.ParagraphStyle) (bool, error) {
		if o.IndentStart == nil {
			return false, nil
		}
		if *o.IndentStart < 0 {
			return false, invalid("indentStart", "must not be negative, got %g", *o.IndentStart)
		}
		s.IndentStart = points(*o.IndentStart)
		return true, nil
	}},
	{name: "indentEnd", field: "indentEnd", apply: func(o *ParagraphOptions, s *docs.ParagraphStyle) (bool, error) {
		if o.IndentEnd == nil {
			return false, nil
		}
		if *o.IndentEnd < 0 {
			return false, invalid("indentEnd", "must not be negative, got %g", *o.IndentEnd)
		}
		s.IndentEnd = points(*o.IndentEnd)
		return true, nil
	}},
	{name: "spaceAbove", field: "spaceAbove", apply: func(o *ParagraphOptions, s *docs.ParagraphStyle) (bool, error) {
		if o.SpaceAbove == nil {
			return false, nil
		}
		if *o.SpaceAbove < 0 {
			return false, invalid("spaceAbove", "must not be negative, got %g", *o.SpaceAbove)
		}
		s.SpaceAbove = points(*o.SpaceAbove)
		return true, nil
	}},
	{name: "spaceBelow", field: "spaceBelow", apply: func(o *ParagraphOptions, s *docs.ParagraphStyle) (bool, error) {
		if o.SpaceBelow == nil {
			return false, nil
		}
		if *o.SpaceBelow < 0 {
			return false, invalid("spaceBelow", "must not be negative, got %g", *o.SpaceBelow)
		}
		s.SpaceBelow = points(*o.SpaceBelow)
		return true, nil
	}},
	{name: "namedStyleType", field: "namedStyleType", apply: func(o *ParagraphOptions, s *docs.ParagraphStyle) (bool, error) {
		if o.NamedStyleType == nil {
			return false, nil
		}
		v, ok := oneOf(*o.NamedStyleType, namedStyleTypes)
		if !ok {
			return false, invalid("namedStyleType", "%q is not one of %s", *o.NamedStyleType, strings.Join(namedStyleTypes, ", "))
		}
		s.NamedStyleType = v
		return true, nil
	}},
	{name: "keepWithNext", field: "keepWithNext", apply: func(o *ParagraphOptions, s *docs.ParagraphStyle) (bool, error) {
		if o.KeepWithNext == nil {
			return false, nil
		}
		s.KeepWithNext = *o.KeepWithNext
		s.ForceSendFields = append(s.ForceSendFields, "KeepWithNext")
		return true, nil
	}},
}

func oneOf(v string, allowed []string) (string, bool) {
	up := strings.ToUpper(strings.TrimSpace(v))
	for _, a := range allowed {
		if a == up {
			return a, true
		}
	}
	return "", false
}
