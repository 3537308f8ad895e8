package drivefs

import (
	"context"
	"fmt"
	"strings"

	"github.com/codefionn/docsmcp/internal/docerr"
	"github.com/codefionn/docsmcp/internal/htmlconv"
)

// ExportFormat names a supported export rendering.
type ExportFormat string

const (
	ExportMarkdown ExportFormat = "markdown"
	ExportText     ExportFormat = "text"
	ExportHTML     ExportFormat = "html"
)

// ParseExportFormat accepts the export format names case-insensitively.
// Empty selects markdown.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", "md":
		return ExportMarkdown, nil
	case ExportMarkdown, ExportText, ExportHTML:
		return f, nil
	default:
		return "", docerr.New(docerr.KindInvalidArgument, "unknown export format %q (want markdown, text or html)", s)
	}
}

// ExportDocument exports a document as text. Markdown is derived from the
// HTML export.
func (s *Service) ExportDocument(ctx context.Context, documentID string, format ExportFormat) (string, error) {
	switch format {
	case ExportText:
		data, err := s.Export(ctx, documentID, MimePlain)
		if err != nil {
			return "", err
		}
		// Plain text exports start with a byte order mark.
		return strings.TrimPrefix(string(data), "\ufeff"), nil
	case ExportHTML, ExportMarkdown:
		data, err := s.Export(ctx, documentID, MimeHTML)
		if err != nil {
			return "", err
		}
		if format == ExportHTML {
			return string(data), nil
		}
		md, err := htmlconv.ToMarkdown(string(data))
		if err != nil {
			return "", fmt.Errorf("export %s: %w", documentID, err)
		}
		return md, nil
	default:
		return "", docerr.New(docerr.KindInvalidArgument, "unknown export format %q", format)
	}
}
