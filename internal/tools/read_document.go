package tools

import (
	"context"
	"unicode/utf8"

	"github.com/codefionn/docsmcp/internal/gdocs"
	"github.com/codefionn/docsmcp/internal/render"
)

// ReadDocumentSpec is the static specification of the read_document tool.
type ReadDocumentSpec struct{}

func (s *ReadDocumentSpec) Name() string {
	return ToolNameReadDocument
}

func (s *ReadDocumentSpec) Description() string {
	return "Read a Google Doc as plain text, Markdown, or a JSON outline of its structure with native start/end indices. Use the json format to find indices for insert_text, delete_range and styling."
}

func (s *ReadDocumentSpec) Parameters() map[string]interface{} {
	return objectSchema([]string{paramDocumentID}, map[string]interface{}{
		paramDocumentID: documentIDProp(),
		"format":        enumProp("Output format (default text)", []string{"text", "markdown", "json"}),
		"max_length":    integerProp("Truncate the output to this many characters (0 = server default)", 0),
	})
}

// ReadDocumentExecutor fetches and renders documents.
type ReadDocumentExecutor struct {
	editor    *gdocs.Editor
	maxLength int
}

// NewReadDocumentExecutor creates an executor. maxLength 0 disables the
// default truncation.
func NewReadDocumentExecutor(editor *gdocs.Editor, maxLength int) *ReadDocumentExecutor {
	return &ReadDocumentExecutor{editor: editor, maxLength: maxLength}
}

// NewReadDocumentFactory creates a factory for the read_document executor.
func NewReadDocumentFactory(editor *gdocs.Editor, maxLength int) ToolFactory {
	return func(reg *Registry) ToolExecutor {
		return NewReadDocumentExecutor(editor, maxLength)
	}
}

func (e *ReadDocumentExecutor) Execute(ctx context.Context, params map[string]interface{}) *ToolResult {
	documentID, err := requireString(params, paramDocumentID)
	if err != nil {
		return errorResult(ToolNameReadDocument, err, "")
	}
	format, err := render.ParseFormat(GetStringParam(params, "format", ""))
	if err != nil {
		return errorResult(ToolNameReadDocument, err, documentID)
	}
	limit, _, err := optionalInt(params, "max_length")
	if err != nil {
		return errorResult(ToolNameReadDocument, err, documentID)
	}
	if limit < 0 {
		return errorResult(ToolNameReadDocument, invalidParam("max_length must not be negative"), documentID)
	}
	if limit == 0 {
		limit = int64(e.maxLength)
	}

	doc, err := e.editor.Fetch(ctx, documentID, "")
	if err != nil {
		return errorResult(ToolNameReadDocument, err, documentID)
	}
	content, err := render.Document(doc, format)
	if err != nil {
		return errorResult(ToolNameReadDocument, err, documentID)
	}
	total := utf8.RuneCountInString(content)
	content = render.Truncate(content, int(limit))

	return &ToolResult{
		Result: map[string]interface{}{
			"document_id": documentID,
			"title":       doc.Title,
			"format":      string(format),
			"content":     content,
			"length":      total,
		},
		ExecutionMetadata: &ExecutionMetadata{DocumentID: documentID},
	}
}
