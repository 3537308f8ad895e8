package tools

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/codefionn/docsmcp/internal/gdocs"
	"github.com/codefionn/docsmcp/internal/locate"
)

// AppendTextTool inserts text at the end of a document body.
type AppendTextTool struct {
	editor *gdocs.Editor
}

func NewAppendTextTool(editor *gdocs.Editor) *AppendTextTool {
	return &AppendTextTool{editor: editor}
}

func (t *AppendTextTool) Name() string { return ToolNameAppendText }

func (t *AppendTextTool) Description() string {
	return "Append text to the end of a Google Doc."
}

func (t *AppendTextTool) Parameters() map[string]interface{} {
	return objectSchema([]string{paramDocumentID, paramText}, map[string]interface{}{
		paramDocumentID:    documentIDProp(),
		paramText:          stringProp("Text to append. Use \\n for line breaks."),
		"add_newline_first": boolProp("Start the appended text on a new line (default false)"),
	})
}

func (t *AppendTextTool) Execute(ctx context.Context, params map[string]interface{}) *ToolResult {
	documentID, err := requireString(params, paramDocumentID)
	if err != nil {
		return errorResult(t.Name(), err, "")
	}
	text, err := requireText(params, paramText)
	if err != nil {
		return errorResult(t.Name(), err, documentID)
	}
	if GetBoolParam(params, "add_newline_first", false) && !strings.HasPrefix(text, "\n") {
		text = "\n" + text
	}

	res, err := t.editor.AppendText(ctx, documentID, text)
	if err != nil {
		return errorResult(t.Name(), err, documentID)
	}
	return editResult(res, fmt.Sprintf("Appended %d characters.", utf8.RuneCountInString(text)))
}

// InsertTextTool inserts text at a native index.
type InsertTextTool struct {
	editor *gdocs.Editor
}

func NewInsertTextTool(editor *gdocs.Editor) *InsertTextTool {
	return &InsertTextTool{editor: editor}
}

func (t *InsertTextTool) Name() string { return ToolNameInsertText }

func (t *InsertTextTool) Description() string {
	return "Insert text at a specific index (1-based). Get indices from read_document with format json."
}

func (t *InsertTextTool) Parameters() map[string]interface{} {
	return objectSchema([]string{paramDocumentID, paramText, paramIndex}, map[string]interface{}{
		paramDocumentID: documentIDProp(),
		paramText:       stringProp("Text to insert"),
		paramIndex:      integerProp("Index to insert at (1-based)", 1),
	})
}

func (t *InsertTextTool) Execute(ctx context.Context, params map[string]interface{}) *ToolResult {
	documentID, err := requireString(params, paramDocumentID)
	if err != nil {
		return errorResult(t.Name(), err, "")
	}
	text, err := requireText(params, paramText)
	if err != nil {
		return errorResult(t.Name(), err, documentID)
	}
	index, err := requireInt(params, paramIndex)
	if err != nil {
		return errorResult(t.Name(), err, documentID)
	}

	res, err := t.editor.InsertText(ctx, documentID, index, text)
	if err != nil {
		return errorResult(t.Name(), err, documentID)
	}
	return editResult(res, fmt.Sprintf("Inserted text at index %d.", index))
}

// DeleteRangeTool deletes a native range.
type DeleteRangeTool struct {
	editor *gdocs.Editor
}

func NewDeleteRangeTool(editor *gdocs.Editor) *DeleteRangeTool {
	return &DeleteRangeTool{editor: editor}
}

func (t *DeleteRangeTool) Name() string { return ToolNameDeleteRange }

func (t *DeleteRangeTool) Description() string {
	return "Delete the content between start_index (inclusive) and end_index (exclusive)."
}

func (t *DeleteRangeTool) Parameters() map[string]interface{} {
	return objectSchema([]string{paramDocumentID, paramStartIndex, paramEndIndex}, map[string]interface{}{
		paramDocumentID: documentIDProp(),
		paramStartIndex: integerProp("Start of the range (inclusive, 1-based)", 1),
		paramEndIndex:   integerProp("End of the range (exclusive)", 2),
	})
}

func (t *DeleteRangeTool) Execute(ctx context.Context, params map[string]interface{}) *ToolResult {
	documentID, err := requireString(params, paramDocumentID)
	if err != nil {
		return errorResult(t.Name(), err, "")
	}
	start, err := requireInt(params, paramStartIndex)
	if err != nil {
		return errorResult(t.Name(), err, documentID)
	}
	end, err := requireInt(params, paramEndIndex)
	if err != nil {
		return errorResult(t.Name(), err, documentID)
	}

	r := locate.Range{StartIndex: start, EndIndex: end}
	res, err := t.editor.DeleteRange(ctx, documentID, r)
	if err != nil {
		return errorResult(t.Name(), err, documentID)
	}
	return editResult(res, fmt.Sprintf("Deleted range %s.", r))
}

// InsertTableTool inserts an empty table.
type InsertTableTool struct {
	editor *gdocs.Editor
}

func NewInsertTableTool(editor *gdocs.Editor) *InsertTableTool {
	return &InsertTableTool{editor: editor}
}

func (t *InsertTableTool) Name() string { return ToolNameInsertTable }

func (t *InsertTableTool) Description() string {
	return "Insert an empty table with the given number of rows and columns at an index."
}

func (t *InsertTableTool) Parameters() map[string]interface{} {
	return objectSchema([]string{paramDocumentID, "rows", "columns", paramIndex}, map[string]interface{}{
		paramDocumentID: documentIDProp(),
		"rows":          integerProp("Number of rows", 1),
		"columns":       integerProp("Number of columns", 1),
		paramIndex:      integerProp("Index to insert the table at (1-based)", 1),
	})
}

func (t *InsertTableTool) Execute(ctx context.Context, params map[string]interface{}) *ToolResult {
	documentID, err := requireString(params, paramDocumentID)
	if err != nil {
		return errorResult(t.Name(), err, "")
	}
	rows, err := requireInt(params, "rows")
	if err != nil {
		return errorResult(t.Name(), err, documentID)
	}
	columns, err := requireInt(params, "columns")
	if err != nil {
		return errorResult(t.Name(), err, documentID)
	}
	index, err := requireInt(params, paramIndex)
	if err != nil {
		return errorResult(t.Name(), err, documentID)
	}

	res, err := t.editor.InsertTable(ctx, documentID, index, rows, columns)
	if err != nil {
		return errorResult(t.Name(), err, documentID)
	}
	return editResult(res, fmt.Sprintf("Inserted a %dx%d table at index %d.", rows, columns, index))
}

// InsertPageBreakTool inserts a page break.
type InsertPageBreakTool struct {
	editor *gdocs.Editor
}

func NewInsertPageBreakTool(editor *gdocs.Editor) *InsertPageBreakTool {
	return &InsertPageBreakTool{editor: editor}
}

func (t *InsertPageBreakTool) Name() string { return ToolNameInsertPageBreak }

func (t *InsertPageBreakTool) Description() string {
	return "Insert a page break at an index."
}

func (t *InsertPageBreakTool) Parameters() map[string]interface{} {
	return objectSchema([]string{paramDocumentID, paramIndex}, map[string]interface{}{
		paramDocumentID: documentIDProp(),
		paramIndex:      integerProp("Index to insert the page break at (1-based)", 1),
	})
}

func (t *InsertPageBreakTool) Execute(ctx context.Context, params map[string]interface{}) *ToolResult {
	documentID, err := requireString(params, paramDocumentID)
	if err != nil {
		return errorResult(t.Name(), err, "")
	}
	index, err := requireInt(params, paramIndex)
	if err != nil {
		return errorResult(t.Name(), err, documentID)
	}

	res, err := t.editor.InsertPageBreak(ctx, documentID, index)
	if err != nil {
		return errorResult(t.Name(), err, documentID)
	}
	return editResult(res, fmt.Sprintf("Inserted a page break at index %d.", index))
}
