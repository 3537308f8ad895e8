package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/codefionn/docsmcp/internal/docerr"
	"github.com/codefionn/docsmcp/internal/gdocs"
	"github.com/codefionn/docsmcp/internal/logger"
)

// ApplyTextStyleTool styles characters in a range or a found text match.
type ApplyTextStyleTool struct {
	editor *gdocs.Editor
}

func NewApplyTextStyleTool(editor *gdocs.Editor) *ApplyTextStyleTool {
	return &ApplyTextStyleTool{editor: editor}
}

func (t *ApplyTextStyleTool) Name() string { return ToolNameApplyTextStyle }

func (t *ApplyTextStyleTool) Description() string {
	return `Apply character formatting (bold, italic, colors, font, link, ...) to text.
Target the text either with start_index/end_index or with text_to_find (+ match_instance for the Nth occurrence).
Only the options present in style are changed.`
}

func (t *ApplyTextStyleTool) Parameters() map[string]interface{} {
	props := targetSchema(map[string]interface{}{
		paramDocumentID: documentIDProp(),
		paramStyle:      textStyleSchema(),
	}, false)
	return objectSchema([]string{paramDocumentID, paramStyle}, props)
}

func (t *ApplyTextStyleTool) Execute(ctx context.Context, params map[string]interface{}) *ToolResult {
	documentID, err := requireString(params, paramDocumentID)
	if err != nil {
		return errorResult(t.Name(), err, "")
	}
	target, err := parseTarget(params, false)
	if err != nil {
		return errorResult(t.Name(), err, documentID)
	}
	opts, err := parseTextOptions(params)
	if err != nil {
		return errorResult(t.Name(), err, documentID)
	}

	logger.Debug("%s: document=%s target=%s", t.Name(), documentID, target)
	res, err := t.editor.StyleText(ctx, documentID, target, opts)
	if err != nil {
		return errorResult(t.Name(), err, documentID)
	}
	return editResult(res, fmt.Sprintf("Applied %s to %s.", strings.Join(res.Fields, ", "), res.Range))
}

// ApplyParagraphStyleTool styles whole paragraphs.
type ApplyParagraphStyleTool struct {
	editor *gdocs.Editor
}

func NewApplyParagraphStyleTool(editor *gdocs.Editor) *ApplyParagraphStyleTool {
	return &ApplyParagraphStyleTool{editor: editor}
}

func (t *ApplyParagraphStyleTool) Name() string { return ToolNameApplyParagraphStyle }

func (t *ApplyParagraphStyleTool) Description() string {
	return `Apply paragraph formatting (alignment, indents, spacing, heading style, keep-with-next).
Target with start_index/end_index, with text_to_find (+ match_instance), or with index_within_paragraph.
text_to_find and index_within_paragraph style the whole paragraph that contains them.`
}

func (t *ApplyParagraphStyleTool) Parameters() map[string]interface{} {
	props := targetSchema(map[string]interface{}{
		paramDocumentID: documentIDProp(),
		paramStyle:      paragraphStyleSchema(),
	}, true)
	return objectSchema([]string{paramDocumentID, paramStyle}, props)
}

func (t *ApplyParagraphStyleTool) Execute(ctx context.Context, params map[string]interface{}) *ToolResult {
	documentID, err := requireString(params, paramDocumentID)
	if err != nil {
		return errorResult(t.Name(), err, "")
	}
	target, err := parseTarget(params, true)
	if err != nil {
		return errorResult(t.Name(), err, documentID)
	}
	opts, err := parseParagraphOptions(params)
	if err != nil {
		return errorResult(t.Name(), err, documentID)
	}

	logger.Debug("%s: document=%s target=%s", t.Name(), documentID, target)
	res, err := t.editor.StyleParagraph(ctx, documentID, target, opts)
	if err != nil {
		return errorResult(t.Name(), err, documentID)
	}
	return editResult(res, fmt.Sprintf("Applied %s to paragraph %s.", strings.Join(res.Fields, ", "), res.Range))
}

// unimplementedTool is registered for operations the server advertises but
// does not perform yet, so clients get a clear answer instead of "not found".
type unimplementedTool struct {
	name        string
	description string
	params      map[string]interface{}
	reason      string
}

func (t *unimplementedTool) Name() string                       { return t.name }
func (t *unimplementedTool) Description() string                { return t.description }
func (t *unimplementedTool) Parameters() map[string]interface{} { return t.params }

func (t *unimplementedTool) Execute(_ context.Context, params map[string]interface{}) *ToolResult {
	return errorResult(t.name,
		docerr.New(docerr.KindUnimplemented, "%s is not implemented: %s", t.name, t.reason),
		GetStringParam(params, paramDocumentID, ""))
}

// NewFindElementTool returns the placeholder for style-based element search.
func NewFindElementTool() Tool {
	return &unimplementedTool{
		name:        ToolNameFindElement,
		description: "Find elements by text or style (not implemented yet; use read_document with format json).",
		params: objectSchema([]string{paramDocumentID}, map[string]interface{}{
			paramDocumentID: documentIDProp(),
			"text_query":    stringProp("Text the element contains"),
			"element_type":  enumProp("Element kind", []string{"paragraph", "table", "list", "heading"}),
		}),
		reason: "searching by style attributes is not supported; read the document as json and filter locally",
	}
}

// NewFixListFormattingTool returns the placeholder for list auto-detection.
func NewFixListFormattingTool() Tool {
	return &unimplementedTool{
		name:        ToolNameFixListFormatting,
		description: "Convert text that looks like a list into real bullet lists (not implemented yet).",
		params: objectSchema([]string{paramDocumentID}, map[string]interface{}{
			paramDocumentID: documentIDProp(),
		}),
		reason: "list detection is not available",
	}
}
