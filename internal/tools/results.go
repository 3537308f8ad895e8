package tools

import (
	"github.com/codefionn/docsmcp/internal/docerr"
	"github.com/codefionn/docsmcp/internal/gdocs"
	"github.com/codefionn/docsmcp/internal/logger"
)

// errorResult turns err into a failed ToolResult. Errors that are not the
// caller's doing are reported as internal.
func errorResult(tool string, err error, documentID string) *ToolResult {
	kind := docerr.KindOf(err)
	msg := err.Error()
	if !docerr.IsUserFacing(err) {
		logger.Error("%s: %v", tool, err)
		msg = "internal error: " + msg
	} else {
		logger.Debug("%s: %v", tool, err)
	}
	return &ToolResult{
		Error: msg,
		ExecutionMetadata: &ExecutionMetadata{
			DocumentID: documentID,
			ErrorType:  string(kind),
		},
	}
}

// editResult reports a completed or skipped edit.
func editResult(res *gdocs.Result, message string) *ToolResult {
	out := map[string]interface{}{
		"document_id": res.DocumentID,
		"message":     message,
	}
	if res.NoOp {
		out["status"] = string(docerr.KindNoOp)
		out["message"] = "Nothing to apply: no style options were given."
	} else {
		out["status"] = "OK"
		out["replies"] = res.Replies
	}
	if res.Range.EndIndex > 0 {
		out["range"] = res.Range
	}
	if len(res.Fields) > 0 {
		out["fields"] = res.Fields
	}
	return &ToolResult{
		Result:            out,
		ExecutionMetadata: &ExecutionMetadata{DocumentID: res.DocumentID},
	}
}
